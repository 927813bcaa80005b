package aiclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/darijapress/darijapress/internal/domain"
)

// SocialCandidate is the lightweight per-item summary offered to the
// best-pick selection call.
type SocialCandidate struct {
	Title     string `json:"title"`
	SourceURL string `json:"source_url"`
	BlogURL   string `json:"blog_url"`
	Summary   string `json:"summary"`
	Tags      string `json:"tags"`
}

// DraftInput carries everything the final social copy generation needs.
type DraftInput struct {
	BlogDarija     string
	BlogEnglish    string
	TemplateNumber int
	TemplatesText  string
	LinkURL        string
	Brand          string
}

// GenerateBlog writes a long-form English blog post in Markdown from the
// fetched source bundle. An empty return means the model produced no
// usable text; the caller decides whether that fails the item.
func (c *Client) GenerateBlog(ctx context.Context, model string, bundle *domain.SourceBundle) (string, error) {
	var text string
	if bundle.Article != nil {
		text = bundle.Article.Text
	}

	resp, err := c.Chat(ctx, &Request{
		Model: model,
		Messages: []Message{{
			Role:    "user",
			Content: blogPrompt(bundle.Title, bundle.URL, bundle.Description, text),
		}},
	})
	if err != nil {
		return "", fmt.Errorf("generate blog: %w", err)
	}
	return resp.Text(), nil
}

// TranslateDarija converts the Markdown blog post into Moroccan Darija,
// preserving Markdown structure, URLs and code blocks.
func (c *Client) TranslateDarija(ctx context.Context, model, markdown string) (string, error) {
	resp, err := c.Chat(ctx, &Request{
		Model:    model,
		Messages: []Message{{Role: "user", Content: darijaPrompt(markdown)}},
	})
	if err != nil {
		return "", fmt.Errorf("translate darija: %w", err)
	}
	return resp.Text(), nil
}

// GenerateComicPrompts asks for four standalone comic-page image prompts,
// each in a ```txt fenced block. The raw reply is returned; the caller
// extracts and counts the blocks.
func (c *Client) GenerateComicPrompts(ctx context.Context, model, blogText string) (string, error) {
	resp, err := c.Chat(ctx, &Request{
		Model:    model,
		Messages: []Message{{Role: "user", Content: comicPromptsPrompt(blogText)}},
	})
	if err != nil {
		return "", fmt.Errorf("generate comic prompts: %w", err)
	}
	return resp.Text(), nil
}

// GenerateIllustration requests one image for the given prompt. It returns
// the image bytes (nil when the upstream produced none) and the caption
// text that accompanied the image.
func (c *Client) GenerateIllustration(ctx context.Context, model, prompt, aspectRatio string) ([]byte, string, error) {
	resp, err := c.Chat(ctx, &Request{
		Model:       model,
		Messages:    []Message{{Role: "user", Content: prompt}},
		Modalities:  []string{"image", "text"},
		ImageConfig: &ImageConfig{AspectRatio: aspectRatio},
	})
	if err != nil {
		return nil, "", fmt.Errorf("generate illustration: %w", err)
	}

	return c.ImageBytes(ctx, resp), resp.Text(), nil
}

// PickBestArticle asks which candidate to promote to a social post.
// An empty map means the classification failed; the caller defaults to
// index 0.
func (c *Client) PickBestArticle(ctx context.Context, model string, candidates []SocialCandidate) (map[string]any, error) {
	payload, err := json.Marshal(candidates)
	if err != nil {
		return nil, fmt.Errorf("marshal candidates: %w", err)
	}

	resp, err := c.Chat(ctx, &Request{
		Model:    model,
		Messages: []Message{{Role: "user", Content: pickBestPrompt(string(payload))}},
	})
	if err != nil {
		return nil, fmt.Errorf("pick best article: %w", err)
	}
	return ExtractJSONObject(resp.Text()), nil
}

// PickPostTemplate selects one of the numbered post templates for the blog.
func (c *Client) PickPostTemplate(ctx context.Context, model, blogText, templatesText string) (map[string]any, error) {
	resp, err := c.Chat(ctx, &Request{
		Model:    model,
		Messages: []Message{{Role: "user", Content: pickTemplatePrompt(templatesText, truncate(blogText, 6000))}},
	})
	if err != nil {
		return nil, fmt.Errorf("pick post template: %w", err)
	}
	return ExtractJSONObject(resp.Text()), nil
}

// GeneratePostDraft produces the final structured social copy: post body,
// a separately-delivered link/brand first comment, and hashtags.
func (c *Client) GeneratePostDraft(ctx context.Context, model string, in DraftInput) (map[string]any, error) {
	resp, err := c.Chat(ctx, &Request{
		Model: model,
		Messages: []Message{{
			Role: "user",
			Content: draftPrompt(
				in.TemplateNumber,
				in.TemplatesText,
				truncate(in.BlogDarija, 8000),
				truncate(in.BlogEnglish, 4000),
				in.LinkURL,
				in.Brand,
			),
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("generate post draft: %w", err)
	}
	return ExtractJSONObject(resp.Text()), nil
}

// truncate bounds prompt context by rune count. A byte cut would split the
// Arabic-script text these prompts carry and feed the model a mangled tail.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
