package social

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/darijapress/darijapress/internal/aiclient"
	"github.com/darijapress/darijapress/internal/logger"
	"github.com/darijapress/darijapress/internal/storage"
)

const (
	draftDirName      = "_social"
	draftJSONName     = "draft.json"
	draftMarkdownName = "draft.md"
	templatesFileName = "templates.md"
)

// Generator is the slice of the AI client the draft stage calls.
type Generator interface {
	PickBestArticle(ctx context.Context, model string, candidates []aiclient.SocialCandidate) (map[string]any, error)
	PickPostTemplate(ctx context.Context, model, blogText, templatesText string) (map[string]any, error)
	GeneratePostDraft(ctx context.Context, model string, in aiclient.DraftInput) (map[string]any, error)
}

// Publisher is the slice of the storage sink the draft stage uses.
type Publisher interface {
	PutText(ctx context.Context, relKey, content, contentType string) (string, error)
}

// Candidate is one completed pipeline item eligible for promotion.
type Candidate struct {
	Title     string
	SourceURL string
	Slug      string
	BlogURL   string
	Summary   string
	Tags      string
	// StagingDir is the item's artifact directory relative to the
	// staging root, {date}/{slug}.
	StagingDir string
}

// Config holds draft stage settings.
type Config struct {
	Model  string
	Brand  string
	DryRun bool
}

// Drafter runs the batch-level social post stage: pick the best completed
// item, pick a template, generate structured copy, and persist the draft.
type Drafter struct {
	ai      Generator
	staging *storage.Staging
	store   Publisher
	cfg     Config
	logger  logger.Logger
	now     func() time.Time
}

// NewDrafter creates a Drafter.
func NewDrafter(ai Generator, staging *storage.Staging, store Publisher, cfg Config, log logger.Logger) *Drafter {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Drafter{
		ai:      ai,
		staging: staging,
		store:   store,
		cfg:     cfg,
		logger:  log,
		now:     time.Now,
	}
}

// Run produces at most one draft per batch day. It is idempotent: when the
// draft artifact already exists for the date, or no candidates completed,
// it does nothing.
func (d *Drafter) Run(ctx context.Context, date string, candidates []Candidate) error {
	draftPath := fmt.Sprintf("%s/%s/%s", date, draftDirName, draftJSONName)

	if d.staging.Exists(draftPath) {
		d.logger.Info("social draft already exists", logger.String("path", draftPath))
		return nil
	}
	if len(candidates) == 0 {
		d.logger.Info("social draft skipped", logger.String("reason", "no candidates"))
		return nil
	}

	selectedIndex, pick, err := d.pickCandidate(ctx, candidates)
	if err != nil {
		return err
	}
	selected := candidates[selectedIndex]

	blogDarija, err := d.staging.ReadText(selected.StagingDir + "/blog_darija.md")
	if err != nil {
		return fmt.Errorf("read selected darija text: %w", err)
	}
	blogEnglish, err := d.staging.ReadText(selected.StagingDir + "/blog_en.md")
	if err != nil {
		return fmt.Errorf("read selected english text: %w", err)
	}

	templatePick, err := d.ai.PickPostTemplate(ctx, d.cfg.Model, blogDarija, TemplatesText)
	if err != nil {
		return fmt.Errorf("pick template: %w", err)
	}
	templateNumber := ValidTemplateNumber(aiclient.JSONInt(templatePick, "template_number", DefaultTemplateNumber))

	linkURL := selected.BlogURL
	if linkURL == "" {
		linkURL = selected.SourceURL
	}

	draft, err := d.ai.GeneratePostDraft(ctx, d.cfg.Model, aiclient.DraftInput{
		BlogDarija:     blogDarija,
		BlogEnglish:    blogEnglish,
		TemplateNumber: templateNumber,
		TemplatesText:  TemplatesText,
		LinkURL:        linkURL,
		Brand:          d.cfg.Brand,
	})
	if err != nil {
		return fmt.Errorf("generate draft: %w", err)
	}

	postText := strings.TrimSpace(aiclient.JSONString(draft, "post_text"))
	firstComment := strings.TrimSpace(aiclient.JSONString(draft, "first_comment"))
	if firstComment == "" {
		firstComment = strings.TrimSpace(linkURL + "\n" + d.cfg.Brand)
	}
	hashtags := aiclient.JSONStrings(draft, "hashtags")

	record := map[string]any{
		"dry_run":        d.cfg.DryRun,
		"generated_at":   d.now().Unix(),
		"selected_index": selectedIndex,
		"selected": map[string]any{
			"title":      selected.Title,
			"source_url": selected.SourceURL,
			"blog_url":   selected.BlogURL,
			"slug":       selected.Slug,
		},
		"selection": pick,
		"template":  templatePick,
		"draft": map[string]any{
			"chosen_template_number": aiclient.JSONInt(draft, "chosen_template_number", templateNumber),
			"post_text":              postText,
			"first_comment":          firstComment,
			"hashtags":               hashtags,
		},
	}

	recordJSON, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal draft record: %w", err)
	}
	markdown := renderMarkdown(postText, firstComment, hashtags)

	dir := date + "/" + draftDirName
	if err := d.staging.WriteText(dir+"/"+templatesFileName, TemplatesText); err != nil {
		return err
	}
	if err := d.staging.WriteText(dir+"/"+draftJSONName, string(recordJSON)); err != nil {
		return err
	}
	if err := d.staging.WriteText(dir+"/"+draftMarkdownName, markdown); err != nil {
		return err
	}

	if _, err := d.store.PutText(ctx, dir+"/"+templatesFileName, TemplatesText, "text/markdown; charset=utf-8"); err != nil {
		return fmt.Errorf("publish templates: %w", err)
	}
	if _, err := d.store.PutText(ctx, dir+"/"+draftJSONName, string(recordJSON), "application/json"); err != nil {
		return fmt.Errorf("publish draft json: %w", err)
	}
	if _, err := d.store.PutText(ctx, dir+"/"+draftMarkdownName, markdown, "text/markdown; charset=utf-8"); err != nil {
		return fmt.Errorf("publish draft markdown: %w", err)
	}

	d.logger.Info("social draft generated",
		logger.String("slug", selected.Slug),
		logger.Int("template", templateNumber),
		logger.Bool("dry_run", d.cfg.DryRun),
	)
	return nil
}

func (d *Drafter) pickCandidate(ctx context.Context, candidates []Candidate) (int, map[string]any, error) {
	summaries := make([]aiclient.SocialCandidate, len(candidates))
	for i, c := range candidates {
		summaries[i] = aiclient.SocialCandidate{
			Title:     c.Title,
			SourceURL: c.SourceURL,
			BlogURL:   c.BlogURL,
			Summary:   c.Summary,
			Tags:      c.Tags,
		}
	}

	pick, err := d.ai.PickBestArticle(ctx, d.cfg.Model, summaries)
	if err != nil {
		return 0, nil, fmt.Errorf("pick best article: %w", err)
	}

	index := aiclient.JSONInt(pick, "selected_index", 0)
	if index < 0 || index >= len(candidates) {
		index = 0
	}
	return index, pick, nil
}

// renderMarkdown produces the human-readable draft: the post body, the
// hashtag line, and the separately-delivered first comment.
func renderMarkdown(postText, firstComment string, hashtags []string) string {
	var b strings.Builder
	b.WriteString(postText)

	tags := make([]string, 0, len(hashtags))
	for _, h := range hashtags {
		h = strings.TrimSpace(strings.TrimLeft(h, "#"))
		if h != "" {
			tags = append(tags, "#"+h)
		}
	}
	if len(tags) > 0 {
		b.WriteString("\n\n")
		b.WriteString(strings.Join(tags, " "))
	}

	b.WriteString("\n\n---\n\nFIRST COMMENT:\n")
	b.WriteString(firstComment)
	b.WriteString("\n")
	return b.String()
}
