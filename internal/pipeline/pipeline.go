// Package pipeline drives each source item through fetch, generation,
// translation, illustration and publish, with per-item state tracked in
// the job store so completed items are never reprocessed.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/darijapress/darijapress/internal/domain"
	"github.com/darijapress/darijapress/internal/fetcher"
	"github.com/darijapress/darijapress/internal/logger"
	"github.com/darijapress/darijapress/internal/metrics"
	"github.com/darijapress/darijapress/internal/social"
	"github.com/darijapress/darijapress/internal/storage"
)

const (
	requiredComicPages = 4
	comicAspectRatio   = "3:4"
	dateLayout         = "2006-01-02"
)

// Fetcher loads the listing and individual articles.
type Fetcher interface {
	FetchListing(ctx context.Context) ([]domain.SourceItem, error)
	FetchArticle(ctx context.Context, url string) (*domain.ArticleBody, string, error)
}

// Generator is the slice of the AI client the pipeline calls.
type Generator interface {
	GenerateBlog(ctx context.Context, model string, bundle *domain.SourceBundle) (string, error)
	TranslateDarija(ctx context.Context, model, markdown string) (string, error)
	GenerateComicPrompts(ctx context.Context, model, blogText string) (string, error)
	GenerateIllustration(ctx context.Context, model, prompt, aspectRatio string) ([]byte, string, error)
}

// JobStore tracks per-item lifecycle.
type JobStore interface {
	WasCompleted(ctx context.Context, sourceURL string) (bool, error)
	MarkStarted(ctx context.Context, sourceURL, sourceTitle string) error
	MarkCompleted(ctx context.Context, sourceURL, outputPrefix string) error
	MarkFailed(ctx context.Context, sourceURL, errorText string) error
}

// Publisher is the durable artifact sink.
type Publisher interface {
	PutText(ctx context.Context, relKey, content, contentType string) (string, error)
	PutBytes(ctx context.Context, relKey string, content []byte, contentType string) (string, error)
}

// Config holds pipeline settings.
type Config struct {
	MaxItems        int
	BlogModel       string
	DarijaModel     string
	PromptModel     string
	ImageModel      string
	BlogBaseURL     string
	PostURLTemplate string
}

// Pipeline runs one batch over the current listing.
type Pipeline struct {
	fetcher Fetcher
	ai      Generator
	jobs    JobStore
	staging *storage.Staging
	store   Publisher
	// drafter is nil when the social stage is disabled.
	drafter *social.Drafter
	metrics *metrics.Metrics
	cfg     Config
	logger  logger.Logger
	now     func() time.Time
}

// New creates a Pipeline. drafter and m may be nil.
func New(
	fetcher Fetcher,
	ai Generator,
	jobs JobStore,
	staging *storage.Staging,
	store Publisher,
	drafter *social.Drafter,
	m *metrics.Metrics,
	cfg Config,
	log logger.Logger,
) *Pipeline {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Pipeline{
		fetcher: fetcher,
		ai:      ai,
		jobs:    jobs,
		staging: staging,
		store:   store,
		drafter: drafter,
		metrics: m,
		cfg:     cfg,
		logger:  log,
		now:     time.Now,
	}
}

// Run processes one batch and returns how many items completed. One item's
// failure is recorded and skipped over; it never aborts the batch.
func (p *Pipeline) Run(ctx context.Context) (int, error) {
	start := time.Now()
	today := p.now().UTC().Format(dateLayout)
	log := p.logger.With(logger.String("batch_id", uuid.NewString()))

	listing, err := p.fetcher.FetchListing(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch listing: %w", err)
	}
	candidates := fetcher.PickCandidates(listing, p.cfg.MaxItems)
	log.Info("listing fetched",
		logger.Int("total", len(listing)),
		logger.Int("candidates", len(candidates)),
		logger.Duration("elapsed", time.Since(start)),
	)

	processed := 0
	var promotable []social.Candidate

	for _, item := range candidates {
		if item.URL == "" {
			continue
		}

		completed, checkErr := p.jobs.WasCompleted(ctx, item.URL)
		if checkErr != nil {
			return processed, fmt.Errorf("check completion for %s: %w", item.URL, checkErr)
		}
		if completed {
			log.Info("skip completed", logger.String("url", item.URL))
			p.countItem("skipped")
			continue
		}

		if startErr := p.jobs.MarkStarted(ctx, item.URL, item.Title); startErr != nil {
			return processed, fmt.Errorf("mark started for %s: %w", item.URL, startErr)
		}

		itemStart := time.Now()
		candidate, itemErr := p.processItem(ctx, today, item)
		if itemErr != nil {
			log.Error("item failed", logger.String("url", item.URL), logger.Error(itemErr))
			p.countItem("failed")
			if failErr := p.jobs.MarkFailed(ctx, item.URL, itemErr.Error()); failErr != nil {
				log.Error("mark failed", logger.String("url", item.URL), logger.Error(failErr))
			}
			continue
		}

		processed++
		promotable = append(promotable, *candidate)
		p.countItem("completed")
		if p.metrics != nil {
			p.metrics.ItemDuration.Observe(time.Since(itemStart).Seconds())
		}
		log.Info("item done",
			logger.String("url", item.URL),
			logger.Duration("elapsed", time.Since(itemStart)),
		)
	}

	if p.drafter != nil {
		if draftErr := p.drafter.Run(ctx, today, promotable); draftErr != nil {
			log.Error("social draft failed", logger.Error(draftErr))
			return processed, fmt.Errorf("social draft: %w", draftErr)
		}
	}

	log.Info("batch done", logger.Int("processed", processed))
	return processed, nil
}

type manifest struct {
	SourceURL    string            `json:"source_url"`
	GeneratedAt  int64             `json:"generated_at"`
	Models       map[string]string `json:"models"`
	PageCaptions []string          `json:"page_captions"`
}

func (p *Pipeline) processItem(ctx context.Context, today string, item domain.SourceItem) (*social.Candidate, error) {
	slug := Slugify(titleOrURL(item))
	dir := today + "/" + slug
	p.logger.Info("item start", logger.String("url", item.URL), logger.String("slug", slug))

	// Fetch the full article and stage the source bundle.
	stageStart := time.Now()
	article, _, err := p.fetcher.FetchArticle(ctx, item.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch source: %w", err)
	}
	bundle := &domain.SourceBundle{SourceItem: item, Article: article}
	bundleJSON, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal source bundle: %w", err)
	}
	if err = p.staging.WriteText(dir+"/source.json", string(bundleJSON)); err != nil {
		return nil, err
	}
	p.observeStage("fetch", stageStart)

	// Long-form English blog post.
	stageStart = time.Now()
	blogEnglish, err := p.ai.GenerateBlog(ctx, p.cfg.BlogModel, bundle)
	if err != nil {
		return nil, fmt.Errorf("generate blog: %w", err)
	}
	if err = p.staging.WriteText(dir+"/blog_en.md", blogEnglish); err != nil {
		return nil, err
	}
	p.observeStage("blog", stageStart)

	// Darija translation.
	stageStart = time.Now()
	blogDarija, err := p.ai.TranslateDarija(ctx, p.cfg.DarijaModel, blogEnglish)
	if err != nil {
		return nil, fmt.Errorf("translate darija: %w", err)
	}
	if err = p.staging.WriteText(dir+"/blog_darija.md", blogDarija); err != nil {
		return nil, err
	}
	p.observeStage("darija", stageStart)

	// Comic prompt fan-out, with one bounded regeneration when the model
	// truncates its output.
	stageStart = time.Now()
	prompts, err := p.comicPrompts(ctx, dir, blogDarija)
	if err != nil {
		return nil, err
	}
	p.observeStage("prompts", stageStart)

	// One image per prompt; a missing image fails the item.
	stageStart = time.Now()
	pages, captions, err := p.comicPages(ctx, dir, prompts)
	if err != nil {
		return nil, err
	}
	p.observeStage("images", stageStart)

	meta := manifest{
		SourceURL:   item.URL,
		GeneratedAt: p.now().Unix(),
		Models: map[string]string{
			"blog_model":   p.cfg.BlogModel,
			"darija_model": p.cfg.DarijaModel,
			"prompt_model": p.cfg.PromptModel,
			"image_model":  p.cfg.ImageModel,
		},
		PageCaptions: captions,
	}
	metaJSON, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	if err = p.staging.WriteText(dir+"/meta.json", string(metaJSON)); err != nil {
		return nil, err
	}

	stageStart = time.Now()
	if err = p.publish(ctx, dir, pages); err != nil {
		return nil, err
	}
	p.observeStage("publish", stageStart)

	if err = p.jobs.MarkCompleted(ctx, item.URL, dir); err != nil {
		return nil, fmt.Errorf("mark completed: %w", err)
	}

	blogURL := BuildBlogURL(p.cfg.BlogBaseURL, p.cfg.PostURLTemplate, today, slug)
	if blogURL == "" {
		blogURL = item.URL
	}
	return &social.Candidate{
		Title:      item.Title,
		SourceURL:  item.URL,
		Slug:       slug,
		BlogURL:    blogURL,
		Summary:    item.Description,
		Tags:       item.Tags,
		StagingDir: dir,
	}, nil
}

func (p *Pipeline) comicPrompts(ctx context.Context, dir, blogDarija string) ([]string, error) {
	raw, err := p.ai.GenerateComicPrompts(ctx, p.cfg.PromptModel, blogDarija)
	if err != nil {
		return nil, fmt.Errorf("generate comic prompts: %w", err)
	}
	if err = p.staging.WriteText(dir+"/comic_prompts.md", raw); err != nil {
		return nil, err
	}

	prompts := ExtractTxtBlocks(raw)
	if len(prompts) < requiredComicPages {
		p.logger.Warn("comic prompts incomplete", logger.Int("found", len(prompts)))

		raw, err = p.ai.GenerateComicPrompts(ctx, p.cfg.PromptModel, blogDarija)
		if err != nil {
			return nil, fmt.Errorf("regenerate comic prompts: %w", err)
		}
		if err = p.staging.WriteText(dir+"/comic_prompts_retry.md", raw); err != nil {
			return nil, err
		}
		if err = p.staging.WriteText(dir+"/comic_prompts.md", raw); err != nil {
			return nil, err
		}
		prompts = ExtractTxtBlocks(raw)
	}

	if len(prompts) < requiredComicPages {
		return nil, fmt.Errorf("expected %d comic prompts, got %d", requiredComicPages, len(prompts))
	}
	return prompts[:requiredComicPages], nil
}

func (p *Pipeline) comicPages(ctx context.Context, dir string, prompts []string) ([][]byte, []string, error) {
	pages := make([][]byte, 0, len(prompts))
	captions := make([]string, 0, len(prompts))

	for i, prompt := range prompts {
		page := i + 1
		img, caption, err := p.ai.GenerateIllustration(ctx, p.cfg.ImageModel, prompt, comicAspectRatio)
		if err != nil {
			return nil, nil, fmt.Errorf("generate page %d: %w", page, err)
		}
		if len(img) == 0 {
			return nil, nil, fmt.Errorf("image generation returned no bytes for page %d", page)
		}

		if err = p.staging.WriteBytes(fmt.Sprintf("%s/comic_page_%d.png", dir, page), img); err != nil {
			return nil, nil, err
		}
		pages = append(pages, img)
		captions = append(captions, caption)
		p.logger.Info("page generated", logger.Int("page", page), logger.Int("bytes", len(img)))
	}

	return pages, captions, nil
}

func (p *Pipeline) publish(ctx context.Context, dir string, pages [][]byte) error {
	texts := []struct {
		name        string
		contentType string
	}{
		{"source.json", "application/json"},
		{"blog_en.md", "text/markdown; charset=utf-8"},
		{"blog_darija.md", "text/markdown; charset=utf-8"},
		{"comic_prompts.md", "text/markdown; charset=utf-8"},
		{"meta.json", "application/json"},
	}

	var keys []string
	for _, t := range texts {
		content, err := p.staging.ReadText(dir + "/" + t.name)
		if err != nil {
			return err
		}
		key, err := p.store.PutText(ctx, dir+"/"+t.name, content, t.contentType)
		if err != nil {
			return fmt.Errorf("publish %s: %w", t.name, err)
		}
		keys = append(keys, key)
	}

	for i, img := range pages {
		name := fmt.Sprintf("comic_page_%d.png", i+1)
		key, err := p.store.PutBytes(ctx, dir+"/"+name, img, "image/png")
		if err != nil {
			return fmt.Errorf("publish %s: %w", name, err)
		}
		keys = append(keys, key)
	}

	p.logger.Info("published", logger.String("prefix", dir), logger.Strings("keys", keys))
	return nil
}

func (p *Pipeline) observeStage(stage string, start time.Time) {
	if p.metrics != nil {
		p.metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	}
}

func (p *Pipeline) countItem(outcome string) {
	if p.metrics != nil {
		p.metrics.ItemsProcessed.WithLabelValues(outcome).Inc()
	}
}

func titleOrURL(item domain.SourceItem) string {
	if item.Title != "" {
		return item.Title
	}
	return item.URL
}
