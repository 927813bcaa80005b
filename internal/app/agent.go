// Package app wires configuration, storage, caches and the pipeline into
// the two runnable applications: the generation agent and the read API.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/robfig/cron/v3"

	"github.com/darijapress/darijapress/internal/aiclient"
	"github.com/darijapress/darijapress/internal/config"
	"github.com/darijapress/darijapress/internal/database"
	"github.com/darijapress/darijapress/internal/fetcher"
	"github.com/darijapress/darijapress/internal/logger"
	"github.com/darijapress/darijapress/internal/metrics"
	"github.com/darijapress/darijapress/internal/pipeline"
	"github.com/darijapress/darijapress/internal/social"
	"github.com/darijapress/darijapress/internal/storage"
)

// Agent is the generation application.
type Agent struct {
	cfg      *config.Config
	logger   logger.Logger
	db       *sqlx.DB
	pipeline *pipeline.Pipeline
}

// NewAgent loads config and builds the full pipeline dependency graph.
func NewAgent(ctx context.Context, configPath string) (*Agent, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err = cfg.ValidateAgent(); err != nil {
		return nil, err
	}

	log, err := logger.NewLogger(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	log = log.With(logger.String("service", "agent"))

	db, err := database.NewPostgresConnection(cfg.Database.DSN)
	if err != nil {
		log.Sync()
		return nil, err
	}
	if err = database.Migrate(ctx, db); err != nil {
		database.Close(db)
		log.Sync()
		return nil, err
	}

	store, err := storage.NewS3Store(ctx, cfg.S3.Bucket, cfg.S3.Prefix, cfg.S3.Region)
	if err != nil {
		database.Close(db)
		log.Sync()
		return nil, err
	}

	fetch := fetcher.NewClient(fetcher.Config{
		ListingURL: cfg.Source.ListingURL,
		Host:       cfg.Source.Host,
		Timeout:    cfg.Source.Timeout,
	}, log)

	ai := aiclient.NewClient(aiclient.Config{
		BaseURL:    cfg.AI.BaseURL,
		APIKey:     cfg.AI.APIKey,
		Timeout:    cfg.AI.Timeout,
		MaxRetries: cfg.AI.MaxRetries,
	}, log)

	staging := storage.NewStaging(cfg.Agent.OutputDir)
	m := metrics.New()
	ai.SetRetryObserver(func() { m.AIRetries.Inc() })

	var drafter *social.Drafter
	if cfg.Social.Enabled {
		drafter = social.NewDrafter(ai, staging, store, social.Config{
			Model:  cfg.AI.SocialModel,
			Brand:  cfg.Social.Brand,
			DryRun: cfg.Social.DryRun,
		}, log)
	}

	p := pipeline.New(fetch, ai, database.NewJobRepository(db), staging, store, drafter, m, pipeline.Config{
		MaxItems:        cfg.Agent.MaxItems,
		BlogModel:       cfg.AI.BlogModel,
		DarijaModel:     cfg.AI.DarijaModel,
		PromptModel:     cfg.AI.PromptModel,
		ImageModel:      cfg.AI.ImageModel,
		BlogBaseURL:     cfg.BlogSite.BaseURL,
		PostURLTemplate: cfg.BlogSite.PostURLTemplate,
	}, log)

	return &Agent{cfg: cfg, logger: log, db: db, pipeline: p}, nil
}

// Logger exposes the application logger.
func (a *Agent) Logger() logger.Logger {
	return a.logger
}

// RunOnce processes a single batch and returns how many items completed.
func (a *Agent) RunOnce(ctx context.Context) (int, error) {
	a.logger.Info("agent run starting",
		logger.String("bucket", a.cfg.S3.Bucket),
		logger.Int("max_items", a.cfg.Agent.MaxItems),
		logger.String("blog_model", a.cfg.AI.BlogModel),
		logger.String("image_model", a.cfg.AI.ImageModel),
	)
	return a.pipeline.Run(ctx)
}

// RunScheduled runs batches on the configured cron schedule until the
// process receives an interrupt. The first batch runs immediately.
func (a *Agent) RunScheduled(ctx context.Context) error {
	if a.cfg.Agent.Schedule == "" {
		return fmt.Errorf("agent.schedule is required for scheduled mode")
	}

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := a.RunOnce(runCtx); err != nil {
		a.logger.Error("batch failed", logger.Error(err))
	}

	c := cron.New()
	_, err := c.AddFunc(a.cfg.Agent.Schedule, func() {
		if _, runErr := a.RunOnce(runCtx); runErr != nil {
			a.logger.Error("batch failed", logger.Error(runErr))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", a.cfg.Agent.Schedule, err)
	}

	c.Start()
	a.logger.Info("agent scheduled", logger.String("schedule", a.cfg.Agent.Schedule))

	<-runCtx.Done()
	a.logger.Info("agent stopping")
	<-c.Stop().Done()
	return nil
}

// Close releases the agent's resources.
func (a *Agent) Close() error {
	a.logger.Sync()
	return database.Close(a.db)
}
