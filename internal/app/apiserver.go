package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/darijapress/darijapress/internal/api"
	"github.com/darijapress/darijapress/internal/cache"
	"github.com/darijapress/darijapress/internal/config"
	"github.com/darijapress/darijapress/internal/database"
	"github.com/darijapress/darijapress/internal/fetcher"
	"github.com/darijapress/darijapress/internal/logger"
	"github.com/darijapress/darijapress/internal/metrics"
)

// APIServer is the read API application.
type APIServer struct {
	cfg    *config.Config
	logger logger.Logger
	db     *sqlx.DB
	server *api.Server
}

// NewAPIServer loads config and builds the read API dependency graph.
// The database is optional; without a DSN the job endpoints are disabled.
func NewAPIServer(configPath string) (*APIServer, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err = cfg.ValidateServer(); err != nil {
		return nil, err
	}

	log, err := logger.NewLogger(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	log = log.With(logger.String("service", "api"))

	fetch := fetcher.NewClient(fetcher.Config{
		ListingURL: cfg.Source.ListingURL,
		Host:       cfg.Source.Host,
		Timeout:    cfg.Source.Timeout,
	}, log)

	m := metrics.New()

	listing := cache.NewListing(fetch.FetchListing, cfg.Cache.ListingFreshTTL, cfg.Cache.ListingMaxStale, log)
	listing.SetObserver(func(outcome string) {
		m.CacheLookups.WithLabelValues("listing", outcome).Inc()
	})

	content := cache.NewContent(fetch.FetchArticle, cfg.Cache.ContentFreshTTL)
	content.SetObserver(func(outcome string) {
		m.CacheLookups.WithLabelValues("content", outcome).Inc()
	})

	var db *sqlx.DB
	var jobs api.JobReader
	if cfg.Database.DSN != "" {
		db, err = database.NewPostgresConnection(cfg.Database.DSN)
		if err != nil {
			log.Sync()
			return nil, err
		}
		jobs = database.NewJobRepository(db)
	}

	router := api.NewRouter(listing, content, fetch, jobs, m, api.Config{
		APIKey:      cfg.Server.APIKey,
		CORSOrigins: cfg.Server.CORSOrigins,
		Debug:       cfg.Debug,
	}, log)

	return &APIServer{
		cfg:    cfg,
		logger: log,
		db:     db,
		server: router.NewServer(cfg.Server.Address, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
	}, nil
}

// Logger exposes the application logger.
func (s *APIServer) Logger() logger.Logger {
	return s.logger
}

// Start serves until the listener fails or Shutdown is called.
func (s *APIServer) Start() error {
	return s.server.Start()
}

// Shutdown drains requests and releases resources.
func (s *APIServer) Shutdown(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	s.logger.Sync()
	if closeErr := database.Close(s.db); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
