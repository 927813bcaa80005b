// Package api serves the low-latency read endpoints backed by the
// listing and content caches.
package api

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/darijapress/darijapress/internal/cache"
	"github.com/darijapress/darijapress/internal/domain"
	"github.com/darijapress/darijapress/internal/logger"
	"github.com/darijapress/darijapress/internal/metrics"
)

const (
	defaultNewsLimit = 20
	maxNewsLimit     = 100
)

// Resolver validates and canonicalizes client-supplied article ids.
type Resolver interface {
	ResolveArticleURL(id string) (string, error)
}

// JobReader exposes the read-only job store queries the API serves.
type JobReader interface {
	Recent(ctx context.Context, limit int) ([]domain.JobRecord, error)
	GetByURL(ctx context.Context, sourceURL string) (*domain.JobRecord, error)
}

// Config holds API server settings.
type Config struct {
	APIKey      string
	CORSOrigins []string
	Debug       bool
}

// Router holds the API dependencies
type Router struct {
	listing  *cache.Listing
	content  *cache.Content
	resolver Resolver
	jobs     JobReader
	metrics  *metrics.Metrics
	cfg      Config
	logger   logger.Logger
}

// NewRouter creates a new API router. jobs and m may be nil; the related
// endpoints then report unavailable.
func NewRouter(
	listing *cache.Listing,
	content *cache.Content,
	resolver Resolver,
	jobs JobReader,
	m *metrics.Metrics,
	cfg Config,
	log logger.Logger,
) *Router {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Router{
		listing:  listing,
		content:  content,
		resolver: resolver,
		jobs:     jobs,
		metrics:  m,
		cfg:      cfg,
		logger:   log,
	}
}

// SetupRoutes builds the gin engine.
func (r *Router) SetupRoutes() *gin.Engine {
	if !r.cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(r.cfg.CORSOrigins))
	router.Use(r.observeRequests())

	// Public, no auth
	router.GET("/health", r.health)
	if r.metrics != nil {
		router.GET("/metrics", gin.WrapH(r.metrics.Handler()))
	}

	protected := router.Group("/", apiKeyMiddleware(r.cfg.APIKey))
	protected.GET("/latest", r.latest)
	protected.GET("/news", r.news)
	protected.GET("/content", r.articleContent)
	protected.GET("/jobs/recent", r.recentJobs)
	protected.GET("/jobs", r.jobByURL)

	return router
}
