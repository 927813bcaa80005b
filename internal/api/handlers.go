package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/darijapress/darijapress/internal/domain"
	"github.com/darijapress/darijapress/internal/fetcher"
	"github.com/darijapress/darijapress/internal/logger"
)

// health returns the service liveness status
// GET /health
func (r *Router) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// latest returns the newest listing item, or null when the listing is empty
// GET /latest?refresh=true
func (r *Router) latest(c *gin.Context) {
	items, err := r.listing.Get(c.Request.Context(), refreshRequested(c))
	if err != nil {
		r.logger.Error("listing fetch failed", logger.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"detail": "Failed to fetch listing"})
		return
	}

	if len(items) == 0 {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, items[0])
}

// news returns a bounded slice of the listing
// GET /news?limit=20&refresh=true
func (r *Router) news(c *gin.Context) {
	limit := parseLimit(c.Query("limit"))

	items, err := r.listing.Get(c.Request.Context(), refreshRequested(c))
	if err != nil {
		r.logger.Error("listing fetch failed", logger.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"detail": "Failed to fetch listing"})
		return
	}

	if len(items) > limit {
		items = items[:limit]
	}
	c.JSON(http.StatusOK, items)
}

// articleContent returns one resolved article in the requested format
// GET /content?id=...&format=json|html&raw=true&refresh=true
func (r *Router) articleContent(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Missing query parameter: id"})
		return
	}

	url, err := r.resolver.ResolveArticleURL(id)
	if err != nil {
		var invalid *fetcher.InvalidIDError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": invalid.Reason})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid id"})
		return
	}

	article, err := r.content.Get(c.Request.Context(), url, refreshRequested(c))
	if err != nil {
		r.logger.Error("article fetch failed", logger.String("url", url), logger.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"detail": "Failed to fetch article"})
		return
	}

	if strings.EqualFold(c.DefaultQuery("format", "json"), "html") {
		if c.Query("raw") == "true" {
			c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(article.HTML))
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(article.Body.ContentHTML))
		return
	}

	c.JSON(http.StatusOK, article.Body)
}

// recentJobs returns the most recently updated pipeline job records
// GET /jobs/recent?limit=20
func (r *Router) recentJobs(c *gin.Context) {
	if r.jobs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Job store not configured"})
		return
	}

	records, err := r.jobs.Recent(c.Request.Context(), parseLimit(c.Query("limit")))
	if err != nil {
		r.logger.Error("job listing failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list jobs"})
		return
	}
	c.JSON(http.StatusOK, records)
}

// jobByURL returns the job record for one source URL
// GET /jobs?url=...
func (r *Router) jobByURL(c *gin.Context) {
	if r.jobs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Job store not configured"})
		return
	}

	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Missing query parameter: url"})
		return
	}

	record, err := r.jobs.GetByURL(c.Request.Context(), url)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Job not found"})
			return
		}
		r.logger.Error("job lookup failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to get job"})
		return
	}
	c.JSON(http.StatusOK, record)
}

func refreshRequested(c *gin.Context) bool {
	return strings.EqualFold(c.Query("refresh"), "true")
}

// parseLimit clamps the limit query parameter to [1, 100], defaulting to 20.
func parseLimit(raw string) int {
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return defaultNewsLimit
	}
	if limit < 1 {
		return 1
	}
	if limit > maxNewsLimit {
		return maxNewsLimit
	}
	return limit
}
