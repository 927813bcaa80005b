// Package fetcher retrieves and parses listing and article pages from the
// upstream news site.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/darijapress/darijapress/internal/domain"
	"github.com/darijapress/darijapress/internal/logger"
)

const (
	defaultTimeout = 20 * time.Second
	userAgent      = "Mozilla/5.0"
)

// Config holds fetcher construction options.
type Config struct {
	ListingURL string
	Host       string
	Timeout    time.Duration
}

// Client fetches pages from the news site.
type Client struct {
	listingURL string
	host       string
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient creates a Client from config.
func NewClient(cfg Config, log logger.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Client{
		listingURL: cfg.ListingURL,
		host:       cfg.Host,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     log,
	}
}

// FetchListing downloads the front page and parses it into source items.
func (c *Client) FetchListing(ctx context.Context) ([]domain.SourceItem, error) {
	html, err := c.fetchText(ctx, c.listingURL)
	if err != nil {
		return nil, fmt.Errorf("fetch listing: %w", err)
	}
	items, err := ParseListing(html)
	if err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}
	return items, nil
}

// FetchArticle downloads one article page. It returns the parsed body and
// the raw page HTML so callers can serve either form.
func (c *Client) FetchArticle(ctx context.Context, url string) (*domain.ArticleBody, string, error) {
	html, err := c.fetchText(ctx, url)
	if err != nil {
		return nil, "", fmt.Errorf("fetch article: %w", err)
	}
	body, err := ParseArticle(html, url)
	if err != nil {
		return nil, "", fmt.Errorf("parse article: %w", err)
	}
	return body, html, nil
}

func (c *Client) fetchText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	c.logger.Debug("page fetched",
		logger.String("url", url),
		logger.Int("bytes", len(body)),
		logger.Duration("elapsed", time.Since(start)),
	)
	return string(body), nil
}

// PickCandidates returns the first maxItems entries of the listing.
func PickCandidates(listing []domain.SourceItem, maxItems int) []domain.SourceItem {
	if maxItems <= 0 {
		return nil
	}
	if len(listing) > maxItems {
		return listing[:maxItems]
	}
	return listing
}
