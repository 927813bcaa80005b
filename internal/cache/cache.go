// Package cache provides the in-process read-through caches behind the
// read API: a single-slot listing cache with a stale-serve window and a
// per-URL article content cache.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/darijapress/darijapress/internal/domain"
	"github.com/darijapress/darijapress/internal/logger"
)

const (
	// DefaultListingFreshTTL is the age below which a listing is fresh.
	DefaultListingFreshTTL = 10 * time.Second
	// DefaultListingMaxStale bounds how old a served listing may get.
	DefaultListingMaxStale = 300 * time.Second
	// DefaultContentFreshTTL is the per-article freshness window.
	DefaultContentFreshTTL = 60 * time.Second
)

// Lookup outcomes reported to an Observer.
const (
	OutcomeHit     = "hit"
	OutcomeStale   = "stale"
	OutcomeRefresh = "refresh"
)

// Observer receives the outcome of each cache lookup, for metrics.
type Observer func(outcome string)

// ListingFetchFunc loads the current listing from upstream.
type ListingFetchFunc func(ctx context.Context) ([]domain.SourceItem, error)

// Listing is a single-slot cache over the front-page listing. Values
// younger than maxStale are served without touching upstream; the
// fresh/stale distinction exists to bound staleness, not to trigger
// background refreshes.
type Listing struct {
	fetch    ListingFetchFunc
	freshTTL time.Duration
	maxStale time.Duration
	logger   logger.Logger
	now      func() time.Time
	observe  Observer

	mu        sync.Mutex
	items     []domain.SourceItem
	fetchedAt time.Time
	populated bool
}

// SetObserver installs an outcome observer. Must be called before use.
func (l *Listing) SetObserver(obs Observer) {
	l.observe = obs
}

// NewListing creates a listing cache. Non-positive TTLs fall back to the
// defaults.
func NewListing(fetch ListingFetchFunc, freshTTL, maxStale time.Duration, log logger.Logger) *Listing {
	if freshTTL <= 0 {
		freshTTL = DefaultListingFreshTTL
	}
	if maxStale <= 0 {
		maxStale = DefaultListingMaxStale
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Listing{
		fetch:    fetch,
		freshTTL: freshTTL,
		maxStale: maxStale,
		logger:   log,
		now:      time.Now,
	}
}

// Get returns the listing, refetching when the slot is empty, older than
// maxStale, or forceRefresh is set. A refetch failure propagates; the
// previous value is not served past its staleness bound.
func (l *Listing) Get(ctx context.Context, forceRefresh bool) ([]domain.SourceItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !forceRefresh && l.populated {
		age := l.now().Sub(l.fetchedAt)
		if age <= l.maxStale {
			if age > l.freshTTL {
				l.logger.Debug("serving stale listing", logger.Duration("age", age))
				l.report(OutcomeStale)
			} else {
				l.report(OutcomeHit)
			}
			return cloneItems(l.items), nil
		}
	}

	l.report(OutcomeRefresh)
	items, err := l.fetch(ctx)
	if err != nil {
		return nil, err
	}

	l.items = items
	l.fetchedAt = l.now()
	l.populated = true
	return cloneItems(items), nil
}

// Article is a cached article fetch result.
type Article struct {
	Body *domain.ArticleBody
	HTML string
}

// ContentFetchFunc loads one article from upstream, returning the parsed
// body and the raw page HTML.
type ContentFetchFunc func(ctx context.Context, url string) (*domain.ArticleBody, string, error)

// Content caches parsed articles per canonical URL. Entries have a plain
// freshness TTL; an expired entry always triggers a synchronous refetch.
type Content struct {
	fetch    ContentFetchFunc
	freshTTL time.Duration
	now      func() time.Time
	observe  Observer

	mu      sync.Mutex
	entries map[string]contentEntry
}

// SetObserver installs an outcome observer. Must be called before use.
func (c *Content) SetObserver(obs Observer) {
	c.observe = obs
}

type contentEntry struct {
	article   Article
	fetchedAt time.Time
}

// NewContent creates a content cache.
func NewContent(fetch ContentFetchFunc, freshTTL time.Duration) *Content {
	if freshTTL <= 0 {
		freshTTL = DefaultContentFreshTTL
	}
	return &Content{
		fetch:    fetch,
		freshTTL: freshTTL,
		now:      time.Now,
		entries:  make(map[string]contentEntry),
	}
}

// Get returns the article for url, refetching when the entry is missing,
// expired, or forceRefresh is set.
func (c *Content) Get(ctx context.Context, url string, forceRefresh bool) (Article, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !forceRefresh {
		if entry, ok := c.entries[url]; ok && c.now().Sub(entry.fetchedAt) <= c.freshTTL {
			c.report(OutcomeHit)
			return entry.article, nil
		}
	}

	c.report(OutcomeRefresh)
	body, html, err := c.fetch(ctx, url)
	if err != nil {
		return Article{}, err
	}

	article := Article{Body: body, HTML: html}
	c.entries[url] = contentEntry{article: article, fetchedAt: c.now()}
	return article, nil
}

func (l *Listing) report(outcome string) {
	if l.observe != nil {
		l.observe(outcome)
	}
}

func (c *Content) report(outcome string) {
	if c.observe != nil {
		c.observe(outcome)
	}
}

func cloneItems(items []domain.SourceItem) []domain.SourceItem {
	out := make([]domain.SourceItem, len(items))
	copy(out, items)
	return out
}
