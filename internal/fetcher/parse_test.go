package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darijapress/darijapress/internal/domain"
	"github.com/darijapress/darijapress/internal/logger"
)

const listingHTML = `
<html><body>
<div class="body-post clear">
  <a class="story-link" href="https://news.example.test/2026/08/first.html">
    <h2 class="home-title">First Breach Disclosed</h2>
  </a>
  <img data-src="https://cdn.example.test/first.jpg" src="data:image/png;base64,placeholder"/>
  <span class="h-datetime"><i class="icon-clock"></i> Aug 27, 2026</span>
  <span class="h-tags">Malware / Ransomware</span>
  <div class="home-desc">Attackers hit a supply chain.</div>
</div>
<div class="body-post clear">
  <h2 class="home-title">Second Advisory</h2>
  <a href="https://news.example.test/2026/08/second.html">read</a>
  <img src="https://cdn.example.test/second.jpg"/>
  <span class="h-datetime">Aug 26, 2026</span>
</div>
<div class="body-post clear">
  <p>widget without a title</p>
</div>
</body></html>`

const articleHTML = `
<html><body>
<h1>  First   Breach Disclosed </h1>
<div class="post-head">ignored</div>
<div id="articlebody" class="articlebody clear">
  <p>The breach began <a href="https://vendor.example.test/advisory">here</a>.</p>
  <img data-src="https://cdn.example.test/diagram.png"/>
  <img src="https://cdn.example.test/diagram.png"/>
  <p>More details <a href="https://vendor.example.test/advisory">again</a>.</p>
</div>
</body></html>`

func TestParseListing(t *testing.T) {
	items, err := ParseListing(listingHTML)
	require.NoError(t, err)
	require.Len(t, items, 2, "the title-less widget must be skipped")

	first := items[0]
	assert.Equal(t, "First Breach Disclosed", first.Title)
	assert.Equal(t, "https://news.example.test/2026/08/first.html", first.URL)
	assert.Equal(t, "https://cdn.example.test/first.jpg", first.Image, "data-src wins over src")
	assert.Equal(t, "Aug 27, 2026", first.Date)
	assert.Equal(t, "Malware / Ransomware", first.Tags)
	assert.Equal(t, "Attackers hit a supply chain.", first.Description)

	second := items[1]
	assert.Equal(t, "Second Advisory", second.Title)
	assert.Equal(t, "https://news.example.test/2026/08/second.html", second.URL, "falls back to any link in the post")
	assert.Equal(t, "https://cdn.example.test/second.jpg", second.Image)
	assert.Empty(t, second.Tags)
}

func TestParseArticle(t *testing.T) {
	body, err := ParseArticle(articleHTML, "https://news.example.test/2026/08/first.html")
	require.NoError(t, err)

	assert.Equal(t, "https://news.example.test/2026/08/first.html", body.URL)
	assert.Equal(t, "First Breach Disclosed", body.Title)
	assert.Contains(t, body.ContentHTML, "The breach began")
	assert.Contains(t, body.Text, "The breach began here")
	assert.Equal(t, []string{"https://cdn.example.test/diagram.png"}, body.Images, "duplicates collapse")
	assert.Equal(t, []string{"https://vendor.example.test/advisory"}, body.Links)
}

func TestParseArticleFallbackSelectors(t *testing.T) {
	byClass := `<html><body><h1>T</h1><div class="entry-content"><p>fallback body</p></div></body></html>`
	body, err := ParseArticle(byClass, "u")
	require.NoError(t, err)
	assert.Equal(t, "fallback body", body.Text)

	byTag := `<html><body><article><p>tag body</p></article></body></html>`
	body, err = ParseArticle(byTag, "u")
	require.NoError(t, err)
	assert.Equal(t, "tag body", body.Text)

	none := `<html><body><h1>Only a title</h1></body></html>`
	body, err = ParseArticle(none, "u")
	require.NoError(t, err)
	assert.Equal(t, "Only a title", body.Title)
	assert.Empty(t, body.Text)
	assert.Empty(t, body.Images)
}

func TestExtractDate(t *testing.T) {
	assert.Equal(t, "Aug 27, 2026", extractDate(" Aug 27, 2026 Read"))
	assert.Equal(t, "sometime", extractDate("  sometime  "))
	assert.Equal(t, "", extractDate(""))
}

func TestPickCandidates(t *testing.T) {
	listing := []domain.SourceItem{{URL: "a"}, {URL: "b"}, {URL: "c"}}
	assert.Len(t, PickCandidates(listing, 2), 2)
	assert.Len(t, PickCandidates(listing, 10), 3)
	assert.Nil(t, PickCandidates(listing, 0))
}

func TestFetchListing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Mozilla/5.0", r.Header.Get("User-Agent"))
		w.Write([]byte(listingHTML))
	}))
	defer srv.Close()

	c := NewClient(Config{ListingURL: srv.URL, Host: "news.example.test"}, logger.NewNopLogger())
	items, err := c.FetchListing(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestFetchArticleErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(Config{ListingURL: srv.URL, Host: "news.example.test"}, logger.NewNopLogger())
	_, _, err := c.FetchArticle(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}
