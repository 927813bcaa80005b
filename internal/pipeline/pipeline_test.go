package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darijapress/darijapress/internal/domain"
	"github.com/darijapress/darijapress/internal/logger"
	"github.com/darijapress/darijapress/internal/storage"
)

type fakeFetcher struct {
	listing    []domain.SourceItem
	listingErr error
	articleErr map[string]error
	fetched    []string
}

func (f *fakeFetcher) FetchListing(context.Context) ([]domain.SourceItem, error) {
	return f.listing, f.listingErr
}

func (f *fakeFetcher) FetchArticle(_ context.Context, url string) (*domain.ArticleBody, string, error) {
	f.fetched = append(f.fetched, url)
	if err := f.articleErr[url]; err != nil {
		return nil, "", err
	}
	return &domain.ArticleBody{URL: url, Text: "article text for " + url}, "<html/>", nil
}

type fakeGenerator struct {
	blogCalls    int
	promptCalls  int
	promptPages  []int // pages emitted per successive prompt call
	imageCalls   int
	failBlogFor  string
	lastBlogText string
}

func (f *fakeGenerator) GenerateBlog(_ context.Context, _ string, bundle *domain.SourceBundle) (string, error) {
	f.blogCalls++
	if f.failBlogFor != "" && bundle.URL == f.failBlogFor {
		return "", errors.New("blog generation blew up")
	}
	return "english blog for " + bundle.URL, nil
}

func (f *fakeGenerator) TranslateDarija(_ context.Context, _, markdown string) (string, error) {
	f.lastBlogText = markdown
	return "darija: " + markdown, nil
}

func (f *fakeGenerator) GenerateComicPrompts(_ context.Context, _, _ string) (string, error) {
	pages := 4
	if f.promptCalls < len(f.promptPages) {
		pages = f.promptPages[f.promptCalls]
	}
	f.promptCalls++

	var b strings.Builder
	for i := 1; i <= pages; i++ {
		fmt.Fprintf(&b, "Page %d Prompt:\n```txt\nprompt %d\n```\n", i, i)
	}
	return b.String(), nil
}

func (f *fakeGenerator) GenerateIllustration(_ context.Context, _, prompt, aspectRatio string) ([]byte, string, error) {
	f.imageCalls++
	if aspectRatio != comicAspectRatio {
		return nil, "", fmt.Errorf("unexpected aspect ratio %s", aspectRatio)
	}
	return []byte("png:" + prompt), "caption for " + prompt, nil
}

type fakeJobStore struct {
	completed map[string]bool
	started   []string
	done      map[string]string
	failed    map[string]string
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{
		completed: map[string]bool{},
		done:      map[string]string{},
		failed:    map[string]string{},
	}
}

func (f *fakeJobStore) WasCompleted(_ context.Context, url string) (bool, error) {
	return f.completed[url], nil
}

func (f *fakeJobStore) MarkStarted(_ context.Context, url, _ string) error {
	f.started = append(f.started, url)
	return nil
}

func (f *fakeJobStore) MarkCompleted(_ context.Context, url, prefix string) error {
	f.done[url] = prefix
	return nil
}

func (f *fakeJobStore) MarkFailed(_ context.Context, url, errText string) error {
	f.failed[url] = errText
	return nil
}

type fakeSink struct {
	keys []string
}

func (f *fakeSink) PutText(_ context.Context, relKey, _, _ string) (string, error) {
	f.keys = append(f.keys, relKey)
	return relKey, nil
}

func (f *fakeSink) PutBytes(_ context.Context, relKey string, _ []byte, _ string) (string, error) {
	f.keys = append(f.keys, relKey)
	return relKey, nil
}

func item(n int) domain.SourceItem {
	return domain.SourceItem{
		Title: fmt.Sprintf("Story %d", n),
		URL:   fmt.Sprintf("https://news.example.test/story-%d.html", n),
	}
}

func newPipelineUnderTest(t *testing.T, fetcher *fakeFetcher, gen *fakeGenerator, jobs *fakeJobStore) (*Pipeline, *storage.Staging, *fakeSink) {
	t.Helper()
	staging := storage.NewStaging(t.TempDir())
	sink := &fakeSink{}
	p := New(fetcher, gen, jobs, staging, sink, nil, nil, Config{
		MaxItems:    5,
		BlogModel:   "blog-model",
		DarijaModel: "darija-model",
		PromptModel: "prompt-model",
		ImageModel:  "image-model",
	}, logger.NewNopLogger())
	return p, staging, sink
}

func TestRunProcessesItems(t *testing.T) {
	fetcher := &fakeFetcher{listing: []domain.SourceItem{item(1)}}
	gen := &fakeGenerator{}
	jobs := newFakeJobStore()
	p, staging, sink := newPipelineUnderTest(t, fetcher, gen, jobs)

	processed, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	prefix, ok := jobs.done[item(1).URL]
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(prefix, "/story-1"), "prefix = %s", prefix)

	for _, name := range []string{
		"source.json", "blog_en.md", "blog_darija.md", "comic_prompts.md", "meta.json",
		"comic_page_1.png", "comic_page_2.png", "comic_page_3.png", "comic_page_4.png",
	} {
		assert.True(t, staging.Exists(prefix+"/"+name), "missing staged %s", name)
	}
	assert.Len(t, sink.keys, 9)
	assert.Equal(t, 4, gen.imageCalls)

	darija, err := staging.ReadText(prefix + "/blog_darija.md")
	require.NoError(t, err)
	assert.Equal(t, "darija: english blog for "+item(1).URL, darija)
}

func TestRunSkipsCompleted(t *testing.T) {
	fetcher := &fakeFetcher{listing: []domain.SourceItem{item(1), item(2)}}
	gen := &fakeGenerator{}
	jobs := newFakeJobStore()
	jobs.completed[item(1).URL] = true
	p, _, _ := newPipelineUnderTest(t, fetcher, gen, jobs)

	processed, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	assert.NotContains(t, fetcher.fetched, item(1).URL, "completed item must not be refetched")
	assert.NotContains(t, jobs.started, item(1).URL)
	assert.Contains(t, jobs.done, item(2).URL)
}

func TestRunFailureIsolation(t *testing.T) {
	fetcher := &fakeFetcher{listing: []domain.SourceItem{item(1), item(2), item(3)}}
	gen := &fakeGenerator{failBlogFor: item(2).URL}
	jobs := newFakeJobStore()
	p, _, _ := newPipelineUnderTest(t, fetcher, gen, jobs)

	processed, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, processed, "failure of one item must not abort the batch")

	assert.Contains(t, jobs.done, item(1).URL)
	assert.Contains(t, jobs.done, item(3).URL)
	assert.NotContains(t, jobs.done, item(2).URL)
	assert.Contains(t, jobs.failed[item(2).URL], "blog generation blew up")
}

func TestRunPromptRegenerationOnce(t *testing.T) {
	fetcher := &fakeFetcher{listing: []domain.SourceItem{item(1)}}
	gen := &fakeGenerator{promptPages: []int{3, 4}}
	jobs := newFakeJobStore()
	p, staging, _ := newPipelineUnderTest(t, fetcher, gen, jobs)

	processed, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	assert.Equal(t, 2, gen.promptCalls, "short output triggers exactly one regeneration")

	prefix := jobs.done[item(1).URL]
	assert.True(t, staging.Exists(prefix+"/comic_prompts_retry.md"))
}

func TestRunPromptShortfallFailsItem(t *testing.T) {
	fetcher := &fakeFetcher{listing: []domain.SourceItem{item(1)}}
	gen := &fakeGenerator{promptPages: []int{3, 2}}
	jobs := newFakeJobStore()
	p, _, _ := newPipelineUnderTest(t, fetcher, gen, jobs)

	processed, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, processed)
	assert.Equal(t, 2, gen.promptCalls, "no third attempt after the single regeneration")
	assert.Contains(t, jobs.failed[item(1).URL], "expected 4 comic prompts, got 2")
}

func TestRunFetchFailureMarksFailed(t *testing.T) {
	fetcher := &fakeFetcher{
		listing:    []domain.SourceItem{item(1)},
		articleErr: map[string]error{item(1).URL: errors.New("connection reset")},
	}
	gen := &fakeGenerator{}
	jobs := newFakeJobStore()
	p, _, _ := newPipelineUnderTest(t, fetcher, gen, jobs)

	processed, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, processed)
	assert.Contains(t, jobs.started, item(1).URL)
	assert.Contains(t, jobs.failed[item(1).URL], "connection reset")
	assert.Zero(t, gen.blogCalls, "generation stages skipped after fetch failure")
}

func TestRunListingError(t *testing.T) {
	fetcher := &fakeFetcher{listingErr: errors.New("listing down")}
	p, _, _ := newPipelineUnderTest(t, fetcher, &fakeGenerator{}, newFakeJobStore())

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing down")
}

func TestRunHonorsMaxItems(t *testing.T) {
	fetcher := &fakeFetcher{listing: []domain.SourceItem{item(1), item(2), item(3)}}
	gen := &fakeGenerator{}
	jobs := newFakeJobStore()
	staging := storage.NewStaging(t.TempDir())
	p := New(fetcher, gen, jobs, staging, &fakeSink{}, nil, nil, Config{
		MaxItems:   2,
		BlogModel:  "b",
		ImageModel: "i",
	}, logger.NewNopLogger())

	processed, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, processed)
	assert.NotContains(t, jobs.done, item(3).URL)
}
