// Package domain contains the core domain models shared across the agent.
package domain

// SourceItem is one entry scraped from the news listing page.
type SourceItem struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Image       string `json:"image,omitempty"`
	Date        string `json:"date,omitempty"`
	Tags        string `json:"tags,omitempty"`
	Description string `json:"description,omitempty"`
}

// ArticleBody is the parsed content of a single article page.
type ArticleBody struct {
	URL         string   `json:"url"`
	Title       string   `json:"title,omitempty"`
	ContentHTML string   `json:"content_html,omitempty"`
	Text        string   `json:"text,omitempty"`
	Images      []string `json:"images,omitempty"`
	Links       []string `json:"links,omitempty"`
}

// SourceBundle pairs a listing item with its fetched article body.
// It is immutable once built and only lives for one pipeline pass.
type SourceBundle struct {
	SourceItem
	Article *ArticleBody `json:"article,omitempty"`
}
