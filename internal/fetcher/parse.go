package fetcher

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/darijapress/darijapress/internal/domain"
)

var dateRe = regexp.MustCompile(`[A-Za-z]{3}\s+\d{1,2},\s+\d{4}`)

// ParseListing extracts source items from the front-page markup. Posts
// without a title or link are skipped.
func ParseListing(html string) ([]domain.SourceItem, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var items []domain.SourceItem
	doc.Find("div.body-post.clear").Each(func(_ int, post *goquery.Selection) {
		title := post.Find("h2.home-title").First()
		if title.Length() == 0 {
			return
		}

		link, _ := title.Closest("a[href]").Attr("href")
		if link == "" {
			link, _ = post.Find("a[href]").First().Attr("href")
		}
		if link == "" {
			return
		}

		items = append(items, domain.SourceItem{
			Title:       collapseText(title),
			URL:         link,
			Image:       imageSource(post.Find("img").First()),
			Date:        extractDate(collapseText(post.Find("span.h-datetime").First())),
			Tags:        collapseText(post.Find("span.h-tags").First()),
			Description: collapseText(post.Find("div.home-desc").First()),
		})
	})

	return items, nil
}

// ParseArticle extracts the article body from a post page. The content
// container is located by the site's known markup with progressively looser
// fallbacks; an unrecognized page yields empty fields, not an error.
func ParseArticle(html, url string) (*domain.ArticleBody, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	body := &domain.ArticleBody{
		URL:   url,
		Title: collapseText(doc.Find("h1").First()),
	}

	content := findContent(doc)
	if content == nil {
		return body, nil
	}

	if inner, htmlErr := content.Html(); htmlErr == nil {
		body.ContentHTML = strings.TrimSpace(inner)
	}
	body.Text = collapseText(content)

	var images, links []string
	content.Find("img").Each(func(_ int, img *goquery.Selection) {
		if src := imageSource(img); src != "" {
			images = append(images, src)
		}
	})
	content.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		if href, ok := a.Attr("href"); ok && href != "" {
			links = append(links, href)
		}
	})
	body.Images = dedupe(images)
	body.Links = dedupe(links)

	return body, nil
}

func findContent(doc *goquery.Document) *goquery.Selection {
	matchers := []func(*goquery.Selection) bool{
		func(s *goquery.Selection) bool {
			id, _ := s.Attr("id")
			return strings.Contains(strings.ToLower(id), "articlebody")
		},
		func(s *goquery.Selection) bool {
			return strings.Contains(strings.ToLower(s.AttrOr("class", "")), "articlebody")
		},
		func(s *goquery.Selection) bool {
			class := strings.ToLower(s.AttrOr("class", ""))
			return strings.Contains(class, "post-body") || strings.Contains(class, "entry-content")
		},
	}

	for _, match := range matchers {
		found := doc.Find("div").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return match(s)
		}).First()
		if found.Length() > 0 {
			return found
		}
	}

	if article := doc.Find("article").First(); article.Length() > 0 {
		return article
	}
	return nil
}

// extractDate pulls the "Jan 02, 2006" style date out of the timestamp
// element, which also carries icon glyphs and whitespace.
func extractDate(raw string) string {
	if m := dateRe.FindString(raw); m != "" {
		return m
	}
	return strings.TrimSpace(raw)
}

// imageSource prefers the lazy-load attribute over the placeholder src.
func imageSource(img *goquery.Selection) string {
	if img.Length() == 0 {
		return ""
	}
	if src, ok := img.Attr("data-src"); ok && src != "" {
		return src
	}
	src, _ := img.Attr("src")
	return src
}

// collapseText renders the selection's text with runs of whitespace
// squeezed to single spaces.
func collapseText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
