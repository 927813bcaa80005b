package pipeline

import "strings"

const defaultPostPathTemplate = "/posts/{slug}"

// BuildBlogURL renders the public blog URL for a published post from the
// site base URL and a path template with {slug}, {yyyy}, {mm}, {dd}
// placeholders. An empty base yields "" so callers can fall back to the
// source URL.
func BuildBlogURL(baseURL, pathTemplate, date, slug string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return ""
	}

	parts := strings.SplitN(date, "-", 3)
	for len(parts) < 3 {
		parts = append(parts, "")
	}

	path := strings.TrimSpace(pathTemplate)
	if path == "" {
		path = defaultPostPathTemplate
	}
	path = strings.ReplaceAll(path, "{slug}", slug)
	path = strings.ReplaceAll(path, "{yyyy}", parts[0])
	path = strings.ReplaceAll(path, "{mm}", parts[1])
	path = strings.ReplaceAll(path, "{dd}", parts[2])
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
