package pipeline

import (
	"regexp"
	"strings"
)

const fallbackSlug = "post"

var (
	slugStripRe    = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugCollapseRe = regexp.MustCompile(`[\s-]+`)
)

// Slugify derives a path-safe identifier from a title: lower-case, strip
// everything outside [a-z0-9 -], collapse whitespace and hyphen runs, trim
// edge hyphens. An empty result falls back to a fixed placeholder.
func Slugify(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	v = slugStripRe.ReplaceAllString(v, "")
	v = strings.Trim(slugCollapseRe.ReplaceAllString(v, "-"), "-")
	if v == "" {
		return fallbackSlug
	}
	return v
}
