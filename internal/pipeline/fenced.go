package pipeline

import (
	"regexp"
	"strings"
)

var txtFenceRe = regexp.MustCompile("(?is)```(?:txt|text)\\s*(.*?)```")

// ExtractTxtBlocks returns the contents of ```txt (or ```text) fenced
// blocks in document order, dropping blocks that are empty after trimming.
func ExtractTxtBlocks(text string) []string {
	if text == "" {
		return nil
	}

	matches := txtFenceRe.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		block := strings.TrimSpace(m[1])
		if block == "" {
			continue
		}
		out = append(out, block)
	}
	return out
}
