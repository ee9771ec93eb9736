// Package text holds the Persian text helpers shared by the feed pipeline.
package text

import (
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// persianReplacer maps Arabic look-alike letters to their Persian forms.
// Feeds mix both scripts, which breaks keyword matching otherwise.
var persianReplacer = strings.NewReplacer(
	"ي", "ی", // ي -> ی
	"ك", "ک", // ك -> ک
)

// Normalize strips markup, unifies Persian character variants and collapses
// whitespace. Idempotent; an empty input yields an empty output.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	s := tagPattern.ReplaceAllString(raw, "")
	s = persianReplacer.Replace(s)
	s = strings.Join(strings.Fields(s), " ")

	return strings.TrimSpace(s)
}
