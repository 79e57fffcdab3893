// Package normalize holds the pure normalization functions the event
// service runs before persistence: slug derivation and date/time
// canonicalization. Keeping them out of the storage layer makes them
// testable in isolation and keeps saves free of hidden side effects.
package normalize

import (
	"regexp"
	"strings"

	"github.com/devevents-app/devevents/internal/entity"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace   = regexp.MustCompile(`\s+`)
	slugHyphenRuns   = regexp.MustCompile(`-+`)
)

// Slugify derives the URL-safe slug for an event title: lower-case, trim,
// drop everything outside [a-z0-9 -], collapse whitespace runs to a single
// hyphen and hyphen runs to one. Returns entity.ErrEmptySlug when the title
// has no alphanumeric content; an empty slug must never be stored.
func Slugify(title string) (string, error) {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugInvalidChars.ReplaceAllString(slug, "")
	slug = slugWhitespace.ReplaceAllString(slug, "-")
	slug = slugHyphenRuns.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if slug == "" {
		return "", entity.ErrEmptySlug
	}
	return slug, nil
}
