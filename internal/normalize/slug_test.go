package normalize

import (
	"regexp"
	"testing"

	"github.com/devevents-app/devevents/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{
			name:  "simple title",
			title: "Go Meetup",
			want:  "go-meetup",
		},
		{
			name:  "mixed case with punctuation",
			title: "DevFest 2025: AI & Cloud!",
			want:  "devfest-2025-ai-cloud",
		},
		{
			name:  "surrounding whitespace",
			title: "  Hackathon Weekend  ",
			want:  "hackathon-weekend",
		},
		{
			name:  "whitespace runs collapse to one hyphen",
			title: "React   Summit\tBerlin",
			want:  "react-summit-berlin",
		},
		{
			name:  "existing hyphens are kept and collapsed",
			title: "Back-end --- Bootcamp",
			want:  "back-end-bootcamp",
		},
		{
			name:  "digits survive",
			title: "100 Days of Code",
			want:  "100-days-of-code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Slugify(tt.title)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSlugifyEmptyResult(t *testing.T) {
	for _, title := range []string{"", "   ", "!!!", "???", "- -", "™©®"} {
		_, err := Slugify(title)
		assert.ErrorIs(t, err, entity.ErrEmptySlug, "title %q", title)
	}
}

func TestSlugifyProducesURLSafeOutput(t *testing.T) {
	safe := regexp.MustCompile(`^[a-z0-9-]+$`)

	titles := []string{
		"Go Meetup",
		"Cloud Native Con (EU)",
		"C++ & Rust: systems night",
		"  déjà vu party 3  ",
	}

	for _, title := range titles {
		got, err := Slugify(title)
		require.NoError(t, err)
		assert.Regexp(t, safe, got)

		// Same title always yields the same slug.
		again, err := Slugify(title)
		require.NoError(t, err)
		assert.Equal(t, got, again)
	}
}
