package urlkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"https scheme stripped", "https://example.com/story", "example.com/story"},
		{"http scheme stripped", "http://example.com/story", "example.com/story"},
		{"trailing slash removed", "https://example.com/story/", "example.com/story"},
		{"lower cased", "https://Example.COM/Story", "example.com/story"},
		{"root path", "https://example.com/", "example.com"},
		{"query keeps key on host and path", "https://example.com/story?utm=1", "example.com/story"},
		{"no scheme falls back to raw", "example.com/story/", "example.com/story"},
		{"garbage falls back to raw", "://not a url/", "://not a url"},
		{"whitespace trimmed", "  https://example.com/story  ", "example.com/story"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestNormalize_SchemeAndSlashVariantsCollapse(t *testing.T) {
	variants := []string{
		"https://x.com/a/",
		"http://x.com/a",
		"https://X.com/a",
		"http://x.com/a/",
	}
	for _, v := range variants {
		assert.Equal(t, "x.com/a", Normalize(v), "variant %q", v)
	}
}

func TestNormalize_Stable(t *testing.T) {
	raw := "https://example.com/good-news/"
	assert.Equal(t, Normalize(raw), Normalize(raw))
}
