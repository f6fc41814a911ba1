package domain

import (
	"time"

	"github.com/brightfeed/brightfeed/pkg/urlkey"
	"github.com/google/uuid"
)

const DefaultCategory = "Generale"

// Article is a positive-news item. An article starts transient (ID == uuid.Nil)
// when it comes back from the generator, and becomes durable exactly once, the
// first time a vote, favorite or comment targets it.
type Article struct {
	ID             uuid.UUID `json:"id,omitempty"`
	URL            string    `json:"url"`
	Title          string    `json:"title"`
	Summary        string    `json:"summary,omitempty"`
	Source         string    `json:"source,omitempty"`
	Date           time.Time `json:"date"`
	Category       string    `json:"category,omitempty"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	AudioPayload   string    `json:"audioPayload,omitempty"`
	SentimentScore float32   `json:"sentimentScore,omitempty"`
	LikeCount      int       `json:"likeCount"`
	DislikeCount   int       `json:"dislikeCount"`
}

// Durable reports whether the article has been persisted. Only store-assigned
// ids count; a zero UUID marks a transient article.
func (a Article) Durable() bool {
	return a.ID != uuid.Nil
}

// Key returns the article's normalized URL, the natural dedup key.
func (a Article) Key() string {
	return urlkey.Normalize(a.URL)
}

// SameEntity reports whether two articles are the same logical news item,
// matching by durable id when both have one, otherwise by normalized URL.
func (a Article) SameEntity(other Article) bool {
	if a.Durable() && other.Durable() {
		return a.ID == other.ID
	}
	return a.Key() == other.Key()
}

// ParseArticleID validates the 36-character hyphenated identifier shape.
// Anything that fails the shape check is treated as "not yet persisted".
func ParseArticleID(raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
