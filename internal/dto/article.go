package dto

import (
	"time"

	"github.com/brightfeed/brightfeed/internal/domain"
)

// ArticleRequest carries a possibly-transient article through a gesture call.
// The id is a raw string: anything that fails the durable-identifier shape
// check is treated as "not yet persisted".
type ArticleRequest struct {
	ID             string    `json:"id"`
	URL            string    `json:"url" validate:"required"`
	Title          string    `json:"title"`
	Summary        string    `json:"summary"`
	Source         string    `json:"source"`
	Date           time.Time `json:"date"`
	Category       string    `json:"category"`
	ImageURL       string    `json:"imageUrl"`
	AudioPayload   string    `json:"audioPayload"`
	SentimentScore float32   `json:"sentimentScore"`
}

func (r ArticleRequest) ToDomain() domain.Article {
	a := domain.Article{
		URL:            r.URL,
		Title:          r.Title,
		Summary:        r.Summary,
		Source:         r.Source,
		Date:           r.Date,
		Category:       r.Category,
		ImageURL:       r.ImageURL,
		AudioPayload:   r.AudioPayload,
		SentimentScore: r.SentimentScore,
	}
	if id, ok := domain.ParseArticleID(r.ID); ok {
		a.ID = id
	}
	return a
}

type FeedResponse struct {
	Articles    []domain.Article `json:"articles"`
	FavoriteIDs []string         `json:"favoriteIds"`
	Notice      string           `json:"notice,omitempty"`
}

type ImagePatchRequest struct {
	URL      string `json:"url" validate:"required"`
	ImageURL string `json:"imageUrl" validate:"required"`
}

type AudioPatchRequest struct {
	URL     string `json:"url" validate:"required"`
	Payload string `json:"payload" validate:"required"`
}
