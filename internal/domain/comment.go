package domain

import (
	"time"

	"github.com/google/uuid"
)

// Comment belongs to exactly one article and one author. The username is a
// denormalized snapshot of the author's display name at post time. Comments
// are immutable once posted except for deletion by their author.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	ArticleID uuid.UUID `json:"articleId"`
	UserID    uuid.UUID `json:"userId"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
