// Package comments keeps the per-article comment ledger: append and
// owner-checked remove, nothing else.
package comments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brightfeed/brightfeed/internal/apperr"
	"github.com/brightfeed/brightfeed/internal/domain"
	"github.com/brightfeed/brightfeed/internal/storage"
	"github.com/google/uuid"
)

type Ledger struct {
	comments storage.CommentStore
	users    storage.UserStore
}

func NewLedger(comments storage.CommentStore, users storage.UserStore) *Ledger {
	return &Ledger{comments: comments, users: users}
}

// List returns the article's comments newest first. An id that fails the
// durable-identifier shape check yields an empty list without a store call.
func (l *Ledger) List(ctx context.Context, articleID string) ([]domain.Comment, error) {
	id, ok := domain.ParseArticleID(articleID)
	if !ok {
		return nil, nil
	}
	return l.comments.ListByArticle(ctx, id)
}

// Add posts a comment. The article id must already be durable-shaped; callers
// resolve identity first. The author's profile row is upserted before the
// insert so the denormalized username snapshot is always backed by a real
// user record.
func (l *Ledger) Add(ctx context.Context, articleID string, author domain.User, text string) (domain.Comment, error) {
	id, ok := domain.ParseArticleID(articleID)
	if !ok {
		return domain.Comment{}, apperr.NewNotSynced("article not yet synchronized")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Comment{}, apperr.NewValidation("comment text is required")
	}

	if err := l.users.Ensure(ctx, author); err != nil {
		return domain.Comment{}, fmt.Errorf("failed to ensure author profile: %w", err)
	}

	comment := domain.Comment{
		ID:        uuid.New(),
		ArticleID: id,
		UserID:    author.ID,
		Username:  author.Username,
		Text:      text,
		CreatedAt: time.Now(),
	}
	if err := l.comments.Insert(ctx, comment); err != nil {
		return domain.Comment{}, fmt.Errorf("failed to post comment: %w", err)
	}

	return comment, nil
}

// Delete removes the comment only when userID matches the stored author.
// The UI already hides delete from non-owners; the ownership condition here
// is a second check, and a mismatch is a silent no-op.
func (l *Ledger) Delete(ctx context.Context, commentID, userID uuid.UUID) error {
	return l.comments.DeleteOwned(ctx, commentID, userID)
}
