package storage

import (
	"context"

	"github.com/brightfeed/brightfeed/internal/domain"
	"github.com/google/uuid"
)

// CachedWindowSize bounds how many recent articles a category read returns.
const CachedWindowSize = 40

// ArticleStore is the category-scoped article cache gateway. Persistence is
// keyed on the normalized URL; the store never holds two rows with an equal
// key.
type ArticleStore interface {
	// GetCached returns up to CachedWindowSize most recent articles for a
	// category, newest first, deduplicated by normalized URL.
	GetCached(ctx context.Context, categoryLabel string) ([]domain.Article, error)
	// Save dedups the batch by normalized URL (first occurrence wins), then
	// upserts each unique article. It returns the articles that persisted,
	// durable ids attached; per-article failures are omitted, not fatal.
	Save(ctx context.Context, categoryLabel string, articles []domain.Article) ([]domain.Article, error)
	// FindByKey looks up an article by its normalized URL. A missing row is
	// (nil, nil), not an error.
	FindByKey(ctx context.Context, key string) (*domain.Article, error)
	// UpdateImage and UpdateAudio are best-effort enhancement patches keyed
	// by URL. Callers swallow their errors.
	UpdateImage(ctx context.Context, url, imageURL string) error
	UpdateAudio(ctx context.Context, url, payload string) error
}

// Counts holds per-article vote cardinalities from one batched lookup.
type Counts struct {
	Likes    map[uuid.UUID]int
	Dislikes map[uuid.UUID]int
}

// EngagementStore keeps per-user vote and favorite membership. For any
// (article, user) pair at most one of like/dislike exists at any time.
// All operations treat a Nil article id as a no-op without touching the store.
type EngagementStore interface {
	// ToggleLike removes an opposing dislike, then flips like membership.
	// The returned bool is the resulting state: true means the like is now
	// active.
	ToggleLike(ctx context.Context, articleID, userID uuid.UUID) (bool, error)
	ToggleDislike(ctx context.Context, articleID, userID uuid.UUID) (bool, error)

	LikeCount(ctx context.Context, articleID uuid.UUID) (int, error)
	DislikeCount(ctx context.Context, articleID uuid.UUID) (int, error)
	// BatchCounts computes like and dislike counts for many articles in two
	// bulk reads, regardless of how many ids are passed.
	BatchCounts(ctx context.Context, articleIDs []uuid.UUID) (Counts, error)

	HasUserLiked(ctx context.Context, articleID, userID uuid.UUID) (bool, error)
	HasUserDisliked(ctx context.Context, articleID, userID uuid.UUID) (bool, error)

	// ToggleFavorite flips favorite membership. Inserting an already-present
	// pair is success, not an error.
	ToggleFavorite(ctx context.Context, articleID, userID uuid.UUID) (bool, error)
	FavoriteIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type CommentStore interface {
	// ListByArticle returns the article's comments newest first.
	ListByArticle(ctx context.Context, articleID uuid.UUID) ([]domain.Comment, error)
	Insert(ctx context.Context, comment domain.Comment) error
	// DeleteOwned removes the comment only when userID matches the stored
	// author. A mismatch deletes nothing and is not an error.
	DeleteOwned(ctx context.Context, commentID, userID uuid.UUID) error
}

type UserStore interface {
	// Ensure upserts the user's profile row so denormalized snapshots always
	// point at a real record.
	Ensure(ctx context.Context, user domain.User) error
}

type CategoryStore interface {
	// ListFor returns global categories plus the user's own when userID is
	// non-nil.
	ListFor(ctx context.Context, userID *uuid.UUID) ([]domain.Category, error)
	Insert(ctx context.Context, category domain.Category) (domain.Category, error)
	// DeleteOwned removes a user category only when owned by userID.
	DeleteOwned(ctx context.Context, id, userID uuid.UUID) error
	// SeedGlobal upserts the global category set by value.
	SeedGlobal(ctx context.Context, categories []domain.Category) error
}
