// Package reconcile translates user gestures into store calls and keeps every
// in-memory holder of article state consistent with the durable store after
// each mutation.
package reconcile

import (
	"context"
	"log/slog"

	"github.com/brightfeed/brightfeed/internal/apperr"
	"github.com/brightfeed/brightfeed/internal/auth"
	"github.com/brightfeed/brightfeed/internal/comments"
	"github.com/brightfeed/brightfeed/internal/domain"
	"github.com/brightfeed/brightfeed/internal/resolver"
	"github.com/brightfeed/brightfeed/internal/storage"
	"github.com/google/uuid"
)

// Gesture is the shared shape of the vote and favorite entry points.
type Gesture func(ctx context.Context, session *auth.Session, article domain.Article) (*Snapshot, error)

// Generator produces transient articles for a category.
type Generator interface {
	FetchPositiveNews(ctx context.Context, query, label string) ([]domain.Article, error)
}

type Reconciler struct {
	state      *FeedState
	articles   storage.ArticleStore
	engagement storage.EngagementStore
	resolver   *resolver.Resolver
	ledger     *comments.Ledger
	generator  Generator
	query      string

	unsubscribe func()
}

type Option func(*Reconciler)

// WithGenerator wires the external article generator; without it Refresh
// serves cached articles only.
func WithGenerator(gen Generator, query string) Option {
	return func(r *Reconciler) {
		r.generator = gen
		r.query = query
	}
}

// WithCommentLedger wires the ledger behind the comment gesture.
func WithCommentLedger(ledger *comments.Ledger) Option {
	return func(r *Reconciler) {
		r.ledger = ledger
	}
}

func New(state *FeedState, articles storage.ArticleStore, engagement storage.EngagementStore, broker *auth.Broker, opts ...Option) *Reconciler {
	r := &Reconciler{
		state:      state,
		articles:   articles,
		engagement: engagement,
		resolver:   resolver.New(articles),
	}
	for _, opt := range opts {
		opt(r)
	}

	if broker != nil {
		r.unsubscribe = broker.Subscribe(r.onSessionEvent)
	}

	return r
}

// Close detaches the session event subscription.
func (r *Reconciler) Close() {
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
}

// onSessionEvent reloads the favorite-id set when a user signs in or the
// session token refreshes, and clears it on sign-out.
func (r *Reconciler) onSessionEvent(e auth.Event) {
	switch e.Kind {
	case auth.SignedIn, auth.TokenRefreshed:
		if e.Session == nil {
			return
		}
		ids, err := r.engagement.FavoriteIDs(context.Background(), e.Session.UserID)
		if err != nil {
			slog.Warn("Failed to reload favorites after session event", "kind", e.Kind, "error", err)
			return
		}
		r.state.SetFavoriteIDs(ids)
	case auth.SignedOut:
		r.state.ClearFavorites()
	}
}

// VoteLike handles a like gesture: require a user, resolve the article's
// durable identity, toggle, then re-read both counts from the store. Counts
// are never adjusted locally; the re-read bounds drift from concurrent
// voters.
func (r *Reconciler) VoteLike(ctx context.Context, session *auth.Session, article domain.Article) (*Snapshot, error) {
	return r.vote(ctx, session, article, "like", r.engagement.ToggleLike)
}

func (r *Reconciler) VoteDislike(ctx context.Context, session *auth.Session, article domain.Article) (*Snapshot, error) {
	return r.vote(ctx, session, article, "dislike", r.engagement.ToggleDislike)
}

func (r *Reconciler) vote(ctx context.Context, session *auth.Session, article domain.Article, gesture string, toggle func(context.Context, uuid.UUID, uuid.UUID) (bool, error)) (*Snapshot, error) {
	if session == nil {
		r.state.Notify("login required")
		return nil, apperr.NewAuthRequired(gesture)
	}

	id, err := r.resolver.Resolve(ctx, article)
	if err != nil {
		slog.Warn("Aborting vote, article identity unresolved", "gesture", gesture, "url", article.URL, "error", err)
		return nil, nil
	}

	active, err := toggle(ctx, id, session.UserID)
	if err != nil {
		slog.Warn("Vote toggle failed", "gesture", gesture, "article", id, "error", err)
		return nil, nil
	}

	snap := r.readCounts(ctx, id, article.URL)
	if gesture == "like" {
		snap.Liked = active
	} else {
		snap.Disliked = active
	}
	snap.Favorited = r.state.IsFavorite(id)

	r.state.Apply(*snap)
	return snap, nil
}

// readCounts re-fetches both authoritative counts post-toggle. A failed read
// degrades to zero rather than blocking the gesture.
func (r *Reconciler) readCounts(ctx context.Context, id uuid.UUID, url string) *Snapshot {
	likes, err := r.engagement.LikeCount(ctx, id)
	if err != nil {
		slog.Warn("Failed to re-read like count", "article", id, "error", err)
	}
	dislikes, err := r.engagement.DislikeCount(ctx, id)
	if err != nil {
		slog.Warn("Failed to re-read dislike count", "article", id, "error", err)
	}
	return &Snapshot{ID: id, URL: url, LikeCount: likes, DislikeCount: dislikes}
}

// ToggleFavorite mirrors the vote protocol but flips a boolean membership and
// maintains the client-held favorite-id set instead of counts.
func (r *Reconciler) ToggleFavorite(ctx context.Context, session *auth.Session, article domain.Article) (*Snapshot, error) {
	if session == nil {
		r.state.Notify("login required")
		return nil, apperr.NewAuthRequired("favorite")
	}

	id, err := r.resolver.Resolve(ctx, article)
	if err != nil {
		slog.Warn("Aborting favorite, article identity unresolved", "url", article.URL, "error", err)
		return nil, nil
	}

	active, err := r.engagement.ToggleFavorite(ctx, id, session.UserID)
	if err != nil {
		slog.Warn("Favorite toggle failed", "article", id, "error", err)
		return nil, nil
	}

	r.state.SetFavorite(id, active)

	snap := r.readCounts(ctx, id, article.URL)
	snap.Favorited = active
	r.state.Apply(*snap)
	return snap, nil
}

// PostComment is the comment gesture. It follows the vote protocol up to the
// store call: require a user, then resolve the article's durable identity so
// a comment on a still-transient article materializes it first. Unlike votes
// a failure here surfaces to the caller, since the user would otherwise lose
// typed text with no feedback.
func (r *Reconciler) PostComment(ctx context.Context, session *auth.Session, article domain.Article, text string) (domain.Comment, error) {
	if session == nil {
		r.state.Notify("login required")
		return domain.Comment{}, apperr.NewAuthRequired("comment")
	}

	id := article.ID
	if !article.Durable() && article.URL != "" {
		resolved, err := r.resolver.Resolve(ctx, article)
		if err != nil {
			slog.Warn("Aborting comment, article identity unresolved", "url", article.URL, "error", err)
			return domain.Comment{}, apperr.NewNotSynced("article not yet synchronized")
		}
		id = resolved
	}

	// The ledger re-checks the identifier shape, so an article that could not
	// be resolved here still fails with the same not-synchronized error.
	return r.ledger.Add(ctx, id.String(), session.User(), text)
}

// ArticleEngagement initializes a detail view: both counts plus the user's
// own vote and favorite flags. A transient article reports all zeroes.
func (r *Reconciler) ArticleEngagement(ctx context.Context, session *auth.Session, rawID, url string) (*Snapshot, error) {
	id, ok := domain.ParseArticleID(rawID)
	if !ok {
		return &Snapshot{URL: url}, nil
	}

	snap := r.readCounts(ctx, id, url)
	if session != nil {
		liked, err := r.engagement.HasUserLiked(ctx, id, session.UserID)
		if err != nil {
			slog.Warn("Failed to read like flag", "article", id, "error", err)
		}
		disliked, err := r.engagement.HasUserDisliked(ctx, id, session.UserID)
		if err != nil {
			slog.Warn("Failed to read dislike flag", "article", id, "error", err)
		}
		snap.Liked = liked
		snap.Disliked = disliked
		snap.Favorited = r.state.IsFavorite(id)
	}
	return snap, nil
}

// Load serves a category from the cache only, counts enriched, and publishes
// the list. Store failures degrade to an empty list.
func (r *Reconciler) Load(ctx context.Context, categoryLabel string) ([]domain.Article, error) {
	if categoryLabel == "" {
		categoryLabel = domain.DefaultCategory
	}

	articles, err := r.articles.GetCached(ctx, categoryLabel)
	if err != nil {
		slog.Warn("Cached read failed, serving empty feed", "category", categoryLabel, "error", err)
		articles = nil
	}

	articles = r.EnrichCounts(ctx, articles)
	r.state.SetArticles(articles)
	return articles, nil
}

// Refresh loads a category: cached articles first, then a generator fetch
// persisted through the cache gateway, with one batched count enrichment
// before the list is published.
func (r *Reconciler) Refresh(ctx context.Context, categoryLabel string) ([]domain.Article, error) {
	if categoryLabel == "" {
		categoryLabel = domain.DefaultCategory
	}

	articles, err := r.articles.GetCached(ctx, categoryLabel)
	if err != nil {
		slog.Warn("Cached read failed, continuing with generator only", "category", categoryLabel, "error", err)
		articles = nil
	}

	if r.generator != nil {
		fresh, err := r.generator.FetchPositiveNews(ctx, r.query, categoryLabel)
		if err != nil {
			slog.Warn("Generator fetch failed, serving cache", "category", categoryLabel, "error", err)
		} else if len(fresh) > 0 {
			saved, err := r.articles.Save(ctx, categoryLabel, fresh)
			if err != nil {
				slog.Warn("Failed to persist generated articles", "category", categoryLabel, "error", err)
				saved = fresh
			}
			articles = mergeByKey(saved, articles)
		}
	}

	articles = r.EnrichCounts(ctx, articles)
	r.state.SetArticles(articles)
	return articles, nil
}

// EnrichCounts overwrites every durable article's counts from a single
// batched lookup. Transient articles default to zero; a failed lookup leaves
// the input untouched so display is never blocked.
func (r *Reconciler) EnrichCounts(ctx context.Context, articles []domain.Article) []domain.Article {
	ids := make([]uuid.UUID, 0, len(articles))
	for _, a := range articles {
		if a.Durable() {
			ids = append(ids, a.ID)
		}
	}

	enriched := make([]domain.Article, len(articles))
	copy(enriched, articles)

	if len(ids) == 0 {
		// No store call needed, but transient counts still reset to zero.
		for i := range enriched {
			enriched[i].LikeCount = 0
			enriched[i].DislikeCount = 0
		}
		return enriched
	}

	counts, err := r.engagement.BatchCounts(ctx, ids)
	if err != nil {
		slog.Warn("Count enrichment failed, keeping source counts", "error", err)
		return articles
	}
	for i := range enriched {
		if !enriched[i].Durable() {
			enriched[i].LikeCount = 0
			enriched[i].DislikeCount = 0
			continue
		}
		enriched[i].LikeCount = counts.Likes[enriched[i].ID]
		enriched[i].DislikeCount = counts.Dislikes[enriched[i].ID]
	}
	return enriched
}

// State exposes the view-state holder for read-only access by the UI layer.
func (r *Reconciler) State() *FeedState {
	return r.state
}

// mergeByKey prepends fresh articles, dropping cached entries whose
// normalized URL a fresh article already covers.
func mergeByKey(fresh, cached []domain.Article) []domain.Article {
	seen := make(map[string]bool, len(fresh))
	merged := make([]domain.Article, 0, len(fresh)+len(cached))
	for _, a := range fresh {
		key := a.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, a)
	}
	for _, a := range cached {
		if seen[a.Key()] {
			continue
		}
		seen[a.Key()] = true
		merged = append(merged, a)
	}
	return merged
}
