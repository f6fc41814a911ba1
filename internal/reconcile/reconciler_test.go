package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/brightfeed/brightfeed/internal/apperr"
	"github.com/brightfeed/brightfeed/internal/auth"
	"github.com/brightfeed/brightfeed/internal/comments"
	"github.com/brightfeed/brightfeed/internal/domain"
	"github.com/brightfeed/brightfeed/internal/storage/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	articles []domain.Article
	err      error
	calls    int
}

func (g *fakeGenerator) FetchPositiveNews(ctx context.Context, query, label string) ([]domain.Article, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	out := make([]domain.Article, len(g.articles))
	copy(out, g.articles)
	for i := range out {
		out[i].Category = label
	}
	return out, nil
}

func newReconciler(t *testing.T, opts ...Option) (*Reconciler, *memory.Store, *FeedState) {
	t.Helper()
	store := memory.NewStore()
	state := NewFeedState()
	opts = append(opts, WithCommentLedger(comments.NewLedger(store, store)))
	r := New(state, store, store, nil, opts...)
	t.Cleanup(r.Close)
	return r, store, state
}

func session() *auth.Session {
	return &auth.Session{UserID: uuid.New(), Username: "ada"}
}

func TestVoteLike_RequiresSession(t *testing.T) {
	r, store, state := newReconciler(t)

	_, err := r.VoteLike(context.Background(), nil, domain.Article{URL: "https://x.com/a"})

	var ae *apperr.AuthRequiredError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 0, store.ArticleCount(), "no store call may happen without a user")
	assert.Equal(t, "login required", state.TakeNotice())
}

func TestVoteLike_MaterializesIdentityAndBroadcasts(t *testing.T) {
	r, store, state := newReconciler(t)
	ctx := context.Background()
	sess := session()

	article := domain.Article{URL: "https://x.com/a/", Title: "A"}
	state.SetArticles([]domain.Article{article})
	state.Select(article)

	snap, err := r.VoteLike(ctx, sess, article)
	require.NoError(t, err)
	require.NotNil(t, snap)

	assert.NotEqual(t, uuid.Nil, snap.ID)
	assert.True(t, snap.Liked)
	assert.Equal(t, 1, snap.LikeCount)
	assert.Equal(t, 0, snap.DislikeCount)
	assert.Equal(t, 1, store.ArticleCount())

	// The materialized id and fresh counts reach every in-memory copy,
	// matched by normalized URL since the held copies were transient.
	list := state.Articles()
	require.Len(t, list, 1)
	assert.Equal(t, snap.ID, list[0].ID)
	assert.Equal(t, 1, list[0].LikeCount)

	selected := state.Selected()
	require.NotNil(t, selected)
	assert.Equal(t, snap.ID, selected.ID)
	assert.Equal(t, 1, selected.LikeCount)
}

func TestVoteLike_ToggleTwiceRetracts(t *testing.T) {
	r, _, _ := newReconciler(t)
	ctx := context.Background()
	sess := session()
	article := domain.Article{URL: "https://x.com/a"}

	first, err := r.VoteLike(ctx, sess, article)
	require.NoError(t, err)
	assert.True(t, first.Liked)
	assert.Equal(t, 1, first.LikeCount)

	second, err := r.VoteLike(ctx, sess, article)
	require.NoError(t, err)
	assert.False(t, second.Liked)
	assert.Equal(t, 0, second.LikeCount, "retraction returns the count to its original value")
}

func TestVote_MutualExclusionSequence(t *testing.T) {
	r, _, _ := newReconciler(t)
	ctx := context.Background()
	sess := session()
	article := domain.Article{URL: "https://x.com/a"}

	// U likes A: 0 -> 1.
	snap, err := r.VoteLike(ctx, sess, article)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.LikeCount)
	assert.Equal(t, 0, snap.DislikeCount)

	// U dislikes A: like 1 -> 0, dislike 0 -> 1.
	snap, err = r.VoteDislike(ctx, sess, article)
	require.NoError(t, err)
	assert.True(t, snap.Disliked)
	assert.Equal(t, 0, snap.LikeCount)
	assert.Equal(t, 1, snap.DislikeCount)

	// U dislikes A again: dislike 1 -> 0, neither active.
	snap, err = r.VoteDislike(ctx, sess, article)
	require.NoError(t, err)
	assert.False(t, snap.Disliked)
	assert.Equal(t, 0, snap.LikeCount)
	assert.Equal(t, 0, snap.DislikeCount)
}

func TestVote_AtMostOneVoteKindPerPair(t *testing.T) {
	r, store, _ := newReconciler(t)
	ctx := context.Background()
	sess := session()
	article := domain.Article{URL: "https://x.com/a"}

	gestures := []func(context.Context, *auth.Session, domain.Article) (*Snapshot, error){
		r.VoteLike, r.VoteDislike, r.VoteDislike, r.VoteLike, r.VoteLike, r.VoteDislike,
	}
	var id uuid.UUID
	for _, gesture := range gestures {
		snap, err := gesture(ctx, sess, article)
		require.NoError(t, err)
		id = snap.ID

		liked, _ := store.HasUserLiked(ctx, id, sess.UserID)
		disliked, _ := store.HasUserDisliked(ctx, id, sess.UserID)
		assert.False(t, liked && disliked, "like and dislike may never coexist")
	}
}

func TestVote_ResolutionFailureAbortsSilently(t *testing.T) {
	r, store, state := newReconciler(t)
	store.FailWrites = true
	state.SetArticles([]domain.Article{{URL: "https://x.com/a", LikeCount: 7}})

	snap, err := r.VoteLike(context.Background(), session(), domain.Article{URL: "https://x.com/a"})

	assert.NoError(t, err, "resolution failure is logged, not surfaced")
	assert.Nil(t, snap)
	assert.Equal(t, 7, state.Articles()[0].LikeCount, "state must stay untouched")
}

func TestToggleFavorite_UpdatesFavoriteSet(t *testing.T) {
	r, _, state := newReconciler(t)
	ctx := context.Background()
	sess := session()
	article := domain.Article{URL: "https://x.com/a"}

	snap, err := r.ToggleFavorite(ctx, sess, article)
	require.NoError(t, err)
	assert.True(t, snap.Favorited)
	assert.True(t, state.IsFavorite(snap.ID))

	snap, err = r.ToggleFavorite(ctx, sess, article)
	require.NoError(t, err)
	assert.False(t, snap.Favorited)
	assert.False(t, state.IsFavorite(snap.ID))
}

func TestToggleFavorite_RequiresSession(t *testing.T) {
	r, _, _ := newReconciler(t)

	_, err := r.ToggleFavorite(context.Background(), nil, domain.Article{URL: "https://x.com/a"})

	var ae *apperr.AuthRequiredError
	require.ErrorAs(t, err, &ae)
}

func TestSessionEvents_ReloadAndClearFavorites(t *testing.T) {
	store := memory.NewStore()
	state := NewFeedState()
	broker := auth.NewBroker()
	r := New(state, store, store, broker)
	defer r.Close()

	ctx := context.Background()
	sess := session()

	saved, err := store.Save(ctx, "Generale", []domain.Article{{URL: "https://x.com/a"}})
	require.NoError(t, err)
	_, err = store.ToggleFavorite(ctx, saved[0].ID, sess.UserID)
	require.NoError(t, err)

	broker.Publish(auth.Event{Kind: auth.SignedIn, Session: sess})
	assert.True(t, state.IsFavorite(saved[0].ID), "sign-in reloads the favorite set")

	broker.Publish(auth.Event{Kind: auth.SignedOut})
	assert.Empty(t, state.FavoriteIDs(), "sign-out clears the favorite set")
}

func TestEnrichCounts_SingleBatchedLookup(t *testing.T) {
	r, store, _ := newReconciler(t)
	ctx := context.Background()
	sess := session()

	saved, err := store.Save(ctx, "Generale", []domain.Article{
		{URL: "https://x.com/a"},
		{URL: "https://x.com/b"},
		{URL: "https://x.com/c"},
	})
	require.NoError(t, err)
	_, err = store.ToggleLike(ctx, saved[0].ID, sess.UserID)
	require.NoError(t, err)
	_, err = store.ToggleDislike(ctx, saved[1].ID, sess.UserID)
	require.NoError(t, err)

	transient := domain.Article{URL: "https://x.com/new", LikeCount: 9, DislikeCount: 9}
	input := append(append([]domain.Article{}, saved...), transient)

	enriched := r.EnrichCounts(ctx, input)

	require.Len(t, enriched, 4)
	assert.Equal(t, 1, enriched[0].LikeCount)
	assert.Equal(t, 1, enriched[1].DislikeCount)
	assert.Equal(t, 0, enriched[2].LikeCount)
	assert.Equal(t, 0, enriched[3].LikeCount, "transient articles default to zero")
	assert.Equal(t, 0, enriched[3].DislikeCount)

	assert.Equal(t, 1, store.BatchCountCalls(), "one bulk lookup regardless of list size")
}

func TestRefresh_MergesGeneratorAndCache(t *testing.T) {
	gen := &fakeGenerator{articles: []domain.Article{
		{URL: "https://x.com/fresh", Title: "Fresh"},
		{URL: "https://x.com/shared/", Title: "Shared updated"},
	}}
	r, store, state := newReconciler(t, WithGenerator(gen, "good news"))
	ctx := context.Background()

	_, err := store.Save(ctx, "Scienza", []domain.Article{{URL: "http://x.com/shared", Title: "Shared"}})
	require.NoError(t, err)

	articles, err := r.Refresh(ctx, "Scienza")
	require.NoError(t, err)

	require.Len(t, articles, 2, "shared normalized URL collapses to one entry")
	for _, a := range articles {
		assert.True(t, a.Durable(), "refresh persists generated articles")
	}
	assert.Equal(t, 1, gen.calls)
	assert.Len(t, state.Articles(), 2, "published list lands in the state holder")
}

func TestRefresh_GeneratorFailureServesCache(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("generator down")}
	r, store, _ := newReconciler(t, WithGenerator(gen, "good news"))
	ctx := context.Background()

	_, err := store.Save(ctx, "Generale", []domain.Article{{URL: "https://x.com/cached"}})
	require.NoError(t, err)

	articles, err := r.Refresh(ctx, "Generale")
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "https://x.com/cached", articles[0].URL)
}

func TestPostComment_MaterializesTransientArticle(t *testing.T) {
	r, store, _ := newReconciler(t)
	ctx := context.Background()
	sess := session()

	comment, err := r.PostComment(ctx, sess, domain.Article{URL: "https://x.com/a"}, "first!")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, comment.ArticleID, "the comment gesture resolved a durable identity")
	assert.Equal(t, 1, store.ArticleCount())
	assert.Equal(t, "ada", comment.Username)

	// A second comment on the same logical article reuses the row.
	again, err := r.PostComment(ctx, sess, domain.Article{URL: "HTTP://x.com/a/"}, "and again")
	require.NoError(t, err)
	assert.Equal(t, comment.ArticleID, again.ArticleID)
	assert.Equal(t, 1, store.ArticleCount())
}

func TestPostComment_RequiresSession(t *testing.T) {
	r, store, state := newReconciler(t)

	_, err := r.PostComment(context.Background(), nil, domain.Article{URL: "https://x.com/a"}, "hi")

	var ae *apperr.AuthRequiredError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 0, store.ArticleCount())
	assert.Equal(t, "login required", state.TakeNotice())
}

func TestPostComment_ResolutionFailureSurfaces(t *testing.T) {
	r, store, _ := newReconciler(t)
	store.FailWrites = true

	_, err := r.PostComment(context.Background(), session(), domain.Article{URL: "https://x.com/a"}, "hi")

	var nse *apperr.NotSyncedError
	require.ErrorAs(t, err, &nse, "comment posting surfaces its failure, unlike votes")
}

func TestPostComment_NoURLNoResolution(t *testing.T) {
	r, store, _ := newReconciler(t)

	_, err := r.PostComment(context.Background(), session(), domain.Article{}, "hi")

	var nse *apperr.NotSyncedError
	require.ErrorAs(t, err, &nse)
	assert.Equal(t, 0, store.ArticleCount(), "nothing to resolve by, nothing persisted")
}

func TestEnrichCounts_AllTransientZeroed(t *testing.T) {
	r, store, _ := newReconciler(t)

	enriched := r.EnrichCounts(context.Background(), []domain.Article{
		{URL: "https://x.com/a", LikeCount: 9, DislikeCount: 4},
		{URL: "https://x.com/b", LikeCount: 2},
	})

	require.Len(t, enriched, 2)
	for _, a := range enriched {
		assert.Zero(t, a.LikeCount)
		assert.Zero(t, a.DislikeCount)
	}
	assert.Equal(t, 0, store.BatchCountCalls(), "no bulk lookup for a purely transient list")
}

type flagFailingStore struct {
	*memory.Store
}

func (s *flagFailingStore) HasUserLiked(ctx context.Context, articleID, userID uuid.UUID) (bool, error) {
	return false, errors.New("store unavailable")
}

func (s *flagFailingStore) HasUserDisliked(ctx context.Context, articleID, userID uuid.UUID) (bool, error) {
	return false, errors.New("store unavailable")
}

func TestArticleEngagement_FlagReadFailureDegrades(t *testing.T) {
	store := memory.NewStore()
	state := NewFeedState()
	r := New(state, store, &flagFailingStore{store}, nil)
	defer r.Close()

	ctx := context.Background()
	sess := session()
	saved, err := store.Save(ctx, "Generale", []domain.Article{{URL: "https://x.com/a"}})
	require.NoError(t, err)
	_, err = store.ToggleLike(ctx, saved[0].ID, sess.UserID)
	require.NoError(t, err)

	snap, err := r.ArticleEngagement(ctx, sess, saved[0].ID.String(), saved[0].URL)

	require.NoError(t, err, "a failed flag read degrades to defaults instead of surfacing")
	assert.Equal(t, 1, snap.LikeCount, "counts still come through")
	assert.False(t, snap.Liked)
	assert.False(t, snap.Disliked)
}

func TestArticleEngagement(t *testing.T) {
	r, store, _ := newReconciler(t)
	ctx := context.Background()
	sess := session()

	saved, err := store.Save(ctx, "Generale", []domain.Article{{URL: "https://x.com/a"}})
	require.NoError(t, err)
	_, err = store.ToggleLike(ctx, saved[0].ID, sess.UserID)
	require.NoError(t, err)

	t.Run("durable id reports counts and flags", func(t *testing.T) {
		snap, err := r.ArticleEngagement(ctx, sess, saved[0].ID.String(), saved[0].URL)
		require.NoError(t, err)
		assert.Equal(t, 1, snap.LikeCount)
		assert.True(t, snap.Liked)
		assert.False(t, snap.Disliked)
	})

	t.Run("non-durable id reports zeroes without store access", func(t *testing.T) {
		snap, err := r.ArticleEngagement(ctx, sess, "temp-1", "https://x.com/pending")
		require.NoError(t, err)
		assert.Zero(t, snap.LikeCount)
		assert.False(t, snap.Liked)
	})
}
