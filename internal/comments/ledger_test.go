package comments

import (
	"context"
	"testing"

	"github.com/brightfeed/brightfeed/internal/apperr"
	"github.com/brightfeed/brightfeed/internal/domain"
	"github.com/brightfeed/brightfeed/internal/storage/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedger() (*Ledger, *memory.Store) {
	store := memory.NewStore()
	return NewLedger(store, store), store
}

func TestAdd_And_List_NewestFirst(t *testing.T) {
	ledger, _ := newLedger()
	ctx := context.Background()
	articleID := uuid.New()
	author := domain.User{ID: uuid.New(), Username: "ada"}

	first, err := ledger.Add(ctx, articleID.String(), author, "first!")
	require.NoError(t, err)
	second, err := ledger.Add(ctx, articleID.String(), author, "second")
	require.NoError(t, err)

	list, err := ledger.List(ctx, articleID.String())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Equal(t, "ada", list[0].Username, "username snapshot is denormalized onto the comment")
}

func TestAdd_EnsuresAuthorProfile(t *testing.T) {
	ledger, store := newLedger()
	author := domain.User{ID: uuid.New(), Username: "grace", AvatarURL: "https://img.example.com/g.png"}

	_, err := ledger.Add(context.Background(), uuid.New().String(), author, "hello")
	require.NoError(t, err)

	stored, ok := store.User(author.ID)
	require.True(t, ok, "author row must exist after first comment")
	assert.Equal(t, "grace", stored.Username)
}

func TestAdd_NonDurableArticleID(t *testing.T) {
	ledger, _ := newLedger()

	_, err := ledger.Add(context.Background(), "temp-42", domain.User{ID: uuid.New()}, "hi")

	var nse *apperr.NotSyncedError
	require.ErrorAs(t, err, &nse)
}

func TestAdd_EmptyText(t *testing.T) {
	ledger, _ := newLedger()

	_, err := ledger.Add(context.Background(), uuid.New().String(), domain.User{ID: uuid.New()}, "   ")

	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestList_InvalidArticleID(t *testing.T) {
	ledger, _ := newLedger()

	list, err := ledger.List(context.Background(), "not-a-uuid")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDelete_OwnerOnly(t *testing.T) {
	ledger, _ := newLedger()
	ctx := context.Background()
	articleID := uuid.New()
	owner := domain.User{ID: uuid.New(), Username: "owner"}

	comment, err := ledger.Add(ctx, articleID.String(), owner, "mine")
	require.NoError(t, err)

	t.Run("non-author delete is a silent no-op", func(t *testing.T) {
		require.NoError(t, ledger.Delete(ctx, comment.ID, uuid.New()))

		list, err := ledger.List(ctx, articleID.String())
		require.NoError(t, err)
		assert.Len(t, list, 1, "comment list must be unchanged")
	})

	t.Run("author delete removes the comment", func(t *testing.T) {
		require.NoError(t, ledger.Delete(ctx, comment.ID, owner.ID))

		list, err := ledger.List(ctx, articleID.String())
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}
