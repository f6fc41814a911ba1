// Package memory holds in-process implementations of the storage interfaces.
// They back unit tests and local development without a database; the semantics
// mirror the pg implementations, including the per-pair vote invariant.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/brightfeed/brightfeed/internal/domain"
	"github.com/brightfeed/brightfeed/internal/storage"
	"github.com/google/uuid"
)

type pair struct {
	articleID uuid.UUID
	userID    uuid.UUID
}

type Store struct {
	mu sync.RWMutex

	articles   map[uuid.UUID]domain.Article
	byKey      map[string]uuid.UUID
	likes      map[pair]bool
	dislikes   map[pair]bool
	favorites  map[pair]bool
	comments   map[uuid.UUID]domain.Comment
	users      map[uuid.UUID]domain.User
	categories map[uuid.UUID]domain.Category

	// FailWrites makes every mutating call report a store failure, for
	// exercising the degraded paths in tests.
	FailWrites bool

	seq int
}

var errStoreUnavailable = &unavailableError{}

type unavailableError struct{}

func (e *unavailableError) Error() string { return "store unavailable" }

func NewStore() *Store {
	return &Store{
		articles:   make(map[uuid.UUID]domain.Article),
		byKey:      make(map[string]uuid.UUID),
		likes:      make(map[pair]bool),
		dislikes:   make(map[pair]bool),
		favorites:  make(map[pair]bool),
		comments:   make(map[uuid.UUID]domain.Comment),
		users:      make(map[uuid.UUID]domain.User),
		categories: make(map[uuid.UUID]domain.Category),
	}
}

func (s *Store) GetCached(ctx context.Context, categoryLabel string) ([]domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var articles []domain.Article
	for _, a := range s.articles {
		if a.Category == categoryLabel {
			articles = append(articles, a)
		}
	}
	sort.Slice(articles, func(i, j int) bool {
		return articles[i].Date.After(articles[j].Date)
	})
	if len(articles) > storage.CachedWindowSize {
		articles = articles[:storage.CachedWindowSize]
	}
	return articles, nil
}

func (s *Store) Save(ctx context.Context, categoryLabel string, articles []domain.Article) ([]domain.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites {
		return nil, errStoreUnavailable
	}

	seen := make(map[string]bool, len(articles))
	saved := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		key := a.Key()
		if seen[key] {
			continue
		}
		seen[key] = true

		if existing, ok := s.byKey[key]; ok {
			a.ID = existing
		} else {
			if a.ID == uuid.Nil {
				a.ID = uuid.New()
			}
			s.byKey[key] = a.ID
		}
		if a.Category == "" {
			a.Category = categoryLabel
		}
		if a.Category == "" {
			a.Category = domain.DefaultCategory
		}
		if a.Date.IsZero() {
			a.Date = time.Now()
		}
		s.articles[a.ID] = a
		saved = append(saved, a)
	}
	return saved, nil
}

func (s *Store) FindByKey(ctx context.Context, key string) (*domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byKey[key]
	if !ok {
		return nil, nil
	}
	a := s.articles[id]
	return &a, nil
}

func (s *Store) UpdateImage(ctx context.Context, url, imageURL string) error {
	return s.patch(url, func(a *domain.Article) { a.ImageURL = imageURL })
}

func (s *Store) UpdateAudio(ctx context.Context, url, payload string) error {
	return s.patch(url, func(a *domain.Article) { a.AudioPayload = payload })
}

func (s *Store) patch(url string, apply func(*domain.Article)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites {
		return errStoreUnavailable
	}

	id, ok := s.byKey[(domain.Article{URL: url}).Key()]
	if !ok {
		return nil
	}
	a := s.articles[id]
	apply(&a)
	s.articles[id] = a
	return nil
}

func (s *Store) ToggleLike(ctx context.Context, articleID, userID uuid.UUID) (bool, error) {
	return s.toggleVote(s.likes, s.dislikes, articleID, userID)
}

func (s *Store) ToggleDislike(ctx context.Context, articleID, userID uuid.UUID) (bool, error) {
	return s.toggleVote(s.dislikes, s.likes, articleID, userID)
}

func (s *Store) toggleVote(votes, opposing map[pair]bool, articleID, userID uuid.UUID) (bool, error) {
	if articleID == uuid.Nil {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites {
		return false, errStoreUnavailable
	}

	p := pair{articleID, userID}
	delete(opposing, p)
	if votes[p] {
		delete(votes, p)
		return false, nil
	}
	votes[p] = true
	return true, nil
}

func (s *Store) LikeCount(ctx context.Context, articleID uuid.UUID) (int, error) {
	return s.countVotes(s.likes, articleID), nil
}

func (s *Store) DislikeCount(ctx context.Context, articleID uuid.UUID) (int, error) {
	return s.countVotes(s.dislikes, articleID), nil
}

func (s *Store) countVotes(votes map[pair]bool, articleID uuid.UUID) int {
	if articleID == uuid.Nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for p := range votes {
		if p.articleID == articleID {
			count++
		}
	}
	return count
}

func (s *Store) BatchCounts(ctx context.Context, articleIDs []uuid.UUID) (storage.Counts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++ // tracked so tests can assert one bulk read per enrichment

	counts := storage.Counts{
		Likes:    make(map[uuid.UUID]int),
		Dislikes: make(map[uuid.UUID]int),
	}
	wanted := make(map[uuid.UUID]bool, len(articleIDs))
	for _, id := range articleIDs {
		wanted[id] = true
	}
	for p := range s.likes {
		if wanted[p.articleID] {
			counts.Likes[p.articleID]++
		}
	}
	for p := range s.dislikes {
		if wanted[p.articleID] {
			counts.Dislikes[p.articleID]++
		}
	}
	return counts, nil
}

// BatchCountCalls reports how many BatchCounts invocations the store served.
func (s *Store) BatchCountCalls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seq
}

func (s *Store) HasUserLiked(ctx context.Context, articleID, userID uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.likes[pair{articleID, userID}], nil
}

func (s *Store) HasUserDisliked(ctx context.Context, articleID, userID uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dislikes[pair{articleID, userID}], nil
}

func (s *Store) ToggleFavorite(ctx context.Context, articleID, userID uuid.UUID) (bool, error) {
	if articleID == uuid.Nil {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites {
		return false, errStoreUnavailable
	}

	p := pair{articleID, userID}
	if s.favorites[p] {
		delete(s.favorites, p)
		return false, nil
	}
	s.favorites[p] = true
	return true, nil
}

func (s *Store) FavoriteIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []uuid.UUID
	for p := range s.favorites {
		if p.userID == userID {
			ids = append(ids, p.articleID)
		}
	}
	return ids, nil
}

func (s *Store) ListByArticle(ctx context.Context, articleID uuid.UUID) ([]domain.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var comments []domain.Comment
	for _, c := range s.comments {
		if c.ArticleID == articleID {
			comments = append(comments, c)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments, nil
}

func (s *Store) Insert(ctx context.Context, comment domain.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites {
		return errStoreUnavailable
	}

	s.comments[comment.ID] = comment
	return nil
}

func (s *Store) DeleteOwned(ctx context.Context, commentID, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.comments[commentID]; ok && c.UserID == userID {
		delete(s.comments, commentID)
	}
	return nil
}

func (s *Store) Ensure(ctx context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites {
		return errStoreUnavailable
	}

	s.users[user.ID] = user
	return nil
}

// User returns the stored profile row, for test assertions.
func (s *Store) User(id uuid.UUID) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	return u, ok
}

// ArticleCount reports how many distinct rows the store holds.
func (s *Store) ArticleCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.articles)
}
