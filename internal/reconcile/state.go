package reconcile

import (
	"sync"

	"github.com/brightfeed/brightfeed/internal/domain"
	"github.com/brightfeed/brightfeed/pkg/urlkey"
	"github.com/google/uuid"
)

// Snapshot is the authoritative engagement state broadcast after a mutation.
type Snapshot struct {
	ID           uuid.UUID `json:"id"`
	URL          string    `json:"url"`
	LikeCount    int       `json:"likeCount"`
	DislikeCount int       `json:"dislikeCount"`
	Liked        bool      `json:"liked"`
	Disliked     bool      `json:"disliked"`
	Favorited    bool      `json:"favorited"`
}

// FeedState holds every in-memory copy of article state the UI reads: the
// article list, the selected-article pointer, the favorite-id set and the
// current notification. Only the Reconciler writes it; handlers read
// copies.
type FeedState struct {
	mu          sync.RWMutex
	articles    []domain.Article
	selected    *domain.Article
	favoriteIDs map[uuid.UUID]bool
	notice      string
}

func NewFeedState() *FeedState {
	return &FeedState{
		favoriteIDs: make(map[uuid.UUID]bool),
	}
}

func (s *FeedState) SetArticles(articles []domain.Article) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles = make([]domain.Article, len(articles))
	copy(s.articles, articles)
}

func (s *FeedState) Articles() []domain.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Article, len(s.articles))
	copy(out, s.articles)
	return out
}

func (s *FeedState) Select(article domain.Article) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = &article
}

func (s *FeedState) Selected() *domain.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return nil
	}
	copy := *s.selected
	return &copy
}

// Apply pushes a snapshot into every held copy whose id or normalized URL
// matches: the list entries and the selected pointer. A freshly materialized
// id is propagated at the same time, so later gestures on the same logical
// article skip identity resolution.
func (s *FeedState) Apply(snap Snapshot) {
	key := urlkey.Normalize(snap.URL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.articles {
		if s.matches(s.articles[i], snap.ID, key) {
			s.articles[i].ID = snap.ID
			s.articles[i].LikeCount = snap.LikeCount
			s.articles[i].DislikeCount = snap.DislikeCount
		}
	}
	if s.selected != nil && s.matches(*s.selected, snap.ID, key) {
		s.selected.ID = snap.ID
		s.selected.LikeCount = snap.LikeCount
		s.selected.DislikeCount = snap.DislikeCount
	}
}

func (s *FeedState) matches(a domain.Article, id uuid.UUID, key string) bool {
	if a.Durable() && a.ID == id {
		return true
	}
	return key != "" && a.Key() == key
}

func (s *FeedState) SetFavoriteIDs(ids []uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.favoriteIDs = make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		s.favoriteIDs[id] = true
	}
}

func (s *FeedState) SetFavorite(id uuid.UUID, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if active {
		s.favoriteIDs[id] = true
	} else {
		delete(s.favoriteIDs, id)
	}
}

func (s *FeedState) FavoriteIDs() []uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]uuid.UUID, 0, len(s.favoriteIDs))
	for id := range s.favoriteIDs {
		ids = append(ids, id)
	}
	return ids
}

func (s *FeedState) IsFavorite(id uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.favoriteIDs[id]
}

func (s *FeedState) ClearFavorites() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.favoriteIDs = make(map[uuid.UUID]bool)
}

func (s *FeedState) Notify(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = msg
}

// TakeNotice returns the pending notification and clears it.
func (s *FeedState) TakeNotice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.notice
	s.notice = ""
	return msg
}
