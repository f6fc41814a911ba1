package memory

import (
	"context"
	"sort"

	"github.com/brightfeed/brightfeed/internal/domain"
	"github.com/google/uuid"
)

// Categories is the category-store view over a Store. It exists as its own
// type because comments and categories share method names at the interface
// boundary.
type Categories struct {
	s *Store
}

func (s *Store) Categories() *Categories {
	return &Categories{s: s}
}

func (c *Categories) ListFor(ctx context.Context, userID *uuid.UUID) ([]domain.Category, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	var categories []domain.Category
	for _, cat := range c.s.categories {
		if cat.Global() || (userID != nil && cat.OwnedBy(*userID)) {
			categories = append(categories, cat)
		}
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Global() != categories[j].Global() {
			return categories[i].Global()
		}
		return categories[i].Label < categories[j].Label
	})
	return categories, nil
}

func (c *Categories) Insert(ctx context.Context, category domain.Category) (domain.Category, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if c.s.FailWrites {
		return domain.Category{}, errStoreUnavailable
	}

	for id, existing := range c.s.categories {
		if existing.Value == category.Value && sameOwner(existing.OwnerID, category.OwnerID) {
			existing.Label = category.Label
			c.s.categories[id] = existing
			return existing, nil
		}
	}

	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	c.s.categories[category.ID] = category
	return category, nil
}

func (c *Categories) DeleteOwned(ctx context.Context, id, userID uuid.UUID) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if cat, ok := c.s.categories[id]; ok && cat.OwnedBy(userID) {
		delete(c.s.categories, id)
	}
	return nil
}

func (c *Categories) SeedGlobal(ctx context.Context, categories []domain.Category) error {
	for _, cat := range categories {
		cat.OwnerID = nil
		if _, err := c.Insert(ctx, cat); err != nil {
			return err
		}
	}
	return nil
}

func sameOwner(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
