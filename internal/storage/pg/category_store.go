package pg

import (
	"context"
	"fmt"

	"github.com/brightfeed/brightfeed/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CategoryStore struct {
	db *pgxpool.Pool
}

func NewCategoryStore(pool *ConnectionPool) *CategoryStore {
	return &CategoryStore{db: pool.conn}
}

func (s *CategoryStore) ListFor(ctx context.Context, userID *uuid.UUID) ([]domain.Category, error) {
	query := `
		SELECT id, label, value, owner_id
		FROM categories
		WHERE owner_id IS NULL OR owner_id = $1
		ORDER BY owner_id NULLS FIRST, label
	`
	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Label, &c.Value, &c.OwnerID); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *CategoryStore) Insert(ctx context.Context, category domain.Category) (domain.Category, error) {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}

	cmd := `
		INSERT INTO categories (id, label, value, owner_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (value, owner_id) DO UPDATE SET label = EXCLUDED.label
		RETURNING id
	`
	err := s.db.QueryRow(ctx, cmd, category.ID, category.Label, category.Value, category.OwnerID).Scan(&category.ID)
	if err != nil {
		return domain.Category{}, fmt.Errorf("failed to insert category: %w", err)
	}
	return category, nil
}

func (s *CategoryStore) DeleteOwned(ctx context.Context, id, userID uuid.UUID) error {
	_, err := s.db.Exec(ctx, `DELETE FROM categories WHERE id = $1 AND owner_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

func (s *CategoryStore) SeedGlobal(ctx context.Context, categories []domain.Category) error {
	for _, c := range categories {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		cmd := `
			INSERT INTO categories (id, label, value, owner_id)
			VALUES ($1, $2, $3, NULL)
			ON CONFLICT (value, owner_id) DO UPDATE SET label = EXCLUDED.label
		`
		if _, err := s.db.Exec(ctx, cmd, c.ID, c.Label, c.Value); err != nil {
			return fmt.Errorf("failed to seed category %q: %w", c.Value, err)
		}
	}
	return nil
}
