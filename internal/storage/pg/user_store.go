package pg

import (
	"context"
	"fmt"

	"github.com/brightfeed/brightfeed/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserStore struct {
	db *pgxpool.Pool
}

func NewUserStore(pool *ConnectionPool) *UserStore {
	return &UserStore{db: pool.conn}
}

func (s *UserStore) Ensure(ctx context.Context, user domain.User) error {
	cmd := `
		INSERT INTO users (id, username, avatar_url)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			username   = EXCLUDED.username,
			avatar_url = EXCLUDED.avatar_url
	`
	_, err := s.db.Exec(ctx, cmd, user.ID, user.Username, user.AvatarURL)
	if err != nil {
		return fmt.Errorf("failed to ensure user: %w", err)
	}
	return nil
}
