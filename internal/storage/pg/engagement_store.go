package pg

import (
	"context"
	"fmt"

	"github.com/brightfeed/brightfeed/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EngagementStore struct {
	db *pgxpool.Pool
}

func NewEngagementStore(pool *ConnectionPool) *EngagementStore {
	return &EngagementStore{db: pool.conn}
}

// ToggleLike enforces the at-most-one-of-{like,dislike} invariant: the
// opposing dislike is removed first, then like membership is flipped.
func (s *EngagementStore) ToggleLike(ctx context.Context, articleID, userID uuid.UUID) (bool, error) {
	return s.toggleVote(ctx, "likes", "dislikes", articleID, userID)
}

func (s *EngagementStore) ToggleDislike(ctx context.Context, articleID, userID uuid.UUID) (bool, error) {
	return s.toggleVote(ctx, "dislikes", "likes", articleID, userID)
}

func (s *EngagementStore) toggleVote(ctx context.Context, table, opposing string, articleID, userID uuid.UUID) (bool, error) {
	if articleID == uuid.Nil {
		return false, nil
	}

	_, err := s.db.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE article_id = $1 AND user_id = $2`, opposing),
		articleID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to clear opposing vote: %w", err)
	}

	tag, err := s.db.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE article_id = $1 AND user_id = $2`, table),
		articleID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to retract vote: %w", err)
	}
	if tag.RowsAffected() > 0 {
		// The vote existed: the toggle is a retraction.
		return false, nil
	}

	_, err = s.db.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (article_id, user_id) VALUES ($1, $2) ON CONFLICT (article_id, user_id) DO NOTHING`, table),
		articleID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to record vote: %w", err)
	}

	return true, nil
}

func (s *EngagementStore) LikeCount(ctx context.Context, articleID uuid.UUID) (int, error) {
	return s.countVotes(ctx, "likes", articleID)
}

func (s *EngagementStore) DislikeCount(ctx context.Context, articleID uuid.UUID) (int, error) {
	return s.countVotes(ctx, "dislikes", articleID)
}

func (s *EngagementStore) countVotes(ctx context.Context, table string, articleID uuid.UUID) (int, error) {
	if articleID == uuid.Nil {
		return 0, nil
	}

	var count int
	err := s.db.QueryRow(ctx,
		fmt.Sprintf(`SELECT count(*) FROM %s WHERE article_id = $1`, table),
		articleID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return count, nil
}

// BatchCounts issues exactly two grouped queries no matter how many article
// ids are passed. This is the path behind every list render.
func (s *EngagementStore) BatchCounts(ctx context.Context, articleIDs []uuid.UUID) (storage.Counts, error) {
	counts := storage.Counts{
		Likes:    make(map[uuid.UUID]int),
		Dislikes: make(map[uuid.UUID]int),
	}
	if len(articleIDs) == 0 {
		return counts, nil
	}

	if err := s.groupCounts(ctx, "likes", articleIDs, counts.Likes); err != nil {
		return storage.Counts{}, err
	}
	if err := s.groupCounts(ctx, "dislikes", articleIDs, counts.Dislikes); err != nil {
		return storage.Counts{}, err
	}

	return counts, nil
}

func (s *EngagementStore) groupCounts(ctx context.Context, table string, articleIDs []uuid.UUID, out map[uuid.UUID]int) error {
	rows, err := s.db.Query(ctx,
		fmt.Sprintf(`SELECT article_id, count(*) FROM %s WHERE article_id = ANY($1) GROUP BY article_id`, table),
		articleIDs,
	)
	if err != nil {
		return fmt.Errorf("failed to batch count %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return fmt.Errorf("failed to scan %s count: %w", table, err)
		}
		out[id] = count
	}
	return rows.Err()
}

func (s *EngagementStore) HasUserLiked(ctx context.Context, articleID, userID uuid.UUID) (bool, error) {
	return s.hasVote(ctx, "likes", articleID, userID)
}

func (s *EngagementStore) HasUserDisliked(ctx context.Context, articleID, userID uuid.UUID) (bool, error) {
	return s.hasVote(ctx, "dislikes", articleID, userID)
}

func (s *EngagementStore) hasVote(ctx context.Context, table string, articleID, userID uuid.UUID) (bool, error) {
	if articleID == uuid.Nil {
		return false, nil
	}

	var exists bool
	err := s.db.QueryRow(ctx,
		fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE article_id = $1 AND user_id = $2)`, table),
		articleID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check vote: %w", err)
	}
	return exists, nil
}

func (s *EngagementStore) ToggleFavorite(ctx context.Context, articleID, userID uuid.UUID) (bool, error) {
	if articleID == uuid.Nil {
		return false, nil
	}

	tag, err := s.db.Exec(ctx,
		`DELETE FROM favorites WHERE article_id = $1 AND user_id = $2`,
		articleID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to remove favorite: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	// Duplicate-key insert counts as success, the pair is a member either way.
	_, err = s.db.Exec(ctx,
		`INSERT INTO favorites (article_id, user_id) VALUES ($1, $2) ON CONFLICT (article_id, user_id) DO NOTHING`,
		articleID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to add favorite: %w", err)
	}

	return true, nil
}

func (s *EngagementStore) FavoriteIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.db.Query(ctx, `SELECT article_id FROM favorites WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan favorite id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
