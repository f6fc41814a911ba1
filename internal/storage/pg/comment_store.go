package pg

import (
	"context"
	"fmt"

	"github.com/brightfeed/brightfeed/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CommentStore struct {
	db *pgxpool.Pool
}

func NewCommentStore(pool *ConnectionPool) *CommentStore {
	return &CommentStore{db: pool.conn}
}

func (s *CommentStore) ListByArticle(ctx context.Context, articleID uuid.UUID) ([]domain.Comment, error) {
	query := `
		SELECT id, article_id, user_id, username, text, created_at
		FROM comments
		WHERE article_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.Query(ctx, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.ArticleID, &c.UserID, &c.Username, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (s *CommentStore) Insert(ctx context.Context, comment domain.Comment) error {
	cmd := `
		INSERT INTO comments (id, article_id, user_id, username, text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.Exec(ctx, cmd,
		comment.ID,
		comment.ArticleID,
		comment.UserID,
		comment.Username,
		comment.Text,
		comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

// DeleteOwned conditions the delete on authorship; a non-owner delete removes
// nothing and reports no error.
func (s *CommentStore) DeleteOwned(ctx context.Context, commentID, userID uuid.UUID) error {
	_, err := s.db.Exec(ctx,
		`DELETE FROM comments WHERE id = $1 AND user_id = $2`,
		commentID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}
