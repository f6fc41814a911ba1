package pg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/brightfeed/brightfeed/internal/domain"
	"github.com/brightfeed/brightfeed/internal/storage"
	"github.com/brightfeed/brightfeed/pkg/urlkey"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ArticleStore struct {
	db *pgxpool.Pool
}

func NewArticleStore(pool *ConnectionPool) *ArticleStore {
	return &ArticleStore{db: pool.conn}
}

func (s *ArticleStore) GetCached(ctx context.Context, categoryLabel string) ([]domain.Article, error) {
	query := `
		SELECT id, url, title, summary, source, date, category, image_url, audio_payload, sentiment_score
		FROM articles
		WHERE category = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := s.db.Query(ctx, query, categoryLabel, storage.CachedWindowSize)
	if err != nil {
		return nil, fmt.Errorf("failed to query cached articles: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]bool)
	var articles []domain.Article
	for rows.Next() {
		var a domain.Article
		if err := rows.Scan(
			&a.ID,
			&a.URL,
			&a.Title,
			&a.Summary,
			&a.Source,
			&a.Date,
			&a.Category,
			&a.ImageURL,
			&a.AudioPayload,
			&a.SentimentScore,
		); err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}

		key := a.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return articles, nil
}

func (s *ArticleStore) Save(ctx context.Context, categoryLabel string, articles []domain.Article) ([]domain.Article, error) {
	unique := dedupeByKey(articles)

	saved := make([]domain.Article, 0, len(unique))
	for _, a := range unique {
		persisted, err := s.upsert(ctx, categoryLabel, a)
		if err != nil {
			slog.Warn("Skipping article that failed to persist", "url", a.URL, "error", err)
			continue
		}
		saved = append(saved, persisted)
	}

	return saved, nil
}

func (s *ArticleStore) upsert(ctx context.Context, categoryLabel string, a domain.Article) (domain.Article, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
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

	cmd := `
		INSERT INTO articles (id, url, url_key, title, summary, source, date, category, image_url, audio_payload, sentiment_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (url_key) DO UPDATE SET
			title           = EXCLUDED.title,
			summary         = EXCLUDED.summary,
			source          = EXCLUDED.source,
			category        = EXCLUDED.category,
			image_url       = COALESCE(NULLIF(EXCLUDED.image_url, ''), articles.image_url),
			audio_payload   = COALESCE(NULLIF(EXCLUDED.audio_payload, ''), articles.audio_payload),
			sentiment_score = EXCLUDED.sentiment_score
		RETURNING id
	`
	var id uuid.UUID
	err := s.db.QueryRow(
		ctx,
		cmd,
		a.ID,
		a.URL,
		a.Key(),
		a.Title,
		a.Summary,
		a.Source,
		a.Date,
		a.Category,
		a.ImageURL,
		a.AudioPayload,
		a.SentimentScore,
	).Scan(&id)
	if err != nil {
		return domain.Article{}, fmt.Errorf("failed to upsert article: %w", err)
	}

	a.ID = id
	return a, nil
}

func (s *ArticleStore) FindByKey(ctx context.Context, key string) (*domain.Article, error) {
	query := `
		SELECT id, url, title, summary, source, date, category, image_url, audio_payload, sentiment_score
		FROM articles
		WHERE url_key = $1
	`
	var a domain.Article
	err := s.db.QueryRow(ctx, query, key).Scan(
		&a.ID,
		&a.URL,
		&a.Title,
		&a.Summary,
		&a.Source,
		&a.Date,
		&a.Category,
		&a.ImageURL,
		&a.AudioPayload,
		&a.SentimentScore,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find article by key: %w", err)
	}

	return &a, nil
}

func (s *ArticleStore) UpdateImage(ctx context.Context, url, imageURL string) error {
	_, err := s.db.Exec(ctx, `UPDATE articles SET image_url = $2 WHERE url_key = $1`, urlkey.Normalize(url), imageURL)
	if err != nil {
		return fmt.Errorf("failed to update image: %w", err)
	}
	return nil
}

func (s *ArticleStore) UpdateAudio(ctx context.Context, url, payload string) error {
	_, err := s.db.Exec(ctx, `UPDATE articles SET audio_payload = $2 WHERE url_key = $1`, urlkey.Normalize(url), payload)
	if err != nil {
		return fmt.Errorf("failed to update audio: %w", err)
	}
	return nil
}

// dedupeByKey keeps the first occurrence of every normalized URL.
func dedupeByKey(articles []domain.Article) []domain.Article {
	seen := make(map[string]bool, len(articles))
	unique := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		key := a.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, a)
	}
	return unique
}
