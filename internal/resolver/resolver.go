// Package resolver materializes durable article identities. It is the only
// transition from transient to persisted articles.
package resolver

import (
	"context"
	"fmt"

	"github.com/brightfeed/brightfeed/internal/domain"
	"github.com/brightfeed/brightfeed/internal/storage"
	"github.com/google/uuid"
)

type Resolver struct {
	articles storage.ArticleStore
}

func New(articles storage.ArticleStore) *Resolver {
	return &Resolver{articles: articles}
}

// Resolve returns the article's durable id, persisting the article on first
// use. An article that already carries an id is returned as-is with no I/O.
// A uuid.Nil result means the action targeting this article must abort; it is
// never a retryable identity.
func (r *Resolver) Resolve(ctx context.Context, article domain.Article) (uuid.UUID, error) {
	if article.Durable() {
		return article.ID, nil
	}

	existing, err := r.articles.FindByKey(ctx, article.Key())
	if err != nil {
		return uuid.Nil, fmt.Errorf("identity lookup failed: %w", err)
	}
	if existing != nil {
		return existing.ID, nil
	}

	category := article.Category
	if category == "" {
		category = domain.DefaultCategory
	}

	saved, err := r.articles.Save(ctx, category, []domain.Article{article})
	if err != nil {
		return uuid.Nil, fmt.Errorf("identity persistence failed: %w", err)
	}
	if len(saved) == 0 {
		return uuid.Nil, fmt.Errorf("identity persistence failed: article %q was not saved", article.URL)
	}

	return saved[0].ID, nil
}
