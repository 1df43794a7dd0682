package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"angeles-backend/internal/domains/article/model"
)

// =====================================================
// ARTICLE REPOSITORY INTERFACE
// =====================================================

// Repository persists articles. Every read and write except Create ignores
// inactive rows and reports them as ErrArticleNotFound.
type Repository interface {
	// ========================================
	// CRUD Operations
	// ========================================
	Create(ctx context.Context, a *model.Article) error
	FindActiveByID(ctx context.Context, id uuid.UUID) (*model.Article, error)

	// Update saves the editable columns
	Update(ctx context.Context, a *model.Article) error

	// SoftDelete flips is_active to false
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error

	// ========================================
	// COUNTERS (atomic increments)
	// ========================================

	// IncrementViews adds one view and returns the updated article
	IncrementViews(ctx context.Context, id uuid.UUID) (*model.Article, error)

	// IncrementLikes adds one like and returns the new count
	IncrementLikes(ctx context.Context, id uuid.UUID) (int64, error)

	// ========================================
	// QUERIES
	// ========================================

	// List returns one page, newest first, and the total number of matches
	List(ctx context.Context, q ListQuery) ([]*model.Article, int64, error)

	// Statistics aggregates counters over active articles
	Statistics(ctx context.Context) (*model.Statistics, error)
}
