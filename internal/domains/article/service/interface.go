package service

import (
	"context"

	"github.com/google/uuid"

	"angeles-backend/internal/domains/article/model"
	"angeles-backend/internal/shared"
)

// Service is the content lifecycle manager plus the access-controlled query engine.
// A nil caller is the anonymous public.
type Service interface {
	// ========================================
	// LIFECYCLE
	// ========================================
	CreateArticle(ctx context.Context, author *shared.Principal, req model.CreateArticleRequest) (*model.ArticleResponse, error)

	// GetArticle counts one view per call
	GetArticle(ctx context.Context, id uuid.UUID) (*model.ArticleResponse, error)

	UpdateArticle(ctx context.Context, id uuid.UUID, caller *shared.Principal, req model.UpdateArticleRequest) (*model.ArticleResponse, error)
	DeleteArticle(ctx context.Context, id uuid.UUID, caller *shared.Principal) error
	LikeArticle(ctx context.Context, id uuid.UUID) (*model.LikeResponse, error)

	// ========================================
	// QUERIES
	// ========================================
	ListArticles(ctx context.Context, caller *shared.Principal, filter model.ListFilter) (*model.ListResult, error)
	GetStatistics(ctx context.Context, caller *shared.Principal) (*model.Statistics, error)
}
