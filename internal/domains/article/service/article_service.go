package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"angeles-backend/internal/domains/article/model"
	"angeles-backend/internal/domains/article/repository"
	"angeles-backend/internal/shared"
	"angeles-backend/internal/shared/apperror"
)

var errAuthRequired = apperror.Unauthenticated("authentication required")

type articleService struct {
	repo repository.Repository
	now  func() time.Time
}

func NewArticleService(repo repository.Repository) Service {
	return &articleService{
		repo: repo,
		now:  time.Now,
	}
}

// ========================================
// LIFECYCLE
// ========================================

func (s *articleService) CreateArticle(ctx context.Context, author *shared.Principal, req model.CreateArticleRequest) (*model.ArticleResponse, error) {
	if author == nil {
		return nil, errAuthRequired
	}

	// 1. NORMALIZE + VALIDATE (all violations in one error)
	req.Normalize()
	if err := apperror.FromValidation(req.Validate()); err != nil {
		return nil, err
	}

	// 2. BUILD ENTITY with the author snapshot
	now := s.now().UTC()
	a := &model.Article{
		ID:        uuid.New(),
		Title:     req.Title,
		Content:   req.Content,
		Excerpt:   req.Excerpt,
		Author:    author.DisplayName(),
		AuthorID:  author.ID,
		Status:    model.Status(req.Status),
		Category:  req.Category,
		Tags:      req.Tags,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	a.Derive()

	// 3. PERSIST
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	a.AuthorInfo = &model.AuthorInfo{
		ID:        author.ID,
		FirstName: author.FirstName,
		LastName:  author.LastName,
		Username:  author.Username,
	}

	log.Info().
		Str("article_id", a.ID.String()).
		Str("author_id", author.ID.String()).
		Str("status", a.Status.String()).
		Msg("Article created")

	resp := a.ToResponse()
	return &resp, nil
}

func (s *articleService) GetArticle(ctx context.Context, id uuid.UUID) (*model.ArticleResponse, error) {
	a, err := s.repo.IncrementViews(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := a.ToResponse()
	return &resp, nil
}

func (s *articleService) UpdateArticle(ctx context.Context, id uuid.UUID, caller *shared.Principal, req model.UpdateArticleRequest) (*model.ArticleResponse, error) {
	// 1. LOAD
	a, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 2. OWNERSHIP
	if !model.CanMutate(caller, a.AuthorID) {
		return nil, model.ErrNotAuthorized
	}

	// 3. VALIDATE present fields
	req.Normalize()
	if err := apperror.FromValidation(req.Validate()); err != nil {
		return nil, err
	}

	// 4. APPLY + PERSIST
	req.Apply(a)
	a.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	resp := a.ToResponse()
	return &resp, nil
}

func (s *articleService) DeleteArticle(ctx context.Context, id uuid.UUID, caller *shared.Principal) error {
	a, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		return err
	}

	if !model.CanMutate(caller, a.AuthorID) {
		return model.ErrNotAuthorized
	}

	if err := s.repo.SoftDelete(ctx, id, s.now().UTC()); err != nil {
		return err
	}

	log.Info().
		Str("article_id", id.String()).
		Str("deleted_by", caller.ID.String()).
		Msg("Article deactivated")
	return nil
}

func (s *articleService) LikeArticle(ctx context.Context, id uuid.UUID) (*model.LikeResponse, error) {
	likes, err := s.repo.IncrementLikes(ctx, id)
	if err != nil {
		return nil, err
	}

	return &model.LikeResponse{ID: id, Likes: likes}, nil
}

// ========================================
// QUERIES
// ========================================

// ListArticles applies the role gate: only editors and admins choose the status,
// everyone else sees published articles.
func (s *articleService) ListArticles(ctx context.Context, caller *shared.Principal, filter model.ListFilter) (*model.ListResult, error) {
	filter.Normalize()

	q := repository.ListQuery{
		Status:   model.StatusPublished,
		Author:   filter.Author,
		Category: filter.Category,
		Limit:    filter.Limit,
		Offset:   filter.Offset(),
	}

	if model.CanSeeAllStatuses(caller) {
		if err := apperror.FromValidation(filter.Validate()); err != nil {
			return nil, err
		}
		q.Status = ""
		if filter.Status != "" && filter.Status != model.StatusAll {
			q.Status = model.Status(filter.Status)
		}
	}

	articles, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}

	out := make([]model.ArticleResponse, 0, len(articles))
	for _, a := range articles {
		out = append(out, a.ToResponse())
	}

	return &model.ListResult{
		Articles: out,
		Page:     filter.Page,
		Limit:    filter.Limit,
		Total:    total,
	}, nil
}

func (s *articleService) GetStatistics(ctx context.Context, caller *shared.Principal) (*model.Statistics, error) {
	if !model.CanSeeAllStatuses(caller) {
		return nil, model.ErrStatsForbidden
	}

	stats, err := s.repo.Statistics(ctx)
	if err != nil {
		return nil, err
	}

	stats.ComputeRatios()
	stats.GeneratedAt = s.now().UTC()
	return stats, nil
}
