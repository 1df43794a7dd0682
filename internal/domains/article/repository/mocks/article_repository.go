package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"angeles-backend/internal/domains/article/model"
	"angeles-backend/internal/domains/article/repository"
)

type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) Create(ctx context.Context, a *model.Article) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockArticleRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*model.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Article), args.Error(1)
}

func (m *MockArticleRepository) Update(ctx context.Context, a *model.Article) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockArticleRepository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockArticleRepository) IncrementViews(ctx context.Context, id uuid.UUID) (*model.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Article), args.Error(1)
}

func (m *MockArticleRepository) IncrementLikes(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockArticleRepository) List(ctx context.Context, q repository.ListQuery) ([]*model.Article, int64, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.Article), args.Get(1).(int64), args.Error(2)
}

func (m *MockArticleRepository) Statistics(ctx context.Context) (*model.Statistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Statistics), args.Error(1)
}
