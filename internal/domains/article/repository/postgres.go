package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"angeles-backend/internal/domains/article/model"
)

const articleColumns = `
		a.id, a.title, a.content, a.excerpt, a.author, a.author_id,
		a.status, a.category, a.read_time, a.views, a.likes, a.tags,
		a.is_active, a.created_at, a.updated_at,
		u.id, u.first_name, u.last_name, u.username`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// ========================================
// BASIC CRUD OPERATIONS
// ========================================

func (r *postgresRepository) Create(ctx context.Context, a *model.Article) error {
	query := `
		INSERT INTO articles (
			id, title, content, excerpt, author, author_id,
			status, category, read_time, views, likes, tags,
			is_active, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12,
			$13, $14, $15
		)
	`

	_, err := r.pool.Exec(ctx, query,
		a.ID,
		a.Title,
		a.Content,
		a.Excerpt,
		a.Author,
		a.AuthorID,
		a.Status,
		a.Category,
		a.ReadTime,
		a.Views,
		a.Likes,
		pq.Array(a.Tags),
		a.IsActive,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert article: %w", err)
	}

	return nil
}

func (r *postgresRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*model.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles a
		LEFT JOIN users u ON u.id = a.author_id
		WHERE a.id = $1 AND a.is_active = true
	`

	a, err := scanArticle(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrArticleNotFound
		}
		return nil, fmt.Errorf("find article: %w", err)
	}

	return a, nil
}

// Update never touches the counters, they only move through the increment methods
func (r *postgresRepository) Update(ctx context.Context, a *model.Article) error {
	query := `
		UPDATE articles SET
			title = $2,
			content = $3,
			excerpt = $4,
			status = $5,
			category = $6,
			read_time = $7,
			tags = $8,
			updated_at = $9
		WHERE id = $1 AND is_active = true
	`

	result, err := r.pool.Exec(ctx, query,
		a.ID,
		a.Title,
		a.Content,
		a.Excerpt,
		a.Status,
		a.Category,
		a.ReadTime,
		pq.Array(a.Tags),
		a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrArticleNotFound
	}

	return nil
}

func (r *postgresRepository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE articles
		SET is_active = false, updated_at = $2
		WHERE id = $1 AND is_active = true
	`

	result, err := r.pool.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("soft delete article: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrArticleNotFound
	}

	return nil
}

// ========================================
// COUNTERS
// ========================================

func (r *postgresRepository) IncrementViews(ctx context.Context, id uuid.UUID) (*model.Article, error) {
	// Increment and read back in one statement, the join needs the CTE
	query := `
		WITH a AS (
			UPDATE articles
			SET views = views + 1
			WHERE id = $1 AND is_active = true
			RETURNING *
		)
		SELECT ` + articleColumns + `
		FROM a
		LEFT JOIN users u ON u.id = a.author_id
	`

	a, err := scanArticle(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrArticleNotFound
		}
		return nil, fmt.Errorf("increment views: %w", err)
	}

	return a, nil
}

func (r *postgresRepository) IncrementLikes(ctx context.Context, id uuid.UUID) (int64, error) {
	query := `
		UPDATE articles
		SET likes = likes + 1
		WHERE id = $1 AND is_active = true
		RETURNING likes
	`

	var likes int64
	err := r.pool.QueryRow(ctx, query, id).Scan(&likes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, model.ErrArticleNotFound
		}
		return 0, fmt.Errorf("increment likes: %w", err)
	}

	return likes, nil
}

// ========================================
// QUERIES
// ========================================

func (r *postgresRepository) List(ctx context.Context, q ListQuery) ([]*model.Article, int64, error) {
	selectSQL, countSQL, args := buildListQuery(q)

	// STEP 1: COUNT
	var total int64
	if err := r.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}

	// STEP 2: PAGE
	pageArgs := append(append([]interface{}{}, args...), q.Limit, q.Offset)
	rows, err := r.pool.Query(ctx, selectSQL, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	articles := make([]*model.Article, 0, q.Limit)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate articles: %w", err)
	}

	return articles, total, nil
}

func (r *postgresRepository) Statistics(ctx context.Context) (*model.Statistics, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'published'),
			COUNT(*) FILTER (WHERE status = 'draft'),
			COUNT(*) FILTER (WHERE status = 'archived'),
			COALESCE(SUM(views), 0)::BIGINT,
			COALESCE(SUM(likes), 0)::BIGINT
		FROM articles
		WHERE is_active = true
	`

	var s model.Statistics
	err := r.pool.QueryRow(ctx, query).Scan(
		&s.Total,
		&s.Published,
		&s.Draft,
		&s.Archived,
		&s.TotalViews,
		&s.TotalLikes,
	)
	if err != nil {
		return nil, fmt.Errorf("article statistics: %w", err)
	}

	return &s, nil
}

// ========================================
// HELPERS
// ========================================

// scanArticle reads articleColumns. The author columns are NULL when the author was deleted.
func scanArticle(row pgx.Row) (*model.Article, error) {
	var (
		a         model.Article
		authorID  *uuid.UUID
		firstName *string
		lastName  *string
		username  *string
	)

	err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Content,
		&a.Excerpt,
		&a.Author,
		&a.AuthorID,
		&a.Status,
		&a.Category,
		&a.ReadTime,
		&a.Views,
		&a.Likes,
		&a.Tags,
		&a.IsActive,
		&a.CreatedAt,
		&a.UpdatedAt,
		&authorID,
		&firstName,
		&lastName,
		&username,
	)
	if err != nil {
		return nil, err
	}

	if a.Tags == nil {
		a.Tags = []string{}
	}

	if authorID != nil {
		a.AuthorInfo = &model.AuthorInfo{
			ID:        *authorID,
			FirstName: deref(firstName),
			LastName:  deref(lastName),
			Username:  deref(username),
		}
	}

	return &a, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
