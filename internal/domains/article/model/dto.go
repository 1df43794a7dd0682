package model

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"angeles-backend/internal/shared/utils"
)

const (
	MaxTitleLength    = 200
	MaxExcerptLength  = 300
	MaxCategoryLength = 100

	DefaultPage  = 1
	DefaultLimit = 50
	MaxLimit     = 100

	// StatusAll on a list request means no status filter
	StatusAll = "all"
)

// statusRule accepts an empty value, a known status, and "all" when allowAll is set.
// Works on both string and *string fields.
func statusRule(allowAll bool) validation.Rule {
	msg := "status must be one of draft, published, archived"
	if allowAll {
		msg += ", all"
	}
	return validation.By(func(value interface{}) error {
		v, _ := validation.Indirect(value)
		s, _ := v.(string)
		if s == "" || Status(s).IsValid() || (allowAll && s == StatusAll) {
			return nil
		}
		return errors.New(msg)
	})
}

// ========================================
// WRITE DTOs
// ========================================

type CreateArticleRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Excerpt  string   `json:"excerpt,omitempty"`
	Status   string   `json:"status,omitempty"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// Normalize trims text and applies the defaults
func (r *CreateArticleRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Content = strings.TrimSpace(r.Content)
	r.Excerpt = strings.TrimSpace(r.Excerpt)
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	r.Category = strings.TrimSpace(r.Category)
	r.Tags = cleanTags(r.Tags)

	if r.Status == "" {
		r.Status = StatusDraft.String()
	}
	if r.Category == "" {
		r.Category = DefaultCategory
	}
}

func (r CreateArticleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.RuneLength(0, MaxTitleLength).Error("title cannot exceed 200 characters"),
		),
		validation.Field(&r.Content,
			validation.Required.Error("content is required"),
		),
		validation.Field(&r.Excerpt,
			validation.RuneLength(0, MaxExcerptLength).Error("excerpt cannot exceed 300 characters"),
		),
		validation.Field(&r.Status, statusRule(false)),
		validation.Field(&r.Category,
			validation.RuneLength(0, MaxCategoryLength).Error("category cannot exceed 100 characters"),
		),
	)
}

// UpdateArticleRequest is a partial update. nil fields are left unchanged.
type UpdateArticleRequest struct {
	Title    *string   `json:"title,omitempty"`
	Content  *string   `json:"content,omitempty"`
	Excerpt  *string   `json:"excerpt,omitempty"`
	Status   *string   `json:"status,omitempty"`
	Category *string   `json:"category,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
}

func (r *UpdateArticleRequest) Normalize() {
	if r.Title != nil {
		*r.Title = strings.TrimSpace(*r.Title)
	}
	if r.Content != nil {
		*r.Content = strings.TrimSpace(*r.Content)
	}
	if r.Excerpt != nil {
		*r.Excerpt = strings.TrimSpace(*r.Excerpt)
	}
	if r.Status != nil {
		*r.Status = strings.ToLower(strings.TrimSpace(*r.Status))
	}
	if r.Category != nil {
		*r.Category = strings.TrimSpace(*r.Category)
	}
	if r.Tags != nil {
		tags := cleanTags(*r.Tags)
		r.Tags = &tags
	}
}

func (r UpdateArticleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.When(r.Title != nil, validation.Required.Error("title cannot be empty")),
			validation.RuneLength(0, MaxTitleLength).Error("title cannot exceed 200 characters"),
		),
		validation.Field(&r.Content,
			validation.When(r.Content != nil, validation.Required.Error("content cannot be empty")),
		),
		validation.Field(&r.Excerpt,
			validation.RuneLength(0, MaxExcerptLength).Error("excerpt cannot exceed 300 characters"),
		),
		validation.Field(&r.Status,
			validation.When(r.Status != nil, validation.Required.Error("status cannot be empty")),
			statusRule(false),
		),
		validation.Field(&r.Category,
			validation.RuneLength(0, MaxCategoryLength).Error("category cannot exceed 100 characters"),
		),
	)
}

// Apply copies the present fields onto a and recomputes the derived ones.
// An excerpt that was generated from the old body follows the new body;
// an excerpt written by hand is kept unless the patch replaces it.
func (r UpdateArticleRequest) Apply(a *Article) {
	autoExcerpt := a.Excerpt == DeriveExcerpt(a.Content)

	if r.Title != nil {
		a.Title = *r.Title
	}
	if r.Content != nil && *r.Content != a.Content {
		a.Content = *r.Content
		if autoExcerpt {
			a.Excerpt = ""
		}
	}
	if r.Excerpt != nil {
		a.Excerpt = *r.Excerpt
	}
	if r.Status != nil {
		a.Status = Status(*r.Status)
	}
	if r.Category != nil {
		a.Category = *r.Category
		if a.Category == "" {
			a.Category = DefaultCategory
		}
	}
	if r.Tags != nil {
		a.Tags = *r.Tags
	}

	a.Derive()
}

// cleanTags trims every tag and drops the empty ones. Never returns nil.
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ========================================
// LIST FILTER
// ========================================

// ListFilter is bound from the query string of GET /content
type ListFilter struct {
	Status   string `form:"status"`
	Author   string `form:"author"`
	Category string `form:"category"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

// Normalize trims the text filters. A page below 1 becomes 1, a limit below 1
// becomes the default and a limit above the maximum is clamped to it.
func (f *ListFilter) Normalize() {
	f.Status = strings.ToLower(strings.TrimSpace(f.Status))
	f.Author = strings.TrimSpace(f.Author)
	f.Category = strings.TrimSpace(f.Category)

	if f.Page < 1 {
		f.Page = DefaultPage
	}
	switch {
	case f.Limit < 1:
		f.Limit = DefaultLimit
	case f.Limit > MaxLimit:
		f.Limit = MaxLimit
	}
}

func (f ListFilter) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Status, statusRule(true)),
	)
}

func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// ========================================
// RESPONSES
// ========================================

// ArticleResponse adds the slug derived from the title
type ArticleResponse struct {
	*Article
	Slug string `json:"slug"`
}

func (a *Article) ToResponse() ArticleResponse {
	return ArticleResponse{
		Article: a,
		Slug:    utils.GenerateSlug(a.Title),
	}
}

// LikeResponse is returned by POST /content/:id/like
type LikeResponse struct {
	ID    uuid.UUID `json:"id"`
	Likes int64     `json:"likes"`
}

// ListResult is one page of articles
type ListResult struct {
	Articles []ArticleResponse
	Page     int
	Limit    int
	Total    int64
}

// ========================================
// STATISTICS
// ========================================

// Statistics covers active articles only
type Statistics struct {
	Total        int64           `json:"total"`
	Published    int64           `json:"published"`
	Draft        int64           `json:"draft"`
	Archived     int64           `json:"archived"`
	TotalViews   int64           `json:"total_views"`
	TotalLikes   int64           `json:"total_likes"`
	AverageViews decimal.Decimal `json:"average_views"`
	LikeRate     decimal.Decimal `json:"like_rate"`
	GeneratedAt  time.Time       `json:"generated_at"`
}

// ComputeRatios fills the averages from the raw counters
func (s *Statistics) ComputeRatios() {
	s.AverageViews = utils.Ratio(s.TotalViews, s.Total)
	s.LikeRate = utils.Ratio(s.TotalLikes, s.TotalViews)
}
