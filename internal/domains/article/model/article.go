package model

import (
	"time"

	"github.com/google/uuid"
)

// =====================================================
// ARTICLE STATUS
// =====================================================

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// AllStatuses returns every status in display order
func AllStatuses() []Status {
	return []Status{StatusDraft, StatusPublished, StatusArchived}
}

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

const DefaultCategory = "General"

// =====================================================
// ARTICLE ENTITY
// =====================================================

// Article is a content item. Author is a display-name snapshot taken at creation,
// AuthorID is the owning identity. IsActive=false means soft-deleted.
type Article struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Excerpt   string    `json:"excerpt"`
	Author    string    `json:"author"`
	AuthorID  uuid.UUID `json:"author_id"`
	Status    Status    `json:"status"`
	Category  string    `json:"category"`
	ReadTime  string    `json:"read_time"`
	Views     int64     `json:"views"`
	Likes     int64     `json:"likes"`
	Tags      []string  `json:"tags"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Populated from users on reads, nil when the author no longer exists
	AuthorInfo *AuthorInfo `json:"author_info,omitempty"`
}

// AuthorInfo is the public part of the author identity
type AuthorInfo struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Username  string    `json:"username"`
}

// Derive recomputes the fields derived from the body.
// An empty excerpt is generated, an existing one is kept.
func (a *Article) Derive() {
	if a.Excerpt == "" {
		a.Excerpt = DeriveExcerpt(a.Content)
	}
	a.ReadTime = EstimateReadTime(a.Content)
}
