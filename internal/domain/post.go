package domain

import (
	"context"
	"strings"
	"time"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// ModerationRecord holds the three field verdicts of an accepted post.
type ModerationRecord struct {
	Content ModerationVerdict `json:"contentMod" bson:"contentMod"`
	Email   ModerationVerdict `json:"emailMod" bson:"emailMod"`
	Name    ModerationVerdict `json:"nameMod" bson:"nameMod"`
}

// CommunityPost is a persisted community submission. Posts exist only after
// passing moderation, so Approved is always true at creation.
type CommunityPost struct {
	ID         string
	Name       string
	Email      string
	Content    string
	CreatedAt  time.Time
	Approved   bool
	Moderation ModerationRecord
}

// NewCommunityPost builds an approved post from trimmed submission fields.
func NewCommunityPost(name, email, content string, record ModerationRecord) CommunityPost {
	return CommunityPost{
		Name:       strings.TrimSpace(name),
		Email:      strings.TrimSpace(email),
		Content:    strings.TrimSpace(content),
		CreatedAt:  Now(),
		Approved:   true,
		Moderation: record,
	}
}

// Public returns the projection shown to readers. It never includes email.
func (p CommunityPost) Public() PublicPost {
	return PublicPost{ID: p.ID, Name: p.Name, Content: p.Content, CreatedAt: p.CreatedAt}
}

// PublicPost is the reader-facing projection of a post.
type PublicPost struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// PageParams is a 1-indexed page request.
type PageParams struct {
	Page  int
	Limit int
}

// NewPageParams applies defaults (page 1, limit 10) to non-positive values
// and caps the limit at MaxPageLimit.
func NewPageParams(page, limit int) PageParams {
	p := PageParams{Page: 1, Limit: DefaultPageLimit}
	if page >= 1 {
		p.Page = page
	}
	if limit >= 1 {
		p.Limit = min(limit, MaxPageLimit)
	}
	return p
}

// Offset returns the zero-based row offset of the page.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination describes a page of results.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// NewPagination computes page metadata for total matching records.
func NewPagination(p PageParams, total int64) Pagination {
	limit := int64(p.Limit)
	return Pagination{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}
}

// PostPage is one page of approved posts, newest first.
type PostPage struct {
	Posts      []PublicPost `json:"posts"`
	Pagination Pagination   `json:"pagination"`
}

// PostStore persists community posts.
type PostStore interface {
	// Insert appends a post and returns its generated ID.
	Insert(ctx context.Context, post CommunityPost) (string, error)

	// ListApproved returns approved posts ordered by CreatedAt descending.
	ListApproved(ctx context.Context, page PageParams) (PostPage, error)

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}

// PostPublisher announces accepted posts to downstream consumers.
type PostPublisher interface {
	PublishPost(ctx context.Context, post CommunityPost) error
}
