// Package postgres implements domain.PostStore on PostgreSQL via pgx.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/couchcryptid/weather-comfort-service/internal/adapter/postgres/migrations"
	"github.com/couchcryptid/weather-comfort-service/internal/domain"
)

// Migrate applies pending schema migrations to the database at dsn.
func Migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("postgres.Migrate: open: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("postgres.Migrate: create provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("postgres.Migrate: up: %w", err)
	}
	return nil
}

// PostStore persists community posts in the community_posts table.
type PostStore struct {
	pool *pgxpool.Pool
}

// NewPostStore creates a PostStore on an open pool.
func NewPostStore(pool *pgxpool.Pool) *PostStore {
	return &PostStore{pool: pool}
}

// Insert stores the post under a new UUID and returns it.
func (s *PostStore) Insert(ctx context.Context, post domain.CommunityPost) (string, error) {
	moderation, err := json.Marshal(post.Moderation)
	if err != nil {
		return "", fmt.Errorf("postgres.PostStore.Insert: encode moderation: %w", err)
	}

	const q = `
		INSERT INTO community_posts (id, name, email, content, created_at, approved, moderation)
		VALUES (@id, @name, @email, @content, @created_at, @approved, @moderation)`

	id := uuid.New()
	args := pgx.NamedArgs{
		"id":         id,
		"name":       post.Name,
		"email":      nullable(post.Email),
		"content":    post.Content,
		"created_at": post.CreatedAt,
		"approved":   post.Approved,
		"moderation": moderation,
	}
	if _, err := s.pool.Exec(ctx, q, args); err != nil {
		return "", fmt.Errorf("postgres.PostStore.Insert: %w", err)
	}
	return id.String(), nil
}

// ListApproved returns one page of approved posts, newest first. Email is
// never selected.
func (s *PostStore) ListApproved(ctx context.Context, page domain.PageParams) (domain.PostPage, error) {
	var total int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM community_posts WHERE approved`).Scan(&total); err != nil {
		return domain.PostPage{}, fmt.Errorf("postgres.PostStore.ListApproved: count: %w", err)
	}

	const q = `
		SELECT id, name, content, created_at
		FROM community_posts
		WHERE approved
		ORDER BY created_at DESC
		LIMIT @limit OFFSET @offset`

	rows, err := s.pool.Query(ctx, q, pgx.NamedArgs{"limit": page.Limit, "offset": page.Offset()})
	if err != nil {
		return domain.PostPage{}, fmt.Errorf("postgres.PostStore.ListApproved: %w", err)
	}
	defer rows.Close()

	posts := make([]domain.PublicPost, 0, page.Limit)
	for rows.Next() {
		var (
			id        uuid.UUID
			p         domain.PublicPost
			createdAt time.Time
		)
		if err := rows.Scan(&id, &p.Name, &p.Content, &createdAt); err != nil {
			return domain.PostPage{}, fmt.Errorf("postgres.PostStore.ListApproved: scan: %w", err)
		}
		p.ID = id.String()
		p.CreatedAt = createdAt.UTC()
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return domain.PostPage{}, fmt.Errorf("postgres.PostStore.ListApproved: rows: %w", err)
	}

	return domain.PostPage{Posts: posts, Pagination: domain.NewPagination(page, total)}, nil
}

// Ping checks the database connection.
func (s *PostStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
