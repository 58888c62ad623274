package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-comfort-service/internal/domain"
)

// newTestStore migrates and truncates the database at TEST_DATABASE_URL.
// The test is skipped when it is not set.
func newTestStore(t *testing.T) (*PostStore, *pgxpool.Pool) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration test")
	}
	ctx := context.Background()

	require.NoError(t, Migrate(ctx, dsn))

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE community_posts`)
	require.NoError(t, err)

	return NewPostStore(pool), pool
}

func post(name, email string, at time.Time) domain.CommunityPost {
	return domain.CommunityPost{
		Name:      name,
		Email:     email,
		Content:   "Clear skies over the harbour this morning.",
		CreatedAt: at,
		Approved:  true,
		Moderation: domain.ModerationRecord{
			Name:    domain.ModerationVerdict{Allowed: true, Confidence: 1},
			Email:   domain.ModerationVerdict{Allowed: true, Confidence: 1},
			Content: domain.ModerationVerdict{Allowed: true, Confidence: 0.9, Flags: &domain.ContentFlags{}},
		},
	}
}

func TestPostStore_RoundTripWithoutEmail(t *testing.T) {
	store, pool := newTestStore(t)
	ctx := context.Background()
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	id, err := store.Insert(ctx, post("Ana", "ana@example.com", at))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	page, err := store.ListApproved(ctx, domain.NewPageParams(1, 10))
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, domain.PublicPost{ID: id, Name: "Ana", Content: "Clear skies over the harbour this morning.", CreatedAt: at}, page.Posts[0])

	var stored *string
	require.NoError(t, pool.QueryRow(ctx, `SELECT email FROM community_posts WHERE id = $1`, id).Scan(&stored))
	require.NotNil(t, stored)
	assert.Equal(t, "ana@example.com", *stored)
}

func TestPostStore_ListApprovedPaginates(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	for i := range 3 {
		_, err := store.Insert(ctx, post("Poster", "", base.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
	}

	page, err := store.ListApproved(ctx, domain.NewPageParams(1, 2))
	require.NoError(t, err)
	require.Len(t, page.Posts, 2)
	assert.Equal(t, base.Add(2*time.Hour), page.Posts[0].CreatedAt)
	assert.Equal(t, domain.Pagination{Page: 1, Limit: 2, Total: 3, TotalPages: 2}, page.Pagination)

	page, err = store.ListApproved(ctx, domain.NewPageParams(2, 2))
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, base, page.Posts[0].CreatedAt)
}

func TestPostStore_Ping(t *testing.T) {
	store, _ := newTestStore(t)
	assert.NoError(t, store.Ping(context.Background()))
}
