package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPageParams(t *testing.T) {
	assert.Equal(t, PageParams{Page: 1, Limit: 10}, NewPageParams(0, 0))
	assert.Equal(t, PageParams{Page: 1, Limit: 10}, NewPageParams(-3, -1))
	assert.Equal(t, PageParams{Page: 3, Limit: 100}, NewPageParams(3, 500))
	assert.Equal(t, 20, NewPageParams(3, 10).Offset())
	assert.Equal(t, 0, NewPageParams(1, 10).Offset())
}

func TestNewPagination(t *testing.T) {
	p := NewPageParams(2, 10)

	assert.Equal(t, Pagination{Page: 2, Limit: 10, Total: 21, TotalPages: 3}, NewPagination(p, 21))
	assert.Equal(t, int64(2), NewPagination(p, 20).TotalPages)
	assert.Equal(t, int64(0), NewPagination(p, 0).TotalPages)
}

func TestNewCommunityPost(t *testing.T) {
	fixed := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	defer SetClock(nil)

	post := NewCommunityPost("  Jordan ", " jordan@example.com ", "  Great skies today  ", ModerationRecord{})

	assert.Equal(t, "Jordan", post.Name)
	assert.Equal(t, "jordan@example.com", post.Email)
	assert.Equal(t, "Great skies today", post.Content)
	assert.Equal(t, fixed, post.CreatedAt)
	assert.True(t, post.Approved)
}

func TestCommunityPost_PublicOmitsEmail(t *testing.T) {
	post := CommunityPost{ID: "abc", Name: "Jordan", Email: "jordan@example.com", Content: "Great skies today"}

	data, err := json.Marshal(post.Public())
	require.NoError(t, err)

	assert.NotContains(t, string(data), "email")
	assert.NotContains(t, string(data), "jordan@example.com")
	assert.Contains(t, string(data), `"_id":"abc"`)
}
