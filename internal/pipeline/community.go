package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/couchcryptid/weather-comfort-service/internal/domain"
	"github.com/couchcryptid/weather-comfort-service/internal/moderation"
	"github.com/couchcryptid/weather-comfort-service/internal/observability"
)

// Moderator decides whether a submission may be stored.
type Moderator interface {
	Moderate(ctx context.Context, s moderation.Submission) moderation.Decision
}

// SubmitResult is the outcome of a submission. PostID is set only when the
// decision was accepted.
type SubmitResult struct {
	Decision moderation.Decision
	PostID   string
}

// CommunityService moderates, stores, and lists community posts.
type CommunityService struct {
	moderator Moderator
	store     domain.PostStore
	publisher domain.PostPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewCommunityService creates a CommunityService. A nil publisher disables
// accepted-post events.
func NewCommunityService(moderator Moderator, store domain.PostStore, publisher domain.PostPublisher, logger *slog.Logger, metrics *observability.Metrics) *CommunityService {
	return &CommunityService{
		moderator: moderator,
		store:     store,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// Submit moderates a submission and stores it if every field is allowed.
// A rejection is a normal result; the error is reserved for missing fields
// and store failures.
func (s *CommunityService) Submit(ctx context.Context, sub moderation.Submission) (SubmitResult, error) {
	if strings.TrimSpace(sub.Name) == "" || strings.TrimSpace(sub.Content) == "" {
		return SubmitResult{}, fmt.Errorf("%w: name and content are required", domain.ErrValidation)
	}

	decision := s.moderator.Moderate(ctx, sub)
	if !decision.Accepted {
		return SubmitResult{Decision: decision}, nil
	}

	post := domain.NewCommunityPost(sub.Name, sub.Email, sub.Content, decision.Record)
	id, err := s.store.Insert(ctx, post)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("store post: %w", err)
	}
	post.ID = id
	s.metrics.PostsCreated.Inc()
	s.logger.Info("post created", "post_id", id)

	s.publish(ctx, post)
	return SubmitResult{Decision: decision, PostID: id}, nil
}

func (s *CommunityService) publish(ctx context.Context, post domain.CommunityPost) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishPost(ctx, post); err != nil {
		s.metrics.PostsPublished.WithLabelValues("error").Inc()
		s.logger.Warn("publish post event failed", "post_id", post.ID, "error", err)
		return
	}
	s.metrics.PostsPublished.WithLabelValues("success").Inc()
}

// List returns one page of approved posts, newest first.
func (s *CommunityService) List(ctx context.Context, page domain.PageParams) (domain.PostPage, error) {
	result, err := s.store.ListApproved(ctx, page)
	if err != nil {
		return domain.PostPage{}, fmt.Errorf("list posts: %w", err)
	}
	return result, nil
}

// CheckReadiness returns nil when the post store is reachable.
func (s *CommunityService) CheckReadiness(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("post store unreachable: %w", err)
	}
	return nil
}
