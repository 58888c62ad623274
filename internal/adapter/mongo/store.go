// Package mongo implements domain.PostStore on MongoDB.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/couchcryptid/weather-comfort-service/internal/domain"
)

const opTimeout = 5 * time.Second

// postDocument is the stored shape of a community post.
type postDocument struct {
	ID         primitive.ObjectID      `bson:"_id,omitempty"`
	Name       string                  `bson:"name"`
	Email      string                  `bson:"email,omitempty"`
	Content    string                  `bson:"content"`
	CreatedAt  time.Time               `bson:"createdAt"`
	Approved   bool                    `bson:"approved"`
	Moderation domain.ModerationRecord `bson:"moderationResult"`
}

// publicDocument is the projected read shape. It has no email field.
type publicDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Content   string             `bson:"content"`
	CreatedAt time.Time          `bson:"createdAt"`
}

var publicProjection = bson.M{"_id": 1, "name": 1, "content": 1, "createdAt": 1}

// PostStore persists community posts in one collection.
type PostStore struct {
	client *mongodriver.Client
	posts  *mongodriver.Collection
}

// Connect opens a client, ensures the listing index, and returns a store.
func Connect(ctx context.Context, uri, database, collection string) (*PostStore, error) {
	client, err := mongodriver.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect: %w", err)
	}
	s := &PostStore{
		client: client,
		posts:  client.Database(database).Collection(collection),
	}
	if _, err := s.posts.Indexes().CreateOne(ctx, mongodriver.IndexModel{
		Keys: bson.D{{Key: "approved", Value: 1}, {Key: "createdAt", Value: -1}},
	}); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo.Connect: create index: %w", err)
	}
	return s, nil
}

// Insert stores the post and returns its ObjectID in hex.
func (s *PostStore) Insert(ctx context.Context, post domain.CommunityPost) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	doc := postDocument{
		Name:       post.Name,
		Email:      post.Email,
		Content:    post.Content,
		CreatedAt:  post.CreatedAt,
		Approved:   post.Approved,
		Moderation: post.Moderation,
	}
	res, err := s.posts.InsertOne(ctx, &doc)
	if err != nil {
		return "", fmt.Errorf("mongo.PostStore.Insert: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("mongo.PostStore.Insert: unexpected id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// ListApproved returns one page of approved posts, newest first.
func (s *PostStore) ListApproved(ctx context.Context, page domain.PageParams) (domain.PostPage, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"approved": true}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Limit)).
		SetProjection(publicProjection)

	cur, err := s.posts.Find(ctx, filter, opts)
	if err != nil {
		return domain.PostPage{}, fmt.Errorf("mongo.PostStore.ListApproved: %w", err)
	}
	defer cur.Close(ctx)

	var docs []publicDocument
	if err := cur.All(ctx, &docs); err != nil {
		return domain.PostPage{}, fmt.Errorf("mongo.PostStore.ListApproved: decode: %w", err)
	}

	total, err := s.posts.CountDocuments(ctx, filter)
	if err != nil {
		return domain.PostPage{}, fmt.Errorf("mongo.PostStore.ListApproved: count: %w", err)
	}

	posts := make([]domain.PublicPost, 0, len(docs))
	for _, d := range docs {
		posts = append(posts, domain.PublicPost{
			ID:        d.ID.Hex(),
			Name:      d.Name,
			Content:   d.Content,
			CreatedAt: d.CreatedAt.UTC(),
		})
	}
	return domain.PostPage{Posts: posts, Pagination: domain.NewPagination(page, total)}, nil
}

// Ping checks the primary is reachable.
func (s *PostStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.client.Ping(ctx, nil)
}

// Close disconnects the client.
func (s *PostStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
