package repository

import (
	"context"

	"github.com/coalfield/newsboard/internal/domain"
)

// TopicRepository manages board topics.
type TopicRepository interface {
	// List returns all topics.
	List(ctx context.Context) ([]*domain.Topic, error)

	// GetBySlug returns a single topic by its slug.
	GetBySlug(ctx context.Context, slug string) (*domain.Topic, error)

	// Insert stores a new topic. Missing slug or description is rejected
	// locally before any round-trip to the store.
	Insert(ctx context.Context, topic *domain.Topic) (*domain.Topic, error)
}
