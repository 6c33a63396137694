package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/coalfield/newsboard/internal/domain"
)

// Compile-time interface verification.
var _ TopicRepository = (*PgTopicRepository)(nil)

// PgTopicRepository is a PostgreSQL implementation of TopicRepository.
type PgTopicRepository struct {
	db DBTX
}

// NewPgTopicRepository creates a new PostgreSQL topic repository.
func NewPgTopicRepository(db DBTX) *PgTopicRepository {
	return &PgTopicRepository{db: db}
}

// List returns all topics ordered by slug.
func (r *PgTopicRepository) List(ctx context.Context) ([]*domain.Topic, error) {
	rows, err := r.db.Query(ctx, `SELECT slug, description FROM topics ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	defer rows.Close()

	topics := make([]*domain.Topic, 0)
	for rows.Next() {
		topic := &domain.Topic{}
		if err := rows.Scan(&topic.Slug, &topic.Description); err != nil {
			return nil, fmt.Errorf("failed to scan topic: %w", err)
		}
		topics = append(topics, topic)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating topics: %w", err)
	}

	return topics, nil
}

// GetBySlug retrieves a topic by its slug.
func (r *PgTopicRepository) GetBySlug(ctx context.Context, slug string) (*domain.Topic, error) {
	topic := &domain.Topic{}
	err := r.db.QueryRow(ctx, `SELECT slug, description FROM topics WHERE slug = $1`, slug).
		Scan(&topic.Slug, &topic.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("topic", slug)
		}
		return nil, fmt.Errorf("failed to get topic by slug: %w", err)
	}
	return topic, nil
}

// Insert stores a new topic. Missing fields are rejected before issuing the
// insert.
func (r *PgTopicRepository) Insert(ctx context.Context, topic *domain.Topic) (*domain.Topic, error) {
	if topic.Slug == "" {
		return nil, domain.NewValidationError("slug", "slug is required")
	}
	if topic.Description == "" {
		return nil, domain.NewValidationError("description", "description is required")
	}

	query := `
		INSERT INTO topics (slug, description)
		VALUES ($1, $2)
		RETURNING slug, description`

	inserted := &domain.Topic{}
	err := r.db.QueryRow(ctx, query, topic.Slug, topic.Description).
		Scan(&inserted.Slug, &inserted.Description)
	if err != nil {
		if translated := translateConstraint(err, "topic"); translated != nil {
			return nil, translated
		}
		return nil, fmt.Errorf("failed to insert topic: %w", err)
	}

	return inserted, nil
}
