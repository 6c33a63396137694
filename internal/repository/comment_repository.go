package repository

import (
	"context"

	"github.com/coalfield/newsboard/internal/domain"
)

// CommentRepository manages comments nested under articles.
type CommentRepository interface {
	// ListByArticle returns the article's comments ordered by created_at
	// descending, with the unpaginated total count. Article existence is the
	// caller's concern; an article with no comments is an empty result.
	ListByArticle(ctx context.Context, articleID int64, page PageParams) ([]*domain.Comment, int64, error)

	// Insert stores a new comment under an article. Unknown article ids and
	// usernames surface as not-found errors via the foreign key constraints.
	Insert(ctx context.Context, articleID int64, author, body string) (*domain.Comment, error)

	// UpdateVotes applies a signed delta to the comment's vote counter in a
	// single conditional statement and returns the updated row. Zero
	// affected rows means the comment does not exist.
	UpdateVotes(ctx context.Context, id int64, delta int) (*domain.Comment, error)

	// Delete removes a comment by id. Zero affected rows means the comment
	// does not exist.
	Delete(ctx context.Context, id int64) error
}
