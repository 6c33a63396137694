package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/coalfield/newsboard/internal/domain"
)

// Compile-time interface verification.
var _ CommentRepository = (*PgCommentRepository)(nil)

// PgCommentRepository is a PostgreSQL implementation of CommentRepository.
type PgCommentRepository struct {
	db DBTX
}

// NewPgCommentRepository creates a new PostgreSQL comment repository.
func NewPgCommentRepository(db DBTX) *PgCommentRepository {
	return &PgCommentRepository{db: db}
}

// ListByArticle returns the article's comments, newest first, with the
// unpaginated total count.
func (r *PgCommentRepository) ListByArticle(ctx context.Context, articleID int64, page PageParams) ([]*domain.Comment, int64, error) {
	countQuery := `SELECT COUNT(*) FROM comments WHERE article_id = $1`
	var totalCount int64
	if err := r.db.QueryRow(ctx, countQuery, articleID).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}

	selectQuery := `
		SELECT comment_id, article_id, author, body, votes, created_at
		FROM comments
		WHERE article_id = $1
		ORDER BY created_at DESC`
	args := []interface{}{articleID}
	if page.Paginated {
		selectQuery += `
		LIMIT $2 OFFSET $3`
		args = append(args, page.Limit, page.Offset())
	}

	rows, err := r.db.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]*domain.Comment, 0)
	for rows.Next() {
		comment, err := scanCommentFromRows(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating comments: %w", err)
	}

	return comments, totalCount, nil
}

// Insert stores a new comment under an article.
func (r *PgCommentRepository) Insert(ctx context.Context, articleID int64, author, body string) (*domain.Comment, error) {
	query := `
		INSERT INTO comments (article_id, author, body)
		VALUES ($1, $2, $3)
		RETURNING comment_id, article_id, author, body, votes, created_at`

	row := r.db.QueryRow(ctx, query, articleID, author, body)
	comment, err := scanComment(row)
	if err != nil {
		if translated := translateConstraint(err, "article or user"); translated != nil {
			return nil, translated
		}
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}

	return comment, nil
}

// UpdateVotes applies the delta and returns the updated row in one
// statement; zero returned rows is the not-found signal.
func (r *PgCommentRepository) UpdateVotes(ctx context.Context, id int64, delta int) (*domain.Comment, error) {
	query := `
		UPDATE comments
		SET votes = votes + $1
		WHERE comment_id = $2
		RETURNING comment_id, article_id, author, body, votes, created_at`

	row := r.db.QueryRow(ctx, query, delta, id)
	comment, err := scanComment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("comment", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("failed to update comment votes: %w", err)
	}

	return comment, nil
}

// Delete removes a comment by id.
func (r *PgCommentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE comment_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("comment", strconv.FormatInt(id, 10))
	}
	return nil
}

// commentScanDest holds the destination pointers for scanning a Comment row.
type commentScanDest struct {
	comment domain.Comment
}

// destinations returns the slice of pointers for Scan operations.
func (d *commentScanDest) destinations() []interface{} {
	return []interface{}{
		&d.comment.CommentID, &d.comment.ArticleID, &d.comment.Author,
		&d.comment.Body, &d.comment.Votes, &d.comment.CreatedAt,
	}
}

// scanComment scans a single row into a Comment.
func scanComment(row pgx.Row) (*domain.Comment, error) {
	var dest commentScanDest
	if err := row.Scan(dest.destinations()...); err != nil {
		return nil, err
	}
	return &dest.comment, nil
}

// scanCommentFromRows scans the current row from pgx.Rows into a Comment.
func scanCommentFromRows(rows pgx.Rows) (*domain.Comment, error) {
	var dest commentScanDest
	if err := rows.Scan(dest.destinations()...); err != nil {
		return nil, err
	}
	return &dest.comment, nil
}
