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
var _ ArticleRepository = (*PgArticleRepository)(nil)

// articleListColumns is the projection for listed articles: everything but
// the body, plus the derived comment count.
const articleListColumns = `articles.article_id, articles.title, articles.topic, articles.author,
	articles.created_at, articles.votes, articles.article_img_url,
	COUNT(comments.comment_id)::INT AS comment_count`

// PgArticleRepository is a PostgreSQL implementation of ArticleRepository.
type PgArticleRepository struct {
	db DBTX
}

// NewPgArticleRepository creates a new PostgreSQL article repository.
func NewPgArticleRepository(db DBTX) *PgArticleRepository {
	return &PgArticleRepository{db: db}
}

// List composes and runs the filtered, sorted, and paginated listing query
// together with its paired total-count query. The sort column and direction
// are resolved through the fixed whitelist before touching the SQL text; the
// topic value and pagination values are bound as parameters.
func (r *PgArticleRepository) List(ctx context.Context, filter ArticleFilter) ([]*domain.Article, int64, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	// A topic filter must name an existing topic; unknown topics are a
	// not-found condition, distinct from a valid topic with no articles.
	if filter.Topic != "" {
		var slug string
		err := r.db.QueryRow(ctx, `SELECT slug FROM topics WHERE slug = $1`, filter.Topic).Scan(&slug)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, 0, domain.NewNotFoundError("topic", filter.Topic)
			}
			return nil, 0, fmt.Errorf("failed to check topic: %w", err)
		}
	}

	whereClause := ""
	var args []interface{}
	argIndex := 1
	if filter.Topic != "" {
		whereClause = fmt.Sprintf("WHERE articles.topic = $%d", argIndex)
		args = append(args, filter.Topic)
		argIndex++
	}

	// Total count honors the topic filter but never the pagination.
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM articles %s", whereClause)
	var totalCount int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count articles: %w", err)
	}

	orderClause := fmt.Sprintf("ORDER BY %s %s", articleSortColumns[filter.SortBy], filter.Order)

	limitClause := ""
	if filter.Pagination.Paginated {
		limitClause = fmt.Sprintf("LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, filter.Pagination.Limit, filter.Pagination.Offset())
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM articles
		LEFT JOIN comments ON articles.article_id = comments.article_id
		%s
		GROUP BY articles.article_id
		%s
		%s`,
		articleListColumns, whereClause, orderClause, limitClause)

	rows, err := r.db.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	articles := make([]*domain.Article, 0)
	for rows.Next() {
		article, err := scanListedArticleFromRows(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating articles: %w", err)
	}

	return articles, totalCount, nil
}

// GetByID retrieves a single article with its comment count.
func (r *PgArticleRepository) GetByID(ctx context.Context, id int64) (*domain.Article, error) {
	query := `
		SELECT articles.article_id, articles.title, articles.topic, articles.author,
			articles.body, articles.created_at, articles.votes, articles.article_img_url,
			COUNT(comments.comment_id)::INT AS comment_count
		FROM articles
		LEFT JOIN comments ON articles.article_id = comments.article_id
		WHERE articles.article_id = $1
		GROUP BY articles.article_id`

	row := r.db.QueryRow(ctx, query, id)
	article, err := scanArticle(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("article", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("failed to get article by id: %w", err)
	}

	return article, nil
}

// Exists reports whether an article exists without the comment-count join.
func (r *PgArticleRepository) Exists(ctx context.Context, id int64) error {
	var found int64
	err := r.db.QueryRow(ctx, `SELECT article_id FROM articles WHERE article_id = $1`, id).Scan(&found)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NewNotFoundError("article", strconv.FormatInt(id, 10))
		}
		return fmt.Errorf("failed to check article: %w", err)
	}
	return nil
}

// Insert stores a new article. Author and topic misses surface through the
// foreign key constraints as not-found errors.
func (r *PgArticleRepository) Insert(ctx context.Context, article *domain.Article) (*domain.Article, error) {
	query := `
		INSERT INTO articles (title, topic, author, body, article_img_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING article_id, title, topic, author, body, created_at, votes, article_img_url`

	inserted := &domain.Article{}
	err := r.db.QueryRow(ctx, query,
		article.Title, article.Topic, article.Author, article.Body, article.ArticleImgURL,
	).Scan(
		&inserted.ArticleID, &inserted.Title, &inserted.Topic, &inserted.Author,
		&inserted.Body, &inserted.CreatedAt, &inserted.Votes, &inserted.ArticleImgURL,
	)
	if err != nil {
		if translated := translateConstraint(err, "author or topic"); translated != nil {
			return nil, translated
		}
		return nil, fmt.Errorf("failed to insert article: %w", err)
	}

	// A fresh article has no comments yet.
	inserted.CommentCount = 0
	return inserted, nil
}

// UpdateVotes applies the delta and returns the updated row in one
// statement; the separate existence check would race with a concurrent
// delete, so zero returned rows is the not-found signal.
func (r *PgArticleRepository) UpdateVotes(ctx context.Context, id int64, delta int) (*domain.Article, error) {
	query := `
		UPDATE articles
		SET votes = votes + $1
		WHERE article_id = $2
		RETURNING article_id, title, topic, author, body, created_at, votes, article_img_url,
			(SELECT COUNT(*)::INT FROM comments WHERE comments.article_id = articles.article_id) AS comment_count`

	updated := &domain.Article{}
	err := r.db.QueryRow(ctx, query, delta, id).Scan(
		&updated.ArticleID, &updated.Title, &updated.Topic, &updated.Author,
		&updated.Body, &updated.CreatedAt, &updated.Votes, &updated.ArticleImgURL,
		&updated.CommentCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("article", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("failed to update article votes: %w", err)
	}

	return updated, nil
}

// Delete removes an article; comments under it are removed by the cascading
// foreign key.
func (r *PgArticleRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM articles WHERE article_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("article", strconv.FormatInt(id, 10))
	}
	return nil
}

// articleScanDest holds the destination pointers for scanning an Article row.
type articleScanDest struct {
	article domain.Article
}

// destinations returns the slice of pointers for full-row Scan operations.
func (d *articleScanDest) destinations() []interface{} {
	return []interface{}{
		&d.article.ArticleID, &d.article.Title, &d.article.Topic, &d.article.Author,
		&d.article.Body, &d.article.CreatedAt, &d.article.Votes, &d.article.ArticleImgURL,
		&d.article.CommentCount,
	}
}

// listDestinations returns the pointers for the body-less listing projection.
func (d *articleScanDest) listDestinations() []interface{} {
	return []interface{}{
		&d.article.ArticleID, &d.article.Title, &d.article.Topic, &d.article.Author,
		&d.article.CreatedAt, &d.article.Votes, &d.article.ArticleImgURL,
		&d.article.CommentCount,
	}
}

// scanArticle scans a single row into an Article.
func scanArticle(row pgx.Row) (*domain.Article, error) {
	var dest articleScanDest
	if err := row.Scan(dest.destinations()...); err != nil {
		return nil, err
	}
	return &dest.article, nil
}

// scanListedArticleFromRows scans the current listing row from pgx.Rows.
func scanListedArticleFromRows(rows pgx.Rows) (*domain.Article, error) {
	var dest articleScanDest
	if err := rows.Scan(dest.listDestinations()...); err != nil {
		return nil, err
	}
	return &dest.article, nil
}
