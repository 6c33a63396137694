// Package repository provides data access interfaces and PostgreSQL
// implementations for the news board service.
//
// # Repository Interfaces
//
// The package provides the following repository interfaces:
//
//   - TopicRepository: Manages board topics
//   - ArticleRepository: Manages articles, including the filtered, sorted,
//     and paginated listing query
//   - CommentRepository: Manages comments nested under articles
//   - UserRepository: Read-only access to registered users
//
// # Thread Safety
//
// All repository implementations are safe for concurrent use by multiple
// goroutines. The underlying pgxpool handles connection pooling and
// synchronization.
//
// # Error Handling
//
// All methods return domain-specific errors from the domain package. Database
// errors are wrapped with context using fmt.Errorf with the %w verb. Common
// errors include:
//
//   - domain.ErrNotFound: Resource does not exist, or a referenced row
//     (author, topic, article) is missing (foreign key violation)
//   - domain.ErrInvalidInput: Invalid parameters, malformed identifiers,
//     or missing required columns
//
// Recognized Postgres error codes are translated here, at the call site,
// so driver-specific errors never reach the HTTP layer.
package repository

import (
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/coalfield/newsboard/internal/database"
	"github.com/coalfield/newsboard/internal/domain"
)

// DBTX is the database interface supporting both pool and transaction
// contexts. Repository implementations accept DBTX so they work against the
// connection pool in production and against pgxmock in tests.
type DBTX = database.DBTX

// Postgres error codes recognized by the error translation chain.
const (
	pgInvalidTextRepresentation = "22P02" // invalid_text_representation
	pgNotNullViolation          = "23502" // not_null_violation
	pgForeignKeyViolation       = "23503" // foreign_key_violation
	pgUndefinedColumn           = "42703" // undefined_column
)

// Pagination defaults applied when a request activates pagination without
// explicit values.
const (
	DefaultPageLimit = 10
	DefaultPage      = 1
)

// PageParams holds validated pagination inputs. When Paginated is false the
// query returns the full result set.
type PageParams struct {
	Limit     int
	Page      int
	Paginated bool
}

// Offset returns the row offset for the current page.
func (p PageParams) Offset() int {
	return p.Limit * (p.Page - 1)
}

// ParsePageParams interprets the raw limit and p query values. Pagination is
// active when either key is present; a present-but-empty key falls back to
// the default. Non-numeric or non-positive values are rejected.
func ParsePageParams(limitRaw, pageRaw string, limitPresent, pagePresent bool) (PageParams, error) {
	params := PageParams{
		Limit:     DefaultPageLimit,
		Page:      DefaultPage,
		Paginated: limitPresent || pagePresent,
	}
	if !params.Paginated {
		return params, nil
	}

	if limitRaw != "" {
		limit, err := strconv.Atoi(limitRaw)
		if err != nil || limit <= 0 {
			return PageParams{}, domain.NewValidationError("limit", "must be a positive integer")
		}
		params.Limit = limit
	}
	if pageRaw != "" {
		page, err := strconv.Atoi(pageRaw)
		if err != nil || page <= 0 {
			return PageParams{}, domain.NewValidationError("p", "must be a positive integer")
		}
		params.Page = page
	}
	return params, nil
}

// translateConstraint maps recognized Postgres error codes to domain errors.
// Invalid input representations, missing required columns, and undefined
// column references become validation errors; a foreign key violation means a
// referenced row is absent and becomes a not-found error for the given
// entity. Returns nil when the error carries no recognized code.
func translateConstraint(err error, entity string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	switch pgErr.Code {
	case pgInvalidTextRepresentation, pgNotNullViolation, pgUndefinedColumn:
		return domain.NewValidationError(pgErr.ColumnName, pgErr.Message)
	case pgForeignKeyViolation:
		return domain.NewNotFoundError(entity, pgErr.ConstraintName)
	}
	return nil
}
