package repository

import (
	"context"
	"sort"
	"strings"

	"github.com/coalfield/newsboard/internal/domain"
)

// Sort order tokens accepted by article listing. Matching is case-sensitive.
const (
	OrderAsc  = "ASC"
	OrderDesc = "DESC"
)

// articleSortColumns maps the whitelisted sort_by tokens to the fixed SQL
// constructs they select on. Only values from this map are ever interpolated
// into query text; everything user-supplied is bound as a parameter.
var articleSortColumns = map[string]string{
	"author":          "articles.author",
	"title":           "articles.title",
	"article_id":      "articles.article_id",
	"topic":           "articles.topic",
	"created_at":      "articles.created_at",
	"votes":           "articles.votes",
	"article_img_url": "articles.article_img_url",
	"comment_count":   "comment_count",
}

// ArticleFilter holds validated inputs for the article listing query.
// Zero-value string fields mean "use the default".
type ArticleFilter struct {
	// Topic filters by topic slug. Empty means no filter. The slug is
	// checked against the live topics table, not a hard-coded list.
	Topic string
	// SortBy is one of the whitelisted sort columns. Default: created_at.
	SortBy string
	// Order is ASC or DESC, case-sensitive. Default: DESC.
	Order string
	// Pagination controls LIMIT/OFFSET. Inactive by default.
	Pagination PageParams
}

// Validate checks sort and order against the whitelists and applies
// defaults in place.
func (f *ArticleFilter) Validate() error {
	if f.SortBy == "" {
		f.SortBy = "created_at"
	}
	if _, ok := articleSortColumns[f.SortBy]; !ok {
		return domain.NewValidationError("sort_by", "must be one of "+strings.Join(sortColumnNames(), ", "))
	}
	if f.Order == "" {
		f.Order = OrderDesc
	}
	if f.Order != OrderAsc && f.Order != OrderDesc {
		return domain.NewValidationError("order", "must be ASC or DESC")
	}
	return nil
}

func sortColumnNames() []string {
	names := make([]string, 0, len(articleSortColumns))
	for name := range articleSortColumns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ArticleRepository manages article persistence.
type ArticleRepository interface {
	// List returns the filtered, sorted, and paginated article rows along
	// with the unpaginated filtered total count. An unknown topic slug is a
	// not-found error; a valid topic with zero articles is a successful
	// empty result. Listed articles carry comment counts but no body.
	List(ctx context.Context, filter ArticleFilter) ([]*domain.Article, int64, error)

	// GetByID returns a single article including its comment count.
	GetByID(ctx context.Context, id int64) (*domain.Article, error)

	// Exists reports whether an article with the given id exists. Returns a
	// not-found error when absent.
	Exists(ctx context.Context, id int64) error

	// Insert stores a new article. The author and topic must already exist;
	// the foreign key constraints surface misses as not-found errors.
	Insert(ctx context.Context, article *domain.Article) (*domain.Article, error)

	// UpdateVotes applies a signed delta to the article's vote counter in a
	// single conditional statement and returns the updated row. Zero
	// affected rows means the article does not exist.
	UpdateVotes(ctx context.Context, id int64, delta int) (*domain.Article, error)

	// Delete removes an article by id. Zero affected rows means the article
	// does not exist.
	Delete(ctx context.Context, id int64) error
}
