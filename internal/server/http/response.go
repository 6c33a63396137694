package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coalfield/newsboard/internal/domain"
)

// Canonical error bodies. Clients match on these strings, so they never
// carry internal detail.
const (
	msgNotFound    = "Not found"
	msgBadRequest  = "Bad request"
	msgInternalErr = "Internal server error"
)

// errorResponse is the envelope for every error body.
type errorResponse struct {
	Msg string `json:"msg"`
}

type topicResponse struct {
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type userResponse struct {
	Username  string `json:"username"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// articleResponse is the full article representation, served for single
// article lookups and mutations.
type articleResponse struct {
	ArticleID     int64     `json:"article_id"`
	Title         string    `json:"title"`
	Topic         string    `json:"topic"`
	Author        string    `json:"author"`
	Body          string    `json:"body"`
	CreatedAt     time.Time `json:"created_at"`
	Votes         int       `json:"votes"`
	ArticleImgURL string    `json:"article_img_url"`
	CommentCount  int       `json:"comment_count"`
}

// articleListItem is the listing representation: the body column is never
// selected for listings, so it has no field here.
type articleListItem struct {
	ArticleID     int64     `json:"article_id"`
	Title         string    `json:"title"`
	Topic         string    `json:"topic"`
	Author        string    `json:"author"`
	CreatedAt     time.Time `json:"created_at"`
	Votes         int       `json:"votes"`
	ArticleImgURL string    `json:"article_img_url"`
	CommentCount  int       `json:"comment_count"`
}

type commentResponse struct {
	CommentID int64     `json:"comment_id"`
	ArticleID int64     `json:"article_id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	Votes     int       `json:"votes"`
	CreatedAt time.Time `json:"created_at"`
}

type topicsEnvelope struct {
	Topics []topicResponse `json:"topics"`
}

type topicEnvelope struct {
	Topic topicResponse `json:"topic"`
}

type articlesEnvelope struct {
	Articles   []articleListItem `json:"articles"`
	TotalCount int64             `json:"total_count"`
}

type articleEnvelope struct {
	Article articleResponse `json:"article"`
}

type commentsEnvelope struct {
	Comments   []commentResponse `json:"comments"`
	TotalCount int64             `json:"total_count"`
}

type commentEnvelope struct {
	Comment commentResponse `json:"comment"`
}

type usersEnvelope struct {
	Users []userResponse `json:"users"`
}

type userEnvelope struct {
	User userResponse `json:"user"`
}

func toTopicResponse(t *domain.Topic) topicResponse {
	return topicResponse{Slug: t.Slug, Description: t.Description}
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{Username: u.Username, Name: u.Name, AvatarURL: u.AvatarURL}
}

func toArticleResponse(a *domain.Article) articleResponse {
	return articleResponse{
		ArticleID:     a.ArticleID,
		Title:         a.Title,
		Topic:         a.Topic,
		Author:        a.Author,
		Body:          a.Body,
		CreatedAt:     a.CreatedAt,
		Votes:         a.Votes,
		ArticleImgURL: a.ArticleImgURL,
		CommentCount:  a.CommentCount,
	}
}

func toArticleListItem(a *domain.Article) articleListItem {
	return articleListItem{
		ArticleID:     a.ArticleID,
		Title:         a.Title,
		Topic:         a.Topic,
		Author:        a.Author,
		CreatedAt:     a.CreatedAt,
		Votes:         a.Votes,
		ArticleImgURL: a.ArticleImgURL,
		CommentCount:  a.CommentCount,
	}
}

func toCommentResponse(c *domain.Comment) commentResponse {
	return commentResponse{
		CommentID: c.CommentID,
		ArticleID: c.ArticleID,
		Author:    c.Author,
		Body:      c.Body,
		Votes:     c.Votes,
		CreatedAt: c.CreatedAt,
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a canonical error envelope.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Msg: msg})
}

// writeDomainError translates a domain error into an HTTP response. Domain
// sentinels map to their status codes; anything unrecognized falls through
// to a 500 and gets logged, since it means a bug or an outage rather than a
// client mistake.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, msgBadRequest)
	default:
		s.logger.Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeError(w, http.StatusInternalServerError, msgInternalErr)
	}
}
