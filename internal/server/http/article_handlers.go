package httpserver

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/coalfield/newsboard/internal/domain"
	"github.com/coalfield/newsboard/internal/observability"
	"github.com/coalfield/newsboard/internal/repository"
)

type postArticleRequest struct {
	Author        string `json:"author" validate:"required"`
	Title         string `json:"title" validate:"required"`
	Body          string `json:"body" validate:"required"`
	Topic         string `json:"topic" validate:"required"`
	ArticleImgURL string `json:"article_img_url"`
}

type patchVotesRequest struct {
	IncVotes *int `json:"inc_votes" validate:"required"`
}

// queryValue reads a query parameter and reports whether the key was present
// at all. Presence matters independently of the value: a bare "limit" key
// activates pagination with defaults.
func queryValue(q url.Values, key string) (string, bool) {
	vals, ok := q[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// getArticles handles GET /api/articles with topic, sort_by, order, limit
// and p query parameters.
func (s *Server) getArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limitRaw, limitPresent := queryValue(q, "limit")
	pageRaw, pagePresent := queryValue(q, "p")
	page, err := repository.ParsePageParams(limitRaw, pageRaw, limitPresent, pagePresent)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	filter := repository.ArticleFilter{
		Topic:      q.Get("topic"),
		SortBy:     q.Get("sort_by"),
		Order:      q.Get("order"),
		Pagination: page,
	}

	articles, total, err := s.articleRepo.List(r.Context(), filter)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	if s.metrics != nil {
		s.metrics.ArticlesListed.WithLabelValues(strconv.FormatBool(filter.Topic != "")).Inc()
	}

	resp := articlesEnvelope{
		Articles:   make([]articleListItem, 0, len(articles)),
		TotalCount: total,
	}
	for _, a := range articles {
		resp.Articles = append(resp.Articles, toArticleListItem(a))
	}

	// An empty result for a valid filter is still a 404, with the empty
	// array in the body so clients can tell it apart from a bad topic.
	status := http.StatusOK
	if len(resp.Articles) == 0 {
		status = http.StatusNotFound
	}
	writeJSON(w, status, resp)
}

// postArticle handles POST /api/articles.
func (s *Server) postArticle(w http.ResponseWriter, r *http.Request) {
	var req postArticleRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	article := domain.NewArticle(req.Author, req.Title, req.Body, req.Topic, req.ArticleImgURL)
	created, err := s.articleRepo.Insert(r.Context(), article)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, articleEnvelope{Article: toArticleResponse(created)})
}

// getArticleByID handles GET /api/articles/{articleID}.
func (s *Server) getArticleByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r, "articleID")
	if !ok {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	article, err := s.articleRepo.GetByID(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, articleEnvelope{Article: toArticleResponse(article)})
}

// patchArticle handles PATCH /api/articles/{articleID}.
func (s *Server) patchArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r, "articleID")
	if !ok {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	var req patchVotesRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	article, err := s.articleRepo.UpdateVotes(r.Context(), id, *req.IncVotes)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	if s.metrics != nil {
		s.metrics.VotesApplied.WithLabelValues("article").Inc()
	}
	logger := observability.WithArticleContext(s.logger, id)
	logger.Debug().
		Int("delta", *req.IncVotes).
		Int("votes", article.Votes).
		Msg("article votes updated")
	writeJSON(w, http.StatusOK, articleEnvelope{Article: toArticleResponse(article)})
}

// deleteArticle handles DELETE /api/articles/{articleID}.
func (s *Server) deleteArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r, "articleID")
	if !ok {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	if err := s.articleRepo.Delete(r.Context(), id); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
