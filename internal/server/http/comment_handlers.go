package httpserver

import (
	"net/http"

	"github.com/coalfield/newsboard/internal/repository"
)

type postCommentRequest struct {
	Username string `json:"username" validate:"required"`
	Body     string `json:"body" validate:"required"`
}

// getArticleComments handles GET /api/articles/{articleID}/comments. The
// article's existence is checked separately so an unknown article and an
// article without comments respond differently.
func (s *Server) getArticleComments(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r, "articleID")
	if !ok {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	q := r.URL.Query()
	limitRaw, limitPresent := queryValue(q, "limit")
	pageRaw, pagePresent := queryValue(q, "p")
	page, err := repository.ParsePageParams(limitRaw, pageRaw, limitPresent, pagePresent)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	if err := s.articleRepo.Exists(r.Context(), id); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	comments, total, err := s.commentRepo.ListByArticle(r.Context(), id, page)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	resp := commentsEnvelope{
		Comments:   make([]commentResponse, 0, len(comments)),
		TotalCount: total,
	}
	for _, c := range comments {
		resp.Comments = append(resp.Comments, toCommentResponse(c))
	}

	status := http.StatusOK
	if len(resp.Comments) == 0 {
		status = http.StatusNotFound
	}
	writeJSON(w, status, resp)
}

// postComment handles POST /api/articles/{articleID}/comments.
func (s *Server) postComment(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r, "articleID")
	if !ok {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	var req postCommentRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	comment, err := s.commentRepo.Insert(r.Context(), id, req.Username, req.Body)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, commentEnvelope{Comment: toCommentResponse(comment)})
}

// patchComment handles PATCH /api/comments/{commentID}.
func (s *Server) patchComment(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r, "commentID")
	if !ok {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	var req patchVotesRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	comment, err := s.commentRepo.UpdateVotes(r.Context(), id, *req.IncVotes)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	if s.metrics != nil {
		s.metrics.VotesApplied.WithLabelValues("comment").Inc()
	}
	writeJSON(w, http.StatusOK, commentEnvelope{Comment: toCommentResponse(comment)})
}

// deleteComment handles DELETE /api/comments/{commentID}.
func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(r, "commentID")
	if !ok {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	if err := s.commentRepo.Delete(r.Context(), id); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
