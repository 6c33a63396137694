package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/coalfield/newsboard/internal/domain"
)

// maxBodyBytes caps request bodies at 1 MiB.
const maxBodyBytes = 1 << 20

var validate = validator.New()

// errMalformedBody signals an undecodable or invalid request body.
var errMalformedBody = errors.New("malformed request body")

// decodeBody reads and decodes a JSON request body into dst, then runs
// struct validation on it.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errMalformedBody
	}
	if err := validate.Struct(dst); err != nil {
		return errMalformedBody
	}
	return nil
}

// parsePathID extracts an integer path parameter. Non-integer values are a
// client error, never a lookup miss.
func parsePathID(r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

type postTopicRequest struct {
	Slug        string `json:"slug" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// getTopics handles GET /api/topics.
func (s *Server) getTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := s.topicRepo.List(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	resp := topicsEnvelope{Topics: make([]topicResponse, 0, len(topics))}
	for _, t := range topics {
		resp.Topics = append(resp.Topics, toTopicResponse(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

// postTopic handles POST /api/topics.
func (s *Server) postTopic(w http.ResponseWriter, r *http.Request) {
	var req postTopicRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	topic, err := s.topicRepo.Insert(r.Context(), &domain.Topic{Slug: req.Slug, Description: req.Description})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, topicEnvelope{Topic: toTopicResponse(topic)})
}

// getUsers handles GET /api/users.
func (s *Server) getUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.userRepo.List(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	resp := usersEnvelope{Users: make([]userResponse, 0, len(users))}
	for _, u := range users {
		resp.Users = append(resp.Users, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, resp)
}

// getUserByUsername handles GET /api/users/{username}.
func (s *Server) getUserByUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := s.userRepo.GetByUsername(r.Context(), username)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userEnvelope{User: toUserResponse(user)})
}
