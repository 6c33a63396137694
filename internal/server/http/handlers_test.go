package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/coalfield/newsboard/internal/domain"
	"github.com/coalfield/newsboard/internal/repository"
)

// ---------------------------------------------------------------------------
// Mock implementations
// ---------------------------------------------------------------------------

// mockTopicRepo implements repository.TopicRepository for handler tests.
type mockTopicRepo struct {
	listFn      func(ctx context.Context) ([]*domain.Topic, error)
	getBySlugFn func(ctx context.Context, slug string) (*domain.Topic, error)
	insertFn    func(ctx context.Context, slug, description string) (*domain.Topic, error)
}

func (m *mockTopicRepo) List(ctx context.Context) ([]*domain.Topic, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockTopicRepo) GetBySlug(ctx context.Context, slug string) (*domain.Topic, error) {
	if m.getBySlugFn != nil {
		return m.getBySlugFn(ctx, slug)
	}
	return nil, domain.ErrNotFound
}

func (m *mockTopicRepo) Insert(ctx context.Context, topic *domain.Topic) (*domain.Topic, error) {
	if m.insertFn != nil {
		return m.insertFn(ctx, topic.Slug, topic.Description)
	}
	return &domain.Topic{Slug: topic.Slug, Description: topic.Description}, nil
}

// mockArticleRepo implements repository.ArticleRepository for handler tests.
type mockArticleRepo struct {
	listFn        func(ctx context.Context, filter repository.ArticleFilter) ([]*domain.Article, int64, error)
	getByIDFn     func(ctx context.Context, id int64) (*domain.Article, error)
	existsFn      func(ctx context.Context, id int64) error
	insertFn      func(ctx context.Context, article *domain.Article) (*domain.Article, error)
	updateVotesFn func(ctx context.Context, id int64, delta int) (*domain.Article, error)
	deleteFn      func(ctx context.Context, id int64) error
}

func (m *mockArticleRepo) List(ctx context.Context, filter repository.ArticleFilter) ([]*domain.Article, int64, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockArticleRepo) GetByID(ctx context.Context, id int64) (*domain.Article, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockArticleRepo) Exists(ctx context.Context, id int64) error {
	if m.existsFn != nil {
		return m.existsFn(ctx, id)
	}
	return nil
}

func (m *mockArticleRepo) Insert(ctx context.Context, article *domain.Article) (*domain.Article, error) {
	if m.insertFn != nil {
		return m.insertFn(ctx, article)
	}
	return article, nil
}

func (m *mockArticleRepo) UpdateVotes(ctx context.Context, id int64, delta int) (*domain.Article, error) {
	if m.updateVotesFn != nil {
		return m.updateVotesFn(ctx, id, delta)
	}
	return nil, domain.ErrNotFound
}

func (m *mockArticleRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// mockCommentRepo implements repository.CommentRepository for handler tests.
type mockCommentRepo struct {
	listByArticleFn func(ctx context.Context, articleID int64, page repository.PageParams) ([]*domain.Comment, int64, error)
	insertFn        func(ctx context.Context, articleID int64, author, body string) (*domain.Comment, error)
	updateVotesFn   func(ctx context.Context, id int64, delta int) (*domain.Comment, error)
	deleteFn        func(ctx context.Context, id int64) error
}

func (m *mockCommentRepo) ListByArticle(ctx context.Context, articleID int64, page repository.PageParams) ([]*domain.Comment, int64, error) {
	if m.listByArticleFn != nil {
		return m.listByArticleFn(ctx, articleID, page)
	}
	return nil, 0, nil
}

func (m *mockCommentRepo) Insert(ctx context.Context, articleID int64, author, body string) (*domain.Comment, error) {
	if m.insertFn != nil {
		return m.insertFn(ctx, articleID, author, body)
	}
	return &domain.Comment{ArticleID: articleID, Author: author, Body: body}, nil
}

func (m *mockCommentRepo) UpdateVotes(ctx context.Context, id int64, delta int) (*domain.Comment, error) {
	if m.updateVotesFn != nil {
		return m.updateVotesFn(ctx, id, delta)
	}
	return nil, domain.ErrNotFound
}

func (m *mockCommentRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// mockUserRepo implements repository.UserRepository for handler tests.
type mockUserRepo struct {
	listFn          func(ctx context.Context) ([]*domain.User, error)
	getByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
}

func (m *mockUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, domain.ErrNotFound
}

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// newTestHTTPServer creates a Server configured for testing with mocked
// repositories and no metrics.
func newTestHTTPServer(
	topicRepo repository.TopicRepository,
	articleRepo repository.ArticleRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
) *Server {
	s := &Server{
		topicRepo:   topicRepo,
		articleRepo: articleRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		logger:      zerolog.Nop(),
	}
	s.router = s.buildRouter()
	return s
}

// serveHTTP dispatches a request through the test server's router.
func serveHTTP(s *Server, r *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, r)
	return rr
}

// jsonBody wraps a literal JSON payload as a request body.
func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}

// decodeJSON decodes a JSON response body into the given target.
func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(target); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
}

// assertErrorBody checks the canonical error envelope.
func assertErrorBody(t *testing.T, rr *httptest.ResponseRecorder, wantStatus int, wantMsg string) {
	t.Helper()
	if rr.Code != wantStatus {
		t.Fatalf("expected status %d, got %d: %s", wantStatus, rr.Code, rr.Body.String())
	}
	var resp errorResponse
	decodeJSON(t, rr, &resp)
	if resp.Msg != wantMsg {
		t.Errorf("expected msg %q, got %q", wantMsg, resp.Msg)
	}
}

// ---------------------------------------------------------------------------
// Tests: topics
// ---------------------------------------------------------------------------

func TestGetTopics(t *testing.T) {
	topicRepo := &mockTopicRepo{
		listFn: func(_ context.Context) ([]*domain.Topic, error) {
			return []*domain.Topic{
				{Slug: "cats", Description: "Not dogs"},
				{Slug: "mitch", Description: "The man, the Mitch"},
			}, nil
		},
	}
	srv := newTestHTTPServer(topicRepo, &mockArticleRepo{}, &mockCommentRepo{}, &mockUserRepo{})

	rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/topics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp topicsEnvelope
	decodeJSON(t, rr, &resp)
	if len(resp.Topics) != 2 {
		t.Fatalf("expected 2 topics, got %d", len(resp.Topics))
	}
	if resp.Topics[0].Slug != "cats" || resp.Topics[0].Description != "Not dogs" {
		t.Errorf("unexpected first topic: %+v", resp.Topics[0])
	}
}

func TestGetTopics_Empty(t *testing.T) {
	srv := newTestHTTPServer(&mockTopicRepo{}, &mockArticleRepo{}, &mockCommentRepo{}, &mockUserRepo{})

	rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/topics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var resp topicsEnvelope
	decodeJSON(t, rr, &resp)
	if resp.Topics == nil {
		t.Error("expected topics to encode as an empty array, not null")
	}
}

func TestPostTopic_Success(t *testing.T) {
	var gotSlug, gotDescription string
	topicRepo := &mockTopicRepo{
		insertFn: func(_ context.Context, slug, description string) (*domain.Topic, error) {
			gotSlug, gotDescription = slug, description
			return &domain.Topic{Slug: slug, Description: description}, nil
		},
	}
	srv := newTestHTTPServer(topicRepo, &mockArticleRepo{}, &mockCommentRepo{}, &mockUserRepo{})

	body := `{"slug":"gardening","description":"growing things"}`
	req := httptest.NewRequest(http.MethodPost, "/api/topics", jsonBody(body))
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if gotSlug != "gardening" || gotDescription != "growing things" {
		t.Errorf("insert called with %q/%q", gotSlug, gotDescription)
	}
	var resp topicEnvelope
	decodeJSON(t, rr, &resp)
	if resp.Topic.Slug != "gardening" {
		t.Errorf("expected slug gardening, got %q", resp.Topic.Slug)
	}
}

func TestPostTopic_MissingFields(t *testing.T) {
	srv := newTestHTTPServer(&mockTopicRepo{}, &mockArticleRepo{}, &mockCommentRepo{}, &mockUserRepo{})

	for name, body := range map[string]string{
		"no description": `{"slug":"gardening"}`,
		"no slug":        `{"description":"growing things"}`,
		"empty body":     ``,
		"not json":       `not json at all`,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/topics", jsonBody(body))
			rr := serveHTTP(srv, req)
			assertErrorBody(t, rr, http.StatusBadRequest, msgBadRequest)
		})
	}
}

// ---------------------------------------------------------------------------
// Tests: users
// ---------------------------------------------------------------------------

func TestGetUsers(t *testing.T) {
	userRepo := &mockUserRepo{
		listFn: func(_ context.Context) ([]*domain.User, error) {
			return []*domain.User{
				{Username: "butter_bridge", Name: "jonny", AvatarURL: "https://example.com/a.jpg"},
			}, nil
		},
	}
	srv := newTestHTTPServer(&mockTopicRepo{}, &mockArticleRepo{}, &mockCommentRepo{}, userRepo)

	rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var resp usersEnvelope
	decodeJSON(t, rr, &resp)
	if len(resp.Users) != 1 || resp.Users[0].Username != "butter_bridge" {
		t.Errorf("unexpected users: %+v", resp.Users)
	}
}

func TestGetUserByUsername(t *testing.T) {
	userRepo := &mockUserRepo{
		getByUsernameFn: func(_ context.Context, username string) (*domain.User, error) {
			if username != "icellusedkars" {
				return nil, domain.NewNotFoundError("user", username)
			}
			return &domain.User{Username: username, Name: "sam", AvatarURL: "https://example.com/s.jpg"}, nil
		},
	}
	srv := newTestHTTPServer(&mockTopicRepo{}, &mockArticleRepo{}, &mockCommentRepo{}, userRepo)

	rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/users/icellusedkars", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var resp userEnvelope
	decodeJSON(t, rr, &resp)
	if resp.User.Name != "sam" {
		t.Errorf("expected name sam, got %q", resp.User.Name)
	}

	rr = serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/users/nobody", nil))
	assertErrorBody(t, rr, http.StatusNotFound, msgNotFound)
}

// ---------------------------------------------------------------------------
// Tests: routing and the endpoints document
// ---------------------------------------------------------------------------

func TestGetAPI_ServesEndpointsDocument(t *testing.T) {
	srv := newTestHTTPServer(&mockTopicRepo{}, &mockArticleRepo{}, &mockCommentRepo{}, &mockUserRepo{})

	rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var resp struct {
		Endpoints map[string]json.RawMessage `json:"endpoints"`
	}
	decodeJSON(t, rr, &resp)
	if _, ok := resp.Endpoints["GET /api/articles"]; !ok {
		t.Error("expected endpoints document to describe GET /api/articles")
	}
	if _, ok := resp.Endpoints["DELETE /api/comments/:comment_id"]; !ok {
		t.Error("expected endpoints document to describe DELETE /api/comments/:comment_id")
	}
}

func TestUnmatchedRoutes_Return404Envelope(t *testing.T) {
	srv := newTestHTTPServer(&mockTopicRepo{}, &mockArticleRepo{}, &mockCommentRepo{}, &mockUserRepo{})

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/nonsense"},
		{http.MethodGet, "/totally/elsewhere"},
		{http.MethodPut, "/api/topics"},
		{http.MethodPost, "/api/users"},
	}
	for _, p := range paths {
		rr := serveHTTP(srv, httptest.NewRequest(p.method, p.path, nil))
		assertErrorBody(t, rr, http.StatusNotFound, msgNotFound)
	}
}

func TestCORSHeadersPresent(t *testing.T) {
	srv := newTestHTTPServer(&mockTopicRepo{}, &mockArticleRepo{}, &mockCommentRepo{}, &mockUserRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/topics", nil)
	req.Header.Set("Origin", "https://example.com")
	rr := serveHTTP(srv, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected Access-Control-Allow-Origin *, got %q", got)
	}
}

func TestHealthEndpoints_WithoutDatabase(t *testing.T) {
	srv := newTestHTTPServer(&mockTopicRepo{}, &mockArticleRepo{}, &mockCommentRepo{}, &mockUserRepo{})

	rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 from healthz without a database, got %d", rr.Code)
	}
	rr = serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 from readyz without a database, got %d", rr.Code)
	}
}
