package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/innosearch-dev/innosearch/internal/config"
	"github.com/innosearch-dev/innosearch/internal/domain"
	"github.com/innosearch-dev/innosearch/internal/events"
	"github.com/innosearch-dev/innosearch/internal/middleware"
)

func createRequest(t *testing.T, method, url string, body []byte, cookies ...*http.Cookie) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

// withUser injects an authenticated user the way the auth middleware does.
func withUser(user *domain.User) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUser(r.Context(), user)))
		})
	}
}

func testConfig() *config.Config {
	return &config.Config{Public: config.Public{Port: 8080, SessionTTLHours: 24, EventsPageSize: 20}}
}

// --- Mocks ---

type MockAuthService struct {
	SignupFunc        func(reg domain.Registration) (domain.Session, error)
	LoginFunc         func(creds domain.Credentials) (domain.Session, error)
	LogoutFunc        func(token domain.SessionToken) error
	AuthenticateFunc  func(token domain.SessionToken) (domain.User, error)
	DeleteAccountFunc func(userId domain.UserId) error
}

func (m *MockAuthService) Signup(reg domain.Registration) (domain.Session, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(reg)
	}
	return domain.Session{Token: "tok", UserId: 1}, nil
}

func (m *MockAuthService) Login(creds domain.Credentials) (domain.Session, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(creds)
	}
	return domain.Session{Token: "tok"}, nil
}

func (m *MockAuthService) Logout(token domain.SessionToken) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(token)
	}
	return nil
}

func (m *MockAuthService) Authenticate(token domain.SessionToken) (domain.User, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(token)
	}
	return domain.User{}, nil
}

func (m *MockAuthService) DeleteAccount(userId domain.UserId) error {
	if m.DeleteAccountFunc != nil {
		return m.DeleteAccountFunc(userId)
	}
	return nil
}

type MockBoardService struct {
	CreatePostFunc    func(data domain.PostCreationData) (domain.PostId, error)
	GetPostFunc       func(id domain.PostId) (domain.Post, error)
	ListPostsFunc     func() ([]domain.PostMetadata, error)
	CreateCommentFunc func(ctx context.Context, postId domain.PostId, authorId domain.UserId, content string) (domain.Comment, error)
	ListCommentsFunc  func(postId domain.PostId) ([]domain.Comment, error)
}

func (m *MockBoardService) CreatePost(data domain.PostCreationData) (domain.PostId, error) {
	if m.CreatePostFunc != nil {
		return m.CreatePostFunc(data)
	}
	return 1, nil
}

func (m *MockBoardService) GetPost(id domain.PostId) (domain.Post, error) {
	if m.GetPostFunc != nil {
		return m.GetPostFunc(id)
	}
	return domain.Post{}, nil
}

func (m *MockBoardService) ListPosts() ([]domain.PostMetadata, error) {
	if m.ListPostsFunc != nil {
		return m.ListPostsFunc()
	}
	return nil, nil
}

func (m *MockBoardService) CreateComment(ctx context.Context, postId domain.PostId, authorId domain.UserId, content string) (domain.Comment, error) {
	if m.CreateCommentFunc != nil {
		return m.CreateCommentFunc(ctx, postId, authorId, content)
	}
	return domain.Comment{PostId: postId, AuthorId: authorId, Content: content, AnonIndex: 1}, nil
}

func (m *MockBoardService) ListComments(postId domain.PostId) ([]domain.Comment, error) {
	if m.ListCommentsFunc != nil {
		return m.ListCommentsFunc(postId)
	}
	return nil, nil
}

type MockSearchEngine struct {
	QuickSearchFunc    func(keyword string) ([]string, int, error)
	DetailedSearchFunc func(keyword, subCategory string) ([]domain.TechMatch, error)
	FindByNameFunc     func(name string) ([]domain.TechMatch, error)
}

func (m *MockSearchEngine) QuickSearch(keyword string) ([]string, int, error) {
	if m.QuickSearchFunc != nil {
		return m.QuickSearchFunc(keyword)
	}
	return nil, 0, nil
}

func (m *MockSearchEngine) DetailedSearch(keyword, subCategory string) ([]domain.TechMatch, error) {
	if m.DetailedSearchFunc != nil {
		return m.DetailedSearchFunc(keyword, subCategory)
	}
	return nil, nil
}

func (m *MockSearchEngine) FindByName(name string) ([]domain.TechMatch, error) {
	if m.FindByNameFunc != nil {
		return m.FindByNameFunc(name)
	}
	return nil, nil
}

type MockEventsDirectory struct {
	QueryFunc func(q events.Query) (*events.Result, error)
}

func (m *MockEventsDirectory) Query(q events.Query) (*events.Result, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(q)
	}
	return &events.Result{}, nil
}

func newTestRouter(h *Handler, user *domain.User) *chi.Mux {
	r := chi.NewRouter()
	if user != nil {
		r.Use(withUser(user))
	}
	r.Post("/api/signup", h.Signup)
	r.Post("/api/login", h.Login)
	r.Post("/api/logout", h.Logout)
	r.Get("/api/me", h.Me)
	r.Delete("/api/account", h.DeleteAccount)
	r.Get("/api/board/posts", h.ListPosts)
	r.Post("/api/board/posts", h.CreatePost)
	r.Get("/api/board/posts/{id}", h.GetPost)
	r.Get("/api/board/posts/{id}/comments", h.ListComments)
	r.Post("/api/board/posts/{id}/comments", h.CreateComment)
	r.Post("/api/matching/search", h.QuickSearch)
	r.Post("/api/matching/detailed", h.DetailedSearch)
	r.Get("/api/matching/tech-by-name", h.TechByName)
	r.Get("/api/events", h.ListEvents)
	return r
}
