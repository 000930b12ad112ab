package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/adanyl0v/go-planner/internal/delivery/http/v1"
	"github.com/adanyl0v/go-planner/internal/models"
	"github.com/adanyl0v/go-planner/internal/services"
	"github.com/adanyl0v/go-planner/internal/storage"
	"github.com/adanyl0v/go-planner/internal/storage/sqlite"
)

const testFrontendURL = "http://localhost:3000"

var errUnknownCode = errors.New("unknown code")

type stubProvider struct {
	profiles map[string]models.Profile
}

func (p stubProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.com/o/oauth2/auth?state=" + url.QueryEscape(state)
}

func (p stubProvider) Exchange(_ context.Context, code string) (*models.Profile, error) {
	profile, ok := p.profiles[code]
	if !ok {
		return nil, errUnknownCode
	}
	return &profile, nil
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error {
	return errors.New("connection refused")
}

type testServer struct {
	router http.Handler
	store  storage.Store
	auth   services.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithPinger(t, nil)
}

func newTestServerWithPinger(t *testing.T, pinger v1.Pinger) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := sqlite.Open(context.Background(), zerolog.Nop(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	if pinger == nil {
		pinger = store
	}

	logger := zerolog.Nop()
	provider := stubProvider{profiles: map[string]models.Profile{
		"alice-code": {Subject: "g-alice", Email: "alice@example.com", Name: "Alice"},
		"bob-code":   {Subject: "g-bob", Email: "bob@example.com", Name: "Bob"},
	}}
	authService := services.NewAuthService(logger, store, provider,
		"planner-test", []byte("test-signing-key-test-signing-key"), time.Hour)

	handler := v1.New(
		logger,
		v1.Config{FrontendURL: testFrontendURL},
		pinger,
		authService,
		services.NewTaskService(logger, store),
		services.NewNoteService(logger, store),
		services.NewProjectService(logger, store),
	)

	router := gin.New()
	v1.RegisterRoutes(router, handler)

	return &testServer{router: router, store: store, auth: authService}
}

// login runs the code exchange and returns a bearer token.
func (s *testServer) login(t *testing.T, code string) string {
	t.Helper()

	result, err := s.auth.Authenticate(context.Background(), code)
	require.NoError(t, err)
	return result.AccessToken
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type task struct {
	ID            string    `json:"_id"`
	UserID        string    `json:"userId"`
	Text          string    `json:"text"`
	Completed     bool      `json:"completed"`
	ScheduledDate time.Time `json:"scheduledDate"`
	ProjectID     *string   `json:"projectId"`
	IsProjectTask bool      `json:"isProjectTask"`
	Created       time.Time `json:"created"`
}

type note struct {
	ID            string    `json:"_id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	ProjectID     *string   `json:"projectId"`
	IsProjectNote bool      `json:"isProjectNote"`
	LastModified  time.Time `json:"lastModified"`
}

type project struct {
	ID       string    `json:"_id"`
	Name     string    `json:"name"`
	Modified time.Time `json:"modified"`
	Tasks    []task    `json:"tasks"`
	Notes    []note    `json:"notes"`
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	down := newTestServerWithPinger(t, failingPinger{})
	w = down.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, http.StatusServiceUnavailable, decode[apiError](t, w).Code)
}
