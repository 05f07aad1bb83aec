package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashlyapp/flashly-server/internal/auth"
	"github.com/flashlyapp/flashly-server/internal/ratelimit"
	"github.com/flashlyapp/flashly-server/internal/search"
	"github.com/flashlyapp/flashly-server/internal/service"
	"github.com/flashlyapp/flashly-server/internal/store"
	"github.com/flashlyapp/flashly-server/internal/validation"
)

// testServer wraps the API server with a humatest client and the seeded store.
type testServer struct {
	*Server
	api    humatest.TestAPI
	store  *store.Store
	tokens TokenCodec
}

// setupTestServer creates a server over a seeded in-memory store, a live
// in-memory search index and PASETO tokens. Options are applied last.
func setupTestServer(t *testing.T, mutators ...func(*Options)) *testServer {
	t.Helper()
	ctx := context.Background()

	st := store.NewMemory()
	hasher := auth.NewPasswordHasher(auth.MinimalParams)
	require.NoError(t, store.Seed(ctx, st, hasher))

	index, err := search.NewDeckIndex(search.Options{})
	require.NoError(t, err)

	rt := service.NewRuntime(st, service.RuntimeConfig{Index: index})
	services := service.New(rt, hasher, validation.New())
	_, err = services.Decks.Reindex(ctx)
	require.NoError(t, err)

	key, err := auth.GenerateKey()
	require.NoError(t, err)
	tokenService, err := auth.NewTokenService(key, 15*time.Minute)
	require.NoError(t, err)

	limiter := ratelimit.New(1000, 1000)

	opts := Options{
		Services:    services,
		Store:       st,
		Tokens:      NewPASETOTokens(tokenService),
		Search:      index,
		Metrics:     NewMetrics(),
		AuthLimiter: limiter,
	}
	for _, m := range mutators {
		m(&opts)
	}

	s := NewServer(opts)

	t.Cleanup(func() {
		limiter.Stop()
		if opts.AuthLimiter != nil {
			opts.AuthLimiter.Stop()
		}
		_ = index.Close()
		_ = st.Close()
	})

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.API()),
		store:  st,
		tokens: opts.Tokens,
	}
}

// login signs in a seeded user and returns the bearer header.
func (ts *testServer) login(t *testing.T, email, password string) string {
	t.Helper()

	resp := ts.api.Post("/api/login", map[string]any{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var result service.AuthResult
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	require.NotEmpty(t, result.Token)
	return "Authorization: Bearer " + result.Token
}

func (ts *testServer) loginNicholas(t *testing.T) string {
	t.Helper()
	return ts.login(t, "nicholas.chumney@outlook.com", "test123")
}

func (ts *testServer) loginJohn(t *testing.T) string {
	t.Helper()
	return ts.login(t, "johndoe@gmail.com", "jd2025")
}

// testError is the body of every error response.
type testError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details"`
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &v), resp.Body.String())
	return v
}

func requireAPIError(t *testing.T, resp *httptest.ResponseRecorder, status int, code, message string) {
	t.Helper()
	require.Equal(t, status, resp.Code, resp.Body.String())
	body := decode[testError](t, resp)
	assert.Equal(t, code, body.Code)
	if message != "" {
		assert.Equal(t, message, body.Message)
	}
}

func TestServer_MetricsExposed(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/decks/explore")
	require.Equal(t, http.StatusOK, resp.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	ts.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "flashly_http_requests_total")
	assert.Contains(t, body, `route="/api/decks/explore"`)
	assert.Contains(t, body, "go_goroutines")
}

func TestServer_NoMetricsRouteWithoutMetrics(t *testing.T) {
	ts := setupTestServer(t, func(o *Options) { o.Metrics = nil })

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	ts.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_CORSPreflight(t *testing.T) {
	ts := setupTestServer(t, func(o *Options) {
		o.AllowedOrigins = []string{"https://flashly.example"}
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/decks", nil)
	req.Header.Set("Origin", "https://flashly.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	w := httptest.NewRecorder()
	ts.ServeHTTP(w, req)

	assert.Equal(t, "https://flashly.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestServer_CORSRejectsUnknownOrigin(t *testing.T) {
	ts := setupTestServer(t, func(o *Options) {
		o.AllowedOrigins = []string{"https://flashly.example"}
	})

	req := httptest.NewRequest(http.MethodGet, "/api/decks/explore", nil)
	req.Header.Set("Origin", "https://evil.example")
	w := httptest.NewRecorder()
	ts.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_RequestIDHeaderAccepted(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/categories", "X-Request-ID: abc-123")
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestServer_OpenAPIDocument(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/openapi.json")
	require.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	assert.Contains(t, body, "Flashly API")
	for _, path := range []string{"/api/register", "/api/decks/{deckId}/cards", "/api/users/{userId}/follow"} {
		assert.True(t, strings.Contains(body, path), "missing %s", path)
	}
}

func TestPlainTokens(t *testing.T) {
	ts := setupTestServer(t, func(o *Options) { o.Tokens = PlainTokens{} })

	header := ts.loginJohn(t)
	assert.Equal(t, "Authorization: Bearer "+store.SeedUserJohn, header)

	resp := ts.api.Get("/api/decks/feed", "Authorization: Bearer "+store.SeedUserJohn)
	require.Equal(t, http.StatusOK, resp.Code)
	result := decode[service.DecksResult](t, resp)
	assert.NotEmpty(t, result.Decks)
}

func TestPlainTokens_UnknownUser(t *testing.T) {
	ts := setupTestServer(t, func(o *Options) { o.Tokens = PlainTokens{} })

	resp := ts.api.Get("/api/decks", "Authorization: Bearer nobody")
	assert.GreaterOrEqual(t, resp.Code, http.StatusBadRequest)
	assert.Less(t, resp.Code, http.StatusInternalServerError)
}
