package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck_Success(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")

	require.Equal(t, http.StatusOK, resp.Code)
	health := decode[HealthResponse](t, resp)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "healthy", health.Components["store"].Status)
	assert.Equal(t, "memory backend", health.Components["store"].Message)
	assert.Equal(t, "2 decks indexed", health.Components["search"].Message)
}

func TestHealthCheck_DegradedWithoutSearch(t *testing.T) {
	ts := setupTestServer(t, func(o *Options) { o.Search = nil })

	resp := ts.api.Get("/health")

	require.Equal(t, http.StatusOK, resp.Code)
	health := decode[HealthResponse](t, resp)
	assert.Equal(t, "degraded", health.Status)
	assert.Equal(t, "degraded", health.Components["search"].Status)
}

func TestStatus(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/status")

	require.Equal(t, http.StatusOK, resp.Code)
	status := decode[StatusResponse](t, resp)
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, Version, status.Version)
	assert.Equal(t, "memory", status.Backend)
	assert.NotEmpty(t, status.Uptime)
}
