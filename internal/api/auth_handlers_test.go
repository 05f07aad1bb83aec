package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashlyapp/flashly-server/internal/ratelimit"
	"github.com/flashlyapp/flashly-server/internal/service"
)

func TestRegister_Success(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/register", map[string]any{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     "ada@example.com",
		"password":  "engine1",
	})

	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	result := decode[service.AuthResult](t, resp)
	assert.Equal(t, "Registration successful", result.Message)
	assert.Equal(t, "ada@example.com", result.User.Email)
	assert.Equal(t, "Ada L.", result.User.Name)

	userID, err := ts.tokens.Resolve(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, userID)
	assert.NotEqual(t, result.User.ID, result.Token, "HTTP tokens are signed, not raw ids")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/register", map[string]any{
		"firstName": "John",
		"lastName":  "Again",
		"email":     "JohnDoe@gmail.com",
		"password":  "secret1",
	})

	requireAPIError(t, resp, http.StatusConflict, "ALREADY_EXISTS", "A user with this email already exists")
}

func TestRegister_ValidationErrors(t *testing.T) {
	ts := setupTestServer(t)

	tests := []struct {
		name    string
		body    map[string]any
		message string
	}{
		{
			name:    "missing fields",
			body:    map[string]any{"email": "x@example.com"},
			message: "All fields are required",
		},
		{
			name: "short password",
			body: map[string]any{
				"firstName": "A", "lastName": "B", "email": "ab@example.com", "password": "12345",
			},
			message: "The password contains less than 6 characters",
		},
		{
			name: "invalid email",
			body: map[string]any{
				"firstName": "A", "lastName": "B", "email": "not-an-email", "password": "123456",
			},
			message: "Invalid email address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/register", tt.body)
			requireAPIError(t, resp, http.StatusBadRequest, "VALIDATION", tt.message)
		})
	}
}

func TestRegister_SchemaViolation(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/register", map[string]any{
		"firstName": 42,
	})

	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	body := decode[testError](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.NotEmpty(t, body.Details)
}

func TestLogin_Success(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/login", map[string]any{
		"email":    "johndoe@gmail.com",
		"password": "jd2025",
	})

	require.Equal(t, http.StatusOK, resp.Code)
	result := decode[service.AuthResult](t, resp)
	assert.Equal(t, "Login successful", result.Message)
	assert.Equal(t, "John D.", result.User.Name)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ts := setupTestServer(t)

	for _, body := range []map[string]any{
		{"email": "johndoe@gmail.com", "password": "wrong"},
		{"email": "nobody@example.com", "password": "jd2025"},
	} {
		resp := ts.api.Post("/api/login", body)
		requireAPIError(t, resp, http.StatusUnauthorized, "INVALID_CREDENTIALS", "User not found")
	}
}

func TestLogin_RateLimited(t *testing.T) {
	ts := setupTestServer(t, func(o *Options) { o.AuthLimiter = ratelimit.PerMinute(1, 2) })

	body := map[string]any{"email": "johndoe@gmail.com", "password": "wrong"}
	for range 2 {
		resp := ts.api.Post("/api/login", body)
		require.Equal(t, http.StatusUnauthorized, resp.Code)
	}

	resp := ts.api.Post("/api/login", body)
	requireAPIError(t, resp, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.")

	// Registration shares the budget.
	resp = ts.api.Post("/api/register", map[string]any{"email": "late@example.com"})
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
}

func TestLogout(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.loginJohn(t)

	resp := ts.api.Post("/api/logout", auth)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Logout successful", decode[service.MessageResult](t, resp).Message)
}

func TestBearerErrors(t *testing.T) {
	ts := setupTestServer(t)

	tests := []struct {
		name    string
		args    []any
		message string
	}{
		{name: "missing header", message: "Missing authorization header"},
		{name: "wrong scheme", args: []any{"Authorization: Basic abc"}, message: "Invalid authorization header format"},
		{name: "no token", args: []any{"Authorization: Bearer"}, message: "Invalid authorization header format"},
		{name: "forged token", args: []any{"Authorization: Bearer v4.local.forged"}, message: "Invalid token provided"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Get("/api/decks", tt.args...)
			requireAPIError(t, resp, http.StatusUnauthorized, "UNAUTHORIZED", tt.message)
		})
	}
}

func TestChangePassword(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.loginJohn(t)

	resp := ts.api.Put("/api/change_password", auth, map[string]any{
		"currentPassword": "jd2025",
		"newPassword":     "jd2026",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "Password changed successfully", decode[service.MessageResult](t, resp).Message)

	ts.login(t, "johndoe@gmail.com", "jd2026")

	resp = ts.api.Post("/api/login", map[string]any{"email": "johndoe@gmail.com", "password": "jd2025"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestChangePassword_Errors(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.loginJohn(t)

	tests := []struct {
		name    string
		body    map[string]any
		status  int
		code    string
		message string
	}{
		{
			name:    "wrong current password",
			body:    map[string]any{"currentPassword": "nope", "newPassword": "jd2026"},
			status:  http.StatusUnauthorized,
			code:    "UNAUTHORIZED",
			message: "Current password is incorrect",
		},
		{
			name:    "same password",
			body:    map[string]any{"currentPassword": "jd2025", "newPassword": "jd2025"},
			status:  http.StatusConflict,
			code:    "CONFLICT",
			message: "New password must be different from current password",
		},
		{
			name:    "too short",
			body:    map[string]any{"newPassword": "abc"},
			status:  http.StatusBadRequest,
			code:    "VALIDATION",
			message: "The password must contain at least 6 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Put("/api/change_password", auth, tt.body)
			requireAPIError(t, resp, tt.status, tt.code, tt.message)
		})
	}
}
