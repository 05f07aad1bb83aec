package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/flashlyapp/flashly-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          "/api/register",
		Summary:       "Register new user",
		Description:   "Creates a user and returns a bearer token",
		Tags:          []string{"Authentication"},
		DefaultStatus: http.StatusCreated,
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/login",
		Summary:     "User login",
		Description: "Authenticates a user by email and password",
		Tags:        []string{"Authentication"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/api/logout",
		Summary:     "Logout",
		Description: "Acknowledges a logout. Tokens are stateless and expire on their own",
		Tags:        []string{"Authentication"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLogout)

	huma.Register(s.api, huma.Operation{
		OperationID: "changePassword",
		Method:      http.MethodPut,
		Path:        "/api/change_password",
		Summary:     "Change password",
		Description: "Replaces the caller's password",
		Tags:        []string{"Authentication"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleChangePassword)
}

// === DTOs ===

// RegisterRequest is the request body for user registration.
type RegisterRequest struct {
	FirstName string `json:"firstName,omitempty" maxLength:"100" doc:"First name"`
	LastName  string `json:"lastName,omitempty" maxLength:"100" doc:"Last name"`
	Email     string `json:"email,omitempty" maxLength:"254" doc:"Email address"`
	Password  string `json:"password,omitempty" maxLength:"1024" doc:"Password, at least 6 characters"`
	Username  string `json:"username,omitempty" maxLength:"100" doc:"Optional username, defaults to first name plus last initial"`
}

// RegisterInput wraps the register request for Huma.
type RegisterInput struct {
	Body     RegisterRequest
	clientIP string
}

// Resolve captures the client IP for rate limiting.
func (i *RegisterInput) Resolve(ctx huma.Context) []error {
	i.clientIP = hostOnly(ctx.RemoteAddr())
	return nil
}

// LoginRequest is the request body for user login.
type LoginRequest struct {
	Email    string `json:"email,omitempty" maxLength:"254" doc:"User email"`
	Password string `json:"password,omitempty" maxLength:"1024" doc:"User password"`
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body     LoginRequest
	clientIP string
}

// Resolve captures the client IP for rate limiting.
func (i *LoginInput) Resolve(ctx huma.Context) []error {
	i.clientIP = hostOnly(ctx.RemoteAddr())
	return nil
}

// AuthOutput wraps the register/login response for Huma.
type AuthOutput struct {
	Body service.AuthResult
}

// BearerInput carries only the Authorization header.
type BearerInput struct {
	Authorization string `header:"Authorization"`
}

// MessageOutput wraps a message-only response for Huma.
type MessageOutput struct {
	Body service.MessageResult
}

// ChangePasswordRequest is the request body for a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword,omitempty" maxLength:"1024" doc:"Current password; checked when given"`
	NewPassword     string `json:"newPassword,omitempty" maxLength:"1024" doc:"New password, at least 6 characters"`
}

// ChangePasswordInput wraps the password change for Huma.
type ChangePasswordInput struct {
	Authorization string `header:"Authorization"`
	Body          ChangePasswordRequest
}

// === Handlers ===

func (s *Server) handleRegister(ctx context.Context, input *RegisterInput) (*AuthOutput, error) {
	if err := s.allowAuth(input.clientIP); err != nil {
		return nil, err
	}

	result, err := s.services.Auth.Register(ctx, service.RegisterRequest{
		FirstName: input.Body.FirstName,
		LastName:  input.Body.LastName,
		Email:     input.Body.Email,
		Password:  input.Body.Password,
		Username:  input.Body.Username,
	})
	if err != nil {
		return nil, err
	}

	return s.authOutput(result)
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*AuthOutput, error) {
	if err := s.allowAuth(input.clientIP); err != nil {
		return nil, err
	}

	result, err := s.services.Auth.Login(ctx, service.LoginRequest{
		Email:    input.Body.Email,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}

	return s.authOutput(result)
}

// authOutput swaps the façade token (the user id) for a bearer token.
func (s *Server) authOutput(result *service.AuthResult) (*AuthOutput, error) {
	token, err := s.tokens.Issue(result.User.ID, result.User.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	result.Token = token
	return &AuthOutput{Body: *result}, nil
}

func (s *Server) handleLogout(ctx context.Context, input *BearerInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Auth.Logout(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &MessageOutput{Body: *result}, nil
}

func (s *Server) handleChangePassword(ctx context.Context, input *ChangePasswordInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Auth.ChangePassword(ctx, service.ChangePasswordRequest{
		UserID:          userID,
		CurrentPassword: input.Body.CurrentPassword,
		NewPassword:     input.Body.NewPassword,
	})
	if err != nil {
		return nil, err
	}
	return &MessageOutput{Body: *result}, nil
}
