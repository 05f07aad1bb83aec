package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/flashlyapp/flashly-server/internal/domain"
	domainerrors "github.com/flashlyapp/flashly-server/internal/errors"
	"github.com/flashlyapp/flashly-server/internal/id"
	"github.com/flashlyapp/flashly-server/internal/store"
	"github.com/flashlyapp/flashly-server/internal/validation"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(encodedHash, password string) (bool, error)
}

// AuthService handles registration, login and password changes.
type AuthService struct {
	rt        *Runtime
	hasher    PasswordHasher
	validator *validation.Validator
}

// NewAuthService creates a new authentication service.
func NewAuthService(rt *Runtime, hasher PasswordHasher, validator *validation.Validator) *AuthService {
	return &AuthService{
		rt:        rt,
		hasher:    hasher,
		validator: validator,
	}
}

// RegisterRequest contains user registration data.
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	// Username is optional and defaults to the first name plus last initial.
	Username string `json:"username,omitempty"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest changes a user's password. CurrentPassword is
// optional; when given it must match.
type ChangePasswordRequest struct {
	UserID          string `json:"userId"`
	CurrentPassword string `json:"currentPassword,omitempty"`
	NewPassword     string `json:"newPassword"`
}

// Register creates a user and its details record. The returned token is the new user id.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	release, err := s.rt.enter(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	taken, err := emailTaken(ctx, s.rt.store, req.Email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domainerrors.AlreadyExists("A user with this email already exists")
	}

	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" ||
		strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Password) == "" {
		return nil, domainerrors.Validation("All fields are required")
	}
	if len(req.Password) < MinPasswordLength {
		return nil, domainerrors.Validation("The password contains less than 6 characters")
	}
	email := strings.TrimSpace(req.Email)
	if err := s.validator.Var("email", email, "email"); err != nil {
		return nil, domainerrors.Validation("Invalid email address")
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}
	detailsID, err := id.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate details ID: %w", err)
	}

	now := s.rt.now()
	details := &domain.UserDetails{
		Record: domain.Record{ID: detailsID},
		UserID: userID,
	}
	details.InitTimestamps(now)

	firstName, lastName := strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName)
	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = domain.DefaultUsername(firstName, lastName)
	}

	user := &domain.User{
		Record:       domain.Record{ID: userID},
		FirstName:    firstName,
		LastName:     lastName,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		DetailsID:    detailsID,
		FollowingIDs: []string{},
		FollowerIDs:  []string{},
		DeckIDs:      []string{},
	}
	user.InitTimestamps(now)

	if err := s.rt.store.UserDetails.Insert(ctx, details); err != nil {
		return nil, fmt.Errorf("create user details: %w", err)
	}
	if err := s.rt.store.Users.Insert(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.rt.logger.Info("user registered",
		"user_id", userID,
		"email", user.Email,
	)

	return &AuthResult{
		Message: "Registration successful",
		User:    domain.AuthUserFrom(user),
		Token:   userID,
	}, nil
}

// Login finds the user with the given email and verifies the password.
// Unknown emails and wrong passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	release, err := s.rt.enter(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	user, err := s.rt.store.Users.GetByIndex(ctx, store.IndexEmail, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials("User not found")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	valid, err := s.hasher.Verify(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, domainerrors.InvalidCredentials("User not found")
	}

	s.rt.logger.Info("user logged in", "user_id", user.ID)

	return &AuthResult{
		Message: "Login successful",
		User:    domain.AuthUserFrom(user),
		Token:   user.ID,
	}, nil
}

// Logout acknowledges a logout. Tokens are stateless, so nothing is revoked.
func (s *AuthService) Logout(ctx context.Context, userID string) (*MessageResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.rt.logger.Info("user logged out", "user_id", userID)
	return &MessageResult{Message: "Logout successful"}, nil
}

// ChangePassword replaces a user's password.
func (s *AuthService) ChangePassword(ctx context.Context, req ChangePasswordRequest) (*MessageResult, error) {
	release, err := s.rt.enter(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	if req.UserID == "" || req.NewPassword == "" {
		return nil, domainerrors.Validation("All fields are required")
	}
	if len(req.NewPassword) < MinPasswordLength {
		return nil, domainerrors.Validation("The password must contain at least 6 characters")
	}

	user, err := s.rt.store.Users.FindByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("User not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if req.CurrentPassword != "" {
		ok, err := s.hasher.Verify(user.PasswordHash, req.CurrentPassword)
		if err != nil {
			return nil, fmt.Errorf("verify current password: %w", err)
		}
		if !ok {
			return nil, domainerrors.Unauthorized("Current password is incorrect")
		}
	}

	same, err := s.hasher.Verify(user.PasswordHash, req.NewPassword)
	if err != nil {
		return nil, fmt.Errorf("compare passwords: %w", err)
	}
	if same {
		return nil, domainerrors.Conflict("New password must be different from current password")
	}

	passwordHash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = passwordHash
	user.Touch(s.rt.now())

	if err := s.rt.store.Users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.rt.logger.Info("password changed", "user_id", user.ID)

	return &MessageResult{Message: "Password changed successfully"}, nil
}

// emailTaken reports whether a user other than exceptID uses email.
// Must be called with the runtime lock held.
func emailTaken(ctx context.Context, st *store.Store, email, exceptID string) (bool, error) {
	if strings.TrimSpace(email) == "" {
		return false, nil
	}
	matches, err := st.Users.ListByIndex(ctx, store.IndexEmail, email)
	if err != nil {
		return false, fmt.Errorf("lookup email: %w", err)
	}
	for _, u := range matches {
		if u.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

// resolveToken maps a façade token to its user. Must be called with the
// runtime lock held.
func (rt *Runtime) resolveToken(ctx context.Context, token string) (*domain.User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, domainerrors.Unauthorized("Invalid token provided")
	}
	user, err := rt.store.Users.FindByID(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("User not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
