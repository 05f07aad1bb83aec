package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/flashlyapp/flashly-server/internal/domain"
	domainerrors "github.com/flashlyapp/flashly-server/internal/errors"
	"github.com/flashlyapp/flashly-server/internal/store"
	"github.com/flashlyapp/flashly-server/internal/validation"
)

// UserService reads and edits user profiles.
type UserService struct {
	rt        *Runtime
	validator *validation.Validator
}

// NewUserService creates a new user service.
func NewUserService(rt *Runtime, validator *validation.Validator) *UserService {
	return &UserService{rt: rt, validator: validator}
}

// SettingsRequest is a partial profile update. Nil fields keep their value.
type SettingsRequest struct {
	UserID    string  `json:"userId"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Email     *string `json:"email,omitempty"`
	AboutMe   *string `json:"aboutMe,omitempty"`
}

// Profile returns the hydrated user with relation counts.
func (s *UserService) Profile(ctx context.Context, userID string) (*ProfileResult, error) {
	release, err := s.rt.enter(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	user, err := s.rt.findUser(ctx, userID, "User not found")
	if err != nil {
		return nil, err
	}

	profile, err := s.rt.profile(ctx, user, nil)
	if err != nil {
		return nil, err
	}
	return &ProfileResult{
		Message:    "Profile successfully retrieved",
		User:       *profile,
		Statistics: profile.Statistics(),
	}, nil
}

// Settings updates names, email and about text. Values are trimmed; names
// and email may not end up empty. Relations are never touched.
func (s *UserService) Settings(ctx context.Context, req SettingsRequest) (*ProfileResult, error) {
	release, err := s.rt.enter(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	user, err := s.rt.findUser(ctx, req.UserID, "User not found")
	if err != nil {
		return nil, err
	}

	details, err := s.rt.store.UserDetails.FindByID(ctx, user.DetailsID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("User details not found")
		}
		return nil, fmt.Errorf("get user details: %w", err)
	}

	if req.Email != nil && store.NormalizeEmail(*req.Email) != store.NormalizeEmail(user.Email) {
		taken, err := emailTaken(ctx, s.rt.store, *req.Email, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domainerrors.AlreadyExists("A user with this email already exists")
		}
	}

	firstName := pick(req.FirstName, user.FirstName)
	lastName := pick(req.LastName, user.LastName)
	email := pick(req.Email, user.Email)
	aboutMe := pick(req.AboutMe, details.AboutMe)
	if firstName == "" || lastName == "" || email == "" {
		return nil, domainerrors.Validation("First name, last name, and email are required")
	}
	if req.Email != nil {
		if err := s.validator.Var("email", email, "email"); err != nil {
			return nil, domainerrors.Validation("Invalid email address")
		}
	}

	now := s.rt.now()
	user.FirstName, user.LastName, user.Email = firstName, lastName, email
	user.Touch(now)
	details.AboutMe = aboutMe
	details.Touch(now)

	if err := s.rt.store.Users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if err := s.rt.store.UserDetails.Update(ctx, details); err != nil {
		return nil, fmt.Errorf("update user details: %w", err)
	}

	s.rt.logger.Info("settings updated", "user_id", user.ID)

	profile, err := s.rt.profile(ctx, user, details)
	if err != nil {
		return nil, err
	}
	return &ProfileResult{
		Message:    "Settings updated successfully",
		User:       *profile,
		Statistics: profile.Statistics(),
	}, nil
}

// pick returns the trimmed update when present, else the current value.
func pick(update *string, current string) string {
	if update == nil {
		return current
	}
	return strings.TrimSpace(*update)
}

// findUser returns the user or a not-found error carrying notFoundMsg.
func (rt *Runtime) findUser(ctx context.Context, userID, notFoundMsg string) (*domain.User, error) {
	user, err := rt.store.Users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound(notFoundMsg)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
