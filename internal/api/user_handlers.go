package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/flashlyapp/flashly-server/internal/errors"
	"github.com/flashlyapp/flashly-server/internal/service"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getProfile",
		Method:      http.MethodGet,
		Path:        "/api/users/{userId}",
		Summary:     "Get profile",
		Description: "Returns the hydrated user with follower, following and deck counts",
		Tags:        []string{"Users"},
	}, s.handleGetProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateSettings",
		Method:      http.MethodPut,
		Path:        "/api/users/{userId}",
		Summary:     "Update settings",
		Description: "Updates the caller's names, email and about text",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateSettings)

	huma.Register(s.api, huma.Operation{
		OperationID: "followUser",
		Method:      http.MethodPost,
		Path:        "/api/users/{userId}/follow",
		Summary:     "Follow user",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleFollow)

	huma.Register(s.api, huma.Operation{
		OperationID: "unfollowUser",
		Method:      http.MethodDelete,
		Path:        "/api/users/{userId}/unfollow",
		Summary:     "Unfollow user",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnfollow)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFollowers",
		Method:      http.MethodGet,
		Path:        "/api/users/{userId}/followers",
		Summary:     "List followers",
		Tags:        []string{"Social"},
	}, s.handleFollowers)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFollowing",
		Method:      http.MethodGet,
		Path:        "/api/users/{userId}/following",
		Summary:     "List followed users",
		Tags:        []string{"Social"},
	}, s.handleFollowing)
}

// === DTOs ===

// UserIDInput identifies a user by path.
type UserIDInput struct {
	UserID string `path:"userId" doc:"User ID"`
}

// ProfileOutput wraps a profile for Huma.
type ProfileOutput struct {
	Body service.ProfileResult
}

// SettingsRequest is the request body for a settings update. Absent fields are kept.
type SettingsRequest struct {
	FirstName *string `json:"firstName,omitempty" maxLength:"100" doc:"First name"`
	LastName  *string `json:"lastName,omitempty" maxLength:"100" doc:"Last name"`
	Email     *string `json:"email,omitempty" maxLength:"254" doc:"Email address"`
	AboutMe   *string `json:"aboutMe,omitempty" maxLength:"2000" doc:"Free-form profile text"`
}

// SettingsInput wraps the settings update for Huma.
type SettingsInput struct {
	Authorization string `header:"Authorization"`
	UserID        string `path:"userId" doc:"User ID"`
	Body          SettingsRequest
}

// FollowInput identifies the user to follow or unfollow.
type FollowInput struct {
	Authorization string `header:"Authorization"`
	UserID        string `path:"userId" doc:"User ID"`
}

// UsersOutput wraps a user listing for Huma.
type UsersOutput struct {
	Body service.UsersResult
}

// === Handlers ===

func (s *Server) handleGetProfile(ctx context.Context, input *UserIDInput) (*ProfileOutput, error) {
	result, err := s.services.Users.Profile(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: *result}, nil
}

func (s *Server) handleUpdateSettings(ctx context.Context, input *SettingsInput) (*ProfileOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}
	if userID != input.UserID {
		return nil, domainerrors.Forbidden("You can only update your own settings")
	}

	result, err := s.services.Users.Settings(ctx, service.SettingsRequest{
		UserID:    userID,
		FirstName: input.Body.FirstName,
		LastName:  input.Body.LastName,
		Email:     input.Body.Email,
		AboutMe:   input.Body.AboutMe,
	})
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: *result}, nil
}

func (s *Server) handleFollow(ctx context.Context, input *FollowInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Social.Follow(ctx, userID, input.UserID)
	if err != nil {
		return nil, err
	}
	return &MessageOutput{Body: *result}, nil
}

func (s *Server) handleUnfollow(ctx context.Context, input *FollowInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Social.Unfollow(ctx, userID, input.UserID)
	if err != nil {
		return nil, err
	}
	return &MessageOutput{Body: *result}, nil
}

func (s *Server) handleFollowers(ctx context.Context, input *UserIDInput) (*UsersOutput, error) {
	result, err := s.services.Social.Followers(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	return &UsersOutput{Body: *result}, nil
}

func (s *Server) handleFollowing(ctx context.Context, input *UserIDInput) (*UsersOutput, error) {
	result, err := s.services.Social.Following(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	return &UsersOutput{Body: *result}, nil
}
