package service

import (
	"context"
	"fmt"

	"github.com/flashlyapp/flashly-server/internal/domain"
	domainerrors "github.com/flashlyapp/flashly-server/internal/errors"
	"github.com/flashlyapp/flashly-server/internal/id"
	"github.com/flashlyapp/flashly-server/internal/store"
)

// SocialService maintains the follow graph.
type SocialService struct {
	rt *Runtime
}

// NewSocialService creates a new social service.
func NewSocialService(rt *Runtime) *SocialService {
	return &SocialService{rt: rt}
}

// Follow makes followerID follow followingID. Both users' lists are
// updated and a follow row is recorded.
func (s *SocialService) Follow(ctx context.Context, followerID, followingID string) (*MessageResult, error) {
	release, err := s.rt.enter(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	if followerID == "" || followingID == "" {
		return nil, domainerrors.Validation("Both user IDs are required")
	}
	if followerID == followingID {
		return nil, domainerrors.Validation("You cannot follow yourself")
	}

	current, err := s.rt.findUser(ctx, followerID, "Current user not found")
	if err != nil {
		return nil, err
	}
	target, err := s.rt.findUser(ctx, followingID, "User to follow not found")
	if err != nil {
		return nil, err
	}
	if current.IsFollowing(followingID) {
		return nil, domainerrors.Conflict("You are already following this user")
	}

	now := s.rt.now()
	current.Follow(followingID)
	current.Touch(now)
	target.AddFollower(followerID)
	target.Touch(now)

	if err := s.rt.store.Users.Update(ctx, current); err != nil {
		return nil, fmt.Errorf("update follower: %w", err)
	}
	if err := s.rt.store.Users.Update(ctx, target); err != nil {
		return nil, fmt.Errorf("update followed user: %w", err)
	}

	rows, err := s.rt.store.Followers.ListByIndex(ctx, store.IndexPair, store.FollowKey(followerID, followingID))
	if err != nil {
		return nil, fmt.Errorf("lookup follow row: %w", err)
	}
	if len(rows) == 0 {
		rowID, err := id.Generate()
		if err != nil {
			return nil, fmt.Errorf("generate follow ID: %w", err)
		}
		row := &domain.Follow{
			Record:      domain.Record{ID: rowID},
			FollowerID:  followerID,
			FollowingID: followingID,
		}
		row.InitTimestamps(now)
		if err := s.rt.store.Followers.Insert(ctx, row); err != nil {
			return nil, fmt.Errorf("record follow: %w", err)
		}
	}

	s.rt.logger.Info("user followed", "follower_id", followerID, "following_id", followingID)

	return &MessageResult{Message: "Successfully followed user"}, nil
}

// Unfollow reverses Follow. The followed user's side is cleaned up
// tolerantly: a missing follower entry is not an error.
func (s *SocialService) Unfollow(ctx context.Context, followerID, followingID string) (*MessageResult, error) {
	release, err := s.rt.enter(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	if followerID == "" || followingID == "" {
		return nil, domainerrors.Validation("Both user IDs are required")
	}
	if followerID == followingID {
		return nil, domainerrors.Validation("You cannot unfollow yourself")
	}

	current, err := s.rt.findUser(ctx, followerID, "Current user not found")
	if err != nil {
		return nil, err
	}
	target, err := s.rt.findUser(ctx, followingID, "User to unfollow not found")
	if err != nil {
		return nil, err
	}
	if !current.IsFollowing(followingID) {
		return nil, domainerrors.Conflict("You are not following this user")
	}

	now := s.rt.now()
	current.Unfollow(followingID)
	current.Touch(now)
	if err := s.rt.store.Users.Update(ctx, current); err != nil {
		return nil, fmt.Errorf("update follower: %w", err)
	}
	if target.RemoveFollower(followerID) {
		target.Touch(now)
		if err := s.rt.store.Users.Update(ctx, target); err != nil {
			return nil, fmt.Errorf("update unfollowed user: %w", err)
		}
	}

	rows, err := s.rt.store.Followers.ListByIndex(ctx, store.IndexPair, store.FollowKey(followerID, followingID))
	if err != nil {
		return nil, fmt.Errorf("lookup follow row: %w", err)
	}
	for _, row := range rows {
		if err := s.rt.store.Followers.RemoveByID(ctx, row.ID); err != nil {
			return nil, fmt.Errorf("remove follow row: %w", err)
		}
	}

	s.rt.logger.Info("user unfollowed", "follower_id", followerID, "following_id", followingID)

	return &MessageResult{Message: "Successfully unfollowed user"}, nil
}

// Followers lists the users following userID.
func (s *SocialService) Followers(ctx context.Context, userID string) (*UsersResult, error) {
	return s.listRelation(ctx, userID, func(u *domain.User) []string { return u.FollowerIDs }, "Followers")
}

// Following lists the users userID follows.
func (s *SocialService) Following(ctx context.Context, userID string) (*UsersResult, error) {
	return s.listRelation(ctx, userID, func(u *domain.User) []string { return u.FollowingIDs }, "Following")
}

func (s *SocialService) listRelation(ctx context.Context, userID string, ids func(*domain.User) []string, label string) (*UsersResult, error) {
	release, err := s.rt.enter(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	user, err := s.rt.findUser(ctx, userID, "User not found")
	if err != nil {
		return nil, err
	}
	users, err := s.rt.userSummaries(ctx, ids(user))
	if err != nil {
		return nil, err
	}
	return &UsersResult{
		Message: label + " loaded successfully",
		Users:   users,
		Count:   len(users),
	}, nil
}
