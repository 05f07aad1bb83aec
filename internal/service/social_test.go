package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/flashlyapp/flashly-server/internal/errors"
	"github.com/flashlyapp/flashly-server/internal/store"
)

func TestSocialService_FollowUnfollow(t *testing.T) {
	svc, rt := setupTest(t)
	ctx := context.Background()
	st := rt.Store()

	result, err := svc.Social.Follow(ctx, store.SeedUserNicholas, store.SeedUserJohn)
	require.NoError(t, err)
	assert.Equal(t, "Successfully followed user", result.Message)

	nicholas, err := st.Users.FindByID(ctx, store.SeedUserNicholas)
	require.NoError(t, err)
	john, err := st.Users.FindByID(ctx, store.SeedUserJohn)
	require.NoError(t, err)
	assert.Equal(t, []string{store.SeedUserJohn}, nicholas.FollowingIDs)
	assert.Equal(t, []string{store.SeedUserNicholas}, john.FollowerIDs)

	rows, err := st.Followers.ListByIndex(ctx, store.IndexPair, store.FollowKey(store.SeedUserNicholas, store.SeedUserJohn))
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	result, err = svc.Social.Unfollow(ctx, store.SeedUserNicholas, store.SeedUserJohn)
	require.NoError(t, err)
	assert.Equal(t, "Successfully unfollowed user", result.Message)

	nicholas, err = st.Users.FindByID(ctx, store.SeedUserNicholas)
	require.NoError(t, err)
	john, err = st.Users.FindByID(ctx, store.SeedUserJohn)
	require.NoError(t, err)
	assert.Empty(t, nicholas.FollowingIDs)
	assert.Empty(t, john.FollowerIDs)
	assert.Equal(t, []string{store.SeedUserNicholas}, john.FollowingIDs)

	rows, err = st.Followers.ListByIndex(ctx, store.IndexPair, store.FollowKey(store.SeedUserNicholas, store.SeedUserJohn))
	require.NoError(t, err)
	assert.Empty(t, rows)

	// The seeded follow row is untouched.
	count, err := st.Followers.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSocialService_UnfollowSeeded(t *testing.T) {
	svc, rt := setupTest(t)
	ctx := context.Background()

	_, err := svc.Social.Unfollow(ctx, store.SeedUserJohn, store.SeedUserNicholas)
	require.NoError(t, err)

	count, err := rt.Store().Followers.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	feed, err := svc.Decks.Feed(ctx, store.SeedUserJohn)
	require.NoError(t, err)
	assert.Equal(t, "No decks found for your feed", feed.Message)
}

func TestSocialService_Follow_Errors(t *testing.T) {
	svc, _ := setupTest(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		follower  string
		following string
		code      domainerrors.Code
		msg       string
	}{
		{"missing id", "", store.SeedUserJohn, domainerrors.CodeValidation, "Both user IDs are required"},
		{"self", store.SeedUserJohn, store.SeedUserJohn, domainerrors.CodeValidation, "You cannot follow yourself"},
		{"unknown caller", "ghost123", store.SeedUserJohn, domainerrors.CodeNotFound, "Current user not found"},
		{"unknown target", store.SeedUserJohn, "ghost123", domainerrors.CodeNotFound, "User to follow not found"},
		{"already following", store.SeedUserJohn, store.SeedUserNicholas, domainerrors.CodeConflict, "You are already following this user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Social.Follow(ctx, tt.follower, tt.following)
			requireDomainError(t, err, tt.code, tt.msg)
		})
	}
}

func TestSocialService_Unfollow_Errors(t *testing.T) {
	svc, _ := setupTest(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		follower  string
		following string
		code      domainerrors.Code
		msg       string
	}{
		{"missing id", store.SeedUserJohn, "", domainerrors.CodeValidation, "Both user IDs are required"},
		{"self", store.SeedUserJohn, store.SeedUserJohn, domainerrors.CodeValidation, "You cannot unfollow yourself"},
		{"unknown caller", "ghost123", store.SeedUserJohn, domainerrors.CodeNotFound, "Current user not found"},
		{"unknown target", store.SeedUserJohn, "ghost123", domainerrors.CodeNotFound, "User to unfollow not found"},
		{"not following", store.SeedUserNicholas, store.SeedUserJohn, domainerrors.CodeConflict, "You are not following this user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Social.Unfollow(ctx, tt.follower, tt.following)
			requireDomainError(t, err, tt.code, tt.msg)
		})
	}
}

func TestSocialService_FollowersAndFollowing(t *testing.T) {
	svc, _ := setupTest(t)
	ctx := context.Background()

	followers, err := svc.Social.Followers(ctx, store.SeedUserNicholas)
	require.NoError(t, err)
	assert.Equal(t, "Followers loaded successfully", followers.Message)
	assert.Equal(t, 1, followers.Count)
	require.Len(t, followers.Users, 1)
	assert.Equal(t, "JohnD", followers.Users[0].Username)

	following, err := svc.Social.Following(ctx, store.SeedUserNicholas)
	require.NoError(t, err)
	assert.Equal(t, "Following loaded successfully", following.Message)
	assert.Zero(t, following.Count)
	assert.Empty(t, following.Users)

	_, err = svc.Social.Followers(ctx, "ghost123")
	requireDomainError(t, err, domainerrors.CodeNotFound, "User not found")
}

func TestSocialService_Unfollow_ToleratesMissingFollowerEntry(t *testing.T) {
	svc, rt := setupTest(t)
	ctx := context.Background()
	st := rt.Store()

	nicholas, err := st.Users.FindByID(ctx, store.SeedUserNicholas)
	require.NoError(t, err)
	nicholas.FollowerIDs = []string{}
	require.NoError(t, st.Users.Update(ctx, nicholas))

	result, err := svc.Social.Unfollow(ctx, store.SeedUserJohn, store.SeedUserNicholas)
	require.NoError(t, err)
	assert.Equal(t, "Successfully unfollowed user", result.Message)

	john, err := st.Users.FindByID(ctx, store.SeedUserJohn)
	require.NoError(t, err)
	assert.Empty(t, john.FollowingIDs)

	nicholas, err = st.Users.FindByID(ctx, store.SeedUserNicholas)
	require.NoError(t, err)
	assert.Empty(t, nicholas.FollowerIDs)

	rows, err := st.Followers.ListByIndex(ctx, store.IndexPair, store.FollowKey(store.SeedUserJohn, store.SeedUserNicholas))
	require.NoError(t, err)
	assert.Empty(t, rows)
}
