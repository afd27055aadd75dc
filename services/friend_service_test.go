package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProfile(t *testing.T, store *MemoryStore, userID, email string) {
	t.Helper()
	svc := &UserProfileService{Store: store}
	_, err := svc.EnsureProfile(context.Background(), userID, email, "")
	require.NoError(t, err)
}

func TestAddFriendByEmail_Mutual(t *testing.T) {
	store := NewMemoryStore()
	svc := &FriendService{Store: store}
	ctx := context.Background()

	seedProfile(t, store, "user-a", "a@example.com")
	seedProfile(t, store, "user-b", "b@example.com")

	friend, err := svc.AddFriendByEmail(ctx, "user-a", " B@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, "user-b", friend.UserID)

	profiles := &UserProfileService{Store: store}
	a, err := profiles.GetProfile(ctx, "user-a")
	require.NoError(t, err)
	b, err := profiles.GetProfile(ctx, "user-b")
	require.NoError(t, err)
	assert.Equal(t, []string{"user-b"}, a.Friends)
	assert.Equal(t, []string{"user-a"}, b.Friends)
}

func TestAddFriendByEmail_Validations(t *testing.T) {
	store := NewMemoryStore()
	svc := &FriendService{Store: store}
	ctx := context.Background()

	seedProfile(t, store, "user-a", "a@example.com")
	seedProfile(t, store, "user-b", "b@example.com")

	_, err := svc.AddFriendByEmail(ctx, "user-a", "")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.AddFriendByEmail(ctx, "user-a", "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.AddFriendByEmail(ctx, "user-a", "a@example.com")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.AddFriendByEmail(ctx, "user-a", "b@example.com")
	require.NoError(t, err)
	_, err = svc.AddFriendByEmail(ctx, "user-a", "b@example.com")
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestGetFriendsDetails(t *testing.T) {
	store := NewMemoryStore()
	svc := &FriendService{Store: store}
	ctx := context.Background()

	seedProfile(t, store, "user-a", "a@example.com")
	for _, u := range []struct{ id, email string }{
		{"user-b", "b@example.com"},
		{"user-c", "c@example.com"},
		{"user-d", "d@example.com"},
	} {
		seedProfile(t, store, u.id, u.email)
		_, err := svc.AddFriendByEmail(ctx, "user-a", u.email)
		require.NoError(t, err)
	}

	friends, err := svc.GetFriendsDetails(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, friends, 3)

	ids := make([]string, len(friends))
	for i, f := range friends {
		ids[i] = f.UserID
	}
	assert.ElementsMatch(t, []string{"user-b", "user-c", "user-d"}, ids)
}

func TestGetFriendsDetails_EmptyList(t *testing.T) {
	store := NewMemoryStore()
	svc := &FriendService{Store: store}

	seedProfile(t, store, "user-a", "a@example.com")

	friends, err := svc.GetFriendsDetails(context.Background(), "user-a")
	require.NoError(t, err)
	assert.Empty(t, friends)
}
