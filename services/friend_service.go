package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"reelmate_server/models"
	"reelmate_server/utils"
)

// friendLookupBatch is the number of user ids resolved per query when
// expanding a friend list.
const friendLookupBatch = 10

// FriendService manages the mutual friend lists users pick their
// session partner from.
type FriendService struct {
	Store DocumentStore
}

func profileFromDoc(doc Doc) *models.UserProfile {
	if doc == nil {
		return nil
	}
	return &models.UserProfile{
		UserID:      utils.GetString(doc, "userId"),
		Email:       utils.GetString(doc, "email"),
		DisplayName: utils.GetString(doc, "displayName"),
		PhotoKey:    utils.GetString(doc, "photoKey"),
		Friends:     utils.GetStringSlice(doc, "friends"),
	}
}

// AddFriendByEmail looks up the user registered under email and makes
// the friendship mutual. Adding yourself or an existing friend fails.
func (fs *FriendService) AddFriendByEmail(ctx context.Context, userID, email string) (*models.UserProfile, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user is required", ErrInvalidArgument)
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidArgument)
	}

	docs, err := fs.Store.QueryWhere(ctx, "users", "email", OpEqual, email)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: no user with that email", ErrNotFound)
	}
	friend := profileFromDoc(docs[0])

	if friend.UserID == userID {
		return nil, fmt.Errorf("%w: cannot add yourself as a friend", ErrInvalidArgument)
	}

	ownDoc, err := fs.Store.Get(ctx, UserPath(userID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: own profile missing", ErrNotFound)
		}
		return nil, err
	}
	if utils.ContainsString(utils.GetStringSlice(ownDoc, "friends"), friend.UserID) {
		return nil, fmt.Errorf("%w: already friends with this user", ErrAlreadyExists)
	}

	if _, _, err := fs.Store.UpdateUnion(ctx, UserPath(userID), "friends", friend.UserID); err != nil {
		return nil, err
	}
	if _, _, err := fs.Store.UpdateUnion(ctx, UserPath(friend.UserID), "friends", userID); err != nil {
		return nil, err
	}
	return friend, nil
}

// GetFriendsDetails resolves the caller's friend list into full
// profiles, querying in batches.
func (fs *FriendService) GetFriendsDetails(ctx context.Context, userID string) ([]models.UserProfile, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user is required", ErrInvalidArgument)
	}

	ownDoc, err := fs.Store.Get(ctx, UserPath(userID))
	if err != nil {
		return nil, err
	}
	friendIDs := utils.GetStringSlice(ownDoc, "friends")

	friends := make([]models.UserProfile, 0, len(friendIDs))
	for start := 0; start < len(friendIDs); start += friendLookupBatch {
		end := start + friendLookupBatch
		if end > len(friendIDs) {
			end = len(friendIDs)
		}
		docs, err := fs.Store.QueryWhere(ctx, "users", "userId", OpIn, friendIDs[start:end])
		if err != nil {
			return nil, err
		}
		for _, doc := range docs {
			friends = append(friends, *profileFromDoc(doc))
		}
	}
	return friends, nil
}
