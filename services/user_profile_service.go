package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"reelmate_server/models"
)

// UserProfileService upserts and serves user profiles.
type UserProfileService struct {
	Store DocumentStore
}

// EnsureProfile creates the profile on first login and refreshes the
// mutable identity fields on later ones.
func (ups *UserProfileService) EnsureProfile(ctx context.Context, userID, email, displayName string) (*models.UserProfile, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user is required", ErrInvalidArgument)
	}
	// Stored lowercase so friend lookup by email stays case-insensitive.
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidArgument)
	}

	doc := Doc{"email": email}
	// A login without a name keeps whatever display name is stored.
	if displayName != "" {
		doc["displayName"] = displayName
	}
	if err := ups.Store.Set(ctx, UserPath(userID), doc, true); err != nil {
		return nil, err
	}
	return ups.GetProfile(ctx, userID)
}

// GetProfile returns the profile for userID.
func (ups *UserProfileService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	doc, err := ups.Store.Get(ctx, UserPath(userID))
	if err != nil {
		return nil, err
	}
	return profileFromDoc(doc), nil
}

// SetPhotoKey records the storage key of the user's uploaded avatar.
func (ups *UserProfileService) SetPhotoKey(ctx context.Context, userID, photoKey string) error {
	if userID == "" || photoKey == "" {
		return fmt.Errorf("%w: user and photo key are required", ErrInvalidArgument)
	}
	_, err := ups.Store.Get(ctx, UserPath(userID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: profile missing", ErrNotFound)
		}
		return err
	}
	return ups.Store.Set(ctx, UserPath(userID), Doc{"photoKey": photoKey}, true)
}
