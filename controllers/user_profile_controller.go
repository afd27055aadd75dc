package controllers

import (
	"encoding/json"
	"net/http"

	"reelmate_server/services"
	"reelmate_server/utils"
)

// UserProfileController handles HTTP requests for user profiles
type UserProfileController struct {
	UserProfileService *services.UserProfileService
}

// NewUserProfileController creates a new UserProfileController instance
func NewUserProfileController(userProfileService *services.UserProfileService) *UserProfileController {
	return &UserProfileController{UserProfileService: userProfileService}
}

// HandleEnsureProfile upserts the caller's profile from their token
// identity, optionally overriding the display name.
func (upc *UserProfileController) HandleEnsureProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var request struct {
		DisplayName string `json:"displayName"`
	}
	if r.Body != nil {
		// Body is optional; a bare POST keeps the token identity.
		_ = json.NewDecoder(r.Body).Decode(&request)
	}
	displayName := request.DisplayName
	if displayName == "" {
		displayName = identity.Name
	}

	profile, err := upc.UserProfileService.EnsureProfile(r.Context(), identity.UserID, identity.Email, displayName)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}

	WriteJSONResponse(w, http.StatusOK, profile)
}

// HandleGetProfile returns the caller's profile
func (upc *UserProfileController) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	profile, err := upc.UserProfileService.GetProfile(r.Context(), identity.UserID)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}

	WriteJSONResponse(w, http.StatusOK, profile)
}
