package controllers

import (
	"encoding/json"
	"net/http"

	"reelmate_server/services"
	"reelmate_server/utils"
)

// S3Controller handles HTTP requests for avatar media URLs
type S3Controller struct {
	S3Service          *services.S3Service
	UserProfileService *services.UserProfileService
}

// NewS3Controller creates a new S3Controller instance
func NewS3Controller(s3Service *services.S3Service, userProfileService *services.UserProfileService) *S3Controller {
	return &S3Controller{S3Service: s3Service, UserProfileService: userProfileService}
}

// HandleGenerateUploadURL presigns an avatar upload and records the
// resulting object key on the caller's profile.
func (sc *S3Controller) HandleGenerateUploadURL(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var request struct {
		FileType string `json:"fileType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.FileType == "" {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	url, key, err := sc.S3Service.GenerateAvatarUploadURL(identity.UserID, request.FileType)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := sc.UserProfileService.SetPhotoKey(r.Context(), identity.UserID, key); err != nil {
		WriteErrorResponse(w, err)
		return
	}

	WriteJSONResponse(w, http.StatusOK, map[string]string{"uploadUrl": url, "key": key})
}

// HandleGenerateReadURL presigns a read of a stored avatar
func (sc *S3Controller) HandleGenerateReadURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "key is required", http.StatusBadRequest)
		return
	}

	url, err := sc.S3Service.GenerateAvatarReadURL(key)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	WriteJSONResponse(w, http.StatusOK, map[string]string{"readUrl": url})
}
