package controllers

import (
	"encoding/json"
	"net/http"

	"reelmate_server/services"
	"reelmate_server/utils"
)

// FriendController handles HTTP requests for friend management
type FriendController struct {
	FriendService *services.FriendService
}

// NewFriendController creates a new FriendController instance
func NewFriendController(friendService *services.FriendService) *FriendController {
	return &FriendController{FriendService: friendService}
}

// HandleAddFriend adds a friend by email, making the friendship mutual
func (fc *FriendController) HandleAddFriend(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var request struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	friend, err := fc.FriendService.AddFriendByEmail(r.Context(), identity.UserID, request.Email)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}

	WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"message": "Friend added!",
		"friend":  friend,
	})
}

// HandleGetFriends returns the caller's friends with full profiles
func (fc *FriendController) HandleGetFriends(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	friends, err := fc.FriendService.GetFriendsDetails(r.Context(), identity.UserID)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}

	WriteJSONResponse(w, http.StatusOK, friends)
}
