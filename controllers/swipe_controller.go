package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"reelmate_server/services"
	"reelmate_server/utils"
)

// SwipeController handles HTTP requests for right-swipes
type SwipeController struct {
	SwipeService *services.SwipeService
}

// NewSwipeController creates a new SwipeController instance
func NewSwipeController(swipeService *services.SwipeService) *SwipeController {
	return &SwipeController{SwipeService: swipeService}
}

// HandleRecordLike records a right-swipe on a movie. Failures map to
// an error status but carry no retry semantics; the client keeps
// swiping regardless.
func (sc *SwipeController) HandleRecordLike(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var request struct {
		MovieID string `json:"movieId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	sessionID := mux.Vars(r)["sessionId"]
	if err := sc.SwipeService.RecordLike(r.Context(), sessionID, request.MovieID, identity.UserID); err != nil {
		log.Printf("Error recording like for movie %s in session %s: %v", request.MovieID, sessionID, err)
		WriteErrorResponse(w, err)
		return
	}

	WriteJSONResponse(w, http.StatusOK, map[string]string{"message": "Like recorded"})
}
