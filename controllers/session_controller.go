package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"reelmate_server/services"
	"reelmate_server/utils"
)

// SessionController handles HTTP requests for sessions
type SessionController struct {
	SessionService *services.SessionService
}

// NewSessionController creates a new SessionController instance
func NewSessionController(sessionService *services.SessionService) *SessionController {
	return &SessionController{SessionService: sessionService}
}

// HandleCreateSession starts a new session with a friend
func (sc *SessionController) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var request struct {
		Mode      string `json:"mode"`
		PartnerID string `json:"partnerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	sessionID, err := sc.SessionService.CreateSession(r.Context(), request.Mode, identity.UserID, request.PartnerID)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}

	WriteJSONResponse(w, http.StatusCreated, map[string]string{"sessionId": sessionID})
}

// HandleJoinSession adds the caller to an existing session
func (sc *SessionController) HandleJoinSession(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	sessionID := mux.Vars(r)["sessionId"]
	if err := sc.SessionService.JoinSession(r.Context(), sessionID, identity.UserID); err != nil {
		WriteErrorResponse(w, err)
		return
	}

	WriteJSONResponse(w, http.StatusOK, map[string]string{"message": "Joined session"})
}

// HandleGetSession returns the current session state to a member
func (sc *SessionController) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	sessionID := mux.Vars(r)["sessionId"]
	session, err := sc.SessionService.GetSession(r.Context(), sessionID, identity.UserID)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}

	WriteJSONResponse(w, http.StatusOK, session)
}
