package routes

import (
	"github.com/gorilla/mux"

	"reelmate_server/controllers"
	"reelmate_server/services"
)

// RegisterSessionRoutes sets up routes for session operations under /api/sessions
func RegisterSessionRoutes(r *mux.Router, sessionService *services.SessionService, swipeService *services.SwipeService) {
	sessionController := controllers.NewSessionController(sessionService)
	swipeController := controllers.NewSwipeController(swipeService)

	sessionRouter := r.PathPrefix("/sessions").Subrouter()

	sessionRouter.HandleFunc("", sessionController.HandleCreateSession).Methods("POST")
	sessionRouter.HandleFunc("/{sessionId}", sessionController.HandleGetSession).Methods("GET")
	sessionRouter.HandleFunc("/{sessionId}/join", sessionController.HandleJoinSession).Methods("POST")
	sessionRouter.HandleFunc("/{sessionId}/swipes", swipeController.HandleRecordLike).Methods("POST")
}
