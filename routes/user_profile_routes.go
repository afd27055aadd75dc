package routes

import (
	"github.com/gorilla/mux"

	"reelmate_server/controllers"
	"reelmate_server/services"
)

// RegisterUserProfileRoutes sets up routes for profiles under /api/profile
func RegisterUserProfileRoutes(r *mux.Router, userProfileService *services.UserProfileService) {
	controller := controllers.NewUserProfileController(userProfileService)

	profileRouter := r.PathPrefix("/profile").Subrouter()

	profileRouter.HandleFunc("", controller.HandleEnsureProfile).Methods("POST")
	profileRouter.HandleFunc("", controller.HandleGetProfile).Methods("GET")
}
