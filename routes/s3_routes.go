package routes

import (
	"github.com/gorilla/mux"

	"reelmate_server/controllers"
	"reelmate_server/services"
)

// RegisterS3Routes sets up routes for avatar media URLs under /api/media
func RegisterS3Routes(r *mux.Router, s3Service *services.S3Service, userProfileService *services.UserProfileService) {
	controller := controllers.NewS3Controller(s3Service, userProfileService)

	mediaRouter := r.PathPrefix("/media").Subrouter()

	mediaRouter.HandleFunc("/uploadUrl", controller.HandleGenerateUploadURL).Methods("POST")
	mediaRouter.HandleFunc("/readUrl", controller.HandleGenerateReadURL).Methods("GET")
}
