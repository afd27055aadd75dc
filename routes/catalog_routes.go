package routes

import (
	"github.com/gorilla/mux"

	"reelmate_server/controllers"
	"reelmate_server/services"
)

// RegisterCatalogRoutes sets up routes for the movie catalog under /api/catalog
func RegisterCatalogRoutes(r *mux.Router, catalogService *services.CatalogService) {
	controller := controllers.NewCatalogController(catalogService)

	catalogRouter := r.PathPrefix("/catalog").Subrouter()

	catalogRouter.HandleFunc("", controller.HandleGetCatalog).Methods("GET")
	catalogRouter.HandleFunc("/{movieId}/trailer", controller.HandleGetTrailer).Methods("GET")
	catalogRouter.HandleFunc("/{movieId}/streams", controller.HandleGetStreams).Methods("GET")
}
