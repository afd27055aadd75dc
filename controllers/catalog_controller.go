package controllers

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"reelmate_server/services"
)

// CatalogController handles HTTP requests for the movie catalog
type CatalogController struct {
	CatalogService *services.CatalogService
}

// NewCatalogController creates a new CatalogController instance
func NewCatalogController(catalogService *services.CatalogService) *CatalogController {
	return &CatalogController{CatalogService: catalogService}
}

// HandleGetCatalog returns the movie list for a session mode
func (cc *CatalogController) HandleGetCatalog(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")

	movies, err := cc.CatalogService.GetMovies(r.Context(), mode)
	if err != nil {
		log.Printf("Error fetching %s catalog: %v", mode, err)
		WriteErrorResponse(w, err)
		return
	}

	WriteJSONResponse(w, http.StatusOK, movies)
}

// HandleGetTrailer returns the trailer URL for a movie
func (cc *CatalogController) HandleGetTrailer(w http.ResponseWriter, r *http.Request) {
	movieID := mux.Vars(r)["movieId"]

	trailerURL, err := cc.CatalogService.GetTrailer(r.Context(), movieID)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}

	WriteJSONResponse(w, http.StatusOK, map[string]string{"trailerUrl": trailerURL})
}

// HandleGetStreams returns the streaming services carrying a movie
func (cc *CatalogController) HandleGetStreams(w http.ResponseWriter, r *http.Request) {
	movieID := mux.Vars(r)["movieId"]

	providers, err := cc.CatalogService.GetStreams(r.Context(), movieID)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}

	WriteJSONResponse(w, http.StatusOK, map[string][]string{"providers": providers})
}
