package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"reelmate_server/services"
)

// WriteJSONResponse writes payload as a JSON response.
func WriteJSONResponse(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// WriteErrorResponse maps service errors onto HTTP statuses.
func WriteErrorResponse(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrAccessDenied):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, services.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	}
	WriteJSONResponse(w, status, map[string]string{"error": err.Error()})
}

// HealthCheckHandler provides a basic health check
func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSONResponse(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// WelcomeHandler provides a welcome message
func WelcomeHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSONResponse(w, http.StatusOK, map[string]string{"message": "Welcome to Reelmate"})
}
