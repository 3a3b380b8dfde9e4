package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"travelbuddy_server/services"

	"go.uber.org/zap"
)

// WriteJSON encodes a payload with the given status code.
func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// WriteServiceError translates core sentinel errors into transport
// responses. Anything outside the taxonomy is an unexpected fault:
// logged and answered with a generic 500.
func WriteServiceError(logger *zap.SugaredLogger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		WriteJSON(w, http.StatusBadRequest, errorBody(err))
	case errors.Is(err, services.ErrNotMember):
		WriteJSON(w, http.StatusBadRequest, errorBody(err))
	case errors.Is(err, services.ErrForbidden):
		WriteJSON(w, http.StatusForbidden, errorBody(err))
	case errors.Is(err, services.ErrNotFound):
		WriteJSON(w, http.StatusNotFound, errorBody(err))
	case errors.Is(err, services.ErrFull):
		// Distinct code so the UI can say "plan full" instead of a
		// generic conflict message.
		WriteJSON(w, http.StatusConflict, map[string]string{"message": err.Error(), "code": "full"})
	case errors.Is(err, services.ErrInvalidState):
		WriteJSON(w, http.StatusConflict, errorBody(err))
	case errors.Is(err, services.ErrConflict):
		WriteJSON(w, http.StatusConflict, errorBody(err))
	default:
		logger.Errorw("request failed", "error", err)
		WriteJSON(w, http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}
}

func errorBody(err error) map[string]string {
	return map[string]string{"message": err.Error()}
}

// HealthCheckHandler provides a basic health check
func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// WelcomeHandler provides a welcome message
func WelcomeHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Welcome to TravelBuddy"})
}
