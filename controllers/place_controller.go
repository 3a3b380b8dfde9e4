package controllers

import (
	"net/http"

	"travelbuddy_server/services"

	"go.uber.org/zap"
)

// PlaceController exposes place discovery.
type PlaceController struct {
	Places *services.PlaceService
	Logger *zap.SugaredLogger
}

// NewPlaceController initializes the place controller
func NewPlaceController(places *services.PlaceService, logger *zap.SugaredLogger) *PlaceController {
	return &PlaceController{Places: places, Logger: logger}
}

// HandleNearbyPlaces finds places near the supplied coordinate,
// default radius 50 km.
func (c *PlaceController) HandleNearbyPlaces(w http.ResponseWriter, r *http.Request) {
	origin, maxDistance, ok := parseProximityQuery(w, r)
	if !ok {
		return
	}

	nearby, err := c.Places.Nearby(r.Context(), origin, maxDistance)
	if err != nil {
		WriteServiceError(c.Logger, w, err)
		return
	}
	WriteJSON(w, http.StatusOK, nearby)
}
