package routes

import (
	"travelbuddy_server/controllers"
	"travelbuddy_server/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// RegisterPlaceRoutes sets up the place discovery routes under /api/places
func RegisterPlaceRoutes(r *mux.Router, places *services.PlaceService, logger *zap.SugaredLogger) {
	controller := controllers.NewPlaceController(places, logger)

	placeRouter := r.PathPrefix("/api/places").Subrouter()
	placeRouter.Use(controllers.RequireIdentity)

	placeRouter.HandleFunc("/nearby", controller.HandleNearbyPlaces).Methods("GET")
}
