package routes

import (
	"travelbuddy_server/controllers"
	"travelbuddy_server/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// RegisterBuddyRoutes sets up routes for buddy requests and discovery under /api/buddies
func RegisterBuddyRoutes(r *mux.Router, buddies *services.BuddyService, logger *zap.SugaredLogger) {
	controller := controllers.NewBuddyController(buddies, logger)

	buddyRouter := r.PathPrefix("/api/buddies").Subrouter()
	buddyRouter.Use(controllers.RequireIdentity)

	buddyRouter.HandleFunc("/request", controller.HandleCreateRequest).Methods("POST")
	buddyRouter.HandleFunc("/requests", controller.HandleListRequests).Methods("GET")
	buddyRouter.HandleFunc("/requests/{id}", controller.HandleResolveRequest).Methods("PUT")
	buddyRouter.HandleFunc("/nearby", controller.HandleNearbyBuddies).Methods("GET")
}
