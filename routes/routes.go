package routes

import (
	"travelbuddy_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterRoutes sets up the unauthenticated liveness routes
func RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", controllers.HealthCheckHandler).Methods("GET")
	r.HandleFunc("/", controllers.WelcomeHandler).Methods("GET")
}
