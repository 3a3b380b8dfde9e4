package routes

import (
	"travelbuddy_server/controllers"
	"travelbuddy_server/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// RegisterPackageRoutes sets up the package roster routes under /api/packages
func RegisterPackageRoutes(r *mux.Router, packages *services.PackageService, logger *zap.SugaredLogger) {
	controller := controllers.NewPackageController(packages, logger)

	packageRouter := r.PathPrefix("/api/packages").Subrouter()
	packageRouter.Use(controllers.RequireIdentity)

	packageRouter.HandleFunc("/{id}/join", controller.HandleJoin).Methods("POST")
	packageRouter.HandleFunc("/{id}/join", controller.HandleLeave).Methods("DELETE")
}
