package routes

import (
	"travelbuddy_server/controllers"
	"travelbuddy_server/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// RegisterPlanRoutes sets up the plan roster routes under /api/plans
func RegisterPlanRoutes(r *mux.Router, plans *services.PlanService, logger *zap.SugaredLogger) {
	controller := controllers.NewPlanController(plans, logger)

	planRouter := r.PathPrefix("/api/plans").Subrouter()
	planRouter.Use(controllers.RequireIdentity)

	planRouter.HandleFunc("/{id}/join", controller.HandleJoin).Methods("POST")
	planRouter.HandleFunc("/{id}/join", controller.HandleLeave).Methods("DELETE")
}
