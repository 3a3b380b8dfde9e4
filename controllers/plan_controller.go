package controllers

import (
	"net/http"

	"travelbuddy_server/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// PlanController exposes the plan roster join/leave path.
type PlanController struct {
	Plans  *services.PlanService
	Logger *zap.SugaredLogger
}

// NewPlanController initializes the plan controller
func NewPlanController(plans *services.PlanService, logger *zap.SugaredLogger) *PlanController {
	return &PlanController{Plans: plans, Logger: logger}
}

// HandleJoin adds the caller to the plan's buddy roster.
func (c *PlanController) HandleJoin(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	planID := mux.Vars(r)["id"]

	plan, err := c.Plans.Join(r.Context(), planID, id.UserID)
	if err != nil {
		WriteServiceError(c.Logger, w, err)
		return
	}
	WriteJSON(w, http.StatusOK, plan)
}

// HandleLeave removes the caller from the plan's buddy roster.
func (c *PlanController) HandleLeave(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	planID := mux.Vars(r)["id"]

	plan, err := c.Plans.Leave(r.Context(), planID, id.UserID)
	if err != nil {
		WriteServiceError(c.Logger, w, err)
		return
	}
	WriteJSON(w, http.StatusOK, plan)
}
