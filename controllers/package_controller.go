package controllers

import (
	"net/http"

	"travelbuddy_server/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// PackageController exposes the package roster join/leave path.
type PackageController struct {
	Packages *services.PackageService
	Logger   *zap.SugaredLogger
}

// NewPackageController initializes the package controller
func NewPackageController(packages *services.PackageService, logger *zap.SugaredLogger) *PackageController {
	return &PackageController{Packages: packages, Logger: logger}
}

// HandleJoin adds the caller to the package's participant roster.
func (c *PackageController) HandleJoin(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	packageID := mux.Vars(r)["id"]

	pkg, err := c.Packages.Join(r.Context(), packageID, id.UserID)
	if err != nil {
		WriteServiceError(c.Logger, w, err)
		return
	}
	WriteJSON(w, http.StatusOK, pkg)
}

// HandleLeave removes the caller from the package's participant
// roster.
func (c *PackageController) HandleLeave(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	packageID := mux.Vars(r)["id"]

	pkg, err := c.Packages.Leave(r.Context(), packageID, id.UserID)
	if err != nil {
		WriteServiceError(c.Logger, w, err)
		return
	}
	WriteJSON(w, http.StatusOK, pkg)
}
