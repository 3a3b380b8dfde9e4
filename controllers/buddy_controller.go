package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"travelbuddy_server/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// BuddyController exposes the buddy-request state machine and buddy
// discovery over HTTP.
type BuddyController struct {
	Buddies *services.BuddyService
	Logger  *zap.SugaredLogger
}

// NewBuddyController initializes the buddy controller
func NewBuddyController(buddies *services.BuddyService, logger *zap.SugaredLogger) *BuddyController {
	return &BuddyController{Buddies: buddies, Logger: logger}
}

// HandleCreateRequest creates a Pending buddy request from the caller.
func (c *BuddyController) HandleCreateRequest(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())

	var request struct {
		ToUser  string `json:"toUser"`
		PlanID  string `json:"planId"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		WriteJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}

	created, err := c.Buddies.Create(r.Context(), id.UserID, request.ToUser, request.PlanID, request.Message)
	if err != nil {
		WriteServiceError(c.Logger, w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

// HandleListRequests lists the caller's requests; ?type=sent|received
// narrows the direction, anything else returns both.
func (c *BuddyController) HandleListRequests(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())

	requests, err := c.Buddies.ListFor(r.Context(), id.UserID, r.URL.Query().Get("type"))
	if err != nil {
		WriteServiceError(c.Logger, w, err)
		return
	}
	WriteJSON(w, http.StatusOK, requests)
}

// HandleResolveRequest accepts or rejects a pending request.
func (c *BuddyController) HandleResolveRequest(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	requestID := mux.Vars(r)["id"]

	var request struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		WriteJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}

	resolved, err := c.Buddies.Resolve(r.Context(), requestID, id.UserID, request.Status)
	if err != nil {
		WriteServiceError(c.Logger, w, err)
		return
	}
	WriteJSON(w, http.StatusOK, resolved)
}

// HandleNearbyBuddies finds users near the supplied coordinate,
// default radius 50 km.
func (c *BuddyController) HandleNearbyBuddies(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())

	origin, maxDistance, ok := parseProximityQuery(w, r)
	if !ok {
		return
	}

	nearby, err := c.Buddies.Nearby(r.Context(), id.UserID, origin, maxDistance)
	if err != nil {
		WriteServiceError(c.Logger, w, err)
		return
	}
	WriteJSON(w, http.StatusOK, nearby)
}

// parseProximityQuery reads latitude/longitude/maxDistance query
// parameters shared by the nearby endpoints.
func parseProximityQuery(w http.ResponseWriter, r *http.Request) (services.GeoPoint, float64, bool) {
	latStr := r.URL.Query().Get("latitude")
	lonStr := r.URL.Query().Get("longitude")
	if latStr == "" || lonStr == "" {
		WriteJSON(w, http.StatusBadRequest, map[string]string{"message": "Latitude and longitude are required"})
		return services.GeoPoint{}, 0, false
	}

	lat, latErr := strconv.ParseFloat(latStr, 64)
	lon, lonErr := strconv.ParseFloat(lonStr, 64)
	if latErr != nil || lonErr != nil {
		WriteJSON(w, http.StatusBadRequest, map[string]string{"message": "Latitude and longitude must be numbers"})
		return services.GeoPoint{}, 0, false
	}

	maxDistance := 50.0
	if v := r.URL.Query().Get("maxDistance"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			maxDistance = parsed
		}
	}

	return services.GeoPoint{Latitude: lat, Longitude: lon}, maxDistance, true
}
