package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tableride/internal/domain"
	"tableride/internal/service"
)

// RideHandler handles HTTP requests for rides.
type RideHandler struct {
	rideService *service.RideService
	transitions *service.TransitionService
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(rideService *service.RideService, transitions *service.TransitionService) *RideHandler {
	return &RideHandler{
		rideService: rideService,
		transitions: transitions,
	}
}

// RequestRideRequest is the HTTP request body for requesting a ride.
type RequestRideRequest struct {
	RiderID         string  `json:"rider_id"`
	PickupLat       float64 `json:"pickup_lat"`
	PickupLng       float64 `json:"pickup_lng"`
	DropoffLat      float64 `json:"dropoff_lat"`
	DropoffLng      float64 `json:"dropoff_lng"`
	SurgeMultiplier float64 `json:"surge_multiplier,omitempty"`
}

// RideResponse is the HTTP representation of a ride.
type RideResponse struct {
	ID              string  `json:"id"`
	RiderID         string  `json:"rider_id"`
	DriverID        string  `json:"driver_id,omitempty"`
	PickupLat       float64 `json:"pickup_lat"`
	PickupLng       float64 `json:"pickup_lng"`
	DropoffLat      float64 `json:"dropoff_lat"`
	DropoffLng      float64 `json:"dropoff_lng"`
	SurgeMultiplier float64 `json:"surge_multiplier"`
	EstimatedFare   string  `json:"estimated_fare"`
	FinalFare       string  `json:"final_fare,omitempty"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"created_at"`
	FinalizedAt     string  `json:"finalized_at,omitempty"`
}

func rideResponse(ride *domain.Ride) RideResponse {
	resp := RideResponse{
		ID:              ride.ID,
		RiderID:         ride.RiderID,
		DriverID:        ride.DriverID,
		PickupLat:       ride.PickupLat,
		PickupLng:       ride.PickupLng,
		DropoffLat:      ride.DropoffLat,
		DropoffLng:      ride.DropoffLng,
		SurgeMultiplier: ride.SurgeMultiplier,
		EstimatedFare:   ride.EstimatedFare.StringFixed(2),
		Status:          string(ride.Status),
		CreatedAt:       ride.CreatedAt.Format(time.RFC3339),
	}
	if !ride.FinalFare.IsZero() {
		resp.FinalFare = ride.FinalFare.StringFixed(2)
	}
	if !ride.FinalizedAt.IsZero() {
		resp.FinalizedAt = ride.FinalizedAt.Format(time.RFC3339)
	}
	return resp
}

// RequestRide handles POST /v1/rides
func (h *RideHandler) RequestRide(c *gin.Context) {
	var req RequestRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.RequestRide(c.Request.Context(), service.RequestRideRequest{
		RiderID:         req.RiderID,
		PickupLat:       req.PickupLat,
		PickupLng:       req.PickupLng,
		DropoffLat:      req.DropoffLat,
		DropoffLng:      req.DropoffLng,
		SurgeMultiplier: req.SurgeMultiplier,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, rideResponse(ride))
}

// GetRide handles GET /v1/rides/:id
func (h *RideHandler) GetRide(c *gin.Context) {
	ride, err := h.rideService.GetRide(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, rideResponse(ride))
}

// UpdateStatus handles POST /v1/rides/:id/status
func (h *RideHandler) UpdateStatus(c *gin.Context) {
	result, ok := runTransition(c, h.transitions, domain.KindRide, c.Param("id"))
	if !ok {
		return
	}
	respondJSON(c, http.StatusOK, transitionResponse(result))
}
