package service

import (
	"context"

	"github.com/google/uuid"

	"tableride/internal/domain"
	"tableride/internal/logger"
	"tableride/internal/repository"
)

// RideService handles ride creation and lookups. State changes go through
// the TransitionService, never through here.
type RideService struct {
	rideRepo repository.RideRepository
	clock    domain.Clock
	log      logger.Logger
}

// NewRideService creates a new RideService.
func NewRideService(rideRepo repository.RideRepository, clock domain.Clock, log logger.Logger) *RideService {
	return &RideService{
		rideRepo: rideRepo,
		clock:    clock,
		log:      log,
	}
}

// RequestRideRequest contains the parameters for requesting a ride.
type RequestRideRequest struct {
	RiderID         string
	PickupLat       float64
	PickupLng       float64
	DropoffLat      float64
	DropoffLng      float64
	SurgeMultiplier float64 // 0 means no surge
}

// RequestRide creates a new ride in REQUESTED state with an upfront fare
// estimate.
func (s *RideService) RequestRide(ctx context.Context, req RequestRideRequest) (*domain.Ride, error) {
	if req.RiderID == "" {
		return nil, ErrInvalidRiderID
	}
	if !isValidLatitude(req.PickupLat) || !isValidLongitude(req.PickupLng) {
		return nil, ErrInvalidPickupLocation
	}
	if !isValidLatitude(req.DropoffLat) || !isValidLongitude(req.DropoffLng) {
		return nil, ErrInvalidDropoffLocation
	}

	surge := req.SurgeMultiplier
	if surge < 1.0 {
		surge = 1.0
	}

	now := s.clock()
	ride := &domain.Ride{
		ID:              uuid.New().String(),
		RiderID:         req.RiderID,
		PickupLat:       req.PickupLat,
		PickupLng:       req.PickupLng,
		DropoffLat:      req.DropoffLat,
		DropoffLng:      req.DropoffLng,
		SurgeMultiplier: surge,
		EstimatedFare:   EstimateFare(req.PickupLat, req.PickupLng, req.DropoffLat, req.DropoffLng, surge),
		Status:          domain.StatusRequested,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, err
	}

	s.log.Info("ride requested",
		logger.String("ride_id", ride.ID),
		logger.String("rider_id", ride.RiderID),
		logger.String("estimated_fare", ride.EstimatedFare.StringFixed(2)),
	)

	return ride, nil
}

// GetRide retrieves a ride by ID.
func (s *RideService) GetRide(ctx context.Context, rideID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidEntityID
	}
	return s.rideRepo.GetByID(ctx, rideID)
}

func isValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

func isValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}
