package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ride represents a ride request in the system.
// DriverID stays empty until a driver claims the ride; the claim happens
// exactly once, under the transition executor's row lock.
type Ride struct {
	ID              string
	RiderID         string
	DriverID        string
	PickupLat       float64
	PickupLng       float64
	DropoffLat      float64
	DropoffLng      float64
	SurgeMultiplier float64 // 1.0 = no surge
	EstimatedFare   decimal.Decimal
	FinalFare       decimal.Decimal // zero until completion
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
	FinalizedAt     time.Time // zero until the ride reaches a terminal state
}
