package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"tableride/internal/domain"
	"tableride/internal/logger"
	"tableride/internal/service"
)

// ──────────────────────────────────────────────
// 7. RIDE REQUESTS AND FARE ESTIMATION
// ──────────────────────────────────────────────

func newRideService(rideRepo *MockRideRepository) *service.RideService {
	return service.NewRideService(rideRepo, fixedClock(creationNow), logger.Nop())
}

func TestRequestRide(t *testing.T) {
	t.Parallel()

	rideRepo := NewMockRideRepository()
	svc := newRideService(rideRepo)

	ride, err := svc.RequestRide(context.Background(), service.RequestRideRequest{
		RiderID:    "rider-1",
		PickupLat:  12.97,
		PickupLng:  77.59,
		DropoffLat: 12.93,
		DropoffLng: 77.62,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ride.Status != domain.StatusRequested {
		t.Errorf("expected REQUESTED, got %s", ride.Status)
	}
	if ride.SurgeMultiplier != 1.0 {
		t.Errorf("expected surge clamped to 1.0, got %f", ride.SurgeMultiplier)
	}
	if !ride.EstimatedFare.GreaterThan(decimal.NewFromInt(50)) {
		t.Errorf("expected estimate above the base fare, got %s", ride.EstimatedFare)
	}
	if !ride.FinalFare.IsZero() {
		t.Errorf("new ride must not have a final fare, got %s", ride.FinalFare)
	}
	if rideRepo.CreateCallCount != 1 {
		t.Errorf("expected 1 create call, got %d", rideRepo.CreateCallCount)
	}
}

func TestRequestRide_Validation(t *testing.T) {
	t.Parallel()

	svc := newRideService(NewMockRideRepository())
	ctx := context.Background()

	_, err := svc.RequestRide(ctx, service.RequestRideRequest{
		PickupLat: 12.97, PickupLng: 77.59, DropoffLat: 12.93, DropoffLng: 77.62,
	})
	if !errors.Is(err, service.ErrInvalidRiderID) {
		t.Errorf("expected ErrInvalidRiderID, got %v", err)
	}

	_, err = svc.RequestRide(ctx, service.RequestRideRequest{
		RiderID:   "rider-1",
		PickupLat: 91.0, PickupLng: 77.59, DropoffLat: 12.93, DropoffLng: 77.62,
	})
	if !errors.Is(err, service.ErrInvalidPickupLocation) {
		t.Errorf("expected ErrInvalidPickupLocation, got %v", err)
	}

	_, err = svc.RequestRide(ctx, service.RequestRideRequest{
		RiderID:   "rider-1",
		PickupLat: 12.97, PickupLng: 77.59, DropoffLat: 12.93, DropoffLng: -181.0,
	})
	if !errors.Is(err, service.ErrInvalidDropoffLocation) {
		t.Errorf("expected ErrInvalidDropoffLocation, got %v", err)
	}
}

func TestEstimateFare_ZeroDistance(t *testing.T) {
	t.Parallel()

	// Same point: the fare is the base fare, scaled by surge.
	fare := service.EstimateFare(12.97, 77.59, 12.97, 77.59, 1.0)
	if !fare.Equal(decimal.RequireFromString("50.00")) {
		t.Errorf("expected 50.00, got %s", fare)
	}

	surged := service.EstimateFare(12.97, 77.59, 12.97, 77.59, 1.5)
	if !surged.Equal(decimal.RequireFromString("75.00")) {
		t.Errorf("expected 75.00 at 1.5x surge, got %s", surged)
	}
}

func TestEstimateFare_SurgeScalesLinearly(t *testing.T) {
	t.Parallel()

	base := service.EstimateFare(12.97, 77.59, 12.93, 77.62, 1.0)
	doubled := service.EstimateFare(12.97, 77.59, 12.93, 77.62, 2.0)

	// Both are rounded independently, so allow a cent of slack.
	diff := doubled.Sub(base.Mul(decimal.NewFromInt(2))).Abs()
	if diff.GreaterThan(decimal.RequireFromString("0.01")) {
		t.Errorf("expected 2x surge to double the fare, base %s doubled %s", base, doubled)
	}
}

func TestEstimateFare_SubUnitySurgeClamped(t *testing.T) {
	t.Parallel()

	clamped := service.EstimateFare(12.97, 77.59, 12.93, 77.62, 0.5)
	normal := service.EstimateFare(12.97, 77.59, 12.93, 77.62, 1.0)
	if !clamped.Equal(normal) {
		t.Errorf("surge below 1.0 must clamp to 1.0: %s vs %s", clamped, normal)
	}
}

func TestEstimateFare_LongerTripsCostMore(t *testing.T) {
	t.Parallel()

	short := service.EstimateFare(12.97, 77.59, 12.98, 77.60, 1.0)
	long := service.EstimateFare(12.97, 77.59, 13.10, 77.80, 1.0)
	if !long.GreaterThan(short) {
		t.Errorf("expected longer trip to cost more: short %s long %s", short, long)
	}
}
