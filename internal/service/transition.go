package service

import (
	"context"
	"errors"
	"time"

	"tableride/internal/domain"
	"tableride/internal/logger"
	"tableride/internal/pricing"
	"tableride/internal/repository"
)

// errAbort rolls the transaction back after a rejection or no-op so the
// storage layer never sees a write, without surfacing an error to the caller.
var errAbort = errors.New("transition aborted without write")

// TransitionService is the only component allowed to mutate an entity's
// state. Every call runs inside one storage transaction under an exclusive
// row lock, so concurrent transitions on the same entity serialize and the
// committed state sequence is exactly the sequence of applied calls.
type TransitionService struct {
	store repository.Store
	clock domain.Clock
	cache SummaryInvalidator
	log   logger.Logger
}

// SummaryInvalidator drops cached dashboard summaries after a committed
// transition. Optional; nil disables invalidation.
type SummaryInvalidator interface {
	InvalidateActive(ctx context.Context, kind string) error
}

// NewTransitionService creates a new TransitionService. cache may be nil.
func NewTransitionService(store repository.Store, clock domain.Clock, cache SummaryInvalidator, log logger.Logger) *TransitionService {
	return &TransitionService{
		store: store,
		clock: clock,
		cache: cache,
		log:   log,
	}
}

// TransitionRequest contains the parameters for a state transition.
type TransitionRequest struct {
	Kind        domain.Kind
	EntityID    string
	Requested   domain.Status
	Actor       domain.Actor
	LockTimeout time.Duration // 0 uses the store default
}

// Transition moves an entity to the requested state.
//
// The entity row is locked, its state reloaded under the lock (a caller's
// snapshot may be stale), the lifecycle policy consulted, guards evaluated,
// and - for orders - totals recomputed against the line items and coupon as
// they are at commit time. Exactly one row write happens on success; zero
// writes on rejection or no-op.
//
// Rejections are returned inside the result. Errors are reserved for storage
// failures and repository.ErrLockTimeout / repository.ErrNotFound.
func (s *TransitionService) Transition(ctx context.Context, req TransitionRequest) (*TransitionResult, error) {
	policy := domain.PolicyFor(req.Kind)
	if policy == nil {
		return nil, ErrInvalidEntityKind
	}
	if req.EntityID == "" {
		return nil, ErrInvalidEntityID
	}
	if !policy.Known(req.Requested) {
		return nil, ErrInvalidStatus
	}
	if req.Actor.ID == "" || req.Actor.Role == "" {
		return nil, ErrInvalidActor
	}

	var result *TransitionResult

	err := s.store.Transact(ctx, repository.TxOptions{LockTimeout: req.LockTimeout}, func(tx repository.Tx) error {
		var err error
		switch req.Kind {
		case domain.KindOrder:
			result, err = s.transitionOrder(ctx, tx, policy, req)
		case domain.KindRide:
			result, err = s.transitionRide(ctx, tx, policy, req)
		}
		if err != nil {
			return err
		}
		if result.Status != TransitionApplied {
			// Nothing written; roll back instead of committing a
			// read-only transaction.
			return errAbort
		}
		return nil
	})
	if err != nil && !errors.Is(err, errAbort) {
		return nil, err
	}

	if result.Status == TransitionApplied {
		s.log.Info("transition applied",
			logger.String("kind", string(req.Kind)),
			logger.String("entity_id", req.EntityID),
			logger.String("from", string(result.Previous)),
			logger.String("to", string(result.Current)),
			logger.String("actor", req.Actor.ID),
		)
		if s.cache != nil {
			_ = s.cache.InvalidateActive(ctx, string(req.Kind))
		}
	}

	return result, nil
}

func (s *TransitionService) transitionOrder(ctx context.Context, tx repository.Tx, policy *domain.Policy, req TransitionRequest) (*TransitionResult, error) {
	order, err := tx.Orders().GetByIDForUpdate(ctx, req.EntityID)
	if err != nil {
		return nil, err
	}

	decision := policy.Check(order.Status, req.Requested)
	switch decision.Outcome {
	case domain.OutcomeNoOp:
		return unchanged(order.Status), nil
	case domain.OutcomeIllegal:
		return rejected(order.Status, decision.Reason), nil
	}

	if !orderActorAllowed(req.Actor, order, req.Requested) {
		return rejected(order.Status, domain.ReasonNotAuthorized), nil
	}

	// Recompute totals against the line items and coupon as of now, so the
	// recorded amounts reflect commit time, not request time.
	coupon, err := s.loadCoupon(ctx, tx, order.CouponID)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	totals, err := pricing.ComputeTotals(order.Items, coupon, now)
	if err != nil {
		return nil, err
	}

	previous := order.Status
	order.Status = req.Requested
	order.Subtotal = totals.Subtotal
	order.Discount = totals.Discount
	order.Total = totals.Total
	order.UpdatedAt = now
	if policy.IsTerminal(order.Status) {
		order.FinalizedAt = now
	}

	if err := tx.Orders().Update(ctx, order); err != nil {
		return nil, err
	}

	return applied(previous, order.Status, &totals), nil
}

func (s *TransitionService) transitionRide(ctx context.Context, tx repository.Tx, policy *domain.Policy, req TransitionRequest) (*TransitionResult, error) {
	ride, err := tx.Rides().GetByIDForUpdate(ctx, req.EntityID)
	if err != nil {
		return nil, err
	}

	decision := policy.Check(ride.Status, req.Requested)
	switch decision.Outcome {
	case domain.OutcomeNoOp:
		return unchanged(ride.Status), nil
	case domain.OutcomeIllegal:
		return rejected(ride.Status, decision.Reason), nil
	}

	if !rideActorAllowed(req.Actor, ride, req.Requested) {
		return rejected(ride.Status, domain.ReasonNotAuthorized), nil
	}

	// Acceptance claims the ride for the acting driver. A concurrent claim
	// cannot have committed before our locked read, so checking the field
	// here is race-free.
	if ride.Status == domain.StatusRequested && req.Requested == domain.StatusOngoing {
		if ride.DriverID != "" {
			return rejected(ride.Status, domain.ReasonAlreadyClaimed), nil
		}
		ride.DriverID = req.Actor.ID
	}

	now := s.clock()
	previous := ride.Status
	ride.Status = req.Requested
	ride.UpdatedAt = now
	if policy.IsTerminal(ride.Status) {
		ride.FinalizedAt = now
		if ride.Status == domain.StatusCompleted {
			// The fare settles at the estimate; there is no meter.
			ride.FinalFare = ride.EstimatedFare
		}
	}

	if err := tx.Rides().Update(ctx, ride); err != nil {
		return nil, err
	}

	return applied(previous, ride.Status, nil), nil
}

// loadCoupon fetches the referenced coupon snapshot. A dangling reference
// (coupon deleted since attachment) is treated as no coupon.
func (s *TransitionService) loadCoupon(ctx context.Context, tx repository.Tx, couponID string) (*domain.Coupon, error) {
	if couponID == "" {
		return nil, nil
	}
	coupon, err := tx.Coupons().GetByID(ctx, couponID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return coupon, nil
}

// orderActorAllowed is the pure authorization check for order transitions.
// Customers may cancel their own order; staff and system may do anything.
func orderActorAllowed(actor domain.Actor, order *domain.Order, requested domain.Status) bool {
	switch actor.Role {
	case domain.RoleStaff, domain.RoleSystem:
		return true
	case domain.RoleCustomer:
		return requested == domain.StatusCancelled && actor.ID == order.CustomerID
	default:
		return false
	}
}

// rideActorAllowed is the pure authorization check for ride transitions.
// Riders may cancel their own ride; drivers may accept an unclaimed ride and
// complete or cancel the one they hold; staff and system may do anything.
func rideActorAllowed(actor domain.Actor, ride *domain.Ride, requested domain.Status) bool {
	switch actor.Role {
	case domain.RoleStaff, domain.RoleSystem:
		return true
	case domain.RoleCustomer:
		return requested == domain.StatusCancelled && actor.ID == ride.RiderID
	case domain.RoleDriver:
		if requested == domain.StatusOngoing {
			return true // claim guard runs after this check
		}
		return actor.ID == ride.DriverID
	default:
		return false
	}
}
