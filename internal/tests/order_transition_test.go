package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tableride/internal/domain"
	"tableride/internal/logger"
	"tableride/internal/repository"
	"tableride/internal/service"
)

// ──────────────────────────────────────────────
// 4. ORDER TRANSITIONS
// ──────────────────────────────────────────────

var transitionNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

var staff = domain.Actor{ID: "staff-1", Role: domain.RoleStaff}

func pendingOrder(id, customerID string) *domain.Order {
	return &domain.Order{
		ID:         id,
		Number:     "ORD-TEST" + id,
		CustomerID: customerID,
		Items: []domain.LineItem{
			{Name: "Burger", UnitPrice: decimal.RequireFromString("10.00"), Quantity: 2},
			{Name: "Fries", UnitPrice: decimal.RequireFromString("5.99"), Quantity: 1},
		},
		Subtotal:  decimal.RequireFromString("25.99"),
		Total:     decimal.RequireFromString("25.99"),
		Status:    domain.StatusPending,
		CreatedAt: transitionNow.Add(-time.Hour),
	}
}

func newTransitionService(store *MockStore, cache service.SummaryInvalidator) *service.TransitionService {
	return service.NewTransitionService(store, fixedClock(transitionNow), cache, logger.Nop())
}

func TestOrderTransition_Applied(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.OrderRepo.AddOrder(pendingOrder("order-1", "cust-1"))
	svc := newTransitionService(store, nil)

	result, err := svc.Transition(context.Background(), service.TransitionRequest{
		Kind:      domain.KindOrder,
		EntityID:  "order-1",
		Requested: domain.StatusProcessing,
		Actor:     staff,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Status != service.TransitionApplied {
		t.Fatalf("expected APPLIED, got %s (%s)", result.Status, result.Reason)
	}
	if result.Previous != domain.StatusPending || result.Current != domain.StatusProcessing {
		t.Errorf("expected PENDING->PROCESSING, got %s->%s", result.Previous, result.Current)
	}
	if result.Totals == nil || !result.Totals.Total.Equal(decimal.RequireFromString("25.99")) {
		t.Errorf("expected recomputed totals on applied order transition")
	}

	stored := store.OrderRepo.GetOrder("order-1")
	if stored.Status != domain.StatusProcessing {
		t.Errorf("expected stored status PROCESSING, got %s", stored.Status)
	}
	if !stored.FinalizedAt.IsZero() {
		t.Error("non-terminal transition must not set FinalizedAt")
	}
	if store.CommitCount != 1 {
		t.Errorf("expected 1 commit, got %d", store.CommitCount)
	}
}

func TestOrderTransition_FinalizedOrderRejectedWithoutWrite(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	order := pendingOrder("order-1", "cust-1")
	order.Status = domain.StatusCompleted
	order.FinalizedAt = transitionNow.Add(-time.Minute)
	store.OrderRepo.AddOrder(order)
	svc := newTransitionService(store, nil)

	result, err := svc.Transition(context.Background(), service.TransitionRequest{
		Kind:      domain.KindOrder,
		EntityID:  "order-1",
		Requested: domain.StatusProcessing,
		Actor:     staff,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Status != service.TransitionRejected {
		t.Fatalf("expected REJECTED, got %s", result.Status)
	}
	if result.Reason != domain.ReasonEntityFinalized {
		t.Errorf("expected reason ENTITY_FINALIZED, got %s", result.Reason)
	}
	if result.Current != domain.StatusCompleted {
		t.Errorf("expected current COMPLETED, got %s", result.Current)
	}
	if store.OrderRepo.UpdateCallCount != 0 {
		t.Errorf("rejected transition must not write, got %d updates", store.OrderRepo.UpdateCallCount)
	}
	if store.RollbackCount != 1 {
		t.Errorf("expected the transaction to roll back, got %d rollbacks", store.RollbackCount)
	}
}

func TestOrderTransition_SameStateUnchanged(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.OrderRepo.AddOrder(pendingOrder("order-1", "cust-1"))
	svc := newTransitionService(store, nil)

	result, err := svc.Transition(context.Background(), service.TransitionRequest{
		Kind:      domain.KindOrder,
		EntityID:  "order-1",
		Requested: domain.StatusPending,
		Actor:     staff,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Status != service.TransitionUnchanged {
		t.Fatalf("expected UNCHANGED, got %s", result.Status)
	}
	if store.OrderRepo.UpdateCallCount != 0 {
		t.Errorf("no-op transition must not write, got %d updates", store.OrderRepo.UpdateCallCount)
	}
}

// Repeating a transition is idempotent: the first call applies, the second
// reports UNCHANGED, and only one write ever commits.
func TestOrderTransition_RepeatIsIdempotent(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.OrderRepo.AddOrder(pendingOrder("order-1", "cust-1"))
	svc := newTransitionService(store, nil)

	req := service.TransitionRequest{
		Kind:      domain.KindOrder,
		EntityID:  "order-1",
		Requested: domain.StatusProcessing,
		Actor:     staff,
	}

	first, err := svc.Transition(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Status != service.TransitionApplied {
		t.Fatalf("expected first call APPLIED, got %s", first.Status)
	}

	second, err := svc.Transition(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Status != service.TransitionUnchanged {
		t.Fatalf("expected second call UNCHANGED, got %s", second.Status)
	}
	if store.OrderRepo.UpdateCallCount != 1 {
		t.Errorf("expected exactly 1 committed write, got %d", store.OrderRepo.UpdateCallCount)
	}
}

func TestOrderTransition_CompletionRecomputesTotalsWithCoupon(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.CouponRepo.AddCoupon(&domain.Coupon{
		ID:                 "coupon-1",
		Code:               "TEN",
		DiscountPercentage: decimal.NewFromInt(10),
		IsActive:           true,
		ValidFrom:          transitionNow.AddDate(0, 0, -1),
		ValidUntil:         transitionNow.AddDate(0, 0, 1),
	})

	order := pendingOrder("order-1", "cust-1")
	order.Status = domain.StatusProcessing
	order.CouponID = "coupon-1"
	order.Items = []domain.LineItem{
		{Name: "Pizza", UnitPrice: decimal.RequireFromString("25.00"), Quantity: 1},
	}
	store.OrderRepo.AddOrder(order)
	svc := newTransitionService(store, nil)

	result, err := svc.Transition(context.Background(), service.TransitionRequest{
		Kind:      domain.KindOrder,
		EntityID:  "order-1",
		Requested: domain.StatusCompleted,
		Actor:     staff,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != service.TransitionApplied {
		t.Fatalf("expected APPLIED, got %s (%s)", result.Status, result.Reason)
	}

	stored := store.OrderRepo.GetOrder("order-1")
	if !stored.Discount.Equal(decimal.RequireFromString("2.50")) {
		t.Errorf("expected discount 2.50, got %s", stored.Discount)
	}
	if !stored.Total.Equal(decimal.RequireFromString("22.50")) {
		t.Errorf("expected total 22.50, got %s", stored.Total)
	}
	if !stored.FinalizedAt.Equal(transitionNow) {
		t.Errorf("expected FinalizedAt %s, got %s", transitionNow, stored.FinalizedAt)
	}
}

func TestOrderTransition_DanglingCouponTreatedAsNone(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	order := pendingOrder("order-1", "cust-1")
	order.CouponID = "deleted-coupon"
	store.OrderRepo.AddOrder(order)
	svc := newTransitionService(store, nil)

	result, err := svc.Transition(context.Background(), service.TransitionRequest{
		Kind:      domain.KindOrder,
		EntityID:  "order-1",
		Requested: domain.StatusProcessing,
		Actor:     staff,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != service.TransitionApplied {
		t.Fatalf("expected APPLIED, got %s", result.Status)
	}
	if !result.Totals.Discount.IsZero() {
		t.Errorf("dangling coupon must contribute no discount, got %s", result.Totals.Discount)
	}
}

func TestOrderTransition_ActorAuthorization(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		actor     domain.Actor
		requested domain.Status
		want      service.TransitionStatus
	}{
		{"customer cancels own order", domain.Actor{ID: "cust-1", Role: domain.RoleCustomer}, domain.StatusCancelled, service.TransitionApplied},
		{"customer cannot advance order", domain.Actor{ID: "cust-1", Role: domain.RoleCustomer}, domain.StatusProcessing, service.TransitionRejected},
		{"other customer cannot cancel", domain.Actor{ID: "cust-2", Role: domain.RoleCustomer}, domain.StatusCancelled, service.TransitionRejected},
		{"driver has no say on orders", domain.Actor{ID: "driver-1", Role: domain.RoleDriver}, domain.StatusProcessing, service.TransitionRejected},
		{"system may advance", domain.Actor{ID: "scheduler", Role: domain.RoleSystem}, domain.StatusProcessing, service.TransitionApplied},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			store := NewMockStore()
			store.OrderRepo.AddOrder(pendingOrder("order-1", "cust-1"))
			svc := newTransitionService(store, nil)

			result, err := svc.Transition(context.Background(), service.TransitionRequest{
				Kind:      domain.KindOrder,
				EntityID:  "order-1",
				Requested: tc.requested,
				Actor:     tc.actor,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Status != tc.want {
				t.Errorf("expected %s, got %s (%s)", tc.want, result.Status, result.Reason)
			}
			if result.Status == service.TransitionRejected && result.Reason != domain.ReasonNotAuthorized {
				t.Errorf("expected reason NOT_AUTHORIZED, got %s", result.Reason)
			}
		})
	}
}

func TestOrderTransition_ValidationErrors(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	svc := newTransitionService(store, nil)
	ctx := context.Background()

	_, err := svc.Transition(ctx, service.TransitionRequest{
		Kind: "DRONE", EntityID: "x", Requested: domain.StatusCompleted, Actor: staff,
	})
	if !errors.Is(err, service.ErrInvalidEntityKind) {
		t.Errorf("expected ErrInvalidEntityKind, got %v", err)
	}

	_, err = svc.Transition(ctx, service.TransitionRequest{
		Kind: domain.KindOrder, Requested: domain.StatusCompleted, Actor: staff,
	})
	if !errors.Is(err, service.ErrInvalidEntityID) {
		t.Errorf("expected ErrInvalidEntityID, got %v", err)
	}

	_, err = svc.Transition(ctx, service.TransitionRequest{
		Kind: domain.KindOrder, EntityID: "x", Requested: "TELEPORTING", Actor: staff,
	})
	if !errors.Is(err, service.ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus for unknown status, got %v", err)
	}

	_, err = svc.Transition(ctx, service.TransitionRequest{
		Kind: domain.KindOrder, EntityID: "x", Requested: domain.StatusCompleted,
	})
	if !errors.Is(err, service.ErrInvalidActor) {
		t.Errorf("expected ErrInvalidActor, got %v", err)
	}
}

func TestOrderTransition_MissingOrder(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	svc := newTransitionService(store, nil)

	_, err := svc.Transition(context.Background(), service.TransitionRequest{
		Kind:      domain.KindOrder,
		EntityID:  "ghost",
		Requested: domain.StatusProcessing,
		Actor:     staff,
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOrderTransition_InvalidatesSummaryCacheOnApply(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	store.OrderRepo.AddOrder(pendingOrder("order-1", "cust-1"))
	cache := NewMockSummaryCache()
	svc := newTransitionService(store, cache)

	// Rejected transition leaves the cache alone.
	_, err := svc.Transition(context.Background(), service.TransitionRequest{
		Kind:      domain.KindOrder,
		EntityID:  "order-1",
		Requested: domain.StatusCompleted,
		Actor:     staff,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.InvalidateCallCount != 0 {
		t.Errorf("rejected transition must not invalidate, got %d", cache.InvalidateCallCount)
	}

	// Applied transition drops the cached list.
	_, err = svc.Transition(context.Background(), service.TransitionRequest{
		Kind:      domain.KindOrder,
		EntityID:  "order-1",
		Requested: domain.StatusProcessing,
		Actor:     staff,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.InvalidateCallCount != 1 {
		t.Errorf("expected 1 invalidation, got %d", cache.InvalidateCallCount)
	}
}
