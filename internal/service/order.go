package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"tableride/internal/domain"
	"tableride/internal/idgen"
	"tableride/internal/logger"
	"tableride/internal/pricing"
	"tableride/internal/repository"
)

// OrderService handles order creation and read-only pricing quotes.
// State changes go through the TransitionService, never through here.
type OrderService struct {
	orderRepo  repository.OrderRepository
	couponRepo repository.CouponRepository
	clock      domain.Clock
	log        logger.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repository.OrderRepository, couponRepo repository.CouponRepository, clock domain.Clock, log logger.Logger) *OrderService {
	return &OrderService{
		orderRepo:  orderRepo,
		couponRepo: couponRepo,
		clock:      clock,
		log:        log,
	}
}

// CreateOrderRequest contains the parameters for creating an order.
type CreateOrderRequest struct {
	CustomerID string
	Items      []domain.LineItem
	CouponCode string // optional
}

// CreateOrder creates a new order in PENDING state with totals computed
// against the attached coupon, if any.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*domain.Order, error) {
	if req.CustomerID == "" {
		return nil, ErrInvalidCustomerID
	}
	if len(req.Items) == 0 {
		return nil, ErrNoLineItems
	}

	now := s.clock()

	var coupon *domain.Coupon
	if req.CouponCode != "" {
		found, err := s.couponRepo.GetByCode(ctx, req.CouponCode)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCoupon
		}
		if err != nil {
			return nil, err
		}
		if !found.IsUsable(now) {
			return nil, ErrInvalidCoupon
		}
		coupon = found
	}

	totals, err := pricing.ComputeTotals(req.Items, coupon, now)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:         uuid.New().String(),
		Number:     idgen.OrderNumber(),
		CustomerID: req.CustomerID,
		Items:      req.Items,
		Subtotal:   totals.Subtotal,
		Discount:   totals.Discount,
		Total:      totals.Total,
		Status:     domain.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if coupon != nil {
		order.CouponID = coupon.ID
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.log.Info("order created",
		logger.String("order_id", order.ID),
		logger.String("number", order.Number),
		logger.String("total", order.Total.StringFixed(2)),
	)

	return order, nil
}

// GetOrder retrieves an order by ID.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}
	return s.orderRepo.GetByID(ctx, orderID)
}

// Quote recomputes an order's totals for display without mutating anything.
// The stored amounts are only rewritten by the TransitionService.
func (s *OrderService) Quote(ctx context.Context, orderID string) (pricing.Totals, error) {
	if orderID == "" {
		return pricing.Totals{}, ErrInvalidOrderID
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return pricing.Totals{}, err
	}

	var coupon *domain.Coupon
	if order.CouponID != "" {
		coupon, err = s.couponRepo.GetByID(ctx, order.CouponID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return pricing.Totals{}, err
		}
	}

	return pricing.ComputeTotals(order.Items, coupon, s.clock())
}
