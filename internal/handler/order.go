package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"tableride/internal/domain"
	"tableride/internal/service"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	orderService  *service.OrderService
	couponService *service.CouponService
	transitions   *service.TransitionService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *service.OrderService, couponService *service.CouponService, transitions *service.TransitionService) *OrderHandler {
	return &OrderHandler{
		orderService:  orderService,
		couponService: couponService,
		transitions:   transitions,
	}
}

// LineItemRequest is one order line in the HTTP request body.
type LineItemRequest struct {
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderRequest is the HTTP request body for creating an order.
type CreateOrderRequest struct {
	CustomerID string            `json:"customer_id"`
	Items      []LineItemRequest `json:"items"`
	CouponCode string            `json:"coupon_code,omitempty"`
}

// LineItemResponse is one order line in the HTTP response.
type LineItemResponse struct {
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// OrderResponse is the HTTP representation of an order.
type OrderResponse struct {
	ID          string             `json:"id"`
	Number      string             `json:"number"`
	CustomerID  string             `json:"customer_id"`
	Items       []LineItemResponse `json:"items,omitempty"`
	CouponID    string             `json:"coupon_id,omitempty"`
	Subtotal    string             `json:"subtotal"`
	Discount    string             `json:"discount"`
	Total       string             `json:"total"`
	Status      string             `json:"status"`
	CreatedAt   string             `json:"created_at"`
	FinalizedAt string             `json:"finalized_at,omitempty"`
}

// QuoteResponse is the HTTP response for a pricing quote.
type QuoteResponse struct {
	Subtotal string `json:"subtotal"`
	Discount string `json:"discount"`
	Total    string `json:"total"`
}

func orderResponse(order *domain.Order) OrderResponse {
	items := make([]LineItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, LineItemResponse{
			Name:      item.Name,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Quantity:  item.Quantity,
		})
	}

	resp := OrderResponse{
		ID:         order.ID,
		Number:     order.Number,
		CustomerID: order.CustomerID,
		Items:      items,
		CouponID:   order.CouponID,
		Subtotal:   order.Subtotal.StringFixed(2),
		Discount:   order.Discount.StringFixed(2),
		Total:      order.Total.StringFixed(2),
		Status:     string(order.Status),
		CreatedAt:  order.CreatedAt.Format(time.RFC3339),
	}
	if !order.FinalizedAt.IsZero() {
		resp.FinalizedAt = order.FinalizedAt.Format(time.RFC3339)
	}
	return resp
}

// CreateOrder handles POST /v1/orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	items := make([]domain.LineItem, 0, len(req.Items))
	for _, item := range req.Items {
		unitPrice, err := decimal.NewFromString(item.UnitPrice)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid unit_price"})
			return
		}
		items = append(items, domain.LineItem{
			Name:      item.Name,
			UnitPrice: unitPrice,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), service.CreateOrderRequest{
		CustomerID: req.CustomerID,
		Items:      items,
		CouponCode: req.CouponCode,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, orderResponse(order))
}

// GetOrder handles GET /v1/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, orderResponse(order))
}

// Quote handles GET /v1/orders/:id/quote
func (h *OrderHandler) Quote(c *gin.Context) {
	totals, err := h.orderService.Quote(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, QuoteResponse{
		Subtotal: totals.Subtotal.StringFixed(2),
		Discount: totals.Discount.StringFixed(2),
		Total:    totals.Total.StringFixed(2),
	})
}

// UpdateStatus handles POST /v1/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID := c.Param("id")

	result, ok := runTransition(c, h.transitions, domain.KindOrder, orderID)
	if !ok {
		return
	}

	// A completed order redeems its coupon. This runs after the transition
	// commit so a redemption never holds the entity lock.
	if result.Status == service.TransitionApplied && result.Current == domain.StatusCompleted {
		if order, err := h.orderService.GetOrder(c.Request.Context(), orderID); err == nil && order.CouponID != "" {
			// Usage accounting is best effort; the completion stands.
			_ = h.couponService.RecordRedemption(c.Request.Context(), order.CouponID)
		}
	}

	respondJSON(c, http.StatusOK, transitionResponse(result))
}
