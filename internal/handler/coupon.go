package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"tableride/internal/domain"
	"tableride/internal/service"
)

// CouponHandler handles HTTP requests for coupons.
type CouponHandler struct {
	couponService *service.CouponService
}

// NewCouponHandler creates a new CouponHandler.
func NewCouponHandler(couponService *service.CouponService) *CouponHandler {
	return &CouponHandler{couponService: couponService}
}

// CreateCouponRequest is the HTTP request body for creating a coupon.
type CreateCouponRequest struct {
	Code               string `json:"code,omitempty"`
	DiscountPercentage string `json:"discount_percentage"`
	ValidFrom          string `json:"valid_from"`  // YYYY-MM-DD
	ValidUntil         string `json:"valid_until"` // YYYY-MM-DD
	MaxUsage           *int   `json:"max_usage,omitempty"`
}

// CouponResponse is the HTTP representation of a coupon.
type CouponResponse struct {
	ID                 string `json:"id"`
	Code               string `json:"code"`
	DiscountPercentage string `json:"discount_percentage"`
	IsActive           bool   `json:"is_active"`
	ValidFrom          string `json:"valid_from"`
	ValidUntil         string `json:"valid_until"`
	MaxUsage           *int   `json:"max_usage,omitempty"`
	UsageCount         int    `json:"usage_count"`
}

func couponResponse(coupon *domain.Coupon) CouponResponse {
	return CouponResponse{
		ID:                 coupon.ID,
		Code:               coupon.Code,
		DiscountPercentage: coupon.DiscountPercentage.StringFixed(2),
		IsActive:           coupon.IsActive,
		ValidFrom:          coupon.ValidFrom.Format("2006-01-02"),
		ValidUntil:         coupon.ValidUntil.Format("2006-01-02"),
		MaxUsage:           coupon.MaxUsage,
		UsageCount:         coupon.UsageCount,
	}
}

// CreateCoupon handles POST /v1/coupons
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	pct, err := decimal.NewFromString(req.DiscountPercentage)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid discount_percentage"})
		return
	}
	validFrom, err := time.Parse("2006-01-02", req.ValidFrom)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid valid_from"})
		return
	}
	validUntil, err := time.Parse("2006-01-02", req.ValidUntil)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid valid_until"})
		return
	}

	coupon, err := h.couponService.CreateCoupon(c.Request.Context(), service.CreateCouponRequest{
		Code:               req.Code,
		DiscountPercentage: pct,
		ValidFrom:          validFrom,
		ValidUntil:         validUntil,
		MaxUsage:           req.MaxUsage,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, couponResponse(coupon))
}

// GetCoupon handles GET /v1/coupons/:code
func (h *CouponHandler) GetCoupon(c *gin.Context) {
	coupon, err := h.couponService.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, couponResponse(coupon))
}
