package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tableride/internal/pricing"
	"tableride/internal/repository"
	"tableride/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Lock contention: the row stayed locked past the deadline. The caller
	// can simply retry.
	case errors.Is(err, repository.ErrLockTimeout):
		return http.StatusConflict

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidEntityKind),
		errors.Is(err, service.ErrInvalidEntityID),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidActor),
		errors.Is(err, service.ErrInvalidCustomerID),
		errors.Is(err, service.ErrInvalidRiderID),
		errors.Is(err, service.ErrInvalidOrderID),
		errors.Is(err, service.ErrNoLineItems),
		errors.Is(err, service.ErrInvalidCoupon),
		errors.Is(err, service.ErrInvalidCouponPercentage),
		errors.Is(err, service.ErrInvalidCouponRange),
		errors.Is(err, service.ErrInvalidPickupLocation),
		errors.Is(err, service.ErrInvalidDropoffLocation),
		errors.Is(err, pricing.ErrNegativeLineItemValue):
		return http.StatusBadRequest

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
