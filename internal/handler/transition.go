package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tableride/internal/domain"
	"tableride/internal/service"
)

// UpdateStatusRequest is the HTTP request body for a state transition.
type UpdateStatusRequest struct {
	Status    string `json:"status"`
	ActorID   string `json:"actor_id"`
	ActorRole string `json:"actor_role"` // CUSTOMER, STAFF, DRIVER, SYSTEM
}

// TransitionResponse is the HTTP response for a state transition. Rejections
// come back as 200 with status REJECTED; they are answers, not faults.
type TransitionResponse struct {
	Status   string          `json:"status"` // APPLIED, UNCHANGED, REJECTED
	Reason   string          `json:"reason,omitempty"`
	Previous string          `json:"previous_state"`
	Current  string          `json:"current_state"`
	Totals   *TotalsResponse `json:"totals,omitempty"`
}

// TotalsResponse is the priced breakdown attached to applied order
// transitions.
type TotalsResponse struct {
	Subtotal string `json:"subtotal"`
	Discount string `json:"discount"`
	Total    string `json:"total"`
}

func transitionResponse(result *service.TransitionResult) TransitionResponse {
	resp := TransitionResponse{
		Status:   string(result.Status),
		Reason:   string(result.Reason),
		Previous: string(result.Previous),
		Current:  string(result.Current),
	}
	if result.Totals != nil {
		resp.Totals = &TotalsResponse{
			Subtotal: result.Totals.Subtotal.StringFixed(2),
			Discount: result.Totals.Discount.StringFixed(2),
			Total:    result.Totals.Total.StringFixed(2),
		}
	}
	return resp
}

// runTransition binds the request body and executes the transition for the
// given kind and entity.
func runTransition(c *gin.Context, transitions *service.TransitionService, kind domain.Kind, entityID string) (*service.TransitionResult, bool) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return nil, false
	}

	result, err := transitions.Transition(c.Request.Context(), service.TransitionRequest{
		Kind:      kind,
		EntityID:  entityID,
		Requested: domain.Status(req.Status),
		Actor: domain.Actor{
			ID:   req.ActorID,
			Role: domain.Role(req.ActorRole),
		},
	})
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return result, true
}
