package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tableride/internal/domain"
	"tableride/internal/service"
)

// QueryHandler serves the categorized dashboard listings.
type QueryHandler struct {
	queryService *service.QueryService
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(queryService *service.QueryService) *QueryHandler {
	return &QueryHandler{queryService: queryService}
}

// SummaryResponse is one row of a dashboard listing.
type SummaryResponse struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Reference   string `json:"reference"`
	Status      string `json:"status"`
	Amount      string `json:"amount"`
	CreatedAt   string `json:"created_at"`
	FinalizedAt string `json:"finalized_at,omitempty"`
}

func summaryResponses(summaries []service.EntitySummary) []SummaryResponse {
	resp := make([]SummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		row := SummaryResponse{
			ID:        s.ID,
			Kind:      string(s.Kind),
			Reference: s.Reference,
			Status:    string(s.Status),
			Amount:    s.Amount.StringFixed(2),
			CreatedAt: s.CreatedAt.Format(time.RFC3339),
		}
		if !s.FinalizedAt.IsZero() {
			row.FinalizedAt = s.FinalizedAt.Format(time.RFC3339)
		}
		resp = append(resp, row)
	}
	return resp
}

// ListActiveOrders handles GET /v1/orders/active
func (h *QueryHandler) ListActiveOrders(c *gin.Context) {
	h.listActive(c, domain.KindOrder)
}

// ListFinalizedOrders handles GET /v1/orders/finalized
func (h *QueryHandler) ListFinalizedOrders(c *gin.Context) {
	h.listFinalized(c, domain.KindOrder)
}

// ListActiveRides handles GET /v1/rides/active
func (h *QueryHandler) ListActiveRides(c *gin.Context) {
	h.listActive(c, domain.KindRide)
}

// ListFinalizedRides handles GET /v1/rides/finalized
func (h *QueryHandler) ListFinalizedRides(c *gin.Context) {
	h.listFinalized(c, domain.KindRide)
}

func (h *QueryHandler) listActive(c *gin.Context, kind domain.Kind) {
	summaries, err := h.queryService.ListActive(c.Request.Context(), kind)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, summaryResponses(summaries))
}

func (h *QueryHandler) listFinalized(c *gin.Context, kind domain.Kind) {
	summaries, err := h.queryService.ListFinalized(c.Request.Context(), kind)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, summaryResponses(summaries))
}
