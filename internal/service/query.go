package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"tableride/internal/domain"
	internalRedis "tableride/internal/redis"
	"tableride/internal/repository"
)

// EntitySummary is the read-model row served to dashboards, kitchens and
// driver apps. Amount is the order total or the ride fare estimate.
type EntitySummary struct {
	ID          string
	Kind        domain.Kind
	Reference   string
	Status      domain.Status
	Amount      decimal.Decimal
	CreatedAt   time.Time
	FinalizedAt time.Time
}

// QueryService serves categorized read-only listings. It never locks rows;
// standard read consistency is enough for observational queries.
type QueryService struct {
	orderRepo repository.OrderRepository
	rideRepo  repository.RideRepository
	cache     internalRedis.SummaryStoreInterface
}

// NewQueryService creates a new QueryService. cache may be nil.
func NewQueryService(orderRepo repository.OrderRepository, rideRepo repository.RideRepository, cache internalRedis.SummaryStoreInterface) *QueryService {
	return &QueryService{
		orderRepo: orderRepo,
		rideRepo:  rideRepo,
		cache:     cache,
	}
}

var (
	activeOrderStatuses = []domain.Status{domain.StatusPending, domain.StatusProcessing}
	activeRideStatuses  = []domain.Status{domain.StatusRequested, domain.StatusOngoing}
	finalizedStatuses   = []domain.Status{domain.StatusCompleted, domain.StatusCancelled}
)

// ListActive returns non-finalized entities, oldest first so allocation is
// fair: ride offers reach drivers in request order and kitchens work the
// queue front to back.
func (s *QueryService) ListActive(ctx context.Context, kind domain.Kind) ([]EntitySummary, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetActive(ctx, string(kind)); err == nil && cached != nil {
			return fromCached(kind, cached), nil
		}
	}

	var summaries []EntitySummary
	var err error

	switch kind {
	case domain.KindOrder:
		summaries, err = s.listOrders(ctx, activeOrderStatuses, true)
	case domain.KindRide:
		summaries, err = s.listRides(ctx, activeRideStatuses, true)
	default:
		return nil, ErrInvalidEntityKind
	}
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.SetActive(ctx, string(kind), toCached(summaries))
	}

	return summaries, nil
}

// ListFinalized returns terminal-state entities, most recent first.
func (s *QueryService) ListFinalized(ctx context.Context, kind domain.Kind) ([]EntitySummary, error) {
	switch kind {
	case domain.KindOrder:
		return s.listOrders(ctx, finalizedStatuses, false)
	case domain.KindRide:
		return s.listRides(ctx, finalizedStatuses, false)
	default:
		return nil, ErrInvalidEntityKind
	}
}

func (s *QueryService) listOrders(ctx context.Context, statuses []domain.Status, oldestFirst bool) ([]EntitySummary, error) {
	orders, err := s.orderRepo.ListByStatuses(ctx, statuses, oldestFirst)
	if err != nil {
		return nil, err
	}

	summaries := make([]EntitySummary, 0, len(orders))
	for _, o := range orders {
		summaries = append(summaries, EntitySummary{
			ID:          o.ID,
			Kind:        domain.KindOrder,
			Reference:   o.Number,
			Status:      o.Status,
			Amount:      o.Total,
			CreatedAt:   o.CreatedAt,
			FinalizedAt: o.FinalizedAt,
		})
	}
	return summaries, nil
}

func (s *QueryService) listRides(ctx context.Context, statuses []domain.Status, oldestFirst bool) ([]EntitySummary, error) {
	rides, err := s.rideRepo.ListByStatuses(ctx, statuses, oldestFirst)
	if err != nil {
		return nil, err
	}

	summaries := make([]EntitySummary, 0, len(rides))
	for _, r := range rides {
		amount := r.EstimatedFare
		if !r.FinalFare.IsZero() {
			amount = r.FinalFare
		}
		summaries = append(summaries, EntitySummary{
			ID:          r.ID,
			Kind:        domain.KindRide,
			Reference:   r.ID,
			Status:      r.Status,
			Amount:      amount,
			CreatedAt:   r.CreatedAt,
			FinalizedAt: r.FinalizedAt,
		})
	}
	return summaries, nil
}

func toCached(summaries []EntitySummary) []internalRedis.CachedSummary {
	cached := make([]internalRedis.CachedSummary, 0, len(summaries))
	for _, s := range summaries {
		cached = append(cached, internalRedis.CachedSummary{
			ID:          s.ID,
			Reference:   s.Reference,
			Status:      string(s.Status),
			Amount:      s.Amount.StringFixed(2),
			CreatedAt:   s.CreatedAt,
			FinalizedAt: s.FinalizedAt,
		})
	}
	return cached
}

func fromCached(kind domain.Kind, cached []internalRedis.CachedSummary) []EntitySummary {
	summaries := make([]EntitySummary, 0, len(cached))
	for _, c := range cached {
		amount, err := decimal.NewFromString(c.Amount)
		if err != nil {
			amount = decimal.Zero
		}
		summaries = append(summaries, EntitySummary{
			ID:          c.ID,
			Kind:        kind,
			Reference:   c.Reference,
			Status:      domain.Status(c.Status),
			Amount:      amount,
			CreatedAt:   c.CreatedAt,
			FinalizedAt: c.FinalizedAt,
		})
	}
	return summaries
}
