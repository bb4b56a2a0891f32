package tests

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"tableride/internal/domain"
	"tableride/internal/redis"
	"tableride/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK ORDER REPOSITORY
// ──────────────────────────────────────────────

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockOrderRepository creates a new mock order repository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]*domain.Order),
	}
}

// AddOrder adds an order to the mock repository.
func (m *MockOrderRepository) AddOrder(order *domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = order
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *order
	m.orders[order.ID] = &copy
	return nil
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *order
	return &copy, nil
}

// GetByIDForUpdate reads without locking; the locking discipline lives in
// MockStore's transactions.
func (m *MockOrderRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Order, error) {
	return m.GetByID(ctx, id)
}

func (m *MockOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[order.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *order
	m.orders[order.ID] = &copy
	return nil
}

func (m *MockOrderRepository) ListByStatuses(ctx context.Context, statuses []domain.Status, oldestFirst bool) ([]*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Order, 0)
	for _, o := range m.orders {
		for _, s := range statuses {
			if o.Status == s {
				copy := *o
				result = append(result, &copy)
				break
			}
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if oldestFirst {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// GetOrder returns the order by ID (for test assertions).
func (m *MockOrderRepository) GetOrder(id string) *domain.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.orders[id]
}

// ──────────────────────────────────────────────
// MOCK RIDE REPOSITORY
// ──────────────────────────────────────────────

// MockRideRepository is a mock implementation of RideRepository.
type MockRideRepository struct {
	mu    sync.RWMutex
	rides map[string]*domain.Ride

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockRideRepository creates a new mock ride repository.
func NewMockRideRepository() *MockRideRepository {
	return &MockRideRepository{
		rides: make(map[string]*domain.Ride),
	}
}

// AddRide adds a ride to the mock repository.
func (m *MockRideRepository) AddRide(ride *domain.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = ride
}

func (m *MockRideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *ride
	m.rides[ride.ID] = &copy
	return nil
}

func (m *MockRideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ride, ok := m.rides[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *ride
	return &copy, nil
}

// GetByIDForUpdate reads without locking; the locking discipline lives in
// MockStore's transactions.
func (m *MockRideRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Ride, error) {
	return m.GetByID(ctx, id)
}

func (m *MockRideRepository) Update(ctx context.Context, ride *domain.Ride) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rides[ride.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *ride
	m.rides[ride.ID] = &copy
	return nil
}

func (m *MockRideRepository) ListByStatuses(ctx context.Context, statuses []domain.Status, oldestFirst bool) ([]*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Ride, 0)
	for _, r := range m.rides {
		for _, s := range statuses {
			if r.Status == s {
				copy := *r
				result = append(result, &copy)
				break
			}
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if oldestFirst {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// GetRide returns the ride by ID (for test assertions).
func (m *MockRideRepository) GetRide(id string) *domain.Ride {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rides[id]
}

// ──────────────────────────────────────────────
// MOCK COUPON REPOSITORY
// ──────────────────────────────────────────────

// MockCouponRepository is a mock implementation of CouponRepository.
type MockCouponRepository struct {
	mu      sync.RWMutex
	coupons map[string]*domain.Coupon

	// Counters for verification
	CreateCallCount         int32
	IncrementUsageCallCount int32

	// Error injection
	CreateError         error
	IncrementUsageError error
}

// NewMockCouponRepository creates a new mock coupon repository.
func NewMockCouponRepository() *MockCouponRepository {
	return &MockCouponRepository{
		coupons: make(map[string]*domain.Coupon),
	}
}

// AddCoupon adds a coupon to the mock repository.
func (m *MockCouponRepository) AddCoupon(coupon *domain.Coupon) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.coupons[coupon.ID] = coupon
}

func (m *MockCouponRepository) Create(ctx context.Context, coupon *domain.Coupon) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *coupon
	m.coupons[coupon.ID] = &copy
	return nil
}

func (m *MockCouponRepository) GetByID(ctx context.Context, id string) (*domain.Coupon, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	coupon, ok := m.coupons[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *coupon
	return &copy, nil
}

func (m *MockCouponRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.coupons {
		if c.Code == code {
			copy := *c
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockCouponRepository) IncrementUsage(ctx context.Context, id string) error {
	atomic.AddInt32(&m.IncrementUsageCallCount, 1)
	if m.IncrementUsageError != nil {
		return m.IncrementUsageError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	coupon, ok := m.coupons[id]
	if !ok {
		return repository.ErrNotFound
	}
	coupon.UsageCount++
	return nil
}

// GetCoupon returns the coupon by ID (for test assertions).
func (m *MockCouponRepository) GetCoupon(id string) *domain.Coupon {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.coupons[id]
}

// ──────────────────────────────────────────────
// MOCK STORE
// ──────────────────────────────────────────────

// MockStore implements repository.Store with real per-entity locking, so
// concurrent transitions contend in tests the way they do on Postgres:
// GetByIDForUpdate blocks until the lock frees or the timeout elapses, and
// writes become visible before the lock is released.
type MockStore struct {
	OrderRepo  *MockOrderRepository
	RideRepo   *MockRideRepository
	CouponRepo *MockCouponRepository

	mu    sync.Mutex
	locks map[string]chan struct{}

	// Counters for verification
	TransactCallCount int32
	CommitCount       int32
	RollbackCount     int32
}

// NewMockStore creates a new mock store over fresh repositories.
func NewMockStore() *MockStore {
	return &MockStore{
		OrderRepo:  NewMockOrderRepository(),
		RideRepo:   NewMockRideRepository(),
		CouponRepo: NewMockCouponRepository(),
		locks:      make(map[string]chan struct{}),
	}
}

var _ repository.Store = (*MockStore)(nil)

func (s *MockStore) Transact(ctx context.Context, opts repository.TxOptions, fn func(tx repository.Tx) error) error {
	atomic.AddInt32(&s.TransactCallCount, 1)

	timeout := opts.LockTimeout
	if timeout <= 0 {
		timeout = repository.DefaultLockTimeout
	}

	tx := &mockTx{store: s, timeout: timeout}
	defer tx.releaseLocks()

	if err := fn(tx); err != nil {
		atomic.AddInt32(&s.RollbackCount, 1)
		return err
	}

	tx.commit()
	atomic.AddInt32(&s.CommitCount, 1)
	return nil
}

func (s *MockStore) lockChan(key string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[key] = ch
	}
	return ch
}

// mockTx holds per-entity locks for its lifetime and stages writes until
// commit, so an aborted transaction leaves no trace.
type mockTx struct {
	store   *MockStore
	timeout time.Duration
	held    []chan struct{}
	writes  []func()
}

func (t *mockTx) acquire(key string) error {
	ch := t.store.lockChan(key)
	select {
	case ch <- struct{}{}:
		t.held = append(t.held, ch)
		return nil
	case <-time.After(t.timeout):
		return repository.ErrLockTimeout
	}
}

func (t *mockTx) commit() {
	for _, apply := range t.writes {
		apply()
	}
	t.writes = nil
}

func (t *mockTx) releaseLocks() {
	for _, ch := range t.held {
		<-ch
	}
	t.held = nil
}

func (t *mockTx) Orders() repository.OrderRepository   { return &txOrderRepo{tx: t} }
func (t *mockTx) Rides() repository.RideRepository     { return &txRideRepo{tx: t} }
func (t *mockTx) Coupons() repository.CouponRepository { return &txCouponRepo{tx: t} }

// txOrderRepo scopes order operations to a mock transaction.
type txOrderRepo struct {
	tx *mockTx
}

func (r *txOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	return r.tx.store.OrderRepo.Create(ctx, order)
}

func (r *txOrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return r.tx.store.OrderRepo.GetByID(ctx, id)
}

func (r *txOrderRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.tx.acquire("order:" + id); err != nil {
		return nil, err
	}
	return r.tx.store.OrderRepo.GetByID(ctx, id)
}

func (r *txOrderRepo) Update(ctx context.Context, order *domain.Order) error {
	if r.tx.store.OrderRepo.UpdateError != nil {
		return r.tx.store.OrderRepo.UpdateError
	}
	staged := *order
	r.tx.writes = append(r.tx.writes, func() {
		_ = r.tx.store.OrderRepo.Update(context.Background(), &staged)
	})
	return nil
}

func (r *txOrderRepo) ListByStatuses(ctx context.Context, statuses []domain.Status, oldestFirst bool) ([]*domain.Order, error) {
	return r.tx.store.OrderRepo.ListByStatuses(ctx, statuses, oldestFirst)
}

// txRideRepo scopes ride operations to a mock transaction.
type txRideRepo struct {
	tx *mockTx
}

func (r *txRideRepo) Create(ctx context.Context, ride *domain.Ride) error {
	return r.tx.store.RideRepo.Create(ctx, ride)
}

func (r *txRideRepo) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	return r.tx.store.RideRepo.GetByID(ctx, id)
}

func (r *txRideRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Ride, error) {
	if err := r.tx.acquire("ride:" + id); err != nil {
		return nil, err
	}
	return r.tx.store.RideRepo.GetByID(ctx, id)
}

func (r *txRideRepo) Update(ctx context.Context, ride *domain.Ride) error {
	if r.tx.store.RideRepo.UpdateError != nil {
		return r.tx.store.RideRepo.UpdateError
	}
	staged := *ride
	r.tx.writes = append(r.tx.writes, func() {
		_ = r.tx.store.RideRepo.Update(context.Background(), &staged)
	})
	return nil
}

func (r *txRideRepo) ListByStatuses(ctx context.Context, statuses []domain.Status, oldestFirst bool) ([]*domain.Ride, error) {
	return r.tx.store.RideRepo.ListByStatuses(ctx, statuses, oldestFirst)
}

// txCouponRepo scopes coupon operations to a mock transaction. Coupons are
// read-only inside transitions, so nothing is staged.
type txCouponRepo struct {
	tx *mockTx
}

func (r *txCouponRepo) Create(ctx context.Context, coupon *domain.Coupon) error {
	return r.tx.store.CouponRepo.Create(ctx, coupon)
}

func (r *txCouponRepo) GetByID(ctx context.Context, id string) (*domain.Coupon, error) {
	return r.tx.store.CouponRepo.GetByID(ctx, id)
}

func (r *txCouponRepo) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	return r.tx.store.CouponRepo.GetByCode(ctx, code)
}

func (r *txCouponRepo) IncrementUsage(ctx context.Context, id string) error {
	return r.tx.store.CouponRepo.IncrementUsage(ctx, id)
}

// ──────────────────────────────────────────────
// MOCK SUMMARY CACHE
// ──────────────────────────────────────────────

// MockSummaryCache is an in-memory summary cache.
type MockSummaryCache struct {
	mu      sync.Mutex
	entries map[string][]redis.CachedSummary

	// Counters for verification
	GetCallCount        int32
	SetCallCount        int32
	InvalidateCallCount int32

	// Error injection
	GetError error
}

// NewMockSummaryCache creates a new mock summary cache.
func NewMockSummaryCache() *MockSummaryCache {
	return &MockSummaryCache{
		entries: make(map[string][]redis.CachedSummary),
	}
}

var _ redis.SummaryStoreInterface = (*MockSummaryCache)(nil)

func (m *MockSummaryCache) GetActive(ctx context.Context, kind string) ([]redis.CachedSummary, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[kind], nil
}

func (m *MockSummaryCache) SetActive(ctx context.Context, kind string, summaries []redis.CachedSummary) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[kind] = summaries
	return nil
}

func (m *MockSummaryCache) InvalidateActive(ctx context.Context, kind string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, kind)
	return nil
}

// ──────────────────────────────────────────────
// HELPERS
// ──────────────────────────────────────────────

var (
	ErrMockDBFailure = errors.New("mock: database failure")
)

// fixedClock returns a clock pinned to the given instant.
func fixedClock(at time.Time) domain.Clock {
	return func() time.Time { return at }
}
