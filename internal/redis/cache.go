package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore caches dashboard summary lists in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// ActiveListTTL is short: active lists change on every transition and the
// cache only has to absorb dashboard polling bursts.
const ActiveListTTL = 5 * time.Second

const activeListPrefix = "cache:active:"

// CachedSummary is the cached shape of an entity summary. Amounts are kept
// as fixed-point strings to avoid float round-tripping.
type CachedSummary struct {
	ID          string    `json:"id"`
	Reference   string    `json:"reference"`
	Status      string    `json:"status"`
	Amount      string    `json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
	FinalizedAt time.Time `json:"finalized_at,omitempty"`
}

// GetActive retrieves the cached active list for an entity kind.
// Returns nil on cache miss.
func (s *CacheStore) GetActive(ctx context.Context, kind string) ([]CachedSummary, error) {
	data, err := s.client.Get(ctx, activeListPrefix+kind).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var summaries []CachedSummary
	if err := json.Unmarshal(data, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// SetActive stores the active list for an entity kind.
func (s *CacheStore) SetActive(ctx context.Context, kind string, summaries []CachedSummary) error {
	data, err := json.Marshal(summaries)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, activeListPrefix+kind, data, ActiveListTTL).Err()
}

// InvalidateActive removes the cached active list for an entity kind.
func (s *CacheStore) InvalidateActive(ctx context.Context, kind string) error {
	return s.client.Del(ctx, activeListPrefix+kind).Err()
}
