package facts

import (
	"context"
	"encoding/json"
	"time"

	"github.com/avetrov/contentaudit/internal/cache"
	"github.com/avetrov/contentaudit/internal/model"
)

// CachedResult is the slice of a FactClaim a cache may persist, keyed by
// the claim hash. The original text is stored alongside so a caller can
// detect hash collisions if it cares to.
type CachedResult struct {
	Text       string                     `json:"text,omitempty"`
	Status     model.VerificationStatus   `json:"status"`
	Sources    []model.VerificationSource `json:"sources,omitempty"`
	Suggestion string                     `json:"suggestion,omitempty"`
}

// CacheAdapter is the optional persistence port of the pipeline. Get
// returns (nil, nil) on a miss. Both operations may fail independently;
// the pipeline treats a failed Get as a miss and swallows failed Sets.
type CacheAdapter interface {
	Get(ctx context.Context, hash string) (*CachedResult, error)
	Set(ctx context.Context, hash string, rec CachedResult) error
}

// StoreAdapter bridges the generic byte cache to the CacheAdapter port,
// JSON-encoding records. Works with the memory, disk, and layered caches.
type StoreAdapter struct {
	store cache.Cache
	ttl   time.Duration
}

// NewStoreAdapter wraps a cache.Cache as a CacheAdapter.
func NewStoreAdapter(store cache.Cache, ttl time.Duration) *StoreAdapter {
	return &StoreAdapter{store: store, ttl: ttl}
}

func (a *StoreAdapter) Get(_ context.Context, hash string) (*CachedResult, error) {
	data, found := a.store.Get(hash)
	if !found {
		return nil, nil
	}
	var rec CachedResult
	if err := json.Unmarshal(data, &rec); err != nil {
		// A corrupt entry behaves like a miss.
		return nil, nil
	}
	return &rec, nil
}

func (a *StoreAdapter) Set(_ context.Context, hash string, rec CachedResult) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return a.store.Set(hash, data, a.ttl)
}
