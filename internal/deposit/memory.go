package deposit

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// MemoryRepository is an in-memory deposit store for tests. The settlement
// engine's in-memory implementation commits staged mutations through Put.
type MemoryRepository struct {
	mu      sync.RWMutex
	storage map[string]DepositRequest
}

// NewMemoryRepository constructs an in-memory repository for tests.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{storage: make(map[string]DepositRequest)}
}

func (r *MemoryRepository) Create(_ context.Context, d DepositRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.storage[d.ID]; exists {
		return errors.New("deposit request exists")
	}
	r.storage[d.ID] = d
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (DepositRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.storage[id]
	if !ok {
		return DepositRequest{}, ErrNotFound
	}
	return d, nil
}

func (r *MemoryRepository) PendingWithin(_ context.Context, window time.Duration) ([]DepositRequest, error) {
	cutoff := time.Now().UTC().Add(-window)
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []DepositRequest
	for _, d := range r.storage {
		if d.Status == StatusPending && !d.CreatedAt.Before(cutoff) {
			out = append(out, d)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *MemoryRepository) PendingByUser(_ context.Context, userID string) ([]DepositRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []DepositRequest
	for _, d := range r.storage {
		if d.Status == StatusPending && d.UserID == userID {
			out = append(out, d)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

// Put replaces a record unconditionally. Test/engine helper.
func (r *MemoryRepository) Put(d DepositRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage[d.ID] = d
}

func sortNewestFirst(ds []DepositRequest) {
	sort.Slice(ds, func(i, j int) bool { return ds[i].CreatedAt.After(ds[j].CreatedAt) })
}
