package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MemoryRepository is an in-memory ledger for tests. The settlement engine's
// in-memory implementation stages mutations against it via PendingMatching
// and Put.
type MemoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Transaction
}

// NewMemoryRepository constructs an in-memory repository for tests.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{storage: make(map[string]Transaction)}
}

func (r *MemoryRepository) CreatePending(_ context.Context, t Transaction) (Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = uuid.NewString()
	t.Status = StatusPending
	t.CreatedAt = time.Now().UTC()
	r.storage[t.ID] = t
	return t, nil
}

func (r *MemoryRepository) ListByUser(_ context.Context, userID string, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Transaction
	for _, t := range r.storage {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// PendingMatching returns PENDING DEPOSIT entries for the user with the exact
// currency and amount, created inside the trailing window. Engine helper.
func (r *MemoryRepository) PendingMatching(userID, currency string, amount decimal.Decimal, window time.Duration) []Transaction {
	cutoff := time.Now().UTC().Add(-window)
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Transaction
	for _, t := range r.storage {
		if t.UserID == userID && t.Type == TypeDeposit && t.Status == StatusPending &&
			t.Currency == currency && t.Amount.Equal(amount) && !t.CreatedAt.Before(cutoff) {
			out = append(out, t)
		}
	}
	return out
}

// Put replaces an entry unconditionally. Test/engine helper.
func (r *MemoryRepository) Put(t Transaction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage[t.ID] = t
}

// Get returns an entry by id. Test helper.
func (r *MemoryRepository) Get(id string) (Transaction, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.storage[id]
	return t, ok
}
