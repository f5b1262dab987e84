package wallet

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// MemoryRepository is an in-memory wallet store for tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Wallet
}

// NewMemoryRepository constructs an in-memory repository for tests.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{storage: make(map[string]Wallet)}
}

func key(userID, currency string) string {
	return userID + "/" + currency
}

func (r *MemoryRepository) Ensure(_ context.Context, userID, currency string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(userID, currency)
	if _, exists := r.storage[k]; !exists {
		r.storage[k] = Wallet{UserID: userID, Currency: currency, Balance: decimal.Zero, UpdatedAt: time.Now().UTC()}
	}
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, userID, currency string) (Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.storage[key(userID, currency)]
	if !ok {
		return Wallet{}, ErrNotFound
	}
	return w, nil
}

// Put replaces a wallet row unconditionally. Test/engine helper.
func (r *MemoryRepository) Put(w Wallet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage[key(w.UserID, w.Currency)] = w
}
