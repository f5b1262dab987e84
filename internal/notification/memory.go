package notification

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryLog struct {
	mu      sync.RWMutex
	entries []BankNotification
}

// NewMemoryLog constructs an in-memory notification log for tests.
func NewMemoryLog() Log {
	return &memoryLog{}
}

func (l *memoryLog) Append(_ context.Context, n BankNotification) (BankNotification, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	n.ID = uuid.NewString()
	if n.ReceivedAt.IsZero() {
		n.ReceivedAt = time.Now().UTC()
	}
	l.entries = append(l.entries, n)
	return n, nil
}

func (l *memoryLog) Recent(_ context.Context, limit int) ([]BankNotification, error) {
	if limit <= 0 {
		limit = 10
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]BankNotification, 0, limit)
	for i := len(l.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, l.entries[i])
	}
	return out, nil
}
