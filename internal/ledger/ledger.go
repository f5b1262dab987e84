package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// TypeDeposit marks a bank-transfer funding transaction.
	TypeDeposit = "DEPOSIT"

	// StatusPending marks an entry created by the deposit flow and awaiting
	// settlement.
	StatusPending = "PENDING"
	// StatusCompleted marks an entry closed by a successful settlement.
	// Entries reach this state only through the settlement engine.
	StatusCompleted = "COMPLETED"
)

// Transaction is a ledger entry recording a wallet-affecting operation.
type Transaction struct {
	ID          string
	UserID      string
	Type        string
	Currency    string
	Amount      decimal.Decimal
	Status      string
	CreatedAt   time.Time
	CompletedAt *time.Time
	// Metadata carries bank, sender name, deposit id and notification id once
	// the entry is completed by settlement.
	Metadata map[string]string
}

// Repository persists ledger entries. Completion of pending entries happens
// inside the settlement engine's atomic unit, not here.
type Repository interface {
	// CreatePending records a new PENDING entry, assigning id and creation time.
	CreatePending(ctx context.Context, t Transaction) (Transaction, error)
	// ListByUser returns a user's entries, newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]Transaction, error)
}
