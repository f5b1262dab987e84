// Package settlement applies a matched deposit to persistent state as one
// atomic unit: wallet credit, deposit completion and best-effort ledger
// reconciliation either all become visible or none do.
package settlement

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andino-pay/andino_pay/internal/deposit"
	"github.com/andino-pay/andino_pay/internal/notification"
)

var (
	// ErrAlreadySettled indicates a concurrent or duplicate attempt completed
	// the deposit first. Benign: the wallet was credited exactly once.
	ErrAlreadySettled = errors.New("deposit already settled")
	// ErrDepositNotFound indicates the deposit row disappeared between
	// matching and settlement.
	ErrDepositNotFound = errors.New("deposit request not found")
	// ErrWalletNotFound indicates no wallet row exists for the deposit's
	// (user, currency) pair; the settlement is rolled back in full.
	ErrWalletNotFound = errors.New("wallet not found")
)

// Result describes a committed settlement.
type Result struct {
	DepositID string
	UserID    string
	Currency  string
	Amount    decimal.Decimal
	// LedgerEntries is the number of pending ledger transactions closed by
	// the reconciliation step. Zero is a normal outcome: the entry may not
	// exist yet.
	LedgerEntries int
	SettledAt     time.Time
}

// Engine settles a matched deposit against the triggering notification.
//
// Implementations must guarantee at most one successful settlement per
// deposit under concurrent attempts, across processes sharing the same
// store: the pending→completed transition is a conditional update executed
// inside the same atomic unit as the wallet credit. Losing attempts return
// ErrAlreadySettled and leave no writes behind.
type Engine interface {
	Settle(ctx context.Context, dep deposit.DepositRequest, n notification.BankNotification) (Result, error)
}

// CompletionMetadata builds the audit metadata attached to ledger entries
// closed by a settlement.
func CompletionMetadata(dep deposit.DepositRequest, n notification.BankNotification) map[string]string {
	return map[string]string{
		"bank":            n.Bank,
		"sender_name":     n.SenderName,
		"deposit_id":      dep.ID,
		"notification_id": n.ID,
	}
}
