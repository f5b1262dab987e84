package settlement

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/andino-pay/andino_pay/internal/deposit"
	"github.com/andino-pay/andino_pay/internal/ledger"
	"github.com/andino-pay/andino_pay/internal/notification"
	"github.com/andino-pay/andino_pay/internal/wallet"
)

// Step names accepted by MemoryEngine.FailAfter.
const (
	StepDeposit = "deposit"
	StepWallet  = "wallet"
	StepLedger  = "ledger"
)

// MemoryEngine is a concurrency-safe in-memory settlement engine for tests.
// All mutations are staged in local copies and written back only at the
// commit point, mirroring the transactional all-or-nothing behavior of the
// Postgres engine: an injected failure between steps leaves no partial state.
type MemoryEngine struct {
	mu           sync.Mutex
	deposits     *deposit.MemoryRepository
	wallets      *wallet.MemoryRepository
	entries      *ledger.MemoryRepository
	ledgerWindow time.Duration

	failAfter string
}

// NewMemoryEngine builds an engine over shared in-memory repositories so
// tests observe settlements through the same stores the matcher reads.
func NewMemoryEngine(deposits *deposit.MemoryRepository, wallets *wallet.MemoryRepository, entries *ledger.MemoryRepository) *MemoryEngine {
	return &MemoryEngine{
		deposits:     deposits,
		wallets:      wallets,
		entries:      entries,
		ledgerWindow: defaultLedgerWindow,
	}
}

// FailAfter makes the next settlements abort after the named step has been
// staged. Pass an empty string to clear. Test hook.
func (e *MemoryEngine) FailAfter(step string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failAfter = step
}

func (e *MemoryEngine) Settle(ctx context.Context, dep deposit.DepositRequest, n notification.BankNotification) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	settledAt := time.Now().UTC()

	// Step 1: conditional deposit completion (the idempotency guard).
	current, err := e.deposits.Get(ctx, dep.ID)
	if err != nil {
		return Result{}, ErrDepositNotFound
	}
	if current.Status != deposit.StatusPending {
		return Result{}, ErrAlreadySettled
	}
	completed := current
	completed.Status = deposit.StatusCompleted
	completed.ProcessedAt = &settledAt
	completed.NotificationData = n.Payload()
	if e.failAfter == StepDeposit {
		return Result{}, fmt.Errorf("forced failure after %s step", StepDeposit)
	}

	// Step 2: wallet credit.
	w, err := e.wallets.Get(ctx, current.UserID, current.Currency)
	if err != nil {
		return Result{}, ErrWalletNotFound
	}
	credited := w
	credited.Balance = w.Balance.Add(current.Amount)
	credited.UpdatedAt = settledAt
	if e.failAfter == StepWallet {
		return Result{}, fmt.Errorf("forced failure after %s step", StepWallet)
	}

	// Step 3: best-effort ledger reconciliation.
	metadata := CompletionMetadata(current, n)
	pending := e.entries.PendingMatching(current.UserID, current.Currency, current.Amount, e.ledgerWindow)
	closed := make([]ledger.Transaction, 0, len(pending))
	for _, t := range pending {
		t.Status = ledger.StatusCompleted
		completedAt := settledAt
		t.CompletedAt = &completedAt
		t.Metadata = metadata
		closed = append(closed, t)
	}
	if e.failAfter == StepLedger {
		return Result{}, fmt.Errorf("forced failure after %s step", StepLedger)
	}

	// Commit point: all staged state becomes visible together.
	e.deposits.Put(completed)
	e.wallets.Put(credited)
	for _, t := range closed {
		e.entries.Put(t)
	}

	return Result{
		DepositID:     current.ID,
		UserID:        current.UserID,
		Currency:      current.Currency,
		Amount:        current.Amount,
		LedgerEntries: len(closed),
		SettledAt:     settledAt,
	}, nil
}
