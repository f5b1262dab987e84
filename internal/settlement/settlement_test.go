package settlement

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andino-pay/andino_pay/internal/deposit"
	"github.com/andino-pay/andino_pay/internal/ledger"
	"github.com/andino-pay/andino_pay/internal/notification"
	"github.com/andino-pay/andino_pay/internal/wallet"
)

type fixture struct {
	deposits *deposit.MemoryRepository
	wallets  *wallet.MemoryRepository
	entries  *ledger.MemoryRepository
	engine   *MemoryEngine
}

func newFixture() *fixture {
	deposits := deposit.NewMemoryRepository()
	wallets := wallet.NewMemoryRepository()
	entries := ledger.NewMemoryRepository()
	return &fixture{
		deposits: deposits,
		wallets:  wallets,
		entries:  entries,
		engine:   NewMemoryEngine(deposits, wallets, entries),
	}
}

func (f *fixture) seedDeposit(t *testing.T, amount float64) deposit.DepositRequest {
	t.Helper()
	d := deposit.DepositRequest{
		ID:        uuid.NewString(),
		UserID:    uuid.NewString(),
		Currency:  "BOB",
		Amount:    decimal.NewFromFloat(amount),
		FirstName: "Juan",
		LastName:  "Pérez",
		Status:    deposit.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := f.deposits.Create(context.Background(), d); err != nil {
		t.Fatalf("seed deposit: %v", err)
	}
	if err := f.wallets.Ensure(context.Background(), d.UserID, d.Currency); err != nil {
		t.Fatalf("seed wallet: %v", err)
	}
	return d
}

func (f *fixture) seedPendingEntry(t *testing.T, d deposit.DepositRequest) ledger.Transaction {
	t.Helper()
	entry, err := f.entries.CreatePending(context.Background(), ledger.Transaction{
		UserID:   d.UserID,
		Type:     ledger.TypeDeposit,
		Currency: d.Currency,
		Amount:   d.Amount,
	})
	if err != nil {
		t.Fatalf("seed ledger entry: %v", err)
	}
	return entry
}

func testNotification(amount float64) notification.BankNotification {
	return notification.BankNotification{
		ID:              uuid.NewString(),
		Bank:            "BCP",
		Amount:          decimal.NewFromFloat(amount),
		SenderName:      "juan pérez",
		TransactionType: "transfer",
		RawText:         "Transferencia recibida Bs. 150.75 de JUAN PEREZ",
		ReceivedAt:      time.Now().UTC(),
	}
}

func TestSettleCreditsWalletAndCompletesDeposit(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	d := f.seedDeposit(t, 150.75)
	entry := f.seedPendingEntry(t, d)

	res, err := f.engine.Settle(ctx, d, testNotification(150.75))
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if res.DepositID != d.ID || res.UserID != d.UserID || res.Currency != "BOB" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !res.Amount.Equal(d.Amount) {
		t.Fatalf("result amount %s, want %s", res.Amount, d.Amount)
	}
	if res.LedgerEntries != 1 {
		t.Fatalf("expected 1 closed ledger entry, got %d", res.LedgerEntries)
	}

	w, err := f.wallets.Get(ctx, d.UserID, d.Currency)
	if err != nil {
		t.Fatalf("get wallet: %v", err)
	}
	if !w.Balance.Equal(d.Amount) {
		t.Fatalf("wallet balance %s, want %s", w.Balance, d.Amount)
	}

	settled, err := f.deposits.Get(ctx, d.ID)
	if err != nil {
		t.Fatalf("get deposit: %v", err)
	}
	if settled.Status != deposit.StatusCompleted {
		t.Fatalf("deposit status %s, want %s", settled.Status, deposit.StatusCompleted)
	}
	if settled.ProcessedAt == nil {
		t.Fatal("deposit missing processed timestamp")
	}
	if len(settled.NotificationData) == 0 {
		t.Fatal("deposit missing notification payload")
	}

	closed, ok := f.entries.Get(entry.ID)
	if !ok {
		t.Fatal("ledger entry vanished")
	}
	if closed.Status != ledger.StatusCompleted {
		t.Fatalf("ledger status %s, want %s", closed.Status, ledger.StatusCompleted)
	}
	if closed.Metadata["deposit_id"] != d.ID {
		t.Fatalf("ledger metadata deposit_id %q, want %q", closed.Metadata["deposit_id"], d.ID)
	}
	if closed.Metadata["bank"] != "BCP" {
		t.Fatalf("ledger metadata bank %q, want BCP", closed.Metadata["bank"])
	}
}

func TestSettleSecondAttemptReportsAlreadySettled(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	d := f.seedDeposit(t, 150.75)

	if _, err := f.engine.Settle(ctx, d, testNotification(150.75)); err != nil {
		t.Fatalf("first settle: %v", err)
	}
	if _, err := f.engine.Settle(ctx, d, testNotification(150.75)); !errors.Is(err, ErrAlreadySettled) {
		t.Fatalf("expected ErrAlreadySettled, got %v", err)
	}

	w, err := f.wallets.Get(ctx, d.UserID, d.Currency)
	if err != nil {
		t.Fatalf("get wallet: %v", err)
	}
	if !w.Balance.Equal(d.Amount) {
		t.Fatalf("wallet credited more than once: balance %s", w.Balance)
	}
}

func TestSettleMissingWalletRollsBack(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	d := deposit.DepositRequest{
		ID:        uuid.NewString(),
		UserID:    uuid.NewString(),
		Currency:  "BOB",
		Amount:    decimal.NewFromFloat(80),
		FirstName: "Ana",
		LastName:  "Rojas",
		Status:    deposit.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := f.deposits.Create(ctx, d); err != nil {
		t.Fatalf("seed deposit: %v", err)
	}

	if _, err := f.engine.Settle(ctx, d, testNotification(80)); !errors.Is(err, ErrWalletNotFound) {
		t.Fatalf("expected ErrWalletNotFound, got %v", err)
	}

	// The deposit must still be pending and retryable.
	got, err := f.deposits.Get(ctx, d.ID)
	if err != nil {
		t.Fatalf("get deposit: %v", err)
	}
	if got.Status != deposit.StatusPending {
		t.Fatalf("deposit status %s, want pending after rollback", got.Status)
	}
}

func TestSettleUnknownDeposit(t *testing.T) {
	f := newFixture()
	d := deposit.DepositRequest{ID: uuid.NewString(), UserID: uuid.NewString(), Currency: "BOB", Amount: decimal.NewFromFloat(10)}

	if _, err := f.engine.Settle(context.Background(), d, testNotification(10)); !errors.Is(err, ErrDepositNotFound) {
		t.Fatalf("expected ErrDepositNotFound, got %v", err)
	}
}

func TestSettleAtomicityUnderLedgerStepFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	d := f.seedDeposit(t, 150.75)
	entry := f.seedPendingEntry(t, d)

	f.engine.FailAfter(StepLedger)
	if _, err := f.engine.Settle(ctx, d, testNotification(150.75)); err == nil {
		t.Fatal("expected forced failure")
	}

	// No partial state may be visible: wallet uncredited, deposit pending,
	// ledger entry untouched.
	w, err := f.wallets.Get(ctx, d.UserID, d.Currency)
	if err != nil {
		t.Fatalf("get wallet: %v", err)
	}
	if !w.Balance.IsZero() {
		t.Fatalf("wallet balance %s, want 0 after aborted settlement", w.Balance)
	}
	got, err := f.deposits.Get(ctx, d.ID)
	if err != nil {
		t.Fatalf("get deposit: %v", err)
	}
	if got.Status != deposit.StatusPending {
		t.Fatalf("deposit status %s, want pending after aborted settlement", got.Status)
	}
	pend, ok := f.entries.Get(entry.ID)
	if !ok {
		t.Fatal("ledger entry vanished")
	}
	if pend.Status != ledger.StatusPending {
		t.Fatalf("ledger status %s, want pending after aborted settlement", pend.Status)
	}

	// A retry after the fault clears must succeed.
	f.engine.FailAfter("")
	if _, err := f.engine.Settle(ctx, d, testNotification(150.75)); err != nil {
		t.Fatalf("retry settle: %v", err)
	}
}

func TestSettleConcurrentAttemptsCreditOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	d := f.seedDeposit(t, 150.75)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.engine.Settle(ctx, d, testNotification(150.75))
		}(i)
	}
	wg.Wait()

	var succeeded, already int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrAlreadySettled):
			already++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly 1 successful settlement, got %d", succeeded)
	}
	if already != attempts-1 {
		t.Fatalf("expected %d already-settled attempts, got %d", attempts-1, already)
	}

	w, err := f.wallets.Get(ctx, d.UserID, d.Currency)
	if err != nil {
		t.Fatalf("get wallet: %v", err)
	}
	if !w.Balance.Equal(d.Amount) {
		t.Fatalf("wallet balance %s, want exactly one credit of %s", w.Balance, d.Amount)
	}
}

func TestSettleCancelledContext(t *testing.T) {
	f := newFixture()
	d := f.seedDeposit(t, 50)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.engine.Settle(ctx, d, testNotification(50)); err == nil {
		t.Fatal("expected error on cancelled context")
	}

	got, err := f.deposits.Get(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("get deposit: %v", err)
	}
	if got.Status != deposit.StatusPending {
		t.Fatalf("deposit status %s, want pending", got.Status)
	}
}
