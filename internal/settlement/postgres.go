package settlement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/andino-pay/andino_pay/internal/deposit"
	"github.com/andino-pay/andino_pay/internal/ledger"
	"github.com/andino-pay/andino_pay/internal/notification"
)

const (
	defaultLedgerWindow  = time.Hour
	defaultSettleTimeout = 5 * time.Second
)

// PostgresEngine executes settlements inside a single PostgreSQL
// transaction. The database's isolation plus the conditional status update
// make the guarantee hold across multiple server instances sharing one
// database; no in-process locking is involved.
type PostgresEngine struct {
	db           *pgxpool.Pool
	ledgerWindow time.Duration
	timeout      time.Duration
}

// NewPostgresEngine constructs a Postgres-backed settlement engine.
// ledgerWindow bounds which pending ledger entries step 3 reconciles (1h when
// zero); timeout bounds the whole attempt (5s when zero).
func NewPostgresEngine(db *pgxpool.Pool, ledgerWindow, timeout time.Duration) *PostgresEngine {
	if ledgerWindow <= 0 {
		ledgerWindow = defaultLedgerWindow
	}
	if timeout <= 0 {
		timeout = defaultSettleTimeout
	}
	return &PostgresEngine{db: db, ledgerWindow: ledgerWindow, timeout: timeout}
}

// Settle credits the wallet, completes the deposit and reconciles pending
// ledger entries as one transaction. A deadline expiry aborts with a clean
// rollback; a failed (non-AlreadySettled) attempt is safe to retry.
func (e *PostgresEngine) Settle(ctx context.Context, dep deposit.DepositRequest, n notification.BankNotification) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	depositID, err := uuid.Parse(dep.ID)
	if err != nil {
		return Result{}, fmt.Errorf("invalid deposit id: %w", err)
	}
	userID, err := uuid.Parse(dep.UserID)
	if err != nil {
		return Result{}, fmt.Errorf("invalid user id: %w", err)
	}

	tx, err := e.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Result{}, fmt.Errorf("begin settlement: %w", err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	settledAt := time.Now().UTC()

	// Conditional transition first: this is the idempotency guard. Under
	// concurrent attempts only one transaction observes the row as pending;
	// the others block on the row lock, then see zero rows affected.
	tag, err := tx.Exec(ctx, `UPDATE deposit_requests
        SET status = $1, processed_at = $2, notification_data = $3
        WHERE id = $4 AND status = $5`,
		deposit.StatusCompleted, settledAt, n.Payload(), depositID, deposit.StatusPending)
	if err != nil {
		return Result{}, fmt.Errorf("complete deposit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var status string
		if err := tx.QueryRow(ctx, `SELECT status FROM deposit_requests WHERE id = $1`, depositID).Scan(&status); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return Result{}, ErrDepositNotFound
			}
			return Result{}, fmt.Errorf("inspect deposit: %w", err)
		}
		return Result{}, ErrAlreadySettled
	}

	// Relative adjustment only; overwriting the balance would lose concurrent
	// credits from other flows.
	tag, err = tx.Exec(ctx, `UPDATE wallets
        SET balance = balance + $1::numeric, updated_at = $2
        WHERE user_id = $3 AND currency = $4`,
		dep.Amount.String(), settledAt, userID, dep.Currency)
	if err != nil {
		return Result{}, fmt.Errorf("credit wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Result{}, ErrWalletNotFound
	}

	metadata, err := json.Marshal(CompletionMetadata(dep, n))
	if err != nil {
		return Result{}, fmt.Errorf("encode ledger metadata: %w", err)
	}

	// Best-effort reconciliation: the deposit flow may or may not have
	// recorded a pending ledger entry yet, so zero rows is not a failure.
	tag, err = tx.Exec(ctx, `UPDATE transactions
        SET status = $1, completed_at = $2, metadata = $3
        WHERE user_id = $4 AND type = $5 AND currency = $6
          AND amount = $7::numeric AND status = $8 AND created_at >= $9`,
		ledger.StatusCompleted, settledAt, metadata,
		userID, ledger.TypeDeposit, dep.Currency,
		dep.Amount.String(), ledger.StatusPending, settledAt.Add(-e.ledgerWindow))
	if err != nil {
		return Result{}, fmt.Errorf("reconcile ledger: %w", err)
	}
	closed := int(tag.RowsAffected())

	if err := tx.Commit(ctx); err != nil {
		return Result{}, fmt.Errorf("commit settlement: %w", err)
	}

	return Result{
		DepositID:     dep.ID,
		UserID:        dep.UserID,
		Currency:      dep.Currency,
		Amount:        dep.Amount,
		LedgerEntries: closed,
		SettledAt:     settledAt,
	}, nil
}
