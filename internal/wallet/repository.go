package wallet

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ErrNotFound indicates no wallet row exists for the (user, currency) pair.
var ErrNotFound = errors.New("wallet not found")

// Repository persists wallet balances.
type Repository interface {
	// Ensure provisions a zero-balance row for the pair if absent.
	Ensure(ctx context.Context, userID, currency string) error
	Get(ctx context.Context, userID, currency string) (Wallet, error)
}

// PostgresRepository stores wallets in the wallets table:
// (user_id uuid, currency text, balance numeric, updated_at timestamptz,
// primary key (user_id, currency)).
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Ensure provisions a zero-balance row for the pair if absent.
func (r *PostgresRepository) Ensure(ctx context.Context, userID, currency string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO wallets (user_id, currency, balance, updated_at)
        VALUES ($1, $2, 0, NOW())
        ON CONFLICT (user_id, currency) DO NOTHING`, uid, currency)
	return err
}

// Get fetches the wallet for the (user, currency) pair.
func (r *PostgresRepository) Get(ctx context.Context, userID, currency string) (Wallet, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return Wallet{}, err
	}
	row := r.db.QueryRow(ctx, `SELECT user_id, currency, balance::text, updated_at
        FROM wallets WHERE user_id = $1 AND currency = $2`, uid, currency)
	var (
		w       Wallet
		scanned uuid.UUID
		balance string
	)
	if err := row.Scan(&scanned, &w.Currency, &balance, &w.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Wallet{}, ErrNotFound
		}
		return Wallet{}, err
	}
	w.UserID = scanned.String()
	if w.Balance, err = decimal.NewFromString(balance); err != nil {
		return Wallet{}, err
	}
	w.UpdatedAt = w.UpdatedAt.UTC()
	return w, nil
}
