package ledger

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresRepository stores ledger entries in the transactions table:
// (id uuid primary key, user_id uuid, type text, currency text,
// amount numeric, status text, created_at timestamptz,
// completed_at timestamptz null, metadata jsonb null).
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreatePending records a new PENDING entry, assigning id and creation time.
func (r *PostgresRepository) CreatePending(ctx context.Context, t Transaction) (Transaction, error) {
	userID, err := uuid.Parse(t.UserID)
	if err != nil {
		return Transaction{}, err
	}
	t.ID = uuid.NewString()
	t.Status = StatusPending
	t.CreatedAt = time.Now().UTC()
	_, err = r.db.Exec(ctx, `INSERT INTO transactions
        (id, user_id, type, currency, amount, status, created_at)
        VALUES ($1, $2, $3, $4, $5::numeric, $6, $7)`,
		t.ID, userID, t.Type, t.Currency, t.Amount.String(), t.Status, t.CreatedAt)
	if err != nil {
		return Transaction{}, err
	}
	return t, nil
}

// ListByUser returns a user's entries, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit int) ([]Transaction, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, `SELECT id, user_id, type, currency, amount::text,
        status, created_at, completed_at, metadata
        FROM transactions WHERE user_id = $1
        ORDER BY created_at DESC LIMIT $2`, uid, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var (
			t           Transaction
			id, user    uuid.UUID
			amount      string
			completedAt *time.Time
			metadata    []byte
		)
		if err := rows.Scan(&id, &user, &t.Type, &t.Currency, &amount, &t.Status,
			&t.CreatedAt, &completedAt, &metadata); err != nil {
			return nil, err
		}
		t.ID = id.String()
		t.UserID = user.String()
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, err
		}
		t.CreatedAt = t.CreatedAt.UTC()
		if completedAt != nil {
			c := completedAt.UTC()
			t.CompletedAt = &c
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &t.Metadata); err != nil {
				return nil, err
			}
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
