package deposit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresRepository stores deposit requests in the deposit_requests table:
// (id uuid primary key, user_id uuid, currency text, amount numeric,
// first_name text, last_name text, status text, created_at timestamptz,
// processed_at timestamptz null, notification_data jsonb null).
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a deposit request record.
func (r *PostgresRepository) Create(ctx context.Context, d DepositRequest) error {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO deposit_requests
        (id, user_id, currency, amount, first_name, last_name, status, created_at)
        VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8)`,
		id, userID, d.Currency, d.Amount.String(), d.FirstName, d.LastName, d.Status, d.CreatedAt.UTC())
	return err
}

const selectColumns = `id, user_id, currency, amount::text, first_name, last_name,
        status, created_at, processed_at, notification_data`

// Get fetches a deposit request by identifier.
func (r *PostgresRepository) Get(ctx context.Context, id string) (DepositRequest, error) {
	depositID, err := uuid.Parse(id)
	if err != nil {
		return DepositRequest{}, err
	}
	row := r.db.QueryRow(ctx, `SELECT `+selectColumns+` FROM deposit_requests WHERE id = $1`, depositID)
	d, err := scanDeposit(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return DepositRequest{}, ErrNotFound
	}
	return d, err
}

// PendingWithin returns pending requests created inside the trailing window,
// newest first.
func (r *PostgresRepository) PendingWithin(ctx context.Context, window time.Duration) ([]DepositRequest, error) {
	cutoff := time.Now().UTC().Add(-window)
	rows, err := r.db.Query(ctx, `SELECT `+selectColumns+` FROM deposit_requests
        WHERE status = $1 AND created_at >= $2
        ORDER BY created_at DESC`, StatusPending, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDeposits(rows)
}

// PendingByUser returns a user's open requests, newest first.
func (r *PostgresRepository) PendingByUser(ctx context.Context, userID string) ([]DepositRequest, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `SELECT `+selectColumns+` FROM deposit_requests
        WHERE status = $1 AND user_id = $2
        ORDER BY created_at DESC`, StatusPending, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDeposits(rows)
}

func scanDeposits(rows pgx.Rows) ([]DepositRequest, error) {
	var out []DepositRequest
	for rows.Next() {
		d, err := scanDeposit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanDeposit(row pgx.Row) (DepositRequest, error) {
	var (
		d           DepositRequest
		id, userID  uuid.UUID
		amount      string
		processedAt *time.Time
	)
	if err := row.Scan(&id, &userID, &d.Currency, &amount, &d.FirstName, &d.LastName,
		&d.Status, &d.CreatedAt, &processedAt, &d.NotificationData); err != nil {
		return DepositRequest{}, err
	}
	d.ID = id.String()
	d.UserID = userID.String()
	var err error
	if d.Amount, err = decimal.NewFromString(amount); err != nil {
		return DepositRequest{}, err
	}
	d.CreatedAt = d.CreatedAt.UTC()
	if processedAt != nil {
		t := processedAt.UTC()
		d.ProcessedAt = &t
	}
	return d, nil
}
