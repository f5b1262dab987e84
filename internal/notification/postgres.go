package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresLog persists notifications in the bank_notifications table:
// (id uuid primary key, bank text, amount numeric, sender_name text,
// transaction_type text, raw_text text, device_timestamp bigint,
// received_at timestamptz).
type PostgresLog struct {
	db *pgxpool.Pool
}

// NewPostgresLog constructs a Postgres-backed notification log.
func NewPostgresLog(db *pgxpool.Pool) *PostgresLog {
	return &PostgresLog{db: db}
}

// Append inserts the notification, assigning id and receipt time.
func (l *PostgresLog) Append(ctx context.Context, n BankNotification) (BankNotification, error) {
	n.ID = uuid.NewString()
	if n.ReceivedAt.IsZero() {
		n.ReceivedAt = time.Now().UTC()
	}
	_, err := l.db.Exec(ctx, `INSERT INTO bank_notifications
        (id, bank, amount, sender_name, transaction_type, raw_text, device_timestamp, received_at)
        VALUES ($1, $2, $3::numeric, $4, $5, $6, $7, $8)`,
		n.ID, n.Bank, n.Amount.String(), n.SenderName, n.TransactionType, n.RawText, n.DeviceTimestamp, n.ReceivedAt)
	if err != nil {
		return BankNotification{}, err
	}
	return n, nil
}

// Recent returns up to limit notifications, newest first.
func (l *PostgresLog) Recent(ctx context.Context, limit int) ([]BankNotification, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := l.db.Query(ctx, `SELECT id, bank, amount::text, sender_name,
        transaction_type, raw_text, device_timestamp, received_at
        FROM bank_notifications ORDER BY received_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BankNotification
	for rows.Next() {
		var n BankNotification
		var amount string
		if err := rows.Scan(&n.ID, &n.Bank, &amount, &n.SenderName, &n.TransactionType, &n.RawText, &n.DeviceTimestamp, &n.ReceivedAt); err != nil {
			return nil, err
		}
		if n.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, err
		}
		n.ReceivedAt = n.ReceivedAt.UTC()
		out = append(out, n)
	}
	return out, rows.Err()
}
