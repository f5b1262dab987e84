package notification

import "context"

// Log is the append-only store of received bank notifications. Every
// notification is persisted before reconciliation runs so disputes can be
// resolved against the raw payload later.
type Log interface {
	// Append persists the notification, assigning its ID and receipt
	// timestamp, and returns the stored record.
	Append(ctx context.Context, n BankNotification) (BankNotification, error)
	// Recent returns up to limit notifications, newest first.
	Recent(ctx context.Context, limit int) ([]BankNotification, error)
}
