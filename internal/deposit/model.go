package deposit

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// StatusPending marks a request still awaiting a matching bank notification.
	StatusPending = "pending"
	// StatusCompleted marks a settled request. Terminal.
	StatusCompleted = "completed"
	// StatusExpired marks a request that aged out without a match. Terminal.
	StatusExpired = "expired"
)

// DepositRequest is a user's declared intent to fund their wallet by bank
// transfer. The payer name is declared at request time and matched verbatim
// against the notification sender. Once the status leaves pending the record
// is immutable.
type DepositRequest struct {
	ID        string
	UserID    string
	Currency  string
	Amount    decimal.Decimal
	FirstName string
	LastName  string
	Status    string
	CreatedAt time.Time
	// ProcessedAt is stamped when settlement completes the request.
	ProcessedAt *time.Time
	// NotificationData holds the notification payload that settled the
	// request, kept for dispute resolution.
	NotificationData []byte
}
