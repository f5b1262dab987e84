package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet is a stored-value balance. Exactly one row exists per
// (user, currency) pair; mutation is always a relative adjustment so
// concurrent flows cannot clobber each other's credits.
type Wallet struct {
	UserID    string
	Currency  string
	Balance   decimal.Decimal
	UpdatedAt time.Time
}
