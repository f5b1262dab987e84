package matching

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andino-pay/andino_pay/internal/deposit"
)

// amountTolerance absorbs decimal/float rounding introduced by upstream
// formatting. A candidate matches only when the absolute difference is
// strictly below it, so a difference of exactly 0.01 is a non-match.
var amountTolerance = decimal.New(1, -2)

const defaultWindow = 24 * time.Hour

// Matcher searches open deposit requests for the one a notification settles.
type Matcher struct {
	deposits deposit.Repository
	window   time.Duration
}

// NewMatcher builds a matcher scanning pending deposits inside the trailing
// window (24h when zero).
func NewMatcher(deposits deposit.Repository, window time.Duration) *Matcher {
	if window <= 0 {
		window = defaultWindow
	}
	return &Matcher{deposits: deposits, window: window}
}

// FindMatch returns the first pending deposit whose normalized payer name
// equals the normalized sender name and whose amount is within tolerance.
// Candidates are scanned newest first; the scan stops at the first hit.
// An empty sender or non-positive amount short-circuits to no-match without
// touching storage. No-match is data, not an error.
func (m *Matcher) FindMatch(ctx context.Context, senderName string, amount decimal.Decimal) (deposit.DepositRequest, bool, error) {
	sender := Normalize(senderName)
	if sender == "" || amount.Sign() <= 0 {
		return deposit.DepositRequest{}, false, nil
	}

	candidates, err := m.deposits.PendingWithin(ctx, m.window)
	if err != nil {
		return deposit.DepositRequest{}, false, err
	}

	for _, d := range candidates {
		fullName := Normalize(d.FirstName) + " " + Normalize(d.LastName)
		if fullName != sender {
			continue
		}
		if d.Amount.Sub(amount).Abs().LessThan(amountTolerance) {
			return d, true, nil
		}
	}
	return deposit.DepositRequest{}, false, nil
}
