// Package reconciler drives the reconciliation of inbound bank notifications:
// validate, match against pending deposits, settle, and report the outcome.
package reconciler

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/andino-pay/andino_pay/internal/matching"
	"github.com/andino-pay/andino_pay/internal/notification"
	"github.com/andino-pay/andino_pay/internal/settlement"
)

// Outcome reasons reported to callers and operators. "No match" and
// "settlement failed" are deliberately distinct so data problems can be told
// apart from transient storage failures.
const (
	ReasonInvalidNotification = "invalid notification data"
	ReasonNoMatch             = "no matching deposit found"
	ReasonLookupFailed        = "deposit lookup failed"
	ReasonAlreadySettled      = "deposit already settled"
	ReasonSettlementFailed    = "settlement failed"
)

// Outcome reports what a notification produced. Validated means a matching
// deposit was identified; Processed means the settlement committed.
type Outcome struct {
	Validated bool            `json:"validated"`
	Processed bool            `json:"processed"`
	Reason    string          `json:"reason,omitempty"`
	DepositID string          `json:"deposit_id,omitempty"`
	UserID    string          `json:"user_id,omitempty"`
	Amount    decimal.Decimal `json:"amount,omitempty"`
	Currency  string          `json:"currency,omitempty"`
}

// Service orchestrates matching and settlement for inbound notifications.
type Service struct {
	matcher *matching.Matcher
	engine  settlement.Engine
	logger  *slog.Logger
}

// NewService builds a reconciliation orchestrator.
func NewService(matcher *matching.Matcher, engine settlement.Engine, logger *slog.Logger) *Service {
	return &Service{matcher: matcher, engine: engine, logger: logger}
}

// HandleNotification validates the notification, looks for exactly one
// matching pending deposit and settles it. All paths return data, never an
// error: absence of a match and settlement failures are outcomes.
func (s *Service) HandleNotification(ctx context.Context, n notification.BankNotification) Outcome {
	if n.Amount.Sign() <= 0 || strings.TrimSpace(n.SenderName) == "" {
		s.logger.Info("notification not processable",
			"notification_id", n.ID, "bank", n.Bank, "reason", ReasonInvalidNotification)
		return Outcome{Reason: ReasonInvalidNotification}
	}

	dep, found, err := s.matcher.FindMatch(ctx, n.SenderName, n.Amount)
	if err != nil {
		s.logger.Error("deposit lookup failed",
			"notification_id", n.ID, "bank", n.Bank, "error", err)
		return Outcome{Reason: ReasonLookupFailed}
	}
	if !found {
		s.logger.Info("no matching deposit",
			"notification_id", n.ID, "bank", n.Bank, "amount", n.Amount.String())
		return Outcome{Reason: ReasonNoMatch}
	}

	res, err := s.engine.Settle(ctx, dep, n)
	if err != nil {
		if errors.Is(err, settlement.ErrAlreadySettled) {
			// Duplicate delivery lost the conditional transition; the wallet
			// was credited exactly once by the winning attempt.
			s.logger.Info("duplicate settlement attempt ignored",
				"deposit_id", dep.ID, "notification_id", n.ID)
			return matchedOutcome(dep.ID, dep.UserID, dep.Currency, ReasonAlreadySettled, dep.Amount)
		}
		s.logger.Error("settlement failed",
			"deposit_id", dep.ID, "notification_id", n.ID, "error", err)
		return matchedOutcome(dep.ID, dep.UserID, dep.Currency, ReasonSettlementFailed, dep.Amount)
	}

	s.logger.Info("deposit settled",
		"deposit_id", res.DepositID, "user_id", res.UserID,
		"amount", res.Amount.String(), "currency", res.Currency,
		"ledger_entries", res.LedgerEntries, "notification_id", n.ID)
	return Outcome{
		Validated: true,
		Processed: true,
		DepositID: res.DepositID,
		UserID:    res.UserID,
		Amount:    res.Amount,
		Currency:  res.Currency,
	}
}

func matchedOutcome(depositID, userID, currency, reason string, amount decimal.Decimal) Outcome {
	return Outcome{
		Validated: true,
		Reason:    reason,
		DepositID: depositID,
		UserID:    userID,
		Amount:    amount,
		Currency:  currency,
	}
}
