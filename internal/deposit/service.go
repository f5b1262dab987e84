package deposit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andino-pay/andino_pay/internal/ledger"
	"github.com/andino-pay/andino_pay/internal/wallet"
)

// Service records deposit intents: the request itself, a PENDING ledger
// entry for it, and the wallet row the later settlement will credit.
type Service struct {
	deposits Repository
	wallets  wallet.Repository
	entries  ledger.Repository
}

// NewService builds a deposit intake service.
func NewService(deposits Repository, wallets wallet.Repository, entries ledger.Repository) *Service {
	return &Service{deposits: deposits, wallets: wallets, entries: entries}
}

// CreateInput captures the data a user declares when announcing a transfer.
type CreateInput struct {
	UserID    string
	Currency  string
	Amount    decimal.Decimal
	FirstName string
	LastName  string
}

// Create registers a deposit request. The wallet row is provisioned up front
// so settlement never has to create one, and a PENDING ledger entry is
// recorded for the expected credit.
func (s *Service) Create(ctx context.Context, input CreateInput) (DepositRequest, error) {
	if _, err := uuid.Parse(input.UserID); err != nil {
		return DepositRequest{}, fmt.Errorf("invalid user id: %w", err)
	}
	if input.Amount.Sign() <= 0 {
		return DepositRequest{}, fmt.Errorf("amount must be positive")
	}
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	if firstName == "" || lastName == "" {
		return DepositRequest{}, fmt.Errorf("payer first and last name are required")
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = "BOB"
	}

	if err := s.wallets.Ensure(ctx, input.UserID, currency); err != nil {
		return DepositRequest{}, fmt.Errorf("provision wallet: %w", err)
	}

	d := DepositRequest{
		ID:        uuid.NewString(),
		UserID:    input.UserID,
		Currency:  currency,
		Amount:    input.Amount,
		FirstName: firstName,
		LastName:  lastName,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.deposits.Create(ctx, d); err != nil {
		return DepositRequest{}, fmt.Errorf("create deposit request: %w", err)
	}

	if _, err := s.entries.CreatePending(ctx, ledger.Transaction{
		UserID:   d.UserID,
		Type:     ledger.TypeDeposit,
		Currency: d.Currency,
		Amount:   d.Amount,
	}); err != nil {
		return DepositRequest{}, fmt.Errorf("record pending transaction: %w", err)
	}

	return d, nil
}

// PendingForUser lists a user's open deposit requests, newest first.
func (s *Service) PendingForUser(ctx context.Context, userID string) ([]DepositRequest, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	return s.deposits.PendingByUser(ctx, userID)
}
