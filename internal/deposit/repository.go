package deposit

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates the deposit request does not exist.
var ErrNotFound = errors.New("deposit request not found")

// Repository persists deposit requests.
type Repository interface {
	Create(ctx context.Context, d DepositRequest) error
	Get(ctx context.Context, id string) (DepositRequest, error)
	// PendingWithin returns pending requests created inside the trailing
	// window, newest first. Requests older than the window are excluded even
	// though still pending; they are not eligible for matching.
	PendingWithin(ctx context.Context, window time.Duration) ([]DepositRequest, error)
	// PendingByUser returns a user's open requests, newest first.
	PendingByUser(ctx context.Context, userID string) ([]DepositRequest, error)
}
