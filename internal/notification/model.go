package notification

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// BankNotification is a structured bank-transfer push notification forwarded
// by the mobile relay. Immutable once appended to the log; identity is
// assigned at ingestion.
type BankNotification struct {
	ID              string          `json:"id"`
	Bank            string          `json:"bank"`
	Amount          decimal.Decimal `json:"amount"`
	SenderName      string          `json:"sender_name"`
	TransactionType string          `json:"transaction_type"`
	RawText         string          `json:"raw_text"`
	// DeviceTimestamp is the epoch-millisecond capture time reported by the
	// relay device. Audit only; ReceivedAt is authoritative.
	DeviceTimestamp int64     `json:"device_timestamp,omitempty"`
	ReceivedAt      time.Time `json:"received_at"`
}

// Payload serializes the notification for attachment to a settled deposit as
// its audit trail. Marshalling a fixed struct cannot fail, so errors are
// swallowed here.
func (n BankNotification) Payload() []byte {
	b, _ := json.Marshal(n)
	return b
}
