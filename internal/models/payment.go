package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the progress of an outgoing payment. Statuses only move
// forward: INTENT, then BROADCAST, then CONFIRMED.
type PaymentStatus string

const (
	// PaymentStatusIntent means the payment id has been claimed but nothing
	// has been sent to the network yet
	PaymentStatusIntent PaymentStatus = "INTENT"

	// PaymentStatusBroadcast means the transfer was handed to the network
	PaymentStatusBroadcast PaymentStatus = "BROADCAST"

	// PaymentStatusConfirmed means the middleman acknowledged the funds
	PaymentStatusConfirmed PaymentStatus = "CONFIRMED"
)

// Rank orders statuses; unknown statuses rank 0
func (s PaymentStatus) Rank() int {
	switch s {
	case PaymentStatusIntent:
		return 1
	case PaymentStatusBroadcast:
		return 2
	case PaymentStatusConfirmed:
		return 3
	default:
		return 0
	}
}

// IdempotencyRecord tracks a single (ticket, address, amount) payment
type IdempotencyRecord struct {
	PaymentID       string          `json:"payment_id"`
	Status          PaymentStatus   `json:"status"`
	TxID            string          `json:"tx_id,omitempty"`
	Address         string          `json:"address"`
	Amount          decimal.Decimal `json:"amount"`
	TicketChannelID string          `json:"ticket_channel_id"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
