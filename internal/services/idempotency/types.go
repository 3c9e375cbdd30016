package idempotency

import "github.com/shopspring/decimal"

//go:generate mockgen -package=mocks -destination=mocks/mock_notifier.go github.com/KirkDiggler/ticketsnipe/internal/services/idempotency Notifier

// Notifier is told whenever the store changes so it can be snapshotted
type Notifier interface {
	MarkDirty()
}

type RecordIntentInput struct {
	PaymentID       string
	Address         string
	Amount          decimal.Decimal
	TicketChannelID string
}

type CanSendOutput struct {
	CanSend bool
	Reason  string
}
