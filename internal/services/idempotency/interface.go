package idempotency

import (
	"time"

	"github.com/KirkDiggler/ticketsnipe/internal/models"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/ticketsnipe/internal/services/idempotency Service

// Service guards payments so each one is sent at most once
type Service interface {
	// RecordIntent claims a payment id. Only the first claim returns true.
	RecordIntent(input *RecordIntentInput) (bool, error)

	// RecordBroadcast moves an intent to BROADCAST with its tx id
	RecordBroadcast(paymentID, txID string) error

	// RecordConfirmed moves a broadcast payment to CONFIRMED
	RecordConfirmed(paymentID string) error

	CanSend(paymentID string) *CanSendOutput
	Get(paymentID string) (*models.IdempotencyRecord, bool)

	// ForTicket lists copies of a ticket's payment records
	ForTicket(ticketID string) []*models.IdempotencyRecord

	// Prune drops records older than cutoff whose ticket is not live
	Prune(cutoff time.Time, live func(ticketID string) bool) int
}
