package persistence

import (
	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/KirkDiggler/ticketsnipe/internal/services/ticket"
)

// TicketSource is the part of the ticket manager that is persisted
type TicketSource interface {
	Snapshot() *ticket.SnapshotOutput
	Restore(input *ticket.RestoreInput) *ticket.RestoreOutput
}

// PaymentSource is the part of the idempotency store that is persisted
type PaymentSource interface {
	Snapshot() []*models.IdempotencyRecord
	Restore(records []*models.IdempotencyRecord)
}

// RestoreOutput summarizes a restore
type RestoreOutput struct {
	Found         bool
	Tickets       int
	PendingWagers int
	Payments      int
	Cooldowns     int

	RetiredChannels int
	ClaimedPayouts  int

	Quarantined int
}
