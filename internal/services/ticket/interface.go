package ticket

import (
	"time"

	"github.com/KirkDiggler/ticketsnipe/internal/models"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/ticketsnipe/internal/services/ticket Service

// Service is the ticket registry the engine and payout monitor work against
type Service interface {
	// StorePendingWager records a countered offer
	StorePendingWager(w *models.PendingWager) error

	// PeekPendingWager returns a live wager without consuming it
	PeekPendingWager(userID string) (*models.PendingWager, bool)

	// ConsumePendingWager removes and returns a live wager
	ConsumePendingWager(userID string) (*models.PendingWager, error)

	// PendingWagers lists live wagers, oldest first
	PendingWagers() []*models.PendingWager

	// CreateTicket registers a new ticket in AWAITING_TICKET
	CreateTicket(input *CreateTicketInput) (*models.Ticket, error)

	GetTicket(channelID string) (*models.Ticket, error)
	GetTicketByUser(userID string) (*models.Ticket, error)
	GetActiveTickets() []*models.Ticket
	GetTicketsInState(state models.TicketState) []*models.Ticket

	// Transition moves a ticket along a legal edge
	Transition(channelID string, tr models.Transition) (*models.Ticket, error)

	// UpdateData edits game bookkeeping without changing state
	UpdateData(channelID string, mutate DataMutator) (*models.Ticket, error)

	// RemoveTicket drops a ticket and retires its channel
	RemoveTicket(channelID string) error

	// IsRetired reports whether a channel already hosted a ticket
	IsRetired(channelID string) bool

	SetCooldown(userID string, d time.Duration)
	IsCoolingDown(userID string) bool

	// ClaimedPayoutTx reports whether a payout tx already completed a ticket
	ClaimedPayoutTx(txID string) bool

	// Sweep drops expired and settled records
	Sweep() *SweepOutput
}
