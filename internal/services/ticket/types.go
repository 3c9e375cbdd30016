package ticket

import "github.com/KirkDiggler/ticketsnipe/internal/models"

//go:generate mockgen -package=mocks -destination=mocks/mock_notifier.go github.com/KirkDiggler/ticketsnipe/internal/services/ticket Notifier

// Notifier is told whenever the manager changes so it can be snapshotted
type Notifier interface {
	MarkDirty()
}

// CreateTicketInput seeds a ticket from a consumed pending wager
type CreateTicketInput struct {
	ChannelID string
	Wager     *models.PendingWager
	Chain     models.Chain
}

type RestoreInput struct {
	Tickets         []*models.Ticket
	PendingWagers   []*models.PendingWager
	Cooldowns       []*models.Cooldown
	RetiredChannels []*models.RetiredChannel
	ClaimedPayouts  []*models.ClaimedPayout
}

type RestoreOutput struct {
	// Rejected are tickets whose opponent is already held by another
	// ticket; the older one is kept
	Rejected []*models.Ticket
}

type SnapshotOutput struct {
	Tickets         []*models.Ticket
	PendingWagers   []*models.PendingWager
	Cooldowns       []*models.Cooldown
	RetiredChannels []*models.RetiredChannel
	ClaimedPayouts  []*models.ClaimedPayout
}

type SweepOutput struct {
	ExpiredWagers    int
	ExpiredCooldowns int
	RemovedTickets   []string

	// ForgottenRecords counts retired channels and claimed payouts past
	// retention
	ForgottenRecords int
}

// DataMutator edits game bookkeeping on a ticket. It must not touch fields
// owned by transitions.
type DataMutator func(d *models.TicketData) error
