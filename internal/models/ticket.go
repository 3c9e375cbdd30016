package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TicketState represents where a ticket is in its lifecycle
type TicketState string

const (
	// TicketStateAwaitingTicket is the state of a freshly latched ticket
	TicketStateAwaitingTicket TicketState = "AWAITING_TICKET"

	// TicketStateAwaitingMiddleman waits for a middleman to claim the ticket
	TicketStateAwaitingMiddleman TicketState = "AWAITING_MIDDLEMAN"

	// TicketStateAwaitingPaymentAddress waits for the middleman's escrow address
	TicketStateAwaitingPaymentAddress TicketState = "AWAITING_PAYMENT_ADDRESS"

	// TicketStatePaymentSent means our stake has been broadcast to escrow
	TicketStatePaymentSent TicketState = "PAYMENT_SENT"

	// TicketStateAwaitingGameStart waits for the middleman's go signal
	TicketStateAwaitingGameStart TicketState = "AWAITING_GAME_START"

	// TicketStateGameInProgress means dice are being rolled
	TicketStateGameInProgress TicketState = "GAME_IN_PROGRESS"

	// TicketStateAwaitingPayout means we won and wait for the pot to arrive
	TicketStateAwaitingPayout TicketState = "AWAITING_PAYOUT"

	// TicketStateGameComplete is the successful end of an engagement
	TicketStateGameComplete TicketState = "GAME_COMPLETE"

	// TicketStateCancelled means the middleman aborted the ticket
	TicketStateCancelled TicketState = "CANCELLED"

	// TicketStateError means a handler hit an unrecoverable failure
	TicketStateError TicketState = "ERROR"
)

// Side identifies a game participant
type Side string

const (
	SideBot      Side = "bot"
	SideOpponent Side = "opponent"
)

// Scores holds round wins per side
type Scores struct {
	Bot      int `json:"bot"`
	Opponent int `json:"opponent"`
}

// Round is one pair of rolls
type Round struct {
	BotRoll      int  `json:"bot_roll"`
	OpponentRoll int  `json:"opponent_roll"`
	Winner       Side `json:"winner"`
}

// TicketData carries the fields of a ticket that transitions fill in
type TicketData struct {
	OpponentID   string          `json:"opponent_id"`
	OpponentName string          `json:"opponent_name,omitempty"`
	OpponentBet  decimal.Decimal `json:"opponent_bet"`
	OurBet       decimal.Decimal `json:"our_bet"`
	MiddlemanID  string          `json:"middleman_id,omitempty"`
	Chain        Chain           `json:"chain"`

	RecipientAddress string `json:"recipient_address,omitempty"`
	PaymentLocked    bool   `json:"payment_locked"`
	PaymentID        string `json:"payment_id,omitempty"`
	SendTxID         string `json:"send_tx_id,omitempty"`

	GameScores          Scores  `json:"game_scores"`
	Rounds              []Round `json:"rounds,omitempty"`
	PendingBotRoll      *int    `json:"pending_bot_roll,omitempty"`
	PendingOpponentRoll *int    `json:"pending_opponent_roll,omitempty"`
	GameWinner          Side    `json:"game_winner,omitempty"`
	PayoutTxID          string  `json:"payout_tx_id,omitempty"`

	CancelReason string `json:"cancel_reason,omitempty"`
	ErrorReason  string `json:"error_reason,omitempty"`
}

// Ticket is a private channel hosting one wagered game
type Ticket struct {
	// ChannelID is the ticket channel and the ticket's unique key
	ChannelID string `json:"channel_id"`

	// State is the current lifecycle state
	State TicketState `json:"state"`

	// Data holds the transition-protected fields
	Data TicketData `json:"data"`

	// CreatedAt is when the ticket was latched
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the ticket last changed
	UpdatedAt time.Time `json:"updated_at"`
}

// Pot is the total amount at stake, which is what the winner receives
func (t *Ticket) Pot() decimal.Decimal {
	return t.Data.OpponentBet.Add(t.Data.OurBet)
}

// IsTerminal reports whether the ticket can no longer change state
func (t *Ticket) IsTerminal() bool {
	return t.State.IsTerminal()
}

// IsParticipant reports whether userID plays in this ticket
func (t *Ticket) IsParticipant(userID string) bool {
	return t.Data.OpponentID == userID
}

// Clone returns a deep copy so callers never share mutable state with the
// ticket manager
func (t *Ticket) Clone() *Ticket {
	if t == nil {
		return nil
	}
	c := *t
	if t.Data.Rounds != nil {
		c.Data.Rounds = make([]Round, len(t.Data.Rounds))
		copy(c.Data.Rounds, t.Data.Rounds)
	}
	if t.Data.PendingBotRoll != nil {
		v := *t.Data.PendingBotRoll
		c.Data.PendingBotRoll = &v
	}
	if t.Data.PendingOpponentRoll != nil {
		v := *t.Data.PendingOpponentRoll
		c.Data.PendingOpponentRoll = &v
	}
	return &c
}
