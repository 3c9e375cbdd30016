package models

import "fmt"

// edges lists the legal forward transitions. CANCELLED and ERROR are
// reachable from every non-terminal state and are handled in CanTransition.
var edges = map[TicketState][]TicketState{
	TicketStateAwaitingTicket:         {TicketStateAwaitingMiddleman},
	TicketStateAwaitingMiddleman:      {TicketStateAwaitingPaymentAddress},
	TicketStateAwaitingPaymentAddress: {TicketStatePaymentSent},
	TicketStatePaymentSent:            {TicketStateAwaitingGameStart},
	TicketStateAwaitingGameStart:      {TicketStateGameInProgress},
	TicketStateGameInProgress:         {TicketStateAwaitingPayout, TicketStateGameComplete},
	TicketStateAwaitingPayout:         {TicketStateGameComplete},
}

// IsTerminal reports whether no transition leaves s
func (s TicketState) IsTerminal() bool {
	switch s {
	case TicketStateGameComplete, TicketStateCancelled, TicketStateError:
		return true
	}
	return false
}

// IsValid reports whether s is a known state
func (s TicketState) IsValid() bool {
	if _, ok := edges[s]; ok {
		return true
	}
	return s.IsTerminal()
}

// CanTransition reports whether from -> to is a legal edge
func CanTransition(from, to TicketState) bool {
	if from.IsTerminal() || !from.IsValid() {
		return false
	}
	if to == TicketStateCancelled || to == TicketStateError {
		return true
	}
	for _, next := range edges[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition is a state change together with the fields the target state
// requires. The set of transitions is closed to this package.
type Transition interface {
	// Target is the state the ticket moves to
	Target() TicketState

	apply(d *TicketData) error
}

// Apply validates the edge and the transition's fields, then returns the
// updated ticket. The input ticket is not modified.
func (t *Ticket) Apply(tr Transition) (*Ticket, error) {
	if tr == nil {
		return nil, fmt.Errorf("%w: nil transition", ErrInvalidStateTransition)
	}
	if !CanTransition(t.State, tr.Target()) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, t.State, tr.Target())
	}
	next := t.Clone()
	if err := tr.apply(&next.Data); err != nil {
		return nil, err
	}
	next.State = tr.Target()
	return next, nil
}

func missing(state TicketState, field string) error {
	return fmt.Errorf("%w: %s requires %s", ErrInvalidStateTransition, state, field)
}

// AwaitingMiddleman follows latching
type AwaitingMiddleman struct{}

func (AwaitingMiddleman) Target() TicketState { return TicketStateAwaitingMiddleman }

func (AwaitingMiddleman) apply(*TicketData) error { return nil }

// AwaitingPaymentAddress records the middleman who claimed the ticket
type AwaitingPaymentAddress struct {
	MiddlemanID string
}

func (AwaitingPaymentAddress) Target() TicketState { return TicketStateAwaitingPaymentAddress }

func (tr AwaitingPaymentAddress) apply(d *TicketData) error {
	if tr.MiddlemanID == "" {
		return missing(tr.Target(), "middleman id")
	}
	d.MiddlemanID = tr.MiddlemanID
	return nil
}

// PaymentSent locks the ticket to a broadcast payment
type PaymentSent struct {
	RecipientAddress string
	SendTxID         string
	PaymentID        string
}

func (PaymentSent) Target() TicketState { return TicketStatePaymentSent }

func (tr PaymentSent) apply(d *TicketData) error {
	if tr.RecipientAddress == "" {
		return missing(tr.Target(), "recipient address")
	}
	if tr.SendTxID == "" {
		return missing(tr.Target(), "send tx id")
	}
	d.RecipientAddress = tr.RecipientAddress
	d.SendTxID = tr.SendTxID
	d.PaymentID = tr.PaymentID
	d.PaymentLocked = true
	return nil
}

// AwaitingGameStart follows the middleman acknowledging our payment
type AwaitingGameStart struct{}

func (AwaitingGameStart) Target() TicketState { return TicketStateAwaitingGameStart }

func (AwaitingGameStart) apply(d *TicketData) error {
	if !d.PaymentLocked {
		return missing(TicketStateAwaitingGameStart, "a locked payment")
	}
	return nil
}

// GameInProgress starts a fresh score
type GameInProgress struct{}

func (GameInProgress) Target() TicketState { return TicketStateGameInProgress }

func (GameInProgress) apply(d *TicketData) error {
	d.GameScores = Scores{}
	d.Rounds = nil
	d.PendingBotRoll = nil
	d.PendingOpponentRoll = nil
	return nil
}

// AwaitingPayout records the final score of a game the bot won
type AwaitingPayout struct {
	Scores Scores
}

func (AwaitingPayout) Target() TicketState { return TicketStateAwaitingPayout }

func (tr AwaitingPayout) apply(d *TicketData) error {
	if tr.Scores.Bot <= tr.Scores.Opponent {
		return missing(tr.Target(), "a bot win")
	}
	d.GameScores = tr.Scores
	d.PendingBotRoll = nil
	d.PendingOpponentRoll = nil
	return nil
}

// GameComplete ends the engagement. A bot win needs the payout tx id.
type GameComplete struct {
	Winner     Side
	PayoutTxID string
}

func (GameComplete) Target() TicketState { return TicketStateGameComplete }

func (tr GameComplete) apply(d *TicketData) error {
	switch tr.Winner {
	case SideBot:
		if tr.PayoutTxID == "" {
			return missing(tr.Target(), "payout tx id")
		}
	case SideOpponent:
	default:
		return missing(tr.Target(), "winner")
	}
	d.GameWinner = tr.Winner
	d.PayoutTxID = tr.PayoutTxID
	d.PendingBotRoll = nil
	d.PendingOpponentRoll = nil
	return nil
}

// Cancelled records a middleman abort
type Cancelled struct {
	Reason string
}

func (Cancelled) Target() TicketState { return TicketStateCancelled }

func (tr Cancelled) apply(d *TicketData) error {
	d.CancelReason = tr.Reason
	return nil
}

// Errored parks a ticket for operator review
type Errored struct {
	Reason string
}

func (Errored) Target() TicketState { return TicketStateError }

func (tr Errored) apply(d *TicketData) error {
	if tr.Reason == "" {
		return missing(tr.Target(), "reason")
	}
	d.ErrorReason = tr.Reason
	return nil
}
