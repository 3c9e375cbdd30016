package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/KirkDiggler/ticketsnipe/internal/services/messaging"
)

// handleTicket runs under the channel lock and applies the error policy
func (e *Engine) handleTicket(ctx context.Context, msg *models.Message) error {
	e.handleFailure(ctx, msg, e.dispatch(ctx, msg))
	return nil
}

func (e *Engine) dispatch(ctx context.Context, msg *models.Message) error {
	t, err := e.tickets.GetTicket(msg.ChannelID)
	if errors.Is(err, models.ErrTicketNotFound) {
		t, err = e.latch(ctx, msg)
		if err != nil || t == nil {
			return err
		}
	} else if err != nil {
		return err
	}

	if t.IsTerminal() {
		return nil
	}

	if e.isMiddleman(msg.AuthorID) && abortPattern.MatchString(msg.Content) {
		return e.cancel(ctx, t, msg)
	}

	for {
		next, err := e.step(ctx, t, msg)
		if err != nil || next == nil {
			return err
		}
		t = next
	}
}

// step handles msg in the ticket's current state. It returns the updated
// ticket when the same message should also be handled in the new state.
func (e *Engine) step(ctx context.Context, t *models.Ticket, msg *models.Message) (*models.Ticket, error) {
	switch t.State {
	case models.TicketStateAwaitingMiddleman:
		return e.onAwaitingMiddleman(t, msg)
	case models.TicketStateAwaitingPaymentAddress:
		return nil, e.onAwaitingPaymentAddress(ctx, t, msg)
	case models.TicketStatePaymentSent:
		return e.onPaymentSent(ctx, t, msg)
	case models.TicketStateAwaitingGameStart:
		return nil, e.onAwaitingGameStart(ctx, t, msg)
	case models.TicketStateGameInProgress:
		return nil, e.onGameInProgress(ctx, t, msg)
	default:
		// AWAITING_TICKET is left by latching; AWAITING_PAYOUT belongs to
		// the payout monitor
		return nil, nil
	}
}

// onAwaitingMiddleman binds the first middleman who speaks
func (e *Engine) onAwaitingMiddleman(t *models.Ticket, msg *models.Message) (*models.Ticket, error) {
	if !e.isMiddleman(msg.AuthorID) {
		return nil, nil
	}
	return e.tickets.Transition(t.ChannelID, models.AwaitingPaymentAddress{MiddlemanID: msg.AuthorID})
}

func (e *Engine) onAwaitingPaymentAddress(ctx context.Context, t *models.Ticket, msg *models.Message) error {
	if !e.isMiddleman(msg.AuthorID) {
		return nil
	}

	addr, ok := e.extractor.Extract(msg.Content, t.Data.Chain)
	if !ok {
		if bad := e.extractor.Rejected(msg.Content, t.Data.Chain); bad != "" {
			return fmt.Errorf("%w: %s is not a %s address", models.ErrInvalidAddress, bad, t.Data.Chain)
		}
		return nil
	}
	if e.registry.IsOwnAddress(addr, t.Data.Chain) {
		return fmt.Errorf("%w: %s", models.ErrSelfAddressRejected, addr)
	}
	return e.pay(ctx, t, addr)
}

// onPaymentSent waits for the middleman to acknowledge our payment. A go
// signal also starts the game.
func (e *Engine) onPaymentSent(ctx context.Context, t *models.Ticket, msg *models.Message) (*models.Ticket, error) {
	if !e.isMiddleman(msg.AuthorID) {
		return nil, nil
	}
	start := startPattern.MatchString(msg.Content)
	if !start && !ackPattern.MatchString(msg.Content) {
		return nil, nil
	}

	next, err := e.tickets.Transition(t.ChannelID, models.AwaitingGameStart{})
	if err != nil {
		return nil, err
	}
	e.confirmPayment(next)
	if start {
		return next, nil
	}
	return nil, nil
}

func (e *Engine) onAwaitingGameStart(ctx context.Context, t *models.Ticket, msg *models.Message) error {
	if !e.isMiddleman(msg.AuthorID) || !startPattern.MatchString(msg.Content) {
		return nil
	}
	e.confirmPayment(t)

	next, err := e.tickets.Transition(t.ChannelID, models.GameInProgress{})
	if err != nil {
		return err
	}
	e.log.Infof("Game started in %s against %s (first to %d)", next.ChannelID, next.Data.OpponentID, e.target)

	out, err := e.messaging.GetGameStartMessage(ctx, &messaging.GetGameStartMessageInput{OpponentName: next.Data.OpponentName})
	if err == nil {
		if _, err := e.messenger.Send(ctx, next.ChannelID, out.Message); err != nil {
			e.log.Warnf("Game start message in %s failed: %v", next.ChannelID, err)
		}
	}
	return nil
}

// confirmPayment marks our send acknowledged; it is bookkeeping only
func (e *Engine) confirmPayment(t *models.Ticket) {
	if t.Data.PaymentID == "" {
		return
	}
	rec, ok := e.payments.Get(t.Data.PaymentID)
	if !ok || rec.Status == models.PaymentStatusConfirmed {
		return
	}
	if err := e.payments.RecordConfirmed(t.Data.PaymentID); err != nil {
		e.log.Warnf("Confirming payment %s: %v", t.Data.PaymentID, err)
	}
}

// cancel honors a middleman abort
func (e *Engine) cancel(ctx context.Context, t *models.Ticket, msg *models.Message) error {
	reason := fmt.Sprintf("cancelled by middleman %s", msg.AuthorID)
	done, err := e.tickets.Transition(t.ChannelID, models.Cancelled{Reason: reason})
	if err != nil {
		return err
	}
	e.tickets.SetCooldown(done.Data.OpponentID, e.cooldown)
	if done.Data.PaymentLocked {
		e.log.Warnf("Ticket %s cancelled after payment %s to %s; refund is with the middleman",
			done.ChannelID, done.Data.SendTxID, done.Data.RecipientAddress)
	} else {
		e.log.Infof("Ticket %s cancelled before payment", done.ChannelID)
	}
	return nil
}

// pendingPayment reports whether the ticket already claimed a payment id
func (e *Engine) pendingPayment(channelID string) *models.IdempotencyRecord {
	recs := e.payments.ForTicket(channelID)
	if len(recs) == 0 {
		return nil
	}
	return recs[0]
}
