package engine

import (
	"context"
	"errors"

	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/KirkDiggler/ticketsnipe/internal/services/messaging"
)

// isRecoverable reports errors answered with one reply and no state change
func isRecoverable(err error) bool {
	return errors.Is(err, models.ErrInsufficientBalance) ||
		errors.Is(err, models.ErrInvalidAddress) ||
		errors.Is(err, models.ErrSelfAddressRejected) ||
		errors.Is(err, models.ErrDuplicatePayment)
}

// handleFailure applies the error policy to a ticket handler's error
func (e *Engine) handleFailure(ctx context.Context, msg *models.Message, err error) {
	switch {
	case err == nil:
	case isRecoverable(err):
		e.log.Warnf("Ticket %s: %v", msg.ChannelID, err)
		e.replyError(ctx, msg, err)
	case errors.Is(err, models.ErrTicketNotFound):
		e.log.Debugf("Ticket %s vanished while handling %s", msg.ChannelID, msg.ID)
	case errors.Is(err, context.Canceled):
		e.log.Debugf("Ticket %s: handling %s cancelled", msg.ChannelID, msg.ID)
	default:
		e.fail(ctx, msg.ChannelID, err.Error())
	}
}

func (e *Engine) replyError(ctx context.Context, msg *models.Message, err error) {
	out, mErr := e.messaging.GetErrorMessage(ctx, &messaging.GetErrorMessageInput{Err: err})
	if mErr != nil || out.Message == "" {
		return
	}
	if _, sErr := e.messenger.Reply(ctx, msg, out.Message); sErr != nil {
		e.log.Warnf("Error reply in %s failed: %v", msg.ChannelID, sErr)
	}
}

// fail parks a ticket in ERROR, persists it and alerts the operator. The
// opponent stays bound to the parked ticket until an operator releases it.
func (e *Engine) fail(ctx context.Context, channelID, reason string) {
	t, err := e.tickets.Transition(channelID, models.Errored{Reason: reason})
	if err != nil {
		e.log.Errorf("Ticket %s failed (%s) and could not be parked: %v", channelID, reason, err)
		return
	}
	e.log.Errorf("Ticket %s moved to ERROR: %s", channelID, reason)
	e.tickets.SetCooldown(t.Data.OpponentID, e.cooldown)

	if err := e.persister.Flush(ctx); err != nil {
		e.log.Errorf("Persisting ERROR state of %s: %v", channelID, err)
	}
	if err := e.vouch.AlertOperator(ctx, t, reason); err != nil {
		e.log.Errorf("Alerting operator about %s: %v", channelID, err)
	}
}
