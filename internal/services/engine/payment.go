package engine

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/ticketsnipe/internal/metrics"
	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/KirkDiggler/ticketsnipe/internal/services/idempotency"
	"github.com/KirkDiggler/ticketsnipe/internal/services/messaging"
)

// pay escrows our stake to addr. The intent is claimed and persisted before
// the network call, and nothing after the claim retries the send: once the
// intent exists any failure parks the ticket for an operator.
func (e *Engine) pay(ctx context.Context, t *models.Ticket, addr string) error {
	c := t.Data.Chain
	amount := t.Data.OurBet
	paymentID := idempotency.GeneratePaymentID(t.ChannelID, addr, amount, c)

	if check := e.payments.CanSend(paymentID); !check.CanSend {
		metrics.DuplicatePaymentsBlocked.Inc()
		return fmt.Errorf("%w: %s", models.ErrDuplicatePayment, check.Reason)
	}
	if prior := e.pendingPayment(t.ChannelID); prior != nil {
		metrics.DuplicatePaymentsBlocked.Inc()
		return fmt.Errorf("%w: ticket already claimed payment to %s (%s)",
			models.ErrDuplicatePayment, prior.Address, prior.Status)
	}

	adapter, err := e.registry.Get(c)
	if err != nil {
		return err
	}
	if err := e.checkBalance(ctx, c, amount, "payment"); err != nil {
		return err
	}

	claimed, err := e.payments.RecordIntent(&idempotency.RecordIntentInput{
		PaymentID:       paymentID,
		Address:         addr,
		Amount:          amount,
		TicketChannelID: t.ChannelID,
	})
	if err != nil {
		return err
	}
	if !claimed {
		metrics.DuplicatePaymentsBlocked.Inc()
		return fmt.Errorf("%w: intent already claimed", models.ErrDuplicatePayment)
	}
	if err := e.persister.Flush(ctx); err != nil {
		return fmt.Errorf("%w: persisting payment intent: %v", models.ErrPersistenceError, err)
	}

	e.log.Infof("Sending %s %s to %s for ticket %s", amount, c, addr, t.ChannelID)
	sent, err := adapter.SendPayment(ctx, addr, amount)
	if err != nil {
		return fmt.Errorf("%w: sending %s %s to %s: %v", models.ErrRpcFatal, amount, c, addr, err)
	}

	if err := e.payments.RecordBroadcast(paymentID, sent.TxID); err != nil {
		return fmt.Errorf("recording broadcast %s: %w", sent.TxID, err)
	}
	next, err := e.tickets.Transition(t.ChannelID, models.PaymentSent{
		RecipientAddress: addr,
		SendTxID:         sent.TxID,
		PaymentID:        paymentID,
	})
	if err != nil {
		return fmt.Errorf("locking payment %s: %w", sent.TxID, err)
	}
	metrics.PaymentsSent.WithLabelValues(string(c)).Inc()

	if err := e.persister.Flush(ctx); err != nil {
		e.log.Errorf("Persisting sent payment for %s: %v", t.ChannelID, err)
	}

	out, err := e.messaging.GetPaymentSentMessage(ctx, &messaging.GetPaymentSentMessageInput{
		Amount: amount,
		Chain:  c,
		TxID:   sent.TxID,
	})
	if err == nil {
		if _, err := e.messenger.Send(ctx, next.ChannelID, out.Message); err != nil {
			e.log.Warnf("Payment notice in %s failed: %v", next.ChannelID, err)
		}
	}
	return nil
}
