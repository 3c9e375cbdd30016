package engine

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/KirkDiggler/ticketsnipe/internal/repositories/snapshot"
	"github.com/KirkDiggler/ticketsnipe/internal/services/chain"
	"github.com/shopspring/decimal"
)

// ChainBalance is one wallet's spendable balance
type ChainBalance struct {
	Chain   models.Chain
	Balance decimal.Decimal
	Err     error
}

// StatusOutput is an operator view of the engine
type StatusOutput struct {
	Tickets       []*models.Ticket
	PendingWagers int
	Balances      []*ChainBalance

	// Quarantined are snapshot records restores could not load
	Quarantined   []*snapshot.QuarantinedRecord
	QuarantineErr error
}

// Status reports live tickets, parked tickets and wallet balances
func (e *Engine) Status(ctx context.Context) *StatusOutput {
	out := &StatusOutput{
		Tickets:       e.tickets.GetActiveTickets(),
		PendingWagers: len(e.tickets.PendingWagers()),
	}
	out.Tickets = append(out.Tickets, e.tickets.GetTicketsInState(models.TicketStateError)...)
	out.Quarantined, out.QuarantineErr = e.persister.Quarantined(ctx)

	for _, c := range e.registry.Chains() {
		cb := &ChainBalance{Chain: c}
		adapter, err := e.registry.Get(c)
		if err == nil {
			var b *chain.Balance
			if b, err = adapter.GetBalance(ctx); err == nil {
				cb.Balance = b.Balance
			}
		}
		cb.Err = err
		out.Balances = append(out.Balances, cb)
	}
	return out
}

// Release drops a settled ticket once an operator has resolved it, so its
// opponent can be engaged again
func (e *Engine) Release(ctx context.Context, channelID string) error {
	return e.locker.Do(ctx, channelID, func(ctx context.Context) error {
		t, err := e.tickets.GetTicket(channelID)
		if err != nil {
			return err
		}
		if !t.IsTerminal() {
			return fmt.Errorf("%w: %s is %s", ErrNotSettled, channelID, t.State)
		}
		if err := e.tickets.RemoveTicket(channelID); err != nil {
			return err
		}
		e.refused.Delete(channelID)
		e.log.Infof("Operator released ticket %s (%s: %s%s)", channelID, t.State, t.Data.ErrorReason, t.Data.CancelReason)
		return e.persister.Flush(ctx)
	})
}

// SimulatePayout deposits a ticket's pot into a simulated wallet, so a dry
// run can exercise payout matching. It returns the injected transaction.
func (e *Engine) SimulatePayout(ctx context.Context, channelID string) (*models.Transaction, error) {
	t, err := e.tickets.GetTicket(channelID)
	if err != nil {
		return nil, err
	}
	if t.State != models.TicketStateAwaitingPayout {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotAwaiting, channelID, t.State)
	}
	adapter, err := e.registry.Get(t.Data.Chain)
	if err != nil {
		return nil, err
	}
	wallet, ok := adapter.(chain.Depositor)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotSimulated, t.Data.Chain)
	}

	tx := &models.Transaction{
		TxID:          "sim-payout-" + channelID,
		Amount:        t.Pot(),
		Confirmations: 1,
		Timestamp:     e.clock.Now(),
		Direction:     models.DirectionInbound,
	}
	wallet.Deposit(tx)
	e.log.Infof("Simulated payout %s of %s %s for ticket %s", tx.TxID, tx.Amount, t.Data.Chain, channelID)
	return tx, nil
}
