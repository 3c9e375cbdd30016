package persistence

import (
	"errors"
	"fmt"

	"github.com/KirkDiggler/ticketsnipe/internal/models"
)

func validateTicket(t *models.Ticket) error {
	if t.ChannelID == "" {
		return errors.New("missing channel id")
	}
	if !t.State.IsValid() {
		return fmt.Errorf("unknown state %q", t.State)
	}
	if t.Data.OpponentID == "" {
		return errors.New("missing opponent id")
	}
	if !t.Data.OpponentBet.IsPositive() || !t.Data.OurBet.IsPositive() {
		return errors.New("bets must be positive")
	}
	if _, ok := models.ParseChain(string(t.Data.Chain)); !ok {
		return fmt.Errorf("unknown chain %q", t.Data.Chain)
	}

	switch t.State {
	case models.TicketStatePaymentSent, models.TicketStateAwaitingGameStart,
		models.TicketStateGameInProgress, models.TicketStateAwaitingPayout:
		if !t.Data.PaymentLocked || t.Data.RecipientAddress == "" || t.Data.SendTxID == "" {
			return fmt.Errorf("%s without a locked payment", t.State)
		}
	case models.TicketStateGameComplete:
		if t.Data.GameWinner == models.SideBot && t.Data.PayoutTxID == "" {
			return errors.New("bot win without payout tx id")
		}
	}
	return nil
}

func validateWager(w *models.PendingWager) error {
	if w.OpponentID == "" {
		return errors.New("missing opponent id")
	}
	if !w.OpponentBet.IsPositive() || !w.OurBet.IsPositive() {
		return errors.New("bets must be positive")
	}
	return nil
}

func validateRecord(r *models.IdempotencyRecord) error {
	if r.PaymentID == "" {
		return errors.New("missing payment id")
	}
	if r.Status.Rank() == 0 {
		return fmt.Errorf("unknown status %q", r.Status)
	}
	if r.Status.Rank() >= models.PaymentStatusBroadcast.Rank() && r.TxID == "" {
		return fmt.Errorf("%s without tx id", r.Status)
	}
	return nil
}

func validateCooldown(c *models.Cooldown) error {
	if c.UserID == "" {
		return errors.New("missing user id")
	}
	return nil
}

func validateRetired(r *models.RetiredChannel) error {
	if r.ChannelID == "" {
		return errors.New("missing channel id")
	}
	return nil
}

func validateClaim(c *models.ClaimedPayout) error {
	if c.TxID == "" {
		return errors.New("missing tx id")
	}
	return nil
}
