package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/KirkDiggler/ticketsnipe/internal/metrics"
	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/KirkDiggler/ticketsnipe/internal/services/messaging"
	"github.com/shopspring/decimal"
)

// handlePublic counters even bet offers we can cover
func (e *Engine) handlePublic(ctx context.Context, msg *models.Message) error {
	if msg.AuthorBot {
		return nil
	}
	bet, ok := parseBet(msg.Content)
	if !ok {
		return nil
	}
	metrics.BetsSeen.Inc()

	if e.tickets.IsCoolingDown(msg.AuthorID) {
		e.log.Debugf("Skipping bet from %s: cooling down", msg.AuthorID)
		return nil
	}
	if _, err := e.tickets.GetTicketByUser(msg.AuthorID); err == nil {
		e.log.Debugf("Skipping bet from %s: already in a ticket", msg.AuthorID)
		return nil
	}

	c := e.defaultChain
	if mentioned, ok := chainMention(msg.Content); ok {
		c = mentioned
	}
	ourBet := e.counterBet(bet)

	if err := e.checkBalance(ctx, c, ourBet, "offer"); err != nil {
		return e.recoverPublic(ctx, msg, err)
	}

	if err := e.tickets.StorePendingWager(&models.PendingWager{
		OpponentID:      msg.AuthorID,
		OpponentName:    msg.AuthorName,
		OpponentBet:     bet,
		OurBet:          ourBet,
		PublicChannelID: msg.ChannelID,
		MessageID:       msg.ID,
		Chain:           c,
	}); err != nil {
		return err
	}

	if e.counterDelay > 0 {
		if err := e.messenger.Typing(ctx, msg.ChannelID); err != nil {
			e.log.Debugf("Typing indicator in %s failed: %v", msg.ChannelID, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.clock.After(e.counterDelay):
		}
	}

	out, err := e.messaging.GetCounterOfferMessage(ctx, &messaging.GetCounterOfferMessageInput{OurBet: ourBet})
	if err != nil {
		return err
	}
	if _, err := e.messenger.Reply(ctx, msg, out.Message); err != nil {
		return fmt.Errorf("posting counter-offer: %w", err)
	}
	metrics.CounterOffers.WithLabelValues(string(c)).Inc()
	e.log.Infof("Countered %s's %s %s bet with %s", msg.AuthorName, bet, c, ourBet)
	return nil
}

// counterBet applies the markup and rounds to the cents we display
func (e *Engine) counterBet(bet decimal.Decimal) decimal.Decimal {
	return bet.Mul(decimal.NewFromInt(1).Add(e.markup)).Round(2)
}

// checkBalance fails with ErrInsufficientBalance when the chain's wallet
// cannot cover amount
func (e *Engine) checkBalance(ctx context.Context, c models.Chain, amount decimal.Decimal, stage string) error {
	adapter, err := e.registry.Get(c)
	if err != nil {
		return err
	}
	balance, err := adapter.GetBalance(ctx)
	if err != nil {
		return fmt.Errorf("checking %s balance: %w", c, err)
	}
	if balance.Balance.LessThan(amount) {
		metrics.InsufficientFunds.WithLabelValues(stage).Inc()
		return fmt.Errorf("%w: have %s %s, need %s", models.ErrInsufficientBalance, balance.Balance, c, amount)
	}
	return nil
}

// recoverPublic replies for locally recoverable errors; public channels
// have no ticket to park
func (e *Engine) recoverPublic(ctx context.Context, msg *models.Message, err error) error {
	if isRecoverable(err) {
		e.log.Warnf("Bet from %s in %s refused: %v", msg.AuthorID, msg.ChannelID, err)
		e.replyError(ctx, msg, err)
		return nil
	}
	if errors.Is(err, models.ErrUnsupportedChain) {
		e.log.Debugf("Ignoring bet from %s: %v", msg.AuthorID, err)
		return nil
	}
	return err
}
