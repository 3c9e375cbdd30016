package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/KirkDiggler/ticketsnipe/internal/services/ticket"
)

// latchSkew tolerates chat timestamps running behind our clock
const latchSkew = 30 * time.Second

// latch links a new ticket channel to a pending wager found in its recent
// history. It returns nil without error when nothing links. Channels that
// hosted a ticket before never latch again.
func (e *Engine) latch(ctx context.Context, msg *models.Message) (*models.Ticket, error) {
	if msg.ChannelName != "" && !e.ticketName.MatchString(msg.ChannelName) {
		return nil, nil
	}
	if e.tickets.IsRetired(msg.ChannelID) {
		e.log.Tracef("Ignoring %s: channel already hosted a ticket", msg.ChannelID)
		return nil, nil
	}

	history, err := e.messenger.RecentMessages(ctx, msg.ChannelID, e.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("reading ticket history: %w", err)
	}
	history = withMessage(history, msg)

	wager := e.findWager(history)
	if wager == nil {
		e.log.Tracef("No pending wager links to %s", msg.ChannelID)
		return nil, nil
	}

	c := wager.Chain
	for _, m := range history {
		if mentioned, ok := chainMention(m.Content); ok {
			c = mentioned
			break
		}
	}
	if c == "" {
		c = e.defaultChain
	}

	if err := e.checkBalance(ctx, c, wager.OurBet, "latch"); err != nil {
		if errors.Is(err, models.ErrInsufficientBalance) {
			// reply once per channel
			if _, seen := e.refused.LoadOrStore(msg.ChannelID, true); seen {
				e.log.Debugf("Still short on funds to latch %s", msg.ChannelID)
				return nil, nil
			}
			return nil, err
		}
		// nothing exists yet to park in ERROR
		e.log.Errorf("Latching %s to %s failed: %v", msg.ChannelID, wager.OpponentID, err)
		return nil, nil
	}

	consumed, err := e.tickets.ConsumePendingWager(wager.OpponentID)
	if err != nil {
		return nil, nil
	}
	if _, err := e.tickets.CreateTicket(&ticket.CreateTicketInput{
		ChannelID: msg.ChannelID,
		Wager:     consumed,
		Chain:     c,
	}); err != nil {
		// put the wager back so a later channel can still latch it
		if storeErr := e.tickets.StorePendingWager(consumed); storeErr != nil {
			e.log.Warnf("Restoring wager for %s: %v", consumed.OpponentID, storeErr)
		}
		e.log.Warnf("Latching %s failed: %v", msg.ChannelID, err)
		return nil, nil
	}

	e.refused.Delete(msg.ChannelID)

	t, err := e.tickets.Transition(msg.ChannelID, models.AwaitingMiddleman{})
	if err != nil {
		return nil, err
	}
	e.log.Infof("Latched ticket %s to %s (%s %s vs %s)",
		t.ChannelID, t.Data.OpponentID, c, t.Data.OpponentBet, t.Data.OurBet)
	return t, nil
}

// findWager prefers a user whose bet appears in the history, then any
// author or mentioned user holding a live wager. Only messages posted after
// the wager was countered count.
func (e *Engine) findWager(history []*models.Message) *models.PendingWager {
	self := e.messenger.SelfID()
	for _, m := range history {
		if m.AuthorBot || m.AuthorID == self || e.isMiddleman(m.AuthorID) {
			continue
		}
		bet, ok := parseBet(m.Content)
		if !ok {
			continue
		}
		if w, ok := e.tickets.PeekPendingWager(m.AuthorID); ok && w.OpponentBet.Equal(bet) && postedAfter(m, w) {
			return w
		}
	}

	for _, m := range history {
		candidates := append([]string{m.AuthorID}, m.Mentions...)
		for _, id := range candidates {
			if id == "" || id == self || e.isMiddleman(id) {
				continue
			}
			if w, ok := e.tickets.PeekPendingWager(id); ok && postedAfter(m, w) {
				return w
			}
		}
	}
	return nil
}

func postedAfter(m *models.Message, w *models.PendingWager) bool {
	return !m.CreatedAt.Before(w.CreatedAt.Add(-latchSkew))
}

// withMessage makes sure the triggering message is part of the history
func withMessage(history []*models.Message, msg *models.Message) []*models.Message {
	for _, m := range history {
		if m.ID == msg.ID {
			return history
		}
	}
	return append([]*models.Message{msg}, history...)
}
