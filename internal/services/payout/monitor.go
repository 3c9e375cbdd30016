// Package payout reconciles inbound chain transactions against tickets the
// bot has won.
package payout

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/KirkDiggler/ticketsnipe/internal/common/clock"
	"github.com/KirkDiggler/ticketsnipe/internal/metrics"
	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/KirkDiggler/ticketsnipe/internal/services/chain"
	"github.com/KirkDiggler/ticketsnipe/internal/services/chanlock"
	"github.com/KirkDiggler/ticketsnipe/internal/services/chat"
	"github.com/KirkDiggler/ticketsnipe/internal/services/idempotency"
	"github.com/KirkDiggler/ticketsnipe/internal/services/messaging"
	"github.com/KirkDiggler/ticketsnipe/internal/services/ticket"
	"github.com/KirkDiggler/ticketsnipe/internal/services/vouch"
	"github.com/decred/slog"
)

const (
	defaultInterval   = 15 * time.Second
	defaultTxLimit    = 50
	defaultPruneAfter = 24 * time.Hour
)

// Config holds the monitor's collaborators and timing
type Config struct {
	Tickets   ticket.Service
	Payments  idempotency.Service
	Registry  *chain.Registry
	Locker    *chanlock.Locker
	Vouch     *vouch.Poster
	Messenger chat.Messenger
	Messaging messaging.Service
	Clock     clock.Clock
	Logger    slog.Logger

	// Interval between scans
	Interval time.Duration

	// Skew is how far before the ticket's last update a payout may be
	// timestamped and still count
	Skew time.Duration

	// Cooldown is applied to the opponent once a payout lands
	Cooldown time.Duration

	// TxLimit is how many recent transactions to fetch per chain
	TxLimit int

	// PruneAfter is how long settled idempotency records are kept
	PruneAfter time.Duration
}

// ScanOutput reports what a single scan did
type ScanOutput struct {
	// Matched are the channels completed by this scan
	Matched []string

	// Swept is the ticket manager cleanup result
	Swept *ticket.SweepOutput

	// Pruned is how many idempotency records were dropped
	Pruned int
}

// Monitor polls chain adapters for payouts owed to AWAITING_PAYOUT tickets
type Monitor struct {
	tickets   ticket.Service
	payments  idempotency.Service
	registry  *chain.Registry
	locker    *chanlock.Locker
	vouch     *vouch.Poster
	messenger chat.Messenger
	messaging messaging.Service
	clock     clock.Clock
	log       slog.Logger

	interval   time.Duration
	skew       time.Duration
	cooldown   time.Duration
	txLimit    int
	pruneAfter time.Duration

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a monitor
func New(cfg *Config) (*Monitor, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	switch {
	case cfg.Tickets == nil:
		return nil, ErrNilTickets
	case cfg.Payments == nil:
		return nil, ErrNilPayments
	case cfg.Registry == nil:
		return nil, ErrNilRegistry
	case cfg.Locker == nil:
		return nil, ErrNilLocker
	case cfg.Vouch == nil:
		return nil, ErrNilVouch
	case cfg.Messenger == nil:
		return nil, ErrNilMessenger
	case cfg.Messaging == nil:
		return nil, ErrNilMessaging
	}

	m := &Monitor{
		tickets:    cfg.Tickets,
		payments:   cfg.Payments,
		registry:   cfg.Registry,
		locker:     cfg.Locker,
		vouch:      cfg.Vouch,
		messenger:  cfg.Messenger,
		messaging:  cfg.Messaging,
		clock:      cfg.Clock,
		log:        cfg.Logger,
		interval:   cfg.Interval,
		skew:       cfg.Skew,
		cooldown:   cfg.Cooldown,
		txLimit:    cfg.TxLimit,
		pruneAfter: cfg.PruneAfter,
	}
	if m.clock == nil {
		m.clock = &clock.DefaultClock{}
	}
	if m.log == nil {
		m.log = slog.Disabled
	}
	if m.interval <= 0 {
		m.interval = defaultInterval
	}
	if m.txLimit <= 0 {
		m.txLimit = defaultTxLimit
	}
	if m.pruneAfter <= 0 {
		m.pruneAfter = defaultPruneAfter
	}
	return m, nil
}

// Start runs scans every interval until Stop or ctx is done. Calling Start
// on a running monitor does nothing.
func (m *Monitor) Start(ctx context.Context) {
	m.runMu.Lock()
	defer m.runMu.Unlock()
	if m.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})
	go m.run(ctx, m.done)
	m.log.Infof("Payout monitor started, scanning every %s", m.interval)
}

func (m *Monitor) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		m.ScanOnce(ctx)

		select {
		case <-ctx.Done():
			return
		case <-m.clock.After(m.interval):
		}
	}
}

// Stop cancels the pending sleep and waits for the loop to exit
func (m *Monitor) Stop() {
	m.runMu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.runMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	m.log.Infof("Payout monitor stopped")
}

// ScanOnce runs a single reconciliation and cleanup cycle
func (m *Monitor) ScanOnce(ctx context.Context) *ScanOutput {
	out := &ScanOutput{}

	waiting := m.tickets.GetTicketsInState(models.TicketStateAwaitingPayout)
	byChain := make(map[models.Chain][]*models.Ticket)
	for _, t := range waiting {
		byChain[t.Data.Chain] = append(byChain[t.Data.Chain], t)
	}

	for c, tickets := range byChain {
		if ctx.Err() != nil {
			return out
		}
		out.Matched = append(out.Matched, m.scanChain(ctx, c, tickets)...)
	}

	out.Swept = m.tickets.Sweep()
	out.Pruned = m.payments.Prune(m.clock.Now().Add(-m.pruneAfter), m.live)
	return out
}

func (m *Monitor) live(channelID string) bool {
	t, err := m.tickets.GetTicket(channelID)
	return err == nil && !t.IsTerminal()
}

func (m *Monitor) scanChain(ctx context.Context, c models.Chain, tickets []*models.Ticket) []string {
	adapter, err := m.registry.Get(c)
	if err != nil {
		m.log.Errorf("No adapter for %s, %d tickets cannot be reconciled", c, len(tickets))
		return nil
	}

	txs, err := adapter.GetRecentTransactions(ctx, m.txLimit)
	if err != nil {
		m.log.Warnf("Listing %s transactions failed: %v", c, err)
		return nil
	}

	var matched []string
	used := make(map[string]bool)
	for _, t := range tickets {
		tx := m.findPayout(t, txs, used)
		if tx == nil {
			m.log.Tracef("No payout yet for %s (pot %s %s)", t.ChannelID, t.Pot(), c)
			continue
		}
		used[tx.TxID] = true

		ok, err := m.complete(ctx, t.ChannelID, tx)
		if err != nil {
			m.log.Errorf("Completing %s with payout %s failed: %v", t.ChannelID, tx.TxID, err)
			continue
		}
		if ok {
			matched = append(matched, t.ChannelID)
		}
	}
	return matched
}

// findPayout returns the first inbound tx that pays exactly the pot, is
// confirmed, is not older than the ticket allows and was never claimed
func (m *Monitor) findPayout(t *models.Ticket, txs []*models.Transaction, used map[string]bool) *models.Transaction {
	pot := t.Pot()
	earliest := t.UpdatedAt.Add(-m.skew)
	for _, tx := range txs {
		switch {
		case tx.Direction != models.DirectionInbound:
		case !tx.Amount.Equal(pot):
		case tx.Confirmations < 1:
		case tx.Timestamp.Before(earliest):
		case used[tx.TxID] || m.tickets.ClaimedPayoutTx(tx.TxID):
		default:
			return tx
		}
	}
	return nil
}

// complete re-checks the ticket under its channel lock before moving it to
// GAME_COMPLETE
func (m *Monitor) complete(ctx context.Context, channelID string, tx *models.Transaction) (bool, error) {
	completed := false
	err := m.locker.Do(ctx, channelID, func(ctx context.Context) error {
		cur, err := m.tickets.GetTicket(channelID)
		if err != nil {
			if errors.Is(err, models.ErrTicketNotFound) {
				return nil
			}
			return err
		}
		if cur.State != models.TicketStateAwaitingPayout {
			return nil
		}
		if !cur.Pot().Equal(tx.Amount) || m.tickets.ClaimedPayoutTx(tx.TxID) {
			return nil
		}

		done, err := m.tickets.Transition(channelID, models.GameComplete{
			Winner:     models.SideBot,
			PayoutTxID: tx.TxID,
		})
		if err != nil {
			return err
		}
		completed = true
		metrics.PayoutsMatched.WithLabelValues(string(done.Data.Chain)).Inc()
		m.log.Infof("Payout %s of %s %s matched ticket %s", tx.TxID, tx.Amount, done.Data.Chain, channelID)

		m.tickets.SetCooldown(done.Data.OpponentID, m.cooldown)

		if msg, err := m.messaging.GetPayoutReceivedMessage(ctx, &messaging.GetPayoutReceivedMessageInput{TxID: tx.TxID}); err == nil {
			if _, err := m.messenger.Send(ctx, channelID, msg.Message); err != nil {
				m.log.Warnf("Payout confirmation in %s failed: %v", channelID, err)
			}
		}
		if err := m.vouch.PostVouch(ctx, done); err != nil {
			m.log.Warnf("Vouch for %s failed: %v", channelID, err)
		}
		return nil
	})
	return completed, err
}
