// Package engine routes chat messages through the engagement lifecycle:
// spotting bets, latching tickets, escrowing our stake and playing dice.
package engine

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"github.com/KirkDiggler/ticketsnipe/internal/address"
	"github.com/KirkDiggler/ticketsnipe/internal/common/clock"
	"github.com/KirkDiggler/ticketsnipe/internal/dice"
	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/KirkDiggler/ticketsnipe/internal/repositories/snapshot"
	"github.com/KirkDiggler/ticketsnipe/internal/services/chain"
	"github.com/KirkDiggler/ticketsnipe/internal/services/chanlock"
	"github.com/KirkDiggler/ticketsnipe/internal/services/chat"
	"github.com/KirkDiggler/ticketsnipe/internal/services/idempotency"
	"github.com/KirkDiggler/ticketsnipe/internal/services/messaging"
	"github.com/KirkDiggler/ticketsnipe/internal/services/persistence"
	"github.com/KirkDiggler/ticketsnipe/internal/services/ticket"
	"github.com/KirkDiggler/ticketsnipe/internal/services/vouch"
	"github.com/decred/slog"
	"github.com/shopspring/decimal"
)

const defaultHistoryLimit = 50

// Persister saves and restores engine state
type Persister interface {
	Start(ctx context.Context)
	Restore(ctx context.Context) (*persistence.RestoreOutput, error)
	Flush(ctx context.Context) error
	Close(ctx context.Context) error
	Quarantined(ctx context.Context) ([]*snapshot.QuarantinedRecord, error)
}

// Monitor is the background payout scanner
type Monitor interface {
	Start(ctx context.Context)
	Stop()
}

// Config holds the engine's collaborators and settings
type Config struct {
	Tickets   ticket.Service
	Payments  idempotency.Service
	Persister Persister
	Locker    *chanlock.Locker
	Registry  *chain.Registry
	Extractor *address.Extractor
	Messenger chat.Messenger
	Messaging messaging.Service
	Vouch     *vouch.Poster
	Monitor   Monitor
	Clock     clock.Clock
	Logger    slog.Logger

	// MiddlemanIDs are trusted to sign ticket control messages
	MiddlemanIDs map[string]bool

	// PublicChannelIDs are scanned for bet offers
	PublicChannelIDs map[string]bool

	// TicketNamePattern recognizes ticket channels by name
	TicketNamePattern *regexp.Regexp

	// DiceBotIDs restricts whose roll announcements count; empty accepts any bot
	DiceBotIDs map[string]bool

	DiceCommand string
	TargetWins  int

	// Markup is our premium over the opponent's bet, 0.10 for ten percent
	Markup decimal.Decimal

	DefaultChain models.Chain

	// Cooldown blocks re-sniping a user after an engagement ends
	Cooldown time.Duration

	// CounterOfferDelay is waited, with a typing indicator, before countering
	CounterOfferDelay time.Duration

	// HistoryLimit is how many ticket messages latching reads
	HistoryLimit int
}

// Engine owns the engagement lifecycle
type Engine struct {
	tickets   ticket.Service
	payments  idempotency.Service
	persister Persister
	locker    *chanlock.Locker
	registry  *chain.Registry
	extractor *address.Extractor
	messenger chat.Messenger
	messaging messaging.Service
	vouch     *vouch.Poster
	monitor   Monitor
	clock     clock.Clock
	log       slog.Logger

	middlemen    map[string]bool
	public       map[string]bool
	ticketName   *regexp.Regexp
	diceBots     map[string]bool
	diceCommand  string
	target       int
	markup       decimal.Decimal
	defaultChain models.Chain
	cooldown     time.Duration
	counterDelay time.Duration
	historyLimit int
	ready        atomic.Bool

	// refused holds ticket channels already told we cannot cover the bet
	refused sync.Map
}

// New creates an engine. Call Start before delivering messages.
func New(cfg *Config) (*Engine, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	switch {
	case cfg.Tickets == nil:
		return nil, ErrNilTickets
	case cfg.Payments == nil:
		return nil, ErrNilPayments
	case cfg.Persister == nil:
		return nil, ErrNilPersister
	case cfg.Locker == nil:
		return nil, ErrNilLocker
	case cfg.Registry == nil:
		return nil, ErrNilRegistry
	case cfg.Extractor == nil:
		return nil, ErrNilExtractor
	case cfg.Messenger == nil:
		return nil, ErrNilMessenger
	case cfg.Messaging == nil:
		return nil, ErrNilMessaging
	case cfg.Vouch == nil:
		return nil, ErrNilVouch
	case cfg.Monitor == nil:
		return nil, ErrNilMonitor
	}

	e := &Engine{
		tickets:      cfg.Tickets,
		payments:     cfg.Payments,
		persister:    cfg.Persister,
		locker:       cfg.Locker,
		registry:     cfg.Registry,
		extractor:    cfg.Extractor,
		messenger:    cfg.Messenger,
		messaging:    cfg.Messaging,
		vouch:        cfg.Vouch,
		monitor:      cfg.Monitor,
		clock:        cfg.Clock,
		log:          cfg.Logger,
		middlemen:    cfg.MiddlemanIDs,
		public:       cfg.PublicChannelIDs,
		ticketName:   cfg.TicketNamePattern,
		diceBots:     cfg.DiceBotIDs,
		diceCommand:  cfg.DiceCommand,
		target:       cfg.TargetWins,
		markup:       cfg.Markup,
		defaultChain: cfg.DefaultChain,
		cooldown:     cfg.Cooldown,
		counterDelay: cfg.CounterOfferDelay,
		historyLimit: cfg.HistoryLimit,
	}
	if e.clock == nil {
		e.clock = &clock.DefaultClock{}
	}
	if e.log == nil {
		e.log = slog.Disabled
	}
	if e.ticketName == nil {
		e.ticketName = regexp.MustCompile(`^ticket-`)
	}
	if e.diceCommand == "" {
		e.diceCommand = "!dice"
	}
	if e.target < 1 {
		e.target = dice.DefaultTarget
	}
	if e.defaultChain == "" {
		e.defaultChain = models.ChainLTC
	}
	if e.historyLimit <= 0 {
		e.historyLimit = defaultHistoryLimit
	}
	return e, nil
}

// Start restores persisted state, reconciles interrupted payments and then
// starts background work. Messages are dropped until it returns.
func (e *Engine) Start(ctx context.Context) error {
	restored, err := e.persister.Restore(ctx)
	if err != nil {
		return fmt.Errorf("restoring state: %w", err)
	}
	if restored.Found {
		e.log.Infof("Restored %d tickets, %d wagers, %d payments (%d quarantined)",
			restored.Tickets, restored.PendingWagers, restored.Payments, restored.Quarantined)
	}

	e.reconcilePayments(ctx)

	e.persister.Start(ctx)
	e.monitor.Start(ctx)
	e.ready.Store(true)
	e.log.Infof("Engine started, watching %d public channels", len(e.public))
	return nil
}

// Stop halts background work and writes a final snapshot
func (e *Engine) Stop(ctx context.Context) error {
	e.ready.Store(false)
	e.monitor.Stop()
	if err := e.persister.Close(ctx); err != nil {
		return fmt.Errorf("final snapshot: %w", err)
	}
	e.log.Infof("Engine stopped")
	return nil
}

// reconcilePayments repairs tickets left awaiting an address by a crash in
// the payment critical section. A broadcast payment is re-attached to its
// ticket. A claimed intent without a broadcast may or may not have reached
// the network, so the ticket is parked for an operator.
func (e *Engine) reconcilePayments(ctx context.Context) {
	for _, t := range e.tickets.GetTicketsInState(models.TicketStateAwaitingPaymentAddress) {
		for _, rec := range e.payments.ForTicket(t.ChannelID) {
			switch rec.Status {
			case models.PaymentStatusBroadcast, models.PaymentStatusConfirmed:
				_, err := e.tickets.Transition(t.ChannelID, models.PaymentSent{
					RecipientAddress: rec.Address,
					SendTxID:         rec.TxID,
					PaymentID:        rec.PaymentID,
				})
				if err != nil {
					e.fail(ctx, t.ChannelID, fmt.Sprintf("reattaching broadcast payment %s: %v", rec.TxID, err))
					continue
				}
				e.log.Warnf("Reattached broadcast payment %s to ticket %s", rec.TxID, t.ChannelID)
			case models.PaymentStatusIntent:
				e.fail(ctx, t.ChannelID, "payment intent was claimed but never broadcast; verify on chain before resending")
			}
			break
		}
	}
}

// HandleMessage routes one inbound chat message. It returns an error only
// when the message was dropped.
func (e *Engine) HandleMessage(ctx context.Context, msg *models.Message) error {
	if msg == nil {
		return nil
	}
	return e.HandleReserved(ctx, e.Reserve(msg.ChannelID, msg.AuthorID), msg)
}

// Reserve takes a message's place in its channel queue without blocking.
// Callers reserve in delivery order and may then run HandleReserved on any
// goroutine.
func (e *Engine) Reserve(channelID, authorID string) *chanlock.Slot {
	return e.locker.Reserve(e.lockKey(channelID, authorID))
}

// lockKey serializes ticket channels as a whole and public channels per
// author, so one bettor's counter-offer delay never holds up another
func (e *Engine) lockKey(channelID, authorID string) string {
	if e.public[channelID] {
		return channelID + "/" + authorID
	}
	return channelID
}

// HandleReserved handles msg once slot reaches the head of its queue. The
// slot is always settled.
func (e *Engine) HandleReserved(ctx context.Context, slot *chanlock.Slot, msg *models.Message) error {
	if msg == nil || msg.AuthorID == e.messenger.SelfID() {
		slot.Cancel()
		return nil
	}
	if !e.ready.Load() {
		slot.Cancel()
		return ErrNotStarted
	}

	var handler func(ctx context.Context, msg *models.Message) error
	switch {
	case e.public[msg.ChannelID]:
		handler = e.handlePublic
	case e.isTicketChannel(msg):
		handler = e.handleTicket
	default:
		slot.Cancel()
		return nil
	}

	release, err := slot.Wait(ctx)
	if errors.Is(err, models.ErrLockTimeout) {
		e.log.Warnf("Dropping message %s in %s: %v", msg.ID, msg.ChannelID, err)
		return err
	}
	if err != nil {
		e.log.Errorf("Handling message %s in %s: %v", msg.ID, msg.ChannelID, err)
		return nil
	}
	defer release()

	if err := handler(ctx, msg); err != nil {
		e.log.Errorf("Handling message %s in %s: %v", msg.ID, msg.ChannelID, err)
	}
	return nil
}

func (e *Engine) isTicketChannel(msg *models.Message) bool {
	if _, err := e.tickets.GetTicket(msg.ChannelID); err == nil {
		return true
	}
	return msg.ChannelName != "" && e.ticketName.MatchString(msg.ChannelName)
}

func (e *Engine) isMiddleman(userID string) bool {
	return e.middlemen[userID]
}
