// Package persistence snapshots the ticket manager and idempotency store
// and restores them at startup.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/KirkDiggler/ticketsnipe/internal/common/clock"
	"github.com/KirkDiggler/ticketsnipe/internal/metrics"
	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/KirkDiggler/ticketsnipe/internal/repositories/snapshot"
	"github.com/KirkDiggler/ticketsnipe/internal/services/ticket"
	"github.com/decred/slog"
)

// Record kinds used in quarantine entries
const (
	KindDocument    = "snapshot"
	KindTicket      = "ticket"
	KindWager       = "pending_wager"
	KindIdempotency = "idempotency"
	KindCooldown    = "cooldown"
	KindRetired     = "retired_channel"
	KindClaim       = "claimed_payout"
)

// Config holds the service's collaborators
type Config struct {
	Repository snapshot.Repository
	Tickets    TicketSource
	Payments   PaymentSource
	Clock      clock.Clock
	Logger     slog.Logger

	// Debounce coalesces bursts of changes into one save
	Debounce time.Duration
}

// Service writes debounced snapshots. MarkDirty never blocks.
type Service struct {
	repo     snapshot.Repository
	tickets  TicketSource
	payments PaymentSource
	clock    clock.Clock
	log      slog.Logger
	debounce time.Duration

	saveMu sync.Mutex
	dirty  chan struct{}
	quit   chan struct{}
	done   chan struct{}
	start  sync.Once
	stop   sync.Once
}

// New creates the service; call Start to enable background saves
func New(cfg *Config) (*Service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Repository == nil {
		return nil, ErrNilRepository
	}
	if cfg.Tickets == nil {
		return nil, ErrNilTickets
	}
	if cfg.Payments == nil {
		return nil, ErrNilPayments
	}
	c := cfg.Clock
	if c == nil {
		c = &clock.DefaultClock{}
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Disabled
	}
	return &Service{
		repo:     cfg.Repository,
		tickets:  cfg.Tickets,
		payments: cfg.Payments,
		clock:    c,
		log:      log,
		debounce: cfg.Debounce,
		dirty:    make(chan struct{}, 1),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// MarkDirty schedules a save
func (s *Service) MarkDirty() {
	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

// Start runs the debounced save loop until Close
func (s *Service) Start(ctx context.Context) {
	s.start.Do(func() {
		go s.run(ctx)
	})
}

func (s *Service) run(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.quit:
			return
		case <-s.dirty:
		}

		if s.debounce > 0 {
			select {
			case <-ctx.Done():
				return
			case <-s.quit:
				return
			case <-s.clock.After(s.debounce):
			}
		}

		if err := s.Flush(ctx); err != nil {
			s.log.Errorf("Background snapshot failed: %v", err)
			// try again on the next change or at shutdown
		}
	}
}

// Close stops the loop and writes a final snapshot
func (s *Service) Close(ctx context.Context) error {
	// never started: nothing to wait for
	s.start.Do(func() { close(s.done) })
	first := false
	s.stop.Do(func() {
		close(s.quit)
		first = true
	})
	if first {
		select {
		case <-s.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return s.Flush(ctx)
}

// Flush writes a snapshot synchronously
func (s *Service) Flush(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	// a save now covers any change signalled so far
	select {
	case <-s.dirty:
	default:
	}

	t := s.tickets.Snapshot()
	snap := &models.Snapshot{
		SchemaVersion: models.SnapshotSchemaVersion,
		SavedAt:       s.clock.Now().UTC(),
		Tickets:       t.Tickets,
		PendingWagers: t.PendingWagers,
		Idempotency:   s.payments.Snapshot(),
		Cooldowns:     t.Cooldowns,

		RetiredChannels: t.RetiredChannels,
		ClaimedPayouts:  t.ClaimedPayouts,
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("%w: marshaling snapshot: %v", models.ErrPersistenceError, err)
	}
	if err := s.repo.SaveSnapshot(ctx, &snapshot.SaveSnapshotInput{Data: data}); err != nil {
		return fmt.Errorf("%w: %v", models.ErrPersistenceError, err)
	}
	s.log.Tracef("Saved snapshot: %d tickets, %d wagers, %d payments",
		len(snap.Tickets), len(snap.PendingWagers), len(snap.Idempotency))
	return nil
}

// Restore loads the snapshot into the ticket manager and idempotency store.
// Records that fail validation are quarantined; a document that cannot be
// read at all fails with ErrPersistenceError.
func (s *Service) Restore(ctx context.Context) (*RestoreOutput, error) {
	loaded, err := s.repo.LoadSnapshot(ctx, &snapshot.LoadSnapshotInput{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrPersistenceError, err)
	}
	out := &RestoreOutput{}
	if !loaded.Found {
		s.log.Infof("No snapshot found, starting empty")
		return out, nil
	}
	out.Found = true

	var raw models.RawSnapshot
	if err := json.Unmarshal(loaded.Data, &raw); err != nil {
		s.quarantine(ctx, out, KindDocument, err.Error(), loaded.Data)
		return nil, fmt.Errorf("%w: snapshot is unreadable: %v", models.ErrPersistenceError, err)
	}
	if raw.SchemaVersion != models.SnapshotSchemaVersion {
		return nil, fmt.Errorf("%w: snapshot schema %d, want %d",
			models.ErrPersistenceError, raw.SchemaVersion, models.SnapshotSchemaVersion)
	}

	tickets := decodeAll(ctx, s, out, KindTicket, raw.Tickets, validateTicket)
	wagers := decodeAll(ctx, s, out, KindWager, raw.PendingWagers, validateWager)
	records := decodeAll(ctx, s, out, KindIdempotency, raw.Idempotency, validateRecord)
	cooldowns := decodeAll(ctx, s, out, KindCooldown, raw.Cooldowns, validateCooldown)
	retired := decodeAll(ctx, s, out, KindRetired, raw.RetiredChannels, validateRetired)
	claims := decodeAll(ctx, s, out, KindClaim, raw.ClaimedPayouts, validateClaim)

	restored := s.tickets.Restore(&ticket.RestoreInput{
		Tickets:         tickets,
		PendingWagers:   wagers,
		Cooldowns:       cooldowns,
		RetiredChannels: retired,
		ClaimedPayouts:  claims,
	})
	for _, t := range restored.Rejected {
		data, _ := json.Marshal(t)
		s.quarantine(ctx, out, KindTicket, "opponent is already held by another ticket", data)
	}
	s.payments.Restore(records)

	out.Tickets = len(tickets) - len(restored.Rejected)
	out.PendingWagers = len(wagers)
	out.Payments = len(records)
	out.Cooldowns = len(cooldowns)
	out.RetiredChannels = len(retired)
	out.ClaimedPayouts = len(claims)

	if out.Quarantined > 0 {
		s.log.Warnf("Quarantined %d snapshot records", out.Quarantined)
		if err := s.Flush(ctx); err != nil {
			return nil, err
		}
	}
	s.log.Infof("Restored snapshot saved at %s: %d tickets, %d wagers, %d payments, %d cooldowns",
		raw.SavedAt.Format(time.RFC3339), out.Tickets, out.PendingWagers, out.Payments, out.Cooldowns)
	return out, nil
}

// Quarantined lists records set aside by earlier restores, oldest first
func (s *Service) Quarantined(ctx context.Context) ([]*snapshot.QuarantinedRecord, error) {
	out, err := s.repo.ListQuarantined(ctx, &snapshot.ListQuarantinedInput{})
	if err != nil {
		return nil, fmt.Errorf("%w: listing quarantine: %v", models.ErrPersistenceError, err)
	}
	return out.Records, nil
}

func decodeAll[T any](ctx context.Context, s *Service, out *RestoreOutput, kind string, raws []json.RawMessage, validate func(*T) error) []*T {
	var items []*T
	for _, r := range raws {
		item := new(T)
		if err := json.Unmarshal(r, item); err != nil {
			s.quarantine(ctx, out, kind, err.Error(), r)
			continue
		}
		if err := validate(item); err != nil {
			s.quarantine(ctx, out, kind, err.Error(), r)
			continue
		}
		items = append(items, item)
	}
	return items
}

func (s *Service) quarantine(ctx context.Context, out *RestoreOutput, kind, reason string, record []byte) {
	out.Quarantined++
	metrics.QuarantinedRecords.WithLabelValues(kind).Inc()
	s.log.Warnf("Quarantining %s record: %s", kind, reason)
	err := s.repo.QuarantineRecord(ctx, &snapshot.QuarantineRecordInput{
		Kind:   kind,
		Reason: reason,
		Record: record,
	})
	if err != nil {
		s.log.Errorf("Failed to quarantine %s record (%s): %v", kind, reason, err)
	}
}
