// Package idempotency guards outgoing payments so each (ticket, address,
// amount) tuple is sent at most once.
package idempotency

import (
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/KirkDiggler/ticketsnipe/internal/address"
	"github.com/KirkDiggler/ticketsnipe/internal/common/clock"
	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/decred/slog"
	"github.com/shopspring/decimal"
	"github.com/zeebo/blake3"
)

// paymentDomainKey separates payment ids from any other BLAKE3 use. The
// bytes are the ASCII domain name zero-padded to 32 bytes.
var paymentDomainKey = [32]byte{
	's', 'n', 'i', 'p', 'e', '.', 'p', 'a', 'y', 'm', 'e', 'n', 't', '.', 'i', 'd',
}

// GeneratePaymentID fingerprints a payment. The address is canonicalized
// for the chain and the amount is rendered to the chain's native decimals,
// so "21" and "21.00000000" produce the same id.
func GeneratePaymentID(ticketID, addr string, amount decimal.Decimal, chain models.Chain) string {
	hasher, err := blake3.NewKeyed(paymentDomainKey[:])
	if err != nil {
		panic("idempotency: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write([]byte(ticketID))
	hasher.Write([]byte{0})
	hasher.Write([]byte(chain))
	hasher.Write([]byte{0})
	hasher.Write([]byte(address.Canonical(addr, chain)))
	hasher.Write([]byte{0})
	hasher.Write([]byte(amount.StringFixed(chain.Decimals())))
	return hex.EncodeToString(hasher.Sum(nil))
}

// Config holds the store's collaborators
type Config struct {
	Clock  clock.Clock
	Logger slog.Logger

	// Notifier is optional and can be set later with SetNotifier
	Notifier Notifier
}

// Store is the in-memory idempotency index
type Store struct {
	mu       sync.Mutex
	records  map[string]*models.IdempotencyRecord
	clock    clock.Clock
	log      slog.Logger
	notifier Notifier
}

var _ Service = (*Store)(nil)

// New creates an empty store
func New(cfg *Config) (*Store, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Disabled
	}
	return &Store{
		records:  make(map[string]*models.IdempotencyRecord),
		clock:    cfg.Clock,
		log:      log,
		notifier: cfg.Notifier,
	}, nil
}

// SetNotifier wires the persister once it exists
func (s *Store) SetNotifier(n Notifier) {
	s.mu.Lock()
	s.notifier = n
	s.mu.Unlock()
}

func (s *Store) dirty() {
	if s.notifier != nil {
		s.notifier.MarkDirty()
	}
}

// RecordIntent claims a payment id. It returns true only for the first
// claim; every later call with the same id is refused.
func (s *Store) RecordIntent(input *RecordIntentInput) (bool, error) {
	if input == nil || input.PaymentID == "" {
		return false, fmt.Errorf("%w: payment id is required", models.ErrInvalidStateTransition)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.records[input.PaymentID]; ok {
		s.log.Warnf("Refusing duplicate intent %s for ticket %s (status %s)",
			short(input.PaymentID), existing.TicketChannelID, existing.Status)
		return false, nil
	}

	now := s.clock.Now()
	s.records[input.PaymentID] = &models.IdempotencyRecord{
		PaymentID:       input.PaymentID,
		Status:          models.PaymentStatusIntent,
		Address:         input.Address,
		Amount:          input.Amount,
		TicketChannelID: input.TicketChannelID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.log.Debugf("Recorded intent %s for ticket %s", short(input.PaymentID), input.TicketChannelID)
	s.dirty()
	return true, nil
}

// RecordBroadcast moves an INTENT to BROADCAST with the network tx id
func (s *Store) RecordBroadcast(paymentID, txID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[paymentID]
	if !ok {
		return fmt.Errorf("%w: no intent for payment %s", models.ErrInvalidStateTransition, short(paymentID))
	}
	if rec.Status != models.PaymentStatusIntent {
		return fmt.Errorf("%w: payment %s is %s", models.ErrInvalidStateTransition, short(paymentID), rec.Status)
	}
	if txID == "" {
		return fmt.Errorf("%w: broadcast needs a tx id", models.ErrInvalidStateTransition)
	}

	rec.Status = models.PaymentStatusBroadcast
	rec.TxID = txID
	rec.UpdatedAt = s.clock.Now()
	s.dirty()
	return nil
}

// RecordConfirmed moves BROADCAST to CONFIRMED. Confirming twice is a no-op.
func (s *Store) RecordConfirmed(paymentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[paymentID]
	if !ok {
		return fmt.Errorf("%w: no record for payment %s", models.ErrInvalidStateTransition, short(paymentID))
	}
	switch rec.Status {
	case models.PaymentStatusConfirmed:
		return nil
	case models.PaymentStatusBroadcast:
		rec.Status = models.PaymentStatusConfirmed
		rec.UpdatedAt = s.clock.Now()
		s.dirty()
		return nil
	default:
		return fmt.Errorf("%w: payment %s is %s", models.ErrInvalidStateTransition, short(paymentID), rec.Status)
	}
}

// CanSend reports whether a payment may still go to the network
func (s *Store) CanSend(paymentID string) *CanSendOutput {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[paymentID]
	if !ok {
		return &CanSendOutput{CanSend: true}
	}
	if rec.Status.Rank() >= models.PaymentStatusBroadcast.Rank() {
		return &CanSendOutput{
			CanSend: false,
			Reason:  fmt.Sprintf("payment already %s as %s", rec.Status, rec.TxID),
		}
	}
	return &CanSendOutput{CanSend: true, Reason: "intent recorded, not broadcast"}
}

// Get returns a copy of a record
func (s *Store) Get(paymentID string) (*models.IdempotencyRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[paymentID]
	if !ok {
		return nil, false
	}
	c := *rec
	return &c, true
}

// ForTicket returns copies of all records belonging to a ticket
func (s *Store) ForTicket(ticketID string) []*models.IdempotencyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.IdempotencyRecord
	for _, rec := range s.records {
		if rec.TicketChannelID == ticketID {
			c := *rec
			out = append(out, &c)
		}
	}
	sortRecords(out)
	return out
}

// Prune drops records last touched before cutoff whose ticket is no longer
// live. It returns how many were removed.
func (s *Store) Prune(cutoff time.Time, live func(ticketID string) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, rec := range s.records {
		if rec.UpdatedAt.Before(cutoff) && (live == nil || !live(rec.TicketChannelID)) {
			delete(s.records, id)
			removed++
		}
	}
	if removed > 0 {
		s.dirty()
	}
	return removed
}

// Snapshot returns copies of every record ordered by creation time
func (s *Store) Snapshot() []*models.IdempotencyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.IdempotencyRecord, 0, len(s.records))
	for _, rec := range s.records {
		c := *rec
		out = append(out, &c)
	}
	sortRecords(out)
	return out
}

// Restore replaces the store contents with persisted records
func (s *Store) Restore(records []*models.IdempotencyRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]*models.IdempotencyRecord, len(records))
	for _, rec := range records {
		if rec == nil || rec.PaymentID == "" {
			continue
		}
		c := *rec
		s.records[rec.PaymentID] = &c
	}
	s.log.Infof("Restored %d idempotency records", len(s.records))
}

func sortRecords(recs []*models.IdempotencyRecord) {
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].PaymentID < recs[j].PaymentID
		}
		return recs[i].CreatedAt.Before(recs[j].CreatedAt)
	})
}

func short(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
