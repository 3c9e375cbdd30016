// Package ticket keeps the registry of pending wagers, tickets and
// cooldowns, and applies state transitions to tickets.
package ticket

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/KirkDiggler/ticketsnipe/internal/common/clock"
	"github.com/KirkDiggler/ticketsnipe/internal/metrics"
	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/decred/slog"
)

// Config holds the manager's collaborators and timings
type Config struct {
	Clock  clock.Clock
	Logger slog.Logger

	// Notifier is optional and can be set later with SetNotifier
	Notifier Notifier

	// PendingWagerTTL bounds how long a countered offer can be latched
	PendingWagerTTL time.Duration

	// CleanupGrace is how long completed and cancelled tickets stay before
	// Sweep drops them. ERROR tickets stay until released.
	CleanupGrace time.Duration

	// Retention is how long retired channels and claimed payout tx ids are
	// remembered
	Retention time.Duration
}

const defaultRetention = 30 * 24 * time.Hour

// Manager is the in-memory ticket registry. Every returned ticket or wager
// is a copy.
type Manager struct {
	mu            sync.Mutex
	pendingWagers map[string]*models.PendingWager
	tickets       map[string]*models.Ticket
	userIndex     map[string]string
	cooldowns     map[string]time.Time
	retired       map[string]time.Time
	claimed       map[string]*models.ClaimedPayout

	clock     clock.Clock
	log       slog.Logger
	notifier  Notifier
	ttl       time.Duration
	grace     time.Duration
	retention time.Duration
}

var _ Service = (*Manager)(nil)

// New creates an empty manager
func New(cfg *Config) (*Manager, error) {
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
	retention := cfg.Retention
	if retention <= 0 {
		retention = defaultRetention
	}
	return &Manager{
		pendingWagers: make(map[string]*models.PendingWager),
		tickets:       make(map[string]*models.Ticket),
		userIndex:     make(map[string]string),
		cooldowns:     make(map[string]time.Time),
		retired:       make(map[string]time.Time),
		claimed:       make(map[string]*models.ClaimedPayout),
		clock:         cfg.Clock,
		log:           log,
		notifier:      cfg.Notifier,
		ttl:           cfg.PendingWagerTTL,
		grace:         cfg.CleanupGrace,
		retention:     retention,
	}, nil
}

// SetNotifier wires the persister once it exists
func (m *Manager) SetNotifier(n Notifier) {
	m.mu.Lock()
	m.notifier = n
	m.mu.Unlock()
}

// changed must be called with mu held
func (m *Manager) changed() {
	m.observe()
	if m.notifier != nil {
		m.notifier.MarkDirty()
	}
}

func (m *Manager) observe() {
	counts := make(map[models.TicketState]int)
	for _, t := range m.tickets {
		counts[t.State]++
	}
	for _, state := range allStates {
		metrics.TicketsByState.WithLabelValues(string(state)).Set(float64(counts[state]))
	}
}

var allStates = []models.TicketState{
	models.TicketStateAwaitingTicket,
	models.TicketStateAwaitingMiddleman,
	models.TicketStateAwaitingPaymentAddress,
	models.TicketStatePaymentSent,
	models.TicketStateAwaitingGameStart,
	models.TicketStateGameInProgress,
	models.TicketStateAwaitingPayout,
	models.TicketStateGameComplete,
	models.TicketStateCancelled,
	models.TicketStateError,
}

// StorePendingWager records a countered offer, replacing any older offer
// from the same user
func (m *Manager) StorePendingWager(w *models.PendingWager) error {
	if w == nil || w.OpponentID == "" {
		return fmt.Errorf("%w: wager needs an opponent", ErrInvalidSeed)
	}
	if !w.OpponentBet.IsPositive() || !w.OurBet.IsPositive() {
		return fmt.Errorf("%w: wager amounts must be positive", ErrInvalidSeed)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c := *w
	if c.CreatedAt.IsZero() {
		c.CreatedAt = m.clock.Now()
	}
	m.pendingWagers[w.OpponentID] = &c
	m.log.Debugf("Stored pending wager for %s: %s vs %s", w.OpponentID, w.OpponentBet, w.OurBet)
	m.changed()
	return nil
}

// PeekPendingWager returns a live wager without consuming it
func (m *Manager) PeekPendingWager(userID string) (*models.PendingWager, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.pendingWagers[userID]
	if !ok || w.Expired(m.clock.Now(), m.ttl) {
		return nil, false
	}
	c := *w
	return &c, true
}

// ConsumePendingWager removes and returns a live wager
func (m *Manager) ConsumePendingWager(userID string) (*models.PendingWager, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.pendingWagers[userID]
	if !ok {
		return nil, models.ErrWagerNotFound
	}
	delete(m.pendingWagers, userID)
	m.changed()
	if w.Expired(m.clock.Now(), m.ttl) {
		return nil, fmt.Errorf("%w: wager from %s expired", models.ErrWagerNotFound, userID)
	}
	return w, nil
}

// PendingWagers lists live wagers, oldest first
func (m *Manager) PendingWagers() []*models.PendingWager {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	out := make([]*models.PendingWager, 0, len(m.pendingWagers))
	for _, w := range m.pendingWagers {
		if w.Expired(now, m.ttl) {
			continue
		}
		c := *w
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// CreateTicket registers a new ticket in AWAITING_TICKET
func (m *Manager) CreateTicket(input *CreateTicketInput) (*models.Ticket, error) {
	if input == nil || input.ChannelID == "" || input.Wager == nil || input.Wager.OpponentID == "" {
		return nil, ErrInvalidSeed
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tickets[input.ChannelID]; ok {
		return nil, fmt.Errorf("%w: %s", models.ErrTicketExists, input.ChannelID)
	}
	if _, ok := m.retired[input.ChannelID]; ok {
		return nil, fmt.Errorf("%w: %s already hosted a ticket", models.ErrTicketExists, input.ChannelID)
	}
	if existing, ok := m.userIndex[input.Wager.OpponentID]; ok {
		return nil, fmt.Errorf("%w: %s holds %s", models.ErrUserHasTicket, input.Wager.OpponentID, existing)
	}

	chain := input.Chain
	if chain == "" {
		chain = input.Wager.Chain
	}
	now := m.clock.Now()
	t := &models.Ticket{
		ChannelID: input.ChannelID,
		State:     models.TicketStateAwaitingTicket,
		Data: models.TicketData{
			OpponentID:   input.Wager.OpponentID,
			OpponentName: input.Wager.OpponentName,
			OpponentBet:  input.Wager.OpponentBet,
			OurBet:       input.Wager.OurBet,
			Chain:        chain,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.tickets[t.ChannelID] = t
	m.userIndex[t.Data.OpponentID] = t.ChannelID
	m.log.Infof("Created ticket %s for %s (%s %s vs %s)",
		t.ChannelID, t.Data.OpponentID, chain, t.Data.OpponentBet, t.Data.OurBet)
	m.changed()
	return t.Clone(), nil
}

// GetTicket returns a ticket by channel
func (m *Manager) GetTicket(channelID string) (*models.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tickets[channelID]
	if !ok {
		return nil, models.ErrTicketNotFound
	}
	return t.Clone(), nil
}

// GetTicketByUser returns the user's live ticket
func (m *Manager) GetTicketByUser(userID string) (*models.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	channelID, ok := m.userIndex[userID]
	if !ok {
		return nil, models.ErrTicketNotFound
	}
	return m.tickets[channelID].Clone(), nil
}

// IsRetired reports whether a channel hosted a ticket that is gone now
func (m *Manager) IsRetired(channelID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.retired[channelID]
	return ok
}

// GetActiveTickets lists non-terminal tickets, oldest first
func (m *Manager) GetActiveTickets() []*models.Ticket {
	return m.filter(func(t *models.Ticket) bool { return !t.IsTerminal() })
}

// GetTicketsInState lists tickets in one state, oldest first
func (m *Manager) GetTicketsInState(state models.TicketState) []*models.Ticket {
	return m.filter(func(t *models.Ticket) bool { return t.State == state })
}

func (m *Manager) filter(keep func(*models.Ticket) bool) []*models.Ticket {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*models.Ticket
	for _, t := range m.tickets {
		if keep(t) {
			out = append(out, t.Clone())
		}
	}
	sortTickets(out)
	return out
}

// Transition moves a ticket along a legal edge and bumps UpdatedAt
func (m *Manager) Transition(channelID string, tr models.Transition) (*models.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tickets[channelID]
	if !ok {
		return nil, models.ErrTicketNotFound
	}
	next, err := t.Apply(tr)
	if err != nil {
		return nil, err
	}
	next.UpdatedAt = m.clock.Now()
	m.tickets[channelID] = next
	if !holdsUser(next) && m.userIndex[next.Data.OpponentID] == channelID {
		delete(m.userIndex, next.Data.OpponentID)
	}
	if txID := next.Data.PayoutTxID; txID != "" && t.Data.PayoutTxID == "" {
		m.claimed[txID] = &models.ClaimedPayout{TxID: txID, ChannelID: channelID, ClaimedAt: next.UpdatedAt}
	}
	m.log.Infof("Ticket %s: %s -> %s", channelID, t.State, next.State)
	m.changed()
	return next.Clone(), nil
}

// UpdateData applies a bookkeeping edit without changing state. Edits to
// transition-owned fields are rejected.
func (m *Manager) UpdateData(channelID string, mutate DataMutator) (*models.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tickets[channelID]
	if !ok {
		return nil, models.ErrTicketNotFound
	}
	if t.IsTerminal() {
		return nil, fmt.Errorf("%w: ticket %s is %s", models.ErrInvalidStateTransition, channelID, t.State)
	}

	next := t.Clone()
	if err := mutate(&next.Data); err != nil {
		return nil, err
	}
	if !sameOwnedFields(&t.Data, &next.Data) {
		return nil, fmt.Errorf("%w: data edit touched transition fields", models.ErrInvalidStateTransition)
	}
	next.UpdatedAt = m.clock.Now()
	m.tickets[channelID] = next
	m.changed()
	return next.Clone(), nil
}

func sameOwnedFields(a, b *models.TicketData) bool {
	return a.OpponentID == b.OpponentID &&
		a.OpponentBet.Equal(b.OpponentBet) &&
		a.OurBet.Equal(b.OurBet) &&
		a.Chain == b.Chain &&
		a.MiddlemanID == b.MiddlemanID &&
		a.RecipientAddress == b.RecipientAddress &&
		a.PaymentLocked == b.PaymentLocked &&
		a.PaymentID == b.PaymentID &&
		a.SendTxID == b.SendTxID &&
		a.GameWinner == b.GameWinner &&
		a.PayoutTxID == b.PayoutTxID
}

// holdsUser reports whether t keeps its opponent from another ticket.
// ERROR tickets hold until an operator releases them.
func holdsUser(t *models.Ticket) bool {
	return !t.IsTerminal() || t.State == models.TicketStateError
}

// RemoveTicket drops a ticket and its user index entry. The channel is
// retired and never hosts another ticket.
func (m *Manager) RemoveTicket(channelID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tickets[channelID]
	if !ok {
		return models.ErrTicketNotFound
	}
	delete(m.tickets, channelID)
	if m.userIndex[t.Data.OpponentID] == channelID {
		delete(m.userIndex, t.Data.OpponentID)
	}
	m.retired[channelID] = m.clock.Now()
	m.log.Debugf("Removed ticket %s (%s)", channelID, t.State)
	m.changed()
	return nil
}

// SetCooldown blocks a user from new offers for d
func (m *Manager) SetCooldown(userID string, d time.Duration) {
	if userID == "" || d <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cooldowns[userID] = m.clock.Now().Add(d)
	m.changed()
}

// IsCoolingDown reports whether the user is still blocked
func (m *Manager) IsCoolingDown(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	until, ok := m.cooldowns[userID]
	return ok && m.clock.Now().Before(until)
}

// ClaimedPayoutTx reports whether a tx id already completed some ticket,
// including tickets swept since
func (m *Manager) ClaimedPayoutTx(txID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.claimed[txID]
	return ok
}

// Sweep drops expired wagers, lapsed cooldowns, completed and cancelled
// tickets older than the cleanup grace, and tombstones past retention
func (m *Manager) Sweep() *SweepOutput {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	out := &SweepOutput{}
	for id, w := range m.pendingWagers {
		if w.Expired(now, m.ttl) {
			delete(m.pendingWagers, id)
			out.ExpiredWagers++
		}
	}
	for id, until := range m.cooldowns {
		if !now.Before(until) {
			delete(m.cooldowns, id)
			out.ExpiredCooldowns++
		}
	}
	for id, t := range m.tickets {
		if holdsUser(t) || now.Sub(t.UpdatedAt) < m.grace {
			continue
		}
		delete(m.tickets, id)
		m.retired[id] = now
		out.RemovedTickets = append(out.RemovedTickets, id)
	}
	sort.Strings(out.RemovedTickets)

	cutoff := now.Add(-m.retention)
	for id, at := range m.retired {
		if at.Before(cutoff) {
			delete(m.retired, id)
			out.ForgottenRecords++
		}
	}
	for id, c := range m.claimed {
		if c.ClaimedAt.Before(cutoff) {
			delete(m.claimed, id)
			out.ForgottenRecords++
		}
	}

	if out.ExpiredWagers+out.ExpiredCooldowns+len(out.RemovedTickets)+out.ForgottenRecords > 0 {
		m.log.Debugf("Swept %d wagers, %d cooldowns, %d tickets, %d tombstones",
			out.ExpiredWagers, out.ExpiredCooldowns, len(out.RemovedTickets), out.ForgottenRecords)
		m.changed()
	}
	return out
}

// Snapshot copies the manager state for persistence
func (m *Manager) Snapshot() *SnapshotOutput {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := &SnapshotOutput{}
	for _, t := range m.tickets {
		out.Tickets = append(out.Tickets, t.Clone())
	}
	sortTickets(out.Tickets)
	for _, w := range m.pendingWagers {
		c := *w
		out.PendingWagers = append(out.PendingWagers, &c)
	}
	sort.Slice(out.PendingWagers, func(i, j int) bool {
		return out.PendingWagers[i].OpponentID < out.PendingWagers[j].OpponentID
	})
	for id, until := range m.cooldowns {
		out.Cooldowns = append(out.Cooldowns, &models.Cooldown{UserID: id, Until: until})
	}
	sort.Slice(out.Cooldowns, func(i, j int) bool { return out.Cooldowns[i].UserID < out.Cooldowns[j].UserID })
	for id, at := range m.retired {
		out.RetiredChannels = append(out.RetiredChannels, &models.RetiredChannel{ChannelID: id, RetiredAt: at})
	}
	sort.Slice(out.RetiredChannels, func(i, j int) bool {
		return out.RetiredChannels[i].ChannelID < out.RetiredChannels[j].ChannelID
	})
	for _, c := range m.claimed {
		cp := *c
		out.ClaimedPayouts = append(out.ClaimedPayouts, &cp)
	}
	sort.Slice(out.ClaimedPayouts, func(i, j int) bool { return out.ClaimedPayouts[i].TxID < out.ClaimedPayouts[j].TxID })
	return out
}

// Restore replaces the manager state. Records are expected to be validated
// already; conflicting live tickets for one user are rejected.
func (m *Manager) Restore(input *RestoreInput) *RestoreOutput {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tickets = make(map[string]*models.Ticket)
	m.userIndex = make(map[string]string)
	m.pendingWagers = make(map[string]*models.PendingWager)
	m.cooldowns = make(map[string]time.Time)
	m.retired = make(map[string]time.Time)
	m.claimed = make(map[string]*models.ClaimedPayout)
	out := &RestoreOutput{}

	tickets := make([]*models.Ticket, 0, len(input.Tickets))
	for _, t := range input.Tickets {
		if t != nil {
			tickets = append(tickets, t.Clone())
		}
	}
	sortTickets(tickets)
	for _, t := range tickets {
		if _, dup := m.tickets[t.ChannelID]; dup {
			out.Rejected = append(out.Rejected, t)
			continue
		}
		if holdsUser(t) {
			if _, taken := m.userIndex[t.Data.OpponentID]; taken {
				out.Rejected = append(out.Rejected, t)
				continue
			}
			m.userIndex[t.Data.OpponentID] = t.ChannelID
		}
		m.tickets[t.ChannelID] = t
	}
	for _, w := range input.PendingWagers {
		if w != nil && w.OpponentID != "" {
			c := *w
			m.pendingWagers[w.OpponentID] = &c
		}
	}
	for _, cd := range input.Cooldowns {
		if cd != nil && cd.UserID != "" {
			m.cooldowns[cd.UserID] = cd.Until
		}
	}
	for _, r := range input.RetiredChannels {
		if r != nil && r.ChannelID != "" {
			m.retired[r.ChannelID] = r.RetiredAt
		}
	}
	for _, c := range input.ClaimedPayouts {
		if c != nil && c.TxID != "" {
			cp := *c
			m.claimed[c.TxID] = &cp
		}
	}
	for _, t := range m.tickets {
		if id := t.Data.PayoutTxID; id != "" {
			if _, ok := m.claimed[id]; !ok {
				m.claimed[id] = &models.ClaimedPayout{TxID: id, ChannelID: t.ChannelID, ClaimedAt: t.UpdatedAt}
			}
		}
	}

	m.observe()
	m.log.Infof("Restored %d tickets, %d pending wagers, %d cooldowns, %d retired channels, %d claimed payouts",
		len(m.tickets), len(m.pendingWagers), len(m.cooldowns), len(m.retired), len(m.claimed))
	return out
}

func sortTickets(ts []*models.Ticket) {
	sort.Slice(ts, func(i, j int) bool {
		if ts[i].CreatedAt.Equal(ts[j].CreatedAt) {
			return ts[i].ChannelID < ts[j].ChannelID
		}
		return ts[i].CreatedAt.Before(ts[j].CreatedAt)
	})
}
