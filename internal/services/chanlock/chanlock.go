// Package chanlock serializes work per chat channel. Waiters are served in
// arrival order.
package chanlock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/KirkDiggler/ticketsnipe/internal/common/clock"
	"github.com/KirkDiggler/ticketsnipe/internal/metrics"
	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/decred/slog"
)

// Config for the lock table
type Config struct {
	Clock  clock.Clock
	Logger slog.Logger

	// Timeout bounds how long Acquire waits; zero waits until ctx is done
	Timeout time.Duration
}

type waiter struct {
	ready chan struct{}
}

type queue struct {
	held    bool
	waiters []*waiter
}

// Locker is a table of FIFO locks keyed by channel id
type Locker struct {
	mu       sync.Mutex
	channels map[string]*queue
	clock    clock.Clock
	log      slog.Logger
	timeout  time.Duration
}

// New creates a lock table
func New(cfg *Config) *Locker {
	if cfg == nil {
		cfg = &Config{}
	}
	c := cfg.Clock
	if c == nil {
		c = &clock.DefaultClock{}
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Disabled
	}
	return &Locker{
		channels: make(map[string]*queue),
		clock:    c,
		log:      log,
		timeout:  cfg.Timeout,
	}
}

// Slot is a place in a channel's queue taken by Reserve. Exactly one of
// Wait or Cancel settles it.
type Slot struct {
	locker    *Locker
	channelID string
	w         *waiter
	settled   bool
}

// Reserve takes the next place in the channel's queue without blocking, so
// callers can fix the order of work before handing it to another goroutine.
func (l *Locker) Reserve(channelID string) *Slot {
	l.mu.Lock()
	defer l.mu.Unlock()

	q, ok := l.channels[channelID]
	if !ok {
		q = &queue{}
		l.channels[channelID] = q
	}
	w := &waiter{ready: make(chan struct{})}
	if !q.held && len(q.waiters) == 0 {
		q.held = true
		close(w.ready)
	} else {
		q.waiters = append(q.waiters, w)
	}
	return &Slot{locker: l, channelID: channelID, w: w}
}

// Acquire waits for the channel's lock. The returned release func must be
// called exactly once; extra calls are ignored.
func (l *Locker) Acquire(ctx context.Context, channelID string) (func(), error) {
	return l.Reserve(channelID).Wait(ctx)
}

// Wait blocks until the slot reaches the head of the queue. The timeout
// starts when Wait is called.
func (s *Slot) Wait(ctx context.Context) (func(), error) {
	l := s.locker
	l.mu.Lock()
	if s.settled {
		l.mu.Unlock()
		return nil, fmt.Errorf("slot for channel %s already settled", s.channelID)
	}
	s.settled = true
	l.mu.Unlock()

	select {
	case <-s.w.ready:
		return l.releaser(s.channelID), nil
	default:
	}

	l.log.Tracef("Waiting for channel %s (queue depth %d)", s.channelID, l.Pending(s.channelID))

	var timeout <-chan time.Time
	if l.timeout > 0 {
		timeout = l.clock.After(l.timeout)
	}

	var err error
	select {
	case <-s.w.ready:
		return l.releaser(s.channelID), nil
	case <-ctx.Done():
		err = ctx.Err()
	case <-timeout:
		err = fmt.Errorf("%w: channel %s after %s", models.ErrLockTimeout, s.channelID, l.timeout)
	}

	l.giveUp(s.channelID, s.w)
	if ctx.Err() == nil {
		metrics.LockTimeouts.Inc()
	}
	return nil, err
}

// Cancel gives the slot up without doing any work
func (s *Slot) Cancel() {
	l := s.locker
	l.mu.Lock()
	if s.settled {
		l.mu.Unlock()
		return
	}
	s.settled = true
	l.mu.Unlock()
	l.giveUp(s.channelID, s.w)
}

// giveUp leaves the queue, passing the lock on if it was handed over
func (l *Locker) giveUp(channelID string, w *waiter) {
	l.mu.Lock()
	select {
	case <-w.ready:
		l.mu.Unlock()
		l.release(channelID)
		return
	default:
	}
	if q, ok := l.channels[channelID]; ok {
		for i, other := range q.waiters {
			if other == w {
				q.waiters = append(q.waiters[:i], q.waiters[i+1:]...)
				break
			}
		}
	}
	l.mu.Unlock()
}

func (l *Locker) releaser(channelID string) func() {
	var once sync.Once
	return func() {
		once.Do(func() { l.release(channelID) })
	}
}

func (l *Locker) release(channelID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	q, ok := l.channels[channelID]
	if !ok {
		return
	}
	if len(q.waiters) > 0 {
		next := q.waiters[0]
		q.waiters = q.waiters[1:]
		close(next.ready)
		return
	}
	q.held = false
	delete(l.channels, channelID)
}

// Do runs fn while holding the channel's lock. The lock is released even
// if fn panics.
func (l *Locker) Do(ctx context.Context, channelID string, fn func(ctx context.Context) error) error {
	release, err := l.Acquire(ctx, channelID)
	if err != nil {
		return err
	}
	defer release()
	return fn(ctx)
}

// Pending reports how many callers wait on a channel, for tests and logs
func (l *Locker) Pending(channelID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if q, ok := l.channels[channelID]; ok {
		return len(q.waiters)
	}
	return 0
}
