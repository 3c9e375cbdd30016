package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KirkDiggler/ticketsnipe/internal/common/clock"
	"github.com/KirkDiggler/ticketsnipe/internal/metrics"
	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/decred/slog"
)

const (
	defaultAttempts = 3
	defaultBackoff  = 500 * time.Millisecond
	defaultTimeout  = 15 * time.Second
)

// RetryPolicy bounds calls to a chain node
type RetryPolicy struct {
	// Attempts is the total number of tries for read calls
	Attempts int

	// Backoff is the first delay; each retry doubles it
	Backoff time.Duration

	// Timeout is the deadline of each individual call
	Timeout time.Duration
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.Attempts < 1 {
		p.Attempts = defaultAttempts
	}
	if p.Backoff <= 0 {
		p.Backoff = defaultBackoff
	}
	if p.Timeout <= 0 {
		p.Timeout = defaultTimeout
	}
	return p
}

type retrier struct {
	policy RetryPolicy
	clock  clock.Clock
	log    slog.Logger
	chain  models.Chain
}

// once runs fn a single time under the call deadline
func (r *retrier) once(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	callCtx, cancel := context.WithTimeout(ctx, r.policy.Timeout)
	defer cancel()
	return classify(op, fn(callCtx))
}

// do retries transient failures with exponential backoff and promotes the
// last one to ErrRpcFatal when attempts run out
func (r *retrier) do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt < r.policy.Attempts; attempt++ {
		if attempt > 0 {
			backoff := r.policy.Backoff * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-r.clock.After(backoff):
			}
		}

		err := r.once(ctx, op, fn)
		if err == nil {
			return nil
		}
		lastErr = err

		if !errors.Is(err, models.ErrRpcTransient) || ctx.Err() != nil {
			return err
		}

		metrics.RPCRetries.WithLabelValues(string(r.chain)).Inc()
		r.log.Warnf("%s %s: transient failure (attempt %d/%d): %v",
			r.chain, op, attempt+1, r.policy.Attempts, err)
	}
	return fmt.Errorf("%w: %s gave up after %d attempts: %v", models.ErrRpcFatal, op, r.policy.Attempts, lastErr)
}
