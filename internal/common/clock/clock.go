package clock

import "time"

//go:generate mockgen -package=mocks -destination=mocks/mock_clock.go github.com/KirkDiggler/ticketsnipe/internal/common/clock Clock
type Clock interface {
	Now() time.Time

	// After waits for the duration to elapse and then sends the current time
	After(d time.Duration) <-chan time.Time
}

// DefaultClock implements the Clock interface using the system clock
type DefaultClock struct{}

// Now returns the current time
func (c *DefaultClock) Now() time.Time {
	return time.Now()
}

// After delegates to time.After
func (c *DefaultClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
