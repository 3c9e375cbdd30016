package idempotency

// StoreError is a custom error type for idempotency store construction errors
type StoreError string

// Error implements the error interface
func (e StoreError) Error() string {
	return string(e)
}

const (
	ErrNilConfig StoreError = "config cannot be nil"
	ErrNilClock  StoreError = "clock cannot be nil"
)
