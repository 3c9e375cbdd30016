package engine

// Error is a custom error type for engine construction errors
type Error string

// Error implements the error interface
func (e Error) Error() string {
	return string(e)
}

const (
	ErrNilConfig    Error = "config cannot be nil"
	ErrNilTickets   Error = "ticket manager cannot be nil"
	ErrNilPayments  Error = "idempotency store cannot be nil"
	ErrNilPersister Error = "persister cannot be nil"
	ErrNilLocker    Error = "channel locker cannot be nil"
	ErrNilRegistry  Error = "chain registry cannot be nil"
	ErrNilExtractor Error = "address extractor cannot be nil"
	ErrNilMessenger Error = "messenger cannot be nil"
	ErrNilMessaging Error = "messaging service cannot be nil"
	ErrNilVouch     Error = "vouch poster cannot be nil"
	ErrNilMonitor   Error = "payout monitor cannot be nil"
	ErrNotStarted   Error = "engine has not finished starting"
	ErrNotSettled   Error = "ticket is still live"
	ErrNotAwaiting  Error = "ticket is not awaiting a payout"
	ErrNotSimulated Error = "wallet is not a simulation"
)
