package payout

// MonitorError is a custom error type for monitor construction errors
type MonitorError string

// Error implements the error interface
func (e MonitorError) Error() string {
	return string(e)
}

const (
	ErrNilConfig    MonitorError = "config cannot be nil"
	ErrNilTickets   MonitorError = "ticket manager cannot be nil"
	ErrNilPayments  MonitorError = "idempotency store cannot be nil"
	ErrNilRegistry  MonitorError = "chain registry cannot be nil"
	ErrNilLocker    MonitorError = "channel locker cannot be nil"
	ErrNilVouch     MonitorError = "vouch poster cannot be nil"
	ErrNilMessenger MonitorError = "messenger cannot be nil"
	ErrNilMessaging MonitorError = "messaging service cannot be nil"
)
