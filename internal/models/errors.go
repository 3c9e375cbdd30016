package models

// EngineError is a custom error type for engagement errors
type EngineError string

// Error implements the error interface
func (e EngineError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrInsufficientBalance    EngineError = "insufficient balance"
	ErrInvalidAddress         EngineError = "invalid address"
	ErrSelfAddressRejected    EngineError = "address is our own receive address"
	ErrDuplicatePayment       EngineError = "duplicate payment"
	ErrRpcTransient           EngineError = "transient rpc failure"
	ErrRpcFatal               EngineError = "fatal rpc failure"
	ErrInvalidStateTransition EngineError = "invalid state transition"
	ErrTicketNotFound         EngineError = "ticket not found"
	ErrLockTimeout            EngineError = "channel lock timeout"
	ErrPersistenceError       EngineError = "persistence failure"
	ErrConfigError            EngineError = "invalid configuration"
	ErrTicketExists           EngineError = "ticket already exists for this channel"
	ErrUserHasTicket          EngineError = "user already has an open ticket"
	ErrWagerNotFound          EngineError = "pending wager not found"
	ErrUnsupportedChain       EngineError = "unsupported chain"
	ErrGameOver               EngineError = "game is already over"
)
