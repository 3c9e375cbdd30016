package persistence

// ServiceError is a custom error type for persistence construction errors
type ServiceError string

// Error implements the error interface
func (e ServiceError) Error() string {
	return string(e)
}

const (
	ErrNilConfig     ServiceError = "config cannot be nil"
	ErrNilRepository ServiceError = "snapshot repository cannot be nil"
	ErrNilTickets    ServiceError = "ticket manager cannot be nil"
	ErrNilPayments   ServiceError = "idempotency store cannot be nil"
)
