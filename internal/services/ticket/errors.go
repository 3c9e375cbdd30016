package ticket

// ManagerError is a custom error type for ticket manager construction errors
type ManagerError string

// Error implements the error interface
func (e ManagerError) Error() string {
	return string(e)
}

const (
	ErrNilConfig   ManagerError = "config cannot be nil"
	ErrNilClock    ManagerError = "clock cannot be nil"
	ErrInvalidSeed ManagerError = "ticket seed is incomplete"
)
