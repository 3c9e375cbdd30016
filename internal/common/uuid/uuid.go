// Package uuid wraps id generation so tests can pin the ids they see.
package uuid

import (
	"encoding/hex"

	"github.com/google/uuid"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_uuid.go github.com/KirkDiggler/ticketsnipe/internal/common/uuid UUID

type UUID interface {
	// NewHex returns 32 lowercase hex characters, shaped like a tx hash
	NewHex() string
}

// DefaultUUID implements the UUID interface using the uuid package
type DefaultUUID struct{}

func New() *DefaultUUID {
	return &DefaultUUID{}
}

// NewHex returns a new UUID without dashes
func (d *DefaultUUID) NewHex() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}
