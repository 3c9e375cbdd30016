package chain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"

	"github.com/KirkDiggler/ticketsnipe/internal/models"
)

// AdapterError is a custom error type for adapter construction errors
type AdapterError string

// Error implements the error interface
func (e AdapterError) Error() string {
	return string(e)
}

const (
	ErrNilConfig       AdapterError = "config cannot be nil"
	ErrNilCaller       AdapterError = "rpc caller cannot be nil"
	ErrNilSolanaRPC    AdapterError = "solana rpc cannot be nil"
	ErrNilUUID         AdapterError = "UUID generator cannot be nil"
	ErrMissingAddress  AdapterError = "receive address is required"
	ErrMissingSigner   AdapterError = "private key is required to send"
	ErrDuplicateChain  AdapterError = "chain registered twice"
	ErrNonPositiveSend AdapterError = "send amount must be positive"
)

// classify maps a raw RPC error onto the engine's error kinds. Connection
// level failures and overload responses are transient; anything the node
// answered with is fatal unless it names a known local condition.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, models.ErrRpcTransient) || errors.Is(err, models.ErrRpcFatal) ||
		errors.Is(err, models.ErrInsufficientBalance) || errors.Is(err, models.ErrInvalidAddress) {
		return err
	}

	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "insufficient funds"), strings.Contains(lower, "insufficient lamports"):
		return fmt.Errorf("%w: %s: %v", models.ErrInsufficientBalance, op, err)
	case strings.Contains(lower, "invalid address"), strings.Contains(lower, "invalid litecoin address"):
		return fmt.Errorf("%w: %s: %v", models.ErrInvalidAddress, op, err)
	}

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		strings.Contains(lower, "429"),
		strings.Contains(lower, "too many requests"),
		strings.Contains(lower, "503"),
		strings.Contains(lower, "502"),
		strings.Contains(lower, "loading block index"),
		strings.Contains(lower, "connection refused"):
		return fmt.Errorf("%w: %s: %v", models.ErrRpcTransient, op, err)
	}
	return fmt.Errorf("%w: %s: %v", models.ErrRpcFatal, op, err)
}
