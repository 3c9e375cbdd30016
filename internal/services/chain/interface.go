package chain

//go:generate mockgen -package=mocks -destination=mocks/mock_adapter.go github.com/KirkDiggler/ticketsnipe/internal/services/chain Adapter,RawCaller,SolanaRPC

import (
	"context"
	"encoding/json"

	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// Adapter is the wallet capability set every supported chain provides
type Adapter interface {
	// Chain identifies the chain this adapter serves
	Chain() models.Chain

	// GetBalance returns the spendable balance in native units
	GetBalance(ctx context.Context) (*Balance, error)

	// SendPayment broadcasts a transfer. Callers must hold an accepted
	// idempotency intent and must not retry on failure.
	SendPayment(ctx context.Context, address string, amount decimal.Decimal) (*SendResult, error)

	// GetRecentTransactions returns recent inbound transactions, newest first
	GetRecentTransactions(ctx context.Context, limit int) ([]*models.Transaction, error)

	// GetPayoutAddress is our own receive address on this chain
	GetPayoutAddress() string
}

// Depositor accepts injected inbound transactions. Only dry-run adapters
// implement it.
type Depositor interface {
	Deposit(tx *models.Transaction)
}

// RawCaller is the JSON-RPC surface the Litecoin adapter needs
type RawCaller interface {
	RawRequest(ctx context.Context, method string, params []json.RawMessage) (json.RawMessage, error)
}

// SolanaRPC is the Solana surface the Solana adapter needs. Balances are
// reported per watched account so direction can be derived from deltas.
type SolanaRPC interface {
	Balance(ctx context.Context, account solana.PublicKey) (uint64, error)
	RecentSignatures(ctx context.Context, account solana.PublicKey, limit int) ([]*SolanaSignature, error)
	BalanceChange(ctx context.Context, signature string, account solana.PublicKey) (*SolanaBalanceChange, error)
	Transfer(ctx context.Context, from solana.PrivateKey, to solana.PublicKey, lamports uint64) (string, error)
}
