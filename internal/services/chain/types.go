package chain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Balance struct {
	Balance decimal.Decimal
}

type SendResult struct {
	TxID string
}

// SolanaSignature is one entry of an account's signature history
type SolanaSignature struct {
	Signature     string
	BlockTime     time.Time
	Failed        bool
	Confirmations int64
}

// SolanaBalanceChange is the watched account's lamports around one
// transaction
type SolanaBalanceChange struct {
	Found     bool
	Pre       uint64
	Post      uint64
	Failed    bool
	BlockTime time.Time
}
