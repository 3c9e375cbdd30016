package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Chain identifies a supported blockchain
type Chain string

const (
	// ChainLTC is Litecoin
	ChainLTC Chain = "LTC"

	// ChainSOL is Solana
	ChainSOL Chain = "SOL"
)

// ParseChain normalizes a chain name or ticker
func ParseChain(s string) (Chain, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LTC", "LITECOIN":
		return ChainLTC, true
	case "SOL", "SOLANA":
		return ChainSOL, true
	}
	return "", false
}

// Decimals returns the number of fractional digits of the chain's native unit
func (c Chain) Decimals() int32 {
	switch c {
	case ChainLTC:
		return 8
	case ChainSOL:
		return 9
	default:
		return 8
	}
}

// Direction is the direction of value movement relative to our wallet
type Direction string

const (
	// DirectionInbound is value received by our wallet
	DirectionInbound Direction = "in"

	// DirectionOutbound is value sent from our wallet
	DirectionOutbound Direction = "out"
)

// Transaction is a wallet transaction as reported by a chain adapter
type Transaction struct {
	// TxID is the chain transaction id (hash or signature)
	TxID string `json:"tx_id"`

	// Amount is the absolute value moved, in native units
	Amount decimal.Decimal `json:"amount"`

	// Confirmations is the number of confirmations, 0 when unconfirmed
	Confirmations int64 `json:"confirmations"`

	// Timestamp is the block or receive time
	Timestamp time.Time `json:"timestamp"`

	// Direction is inbound or outbound
	Direction Direction `json:"direction"`
}
