package chain

import (
	"context"
	"fmt"
	"time"

	"github.com/KirkDiggler/ticketsnipe/internal/common/clock"
	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/decred/slog"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// SolanaConfig configures a Solana wallet adapter
type SolanaConfig struct {
	RPC SolanaRPC

	// PrivateKey signs outgoing transfers; it may be empty for watch-only use
	PrivateKey solana.PrivateKey

	// ReceiveAddress defaults to the private key's public key
	ReceiveAddress string

	Clock  clock.Clock
	Logger slog.Logger
	Retry  RetryPolicy
}

// SolanaAdapter watches one account and sends system transfers from it.
// Solana reports no direction, so each transaction's direction comes from
// the watched account's balance delta.
type SolanaAdapter struct {
	rpc     SolanaRPC
	signer  solana.PrivateKey
	account solana.PublicKey
	retry   *retrier
	log     slog.Logger
}

// NewSolana creates the adapter
func NewSolana(cfg *SolanaConfig) (*SolanaAdapter, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.RPC == nil {
		return nil, ErrNilSolanaRPC
	}

	var account solana.PublicKey
	switch {
	case cfg.ReceiveAddress != "":
		pk, err := solana.PublicKeyFromBase58(cfg.ReceiveAddress)
		if err != nil {
			return nil, fmt.Errorf("%w: solana receive address: %v", models.ErrConfigError, err)
		}
		account = pk
	case len(cfg.PrivateKey) > 0:
		account = cfg.PrivateKey.PublicKey()
	default:
		return nil, ErrMissingAddress
	}

	c := cfg.Clock
	if c == nil {
		c = &clock.DefaultClock{}
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Disabled
	}
	return &SolanaAdapter{
		rpc:     cfg.RPC,
		signer:  cfg.PrivateKey,
		account: account,
		log:     log,
		retry: &retrier{
			policy: cfg.Retry.withDefaults(),
			clock:  c,
			log:    log,
			chain:  models.ChainSOL,
		},
	}, nil
}

func (a *SolanaAdapter) Chain() models.Chain { return models.ChainSOL }

func (a *SolanaAdapter) GetPayoutAddress() string { return a.account.String() }

func lamportsToSOL(l uint64) decimal.Decimal {
	return decimal.NewFromUint64(l).Shift(-models.ChainSOL.Decimals())
}

func solToLamports(amount decimal.Decimal) (uint64, error) {
	lamports := amount.Shift(models.ChainSOL.Decimals()).Truncate(0)
	if !lamports.IsPositive() {
		return 0, ErrNonPositiveSend
	}
	return uint64(lamports.IntPart()), nil
}

// GetBalance returns the watched account's balance in SOL
func (a *SolanaAdapter) GetBalance(ctx context.Context) (*Balance, error) {
	var lamports uint64
	err := a.retry.do(ctx, "getBalance", func(ctx context.Context) error {
		var err error
		lamports, err = a.rpc.Balance(ctx, a.account)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &Balance{Balance: lamportsToSOL(lamports)}, nil
}

// SendPayment signs and submits one system transfer
func (a *SolanaAdapter) SendPayment(ctx context.Context, address string, amount decimal.Decimal) (*SendResult, error) {
	if len(a.signer) == 0 {
		return nil, ErrMissingSigner
	}
	to, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidAddress, err)
	}
	lamports, err := solToLamports(amount)
	if err != nil {
		return nil, err
	}

	var sig string
	err = a.retry.once(ctx, "sendTransaction", func(ctx context.Context) error {
		var err error
		sig, err = a.rpc.Transfer(ctx, a.signer, to, lamports)
		return err
	})
	if err != nil {
		return nil, err
	}
	a.log.Infof("SOL payment of %s to %s broadcast as %s", amount, address, sig)
	return &SendResult{TxID: sig}, nil
}

// GetRecentTransactions returns inbound transfers to the watched account.
// Failed transactions and anything that lowered our balance are dropped.
func (a *SolanaAdapter) GetRecentTransactions(ctx context.Context, limit int) ([]*models.Transaction, error) {
	if limit <= 0 {
		limit = 25
	}

	var sigs []*SolanaSignature
	err := a.retry.do(ctx, "getSignaturesForAddress", func(ctx context.Context) error {
		var err error
		sigs, err = a.rpc.RecentSignatures(ctx, a.account, limit)
		return err
	})
	if err != nil {
		return nil, err
	}

	var out []*models.Transaction
	for _, sig := range sigs {
		if sig == nil || sig.Failed {
			continue
		}

		var change *SolanaBalanceChange
		err := a.retry.do(ctx, "getTransaction", func(ctx context.Context) error {
			var err error
			change, err = a.rpc.BalanceChange(ctx, sig.Signature, a.account)
			return err
		})
		if err != nil {
			a.log.Debugf("Skipping %s: %v", sig.Signature, err)
			continue
		}
		if change == nil || !change.Found || change.Failed || change.Post <= change.Pre {
			continue
		}

		ts := change.BlockTime
		if ts.IsZero() {
			ts = sig.BlockTime
		}
		out = append(out, &models.Transaction{
			TxID:          sig.Signature,
			Amount:        lamportsToSOL(change.Post - change.Pre),
			Confirmations: sig.Confirmations,
			Timestamp:     ts.UTC(),
			Direction:     models.DirectionInbound,
		})
	}
	return out, nil
}

func unixOrZero(t *solana.UnixTimeSeconds) time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.Time()
}
