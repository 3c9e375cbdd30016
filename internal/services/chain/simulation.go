package chain

import (
	"context"
	"sync"

	"github.com/KirkDiggler/ticketsnipe/internal/common/uuid"
	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/decred/slog"
	"github.com/shopspring/decimal"
)

// SimulationConfig configures a dry-run adapter
type SimulationConfig struct {
	Chain models.Chain

	// Inner serves balances and history when set. Sends never reach it.
	Inner Adapter

	// Balance is reported when there is no inner adapter
	Balance decimal.Decimal

	// ReceiveAddress is reported when there is no inner adapter
	ReceiveAddress string

	UUID   uuid.UUID
	Logger slog.Logger
}

var _ Depositor = (*SimulationAdapter)(nil)

// SimulationAdapter never moves funds. SendPayment returns a synthetic
// "sim-" tx id.
type SimulationAdapter struct {
	chain   models.Chain
	inner   Adapter
	address string
	uuid    uuid.UUID
	log     slog.Logger

	mu      sync.Mutex
	balance decimal.Decimal
	inbound []*models.Transaction
}

// NewSimulation creates the adapter
func NewSimulation(cfg *SimulationConfig) (*SimulationAdapter, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.UUID == nil {
		return nil, ErrNilUUID
	}
	chain := cfg.Chain
	if cfg.Inner != nil {
		chain = cfg.Inner.Chain()
	}
	if chain == "" {
		return nil, models.ErrUnsupportedChain
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Disabled
	}
	return &SimulationAdapter{
		chain:   chain,
		inner:   cfg.Inner,
		address: cfg.ReceiveAddress,
		uuid:    cfg.UUID,
		log:     log,
		balance: cfg.Balance,
	}, nil
}

func (a *SimulationAdapter) Chain() models.Chain { return a.chain }

func (a *SimulationAdapter) GetPayoutAddress() string {
	if a.inner != nil {
		return a.inner.GetPayoutAddress()
	}
	return a.address
}

func (a *SimulationAdapter) GetBalance(ctx context.Context) (*Balance, error) {
	if a.inner != nil {
		return a.inner.GetBalance(ctx)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return &Balance{Balance: a.balance}, nil
}

func (a *SimulationAdapter) SendPayment(_ context.Context, address string, amount decimal.Decimal) (*SendResult, error) {
	if !amount.IsPositive() {
		return nil, ErrNonPositiveSend
	}
	txID := "sim-" + a.uuid.NewHex()
	a.log.Infof("[simulation] %s payment of %s to %s as %s", a.chain, amount, address, txID)
	return &SendResult{TxID: txID}, nil
}

func (a *SimulationAdapter) GetRecentTransactions(ctx context.Context, limit int) ([]*models.Transaction, error) {
	var out []*models.Transaction
	if a.inner != nil {
		txs, err := a.inner.GetRecentTransactions(ctx, limit)
		if err != nil {
			return nil, err
		}
		out = append(out, txs...)
	}
	a.mu.Lock()
	for i := len(a.inbound) - 1; i >= 0; i-- {
		c := *a.inbound[i]
		out = append(out, &c)
	}
	a.mu.Unlock()
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Deposit injects an inbound transaction, for dry runs of the payout path
func (a *SimulationAdapter) Deposit(tx *models.Transaction) {
	if tx == nil {
		return
	}
	c := *tx
	c.Direction = models.DirectionInbound
	a.mu.Lock()
	a.inbound = append(a.inbound, &c)
	if a.inner == nil {
		a.balance = a.balance.Add(c.Amount)
	}
	a.mu.Unlock()
}
