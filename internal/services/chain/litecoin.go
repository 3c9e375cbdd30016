package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/KirkDiggler/ticketsnipe/internal/common/clock"
	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/decred/dcrd/rpcclient/v8"
	"github.com/decred/slog"
	"github.com/shopspring/decimal"
)

// LitecoinConfig configures a litecoind wallet adapter
type LitecoinConfig struct {
	Caller         RawCaller
	ReceiveAddress string
	Clock          clock.Clock
	Logger         slog.Logger
	Retry          RetryPolicy
}

// LitecoinAdapter talks to a litecoind wallet over JSON-RPC
type LitecoinAdapter struct {
	caller  RawCaller
	address string
	retry   *retrier
	log     slog.Logger
}

// NewLitecoinRPC dials litecoind in HTTP POST mode. Litecoin Core speaks the
// same JSON-RPC 1.0 dialect as the client expects.
func NewLitecoinRPC(host, user, pass string, disableTLS bool) (*rpcclient.Client, error) {
	client, err := rpcclient.New(&rpcclient.ConnConfig{
		Host:         host,
		User:         user,
		Pass:         pass,
		HTTPPostMode: true,
		DisableTLS:   disableTLS,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create litecoind rpc client (host=%s user=%s): %w", host, user, err)
	}
	return client, nil
}

// NewLitecoin creates the adapter
func NewLitecoin(cfg *LitecoinConfig) (*LitecoinAdapter, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Caller == nil {
		return nil, ErrNilCaller
	}
	if cfg.ReceiveAddress == "" {
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
	return &LitecoinAdapter{
		caller:  cfg.Caller,
		address: cfg.ReceiveAddress,
		log:     log,
		retry: &retrier{
			policy: cfg.Retry.withDefaults(),
			clock:  c,
			log:    log,
			chain:  models.ChainLTC,
		},
	}, nil
}

func (a *LitecoinAdapter) Chain() models.Chain { return models.ChainLTC }

func (a *LitecoinAdapter) GetPayoutAddress() string { return a.address }

func (a *LitecoinAdapter) call(ctx context.Context, method string, params []json.RawMessage, out any) error {
	raw, err := a.caller.RawRequest(ctx, method, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decoding %s result: %v", models.ErrRpcFatal, method, err)
	}
	return nil
}

// GetBalance calls getbalance
func (a *LitecoinAdapter) GetBalance(ctx context.Context) (*Balance, error) {
	var balance decimal.Decimal
	err := a.retry.do(ctx, "getbalance", func(ctx context.Context) error {
		return a.call(ctx, "getbalance", nil, &balance)
	})
	if err != nil {
		return nil, err
	}
	return &Balance{Balance: balance}, nil
}

// SendPayment calls sendtoaddress once
func (a *LitecoinAdapter) SendPayment(ctx context.Context, address string, amount decimal.Decimal) (*SendResult, error) {
	if !amount.IsPositive() {
		return nil, ErrNonPositiveSend
	}
	addrParam, err := json.Marshal(address)
	if err != nil {
		return nil, err
	}
	params := []json.RawMessage{
		addrParam,
		json.RawMessage(amount.StringFixed(models.ChainLTC.Decimals())),
	}

	var txID string
	err = a.retry.once(ctx, "sendtoaddress", func(ctx context.Context) error {
		return a.call(ctx, "sendtoaddress", params, &txID)
	})
	if err != nil {
		return nil, err
	}
	if txID == "" {
		return nil, fmt.Errorf("%w: sendtoaddress returned no txid", models.ErrRpcFatal)
	}
	a.log.Infof("LTC payment of %s to %s broadcast as %s", amount, address, txID)
	return &SendResult{TxID: txID}, nil
}

type ltcWalletTx struct {
	TxID          string          `json:"txid"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Confirmations int64           `json:"confirmations"`
	Time          int64           `json:"time"`
	TimeReceived  int64           `json:"timereceived"`
	Address       string          `json:"address"`
}

// GetRecentTransactions calls listtransactions and keeps receive entries.
// Several receive outputs of one transaction are merged.
func (a *LitecoinAdapter) GetRecentTransactions(ctx context.Context, limit int) ([]*models.Transaction, error) {
	if limit <= 0 {
		limit = 25
	}
	params := []json.RawMessage{json.RawMessage(`"*"`), json.RawMessage(fmt.Sprintf("%d", limit))}

	var entries []ltcWalletTx
	err := a.retry.do(ctx, "listtransactions", func(ctx context.Context) error {
		return a.call(ctx, "listtransactions", params, &entries)
	})
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.Transaction)
	var out []*models.Transaction
	for _, e := range entries {
		if !strings.EqualFold(e.Category, "receive") || e.TxID == "" {
			continue
		}
		ts := e.Time
		if ts == 0 {
			ts = e.TimeReceived
		}
		if tx, ok := byID[e.TxID]; ok {
			tx.Amount = tx.Amount.Add(e.Amount.Abs())
			continue
		}
		tx := &models.Transaction{
			TxID:          e.TxID,
			Amount:        e.Amount.Abs(),
			Confirmations: e.Confirmations,
			Timestamp:     time.Unix(ts, 0).UTC(),
			Direction:     models.DirectionInbound,
		}
		byID[e.TxID] = tx
		out = append(out, tx)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}
