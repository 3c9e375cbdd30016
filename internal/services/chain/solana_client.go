package chain

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
)

// SolanaClient implements SolanaRPC on top of a solana-go JSON-RPC client
type SolanaClient struct {
	client     *rpc.Client
	commitment rpc.CommitmentType
}

// NewSolanaClient connects to a Solana JSON-RPC endpoint
func NewSolanaClient(endpoint string) *SolanaClient {
	return &SolanaClient{
		client:     rpc.New(endpoint),
		commitment: rpc.CommitmentConfirmed,
	}
}

func (c *SolanaClient) Balance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	res, err := c.client.GetBalance(ctx, account, c.commitment)
	if err != nil {
		return 0, err
	}
	return res.Value, nil
}

func (c *SolanaClient) RecentSignatures(ctx context.Context, account solana.PublicKey, limit int) ([]*SolanaSignature, error) {
	res, err := c.client.GetSignaturesForAddressWithOpts(ctx, account, &rpc.GetSignaturesForAddressOpts{
		Limit:      &limit,
		Commitment: c.commitment,
	})
	if err != nil {
		return nil, err
	}

	out := make([]*SolanaSignature, 0, len(res))
	for _, r := range res {
		if r == nil {
			continue
		}
		var confs int64
		switch r.ConfirmationStatus {
		case rpc.ConfirmationStatusConfirmed:
			confs = 1
		case rpc.ConfirmationStatusFinalized:
			confs = 32
		}
		out = append(out, &SolanaSignature{
			Signature:     r.Signature.String(),
			BlockTime:     unixOrZero(r.BlockTime),
			Failed:        r.Err != nil,
			Confirmations: confs,
		})
	}
	return out, nil
}

func (c *SolanaClient) BalanceChange(ctx context.Context, signature string, account solana.PublicKey) (*SolanaBalanceChange, error) {
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return nil, fmt.Errorf("invalid signature %q: %w", signature, err)
	}

	maxVersion := uint64(0)
	res, err := c.client.GetTransaction(ctx, sig, &rpc.GetTransactionOpts{
		Encoding:                       solana.EncodingBase64,
		Commitment:                     c.commitment,
		MaxSupportedTransactionVersion: &maxVersion,
	})
	if err != nil {
		return nil, err
	}
	if res == nil || res.Meta == nil || res.Transaction == nil {
		return &SolanaBalanceChange{}, nil
	}

	tx, err := res.Transaction.GetTransaction()
	if err != nil {
		return nil, fmt.Errorf("decoding transaction %s: %w", signature, err)
	}

	change := &SolanaBalanceChange{
		Failed:    res.Meta.Err != nil,
		BlockTime: unixOrZero(res.BlockTime),
	}
	for i, key := range tx.Message.AccountKeys {
		if !key.Equals(account) {
			continue
		}
		if i < len(res.Meta.PreBalances) && i < len(res.Meta.PostBalances) {
			change.Found = true
			change.Pre = res.Meta.PreBalances[i]
			change.Post = res.Meta.PostBalances[i]
		}
		break
	}
	return change, nil
}

func (c *SolanaClient) Transfer(ctx context.Context, from solana.PrivateKey, to solana.PublicKey, lamports uint64) (string, error) {
	recent, err := c.client.GetLatestBlockhash(ctx, c.commitment)
	if err != nil {
		return "", fmt.Errorf("getLatestBlockhash: %w", err)
	}

	payer := from.PublicKey()
	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewTransferInstruction(lamports, payer, to).Build(),
		},
		recent.Value.Blockhash,
		solana.TransactionPayer(payer),
	)
	if err != nil {
		return "", fmt.Errorf("building transfer: %w", err)
	}

	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(payer) {
			return &from
		}
		return nil
	}); err != nil {
		return "", fmt.Errorf("signing transfer: %w", err)
	}

	sig, err := c.client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: c.commitment,
	})
	if err != nil {
		return "", err
	}
	return sig.String(), nil
}
