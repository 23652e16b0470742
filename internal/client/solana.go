package client

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/alephwallet/walletcore/internal/model"
)

// SolanaFeeLamports is the flat signature fee for a single-signer transfer.
const SolanaFeeLamports = 5000

// SolanaClient is a client for working with Solana RPC
type SolanaClient struct {
	rpcClient *rpc.Client
}

// NewSolanaClient creates a new Solana client.
func NewSolanaClient(rpcURL string) *SolanaClient {
	return &SolanaClient{rpcClient: rpc.New(rpcURL)}
}

// Balance gets the SOL balance in lamports.
func (c *SolanaClient) Balance(ctx context.Context, address string) (uint64, error) {
	pubkey, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", model.ErrInvalidAddress, err)
	}

	balance, err := c.rpcClient.GetBalance(ctx, pubkey, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to get SOL balance: %v", model.ErrNetworkUnavailable, err)
	}
	return balance.Value, nil
}

// Transfer builds, signs and submits a SOL system transfer.
// privateKey must be the full 64-byte key (caller should zero it after use).
func (c *SolanaClient) Transfer(ctx context.Context, privateKey []byte, toAddress string, lamports uint64) (string, error) {
	toPubkey, err := solana.PublicKeyFromBase58(toAddress)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrInvalidAddress, err)
	}

	if len(privateKey) != 64 {
		return "", fmt.Errorf("%w: invalid private key length", model.ErrInvalidInput)
	}
	wallet := solana.PrivateKey(privateKey)
	fromPubkey := wallet.PublicKey()

	// Get latest blockhash (GetRecentBlockhash is deprecated, use GetLatestBlockhash)
	recent, err := c.rpcClient.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return "", fmt.Errorf("%w: failed to get recent blockhash: %v", model.ErrNetworkUnavailable, err)
	}

	transferInstruction := system.NewTransferInstruction(
		lamports,
		fromPubkey,
		toPubkey,
	).Build()

	tx, err := solana.NewTransaction(
		[]solana.Instruction{transferInstruction},
		recent.Value.Blockhash,
		solana.TransactionPayer(fromPubkey),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create transaction: %w", err)
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if fromPubkey.Equals(key) {
			return &wallet
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	sig, err := c.rpcClient.SendTransactionWithOpts(
		ctx,
		tx,
		rpc.TransactionOpts{
			SkipPreflight:       false, // Transaction validation on the node
			PreflightCommitment: rpc.CommitmentFinalized,
		},
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrBroadcastRejected, err)
	}

	return sig.String(), nil
}

// TxStatus reports the confirmation state of a submitted signature.
func (c *SolanaClient) TxStatus(ctx context.Context, signature string) (model.TxStatus, error) {
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return model.TxStatusPending, fmt.Errorf("%w: invalid signature", model.ErrInvalidInput)
	}

	statuses, err := c.rpcClient.GetSignatureStatuses(ctx, true, sig)
	if err != nil {
		return model.TxStatusPending, fmt.Errorf("%w: failed to get signature status: %v", model.ErrNetworkUnavailable, err)
	}
	if len(statuses.Value) == 0 || statuses.Value[0] == nil {
		return model.TxStatusPending, nil
	}

	status := statuses.Value[0]
	if status.Err != nil {
		return model.TxStatusFailed, nil
	}
	switch status.ConfirmationStatus {
	case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
		return model.TxStatusSuccess, nil
	default:
		return model.TxStatusPending, nil
	}
}
