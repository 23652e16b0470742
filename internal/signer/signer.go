// Package signer turns a derived wallet seed and a transaction intent into
// a broadcast, confirmed network transaction. A single attempt moves through
// Validating -> KeyDeriving -> FeeFetching -> Signing -> Submitting ->
// Confirming; only the fee/nonce reads are ever retried, the broadcast never
// is (a blind resubmit risks a duplicate spend if the first attempt landed).
package signer

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/alephwallet/walletcore/internal/chain"
	"github.com/alephwallet/walletcore/internal/client"
	"github.com/alephwallet/walletcore/internal/common"
	"github.com/alephwallet/walletcore/internal/model"
)

const (
	// readAttempts bounds retries of idempotent fee/nonce reads.
	readAttempts   = 3
	readRetryDelay = 500 * time.Millisecond

	// confirmTimeout bounds the confirmation wait; on timeout the result is
	// pending, not failed - the transaction may still land.
	confirmTimeout      = 90 * time.Second
	confirmPollInterval = 3 * time.Second
)

// EthereumAPI is the EVM node capability the signer needs.
type EthereumAPI interface {
	ChainID(ctx context.Context) (*big.Int, error)
	GasPrice(ctx context.Context) (*big.Int, error)
	PendingNonce(ctx context.Context, address string) (uint64, error)
	Broadcast(ctx context.Context, tx *types.Transaction) (string, error)
	TxStatus(ctx context.Context, txHash string) (model.TxStatus, error)
}

// TronAPI is the TRON node capability the signer needs.
type TronAPI interface {
	BuildTransfer(ctx context.Context, from, to string, amountSun int64) (*client.TronRawTx, error)
	Broadcast(ctx context.Context, tx *client.TronRawTx, signature []byte) (string, error)
	TxStatus(ctx context.Context, txID string) (model.TxStatus, error)
}

// BitcoinAPI is the Bitcoin node capability the signer needs.
type BitcoinAPI interface {
	UTXOs(ctx context.Context, address string) ([]client.UTXO, error)
	FeeRate(ctx context.Context) (float64, error)
	Broadcast(ctx context.Context, rawTxHex string) (string, error)
	TxStatus(ctx context.Context, txID string) (model.TxStatus, error)
}

// TonAPI is the TON gateway capability the signer needs.
type TonAPI interface {
	WalletAddress(ctx context.Context, pub ed25519.PublicKey) (string, error)
	BuildTransfer(ctx context.Context, from, to string, amountNano uint64, memo string) (*client.TonUnsignedTransfer, error)
	Broadcast(ctx context.Context, transfer *client.TonUnsignedTransfer, signature []byte) (string, error)
	TxStatus(ctx context.Context, hash string) (model.TxStatus, error)
}

// SolanaAPI is the Solana node capability the signer needs.
type SolanaAPI interface {
	Transfer(ctx context.Context, privateKey []byte, toAddress string, lamports uint64) (string, error)
	TxStatus(ctx context.Context, signature string) (model.TxStatus, error)
}

// Clients bundles the per-network collaborators. Nil entries disable the
// corresponding network.
type Clients struct {
	Ethereum EthereumAPI
	Tron     TronAPI
	Bitcoin  BitcoinAPI
	Ton      TonAPI
	Solana   SolanaAPI
}

// Signer signs and submits transfers. Stateless per call except the
// per-address serialization of the nonce-fetch-to-submit critical section:
// two concurrent sends from one wallet must not race on the chain nonce.
type Signer struct {
	clients Clients

	mu        sync.Mutex
	addrLocks map[string]*sync.Mutex
}

// New creates a Signer over the given network clients.
func New(clients Clients) *Signer {
	return &Signer{
		clients:   clients,
		addrLocks: make(map[string]*sync.Mutex),
	}
}

type signFunc func(ctx context.Context, seed []byte, intent model.TransactionIntent, amount *big.Int) (*model.SignedTransactionResult, error)

// Sign validates the intent, derives the network signing key from the seed,
// and runs the transfer through fee fetch, signing, broadcast and a bounded
// confirmation wait. The private key exists only for the duration of the call.
//
// seed must be zeroed by the caller after use.
func (s *Signer) Sign(ctx context.Context, seed []byte, intent model.TransactionIntent) (*model.SignedTransactionResult, error) {
	// Validating: everything checked before any key material is touched
	kind, err := chain.Parse(intent.Network)
	if err != nil {
		return nil, err
	}
	if err := chain.ValidateAddress(kind, intent.Recipient); err != nil {
		return nil, err
	}

	amount, err := parseIntentAmount(intent.Amount, chain.Get(kind).Decimals)
	if err != nil {
		return nil, err
	}

	// One handler per network; the table is exhaustive over chain.Kinds.
	dispatch := map[chain.Kind]signFunc{
		chain.Ethereum: s.signEthereum,
		chain.Tron:     s.signTron,
		chain.Bitcoin:  s.signBitcoin,
		chain.Ton:      s.signTon,
		chain.Solana:   s.signSolana,
	}

	sign, ok := dispatch[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported network %q", model.ErrInvalidInput, kind)
	}
	return sign(ctx, seed, intent, amount)
}

func parseIntentAmount(amount string, decimals int) (*big.Int, error) {
	n, err := common.ParseAmount(amount, decimals)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
	}
	if n.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", model.ErrInvalidInput)
	}
	return n, nil
}

// addressLock returns the mutex serializing sends from one sender address.
func (s *Signer) addressLock(address string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.addrLocks[address]
	if !ok {
		lock = &sync.Mutex{}
		s.addrLocks[address] = lock
	}
	return lock
}

// retryRead retries an idempotent read a bounded number of times. Never used
// for broadcasts.
func retryRead[T any](ctx context.Context, read func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 0; attempt < readAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(readRetryDelay):
			}
		}
		v, err := read(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err
	}
	return zero, lastErr
}

// waitConfirmation polls the status function until the transaction confirms,
// fails, or the bounded wait elapses. Cancellation stops the local polling
// only; the transaction's fate is determined by the network regardless.
func waitConfirmation(ctx context.Context, status func(context.Context) (model.TxStatus, error)) model.TxStatus {
	deadline := time.NewTimer(confirmTimeout)
	defer deadline.Stop()
	tick := time.NewTicker(confirmPollInterval)
	defer tick.Stop()

	for {
		st, err := status(ctx)
		if err == nil && st != model.TxStatusPending {
			return st
		}

		select {
		case <-ctx.Done():
			return model.TxStatusPending
		case <-deadline.C:
			return model.TxStatusPending
		case <-tick.C:
		}
	}
}
