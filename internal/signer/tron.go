package signer

import (
	"context"
	"fmt"
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/alephwallet/walletcore/internal/chain"
	"github.com/alephwallet/walletcore/internal/client"
	"github.com/alephwallet/walletcore/internal/model"
)

func (s *Signer) signTron(ctx context.Context, seed []byte, intent model.TransactionIntent, amountSun *big.Int) (*model.SignedTransactionResult, error) {
	if s.clients.Tron == nil {
		return nil, fmt.Errorf("%w: no TRON client configured", model.ErrNetworkUnavailable)
	}
	if !amountSun.IsInt64() {
		return nil, fmt.Errorf("%w: amount out of range", model.ErrInvalidInput)
	}

	// KeyDeriving
	privKey, err := chain.DeriveECDSAKey(chain.Tron, seed)
	if err != nil {
		return nil, err
	}
	defer privKey.Zero()

	sender, err := chain.TronAddress(seed)
	if err != nil {
		return nil, err
	}

	// The node assigns the reference block and expiration when it builds the
	// raw transaction, so build-through-submit is the per-sender critical
	// section here.
	lock := s.addressLock(sender)
	lock.Lock()

	rawTx, err := retryRead(ctx, func(ctx context.Context) (*client.TronRawTx, error) {
		return s.clients.Tron.BuildTransfer(ctx, sender, intent.Recipient, amountSun.Int64())
	})
	if err != nil {
		lock.Unlock()
		return nil, err
	}

	// Signing: TRON signs the txID (sha256 of raw_data) with a recoverable
	// secp256k1 signature.
	digest, err := rawTx.Digest()
	if err != nil {
		lock.Unlock()
		return nil, err
	}
	signature, err := ethcrypto.Sign(digest, privKey.ToECDSA())
	if err != nil {
		lock.Unlock()
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	// Submitting
	txID, err := s.clients.Tron.Broadcast(ctx, rawTx, signature)
	lock.Unlock()
	if err != nil {
		return nil, err
	}

	// Confirming
	status := waitConfirmation(ctx, func(ctx context.Context) (model.TxStatus, error) {
		return s.clients.Tron.TxStatus(ctx, txID)
	})

	return &model.SignedTransactionResult{
		TxHash:     txID,
		RawPayload: signature,
		Sender:     sender,
		Status:     status,
	}, nil
}
