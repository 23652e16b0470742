package signer

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"math/big"

	"github.com/alephwallet/walletcore/internal/chain"
	"github.com/alephwallet/walletcore/internal/client"
	"github.com/alephwallet/walletcore/internal/model"
)

func (s *Signer) signTon(ctx context.Context, seed []byte, intent model.TransactionIntent, amountNano *big.Int) (*model.SignedTransactionResult, error) {
	if s.clients.Ton == nil {
		return nil, fmt.Errorf("%w: no TON client configured", model.ErrNetworkUnavailable)
	}
	if !amountNano.IsUint64() {
		return nil, fmt.Errorf("%w: amount out of range", model.ErrInvalidInput)
	}

	// KeyDeriving
	privKey, err := chain.DeriveEd25519Key(chain.Ton, seed)
	if err != nil {
		return nil, err
	}
	defer clear(privKey)
	pub := privKey.Public().(ed25519.PublicKey)

	sender, err := retryRead(ctx, func(ctx context.Context) (string, error) {
		return s.clients.Ton.WalletAddress(ctx, pub)
	})
	if err != nil {
		return nil, err
	}

	// The transfer embeds the wallet seqno; building through submit is the
	// per-sender critical section.
	lock := s.addressLock(sender)
	lock.Lock()

	transfer, err := retryRead(ctx, func(ctx context.Context) (*client.TonUnsignedTransfer, error) {
		return s.clients.Ton.BuildTransfer(ctx, sender, intent.Recipient, amountNano.Uint64(), intent.Memo)
	})
	if err != nil {
		lock.Unlock()
		return nil, err
	}

	// Signing
	signature := ed25519.Sign(privKey, transfer.Digest)

	// Submitting
	hash, err := s.clients.Ton.Broadcast(ctx, transfer, signature)
	lock.Unlock()
	if err != nil {
		return nil, err
	}

	// Confirming
	status := waitConfirmation(ctx, func(ctx context.Context) (model.TxStatus, error) {
		return s.clients.Ton.TxStatus(ctx, hash)
	})

	return &model.SignedTransactionResult{
		TxHash:     hash,
		RawPayload: transfer.Payload,
		Sender:     sender,
		Status:     status,
	}, nil
}
