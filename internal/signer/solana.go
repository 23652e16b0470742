package signer

import (
	"context"
	"fmt"
	"math/big"

	"github.com/alephwallet/walletcore/internal/chain"
	"github.com/alephwallet/walletcore/internal/model"
)

func (s *Signer) signSolana(ctx context.Context, seed []byte, intent model.TransactionIntent, amountLamports *big.Int) (*model.SignedTransactionResult, error) {
	if s.clients.Solana == nil {
		return nil, fmt.Errorf("%w: no Solana client configured", model.ErrNetworkUnavailable)
	}
	if !amountLamports.IsUint64() {
		return nil, fmt.Errorf("%w: amount out of range", model.ErrInvalidInput)
	}

	// KeyDeriving
	privKey, err := chain.DeriveEd25519Key(chain.Solana, seed)
	if err != nil {
		return nil, err
	}
	defer clear(privKey)

	sender, err := chain.SolanaAddress(seed)
	if err != nil {
		return nil, err
	}

	// Solana replaces the account nonce with a recent blockhash, so there is
	// no sequence to race on; the client builds, signs and submits in one go.
	sig, err := s.clients.Solana.Transfer(ctx, privKey, intent.Recipient, amountLamports.Uint64())
	if err != nil {
		return nil, err
	}

	// Confirming
	status := waitConfirmation(ctx, func(ctx context.Context) (model.TxStatus, error) {
		return s.clients.Solana.TxStatus(ctx, sig)
	})

	return &model.SignedTransactionResult{
		TxHash: sig,
		Sender: sender,
		Status: status,
	}, nil
}
