package signer

import (
	"context"
	"fmt"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/alephwallet/walletcore/internal/chain"
	"github.com/alephwallet/walletcore/internal/model"
)

const evmTransferGasLimit = 21000

// feeTierNumerators scale the node's suggested gas price in percent.
var feeTierNumerators = map[model.FeeTier]int64{
	model.FeeTierSlow:   80,
	model.FeeTierNormal: 100,
	model.FeeTierFast:   150,
}

func (s *Signer) signEthereum(ctx context.Context, seed []byte, intent model.TransactionIntent, amountWei *big.Int) (*model.SignedTransactionResult, error) {
	if s.clients.Ethereum == nil {
		return nil, fmt.Errorf("%w: no EVM client configured", model.ErrNetworkUnavailable)
	}

	// KeyDeriving
	privKey, err := chain.DeriveECDSAKey(chain.Ethereum, seed)
	if err != nil {
		return nil, err
	}
	defer privKey.Zero()

	ecdsaKey := privKey.ToECDSA()
	sender := ethcrypto.PubkeyToAddress(ecdsaKey.PublicKey)

	// Nonce fetch through submit is a critical section per sender: two
	// concurrent sends must not reuse a chain nonce.
	lock := s.addressLock(sender.Hex())
	lock.Lock()

	// FeeFetching: idempotent reads, bounded retries, no silent fallback to
	// a stale default - the user decides what to do on failure.
	chainID, err := retryRead(ctx, s.clients.Ethereum.ChainID)
	if err != nil {
		lock.Unlock()
		return nil, err
	}
	gasPrice, err := retryRead(ctx, s.clients.Ethereum.GasPrice)
	if err != nil {
		lock.Unlock()
		return nil, err
	}
	nonce, err := retryRead(ctx, func(ctx context.Context) (uint64, error) {
		return s.clients.Ethereum.PendingNonce(ctx, sender.Hex())
	})
	if err != nil {
		lock.Unlock()
		return nil, err
	}

	gasPrice = applyFeeTier(gasPrice, intent.FeeTier)

	// Signing
	recipient := ethcommon.HexToAddress(intent.Recipient)
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      evmTransferGasLimit,
		To:       &recipient,
		Value:    amountWei,
	})

	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), ecdsaKey)
	if err != nil {
		lock.Unlock()
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	rawTx, err := signedTx.MarshalBinary()
	if err != nil {
		lock.Unlock()
		return nil, fmt.Errorf("failed to encode transaction: %w", err)
	}

	// Submitting: exactly once
	txHash, err := s.clients.Ethereum.Broadcast(ctx, signedTx)
	lock.Unlock()
	if err != nil {
		return nil, err
	}

	// Confirming
	status := waitConfirmation(ctx, func(ctx context.Context) (model.TxStatus, error) {
		return s.clients.Ethereum.TxStatus(ctx, txHash)
	})

	return &model.SignedTransactionResult{
		TxHash:     txHash,
		RawPayload: rawTx,
		Sender:     sender.Hex(),
		Status:     status,
	}, nil
}

func applyFeeTier(gasPrice *big.Int, tier model.FeeTier) *big.Int {
	numerator, ok := feeTierNumerators[tier]
	if !ok {
		return gasPrice
	}
	scaled := new(big.Int).Mul(gasPrice, big.NewInt(numerator))
	return scaled.Div(scaled, big.NewInt(100))
}
