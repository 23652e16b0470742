package signer

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"sort"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/alephwallet/walletcore/internal/chain"
	"github.com/alephwallet/walletcore/internal/client"
	"github.com/alephwallet/walletcore/internal/model"
)

const (
	// btcDustLimit is the smallest change output worth creating; anything
	// below it is left to the miners as fee.
	btcDustLimit = 546

	// p2wpkh weight estimate components in vbytes
	btcTxOverheadVBytes = 11
	btcInputVBytes      = 68
	btcOutputVBytes     = 31
)

func (s *Signer) signBitcoin(ctx context.Context, seed []byte, intent model.TransactionIntent, amountSats *big.Int) (*model.SignedTransactionResult, error) {
	if s.clients.Bitcoin == nil {
		return nil, fmt.Errorf("%w: no Bitcoin client configured", model.ErrNetworkUnavailable)
	}
	if !amountSats.IsInt64() {
		return nil, fmt.Errorf("%w: amount out of range", model.ErrInvalidInput)
	}
	amount := amountSats.Int64()

	// KeyDeriving
	privKey, err := chain.DeriveECDSAKey(chain.Bitcoin, seed)
	if err != nil {
		return nil, err
	}
	defer privKey.Zero()

	sender, err := chain.BitcoinAddress(seed)
	if err != nil {
		return nil, err
	}

	senderAddr, err := btcutil.DecodeAddress(sender, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("failed to decode sender address: %w", err)
	}
	senderScript, err := txscript.PayToAddrScript(senderAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to build sender script: %w", err)
	}

	recipientAddr, err := btcutil.DecodeAddress(intent.Recipient, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidAddress, err)
	}
	recipientScript, err := txscript.PayToAddrScript(recipientAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to build recipient script: %w", err)
	}

	// UTXO selection races the same way an account nonce does: two concurrent
	// sends must not spend the same outputs.
	lock := s.addressLock(sender)
	lock.Lock()

	// FeeFetching
	utxos, err := retryRead(ctx, func(ctx context.Context) ([]client.UTXO, error) {
		return s.clients.Bitcoin.UTXOs(ctx, sender)
	})
	if err != nil {
		lock.Unlock()
		return nil, err
	}
	feeRate, err := retryRead(ctx, s.clients.Bitcoin.FeeRate)
	if err != nil {
		lock.Unlock()
		return nil, err
	}
	feeRate = applyBTCFeeTier(feeRate, intent.FeeTier)

	selected, _, change, err := selectUTXOs(utxos, amount, feeRate)
	if err != nil {
		lock.Unlock()
		return nil, err
	}

	// Signing: assemble and sign a P2WPKH spend
	tx := wire.NewMsgTx(wire.TxVersion)
	prevFetcher := txscript.NewMultiPrevOutFetcher(nil)
	for _, u := range selected {
		txHash, err := chainhash.NewHashFromStr(u.TxID)
		if err != nil {
			lock.Unlock()
			return nil, fmt.Errorf("invalid utxo txid: %w", err)
		}
		outpoint := wire.NewOutPoint(txHash, u.Vout)
		tx.AddTxIn(wire.NewTxIn(outpoint, nil, nil))
		prevFetcher.AddPrevOut(*outpoint, wire.NewTxOut(u.Value, senderScript))
	}
	tx.AddTxOut(wire.NewTxOut(amount, recipientScript))
	if change > 0 {
		tx.AddTxOut(wire.NewTxOut(change, senderScript))
	}

	sigHashes := txscript.NewTxSigHashes(tx, prevFetcher)
	for i, u := range selected {
		witness, err := txscript.WitnessSignature(tx, sigHashes, i, u.Value, senderScript, txscript.SigHashAll, privKey, true)
		if err != nil {
			lock.Unlock()
			return nil, fmt.Errorf("failed to sign input %d: %w", i, err)
		}
		tx.TxIn[i].Witness = witness
	}

	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		lock.Unlock()
		return nil, fmt.Errorf("failed to serialize transaction: %w", err)
	}

	// Submitting
	txID, err := s.clients.Bitcoin.Broadcast(ctx, hex.EncodeToString(buf.Bytes()))
	lock.Unlock()
	if err != nil {
		return nil, err
	}

	// Confirming
	status := waitConfirmation(ctx, func(ctx context.Context) (model.TxStatus, error) {
		return s.clients.Bitcoin.TxStatus(ctx, txID)
	})

	return &model.SignedTransactionResult{
		TxHash:     txID,
		RawPayload: buf.Bytes(),
		Sender:     sender,
		Status:     status,
	}, nil
}

// selectUTXOs picks confirmed outputs largest-first until they cover amount
// plus the size-dependent fee. Returns the selection, the fee paid, and the
// change (0 if below dust).
func selectUTXOs(utxos []client.UTXO, amount int64, feeRate float64) ([]client.UTXO, int64, int64, error) {
	confirmed := make([]client.UTXO, 0, len(utxos))
	for _, u := range utxos {
		if u.Status.Confirmed {
			confirmed = append(confirmed, u)
		}
	}
	sort.Slice(confirmed, func(i, j int) bool { return confirmed[i].Value > confirmed[j].Value })

	var selected []client.UTXO
	var total int64
	for _, u := range confirmed {
		selected = append(selected, u)
		total += u.Value

		fee := estimateFee(len(selected), 2, feeRate)
		if total >= amount+fee {
			change := total - amount - fee
			if change < btcDustLimit {
				// Recompute without a change output; leftover goes to fee
				fee = estimateFee(len(selected), 1, feeRate)
				if total >= amount+fee {
					return selected, total - amount, 0, nil
				}
				continue
			}
			return selected, fee, change, nil
		}
	}
	return nil, 0, 0, fmt.Errorf("%w: insufficient confirmed balance", model.ErrBroadcastRejected)
}

func estimateFee(inputs, outputs int, feeRate float64) int64 {
	vbytes := btcTxOverheadVBytes + inputs*btcInputVBytes + outputs*btcOutputVBytes
	return int64(float64(vbytes)*feeRate + 0.5)
}

func applyBTCFeeTier(feeRate float64, tier model.FeeTier) float64 {
	numerator, ok := feeTierNumerators[tier]
	if !ok {
		return feeRate
	}
	return feeRate * float64(numerator) / 100
}
