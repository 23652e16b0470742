package signer

import (
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alephwallet/walletcore/internal/chain"
	"github.com/alephwallet/walletcore/internal/model"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

// fakeEthereum scripts an EVM node. Nonce advances on every broadcast, the
// way a real pending-nonce query behaves once a transaction is accepted.
type fakeEthereum struct {
	mu          sync.Mutex
	nonce       uint64
	broadcasts  []*types.Transaction
	gasPriceErr error
	statusOnce  model.TxStatus
}

func (f *fakeEthereum) ChainID(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}

func (f *fakeEthereum) GasPrice(ctx context.Context) (*big.Int, error) {
	if f.gasPriceErr != nil {
		return nil, f.gasPriceErr
	}
	return big.NewInt(20_000_000_000), nil
}

func (f *fakeEthereum) PendingNonce(ctx context.Context, address string) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nonce, nil
}

func (f *fakeEthereum) Broadcast(ctx context.Context, tx *types.Transaction) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broadcasts = append(f.broadcasts, tx)
	f.nonce++
	return tx.Hash().Hex(), nil
}

func (f *fakeEthereum) TxStatus(ctx context.Context, txHash string) (model.TxStatus, error) {
	if f.statusOnce != "" {
		return f.statusOnce, nil
	}
	return model.TxStatusSuccess, nil
}

func testIntent(recipient, amount string) model.TransactionIntent {
	return model.TransactionIntent{
		Recipient: recipient,
		Amount:    amount,
		Network:   "ethereum",
		FeeTier:   model.FeeTierNormal,
	}
}

func testSeed(t *testing.T) []byte {
	t.Helper()
	seed := chain.SeedFromMnemonic(testMnemonic)
	t.Cleanup(func() { clear(seed) })
	return seed
}

func TestSignEthereum(t *testing.T) {
	eth := &fakeEthereum{}
	s := New(Clients{Ethereum: eth})

	result, err := s.Sign(context.Background(), testSeed(t), testIntent("0x9858EfFD232B4033E47d90003D41EC34EcaEda94", "1.5"))
	require.NoError(t, err)

	assert.Equal(t, model.TxStatusSuccess, result.Status)
	assert.Equal(t, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", result.Sender)
	assert.NotEmpty(t, result.TxHash)
	assert.NotEmpty(t, result.RawPayload)

	require.Len(t, eth.broadcasts, 1)
	tx := eth.broadcasts[0]
	assert.Equal(t, "1500000000000000000", tx.Value().String())
	assert.Equal(t, uint64(21000), tx.Gas())
	assert.Equal(t, "20000000000", tx.GasPrice().String())
}

func TestSignRejectsBeforeTouchingNetwork(t *testing.T) {
	eth := &fakeEthereum{}
	s := New(Clients{Ethereum: eth})
	seed := testSeed(t)

	cases := []struct {
		name   string
		intent model.TransactionIntent
		target error
	}{
		{"unknown network", model.TransactionIntent{Recipient: "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", Amount: "1", Network: "dogecoin"}, model.ErrInvalidInput},
		{"short address", testIntent("0x9858EfFD232B4033E47d90003D41EC34EcaEda9", "1"), model.ErrInvalidAddress},
		{"bad checksum", testIntent("0x9858efFD232B4033E47d90003D41EC34EcaEda94", "1"), model.ErrInvalidAddress},
		{"zero amount", testIntent("0x9858EfFD232B4033E47d90003D41EC34EcaEda94", "0"), model.ErrInvalidInput},
		{"negative amount", testIntent("0x9858EfFD232B4033E47d90003D41EC34EcaEda94", "-1"), model.ErrInvalidInput},
		{"too many decimals", testIntent("0x9858EfFD232B4033E47d90003D41EC34EcaEda94", "1.0000000000000000001"), model.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Sign(context.Background(), seed, tc.intent)
			assert.ErrorIs(t, err, tc.target)
		})
	}

	// No validation failure may reach the node
	assert.Empty(t, eth.broadcasts)
}

func TestSignFeeFetchFailureSurfaces(t *testing.T) {
	eth := &fakeEthereum{gasPriceErr: model.ErrNetworkUnavailable}
	s := New(Clients{Ethereum: eth})

	_, err := s.Sign(context.Background(), testSeed(t), testIntent("0x9858EfFD232B4033E47d90003D41EC34EcaEda94", "1"))
	assert.ErrorIs(t, err, model.ErrNetworkUnavailable)
	assert.Empty(t, eth.broadcasts, "nothing may be broadcast when the fee read fails")
}

func TestSignNoClientConfigured(t *testing.T) {
	s := New(Clients{})

	_, err := s.Sign(context.Background(), testSeed(t), testIntent("0x9858EfFD232B4033E47d90003D41EC34EcaEda94", "1"))
	assert.ErrorIs(t, err, model.ErrNetworkUnavailable)
}

func TestConcurrentSendsSerializeNonces(t *testing.T) {
	eth := &fakeEthereum{}
	s := New(Clients{Ethereum: eth})
	seed := testSeed(t)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Sign(context.Background(), seed, testIntent("0x9858EfFD232B4033E47d90003D41EC34EcaEda94", "0.1"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, eth.broadcasts, 4)
	seen := map[uint64]bool{}
	for _, tx := range eth.broadcasts {
		assert.False(t, seen[tx.Nonce()], "nonce %d reused", tx.Nonce())
		seen[tx.Nonce()] = true
	}
}

func TestSignConfirmationTimeoutIsPending(t *testing.T) {
	eth := &fakeEthereum{statusOnce: model.TxStatusPending}
	s := New(Clients{Ethereum: eth})

	// Cancellation bounds the local wait; the transaction is still out there,
	// so the result is pending rather than an error.
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	result, err := s.Sign(ctx, testSeed(t), testIntent("0x9858EfFD232B4033E47d90003D41EC34EcaEda94", "1"))
	require.NoError(t, err)
	assert.Equal(t, model.TxStatusPending, result.Status)
	assert.Len(t, eth.broadcasts, 1)
}

func TestSignFailedTransaction(t *testing.T) {
	eth := &fakeEthereum{statusOnce: model.TxStatusFailed}
	s := New(Clients{Ethereum: eth})

	result, err := s.Sign(context.Background(), testSeed(t), testIntent("0x9858EfFD232B4033E47d90003D41EC34EcaEda94", "1"))
	require.NoError(t, err)
	assert.Equal(t, model.TxStatusFailed, result.Status)
}

func TestApplyFeeTier(t *testing.T) {
	base := big.NewInt(100)
	assert.Equal(t, "80", applyFeeTier(base, model.FeeTierSlow).String())
	assert.Equal(t, "100", applyFeeTier(base, model.FeeTierNormal).String())
	assert.Equal(t, "150", applyFeeTier(base, model.FeeTierFast).String())
	// Unknown tier leaves the suggestion untouched
	assert.Equal(t, "100", applyFeeTier(base, model.FeeTier("")).String())
}
