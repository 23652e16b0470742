package signer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alephwallet/walletcore/internal/client"
	"github.com/alephwallet/walletcore/internal/model"
)

func confirmedUTXO(txid string, value int64) client.UTXO {
	u := client.UTXO{TxID: txid, Value: value}
	u.Status.Confirmed = true
	return u
}

func TestSelectUTXOsLargestFirst(t *testing.T) {
	utxos := []client.UTXO{
		confirmedUTXO("a", 1000),
		confirmedUTXO("b", 8000),
		confirmedUTXO("c", 3000),
	}

	// 1 input, 2 outputs at 1 sat/vB costs 141 sats
	selected, fee, change, err := selectUTXOs(utxos, 7000, 1.0)
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, "b", selected[0].TxID)
	assert.Equal(t, int64(141), fee)
	assert.Equal(t, int64(859), change)
}

func TestSelectUTXOsAccumulatesInputs(t *testing.T) {
	utxos := []client.UTXO{
		confirmedUTXO("a", 5000),
		confirmedUTXO("b", 4000),
		confirmedUTXO("c", 500),
	}

	selected, fee, change, err := selectUTXOs(utxos, 8000, 1.0)
	require.NoError(t, err)
	require.Len(t, selected, 2)
	assert.Equal(t, int64(209), fee)
	assert.Equal(t, int64(791), change)
}

func TestSelectUTXOsDustChangeFoldsIntoFee(t *testing.T) {
	utxos := []client.UTXO{confirmedUTXO("a", 10000)}

	// Change of 100 sats is below the 546 dust limit, so the change output
	// is dropped and the leftover is spent as fee.
	selected, fee, change, err := selectUTXOs(utxos, 9759, 1.0)
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, int64(241), fee)
	assert.Zero(t, change)
}

func TestSelectUTXOsExactCover(t *testing.T) {
	utxos := []client.UTXO{confirmedUTXO("a", 10000)}

	selected, fee, change, err := selectUTXOs(utxos, 9859, 1.0)
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, int64(141), fee)
	assert.Zero(t, change)
}

func TestSelectUTXOsSkipsUnconfirmed(t *testing.T) {
	pending := client.UTXO{TxID: "pending", Value: 100_000}
	utxos := []client.UTXO{pending, confirmedUTXO("a", 1000)}

	_, _, _, err := selectUTXOs(utxos, 5000, 1.0)
	assert.ErrorIs(t, err, model.ErrBroadcastRejected)
}

func TestSelectUTXOsInsufficientBalance(t *testing.T) {
	utxos := []client.UTXO{confirmedUTXO("a", 1000)}

	_, _, _, err := selectUTXOs(utxos, 2000, 1.0)
	assert.ErrorIs(t, err, model.ErrBroadcastRejected)
}

func TestEstimateFee(t *testing.T) {
	assert.Equal(t, int64(110), estimateFee(1, 1, 1.0))
	assert.Equal(t, int64(141), estimateFee(1, 2, 1.0))
	assert.Equal(t, int64(209), estimateFee(2, 2, 1.0))

	// Fractional rates round to the nearest satoshi
	assert.Equal(t, int64(165), estimateFee(1, 1, 1.5))
}

func TestApplyBTCFeeTier(t *testing.T) {
	assert.Equal(t, 8.0, applyBTCFeeTier(10.0, model.FeeTierSlow))
	assert.Equal(t, 10.0, applyBTCFeeTier(10.0, model.FeeTierNormal))
	assert.Equal(t, 15.0, applyBTCFeeTier(10.0, model.FeeTierFast))
	assert.Equal(t, 10.0, applyBTCFeeTier(10.0, model.FeeTier("unknown")))
}
