package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alephwallet/walletcore/internal/model"
)

func TestBitcoinUTXOsAndBalance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/address/bc1qtest/utxo", r.URL.Path)
		w.Write([]byte(`[
			{"txid":"aa","vout":0,"value":5000,"status":{"confirmed":true}},
			{"txid":"bb","vout":1,"value":3000,"status":{"confirmed":false}}
		]`))
	}))
	defer srv.Close()

	c := NewBitcoinClient(srv.URL)

	utxos, err := c.UTXOs(context.Background(), "bc1qtest")
	require.NoError(t, err)
	require.Len(t, utxos, 2)
	assert.Equal(t, int64(5000), utxos[0].Value)
	assert.True(t, utxos[0].Status.Confirmed)

	// Unconfirmed outputs do not count toward the balance
	balance, err := c.Balance(context.Background(), "bc1qtest")
	require.NoError(t, err)
	assert.Equal(t, int64(5000), balance)
}

func TestBitcoinFeeRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"1":30.5,"3":12.0,"6":8.1}`))
	}))
	defer srv.Close()

	rate, err := NewBitcoinClient(srv.URL).FeeRate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12.0, rate)
}

func TestBitcoinFeeRateMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := NewBitcoinClient(srv.URL).FeeRate(context.Background())
	assert.ErrorIs(t, err, model.ErrNetworkUnavailable)
}

func TestBitcoinBroadcast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tx", r.URL.Path)
		w.Write([]byte("deadbeef"))
	}))
	defer srv.Close()

	txid, err := NewBitcoinClient(srv.URL).Broadcast(context.Background(), "0100beef")
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", txid)
}

func TestBitcoinBroadcastRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("sendrawtransaction RPC error: dust"))
	}))
	defer srv.Close()

	_, err := NewBitcoinClient(srv.URL).Broadcast(context.Background(), "0100beef")
	assert.ErrorIs(t, err, model.ErrBroadcastRejected)
	assert.Contains(t, err.Error(), "dust")
}

func TestBitcoinTxStatus(t *testing.T) {
	confirmed := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if confirmed {
			w.Write([]byte(`{"confirmed":true}`))
		} else {
			w.Write([]byte(`{"confirmed":false}`))
		}
	}))
	defer srv.Close()

	c := NewBitcoinClient(srv.URL)

	st, err := c.TxStatus(context.Background(), "deadbeef")
	require.NoError(t, err)
	assert.Equal(t, model.TxStatusPending, st)

	confirmed = true
	st, err = c.TxStatus(context.Background(), "deadbeef")
	require.NoError(t, err)
	assert.Equal(t, model.TxStatusSuccess, st)
}

func TestBitcoinServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewBitcoinClient(srv.URL).UTXOs(context.Background(), "bc1qtest")
	assert.ErrorIs(t, err, model.ErrNetworkUnavailable)
}
