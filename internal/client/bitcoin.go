package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alephwallet/walletcore/internal/model"
)

// BitcoinClient is a client for esplora-style Bitcoin HTTP APIs
// (blockstream.info compatible).
type BitcoinClient struct {
	baseURL string
	client  *http.Client
}

// NewBitcoinClient creates a new Bitcoin client
func NewBitcoinClient(baseURL string) *BitcoinClient {
	return &BitcoinClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// UTXO is an unspent output of the wallet address.
type UTXO struct {
	TxID  string `json:"txid"`
	Vout  uint32 `json:"vout"`
	Value int64  `json:"value"` // satoshi
	Status struct {
		Confirmed bool `json:"confirmed"`
	} `json:"status"`
}

// UTXOs lists the unspent outputs of an address.
func (c *BitcoinClient) UTXOs(ctx context.Context, address string) ([]UTXO, error) {
	var utxos []UTXO
	if err := c.get(ctx, "/address/"+address+"/utxo", &utxos); err != nil {
		return nil, err
	}
	return utxos, nil
}

// FeeRate returns the estimated sat/vB for confirmation within ~3 blocks.
func (c *BitcoinClient) FeeRate(ctx context.Context) (float64, error) {
	var estimates map[string]float64
	if err := c.get(ctx, "/fee-estimates", &estimates); err != nil {
		return 0, err
	}
	rate, ok := estimates["3"]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("%w: no fee estimate available", model.ErrNetworkUnavailable)
	}
	return rate, nil
}

// Broadcast submits a raw transaction in hex and returns the txid.
func (c *BitcoinClient) Broadcast(ctx context.Context, rawTxHex string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tx", strings.NewReader(rawTxHex))
	if err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrNetworkUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s", model.ErrBroadcastRejected, strings.TrimSpace(string(body)))
	}
	return strings.TrimSpace(string(body)), nil
}

// Balance returns the confirmed balance of an address in satoshi.
func (c *BitcoinClient) Balance(ctx context.Context, address string) (int64, error) {
	utxos, err := c.UTXOs(ctx, address)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, u := range utxos {
		if u.Status.Confirmed {
			total += u.Value
		}
	}
	return total, nil
}

// TxStatus reports whether a transaction is confirmed. Bitcoin has no
// chain-level failure state for an accepted tx; it is pending until mined.
func (c *BitcoinClient) TxStatus(ctx context.Context, txID string) (model.TxStatus, error) {
	var status struct {
		Confirmed bool `json:"confirmed"`
	}
	if err := c.get(ctx, "/tx/"+txID+"/status", &status); err != nil {
		return model.TxStatusPending, err
	}
	if status.Confirmed {
		return model.TxStatusSuccess, nil
	}
	return model.TxStatusPending, nil
}

func (c *BitcoinClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrNetworkUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", model.ErrNetworkUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
