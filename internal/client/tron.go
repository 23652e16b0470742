package client

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/alephwallet/walletcore/internal/model"
)

// TronClient is a client for TRON full-node HTTP API (trongrid compatible).
// The node builds the raw transaction; signing stays local.
type TronClient struct {
	baseURL string
	client  *http.Client
}

// NewTronClient creates a new TRON client
func NewTronClient(baseURL string) *TronClient {
	return &TronClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// TronRawTx is an unsigned transaction as returned by createtransaction.
// The full JSON is kept verbatim because broadcasttransaction expects it
// back with only the signature added.
type TronRawTx struct {
	TxID    string
	Message map[string]json.RawMessage
}

// Digest returns the 32-byte signing digest (the txID is the sha256 of the
// raw transaction data).
func (t *TronRawTx) Digest() ([]byte, error) {
	digest, err := hex.DecodeString(t.TxID)
	if err != nil || len(digest) != 32 {
		return nil, fmt.Errorf("invalid txID %q", t.TxID)
	}
	return digest, nil
}

// BuildTransfer asks the node to construct an unsigned TRX transfer.
// amountSun is in sun (10^-6 TRX).
func (c *TronClient) BuildTransfer(ctx context.Context, from, to string, amountSun int64) (*TronRawTx, error) {
	reqBody := map[string]any{
		"owner_address": from,
		"to_address":    to,
		"amount":        amountSun,
		"visible":       true, // base58 addresses
	}

	var raw map[string]json.RawMessage
	if err := c.post(ctx, "/wallet/createtransaction", reqBody, &raw); err != nil {
		return nil, err
	}

	if errMsg, ok := raw["Error"]; ok {
		return nil, fmt.Errorf("%w: %s", model.ErrBroadcastRejected, string(errMsg))
	}

	var txID string
	if err := json.Unmarshal(raw["txID"], &txID); err != nil {
		return nil, fmt.Errorf("missing txID in createtransaction response")
	}

	return &TronRawTx{TxID: txID, Message: raw}, nil
}

// Broadcast attaches the signature and submits the transaction.
func (c *TronClient) Broadcast(ctx context.Context, tx *TronRawTx, signature []byte) (string, error) {
	sigJSON, err := json.Marshal([]string{hex.EncodeToString(signature)})
	if err != nil {
		return "", err
	}
	tx.Message["signature"] = sigJSON

	var resp struct {
		Result  bool   `json:"result"`
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := c.post(ctx, "/wallet/broadcasttransaction", tx.Message, &resp); err != nil {
		return "", err
	}
	if !resp.Result {
		msg := resp.Code
		if decoded, err := hex.DecodeString(resp.Message); err == nil {
			msg = fmt.Sprintf("%s: %s", resp.Code, decoded)
		}
		return "", fmt.Errorf("%w: %s", model.ErrBroadcastRejected, msg)
	}
	return tx.TxID, nil
}

// Balance returns the TRX balance in sun.
func (c *TronClient) Balance(ctx context.Context, address string) (int64, error) {
	var resp struct {
		Balance int64 `json:"balance"`
	}
	if err := c.post(ctx, "/wallet/getaccount", map[string]any{"address": address, "visible": true}, &resp); err != nil {
		return 0, err
	}
	return resp.Balance, nil
}

// TxStatus reports the confirmation state of a transaction. An empty
// transaction-info response means not yet included in a block.
func (c *TronClient) TxStatus(ctx context.Context, txID string) (model.TxStatus, error) {
	var resp struct {
		ID          string `json:"id"`
		BlockNumber int64  `json:"blockNumber"`
		Result      string `json:"result"` // set to "FAILED" on contract failure
	}
	if err := c.post(ctx, "/wallet/gettransactioninfobyid", map[string]any{"value": txID}, &resp); err != nil {
		return model.TxStatusPending, err
	}
	if resp.ID == "" || resp.BlockNumber == 0 {
		return model.TxStatusPending, nil
	}
	if resp.Result == "FAILED" {
		return model.TxStatusFailed, nil
	}
	return model.TxStatusSuccess, nil
}

func (c *TronClient) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

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
