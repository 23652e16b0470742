package client

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/alephwallet/walletcore/internal/chain"
	"github.com/alephwallet/walletcore/internal/model"
)

// TonClient talks to a TON wallet gateway. TON transfers are messages to the
// account's wallet contract, so the gateway builds the unsigned message body
// and computes the wallet address from the public key; only the ed25519
// signature is produced locally.
type TonClient struct {
	baseURL string
	client  *http.Client
}

// NewTonClient creates a new TON gateway client
func NewTonClient(baseURL string) *TonClient {
	return &TonClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// TonUnsignedTransfer is a transfer body built by the gateway. Digest is the
// cell hash the wallet contract expects a signature over.
type TonUnsignedTransfer struct {
	Payload []byte // serialized unsigned message (BOC)
	Digest  []byte // 32-byte signing hash
	Seqno   uint32
}

// WalletAddress returns the user-friendly address of the wallet contract for
// a public key.
func (c *TonClient) WalletAddress(ctx context.Context, pub ed25519.PublicKey) (string, error) {
	var resp struct {
		AccountID string `json:"accountId"` // hex, 32 bytes
	}
	reqBody := map[string]any{"publicKey": hex.EncodeToString(pub)}
	if err := c.post(ctx, "/v1/wallet/address", reqBody, &resp); err != nil {
		return "", err
	}

	raw, err := hex.DecodeString(resp.AccountID)
	if err != nil || len(raw) != 32 {
		return "", fmt.Errorf("invalid account id in gateway response")
	}
	var accountID [32]byte
	copy(accountID[:], raw)
	return chain.RenderTonAddress(accountID), nil
}

// BuildTransfer asks the gateway for an unsigned transfer message.
// amountNano is in nanoton.
func (c *TonClient) BuildTransfer(ctx context.Context, from, to string, amountNano uint64, memo string) (*TonUnsignedTransfer, error) {
	reqBody := map[string]any{
		"from":    from,
		"to":      to,
		"amount":  amountNano,
		"comment": memo,
	}

	var resp struct {
		Payload string `json:"payload"` // base64 BOC
		Digest  string `json:"digest"`  // hex
		Seqno   uint32 `json:"seqno"`
	}
	if err := c.post(ctx, "/v1/wallet/transfer/build", reqBody, &resp); err != nil {
		return nil, err
	}

	payload, err := base64.StdEncoding.DecodeString(resp.Payload)
	if err != nil {
		return nil, fmt.Errorf("invalid payload in gateway response: %w", err)
	}
	digest, err := hex.DecodeString(resp.Digest)
	if err != nil || len(digest) != 32 {
		return nil, fmt.Errorf("invalid digest in gateway response")
	}

	return &TonUnsignedTransfer{Payload: payload, Digest: digest, Seqno: resp.Seqno}, nil
}

// Broadcast submits the signed transfer and returns the message hash.
func (c *TonClient) Broadcast(ctx context.Context, transfer *TonUnsignedTransfer, signature []byte) (string, error) {
	reqBody := map[string]any{
		"payload":   base64.StdEncoding.EncodeToString(transfer.Payload),
		"signature": hex.EncodeToString(signature),
	}

	var resp struct {
		Hash  string `json:"hash"`
		Error string `json:"error"`
	}
	if err := c.post(ctx, "/v1/wallet/transfer/send", reqBody, &resp); err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", fmt.Errorf("%w: %s", model.ErrBroadcastRejected, resp.Error)
	}
	return resp.Hash, nil
}

// Balance returns the account balance in nanoton.
func (c *TonClient) Balance(ctx context.Context, address string) (uint64, error) {
	var resp struct {
		Balance uint64 `json:"balance"`
	}
	if err := c.post(ctx, "/v1/account/balance", map[string]any{"address": address}, &resp); err != nil {
		return 0, err
	}
	return resp.Balance, nil
}

// TxStatus reports the state of a previously sent message.
func (c *TonClient) TxStatus(ctx context.Context, hash string) (model.TxStatus, error) {
	var resp struct {
		Status string `json:"status"` // "pending" | "applied" | "failed"
	}
	if err := c.post(ctx, "/v1/message/status", map[string]any{"hash": hash}, &resp); err != nil {
		return model.TxStatusPending, err
	}
	switch resp.Status {
	case "applied":
		return model.TxStatusSuccess, nil
	case "failed":
		return model.TxStatusFailed, nil
	default:
		return model.TxStatusPending, nil
	}
}

func (c *TonClient) post(ctx context.Context, path string, body, out any) error {
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
