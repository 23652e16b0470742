package client

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/alephwallet/walletcore/internal/model"
)

// EthereumClient is a client for EVM JSON-RPC nodes
type EthereumClient struct {
	rpc *ethclient.Client

	mu      sync.Mutex // guards chainID
	chainID *big.Int
}

// NewEthereumClient dials the given EVM RPC endpoint.
func NewEthereumClient(rpcURL string) (*EthereumClient, error) {
	rpc, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial EVM RPC: %w", err)
	}
	return &EthereumClient{rpc: rpc}, nil
}

// ChainID returns the chain id, cached after the first successful fetch.
// Safe for concurrent use.
func (c *EthereumClient) ChainID(ctx context.Context) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.chainID != nil {
		return c.chainID, nil
	}
	id, err := c.rpc.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get chain id: %v", model.ErrNetworkUnavailable, err)
	}
	c.chainID = id
	return id, nil
}

// GasPrice returns the node's suggested gas price in wei.
func (c *EthereumClient) GasPrice(ctx context.Context) (*big.Int, error) {
	price, err := c.rpc.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get gas price: %v", model.ErrNetworkUnavailable, err)
	}
	return price, nil
}

// PendingNonce returns the next nonce for the address including pending txs.
func (c *EthereumClient) PendingNonce(ctx context.Context, address string) (uint64, error) {
	nonce, err := c.rpc.PendingNonceAt(ctx, ethcommon.HexToAddress(address))
	if err != nil {
		return 0, fmt.Errorf("%w: failed to get nonce: %v", model.ErrNetworkUnavailable, err)
	}
	return nonce, nil
}

// Balance returns the address balance in wei.
func (c *EthereumClient) Balance(ctx context.Context, address string) (*big.Int, error) {
	bal, err := c.rpc.BalanceAt(ctx, ethcommon.HexToAddress(address), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get balance: %v", model.ErrNetworkUnavailable, err)
	}
	return bal, nil
}

// Broadcast submits a signed transaction. Never retried by callers: a blind
// resubmit risks a duplicate spend if the first attempt actually landed.
func (c *EthereumClient) Broadcast(ctx context.Context, tx *types.Transaction) (string, error) {
	if err := c.rpc.SendTransaction(ctx, tx); err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrBroadcastRejected, err)
	}
	return tx.Hash().Hex(), nil
}

// TxStatus reports the confirmation state of a transaction. A missing receipt
// means the transaction is still pending.
func (c *EthereumClient) TxStatus(ctx context.Context, txHash string) (model.TxStatus, error) {
	receipt, err := c.rpc.TransactionReceipt(ctx, ethcommon.HexToHash(txHash))
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return model.TxStatusPending, nil
		}
		return model.TxStatusPending, fmt.Errorf("%w: failed to get receipt: %v", model.ErrNetworkUnavailable, err)
	}
	if receipt.Status == types.ReceiptStatusSuccessful {
		return model.TxStatusSuccess, nil
	}
	return model.TxStatusFailed, nil
}
