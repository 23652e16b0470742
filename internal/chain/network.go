// Package chain defines the supported networks as a closed set of variants
// with one dispatch table per operation (address validation, key derivation,
// address derivation, unit handling). Adding a network is one new Kind plus a
// handler in each table.
package chain

import (
	"fmt"

	"github.com/alephwallet/walletcore/internal/model"
)

// Kind identifies a supported network.
type Kind string

const (
	Ethereum Kind = "ethereum"
	Tron     Kind = "tron"
	Ton      Kind = "ton"
	Bitcoin  Kind = "bitcoin"
	Solana   Kind = "solana"
)

// Params holds the static per-network constants.
type Params struct {
	// Family groups networks by transaction model ("evm", "tron", "ton",
	// "utxo", "solana"); stored as networkType in envelope metadata.
	Family string
	// Symbol is the native asset ticker.
	Symbol string
	// Decimals of the native base unit (wei, sun, nanoton, satoshi, lamports).
	Decimals int
	// DerivationPath is the HD path of the single account this wallet uses.
	DerivationPath string
	// CoinGeckoID is the price-feed identifier for the native asset.
	CoinGeckoID string
}

var params = map[Kind]Params{
	Ethereum: {Family: "evm", Symbol: "ETH", Decimals: 18, DerivationPath: "m/44'/60'/0'/0/0", CoinGeckoID: "ethereum"},
	Tron:     {Family: "tron", Symbol: "TRX", Decimals: 6, DerivationPath: "m/44'/195'/0'/0/0", CoinGeckoID: "tron"},
	Ton:      {Family: "ton", Symbol: "TON", Decimals: 9, DerivationPath: "m/44'/607'/0'", CoinGeckoID: "the-open-network"},
	Bitcoin:  {Family: "utxo", Symbol: "BTC", Decimals: 8, DerivationPath: "m/84'/0'/0'/0/0", CoinGeckoID: "bitcoin"},
	Solana:   {Family: "solana", Symbol: "SOL", Decimals: 9, DerivationPath: "m/44'/501'/0'/0'", CoinGeckoID: "solana"},
}

// Parse maps a network name to its Kind.
func Parse(network string) (Kind, error) {
	k := Kind(network)
	if _, ok := params[k]; !ok {
		return "", fmt.Errorf("%w: unsupported network %q", model.ErrInvalidInput, network)
	}
	return k, nil
}

// Get returns the static parameters for a kind.
func Get(kind Kind) Params {
	return params[kind]
}

// Kinds returns all supported kinds.
func Kinds() []Kind {
	return []Kind{Ethereum, Tron, Ton, Bitcoin, Solana}
}
