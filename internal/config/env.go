package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config contains all configuration parameters for the application.
// Session duration and KDF iteration count are deliberately NOT here: they
// are compiled-in constants, since weakening them silently degrades security.
type Config struct {
	Port           string `envconfig:"PORT" default:"8080"`
	WalletFilePath string `envconfig:"WALLET_FILE_PATH" required:"true"`

	EthereumRPCURL string `envconfig:"ETHEREUM_RPC_URL" default:"https://eth.llamarpc.com"`
	TronAPIURL     string `envconfig:"TRON_API_URL" default:"https://api.trongrid.io"`
	TonGatewayURL  string `envconfig:"TON_GATEWAY_URL" default:"https://tongateway.local"`
	BitcoinAPIURL  string `envconfig:"BITCOIN_API_URL" default:"https://blockstream.info/api"`
	SolanaRPCURL   string `envconfig:"SOLANA_RPC_URL" default:"https://api.mainnet-beta.solana.com"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	cfg = &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}
