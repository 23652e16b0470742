package main

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"log"
	"math/big"
	"net/http"

	"github.com/alephwallet/walletcore/internal/api"
	"github.com/alephwallet/walletcore/internal/chain"
	"github.com/alephwallet/walletcore/internal/client"
	"github.com/alephwallet/walletcore/internal/common"
	"github.com/alephwallet/walletcore/internal/config"
	"github.com/alephwallet/walletcore/internal/handler"
	"github.com/alephwallet/walletcore/internal/keystore"
	"github.com/alephwallet/walletcore/internal/signer"
	"github.com/alephwallet/walletcore/wallet"

	_ "github.com/alephwallet/walletcore/docs"

	"github.com/lightningnetwork/lnd/clock"
)

// @title        Wallet Core API
// @version      1.0
// @description  Local custody wallet: seed generation, encrypted storage, multi-chain signing
// @BasePath     /
func main() {
	if err := config.Init(); err != nil {
		log.Fatalf("config: %v", err)
	}
	cfg := config.Get()

	store := keystore.NewStore(keystore.NewFileStorage(cfg.WalletFilePath))
	session := keystore.NewSessionCache(clock.NewDefaultClock())

	ethClient, err := client.NewEthereumClient(cfg.EthereumRPCURL)
	if err != nil {
		log.Fatalf("ethereum client: %v", err)
	}
	tronClient := client.NewTronClient(cfg.TronAPIURL)
	tonClient := client.NewTonClient(cfg.TonGatewayURL)
	btcClient := client.NewBitcoinClient(cfg.BitcoinAPIURL)
	solClient := client.NewSolanaClient(cfg.SolanaRPCURL)

	sgn := signer.New(signer.Clients{
		Ethereum: ethClient,
		Tron:     tronClient,
		Bitcoin:  btcClient,
		Ton:      tonClient,
		Solana:   solClient,
	})

	addressFuncs := chain.LocalAddressFuncs()
	// TON addresses depend on the wallet contract; the gateway resolves them.
	addressFuncs[chain.Ton] = func(ctx context.Context, seed []byte) (string, error) {
		priv, err := chain.DeriveEd25519Key(chain.Ton, seed)
		if err != nil {
			return "", err
		}
		defer clear(priv)
		return tonClient.WalletAddress(ctx, priv.Public().(ed25519.PublicKey))
	}

	flow := wallet.New(store, session, &wallet.TerminalPrompter{}, addressFuncs)

	balances := map[chain.Kind]handler.BalanceFunc{
		chain.Ethereum: func(ctx context.Context, address string) (string, error) {
			wei, err := ethClient.Balance(ctx, address)
			if err != nil {
				return "", err
			}
			return common.FormatAmount(wei, chain.Get(chain.Ethereum).Decimals), nil
		},
		chain.Tron: func(ctx context.Context, address string) (string, error) {
			sun, err := tronClient.Balance(ctx, address)
			if err != nil {
				return "", err
			}
			return common.FormatAmount(big.NewInt(sun), chain.Get(chain.Tron).Decimals), nil
		},
		chain.Ton: func(ctx context.Context, address string) (string, error) {
			nano, err := tonClient.Balance(ctx, address)
			if err != nil {
				return "", err
			}
			return common.FormatAmount(new(big.Int).SetUint64(nano), chain.Get(chain.Ton).Decimals), nil
		},
		chain.Bitcoin: func(ctx context.Context, address string) (string, error) {
			sats, err := btcClient.Balance(ctx, address)
			if err != nil {
				return "", err
			}
			return common.FormatAmount(big.NewInt(sats), chain.Get(chain.Bitcoin).Decimals), nil
		},
		chain.Solana: func(ctx context.Context, address string) (string, error) {
			lamports, err := solClient.Balance(ctx, address)
			if err != nil {
				return "", err
			}
			return common.FormatAmount(new(big.Int).SetUint64(lamports), chain.Get(chain.Solana).Decimals), nil
		},
	}

	walletHandler := handler.NewWalletHandler(flow, store, session, sgn, balances, client.NewCoinGeckoClient())
	router := api.SetupRouter(walletHandler)

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("server: %v", err)
	}
}
