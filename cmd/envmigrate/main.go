// One-off: re-encrypt a wallet envelope under the current format version.
// Decrypts with the KDF parameters of the stored version, re-encrypts with
// a fresh salt and nonce at the current version, writes the file in place.
// Usage: go run ./cmd/envmigrate -file /path/to/wallet.json
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/alephwallet/walletcore/internal/keystore"
	"github.com/alephwallet/walletcore/wallet"
)

func main() {
	filePath := flag.String("file", "", "path to the wallet envelope file")
	flag.Parse()

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "missing -file")
		os.Exit(1)
	}

	store := keystore.NewStore(keystore.NewFileStorage(*filePath))
	if !store.HasActiveWallet() {
		fmt.Fprintln(os.Stderr, "no wallet envelope at", *filePath)
		os.Exit(1)
	}

	prompter := &wallet.TerminalPrompter{}
	password, err := prompter.RequestPassword(context.Background(), "wallet password")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer clear(password)

	seedPhrase, meta, err := store.Decrypt(password)
	if err != nil {
		fmt.Fprintln(os.Stderr, "decrypt failed:", err)
		os.Exit(1)
	}
	defer clear(seedPhrase)

	if err := store.EncryptAndPersist(seedPhrase, password, meta); err != nil {
		fmt.Fprintln(os.Stderr, "re-encrypt failed:", err)
		os.Exit(1)
	}

	fmt.Println("envelope migrated to version", keystore.EnvelopeVersion)
}
