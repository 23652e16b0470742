// Package wallet orchestrates wallet creation, import, unlock and locking.
// It is the only caller of the secret store and session cache; the seed
// phrase produced by Generate lives solely in volatile memory until the user
// confirms their backup and ConfirmAndPersist is called, so an abandoned flow
// leaves nothing behind.
package wallet

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/skip2/go-qrcode"
	"github.com/tyler-smith/go-bip39"

	"github.com/alephwallet/walletcore/internal/chain"
	"github.com/alephwallet/walletcore/internal/keystore"
	"github.com/alephwallet/walletcore/internal/model"
)

// generateEntropyBits gives a 12-word phrase for new wallets. Import accepts
// any standard length up to 24 words.
const generateEntropyBits = 128

// validWordCounts are the BIP-39 mnemonic lengths.
var validWordCounts = map[int]bool{12: true, 15: true, 18: true, 21: true, 24: true}

// PasswordPrompter asynchronously obtains the wallet password from the user.
// The core never blocks on a particular UI modality; tests inject a scripted
// responder. The returned bytes are zeroed by the caller.
type PasswordPrompter interface {
	RequestPassword(ctx context.Context, reason string) ([]byte, error)
}

// Flow drives generate/import/persist and unlock against the secret store
// and the session cache.
type Flow struct {
	store        *keystore.Store
	session      *keystore.SessionCache
	prompter     PasswordPrompter
	addressFuncs map[chain.Kind]chain.AddressFunc
}

// New creates a Flow. addressFuncs must cover every network the flow should
// offer; networks absent from the table are rejected at generate/import time.
func New(store *keystore.Store, session *keystore.SessionCache, prompter PasswordPrompter, addressFuncs map[chain.Kind]chain.AddressFunc) *Flow {
	return &Flow{
		store:        store,
		session:      session,
		prompter:     prompter,
		addressFuncs: addressFuncs,
	}
}

// GenerateResult is a freshly generated, not yet persisted wallet.
type GenerateResult struct {
	Address    string
	SeedPhrase string
	QR         string // base64 PNG of the address
}

// Generate produces a fresh seed phrase and derives the public address for
// the network. Nothing is persisted: the caller must drive the user through
// the backup confirmation quiz and then call ConfirmAndPersist. If the user
// abandons the flow the phrase is simply discarded with this result.
func (f *Flow) Generate(ctx context.Context, network string) (*GenerateResult, error) {
	kind, err := chain.Parse(network)
	if err != nil {
		return nil, err
	}

	entropy, err := bip39.NewEntropy(generateEntropyBits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, fmt.Errorf("failed to generate mnemonic: %w", err)
	}

	address, err := f.deriveAddress(ctx, kind, mnemonic)
	if err != nil {
		return nil, err
	}

	qr, err := QRCode(address)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	return &GenerateResult{Address: address, SeedPhrase: mnemonic, QR: qr}, nil
}

// Import validates an existing seed phrase and derives the public address.
// Like Generate it persists nothing; persistence happens in ConfirmAndPersist
// once the caller supplies a password.
func (f *Flow) Import(ctx context.Context, seedPhrase, network string) (string, error) {
	kind, err := chain.Parse(network)
	if err != nil {
		return "", err
	}
	if err := ValidateSeedPhrase(seedPhrase); err != nil {
		return "", err
	}
	return f.deriveAddress(ctx, kind, normalizePhrase(seedPhrase))
}

// ConfirmAndPersist encrypts the seed phrase under the password and writes it
// as the single active envelope. Called only after the user has proven their
// backup (generate) or supplied the phrase themselves (import). Any cached
// session secret is cleared because the wallet identity changed.
func (f *Flow) ConfirmAndPersist(ctx context.Context, seedPhrase, network string, password []byte) error {
	kind, err := chain.Parse(network)
	if err != nil {
		return err
	}
	if err := ValidateSeedPhrase(seedPhrase); err != nil {
		return err
	}

	phrase := normalizePhrase(seedPhrase)
	address, err := f.deriveAddress(ctx, kind, phrase)
	if err != nil {
		return err
	}

	meta := model.Metadata{
		Address:     address,
		Network:     string(kind),
		NetworkType: chain.Get(kind).Family,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}

	seedBytes := []byte(phrase)
	defer clear(seedBytes)

	if err := f.store.EncryptAndPersist(seedBytes, password, meta); err != nil {
		return err
	}

	f.session.Clear()
	return nil
}

// Unlock returns the seed phrase for signing, from the session cache when the
// window is still open, otherwise by prompting for the password and
// decrypting the envelope. The fresh decrypt populates the cache.
//
// The caller must zero the returned seed after use.
func (f *Flow) Unlock(ctx context.Context) ([]byte, error) {
	if seed := f.session.Get(); seed != nil {
		return seed, nil
	}

	password, err := f.prompter.RequestPassword(ctx, "unlock wallet")
	if err != nil {
		return nil, err
	}
	defer clear(password)

	return f.UnlockWithPassword(password)
}

// UnlockWithPassword decrypts the envelope with an already collected password
// and populates the session cache.
func (f *Flow) UnlockWithPassword(password []byte) ([]byte, error) {
	seed, _, err := f.store.Decrypt(password)
	if err != nil {
		return nil, err
	}

	f.session.Set(seed)
	return seed, nil
}

// Lock clears the session cache; the envelope stays.
func (f *Flow) Lock() {
	f.session.Clear()
}

// Delete removes the wallet irreversibly: envelope and session both.
func (f *Flow) Delete() error {
	f.session.Clear()
	return f.store.Clear()
}

func (f *Flow) deriveAddress(ctx context.Context, kind chain.Kind, mnemonic string) (string, error) {
	deriveFn, ok := f.addressFuncs[kind]
	if !ok {
		return "", fmt.Errorf("%w: no address derivation for %s", model.ErrInvalidInput, kind)
	}

	seed := chain.SeedFromMnemonic(mnemonic)
	defer clear(seed)

	return deriveFn(ctx, seed)
}

// ValidateSeedPhraseFormat checks only the word count. Wordlist membership is
// a separate, stricter check in ValidateSeedPhrase.
func ValidateSeedPhraseFormat(seedPhrase string) error {
	words := strings.Fields(seedPhrase)
	if !validWordCounts[len(words)] {
		return fmt.Errorf("%w: must be 12, 15, 18, 21 or 24 words, got %d", model.ErrInvalidSeedPhrase, len(words))
	}
	return nil
}

// ValidateSeedPhrase checks word count, wordlist membership and the BIP-39
// checksum.
func ValidateSeedPhrase(seedPhrase string) error {
	if err := ValidateSeedPhraseFormat(seedPhrase); err != nil {
		return err
	}
	if !bip39.IsMnemonicValid(normalizePhrase(seedPhrase)) {
		return fmt.Errorf("%w: unknown word or bad checksum", model.ErrInvalidSeedPhrase)
	}
	return nil
}

func normalizePhrase(seedPhrase string) string {
	return strings.Join(strings.Fields(strings.ToLower(seedPhrase)), " ")
}

// QRCode generates QR code of address in base64
func QRCode(address string) (string, error) {
	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}

	png, err := qr.PNG(256)
	if err != nil {
		return "", fmt.Errorf("failed to generate PNG: %w", err)
	}

	return base64.StdEncoding.EncodeToString(png), nil
}
