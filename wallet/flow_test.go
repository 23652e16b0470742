package wallet

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tyler-smith/go-bip39"

	"github.com/alephwallet/walletcore/internal/chain"
	"github.com/alephwallet/walletcore/internal/keystore"
	"github.com/alephwallet/walletcore/internal/model"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func newTestFlow(t *testing.T) (*Flow, *keystore.Store, *keystore.SessionCache) {
	t.Helper()
	store := keystore.NewStore(keystore.NewMemoryStorage())
	session := keystore.NewSessionCache(clock.NewTestClock(time.Unix(1_700_000_000, 0)))
	flow := New(store, session, StaticPrompter{Password: []byte("correctpw123")}, chain.LocalAddressFuncs())
	return flow, store, session
}

func TestValidateSeedPhraseFormat(t *testing.T) {
	word := "abandon"
	for _, count := range []int{12, 15, 18, 21, 24} {
		phrase := strings.TrimSpace(strings.Repeat(word+" ", count))
		assert.NoError(t, ValidateSeedPhraseFormat(phrase), "count %d", count)
	}
	for _, count := range []int{0, 1, 11, 13, 16, 23, 25} {
		phrase := strings.TrimSpace(strings.Repeat(word+" ", count))
		err := ValidateSeedPhraseFormat(phrase)
		assert.ErrorIs(t, err, model.ErrInvalidSeedPhrase, "count %d", count)
	}
}

func TestValidateSeedPhrase(t *testing.T) {
	assert.NoError(t, ValidateSeedPhrase(testMnemonic))

	// Normalization: case and extra whitespace are forgiven
	messy := "  Abandon abandon ABANDON abandon abandon abandon\tabandon abandon abandon abandon abandon about "
	assert.NoError(t, ValidateSeedPhrase(messy))

	// Right count, wrong checksum
	badChecksum := strings.Replace(testMnemonic, "about", "abandon", 1)
	assert.ErrorIs(t, ValidateSeedPhrase(badChecksum), model.ErrInvalidSeedPhrase)

	// Word outside the wordlist
	badWord := strings.Replace(testMnemonic, "about", "zzzzz", 1)
	assert.ErrorIs(t, ValidateSeedPhrase(badWord), model.ErrInvalidSeedPhrase)
}

func TestGenerate(t *testing.T) {
	flow, store, _ := newTestFlow(t)

	result, err := flow.Generate(context.Background(), "ethereum")
	require.NoError(t, err)

	assert.True(t, bip39.IsMnemonicValid(result.SeedPhrase))
	assert.Len(t, strings.Fields(result.SeedPhrase), 12)
	assert.NoError(t, chain.ValidateAddress(chain.Ethereum, result.Address))
	assert.NotEmpty(t, result.QR)

	// Nothing persisted until the backup is confirmed
	assert.False(t, store.HasActiveWallet())
}

func TestGenerateUnknownNetwork(t *testing.T) {
	flow, _, _ := newTestFlow(t)
	_, err := flow.Generate(context.Background(), "dogecoin")
	assert.Error(t, err)
}

func TestGenerateFreshPhraseEachTime(t *testing.T) {
	flow, _, _ := newTestFlow(t)

	first, err := flow.Generate(context.Background(), "ethereum")
	require.NoError(t, err)
	second, err := flow.Generate(context.Background(), "ethereum")
	require.NoError(t, err)

	assert.NotEqual(t, first.SeedPhrase, second.SeedPhrase)
}

func TestImportKnownVector(t *testing.T) {
	flow, _, _ := newTestFlow(t)

	address, err := flow.Import(context.Background(), testMnemonic, "ethereum")
	require.NoError(t, err)
	assert.Equal(t, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", address)
}

func TestImportRejectsBadPhrase(t *testing.T) {
	flow, _, _ := newTestFlow(t)

	_, err := flow.Import(context.Background(), "one two three", "ethereum")
	assert.ErrorIs(t, err, model.ErrInvalidSeedPhrase)
}

func TestConfirmAndPersistEndToEnd(t *testing.T) {
	flow, store, _ := newTestFlow(t)

	err := flow.ConfirmAndPersist(context.Background(), testMnemonic, "ethereum", []byte("correctpw123"))
	require.NoError(t, err)
	require.True(t, store.HasActiveWallet())

	meta, err := store.Metadata()
	require.NoError(t, err)
	assert.Equal(t, "ethereum", meta.Network)
	assert.Equal(t, "evm", meta.NetworkType)
	assert.Equal(t, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", meta.Address)
	_, err = time.Parse(time.RFC3339, meta.CreatedAt)
	assert.NoError(t, err)

	seed, _, err := store.Decrypt([]byte("correctpw123"))
	require.NoError(t, err)
	assert.Equal(t, testMnemonic, string(seed))

	_, _, err = store.Decrypt([]byte("wrongpw"))
	assert.ErrorIs(t, err, model.ErrIncorrectPassword)
}

func TestConfirmAndPersistClearsSession(t *testing.T) {
	flow, _, session := newTestFlow(t)

	session.Set([]byte("stale secret"))
	require.NoError(t, flow.ConfirmAndPersist(context.Background(), testMnemonic, "ethereum", []byte("correctpw123")))

	assert.False(t, session.Active())
}

func TestUnlockPromptsAndCaches(t *testing.T) {
	flow, _, session := newTestFlow(t)
	require.NoError(t, flow.ConfirmAndPersist(context.Background(), testMnemonic, "ethereum", []byte("correctpw123")))

	seed, err := flow.Unlock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testMnemonic, string(seed))
	assert.True(t, session.Active())

	// Second unlock comes from the cache, no prompt needed
	flow.prompter = StaticPrompter{Err: assert.AnError}
	seed, err = flow.Unlock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testMnemonic, string(seed))
}

func TestUnlockWrongPassword(t *testing.T) {
	flow, _, session := newTestFlow(t)
	require.NoError(t, flow.ConfirmAndPersist(context.Background(), testMnemonic, "ethereum", []byte("correctpw123")))

	_, err := flow.UnlockWithPassword([]byte("wrongpw"))
	assert.ErrorIs(t, err, model.ErrIncorrectPassword)
	assert.False(t, session.Active())
}

func TestUnlockNoWallet(t *testing.T) {
	flow, _, _ := newTestFlow(t)

	_, err := flow.Unlock(context.Background())
	assert.ErrorIs(t, err, model.ErrNoWallet)
}

func TestLockAndDelete(t *testing.T) {
	flow, store, session := newTestFlow(t)
	require.NoError(t, flow.ConfirmAndPersist(context.Background(), testMnemonic, "ethereum", []byte("correctpw123")))

	_, err := flow.Unlock(context.Background())
	require.NoError(t, err)
	require.True(t, session.Active())

	flow.Lock()
	assert.False(t, session.Active())
	assert.True(t, store.HasActiveWallet())

	require.NoError(t, flow.Delete())
	assert.False(t, store.HasActiveWallet())
}

func TestQRCode(t *testing.T) {
	qr, err := QRCode("0x9858EfFD232B4033E47d90003D41EC34EcaEda94")
	require.NoError(t, err)
	assert.NotEmpty(t, qr)
}
