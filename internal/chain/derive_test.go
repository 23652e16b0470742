package chain

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestEthereumAddressVector(t *testing.T) {
	seed := SeedFromMnemonic(testMnemonic)
	defer clear(seed)

	addr, err := EthereumAddress(seed)
	require.NoError(t, err)
	assert.Equal(t, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", addr)
}

func TestBitcoinAddressVector(t *testing.T) {
	seed := SeedFromMnemonic(testMnemonic)
	defer clear(seed)

	addr, err := BitcoinAddress(seed)
	require.NoError(t, err)
	assert.Equal(t, "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu", addr)
}

func TestAddressesDeterministicAndValid(t *testing.T) {
	seed := SeedFromMnemonic(testMnemonic)
	defer clear(seed)

	derive := map[Kind]func([]byte) (string, error){
		Ethereum: EthereumAddress,
		Tron:     TronAddress,
		Bitcoin:  BitcoinAddress,
		Solana:   SolanaAddress,
	}

	seen := map[string]Kind{}
	for kind, fn := range derive {
		first, err := fn(seed)
		require.NoError(t, err, kind)
		second, err := fn(seed)
		require.NoError(t, err, kind)
		assert.Equal(t, first, second, "derivation for %s is not deterministic", kind)
		assert.NoError(t, ValidateAddress(kind, first), "derived %s address fails its own validator: %s", kind, first)

		if prev, dup := seen[first]; dup {
			t.Fatalf("networks %s and %s derived the same address", prev, kind)
		}
		seen[first] = kind
	}
}

func TestDeriveECDSAKeyWrongCurve(t *testing.T) {
	seed := SeedFromMnemonic(testMnemonic)
	defer clear(seed)

	_, err := DeriveECDSAKey(Solana, seed)
	assert.Error(t, err)

	_, err = DeriveEd25519Key(Ethereum, seed)
	assert.Error(t, err)
}

// SLIP-0010 ed25519 test vector 1.
func TestSLIP10Vector(t *testing.T) {
	seed, err := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	require.NoError(t, err)

	key, err := slip10DeriveKey(seed, []uint32{hardened + 0})
	require.NoError(t, err)
	assert.Equal(t,
		"68e0fe46dfb67e368c75379acec591dad19df3cde26e63b93a8e704f1dade7a3",
		hex.EncodeToString(key.Seed()))

	key, err = slip10DeriveKey(seed, []uint32{hardened + 0, hardened + 1})
	require.NoError(t, err)
	assert.Equal(t,
		"b1d0bad404bf35da785a64ca1ac54b2617211d2777696fbffaf208f746ae84f2",
		hex.EncodeToString(key.Seed()))
}

func TestRenderTonAddressRoundTrip(t *testing.T) {
	var accountID [32]byte
	for i := range accountID {
		accountID[i] = byte(i * 7)
	}

	addr := RenderTonAddress(accountID)
	assert.Len(t, addr, 48)
	assert.NoError(t, ValidateAddress(Ton, addr))
}

func TestParse(t *testing.T) {
	kind, err := Parse("ethereum")
	require.NoError(t, err)
	assert.Equal(t, Ethereum, kind)

	for _, k := range Kinds() {
		parsed, err := Parse(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	_, err = Parse("dogecoin")
	assert.Error(t, err)
}

func TestParams(t *testing.T) {
	assert.Equal(t, 18, Get(Ethereum).Decimals)
	assert.Equal(t, 6, Get(Tron).Decimals)
	assert.Equal(t, 9, Get(Ton).Decimals)
	assert.Equal(t, 8, Get(Bitcoin).Decimals)
	assert.Equal(t, 9, Get(Solana).Decimals)

	for _, k := range Kinds() {
		p := Get(k)
		assert.NotEmpty(t, p.Symbol, k)
		assert.NotEmpty(t, p.DerivationPath, k)
		assert.NotEmpty(t, p.CoinGeckoID, k)
	}
}
