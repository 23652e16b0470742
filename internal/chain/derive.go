package chain

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/tyler-smith/go-bip39"

	"github.com/alephwallet/walletcore/internal/model"
)

const (
	hardened = hdkeychain.HardenedKeyStart

	tronAddressPrefix = 0x41
	tonAddressTag     = 0x51 // non-bounceable, as wallets present fresh accounts
)

// secpPaths is the dispatch table of BIP-44 paths for the secp256k1 networks.
var secpPaths = map[Kind][]uint32{
	Ethereum: {hardened + 44, hardened + 60, hardened, 0, 0},
	Tron:     {hardened + 44, hardened + 195, hardened, 0, 0},
	Bitcoin:  {hardened + 84, hardened, hardened, 0, 0},
}

// ed25519Paths is the dispatch table of SLIP-0010 paths for the ed25519
// networks. All indices hardened, as the curve requires.
var ed25519Paths = map[Kind][]uint32{
	Ton:    {hardened + 44, hardened + 607, hardened},
	Solana: {hardened + 44, hardened + 501, hardened, hardened},
}

// SeedFromMnemonic expands a BIP-39 mnemonic into the 64-byte binary seed
// (empty passphrase). The caller must zero the result after use.
func SeedFromMnemonic(mnemonic string) []byte {
	return bip39.NewSeed(mnemonic, "")
}

// DeriveECDSAKey derives the secp256k1 signing key for a network at its
// standard BIP-44 path. The caller must zero the key after use.
func DeriveECDSAKey(kind Kind, seed []byte) (*btcec.PrivateKey, error) {
	path, ok := secpPaths[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a secp256k1 network", model.ErrInvalidInput, kind)
	}

	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create master key: %w", err)
	}
	for _, index := range path {
		key, err = key.Derive(index)
		if err != nil {
			return nil, fmt.Errorf("failed to derive child key: %w", err)
		}
	}

	privKey, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("failed to extract private key: %w", err)
	}
	return privKey, nil
}

// DeriveEd25519Key derives the ed25519 signing key for a network via
// SLIP-0010. The caller must zero the key after use.
func DeriveEd25519Key(kind Kind, seed []byte) (ed25519.PrivateKey, error) {
	path, ok := ed25519Paths[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an ed25519 network", model.ErrInvalidInput, kind)
	}
	return slip10DeriveKey(seed, path)
}

// AddressFunc derives the public address for one network from a BIP-39 seed.
// Ton's account id depends on its wallet contract and comes from the network
// collaborator, hence the context.
type AddressFunc func(ctx context.Context, seed []byte) (string, error)

// LocalAddressFuncs returns the address-derivation dispatch table for the
// networks whose addresses are pure functions of the seed. The Ton entry is
// supplied by the client layer at wiring time.
func LocalAddressFuncs() map[Kind]AddressFunc {
	return map[Kind]AddressFunc{
		Ethereum: func(_ context.Context, seed []byte) (string, error) { return EthereumAddress(seed) },
		Tron:     func(_ context.Context, seed []byte) (string, error) { return TronAddress(seed) },
		Bitcoin:  func(_ context.Context, seed []byte) (string, error) { return BitcoinAddress(seed) },
		Solana:   func(_ context.Context, seed []byte) (string, error) { return SolanaAddress(seed) },
	}
}

// EthereumAddress derives the EIP-55 checksummed address at m/44'/60'/0'/0/0.
func EthereumAddress(seed []byte) (string, error) {
	privKey, err := DeriveECDSAKey(Ethereum, seed)
	if err != nil {
		return "", err
	}
	defer privKey.Zero()

	return ethcrypto.PubkeyToAddress(privKey.ToECDSA().PublicKey).Hex(), nil
}

// TronAddress derives the base58check address at m/44'/195'/0'/0/0:
// keccak256 of the uncompressed public key, last 20 bytes, 0x41 prefix.
func TronAddress(seed []byte) (string, error) {
	privKey, err := DeriveECDSAKey(Tron, seed)
	if err != nil {
		return "", err
	}
	defer privKey.Zero()

	pub := ethcrypto.FromECDSAPub(&privKey.ToECDSA().PublicKey)
	hash := ethcrypto.Keccak256(pub[1:])

	payload := make([]byte, 0, 25)
	payload = append(payload, tronAddressPrefix)
	payload = append(payload, hash[12:]...)

	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	payload = append(payload, second[:4]...)

	return base58.Encode(payload), nil
}

// BitcoinAddress derives the P2WPKH bech32 address at m/84'/0'/0'/0/0.
func BitcoinAddress(seed []byte) (string, error) {
	privKey, err := DeriveECDSAKey(Bitcoin, seed)
	if err != nil {
		return "", err
	}
	defer privKey.Zero()

	pubKeyHash := btcutil.Hash160(privKey.PubKey().SerializeCompressed())
	addr, err := btcutil.NewAddressWitnessPubKeyHash(pubKeyHash, &chaincfg.MainNetParams)
	if err != nil {
		return "", fmt.Errorf("failed to build address: %w", err)
	}
	return addr.EncodeAddress(), nil
}

// SolanaAddress derives the base58 address at m/44'/501'/0'/0'.
func SolanaAddress(seed []byte) (string, error) {
	privKey, err := DeriveEd25519Key(Solana, seed)
	if err != nil {
		return "", err
	}
	defer clear(privKey)

	pub := privKey.Public().(ed25519.PublicKey)
	return solana.PublicKeyFromBytes(pub).String(), nil
}

// RenderTonAddress encodes a workchain-0 account id in the user-friendly
// non-bounceable base64url form.
func RenderTonAddress(accountID [32]byte) string {
	raw := make([]byte, 0, 36)
	raw = append(raw, tonAddressTag, 0x00)
	raw = append(raw, accountID[:]...)

	crc := crc16xmodem(raw)
	raw = append(raw, byte(crc>>8), byte(crc))

	return base64.RawURLEncoding.EncodeToString(raw)
}
