package chain

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"

	"github.com/alephwallet/walletcore/internal/model"
)

// addressValidators is the per-network dispatch table for recipient address
// format checks. These are format-only checks: a well-formed all-zero address
// passes and signing may proceed.
var addressValidators = map[Kind]func(string) error{
	Ethereum: validateEthereumAddress,
	Tron:     validateTronAddress,
	Ton:      validateTonAddress,
	Bitcoin:  validateBitcoinAddress,
	Solana:   validateSolanaAddress,
}

// ValidateAddress checks an address against the network's address grammar.
// Returns ErrInvalidAddress on any mismatch.
func ValidateAddress(kind Kind, address string) error {
	validate, ok := addressValidators[kind]
	if !ok {
		return fmt.Errorf("%w: unsupported network %q", model.ErrInvalidInput, kind)
	}
	return validate(address)
}

var ethAddressRe = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// validateEthereumAddress requires 0x + 40 hex chars, and for mixed-case
// input a valid EIP-55 checksum. All-lowercase and all-uppercase hex carry
// no checksum and are accepted as-is.
func validateEthereumAddress(address string) error {
	if !ethAddressRe.MatchString(address) {
		return fmt.Errorf("%w: must be 0x followed by 40 hex characters", model.ErrInvalidAddress)
	}

	hexPart := address[2:]
	if hexPart == strings.ToLower(hexPart) || hexPart == strings.ToUpper(hexPart) {
		return nil
	}

	// Mixed case: the casing must match the EIP-55 checksum exactly
	if address != ethcommon.HexToAddress(address).Hex() {
		return fmt.Errorf("%w: bad EIP-55 checksum", model.ErrInvalidAddress)
	}
	return nil
}

// validateTronAddress requires T + 33 base58 chars decoding to a base58check
// payload with the 0x41 prefix.
func validateTronAddress(address string) error {
	if len(address) != 34 || address[0] != 'T' {
		return fmt.Errorf("%w: must be T followed by 33 base58 characters", model.ErrInvalidAddress)
	}

	raw, err := base58.Decode(address)
	if err != nil || len(raw) != 25 {
		return fmt.Errorf("%w: not valid base58check", model.ErrInvalidAddress)
	}
	if raw[0] != tronAddressPrefix {
		return fmt.Errorf("%w: wrong version byte", model.ErrInvalidAddress)
	}

	payload, checksum := raw[:21], raw[21:]
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	for i := 0; i < 4; i++ {
		if checksum[i] != second[i] {
			return fmt.Errorf("%w: checksum mismatch", model.ErrInvalidAddress)
		}
	}
	return nil
}

// validateTonAddress requires the 48-character base64url user-friendly form:
// tag byte, workchain, 32-byte account id, crc16.
func validateTonAddress(address string) error {
	if len(address) != 48 {
		return fmt.Errorf("%w: must be 48 base64url characters", model.ErrInvalidAddress)
	}

	raw, err := base64.RawURLEncoding.DecodeString(address)
	if err != nil || len(raw) != 36 {
		return fmt.Errorf("%w: not valid base64url", model.ErrInvalidAddress)
	}

	// Accept bounceable (0x11) and non-bounceable (0x51) tags, with or
	// without the testnet-only flag bit.
	tag := raw[0] &^ 0x80
	if tag != 0x11 && tag != 0x51 {
		return fmt.Errorf("%w: unknown address tag", model.ErrInvalidAddress)
	}

	if crc16xmodem(raw[:34]) != uint16(raw[34])<<8|uint16(raw[35]) {
		return fmt.Errorf("%w: checksum mismatch", model.ErrInvalidAddress)
	}
	return nil
}

// validateBitcoinAddress accepts any mainnet address form btcutil can decode
// (P2PKH, P2SH, bech32 segwit).
func validateBitcoinAddress(address string) error {
	addr, err := btcutil.DecodeAddress(address, &chaincfg.MainNetParams)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidAddress, err)
	}
	if !addr.IsForNet(&chaincfg.MainNetParams) {
		return fmt.Errorf("%w: not a mainnet address", model.ErrInvalidAddress)
	}
	return nil
}

// validateSolanaAddress accepts any base58 string parsing to a 32-byte key.
func validateSolanaAddress(address string) error {
	if _, err := solana.PublicKeyFromBase58(address); err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidAddress, err)
	}
	return nil
}

// crc16xmodem computes CRC16/XMODEM as used by TON user-friendly addresses.
func crc16xmodem(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
