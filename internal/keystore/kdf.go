package keystore

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/alephwallet/walletcore/internal/model"
)

const (
	// PBKDF2 parameters for envelope version "1.0".
	//
	// The iteration count is a compiled-in schema constant, intentionally not
	// configurable: weakening it silently would degrade security, and raising
	// it breaks decryption of old envelopes. Any future increase must come
	// with a new envelope version (see versionKDFIterations).
	kdfIterationsV1 = 310_000
	kdfKeyLen       = 32 // 256 bits for AES-256-GCM

	saltLen  = 16
	nonceLen = 12
)

// versionKDFIterations maps envelope format versions to the iteration count
// they were encrypted under, so old envelopes stay decryptable after a bump.
var versionKDFIterations = map[string]int{
	EnvelopeVersion: kdfIterationsV1,
}

// DeriveKey derives a 256-bit AES key from a password and a 16-byte salt via
// PBKDF2-HMAC-SHA256. Deterministic, no side effects. The caller should zero
// the returned key after use.
func DeriveKey(password, salt []byte, version string) ([]byte, error) {
	if len(password) == 0 {
		return nil, fmt.Errorf("%w: empty password", model.ErrInvalidInput)
	}
	if len(salt) != saltLen {
		return nil, fmt.Errorf("%w: salt must be %d bytes, got %d", model.ErrInvalidInput, saltLen, len(salt))
	}

	iterations, ok := versionKDFIterations[version]
	if !ok {
		return nil, fmt.Errorf("%w: unknown envelope version %q", model.ErrInvalidInput, version)
	}

	return pbkdf2.Key(password, salt, iterations, kdfKeyLen, sha256.New), nil
}
