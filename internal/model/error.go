package model

import "errors"

// Sentinel errors for the key-custody and signing core. Callers branch with
// errors.Is; the HTTP layer maps them to status codes.
var (
	// ErrInvalidInput - malformed password/salt/seed caught before any crypto operation
	ErrInvalidInput = errors.New("invalid input")

	// ErrIncorrectPassword - GCM authentication failed on decrypt. Wrong password
	// and tampered ciphertext are indistinguishable, so one generic error covers both.
	ErrIncorrectPassword = errors.New("incorrect password or corrupt data")

	// ErrNoWallet - no encrypted envelope exists yet
	ErrNoWallet = errors.New("no active wallet")

	// ErrInvalidAddress - recipient address failed the network's format check
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidSeedPhrase - word count or wordlist/checksum validation failed
	ErrInvalidSeedPhrase = errors.New("invalid seed phrase")

	// ErrNetworkUnavailable - fee/nonce fetch or broadcast collaborator unreachable
	ErrNetworkUnavailable = errors.New("network unavailable")

	// ErrBroadcastRejected - chain-level rejection (insufficient funds, bad nonce)
	ErrBroadcastRejected = errors.New("broadcast rejected")
)

// WalletExistsError is an error when an envelope already exists and would be overwritten
type WalletExistsError struct {
	Message string
}

func (e *WalletExistsError) Error() string {
	return e.Message
}

// IsWalletExistsError checks if error is WalletExistsError
func IsWalletExistsError(err error) bool {
	var e *WalletExistsError
	return errors.As(err, &e)
}

// ErrorResponse is the consistent JSON structure for all API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
