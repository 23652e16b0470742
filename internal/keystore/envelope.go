package keystore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/alephwallet/walletcore/internal/model"
)

// EnvelopeVersion is the current envelope format tag. A bump means new KDF
// parameters; decrypt branches on the stored version so old envelopes keep
// working (see versionKDFIterations).
const EnvelopeVersion = "1.0"

// ByteArray serializes as a JSON array of numbers rather than Go's default
// base64 string, matching the persisted envelope wire format.
type ByteArray []byte

// MarshalJSON implements json.Marshaler
func (b ByteArray) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Itoa(int(v)))
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (b *ByteArray) UnmarshalJSON(data []byte) error {
	var nums []int
	if err := json.Unmarshal(data, &nums); err != nil {
		return err
	}
	out := make([]byte, len(nums))
	for i, n := range nums {
		if n < 0 || n > 255 {
			return fmt.Errorf("byte value out of range: %d", n)
		}
		out[i] = byte(n)
	}
	*b = out
	return nil
}

// Envelope is the single persisted record holding the encrypted seed phrase.
// Everything outside Encrypted is plaintext and non-secret. Exactly one
// envelope exists per profile; it is overwritten wholesale, never merged.
type Envelope struct {
	Salt      ByteArray      `json:"salt"`
	IV        ByteArray      `json:"iv"`
	Encrypted ByteArray      `json:"encrypted"` // AES-256-GCM ciphertext with embedded auth tag
	Metadata  model.Metadata `json:"metadata"`
	Version   string         `json:"version"`
	Timestamp int64          `json:"timestamp"` // ms epoch
}

// Serialize marshals the envelope to its JSON wire form.
func (e *Envelope) Serialize() ([]byte, error) {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}
	return data, nil
}

// ParseEnvelope deserializes and validates an envelope record.
func ParseEnvelope(data []byte) (*Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("failed to unmarshal envelope: %w", err)
	}

	if len(e.Salt) != saltLen {
		return nil, fmt.Errorf("%w: bad salt length %d", model.ErrInvalidInput, len(e.Salt))
	}
	if len(e.IV) != nonceLen {
		return nil, fmt.Errorf("%w: bad iv length %d", model.ErrInvalidInput, len(e.IV))
	}
	if len(e.Encrypted) == 0 {
		return nil, fmt.Errorf("%w: empty ciphertext", model.ErrInvalidInput)
	}
	if _, ok := versionKDFIterations[e.Version]; !ok {
		return nil, fmt.Errorf("%w: unsupported envelope version %q", model.ErrInvalidInput, e.Version)
	}

	return &e, nil
}
