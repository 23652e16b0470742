package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
	"time"

	"github.com/alephwallet/walletcore/internal/model"
)

// Store is the sole boundary between plaintext seed material and persisted
// storage. Everything it writes is encrypted; everything else in the envelope
// is non-secret metadata.
type Store struct {
	storage Storage
}

// NewStore creates a Store over the given storage backend.
func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

// EncryptAndPersist encrypts the seed phrase under the password and writes it
// as the single active envelope, overwriting any prior one wholesale. The
// caller is responsible for clearing any cached session secret, since the
// wallet identity changed.
//
// seedPhrase and password must be zeroed by the caller after use.
func (s *Store) EncryptAndPersist(seedPhrase, password []byte, meta model.Metadata) error {
	if len(seedPhrase) == 0 {
		return fmt.Errorf("%w: empty seed phrase", model.ErrInvalidInput)
	}
	if len(password) == 0 {
		return fmt.Errorf("%w: empty password", model.ErrInvalidInput)
	}

	// Fresh salt and nonce for every envelope. The nonce must never be reused
	// under the same key; a fresh salt gives a fresh key every time.
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	key, err := DeriveKey(password, salt, EnvelopeVersion)
	if err != nil {
		return err
	}
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return fmt.Errorf("failed to create GCM: %w", err)
	}

	ciphertext := aesGCM.Seal(nil, nonce, seedPhrase, nil)

	env := &Envelope{
		Salt:      salt,
		IV:        nonce,
		Encrypted: ciphertext,
		Metadata:  meta,
		Version:   EnvelopeVersion,
		Timestamp: time.Now().UnixMilli(),
	}

	// Serialize fully in memory, then persist in one operation. The backend
	// write is atomic, so a decrypt never observes a partial envelope.
	data, err := env.Serialize()
	if err != nil {
		return err
	}

	if err := s.storage.Write(data); err != nil {
		return fmt.Errorf("failed to persist envelope: %w", err)
	}
	return nil
}

// Decrypt reads the active envelope, re-derives the key from the password and
// stored salt, and returns the plaintext seed phrase with the stored metadata.
// An authentication-tag mismatch means wrong password or corrupted data; GCM
// cannot tell which, so both surface as ErrIncorrectPassword.
//
// The returned seed must be zeroed by the caller after use. Decrypt does not
// populate the session cache; the caller decides.
func (s *Store) Decrypt(password []byte) ([]byte, model.Metadata, error) {
	env, err := s.readEnvelope()
	if err != nil {
		return nil, model.Metadata{}, err
	}

	key, err := DeriveKey(password, env.Salt, env.Version)
	if err != nil {
		return nil, model.Metadata{}, err
	}
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, model.Metadata{}, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, model.Metadata{}, fmt.Errorf("failed to create GCM: %w", err)
	}

	seedPhrase, err := aesGCM.Open(nil, env.IV, env.Encrypted, nil)
	if err != nil {
		// Never include the password or any plaintext in the error
		return nil, model.Metadata{}, model.ErrIncorrectPassword
	}

	return seedPhrase, env.Metadata, nil
}

// HasActiveWallet reports whether an envelope exists, without a password.
func (s *Store) HasActiveWallet() bool {
	return s.storage.Exists()
}

// Metadata returns the non-secret envelope metadata without a password, or
// ErrNoWallet if no envelope exists.
func (s *Store) Metadata() (*model.Metadata, error) {
	env, err := s.readEnvelope()
	if err != nil {
		return nil, err
	}
	meta := env.Metadata
	return &meta, nil
}

// Clear deletes the persisted envelope irreversibly. Callers must combine
// this with clearing the session cache.
func (s *Store) Clear() error {
	return s.storage.Delete()
}

func (s *Store) readEnvelope() (*Envelope, error) {
	data, err := s.storage.Read()
	if err != nil {
		if IsNotExist(err) {
			return nil, model.ErrNoWallet
		}
		return nil, err
	}
	return ParseEnvelope(data)
}
