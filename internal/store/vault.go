package store

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"

	"github.com/inovacc/jbconsole/internal/encoding"
)

const (
	// OpenPrefix marks values stored in plain text (no master key)
	OpenPrefix = "OPEN:"

	// EncPrefix marks sealed values
	EncPrefix = "ENC:"

	masterKeySize = 32
	hkdfInfo      = "jbconsole-local-storage"
)

var (
	// ErrDecryptionFailed is returned when a sealed value cannot be opened
	ErrDecryptionFailed = errors.New("decryption failed: invalid ciphertext or key")

	// ErrEncryptionFailed is returned when sealing fails
	ErrEncryptionFailed = errors.New("encryption failed")
)

// Vault seals secret values before handing them to the underlying Store.
// A nil master key stores values in plain text with the OPEN: prefix.
type Vault struct {
	Store
	masterKey []byte
}

// NewVault wraps s. masterKey may be nil.
func NewVault(s Store, masterKey []byte) *Vault {
	return &Vault{Store: s, masterKey: masterKey}
}

// LoadOrCreateMasterKey reads the master key file, creating a random one
// with 0600 permissions when it does not exist.
func LoadOrCreateMasterKey(path string) ([]byte, error) {
	data, err := encoding.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if len(data) == masterKeySize {
		return data, nil
	}

	if data != nil {
		return nil, fmt.Errorf("master key %s: expected %d bytes, got %d", path, masterKeySize, len(data))
	}

	key := make([]byte, masterKeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("generating master key: %w", err)
	}

	if err := encoding.WriteFileAtomic(path, key, 0600); err != nil {
		return nil, err
	}

	return key, nil
}

// SetSecret seals value and stores it under key.
func (v *Vault) SetSecret(key, value string) error {
	sealed, err := v.seal(key, value)
	if err != nil {
		return err
	}

	return v.Set(key, sealed)
}

// GetSecret returns the opened value stored under key.
func (v *Vault) GetSecret(key string) (string, error) {
	raw, err := v.Get(key)
	if err != nil {
		return "", err
	}

	return v.open(key, raw)
}

// SetSecretJSON seals the JSON encoding of value.
func SetSecretJSON[T any](v *Vault, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}

	return v.SetSecret(key, string(data))
}

// GetSecretJSON opens and decodes a value written by SetSecretJSON.
// It returns nil, nil when the key is absent.
func GetSecretJSON[T any](v *Vault, key string) (*T, error) {
	raw, err := v.GetSecret(key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", key, err)
	}

	return &out, nil
}

// deriveKey creates a per-entry key from the master key.
func (v *Vault) deriveKey(storageKey string) ([]byte, error) {
	r := hkdf.New(sha256.New, v.masterKey, []byte(storageKey), []byte(hkdfInfo))

	key := make([]byte, masterKeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("HKDF key derivation failed: %w", err)
	}

	return key, nil
}

func (v *Vault) gcm(storageKey string) (cipher.AEAD, error) {
	key, err := v.deriveKey(storageKey)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	return cipher.NewGCM(block)
}

func (v *Vault) seal(storageKey, value string) (string, error) {
	if v.masterKey == nil {
		return OpenPrefix + value, nil
	}

	aead, err := v.gcm(storageKey)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncryptionFailed, err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncryptionFailed, err)
	}

	// storage key is bound as additional data
	ciphertext := aead.Seal(nonce, nonce, []byte(value), []byte(storageKey))

	return EncPrefix + hex.EncodeToString(ciphertext), nil
}

func (v *Vault) open(storageKey, raw string) (string, error) {
	if after, ok := strings.CutPrefix(raw, OpenPrefix); ok {
		return after, nil
	}

	after, ok := strings.CutPrefix(raw, EncPrefix)
	if !ok {
		// written by something other than the vault
		return raw, nil
	}

	if v.masterKey == nil {
		return "", ErrDecryptionFailed
	}

	data, err := hex.DecodeString(after)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	aead, err := v.gcm(storageKey)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}

	nonceSize := aead.NonceSize()
	if len(data) < nonceSize {
		return "", ErrDecryptionFailed
	}

	plaintext, err := aead.Open(nil, data[:nonceSize], data[nonceSize:], []byte(storageKey))
	if err != nil {
		return "", ErrDecryptionFailed
	}

	return string(plaintext), nil
}
