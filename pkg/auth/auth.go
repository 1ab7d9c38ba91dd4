package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidKey = errors.New("invalid API key")
	ErrNoKeys     = errors.New("no API keys configured")
)

// Keyring holds the bcrypt hashes of the API keys accepted by the server.
// Plain keys are never stored.
type Keyring struct {
	hashes [][]byte
	mu     sync.RWMutex
}

// NewKeyring creates an empty keyring
func NewKeyring() *Keyring {
	return &Keyring{}
}

// Add hashes key and adds it to the keyring
func (k *Keyring) Add(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	hash, err := HashKey(key)
	if err != nil {
		return err
	}
	return k.AddHash(hash)
}

// AddHash adds an already hashed key, as printed by HashKey
func (k *Keyring) AddHash(hash string) error {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return fmt.Errorf("invalid key hash: %w", err)
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	k.hashes = append(k.hashes, []byte(hash))
	return nil
}

// Len returns the number of accepted keys
func (k *Keyring) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.hashes)
}

// Validate checks key against every hash in the keyring
func (k *Keyring) Validate(key string) error {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if len(k.hashes) == 0 {
		return ErrNoKeys
	}
	for _, hash := range k.hashes {
		if bcrypt.CompareHashAndPassword(hash, []byte(key)) == nil {
			return nil
		}
	}
	return ErrInvalidKey
}

// GenerateKey generates a new random API key
func GenerateKey() (string, error) {
	keyBytes := make([]byte, 32)
	if _, err := rand.Read(keyBytes); err != nil {
		return "", fmt.Errorf("failed to generate API key: %w", err)
	}
	return base64.URLEncoding.EncodeToString(keyBytes), nil
}

// HashKey returns the bcrypt hash of key for use in configuration
func HashKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash API key: %w", err)
	}
	return string(hash), nil
}
