/*
Package keystore provides the secure on-device storage used to persist the
session between process restarts.

It is a small file-backed key-value store standing in for the platform secure
storage of the original mobile shell. Values are sealed with AES-256-GCM under
a key derived from a passphrase with scrypt; the file is rewritten atomically
on every mutation. A missing file is treated as an empty store.
*/
package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/scrypt"
)

const (
	saltLength = 16
	keyLength  = 32
)

// envelope is the on-disk representation of the store: the scrypt salt, the
// GCM nonce, and the sealed JSON map of key-value pairs.
type envelope struct {
	Salt  []byte `json:"salt"`
	Nonce []byte `json:"nonce"`
	Data  []byte `json:"data"`
}

// Store is a file-backed encrypted key-value store.
type Store struct {
	mu         sync.Mutex
	path       string
	passphrase string
	values     map[string]string
	salt       []byte
}

// Open loads (or initializes) the keystore at path, unsealing it with the
// given passphrase. A missing file yields an empty store; a present file that
// cannot be unsealed is an error so callers can decide whether to discard it.
func Open(path string, passphrase string) (*Store, error) {
	s := &Store{
		path:       path,
		passphrase: passphrase,
		values:     make(map[string]string),
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read keystore file: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("keystore file is corrupted: %w", err)
	}

	gcm, err := s.sealer(env.Salt)
	if err != nil {
		return nil, err
	}

	plaintext, err := gcm.Open(nil, env.Nonce, env.Data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to unseal keystore: %w", err)
	}

	if err := json.Unmarshal(plaintext, &s.values); err != nil {
		return nil, fmt.Errorf("keystore contents are corrupted: %w", err)
	}

	s.salt = env.Salt
	return s, nil
}

// Get returns the value stored under key and whether it was present.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.values[key]
	return value, ok
}

// Set stores value under key and persists the store.
func (s *Store) Set(key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return s.persist()
}

// Delete removes key from the store and persists the change. Deleting an
// absent key is a no-op.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[key]; !ok {
		return nil
	}

	delete(s.values, key)
	return s.persist()
}

// sealer derives the AES-256-GCM AEAD for the given scrypt salt.
func (s *Store) sealer(salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key([]byte(s.passphrase), salt, 1<<15, 8, 1, keyLength)
	if err != nil {
		return nil, fmt.Errorf("failed to derive keystore key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize keystore cipher: %w", err)
	}

	return cipher.NewGCM(block)
}

// persist seals the current values and rewrites the backing file atomically.
// Callers must hold s.mu.
func (s *Store) persist() error {
	if s.salt == nil {
		s.salt = make([]byte, saltLength)
		if _, err := rand.Read(s.salt); err != nil {
			return fmt.Errorf("failed to generate keystore salt: %w", err)
		}
	}

	gcm, err := s.sealer(s.salt)
	if err != nil {
		return err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("failed to generate keystore nonce: %w", err)
	}

	plaintext, err := json.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("failed to encode keystore contents: %w", err)
	}

	env := envelope{
		Salt:  s.salt,
		Nonce: nonce,
		Data:  gcm.Seal(nil, nonce, plaintext, nil),
	}

	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to encode keystore envelope: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create keystore directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write keystore file: %w", err)
	}

	return os.Rename(tmp, s.path)
}
