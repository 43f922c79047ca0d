package store

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

// ErrNoSlot is returned when a named slot has never been written.
var ErrNoSlot = errors.New("secure slot not found")

// SecretStore keeps named secure-storage slots as files under a directory.
// Sealed slots are encrypted at rest with a passphrase-derived key; plain
// slots hold non-secret material (the public key, the identifier) with
// restrictive permissions only.
type SecretStore struct {
	dir string
	mu  sync.Mutex
}

// NewSecretStore returns a SecretStore rooted at dir.
func NewSecretStore(dir string) *SecretStore { return &SecretStore{dir: dir} }

type sealedSlot struct {
	Salt  []byte `json:"salt"`
	Nonce []byte `json:"nonce"`
	CT    []byte `json:"ct"`
}

// PutSealed encrypts value with the passphrase and writes it to slot.
func (s *SecretStore) PutSealed(slot, passphrase string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return err
	}
	key, err := deriveKey(passphrase, salt)
	if err != nil {
		return err
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return err
	}
	env := sealedSlot{
		Salt:  salt,
		Nonce: nonce,
		CT:    aead.Seal(nil, nonce, value, salt),
	}
	blob, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return s.write(slot, blob)
}

// GetSealed reads and decrypts slot. A missing slot is ErrNoSlot; material
// that exists but does not decrypt or parse is a hard error.
func (s *SecretStore) GetSealed(slot, passphrase string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := s.read(slot)
	if err != nil {
		return nil, err
	}
	var env sealedSlot
	if err := json.Unmarshal(blob, &env); err != nil {
		return nil, fmt.Errorf("slot %s: corrupt envelope: %w", slot, err)
	}
	key, err := deriveKey(passphrase, env.Salt)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	value, err := aead.Open(nil, env.Nonce, env.CT, env.Salt)
	if err != nil {
		return nil, fmt.Errorf("slot %s: open: %w", slot, err)
	}
	return value, nil
}

// Put writes a plain slot.
func (s *SecretStore) Put(slot string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(slot, value)
}

// Get reads a plain slot. A missing slot is ErrNoSlot.
func (s *SecretStore) Get(slot string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(slot)
}

func (s *SecretStore) write(slot string, blob []byte) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	path := filepath.Join(s.dir, slot)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s *SecretStore) read(slot string) ([]byte, error) {
	blob, err := os.ReadFile(filepath.Join(s.dir, slot))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSlot
	}
	return blob, err
}

func deriveKey(passphrase string, salt []byte) ([]byte, error) {
	return scrypt.Key([]byte(passphrase), salt, 1<<15, 8, 1, chacha20poly1305.KeySize)
}
