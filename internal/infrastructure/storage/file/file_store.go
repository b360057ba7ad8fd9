// Package file provides the default TokenStore: a single JSON document on
// disk holding the two well-known token entries, written atomically and
// optionally sealed at rest.
package file

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/nacl/secretbox"

	"github.com/fittrack/fittrack-client/internal/core/domain"
)

const nonceSize = 24

// Store persists the token pair at a fixed path. When a passphrase is
// configured the document is sealed with NaCl secretbox; the tokens are
// bearer credentials and should not sit on disk in the clear.
type Store struct {
	path string
	key  *[32]byte
}

// New creates a Store writing to path. An empty passphrase disables sealing.
func New(path, passphrase string) *Store {
	s := &Store{path: path}
	if passphrase != "" {
		key := sha256.Sum256([]byte(passphrase))
		s.key = &key
	}
	return s
}

type document struct {
	Access  string `json:"access_token"`
	Refresh string `json:"refresh_token"`
}

// Save persists both tokens, overwriting any prior values.
func (s *Store) Save(_ context.Context, pair domain.TokenPair) error {
	data, err := json.Marshal(document{Access: pair.Access, Refresh: pair.Refresh})
	if err != nil {
		return err
	}
	if s.key != nil {
		if data, err = s.seal(data); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
		}
	}
	if err := atomicWrite(s.path, data, 0o600); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// Load returns the stored access token. A missing file means nothing is
// stored; an unreadable or undecipherable file is reported as absence rather
// than a guessed value.
func (s *Store) Load(_ context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	if s.key != nil {
		if data, err = s.open(data); err != nil {
			return "", nil
		}
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", nil
	}
	return doc.Access, nil
}

// Clear removes the token document. Idempotent.
func (s *Store) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *Store) seal(plaintext []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, err
	}
	return secretbox.Seal(nonce[:], plaintext, &nonce, s.key), nil
}

func (s *Store) open(sealed []byte) ([]byte, error) {
	if len(sealed) < nonceSize {
		return nil, errors.New("sealed document too short")
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	plaintext, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, s.key)
	if !ok {
		return nil, errors.New("cannot open sealed document")
	}
	return plaintext, nil
}

// atomicWrite writes data via a temp file and rename so a crash mid-write
// never leaves a truncated token document behind.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".tokens-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("fsync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("chmod temp: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
