// Package credstore persists the bearer credential across runs: one named
// slot on disk, absent when the user is signed out.
package credstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const tokenFile = "token"

// Store is a file-backed credential slot, e.g. ~/.teller/token. An optional
// override token (from the environment) takes precedence on reads but is
// never written or cleared.
type Store struct {
	dir      string
	override string
}

// New creates a store rooted at dir. override, if non-empty, is returned by
// Token instead of the file contents.
func New(dir, override string) *Store {
	return &Store{dir: dir, override: override}
}

// Path returns the location of the token slot.
func (s *Store) Path() string {
	return filepath.Join(s.dir, tokenFile)
}

// Token returns the current credential, or "" when none is stored. A missing
// slot is not an error; an unreadable one is.
func (s *Store) Token() (string, error) {
	if s.override != "" {
		return s.override, nil
	}
	data, err := os.ReadFile(s.Path())
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("credstore: read token: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Set stores the credential durably, overwriting any previous value.
func (s *Store) Set(token string) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("credstore: create dir: %w", err)
	}
	if err := os.WriteFile(s.Path(), []byte(token), 0600); err != nil {
		return fmt.Errorf("credstore: write token: %w", err)
	}
	return nil
}

// Clear removes the credential. Clearing an already-empty slot succeeds.
func (s *Store) Clear() error {
	err := os.Remove(s.Path())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("credstore: remove token: %w", err)
	}
	return nil
}
