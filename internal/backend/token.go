package backend

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenStore persists the bearer token in a file so a session survives
// process restarts. An empty path keeps the token in memory only.
type TokenStore struct {
	path string

	mu    sync.Mutex
	token string
}

func NewTokenStore(path string) *TokenStore {
	s := &TokenStore{path: path}
	if path != "" {
		if b, err := os.ReadFile(path); err == nil {
			s.token = strings.TrimSpace(string(b))
		}
	}
	return s
}

// Token returns the current token, or "" when not logged in.
func (s *TokenStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Save stores the token, writing it to the backing file when configured.
func (s *TokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating token dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	return nil
}

// Clear forgets the token and removes the backing file.
func (s *TokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing token file: %w", err)
	}
	return nil
}
