package service

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// tokenKey is the fixed storage key the access token lives under, mirroring
// the browser dashboard's localStorage entry.
const tokenKey = "token"

// TokenStore persists the bearer token across restarts. The token file is
// the only durable state the dashboard keeps; everything else is re-fetched.
type TokenStore struct {
	mu   sync.Mutex
	path string
}

func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Load returns the stored token, empty when none is stored.
func (s *TokenStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	var entries map[string]string
	if err := json.Unmarshal(raw, &entries); err != nil {
		return "", err
	}
	return entries[tokenKey], nil
}

func (s *TokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	raw, err := json.Marshal(map[string]string{tokenKey: token})
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}

func (s *TokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
