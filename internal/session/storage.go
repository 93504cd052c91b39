package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/zalando/go-keyring"
)

// TokenKey is the fixed key the token is persisted under
const TokenKey = "token"

const keyringService = "campsite-cli"

// TokenStorage persists the raw token between runs. Load returns "" with a
// nil error when nothing is stored.
type TokenStorage interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// KeyringStorage keeps the token in the OS keychain/credential manager
type KeyringStorage struct{}

func (KeyringStorage) Load() (string, error) {
	token, err := keyring.Get(keyringService, TokenKey)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read keyring: %w", err)
	}
	return token, nil
}

func (KeyringStorage) Save(token string) error {
	if err := keyring.Set(keyringService, TokenKey, token); err != nil {
		return fmt.Errorf("failed to write keyring: %w", err)
	}
	return nil
}

func (KeyringStorage) Clear() error {
	if err := keyring.Delete(keyringService, TokenKey); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}
	return nil
}

// FileStorage keeps the token in a JSON file, for hosts without a keychain
type FileStorage struct {
	Path string
}

// DefaultFilePath returns ~/.config/campsite/session.json
func DefaultFilePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "campsite", "session.json"), nil
}

func (f FileStorage) Load() (string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read session file: %w", err)
	}

	var stored map[string]string
	if err := json.Unmarshal(data, &stored); err != nil {
		return "", fmt.Errorf("failed to parse session file: %w", err)
	}
	return stored[TokenKey], nil
}

func (f FileStorage) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(map[string]string{TokenKey: token}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session file: %w", err)
	}

	if err := os.WriteFile(f.Path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

func (f FileStorage) Clear() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// MemoryStorage holds the token in process memory
type MemoryStorage struct {
	mu    sync.Mutex
	token string
}

// NewMemoryStorage returns storage pre-seeded with token ("" for none)
func NewMemoryStorage(token string) *MemoryStorage {
	return &MemoryStorage{token: token}
}

func (m *MemoryStorage) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryStorage) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryStorage) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
