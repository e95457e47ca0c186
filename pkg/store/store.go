package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

var (
	// ErrNotFound is returned when no session exists for a username
	ErrNotFound = errors.New("session not found")

	// ErrInvalidRecord is returned when a record is missing required fields
	ErrInvalidRecord = errors.New("invalid session record")
)

// Record holds a persisted session for one account. Data is the opaque
// serialized session blob produced by session.Session.Serialize.
type Record struct {
	Username     string    `json:"username"`
	InstanceID   string    `json:"instance_id"`
	PrimaryKey   string    `json:"primary_key,omitempty"`
	Data         string    `json:"data"`
	LastModified time.Time `json:"last_modified"`
}

// SessionStore is the interface for persisting and restoring session state
type SessionStore interface {
	// Store saves the session record for an account
	Store(record *Record) error

	// Retrieve gets the session record for a specific username
	Retrieve(username string) (*Record, error)

	// List returns all stored session records
	List() ([]*Record, error)

	// Delete removes the session record for a specific username
	Delete(username string) error

	// Exists checks if a session record exists for a username
	Exists(username string) bool
}

// Manager handles session storage with fallback mechanisms
type Manager struct {
	stores []SessionStore
}

// NewManager creates a new session manager with appropriate storage backends
func NewManager() (*Manager, error) {
	var stores []SessionStore

	// Try keyring first (system keychain)
	keyringStore, err := NewKeyringStore()
	if err == nil {
		stores = append(stores, keyringStore)
	}

	// Always add encrypted file store as fallback
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	encryptedStore, err := NewEncryptedFileStore(filepath.Join(configDir, "sessions.enc"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, encryptedStore)

	return &Manager{stores: stores}, nil
}

// NewManagerWithStores creates a manager backed by explicit stores, tried in order
func NewManagerWithStores(stores ...SessionStore) *Manager {
	return &Manager{stores: stores}
}

// Store saves the record to the first store that accepts it
func (m *Manager) Store(record *Record) error {
	if record == nil || record.Username == "" {
		return ErrInvalidRecord
	}

	record.LastModified = time.Now()

	var lastErr error
	for _, s := range m.stores {
		if err := s.Store(record); err != nil {
			lastErr = err
			continue
		}
		return nil
	}

	if lastErr != nil {
		return fmt.Errorf("all stores failed: %w", lastErr)
	}
	return errors.New("no stores available")
}

// Retrieve returns the record from the first store that has it
func (m *Manager) Retrieve(username string) (*Record, error) {
	for _, s := range m.stores {
		record, err := s.Retrieve(username)
		if err == nil {
			return record, nil
		}
	}
	return nil, ErrNotFound
}

// List merges records from all stores, first store wins on duplicates
func (m *Manager) List() ([]*Record, error) {
	seen := make(map[string]bool)
	var records []*Record

	for _, s := range m.stores {
		found, err := s.List()
		if err != nil {
			continue
		}
		for _, record := range found {
			if seen[record.Username] {
				continue
			}
			seen[record.Username] = true
			records = append(records, record)
		}
	}

	return records, nil
}

// Delete removes the record from every store that has it
func (m *Manager) Delete(username string) error {
	deleted := false
	for _, s := range m.stores {
		if err := s.Delete(username); err == nil {
			deleted = true
		}
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// Exists checks if any store has a record for the username
func (m *Manager) Exists(username string) bool {
	for _, s := range m.stores {
		if s.Exists(username) {
			return true
		}
	}
	return false
}

// getConfigDir returns the configuration directory path
func getConfigDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		baseDir = os.Getenv("APPDATA")
		if baseDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(home, "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		baseDir = filepath.Join(home, "Library", "Application Support")
	default:
		baseDir = os.Getenv("XDG_CONFIG_HOME")
		if baseDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(home, ".config")
		}
	}

	configDir := filepath.Join(baseDir, "igkit")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}
