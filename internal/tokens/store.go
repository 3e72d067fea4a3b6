package tokens

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/desertthunder/djx/internal/shared"
)

// FileName is the fixed name of the token file inside the config directory.
const FileName = "tokens.json"

// Store persists a [Storage] document as a single JSON file.
//
// The whole document is read and rewritten on every operation, so the last
// writer wins. There is no locking and no crash-safety guarantee beyond the
// filesystem's own write semantics.
type Store struct {
	path string
}

// NewStore creates a Store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath resolves the conventional token file location for this machine.
func DefaultPath(env shared.Environ) (string, error) {
	dir, err := env.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Path returns the token file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads and parses the token file. A missing file is not an error and
// yields an empty [Storage].
func (s *Store) Load() (Storage, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Storage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var storage Storage
	if err := json.Unmarshal(data, &storage); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}

	if storage == nil {
		storage = Storage{}
	}

	return storage, nil
}

// Save writes the full document, creating the parent directory as needed.
// Records hold live credentials, so the file is written 0600.
func (s *Store) Save(storage Storage) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.MarshalIndent(storage, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode tokens: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}
