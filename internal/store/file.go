package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/spotr/internal/auth"
	"github.com/desertthunder/spotr/internal/shared"
)

// FileStore keeps one JSON token document per profile in a directory.
// The directory is created on the first save.
type FileStore struct {
	dir string
}

// NewFileStore builds a store rooted at dir. A leading "~/" expands to the
// user's home directory.
func NewFileStore(dir string) (*FileStore, error) {
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Save writes the token under the profile name. The file is 0600; tokens
// are credentials.
func (s *FileStore) Save(name string, token *auth.Token) error {
	if err := validateName(name); err != nil {
		return err
	}
	return token.WriteJSONFile(s.path(name))
}

// Load reads the token saved under the profile name.
func (s *FileStore) Load(name string) (*auth.Token, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	token, err := auth.TokenFromJSONFile(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: profile %q", shared.ErrTokenNotFound, name)
		}
		return nil, err
	}
	return token, nil
}

// Delete removes the saved token. Deleting a missing profile is not an
// error.
func (s *FileStore) Delete(name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	if err := os.Remove(s.path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

// validateName keeps profile names from escaping the store directory.
func validateName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return fmt.Errorf("%w: invalid profile name %q", shared.ErrInvalidInput, name)
	}
	return nil
}
