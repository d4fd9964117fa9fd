package secrets

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

var ErrNoAPIKey = errors.New("no API key stored")

type file struct {
	APIKey string `yaml:"api-key"`
}

// Store keeps the provider API key in a private YAML file.
type Store struct {
	fs   afero.Fs
	path string
}

func NewStore(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

// DefaultPath is credentials.yaml in the user's notegpt config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "could not find user config directory")
	}
	return filepath.Join(dir, "notegpt", "credentials.yaml"), nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Load() (string, error) {
	b, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoAPIKey
		}
		return "", errors.Wrapf(err, "could not read %s", s.path)
	}

	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return "", errors.Wrapf(err, "could not parse %s", s.path)
	}
	if strings.TrimSpace(f.APIKey) == "" {
		return "", ErrNoAPIKey
	}
	return f.APIKey, nil
}

func (s *Store) Set(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("API key must not be empty")
	}

	b, err := yaml.Marshal(file{APIKey: key})
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return errors.Wrapf(err, "could not create %s", filepath.Dir(s.path))
	}
	if err := afero.WriteFile(s.fs, s.path, b, 0600); err != nil {
		return errors.Wrapf(err, "could not write %s", s.path)
	}
	return nil
}

// Clear removes the stored key. Clearing an empty store is not an error.
func (s *Store) Clear() error {
	err := s.fs.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "could not remove %s", s.path)
	}
	return nil
}
