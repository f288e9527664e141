package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kushdevteam/bunproj-sub004/internal/analytics"
)

// FileStore persists dashboard preferences as YAML.
type FileStore struct {
	Path string
}

// NewFileStore returns a store writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the preferences file. A missing file yields empty preferences.
func (s *FileStore) Load(ctx context.Context) (analytics.Preferences, error) {
	var prefs analytics.Preferences

	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return prefs, nil
	}
	if err != nil {
		return prefs, fmt.Errorf("read preferences: %w", err)
	}
	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return analytics.Preferences{}, fmt.Errorf("parse preferences %s: %w", s.Path, err)
	}
	return prefs, nil
}

// Save writes the preferences atomically.
func (s *FileStore) Save(ctx context.Context, prefs analytics.Preferences) error {
	data, err := yaml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}

	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("replace preferences: %w", err)
	}
	return nil
}
