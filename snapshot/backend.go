package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound means no document has been written yet
var ErrNotFound = errors.New("snapshot: document not found")

// Backend stores the encoded document as one unit
type Backend interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Close() error
}

// DefaultPath returns ~/.config/go-vjgrid/vj_presets.json
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-vjgrid", "vj_presets.json"), nil
}

// FileBackend keeps the document in a single JSON file
type FileBackend struct {
	path string
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

func (f *FileBackend) Path() string { return f.path }

func (f *FileBackend) Read(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Write replaces the file atomically: temp file in the same dir, then rename
func (f *FileBackend) Write(ctx context.Context, data []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".vj_presets-*.json")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func (f *FileBackend) Close() error { return nil }

// BackendConfig selects and configures a backend
type BackendConfig struct {
	Kind          string // file, sqlite, redis
	Path          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Key           string
}

// Open builds the configured backend. Empty kind means file.
func Open(cfg BackendConfig) (Backend, error) {
	if cfg.Key == "" {
		cfg.Key = "vj_presets"
	}

	switch cfg.Kind {
	case "", "file":
		path := cfg.Path
		if path == "" {
			p, err := DefaultPath()
			if err != nil {
				return nil, err
			}
			path = p
		}
		return NewFileBackend(path), nil
	case "sqlite":
		path := cfg.Path
		if path == "" {
			p, err := DefaultPath()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(filepath.Dir(p), "vj_presets.db")
		}
		return NewSQLiteBackend(path, cfg.Key)
	case "redis":
		return NewRedisBackend(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.Key), nil
	}
	return nil, fmt.Errorf("unknown snapshot backend %q", cfg.Kind)
}
