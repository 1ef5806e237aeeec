package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

const fileSuffix = ".cache.json"

type fileEntry struct {
	ExpiresAt time.Time       `json:"expires_at"`
	Value     json.RawMessage `json:"value"`
}

// FileBackend keeps one JSON file per key in a directory.
type FileBackend struct {
	dir string
	now func() time.Time
}

func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir, now: time.Now}
}

func (b *FileBackend) path(key string) string {
	return filepath.Join(b.dir, key+fileSuffix)
}

func (b *FileBackend) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(b.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	var e fileEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, ErrMiss
	}
	if !b.now().Before(e.ExpiresAt) {
		return nil, ErrMiss
	}
	return e.Value, nil
}

// Set writes through a temporary file so readers never see a partial entry.
func (b *FileBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	data, err := json.Marshal(fileEntry{ExpiresAt: b.now().Add(ttl), Value: value})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(b.dir, 0o700); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	tmp, err := os.CreateTemp(b.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return os.Rename(tmp.Name(), b.path(key))
}

func (b *FileBackend) Delete(_ context.Context, key string) error {
	if err := os.Remove(b.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Clear removes the *.cache.json files in the directory and nothing else.
func (b *FileBackend) Clear(_ context.Context) (int, error) {
	matches, err := filepath.Glob(filepath.Join(b.dir, "*"+fileSuffix))
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func (b *FileBackend) Location() string { return b.dir }

func (b *FileBackend) Close() error { return nil }
