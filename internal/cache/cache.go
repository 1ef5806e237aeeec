// Package cache keeps small API listings, such as an account's domain names,
// so "did you mean" suggestions cost no request.
//
// Entries live in files under the user cache directory, or in Redis when a
// redis:// cache URL is configured so several machines share them. Set
// DNSIMPLE_NO_CACHE=1 to disable reads and writes.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const DefaultTTL = 5 * time.Minute

// ErrMiss is returned by Backend.Get for absent or expired keys.
var ErrMiss = errors.New("cache miss")

// Backend stores opaque values with an expiry.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Clear removes every entry written by this program and returns how many.
	Clear(ctx context.Context) (int, error)
	// Location is the directory or redis address, for display.
	Location() string
	Close() error
}

// Open returns the backend for rawURL: the default directory when empty, a
// directory for a path or file:// URL, and Redis for redis:// or rediss://.
func Open(rawURL string) (Backend, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		return NewFileBackend(dir), nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid cache URL: %w", err)
	}
	switch u.Scheme {
	case "":
		return NewFileBackend(rawURL), nil
	case "file":
		return NewFileBackend(u.Path), nil
	case "redis", "rediss":
		return NewRedisBackend(rawURL)
	default:
		return nil, fmt.Errorf("unsupported cache URL scheme %q (use a path, file://, redis:// or rediss://)", u.Scheme)
	}
}

var userCacheDir = os.UserCacheDir

// DefaultDir returns $XDG_CACHE_HOME/dnsimple-cli or the platform equivalent.
func DefaultDir() (string, error) {
	base, err := userCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "dnsimple-cli"), nil
}

// Disabled reports whether DNSIMPLE_NO_CACHE is set.
func Disabled() bool {
	return os.Getenv("DNSIMPLE_NO_CACHE") != ""
}

// Scope names one cached listing. Production and sandbox never share
// entries because the API base URL is part of the key.
type Scope struct {
	Resource string
	BaseURL  string
	Account  string
}

// Key is the backend key: the resource followed by a digest of the rest.
func (s Scope) Key() string {
	sum := sha256.Sum256([]byte(strings.TrimSuffix(s.BaseURL, "/") + "\n" + s.Account))
	resource := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' {
			return r
		}
		return '-'
	}, strings.ToLower(s.Resource))
	if resource == "" {
		resource = "cache"
	}
	return resource + "-" + hex.EncodeToString(sum[:6])
}

// Cache is a typed view of one scope in a backend.
type Cache[T any] struct {
	backend Backend
	key     string
	ttl     time.Duration
}

func New[T any](backend Backend, scope Scope, ttl time.Duration) *Cache[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache[T]{backend: backend, key: scope.Key(), ttl: ttl}
}

// Load returns the cached value. Any failure counts as a miss.
func (c *Cache[T]) Load(ctx context.Context) (T, bool) {
	var v T
	if Disabled() {
		return v, false
	}
	data, err := c.backend.Get(ctx, c.key)
	if err != nil {
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false
	}
	return v, true
}

// Store saves v for the cache's TTL.
func (c *Cache[T]) Store(ctx context.Context, v T) error {
	if Disabled() {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	return c.backend.Set(ctx, c.key, data, c.ttl)
}

// Invalidate drops the cached value.
func (c *Cache[T]) Invalidate(ctx context.Context) error {
	return c.backend.Delete(ctx, c.key)
}
