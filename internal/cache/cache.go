// Package cache provides a small in-memory lookup cache so repeated words in
// a word list hit the reference dictionary only once.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache stores candidate definition lists keyed by lookup.
type Cache interface {
	Get(key string) ([]string, bool)
	Set(key string, defs []string, ttl time.Duration)
}

// Key builds a stable cache key from lookup parts.
func Key(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return "anki-extractor:v1:" + hex.EncodeToString(hash[:])
}

// Memory is a TTL-bounded in-memory cache.
type Memory struct {
	c *gocache.Cache
}

// NewMemory creates a memory cache with the given default TTL.
func NewMemory(defaultTTL time.Duration) *Memory {
	return &Memory{c: gocache.New(defaultTTL, 2*defaultTTL)}
}

// Get retrieves a cached definition list.
func (m *Memory) Get(key string) ([]string, bool) {
	if v, ok := m.c.Get(key); ok {
		return v.([]string), true
	}
	return nil, false
}

// Set stores a definition list. A zero ttl uses the cache default.
func (m *Memory) Set(key string, defs []string, ttl time.Duration) {
	m.c.Set(key, defs, ttl)
}
