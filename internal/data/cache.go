package data

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CacheEntry is one stored result.
type CacheEntry[T any] struct {
	ID          string
	Fingerprint string
	Value       T
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// ResultCache keeps finished results in memory for a limited time. It is
// the only state the API keeps between requests.
type ResultCache[T any] struct {
	mu    sync.RWMutex
	store map[string]*CacheEntry[T]
	byFP  map[string]string
	ttl   time.Duration
	now   func() time.Time

	stop chan struct{}
	once sync.Once
}

// NewResultCache returns a cache whose entries live for ttl. Call Close to
// stop the background cleanup.
func NewResultCache[T any](ttl time.Duration) *ResultCache[T] {
	return newResultCache[T](ttl, time.Now)
}

func newResultCache[T any](ttl time.Duration, now func() time.Time) *ResultCache[T] {
	c := &ResultCache[T]{
		store: map[string]*CacheEntry[T]{},
		byFP:  map[string]string{},
		ttl:   ttl,
		now:   now,
		stop:  make(chan struct{}),
	}
	go c.cleanup()
	return c
}

// Put stores v under a new id. fingerprint may be empty.
func (c *ResultCache[T]) Put(fingerprint string, v T) *CacheEntry[T] {
	now := c.now()
	e := &CacheEntry[T]{
		ID:          uuid.NewString(),
		Fingerprint: fingerprint,
		Value:       v,
		CreatedAt:   now,
		ExpiresAt:   now.Add(c.ttl),
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[e.ID] = e
	if fingerprint != "" {
		c.byFP[fingerprint] = e.ID
	}
	return e
}

// Get retrieves an entry if present and not expired.
func (c *ResultCache[T]) Get(id string) (*CacheEntry[T], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.store[id]
	if !ok || c.now().After(e.ExpiresAt) {
		return nil, false
	}
	return e, true
}

// Find returns the live entry stored with fingerprint.
func (c *ResultCache[T]) Find(fingerprint string) (*CacheEntry[T], bool) {
	c.mu.RLock()
	id, ok := c.byFP[fingerprint]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return c.Get(id)
}

func (c *ResultCache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Clear removes all entries.
func (c *ResultCache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = map[string]*CacheEntry[T]{}
	c.byFP = map[string]string{}
}

func (c *ResultCache[T]) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *ResultCache[T]) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for id, e := range c.store {
		if now.After(e.ExpiresAt) {
			delete(c.store, id)
			if c.byFP[e.Fingerprint] == id {
				delete(c.byFP, e.Fingerprint)
			}
		}
	}
}

// cleanup periodically removes expired entries.
func (c *ResultCache[T]) cleanup() {
	interval := c.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.evictExpired()
		case <-c.stop:
			return
		}
	}
}

// Fingerprint hashes the JSON form of v to keep keys reasonably sized.
func Fingerprint(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	hash := sha256.Sum256(raw)
	return hex.EncodeToString(hash[:]), nil
}
