// Package session holds the per-invocation resolution context and its cache.
package session

import (
	"sync"

	"github.com/samber/mo"
)

// Key names a resolved artifact.
type Key string

const (
	GuestToken     Key = "guest_token"
	Metadata       Key = "metadata"
	DynURL         Key = "dyn_url"
	MasterPlaylist Key = "master_playlist"
	PlaylistURL    Key = "playlist_url"
	Playlist       Key = "playlist"
	Filename       Key = "filename"
	UserID         Key = "user_id"
	Headers        Key = "headers"
)

// Cache is a write-once store. A key is never overwritten and absence only
// means "not resolved yet". There is no eviction; the cache dies with its session.
type Cache struct {
	mu      sync.RWMutex
	entries map[Key]any
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[Key]any)}
}

// Get returns the value stored under k, if any.
func (c *Cache) Get(k Key) mo.Option[any] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.entries[k]
	if !ok {
		return mo.None[any]()
	}
	return mo.Some(v)
}

// PutIfAbsent stores v under k unless k is already present and reports whether it wrote.
func (c *Cache) PutIfAbsent(k Key, v any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[k]; ok {
		return false
	}
	c.entries[k] = v
	return true
}

// Lookup returns the value under k when it holds a T.
func Lookup[T any](c *Cache, k Key) mo.Option[T] {
	v, ok := c.Get(k).Get()
	if !ok {
		return mo.None[T]()
	}
	t, ok := v.(T)
	if !ok {
		return mo.None[T]()
	}
	return mo.Some(t)
}

// Resolve returns the cached value under k or computes it. Errors are not
// cached. When a concurrent resolver wins the write, its value is returned
// and the locally computed one is discarded.
func Resolve[T any](c *Cache, k Key, compute func() (T, error)) (T, error) {
	if v, ok := Lookup[T](c, k).Get(); ok {
		return v, nil
	}

	v, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}

	if c.PutIfAbsent(k, v) {
		return v, nil
	}

	return Lookup[T](c, k).OrElse(v), nil
}
