package perfdash

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// ExtractCache memoizes per-file text extraction so a multi-account batch
// whose accounts share statement directories does not extract the same PDF
// twice. It is an explicit handle passed to the extractor, never module
// state, and invalidation is an explicit call.
type ExtractCache struct {
	c *gocache.Cache
}

// NewExtractCache returns a cache whose entries expire after ttl.
func NewExtractCache(ttl time.Duration) *ExtractCache {
	return &ExtractCache{c: gocache.New(ttl, 2*ttl)}
}

// Get returns the cached text for key, if present.
func (e *ExtractCache) Get(key string) (string, bool) {
	if e == nil {
		return "", false
	}
	v, ok := e.c.Get(key)
	if !ok {
		return "", false
	}
	return v.(string), true
}

// Put stores the text for key.
func (e *ExtractCache) Put(key, text string) {
	if e == nil {
		return
	}
	e.c.Set(key, text, gocache.DefaultExpiration)
}

// Invalidate drops every cached entry.
func (e *ExtractCache) Invalidate() {
	if e == nil {
		return
	}
	e.c.Flush()
}
