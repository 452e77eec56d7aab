package storefront

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultProgramCacheSize bounds the default LRU program cache.
const DefaultProgramCacheSize = 128

// ProgramCache stores compiled expression programs keyed by expression strings.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// LRUProgramCache is a ProgramCache backed by a fixed-size LRU.
type LRUProgramCache struct {
	cache *lru.Cache[string, any]
}

// NewLRUProgramCache constructs a cache holding at most size programs. A
// non-positive size falls back to DefaultProgramCacheSize.
func NewLRUProgramCache(size int) *LRUProgramCache {
	if size <= 0 {
		size = DefaultProgramCacheSize
	}
	cache, err := lru.New[string, any](size)
	if err != nil {
		// lru.New only fails on a non-positive size.
		panic(err)
	}
	return &LRUProgramCache{cache: cache}
}

// Get implements ProgramCache.
func (c *LRUProgramCache) Get(key string) (any, bool) {
	if c == nil || c.cache == nil {
		return nil, false
	}
	return c.cache.Get(key)
}

// Set implements ProgramCache.
func (c *LRUProgramCache) Set(key string, value any) {
	if c == nil || c.cache == nil {
		return
	}
	c.cache.Add(key, value)
}

// Len reports how many programs are cached.
func (c *LRUProgramCache) Len() int {
	if c == nil || c.cache == nil {
		return 0
	}
	return c.cache.Len()
}

// WithProgramCache registers a program cache used by the default evaluator.
func WithProgramCache(cache ProgramCache) Option {
	return func(cfg *storeConfig) {
		cfg.programCache = cache
	}
}
