package clap

import (
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the value and pattern caches of a session.
const DefaultCacheSize = 256

type cacheEntry struct {
	value      any
	generation uint64
}

// valueCache memoizes bound values per declaration. An entry is only valid
// for the registry generation it was computed at; eviction costs a re-sweep.
type valueCache struct {
	entries *lru.Cache[string, cacheEntry]
}

func newValueCache(size int) *valueCache {
	c, err := lru.New[string, cacheEntry](size)
	if err != nil {
		c, _ = lru.New[string, cacheEntry](DefaultCacheSize)
	}
	return &valueCache{entries: c}
}

func cacheKey(path []string, signature string) string {
	return strings.Join(path, "/") + "\x00" + signature
}

func (c *valueCache) get(key string, generation uint64) (cacheEntry, bool) {
	e, ok := c.entries.Get(key)
	if !ok || e.generation != generation {
		return cacheEntry{}, false
	}
	return e, true
}

func (c *valueCache) put(key string, e cacheEntry) {
	c.entries.Add(key, e)
}

func (c *valueCache) purge() {
	c.entries.Purge()
}

// regexCache holds compiled arity patterns. The pattern space is small and
// the same few expressions are needed on every sweep.
type regexCache struct {
	compiled *lru.Cache[string, *regexp.Regexp]
}

func newRegexCache(size int) *regexCache {
	c, err := lru.New[string, *regexp.Regexp](size)
	if err != nil {
		c, _ = lru.New[string, *regexp.Regexp](DefaultCacheSize)
	}
	return &regexCache{compiled: c}
}

func (c *regexCache) compile(pattern string) *regexp.Regexp {
	if re, ok := c.compiled.Get(pattern); ok {
		return re
	}
	re := regexp.MustCompile(pattern)
	c.compiled.Add(pattern, re)
	return re
}
