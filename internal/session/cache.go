package session

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"o1ready/internal/types"
)

// CachedResult is a prior upload's parse and analysis output, keyed by the
// SHA-256 of the file content so re-uploading the same resume skips the
// parser and the model call.
type CachedResult struct {
	Filename   string
	Resume     types.ParsedResume
	Assessment types.Assessment
}

// ResultCache is a TTL'd in-memory cache of analysis results by content hash.
type ResultCache struct {
	cache *gocache.Cache
}

// NewResultCache creates a result cache. Entries expire after ttl; expired
// entries are purged every cleanupInterval.
func NewResultCache(ttl, cleanupInterval time.Duration) *ResultCache {
	return &ResultCache{cache: gocache.New(ttl, cleanupInterval)}
}

// ContentHash returns the hex SHA-256 of the uploaded file content.
func ContentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Get looks up a cached result. An entry whose parse failed is reported as a
// miss so the upload is retried instead of replaying the failure.
func (c *ResultCache) Get(contentHash string) (*CachedResult, bool) {
	value, found := c.cache.Get(contentHash)
	if !found {
		return nil, false
	}

	result, ok := value.(*CachedResult)
	if !ok || !result.Resume.ParseSuccess {
		return nil, false
	}
	return result, true
}

// Put stores an analysis result under the content hash.
func (c *ResultCache) Put(contentHash string, result CachedResult) {
	c.cache.SetDefault(contentHash, &result)
}

// Len returns the number of entries, including ones not yet purged.
func (c *ResultCache) Len() int {
	return c.cache.ItemCount()
}
