package data

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sync"

	"pv-pipeline/internal/pipeline"
)

// BundleCache memoizes built bundles keyed by config path plus the mtimes
// of the config and its data file, so edits to either invalidate the
// entry. Construct one and inject it where needed; there is deliberately
// no process-global instance.
type BundleCache struct {
	mu    sync.RWMutex
	store map[string]*pipeline.Bundle
}

func NewBundleCache() *BundleCache {
	return &BundleCache{store: make(map[string]*pipeline.Bundle)}
}

// Key builds the cache key for a config path. It fails when either file
// cannot be stat'ed, which callers treat as a miss.
func (c *BundleCache) Key(configPath, dataPath string) (string, error) {
	ci, err := os.Stat(configPath)
	if err != nil {
		return "", err
	}
	di, err := os.Stat(dataPath)
	if err != nil {
		return "", err
	}
	raw := fmt.Sprintf("%s:%d:%d|%s:%d:%d",
		configPath, ci.Size(), ci.ModTime().UnixNano(),
		dataPath, di.Size(), di.ModTime().UnixNano())
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:]), nil
}

func (c *BundleCache) Get(key string) (*pipeline.Bundle, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.store[key]
	return b, ok
}

func (c *BundleCache) Set(key string, b *pipeline.Bundle) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = b
}

func (c *BundleCache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string]*pipeline.Bundle)
}
