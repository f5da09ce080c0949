// Copyright © 2025 tjj
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package coerce

import (
	"reflect"
	"sync"
)

type pairKey struct {
	from reflect.Type
	to   reflect.Type
}

// resolutionCache memoizes resolver output per concrete type pair. Reads take
// only the shared lock; a miss runs the resolver outside any lock, so
// duplicate concurrent misses may each resolve the same pair and the last
// write wins.
type resolutionCache struct {
	mu      sync.RWMutex // read-mostly, RWMutex beats sync.Map here
	entries map[pairKey]cell
}

func newResolutionCache() resolutionCache {
	return resolutionCache{entries: make(map[pairKey]cell)}
}

func (c *resolutionCache) lookup(key pairKey) (cell, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	return entry, ok
}

func (c *resolutionCache) store(key pairKey, entry cell) {
	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
}

// remove reverts a pair to the unresolved state, which is distinct from a
// stored invalid marker.
func (c *resolutionCache) remove(key pairKey) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// cachedCell is the slow-path lookup: cache hit, or resolve and record the
// outcome, including the explicit invalid one.
func (e *Engine) cachedCell(from, to reflect.Type) cell {
	key := pairKey{from: from, to: to}
	if entry, ok := e.cache.lookup(key); ok {
		return entry
	}
	entry := e.resolve(from, to)
	e.cache.store(key, entry)
	return entry
}
