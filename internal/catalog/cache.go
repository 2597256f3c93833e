package catalog

import "sync"

// nameCache maps entry names to their database IDs, skipping the lookup
// query on repeated saves of the same names.
type nameCache struct {
	mu  sync.RWMutex
	ids map[string]uint
}

func newNameCache() *nameCache {
	return &nameCache{
		ids: make(map[string]uint),
	}
}

// Get retrieves an entry ID by name.
func (c *nameCache) Get(name string) (uint, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.ids[name]
	return id, ok
}

// Set stores an entry ID by name.
func (c *nameCache) Set(name string, id uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids[name] = id
}

// Delete removes an entry by name.
func (c *nameCache) Delete(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.ids, name)
}

// Reset clears the cache.
func (c *nameCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids = make(map[string]uint)
}
