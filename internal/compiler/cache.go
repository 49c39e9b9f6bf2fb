package compiler

import "sync"

// Cache maps raw template sources to compiled templates. Entries are never
// evicted; Reset exists for tests and tooling that reload templates.
type Cache struct {
	mu sync.RWMutex
	m  map[string]*Template
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{m: make(map[string]*Template)}
}

// Get returns the template compiled from src, if any.
func (c *Cache) Get(src string) (*Template, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.m[src]
	return t, ok
}

// put stores t unless another goroutine stored src first, and returns the
// entry that won.
func (c *Cache) put(src string, t *Template) *Template {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.m[src]; ok {
		return existing
	}
	c.m[src] = t
	return t
}

// Len returns the number of cached templates.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

// Reset drops every cached template.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = make(map[string]*Template)
}
