// Package namecache is a bounded, injected cache of submitter display
// labels. It exists so queue views can render names without re-reading
// the identity provider, and its size bound keeps it from growing with
// the history of submitters.
package namecache

import lru "github.com/hashicorp/golang-lru/v2"

type Cache struct {
	labels *lru.Cache[string, string]
}

// New creates a cache holding at most size labels.
func New(size int) (*Cache, error) {
	labels, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &Cache{labels: labels}, nil
}

// Get returns the cached label for a submitter, if any.
func (c *Cache) Get(submitterID string) (string, bool) {
	return c.labels.Get(submitterID)
}

// Put records the label most recently seen for a submitter.
func (c *Cache) Put(submitterID, label string) {
	if submitterID == "" || label == "" {
		return
	}
	c.labels.Add(submitterID, label)
}

// Invalidate drops a submitter's cached label, e.g. after a profile change.
func (c *Cache) Invalidate(submitterID string) {
	c.labels.Remove(submitterID)
}

// Len returns the number of cached labels.
func (c *Cache) Len() int {
	return c.labels.Len()
}
