package pls

import "github.com/desertthunder/plsx/internal/models"

// Cache holds the classified entries of previously parsed containers.
//
// Keyed by [models.Media.Key]; a later store for the same container replaces
// the earlier list. Not safe for concurrent use.
type Cache struct {
	entries map[string][]*models.Media
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string][]*models.Media)}
}

// Get returns the cached list for container.
func (c *Cache) Get(container *models.Media) ([]*models.Media, bool) {
	if container == nil {
		return nil, false
	}
	media, ok := c.entries[container.Key()]
	return media, ok
}

// Store attaches media to container, replacing any previous list.
func (c *Cache) Store(container *models.Media, media []*models.Media) {
	if container == nil || container.Key() == "" {
		return
	}
	c.entries[container.Key()] = media
}

// Invalidate drops the cached list for container.
func (c *Cache) Invalidate(container *models.Media) {
	if container == nil {
		return
	}
	delete(c.entries, container.Key())
}

func (c *Cache) Len() int { return len(c.entries) }
