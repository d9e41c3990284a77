package memdb

import (
	"slices"
	"sync"

	"github.com/sandrolain/goxq/pkg/storage"
)

// Catalog is a concurrency-safe set of named databases.
type Catalog struct {
	mu  sync.RWMutex
	dbs map[string]storage.Data
}

var _ storage.Catalog = (*Catalog)(nil)

// NewCatalog returns a catalog holding dbs.
func NewCatalog(dbs ...storage.Data) *Catalog {
	c := &Catalog{dbs: make(map[string]storage.Data, len(dbs))}
	for _, db := range dbs {
		c.dbs[db.Name()] = db
	}
	return c
}

// Add registers db, replacing any database of the same name.
func (c *Catalog) Add(db storage.Data) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dbs[db.Name()] = db
}

// Drop removes the named database and reports whether it existed.
func (c *Catalog) Drop(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.dbs[name]
	delete(c.dbs, name)
	return ok
}

// Open returns the named database.
func (c *Catalog) Open(name string) (storage.Data, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	db, ok := c.dbs[name]
	if !ok {
		return nil, &storage.ErrNotFound{Name: name}
	}
	return db, nil
}

// Names returns the database names in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.dbs))
	for n := range c.dbs {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
