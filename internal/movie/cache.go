package movie

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/pellman/matinee/internal/match"
)

// Cache is a TTL cache of built records keyed by normalized title, so
// "The Godfather Part II" and "godfather 2" share an entry.
type Cache struct {
	c *gocache.Cache
}

// NewCache creates a record cache. Entries expire after ttl; expired
// entries are swept at twice that interval.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{c: gocache.New(ttl, 2*ttl)}
}

func (c *Cache) Get(title string) (*Record, bool) {
	v, ok := c.c.Get(match.Normalize(title))
	if !ok {
		return nil, false
	}
	rec, ok := v.(*Record)
	return rec, ok
}

func (c *Cache) Set(title string, rec *Record) {
	c.c.SetDefault(match.Normalize(title), rec)
}

// Len reports the number of live entries.
func (c *Cache) Len() int {
	return c.c.ItemCount()
}
