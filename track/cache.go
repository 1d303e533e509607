// Package track holds per-aircraft state derived from decoded Mode-S
// messages: the recently-seen ICAO24 cache consulted by the CRC engine's
// XOR-address recovery path, and the merged per-aircraft record store.
package track

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

// cacheTTL matches the teacher's MODES_ICAO_CACHE_TTL: an address is only
// trusted for XOR-recovery for this long after its last directly-verified
// sighting.
const cacheTTL = 60 * time.Second

// Cache is a TTL set of recently-confirmed ICAO24 addresses. It implements
// modes.ICAOKnown so the decoder can consult it without importing this
// package.
type Cache struct {
	c *cache.Cache
}

// NewCache builds a Cache with the teacher's TTL and cleanup interval.
func NewCache() *Cache {
	return &Cache{c: cache.New(cacheTTL, 10*time.Second)}
}

// Add records addr as recently confirmed, refreshing its TTL.
func (c *Cache) Add(addr uint32) {
	c.c.SetDefault(key(addr), struct{}{})
}

// Seen reports whether addr was confirmed within the last cacheTTL.
func (c *Cache) Seen(addr uint32) bool {
	_, found := c.c.Get(key(addr))
	return found
}

func key(addr uint32) string {
	return fmt.Sprintf("%06X", addr)
}
