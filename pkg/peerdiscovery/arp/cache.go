package arp

import (
	"errors"
	"net"
	"net/netip"
	"sync"
	"time"

	"github.com/projectdiscovery/gcache"
)

// ErrNotFound is returned by Cache lookups for IPs the kernel does not list.
var ErrNotFound = errors.New("arp: no entry for address")

// Cache answers per-IP lookups from the last snapshot and re-reads the kernel
// cache on a miss once the previous snapshot is older than the TTL.
//
// The LRU only holds the hot entries. The whole last snapshot is kept as well,
// so an entry evicted from the LRU is still found until the snapshot goes stale.
type Cache struct {
	resolver *Resolver
	ttl      time.Duration
	entries  gcache.Cache[netip.Addr, Entry]
	now      func() time.Time

	mu          sync.Mutex
	table       Table
	lastRefresh time.Time
}

// NewCache returns a Cache holding up to size hot entries for ttl. With a ttl
// of zero or less the snapshot never goes stale; only Refresh and Purge
// replace it.
func NewCache(r *Resolver, size int, ttl time.Duration) *Cache {
	builder := gcache.New[netip.Addr, Entry](size).LRU()
	if ttl > 0 {
		builder = builder.Expiration(ttl)
	}
	return &Cache{
		resolver: r,
		ttl:      ttl,
		entries:  builder.Build(),
		now:      time.Now,
	}
}

// Refresh replaces the cached entries with a fresh snapshot.
func (c *Cache) Refresh() (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refresh()
}

func (c *Cache) refresh() (*Snapshot, error) {
	snap, err := c.resolver.Resolve()
	if err != nil {
		return nil, err
	}
	c.entries.Purge()
	for _, e := range snap.Entries {
		// first record wins, as with Table.SearchMAC
		if _, err := c.entries.Get(e.IP); err == nil {
			continue
		}
		_ = c.entries.Set(e.IP, e)
	}
	c.table = snap.Entries
	c.lastRefresh = c.now()
	return snap, nil
}

// Lookup returns the entry for ip.
func (c *Cache) Lookup(ip netip.Addr) (Entry, error) {
	ip = ip.Unmap()
	if e, err := c.entries.Get(ip); err == nil {
		return e, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// another caller may have refreshed while we waited
	if e, err := c.entries.Get(ip); err == nil {
		return e, nil
	}
	if c.stale() {
		if _, err := c.refresh(); err != nil {
			return Entry{}, err
		}
	}
	e, ok := c.table.lookup(ip)
	if !ok {
		return Entry{}, ErrNotFound
	}
	// keep it hot for the next lookup
	_ = c.entries.Set(ip, e)
	return e, nil
}

// stale reports whether the last snapshot is missing or older than the TTL.
func (c *Cache) stale() bool {
	if c.lastRefresh.IsZero() {
		return true
	}
	return c.ttl > 0 && c.now().Sub(c.lastRefresh) >= c.ttl
}

// SearchMAC returns the link-layer address for ip, or nil.
func (c *Cache) SearchMAC(ip netip.Addr) net.HardwareAddr {
	e, err := c.Lookup(ip)
	if err != nil {
		return nil
	}
	return e.MAC
}

// Purge drops all cached entries and forces the next lookup to resolve.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Purge()
	c.table = nil
	c.lastRefresh = time.Time{}
}

// Len returns the number of unexpired cached entries.
func (c *Cache) Len() int {
	return c.entries.Len(true)
}
