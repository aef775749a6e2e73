package arp

import (
	"net"
	"net/netip"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCacheLookup(t *testing.T) {
	k := &fakeKernel{snap: snapshot(
		testRecord{ip: "10.0.0.1", mac: "00:00:00:00:00:01", index: 1},
		testRecord{ip: "10.0.0.1", mac: "00:00:00:00:00:09", index: 2},
		testRecord{ip: "10.0.0.2"},
	)}
	c := NewCache(NewResolver(WithQuerier(k)), 128, time.Hour)

	e, err := c.Lookup(netip.MustParseAddr("10.0.0.1"))
	require.NoError(t, err)
	require.Equal(t, "00:00:00:00:00:01", e.MAC.String())
	require.Equal(t, 1, e.Index)
	require.Equal(t, 2, k.calls)

	// hits do not query the kernel
	require.Nil(t, c.SearchMAC(netip.MustParseAddr("10.0.0.2")))
	require.Equal(t, 2, k.calls)
	require.Equal(t, 2, c.Len())

	// misses within the TTL do not either
	_, err = c.Lookup(netip.MustParseAddr("10.0.0.3"))
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, 2, k.calls)
}

func TestCacheMissAfterTTL(t *testing.T) {
	k := &fakeKernel{snap: snapshot(testRecord{ip: "10.0.0.1", mac: "00:00:00:00:00:01"})}
	c := NewCache(NewResolver(WithQuerier(k)), 128, time.Hour)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_, err := c.Lookup(netip.MustParseAddr("10.0.0.2"))
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, 2, k.calls)

	k.snap = append(k.snap, testRecord{ip: "10.0.0.2", mac: "00:00:00:00:00:02"}.bytes()...)
	now = now.Add(2 * time.Hour)
	require.Equal(t, "00:00:00:00:00:02", c.SearchMAC(netip.MustParseAddr("10.0.0.2")).String())
	require.Equal(t, 4, k.calls)
}

func TestCacheZeroTTL(t *testing.T) {
	k := &fakeKernel{snap: snapshot(testRecord{ip: "10.0.0.1", mac: "00:00:00:00:00:01"})}
	c := NewCache(NewResolver(WithQuerier(k)), 128, 0)

	_, err := c.Lookup(netip.MustParseAddr("10.0.0.2"))
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, 2, k.calls)

	// the snapshot never goes stale on its own
	for i := 0; i < 10; i++ {
		_, err = c.Lookup(netip.MustParseAddr("10.0.0.2"))
		require.ErrorIs(t, err, ErrNotFound)
	}
	require.Equal(t, "00:00:00:00:00:01", c.SearchMAC(netip.MustParseAddr("10.0.0.1")).String())
	require.Equal(t, 2, k.calls)

	_, err = c.Refresh()
	require.NoError(t, err)
	require.Equal(t, 4, k.calls)
}

func TestCacheSmallerThanSnapshot(t *testing.T) {
	var recs []testRecord
	for i := 1; i <= 8; i++ {
		recs = append(recs, testRecord{
			ip:  netip.AddrFrom4([4]byte{10, 0, 0, byte(i)}).String(),
			mac: net.HardwareAddr{0, 0, 0, 0, 0, byte(i)}.String(),
		})
	}
	k := &fakeKernel{snap: snapshot(recs...)}
	c := NewCache(NewResolver(WithQuerier(k)), 4, time.Hour)

	_, err := c.Refresh()
	require.NoError(t, err)
	require.LessOrEqual(t, c.Len(), 4)

	for _, r := range recs {
		e, err := c.Lookup(netip.MustParseAddr(r.ip))
		require.NoError(t, err, r.ip)
		require.Equal(t, r.mac, e.MAC.String())
	}
	require.Equal(t, 2, k.calls)
}

func TestCacheMappedAddress(t *testing.T) {
	k := &fakeKernel{snap: snapshot(testRecord{ip: "10.0.0.1", mac: "00:00:00:00:00:01"})}
	c := NewCache(NewResolver(WithQuerier(k)), 128, time.Hour)
	require.Equal(t, "00:00:00:00:00:01", c.SearchMAC(netip.MustParseAddr("::ffff:10.0.0.1")).String())
}

func TestCacheRefreshAndPurge(t *testing.T) {
	k := &fakeKernel{snap: snapshot(testRecord{ip: "10.0.0.1", mac: "00:00:00:00:00:01"})}
	c := NewCache(NewResolver(WithQuerier(k)), 128, time.Hour)

	snap, err := c.Refresh()
	require.NoError(t, err)
	require.Len(t, snap.Entries, 1)
	require.Equal(t, 1, c.Len())

	c.Purge()
	require.Zero(t, c.Len())
	require.NotNil(t, c.SearchMAC(netip.MustParseAddr("10.0.0.1")))
	require.Equal(t, 4, k.calls)
}

func TestCacheQueryError(t *testing.T) {
	k := &fakeKernel{probeErr: syscall.EACCES}
	c := NewCache(NewResolver(WithQuerier(k)), 128, time.Hour)
	_, err := c.Lookup(netip.MustParseAddr("10.0.0.1"))
	require.ErrorIs(t, err, ErrQueryFailed)
	require.ErrorIs(t, err, syscall.EACCES)
}
