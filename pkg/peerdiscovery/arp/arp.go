package arp

import (
	"bytes"
	"net"
	"net/netip"
)

// Entry represents a neighbor listed in the kernel ARP cache
type Entry struct {
	IP netip.Addr
	// MAC is nil when the kernel holds no link-layer address for IP
	// (an incomplete entry).
	MAC net.HardwareAddr
	// Index is the interface index the neighbor was learned on.
	Index int
	// Permanent is set for entries that never expire.
	Permanent bool
}

// Resolved reports whether the entry carries a link-layer address.
func (e Entry) Resolved() bool {
	return e.MAC != nil
}

// String formats the entry as "<ip> => <mac>".
func (e Entry) String() string {
	return e.IP.String() + " => " + e.MAC.String()
}

// Table is an ordered list of entries, as reported by the kernel.
// The same IP may appear more than once.
type Table []Entry

// SearchMAC returns the link-layer address of the first entry for ip.
func (t Table) SearchMAC(ip netip.Addr) net.HardwareAddr {
	e, _ := t.lookup(ip)
	return e.MAC
}

func (t Table) lookup(ip netip.Addr) (Entry, bool) {
	ip = ip.Unmap()
	for i := range t {
		if t[i].IP == ip {
			return t[i], true
		}
	}
	return Entry{}, false
}

// SearchIP returns the IP of the first entry holding mac.
func (t Table) SearchIP(mac net.HardwareAddr) netip.Addr {
	if len(mac) == 0 {
		return netip.Addr{}
	}
	for i := range t {
		if bytes.Equal(t[i].MAC, mac) {
			return t[i].IP
		}
	}
	return netip.Addr{}
}

// Filter returns the entries for which keep returns true, preserving order.
func (t Table) Filter(keep func(Entry) bool) Table {
	var out Table
	for _, e := range t {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
