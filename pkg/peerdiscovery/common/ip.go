package common

import "net/netip"

// IsNetworkOrBroadcast checks if an IPv4 address is the network or broadcast
// address of prefix. Host routes (/31, /32) have neither.
func IsNetworkOrBroadcast(ip netip.Addr, prefix netip.Prefix) bool {
	ip = ip.Unmap()
	if !ip.Is4() || !prefix.Addr().Unmap().Is4() || !prefix.Contains(ip) {
		return false
	}
	bits := prefix.Bits()
	if bits >= 31 {
		return false
	}
	if ip == prefix.Masked().Addr() {
		return true
	}

	// Broadcast address
	a4 := prefix.Masked().Addr().As4()
	host := uint32(1)<<(32-bits) - 1
	v := uint32(a4[0])<<24 | uint32(a4[1])<<16 | uint32(a4[2])<<8 | uint32(a4[3])
	v |= host
	return ip == netip.AddrFrom4([4]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
}

// IsNonUnicast reports whether ip is multicast, limited broadcast, or the
// network or broadcast address of one of the given prefixes.
func IsNonUnicast(ip netip.Addr, prefixes []netip.Prefix) bool {
	ip = ip.Unmap()
	if ip.IsMulticast() || ip == netip.AddrFrom4([4]byte{255, 255, 255, 255}) {
		return true
	}
	for _, p := range prefixes {
		if IsNetworkOrBroadcast(ip, p) {
			return true
		}
	}
	return false
}
