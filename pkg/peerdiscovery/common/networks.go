package common

import (
	"net/netip"

	psnet "github.com/shirou/gopsutil/v3/net"
)

// GetLocalNetworks4 returns the IPv4 prefixes configured on up, non-loopback
// interfaces.
func GetLocalNetworks4() ([]netip.Prefix, error) {
	interfaces, err := psnet.Interfaces()
	if err != nil {
		return nil, err
	}
	return localNetworks4(interfaces), nil
}

func localNetworks4(interfaces []psnet.InterfaceStat) []netip.Prefix {
	var networks []netip.Prefix
	seen := make(map[netip.Prefix]struct{})

	for _, iface := range interfaces {
		if !hasFlag(iface.Flags, "up") || hasFlag(iface.Flags, "loopback") {
			continue
		}
		for _, addr := range iface.Addrs {
			prefix, err := netip.ParsePrefix(addr.Addr)
			if err != nil || !prefix.Addr().Is4() {
				continue
			}
			prefix = prefix.Masked()
			// Avoid duplicates
			if _, exists := seen[prefix]; exists {
				continue
			}
			seen[prefix] = struct{}{}
			networks = append(networks, prefix)
		}
	}
	return networks
}

func hasFlag(flags []string, flag string) bool {
	for _, f := range flags {
		if f == flag {
			return true
		}
	}
	return false
}
