//go:build !darwin

package arp

// selector mirrors the Darwin MIB so that custom queriers see the same request
// on every platform.
var selector = []int32{4, 17, 0, familyInet, 2, 0x400}

func defaultQuerier() Querier {
	return QuerierFunc(func([]int32, []byte) (int, error) {
		return 0, ErrUnsupported
	})
}
