//go:build darwin

package arp

import (
	"os"
	_ "unsafe" // for go:linkname

	"golang.org/x/sys/unix"
)

// selector is the sysctl MIB of the IPv4 ARP cache dump.
var selector = []int32{
	unix.CTL_NET,
	unix.AF_ROUTE,
	0,
	unix.AF_INET,
	unix.NET_RT_FLAGS,
	unix.RTF_LLINFO,
}

type sysctlQuerier struct{}

func (sysctlQuerier) Query(mib []int32, buf []byte) (int, error) {
	var p *byte
	if len(buf) > 0 {
		p = &buf[0]
	}
	n := uintptr(len(buf))
	if err := sysctl(mib, p, &n, nil, 0); err != nil {
		return 0, os.NewSyscallError("sysctl", err)
	}
	return int(n), nil
}

func defaultQuerier() Querier {
	return sysctlQuerier{}
}

//go:linkname sysctl syscall.sysctl
func sysctl(mib []int32, old *byte, oldlen *uintptr, new *byte, newlen uintptr) error
