package arp

// Darwin routing socket ABI (xnu bsd/net/route.h, bsd/netinet/if_ether.h,
// bsd/net/if_dl.h). Each record returned by the NET_RT_FLAGS/RTF_LLINFO dump is
// an rt_msghdr immediately followed by a sockaddr_inarp and a sockaddr_dl.
// Multi-byte fields are in host byte order, addresses in network byte order.
//
// Porting to another kernel means replacing this table, not the walker or the
// decoder.
const (
	// rtmVersion is RTM_VERSION.
	rtmVersion = 5

	familyInet = 2  // AF_INET
	familyLink = 18 // AF_LINK
)

// struct rt_msghdr, including the 2 byte pad after rtm_index and the
// embedded 14 word struct rt_metrics.
const (
	rtmMsglenOff  = 0
	rtmVersionOff = 2
	rtmTypeOff    = 3
	rtmIndexOff   = 4
	rtmFlagsOff   = 8
	rtmAddrsOff   = 12
	rtmRmxOff     = 36
	rmxExpireOff  = rtmRmxOff + 12

	rtmHdrSize = 92
)

// struct sockaddr_inarp.
const (
	sinLenOff    = 0
	sinFamilyOff = 1
	sinAddrOff   = 4

	sinarpSize = 16
)

// struct sockaddr_dl with its nominal 12 byte sdl_data.
const (
	sdlLenOff    = 0
	sdlFamilyOff = 1
	sdlIndexOff  = 2
	sdlTypeOff   = 4
	sdlNlenOff   = 5
	sdlAlenOff   = 6
	sdlSlenOff   = 7
	sdlDataOff   = 8

	sdlDataCap = 12
	sdlSize    = sdlDataOff + sdlDataCap
)

const (
	sinarpOff = rtmHdrSize
	sdlOff    = rtmHdrSize + sinarpSize

	// minRecordLen is the smallest record the decoder can read.
	minRecordLen = rtmHdrSize + sinarpSize + sdlSize
)
