package arp

import (
	"encoding/binary"
	"net"
	"net/netip"
)

// testRecord describes one routing message for the synthetic snapshots used in
// the tests. Zero values produce a valid resolved entry.
type testRecord struct {
	ip      string
	mac     string
	hw      []byte // raw address, for lengths net.ParseMAC rejects
	nlen    uint8
	alen    int // overrides len(mac) when non-zero
	index   uint16
	expire  int32
	version uint8
	inet    uint8
	link    uint8
	length  int // overrides the msglen field when non-zero
	padding int // extra bytes after the sockaddr_dl
}

func (r testRecord) bytes() []byte {
	size := minRecordLen + r.padding
	b := make([]byte, size)

	msglen := size
	if r.length != 0 {
		msglen = r.length
	}
	if r.length < 0 {
		msglen = 0
	}
	version := uint8(rtmVersion)
	if r.version != 0 {
		version = r.version
	}
	binary.NativeEndian.PutUint16(b[rtmMsglenOff:], uint16(msglen))
	b[rtmVersionOff] = version
	b[rtmTypeOff] = 0x4 // RTM_GET
	binary.NativeEndian.PutUint16(b[rtmIndexOff:], r.index)
	binary.NativeEndian.PutUint32(b[rmxExpireOff:], uint32(r.expire))

	inet := uint8(familyInet)
	if r.inet != 0 {
		inet = r.inet
	}
	sin := b[sinarpOff:]
	sin[sinLenOff] = sinarpSize
	sin[sinFamilyOff] = inet
	if r.ip != "" {
		a4 := netip.MustParseAddr(r.ip).As4()
		copy(sin[sinAddrOff:], a4[:])
	}

	link := uint8(familyLink)
	if r.link != 0 {
		link = r.link
	}
	sdl := b[sdlOff:]
	sdl[sdlLenOff] = sdlSize
	sdl[sdlFamilyOff] = link
	binary.NativeEndian.PutUint16(sdl[sdlIndexOff:], r.index)
	sdl[sdlTypeOff] = 0x6 // IFT_ETHER
	sdl[sdlNlenOff] = r.nlen
	mac := net.HardwareAddr(r.hw)
	if r.mac != "" {
		var err error
		if mac, err = net.ParseMAC(r.mac); err != nil {
			panic(err)
		}
	}
	alen := len(mac)
	if r.alen != 0 {
		alen = r.alen
	}
	sdl[sdlAlenOff] = uint8(alen)
	data := sdl[sdlDataOff : sdlDataOff+sdlDataCap]
	for i := 0; i < int(r.nlen) && i < len(data); i++ {
		data[i] = 'e'
	}
	if int(r.nlen) < len(data) {
		copy(data[r.nlen:], mac)
	}
	return b
}

func snapshot(recs ...testRecord) []byte {
	var b []byte
	for _, r := range recs {
		b = append(b, r.bytes()...)
	}
	return b
}
