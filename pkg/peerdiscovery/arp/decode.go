package arp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"net/netip"
)

// ErrRecordDecode is matched by every *RecordDecodeError.
var ErrRecordDecode = errors.New("arp: malformed record")

// RecordDecodeError reports a well framed record whose content is
// inconsistent. Such records are skipped.
type RecordDecodeError struct {
	Offset int
	Reason string
}

func (e *RecordDecodeError) Error() string {
	return fmt.Sprintf("arp: record at offset %d: %s", e.Offset, e.Reason)
}

func (e *RecordDecodeError) Is(target error) bool {
	return target == ErrRecordDecode
}

// msgHeader holds the rt_msghdr fields the decoder looks at.
type msgHeader struct {
	Length  uint16
	Version uint8
	Type    uint8
	Index   uint16
	Flags   int32
	Addrs   int32
	Expire  int32
}

// inarpAddr is a decoded sockaddr_inarp.
type inarpAddr struct {
	Len    uint8
	Family uint8
	Addr   [4]byte
}

// linkAddr is a decoded sockaddr_dl. Data is a view into the record.
type linkAddr struct {
	Len    uint8
	Family uint8
	Index  uint16
	Type   uint8
	Nlen   uint8
	Alen   uint8
	Slen   uint8
	Data   []byte
}

func decodeHeader(b []byte) (msgHeader, bool) {
	if len(b) < rtmHdrSize {
		return msgHeader{}, false
	}
	return msgHeader{
		Length:  binary.NativeEndian.Uint16(b[rtmMsglenOff:]),
		Version: b[rtmVersionOff],
		Type:    b[rtmTypeOff],
		Index:   binary.NativeEndian.Uint16(b[rtmIndexOff:]),
		Flags:   int32(binary.NativeEndian.Uint32(b[rtmFlagsOff:])),
		Addrs:   int32(binary.NativeEndian.Uint32(b[rtmAddrsOff:])),
		Expire:  int32(binary.NativeEndian.Uint32(b[rmxExpireOff:])),
	}, true
}

func decodeInarp(b []byte) (inarpAddr, bool) {
	if len(b) < sinarpSize {
		return inarpAddr{}, false
	}
	sin := inarpAddr{
		Len:    b[sinLenOff],
		Family: b[sinFamilyOff],
	}
	copy(sin.Addr[:], b[sinAddrOff:sinAddrOff+4])
	return sin, true
}

func decodeLinkAddr(b []byte) (linkAddr, bool) {
	if len(b) < sdlSize {
		return linkAddr{}, false
	}
	return linkAddr{
		Len:    b[sdlLenOff],
		Family: b[sdlFamilyOff],
		Index:  binary.NativeEndian.Uint16(b[sdlIndexOff:]),
		Type:   b[sdlTypeOff],
		Nlen:   b[sdlNlenOff],
		Alen:   b[sdlAlenOff],
		Slen:   b[sdlSlenOff],
		Data:   b[sdlDataOff : sdlDataOff+sdlDataCap],
	}, true
}

// decodeRecord maps one framed record to an Entry. rec must span exactly the
// record; off is its position in the snapshot, used for error reporting.
func decodeRecord(rec []byte, off int) (Entry, error) {
	fail := func(format string, a ...any) (Entry, error) {
		return Entry{}, &RecordDecodeError{Offset: off, Reason: fmt.Sprintf(format, a...)}
	}

	hdr, ok := decodeHeader(rec)
	if !ok {
		return fail("short header (%d bytes)", len(rec))
	}
	if hdr.Version != rtmVersion {
		return fail("unsupported message version %d", hdr.Version)
	}
	sin, ok := decodeInarp(rec[sinarpOff:])
	if !ok {
		return fail("short protocol address")
	}
	if sin.Family != familyInet {
		return fail("unexpected protocol address family %d", sin.Family)
	}
	sdl, ok := decodeLinkAddr(rec[sdlOff:])
	if !ok {
		return fail("short link-layer address")
	}
	if sdl.Family != familyLink {
		return fail("unexpected link-layer address family %d", sdl.Family)
	}

	e := Entry{
		IP:        netip.AddrFrom4(sin.Addr),
		Index:     int(sdl.Index),
		Permanent: hdr.Expire == 0,
	}
	if sdl.Alen == 0 {
		return e, nil
	}
	// LLADDR: the address follows the interface name in sdl_data.
	start, end := int(sdl.Nlen), int(sdl.Nlen)+int(sdl.Alen)
	if end > sdlDataCap {
		return fail("link-layer address overflows storage (nlen %d, alen %d)", sdl.Nlen, sdl.Alen)
	}
	e.MAC = make(net.HardwareAddr, sdl.Alen)
	copy(e.MAC, sdl.Data[start:end])
	return e, nil
}
