package arp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"iter"

	"github.com/projectdiscovery/gologger"
)

// ErrFraming is matched by every *FramingError.
var ErrFraming = errors.New("arp: bad record framing")

// FramingError reports a record whose declared length cannot be trusted.
// It ends the walk; entries decoded before it stay valid.
type FramingError struct {
	Offset int
	Length int
	Reason string
}

func (e *FramingError) Error() string {
	return fmt.Sprintf("arp: record at offset %d (length %d): %s", e.Offset, e.Length, e.Reason)
}

func (e *FramingError) Is(target error) bool {
	return target == ErrFraming
}

// Walker iterates over the records of a routing table snapshot.
//
// Like bufio.Scanner, a Walker is single use: once the records have been
// consumed, ranging over Entries again yields nothing.
type Walker struct {
	buf     []byte
	off     int
	err     error
	records int
	skipped int
}

// NewWalker returns a Walker over buf. buf must only hold the bytes the kernel
// reported as written.
func NewWalker(buf []byte) *Walker {
	return &Walker{buf: buf}
}

// next returns the window of the record at the cursor and advances past it.
func (w *Walker) next() (rec []byte, off int, ok bool) {
	if w.err != nil || w.off >= len(w.buf) {
		return nil, 0, false
	}
	off = w.off
	remain := len(w.buf) - off
	if remain < 2 {
		w.err = &FramingError{Offset: off, Length: remain, Reason: "trailing bytes shorter than a length field"}
		return nil, 0, false
	}
	n := int(binary.NativeEndian.Uint16(w.buf[off+rtmMsglenOff:]))
	switch {
	case n == 0:
		w.err = &FramingError{Offset: off, Length: n, Reason: "zero length"}
	case n < minRecordLen:
		w.err = &FramingError{Offset: off, Length: n, Reason: fmt.Sprintf("shorter than %d bytes", minRecordLen)}
	case n > remain:
		w.err = &FramingError{Offset: off, Length: n, Reason: fmt.Sprintf("runs past end of buffer (%d bytes left)", remain)}
	}
	if w.err != nil {
		return nil, 0, false
	}
	w.off += n
	w.records++
	return w.buf[off : off+n], off, true
}

// Entries returns the decoded entries in record order. Records with
// inconsistent content are skipped; a framing error stops the sequence and is
// reported by Err.
func (w *Walker) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for {
			rec, off, ok := w.next()
			if !ok {
				if w.err != nil {
					gologger.Debug().Msgf("arp: walk stopped after %d records: %v", w.records, w.err)
				}
				return
			}
			e, err := decodeRecord(rec, off)
			if err != nil {
				w.skipped++
				gologger.Debug().Msgf("%v, skipping", err)
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Err returns the framing error that stopped the walk, if any.
func (w *Walker) Err() error {
	return w.err
}

// Records returns the number of well framed records walked so far.
func (w *Walker) Records() int {
	return w.records
}

// Skipped returns the number of records dropped for inconsistent content.
func (w *Walker) Skipped() int {
	return w.skipped
}
