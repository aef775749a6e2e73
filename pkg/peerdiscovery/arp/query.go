package arp

import (
	"errors"
	"sync"
)

var (
	// ErrQueryFailed is matched by every *QueryError.
	ErrQueryFailed = errors.New("arp: routing table query failed")
	// ErrBufferOverrun is reported when the kernel claims to have written
	// more bytes than the buffer holds.
	ErrBufferOverrun = errors.New("reported length exceeds buffer")
	// ErrUnsupported is returned by the default querier on platforms whose
	// routing socket layout is not in layout.go.
	ErrUnsupported = errors.New("arp: kernel ARP cache query not supported on this platform")
)

// Querier issues the kernel routing table query.
//
// An empty buf asks for the number of bytes the dump needs. Otherwise the dump
// is written to buf and the number of bytes written is returned.
type Querier interface {
	Query(mib []int32, buf []byte) (int, error)
}

// QuerierFunc adapts a function to the Querier interface.
type QuerierFunc func(mib []int32, buf []byte) (int, error)

func (f QuerierFunc) Query(mib []int32, buf []byte) (int, error) {
	return f(mib, buf)
}

// Stage identifies which of the two kernel calls failed.
type Stage int

const (
	StageSizeProbe Stage = iota
	StageDataFetch
)

func (s Stage) String() string {
	switch s {
	case StageSizeProbe:
		return "size probe"
	case StageDataFetch:
		return "data fetch"
	default:
		return "unknown"
	}
}

// QueryError is returned when the kernel query itself fails. It is never
// retried: a privilege or selector problem does not go away on a second try.
type QueryError struct {
	Stage Stage
	Err   error
}

func (e *QueryError) Error() string {
	switch e.Stage {
	case StageSizeProbe:
		return "sysctl: unable to estimate routing table size: " + e.Err.Error()
	default:
		return "sysctl: unable to retrieve routing table: " + e.Err.Error()
	}
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

func (e *QueryError) Is(target error) bool {
	return target == ErrQueryFailed
}

var bufPool = sync.Pool{
	New: func() any { return new([]byte) },
}

// fetch runs the two-phase query and passes the written bytes to walk. The
// buffer is returned to the pool once walk returns, whatever the outcome.
func fetch(q Querier, mib []int32, walk func(buf []byte)) error {
	size, err := q.Query(mib, nil)
	if err != nil {
		return &QueryError{Stage: StageSizeProbe, Err: err}
	}
	if size <= 0 {
		walk(nil)
		return nil
	}

	bp := bufPool.Get().(*[]byte)
	defer bufPool.Put(bp)
	if cap(*bp) < size {
		*bp = make([]byte, size)
	}
	buf := (*bp)[:size]

	n, err := q.Query(mib, buf)
	if err != nil {
		return &QueryError{Stage: StageDataFetch, Err: err}
	}
	if n < 0 || n > len(buf) {
		return &QueryError{Stage: StageDataFetch, Err: ErrBufferOverrun}
	}
	walk(buf[:n])
	return nil
}
