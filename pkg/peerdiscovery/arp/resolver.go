package arp

import (
	"fmt"
	"sync"

	"github.com/projectdiscovery/gologger"
)

// Observer is notified once per decoded entry, in walk order.
type Observer func(Entry)

// Snapshot is the outcome of one Resolve call.
type Snapshot struct {
	Entries Table
	// Bytes is the size of the dump the kernel wrote.
	Bytes int
	// Records is the number of well framed records walked.
	Records int
	// Skipped is the number of records dropped for inconsistent content.
	Skipped int
	// ObserverFailures is the number of observer calls that panicked.
	ObserverFailures int
	// Truncated holds the framing error that ended the walk early, if any.
	// The entries decoded before it are still returned.
	Truncated error
}

// Resolver reads the kernel ARP cache.
//
// Resolve holds no state across calls besides the registered observers, so a
// Resolver can be used from several goroutines; each call fetches its own
// buffer.
type Resolver struct {
	querier Querier

	mu        sync.RWMutex
	observers []Observer
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithQuerier replaces the kernel query, mostly for tests and ports.
func WithQuerier(q Querier) Option {
	return func(r *Resolver) {
		r.querier = q
	}
}

// WithObserver registers fn as an observer.
func WithObserver(fn Observer) Option {
	return func(r *Resolver) {
		r.observers = append(r.observers, fn)
	}
}

// NewResolver returns a Resolver using the platform querier unless overridden.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	if r.querier == nil {
		r.querier = defaultQuerier()
	}
	return r
}

// Subscribe registers fn to be called for every entry of later Resolve calls.
func (r *Resolver) Subscribe(fn Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, fn)
}

// Resolve fetches the current ARP cache. Only a failed kernel query is
// returned as an error; malformed records shorten the snapshot instead.
func (r *Resolver) Resolve() (*Snapshot, error) {
	r.mu.RLock()
	observers := append([]Observer(nil), r.observers...)
	r.mu.RUnlock()

	snap := &Snapshot{}
	err := fetch(r.querier, selector, func(buf []byte) {
		snap.Bytes = len(buf)
		w := NewWalker(buf)
		for e := range w.Entries() {
			for _, fn := range observers {
				if err := notify(fn, e); err != nil {
					snap.ObserverFailures++
					gologger.Warning().Msgf("arp: observer failed on %s: %v", e.IP, err)
				}
			}
			snap.Entries = append(snap.Entries, e)
		}
		snap.Records = w.Records()
		snap.Skipped = w.Skipped()
		snap.Truncated = w.Err()
	})
	if err != nil {
		return nil, err
	}
	gologger.Verbose().Msgf("arp: %d entries from %d records (%d skipped)", len(snap.Entries), snap.Records, snap.Skipped)
	return snap, nil
}

// notify calls fn with a copy of e so that an observer cannot alter the
// entry kept in the snapshot.
func notify(fn Observer, e Entry) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("panic: %v", v)
		}
	}()
	if e.MAC != nil {
		e.MAC = append([]byte(nil), e.MAC...)
	}
	fn(e)
	return nil
}

var defaultResolver = NewResolver()

// Get returns the current ARP cache using the platform querier.
func Get() (Table, error) {
	snap, err := defaultResolver.Resolve()
	if err != nil {
		return nil, err
	}
	return snap.Entries, nil
}
