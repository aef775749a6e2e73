package runner

import (
	"errors"
	"io"
	"net/netip"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/projectdiscovery/arptable/pkg/peerdiscovery/arp"
	"github.com/projectdiscovery/arptable/pkg/peerdiscovery/common"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/mapcidr"
	errorutil "github.com/projectdiscovery/utils/errors"
	mapsutil "github.com/projectdiscovery/utils/maps"
	osutils "github.com/projectdiscovery/utils/os"
	"github.com/rs/xid"
	psnet "github.com/shirou/gopsutil/v3/net"
)

// cacheSize bounds the lookup cache used for targets.
const cacheSize = 4096

// Runner contains the internal logic of the program
type Runner struct {
	options  *Options
	querier  arp.Querier
	output   *OutputWriter
	snapshot string

	ifacesOnce sync.Once
	ifaces     *mapsutil.SyncLockMap[int, string]

	localNetworks func() ([]netip.Prefix, error)
	networks      []netip.Prefix
}

// NewRunner instance
func NewRunner(options *Options) (*Runner, error) {
	if !osutils.IsOSX() {
		return nil, errorutil.New("reading the kernel ARP cache is not supported on %s", runtime.GOOS)
	}
	return newRunner(options, nil, os.Stdout)
}

func newRunner(options *Options, q arp.Querier, stdout io.Writer) (*Runner, error) {
	output, err := NewOutputWriter(stdout, options.Output, options.JSON)
	if err != nil {
		return nil, err
	}
	return &Runner{
		options:  options,
		querier:  q,
		output:   output,
		ifaces:   mapsutil.NewSyncLockMap[int, string](),
		snapshot: xid.New().String(),

		localNetworks: common.GetLocalNetworks4,
	}, nil
}

func (r *Runner) resolverOptions(extra ...arp.Option) []arp.Option {
	var opts []arp.Option
	if r.querier != nil {
		opts = append(opts, arp.WithQuerier(r.querier))
	}
	return append(opts, extra...)
}

// Run reads the ARP cache once and writes the entries.
func (r *Runner) Run() error {
	if r.options.ExcludeBroadcast {
		networks, err := r.localNetworks()
		if err != nil {
			return errorutil.NewWithErr(err).Msgf("could not list local networks")
		}
		r.networks = networks
	}
	if len(r.options.Targets) > 0 {
		return r.lookupTargets()
	}

	var writeErr error
	resolver := arp.NewResolver(r.resolverOptions(arp.WithObserver(func(e arp.Entry) {
		if writeErr != nil || r.skip(e) {
			return
		}
		writeErr = r.output.Write(newResult(e, r.snapshot, r.interfaceName(e.Index)))
	}))...)

	snap, err := resolver.Resolve()
	if err != nil {
		return errorutil.NewWithErr(err).Msgf("could not read arp cache")
	}
	if writeErr != nil {
		return errorutil.NewWithErr(writeErr).Msgf("could not write output")
	}
	r.showStats(snap)
	return nil
}

func (r *Runner) lookupTargets() error {
	targets, err := expandTargets(r.options.Targets)
	if err != nil {
		return err
	}
	cache := arp.NewCache(arp.NewResolver(r.resolverOptions()...), cacheSize, r.options.CacheTTL)
	snap, err := cache.Refresh()
	if err != nil {
		return errorutil.NewWithErr(err).Msgf("could not read arp cache")
	}

	for _, ip := range targets {
		e, err := cache.Lookup(ip)
		if errors.Is(err, arp.ErrNotFound) {
			gologger.Verbose().Msgf("no arp entry for %s", ip)
			continue
		}
		if err != nil {
			return errorutil.NewWithErr(err).Msgf("could not look up %s", ip)
		}
		if r.skip(e) {
			continue
		}
		if err := r.output.Write(newResult(e, r.snapshot, r.interfaceName(e.Index))); err != nil {
			return errorutil.NewWithErr(err).Msgf("could not write output")
		}
	}
	r.showStats(snap)
	return nil
}

// skip reports whether an entry is filtered out of the output.
func (r *Runner) skip(e arp.Entry) bool {
	if r.options.ResolvedOnly && !e.Resolved() {
		return true
	}
	return r.options.ExcludeBroadcast && common.IsNonUnicast(e.IP, r.networks)
}

func (r *Runner) showStats(snap *arp.Snapshot) {
	if !r.options.Stats {
		return
	}
	gologger.Info().Msgf("snapshot %s: %v entries, %d records, %d skipped (%s)",
		r.snapshot, au.BrightGreen(len(snap.Entries)), snap.Records, snap.Skipped, humanize.Bytes(uint64(snap.Bytes)))
	if snap.Truncated != nil {
		gologger.Warning().Msgf("snapshot %s truncated: %v", r.snapshot, au.BrightYellow(snap.Truncated))
	}
}

// interfaceName returns the name of the interface with the given index when
// names were requested.
func (r *Runner) interfaceName(index int) string {
	if !r.options.InterfaceName || index == 0 {
		return ""
	}
	r.ifacesOnce.Do(func() {
		ifaces, err := psnet.Interfaces()
		if err != nil {
			gologger.Verbose().Msgf("could not list interfaces: %v", err)
			return
		}
		for _, iface := range ifaces {
			_ = r.ifaces.Set(iface.Index, iface.Name)
		}
	})
	name, _ := r.ifaces.Get(index)
	return name
}

// expandTargets turns ips and cidrs into a list of unique IPv4 addresses,
// keeping the order they were given in.
func expandTargets(targets []string) ([]netip.Addr, error) {
	var addrs []netip.Addr
	seen := make(map[netip.Addr]struct{})
	add := func(s string) error {
		ip, err := netip.ParseAddr(s)
		if err != nil {
			return errorutil.NewWithErr(err).Msgf("invalid target %s", s)
		}
		ip = ip.Unmap()
		if !ip.Is4() {
			gologger.Warning().Msgf("skipping %s: the arp cache only holds ipv4 neighbors", s)
			return nil
		}
		if _, ok := seen[ip]; ok {
			return nil
		}
		seen[ip] = struct{}{}
		addrs = append(addrs, ip)
		return nil
	}

	for _, target := range targets {
		target = strings.TrimSpace(target)
		if target == "" {
			continue
		}
		if !strings.Contains(target, "/") {
			if err := add(target); err != nil {
				return nil, err
			}
			continue
		}
		prefix, err := netip.ParsePrefix(target)
		if err != nil {
			return nil, errorutil.NewWithErr(err).Msgf("invalid target %s", target)
		}
		if !prefix.Addr().Unmap().Is4() {
			gologger.Warning().Msgf("skipping %s: the arp cache only holds ipv4 neighbors", target)
			continue
		}
		ips, err := mapcidr.IPAddresses(target)
		if err != nil {
			return nil, errorutil.NewWithErr(err).Msgf("invalid target %s", target)
		}
		for _, ip := range ips {
			if err := add(ip); err != nil {
				return nil, err
			}
		}
	}
	return addrs, nil
}

// Close flushes the output
func (r *Runner) Close() error {
	return r.output.Close()
}
