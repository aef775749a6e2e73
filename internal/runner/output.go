package runner

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/projectdiscovery/arptable/pkg/peerdiscovery/arp"
	errorutil "github.com/projectdiscovery/utils/errors"
	fileutil "github.com/projectdiscovery/utils/file"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Result is a single output line.
type Result struct {
	IP        string `json:"ip"`
	MAC       string `json:"mac"`
	Index     int    `json:"index"`
	Interface string `json:"interface,omitempty"`
	Permanent bool   `json:"permanent"`
	Snapshot  string `json:"snapshot"`
}

func newResult(e arp.Entry, snapshot, iface string) Result {
	return Result{
		IP:        e.IP.String(),
		MAC:       e.MAC.String(),
		Index:     e.Index,
		Interface: iface,
		Permanent: e.Permanent,
		Snapshot:  snapshot,
	}
}

// String formats the result as "<ip> => <mac>".
func (r Result) String() string {
	var sb strings.Builder
	sb.WriteString(r.IP)
	sb.WriteString(" => ")
	sb.WriteString(r.MAC)
	if r.Interface != "" {
		sb.WriteString(" on ")
		sb.WriteString(r.Interface)
	}
	return sb.String()
}

// OutputWriter writes results to stdout and an optional file.
type OutputWriter struct {
	asJSON bool

	mu   sync.Mutex
	w    *bufio.Writer
	file *os.File
}

// NewOutputWriter creates the output file, if any, and returns a writer
// mirroring stdout into it.
func NewOutputWriter(stdout io.Writer, output string, asJSON bool) (*OutputWriter, error) {
	ow := &OutputWriter{asJSON: asJSON}
	dst := stdout
	if output != "" {
		if dir := filepath.Dir(output); dir != "" && !fileutil.FolderExists(dir) {
			if err := fileutil.CreateFolder(dir); err != nil {
				return nil, errorutil.NewWithErr(err).Msgf("could not create output folder %s", dir)
			}
		}
		f, err := os.Create(output)
		if err != nil {
			return nil, errorutil.NewWithErr(err).Msgf("could not create output file %s", output)
		}
		ow.file = f
		dst = io.MultiWriter(stdout, f)
	}
	ow.w = bufio.NewWriter(dst)
	return ow, nil
}

// Write writes a result line.
func (ow *OutputWriter) Write(r Result) error {
	var line []byte
	if ow.asJSON {
		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		line = data
	} else {
		line = []byte(r.String())
	}

	ow.mu.Lock()
	defer ow.mu.Unlock()
	if _, err := ow.w.Write(line); err != nil {
		return err
	}
	return ow.w.WriteByte('\n')
}

// Close flushes buffered output and closes the output file.
func (ow *OutputWriter) Close() error {
	ow.mu.Lock()
	defer ow.mu.Unlock()
	err := ow.w.Flush()
	if ow.file != nil {
		if cerr := ow.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
