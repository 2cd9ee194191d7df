// Package resource provides a single handle abstraction over local text
// files and remote URLs. A handle binds a target string to one access
// mode (read, write, append or url) at construction and exposes only
// the operations legal for that mode. Every operation validates its
// preconditions, opens its own stream, performs the transfer and
// releases the stream before returning; no state beyond the target and
// the mode survives between calls.
package resource

import (
	"fmt"
	"net/http"
	"time"
)

// Capability interfaces implemented by the per-mode operation bundles.
// New selects the bundle once; the public methods only check that the
// bundle has the capability instead of re-checking the mode.
type (
	reader interface {
		read() (string, error)
	}
	writer interface {
		write(content string) error
	}
	fetcher interface {
		fetch() (string, error)
		countLinks() (int, error)
		saveTo(path string) error
	}
)

// Resource is one bound (target, mode) pair.
type Resource struct {
	target string
	mode   Mode
	ops    any
}

type settings struct {
	client       *http.Client
	userAgent    string
	probeTimeout time.Duration
	fetchTimeout time.Duration
}

// Option adjusts how a handle talks to the network. Options only
// affect url-mode handles.
type Option func(*settings)

// WithUserAgent overrides the User-Agent header sent on probes and
// fetches.
func WithUserAgent(ua string) Option {
	return func(s *settings) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithTimeouts overrides the reachability-probe and content-fetch
// timeouts. Non-positive values keep the defaults.
func WithTimeouts(probe, fetch time.Duration) Option {
	return func(s *settings) {
		if probe > 0 {
			s.probeTimeout = probe
		}
		if fetch > 0 {
			s.fetchTimeout = fetch
		}
	}
}

// WithHTTPClient substitutes the HTTP client, primarily for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) {
		if c != nil {
			s.client = c
		}
	}
}

// New creates a handle for target in the named mode. Validation is
// eager: read mode requires an existing regular file, url mode requires
// a recognized scheme prefix and a passing reachability probe. Write
// and append modes defer their checks to Write, which re-validates per
// call anyway.
func New(target, mode string, opts ...Option) (*Resource, error) {
	m, err := ParseMode(mode)
	if err != nil {
		return nil, err
	}

	r := &Resource{target: target, mode: m}
	switch m {
	case ModeRead:
		if err := checkFile("open", target); err != nil {
			return nil, err
		}
		r.ops = &fileReader{path: target}
	case ModeWrite:
		r.ops = &fileWriter{path: target}
	case ModeAppend:
		r.ops = &fileWriter{path: target, appendTo: true}
	case ModeURL:
		s := defaultSettings()
		for _, opt := range opts {
			opt(&s)
		}
		f := &urlFetcher{url: target, settings: s}
		if err := f.validate(); err != nil {
			return nil, err
		}
		r.ops = f
	}
	return r, nil
}

// Target returns the bound path or URL.
func (r *Resource) Target() string { return r.target }

// Mode returns the access mode fixed at construction.
func (r *Resource) Mode() Mode { return r.mode }

func (r *Resource) String() string {
	return fmt.Sprintf("Resource(target=%q, mode=%s)", r.target, r.mode)
}

// ProbeStatus returns the HTTP status observed by the most recent
// reachability probe of a url-mode handle, or zero for the other
// modes. Construction tolerates statuses other than 200 and 404, so
// callers can use this to warn about a reachable-but-erroring URL.
func (r *Resource) ProbeStatus() int {
	if f, ok := r.ops.(*urlFetcher); ok {
		return f.lastStatus
	}
	return 0
}

// Read returns the full contents of the local file. Only legal in read
// mode.
func (r *Resource) Read() (string, error) {
	rd, ok := r.ops.(reader)
	if !ok {
		return "", r.wrongMode("Read", ModeRead)
	}
	return rd.read()
}

// Write stores content in the local file, truncating or appending
// depending on the mode. Only legal in write and append modes.
func (r *Resource) Write(content string) error {
	w, ok := r.ops.(writer)
	if !ok {
		return r.wrongMode("Write", ModeWrite, ModeAppend)
	}
	return w.write(content)
}

// FetchURL downloads the page behind the URL and returns it decoded to
// a string. Only legal in url mode.
func (r *Resource) FetchURL() (string, error) {
	f, ok := r.ops.(fetcher)
	if !ok {
		return "", r.wrongMode("FetchURL", ModeURL)
	}
	return f.fetch()
}

// CountLinks fetches the page and counts the distinct absolute http(s)
// links it references. Connectivity failures are demoted to a zero
// count; only legal in url mode.
func (r *Resource) CountLinks() (int, error) {
	f, ok := r.ops.(fetcher)
	if !ok {
		return 0, r.wrongMode("CountLinks", ModeURL)
	}
	return f.countLinks()
}

// SaveTo fetches the page and writes it to the given local path. The
// destination is checked for writability before any network transfer
// happens. Only legal in url mode.
func (r *Resource) SaveTo(path string) error {
	f, ok := r.ops.(fetcher)
	if !ok {
		return r.wrongMode("SaveTo", ModeURL)
	}
	return f.saveTo(path)
}

func (r *Resource) wrongMode(method string, want ...Mode) *Error {
	legal := want[0].String()
	if len(want) == 2 {
		legal = want[0].String() + " or " + want[1].String()
	}
	return errf(KindInvalidArgument, method, r.target,
		"%s requires %s mode, current mode is %s", method, legal, r.mode)
}
