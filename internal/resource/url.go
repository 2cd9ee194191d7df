package resource

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"netfile/internal/logging"
)

// User-Agent matching a desktop browser; some sites refuse obvious
// bot clients.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

const (
	defaultProbeTimeout = 5 * time.Second
	defaultFetchTimeout = 10 * time.Second
)

var schemePrefixes = []string{"http://", "https://", "ftp://", "file://"}

// One shared client so keep-alive connections are reused between the
// probe and the fetch. Per-request deadlines come from the request
// context.
var defaultClient = &http.Client{
	Transport: &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		IdleConnTimeout:       90 * time.Second,
		ExpectContinueTimeout: 10 * time.Second,
	},
}

func defaultSettings() settings {
	return settings{
		client:       defaultClient,
		userAgent:    defaultUserAgent,
		probeTimeout: defaultProbeTimeout,
		fetchTimeout: defaultFetchTimeout,
	}
}

// urlFetcher is the operation bundle for url mode.
type urlFetcher struct {
	url string
	settings
	// HTTP status seen by the most recent probe, for ProbeStatus
	lastStatus int
}

// validate enforces the scheme prefix before any network I/O, then
// runs the reachability probe.
func (u *urlFetcher) validate() error {
	const op = "validate"
	if !hasSchemePrefix(u.url) {
		return errf(KindInvalidArgument, op, u.url,
			"not a valid URL, expected one of the prefixes %s",
			strings.Join(schemePrefixes, ", "))
	}
	return u.probe(op)
}

func hasSchemePrefix(target string) bool {
	for _, prefix := range schemePrefixes {
		if strings.HasPrefix(target, prefix) {
			return true
		}
	}
	return false
}

// probe is the short-timeout reachability check. 200 passes, 404
// fails, any other HTTP status is tolerated as "reachable but
// erroring"; timeouts and network-level failures fail. The observed
// status is kept for ProbeStatus.
func (u *urlFetcher) probe(op string) error {
	resp, cancel, err := u.get(op, u.probeTimeout)
	if err != nil {
		return err
	}
	defer cancel()
	defer resp.Body.Close()

	u.lastStatus = resp.StatusCode
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return errf(KindConnectivity, op, u.url, "url responded with status 404")
	default:
		logging.Log().Debugf("probe of %s returned status %d, treating as reachable",
			u.url, resp.StatusCode)
		return nil
	}
}

// get issues the GET. The returned cancel func owns the request
// context and must stay pending until the caller is done with the
// response body; cancelling earlier aborts an in-flight body read.
func (u *urlFetcher) get(op string, timeout time.Duration) (*http.Response, context.CancelFunc, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.url, nil)
	if err != nil {
		cancel()
		return nil, nil, wrap(KindInvalidArgument, op, u.url, err)
	}
	req.Header.Set("User-Agent", u.userAgent)

	resp, err := u.client.Do(req)
	if err != nil {
		cancel()
		return nil, nil, wrap(KindConnectivity, op, u.url, err)
	}
	return resp, cancel, nil
}

func (u *urlFetcher) fetch() (string, error) {
	const op = "fetch"
	if err := u.probe(op); err != nil {
		return "", err
	}

	resp, cancel, err := u.get(op, u.fetchTimeout)
	if err != nil {
		return "", err
	}
	defer cancel()
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", errf(KindConnectivity, op, u.url, "page not found (404)")
	case resp.StatusCode != http.StatusOK:
		return "", errf(KindConnectivity, op, u.url,
			"url responded with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", wrap(KindOther, op, u.url, err)
	}
	logging.Log().Debugf("fetched %d bytes from %s", len(body), u.url)
	return decodeBody(body), nil
}

// countLinks treats link counting as best-effort: a connectivity
// failure is demoted to a zero count instead of propagating.
func (u *urlFetcher) countLinks() (int, error) {
	page, err := u.fetch()
	if err != nil {
		if KindOf(err) == KindConnectivity {
			logging.Log().Warnf("link count for %s degraded to zero: %v", u.url, err)
			return 0, nil
		}
		return 0, err
	}
	return len(extractLinks(page)), nil
}

// saveTo checks the destination before committing to a network fetch,
// then delegates the write to a fresh write-mode handle.
func (u *urlFetcher) saveTo(path string) error {
	if err := ensureWritable("save", path); err != nil {
		return err
	}

	page, err := u.fetch()
	if err != nil {
		return err
	}

	dest, err := New(path, "write")
	if err != nil {
		return err
	}
	return dest.Write(page)
}
