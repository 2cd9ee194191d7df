package resource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

type countingTransport struct {
	calls int32
	next  http.RoundTripper
}

func (c *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	atomic.AddInt32(&c.calls, 1)
	return c.next.RoundTrip(req)
}

func TestNewURLMode(t *testing.T) {
	t.Run("missing scheme prefix", func(t *testing.T) {
		transport := &countingTransport{next: http.DefaultTransport}
		client := &http.Client{Transport: transport}

		_, err := New("example.com/page", "url", WithHTTPClient(client))
		if err == nil {
			t.Fatal("New should reject a target without a scheme prefix")
		}
		if KindOf(err) != KindInvalidArgument {
			t.Errorf("error kind = %v, want %v", KindOf(err), KindInvalidArgument)
		}
		if n := atomic.LoadInt32(&transport.calls); n != 0 {
			t.Errorf("prefix validation made %d network calls, want 0", n)
		}
	})

	t.Run("probe passes on 200", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "ok")
		}))
		defer srv.Close()

		res, err := New(srv.URL, "url")
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		if res.Mode() != ModeURL {
			t.Errorf("Mode() = %v, want %v", res.Mode(), ModeURL)
		}
		if res.ProbeStatus() != http.StatusOK {
			t.Errorf("ProbeStatus() = %d, want %d", res.ProbeStatus(), http.StatusOK)
		}
	})

	t.Run("probe fails on 404", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()

		_, err := New(srv.URL, "url")
		if err == nil {
			t.Fatal("New should fail when the probe gets a 404")
		}
		if KindOf(err) != KindConnectivity {
			t.Errorf("error kind = %v, want %v", KindOf(err), KindConnectivity)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			t.Error("a 404 failure should not carry a deadline cause")
		}
	})

	t.Run("probe tolerates other error statuses", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		res, err := New(srv.URL, "url")
		if err != nil {
			t.Fatalf("a 500 probe should count as reachable, got: %v", err)
		}
		if res.ProbeStatus() != http.StatusInternalServerError {
			t.Errorf("ProbeStatus() = %d, want %d", res.ProbeStatus(), http.StatusInternalServerError)
		}
	})

	t.Run("probe fails on timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		_, err := New(srv.URL, "url", WithTimeouts(20*time.Millisecond, 20*time.Millisecond))
		if err == nil {
			t.Fatal("New should fail when the probe times out")
		}
		if KindOf(err) != KindConnectivity {
			t.Errorf("error kind = %v, want %v", KindOf(err), KindConnectivity)
		}
		// Same kind as the 404 case, distinguishable only through the cause.
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("timeout cause not preserved: %v", err)
		}
	})

	t.Run("probe fails on connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		_, err := New(srv.URL, "url")
		if KindOf(err) != KindConnectivity {
			t.Errorf("error kind = %v, want %v", KindOf(err), KindConnectivity)
		}
	})
}

func TestFetchURL(t *testing.T) {
	t.Run("returns the page body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "<html>hello</html>")
		}))
		defer srv.Close()

		res, err := New(srv.URL, "url")
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		got, err := res.FetchURL()
		if err != nil {
			t.Fatalf("FetchURL failed: %v", err)
		}
		if got != "<html>hello</html>" {
			t.Errorf("body = %q", got)
		}
	})

	t.Run("reads a body that arrives in chunks", func(t *testing.T) {
		// The request context must stay alive for the whole body
		// read, not just until the response headers arrive.
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "part-one|")
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
			time.Sleep(150 * time.Millisecond)
			fmt.Fprint(w, "part-two")
		}))
		defer srv.Close()

		res, err := New(srv.URL, "url")
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		got, err := res.FetchURL()
		if err != nil {
			t.Fatalf("FetchURL failed on a healthy 200 page: %v", err)
		}
		if got != "part-one|part-two" {
			t.Errorf("body = %q, want %q", got, "part-one|part-two")
		}
	})

	t.Run("sends the configured user agent", func(t *testing.T) {
		const agent = "netfile-test/1.0"
		var seen atomic.Value
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen.Store(r.Header.Get("User-Agent"))
		}))
		defer srv.Close()

		res, err := New(srv.URL, "url", WithUserAgent(agent))
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		if _, err := res.FetchURL(); err != nil {
			t.Fatalf("FetchURL failed: %v", err)
		}
		if got := seen.Load(); got != agent {
			t.Errorf("User-Agent = %v, want %q", got, agent)
		}
	})

	t.Run("decodes a windows-1251 page", func(t *testing.T) {
		raw := encodeWindows1251(t, "привет")
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write(raw)
		}))
		defer srv.Close()

		res, err := New(srv.URL, "url")
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		got, err := res.FetchURL()
		if err != nil {
			t.Fatalf("FetchURL failed: %v", err)
		}
		if got != "привет" {
			t.Errorf("decoded body = %q, want %q", got, "привет")
		}
	})
}

func TestCountLinks(t *testing.T) {
	t.Run("dedupes and ignores relative links", func(t *testing.T) {
		page := `<html><body>
			<a href="https://example.com/page">x</a>
			<img src="https://example.com/page">
			<a href="/relative">y</a>
			<a href="https://other.org/">z</a>
		</body></html>`
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, page)
		}))
		defer srv.Close()

		res, err := New(srv.URL, "url")
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		count, err := res.CountLinks()
		if err != nil {
			t.Fatalf("CountLinks failed: %v", err)
		}
		if count != 2 {
			t.Errorf("count = %d, want 2", count)
		}
	})

	t.Run("no absolute links means zero", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<html><a href="/only/relative">x</a></html>`)
		}))
		defer srv.Close()

		res, err := New(srv.URL, "url")
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		count, err := res.CountLinks()
		if err != nil {
			t.Fatalf("CountLinks failed: %v", err)
		}
		if count != 0 {
			t.Errorf("count = %d, want 0", count)
		}
	})

	t.Run("connectivity failure demoted to zero", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		res, err := New(srv.URL, "url")
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		srv.Close()

		count, err := res.CountLinks()
		if err != nil {
			t.Fatalf("CountLinks should swallow connectivity failures, got: %v", err)
		}
		if count != 0 {
			t.Errorf("count = %d, want 0", count)
		}
	})
}

func TestSaveTo(t *testing.T) {
	t.Run("saves the page to a file", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "<html>saved</html>")
		}))
		defer srv.Close()

		res, err := New(srv.URL, "url")
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}

		dest := filepath.Join(t.TempDir(), "pages", "out.html")
		if err := res.SaveTo(dest); err != nil {
			t.Fatalf("SaveTo failed: %v", err)
		}

		data, err := os.ReadFile(dest)
		if err != nil {
			t.Fatalf("ReadFile failed: %v", err)
		}
		if string(data) != "<html>saved</html>" {
			t.Errorf("saved content = %q", data)
		}
	})

	t.Run("unwritable destination aborts before any fetch", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("running as root, permission checks are bypassed")
		}

		var requests int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requests, 1)
		}))
		defer srv.Close()

		res, err := New(srv.URL, "url")
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		probes := atomic.LoadInt32(&requests)

		dir := t.TempDir()
		if err := os.Chmod(dir, 0555); err != nil {
			t.Fatalf("Chmod failed: %v", err)
		}
		t.Cleanup(func() { os.Chmod(dir, 0755) })

		err = res.SaveTo(filepath.Join(dir, "denied.html"))
		if KindOf(err) != KindPermission {
			t.Errorf("error kind = %v, want %v", KindOf(err), KindPermission)
		}
		if got := atomic.LoadInt32(&requests); got != probes {
			t.Errorf("SaveTo hit the network %d times after the probe, want 0", got-probes)
		}
	})
}
