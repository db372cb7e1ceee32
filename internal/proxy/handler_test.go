package proxy

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type seenRequest struct {
	method string
	path   string
	query  string
	key    string
	custom string
	body   string
	host   string
}

func newUpstream(t *testing.T, handler http.HandlerFunc) (*httptest.Server, chan seenRequest) {
	t.Helper()
	seen := make(chan seenRequest, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		seen <- seenRequest{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			key:    r.Header.Get("x-astra-key"),
			custom: r.Header.Get("X-Trace"),
			body:   string(b),
			host:   r.Host,
		}
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, seen
}

func newTestHandler(t *testing.T, base string, origin string) http.Handler {
	t.Helper()
	h, err := NewHandler(Options{BaseURL: base + "/api/astra", APIKey: "server-secret", AllowOrigin: origin})
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	return h
}

func TestProxy_ForwardsPathQueryAndCredential(t *testing.T) {
	upstream, seen := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Upstream", "yes")
		fmt.Fprint(w, `[{"id":"12"}]`)
	})
	h := newTestHandler(t, upstream.URL, "")

	req := httptest.NewRequest(http.MethodGet, "/api/astra/roku/apps?device_id=tv%201", nil)
	req.Header.Set("X-Trace", "abc")
	req.Header.Set("x-astra-key", "browser-supplied")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	got := <-seen
	if got.path != "/api/astra/roku/apps" {
		t.Errorf("path = %q", got.path)
	}
	if got.query != "device_id=tv%201" {
		t.Errorf("query = %q", got.query)
	}
	if got.key != "server-secret" {
		t.Errorf("credential = %q, want server-side secret", got.key)
	}
	if got.custom != "abc" {
		t.Errorf("inbound header not copied: %q", got.custom)
	}
	if !strings.HasPrefix(upstream.URL, "http://"+got.host) {
		t.Errorf("host = %q, want upstream host", got.host)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
	if rec.Body.String() != `[{"id":"12"}]` {
		t.Errorf("body = %q", rec.Body.String())
	}
	if rec.Header().Get("X-Upstream") != "yes" {
		t.Error("upstream header not relayed")
	}
}

func TestProxy_PostBodyForwarded(t *testing.T) {
	upstream, seen := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ok":true}`)
	})
	h := newTestHandler(t, upstream.URL, "")

	body := `{"device_id":"tv","action":"on"}`
	req := httptest.NewRequest(http.MethodPost, "/api/astra/device/command", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	got := <-seen
	if got.method != http.MethodPost || got.body != body {
		t.Errorf("upstream saw %s %q", got.method, got.body)
	}
}

func TestProxy_GetNeverCarriesBody(t *testing.T) {
	upstream, seen := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	h := newTestHandler(t, upstream.URL, "")

	req := httptest.NewRequest(http.MethodGet, "/api/astra/devices", strings.NewReader("sneaky"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := <-seen; got.body != "" {
		t.Errorf("GET forwarded a body: %q", got.body)
	}
}

func TestProxy_RelaysErrorStatusVerbatim(t *testing.T) {
	upstream, _ := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, "bad key")
	})
	h := newTestHandler(t, upstream.URL, "")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/astra/devices", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d", rec.Code)
	}
	if rec.Body.String() != "bad key" {
		t.Errorf("body = %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/plain" {
		t.Errorf("content-type = %q", ct)
	}
}

func TestProxy_DefaultContentType(t *testing.T) {
	upstream, _ := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	})
	h := newTestHandler(t, upstream.URL, "")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/astra/devices", nil))

	if ct := rec.Header().Get("Content-Type"); ct != DefaultContentType {
		t.Errorf("content-type = %q, want %q", ct, DefaultContentType)
	}
}

func TestProxy_CORS(t *testing.T) {
	upstream, _ := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	h := newTestHandler(t, upstream.URL, "https://solaces.me")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/astra/devices", nil))

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://solaces.me" {
		t.Errorf("allow-origin = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "GET,POST,OPTIONS" {
		t.Errorf("allow-methods = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "content-type" {
		t.Errorf("allow-headers = %q", got)
	}
}

func TestProxy_UpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	base := upstream.URL
	upstream.Close()

	h := newTestHandler(t, base, "https://solaces.me")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/astra/devices", nil))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	var body struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if body.Error.Type != "bad_gateway" {
		t.Errorf("type = %q", body.Error.Type)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("CORS headers missing on error")
	}
}

func TestProxy_StreamsBody(t *testing.T) {
	release := make(chan struct{})
	upstream, _ := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: first\n\n")
		w.(http.Flusher).Flush()
		<-release
		fmt.Fprint(w, "data: second\n\n")
	})
	h := newTestHandler(t, upstream.URL, "")
	front := httptest.NewServer(h)
	defer front.Close()
	defer close(release)

	resp, err := http.Get(front.URL + "/api/astra/events")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	buf := make([]byte, len("data: first\n\n"))
	done := make(chan error, 1)
	go func() {
		_, err := io.ReadFull(resp.Body, buf)
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("reading first chunk: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("first chunk was not flushed before the upstream finished")
	}
	if string(buf) != "data: first\n\n" {
		t.Errorf("first chunk = %q", buf)
	}
}

func TestProxy_OutsidePrefix(t *testing.T) {
	h := newTestHandler(t, "http://127.0.0.1:1", "")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/other", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestNewHandler_RejectsRelativeBase(t *testing.T) {
	if _, err := NewHandler(Options{BaseURL: "/just/a/path"}); err == nil {
		t.Error("expected error")
	}
}
