// Package proxy forwards browser requests to the home gateway, adding the
// gateway credential on the server side so it never reaches the client.
package proxy

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
)

const (
	DefaultPrefix      = "/api/astra/"
	DefaultContentType = "application/json"
)

// Options configures the forwarding handler.
type Options struct {
	// Prefix is stripped from the inbound path; the remainder is appended to BaseURL.
	Prefix    string
	BaseURL   string
	KeyHeader string
	APIKey    string
	// AllowOrigin, when set, is sent as Access-Control-Allow-Origin.
	AllowOrigin string
	Logger      *slog.Logger
}

// NewHandler returns an http.Handler that relays requests under Prefix to
// BaseURL. Upstream status, headers and body are passed through unchanged;
// the body is streamed. The only locally generated status is 502 when the
// upstream cannot be reached.
func NewHandler(opts Options) (http.Handler, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing upstream url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("upstream url %q must be absolute", opts.BaseURL)
	}
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	if !strings.HasSuffix(opts.Prefix, "/") {
		opts.Prefix += "/"
	}
	if opts.KeyHeader == "" {
		opts.KeyHeader = "x-astra-key"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	h := &handler{opts: opts, base: base, logger: logger}
	h.rp = &httputil.ReverseProxy{
		Rewrite:        h.rewrite,
		FlushInterval:  -1,
		ModifyResponse: h.modifyResponse,
		ErrorHandler:   h.errorHandler,
	}
	return h, nil
}

type handler struct {
	opts   Options
	base   *url.URL
	rp     *httputil.ReverseProxy
	logger *slog.Logger
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, h.opts.Prefix) && r.URL.Path != strings.TrimSuffix(h.opts.Prefix, "/") {
		http.NotFound(w, r)
		return
	}
	h.rp.ServeHTTP(w, r)
}

func (h *handler) rewrite(pr *httputil.ProxyRequest) {
	rest := strings.TrimPrefix(pr.In.URL.Path, strings.TrimSuffix(h.opts.Prefix, "/"))
	rest = strings.TrimPrefix(rest, "/")

	out := *h.base
	out.Path = h.base.Path + "/" + rest
	out.RawPath = ""
	out.RawQuery = pr.In.URL.RawQuery
	pr.Out.URL = &out
	pr.Out.Host = ""

	pr.Out.Header.Set(h.opts.KeyHeader, h.opts.APIKey)

	if !carriesBody(pr.In.Method) {
		pr.Out.Body = http.NoBody
		pr.Out.ContentLength = 0
		pr.Out.Header.Del("Content-Length")
	}
}

func carriesBody(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}

func (h *handler) modifyResponse(resp *http.Response) error {
	if resp.Header.Get("Content-Type") == "" {
		resp.Header.Set("Content-Type", DefaultContentType)
	}
	h.setCORS(resp.Header)
	return nil
}

func (h *handler) setCORS(hdr http.Header) {
	if h.opts.AllowOrigin == "" {
		return
	}
	hdr.Set("Access-Control-Allow-Origin", h.opts.AllowOrigin)
	hdr.Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
	hdr.Set("Access-Control-Allow-Headers", "content-type")
}

func (h *handler) errorHandler(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Warn("gateway proxy failed", "path", r.URL.Path, "error", err)
	h.setCORS(w.Header())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadGateway)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"message": "gateway unreachable",
			"type":    "bad_gateway",
		},
	})
}
