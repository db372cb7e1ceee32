package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"golang.org/x/net/idna"
)

// BearerAuth rejects requests that do not carry "Authorization: Bearer <token>".
func BearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			const prefix = "Bearer "
			if token == "" || !strings.HasPrefix(auth, prefix) || subtle.ConstantTimeCompare([]byte(auth[len(prefix):]), []byte(token)) != 1 {
				httpError(w, http.StatusUnauthorized, "authentication_error", "invalid or missing bearer token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// OracleRedirect sends requests for the site root to /oracle when the Host
// header starts with oracleHost. Both sides are compared in their ASCII
// (punycode) form. An empty oracleHost disables the redirect.
func OracleRedirect(oracleHost string) func(http.Handler) http.Handler {
	want := normalizeHost(oracleHost)
	return func(next http.Handler) http.Handler {
		if want == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if (r.URL.Path == "/" || r.URL.Path == "") && strings.HasPrefix(normalizeHost(r.Host), want) {
				u := *r.URL
				u.Path = "/oracle"
				http.Redirect(w, r, u.RequestURI(), http.StatusTemporaryRedirect)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func normalizeHost(host string) string {
	host = strings.TrimSpace(host)
	if host == "" {
		return ""
	}
	name, port := host, ""
	if i := strings.LastIndexByte(host, ':'); i >= 0 && !strings.Contains(host[i:], "]") {
		name, port = host[:i], host[i:]
	}
	ascii, err := idna.Lookup.ToASCII(name)
	if err != nil {
		return strings.ToLower(host)
	}
	return strings.ToLower(ascii) + port
}
