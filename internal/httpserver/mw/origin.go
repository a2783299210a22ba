package mw

import (
	"net/http"
	"net/netip"
	"net/url"
	"strings"

	"github.com/MrSnakeDoc/dock/internal/logger"
)

// AllowOnlyLocalOrigin rejects browser requests sent from a page that is not
// served from the local machine. Requests without an Origin header (CLI
// clients, the dock itself) pass through.
func AllowOnlyLocalOrigin(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" || isLocalOrigin(origin) {
				next.ServeHTTP(w, r)
				return
			}

			log.Debugf("AllowOnlyLocalOrigin: Origin %s REJECTED", origin)
			w.WriteHeader(http.StatusForbidden)
		})
	}
}

// isLocalOrigin accepts localhost names and loopback addresses on any scheme
// and port. The opaque "null" origin is not local.
func isLocalOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}
	addr, err := netip.ParseAddr(host)
	return err == nil && addr.Unmap().IsLoopback()
}
