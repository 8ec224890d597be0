package clientip

import (
	"net"
	"net/http"
	"strings"
)

// Unknown is returned when RemoteAddr is empty.
const Unknown = "unknown"

// RealClientIP returns the host part of r.RemoteAddr. Behind a proxy, mount
// chi's RealIP middleware first so RemoteAddr already holds the client address.
func RealClientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if addr == "" {
		return Unknown
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return strings.Trim(addr, "[]")
	}
	return host
}
