package clientip

import (
	"net"
	"net/http"
	"strings"
)

// proxyHeaders are consulted in order when proxy headers are trusted.
var proxyHeaders = []string{
	"CF-Connecting-IP",
	"DO-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// GetIP returns the client address, honouring proxy headers.
func GetIP(r *http.Request) string {
	return Resolve(r, true)
}

// Resolve returns the normalized client IP. With trustProxy set the
// well-known proxy headers win over RemoteAddr; for X-Forwarded-For the first
// valid entry is used. An unparseable address yields "".
func Resolve(r *http.Request, trustProxy bool) string {
	if trustProxy {
		for _, name := range proxyHeaders {
			for v := range strings.SplitSeq(r.Header.Get(name), ",") {
				if ip := parseIP(v); ip != "" {
					return ip
				}
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

func parseIP(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return ""
	}
	return ip.String()
}
