package blog

import (
	"net"
	"net/http"
	"net/url"
	"strings"
)

// URLBuilder derives the externally visible base URL of a request.
type URLBuilder struct {
	// TrustProxy makes X-Forwarded-* and Forwarded headers take precedence
	// over the connection's own scheme and host.
	TrustProxy bool
	// FallbackURL is returned when the request carries no usable host.
	FallbackURL string
}

// BaseURL reconstructs scheme://host[:port] as seen by the client, without
// a trailing slash. The port is dropped when it is the scheme default.
// When no host can be resolved it returns FallbackURL, which may be empty.
func (b URLBuilder) BaseURL(r *http.Request) string {
	scheme, host, port := "", "", ""
	// signalled is set when the proxy reported the client-facing scheme or
	// port. A port carried by r.Host is then the backend's own and is dropped.
	signalled, hostForwarded := false, false
	if b.TrustProxy {
		fwd := parseForwarded(r.Header.Get("Forwarded"))
		scheme = firstValue(r.Header.Get("X-Forwarded-Proto"))
		if scheme == "" {
			scheme = fwd["proto"]
		}
		host = firstValue(r.Header.Get("X-Forwarded-Host"))
		if host == "" {
			host = fwd["host"]
		}
		port = firstValue(r.Header.Get("X-Forwarded-Port"))
		signalled = scheme != "" || port != ""
		hostForwarded = host != ""
	}
	scheme = strings.ToLower(scheme)
	if scheme != "http" && scheme != "https" {
		scheme = "http"
		if r.TLS != nil {
			scheme = "https"
		}
	}
	if host == "" {
		host = r.Host
	}
	if host == "" {
		return strings.TrimRight(b.FallbackURL, "/")
	}

	hostname, hostPort := splitHostPort(host)
	if hostname == "" {
		return strings.TrimRight(b.FallbackURL, "/")
	}
	switch {
	case hostForwarded && hostPort != "":
		port = hostPort
	case hostForwarded || signalled:
		// keep the forwarded port, or the scheme default when none was sent
	default:
		port = hostPort
	}
	if port == defaultPort(scheme) {
		port = ""
	}
	if strings.Contains(hostname, ":") {
		hostname = "[" + hostname + "]"
	}
	if port != "" {
		return scheme + "://" + hostname + ":" + port
	}
	return scheme + "://" + hostname
}

// EncodePathSegment percent-encodes s for use as a single URL path segment.
// A literal "/" is escaped so the segment cannot split the path.
func EncodePathSegment(s string) string {
	return url.PathEscape(s)
}

func defaultPort(scheme string) string {
	if scheme == "https" {
		return "443"
	}
	return "80"
}

// splitHostPort accepts "host", "host:port", "[v6]" and "[v6]:port".
func splitHostPort(hostport string) (host, port string) {
	if h, p, err := net.SplitHostPort(hostport); err == nil {
		return h, p
	}
	return strings.Trim(hostport, "[]"), ""
}

// firstValue returns the first comma-separated entry of a proxy header,
// which is the one set by the proxy closest to the client.
func firstValue(v string) string {
	if i := strings.IndexByte(v, ','); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}

// parseForwarded reads the first element of an RFC 7239 Forwarded header.
func parseForwarded(v string) map[string]string {
	out := make(map[string]string)
	v = firstValue(v)
	for _, pair := range strings.Split(v, ";") {
		k, val, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}
		out[strings.ToLower(strings.TrimSpace(k))] = strings.Trim(strings.TrimSpace(val), `"`)
	}
	return out
}
