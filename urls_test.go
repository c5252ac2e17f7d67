package blog

import (
	"crypto/tls"
	"net/http/httptest"
	"testing"
)

func TestBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		host    string
		tls     bool
		headers map[string]string
		trust   bool
		want    string
	}{
		{name: "plain host", host: "blog.example", trust: true, want: "http://blog.example"},
		{name: "host with port", host: "localhost:3000", trust: true, want: "http://localhost:3000"},
		{name: "default port dropped", host: "blog.example:80", trust: true, want: "http://blog.example"},
		{name: "tls", host: "blog.example", tls: true, trust: true, want: "https://blog.example"},
		{name: "tls default port dropped", host: "blog.example:443", tls: true, trust: true, want: "https://blog.example"},
		{
			name:    "forwarded proto and host",
			host:    "10.0.0.5:3000",
			headers: map[string]string{"X-Forwarded-Proto": "https", "X-Forwarded-Host": "site.example"},
			trust:   true,
			want:    "https://site.example",
		},
		{
			name:    "forwarded port",
			host:    "internal",
			headers: map[string]string{"X-Forwarded-Proto": "https", "X-Forwarded-Host": "site.example", "X-Forwarded-Port": "8443"},
			trust:   true,
			want:    "https://site.example:8443",
		},
		{
			name:    "forwarded default port dropped",
			host:    "internal",
			headers: map[string]string{"X-Forwarded-Proto": "https", "X-Forwarded-Host": "site.example", "X-Forwarded-Port": "443"},
			trust:   true,
			want:    "https://site.example",
		},
		{
			name:    "first value of a proxy chain",
			host:    "internal",
			headers: map[string]string{"X-Forwarded-Proto": "https, http", "X-Forwarded-Host": "a.example, b.example"},
			trust:   true,
			want:    "https://a.example",
		},
		{
			name:    "rfc 7239 forwarded",
			host:    "internal",
			headers: map[string]string{"Forwarded": `for=1.2.3.4;proto=https;host="fwd.example"`},
			trust:   true,
			want:    "https://fwd.example",
		},
		{
			name:    "proxy headers ignored when untrusted",
			host:    "blog.example",
			headers: map[string]string{"X-Forwarded-Proto": "https", "X-Forwarded-Host": "evil.example"},
			trust:   false,
			want:    "http://blog.example",
		},
		{
			name:    "forwarded port beats backend host port",
			host:    "app:8080",
			headers: map[string]string{"X-Forwarded-Proto": "https", "X-Forwarded-Port": "443"},
			trust:   true,
			want:    "https://app",
		},
		{
			name:    "forwarded proto drops backend host port",
			host:    "app:8080",
			headers: map[string]string{"X-Forwarded-Proto": "https"},
			trust:   true,
			want:    "https://app",
		},
		{
			name:    "forwarded port with backend host",
			host:    "app:8080",
			headers: map[string]string{"X-Forwarded-Port": "8443", "X-Forwarded-Proto": "https"},
			trust:   true,
			want:    "https://app:8443",
		},
		{
			name:    "port in forwarded host beats forwarded port",
			host:    "app:8080",
			headers: map[string]string{"X-Forwarded-Host": "site.example:9000", "X-Forwarded-Port": "443", "X-Forwarded-Proto": "https"},
			trust:   true,
			want:    "https://site.example:9000",
		},
		{
			name:    "backend host port kept when untrusted",
			host:    "app:8080",
			headers: map[string]string{"X-Forwarded-Proto": "https", "X-Forwarded-Port": "443"},
			trust:   false,
			want:    "http://app:8080",
		},
		{name: "ipv6", host: "[::1]:3000", trust: true, want: "http://[::1]:3000"},
		{name: "bogus proto", host: "blog.example", headers: map[string]string{"X-Forwarded-Proto": "gopher"}, trust: true, want: "http://blog.example"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/blog", nil)
			r.Host = tt.host
			if tt.tls {
				r.TLS = &tls.ConnectionState{}
			} else {
				r.TLS = nil
			}
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			b := URLBuilder{TrustProxy: tt.trust}
			if got := b.BaseURL(r); got != tt.want {
				t.Errorf("BaseURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBaseURLFallback(t *testing.T) {
	r := httptest.NewRequest("GET", "/blog", nil)
	r.Host = ""

	if got := (URLBuilder{TrustProxy: true}).BaseURL(r); got != "" {
		t.Errorf("without fallback got %q, want empty", got)
	}
	b := URLBuilder{TrustProxy: true, FallbackURL: "https://configured.example/"}
	if got := b.BaseURL(r); got != "https://configured.example" {
		t.Errorf("fallback got %q", got)
	}
}

func TestEncodePathSegment(t *testing.T) {
	tests := map[string]string{
		"hello":        "hello",
		"a/b c":        "a%2Fb%20c",
		"café":         "caf%C3%A9",
		"what?#frag":   "what%3F%23frag",
		"2024-01-post": "2024-01-post",
	}
	for in, want := range tests {
		if got := EncodePathSegment(in); got != want {
			t.Errorf("EncodePathSegment(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLink(t *testing.T) {
	if got := (BlogPost{Slug: "a/b"}).Link(); got != "/blog/a%2Fb" {
		t.Errorf("Link() = %q", got)
	}
}
