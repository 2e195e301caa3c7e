// Package http provides the outbound HTTP client and the health probe used by the CLI.
package http

import (
	"net"
	"net/http"
	"time"
)

// DefaultUserAgent identifies healthcheck requests in the server's access log.
const DefaultUserAgent = "nexusauth-healthcheck"

// NewHTTPClient creates the client the healthcheck command uses against a running server.
//
// A healthcheck is a single request, so connections are not pooled and the dial
// and TLS handshake share the caller's timeout. Redirects are returned to the
// caller instead of followed: a health endpoint that redirects is misrouted.
func NewHTTPClient(timeout time.Duration, userAgent string) *http.Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout: timeout,
		}).DialContext,
		TLSHandshakeTimeout: timeout,
		DisableKeepAlives:   true,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &userAgentTransport{base: t, userAgent: userAgent},
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(req)
}
