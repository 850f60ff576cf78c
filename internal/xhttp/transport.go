package xhttp

import (
	"fmt"
	"net/http"
	"time"

	"github.com/garrettladley/gconnect/internal/version"
)

// DefaultTimeout bounds every request the module issues unless a client
// overrides it. Garmin's SSO host is slow on cold logins, so this is
// generous.
const DefaultTimeout = 30 * time.Second

type gconnectTransport struct {
	base http.RoundTripper
}

var _ http.RoundTripper = (*gconnectTransport)(nil)

func (t *gconnectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", "gconnect/"+version.Get())
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform round trip: %w", err)
	}
	return resp, nil
}

// NewTransport returns an http.RoundTripper with standard gconnect headers.
func NewTransport() http.RoundTripper {
	return &gconnectTransport{base: http.DefaultTransport}
}

type ClientOption func(*http.Client)

func WithTimeout(d time.Duration) ClientOption {
	return func(c *http.Client) { c.Timeout = d }
}

// NewHTTPClient builds the plain client used for pre-authentication SSO
// calls: gconnect User-Agent and DefaultTimeout, no bearer token.
func NewHTTPClient(opts ...ClientOption) *http.Client {
	c := &http.Client{Transport: NewTransport(), Timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
