package xhttp

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestTransportSetsUserAgent(t *testing.T) {
	t.Parallel()

	var gotUserAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	c := NewHTTPClient()
	resp, err := c.Get(srv.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	_ = resp.Body.Close()

	if !strings.HasPrefix(gotUserAgent, "gconnect/") {
		t.Errorf("User-Agent = %q, want gconnect/<version>", gotUserAgent)
	}
}

func TestNewHTTPClientTimeout(t *testing.T) {
	t.Parallel()

	if got := NewHTTPClient().Timeout; got != DefaultTimeout {
		t.Errorf("default Timeout = %v, want %v", got, DefaultTimeout)
	}

	if got := NewHTTPClient(WithTimeout(5 * time.Second)).Timeout; got != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", got)
	}
}
