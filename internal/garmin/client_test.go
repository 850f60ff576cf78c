package garmin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/garrettladley/gconnect/internal/credstore"
)

func testOAuth1() *credstore.OAuth1Token {
	return &credstore.OAuth1Token{
		Token:  "oauth1-token",
		Secret: "oauth1-secret",
		Domain: "garmin.com",
	}
}

func testOAuth2() *credstore.OAuth2Token {
	now := time.Now().Unix()
	return &credstore.OAuth2Token{
		TokenType:             "Bearer",
		AccessToken:           "access-token",
		RefreshToken:          "refresh-token",
		ExpiresAt:             now + 3600,
		RefreshTokenExpiresAt: now + 7200,
	}
}

// newSessionClient builds a client against srv with an already-established
// session, skipping the login flow.
func newSessionClient(t *testing.T, srv *httptest.Server) (*Client, *credstore.MemoryStore) {
	t.Helper()

	store := credstore.NewMemoryStore()
	if err := store.Save(context.Background(), testOAuth1(), testOAuth2()); err != nil {
		t.Fatalf("seeding store: %v", err)
	}

	c := New(store, "user@example.com", "hunter2",
		WithAPIURL(srv.URL),
		WithSSOURL(srv.URL+"/sso"),
	)
	c.setCredentials(testOAuth1(), testOAuth2())
	return c, store
}

func serveJSON(t *testing.T, w http.ResponseWriter, status int, body string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		t.Errorf("writing response: %v", err)
	}
}

func TestDispatchRefreshesOnceOn401(t *testing.T) {
	t.Parallel()

	var profileCalls, exchangeCalls atomic.Int64

	mux := http.NewServeMux()
	mux.HandleFunc("/userprofile-service/socialProfile", func(w http.ResponseWriter, r *http.Request) {
		if profileCalls.Add(1) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer fresh-access" {
			t.Errorf("retry Authorization = %q, want refreshed token", got)
		}
		serveJSON(t, w, http.StatusOK, `{"displayName":"abc-123","fullName":"Test User"}`)
	})
	mux.HandleFunc("/oauth-service/oauth/exchange/user/2.0", func(w http.ResponseWriter, r *http.Request) {
		exchangeCalls.Add(1)
		if got := r.FormValue("refresh_token"); got != "refresh-token" {
			t.Errorf("exchange refresh_token = %q", got)
		}
		serveJSON(t, w, http.StatusOK,
			`{"access_token":"fresh-access","refresh_token":"fresh-refresh","expires_in":3600,"refresh_token_expires_in":7200}`)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, store := newSessionClient(t, srv)

	profile, err := c.User.Profile(context.Background())
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if profile.DisplayName != "abc-123" {
		t.Errorf("DisplayName = %q, want abc-123", profile.DisplayName)
	}
	if got := profileCalls.Load(); got != 2 {
		t.Errorf("profile endpoint hit %d times, want 2", got)
	}
	if got := exchangeCalls.Load(); got != 1 {
		t.Errorf("exchange endpoint hit %d times, want 1", got)
	}

	_, oauth2Token, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if oauth2Token.AccessToken != "fresh-access" {
		t.Errorf("persisted access token = %q, want fresh-access", oauth2Token.AccessToken)
	}
}

// Racing callers that all observe an expired access token must share one
// in-flight refresh: the exchange endpoint is hit once, and every caller
// proceeds with the refreshed token.
func TestConcurrentCallersShareOneRefresh(t *testing.T) {
	t.Parallel()

	var exchangeCalls atomic.Int64

	mux := http.NewServeMux()
	mux.HandleFunc("/userprofile-service/socialProfile", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer fresh-access" {
			t.Errorf("Authorization = %q, want refreshed token", got)
		}
		serveJSON(t, w, http.StatusOK, `{"displayName":"abc-123","fullName":"Test User"}`)
	})
	mux.HandleFunc("/oauth-service/oauth/exchange/user/2.0", func(w http.ResponseWriter, r *http.Request) {
		exchangeCalls.Add(1)
		// Hold the refresh long enough for every caller to pile up on it.
		time.Sleep(100 * time.Millisecond)
		serveJSON(t, w, http.StatusOK,
			`{"access_token":"fresh-access","refresh_token":"fresh-refresh","expires_in":3600,"refresh_token_expires_in":7200}`)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, _ := newSessionClient(t, srv)

	stale := testOAuth2()
	stale.ExpiresAt = time.Now().Unix() - 60
	c.setCredentials(nil, stale)

	const callers = 8
	start := make(chan struct{})
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = c.User.Profile(context.Background())
		}(i)
	}
	close(start)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("caller %d: Profile() error = %v", i, err)
		}
	}
	if got := exchangeCalls.Load(); got != 1 {
		t.Errorf("exchange endpoint hit %d times for %d concurrent callers, want 1", got, callers)
	}
}

func TestDispatchSecond401IsFinal(t *testing.T) {
	t.Parallel()

	var profileCalls atomic.Int64

	mux := http.NewServeMux()
	mux.HandleFunc("/userprofile-service/socialProfile", func(w http.ResponseWriter, r *http.Request) {
		profileCalls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/oauth-service/oauth/exchange/user/2.0", func(w http.ResponseWriter, r *http.Request) {
		serveJSON(t, w, http.StatusOK, `{"access_token":"fresh-access","expires_in":3600}`)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, _ := newSessionClient(t, srv)

	_, err := c.User.Profile(context.Background())
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("Profile() error = %v, want *AuthError", err)
	}
	if got := profileCalls.Load(); got != 2 {
		t.Errorf("profile endpoint hit %d times, want exactly 2", got)
	}
}

func TestDispatchRateLimited(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/userprofile-service/socialProfile", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, _ := newSessionClient(t, srv)

	_, err := c.User.Profile(context.Background())
	var rateErr *RateLimitError
	if !errors.As(err, &rateErr) {
		t.Fatalf("Profile() error = %v, want *RateLimitError", err)
	}
	if rateErr.RetryAfter != 30*time.Second {
		t.Errorf("RetryAfter = %v, want 30s", rateErr.RetryAfter)
	}
}

func TestDispatchAPIError(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/userprofile-service/socialProfile", func(w http.ResponseWriter, r *http.Request) {
		serveJSON(t, w, http.StatusInternalServerError, `{"message":"boom"}`)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, _ := newSessionClient(t, srv)

	_, err := c.User.Profile(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Profile() error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", apiErr.StatusCode)
	}
}

func TestDispatchPrivacyProtected(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/usersummary-service/usersummary/daily/abc-123", func(w http.ResponseWriter, r *http.Request) {
		serveJSON(t, w, http.StatusOK, `{"userProfileId":1,"privacyProtected":true}`)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, _ := newSessionClient(t, srv)
	c.mu.Lock()
	c.profile.displayName = "abc-123"
	c.mu.Unlock()

	_, err := c.Wellness.Summary(context.Background(), time.Now())
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("Summary() error = %v, want *AuthError", err)
	}
}

func TestDownloadReturnsRawBytes(t *testing.T) {
	t.Parallel()

	payload := []byte("<TrainingCenterDatabase/>")

	mux := http.NewServeMux()
	mux.HandleFunc("/download-service/export/tcx/activity/42", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(payload)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, _ := newSessionClient(t, srv)

	got, err := c.Activity.Download(context.Background(), 42, FormatTCX)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("Download() = %q, want %q", got, payload)
	}
}

func TestDownloadUnknownFormat(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be issued for an unknown format")
	}))
	defer srv.Close()

	c, _ := newSessionClient(t, srv)

	_, err := c.Activity.Download(context.Background(), 42, DownloadFormat("pdf"))
	var formatErr *FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("Download() error = %v, want *FormatError", err)
	}
}

func TestDispatchUnknownOperation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be issued for an unknown operation")
	}))
	defer srv.Close()

	c, _ := newSessionClient(t, srv)

	err := c.call(context.Background(), Operation("nope"), nil, nil, nil, nil)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("call() error = %v, want *ConfigError", err)
	}
}
