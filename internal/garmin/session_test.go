package garmin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/garrettladley/gconnect/internal/credstore"
)

// fakeGarmin is a minimal SSO plus API backend for exercising the login
// state machine.
type fakeGarmin struct {
	mfaRequired bool
	mfaRejects  bool

	signinCalls  atomic.Int64
	mfaCalls     atomic.Int64
	exchangeCall atomic.Int64
}

func (f *fakeGarmin) handler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/sso/signin", func(w http.ResponseWriter, r *http.Request) {
		f.signinCalls.Add(1)
		if got := r.FormValue("username"); got != "user@example.com" {
			t.Errorf("signin username = %q", got)
		}
		if f.mfaRequired {
			serveJSON(t, w, http.StatusOK, `{"status":"MFA_REQUIRED"}`)
			return
		}
		serveJSON(t, w, http.StatusOK, `{"serviceTicket":"ticket-1"}`)
	})

	mux.HandleFunc("/sso/verifyMFA", func(w http.ResponseWriter, r *http.Request) {
		f.mfaCalls.Add(1)
		if f.mfaRejects {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if got := r.FormValue("mfa-code"); got != "123456" {
			t.Errorf("verifyMFA code = %q", got)
		}
		serveJSON(t, w, http.StatusOK, `{"serviceTicket":"ticket-mfa"}`)
	})

	mux.HandleFunc("/oauth-service/oauth/preauthorized", func(w http.ResponseWriter, r *http.Request) {
		serveJSON(t, w, http.StatusOK,
			`{"oauth_token":"fresh-oauth1","oauth_token_secret":"fresh-secret","domain":"garmin.com"}`)
	})

	mux.HandleFunc("/oauth-service/oauth/exchange/user/2.0", func(w http.ResponseWriter, r *http.Request) {
		f.exchangeCall.Add(1)
		serveJSON(t, w, http.StatusOK,
			`{"access_token":"new-access","refresh_token":"new-refresh","expires_in":3600,"refresh_token_expires_in":7200}`)
	})

	mux.HandleFunc("/userprofile-service/socialProfile", func(w http.ResponseWriter, r *http.Request) {
		serveJSON(t, w, http.StatusOK, `{"displayName":"abc-123","fullName":"Test User"}`)
	})

	mux.HandleFunc("/userprofile-service/userprofile/user-settings", func(w http.ResponseWriter, r *http.Request) {
		serveJSON(t, w, http.StatusOK, `{"userData":{"measurementSystem":"metric"}}`)
	})

	return mux
}

func newLoginClient(t *testing.T, fake *fakeGarmin, opts ...Option) (*Client, *credstore.MemoryStore) {
	t.Helper()

	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	store := credstore.NewMemoryStore()
	opts = append([]Option{
		WithAPIURL(srv.URL),
		WithSSOURL(srv.URL + "/sso"),
	}, opts...)
	return New(store, "user@example.com", "hunter2", opts...), store
}

func TestLoginRestoresStoredSession(t *testing.T) {
	t.Parallel()

	fake := &fakeGarmin{}
	c, store := newLoginClient(t, fake)

	if err := store.Save(context.Background(), testOAuth1(), testOAuth2()); err != nil {
		t.Fatalf("seeding store: %v", err)
	}

	if err := c.Login(context.Background()); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if got := fake.signinCalls.Load(); got != 0 {
		t.Errorf("signin hit %d times on restore, want 0", got)
	}
	if got := c.DisplayName(); got != "abc-123" {
		t.Errorf("DisplayName() = %q, want abc-123", got)
	}
	if got := c.UnitSystem(); got != "metric" {
		t.Errorf("UnitSystem() = %q, want metric", got)
	}
}

func TestLoginFallsBackToCredentials(t *testing.T) {
	t.Parallel()

	fake := &fakeGarmin{}
	c, store := newLoginClient(t, fake)

	if err := c.Login(context.Background()); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if got := fake.signinCalls.Load(); got != 1 {
		t.Errorf("signin hit %d times, want 1", got)
	}

	oauth1, oauth2Token, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() after login error = %v", err)
	}
	if oauth1.Token != "fresh-oauth1" {
		t.Errorf("persisted oauth1 token = %q, want fresh-oauth1", oauth1.Token)
	}
	if oauth2Token.AccessToken != "new-access" {
		t.Errorf("persisted access token = %q, want new-access", oauth2Token.AccessToken)
	}
	if oauth2Token.ExpiresAt <= time.Now().Unix() {
		t.Errorf("persisted token already expired at %d", oauth2Token.ExpiresAt)
	}
}

func TestLoginWithExpiredStoredTokens(t *testing.T) {
	t.Parallel()

	fake := &fakeGarmin{}
	c, store := newLoginClient(t, fake)

	stale := testOAuth2()
	stale.ExpiresAt = time.Now().Unix() - 7200
	stale.RefreshTokenExpiresAt = time.Now().Unix() - 3600
	if err := store.Save(context.Background(), testOAuth1(), stale); err != nil {
		t.Fatalf("seeding store: %v", err)
	}

	if err := c.Login(context.Background()); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if got := fake.signinCalls.Load(); got != 1 {
		t.Errorf("signin hit %d times, want 1", got)
	}
}

func TestLoginMFAPromptInvokedOnce(t *testing.T) {
	t.Parallel()

	fake := &fakeGarmin{mfaRequired: true}

	var promptCalls atomic.Int64
	prompt := func(ctx context.Context) (string, error) {
		promptCalls.Add(1)
		return "123456", nil
	}

	c, _ := newLoginClient(t, fake, WithMFAPrompt(prompt))

	if err := c.Login(context.Background()); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if got := promptCalls.Load(); got != 1 {
		t.Errorf("MFA prompt invoked %d times, want exactly 1", got)
	}
	if got := fake.mfaCalls.Load(); got != 1 {
		t.Errorf("verifyMFA hit %d times, want 1", got)
	}
}

func TestLoginMFAWithoutPrompt(t *testing.T) {
	t.Parallel()

	fake := &fakeGarmin{mfaRequired: true}
	c, store := newLoginClient(t, fake)

	err := c.Login(context.Background())
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("Login() error = %v, want *AuthError", err)
	}

	if _, _, err := store.Load(context.Background()); !errors.Is(err, credstore.ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound after failed login", err)
	}
}

func TestLoginMFARejected(t *testing.T) {
	t.Parallel()

	fake := &fakeGarmin{mfaRequired: true, mfaRejects: true}

	prompt := func(ctx context.Context) (string, error) {
		return "000000", nil
	}
	c, store := newLoginClient(t, fake, WithMFAPrompt(prompt))

	err := c.Login(context.Background())
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("Login() error = %v, want *AuthError", err)
	}

	if _, _, err := store.Load(context.Background()); !errors.Is(err, credstore.ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound after rejected second factor", err)
	}
}

func TestLogoutDropsSession(t *testing.T) {
	t.Parallel()

	fake := &fakeGarmin{}
	c, _ := newLoginClient(t, fake)

	if err := c.Login(context.Background()); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	c.Logout()

	if got := c.DisplayName(); got != "" {
		t.Errorf("DisplayName() after Logout = %q, want empty", got)
	}

	_, err := c.User.Profile(context.Background())
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("Profile() after Logout error = %v, want *AuthError", err)
	}
}
