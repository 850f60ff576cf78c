// Package garmin is a client for the Garmin Connect private REST API.
//
// A Client owns one logical session: it restores persisted OAuth tokens or
// logs in with account credentials, then dispatches authenticated requests
// against the endpoint catalog. Once logged in, issuing requests from
// multiple goroutines is safe; login and token refresh are serialized
// internally.
package garmin

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	go_json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/garrettladley/gconnect/internal/credstore"
	"github.com/garrettladley/gconnect/internal/xhttp"
	"github.com/garrettladley/gconnect/internal/xslog"
)

const (
	defaultDomain = "garmin.com"

	// tokenSourceTimeout bounds a refresh triggered from inside the
	// transport, which has no request context of its own.
	tokenSourceTimeout = 15 * time.Second
)

// MFAPrompt supplies the second-factor code when the service demands one
// during login. It is invoked at most once per login attempt.
type MFAPrompt func(ctx context.Context) (string, error)

type Client struct {
	User      UserService
	Wellness  WellnessService
	Weight    WeightService
	Activity  ActivityService
	Device    DeviceService
	Challenge ChallengeService

	apiURL string
	ssoURL string

	httpClient *http.Client // bearer-authenticated
	ssoClient  *http.Client // pre-authentication calls
	logger     *slog.Logger

	store     credstore.Store
	email     string
	password  string
	mfaPrompt MFAPrompt

	// session state; loginMu serializes Login, mu guards the fields.
	loginMu sync.Mutex
	mu      sync.Mutex
	oauth1  *credstore.OAuth1Token
	oauth2  *credstore.OAuth2Token
	profile profileSnapshot

	refreshGroup singleflight.Group
}

type profileSnapshot struct {
	displayName string
	fullName    string
	unitSystem  string
}

type clientConfig struct {
	domain    string
	apiURL    string
	ssoURL    string
	timeout   time.Duration
	logger    *slog.Logger
	mfaPrompt MFAPrompt
}

type Option func(*clientConfig)

// WithDomain points the client at another Garmin deployment (garmin.cn).
func WithDomain(domain string) Option {
	return func(cfg *clientConfig) { cfg.domain = domain }
}

// WithAPIURL overrides the API base URL. Intended for tests.
func WithAPIURL(u string) Option {
	return func(cfg *clientConfig) { cfg.apiURL = u }
}

// WithSSOURL overrides the SSO base URL. Intended for tests.
func WithSSOURL(u string) Option {
	return func(cfg *clientConfig) { cfg.ssoURL = u }
}

func WithTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) { cfg.timeout = d }
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *clientConfig) { cfg.logger = logger }
}

// WithMFAPrompt installs the second-factor challenge provider. Without one,
// a login that hits an MFA challenge fails.
func WithMFAPrompt(prompt MFAPrompt) Option {
	return func(cfg *clientConfig) { cfg.mfaPrompt = prompt }
}

// New builds a client for a single Garmin account. The store holds the
// persisted token pair; email and password are only used when no stored
// session can be restored.
func New(store credstore.Store, email, password string, opts ...Option) *Client {
	cfg := &clientConfig{
		domain:  defaultDomain,
		timeout: xhttp.DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.apiURL == "" {
		cfg.apiURL = "https://connectapi." + cfg.domain
	}
	if cfg.ssoURL == "" {
		cfg.ssoURL = "https://sso." + cfg.domain + "/sso"
	}

	c := &Client{
		apiURL:    cfg.apiURL,
		ssoURL:    cfg.ssoURL,
		ssoClient: xhttp.NewHTTPClient(xhttp.WithTimeout(cfg.timeout)),
		logger:    cfg.logger,
		store:     store,
		email:     email,
		password:  password,
		mfaPrompt: cfg.mfaPrompt,
	}

	transport := &garminTransport{
		base:        xhttp.NewTransport(),
		tokenSource: &sessionTokenSource{client: c},
	}
	c.httpClient = &http.Client{Transport: transport, Timeout: cfg.timeout}

	c.User = &userService{client: c}
	c.Wellness = &wellnessService{client: c}
	c.Weight = &weightService{client: c}
	c.Activity = &activityService{client: c}
	c.Device = &deviceService{client: c}
	c.Challenge = &challengeService{client: c}

	return c
}

type garminTransport struct {
	base        http.RoundTripper
	tokenSource oauth2.TokenSource
}

var _ http.RoundTripper = (*garminTransport)(nil)

func (t *garminTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.tokenSource.Token()
	if err != nil {
		return nil, fmt.Errorf("getting token: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("round trip: %w", err)
	}
	return resp, nil
}

// sessionTokenSource hands the transport the session's current access
// token, refreshing proactively when it has expired.
type sessionTokenSource struct {
	client *Client
}

var _ oauth2.TokenSource = (*sessionTokenSource)(nil)

func (s *sessionTokenSource) Token() (*oauth2.Token, error) {
	_, oauth2Token := s.client.credentials()
	if oauth2Token == nil {
		return nil, &AuthError{Message: "no session, call Login first"}
	}

	if !oauth2Token.Expired() {
		return oauth2Token.Token(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), tokenSourceTimeout)
	defer cancel()

	fresh, err := s.client.refresh(ctx)
	if err != nil {
		return nil, err
	}
	return fresh.Token(), nil
}

func (c *Client) credentials() (*credstore.OAuth1Token, *credstore.OAuth2Token) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.oauth1, c.oauth2
}

func (c *Client) setCredentials(oauth1 *credstore.OAuth1Token, oauth2Token *credstore.OAuth2Token) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if oauth1 != nil {
		c.oauth1 = oauth1
	}
	if oauth2Token != nil {
		c.oauth2 = oauth2Token
	}
}

// refresh exchanges the stored refresh token for a new OAuth2 token and
// persists it. Concurrent callers share one in-flight refresh.
func (c *Client) refresh(ctx context.Context) (*credstore.OAuth2Token, error) {
	v, err, _ := c.refreshGroup.Do("oauth2", func() (any, error) {
		oauth1, oauth2Token := c.credentials()
		if oauth2Token == nil || oauth2Token.RefreshToken == "" || oauth2Token.RefreshExpired() {
			return nil, &AuthError{Message: "no usable refresh token"}
		}

		fresh, err := c.exchange(ctx, oauth1, oauth2Token.RefreshToken)
		if err != nil {
			return nil, err
		}

		c.setCredentials(nil, fresh)
		if err := c.store.Save(ctx, nil, fresh); err != nil {
			return nil, fmt.Errorf("persisting refreshed token: %w", err)
		}

		c.logger.Debug("refreshed oauth2 token")
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*credstore.OAuth2Token), nil
}

// call dispatches an operation and decodes its JSON response into result.
// A nil result discards the body.
func (c *Client) call(ctx context.Context, op Operation, params Params, query url.Values, body, result any) error {
	var payload []byte
	var contentType string
	if body != nil {
		b, err := go_json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s request: %w", op, err)
		}
		payload = b
		contentType = "application/json"
	}

	raw, err := c.dispatch(ctx, op, params, query, payload, contentType)
	if err != nil {
		return err
	}

	if result == nil || len(raw) == 0 {
		return nil
	}
	if err := go_json.Unmarshal(raw, result); err != nil {
		return fmt.Errorf("decoding %s response: %w\nbody: %s", op, err, string(raw))
	}
	return nil
}

// download dispatches an operation and returns the raw response bytes,
// for endpoints that serve FIT, TCX, GPX, KML, or CSV payloads.
func (c *Client) download(ctx context.Context, op Operation, params Params) ([]byte, error) {
	return c.dispatch(ctx, op, params, nil, nil, "")
}

// dispatch resolves the operation, executes it with bearer auth, and
// classifies failures. A 401 triggers exactly one token refresh and one
// retry; a second 401 is final.
func (c *Client) dispatch(ctx context.Context, op Operation, params Params, query url.Values, payload []byte, contentType string) ([]byte, error) {
	method, path, err := resolve(op, params)
	if err != nil {
		return nil, err
	}

	u := c.apiURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	requestID := uuid.New().String()
	start := time.Now()

	body, status, header, err := c.doOnce(ctx, method, u, payload, contentType)
	if err != nil {
		c.logger.Debug("request failed",
			xslog.RequestID(requestID),
			xslog.Op(string(op)),
			xslog.Error(err),
		)
		return nil, err
	}

	if status == http.StatusUnauthorized {
		if _, err := c.refresh(ctx); err != nil {
			return nil, err
		}
		body, status, header, err = c.doOnce(ctx, method, u, payload, contentType)
		if err != nil {
			return nil, err
		}
		if status == http.StatusUnauthorized {
			return nil, &AuthError{Message: "request unauthorized after token refresh"}
		}
	}

	c.logger.Debug("dispatched request",
		xslog.RequestID(requestID),
		xslog.Op(string(op)),
		slog.String("method", method),
		xslog.HTTPStatus(status),
		xslog.Duration(time.Since(start)),
	)

	switch {
	case status == http.StatusTooManyRequests:
		return nil, &RateLimitError{RetryAfter: retryAfter(header)}
	case status >= 400:
		return nil, &APIError{StatusCode: status, Body: string(body)}
	}

	// The service denies access to some resources with a 200 and a privacy
	// flag instead of a plain 401.
	if isJSONResponse(header) && gjson.GetBytes(body, "privacyProtected").Bool() {
		return nil, &AuthError{Message: "resource is privacy protected"}
	}

	return body, nil
}

func (c *Client) doOnce(ctx context.Context, method, u string, payload []byte, contentType string) ([]byte, int, http.Header, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("creating request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("reading response: %w", err)
	}

	return body, resp.StatusCode, resp.Header, nil
}

// uploadFile posts a single file as multipart form data to the upload
// endpoint.
func (c *Client) uploadFile(ctx context.Context, op Operation, filename string, data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("building upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("building upload form: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("building upload form: %w", err)
	}

	return c.dispatch(ctx, op, nil, nil, buf.Bytes(), w.FormDataContentType())
}

func isJSONResponse(header http.Header) bool {
	return strings.Contains(header.Get("Content-Type"), "json")
}

func retryAfter(header http.Header) time.Duration {
	raw := header.Get("Retry-After")
	if raw == "" {
		return 0
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
