package garmin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	go_json "github.com/goccy/go-json"

	"github.com/garrettladley/gconnect/internal/credstore"
)

// SSO endpoint paths, relative to the sso and api hosts.
const (
	ssoSigninPath    = "/signin"
	ssoVerifyMFAPath = "/verifyMFA"

	oauthPreauthorizedPath = "/oauth-service/oauth/preauthorized"
	oauthExchangePath      = "/oauth-service/oauth/exchange/user/2.0"
)

const mfaRequiredStatus = "MFA_REQUIRED"

type signinResponse struct {
	ServiceTicket string `json:"serviceTicket"`
	Status        string `json:"status"`
}

// ssoLogin performs the full credential exchange: signin (with one optional
// second-factor round), ticket to OAuth1, OAuth1 to OAuth2.
func (c *Client) ssoLogin(ctx context.Context) (*credstore.OAuth1Token, *credstore.OAuth2Token, error) {
	ticket, err := c.signin(ctx)
	if err != nil {
		return nil, nil, err
	}

	oauth1, err := c.preauthorized(ctx, ticket)
	if err != nil {
		return nil, nil, err
	}

	oauth2Token, err := c.exchange(ctx, oauth1, "")
	if err != nil {
		return nil, nil, err
	}

	return oauth1, oauth2Token, nil
}

func (c *Client) signin(ctx context.Context) (string, error) {
	form := url.Values{
		"username": {c.email},
		"password": {c.password},
		"embed":    {"true"},
	}

	var resp signinResponse
	if err := c.ssoPost(ctx, c.ssoURL+ssoSigninPath, form, &resp); err != nil {
		return "", err
	}

	if resp.Status == mfaRequiredStatus {
		return c.verifyMFA(ctx)
	}
	if resp.ServiceTicket == "" {
		return "", &AuthError{Message: "signin returned no service ticket"}
	}
	return resp.ServiceTicket, nil
}

// verifyMFA runs the second-factor round. The prompt is invoked exactly
// once; its code is submitted and either yields a ticket or fails the login.
func (c *Client) verifyMFA(ctx context.Context) (string, error) {
	if c.mfaPrompt == nil {
		return "", &AuthError{Message: "account requires a second factor but no MFA prompt is configured"}
	}

	code, err := c.mfaPrompt(ctx)
	if err != nil {
		return "", &AuthError{Message: "second factor prompt failed", Cause: err}
	}

	form := url.Values{"mfa-code": {code}}

	var resp signinResponse
	if err := c.ssoPost(ctx, c.ssoURL+ssoVerifyMFAPath, form, &resp); err != nil {
		return "", err
	}
	if resp.ServiceTicket == "" {
		return "", &AuthError{Message: "second factor verification returned no service ticket"}
	}
	return resp.ServiceTicket, nil
}

func (c *Client) preauthorized(ctx context.Context, ticket string) (*credstore.OAuth1Token, error) {
	form := url.Values{"ticket": {ticket}}

	var oauth1 credstore.OAuth1Token
	if err := c.ssoPost(ctx, c.apiURL+oauthPreauthorizedPath, form, &oauth1); err != nil {
		return nil, err
	}
	if oauth1.Token == "" || oauth1.Secret == "" {
		return nil, &AuthError{Message: "ticket exchange returned no oauth1 token"}
	}
	if oauth1.Domain == "" {
		oauth1.Domain = defaultDomain
	}
	return &oauth1, nil
}

type exchangeResponse struct {
	Scope                 string `json:"scope"`
	JTI                   string `json:"jti"`
	TokenType             string `json:"token_type"`
	AccessToken           string `json:"access_token"`
	RefreshToken          string `json:"refresh_token"`
	ExpiresIn             int64  `json:"expires_in"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
}

// exchange mints an OAuth2 token from the OAuth1 credential. A non-empty
// refreshToken requests a refresh of an existing grant instead of a new one.
func (c *Client) exchange(ctx context.Context, oauth1 *credstore.OAuth1Token, refreshToken string) (*credstore.OAuth2Token, error) {
	if oauth1 == nil {
		return nil, &AuthError{Message: "no oauth1 credential to exchange"}
	}

	form := url.Values{
		"oauth_token":        {oauth1.Token},
		"oauth_token_secret": {oauth1.Secret},
	}
	if refreshToken != "" {
		form.Set("refresh_token", refreshToken)
	}

	var resp exchangeResponse
	if err := c.ssoPost(ctx, c.apiURL+oauthExchangePath, form, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, &AuthError{Message: "token exchange returned no access token"}
	}

	now := time.Now().Unix()
	token := &credstore.OAuth2Token{
		Scope:                 resp.Scope,
		JTI:                   resp.JTI,
		TokenType:             resp.TokenType,
		AccessToken:           resp.AccessToken,
		RefreshToken:          resp.RefreshToken,
		ExpiresIn:             resp.ExpiresIn,
		ExpiresAt:             now + resp.ExpiresIn,
		RefreshTokenExpiresIn: resp.RefreshTokenExpiresIn,
	}
	if resp.RefreshTokenExpiresIn > 0 {
		token.RefreshTokenExpiresAt = now + resp.RefreshTokenExpiresIn
	}
	return token, nil
}

// ssoPost runs a form POST on the pre-authentication client and decodes a
// JSON response. 401 and 403 map to AuthError; other failures keep their
// status and body.
func (c *Client) ssoPost(ctx context.Context, u string, form url.Values, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.ssoClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{Message: "authentication rejected"}
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{RetryAfter: retryAfter(resp.Header)}
	case resp.StatusCode >= 400:
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if result == nil || len(body) == 0 {
		return nil
	}
	if err := go_json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("decoding response: %w\nbody: %s", err, string(body))
	}
	return nil
}
