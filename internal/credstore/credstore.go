// Package credstore persists the paired Garmin OAuth credentials between
// process runs. The long-lived OAuth1 token mints short-lived OAuth2 tokens;
// both are stored together and loaded together.
//
// The JSON field names match the schema used by the upstream authentication
// protocol, so persisted tokens are interchangeable with other Garmin Connect
// client implementations.
package credstore

import (
	"context"
	"errors"
	"time"

	"golang.org/x/oauth2"
)

var (
	// ErrNotFound is returned by Load when either credential record is absent.
	ErrNotFound = errors.New("no stored credentials")

	// ErrCorrupt is returned by Load when a record exists but cannot be
	// parsed into the expected schema.
	ErrCorrupt = errors.New("stored credentials corrupt")
)

// OAuth1Token is the long-lived credential issued after SSO login.
type OAuth1Token struct {
	Token    string `json:"oauth_token"`
	Secret   string `json:"oauth_token_secret"`
	MFAToken string `json:"mfa_token,omitempty"`
	Domain   string `json:"domain"`
}

// OAuth2Token is the short-lived credential that authorizes API requests.
// ExpiresAt and RefreshTokenExpiresAt are unix seconds.
type OAuth2Token struct {
	Scope                 string `json:"scope"`
	JTI                   string `json:"jti"`
	TokenType             string `json:"token_type"`
	AccessToken           string `json:"access_token"`
	RefreshToken          string `json:"refresh_token"`
	ExpiresIn             int64  `json:"expires_in"`
	ExpiresAt             int64  `json:"expires_at"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
	RefreshTokenExpiresAt int64  `json:"refresh_token_expires_at"`
}

// Expired reports whether the access token is past its expiry.
func (t *OAuth2Token) Expired() bool {
	return time.Now().Unix() >= t.ExpiresAt
}

// RefreshExpired reports whether the refresh token is past its expiry.
// A zero RefreshTokenExpiresAt means the server did not bound it.
func (t *OAuth2Token) RefreshExpired() bool {
	return t.RefreshTokenExpiresAt != 0 && time.Now().Unix() >= t.RefreshTokenExpiresAt
}

// Usable reports whether the token can still authorize requests, either
// directly or after a refresh.
func (t *OAuth2Token) Usable() bool {
	if !t.Expired() {
		return true
	}
	return t.RefreshToken != "" && !t.RefreshExpired()
}

// Token converts to the x/oauth2 representation used by the HTTP transport.
func (t *OAuth2Token) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshToken,
		Expiry:       time.Unix(t.ExpiresAt, 0),
	}
}

// Store is a durable home for the credential pair. Implementations must
// treat Load as all-or-nothing: both tokens or an error.
//
// Save overwrites each provided credential entirely. A nil argument leaves
// that credential unchanged, so a token refresh can persist only the OAuth2
// half.
type Store interface {
	Load(ctx context.Context) (*OAuth1Token, *OAuth2Token, error)
	Save(ctx context.Context, oauth1 *OAuth1Token, oauth2 *OAuth2Token) error
}
