package garmin

import (
	"context"
	"errors"
	"fmt"

	"github.com/garrettladley/gconnect/internal/credstore"
)

// RestoreResult reports how a restore attempt ended. A failed restore is an
// expected outcome, not an error: the reason says why interactive login is
// needed.
type RestoreResult struct {
	Restored bool
	Reason   string
}

func needsLogin(reason string) RestoreResult {
	return RestoreResult{Reason: reason}
}

// Login makes the session usable: it restores the persisted token pair if
// possible, otherwise performs a credential login (with one optional
// second-factor round) and persists the fresh pair. On either path the user
// profile snapshot is fetched before Login returns.
//
// At most one Login runs at a time. After a failed Login the session is not
// usable; call Login again to retry.
func (c *Client) Login(ctx context.Context) error {
	c.loginMu.Lock()
	defer c.loginMu.Unlock()

	result, err := c.restore(ctx)
	if err != nil {
		return err
	}
	if result.Restored {
		c.logger.Info("restored session from token store")
		return nil
	}

	c.logger.Info("stored session unusable, logging in with credentials",
		"reason", result.Reason)

	return c.credentialLogin(ctx)
}

// restore loads the persisted pair and verifies it by fetching the profile
// snapshot. Missing, corrupt, or rejected credentials mean NeedsLogin;
// anything else (store outage, network failure) is a real error.
func (c *Client) restore(ctx context.Context) (RestoreResult, error) {
	oauth1, oauth2Token, err := c.store.Load(ctx)
	switch {
	case errors.Is(err, credstore.ErrNotFound):
		return needsLogin("no stored credentials"), nil
	case errors.Is(err, credstore.ErrCorrupt):
		return needsLogin("stored credentials unreadable"), nil
	case err != nil:
		return RestoreResult{}, fmt.Errorf("loading stored credentials: %w", err)
	}

	if !oauth2Token.Usable() {
		return needsLogin("stored tokens expired"), nil
	}

	c.setCredentials(oauth1, oauth2Token)

	if err := c.hydrateProfile(ctx); err != nil {
		var authErr *AuthError
		if errors.As(err, &authErr) {
			c.clearSession()
			return needsLogin("stored tokens rejected by the service"), nil
		}
		return RestoreResult{}, err
	}

	return RestoreResult{Restored: true}, nil
}

func (c *Client) credentialLogin(ctx context.Context) error {
	if c.email == "" || c.password == "" {
		return &AuthError{Message: "no credentials configured for interactive login"}
	}

	oauth1, oauth2Token, err := c.ssoLogin(ctx)
	if err != nil {
		return err
	}

	c.setCredentials(oauth1, oauth2Token)

	if err := c.hydrateProfile(ctx); err != nil {
		return err
	}

	// Persist only on the fresh-login path; a restored pair is already on
	// disk.
	if err := c.store.Save(ctx, oauth1, oauth2Token); err != nil {
		return fmt.Errorf("persisting credentials: %w", err)
	}

	c.logger.Info("logged in with credentials", "display_name", c.DisplayName())
	return nil
}

// hydrateProfile caches the profile fields several endpoint templates need,
// and doubles as the session verification call.
func (c *Client) hydrateProfile(ctx context.Context) error {
	profile, err := c.User.Profile(ctx)
	if err != nil {
		return err
	}

	settings, err := c.User.Settings(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.profile = profileSnapshot{
		displayName: profile.DisplayName,
		fullName:    profile.FullName,
		unitSystem:  settings.UserData.MeasurementSystem,
	}
	c.mu.Unlock()

	return nil
}

func (c *Client) clearSession() {
	c.mu.Lock()
	c.oauth1 = nil
	c.oauth2 = nil
	c.profile = profileSnapshot{}
	c.mu.Unlock()
}

// Logout drops the in-memory session. It is local-only: server-side state
// and the persisted token pair are untouched.
func (c *Client) Logout() {
	c.clearSession()
}

// DisplayName returns the service-side identifier cached at login. Empty
// before a successful Login.
func (c *Client) DisplayName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profile.displayName
}

func (c *Client) FullName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profile.fullName
}

func (c *Client) UnitSystem() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profile.unitSystem
}

// displayNameParam is the guard for endpoints whose path embeds the
// profile identifier. It fails fast instead of issuing a request with an
// empty path segment.
func (c *Client) displayNameParam() (string, error) {
	name := c.DisplayName()
	if name == "" {
		return "", &AuthError{Message: "no active session, call Login first"}
	}
	return name, nil
}
