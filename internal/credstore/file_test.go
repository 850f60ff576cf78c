package credstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokens() (*OAuth1Token, *OAuth2Token) {
	oauth1 := &OAuth1Token{
		Token:  "oauth1-token",
		Secret: "oauth1-secret",
		Domain: "garmin.com",
	}
	oauth2 := &OAuth2Token{
		Scope:                 "CONNECT_READ CONNECT_WRITE",
		JTI:                   "f2a9e271",
		TokenType:             "Bearer",
		AccessToken:           "access-token",
		RefreshToken:          "refresh-token",
		ExpiresIn:             3599,
		ExpiresAt:             1893456000,
		RefreshTokenExpiresIn: 7199,
		RefreshTokenExpiresAt: 1893459600,
	}
	return oauth1, oauth2
}

func TestFileStore_RoundTrip(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	oauth1, oauth2 := testTokens()
	require.NoError(t, store.Save(context.Background(), oauth1, oauth2))

	gotOAuth1, gotOAuth2, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, oauth1, gotOAuth1)
	assert.Equal(t, oauth2, gotOAuth2)
}

func TestFileStore_LoadMissing(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, _, err = store.Load(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_LoadOneFileMissing(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	oauth1, oauth2 := testTokens()
	require.NoError(t, store.Save(context.Background(), oauth1, oauth2))
	require.NoError(t, os.Remove(filepath.Join(store.dir, oauth2FileName)))

	// No partial loads: one missing file fails the whole pair.
	_, _, err = store.Load(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_LoadCorrupt(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	oauth1, oauth2 := testTokens()
	require.NoError(t, store.Save(context.Background(), oauth1, oauth2))
	require.NoError(t, os.WriteFile(filepath.Join(store.dir, oauth1FileName), []byte("{not json"), 0o600))

	_, _, err = store.Load(context.Background())
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestFileStore_PartialSaveLeavesOtherUntouched(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	oauth1, oauth2 := testTokens()
	require.NoError(t, store.Save(context.Background(), oauth1, oauth2))

	refreshed := *oauth2
	refreshed.AccessToken = "new-access-token"
	refreshed.ExpiresAt = oauth2.ExpiresAt + 3600
	require.NoError(t, store.Save(context.Background(), nil, &refreshed))

	gotOAuth1, gotOAuth2, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, oauth1, gotOAuth1)
	assert.Equal(t, &refreshed, gotOAuth2)
}

func TestFileStore_NoTempFilesLeftBehind(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	oauth1, oauth2 := testTokens()
	require.NoError(t, store.Save(context.Background(), oauth1, oauth2))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.False(t, strings.Contains(entry.Name(), ".tmp-"), "leftover temp file %s", entry.Name())
	}
	assert.Len(t, entries, 2)
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()

	_, _, err := store.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)

	oauth1, oauth2 := testTokens()
	require.NoError(t, store.Save(context.Background(), oauth1, oauth2))

	gotOAuth1, gotOAuth2, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, oauth1, gotOAuth1)
	assert.Equal(t, oauth2, gotOAuth2)
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "tokens.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, _, err = store.Load(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	oauth1, oauth2 := testTokens()
	require.NoError(t, store.Save(ctx, oauth1, oauth2))

	gotOAuth1, gotOAuth2, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, oauth1, gotOAuth1)
	assert.Equal(t, oauth2, gotOAuth2)

	refreshed := *oauth2
	refreshed.AccessToken = "rotated"
	require.NoError(t, store.Save(ctx, nil, &refreshed))

	gotOAuth1, gotOAuth2, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, oauth1, gotOAuth1)
	assert.Equal(t, "rotated", gotOAuth2.AccessToken)
}
