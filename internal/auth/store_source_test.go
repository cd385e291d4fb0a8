package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daybook-ai/daybook/internal/domain"
	"github.com/daybook-ai/daybook/internal/store"
)

func newTestSource(t *testing.T, now time.Time) (*StoreSource, *store.Store) {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	src := NewStoreSource(st, OAuthCredentials{}, OAuthCredentials{})
	src.now = func() time.Time { return now }
	return src, st
}

func TestStoreSourceNotLinked(t *testing.T) {
	src, _ := newTestSource(t, time.Now())

	tok, err := src.AccessToken(t.Context(), domain.ProviderGoogle, "alice")
	require.NoError(t, err)
	assert.Nil(t, tok)
}

func TestStoreSourceReusesFreshToken(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	src, st := newTestSource(t, now)

	expires := now.Add(30 * time.Minute)
	require.NoError(t, st.SaveLink(t.Context(), store.AccountLink{
		User:        "alice",
		Provider:    domain.ProviderGoogle,
		AccessToken: "access-1",
		ExpiresAt:   expires,
	}))

	tok, err := src.AccessToken(t.Context(), domain.ProviderGoogle, "alice")
	require.NoError(t, err)
	require.NotNil(t, tok)
	assert.Equal(t, "access-1", tok.AccessToken)
	assert.True(t, tok.ExpiresAt.Equal(expires))
}

func TestStoreSourceStaleWithoutRefreshToken(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	src, st := newTestSource(t, now)

	// Expires within the skew window and carries no refresh material, so
	// the link is unusable.
	require.NoError(t, st.SaveLink(t.Context(), store.AccountLink{
		User:        "alice",
		Provider:    domain.ProviderGoogle,
		AccessToken: "access-1",
		ExpiresAt:   now.Add(30 * time.Second),
	}))

	tok, err := src.AccessToken(t.Context(), domain.ProviderGoogle, "alice")
	require.NoError(t, err)
	assert.Nil(t, tok)
}

func TestStoreSourceRefreshNeedsCredentials(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	src, st := newTestSource(t, now)

	require.NoError(t, st.SaveLink(t.Context(), store.AccountLink{
		User:         "alice",
		Provider:     domain.ProviderGoogle,
		RefreshToken: "refresh-1",
		AccessToken:  "access-1",
		ExpiresAt:    now.Add(-time.Minute),
	}))

	_, err := src.AccessToken(t.Context(), domain.ProviderGoogle, "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no oauth credentials configured")
}
