package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daybook-ai/daybook/internal/auth"
	"github.com/daybook-ai/daybook/internal/domain"
)

// countingSource records how many acquisitions the cache performs.
type countingSource struct {
	calls int
	token *auth.Token
	err   error
}

func (s *countingSource) AccessToken(ctx context.Context, provider domain.ProviderID, user domain.UserID) (*auth.Token, error) {
	s.calls++
	return s.token, s.err
}

func TestTokenCacheReuse(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	source := &countingSource{token: &auth.Token{
		AccessToken: "tok-1",
		ExpiresAt:   now.Add(time.Hour),
	}}

	cache := NewTokenCache(source, domain.ProviderGoogle, "alice")
	cache.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		tok, err := cache.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "tok-1", tok)
	}
	assert.Equal(t, 1, source.calls, "three calls within the validity window share one acquisition")
}

func TestTokenCacheRefreshesInsideBuffer(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	source := &countingSource{token: &auth.Token{
		AccessToken: "tok-1",
		ExpiresAt:   now.Add(time.Hour),
	}}

	cache := NewTokenCache(source, domain.ProviderGoogle, "alice")
	cache.now = func() time.Time { return now }

	_, err := cache.Token(context.Background())
	require.NoError(t, err)

	// Move the clock to 30 seconds before expiry, inside the buffer.
	now = now.Add(time.Hour - 30*time.Second)
	source.token = &auth.Token{AccessToken: "tok-2", ExpiresAt: now.Add(time.Hour)}

	tok, err := cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-2", tok)
	assert.Equal(t, 2, source.calls)
}

func TestTokenCacheDefaultTTL(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	source := &countingSource{token: &auth.Token{AccessToken: "tok-1"}}

	cache := NewTokenCache(source, domain.ProviderGoogle, "alice")
	cache.now = func() time.Time { return now }

	_, err := cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), cache.expiresAt, "missing expiry falls back to one hour")
}

func TestTokenCacheNotLinked(t *testing.T) {
	t.Run("nil token", func(t *testing.T) {
		cache := NewTokenCache(&countingSource{}, domain.ProviderOutlook, "alice")

		_, err := cache.Token(context.Background())
		var notLinked *NotLinkedError
		require.ErrorAs(t, err, &notLinked)
		assert.Equal(t, domain.ProviderOutlook, notLinked.Provider)
	})

	t.Run("empty access token", func(t *testing.T) {
		cache := NewTokenCache(&countingSource{token: &auth.Token{}}, domain.ProviderGoogle, "alice")

		_, err := cache.Token(context.Background())
		var notLinked *NotLinkedError
		assert.ErrorAs(t, err, &notLinked)
	})
}

func TestTokenCacheSourceError(t *testing.T) {
	sourceErr := errors.New("store unavailable")
	cache := NewTokenCache(&countingSource{err: sourceErr}, domain.ProviderGoogle, "alice")

	_, err := cache.Token(context.Background())
	assert.ErrorIs(t, err, sourceErr)
}
