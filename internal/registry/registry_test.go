package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daybook-ai/daybook/internal/auth"
	"github.com/daybook-ai/daybook/internal/domain"
	"github.com/daybook-ai/daybook/internal/provider"
)

func testSource() auth.Source {
	return auth.SourceFunc(func(ctx context.Context, p domain.ProviderID, u domain.UserID) (*auth.Token, error) {
		return nil, nil
	})
}

func TestProviderResolution(t *testing.T) {
	reg := New(testSource())

	google, err := reg.Provider("alice", domain.ProviderGoogle)
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderGoogle, google.ProviderID())

	outlook, err := reg.Provider("alice", domain.ProviderOutlook)
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderOutlook, outlook.ProviderID())
}

func TestProviderResolutionIsFresh(t *testing.T) {
	reg := New(testSource())

	first, err := reg.Provider("alice", domain.ProviderGoogle)
	require.NoError(t, err)
	second, err := reg.Provider("alice", domain.ProviderGoogle)
	require.NoError(t, err)

	assert.NotSame(t, first, second, "each resolution yields a fresh adapter")
}

func TestAppleIsUnsupported(t *testing.T) {
	reg := New(testSource())

	_, err := reg.Provider("alice", domain.ProviderApple)
	var unsupported *provider.UnsupportedProviderError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, domain.ProviderApple, unsupported.Provider)
}

func TestUnknownProviderIsUnsupported(t *testing.T) {
	reg := New(testSource())

	_, err := reg.Provider("alice", "caldav")
	var unsupported *provider.UnsupportedProviderError
	assert.ErrorAs(t, err, &unsupported)
}
