package auth

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/microsoft"

	"github.com/daybook-ai/daybook/internal/domain"
	"github.com/daybook-ai/daybook/internal/store"
)

// refreshSkew is how close to expiry a stored access token is still handed
// out before the source mints a fresh one.
const refreshSkew = 60 * time.Second

// OAuthCredentials are the client credentials registered with one vendor.
type OAuthCredentials struct {
	ClientID     string
	ClientSecret string
}

// StoreSource implements Source on top of the account-link store. Stored
// access tokens are reused until close to expiry; after that the stored
// refresh token is exchanged at the vendor's token endpoint and the result
// is written back.
type StoreSource struct {
	store   *store.Store
	configs map[domain.ProviderID]*oauth2.Config
	now     func() time.Time
}

// NewStoreSource wires a StoreSource for the two implemented providers.
func NewStoreSource(st *store.Store, googleCreds, microsoftCreds OAuthCredentials) *StoreSource {
	return &StoreSource{
		store: st,
		configs: map[domain.ProviderID]*oauth2.Config{
			domain.ProviderGoogle: {
				ClientID:     googleCreds.ClientID,
				ClientSecret: googleCreds.ClientSecret,
				Endpoint:     google.Endpoint,
				Scopes:       []string{"https://www.googleapis.com/auth/calendar"},
			},
			domain.ProviderOutlook: {
				ClientID:     microsoftCreds.ClientID,
				ClientSecret: microsoftCreds.ClientSecret,
				Endpoint:     microsoft.AzureADEndpoint("common"),
				Scopes:       []string{"offline_access", "https://graph.microsoft.com/Calendars.ReadWrite"},
			},
		},
		now: time.Now,
	}
}

// AccessToken implements Source.
func (s *StoreSource) AccessToken(ctx context.Context, provider domain.ProviderID, user domain.UserID) (*Token, error) {
	link, err := s.store.Link(ctx, user, provider)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, nil
	}

	if link.AccessToken != "" && link.ExpiresAt.Sub(s.now()) > refreshSkew {
		return &Token{AccessToken: link.AccessToken, ExpiresAt: link.ExpiresAt}, nil
	}

	// Stored token is stale; without refresh material the link is unusable.
	if link.RefreshToken == "" {
		return nil, nil
	}

	cfg, ok := s.configs[provider]
	if !ok || cfg.ClientID == "" {
		return nil, fmt.Errorf("no oauth credentials configured for provider %s", provider)
	}

	ts := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: link.RefreshToken})
	tok, err := ts.Token()
	if err != nil {
		return nil, fmt.Errorf("refresh %s token: %w", provider, err)
	}

	if err := s.store.UpdateAccessToken(ctx, user, provider, tok.AccessToken, tok.Expiry); err != nil {
		return nil, err
	}

	return &Token{AccessToken: tok.AccessToken, ExpiresAt: tok.Expiry}, nil
}
