package auth

import (
	"context"
	"time"

	"github.com/daybook-ai/daybook/internal/domain"
)

// Token is a bearer access token with its expiry. A zero ExpiresAt means the
// issuer did not report one; callers apply their own default lifetime.
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Source acquires access tokens for (provider, user) pairs.
//
// A (nil, nil) return means no account is linked for that pair; it is the
// trigger for the adapters' distinguished "not linked" failure. Any non-nil
// error is an acquisition failure (storage, refresh endpoint).
type Source interface {
	AccessToken(ctx context.Context, provider domain.ProviderID, user domain.UserID) (*Token, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, provider domain.ProviderID, user domain.UserID) (*Token, error)

func (f SourceFunc) AccessToken(ctx context.Context, provider domain.ProviderID, user domain.UserID) (*Token, error) {
	return f(ctx, provider, user)
}
