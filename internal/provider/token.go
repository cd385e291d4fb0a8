package provider

import (
	"context"
	"time"

	"github.com/daybook-ai/daybook/internal/auth"
	"github.com/daybook-ai/daybook/internal/domain"
)

const (
	// expiryBuffer is the safety margin before expiry at which a cached
	// token stops being reused. It bounds the call volume to the token
	// source: within the buffer, successive capability calls share one
	// acquisition.
	expiryBuffer = 60 * time.Second

	// defaultTokenTTL applies when the token source reports no expiry.
	defaultTokenTTL = time.Hour
)

// TokenCache implements the lazy-refresh-with-buffer token lifecycle shared
// by both adapters. It is private to one adapter instance and one logical
// call chain, so it carries no locking.
type TokenCache struct {
	source   auth.Source
	provider domain.ProviderID
	user     domain.UserID

	token     string
	expiresAt time.Time

	// now is swappable for tests.
	now func() time.Time
}

// NewTokenCache returns an empty cache; no I/O happens until Token is
// called.
func NewTokenCache(source auth.Source, provider domain.ProviderID, user domain.UserID) *TokenCache {
	return &TokenCache{
		source:   source,
		provider: provider,
		user:     user,
		now:      time.Now,
	}
}

// Token returns a valid bearer token, reusing the cached one while more
// than the expiry buffer remains and acquiring a fresh one otherwise. A
// source that reports no token yields NotLinkedError.
func (c *TokenCache) Token(ctx context.Context) (string, error) {
	if c.token != "" && c.expiresAt.Sub(c.now()) > expiryBuffer {
		return c.token, nil
	}

	tok, err := c.source.AccessToken(ctx, c.provider, c.user)
	if err != nil {
		return "", err
	}
	if tok == nil || tok.AccessToken == "" {
		return "", &NotLinkedError{Provider: c.provider}
	}

	c.token = tok.AccessToken
	c.expiresAt = tok.ExpiresAt
	if c.expiresAt.IsZero() {
		c.expiresAt = c.now().Add(defaultTokenTTL)
	}
	return c.token, nil
}
