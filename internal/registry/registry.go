// Package registry resolves a (user, provider) pair to a calendar provider
// adapter. Adapters are constructed fresh per resolution and hold no shared
// mutable state, so resolutions from concurrent requests never interfere.
package registry

import (
	"github.com/daybook-ai/daybook/internal/auth"
	"github.com/daybook-ai/daybook/internal/domain"
	"github.com/daybook-ai/daybook/internal/provider"
	"github.com/daybook-ai/daybook/internal/provider/google"
	"github.com/daybook-ai/daybook/internal/provider/graph"
)

// Registry builds provider adapters backed by a shared credential source.
type Registry struct {
	source auth.Source
}

// New returns a registry resolving adapters against the given source.
func New(source auth.Source) *Registry {
	return &Registry{source: source}
}

// Provider returns a fresh adapter for the given user and provider.
// Resolution never performs I/O; credentials are fetched lazily on the
// adapter's first capability call.
func (r *Registry) Provider(user domain.UserID, providerID domain.ProviderID) (provider.Provider, error) {
	switch providerID {
	case domain.ProviderGoogle:
		return google.New(r.source, user), nil
	case domain.ProviderOutlook:
		return graph.New(r.source, user), nil
	default:
		return nil, &provider.UnsupportedProviderError{Provider: providerID}
	}
}
