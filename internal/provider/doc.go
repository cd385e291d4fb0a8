// Package provider defines the capability contract every calendar provider
// adapter implements, the shared token-lifecycle cache, and the error kinds
// callers pattern-match on.
//
// Adapters are stateful only with respect to a cached bearer token and its
// expiry, scoped to one (user, provider) pair and one call chain. They never
// retry: upstream failures propagate to the caller tagged with enough
// context to log, and the caller decides whether to retry or surface them.
package provider
