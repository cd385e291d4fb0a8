// Package auth provides the token-acquisition seam the provider adapters
// depend on.
//
// The adapters treat token acquisition as an opaque external capability:
// given a user identity and a provider, return a valid bearer access token
// and its expiry, or report that nothing is linked. The Source interface is
// that contract; StoreSource is the production implementation backed by the
// sqlite account-link store and each vendor's OAuth2 refresh endpoint.
package auth
