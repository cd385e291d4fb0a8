// Package google implements the provider capability set against the Google
// Calendar v3 API.
//
// The adapter translates between the canonical domain model and the Google
// wire shapes, including RFC 5545 RRULE recurrence lines, and manages its
// own bearer-token lifecycle through the shared token cache. Constructing
// an adapter performs no network I/O; the API service is built lazily per
// call from the cached token.
package google
