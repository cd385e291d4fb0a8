// Package store is the sqlite-backed persistence layer: linked provider
// accounts (OAuth refresh material) and an opportunistic calendar-metadata
// cache.
//
// Events and calendars themselves are never persisted; adapters construct
// them fresh from upstream responses on every call. The cache only holds
// calendar metadata so the UI can render a picker without an upstream round
// trip, and it is refreshed opportunistically after successful list calls.
package store
