// Package domain defines the canonical, provider-neutral calendar data model.
//
// Every provider adapter normalizes its upstream wire shapes into these types
// and accepts them as input. The types are pure data contracts: they carry no
// behavior beyond small constructors and accessors, and they are constructed
// fresh on every adapter call from the upstream response.
package domain
