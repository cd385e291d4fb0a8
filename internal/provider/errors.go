package provider

import (
	"fmt"

	"github.com/daybook-ai/daybook/internal/domain"
)

// NotLinkedError means token acquisition returned no usable token for a
// (user, provider) pair. Multiple callers match on it to surface a
// "connect your account" response, so it is a distinguished type rather
// than a generic error.
type NotLinkedError struct {
	Provider domain.ProviderID
}

func (e *NotLinkedError) Error() string {
	return fmt.Sprintf("no linked %s account", e.Provider.DisplayName())
}

// UnsupportedProviderError means the registry was asked for a recognized but
// not yet implemented provider. Distinct from invalid input, which callers
// reject before reaching the registry.
type UnsupportedProviderError struct {
	Provider domain.ProviderID
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("provider %s is not supported yet", e.Provider)
}

// UpstreamError wraps any transport or upstream-API failure during a
// capability call, tagged with the operation and the ids involved so the
// caller can log it. The core never retries.
type UpstreamError struct {
	Provider   domain.ProviderID
	Op         string
	CalendarID domain.CalendarID
	EventID    domain.EventID
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.EventID != "":
		return fmt.Sprintf("%s %s: calendar %s event %s: %v", e.Provider, e.Op, e.CalendarID, e.EventID, e.Err)
	case e.CalendarID != "":
		return fmt.Sprintf("%s %s: calendar %s: %v", e.Provider, e.Op, e.CalendarID, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
