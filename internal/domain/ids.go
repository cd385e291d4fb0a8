package domain

// Opaque identifier types. The distinction is purely nominal: it prevents
// accidentally passing an EventID where a CalendarID is expected. No runtime
// validation beyond non-emptiness is implied.
type (
	// CalendarID identifies a calendar within one provider's namespace.
	CalendarID string

	// EventID identifies an event within one calendar.
	EventID string

	// UserID identifies a daybook user across providers.
	UserID string

	// ProviderID tags which upstream vendor an adapter talks to.
	ProviderID string
)

// Known provider identifiers. Apple is recognized but not yet implemented.
const (
	ProviderGoogle  ProviderID = "google"
	ProviderOutlook ProviderID = "outlook"
	ProviderApple   ProviderID = "apple"
)

// KnownProvider reports whether id names a provider this system recognizes,
// implemented or not. Callers validate input with this before consulting the
// registry; the registry itself only distinguishes implemented from
// recognized-but-unsupported.
func KnownProvider(id ProviderID) bool {
	switch id {
	case ProviderGoogle, ProviderOutlook, ProviderApple:
		return true
	}
	return false
}

// DisplayName returns the human name shown to end users, e.g. in a
// "connect your Google Calendar account" message.
func (p ProviderID) DisplayName() string {
	switch p {
	case ProviderGoogle:
		return "Google Calendar"
	case ProviderOutlook:
		return "Outlook Calendar"
	case ProviderApple:
		return "Apple Calendar"
	}
	return string(p)
}
