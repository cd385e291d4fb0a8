package domain

// AccessRole describes the level of access the current user has to a calendar.
type AccessRole string

const (
	AccessRoleOwner          AccessRole = "owner"
	AccessRoleWriter         AccessRole = "writer"
	AccessRoleReader         AccessRole = "reader"
	AccessRoleFreeBusyReader AccessRole = "freeBusyReader"
)

// Calendar is the provider-neutral calendar shape. It is produced only by
// provider adapters from upstream data; consumers never construct one.
type Calendar struct {
	ID          CalendarID
	Summary     string
	Description string
	Color       string
	Primary     bool
	AccessRole  AccessRole

	// TimeZone is an IANA zone name, empty when the provider doesn't report one.
	TimeZone string
}
