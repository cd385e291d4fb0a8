package domain

import "time"

// DateOnly is the layout for all-day event dates.
const DateOnly = "2006-01-02"

// EventDateTime is a tagged union of the two ways a calendar point in time is
// expressed: a timed instant (with an optional IANA zone) or a bare calendar
// date for all-day events. Exactly one variant is active; AllDay reports
// which.
type EventDateTime struct {
	// Timed variant. DateTime carries the time-of-day component.
	DateTime time.Time
	TimeZone string

	// All-day variant, formatted as DateOnly. Non-empty means all-day.
	Date string
}

// NewTimed returns the timed variant.
func NewTimed(t time.Time, timeZone string) EventDateTime {
	return EventDateTime{DateTime: t, TimeZone: timeZone}
}

// NewAllDay returns the all-day variant for the given calendar date.
func NewAllDay(date string) EventDateTime {
	return EventDateTime{Date: date}
}

// AllDay reports whether the all-day variant is active.
func (e EventDateTime) AllDay() bool {
	return e.Date != ""
}

// EventStatus is the canonical event status.
type EventStatus string

const (
	StatusConfirmed EventStatus = "confirmed"
	StatusTentative EventStatus = "tentative"
	StatusCancelled EventStatus = "cancelled"
)

// Visibility is the canonical event visibility.
type Visibility string

const (
	VisibilityDefault      Visibility = "default"
	VisibilityPublic       Visibility = "public"
	VisibilityPrivate      Visibility = "private"
	VisibilityConfidential Visibility = "confidential"
)

// ResponseStatus is an attendee's reply to an invitation.
type ResponseStatus string

const (
	ResponseNeedsAction ResponseStatus = "needsAction"
	ResponseDeclined    ResponseStatus = "declined"
	ResponseTentative   ResponseStatus = "tentative"
	ResponseAccepted    ResponseStatus = "accepted"
)

// Attendee is one invited participant.
type Attendee struct {
	Email          string
	DisplayName    string
	ResponseStatus ResponseStatus
	Optional       bool
	Organizer      bool
	Self           bool
}

// Organizer identifies the event's organizer.
type Organizer struct {
	Email       string
	DisplayName string
	Self        bool
}

// ReminderMethod is how a reminder is delivered.
type ReminderMethod string

const (
	ReminderEmail ReminderMethod = "email"
	ReminderPopup ReminderMethod = "popup"
	ReminderSMS   ReminderMethod = "sms"
)

// ReminderOverride is a single custom reminder.
type ReminderOverride struct {
	Method  ReminderMethod
	Minutes int
}

// Reminders is either "use the calendar's defaults" or an ordered custom
// list. UseDefault true implies an empty Overrides slice; a false UseDefault
// with no overrides is never produced by adapters (they report defaults
// instead of an empty custom list).
type Reminders struct {
	UseDefault bool
	Overrides  []ReminderOverride
}

// DefaultReminders returns the "use calendar defaults" value.
func DefaultReminders() *Reminders {
	return &Reminders{UseDefault: true}
}

// CalendarEvent is the provider-neutral event shape.
type CalendarEvent struct {
	ID          EventID
	CalendarID  CalendarID
	Summary     string
	Description string
	Location    string
	Start       EventDateTime
	End         EventDateTime
	Status      EventStatus
	Attendees   []Attendee
	Organizer   *Organizer
	Reminders   *Reminders

	// Recurrence holds RFC 5545 RRULE lines. Plural because a provider may
	// represent exceptions as additional lines; this implementation only ever
	// emits one.
	Recurrence []string

	// RecurringEventID is a back-reference to the recurring series' master
	// event. Non-owning identifier, not a pointer.
	RecurringEventID EventID

	Created    time.Time
	Updated    time.Time
	HTMLLink   string
	Visibility Visibility
}

// EventInput carries the fields a consumer supplies when creating an event.
type EventInput struct {
	Summary     string
	Description string
	Location    string
	Start       EventDateTime
	End         EventDateTime
	Attendees   []Attendee
	Reminders   *Reminders
	Recurrence  *RecurrenceRule
	Visibility  Visibility
}

// EventPatch is a true partial update: nil fields are left untouched and must
// not be sent to the upstream as cleared values.
type EventPatch struct {
	Summary     *string
	Description *string
	Location    *string
	Start       *EventDateTime
	End         *EventDateTime
	Attendees   *[]Attendee
	Reminders   *Reminders
	Recurrence  *RecurrenceRule
	Visibility  *Visibility
}

// EventOrder selects the ordering of a list-events call.
type EventOrder string

const (
	OrderByStartTime EventOrder = "startTime"
	OrderByUpdated   EventOrder = "updated"
)

// ListEventsQuery bounds and filters a list-events call. Nil time bounds mean
// unbounded; a zero MaxResults means the upstream default.
type ListEventsQuery struct {
	TimeMin    *time.Time
	TimeMax    *time.Time
	MaxResults int
	Query      string

	// SingleEvents expands recurring series into concrete occurrences.
	SingleEvents bool

	OrderBy EventOrder
}
