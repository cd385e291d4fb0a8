package google

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"

	"github.com/daybook-ai/daybook/internal/domain"
	"github.com/daybook-ai/daybook/internal/recurrence"
)

// untitledSummary fills in for events the upstream returns without a title.
const untitledSummary = "Untitled"

// Fixed lookup tables between Google wire values and the canonical enums.
// Unrecognized upstream values fall back to the most neutral canonical
// value.
var (
	statusFromGoogle = map[string]domain.EventStatus{
		"confirmed": domain.StatusConfirmed,
		"tentative": domain.StatusTentative,
		"cancelled": domain.StatusCancelled,
	}
	responseFromGoogle = map[string]domain.ResponseStatus{
		"needsAction": domain.ResponseNeedsAction,
		"declined":    domain.ResponseDeclined,
		"tentative":   domain.ResponseTentative,
		"accepted":    domain.ResponseAccepted,
	}
	visibilityFromGoogle = map[string]domain.Visibility{
		"default":      domain.VisibilityDefault,
		"public":       domain.VisibilityPublic,
		"private":      domain.VisibilityPrivate,
		"confidential": domain.VisibilityConfidential,
	}
)

func calendarFromEntry(entry *calendar.CalendarListEntry) domain.Calendar {
	if entry == nil {
		return domain.Calendar{}
	}
	return domain.Calendar{
		ID:          domain.CalendarID(entry.Id),
		Summary:     entry.Summary,
		Description: entry.Description,
		Color:       entry.BackgroundColor,
		Primary:     entry.Primary,
		AccessRole:  domain.AccessRole(entry.AccessRole),
		TimeZone:    entry.TimeZone,
	}
}

func eventFromGoogle(ev *calendar.Event, calendarID domain.CalendarID) domain.CalendarEvent {
	if ev == nil {
		return domain.CalendarEvent{}
	}

	out := domain.CalendarEvent{
		ID:               domain.EventID(ev.Id),
		CalendarID:       calendarID,
		Summary:          ev.Summary,
		Description:      ev.Description,
		Location:         ev.Location,
		Start:            dtFromGoogle(ev.Start),
		End:              dtFromGoogle(ev.End),
		Status:           domain.StatusConfirmed,
		Recurrence:       ev.Recurrence,
		RecurringEventID: domain.EventID(ev.RecurringEventId),
		HTMLLink:         ev.HtmlLink,
		Visibility:       domain.VisibilityDefault,
	}

	if out.Summary == "" {
		out.Summary = untitledSummary
	}
	if s, ok := statusFromGoogle[ev.Status]; ok {
		out.Status = s
	}
	if v, ok := visibilityFromGoogle[ev.Visibility]; ok {
		out.Visibility = v
	}

	for _, att := range ev.Attendees {
		response := domain.ResponseNeedsAction
		if r, ok := responseFromGoogle[att.ResponseStatus]; ok {
			response = r
		}
		out.Attendees = append(out.Attendees, domain.Attendee{
			Email:          att.Email,
			DisplayName:    att.DisplayName,
			ResponseStatus: response,
			Optional:       att.Optional,
			Organizer:      att.Organizer,
			Self:           att.Self,
		})
	}

	if ev.Organizer != nil {
		out.Organizer = &domain.Organizer{
			Email:       ev.Organizer.Email,
			DisplayName: ev.Organizer.DisplayName,
			Self:        ev.Organizer.Self,
		}
	}

	out.Reminders = remindersFromGoogle(ev.Reminders)

	if t, err := time.Parse(time.RFC3339, ev.Created); err == nil {
		out.Created = t
	}
	if t, err := time.Parse(time.RFC3339, ev.Updated); err == nil {
		out.Updated = t
	}

	return out
}

// remindersFromGoogle maps the upstream reminder shape. A UseDefault flag
// wins outright; overrides map to a custom list; a false flag with no
// overrides still yields defaults, never an empty custom list.
func remindersFromGoogle(r *calendar.EventReminders) *domain.Reminders {
	if r == nil || r.UseDefault || len(r.Overrides) == 0 {
		return domain.DefaultReminders()
	}
	out := &domain.Reminders{}
	for _, o := range r.Overrides {
		out.Overrides = append(out.Overrides, domain.ReminderOverride{
			Method:  domain.ReminderMethod(o.Method),
			Minutes: int(o.Minutes),
		})
	}
	return out
}

func dtFromGoogle(g *calendar.EventDateTime) domain.EventDateTime {
	if g == nil {
		return domain.EventDateTime{}
	}
	if g.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, g.DateTime); err == nil {
			return domain.NewTimed(t, g.TimeZone)
		}
	}
	if g.Date != "" {
		return domain.NewAllDay(g.Date)
	}
	return domain.EventDateTime{}
}

func dtToGoogle(e domain.EventDateTime) *calendar.EventDateTime {
	if e.AllDay() {
		return &calendar.EventDateTime{Date: e.Date}
	}
	return &calendar.EventDateTime{
		DateTime: e.DateTime.Format(time.RFC3339),
		TimeZone: e.TimeZone,
	}
}

func attendeesToGoogle(attendees []domain.Attendee) []*calendar.EventAttendee {
	out := make([]*calendar.EventAttendee, 0, len(attendees))
	for _, att := range attendees {
		ga := &calendar.EventAttendee{
			Email:       att.Email,
			DisplayName: att.DisplayName,
			Optional:    att.Optional,
		}
		if att.ResponseStatus != "" {
			ga.ResponseStatus = string(att.ResponseStatus)
		}
		out = append(out, ga)
	}
	return out
}

func remindersToGoogle(r *domain.Reminders) *calendar.EventReminders {
	if r.UseDefault {
		return &calendar.EventReminders{UseDefault: true}
	}
	out := &calendar.EventReminders{
		// UseDefault false is meaningful here and must survive the SDK's
		// empty-field omission.
		ForceSendFields: []string{"UseDefault"},
	}
	for _, o := range r.Overrides {
		out.Overrides = append(out.Overrides, &calendar.EventReminder{
			Method:  string(o.Method),
			Minutes: int64(o.Minutes),
		})
	}
	return out
}

func eventFromInput(in domain.EventInput) *calendar.Event {
	ev := &calendar.Event{
		Summary:     in.Summary,
		Description: in.Description,
		Location:    in.Location,
		Start:       dtToGoogle(in.Start),
		End:         dtToGoogle(in.End),
	}
	if len(in.Attendees) > 0 {
		ev.Attendees = attendeesToGoogle(in.Attendees)
	}
	if in.Reminders != nil {
		ev.Reminders = remindersToGoogle(in.Reminders)
	}
	if in.Recurrence != nil {
		ev.Recurrence = []string{recurrence.Encode(*in.Recurrence)}
	}
	if in.Visibility != "" && in.Visibility != domain.VisibilityDefault {
		ev.Visibility = string(in.Visibility)
	}
	return ev
}

// eventFromPatch builds a sparse Event for the Patch call: only fields set
// in the patch are populated, and explicitly-cleared string fields ride on
// ForceSendFields so the SDK doesn't drop them from the payload.
func eventFromPatch(p domain.EventPatch) *calendar.Event {
	ev := &calendar.Event{}

	setString := func(field string, dst *string, src *string) {
		if src == nil {
			return
		}
		*dst = *src
		if *src == "" {
			ev.ForceSendFields = append(ev.ForceSendFields, field)
		}
	}

	setString("Summary", &ev.Summary, p.Summary)
	setString("Description", &ev.Description, p.Description)
	setString("Location", &ev.Location, p.Location)

	if p.Start != nil {
		ev.Start = dtToGoogle(*p.Start)
	}
	if p.End != nil {
		ev.End = dtToGoogle(*p.End)
	}
	if p.Attendees != nil {
		ev.Attendees = attendeesToGoogle(*p.Attendees)
	}
	if p.Reminders != nil {
		ev.Reminders = remindersToGoogle(p.Reminders)
	}
	if p.Recurrence != nil {
		ev.Recurrence = []string{recurrence.Encode(*p.Recurrence)}
	}
	if p.Visibility != nil {
		ev.Visibility = string(*p.Visibility)
	}

	return ev
}
