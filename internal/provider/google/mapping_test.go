package google

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	calendar "google.golang.org/api/calendar/v3"

	"github.com/daybook-ai/daybook/internal/domain"
)

func TestEventFromGoogle(t *testing.T) {
	ev := &calendar.Event{
		Id:      "ev1",
		Summary: "Standup",
		Status:  "tentative",
		Start:   &calendar.EventDateTime{DateTime: "2026-03-02T09:00:00+01:00", TimeZone: "Europe/Berlin"},
		End:     &calendar.EventDateTime{DateTime: "2026-03-02T09:15:00+01:00", TimeZone: "Europe/Berlin"},
		Attendees: []*calendar.EventAttendee{
			{Email: "bob@example.com", ResponseStatus: "accepted"},
			{Email: "eve@example.com", ResponseStatus: "bogus-value"},
		},
		Organizer: &calendar.EventOrganizer{Email: "alice@example.com", Self: true},
		Created:   "2026-02-01T10:00:00Z",
		Updated:   "2026-02-15T10:00:00Z",
	}

	out := eventFromGoogle(ev, "primary")

	assert.Equal(t, domain.EventID("ev1"), out.ID)
	assert.Equal(t, domain.CalendarID("primary"), out.CalendarID)
	assert.Equal(t, domain.StatusTentative, out.Status)
	assert.False(t, out.Start.AllDay())
	assert.Equal(t, "Europe/Berlin", out.Start.TimeZone)

	require.Len(t, out.Attendees, 2)
	assert.Equal(t, domain.ResponseAccepted, out.Attendees[0].ResponseStatus)
	assert.Equal(t, domain.ResponseNeedsAction, out.Attendees[1].ResponseStatus, "unknown response falls back")

	require.NotNil(t, out.Organizer)
	assert.True(t, out.Organizer.Self)
	assert.Equal(t, 2026, out.Created.Year())
}

func TestEventFromGoogleDefaults(t *testing.T) {
	out := eventFromGoogle(&calendar.Event{Id: "ev2", Status: "garbage"}, "primary")

	assert.Equal(t, "Untitled", out.Summary)
	assert.Equal(t, domain.StatusConfirmed, out.Status)
	assert.Equal(t, domain.VisibilityDefault, out.Visibility)
	require.NotNil(t, out.Reminders)
	assert.True(t, out.Reminders.UseDefault)
}

func TestEventFromGoogleAllDay(t *testing.T) {
	out := eventFromGoogle(&calendar.Event{
		Id:    "ev3",
		Start: &calendar.EventDateTime{Date: "2026-03-02"},
		End:   &calendar.EventDateTime{Date: "2026-03-03"},
	}, "primary")

	assert.True(t, out.Start.AllDay())
	assert.Equal(t, "2026-03-02", out.Start.Date)
	assert.Equal(t, "2026-03-03", out.End.Date)
}

func TestRemindersFromGoogle(t *testing.T) {
	assert.True(t, remindersFromGoogle(nil).UseDefault)
	assert.True(t, remindersFromGoogle(&calendar.EventReminders{UseDefault: true}).UseDefault)
	assert.True(t, remindersFromGoogle(&calendar.EventReminders{}).UseDefault,
		"no overrides means defaults even when the flag is off")

	custom := remindersFromGoogle(&calendar.EventReminders{
		Overrides: []*calendar.EventReminder{{Method: "popup", Minutes: 10}},
	})
	assert.False(t, custom.UseDefault)
	require.Len(t, custom.Overrides, 1)
	assert.Equal(t, 10, custom.Overrides[0].Minutes)
}

func TestEventFromInputRecurrence(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	rule := domain.RecurrenceRule{Frequency: domain.FreqWeekly, Interval: 2, Count: 20, ByDay: []domain.Weekday{domain.Monday, domain.Friday}}

	ev := eventFromInput(domain.EventInput{
		Summary:    "Sync",
		Start:      domain.NewTimed(start, "UTC"),
		End:        domain.NewTimed(start.Add(30*time.Minute), "UTC"),
		Recurrence: &rule,
	})

	require.Len(t, ev.Recurrence, 1)
	assert.Equal(t, "RRULE:FREQ=WEEKLY;INTERVAL=2;COUNT=20;BYDAY=MO,FR", ev.Recurrence[0])
}

func TestEventFromPatchSparse(t *testing.T) {
	summary := "New title"
	cleared := ""

	ev := eventFromPatch(domain.EventPatch{Summary: &summary, Location: &cleared})

	assert.Equal(t, "New title", ev.Summary)
	assert.Nil(t, ev.Start)
	assert.Nil(t, ev.Attendees)
	assert.Contains(t, ev.ForceSendFields, "Location", "cleared field must survive omitempty")
	assert.NotContains(t, ev.ForceSendFields, "Summary")
}

func TestRemindersToGoogleForcesFlag(t *testing.T) {
	out := remindersToGoogle(&domain.Reminders{
		Overrides: []domain.ReminderOverride{{Method: domain.ReminderPopup, Minutes: 5}},
	})

	assert.False(t, out.UseDefault)
	assert.Contains(t, out.ForceSendFields, "UseDefault")
	require.Len(t, out.Overrides, 1)
	assert.Equal(t, int64(5), out.Overrides[0].Minutes)
}
