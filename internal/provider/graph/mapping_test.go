package graph

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daybook-ai/daybook/internal/domain"
)

func TestDtFromGraph(t *testing.T) {
	t.Run("timed utc", func(t *testing.T) {
		out := dtFromGraph(&graphDateTime{DateTime: "2026-03-02T09:00:00.0000000", TimeZone: "UTC"}, false)
		require.False(t, out.AllDay())
		assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), out.DateTime)
	})

	t.Run("all day truncates to date", func(t *testing.T) {
		out := dtFromGraph(&graphDateTime{DateTime: "2026-03-02T00:00:00.0000000", TimeZone: "UTC"}, true)
		require.True(t, out.AllDay())
		assert.Equal(t, "2026-03-02", out.Date)
	})

	t.Run("nil", func(t *testing.T) {
		assert.Equal(t, domain.EventDateTime{}, dtFromGraph(nil, false))
	})
}

func TestDtToGraph(t *testing.T) {
	timed := dtToGraph(domain.NewTimed(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), "UTC"))
	assert.Equal(t, "2026-03-02T09:00:00", timed["dateTime"])
	assert.Equal(t, "UTC", timed["timeZone"])

	allDay := dtToGraph(domain.NewAllDay("2026-03-02"))
	assert.Equal(t, "2026-03-02T00:00:00", allDay["dateTime"])
	assert.Equal(t, "UTC", allDay["timeZone"])
}

func TestEventFromGraphReminders(t *testing.T) {
	native := eventFromGraph(graphEvent{ID: "ev1", IsReminderOn: true, ReminderMinutes: 15}, "cal1")
	require.NotNil(t, native.Reminders)
	assert.False(t, native.Reminders.UseDefault)
	require.Len(t, native.Reminders.Overrides, 1)
	assert.Equal(t, 15, native.Reminders.Overrides[0].Minutes)

	atStart := eventFromGraph(graphEvent{ID: "ev2", IsReminderOn: true, ReminderMinutes: 0}, "cal1")
	require.Len(t, atStart.Reminders.Overrides, 1)
	assert.Equal(t, 0, atStart.Reminders.Overrides[0].Minutes, "remind-at-start survives as a custom override")

	off := eventFromGraph(graphEvent{ID: "ev3"}, "cal1")
	assert.True(t, off.Reminders.UseDefault)
}

func TestEventFromGraphRecurrenceCanonicalized(t *testing.T) {
	ev := graphEvent{ID: "ev1"}
	raw := []byte(`{
		"pattern": {"type": "weekly", "interval": 2, "daysOfWeek": ["monday", "friday"]},
		"range": {"type": "numbered", "numberOfOccurrences": 20}
	}`)
	require.NoError(t, json.Unmarshal(raw, &ev.Recurrence))

	out := eventFromGraph(ev, "cal1")
	require.Len(t, out.Recurrence, 1)
	assert.Equal(t, "RRULE:FREQ=WEEKLY;INTERVAL=2;COUNT=20;BYDAY=MO,FR", out.Recurrence[0])
}

func TestEventToGraphAllDay(t *testing.T) {
	body := eventToGraph(domain.EventInput{
		Summary: "Offsite",
		Start:   domain.NewAllDay("2026-03-02"),
		End:     domain.NewAllDay("2026-03-03"),
	})

	assert.Equal(t, true, body["isAllDay"])
	assert.NotContains(t, body, "body")
	assert.NotContains(t, body, "attendees")
}

func TestApplyReminders(t *testing.T) {
	body := map[string]any{}
	applyReminders(body, domain.DefaultReminders())
	assert.Empty(t, body)

	applyReminders(body, &domain.Reminders{
		Overrides: []domain.ReminderOverride{{Method: domain.ReminderPopup, Minutes: 10}, {Method: domain.ReminderEmail, Minutes: 60}},
	})
	assert.Equal(t, true, body["isReminderOn"])
	assert.Equal(t, 10, body["reminderMinutesBeforeStart"], "only the first override survives")
}
