package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daybook-ai/daybook/internal/domain"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		rule domain.RecurrenceRule
		want string
	}{
		{
			name: "daily forever",
			rule: domain.RecurrenceRule{Frequency: domain.FreqDaily},
			want: "RRULE:FREQ=DAILY",
		},
		{
			name: "interval of one is omitted",
			rule: domain.RecurrenceRule{Frequency: domain.FreqDaily, Interval: 1},
			want: "RRULE:FREQ=DAILY",
		},
		{
			name: "biweekly with count and days",
			rule: domain.RecurrenceRule{
				Frequency: domain.FreqWeekly,
				Interval:  2,
				Count:     20,
				ByDay:     []domain.Weekday{domain.Monday, domain.Friday},
			},
			want: "RRULE:FREQ=WEEKLY;INTERVAL=2;COUNT=20;BYDAY=MO,FR",
		},
		{
			name: "monthly on the 15th",
			rule: domain.RecurrenceRule{
				Frequency:  domain.FreqMonthly,
				ByMonthDay: []int{15},
			},
			want: "RRULE:FREQ=MONTHLY;BYMONTHDAY=15",
		},
		{
			name: "yearly in june",
			rule: domain.RecurrenceRule{
				Frequency:  domain.FreqYearly,
				ByMonth:    []int{6},
				ByMonthDay: []int{1},
			},
			want: "RRULE:FREQ=YEARLY;BYMONTHDAY=1;BYMONTH=6",
		},
		{
			name: "until midnight renders date only",
			rule: domain.RecurrenceRule{
				Frequency: domain.FreqWeekly,
				Until:     time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
			},
			want: "RRULE:FREQ=WEEKLY;UNTIL=20261231",
		},
		{
			name: "until with time of day renders full instant",
			rule: domain.RecurrenceRule{
				Frequency: domain.FreqDaily,
				Until:     time.Date(2026, 12, 31, 10, 30, 0, 0, time.UTC),
			},
			want: "RRULE:FREQ=DAILY;UNTIL=20261231T103000Z",
		},
		{
			name: "count wins over until",
			rule: domain.RecurrenceRule{
				Frequency: domain.FreqDaily,
				Count:     5,
				Until:     time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
			},
			want: "RRULE:FREQ=DAILY;COUNT=5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.rule))
		})
	}
}

func TestDecode(t *testing.T) {
	t.Run("full rule", func(t *testing.T) {
		rule, err := Decode("RRULE:FREQ=WEEKLY;INTERVAL=2;COUNT=20;BYDAY=MO,FR")
		require.NoError(t, err)
		assert.Equal(t, domain.FreqWeekly, rule.Frequency)
		assert.Equal(t, 2, rule.Interval)
		assert.Equal(t, 20, rule.Count)
		assert.Equal(t, []domain.Weekday{domain.Monday, domain.Friday}, rule.ByDay)
	})

	t.Run("prefix is optional", func(t *testing.T) {
		rule, err := Decode("FREQ=DAILY")
		require.NoError(t, err)
		assert.Equal(t, domain.FreqDaily, rule.Frequency)
		assert.Zero(t, rule.Interval)
	})

	t.Run("until date only", func(t *testing.T) {
		rule, err := Decode("RRULE:FREQ=MONTHLY;UNTIL=20261231;BYMONTHDAY=15")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), rule.Until)
		assert.Equal(t, []int{15}, rule.ByMonthDay)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := Decode("")
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, "empty rule", parseErr.Reason)
	})

	t.Run("missing FREQ", func(t *testing.T) {
		_, err := Decode("RRULE:COUNT=5")
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, "missing FREQ", parseErr.Reason)
	})

	t.Run("unsupported frequency", func(t *testing.T) {
		_, err := Decode("RRULE:FREQ=HOURLY")
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, "unsupported frequency", parseErr.Reason)
	})

	t.Run("COUNT and UNTIL together are rejected", func(t *testing.T) {
		_, err := Decode("RRULE:FREQ=DAILY;COUNT=5;UNTIL=20261231T000000Z")
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, "both COUNT and UNTIL", parseErr.Reason)
	})

	t.Run("garbage input", func(t *testing.T) {
		_, err := Decode("RRULE:FREQ=WEEKLY;INTERVAL=often")
		var parseErr *ParseError
		assert.ErrorAs(t, err, &parseErr)
	})
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	rules := []domain.RecurrenceRule{
		{Frequency: domain.FreqDaily},
		{Frequency: domain.FreqWeekly, Interval: 2, Count: 20, ByDay: []domain.Weekday{domain.Monday, domain.Friday}},
		{Frequency: domain.FreqMonthly, ByMonthDay: []int{15}},
		{Frequency: domain.FreqYearly, ByMonth: []int{6}, ByMonthDay: []int{1}},
		{Frequency: domain.FreqWeekly, Until: time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)},
	}

	for _, rule := range rules {
		encoded := Encode(rule)
		decoded, err := Decode(encoded)
		require.NoError(t, err, encoded)
		assert.Equal(t, rule, *decoded, encoded)
	}
}
