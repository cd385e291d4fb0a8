package recurrence

import (
	"time"

	"github.com/daybook-ai/daybook/internal/domain"
)

// GraphRecurrence mirrors the Microsoft Graph patternedRecurrence resource.
type GraphRecurrence struct {
	Pattern GraphPattern `json:"pattern"`
	Range   GraphRange   `json:"range"`
}

// GraphPattern mirrors recurrencePattern.
type GraphPattern struct {
	Type       string   `json:"type"`
	Interval   int      `json:"interval"`
	DaysOfWeek []string `json:"daysOfWeek,omitempty"`
	DayOfMonth int      `json:"dayOfMonth,omitempty"`
	Month      int      `json:"month,omitempty"`
}

// GraphRange mirrors recurrenceRange.
type GraphRange struct {
	Type                string `json:"type"`
	StartDate           string `json:"startDate,omitempty"`
	EndDate             string `json:"endDate,omitempty"`
	NumberOfOccurrences int    `json:"numberOfOccurrences,omitempty"`
}

// Fixed bidirectional table between RFC 5545 codes and Graph's lowercase day
// names.
var (
	dayNameByCode = map[domain.Weekday]string{
		domain.Monday:    "monday",
		domain.Tuesday:   "tuesday",
		domain.Wednesday: "wednesday",
		domain.Thursday:  "thursday",
		domain.Friday:    "friday",
		domain.Saturday:  "saturday",
		domain.Sunday:    "sunday",
	}
	dayCodeByName = map[string]domain.Weekday{
		"monday":    domain.Monday,
		"tuesday":   domain.Tuesday,
		"wednesday": domain.Wednesday,
		"thursday":  domain.Thursday,
		"friday":    domain.Friday,
		"saturday":  domain.Saturday,
		"sunday":    domain.Sunday,
	}
)

// ToGraph renders a canonical rule as a Graph patternedRecurrence. The range
// needs a start date, which comes from the event's own start. Only the first
// byMonthDay/byMonth element survives: the native pattern supports at most
// one of each.
func ToGraph(r domain.RecurrenceRule, startDate string) *GraphRecurrence {
	pattern := GraphPattern{Interval: 1}
	if r.Interval > 1 {
		pattern.Interval = r.Interval
	}

	switch r.Frequency {
	case domain.FreqDaily:
		pattern.Type = "daily"
	case domain.FreqWeekly:
		pattern.Type = "weekly"
	case domain.FreqMonthly:
		pattern.Type = "absoluteMonthly"
	case domain.FreqYearly:
		pattern.Type = "absoluteYearly"
	}

	for _, d := range r.ByDay {
		if name, ok := dayNameByCode[d]; ok {
			pattern.DaysOfWeek = append(pattern.DaysOfWeek, name)
		}
	}
	if len(r.ByMonthDay) > 0 {
		pattern.DayOfMonth = r.ByMonthDay[0]
	}
	if len(r.ByMonth) > 0 {
		pattern.Month = r.ByMonth[0]
	}

	rng := GraphRange{Type: "noEnd", StartDate: startDate}
	switch {
	case r.Count > 0:
		rng.Type = "numbered"
		rng.NumberOfOccurrences = r.Count
	case !r.Until.IsZero():
		rng.Type = "endDate"
		rng.EndDate = r.Until.UTC().Format(domain.DateOnly)
	}

	return &GraphRecurrence{Pattern: pattern, Range: rng}
}

// FromGraph translates a Graph patternedRecurrence back to the canonical
// rule. A nil structure means no recurrence. An unrecognized pattern type
// also yields no recurrence rather than an error, tolerating upstream schema
// drift. Relative monthly/yearly patterns are consumed best-effort as their
// absolute equivalents.
func FromGraph(g *GraphRecurrence) *domain.RecurrenceRule {
	if g == nil {
		return nil
	}

	var rule domain.RecurrenceRule
	switch g.Pattern.Type {
	case "daily":
		rule.Frequency = domain.FreqDaily
	case "weekly":
		rule.Frequency = domain.FreqWeekly
	case "absoluteMonthly", "relativeMonthly":
		rule.Frequency = domain.FreqMonthly
	case "absoluteYearly", "relativeYearly":
		rule.Frequency = domain.FreqYearly
	default:
		return nil
	}

	if g.Pattern.Interval > 1 {
		rule.Interval = g.Pattern.Interval
	}
	for _, name := range g.Pattern.DaysOfWeek {
		if code, ok := dayCodeByName[name]; ok {
			rule.ByDay = append(rule.ByDay, code)
		}
	}
	if g.Pattern.DayOfMonth > 0 {
		rule.ByMonthDay = []int{g.Pattern.DayOfMonth}
	}
	if g.Pattern.Month > 0 {
		rule.ByMonth = []int{g.Pattern.Month}
	}

	switch g.Range.Type {
	case "numbered":
		rule.Count = g.Range.NumberOfOccurrences
	case "endDate":
		if t, err := time.Parse(domain.DateOnly, g.Range.EndDate); err == nil {
			rule.Until = t
		}
	}

	return &rule
}
