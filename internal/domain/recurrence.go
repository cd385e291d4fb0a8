package domain

import "time"

// Frequency is the base unit of a recurrence rule.
type Frequency string

const (
	FreqDaily   Frequency = "daily"
	FreqWeekly  Frequency = "weekly"
	FreqMonthly Frequency = "monthly"
	FreqYearly  Frequency = "yearly"
)

// Weekday is an RFC 5545 two-letter weekday code (MO, TU, WE, TH, FR, SA, SU).
type Weekday string

const (
	Monday    Weekday = "MO"
	Tuesday   Weekday = "TU"
	Wednesday Weekday = "WE"
	Thursday  Weekday = "TH"
	Friday    Weekday = "FR"
	Saturday  Weekday = "SA"
	Sunday    Weekday = "SU"
)

// RecurrenceRule is the canonical recurrence representation both providers
// map to and from. A rule terminates by Count, by Until, or never; Count and
// Until are mutually exclusive. An Interval of 0 means the default of 1.
type RecurrenceRule struct {
	Frequency Frequency
	Interval  int

	// Count > 0 means the rule ends after that many occurrences.
	Count int

	// A non-zero Until means the rule ends on that instant (or date).
	Until time.Time

	// ByDay preserves input order.
	ByDay      []Weekday
	ByMonthDay []int
	ByMonth    []int
}

// Forever reports whether the rule has no termination clause.
func (r RecurrenceRule) Forever() bool {
	return r.Count == 0 && r.Until.IsZero()
}
