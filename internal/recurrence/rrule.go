package recurrence

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/daybook-ai/daybook/internal/domain"
)

// ParseError reports an RRULE string or native recurrence structure outside
// the subset this codec understands.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse recurrence %q: %s", e.Input, e.Reason)
}

const (
	untilDateLayout     = "20060102"
	untilDateTimeLayout = "20060102T150405Z"
)

// Encode renders a canonical rule as an RFC 5545 RRULE line. Field order is
// fixed: FREQ, INTERVAL (only when > 1), COUNT or UNTIL, BYDAY, BYMONTHDAY,
// BYMONTH. Tests and both upstreams depend on the literal output, so the
// encoder is hand-rolled rather than delegated to rrule-go, whose ROption
// serialization orders fields differently.
func Encode(r domain.RecurrenceRule) string {
	parts := []string{"FREQ=" + strings.ToUpper(string(r.Frequency))}

	if r.Interval > 1 {
		parts = append(parts, "INTERVAL="+strconv.Itoa(r.Interval))
	}

	switch {
	case r.Count > 0:
		parts = append(parts, "COUNT="+strconv.Itoa(r.Count))
	case !r.Until.IsZero():
		parts = append(parts, "UNTIL="+formatUntil(r.Until))
	}

	if len(r.ByDay) > 0 {
		codes := make([]string, len(r.ByDay))
		for i, d := range r.ByDay {
			codes[i] = string(d)
		}
		parts = append(parts, "BYDAY="+strings.Join(codes, ","))
	}
	if len(r.ByMonthDay) > 0 {
		parts = append(parts, "BYMONTHDAY="+joinInts(r.ByMonthDay))
	}
	if len(r.ByMonth) > 0 {
		parts = append(parts, "BYMONTH="+joinInts(r.ByMonth))
	}

	return "RRULE:" + strings.Join(parts, ";")
}

// Decode parses an RRULE line (with or without the "RRULE:" prefix) into a
// canonical rule. Frequencies outside daily/weekly/monthly/yearly are a
// parse failure, not silently ignored.
func Decode(s string) (*domain.RecurrenceRule, error) {
	var rule domain.RecurrenceRule

	body := strings.TrimPrefix(strings.TrimSpace(s), "RRULE:")
	if body == "" {
		return nil, &ParseError{Input: s, Reason: "empty rule"}
	}
	if !strings.Contains(body, "FREQ=") {
		return nil, &ParseError{Input: s, Reason: "missing FREQ"}
	}

	opt, err := rrule.StrToROption(body)
	if err != nil {
		return nil, &ParseError{Input: s, Reason: err.Error()}
	}

	switch opt.Freq {
	case rrule.DAILY:
		rule.Frequency = domain.FreqDaily
	case rrule.WEEKLY:
		rule.Frequency = domain.FreqWeekly
	case rrule.MONTHLY:
		rule.Frequency = domain.FreqMonthly
	case rrule.YEARLY:
		rule.Frequency = domain.FreqYearly
	default:
		return nil, &ParseError{Input: s, Reason: "unsupported frequency"}
	}

	if opt.Count > 0 && !opt.Until.IsZero() {
		return nil, &ParseError{Input: s, Reason: "both COUNT and UNTIL"}
	}

	if opt.Interval > 1 {
		rule.Interval = opt.Interval
	}
	rule.Count = opt.Count
	rule.Until = opt.Until

	for _, wd := range opt.Byweekday {
		rule.ByDay = append(rule.ByDay, domain.Weekday(wd.String()))
	}
	rule.ByMonthDay = append(rule.ByMonthDay, opt.Bymonthday...)
	rule.ByMonth = append(rule.ByMonth, opt.Bymonth...)

	return &rule, nil
}

// formatUntil strips separators per RFC 5545: a date-only UNTIL when the
// instant has no time-of-day component, the basic-format UTC instant
// otherwise. Sub-second precision is always dropped.
func formatUntil(t time.Time) string {
	u := t.UTC()
	if h, m, s := u.Clock(); h == 0 && m == 0 && s == 0 {
		return u.Format(untilDateLayout)
	}
	return u.Format(untilDateTimeLayout)
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}
