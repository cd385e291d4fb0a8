package graph

import (
	"time"

	"github.com/daybook-ai/daybook/internal/domain"
	"github.com/daybook-ai/daybook/internal/recurrence"
)

// untitledSummary fills in for events the upstream returns without a
// subject.
const untitledSummary = "Untitled"

// graphTimeLayout is Graph's local date-time format. The optional fraction
// covers the seven-digit precision Graph emits on reads.
const (
	graphTimeLayout     = "2006-01-02T15:04:05"
	graphTimeReadLayout = "2006-01-02T15:04:05.9999999"
)

// Fixed lookup tables between Graph wire values and the canonical enums.
// Unrecognized upstream values fall back to the most neutral canonical
// value; an isCancelled flag overrides any showAs-derived status.
var (
	statusFromShowAs = map[string]domain.EventStatus{
		"busy":             domain.StatusConfirmed,
		"tentative":        domain.StatusTentative,
		"free":             domain.StatusConfirmed,
		"oof":              domain.StatusConfirmed,
		"workingElsewhere": domain.StatusConfirmed,
	}
	responseFromGraph = map[string]domain.ResponseStatus{
		"accepted":            domain.ResponseAccepted,
		"declined":            domain.ResponseDeclined,
		"tentativelyAccepted": domain.ResponseTentative,
		"organizer":           domain.ResponseAccepted,
		"notResponded":        domain.ResponseNeedsAction,
		"none":                domain.ResponseNeedsAction,
	}
	visibilityFromSensitivity = map[string]domain.Visibility{
		"normal":       domain.VisibilityDefault,
		"personal":     domain.VisibilityPrivate,
		"private":      domain.VisibilityPrivate,
		"confidential": domain.VisibilityConfidential,
	}
	sensitivityFromVisibility = map[domain.Visibility]string{
		domain.VisibilityDefault:      "normal",
		domain.VisibilityPublic:       "normal",
		domain.VisibilityPrivate:      "private",
		domain.VisibilityConfidential: "confidential",
	}
)

func calendarFromGraph(c graphCalendar) domain.Calendar {
	role := domain.AccessRoleReader
	if c.CanEdit {
		role = domain.AccessRoleWriter
	}
	if c.IsDefaultCalendar {
		role = domain.AccessRoleOwner
	}
	return domain.Calendar{
		ID:         domain.CalendarID(c.ID),
		Summary:    c.Name,
		Color:      c.HexColor,
		Primary:    c.IsDefaultCalendar,
		AccessRole: role,
	}
}

func eventFromGraph(ev graphEvent, calendarID domain.CalendarID) domain.CalendarEvent {
	out := domain.CalendarEvent{
		ID:               domain.EventID(ev.ID),
		CalendarID:       calendarID,
		Summary:          ev.Subject,
		Location:         locationFromGraph(ev.Location),
		Start:            dtFromGraph(ev.Start, ev.IsAllDay),
		End:              dtFromGraph(ev.End, ev.IsAllDay),
		Status:           domain.StatusConfirmed,
		RecurringEventID: domain.EventID(ev.SeriesMasterID),
		HTMLLink:         ev.WebLink,
		Visibility:       domain.VisibilityDefault,
	}

	if out.Summary == "" {
		out.Summary = untitledSummary
	}
	if ev.Body != nil {
		out.Description = ev.Body.Content
	} else {
		out.Description = ev.BodyPreview
	}

	if s, ok := statusFromShowAs[ev.ShowAs]; ok {
		out.Status = s
	}
	// Cancellation is a separate boolean on this provider and wins over
	// anything showAs implies.
	if ev.IsCancelled {
		out.Status = domain.StatusCancelled
	}

	if v, ok := visibilityFromSensitivity[ev.Sensitivity]; ok {
		out.Visibility = v
	}

	for _, att := range ev.Attendees {
		response := domain.ResponseNeedsAction
		if att.Status != nil {
			if r, ok := responseFromGraph[att.Status.Response]; ok {
				response = r
			}
		}
		out.Attendees = append(out.Attendees, domain.Attendee{
			Email:          att.EmailAddress.Address,
			DisplayName:    att.EmailAddress.Name,
			ResponseStatus: response,
			Optional:       att.Type == "optional",
		})
	}

	if ev.Organizer != nil {
		out.Organizer = &domain.Organizer{
			Email:       ev.Organizer.EmailAddress.Address,
			DisplayName: ev.Organizer.EmailAddress.Name,
		}
	}

	// Graph carries a single native reminder rather than an override list.
	// Zero minutes is a valid "remind at start" reminder.
	if ev.IsReminderOn {
		out.Reminders = &domain.Reminders{
			Overrides: []domain.ReminderOverride{
				{Method: domain.ReminderPopup, Minutes: ev.ReminderMinutes},
			},
		}
	} else {
		out.Reminders = domain.DefaultReminders()
	}

	if rule := recurrence.FromGraph(ev.Recurrence); rule != nil {
		out.Recurrence = []string{recurrence.Encode(*rule)}
	}

	if t, err := time.Parse(time.RFC3339, ev.CreatedDateTime); err == nil {
		out.Created = t
	}
	if t, err := time.Parse(time.RFC3339, ev.LastModifiedDateTime); err == nil {
		out.Updated = t
	}

	return out
}

func locationFromGraph(l *graphLocation) string {
	if l == nil {
		return ""
	}
	return l.DisplayName
}

// dtFromGraph maps a Graph date-time. The explicit all-day flag takes
// precedence over the presence or absence of a time component.
func dtFromGraph(g *graphDateTime, allDay bool) domain.EventDateTime {
	if g == nil || g.DateTime == "" {
		return domain.EventDateTime{}
	}
	if allDay {
		if len(g.DateTime) >= len(domain.DateOnly) {
			return domain.NewAllDay(g.DateTime[:len(domain.DateOnly)])
		}
		return domain.EventDateTime{}
	}

	loc := time.UTC
	tz := g.TimeZone
	if tz != "" && tz != "UTC" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}
	t, err := time.ParseInLocation(graphTimeReadLayout, g.DateTime, loc)
	if err != nil {
		return domain.EventDateTime{}
	}
	return domain.NewTimed(t, tz)
}

// dtToGraph renders an EventDateTime as a Graph date-time object. All-day
// values become midnight in UTC, matching Graph's convention for isAllDay
// events.
func dtToGraph(e domain.EventDateTime) map[string]string {
	if e.AllDay() {
		return map[string]string{
			"dateTime": e.Date + "T00:00:00",
			"timeZone": "UTC",
		}
	}

	tz := e.TimeZone
	t := e.DateTime
	if tz == "" {
		tz = "UTC"
		t = t.UTC()
	} else if loc, err := time.LoadLocation(tz); err == nil {
		t = t.In(loc)
	} else {
		tz = "UTC"
		t = t.UTC()
	}
	return map[string]string{
		"dateTime": t.Format(graphTimeLayout),
		"timeZone": tz,
	}
}

func attendeesToGraph(attendees []domain.Attendee) []map[string]any {
	out := make([]map[string]any, 0, len(attendees))
	for _, att := range attendees {
		kind := "required"
		if att.Optional {
			kind = "optional"
		}
		out = append(out, map[string]any{
			"type": kind,
			"emailAddress": map[string]string{
				"address": att.Email,
				"name":    att.DisplayName,
			},
		})
	}
	return out
}

// startDateFor seeds the recurrence range's start field from the event's
// own start.
func startDateFor(start domain.EventDateTime) string {
	if start.AllDay() {
		return start.Date
	}
	return start.DateTime.UTC().Format(domain.DateOnly)
}

// eventToGraph renders the create payload. Only fields the input carries
// are emitted.
func eventToGraph(in domain.EventInput) map[string]any {
	body := map[string]any{
		"subject": in.Summary,
		"start":   dtToGraph(in.Start),
		"end":     dtToGraph(in.End),
	}
	if in.Start.AllDay() {
		body["isAllDay"] = true
	}
	if in.Description != "" {
		body["body"] = map[string]string{"contentType": "text", "content": in.Description}
	}
	if in.Location != "" {
		body["location"] = map[string]string{"displayName": in.Location}
	}
	if len(in.Attendees) > 0 {
		body["attendees"] = attendeesToGraph(in.Attendees)
	}
	if in.Visibility != "" {
		if s, ok := sensitivityFromVisibility[in.Visibility]; ok {
			body["sensitivity"] = s
		}
	}
	if in.Recurrence != nil {
		body["recurrence"] = recurrence.ToGraph(*in.Recurrence, startDateFor(in.Start))
	}
	applyReminders(body, in.Reminders)
	return body
}

// patchToGraph renders a sparse PATCH payload: only the fields set in the
// patch appear; omitted fields are never sent as nulls. rangeStart anchors
// the recurrence range when the patch carries a rule but no new start; the
// adapter seeds it from the event's current start.
func patchToGraph(p domain.EventPatch, rangeStart domain.EventDateTime) map[string]any {
	body := map[string]any{}

	if p.Summary != nil {
		body["subject"] = *p.Summary
	}
	if p.Description != nil {
		body["body"] = map[string]string{"contentType": "text", "content": *p.Description}
	}
	if p.Location != nil {
		body["location"] = map[string]string{"displayName": *p.Location}
	}
	if p.Start != nil {
		body["start"] = dtToGraph(*p.Start)
		if p.Start.AllDay() {
			body["isAllDay"] = true
		}
	}
	if p.End != nil {
		body["end"] = dtToGraph(*p.End)
	}
	if p.Attendees != nil {
		body["attendees"] = attendeesToGraph(*p.Attendees)
	}
	if p.Visibility != nil {
		if s, ok := sensitivityFromVisibility[*p.Visibility]; ok {
			body["sensitivity"] = s
		}
	}
	if p.Recurrence != nil {
		start := rangeStart
		if p.Start != nil {
			start = *p.Start
		}
		body["recurrence"] = recurrence.ToGraph(*p.Recurrence, startDateFor(start))
	}
	applyReminders(body, p.Reminders)
	return body
}

// applyReminders maps the canonical reminder shape onto Graph's single
// native reminder: only the first custom override's minutes survives, a
// lossy-by-necessity constraint of the upstream API. Default reminders
// leave the fields untouched.
func applyReminders(body map[string]any, r *domain.Reminders) {
	if r == nil || r.UseDefault || len(r.Overrides) == 0 {
		return
	}
	body["isReminderOn"] = true
	body["reminderMinutesBeforeStart"] = r.Overrides[0].Minutes
}
