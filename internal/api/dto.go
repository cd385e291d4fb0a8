package api

import (
	"time"

	"github.com/daybook-ai/daybook/internal/domain"
	"github.com/daybook-ai/daybook/internal/recurrence"
)

// calendarDTO is the wire shape of a calendar.
type calendarDTO struct {
	ID          string `json:"id"`
	Summary     string `json:"summary"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	Primary     bool   `json:"primary,omitempty"`
	AccessRole  string `json:"accessRole"`
	TimeZone    string `json:"timeZone,omitempty"`
}

func calendarToDTO(c domain.Calendar) calendarDTO {
	return calendarDTO{
		ID:          string(c.ID),
		Summary:     c.Summary,
		Description: c.Description,
		Color:       c.Color,
		Primary:     c.Primary,
		AccessRole:  string(c.AccessRole),
		TimeZone:    c.TimeZone,
	}
}

// dateTimeDTO is the wire shape of an event boundary: either dateTime (with
// an optional timeZone) for timed events or date for all-day events.
type dateTimeDTO struct {
	DateTime string `json:"dateTime,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
	Date     string `json:"date,omitempty"`
}

func dateTimeToDTO(dt domain.EventDateTime) dateTimeDTO {
	if dt.AllDay() {
		return dateTimeDTO{Date: dt.Date}
	}
	return dateTimeDTO{
		DateTime: dt.DateTime.Format(time.RFC3339),
		TimeZone: dt.TimeZone,
	}
}

func dateTimeFromDTO(dto dateTimeDTO) (domain.EventDateTime, error) {
	if dto.Date != "" {
		if _, err := time.Parse(domain.DateOnly, dto.Date); err != nil {
			return domain.EventDateTime{}, err
		}
		return domain.NewAllDay(dto.Date), nil
	}
	t, err := time.Parse(time.RFC3339, dto.DateTime)
	if err != nil {
		return domain.EventDateTime{}, err
	}
	return domain.NewTimed(t, dto.TimeZone), nil
}

type attendeeDTO struct {
	Email          string `json:"email"`
	DisplayName    string `json:"displayName,omitempty"`
	ResponseStatus string `json:"responseStatus,omitempty"`
	Optional       bool   `json:"optional,omitempty"`
	Organizer      bool   `json:"organizer,omitempty"`
	Self           bool   `json:"self,omitempty"`
}

type organizerDTO struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	Self        bool   `json:"self,omitempty"`
}

type reminderOverrideDTO struct {
	Method  string `json:"method"`
	Minutes int    `json:"minutes"`
}

type remindersDTO struct {
	UseDefault bool                  `json:"useDefault"`
	Overrides  []reminderOverrideDTO `json:"overrides,omitempty"`
}

// eventDTO is the wire shape of an event.
type eventDTO struct {
	ID               string        `json:"id"`
	CalendarID       string        `json:"calendarId"`
	Summary          string        `json:"summary"`
	Description      string        `json:"description,omitempty"`
	Location         string        `json:"location,omitempty"`
	Start            dateTimeDTO   `json:"start"`
	End              dateTimeDTO   `json:"end"`
	Status           string        `json:"status"`
	Attendees        []attendeeDTO `json:"attendees,omitempty"`
	Organizer        *organizerDTO `json:"organizer,omitempty"`
	Reminders        *remindersDTO `json:"reminders,omitempty"`
	Recurrence       []string      `json:"recurrence,omitempty"`
	RecurringEventID string        `json:"recurringEventId,omitempty"`
	Created          string        `json:"created,omitempty"`
	Updated          string        `json:"updated,omitempty"`
	HTMLLink         string        `json:"htmlLink,omitempty"`
	Visibility       string        `json:"visibility,omitempty"`
}

func eventToDTO(ev domain.CalendarEvent) eventDTO {
	dto := eventDTO{
		ID:               string(ev.ID),
		CalendarID:       string(ev.CalendarID),
		Summary:          ev.Summary,
		Description:      ev.Description,
		Location:         ev.Location,
		Start:            dateTimeToDTO(ev.Start),
		End:              dateTimeToDTO(ev.End),
		Status:           string(ev.Status),
		Recurrence:       ev.Recurrence,
		RecurringEventID: string(ev.RecurringEventID),
		HTMLLink:         ev.HTMLLink,
		Visibility:       string(ev.Visibility),
	}
	if !ev.Created.IsZero() {
		dto.Created = ev.Created.Format(time.RFC3339)
	}
	if !ev.Updated.IsZero() {
		dto.Updated = ev.Updated.Format(time.RFC3339)
	}
	for _, a := range ev.Attendees {
		dto.Attendees = append(dto.Attendees, attendeeDTO{
			Email:          a.Email,
			DisplayName:    a.DisplayName,
			ResponseStatus: string(a.ResponseStatus),
			Optional:       a.Optional,
			Organizer:      a.Organizer,
			Self:           a.Self,
		})
	}
	if ev.Organizer != nil {
		dto.Organizer = &organizerDTO{
			Email:       ev.Organizer.Email,
			DisplayName: ev.Organizer.DisplayName,
			Self:        ev.Organizer.Self,
		}
	}
	if ev.Reminders != nil {
		r := &remindersDTO{UseDefault: ev.Reminders.UseDefault}
		for _, o := range ev.Reminders.Overrides {
			r.Overrides = append(r.Overrides, reminderOverrideDTO{
				Method:  string(o.Method),
				Minutes: o.Minutes,
			})
		}
		dto.Reminders = r
	}
	return dto
}

// eventInputDTO is the request body for event creation. Recurrence is a
// single RRULE string; it is decoded before the provider sees it so a bad
// rule fails the request instead of the upstream call.
type eventInputDTO struct {
	Summary     string        `json:"summary"`
	Description string        `json:"description,omitempty"`
	Location    string        `json:"location,omitempty"`
	Start       dateTimeDTO   `json:"start"`
	End         dateTimeDTO   `json:"end"`
	Attendees   []attendeeDTO `json:"attendees,omitempty"`
	Reminders   *remindersDTO `json:"reminders,omitempty"`
	Recurrence  string        `json:"recurrence,omitempty"`
	Visibility  string        `json:"visibility,omitempty"`
}

func eventInputFromDTO(dto eventInputDTO) (domain.EventInput, error) {
	start, err := dateTimeFromDTO(dto.Start)
	if err != nil {
		return domain.EventInput{}, errBadField("start", err)
	}
	end, err := dateTimeFromDTO(dto.End)
	if err != nil {
		return domain.EventInput{}, errBadField("end", err)
	}

	input := domain.EventInput{
		Summary:     dto.Summary,
		Description: dto.Description,
		Location:    dto.Location,
		Start:       start,
		End:         end,
		Attendees:   attendeesFromDTO(dto.Attendees),
		Reminders:   remindersFromDTO(dto.Reminders),
		Visibility:  domain.Visibility(dto.Visibility),
	}

	if dto.Recurrence != "" {
		rule, err := recurrence.Decode(dto.Recurrence)
		if err != nil {
			return domain.EventInput{}, err
		}
		input.Recurrence = rule
	}
	return input, nil
}

// eventPatchDTO is the request body for a partial update. Absent fields stay
// untouched upstream.
type eventPatchDTO struct {
	Summary     *string       `json:"summary,omitempty"`
	Description *string       `json:"description,omitempty"`
	Location    *string       `json:"location,omitempty"`
	Start       *dateTimeDTO  `json:"start,omitempty"`
	End         *dateTimeDTO  `json:"end,omitempty"`
	Attendees   []attendeeDTO `json:"attendees,omitempty"`
	Reminders   *remindersDTO `json:"reminders,omitempty"`
	Recurrence  *string       `json:"recurrence,omitempty"`
	Visibility  *string       `json:"visibility,omitempty"`
}

func eventPatchFromDTO(dto eventPatchDTO) (domain.EventPatch, error) {
	patch := domain.EventPatch{
		Summary:     dto.Summary,
		Description: dto.Description,
		Location:    dto.Location,
	}

	if dto.Start != nil {
		start, err := dateTimeFromDTO(*dto.Start)
		if err != nil {
			return domain.EventPatch{}, errBadField("start", err)
		}
		patch.Start = &start
	}
	if dto.End != nil {
		end, err := dateTimeFromDTO(*dto.End)
		if err != nil {
			return domain.EventPatch{}, errBadField("end", err)
		}
		patch.End = &end
	}
	if dto.Attendees != nil {
		attendees := attendeesFromDTO(dto.Attendees)
		patch.Attendees = &attendees
	}
	if dto.Reminders != nil {
		patch.Reminders = remindersFromDTO(dto.Reminders)
	}
	if dto.Recurrence != nil {
		rule, err := recurrence.Decode(*dto.Recurrence)
		if err != nil {
			return domain.EventPatch{}, err
		}
		patch.Recurrence = rule
	}
	if dto.Visibility != nil {
		v := domain.Visibility(*dto.Visibility)
		patch.Visibility = &v
	}
	return patch, nil
}

func attendeesFromDTO(dtos []attendeeDTO) []domain.Attendee {
	if dtos == nil {
		return nil
	}
	attendees := make([]domain.Attendee, 0, len(dtos))
	for _, a := range dtos {
		attendees = append(attendees, domain.Attendee{
			Email:          a.Email,
			DisplayName:    a.DisplayName,
			ResponseStatus: domain.ResponseStatus(a.ResponseStatus),
			Optional:       a.Optional,
		})
	}
	return attendees
}

func remindersFromDTO(dto *remindersDTO) *domain.Reminders {
	if dto == nil {
		return nil
	}
	r := &domain.Reminders{UseDefault: dto.UseDefault}
	for _, o := range dto.Overrides {
		r.Overrides = append(r.Overrides, domain.ReminderOverride{
			Method:  domain.ReminderMethod(o.Method),
			Minutes: o.Minutes,
		})
	}
	return r
}
