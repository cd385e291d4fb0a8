package graph

import (
	"github.com/daybook-ai/daybook/internal/recurrence"
)

// Wire shapes for the subset of the Graph calendar resources this adapter
// touches. Field names are fixed by the vendor.

type graphCalendar struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	HexColor          string      `json:"hexColor,omitempty"`
	IsDefaultCalendar bool        `json:"isDefaultCalendar,omitempty"`
	CanEdit           bool        `json:"canEdit,omitempty"`
	Owner             *graphEmail `json:"owner,omitempty"`
}

type graphCalendarList struct {
	Value []graphCalendar `json:"value"`
}

type graphEmail struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
}

type graphRecipient struct {
	EmailAddress graphEmail `json:"emailAddress"`
}

type graphResponse struct {
	Response string `json:"response,omitempty"`
	Time     string `json:"time,omitempty"`
}

type graphAttendee struct {
	Type         string         `json:"type,omitempty"`
	Status       *graphResponse `json:"status,omitempty"`
	EmailAddress graphEmail     `json:"emailAddress"`
}

type graphBody struct {
	ContentType string `json:"contentType,omitempty"`
	Content     string `json:"content,omitempty"`
}

type graphDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone,omitempty"`
}

type graphLocation struct {
	DisplayName string `json:"displayName,omitempty"`
}

type graphEvent struct {
	ID                   string                      `json:"id"`
	Subject              string                      `json:"subject"`
	Body                 *graphBody                  `json:"body,omitempty"`
	BodyPreview          string                      `json:"bodyPreview,omitempty"`
	Start                *graphDateTime              `json:"start,omitempty"`
	End                  *graphDateTime              `json:"end,omitempty"`
	Location             *graphLocation              `json:"location,omitempty"`
	IsAllDay             bool                        `json:"isAllDay"`
	IsCancelled          bool                        `json:"isCancelled"`
	ShowAs               string                      `json:"showAs,omitempty"`
	Sensitivity          string                      `json:"sensitivity,omitempty"`
	Attendees            []graphAttendee             `json:"attendees,omitempty"`
	Organizer            *graphRecipient             `json:"organizer,omitempty"`
	Recurrence           *recurrence.GraphRecurrence `json:"recurrence,omitempty"`
	IsReminderOn         bool                        `json:"isReminderOn,omitempty"`
	ReminderMinutes      int                         `json:"reminderMinutesBeforeStart,omitempty"`
	CreatedDateTime      string                      `json:"createdDateTime,omitempty"`
	LastModifiedDateTime string                      `json:"lastModifiedDateTime,omitempty"`
	WebLink              string                      `json:"webLink,omitempty"`
	SeriesMasterID       string                      `json:"seriesMasterId,omitempty"`
}

type graphEventList struct {
	Value []graphEvent `json:"value"`
}
