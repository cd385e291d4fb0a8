package google

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/daybook-ai/daybook/internal/auth"
	"github.com/daybook-ai/daybook/internal/domain"
	"github.com/daybook-ai/daybook/internal/provider"
)

// Adapter talks to the Google Calendar v3 API for one (user, provider)
// pair.
type Adapter struct {
	user   domain.UserID
	tokens *provider.TokenCache

	// endpoint overrides the API base URL; tests point it at a local
	// server.
	endpoint string
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithEndpoint overrides the Calendar API base URL.
func WithEndpoint(url string) Option {
	return func(a *Adapter) { a.endpoint = url }
}

// New returns an adapter for the given user. No I/O happens until the first
// capability call.
func New(source auth.Source, user domain.UserID, opts ...Option) *Adapter {
	a := &Adapter{
		user:   user,
		tokens: provider.NewTokenCache(source, domain.ProviderGoogle, user),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ProviderID implements provider.Provider.
func (a *Adapter) ProviderID() domain.ProviderID {
	return domain.ProviderGoogle
}

// service builds a Calendar API service around the current bearer token.
func (a *Adapter) service(ctx context.Context) (*calendar.Service, error) {
	token, err := a.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	opts := []option.ClientOption{
		option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})),
	}
	if a.endpoint != "" {
		opts = append(opts, option.WithEndpoint(a.endpoint))
	}

	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return svc, nil
}

func (a *Adapter) upstreamErr(op string, calendarID domain.CalendarID, eventID domain.EventID, err error) error {
	return &provider.UpstreamError{
		Provider:   domain.ProviderGoogle,
		Op:         op,
		CalendarID: calendarID,
		EventID:    eventID,
		Err:        err,
	}
}

// ListCalendars implements provider.Provider.
func (a *Adapter) ListCalendars(ctx context.Context) ([]domain.Calendar, error) {
	svc, err := a.service(ctx)
	if err != nil {
		return nil, err
	}

	list, err := svc.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, a.upstreamErr("listCalendars", "", "", err)
	}

	calendars := make([]domain.Calendar, 0, len(list.Items))
	for _, entry := range list.Items {
		calendars = append(calendars, calendarFromEntry(entry))
	}
	return calendars, nil
}

// GetCalendar implements provider.Provider.
func (a *Adapter) GetCalendar(ctx context.Context, calendarID domain.CalendarID) (*domain.Calendar, error) {
	svc, err := a.service(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := svc.CalendarList.Get(string(calendarID)).Context(ctx).Do()
	if err != nil {
		return nil, a.upstreamErr("getCalendar", calendarID, "", err)
	}

	cal := calendarFromEntry(entry)
	return &cal, nil
}

// ListEvents implements provider.Provider. A missing or empty items array
// yields an empty sequence, never an error. No pagination beyond a single
// upstream call is performed.
func (a *Adapter) ListEvents(ctx context.Context, calendarID domain.CalendarID, query domain.ListEventsQuery) ([]domain.CalendarEvent, error) {
	svc, err := a.service(ctx)
	if err != nil {
		return nil, err
	}

	call := svc.Events.List(string(calendarID)).Context(ctx)
	if query.TimeMin != nil {
		call = call.TimeMin(query.TimeMin.Format(time.RFC3339))
	}
	if query.TimeMax != nil {
		call = call.TimeMax(query.TimeMax.Format(time.RFC3339))
	}
	if query.MaxResults > 0 {
		call = call.MaxResults(int64(query.MaxResults))
	}
	if query.Query != "" {
		call = call.Q(query.Query)
	}
	if query.SingleEvents {
		call = call.SingleEvents(true)
	}
	switch query.OrderBy {
	case domain.OrderByStartTime:
		call = call.OrderBy("startTime")
	case domain.OrderByUpdated:
		call = call.OrderBy("updated")
	}

	res, err := call.Do()
	if err != nil {
		return nil, a.upstreamErr("listEvents", calendarID, "", err)
	}

	events := make([]domain.CalendarEvent, 0, len(res.Items))
	for _, item := range res.Items {
		events = append(events, eventFromGoogle(item, calendarID))
	}
	return events, nil
}

// GetEvent implements provider.Provider.
func (a *Adapter) GetEvent(ctx context.Context, calendarID domain.CalendarID, eventID domain.EventID) (*domain.CalendarEvent, error) {
	svc, err := a.service(ctx)
	if err != nil {
		return nil, err
	}

	item, err := svc.Events.Get(string(calendarID), string(eventID)).Context(ctx).Do()
	if err != nil {
		return nil, a.upstreamErr("getEvent", calendarID, eventID, err)
	}

	ev := eventFromGoogle(item, calendarID)
	return &ev, nil
}

// CreateEvent implements provider.Provider.
func (a *Adapter) CreateEvent(ctx context.Context, calendarID domain.CalendarID, input domain.EventInput) (*domain.CalendarEvent, error) {
	svc, err := a.service(ctx)
	if err != nil {
		return nil, err
	}

	created, err := svc.Events.Insert(string(calendarID), eventFromInput(input)).Context(ctx).Do()
	if err != nil {
		return nil, a.upstreamErr("createEvent", calendarID, "", err)
	}

	ev := eventFromGoogle(created, calendarID)
	return &ev, nil
}

// UpdateEvent implements provider.Provider. The patch is sparse: only the
// fields set in the input are sent upstream; everything else is left
// untouched.
func (a *Adapter) UpdateEvent(ctx context.Context, calendarID domain.CalendarID, eventID domain.EventID, patch domain.EventPatch) (*domain.CalendarEvent, error) {
	svc, err := a.service(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := svc.Events.Patch(string(calendarID), string(eventID), eventFromPatch(patch)).Context(ctx).Do()
	if err != nil {
		return nil, a.upstreamErr("updateEvent", calendarID, eventID, err)
	}

	ev := eventFromGoogle(updated, calendarID)
	return &ev, nil
}

// DeleteEvent implements provider.Provider.
func (a *Adapter) DeleteEvent(ctx context.Context, calendarID domain.CalendarID, eventID domain.EventID) error {
	svc, err := a.service(ctx)
	if err != nil {
		return err
	}

	if err := svc.Events.Delete(string(calendarID), string(eventID)).Context(ctx).Do(); err != nil {
		return a.upstreamErr("deleteEvent", calendarID, eventID, err)
	}
	return nil
}

// Ensure interface compliance.
var _ provider.Provider = (*Adapter)(nil)
