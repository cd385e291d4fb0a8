package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/daybook-ai/daybook/internal/auth"
	"github.com/daybook-ai/daybook/internal/domain"
	"github.com/daybook-ai/daybook/internal/provider"
)

const defaultBaseURL = "https://graph.microsoft.com/v1.0"

// filterTimeLayout is the local date-time format Graph expects inside
// $filter expressions.
const filterTimeLayout = "2006-01-02T15:04:05"

// Adapter talks to the Microsoft Graph calendar API for one (user,
// provider) pair.
type Adapter struct {
	user       domain.UserID
	tokens     *provider.TokenCache
	baseURL    string
	httpClient *http.Client
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithBaseURL overrides the Graph base URL.
func WithBaseURL(url string) Option {
	return func(a *Adapter) { a.baseURL = url }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(a *Adapter) { a.httpClient = c }
}

// New returns an adapter for the given user. No I/O happens until the first
// capability call.
func New(source auth.Source, user domain.UserID, opts ...Option) *Adapter {
	a := &Adapter{
		user:       user,
		tokens:     provider.NewTokenCache(source, domain.ProviderOutlook, user),
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ProviderID implements provider.Provider.
func (a *Adapter) ProviderID() domain.ProviderID {
	return domain.ProviderOutlook
}

// wrap tags an upstream failure with operation context. The distinguished
// not-linked kind passes through untouched so callers can still match it.
func (a *Adapter) wrap(op string, calendarID domain.CalendarID, eventID domain.EventID, err error) error {
	var notLinked *provider.NotLinkedError
	if errors.As(err, &notLinked) {
		return err
	}
	return &provider.UpstreamError{
		Provider:   domain.ProviderOutlook,
		Op:         op,
		CalendarID: calendarID,
		EventID:    eventID,
		Err:        err,
	}
}

// do performs one Graph request with the current bearer token and decodes
// the JSON response into out (when non-nil).
func (a *Adapter) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	token, err := a.tokens.Token(ctx)
	if err != nil {
		return err
	}

	endpoint := a.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Prefer", `outlook.timezone="UTC"`)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("graph returned status %d: %s", resp.StatusCode, detail)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// ListCalendars implements provider.Provider.
func (a *Adapter) ListCalendars(ctx context.Context) ([]domain.Calendar, error) {
	var list graphCalendarList
	if err := a.do(ctx, http.MethodGet, "/me/calendars", nil, nil, &list); err != nil {
		return nil, a.wrap("listCalendars", "", "", err)
	}

	calendars := make([]domain.Calendar, 0, len(list.Value))
	for _, c := range list.Value {
		calendars = append(calendars, calendarFromGraph(c))
	}
	return calendars, nil
}

// GetCalendar implements provider.Provider.
func (a *Adapter) GetCalendar(ctx context.Context, calendarID domain.CalendarID) (*domain.Calendar, error) {
	var c graphCalendar
	if err := a.do(ctx, http.MethodGet, "/me/calendars/"+url.PathEscape(string(calendarID)), nil, nil, &c); err != nil {
		return nil, a.wrap("getCalendar", calendarID, "", err)
	}

	cal := calendarFromGraph(c)
	return &cal, nil
}

// ListEvents implements provider.Provider. Expanding recurring series into
// occurrences uses the calendarView resource, which requires both time
// bounds; otherwise the request goes to the events resource with an OData
// filter chain. A missing or empty value array yields an empty sequence.
func (a *Adapter) ListEvents(ctx context.Context, calendarID domain.CalendarID, query domain.ListEventsQuery) ([]domain.CalendarEvent, error) {
	path := "/me/calendars/" + url.PathEscape(string(calendarID)) + "/events"
	params := url.Values{}

	if query.SingleEvents && query.TimeMin != nil && query.TimeMax != nil {
		path = "/me/calendars/" + url.PathEscape(string(calendarID)) + "/calendarView"
		params.Set("startDateTime", query.TimeMin.UTC().Format(time.RFC3339))
		params.Set("endDateTime", query.TimeMax.UTC().Format(time.RFC3339))
	} else {
		filter := ""
		if query.TimeMin != nil {
			filter = fmt.Sprintf("start/dateTime ge '%s'", query.TimeMin.UTC().Format(filterTimeLayout))
		}
		if query.TimeMax != nil {
			if filter != "" {
				filter += " and "
			}
			filter += fmt.Sprintf("end/dateTime le '%s'", query.TimeMax.UTC().Format(filterTimeLayout))
		}
		if filter != "" {
			params.Set("$filter", filter)
		}
	}

	if query.MaxResults > 0 {
		params.Set("$top", fmt.Sprintf("%d", query.MaxResults))
	}
	if query.Query != "" {
		params.Set("$search", fmt.Sprintf("%q", query.Query))
	}
	switch query.OrderBy {
	case domain.OrderByStartTime:
		params.Set("$orderby", "start/dateTime")
	case domain.OrderByUpdated:
		params.Set("$orderby", "lastModifiedDateTime")
	}

	var list graphEventList
	if err := a.do(ctx, http.MethodGet, path, params, nil, &list); err != nil {
		return nil, a.wrap("listEvents", calendarID, "", err)
	}

	events := make([]domain.CalendarEvent, 0, len(list.Value))
	for _, ev := range list.Value {
		events = append(events, eventFromGraph(ev, calendarID))
	}
	return events, nil
}

// GetEvent implements provider.Provider.
func (a *Adapter) GetEvent(ctx context.Context, calendarID domain.CalendarID, eventID domain.EventID) (*domain.CalendarEvent, error) {
	var ev graphEvent
	path := a.eventPath(calendarID, eventID)
	if err := a.do(ctx, http.MethodGet, path, nil, nil, &ev); err != nil {
		return nil, a.wrap("getEvent", calendarID, eventID, err)
	}

	out := eventFromGraph(ev, calendarID)
	return &out, nil
}

// CreateEvent implements provider.Provider.
func (a *Adapter) CreateEvent(ctx context.Context, calendarID domain.CalendarID, input domain.EventInput) (*domain.CalendarEvent, error) {
	var ev graphEvent
	path := "/me/calendars/" + url.PathEscape(string(calendarID)) + "/events"
	if err := a.do(ctx, http.MethodPost, path, nil, eventToGraph(input), &ev); err != nil {
		return nil, a.wrap("createEvent", calendarID, "", err)
	}

	out := eventFromGraph(ev, calendarID)
	return &out, nil
}

// UpdateEvent implements provider.Provider. The PATCH body carries only the
// fields set in the patch. A recurrence patch without a new start needs the
// event's current start to anchor the recurrence range, so it costs an extra
// read.
func (a *Adapter) UpdateEvent(ctx context.Context, calendarID domain.CalendarID, eventID domain.EventID, patch domain.EventPatch) (*domain.CalendarEvent, error) {
	var rangeStart domain.EventDateTime
	if patch.Recurrence != nil && patch.Start == nil {
		current, err := a.GetEvent(ctx, calendarID, eventID)
		if err != nil {
			return nil, err
		}
		rangeStart = current.Start
	}

	var ev graphEvent
	path := a.eventPath(calendarID, eventID)
	if err := a.do(ctx, http.MethodPatch, path, nil, patchToGraph(patch, rangeStart), &ev); err != nil {
		return nil, a.wrap("updateEvent", calendarID, eventID, err)
	}

	out := eventFromGraph(ev, calendarID)
	return &out, nil
}

// DeleteEvent implements provider.Provider.
func (a *Adapter) DeleteEvent(ctx context.Context, calendarID domain.CalendarID, eventID domain.EventID) error {
	path := a.eventPath(calendarID, eventID)
	if err := a.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return a.wrap("deleteEvent", calendarID, eventID, err)
	}
	return nil
}

func (a *Adapter) eventPath(calendarID domain.CalendarID, eventID domain.EventID) string {
	return "/me/calendars/" + url.PathEscape(string(calendarID)) + "/events/" + url.PathEscape(string(eventID))
}

// Ensure interface compliance.
var _ provider.Provider = (*Adapter)(nil)
