package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/daybook-ai/daybook/internal/domain"
	"github.com/daybook-ai/daybook/internal/logging"
	"github.com/daybook-ai/daybook/internal/metrics"
	"github.com/daybook-ai/daybook/internal/provider"
)

// UserHeader carries the authenticated user identity, injected by the
// gateway in front of this service.
const UserHeader = "X-Daybook-User"

// Resolver yields a provider adapter for a (user, provider) pair.
// Implemented by the registry; narrowed here so handlers can be tested with
// a fake.
type Resolver interface {
	Provider(user domain.UserID, providerID domain.ProviderID) (provider.Provider, error)
}

// Handler serves the calendar REST API.
type Handler struct {
	resolver Resolver
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewHandler returns the API handler. Metrics may be nil when disabled.
func NewHandler(resolver Resolver, logger *slog.Logger, m *metrics.Metrics) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{resolver: resolver, logger: logger, metrics: m}
}

// Register mounts the API routes on the given mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/{provider}/calendars", h.listCalendars)
	mux.HandleFunc("GET /api/{provider}/calendars/{calendarID}", h.getCalendar)
	mux.HandleFunc("GET /api/{provider}/calendars/{calendarID}/events", h.listEvents)
	mux.HandleFunc("POST /api/{provider}/calendars/{calendarID}/events", h.createEvent)
	mux.HandleFunc("GET /api/{provider}/calendars/{calendarID}/events/{eventID}", h.getEvent)
	mux.HandleFunc("PATCH /api/{provider}/calendars/{calendarID}/events/{eventID}", h.updateEvent)
	mux.HandleFunc("DELETE /api/{provider}/calendars/{calendarID}/events/{eventID}", h.deleteEvent)
}

// resolve extracts the user and provider from the request and builds an
// adapter. A missing user header fails before the registry is consulted.
func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) (provider.Provider, bool) {
	user := r.Header.Get(UserHeader)
	if user == "" {
		writeBadRequest(w, "missing "+UserHeader+" header")
		return nil, false
	}

	providerID := domain.ProviderID(r.PathValue("provider"))
	if !domain.KnownProvider(providerID) {
		writeBadRequest(w, "unknown provider "+string(providerID))
		return nil, false
	}

	p, err := h.resolver.Provider(domain.UserID(user), providerID)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return p, true
}

// observe records the outcome of one provider call.
func (h *Handler) observe(p provider.Provider, op string, started time.Time, err error) {
	if h.metrics != nil {
		h.metrics.ObserveProviderCall(string(p.ProviderID()), op, time.Since(started), err)
	}
	if err != nil {
		h.logger.Warn("provider call failed",
			logging.Provider(string(p.ProviderID())),
			logging.Operation(op),
			logging.Err(err))
	}
}

func (h *Handler) listCalendars(w http.ResponseWriter, r *http.Request) {
	p, ok := h.resolve(w, r)
	if !ok {
		return
	}

	started := time.Now()
	calendars, err := p.ListCalendars(r.Context())
	h.observe(p, "listCalendars", started, err)
	if err != nil {
		writeError(w, err)
		return
	}

	dtos := make([]calendarDTO, 0, len(calendars))
	for _, c := range calendars {
		dtos = append(dtos, calendarToDTO(c))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) getCalendar(w http.ResponseWriter, r *http.Request) {
	p, ok := h.resolve(w, r)
	if !ok {
		return
	}

	started := time.Now()
	calendar, err := p.GetCalendar(r.Context(), domain.CalendarID(r.PathValue("calendarID")))
	h.observe(p, "getCalendar", started, err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, calendarToDTO(*calendar))
}

// parseListQuery reads the list-events query parameters. Invalid values are
// rejected rather than silently dropped.
func parseListQuery(r *http.Request) (domain.ListEventsQuery, error) {
	q := domain.ListEventsQuery{
		Query:   r.URL.Query().Get("q"),
		OrderBy: domain.EventOrder(r.URL.Query().Get("orderBy")),
	}

	if raw := r.URL.Query().Get("timeMin"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return q, errBadField("timeMin", err)
		}
		q.TimeMin = &t
	}
	if raw := r.URL.Query().Get("timeMax"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return q, errBadField("timeMax", err)
		}
		q.TimeMax = &t
	}
	if raw := r.URL.Query().Get("maxResults"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return q, errBadField("maxResults", err)
		}
		q.MaxResults = n
	}
	if raw := r.URL.Query().Get("singleEvents"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return q, errBadField("singleEvents", err)
		}
		q.SingleEvents = b
	}
	return q, nil
}

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	p, ok := h.resolve(w, r)
	if !ok {
		return
	}

	query, err := parseListQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	started := time.Now()
	events, err := p.ListEvents(r.Context(), domain.CalendarID(r.PathValue("calendarID")), query)
	h.observe(p, "listEvents", started, err)
	if err != nil {
		writeError(w, err)
		return
	}

	dtos := make([]eventDTO, 0, len(events))
	for _, ev := range events {
		dtos = append(dtos, eventToDTO(ev))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) getEvent(w http.ResponseWriter, r *http.Request) {
	p, ok := h.resolve(w, r)
	if !ok {
		return
	}

	started := time.Now()
	event, err := p.GetEvent(r.Context(),
		domain.CalendarID(r.PathValue("calendarID")),
		domain.EventID(r.PathValue("eventID")))
	h.observe(p, "getEvent", started, err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, eventToDTO(*event))
}

func (h *Handler) createEvent(w http.ResponseWriter, r *http.Request) {
	p, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var body eventInputDTO
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	input, err := eventInputFromDTO(body)
	if err != nil {
		writeError(w, err)
		return
	}

	started := time.Now()
	event, err := p.CreateEvent(r.Context(), domain.CalendarID(r.PathValue("calendarID")), input)
	h.observe(p, "createEvent", started, err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, eventToDTO(*event))
}

func (h *Handler) updateEvent(w http.ResponseWriter, r *http.Request) {
	p, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var body eventPatchDTO
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	patch, err := eventPatchFromDTO(body)
	if err != nil {
		writeError(w, err)
		return
	}

	started := time.Now()
	event, err := p.UpdateEvent(r.Context(),
		domain.CalendarID(r.PathValue("calendarID")),
		domain.EventID(r.PathValue("eventID")),
		patch)
	h.observe(p, "updateEvent", started, err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, eventToDTO(*event))
}

func (h *Handler) deleteEvent(w http.ResponseWriter, r *http.Request) {
	p, ok := h.resolve(w, r)
	if !ok {
		return
	}

	started := time.Now()
	err := p.DeleteEvent(r.Context(),
		domain.CalendarID(r.PathValue("calendarID")),
		domain.EventID(r.PathValue("eventID")))
	h.observe(p, "deleteEvent", started, err)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
