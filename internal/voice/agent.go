package voice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/daybook-ai/daybook/internal/domain"
	"github.com/daybook-ai/daybook/internal/provider"
)

// Resolver yields a provider adapter for a user. Implemented by the
// registry; narrowed here so the agent can be tested with a fake.
type Resolver interface {
	Provider(user domain.UserID, providerID domain.ProviderID) (provider.Provider, error)
}

// Agent answers voice-style requests for one session by delegating to the
// session's calendar provider.
type Agent struct {
	resolver Resolver
	now      func() time.Time
}

// NewAgent returns an agent backed by the given resolver.
func NewAgent(resolver Resolver) *Agent {
	return &Agent{resolver: resolver, now: time.Now}
}

// Agenda returns the session user's events between now and the end of the
// day, expanded into single occurrences and ordered by start time.
func (a *Agent) Agenda(ctx context.Context, session *Session, calendarID domain.CalendarID) ([]domain.CalendarEvent, error) {
	p, err := a.resolver.Provider(session.User, session.Provider)
	if err != nil {
		return nil, err
	}

	now := a.now().UTC()
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, time.UTC)

	return p.ListEvents(ctx, calendarID, domain.ListEventsQuery{
		TimeMin:      &now,
		TimeMax:      &endOfDay,
		SingleEvents: true,
		OrderBy:      domain.OrderByStartTime,
	})
}

// QuickCreate books an event with just a title, start and duration, the
// shape a voice command naturally produces.
func (a *Agent) QuickCreate(ctx context.Context, session *Session, calendarID domain.CalendarID, title string, start time.Time, duration time.Duration) (*domain.CalendarEvent, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("event title is required")
	}
	if duration <= 0 {
		return nil, fmt.Errorf("event duration must be positive")
	}

	p, err := a.resolver.Provider(session.User, session.Provider)
	if err != nil {
		return nil, err
	}

	return p.CreateEvent(ctx, calendarID, domain.EventInput{
		Summary:   title,
		Start:     domain.NewTimed(start.UTC(), "UTC"),
		End:       domain.NewTimed(start.UTC().Add(duration), "UTC"),
		Reminders: domain.DefaultReminders(),
	})
}
