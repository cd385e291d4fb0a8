package voice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daybook-ai/daybook/internal/domain"
	"github.com/daybook-ai/daybook/internal/provider"
)

// agendaProvider records the list query and returns a canned agenda.
type agendaProvider struct {
	provider.Provider

	gotQuery domain.ListEventsQuery
	gotInput domain.EventInput
}

func (p *agendaProvider) ListEvents(ctx context.Context, cal domain.CalendarID, q domain.ListEventsQuery) ([]domain.CalendarEvent, error) {
	p.gotQuery = q
	return []domain.CalendarEvent{{ID: "ev1", CalendarID: cal}}, nil
}

func (p *agendaProvider) CreateEvent(ctx context.Context, cal domain.CalendarID, in domain.EventInput) (*domain.CalendarEvent, error) {
	p.gotInput = in
	return &domain.CalendarEvent{ID: "ev1", CalendarID: cal, Summary: in.Summary}, nil
}

type singleResolver struct {
	provider provider.Provider
}

func (r *singleResolver) Provider(user domain.UserID, providerID domain.ProviderID) (provider.Provider, error) {
	return r.provider, nil
}

func TestAgenda(t *testing.T) {
	fake := &agendaProvider{}
	agent := NewAgent(&singleResolver{provider: fake})
	agent.now = func() time.Time {
		return time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)
	}

	session := &Session{ID: "s1", User: "alice", Provider: domain.ProviderGoogle}
	events, err := agent.Agenda(t.Context(), session, "primary")
	require.NoError(t, err)
	require.Len(t, events, 1)

	require.NotNil(t, fake.gotQuery.TimeMin)
	require.NotNil(t, fake.gotQuery.TimeMax)
	assert.Equal(t, time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC), *fake.gotQuery.TimeMin)
	assert.Equal(t, time.Date(2026, 3, 2, 23, 59, 59, 0, time.UTC), *fake.gotQuery.TimeMax)
	assert.True(t, fake.gotQuery.SingleEvents)
	assert.Equal(t, domain.OrderByStartTime, fake.gotQuery.OrderBy)
}

func TestQuickCreate(t *testing.T) {
	fake := &agendaProvider{}
	agent := NewAgent(&singleResolver{provider: fake})

	session := &Session{ID: "s1", User: "alice", Provider: domain.ProviderGoogle}
	start := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)

	ev, err := agent.QuickCreate(t.Context(), session, "primary", "  Dentist  ", start, 45*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, domain.EventID("ev1"), ev.ID)

	assert.Equal(t, "Dentist", fake.gotInput.Summary)
	assert.Equal(t, start, fake.gotInput.Start.DateTime)
	assert.Equal(t, start.Add(45*time.Minute), fake.gotInput.End.DateTime)
	require.NotNil(t, fake.gotInput.Reminders)
	assert.True(t, fake.gotInput.Reminders.UseDefault)
}

func TestQuickCreateValidation(t *testing.T) {
	agent := NewAgent(&singleResolver{provider: &agendaProvider{}})
	session := &Session{ID: "s1", User: "alice", Provider: domain.ProviderGoogle}
	start := time.Now()

	_, err := agent.QuickCreate(t.Context(), session, "primary", "   ", start, time.Hour)
	assert.ErrorContains(t, err, "title")

	_, err = agent.QuickCreate(t.Context(), session, "primary", "Dentist", start, 0)
	assert.ErrorContains(t, err, "duration")
}
