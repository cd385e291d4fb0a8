package google

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	calendar "google.golang.org/api/calendar/v3"

	"github.com/daybook-ai/daybook/internal/auth"
	"github.com/daybook-ai/daybook/internal/domain"
	"github.com/daybook-ai/daybook/internal/provider"
)

func staticSource(token string) auth.Source {
	return auth.SourceFunc(func(ctx context.Context, p domain.ProviderID, u domain.UserID) (*auth.Token, error) {
		return &auth.Token{AccessToken: token, ExpiresAt: time.Now().Add(time.Hour)}, nil
	})
}

func emptySource() auth.Source {
	return auth.SourceFunc(func(ctx context.Context, p domain.ProviderID, u domain.UserID) (*auth.Token, error) {
		return nil, nil
	})
}

func TestListEvents(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(&calendar.Events{
			Items: []*calendar.Event{
				{Id: "ev1", Summary: "Standup", Status: "confirmed"},
			},
		})
	}))
	defer ts.Close()

	a := New(staticSource("tok"), "alice", WithEndpoint(ts.URL))

	timeMin := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	events, err := a.ListEvents(t.Context(), "primary", domain.ListEventsQuery{
		TimeMin:      &timeMin,
		MaxResults:   10,
		SingleEvents: true,
		OrderBy:      domain.OrderByStartTime,
	})
	require.NoError(t, err)

	require.Len(t, events, 1)
	assert.Equal(t, domain.EventID("ev1"), events[0].ID)
	assert.Equal(t, domain.CalendarID("primary"), events[0].CalendarID)

	assert.Contains(t, gotPath, "calendars/primary/events")
	assert.Equal(t, []string{"2026-03-02T00:00:00Z"}, gotQuery["timeMin"])
	assert.Equal(t, []string{"10"}, gotQuery["maxResults"])
	assert.Equal(t, []string{"true"}, gotQuery["singleEvents"])
	assert.Equal(t, []string{"startTime"}, gotQuery["orderBy"])
}

func TestListEventsEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(&calendar.Events{})
	}))
	defer ts.Close()

	a := New(staticSource("tok"), "alice", WithEndpoint(ts.URL))

	events, err := a.ListEvents(t.Context(), "primary", domain.ListEventsQuery{})
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.NotNil(t, events)
}

func TestUpstreamErrorWrapping(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"code": 404, "message": "not found"}}`, http.StatusNotFound)
	}))
	defer ts.Close()

	a := New(staticSource("tok"), "alice", WithEndpoint(ts.URL))

	_, err := a.GetEvent(t.Context(), "primary", "missing")
	require.Error(t, err)

	var upstream *provider.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, domain.ProviderGoogle, upstream.Provider)
	assert.Equal(t, "getEvent", upstream.Op)
	assert.Equal(t, domain.CalendarID("primary"), upstream.CalendarID)
	assert.Equal(t, domain.EventID("missing"), upstream.EventID)
}

func TestNotLinkedPassesThrough(t *testing.T) {
	a := New(emptySource(), "alice")

	_, err := a.ListCalendars(t.Context())
	require.Error(t, err)

	var notLinked *provider.NotLinkedError
	require.ErrorAs(t, err, &notLinked)
	assert.Equal(t, domain.ProviderGoogle, notLinked.Provider)

	var upstream *provider.UpstreamError
	assert.False(t, errors.As(err, &upstream), "token errors are not upstream errors")
}
