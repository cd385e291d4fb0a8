package provider

import (
	"context"

	"github.com/daybook-ai/daybook/internal/domain"
)

// Provider is the capability set shared by every adapter. Both
// implementations expose identical signatures against distinct upstream
// APIs; consumers resolve one through the registry and never know which
// vendor they are talking to.
type Provider interface {
	// ProviderID is a read-only tag identifying the upstream vendor.
	ProviderID() domain.ProviderID

	ListCalendars(ctx context.Context) ([]domain.Calendar, error)
	GetCalendar(ctx context.Context, calendarID domain.CalendarID) (*domain.Calendar, error)

	ListEvents(ctx context.Context, calendarID domain.CalendarID, query domain.ListEventsQuery) ([]domain.CalendarEvent, error)
	GetEvent(ctx context.Context, calendarID domain.CalendarID, eventID domain.EventID) (*domain.CalendarEvent, error)
	CreateEvent(ctx context.Context, calendarID domain.CalendarID, input domain.EventInput) (*domain.CalendarEvent, error)
	UpdateEvent(ctx context.Context, calendarID domain.CalendarID, eventID domain.EventID, patch domain.EventPatch) (*domain.CalendarEvent, error)
	DeleteEvent(ctx context.Context, calendarID domain.CalendarID, eventID domain.EventID) error
}
