package calendar_tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/daybook-ai/daybook/internal/domain"
	"github.com/daybook-ai/daybook/internal/logging"
	"github.com/daybook-ai/daybook/internal/recurrence"
	"github.com/daybook-ai/daybook/internal/server"
)

// RegisterEventTools registers event-related tools with the MCP server
func RegisterEventTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// List events tool (read-only, always available)
	listEventsTool := mcp.NewTool("calendar_list_events",
		mcp.WithDescription("List/search calendar events within a time range"),
		mcp.WithString("user",
			mcp.Required(),
			mcp.Description("User identity the request acts for"),
		),
		mcp.WithString("provider",
			mcp.Description("Calendar provider: 'google' or 'outlook' (default: 'google')"),
		),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (use 'primary' for the primary calendar)"),
		),
		mcp.WithString("timeMin",
			mcp.Required(),
			mcp.Description("Start time for the range (RFC3339 format, e.g., '2026-01-01T00:00:00Z')"),
		),
		mcp.WithString("timeMax",
			mcp.Required(),
			mcp.Description("End time for the range (RFC3339 format, e.g., '2026-01-31T23:59:59Z')"),
		),
		mcp.WithString("query",
			mcp.Description("Optional search query to filter events"),
		),
		mcp.WithBoolean("singleEvents",
			mcp.Description("Expand recurring series into individual occurrences"),
		),
	)

	s.AddTool(listEventsTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListEvents(ctx, request, sc)
	})

	// Get event tool
	getEventTool := mcp.NewTool("calendar_get_event",
		mcp.WithDescription("Get details of a specific calendar event"),
		mcp.WithString("user",
			mcp.Required(),
			mcp.Description("User identity the request acts for"),
		),
		mcp.WithString("provider",
			mcp.Description("Calendar provider: 'google' or 'outlook' (default: 'google')"),
		),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (use 'primary' for the primary calendar)"),
		),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The ID of the event to retrieve"),
		),
	)

	s.AddTool(getEventTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGetEvent(ctx, request, sc)
	})

	// Create event tool
	createEventTool := mcp.NewTool("calendar_create_event",
		mcp.WithDescription("Create a new calendar event (supports all-day and recurring events)"),
		mcp.WithString("user",
			mcp.Required(),
			mcp.Description("User identity the request acts for"),
		),
		mcp.WithString("provider",
			mcp.Description("Calendar provider: 'google' or 'outlook' (default: 'google')"),
		),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (use 'primary' for the primary calendar)"),
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Event title/summary"),
		),
		mcp.WithString("description",
			mcp.Description("Event description"),
		),
		mcp.WithString("location",
			mcp.Description("Event location"),
		),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Start time (RFC3339 format, e.g., '2026-01-15T14:00:00Z')"),
		),
		mcp.WithString("end",
			mcp.Required(),
			mcp.Description("End time (RFC3339 format, e.g., '2026-01-15T15:00:00Z')"),
		),
		mcp.WithString("timeZone",
			mcp.Description("Time zone (e.g., 'America/New_York'). Defaults to UTC."),
		),
		mcp.WithString("attendees",
			mcp.Description("Comma-separated list of attendee email addresses"),
		),
		mcp.WithString("recurrence",
			mcp.Description("Recurrence rule (e.g., 'RRULE:FREQ=WEEKLY;BYDAY=MO,WE,FR')"),
		),
		mcp.WithBoolean("allDay",
			mcp.Description("Create as all-day event (ignores time portion of start/end)"),
		),
	)

	s.AddTool(createEventTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleCreateEvent(ctx, request, sc)
	})

	// Register update/delete tools only if not in read-only mode
	if !readOnly {
		updateEventTool := mcp.NewTool("calendar_update_event",
			mcp.WithDescription("Update an existing calendar event"),
			mcp.WithString("user",
				mcp.Required(),
				mcp.Description("User identity the request acts for"),
			),
			mcp.WithString("provider",
				mcp.Description("Calendar provider: 'google' or 'outlook' (default: 'google')"),
			),
			mcp.WithString("calendarId",
				mcp.Description("Calendar ID (use 'primary' for the primary calendar)"),
			),
			mcp.WithString("eventId",
				mcp.Required(),
				mcp.Description("The ID of the event to update"),
			),
			mcp.WithString("summary",
				mcp.Description("New event title/summary"),
			),
			mcp.WithString("description",
				mcp.Description("New event description"),
			),
			mcp.WithString("location",
				mcp.Description("New event location"),
			),
			mcp.WithString("start",
				mcp.Description("New start time (RFC3339 format)"),
			),
			mcp.WithString("end",
				mcp.Description("New end time (RFC3339 format)"),
			),
			mcp.WithString("timeZone",
				mcp.Description("Time zone (e.g., 'America/New_York')"),
			),
			mcp.WithString("attendees",
				mcp.Description("New comma-separated list of attendee email addresses"),
			),
			mcp.WithString("recurrence",
				mcp.Description("New recurrence rule"),
			),
		)

		s.AddTool(updateEventTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUpdateEvent(ctx, request, sc)
		})

		deleteEventTool := mcp.NewTool("calendar_delete_event",
			mcp.WithDescription("Delete a calendar event"),
			mcp.WithString("user",
				mcp.Required(),
				mcp.Description("User identity the request acts for"),
			),
			mcp.WithString("provider",
				mcp.Description("Calendar provider: 'google' or 'outlook' (default: 'google')"),
			),
			mcp.WithString("calendarId",
				mcp.Description("Calendar ID (use 'primary' for the primary calendar)"),
			),
			mcp.WithString("eventId",
				mcp.Required(),
				mcp.Description("The ID of the event to delete"),
			),
		)

		s.AddTool(deleteEventTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteEvent(ctx, request, sc)
		})
	}

	return nil
}

func handleListEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	timeMinStr, ok := args["timeMin"].(string)
	if !ok || timeMinStr == "" {
		return mcp.NewToolResultError("timeMin is required"), nil
	}
	timeMin, err := time.Parse(time.RFC3339, timeMinStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid timeMin format: %v", err)), nil
	}

	timeMaxStr, ok := args["timeMax"].(string)
	if !ok || timeMaxStr == "" {
		return mcp.NewToolResultError("timeMax is required"), nil
	}
	timeMax, err := time.Parse(time.RFC3339, timeMaxStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid timeMax format: %v", err)), nil
	}

	query := domain.ListEventsQuery{
		TimeMin: &timeMin,
		TimeMax: &timeMax,
		OrderBy: domain.OrderByStartTime,
	}
	if q, ok := args["query"].(string); ok {
		query.Query = q
	}
	if single, ok := args["singleEvents"].(bool); ok {
		query.SingleEvents = single
	}

	p, err := resolveProvider(args, sc)
	if err != nil {
		return mcp.NewToolResultError(toolError(err)), nil
	}

	events, err := p.ListEvents(ctx, getCalendarFromArgs(args), query)
	if err != nil {
		return mcp.NewToolResultError(toolError(err)), nil
	}

	result := fmt.Sprintf("Found %d events:\n\n", len(events))
	for i, event := range events {
		result += fmt.Sprintf("%d. %s\n", i+1, event.Summary)
		result += fmt.Sprintf("   ID: %s\n", event.ID)
		result += fmt.Sprintf("   Start: %s\n", formatDateTime(event.Start))
		result += fmt.Sprintf("   End: %s\n", formatDateTime(event.End))
		if event.Location != "" {
			result += fmt.Sprintf("   Location: %s\n", event.Location)
		}
		if len(event.Attendees) > 0 {
			result += fmt.Sprintf("   Attendees: %d\n", len(event.Attendees))
		}
		if len(event.Recurrence) > 0 {
			result += fmt.Sprintf("   Recurs: %s\n", event.Recurrence[0])
		}
		result += "\n"
	}

	return mcp.NewToolResultText(result), nil
}

func handleGetEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	eventID, ok := args["eventId"].(string)
	if !ok || eventID == "" {
		return mcp.NewToolResultError("eventId is required"), nil
	}

	p, err := resolveProvider(args, sc)
	if err != nil {
		return mcp.NewToolResultError(toolError(err)), nil
	}

	event, err := p.GetEvent(ctx, getCalendarFromArgs(args), domain.EventID(eventID))
	if err != nil {
		return mcp.NewToolResultError(toolError(err)), nil
	}

	result := fmt.Sprintf("Event: %s\n", event.Summary)
	result += fmt.Sprintf("ID: %s\n", event.ID)
	result += fmt.Sprintf("Start: %s\n", formatDateTime(event.Start))
	result += fmt.Sprintf("End: %s\n", formatDateTime(event.End))
	result += fmt.Sprintf("Status: %s\n", event.Status)
	if event.Description != "" {
		result += fmt.Sprintf("Description: %s\n", event.Description)
	}
	if event.Location != "" {
		result += fmt.Sprintf("Location: %s\n", event.Location)
	}
	if event.Organizer != nil {
		result += fmt.Sprintf("Organizer: %s\n", event.Organizer.Email)
	}
	if len(event.Recurrence) > 0 {
		result += fmt.Sprintf("Recurs: %s\n", event.Recurrence[0])
	}
	if event.RecurringEventID != "" {
		result += fmt.Sprintf("Part of series: %s\n", event.RecurringEventID)
	}

	if len(event.Attendees) > 0 {
		result += fmt.Sprintf("\nAttendees (%d):\n", len(event.Attendees))
		for _, att := range event.Attendees {
			result += fmt.Sprintf("  - %s (%s)", att.Email, att.ResponseStatus)
			if att.DisplayName != "" {
				result += fmt.Sprintf(" - %s", att.DisplayName)
			}
			if att.Optional {
				result += " [optional]"
			}
			result += "\n"
		}
	}

	return mcp.NewToolResultText(result), nil
}

// parseEventTimes turns the start/end/timeZone/allDay arguments into event
// boundaries. All-day events keep only the calendar date.
func parseEventTimes(args map[string]interface{}, startStr, endStr string) (domain.EventDateTime, domain.EventDateTime, error) {
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return domain.EventDateTime{}, domain.EventDateTime{}, fmt.Errorf("invalid start format: %w", err)
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		return domain.EventDateTime{}, domain.EventDateTime{}, fmt.Errorf("invalid end format: %w", err)
	}

	if allDay, ok := args["allDay"].(bool); ok && allDay {
		return domain.NewAllDay(start.Format(domain.DateOnly)),
			domain.NewAllDay(end.Format(domain.DateOnly)), nil
	}

	timeZone := "UTC"
	if tz, ok := args["timeZone"].(string); ok && tz != "" {
		timeZone = tz
	}
	return domain.NewTimed(start, timeZone), domain.NewTimed(end, timeZone), nil
}

// parseAttendees splits a comma-separated attendee list.
func parseAttendees(raw string) []domain.Attendee {
	if raw == "" {
		return nil
	}
	var attendees []domain.Attendee
	for _, email := range strings.Split(raw, ",") {
		email = strings.TrimSpace(email)
		if email != "" {
			attendees = append(attendees, domain.Attendee{Email: email})
		}
	}
	return attendees
}

func handleCreateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	summary, ok := args["summary"].(string)
	if !ok || summary == "" {
		return mcp.NewToolResultError("summary is required"), nil
	}
	startStr, ok := args["start"].(string)
	if !ok || startStr == "" {
		return mcp.NewToolResultError("start is required"), nil
	}
	endStr, ok := args["end"].(string)
	if !ok || endStr == "" {
		return mcp.NewToolResultError("end is required"), nil
	}

	start, end, err := parseEventTimes(args, startStr, endStr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	input := domain.EventInput{
		Summary:   summary,
		Start:     start,
		End:       end,
		Reminders: domain.DefaultReminders(),
	}
	if desc, ok := args["description"].(string); ok {
		input.Description = desc
	}
	if loc, ok := args["location"].(string); ok {
		input.Location = loc
	}
	if attendees, ok := args["attendees"].(string); ok {
		input.Attendees = parseAttendees(attendees)
	}
	if rec, ok := args["recurrence"].(string); ok && rec != "" {
		rule, err := recurrence.Decode(rec)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid recurrence rule: %v", err)), nil
		}
		input.Recurrence = rule
	}

	p, err := resolveProvider(args, sc)
	if err != nil {
		return mcp.NewToolResultError(toolError(err)), nil
	}

	event, err := p.CreateEvent(ctx, getCalendarFromArgs(args), input)
	if err != nil {
		return mcp.NewToolResultError(toolError(err)), nil
	}

	user, _ := getUserFromArgs(args)
	sc.Logger().Info("event created",
		logging.Tool("calendar_create_event"),
		logging.Provider(string(p.ProviderID())),
		logging.UserHash(string(user)),
		logging.Event(string(event.ID)))

	result := fmt.Sprintf("Event created: %s\n", event.Summary)
	result += fmt.Sprintf("ID: %s\n", event.ID)
	result += fmt.Sprintf("Start: %s\n", formatDateTime(event.Start))
	result += fmt.Sprintf("End: %s\n", formatDateTime(event.End))
	if event.HTMLLink != "" {
		result += fmt.Sprintf("Link: %s\n", event.HTMLLink)
	}

	return mcp.NewToolResultText(result), nil
}

func handleUpdateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	eventID, ok := args["eventId"].(string)
	if !ok || eventID == "" {
		return mcp.NewToolResultError("eventId is required"), nil
	}

	var patch domain.EventPatch
	if summary, ok := args["summary"].(string); ok && summary != "" {
		patch.Summary = &summary
	}
	if desc, ok := args["description"].(string); ok && desc != "" {
		patch.Description = &desc
	}
	if loc, ok := args["location"].(string); ok && loc != "" {
		patch.Location = &loc
	}

	startStr, hasStart := args["start"].(string)
	endStr, hasEnd := args["end"].(string)
	if hasStart != hasEnd || (hasStart && (startStr == "") != (endStr == "")) {
		return mcp.NewToolResultError("start and end must be updated together"), nil
	}
	if hasStart && startStr != "" {
		start, end, err := parseEventTimes(args, startStr, endStr)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		patch.Start = &start
		patch.End = &end
	}

	if attendees, ok := args["attendees"].(string); ok && attendees != "" {
		parsed := parseAttendees(attendees)
		patch.Attendees = &parsed
	}
	if rec, ok := args["recurrence"].(string); ok && rec != "" {
		rule, err := recurrence.Decode(rec)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid recurrence rule: %v", err)), nil
		}
		patch.Recurrence = rule
	}

	p, err := resolveProvider(args, sc)
	if err != nil {
		return mcp.NewToolResultError(toolError(err)), nil
	}

	event, err := p.UpdateEvent(ctx, getCalendarFromArgs(args), domain.EventID(eventID), patch)
	if err != nil {
		return mcp.NewToolResultError(toolError(err)), nil
	}

	result := fmt.Sprintf("Event updated: %s\n", event.Summary)
	result += fmt.Sprintf("ID: %s\n", event.ID)
	result += fmt.Sprintf("Start: %s\n", formatDateTime(event.Start))
	result += fmt.Sprintf("End: %s\n", formatDateTime(event.End))

	return mcp.NewToolResultText(result), nil
}

func handleDeleteEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	eventID, ok := args["eventId"].(string)
	if !ok || eventID == "" {
		return mcp.NewToolResultError("eventId is required"), nil
	}

	p, err := resolveProvider(args, sc)
	if err != nil {
		return mcp.NewToolResultError(toolError(err)), nil
	}

	if err := p.DeleteEvent(ctx, getCalendarFromArgs(args), domain.EventID(eventID)); err != nil {
		return mcp.NewToolResultError(toolError(err)), nil
	}

	user, _ := getUserFromArgs(args)
	sc.Logger().Info("event deleted",
		logging.Tool("calendar_delete_event"),
		logging.Provider(string(p.ProviderID())),
		logging.UserHash(string(user)),
		logging.Event(eventID))

	return mcp.NewToolResultText(fmt.Sprintf("Event %s deleted", eventID)), nil
}
