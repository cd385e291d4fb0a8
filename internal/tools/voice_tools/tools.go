package voice_tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/daybook-ai/daybook/internal/domain"
	"github.com/daybook-ai/daybook/internal/logging"
	"github.com/daybook-ai/daybook/internal/provider"
	"github.com/daybook-ai/daybook/internal/server"
	"github.com/daybook-ai/daybook/internal/voice"
)

// defaultQuickCreateMinutes is the event length when a quick-create request
// does not say how long.
const defaultQuickCreateMinutes = 30

// RegisterVoiceTools registers the voice session tools with the MCP server.
// A session pins user and provider once, so follow-up turns only carry a
// session ID.
func RegisterVoiceTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	startTool := mcp.NewTool("voice_start_session",
		mcp.WithDescription("Start a voice session pinning the user and calendar provider for follow-up calls"),
		mcp.WithString("user",
			mcp.Required(),
			mcp.Description("User identity the session acts for"),
		),
		mcp.WithString("provider",
			mcp.Description("Calendar provider: 'google' or 'outlook' (default: 'google')"),
		),
	)
	s.AddTool(startTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleStartSession(request, sc)
	})

	agendaTool := mcp.NewTool("voice_agenda",
		mcp.WithDescription("List the session user's remaining events for today"),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("Session ID from voice_start_session"),
		),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (use 'primary' for the primary calendar)"),
		),
	)
	s.AddTool(agendaTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleAgenda(ctx, request, sc)
	})

	quickCreateTool := mcp.NewTool("voice_quick_create",
		mcp.WithDescription("Book an event with just a title, start time and duration"),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("Session ID from voice_start_session"),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Event title"),
		),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Start time (RFC3339 format, e.g., '2026-01-15T14:00:00Z')"),
		),
		mcp.WithNumber("durationMinutes",
			mcp.Description("Event length in minutes (default: 30)"),
		),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (use 'primary' for the primary calendar)"),
		),
	)
	s.AddTool(quickCreateTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleQuickCreate(ctx, request, sc)
	})

	endTool := mcp.NewTool("voice_end_session",
		mcp.WithDescription("End a voice session"),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("Session ID from voice_start_session"),
		),
	)
	s.AddTool(endTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleEndSession(request, sc)
	})

	return nil
}

// getSessionFromArgs resolves and renews the session named by the request.
func getSessionFromArgs(args map[string]interface{}, sc *server.ServerContext) (*voice.Session, error) {
	id, ok := args["sessionId"].(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("sessionId is required")
	}
	session := sc.Sessions().Get(id)
	if session == nil {
		return nil, fmt.Errorf("session %s not found or expired; start a new one with voice_start_session", id)
	}
	sc.Sessions().Renew(id)
	return session, nil
}

func getCalendarFromArgs(args map[string]interface{}) domain.CalendarID {
	if id, ok := args["calendarId"].(string); ok && id != "" {
		return domain.CalendarID(id)
	}
	return "primary"
}

// toolError renders a provider error as text the conversation can act on.
func toolError(err error) string {
	var notLinked *provider.NotLinkedError
	if errors.As(err, &notLinked) {
		return fmt.Sprintf("No %s account is linked for this user. Connect the account in the daybook settings, then start a new session.",
			notLinked.Provider.DisplayName())
	}
	return err.Error()
}

func handleStartSession(request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	user, ok := args["user"].(string)
	if !ok || user == "" {
		return mcp.NewToolResultError("user is required"), nil
	}
	providerID := domain.ProviderGoogle
	if p, ok := args["provider"].(string); ok && p != "" {
		providerID = domain.ProviderID(p)
	}
	if !domain.KnownProvider(providerID) {
		return mcp.NewToolResultError(fmt.Sprintf("unknown provider %s", providerID)), nil
	}

	session := sc.Sessions().Create(domain.UserID(user), providerID)
	sc.Logger().Info("voice session started",
		logging.Tool("voice_start_session"),
		logging.Provider(string(providerID)),
		logging.UserHash(user))

	result := fmt.Sprintf("Session started.\nID: %s\nProvider: %s\nExpires: %s\n",
		session.ID, providerID.DisplayName(), session.ExpiresAt.UTC().Format(time.RFC3339))
	return mcp.NewToolResultText(result), nil
}

func handleAgenda(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	session, err := getSessionFromArgs(args, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	agent := voice.NewAgent(sc.Registry())
	events, err := agent.Agenda(ctx, session, getCalendarFromArgs(args))
	if err != nil {
		return mcp.NewToolResultError(toolError(err)), nil
	}

	if len(events) == 0 {
		return mcp.NewToolResultText("Nothing left on the calendar today."), nil
	}

	result := fmt.Sprintf("%d events left today:\n\n", len(events))
	for i, ev := range events {
		result += fmt.Sprintf("%d. %s — %s\n", i+1, formatDateTime(ev.Start), ev.Summary)
		if ev.Location != "" {
			result += fmt.Sprintf("   Location: %s\n", ev.Location)
		}
	}
	return mcp.NewToolResultText(result), nil
}

func handleQuickCreate(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	session, err := getSessionFromArgs(args, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	title, _ := args["title"].(string)
	startStr, ok := args["start"].(string)
	if !ok || startStr == "" {
		return mcp.NewToolResultError("start is required"), nil
	}
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid start time: %v", err)), nil
	}

	minutes := defaultQuickCreateMinutes
	if m, ok := args["durationMinutes"].(float64); ok && m > 0 {
		minutes = int(m)
	}

	agent := voice.NewAgent(sc.Registry())
	event, err := agent.QuickCreate(ctx, session, getCalendarFromArgs(args), title, start, time.Duration(minutes)*time.Minute)
	if err != nil {
		return mcp.NewToolResultError(toolError(err)), nil
	}

	sc.Logger().Info("event created",
		logging.Tool("voice_quick_create"),
		logging.Provider(string(session.Provider)),
		logging.UserHash(string(session.User)),
		logging.Event(string(event.ID)))

	result := fmt.Sprintf("Event created: %s\n", event.Summary)
	result += fmt.Sprintf("ID: %s\n", event.ID)
	result += fmt.Sprintf("Start: %s\n", formatDateTime(event.Start))
	result += fmt.Sprintf("End: %s\n", formatDateTime(event.End))
	return mcp.NewToolResultText(result), nil
}

func handleEndSession(request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	id, ok := args["sessionId"].(string)
	if !ok || id == "" {
		return mcp.NewToolResultError("sessionId is required"), nil
	}
	sc.Sessions().End(id)

	return mcp.NewToolResultText("Session ended."), nil
}

// formatDateTime renders an event boundary for tool output.
func formatDateTime(dt domain.EventDateTime) string {
	if dt.AllDay() {
		return dt.Date + " (all day)"
	}
	s := dt.DateTime.Format("2006-01-02T15:04:05Z07:00")
	if dt.TimeZone != "" {
		s += " (" + dt.TimeZone + ")"
	}
	return s
}
