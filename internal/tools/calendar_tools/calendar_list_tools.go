package calendar_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/daybook-ai/daybook/internal/domain"
	"github.com/daybook-ai/daybook/internal/logging"
	"github.com/daybook-ai/daybook/internal/server"
)

// RegisterCalendarListTools registers calendar listing tools with the MCP server
func RegisterCalendarListTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listCalendarsTool := mcp.NewTool("calendar_list_calendars",
		mcp.WithDescription("List the calendars the user can access"),
		mcp.WithString("user",
			mcp.Required(),
			mcp.Description("User identity the request acts for"),
		),
		mcp.WithString("provider",
			mcp.Description("Calendar provider: 'google' or 'outlook' (default: 'google')"),
		),
	)

	s.AddTool(listCalendarsTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListCalendars(ctx, request, sc)
	})

	getCalendarTool := mcp.NewTool("calendar_get_calendar",
		mcp.WithDescription("Get details of a specific calendar"),
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
	)

	s.AddTool(getCalendarTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGetCalendar(ctx, request, sc)
	})

	return nil
}

func handleListCalendars(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	p, err := resolveProvider(args, sc)
	if err != nil {
		return mcp.NewToolResultError(toolError(err)), nil
	}

	fromCache := false
	calendars, err := p.ListCalendars(ctx)
	if err != nil {
		// Fall back to the cached snapshot when the upstream is down.
		calendars = cachedCalendars(ctx, args, sc)
		if calendars == nil {
			return mcp.NewToolResultError(toolError(err)), nil
		}
		fromCache = true
		sc.Logger().Warn("serving cached calendars after provider failure",
			logging.Provider(string(p.ProviderID())),
			logging.Err(err))
	} else {
		cacheCalendars(ctx, args, sc, calendars)
	}

	result := fmt.Sprintf("Found %d calendars:\n\n", len(calendars))
	if fromCache {
		result = "Provider unreachable; showing cached calendars.\n\n" + result
	}
	for i, cal := range calendars {
		result += fmt.Sprintf("%d. %s\n", i+1, cal.Summary)
		result += fmt.Sprintf("   ID: %s\n", cal.ID)
		result += fmt.Sprintf("   Access: %s\n", cal.AccessRole)
		if cal.Primary {
			result += "   Primary: yes\n"
		}
		if cal.TimeZone != "" {
			result += fmt.Sprintf("   Time zone: %s\n", cal.TimeZone)
		}
		result += "\n"
	}

	return mcp.NewToolResultText(result), nil
}

func handleGetCalendar(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	p, err := resolveProvider(args, sc)
	if err != nil {
		return mcp.NewToolResultError(toolError(err)), nil
	}

	cal, err := p.GetCalendar(ctx, getCalendarFromArgs(args))
	if err != nil {
		return mcp.NewToolResultError(toolError(err)), nil
	}

	result := fmt.Sprintf("Calendar: %s\n", cal.Summary)
	result += fmt.Sprintf("ID: %s\n", cal.ID)
	result += fmt.Sprintf("Access: %s\n", cal.AccessRole)
	if cal.Description != "" {
		result += fmt.Sprintf("Description: %s\n", cal.Description)
	}
	if cal.TimeZone != "" {
		result += fmt.Sprintf("Time zone: %s\n", cal.TimeZone)
	}
	if cal.Primary {
		result += "Primary: yes\n"
	}

	return mcp.NewToolResultText(result), nil
}

// cacheCalendars stores a fresh calendar listing. Failures are ignored; the
// cache is opportunistic.
func cacheCalendars(ctx context.Context, args map[string]interface{}, sc *server.ServerContext, calendars []domain.Calendar) {
	st := sc.Store()
	if st == nil {
		return
	}
	user, err := getUserFromArgs(args)
	if err != nil {
		return
	}
	_ = st.UpsertCalendars(ctx, user, getProviderFromArgs(args), calendars)
}

// cachedCalendars returns the last cached listing, or nil when there is none.
func cachedCalendars(ctx context.Context, args map[string]interface{}, sc *server.ServerContext) []domain.Calendar {
	st := sc.Store()
	if st == nil {
		return nil
	}
	user, err := getUserFromArgs(args)
	if err != nil {
		return nil
	}
	calendars, err := st.CachedCalendars(ctx, user, getProviderFromArgs(args))
	if err != nil || len(calendars) == 0 {
		return nil
	}
	return calendars
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
