package calendar_tools

import (
	"errors"
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/daybook-ai/daybook/internal/domain"
	"github.com/daybook-ai/daybook/internal/provider"
	"github.com/daybook-ai/daybook/internal/server"
)

// getUserFromArgs extracts the user identity from request arguments.
func getUserFromArgs(args map[string]interface{}) (domain.UserID, error) {
	user, ok := args["user"].(string)
	if !ok || user == "" {
		return "", fmt.Errorf("user is required")
	}
	return domain.UserID(user), nil
}

// getProviderFromArgs extracts the provider from request arguments,
// defaulting to Google.
func getProviderFromArgs(args map[string]interface{}) domain.ProviderID {
	if p, ok := args["provider"].(string); ok && p != "" {
		return domain.ProviderID(p)
	}
	return domain.ProviderGoogle
}

// getCalendarFromArgs extracts the calendar ID, defaulting to "primary".
func getCalendarFromArgs(args map[string]interface{}) domain.CalendarID {
	if id, ok := args["calendarId"].(string); ok && id != "" {
		return domain.CalendarID(id)
	}
	return "primary"
}

// resolveProvider builds an adapter for the request's user and provider.
func resolveProvider(args map[string]interface{}, sc *server.ServerContext) (provider.Provider, error) {
	user, err := getUserFromArgs(args)
	if err != nil {
		return nil, err
	}
	return sc.Registry().Provider(user, getProviderFromArgs(args))
}

// toolError renders a provider error as text the conversation can act on. A
// missing account link gets connection guidance instead of a bare failure.
func toolError(err error) string {
	var notLinked *provider.NotLinkedError
	if errors.As(err, &notLinked) {
		return fmt.Sprintf(`No %s account is linked for this user.

To connect the account:
1. Open the daybook account settings
2. Choose "Connect %s"
3. Complete the sign-in and consent flow

Once linked, calendar tools will work without further setup.`,
			notLinked.Provider.DisplayName(), notLinked.Provider.DisplayName())
	}
	return err.Error()
}

// RegisterCalendarTools registers all calendar tools with the MCP server.
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if err := RegisterCalendarListTools(s, sc); err != nil {
		return fmt.Errorf("failed to register calendar list tools: %w", err)
	}
	if err := RegisterEventTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register event tools: %w", err)
	}
	return nil
}
