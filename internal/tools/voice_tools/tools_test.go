package voice_tools

import (
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daybook-ai/daybook/internal/domain"
	"github.com/daybook-ai/daybook/internal/provider"
	"github.com/daybook-ai/daybook/internal/server"
	"github.com/daybook-ai/daybook/internal/voice"
)

func newTestContext(t *testing.T) *server.ServerContext {
	t.Helper()
	return server.NewServerContext(t.Context(), nil, nil, voice.NewStore(), nil, nil)
}

func requestWith(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestRegisterVoiceTools(t *testing.T) {
	s := mcpserver.NewMCPServer("test", "0.0.1")

	require.NoError(t, RegisterVoiceTools(s, newTestContext(t)))

	names := make([]string, 0, 4)
	for _, tool := range s.ListTools() {
		names = append(names, tool.Tool.Name)
	}
	assert.Contains(t, names, "voice_start_session")
	assert.Contains(t, names, "voice_agenda")
	assert.Contains(t, names, "voice_quick_create")
	assert.Contains(t, names, "voice_end_session")
}

func TestStartSession(t *testing.T) {
	sc := newTestContext(t)

	result, err := handleStartSession(requestWith(map[string]interface{}{
		"user":     "alice",
		"provider": "outlook",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := textOf(t, result)
	assert.Contains(t, text, "Session started")
	assert.Contains(t, text, "Outlook Calendar")
	assert.Equal(t, 1, sc.Sessions().Len())
}

func TestStartSessionValidation(t *testing.T) {
	sc := newTestContext(t)

	result, err := handleStartSession(requestWith(map[string]interface{}{}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = handleStartSession(requestWith(map[string]interface{}{
		"user":     "alice",
		"provider": "caldav",
	}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textOf(t, result), "unknown provider")
	assert.Equal(t, 0, sc.Sessions().Len())
}

func TestEndSession(t *testing.T) {
	sc := newTestContext(t)
	session := sc.Sessions().Create("alice", domain.ProviderGoogle)

	result, err := handleEndSession(requestWith(map[string]interface{}{
		"sessionId": session.ID,
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Equal(t, 0, sc.Sessions().Len())
}

func TestGetSessionFromArgs(t *testing.T) {
	sc := newTestContext(t)
	session := sc.Sessions().Create("alice", domain.ProviderGoogle)

	got, err := getSessionFromArgs(map[string]interface{}{"sessionId": session.ID}, sc)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)

	_, err = getSessionFromArgs(map[string]interface{}{}, sc)
	assert.ErrorContains(t, err, "sessionId is required")

	_, err = getSessionFromArgs(map[string]interface{}{"sessionId": "missing"}, sc)
	assert.ErrorContains(t, err, "not found or expired")
}

func TestGetCalendarFromArgs(t *testing.T) {
	assert.Equal(t, domain.CalendarID("primary"), getCalendarFromArgs(map[string]interface{}{}))
	assert.Equal(t, domain.CalendarID("work"), getCalendarFromArgs(map[string]interface{}{"calendarId": "work"}))
}

func TestToolErrorNotLinked(t *testing.T) {
	msg := toolError(&provider.NotLinkedError{Provider: domain.ProviderGoogle})
	assert.Contains(t, msg, "Google Calendar")
	assert.True(t, strings.Contains(msg, "Connect"))
}
