package cmd

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/daybook-ai/daybook/internal/server"
	"github.com/daybook-ai/daybook/internal/tools/calendar_tools"
	"github.com/daybook-ai/daybook/internal/tools/voice_tools"
)

func TestDefaultDBPath(t *testing.T) {
	t.Run("env var takes precedence", func(t *testing.T) {
		t.Setenv("DAYBOOK_DB", "/tmp/custom.db")

		if got := defaultDBPath(); got != "/tmp/custom.db" {
			t.Errorf("defaultDBPath() = %q, want /tmp/custom.db", got)
		}
	})

	t.Run("falls back to home directory", func(t *testing.T) {
		t.Setenv("DAYBOOK_DB", "")
		t.Setenv("HOME", "/home/tester")

		if got := defaultDBPath(); got != "/home/tester/.daybook/daybook.db" {
			t.Errorf("defaultDBPath() = %q, want /home/tester/.daybook/daybook.db", got)
		}
	})
}

func TestServeCmdDefaults(t *testing.T) {
	cmd := newServeCmd()

	tests := []struct {
		flag string
		want string
	}{
		{"transport", "stdio"},
		{"http-addr", ":8080"},
		{"yolo", "false"},
		{"metrics-enabled", "true"},
		{"metrics-addr", ":9090"},
		{"session-ttl", "30m0s"},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			f := cmd.Flags().Lookup(tt.flag)
			if f == nil {
				t.Fatalf("flag %q not registered", tt.flag)
			}
			if f.DefValue != tt.want {
				t.Errorf("flag %q default = %q, want %q", tt.flag, f.DefValue, tt.want)
			}
		})
	}
}

func TestGenerateToolsMarkdown(t *testing.T) {
	serverContext := server.NewServerContext(context.Background(), nil, nil, nil, nil, nil)
	defer func() { _ = serverContext.Shutdown() }()

	mcpSrv := mcpserver.NewMCPServer("daybook", "test")
	if err := calendar_tools.RegisterCalendarTools(mcpSrv, serverContext, false); err != nil {
		t.Fatalf("failed to register tools: %v", err)
	}
	if err := voice_tools.RegisterVoiceTools(mcpSrv, serverContext); err != nil {
		t.Fatalf("failed to register voice tools: %v", err)
	}

	tools := make([]mcp.Tool, 0)
	for _, serverTool := range mcpSrv.ListTools() {
		tools = append(tools, serverTool.Tool)
	}

	out := generateToolsMarkdown(tools)
	for _, want := range []string{
		"# MCP Tools Reference",
		"calendar_list_calendars",
		"calendar_create_event",
		"calendar_delete_event",
		"voice_start_session",
		"voice_agenda",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("generated docs missing %q", want)
		}
	}
}
