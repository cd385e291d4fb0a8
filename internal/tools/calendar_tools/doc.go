// Package calendar_tools exposes the calendar operations as MCP tools so a
// conversational agent can read and manage the user's calendars across
// providers. Destructive tools are withheld in read-only mode.
package calendar_tools
