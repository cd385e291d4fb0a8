// Package cmd implements the command-line interface for daybook.
//
// This package provides the following commands:
//   - serve: Start the daybook server (MCP over stdio or HTTP with the REST API)
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// The serve command is the default command when no subcommand is specified.
package cmd
