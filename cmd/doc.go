// Package cmd implements the command-line interface for inboxcast.
//
// This package provides the following commands:
//   - serve: Start the HTTP API or the MCP stdio server
//   - check: Run the RSS, Gmail and AI integration checks
//   - feed: Print a feed summary and its newest entries
//   - inbox: Print the newest Gmail inbox messages
//   - generate-docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
