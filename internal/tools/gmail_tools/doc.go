// Package gmail_tools provides the MCP tool for reading the Gmail inbox.
//
// Tools:
//   - gmail_list_inbox: List the newest inbox messages as normalized content
//     items
//
// The tool logs in on first use with the stored token, falling back to the
// browser consent flow when the server was started with one.
package gmail_tools
