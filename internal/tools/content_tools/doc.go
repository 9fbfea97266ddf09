// Package content_tools provides MCP tools that rewrite content items with
// the configured generative model.
//
// Tools:
//   - content_generate: Compose podcast-style text from a list of items
//   - content_enhance: Add an AI summary, tags or analysis to one item
package content_tools
