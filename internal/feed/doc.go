// Package feed fetches RSS and Atom feeds and normalizes their entries into
// unified content records.
//
// Parsing is done with gofeed. Fetcher owns HTTP and parsing, NormalizeEntry
// is the pure mapping from a parsed entry to a content.Item, and Service ties
// both together for the API, the CLI and the MCP tools. Discoverer locates the
// feed of a plain website via <link rel="alternate"> tags or common paths.
package feed
