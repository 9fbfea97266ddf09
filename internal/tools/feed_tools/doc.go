// Package feed_tools provides the MCP tool for reading RSS and Atom feeds.
//
// Tools:
//   - rss_fetch_feed: Fetch a feed, optionally discovering it from a website
//     URL first, and return its summary plus normalized entries
package feed_tools
