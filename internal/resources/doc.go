// Package resources provides read-only MCP resources describing the running
// server: which integrations are usable and which voice options the audio
// tool accepts.
package resources
