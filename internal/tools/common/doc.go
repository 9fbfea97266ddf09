// Package common provides shared helpers for the MCP tool packages: the
// instrumented handler wrapper and argument accessors.
package common
