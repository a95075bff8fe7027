// Package service hosts the MCP server runtime and its transports.
package service
