package models

import (
	"encoding/json"
)

// Result is a successful upstream call: the body exactly as received plus a
// typed view of it. Raw is what gets returned to MCP callers.
type Result[T any] struct {
	Raw   json.RawMessage
	Value T
}

// DeleteResult is the acknowledgement returned by every DELETE endpoint.
type DeleteResult struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// FileContent is the body of a .../content endpoint. Binary payloads are
// base64 encoded so they survive a JSON text channel.
type FileContent struct {
	FileID      string `json:"file_id"`
	ContentType string `json:"content_type,omitempty"`
	Encoding    string `json:"encoding"`
	Content     string `json:"content"`
}

// ServerInfo represents MCP server information
type ServerInfo struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Transport    string            `json:"transport"`
	Capabilities []string          `json:"capabilities"`
	Tools        []ToolInfo        `json:"tools"`
	Endpoints    map[string]string `json:"endpoints"`
}

type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
}
