// Package domain defines the MCP tool and resource surface for calculator
// sessions. Handlers bind directly to the in-process calculator service.
package domain

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/tenkey.space/internal/calc"
	"github.com/louisbranch/tenkey.space/internal/services/calc/app"
	"github.com/louisbranch/tenkey.space/internal/services/calc/domain"
	"github.com/louisbranch/tenkey.space/internal/services/calc/storage"
)

// SessionsResourceURI addresses the readable session listing resource.
const SessionsResourceURI = "calc://sessions"

// ResourceUpdateNotifier pushes resource-updated notifications to subscribed
// MCP clients.
type ResourceUpdateNotifier func(ctx context.Context, uri string)

// NotifyResourceUpdates invokes the notifier for each URI when one is set.
func NotifyResourceUpdates(ctx context.Context, notify ResourceUpdateNotifier, uris ...string) {
	if notify == nil {
		return
	}
	for _, uri := range uris {
		notify(ctx, uri)
	}
}

// DisplayResult is the shared tool output describing what the calculator shows.
type DisplayResult struct {
	SessionID    string `json:"session_id" jsonschema:"session identifier"`
	Display      string `json:"display" jsonschema:"current display text"`
	HasError     bool   `json:"has_error" jsonschema:"true when the calculator is in a sticky error state"`
	ErrorMessage string `json:"error_message,omitempty" jsonschema:"user-facing error description, if any"`
}

func displayResult(id string, display calc.Display) DisplayResult {
	return DisplayResult{
		SessionID:    id,
		Display:      display.Text,
		HasError:     display.HasError,
		ErrorMessage: display.ErrorMessage,
	}
}

// SessionCreateInput represents the MCP tool input for creating a session.
type SessionCreateInput struct {
	Name string `json:"name" jsonschema:"human-readable session name"`
}

// SessionCreateResult represents the MCP tool output for creating a session.
type SessionCreateResult struct {
	ID        string `json:"id" jsonschema:"session identifier"`
	Name      string `json:"name" jsonschema:"session name"`
	Display   string `json:"display" jsonschema:"current display text"`
	CreatedAt string `json:"created_at" jsonschema:"RFC3339 timestamp when the session was created"`
}

// SessionCreateTool defines the MCP tool schema for creating a session.
func SessionCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "calc_session_create",
		Description: "Creates a named calculator session starting at 0.",
	}
}

// SessionCreateHandler executes a session create request.
func SessionCreateHandler(svc *app.Service, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[SessionCreateInput, SessionCreateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SessionCreateInput) (*mcp.CallToolResult, SessionCreateResult, error) {
		session, err := svc.CreateSession(ctx, input.Name)
		if err != nil {
			return nil, SessionCreateResult{}, fmt.Errorf("create session: %w", err)
		}

		NotifyResourceUpdates(ctx, notify, SessionsResourceURI)
		return nil, SessionCreateResult{
			ID:        session.ID,
			Name:      session.Name,
			Display:   session.State.Display().Text,
			CreatedAt: session.CreatedAt.Format(time.RFC3339),
		}, nil
	}
}

// SessionListInput represents the MCP tool input for listing sessions.
type SessionListInput struct{}

// SessionListEntry is one session in a listing result.
type SessionListEntry struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Display   string `json:"display"`
	HasError  bool   `json:"has_error"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// SessionListResult represents the MCP tool output for listing sessions.
type SessionListResult struct {
	Sessions []SessionListEntry `json:"sessions" jsonschema:"sessions ordered by creation time"`
}

// SessionListTool defines the MCP tool schema for listing sessions.
func SessionListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "calc_session_list",
		Description: "Lists all calculator sessions with their current displays.",
	}
}

// SessionListHandler executes a session list request.
func SessionListHandler(svc *app.Service) mcp.ToolHandlerFor[SessionListInput, SessionListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ SessionListInput) (*mcp.CallToolResult, SessionListResult, error) {
		sessions, err := svc.ListSessions(ctx)
		if err != nil {
			return nil, SessionListResult{}, fmt.Errorf("list sessions: %w", err)
		}
		return nil, SessionListResult{Sessions: sessionEntries(sessions)}, nil
	}
}

func sessionEntries(sessions []domain.Session) []SessionListEntry {
	entries := make([]SessionListEntry, 0, len(sessions))
	for _, session := range sessions {
		display := session.State.Display()
		entries = append(entries, SessionListEntry{
			ID:        session.ID,
			Name:      session.Name,
			Display:   display.Text,
			HasError:  display.HasError,
			CreatedAt: session.CreatedAt.Format(time.RFC3339),
			UpdatedAt: session.UpdatedAt.Format(time.RFC3339),
		})
	}
	return entries
}

// SessionDeleteInput represents the MCP tool input for deleting a session.
type SessionDeleteInput struct {
	SessionID string `json:"session_id" jsonschema:"session identifier"`
}

// SessionDeleteResult represents the MCP tool output for deleting a session.
type SessionDeleteResult struct {
	SessionID string `json:"session_id" jsonschema:"deleted session identifier"`
	Deleted   bool   `json:"deleted" jsonschema:"true when the session was removed"`
}

// SessionDeleteTool defines the MCP tool schema for deleting a session.
func SessionDeleteTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "calc_session_delete",
		Description: "Deletes a calculator session and its state.",
	}
}

// SessionDeleteHandler executes a session delete request.
func SessionDeleteHandler(svc *app.Service, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[SessionDeleteInput, SessionDeleteResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SessionDeleteInput) (*mcp.CallToolResult, SessionDeleteResult, error) {
		if err := svc.DeleteSession(ctx, input.SessionID); err != nil {
			if stderrors.Is(err, storage.ErrNotFound) {
				return nil, SessionDeleteResult{}, fmt.Errorf("session %q not found", input.SessionID)
			}
			return nil, SessionDeleteResult{}, fmt.Errorf("delete session: %w", err)
		}

		NotifyResourceUpdates(ctx, notify, SessionsResourceURI)
		return nil, SessionDeleteResult{SessionID: input.SessionID, Deleted: true}, nil
	}
}

// PressInput represents the MCP tool input for pressing calculator keys.
type PressInput struct {
	SessionID string   `json:"session_id" jsonschema:"session identifier"`
	Keys      []string `json:"keys" jsonschema:"key tokens to press in order, such as digits, + - * /, =, ., C, AC, +/- and %"`
}

// PressTool defines the MCP tool schema for pressing keys.
func PressTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "calc_press",
		Description: "Presses a sequence of keys on a calculator session and returns the resulting display. Unknown keys are ignored.",
	}
}

// PressHandler executes a keypress request.
func PressHandler(svc *app.Service, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[PressInput, DisplayResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PressInput) (*mcp.CallToolResult, DisplayResult, error) {
		if len(input.Keys) == 0 {
			return nil, DisplayResult{}, fmt.Errorf("keys are required")
		}

		display, err := svc.Press(ctx, input.SessionID, input.Keys...)
		if err != nil {
			if stderrors.Is(err, storage.ErrNotFound) {
				return nil, DisplayResult{}, fmt.Errorf("session %q not found", input.SessionID)
			}
			return nil, DisplayResult{}, fmt.Errorf("press keys: %w", err)
		}

		NotifyResourceUpdates(ctx, notify, SessionsResourceURI)
		return nil, displayResult(input.SessionID, display), nil
	}
}

// DisplayInput represents the MCP tool input for reading a display.
type DisplayInput struct {
	SessionID string `json:"session_id" jsonschema:"session identifier"`
}

// DisplayTool defines the MCP tool schema for reading the current display.
func DisplayTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "calc_display",
		Description: "Returns the current display of a calculator session without changing it.",
	}
}

// DisplayHandler executes a display read request.
func DisplayHandler(svc *app.Service) mcp.ToolHandlerFor[DisplayInput, DisplayResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DisplayInput) (*mcp.CallToolResult, DisplayResult, error) {
		display, err := svc.Display(ctx, input.SessionID)
		if err != nil {
			if stderrors.Is(err, storage.ErrNotFound) {
				return nil, DisplayResult{}, fmt.Errorf("session %q not found", input.SessionID)
			}
			return nil, DisplayResult{}, fmt.Errorf("read display: %w", err)
		}
		return nil, displayResult(input.SessionID, display), nil
	}
}

// ClearInput represents the MCP tool input for clearing a session.
type ClearInput struct {
	SessionID string `json:"session_id" jsonschema:"session identifier"`
	EntryOnly bool   `json:"entry_only,omitempty" jsonschema:"clear only the current entry, keeping any pending operation"`
}

// ClearTool defines the MCP tool schema for clearing a session.
func ClearTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "calc_clear",
		Description: "Clears a calculator session. By default performs all-clear; set entry_only to keep the pending operation.",
	}
}

// ClearHandler executes a clear request.
func ClearHandler(svc *app.Service, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[ClearInput, DisplayResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ClearInput) (*mcp.CallToolResult, DisplayResult, error) {
		var (
			display calc.Display
			err     error
		)
		if input.EntryOnly {
			display, err = svc.ClearEntry(ctx, input.SessionID)
		} else {
			display, err = svc.Reset(ctx, input.SessionID)
		}
		if err != nil {
			if stderrors.Is(err, storage.ErrNotFound) {
				return nil, DisplayResult{}, fmt.Errorf("session %q not found", input.SessionID)
			}
			return nil, DisplayResult{}, fmt.Errorf("clear session: %w", err)
		}

		NotifyResourceUpdates(ctx, notify, SessionsResourceURI)
		return nil, displayResult(input.SessionID, display), nil
	}
}

// SessionsResource defines the readable session listing resource.
func SessionsResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "calc_sessions",
		Title:       "Calculator sessions",
		Description: "Readable listing of all calculator sessions and their displays.",
		MIMEType:    "application/json",
		URI:         SessionsResourceURI,
	}
}

// SessionsResourceHandler returns the session listing resource payload.
func SessionsResourceHandler(svc *app.Service) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if svc == nil {
			return nil, fmt.Errorf("calculator service is not configured")
		}

		uri := SessionsResourceURI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}

		sessions, err := svc.ListSessions(ctx)
		if err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}

		payload := SessionListResult{Sessions: sessionEntries(sessions)}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal session list: %w", err)
		}

		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      uri,
					MIMEType: "application/json",
					Text:     string(data),
				},
			},
		}, nil
	}
}
