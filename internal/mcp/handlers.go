package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/jot/internal/document"
	"github.com/hpungsan/jot/internal/errors"
	"github.com/hpungsan/jot/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	np *ops.Notepad
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(np *ops.Notepad) *Handlers {
	return &Handlers{np: np}
}

// Request types for each tool

// NameRequest represents the arguments for tools addressing a file by name.
type NameRequest struct {
	Name string `json:"name"`
}

// WriteRequest represents the arguments for file_write.
type WriteRequest struct {
	Name string  `json:"name"`
	Text *string `json:"text"`
}

// LimitRequest represents the arguments for file_recent.
type LimitRequest struct {
	Limit int `json:"limit,omitempty"`
}

// HistoryRequest represents the arguments for file_history.
type HistoryRequest struct {
	Name  string `json:"name"`
	Limit int    `json:"limit,omitempty"`
}

// SessionRequest represents the arguments for tools addressing a session.
type SessionRequest struct {
	SessionID string `json:"session_id"`
}

// GetRequest represents the arguments for doc_get.
type GetRequest struct {
	SessionID string `json:"session_id"`
	Segments  bool   `json:"segments,omitempty"`
}

// EditRequest represents the arguments for doc_edit.
type EditRequest struct {
	SessionID string `json:"session_id"`
	Action    string `json:"action"`
	Start     int    `json:"start,omitempty"`
	End       int    `json:"end,omitempty"`
	Text      string `json:"text,omitempty"`
}

// StyleRequest represents the arguments for doc_style.
type StyleRequest struct {
	SessionID string `json:"session_id"`
	Start     int    `json:"start"`
	End       int    `json:"end"`
	Style     string `json:"style"`
	Remove    bool   `json:"remove,omitempty"`
}

// Handler implementations

// HandleFileList handles the file_list tool call.
func (h *Handlers) HandleFileList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.List(ctx, h.np, ops.ListInput{})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleFileCreate handles the file_create tool call.
func (h *Handlers) HandleFileCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NameRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Create(ctx, h.np, ops.CreateInput{Name: input.Name})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleFileDelete handles the file_delete tool call.
func (h *Handlers) HandleFileDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NameRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Delete(ctx, h.np, ops.DeleteInput{Name: input.Name})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleFileRead handles the file_read tool call.
func (h *Handlers) HandleFileRead(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NameRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Read(ctx, h.np, ops.ReadInput{Name: input.Name})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleFileWrite handles the file_write tool call.
func (h *Handlers) HandleFileWrite(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[WriteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	// An empty string is a valid write; only a missing field is rejected.
	if input.Text == nil {
		return errorResult(errors.NewInvalidRequest("text is required")), nil
	}

	result, err := ops.Write(ctx, h.np, ops.WriteInput{Name: input.Name, Text: *input.Text})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleFileRecent handles the file_recent tool call.
func (h *Handlers) HandleFileRecent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[LimitRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Recent(ctx, h.np, ops.RecentInput{Limit: input.Limit})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleFileHistory handles the file_history tool call.
func (h *Handlers) HandleFileHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HistoryRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.History(ctx, h.np, ops.HistoryInput{Name: input.Name, Limit: input.Limit})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleDocOpen handles the doc_open tool call.
func (h *Handlers) HandleDocOpen(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NameRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Open(ctx, h.np, ops.OpenInput{Name: input.Name})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleDocGet handles the doc_get tool call.
func (h *Handlers) HandleDocGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Get(ctx, h.np, ops.GetInput{SessionID: input.SessionID, Segments: input.Segments})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleDocEdit handles the doc_edit tool call.
func (h *Handlers) HandleDocEdit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[EditRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Edit(ctx, h.np, ops.EditInput{
		SessionID: input.SessionID,
		Action:    ops.EditAction(input.Action),
		Start:     input.Start,
		End:       input.End,
		Text:      input.Text,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleDocStyle handles the doc_style tool call.
func (h *Handlers) HandleDocStyle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[StyleRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	style, err := document.ParseStyle(input.Style)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Style(ctx, h.np, ops.StyleInput{
		SessionID: input.SessionID,
		Start:     input.Start,
		End:       input.End,
		Style:     style,
		Remove:    input.Remove,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleDocUndo handles the doc_undo tool call.
func (h *Handlers) HandleDocUndo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SessionRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Undo(ctx, h.np, ops.UndoInput{SessionID: input.SessionID})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleDocRedo handles the doc_redo tool call.
func (h *Handlers) HandleDocRedo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SessionRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Redo(ctx, h.np, ops.UndoInput{SessionID: input.SessionID})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleDocSave handles the doc_save tool call.
func (h *Handlers) HandleDocSave(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SessionRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Save(ctx, h.np, ops.SaveInput{SessionID: input.SessionID})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleDocClose handles the doc_close tool call.
func (h *Handlers) HandleDocClose(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SessionRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Close(ctx, h.np, ops.CloseInput{SessionID: input.SessionID})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleDocSessions handles the doc_sessions tool call.
func (h *Handlers) HandleDocSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(ops.Sessions(ctx, h.np))
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are never exposed.
func errorResult(err error) *mcp.CallToolResult {
	jErr := errors.As(err)
	errorObj := map[string]any{
		"code":    jErr.Code,
		"message": jErr.Message,
		"status":  jErr.Status,
	}
	if jErr.Code != errors.ErrInternal && jErr.Details != nil {
		errorObj["details"] = jErr.Details
	}

	content, _ := json.Marshal(map[string]any{"error": errorObj})
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
