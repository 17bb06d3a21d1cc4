package mcp

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/jot/internal/config"
	"github.com/hpungsan/jot/internal/ops"
)

// KnownTypes lists all valid type names.
var KnownTypes = []string{"file", "doc"}

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"file_list": {
		def:     fileListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFileList },
	},
	"file_create": {
		def:     fileCreateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFileCreate },
	},
	"file_delete": {
		def:     fileDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFileDelete },
	},
	"file_read": {
		def:     fileReadToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFileRead },
	},
	"file_write": {
		def:     fileWriteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFileWrite },
	},
	"file_recent": {
		def:     fileRecentToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFileRecent },
	},
	"file_history": {
		def:     fileHistoryToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFileHistory },
	},
	"doc_open": {
		def:     docOpenToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDocOpen },
	},
	"doc_get": {
		def:     docGetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDocGet },
	},
	"doc_edit": {
		def:     docEditToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDocEdit },
	},
	"doc_style": {
		def:     docStyleToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDocStyle },
	},
	"doc_undo": {
		def:     docUndoToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDocUndo },
	},
	"doc_redo": {
		def:     docRedoToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDocRedo },
	},
	"doc_save": {
		def:     docSaveToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDocSave },
	},
	"doc_close": {
		def:     docCloseToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDocClose },
	},
	"doc_sessions": {
		def:     docSessionsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDocSessions },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// ValidateDisabledTypes returns a list of unknown type names from the given list.
func ValidateDisabledTypes(names []string) []string {
	known := make(map[string]bool, len(KnownTypes))
	for _, t := range KnownTypes {
		known[t] = true
	}

	unknown := make([]string, 0)
	for _, name := range names {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// GetTypeForTool extracts the type name from a tool name.
// Tool names follow the pattern "type_action" (e.g., "doc_save" → "doc").
func GetTypeForTool(toolName string) string {
	if idx := strings.Index(toolName, "_"); idx > 0 {
		return toolName[:idx]
	}
	return ""
}

// ExpandTypesToTools returns all tool names belonging to the given types.
func ExpandTypesToTools(types []string) []string {
	if len(types) == 0 {
		return nil
	}

	typeSet := make(map[string]bool, len(types))
	for _, t := range types {
		typeSet[t] = true
	}

	tools := make([]string, 0)
	for name := range toolRegistry {
		if typeSet[GetTypeForTool(name)] {
			tools = append(tools, name)
		}
	}
	return tools
}

// NewServer creates a new MCP server with the notepad tools registered.
// Tools listed in cfg.DisabledTools or belonging to cfg.DisabledTypes
// are excluded from registration.
func NewServer(np *ops.Notepad, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"jot",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(np)

	// Build set of disabled tools: first expand types, then add individual tools
	disabled := make(map[string]bool)
	for _, tool := range ExpandTypesToTools(cfg.DisabledTypes) {
		disabled[tool] = true
	}
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(np *ops.Notepad, cfg *config.Config, version string) error {
	s := NewServer(np, cfg, version)
	return server.ServeStdio(s)
}

// ToolHandlerFunc is the signature for tool handlers.
type ToolHandlerFunc func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
