package mcp

import "github.com/mark3labs/mcp-go/mcp"

const (
	nameDesc      = "File name inside the documents directory, e.g. \"notes.txt\""
	sessionIDDesc = "Session id returned by doc_open"
	offsetNote    = " Offsets count characters (Unicode code points), not bytes."
)

var fileListToolDef = mcp.NewTool("file_list",
	mcp.WithDescription("List the files in the documents directory, sorted by name. Created but unsaved files are marked pending."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var fileCreateToolDef = mcp.NewTool("file_create",
	mcp.WithDescription("Create a file entry. Nothing is written until the first save; creating an existing name returns it."),
	mcp.WithString("name", mcp.Required(), mcp.Description(nameDesc)),
)

var fileDeleteToolDef = mcp.NewTool("file_delete",
	mcp.WithDescription("Delete a file from disk and from the listing."),
	mcp.WithString("name", mcp.Required(), mcp.Description(nameDesc)),
	mcp.WithDestructiveHintAnnotation(true),
)

var fileReadToolDef = mcp.NewTool("file_read",
	mcp.WithDescription("Return a file's text without opening a session."),
	mcp.WithString("name", mcp.Required(), mcp.Description(nameDesc)),
	mcp.WithReadOnlyHintAnnotation(true),
)

var fileWriteToolDef = mcp.NewTool("file_write",
	mcp.WithDescription("Replace a file's entire content, creating it if needed. The write is atomic."),
	mcp.WithString("name", mcp.Required(), mcp.Description(nameDesc)),
	mcp.WithString("text", mcp.Required(), mcp.Description("New UTF-8 content")),
	mcp.WithDestructiveHintAnnotation(true),
)

var fileRecentToolDef = mcp.NewTool("file_recent",
	mcp.WithDescription("List recently created, opened or saved files, newest first."),
	mcp.WithNumber("limit", mcp.Description("Maximum files to return (default 10, max 100)")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var fileHistoryToolDef = mcp.NewTool("file_history",
	mcp.WithDescription("List journal events (created, opened, saved, deleted) for one file, newest first."),
	mcp.WithString("name", mcp.Required(), mcp.Description(nameDesc)),
	mcp.WithNumber("limit", mcp.Description("Maximum events to return (default 20, max 200)")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var docOpenToolDef = mcp.NewTool("doc_open",
	mcp.WithDescription("Open a file for editing and return a session. A pending file opens empty."),
	mcp.WithString("name", mcp.Required(), mcp.Description(nameDesc)),
)

var docGetToolDef = mcp.NewTool("doc_get",
	mcp.WithDescription("Return the current text and style spans of an open session."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description(sessionIDDesc)),
	mcp.WithBoolean("segments", mcp.Description("Also return the text split into styled runs")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var docEditToolDef = mcp.NewTool("doc_edit",
	mcp.WithDescription("Change the text of an open session. insert uses start; delete and replace use [start, end); set replaces everything and drops styles."+offsetNote),
	mcp.WithString("session_id", mcp.Required(), mcp.Description(sessionIDDesc)),
	mcp.WithString("action", mcp.Required(), mcp.Enum("insert", "delete", "replace", "set")),
	mcp.WithNumber("start", mcp.Description("Start offset")),
	mcp.WithNumber("end", mcp.Description("End offset (exclusive)")),
	mcp.WithString("text", mcp.Description("Text to insert or substitute")),
)

var docStyleToolDef = mcp.NewTool("doc_style",
	mcp.WithDescription("Add (or with remove, clear) bold, italic or underline over [start, end). Styles combine and are kept in memory only; they are never saved to the file."+offsetNote),
	mcp.WithString("session_id", mcp.Required(), mcp.Description(sessionIDDesc)),
	mcp.WithNumber("start", mcp.Required(), mcp.Description("Start offset")),
	mcp.WithNumber("end", mcp.Required(), mcp.Description("End offset (exclusive)")),
	mcp.WithString("style", mcp.Required(), mcp.Description("One or more of bold, italic, underline, comma separated")),
	mcp.WithBoolean("remove", mcp.Description("Clear the style instead of adding it")),
	mcp.WithIdempotentHintAnnotation(true),
)

var docUndoToolDef = mcp.NewTool("doc_undo",
	mcp.WithDescription("Undo the most recent text or style change."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description(sessionIDDesc)),
)

var docRedoToolDef = mcp.NewTool("doc_redo",
	mcp.WithDescription("Redo the most recently undone change."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description(sessionIDDesc)),
)

var docSaveToolDef = mcp.NewTool("doc_save",
	mcp.WithDescription("Write the session's text to its file, replacing it atomically. Styles are not saved."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description(sessionIDDesc)),
	mcp.WithDestructiveHintAnnotation(true),
)

var docCloseToolDef = mcp.NewTool("doc_close",
	mcp.WithDescription("Close a session. Unsaved changes are discarded."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description(sessionIDDesc)),
)

var docSessionsToolDef = mcp.NewTool("doc_sessions",
	mcp.WithDescription("List open sessions, oldest first."),
	mcp.WithReadOnlyHintAnnotation(true),
)
