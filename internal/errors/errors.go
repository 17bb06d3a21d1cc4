package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
)

// ErrorCode represents a jot error code.
type ErrorCode string

const (
	ErrIO              ErrorCode = "IO_ERROR"          // 500, 404 when the file is missing
	ErrEncoding        ErrorCode = "ENCODING_ERROR"    // 422
	ErrInvalidName     ErrorCode = "INVALID_NAME"      // 400
	ErrRange           ErrorCode = "RANGE_ERROR"       // 400
	ErrInvalidRequest  ErrorCode = "INVALID_REQUEST"   // 400
	ErrNotFound        ErrorCode = "NOT_FOUND"         // 404
	ErrFileTooLarge    ErrorCode = "FILE_TOO_LARGE"    // 413
	ErrTooManySessions ErrorCode = "TOO_MANY_SESSIONS" // 409
	ErrInternal        ErrorCode = "INTERNAL"          // 500
)

// ErrSymlinkRefused marks a file open that refused to follow a symlink.
var ErrSymlinkRefused = stderrors.New("refusing to follow symlink")

// JotError is a structured error with code, status, and details.
type JotError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any

	// Err is the underlying cause, if any. Never shown to MCP clients.
	Err error
}

// Error implements the error interface.
func (e *JotError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *JotError) Unwrap() error {
	return e.Err
}

// NewIO creates an IO_ERROR for a failed file-system operation.
// A missing file maps to status 404; everything else is 500.
func NewIO(op, path string, err error) *JotError {
	status := 500
	reason := "failed"
	if stderrors.Is(err, fs.ErrNotExist) {
		status = 404
		reason = "no such file"
	} else if stderrors.Is(err, fs.ErrPermission) {
		reason = "permission denied"
	} else if stderrors.Is(err, ErrSymlinkRefused) {
		reason = "is a symlink"
	}
	return &JotError{
		Code:    ErrIO,
		Status:  status,
		Message: fmt.Sprintf("%s %s: %s", op, path, reason),
		Details: map[string]any{"op": op, "path": path},
		Err:     err,
	}
}

// NewEncoding creates a 422 error for file content that is not valid UTF-8.
func NewEncoding(path string, offset int) *JotError {
	return &JotError{
		Code:    ErrEncoding,
		Status:  422,
		Message: fmt.Sprintf("%s is not valid UTF-8 (first bad byte at offset %d)", path, offset),
		Details: map[string]any{"path": path, "offset": offset},
	}
}

// NewInvalidName creates a 400 error for a rejected file name.
func NewInvalidName(name, reason string) *JotError {
	return &JotError{
		Code:    ErrInvalidName,
		Status:  400,
		Message: fmt.Sprintf("invalid file name %q: %s", name, reason),
		Details: map[string]any{"name": name},
	}
}

// NewRange creates a 400 error for a style or edit range outside the buffer.
func NewRange(start, end, length int) *JotError {
	return &JotError{
		Code:    ErrRange,
		Status:  400,
		Message: fmt.Sprintf("range [%d,%d) is outside buffer of length %d", start, end, length),
		Details: map[string]any{"start": start, "end": end, "length": length},
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *JotError {
	return &JotError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for an unknown session.
func NewNotFound(identifier string) *JotError {
	return &JotError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("session not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewFileTooLarge creates a 413 error when a file exceeds the configured size.
func NewFileTooLarge(path string, max, actual int64) *JotError {
	return &JotError{
		Code:    ErrFileTooLarge,
		Status:  413,
		Message: fmt.Sprintf("%s is too large: %d bytes (max %d)", path, actual, max),
		Details: map[string]any{"path": path, "max_bytes": max, "actual_bytes": actual},
	}
}

// NewTooManySessions creates a 409 error when the session cap is reached.
func NewTooManySessions(max int) *JotError {
	return &JotError{
		Code:    ErrTooManySessions,
		Status:  409,
		Message: fmt.Sprintf("too many open sessions (max %d); close one first", max),
		Details: map[string]any{"max_sessions": max},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
// The message stays generic; the cause is kept in Details for logging.
func NewInternal(err error) *JotError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &JotError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
		Err:     err,
	}
}

// Is checks if err is, or wraps, a JotError with the given code.
func Is(err error, code ErrorCode) bool {
	var jErr *JotError
	if stderrors.As(err, &jErr) {
		return jErr.Code == code
	}
	return false
}

// As returns the JotError in err's chain, wrapping anything else as INTERNAL.
func As(err error) *JotError {
	var jErr *JotError
	if stderrors.As(err, &jErr) {
		return jErr
	}
	return NewInternal(err)
}
