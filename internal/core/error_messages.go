package core

// error_messages.go maps errors to user-facing messages with a support code.
//
// # Editing Errors (EDT001-EDT099)
//
//	EDT001 - Shape mismatch: value count differs from the number of steps
//	EDT002 - Invalid input: label missing or no numeric values
//	EDT003 - Index out of range: the row to delete doesn't exist
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - Empty input: fewer than two lines
//	IMP002 - No step columns: header has only the label column
//	IMP003 - No valid rows: every data row was dropped
//	IMP004 - File too large
//	IMP005 - System busy: too many imports in progress
//	IMP006 - No file: the form had no file part
//
// # Session Errors (SES001-SES099)
//
//	SES001 - Session not found (expired or never existed)
//	SES002 - Session closed
//	SES003 - Too many sessions
//	SES004 - Sample not found
//
// # Request Errors
//
//	REQ001 - Request cancelled
//	REQ002 - Request timed out
//	RATE001 - Rate limited
//
// # Default Error (ERR000)
//
// Sentinel errors are matched with errors.Is, in table order. Errors that
// carry no sentinel fall back to case-insensitive substring patterns.

import (
	"context"
	"errors"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// ErrNoFile is returned when an import request carries no file.
var ErrNoFile = errors.New("no file provided")

type sentinelMessage struct {
	target error
	msg    UserMessage
}

var sentinelMessages = []sentinelMessage{
	{ErrShapeMismatch, UserMessage{
		Message: "The number of values doesn't match the number of steps",
		Action:  "Enter exactly one value per step, separated by commas",
		Code:    "EDT001",
	}},
	{ErrInvalidInput, UserMessage{
		Message: "A name and at least one numeric value are required",
		Action:  "Fill in the dimension name and its values",
		Code:    "EDT002",
	}},
	{ErrIndexOutOfRange, UserMessage{
		Message: "That row no longer exists",
		Action:  "Refresh the row list and try again",
		Code:    "EDT003",
	}},
	{ErrEmptyInput, UserMessage{
		Message: "CSV must have at least 2 rows (header + data)",
		Action:  "Download the template for the exact format",
		Code:    "IMP001",
	}},
	{ErrNoStepColumns, UserMessage{
		Message: "CSV must have step columns after the dimension column",
		Action:  "Add one column per time step to the header",
		Code:    "IMP002",
	}},
	{ErrNoValidRows, UserMessage{
		Message: "No valid data rows found",
		Action:  "Each row needs a name and one value per header column",
		Code:    "IMP003",
	}},
	{ErrFileTooLarge, UserMessage{
		Message: "File exceeds the maximum upload size",
		Action:  "Trim the file or split it into smaller datasets",
		Code:    "IMP004",
	}},
	{ErrTooManyImports, UserMessage{
		Message: "Too many imports in progress",
		Action:  "Please wait a moment and try again",
		Code:    "IMP005",
	}},
	{ErrNoFile, UserMessage{
		Message: "Please select a valid CSV file",
		Action:  "Choose a .csv file to upload",
		Code:    "IMP006",
	}},
	{ErrSessionNotFound, UserMessage{
		Message: "This chart session has expired",
		Action:  "Reload the page to start a new session",
		Code:    "SES001",
	}},
	{ErrSessionClosed, UserMessage{
		Message: "This chart session has ended",
		Action:  "Reload the page to start a new session",
		Code:    "SES002",
	}},
	{ErrTooManySessions, UserMessage{
		Message: "The server is at its session limit",
		Action:  "Please try again later",
		Code:    "SES003",
	}},
	{ErrSampleNotFound, UserMessage{
		Message: "That sample dataset doesn't exist",
		Action:  "Pick one of the listed samples",
		Code:    "SES004",
	}},
	{context.Canceled, UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "REQ001",
	}},
	{context.DeadlineExceeded, UserMessage{
		Message: "Request timed out",
		Action:  "Please try again",
		Code:    "REQ002",
	}},
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{"rate limit", UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}},
	{"request body too large", UserMessage{
		Message: "File exceeds the maximum upload size",
		Action:  "Trim the file or split it into smaller datasets",
		Code:    "IMP004",
	}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again",
	Code:    "ERR000",
}

// MapError converts an error to a user-friendly message.
// Returns an empty UserMessage for nil.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.target) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// IsUserError reports whether err was caused by the request rather than
// the server. The web layer uses it to pick 4xx over 5xx.
func IsUserError(err error) bool {
	for _, target := range []error{
		ErrShapeMismatch, ErrInvalidInput, ErrIndexOutOfRange,
		ErrEmptyInput, ErrNoStepColumns, ErrNoValidRows,
		ErrFileTooLarge, ErrNoFile, ErrSampleNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
