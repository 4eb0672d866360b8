package core

import "errors"

// Editing errors. A failed edit never mutates the table.
var (
	ErrShapeMismatch   = errors.New("shape mismatch: value count does not match step count")
	ErrInvalidInput    = errors.New("invalid input")
	ErrIndexOutOfRange = errors.New("row index out of range")
)

// Import errors. A failed import leaves the session's table untouched.
var (
	ErrEmptyInput    = errors.New("empty input: need a header line and at least one data line")
	ErrNoStepColumns = errors.New("no step columns in header")
	ErrNoValidRows   = errors.New("no valid data rows found")
	ErrFileTooLarge  = errors.New("file too large")
)

// Session and registry errors.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionClosed   = errors.New("session closed")
	ErrSampleNotFound  = errors.New("sample not found")
	ErrTooManySessions = errors.New("too many sessions")
)
