// Package tsvdberrors provides structured error handling for tsvdb with error
// categorization, key-value context and stack traces.
//
// # Overview
//
// Every failing tsvdb operation returns a *Error whose Type tells the caller
// what went wrong:
//   - ErrorTypeReadFailure: the source file could not be read
//   - ErrorTypeWriteFailure: an output file could not be written or appended
//   - ErrorTypeArgumentMismatch: column and value lists have different lengths
//   - ErrorTypeInvalidArgument: a parameter is out of range (batch size, separator)
//   - ErrorTypeConfig: the configuration file or flags are invalid
//
// Missing columns, ragged rows and duplicate column names are not errors; the
// engine degrades silently for those.
//
// # Basic Usage
//
//	if err := f.Close(); err != nil {
//	    return tsvdberrors.Wrap(err, tsvdberrors.ErrorTypeWriteFailure, "error saving file").
//	        WithDetail("file", path)
//	}
//
//	if tsvdberrors.IsType(err, tsvdberrors.ErrorTypeArgumentMismatch) {
//	    // report usage
//	}
//
// # Thread Safety
//
// Error instances are not safe for concurrent modification. Attach details
// before sharing an error across goroutines.
package tsvdberrors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorType represents the category of an error.
type ErrorType string

const (
	// ErrorTypeReadFailure represents an unreadable source file or an I/O error while reading
	ErrorTypeReadFailure ErrorType = "read_failure"
	// ErrorTypeWriteFailure represents an I/O error while writing or appending output
	ErrorTypeWriteFailure ErrorType = "write_failure"
	// ErrorTypeArgumentMismatch represents column/value lists of different lengths
	ErrorTypeArgumentMismatch ErrorType = "argument_mismatch"
	// ErrorTypeInvalidArgument represents an out-of-range operation parameter
	ErrorTypeInvalidArgument ErrorType = "invalid_argument"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeInternal represents internal errors, such as a failed worker
	ErrorTypeInternal ErrorType = "internal"
)

// Error represents a structured error with context.
//
// Fields:
//   - Type: categorizes the error
//   - Message: human-readable description
//   - Cause: the underlying error, if any
//   - Details: key-value pairs such as the file involved
//   - Stack: call stack at the point of creation
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack.
type StackFrame struct {
	Function string // Fully qualified function name
	File     string // Source file path
	Line     int    // Line number in source file
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error so errors.Is and errors.As see through it.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error. Calls can be chained.
//
// Example:
//
//	err := tsvdberrors.New(tsvdberrors.ErrorTypeArgumentMismatch, "columns and values array are different sizes").
//	    WithDetail("columns", 2).
//	    WithDetail("values", 3)
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new error with the given type and message and captures the
// call stack.
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf is New with a formatted message.
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error, preserving it as the cause. If err is already
// a structured Error its stack trace is kept. Returns nil if err is nil.
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// IsType checks whether err, or any error it wraps, is a structured Error of
// the given type.
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// KindOf returns the type of the outermost structured Error in err's chain.
// Plain errors are reported as ErrorTypeInternal and nil as the empty type.
func KindOf(err error) ErrorType {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return ErrorTypeInternal
	}
	return e.Type
}

// captureStack captures the current call stack up to maxFrames deep,
// skipping the specified number of frames from the top.
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
