package errors

import (
	"errors"
	"fmt"
)

// ReplayError is the unified error type for the rereplay library.
type ReplayError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Recoverable indicates the library healed the condition locally.
	Recoverable bool `json:"recoverable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *ReplayError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *ReplayError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *ReplayError) WithCause(cause error) *ReplayError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *ReplayError) WithDetail(key string, value any) *ReplayError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new ReplayError with automatic recoverable detection.
func New(code ErrorCode, message string) *ReplayError {
	return &ReplayError{
		Code:        code,
		Message:     message,
		Recoverable: IsRecoverableCode(code),
	}
}

// Newf creates a new ReplayError with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *ReplayError {
	return New(code, fmt.Sprintf(format, args...))
}

// NewUnstableCanonicalization creates an error for a request value that
// could not be canonicalized to text.
func NewUnstableCanonicalization(message string) *ReplayError {
	return New(ErrCodeUnstableCanonicalization, message)
}

// NewCorruptCacheFile creates an error for an unparseable cache file.
func NewCorruptCacheFile(path string, cause error) *ReplayError {
	return New(ErrCodeCorruptCacheFile, "cache file could not be parsed").
		WithDetail("path", path).
		WithCause(cause)
}

// NewMalformedCacheEntry creates an error for a stored string that is not a
// valid serialized response.
func NewMalformedCacheEntry(cause error) *ReplayError {
	return New(ErrCodeMalformedCacheEntry, "stored entry is not a valid serialized response").
		WithCause(cause)
}

// GetCode extracts the error code from an error, or empty if it is not a
// ReplayError.
func GetCode(err error) ErrorCode {
	var re *ReplayError
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}

// Is reports whether err carries the given error code.
func Is(err error, code ErrorCode) bool {
	return GetCode(err) == code
}
