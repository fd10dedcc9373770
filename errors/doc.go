// Package errors provides unified error handling for the rereplay library.
// It implements structured error types with error codes and recoverable
// detection so callers can distinguish self-healed storage corruption from
// canonicalization bugs that must surface immediately.
package errors
