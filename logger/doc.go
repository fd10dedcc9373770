// Package logger provides structured logging for the rereplay library,
// built on zerolog. Components receive a tagged child logger so cache and
// interception diagnostics can be filtered per concern.
package logger
