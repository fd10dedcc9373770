package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestReplayError_Error(t *testing.T) {
	err := New(ErrCodeInvalidInput, "bad request")
	if got := err.Error(); got != "INVALID_INPUT: bad request" {
		t.Errorf("unexpected message: %q", got)
	}

	withCause := New(ErrCodeCorruptCacheFile, "unreadable").WithCause(fmt.Errorf("eof"))
	if got := withCause.Error(); !strings.Contains(got, "cause: eof") {
		t.Errorf("expected cause in message, got %q", got)
	}
}

func TestReplayError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("root")
	err := NewMalformedCacheEntry(cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
}

func TestRecoverableDetection(t *testing.T) {
	if !New(ErrCodeCorruptCacheFile, "x").Recoverable {
		t.Error("corrupt cache file should be recoverable")
	}
	if New(ErrCodeUnstableCanonicalization, "x").Recoverable {
		t.Error("unstable canonicalization must not be recoverable")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(NewUnstableCanonicalization("x")); got != ErrCodeUnstableCanonicalization {
		t.Errorf("unexpected code: %q", got)
	}
	if got := GetCode(fmt.Errorf("plain")); got != "" {
		t.Errorf("expected empty code for a plain error, got %q", got)
	}
	wrapped := fmt.Errorf("outer: %w", NewCorruptCacheFile("/tmp/x", fmt.Errorf("eof")))
	if !Is(wrapped, ErrCodeCorruptCacheFile) {
		t.Error("expected code detection through wrapping")
	}
}

func TestWithDetail(t *testing.T) {
	err := New(ErrCodeStorageIO, "write failed").WithDetail("path", "/tmp/cache")
	if err.Details["path"] != "/tmp/cache" {
		t.Errorf("unexpected details: %v", err.Details)
	}
}
