package testutil

import (
	"context"
	"testing"

	"github.com/kbukum/rereplay/component"
)

// CleanupFunc is a function that performs cleanup, typically stopping a
// component.
type CleanupFunc func() error

// Setup starts a component and returns a cleanup function.
// The cleanup function should be called (typically with defer) to stop the
// component.
//
// Example:
//
//	cleanup, err := testutil.Setup(cacheComponent)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer cleanup()
func Setup(c component.Component) (CleanupFunc, error) {
	return SetupWithContext(context.Background(), c)
}

// SetupWithContext starts a component with a custom context and returns a
// cleanup function.
func SetupWithContext(ctx context.Context, c component.Component) (CleanupFunc, error) {
	if err := c.Start(ctx); err != nil {
		return nil, err
	}
	return func() error { return c.Stop(ctx) }, nil
}

// THelper provides testing.T integration for easier test setup.
type THelper struct {
	t   *testing.T
	ctx context.Context
}

// T wraps a testing.T to provide helper methods with automatic cleanup.
//
// Example:
//
//	func TestReplay(t *testing.T) {
//	    testutil.T(t).Setup(cacheComponent)
//	    // component is automatically stopped when the test ends
//	}
func T(t *testing.T) *THelper {
	return &THelper{t: t, ctx: context.Background()}
}

// WithContext sets a custom context for the helper.
func (h *THelper) WithContext(ctx context.Context) *THelper {
	h.ctx = ctx
	return h
}

// Setup starts a component and registers cleanup with testing.T.
func (h *THelper) Setup(c component.Component) {
	h.t.Helper()
	if err := c.Start(h.ctx); err != nil {
		h.t.Fatalf("failed to start component %s: %v", c.Name(), err)
	}
	h.t.Cleanup(func() {
		if err := c.Stop(h.ctx); err != nil {
			h.t.Errorf("failed to stop component %s: %v", c.Name(), err)
		}
	})
}

// Reset resets a component to its initial state.
func (h *THelper) Reset(c component.Component) {
	h.t.Helper()
	r, ok := c.(component.Resettable)
	if !ok {
		h.t.Fatalf("component %s is not resettable", c.Name())
	}
	if err := r.Reset(h.ctx); err != nil {
		h.t.Fatalf("failed to reset component %s: %v", c.Name(), err)
	}
}
