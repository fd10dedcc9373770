package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/kbukum/rereplay/component"
)

// fakeComponent records lifecycle calls.
type fakeComponent struct {
	started  bool
	stopped  bool
	resets   int
	startErr error
}

func (f *fakeComponent) Name() string { return "fake" }

func (f *fakeComponent) Start(context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.started = true
	return nil
}

func (f *fakeComponent) Stop(context.Context) error {
	f.stopped = true
	return nil
}

func (f *fakeComponent) Reset(context.Context) error {
	f.resets++
	return nil
}

func (f *fakeComponent) Health(context.Context) component.Health {
	return component.Health{Name: "fake", Status: component.StatusHealthy}
}

func TestSetup(t *testing.T) {
	f := &fakeComponent{}
	cleanup, err := Setup(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.started {
		t.Error("expected component to be started")
	}
	if err := cleanup(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.stopped {
		t.Error("expected cleanup to stop the component")
	}
}

func TestSetup_StartFailure(t *testing.T) {
	f := &fakeComponent{startErr: fmt.Errorf("boom")}
	if _, err := Setup(f); err == nil {
		t.Fatal("expected start failure to surface")
	}
}

func TestTHelper_SetupAndReset(t *testing.T) {
	f := &fakeComponent{}
	h := T(t)
	h.Setup(f)
	if !f.started {
		t.Error("expected component to be started")
	}
	h.Reset(f)
	if f.resets != 1 {
		t.Errorf("expected 1 reset, got %d", f.resets)
	}
}

func TestCountingCall(t *testing.T) {
	c := NewCountingCall(nil)
	if c.Count() != 0 {
		t.Errorf("expected 0 calls, got %d", c.Count())
	}
	c.Reset()
	if c.Count() != 0 {
		t.Errorf("expected 0 calls after reset, got %d", c.Count())
	}
}
