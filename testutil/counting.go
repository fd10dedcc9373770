package testutil

import (
	"net/http"
	"sync/atomic"

	"github.com/kbukum/rereplay/replay"
)

// CountingCall wraps a real-call function and counts invocations, so tests
// can assert whether the network path was taken or a recording was
// replayed.
type CountingCall struct {
	calls int64
	inner replay.RealCall
}

// NewCountingCall wraps the given real call. A nil inner call uses
// http.DefaultTransport.
func NewCountingCall(inner replay.RealCall) *CountingCall {
	if inner == nil {
		inner = http.DefaultTransport.RoundTrip
	}
	return &CountingCall{inner: inner}
}

// Call executes the wrapped call, incrementing the counter. Pass this as
// replay.WithRealCall(c.Call).
func (c *CountingCall) Call(req *http.Request) (*http.Response, error) {
	atomic.AddInt64(&c.calls, 1)
	return c.inner(req)
}

// Count returns how many times the wrapped call ran.
func (c *CountingCall) Count() int {
	return int(atomic.LoadInt64(&c.calls))
}

// Reset zeroes the counter.
func (c *CountingCall) Reset() {
	atomic.StoreInt64(&c.calls, 0)
}
