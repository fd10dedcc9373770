package replay

import (
	"context"

	"github.com/kbukum/rereplay/component"
)

// Component wraps a Replayer with lifecycle management.
type Component struct {
	config   Config
	opts     []Option
	replayer *Replayer
}

// compile-time assertions
var _ component.Component = (*Component)(nil)
var _ component.Resettable = (*Component)(nil)

// NewComponent creates a new replayer component. The replayer is created
// lazily in Start().
func NewComponent(cfg Config, opts ...Option) *Component {
	return &Component{config: cfg, opts: opts}
}

// Name returns the component name.
func (c *Component) Name() string {
	if c.config.CacheName != "" {
		return "replay-" + c.config.CacheName
	}
	return "replay"
}

// Start initializes the replayer.
func (c *Component) Start(_ context.Context) error {
	r, err := New(c.config, c.opts...)
	if err != nil {
		return err
	}
	c.replayer = r
	return nil
}

// Stop releases the replayer.
func (c *Component) Stop(_ context.Context) error {
	c.replayer = nil
	return nil
}

// Reset clears the backing store.
func (c *Component) Reset(_ context.Context) error {
	if c.replayer != nil {
		c.replayer.Store().Clear()
	}
	return nil
}

// Health returns the component health status.
func (c *Component) Health(_ context.Context) component.Health {
	status := component.StatusHealthy
	if c.replayer == nil {
		status = component.StatusUnhealthy
	}
	return component.Health{Name: c.Name(), Status: status}
}

// Replayer returns the underlying replayer. Must be called after Start().
func (c *Component) Replayer() *Replayer {
	return c.replayer
}
