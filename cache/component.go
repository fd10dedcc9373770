package cache

import (
	"context"

	"github.com/kbukum/rereplay/component"
	"github.com/kbukum/rereplay/logger"
)

// Component wraps a Store with lifecycle management for managed test and
// application setups.
type Component struct {
	config Config
	log    *logger.Logger
	store  *Store
}

// compile-time assertions
var _ component.Component = (*Component)(nil)
var _ component.Resettable = (*Component)(nil)

// NewComponent creates a new cache store component. The store is created
// lazily in Start().
func NewComponent(cfg Config, log *logger.Logger) *Component {
	return &Component{config: cfg, log: log}
}

// Name returns the component name.
func (c *Component) Name() string {
	if c.config.Name != "" {
		return "cache-" + c.config.Name
	}
	return "cache"
}

// Start creates the store and loads the backing file.
func (c *Component) Start(_ context.Context) error {
	s, err := New(c.config, c.log)
	if err != nil {
		return err
	}
	c.store = s
	return nil
}

// Stop releases the store. All mutations persist synchronously, so there is
// nothing to flush.
func (c *Component) Stop(_ context.Context) error {
	c.store = nil
	return nil
}

// Reset clears all entries, returning the store to its initial state.
func (c *Component) Reset(_ context.Context) error {
	if c.store != nil {
		c.store.Clear()
	}
	return nil
}

// Health returns the component health status.
func (c *Component) Health(_ context.Context) component.Health {
	status := component.StatusHealthy
	if c.store == nil {
		status = component.StatusUnhealthy
	}
	return component.Health{Name: c.Name(), Status: status}
}

// Store returns the underlying store. Must be called after Start().
func (c *Component) Store() *Store {
	return c.store
}
