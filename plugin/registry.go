package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"
)

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit               []OnInit
	onShutdown           []OnShutdown
	onRoomCreated        []OnRoomCreated
	onRoomRemoved        []OnRoomRemoved
	onRoomRenamed        []OnRoomRenamed
	onRoomSelected       []OnRoomSelected
	onStatementCommitted []OnStatementCommitted
	onRentPaid           []OnRentPaid
	onRegistryRecovered  []OnRegistryRecovered
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	// Type-switch to cache interfaces
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnRoomCreated); ok {
		r.onRoomCreated = append(r.onRoomCreated, v)
	}
	if v, ok := p.(OnRoomRemoved); ok {
		r.onRoomRemoved = append(r.onRoomRemoved, v)
	}
	if v, ok := p.(OnRoomRenamed); ok {
		r.onRoomRenamed = append(r.onRoomRenamed, v)
	}
	if v, ok := p.(OnRoomSelected); ok {
		r.onRoomSelected = append(r.onRoomSelected, v)
	}
	if v, ok := p.(OnStatementCommitted); ok {
		r.onStatementCommitted = append(r.onStatementCommitted, v)
	}
	if v, ok := p.(OnRentPaid); ok {
		r.onRentPaid = append(r.onRentPaid, v)
	}
	if v, ok := p.(OnRegistryRecovered); ok {
		r.onRegistryRecovered = append(r.onRegistryRecovered, v)
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", r.getImplementedInterfaces(p),
	)

	return nil
}

// getImplementedInterfaces returns a list of interfaces implemented by the plugin.
func (r *Registry) getImplementedInterfaces(p Plugin) []string {
	var interfaces []string
	v := reflect.TypeOf(p)

	// Check each interface
	checkInterface := func(iface reflect.Type, name string) {
		if v.Implements(iface) {
			interfaces = append(interfaces, name)
		}
	}

	// List all interfaces to check
	checkInterface(reflect.TypeOf((*OnInit)(nil)).Elem(), "OnInit")
	checkInterface(reflect.TypeOf((*OnShutdown)(nil)).Elem(), "OnShutdown")
	checkInterface(reflect.TypeOf((*OnRoomCreated)(nil)).Elem(), "OnRoomCreated")
	checkInterface(reflect.TypeOf((*OnRoomRemoved)(nil)).Elem(), "OnRoomRemoved")
	checkInterface(reflect.TypeOf((*OnRoomRenamed)(nil)).Elem(), "OnRoomRenamed")
	checkInterface(reflect.TypeOf((*OnRoomSelected)(nil)).Elem(), "OnRoomSelected")
	checkInterface(reflect.TypeOf((*OnStatementCommitted)(nil)).Elem(), "OnStatementCommitted")
	checkInterface(reflect.TypeOf((*OnRentPaid)(nil)).Elem(), "OnRentPaid")
	checkInterface(reflect.TypeOf((*OnRegistryRecovered)(nil)).Elem(), "OnRegistryRecovered")

	return interfaces
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, ledger interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, ledger)
		}); err != nil {
			r.logger.Warn("plugin OnInit failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnShutdown failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitRoomCreated emits a room created event.
func (r *Registry) EmitRoomCreated(ctx context.Context, room interface{}) {
	r.mu.RLock()
	plugins := r.onRoomCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnRoomCreated(ctx, room)
		}); err != nil {
			r.logger.Warn("plugin OnRoomCreated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitRoomRemoved emits a room removed event.
func (r *Registry) EmitRoomRemoved(ctx context.Context, roomID string) {
	r.mu.RLock()
	plugins := r.onRoomRemoved
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnRoomRemoved(ctx, roomID)
		}); err != nil {
			r.logger.Warn("plugin OnRoomRemoved failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitRoomRenamed emits a room renamed event.
func (r *Registry) EmitRoomRenamed(ctx context.Context, roomID, oldName, newName string) {
	r.mu.RLock()
	plugins := r.onRoomRenamed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnRoomRenamed(ctx, roomID, oldName, newName)
		}); err != nil {
			r.logger.Warn("plugin OnRoomRenamed failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitRoomSelected emits a room selected event.
func (r *Registry) EmitRoomSelected(ctx context.Context, room interface{}) {
	r.mu.RLock()
	plugins := r.onRoomSelected
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnRoomSelected(ctx, room)
		}); err != nil {
			r.logger.Warn("plugin OnRoomSelected failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitStatementCommitted emits a statement committed event.
func (r *Registry) EmitStatementCommitted(ctx context.Context, room interface{}, statement interface{}) {
	r.mu.RLock()
	plugins := r.onStatementCommitted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnStatementCommitted(ctx, room, statement)
		}); err != nil {
			r.logger.Warn("plugin OnStatementCommitted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitRentPaid emits a rent payment flag change event.
func (r *Registry) EmitRentPaid(ctx context.Context, roomID string, index int, paid bool) {
	r.mu.RLock()
	plugins := r.onRentPaid
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnRentPaid(ctx, roomID, index, paid)
		}); err != nil {
			r.logger.Warn("plugin OnRentPaid failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitRegistryRecovered emits a corrupt-data recovery event.
func (r *Registry) EmitRegistryRecovered(ctx context.Context, key string, cause error) {
	r.mu.RLock()
	plugins := r.onRegistryRecovered
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnRegistryRecovered(ctx, key, cause)
		}); err != nil {
			r.logger.Warn("plugin OnRegistryRecovered failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the billing pipeline.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
