// Package plugin provides an extensible plugin system for Roomledger.
// Plugins can hook into various lifecycle events to extend functionality.
package plugin

import (
	"context"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, l interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Registry lifecycle hooks
// ──────────────────────────────────────────────────

// OnRoomCreated is called when a new room is created. This is the hook
// point for callers that navigate to the room after creation.
type OnRoomCreated interface {
	Plugin
	OnRoomCreated(ctx context.Context, room interface{}) error
}

// OnRoomRemoved is called when a room is removed from the registry.
type OnRoomRemoved interface {
	Plugin
	OnRoomRemoved(ctx context.Context, roomID string) error
}

// OnRoomRenamed is called when a room's display name changes.
type OnRoomRenamed interface {
	Plugin
	OnRoomRenamed(ctx context.Context, roomID, oldName, newName string) error
}

// ──────────────────────────────────────────────────
// Session hooks
// ──────────────────────────────────────────────────

// OnRoomSelected is called when a session selects a room for billing.
type OnRoomSelected interface {
	Plugin
	OnRoomSelected(ctx context.Context, room interface{}) error
}

// ──────────────────────────────────────────────────
// Billing hooks
// ──────────────────────────────────────────────────

// OnStatementCommitted is called after a billing commit succeeds.
type OnStatementCommitted interface {
	Plugin
	OnStatementCommitted(ctx context.Context, room interface{}, statement interface{}) error
}

// OnRentPaid is called when a rent record's payment flag changes.
type OnRentPaid interface {
	Plugin
	OnRentPaid(ctx context.Context, roomID string, index int, paid bool) error
}

// ──────────────────────────────────────────────────
// Recovery hooks
// ──────────────────────────────────────────────────

// OnRegistryRecovered is called when corrupt persisted data was discarded
// and the registry degraded to an empty or partial state.
type OnRegistryRecovered interface {
	Plugin
	OnRegistryRecovered(ctx context.Context, key string, cause error) error
}
