// Package audithook bridges room ledger lifecycle events to an audit
// trail backend.
//
// It defines a local Recorder interface so the package does not import
// Chronicle directly. Callers inject a RecorderFunc adapter that bridges
// to Chronicle at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/roomledger/plugin"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin               = (*Extension)(nil)
	_ plugin.OnRoomCreated        = (*Extension)(nil)
	_ plugin.OnRoomRemoved        = (*Extension)(nil)
	_ plugin.OnRoomRenamed        = (*Extension)(nil)
	_ plugin.OnStatementCommitted = (*Extension)(nil)
	_ plugin.OnRentPaid           = (*Extension)(nil)
	_ plugin.OnRegistryRecovered  = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// This matches chronicle.Emitter but is defined locally so that the
// audit_hook package does not import Chronicle directly — callers inject
// the concrete *chronicle.Chronicle at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
// It mirrors chronicle/audit.Event but avoids a module dependency.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges room ledger lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Room lifecycle hooks
// ──────────────────────────────────────────────────

// OnRoomCreated implements plugin.OnRoomCreated.
func (e *Extension) OnRoomCreated(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionRoomCreated, SeverityInfo, OutcomeSuccess,
		ResourceRoom, "", CategoryRegistry, nil,
		"event", "room_created",
	)
}

// OnRoomRemoved implements plugin.OnRoomRemoved.
func (e *Extension) OnRoomRemoved(ctx context.Context, roomID string) error {
	return e.record(ctx, ActionRoomRemoved, SeverityInfo, OutcomeSuccess,
		ResourceRoom, roomID, CategoryRegistry, nil,
		"room_id", roomID,
	)
}

// OnRoomRenamed implements plugin.OnRoomRenamed.
func (e *Extension) OnRoomRenamed(ctx context.Context, roomID, oldName, newName string) error {
	return e.record(ctx, ActionRoomRenamed, SeverityInfo, OutcomeSuccess,
		ResourceRoom, roomID, CategoryRegistry, nil,
		"room_id", roomID,
		"old_name", oldName,
		"new_name", newName,
	)
}

// ──────────────────────────────────────────────────
// Billing lifecycle hooks
// ──────────────────────────────────────────────────

// OnStatementCommitted implements plugin.OnStatementCommitted.
func (e *Extension) OnStatementCommitted(ctx context.Context, _, _ interface{}) error {
	return e.record(ctx, ActionStatementCommitted, SeverityInfo, OutcomeSuccess,
		ResourceStatement, "", CategoryBilling, nil,
		"event", "statement_committed",
	)
}

// OnRentPaid implements plugin.OnRentPaid.
func (e *Extension) OnRentPaid(ctx context.Context, roomID string, index int, paid bool) error {
	action := ActionRentPaid
	if !paid {
		action = ActionRentUnpaid
	}
	return e.record(ctx, action, SeverityInfo, OutcomeSuccess,
		ResourceRent, roomID, CategoryPayment, nil,
		"room_id", roomID,
		"record_index", index,
		"paid", paid,
	)
}

// ──────────────────────────────────────────────────
// Recovery hooks
// ──────────────────────────────────────────────────

// OnRegistryRecovered implements plugin.OnRegistryRecovered.
func (e *Extension) OnRegistryRecovered(ctx context.Context, key string, cause error) error {
	return e.record(ctx, ActionRegistryRecovered, SeverityCritical, OutcomePartial,
		ResourceRegistry, key, CategoryStorage, cause,
		"key", key,
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
