// Package observability provides a metrics extension for the room ledger
// that records lifecycle event counts via a MetricFactory.
package observability

import (
	"context"

	"github.com/xraph/roomledger/billing"
	"github.com/xraph/roomledger/plugin"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin               = (*MetricsExtension)(nil)
	_ plugin.OnInit               = (*MetricsExtension)(nil)
	_ plugin.OnRoomCreated        = (*MetricsExtension)(nil)
	_ plugin.OnRoomRemoved        = (*MetricsExtension)(nil)
	_ plugin.OnRoomRenamed        = (*MetricsExtension)(nil)
	_ plugin.OnRoomSelected       = (*MetricsExtension)(nil)
	_ plugin.OnStatementCommitted = (*MetricsExtension)(nil)
	_ plugin.OnRentPaid           = (*MetricsExtension)(nil)
	_ plugin.OnRegistryRecovered  = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as a ledger plugin to automatically track room metrics.
type MetricsExtension struct {
	factory MetricFactory

	// Room metrics
	RoomCreated  Counter
	RoomRemoved  Counter
	RoomRenamed  Counter
	RoomSelected Counter

	// Billing metrics
	StatementsCommitted Counter
	StatementTotal      Histogram
	RentMarkedPaid      Counter
	RentMarkedUnpaid    Counter

	// Error metrics
	RegistryRecoveries Counter
	StoreErrors        Counter
	PluginErrors       Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Room metrics
		RoomCreated:  factory.Counter("roomledger.room.created"),
		RoomRemoved:  factory.Counter("roomledger.room.removed"),
		RoomRenamed:  factory.Counter("roomledger.room.renamed"),
		RoomSelected: factory.Counter("roomledger.room.selected"),

		// Billing metrics
		StatementsCommitted: factory.Counter("roomledger.statement.committed"),
		StatementTotal:      factory.Histogram("roomledger.statement.total"),
		RentMarkedPaid:      factory.Counter("roomledger.rent.marked_paid"),
		RentMarkedUnpaid:    factory.Counter("roomledger.rent.marked_unpaid"),

		// Error metrics
		RegistryRecoveries: factory.Counter("roomledger.registry.recoveries"),
		StoreErrors:        factory.Counter("roomledger.store.errors"),
		PluginErrors:       factory.Counter("roomledger.plugin.errors"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// ──────────────────────────────────────────────────
// Room lifecycle hooks
// ──────────────────────────────────────────────────

// OnRoomCreated implements plugin.OnRoomCreated.
func (m *MetricsExtension) OnRoomCreated(_ context.Context, _ interface{}) error {
	m.RoomCreated.Inc()
	return nil
}

// OnRoomRemoved implements plugin.OnRoomRemoved.
func (m *MetricsExtension) OnRoomRemoved(_ context.Context, _ string) error {
	m.RoomRemoved.Inc()
	return nil
}

// OnRoomRenamed implements plugin.OnRoomRenamed.
func (m *MetricsExtension) OnRoomRenamed(_ context.Context, _, _, _ string) error {
	m.RoomRenamed.Inc()
	return nil
}

// OnRoomSelected implements plugin.OnRoomSelected.
func (m *MetricsExtension) OnRoomSelected(_ context.Context, _ interface{}) error {
	m.RoomSelected.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Billing lifecycle hooks
// ──────────────────────────────────────────────────

// OnStatementCommitted implements plugin.OnStatementCommitted.
func (m *MetricsExtension) OnStatementCommitted(_ context.Context, _, statement interface{}) error {
	m.StatementsCommitted.Inc()
	if st, ok := statement.(*billing.Statement); ok {
		// Observed in minor units; exact integer amounts survive the float.
		m.StatementTotal.Observe(float64(st.Total.Amount))
	}
	return nil
}

// OnRentPaid implements plugin.OnRentPaid.
func (m *MetricsExtension) OnRentPaid(_ context.Context, _ string, _ int, paid bool) error {
	if paid {
		m.RentMarkedPaid.Inc()
	} else {
		m.RentMarkedUnpaid.Inc()
	}
	return nil
}

// ──────────────────────────────────────────────────
// Recovery hooks
// ──────────────────────────────────────────────────

// OnRegistryRecovered implements plugin.OnRegistryRecovered.
func (m *MetricsExtension) OnRegistryRecovered(_ context.Context, _ string, _ error) error {
	m.RegistryRecoveries.Inc()
	return nil
}
