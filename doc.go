// Package roomledger provides a per-room utility billing ledger for Go
// applications.
//
// Roomledger is designed as a library, not a service. Import it directly into
// your Go application. It keeps a registry of rental rooms, computes periodic
// utility bills from meter readings, and maintains immutable billing and rent
// payment ledgers per room. It provides:
//
//   - Meter-based billing for water, electricity, and optional gas
//   - Integer-only money arithmetic (no floating point)
//   - Immutable newest-first billing and rent record ledgers
//   - Recurring flat charges (basic fees) snapshotted into each bill
//   - A legacy two-column tally mode for rooms without named meters
//   - Pluggable persistence: key-value, in-memory, SQLite, Postgres, MongoDB
//
// # Quick Start
//
// Create a ledger instance with your preferred store:
//
//	import (
//	    "github.com/xraph/roomledger"
//	    "github.com/xraph/roomledger/store/kv"
//	)
//
//	// Initialize store
//	store := kv.New(kv.NewMapKV())
//
//	// Create ledger
//	l := roomledger.New(store)
//
//	// Start the ledger (runs store migrations, initializes plugins)
//	if err := l.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Stop()
//
// # Core Concepts
//
// Rooms hold pricing configuration and billing history:
//
//	r, err := l.CreateRoom(ctx, "301")
//	r.Rent = roomledger.CNY(100000)           // ¥1000.00
//	r.WaterPrice = roomledger.CNY(500)        // ¥5.00 per unit
//	r.ElectricityPrice = roomledger.CNY(200)  // ¥2.00 per unit
//
// Sessions stage one billing period and commit it:
//
//	s := l.NewSession()
//	if err := s.Select(ctx, r.ID); err != nil {
//	    log.Fatal(err)
//	}
//	s.CurrentWater = roomledger.ReadingOf(105)
//	s.CurrentElectricity = roomledger.ReadingOf(230)
//
//	stmt, err := s.Commit(ctx)
//	if err != nil {
//	    // Validation failures (missing reading, missing price, reading
//	    // below baseline) mutate nothing; fix the inputs and retry.
//	}
//	fmt.Println(stmt.Total) // ¥1085.00
//
// Readings distinguish "entered as zero" from "not entered": an untouched
// field stays unset and fails validation, while ReadingOf(0) is a real
// meter value.
//
// # Money
//
// All monetary calculations use integer arithmetic to avoid floating-point
// precision issues. The Money type represents amounts in the smallest
// currency unit (fen for CNY, cents for USD).
//
// # TypeID
//
// All entities use TypeID for globally unique, type-safe identifiers:
//
//	room_01h2xcejqtf2nbrexx3vqjhp41  // Room ID
//	bill_01h2xcejqtf2nbrexx3vqjhp41  // Billing record ID
//	rent_01h455vb4pex5vsknk084sn02q  // Rent record ID
//
// TypeIDs are K-sortable, making them ideal for database indexes and
// providing natural time-ordering of entities.
package roomledger
