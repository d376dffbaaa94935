package roomledger_test

import (
	"context"
	"log"
	"log/slog"
	"testing"

	"github.com/xraph/roomledger"
	"github.com/xraph/roomledger/store/memory"
	"github.com/xraph/roomledger/types"
)

// TestDocumentationExamples verifies that all examples in the documentation compile
func TestDocumentationExamples(t *testing.T) {
	// Test Quick Start example from README
	t.Run("QuickStartExample", func(t *testing.T) {
		// Create store (memory for demo, use a persistent backend in production)
		store := memory.New()

		// Initialize the ledger
		l := roomledger.New(store,
			roomledger.WithLogger(slog.Default()),
		)

		// Start the engine
		ctx := context.Background()
		if err := l.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer l.Stop()

		// Create a room and configure it
		r, err := l.CreateRoom(ctx, "101")
		if err != nil {
			t.Fatal(err)
		}
		r.Rent = types.CNY(100000)       // ¥1000.00 per period
		r.WaterPrice = types.CNY(500)    // ¥5.00 per ton
		r.ElectricityPrice = types.CNY(200) // ¥2.00 per kWh
		if err := store.UpdateRoom(ctx, r); err != nil {
			t.Fatal(err)
		}

		// Bill one period through a session
		sess := l.NewSession()
		if err := sess.Select(ctx, r.ID); err != nil {
			t.Fatal(err)
		}
		sess.CurrentWater = types.ReadingOf(105)
		sess.CurrentElectricity = types.ReadingOf(230)

		stmt, err := sess.Commit(ctx)
		if err != nil {
			t.Fatal(err)
		}
		log.Printf("Period total: %s\n", stmt.Total.String())
	})

	// Test Money type examples
	t.Run("MoneyExamples", func(t *testing.T) {
		// Constructors
		_ = types.CNY(100000) // ¥1000.00
		_ = types.Zero("cny") // ¥0.00

		// Arithmetic
		m1 := types.CNY(100)
		m2 := types.CNY(200)
		_ = m1.Add(m2)     // ¥3.00
		_ = m1.Multiply(3) // ¥3.00

		// Comparison
		if m1.LessThan(m2) {
			// m1 is less than m2
		}

		// Formatting
		_ = m1.String()      // "¥1.00"
		_ = m1.FormatMajor() // "1.00"
	})

	// Test Reading examples
	t.Run("ReadingExamples", func(t *testing.T) {
		entered := types.ReadingOf(0) // a real zero reading
		unset := types.NoReading      // nothing entered yet

		if !entered.Valid || unset.Valid {
			t.Fatal("reading sentinel semantics broken")
		}
	})
}
