package roomledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xraph/roomledger"
	"github.com/xraph/roomledger/id"
	"github.com/xraph/roomledger/room"
	"github.com/xraph/roomledger/store/memory"
	"github.com/xraph/roomledger/types"
)

func TestSessionSelectStagesRoomState(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	l := roomledger.New(st)
	r := seedRoom(t, st, "101")

	sess := l.NewSession()
	if err := sess.Select(ctx, r.ID); err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	if sess.RoomID() != r.ID {
		t.Errorf("RoomID = %v, want %v", sess.RoomID(), r.ID)
	}
	if !sess.WaterPrice.Equal(types.CNY(500)) || !sess.ElectricityPrice.Equal(types.CNY(200)) {
		t.Errorf("staged prices = %v / %v", sess.WaterPrice, sess.ElectricityPrice)
	}
	if sess.LastWater != 100 || sess.LastElectricity != 200 {
		t.Errorf("baselines = %d / %d, want 100 / 200", sess.LastWater, sess.LastElectricity)
	}
	if sess.CurrentWater.Valid || sess.CurrentElectricity.Valid || sess.CurrentGas.Valid {
		t.Error("staged readings must start unset")
	}
}

func TestSessionSelectUsesLatestRecordBaselines(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	l := roomledger.New(st)

	r := seedRoom(t, st, "101")
	r.Records = []room.Record{
		{
			ID:                 id.NewBillingRecordID(),
			Time:               "2024-02-01",
			WaterReading:       140,
			ElectricityReading: 260,
		},
	}
	// Stale carry-forward: the latest record wins and gets written back.
	r.LastReadings = room.Readings{Water: 100, Electricity: 200}
	if err := st.UpdateRoom(ctx, r); err != nil {
		t.Fatal(err)
	}

	sess := l.NewSession()
	if err := sess.Select(ctx, r.ID); err != nil {
		t.Fatal(err)
	}
	if sess.LastWater != 140 || sess.LastElectricity != 260 {
		t.Errorf("baselines = %d / %d, want 140 / 260", sess.LastWater, sess.LastElectricity)
	}

	got, err := st.GetRoom(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.LastReadings != (room.Readings{Water: 140, Electricity: 260}) {
		t.Errorf("persisted baselines = %+v", got.LastReadings)
	}
}

func TestSessionSelectUnknownRoomKeepsSelection(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	l := roomledger.New(st)
	r := seedRoom(t, st, "101")

	sess := l.NewSession()
	if err := sess.Select(ctx, r.ID); err != nil {
		t.Fatal(err)
	}
	if err := sess.Select(ctx, id.NewRoomID()); !errors.Is(err, roomledger.ErrRoomNotFound) {
		t.Fatalf("select unknown = %v, want ErrRoomNotFound", err)
	}
	if sess.RoomID() != r.ID {
		t.Errorf("selection changed to %v, want %v", sess.RoomID(), r.ID)
	}
}

func TestSessionCommit(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	l := roomledger.New(st, roomledger.WithClock(fixedClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))))
	r := seedRoom(t, st, "101")

	sess := l.NewSession()
	if err := sess.Select(ctx, r.ID); err != nil {
		t.Fatal(err)
	}
	sess.CurrentWater = types.ReadingOf(105)
	sess.CurrentElectricity = types.ReadingOf(230)

	stmt, err := sess.Commit(ctx)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	// rent 1000.00 + water 5*5.00 + electricity 30*2.00
	if got := stmt.Total.FormatMajor(); got != "1085.00" {
		t.Errorf("total = %s, want 1085.00", got)
	}
	if stmt.Record.Time != "2024-03-01" {
		t.Errorf("period label = %q", stmt.Record.Time)
	}

	got, err := l.GetRoom(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Records) != 1 || len(got.RentRecords) != 1 {
		t.Fatalf("ledgers = %d records / %d rent records", len(got.Records), len(got.RentRecords))
	}
	if got.Records[0].WaterUsage != 5 || got.Records[0].ElectricityUsage != 30 {
		t.Errorf("usage = %+v", got.Records[0])
	}
	if got.LastReadings != (room.Readings{Water: 105, Electricity: 230}) {
		t.Errorf("baselines after commit = %+v", got.LastReadings)
	}
	if !got.RentRecords[0].Amount.Equal(types.CNY(100000)) {
		t.Errorf("rent amount = %v", got.RentRecords[0].Amount)
	}

	// Newest-first: a second commit prepends.
	sess.CurrentWater = types.ReadingOf(110)
	sess.CurrentElectricity = types.ReadingOf(245)
	if _, err := sess.Commit(ctx); err != nil {
		t.Fatal(err)
	}
	got, err = l.GetRoom(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Records) != 2 || got.Records[0].WaterReading != 110 {
		t.Errorf("newest record = %+v", got.Records[0])
	}
}

func TestSessionCommitValidationMutatesNothing(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	l := roomledger.New(st)
	r := seedRoom(t, st, "101")

	sess := l.NewSession()
	if err := sess.Select(ctx, r.ID); err != nil {
		t.Fatal(err)
	}
	// Water reading never entered.
	sess.CurrentElectricity = types.ReadingOf(230)

	if _, err := sess.Commit(ctx); !roomledger.IsValidation(err) {
		t.Fatalf("Commit = %v, want validation error", err)
	}

	got, err := l.GetRoom(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Records) != 0 || len(got.RentRecords) != 0 {
		t.Errorf("failed commit mutated the room: %+v", got)
	}
}

func TestSessionCommitWithoutSelection(t *testing.T) {
	l := roomledger.New(memory.New())
	sess := l.NewSession()
	if _, err := sess.Commit(context.Background()); !errors.Is(err, roomledger.ErrNoSelection) {
		t.Fatalf("Commit = %v, want ErrNoSelection", err)
	}
}

func TestSessionPostCommitPrefill(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	l := roomledger.New(st)
	r := seedRoom(t, st, "101")

	sess := l.NewSession()
	if err := sess.Select(ctx, r.ID); err != nil {
		t.Fatal(err)
	}
	sess.CurrentWater = types.ReadingOf(105)
	sess.CurrentElectricity = types.ReadingOf(230)
	if _, err := sess.Commit(ctx); err != nil {
		t.Fatal(err)
	}

	if sess.CurrentWater != types.ReadingOf(105) {
		t.Errorf("prefilled water = %v", sess.CurrentWater)
	}
	if sess.CurrentElectricity != types.ReadingOf(230) {
		t.Errorf("prefilled electricity = %v", sess.CurrentElectricity)
	}
	// Gas stays unset while gas billing is disabled.
	if sess.CurrentGas.Valid {
		t.Errorf("gas prefilled while disabled: %v", sess.CurrentGas)
	}
}

func TestSessionPostCommitClear(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	l := roomledger.New(st, roomledger.WithPostCommitPolicy(roomledger.PostCommitClear))
	r := seedRoom(t, st, "101")

	sess := l.NewSession()
	if err := sess.Select(ctx, r.ID); err != nil {
		t.Fatal(err)
	}
	sess.CurrentWater = types.ReadingOf(105)
	sess.CurrentElectricity = types.ReadingOf(230)
	if _, err := sess.Commit(ctx); err != nil {
		t.Fatal(err)
	}

	if sess.CurrentWater.Valid || sess.CurrentElectricity.Valid || sess.CurrentGas.Valid {
		t.Errorf("readings not cleared: %v / %v / %v",
			sess.CurrentWater, sess.CurrentElectricity, sess.CurrentGas)
	}
	if sess.LastWater != 105 || sess.LastElectricity != 230 {
		t.Errorf("baselines = %d / %d", sess.LastWater, sess.LastElectricity)
	}
}

func TestSessionCommitWithGas(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	l := roomledger.New(st)

	r := seedRoom(t, st, "201")
	r.EnableGas = true
	r.GasPrice = types.CNY(300)
	r.LastReadings.Gas = 50
	if err := st.UpdateRoom(ctx, r); err != nil {
		t.Fatal(err)
	}

	sess := l.NewSession()
	if err := sess.Select(ctx, r.ID); err != nil {
		t.Fatal(err)
	}
	sess.CurrentWater = types.ReadingOf(105)
	sess.CurrentElectricity = types.ReadingOf(230)
	sess.CurrentGas = types.ReadingOf(60)

	stmt, err := sess.Commit(ctx)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	// 1085.00 + gas 10*3.00
	if got := stmt.Total.FormatMajor(); got != "1115.00" {
		t.Errorf("total = %s, want 1115.00", got)
	}
	if stmt.Record.Gas == nil || stmt.Record.Gas.Usage != 10 {
		t.Errorf("gas detail = %+v", stmt.Record.Gas)
	}

	got, err := l.GetRoom(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.LastReadings.Gas != 60 {
		t.Errorf("gas baseline = %d, want 60", got.LastReadings.Gas)
	}
	if sess.CurrentGas != types.ReadingOf(60) {
		t.Errorf("gas not prefilled: %v", sess.CurrentGas)
	}
}

func TestSessionLegacyPeriodLabels(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	l := roomledger.New(st,
		roomledger.WithLegacyPeriodLabels(),
		roomledger.WithClock(fixedClock(time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC))),
	)
	r := seedRoom(t, st, "101")

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
	if stmt.Record.Time != "3月" {
		t.Errorf("period label = %q, want 3月", stmt.Record.Time)
	}
}

func TestSessionDetailCache(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	l := roomledger.New(st)
	r := seedRoom(t, st, "101")

	sess := l.NewSession()
	first, err := sess.Detail(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}

	// A store-side rename is invisible to the session cache.
	r.Name = "改名"
	if err := st.UpdateRoom(ctx, r); err != nil {
		t.Fatal(err)
	}
	second, err := sess.Detail(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if second != first {
		t.Error("cached detail not reused")
	}
	if second.Name != "101" {
		t.Errorf("cached name = %q, want %q", second.Name, "101")
	}

	// A fresh session sees the store's state.
	fresh, err := l.NewSession().Detail(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.Name != "改名" {
		t.Errorf("fresh detail name = %q", fresh.Name)
	}
}

func TestSessionTally(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	l := roomledger.New(st)

	r := seedRoom(t, st, "老屋")
	r.Rent = types.CNY(100000)
	r.TallyItems = []room.TallyItem{
		{Label: "水", Before: 100, Now: 105, UnitPrice: types.CNY(500)},
		{Label: "电", Before: 200, Now: 230, UnitPrice: types.CNY(200)},
	}
	if err := st.UpdateRoom(ctx, r); err != nil {
		t.Fatal(err)
	}

	sess := l.NewSession()
	if err := sess.Select(ctx, r.ID); err != nil {
		t.Fatal(err)
	}

	if got, err := sess.TallyResult(ctx, 0); err != nil || got != "25.00" {
		t.Errorf("TallyResult(0) = (%q, %v), want 25.00", got, err)
	}
	if got, err := sess.TallyResult(ctx, 5); err != nil || got != "0.00" {
		t.Errorf("TallyResult(5) = (%q, %v), want 0.00", got, err)
	}
	if got, err := sess.TallyTotal(ctx); err != nil || got != "1085.00" {
		t.Errorf("TallyTotal = (%q, %v), want 1085.00", got, err)
	}

	// Tally helpers require a selection.
	blank := l.NewSession()
	if _, err := blank.TallyResult(ctx, 0); !errors.Is(err, roomledger.ErrNoSelection) {
		t.Errorf("TallyResult without selection = %v", err)
	}
	if _, err := blank.TallyTotal(ctx); !errors.Is(err, roomledger.ErrNoSelection) {
		t.Errorf("TallyTotal without selection = %v", err)
	}
}
