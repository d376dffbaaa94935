package roomledger_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/xraph/roomledger"
	"github.com/xraph/roomledger/id"
	"github.com/xraph/roomledger/room"
	"github.com/xraph/roomledger/store/memory"
	"github.com/xraph/roomledger/types"
)

// seedRoom inserts a configured room directly through the store.
func seedRoom(t *testing.T, st *memory.Store, name string) *room.Room {
	t.Helper()

	r := &room.Room{
		Entity:           types.NewEntity(),
		ID:               id.NewRoomID(),
		Name:             name,
		Rent:             types.CNY(100000),
		WaterPrice:       types.CNY(500),
		ElectricityPrice: types.CNY(200),
		GasPrice:         types.CNY(0),
		LastReadings:     room.Readings{Water: 100, Electricity: 200},
		Records:          []room.Record{},
	}
	if err := st.CreateRoom(context.Background(), r); err != nil {
		t.Fatalf("seed room: %v", err)
	}
	return r
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCreateRoomDefaults(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	l := roomledger.New(st)

	a, err := l.CreateRoom(ctx, "")
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	if a.Name != "1" {
		t.Errorf("default name = %q, want %q", a.Name, "1")
	}
	b, err := l.CreateRoom(ctx, "")
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	if b.Name != "2" {
		t.Errorf("default name = %q, want %q", b.Name, "2")
	}

	if !a.Rent.Equal(types.CNY(0)) || !a.WaterPrice.Equal(types.CNY(0)) {
		t.Errorf("new room money not zeroed: %+v", a)
	}
	if a.Records == nil {
		t.Error("new room must carry an empty record slice, not nil")
	}
	if a.ID.Prefix() != "room" {
		t.Errorf("room ID prefix = %q", a.ID.Prefix())
	}
}

func TestRemoveRoomIdempotent(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	l := roomledger.New(st)

	r := seedRoom(t, st, "101")
	if err := l.RemoveRoom(ctx, r.ID); err != nil {
		t.Fatalf("RemoveRoom failed: %v", err)
	}
	// A second removal is not an error.
	if err := l.RemoveRoom(ctx, r.ID); err != nil {
		t.Fatalf("repeat RemoveRoom = %v, want nil", err)
	}
	if _, err := l.GetRoom(ctx, r.ID); !errors.Is(err, roomledger.ErrRoomNotFound) {
		t.Errorf("get after remove = %v, want ErrRoomNotFound", err)
	}
}

func TestRenameRoom(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	l := roomledger.New(st)

	r := seedRoom(t, st, "101")
	if err := l.RenameRoom(ctx, r.ID, "主卧"); err != nil {
		t.Fatalf("RenameRoom failed: %v", err)
	}
	got, err := l.GetRoom(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "主卧" {
		t.Errorf("name = %q, want %q", got.Name, "主卧")
	}

	// Renaming an absent room is a no-op.
	if err := l.RenameRoom(ctx, id.NewRoomID(), "x"); err != nil {
		t.Errorf("rename absent room = %v, want nil", err)
	}
}

func TestListRoomsDegradesOnFailure(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	l := roomledger.New(st)

	seedRoom(t, st, "101")
	if got := l.ListRooms(ctx); len(got) != 1 {
		t.Fatalf("ListRooms = %d rooms, want 1", len(got))
	}

	// A closed store fails reads; the registry view degrades to empty.
	if err := st.Close(); err != nil {
		t.Fatal(err)
	}
	if got := l.ListRooms(ctx); got == nil || len(got) != 0 {
		t.Errorf("ListRooms after close = %v, want empty non-nil", got)
	}
}

func TestSetRentPaid(t *testing.T) {
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
	if _, err := sess.Commit(ctx); err != nil {
		t.Fatal(err)
	}

	if err := l.SetRentPaid(ctx, r.ID, 0, true); err != nil {
		t.Fatalf("SetRentPaid failed: %v", err)
	}
	got, err := l.GetRoom(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.RentRecords[0].IsPaid {
		t.Error("rent record not marked paid")
	}

	if err := l.SetRentPaid(ctx, r.ID, 5, true); !errors.Is(err, roomledger.ErrRentRecordNotFound) {
		t.Errorf("out-of-range index = %v, want ErrRentRecordNotFound", err)
	}
	if err := l.SetRentPaid(ctx, r.ID, -1, true); !errors.Is(err, roomledger.ErrRentRecordNotFound) {
		t.Errorf("negative index = %v, want ErrRentRecordNotFound", err)
	}
}

func TestCommitTally(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	l := roomledger.New(st)

	r := seedRoom(t, st, "老屋")
	r.TallyItems = []room.TallyItem{
		{Label: "水", Before: 100, Now: 105, UnitPrice: types.CNY(500)},
		{Label: "电", Before: 200, Now: 230, UnitPrice: types.CNY(200)},
	}
	if err := st.UpdateRoom(ctx, r); err != nil {
		t.Fatal(err)
	}

	if err := l.CommitTally(ctx, r.ID); err != nil {
		t.Fatalf("CommitTally failed: %v", err)
	}
	got, err := l.GetRoom(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.TallyItems[0].Before != 105 || got.TallyItems[0].Now != 0 {
		t.Errorf("first item = %+v, want before=105 now=0", got.TallyItems[0])
	}
	if got.TallyItems[1].Before != 230 || got.TallyItems[1].Now != 0 {
		t.Errorf("second item = %+v, want before=230 now=0", got.TallyItems[1])
	}

	// A room without tally items cannot advance.
	plain := seedRoom(t, st, "101")
	if err := l.CommitTally(ctx, plain.ID); !errors.Is(err, roomledger.ErrNoTallyItems) {
		t.Errorf("CommitTally on empty = %v, want ErrNoTallyItems", err)
	}
}

// eventRecorder counts lifecycle events for plugin dispatch tests.
type eventRecorder struct {
	created   atomic.Int32
	removed   atomic.Int32
	renamed   atomic.Int32
	selected  atomic.Int32
	committed atomic.Int32
	rentPaid  atomic.Int32
}

func (e *eventRecorder) Name() string { return "event-recorder" }

func (e *eventRecorder) OnRoomCreated(_ context.Context, _ interface{}) error {
	e.created.Add(1)
	return nil
}

func (e *eventRecorder) OnRoomRemoved(_ context.Context, _ string) error {
	e.removed.Add(1)
	return nil
}

func (e *eventRecorder) OnRoomRenamed(_ context.Context, _, _, _ string) error {
	e.renamed.Add(1)
	return nil
}

func (e *eventRecorder) OnRoomSelected(_ context.Context, _ interface{}) error {
	e.selected.Add(1)
	return nil
}

func (e *eventRecorder) OnStatementCommitted(_ context.Context, _, _ interface{}) error {
	e.committed.Add(1)
	return nil
}

func (e *eventRecorder) OnRentPaid(_ context.Context, _ string, _ int, _ bool) error {
	e.rentPaid.Add(1)
	return nil
}

func TestPluginEventDispatch(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	rec := &eventRecorder{}
	l := roomledger.New(st,
		roomledger.WithPlugin(rec),
		roomledger.WithClock(fixedClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))),
	)

	r, err := l.CreateRoom(ctx, "101")
	if err != nil {
		t.Fatal(err)
	}
	r.Rent = types.CNY(100000)
	r.WaterPrice = types.CNY(500)
	r.ElectricityPrice = types.CNY(200)
	if err := st.UpdateRoom(ctx, r); err != nil {
		t.Fatal(err)
	}

	if err := l.RenameRoom(ctx, r.ID, "主卧"); err != nil {
		t.Fatal(err)
	}

	sess := l.NewSession()
	if err := sess.Select(ctx, r.ID); err != nil {
		t.Fatal(err)
	}
	sess.CurrentWater = types.ReadingOf(5)
	sess.CurrentElectricity = types.ReadingOf(30)
	if _, err := sess.Commit(ctx); err != nil {
		t.Fatal(err)
	}

	if err := l.SetRentPaid(ctx, r.ID, 0, true); err != nil {
		t.Fatal(err)
	}
	if err := l.RemoveRoom(ctx, r.ID); err != nil {
		t.Fatal(err)
	}

	if got := rec.created.Load(); got != 1 {
		t.Errorf("created events = %d, want 1", got)
	}
	if got := rec.renamed.Load(); got != 1 {
		t.Errorf("renamed events = %d, want 1", got)
	}
	if got := rec.selected.Load(); got != 1 {
		t.Errorf("selected events = %d, want 1", got)
	}
	if got := rec.committed.Load(); got != 1 {
		t.Errorf("committed events = %d, want 1", got)
	}
	if got := rec.rentPaid.Load(); got != 1 {
		t.Errorf("rent paid events = %d, want 1", got)
	}
	if got := rec.removed.Load(); got != 1 {
		t.Errorf("removed events = %d, want 1", got)
	}
}
