package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/xraph/roomledger"
	"github.com/xraph/roomledger/id"
	"github.com/xraph/roomledger/room"
	"github.com/xraph/roomledger/types"
)

func newRoom(name string) *room.Room {
	return &room.Room{
		Entity:           types.NewEntity(),
		ID:               id.NewRoomID(),
		Name:             name,
		Rent:             types.CNY(100000),
		WaterPrice:       types.CNY(500),
		ElectricityPrice: types.CNY(200),
		GasPrice:         types.CNY(0),
		Records:          []room.Record{},
	}
}

func TestCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	r := newRoom("101")
	if err := s.CreateRoom(ctx, r); err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	if err := s.CreateRoom(ctx, r); !errors.Is(err, roomledger.ErrRoomExists) {
		t.Errorf("duplicate create = %v, want ErrRoomExists", err)
	}

	got, err := s.GetRoom(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetRoom failed: %v", err)
	}
	if got.Name != "101" || !got.Rent.Equal(types.CNY(100000)) {
		t.Errorf("got %+v", got)
	}

	got.Name = "主卧"
	if err := s.UpdateRoom(ctx, got); err != nil {
		t.Fatalf("UpdateRoom failed: %v", err)
	}
	got, err = s.GetRoom(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "主卧" {
		t.Errorf("name after update = %q", got.Name)
	}

	if err := s.DeleteRoom(ctx, r.ID); err != nil {
		t.Fatalf("DeleteRoom failed: %v", err)
	}
	if _, err := s.GetRoom(ctx, r.ID); !errors.Is(err, roomledger.ErrRoomNotFound) {
		t.Errorf("get after delete = %v, want ErrRoomNotFound", err)
	}
	if err := s.DeleteRoom(ctx, r.ID); !errors.Is(err, roomledger.ErrRoomNotFound) {
		t.Errorf("repeat delete = %v, want ErrRoomNotFound", err)
	}
	if err := s.UpdateRoom(ctx, r); !errors.Is(err, roomledger.ErrRoomNotFound) {
		t.Errorf("update absent = %v, want ErrRoomNotFound", err)
	}
}

func TestListRoomsOrder(t *testing.T) {
	ctx := context.Background()
	s := New()

	var ids []id.RoomID
	for i := 0; i < 5; i++ {
		r := newRoom(fmt.Sprintf("%d", i+1))
		if err := s.CreateRoom(ctx, r); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, r.ID)
	}

	rooms, err := s.ListRooms(ctx, room.ListOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(rooms) != 5 {
		t.Fatalf("listed %d rooms, want 5", len(rooms))
	}
	for i, r := range rooms {
		if r.ID != ids[i] {
			t.Errorf("position %d = %v, want %v", i, r.ID, ids[i])
		}
	}

	// Deleting from the middle preserves the order of the rest.
	if err := s.DeleteRoom(ctx, ids[2]); err != nil {
		t.Fatal(err)
	}
	rooms, err = s.ListRooms(ctx, room.ListOpts{})
	if err != nil {
		t.Fatal(err)
	}
	want := []id.RoomID{ids[0], ids[1], ids[3], ids[4]}
	for i, r := range rooms {
		if r.ID != want[i] {
			t.Errorf("position %d after delete = %v, want %v", i, r.ID, want[i])
		}
	}
}

func TestListRoomsPagination(t *testing.T) {
	ctx := context.Background()
	s := New()

	for i := 0; i < 5; i++ {
		if err := s.CreateRoom(ctx, newRoom(fmt.Sprintf("%d", i+1))); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name  string
		opts  room.ListOpts
		names []string
	}{
		{"all", room.ListOpts{}, []string{"1", "2", "3", "4", "5"}},
		{"limit", room.ListOpts{Limit: 2}, []string{"1", "2"}},
		{"offset", room.ListOpts{Offset: 3}, []string{"4", "5"}},
		{"limit and offset", room.ListOpts{Limit: 2, Offset: 2}, []string{"3", "4"}},
		{"offset past end", room.ListOpts{Offset: 10}, []string{}},
		{"limit past end", room.ListOpts{Limit: 10, Offset: 4}, []string{"5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rooms, err := s.ListRooms(ctx, tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if len(rooms) != len(tt.names) {
				t.Fatalf("got %d rooms, want %d", len(rooms), len(tt.names))
			}
			for i, r := range rooms {
				if r.Name != tt.names[i] {
					t.Errorf("position %d = %q, want %q", i, r.Name, tt.names[i])
				}
			}
		})
	}
}

func TestCloneIsolation(t *testing.T) {
	ctx := context.Background()
	s := New()

	r := newRoom("101")
	r.Records = []room.Record{{
		ID:           id.NewBillingRecordID(),
		Time:         "2024-02-01",
		WaterReading: 100,
	}}
	if err := s.CreateRoom(ctx, r); err != nil {
		t.Fatal(err)
	}

	// Mutating the caller's copy after create must not leak into the store.
	r.Name = "mutated"
	r.Records[0].WaterReading = 999

	got, err := s.GetRoom(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "101" || got.Records[0].WaterReading != 100 {
		t.Errorf("store copy mutated: %+v", got)
	}

	// Mutating a returned copy must not leak either.
	got.Records = append(got.Records, room.Record{ID: id.NewBillingRecordID()})
	got.Name = "also mutated"

	again, err := s.GetRoom(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if again.Name != "101" || len(again.Records) != 1 {
		t.Errorf("store copy mutated through read: %+v", again)
	}
}

func TestClosedStore(t *testing.T) {
	ctx := context.Background()
	s := New()

	r := newRoom("101")
	if err := s.CreateRoom(ctx, r); err != nil {
		t.Fatal(err)
	}
	if err := s.Ping(ctx); err != nil {
		t.Fatalf("Ping on open store = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	if err := s.Ping(ctx); !errors.Is(err, roomledger.ErrStoreClosed) {
		t.Errorf("Ping = %v, want ErrStoreClosed", err)
	}
	if _, err := s.GetRoom(ctx, r.ID); !errors.Is(err, roomledger.ErrStoreClosed) {
		t.Errorf("GetRoom = %v, want ErrStoreClosed", err)
	}
	if _, err := s.ListRooms(ctx, room.ListOpts{}); !errors.Is(err, roomledger.ErrStoreClosed) {
		t.Errorf("ListRooms = %v, want ErrStoreClosed", err)
	}
	if err := s.CreateRoom(ctx, newRoom("102")); !errors.Is(err, roomledger.ErrStoreClosed) {
		t.Errorf("CreateRoom = %v, want ErrStoreClosed", err)
	}
	if err := s.UpdateRoom(ctx, r); !errors.Is(err, roomledger.ErrStoreClosed) {
		t.Errorf("UpdateRoom = %v, want ErrStoreClosed", err)
	}
	if err := s.DeleteRoom(ctx, r.ID); !errors.Is(err, roomledger.ErrStoreClosed) {
		t.Errorf("DeleteRoom = %v, want ErrStoreClosed", err)
	}
}
