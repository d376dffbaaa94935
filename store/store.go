package store

import (
	"context"

	"github.com/xraph/roomledger/id"
	"github.com/xraph/roomledger/room"
)

// Store is the unified storage interface for the room registry and its
// billing history. Implementations must preserve registry order in
// ListRooms and store the whole room document on UpdateRoom, including
// the ledgers.
type Store interface {
	// Room methods
	CreateRoom(ctx context.Context, r *room.Room) error
	GetRoom(ctx context.Context, roomID id.RoomID) (*room.Room, error)
	ListRooms(ctx context.Context, opts room.ListOpts) ([]*room.Room, error)
	UpdateRoom(ctx context.Context, r *room.Room) error
	DeleteRoom(ctx context.Context, roomID id.RoomID) error

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
