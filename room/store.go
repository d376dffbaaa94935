package room

import (
	"context"

	"github.com/xraph/roomledger/id"
)

type Store interface {
	Create(ctx context.Context, r *Room) error
	Get(ctx context.Context, roomID id.RoomID) (*Room, error)
	List(ctx context.Context, opts ListOpts) ([]*Room, error)
	Update(ctx context.Context, r *Room) error
	Delete(ctx context.Context, roomID id.RoomID) error
}
