// Package memory provides an in-process Store for tests and demos.
// Registry order is insertion order, matching the persistent backends.
package memory

import (
	"context"
	"sync"

	"github.com/xraph/roomledger"
	"github.com/xraph/roomledger/id"
	"github.com/xraph/roomledger/room"
)

type Store struct {
	mu sync.RWMutex

	// Rooms in registry order.
	rooms []*room.Room
	index map[string]int

	closed bool
}

func New() *Store {
	return &Store{
		index: make(map[string]int),
	}
}

func (s *Store) CreateRoom(_ context.Context, r *room.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return roomledger.ErrStoreClosed
	}
	if _, exists := s.index[r.ID.String()]; exists {
		return roomledger.ErrRoomExists
	}

	s.index[r.ID.String()] = len(s.rooms)
	s.rooms = append(s.rooms, cloneRoom(r))
	return nil
}

func (s *Store) GetRoom(_ context.Context, roomID id.RoomID) (*room.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, roomledger.ErrStoreClosed
	}
	if i, ok := s.index[roomID.String()]; ok {
		return cloneRoom(s.rooms[i]), nil
	}
	return nil, roomledger.ErrRoomNotFound
}

func (s *Store) ListRooms(_ context.Context, opts room.ListOpts) ([]*room.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, roomledger.ErrStoreClosed
	}

	result := make([]*room.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		result = append(result, cloneRoom(r))
	}

	// Apply limit/offset
	start := opts.Offset
	if start > len(result) {
		start = len(result)
	}
	end := start + opts.Limit
	if opts.Limit == 0 || end > len(result) {
		end = len(result)
	}

	return result[start:end], nil
}

func (s *Store) UpdateRoom(_ context.Context, r *room.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return roomledger.ErrStoreClosed
	}
	i, ok := s.index[r.ID.String()]
	if !ok {
		return roomledger.ErrRoomNotFound
	}

	s.rooms[i] = cloneRoom(r)
	return nil
}

func (s *Store) DeleteRoom(_ context.Context, roomID id.RoomID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return roomledger.ErrStoreClosed
	}
	i, ok := s.index[roomID.String()]
	if !ok {
		return roomledger.ErrRoomNotFound
	}

	s.rooms = append(s.rooms[:i], s.rooms[i+1:]...)
	delete(s.index, roomID.String())
	for j := i; j < len(s.rooms); j++ {
		s.index[s.rooms[j].ID.String()] = j
	}
	return nil
}

// Store management
func (s *Store) Migrate(_ context.Context) error {
	return nil // No migration needed for memory store
}

func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return roomledger.ErrStoreClosed
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

// cloneRoom deep-copies a room so callers never share ledger slices with
// the store's copy.
func cloneRoom(r *room.Room) *room.Room {
	out := *r

	if r.BasicFees != nil {
		out.BasicFees = make([]room.BasicFee, len(r.BasicFees))
		copy(out.BasicFees, r.BasicFees)
	}
	if r.Records != nil {
		out.Records = make([]room.Record, len(r.Records))
		copy(out.Records, r.Records)
		for i := range out.Records {
			if g := out.Records[i].Gas; g != nil {
				gc := *g
				out.Records[i].Gas = &gc
			}
		}
	}
	if r.RentRecords != nil {
		out.RentRecords = make([]room.RentRecord, len(r.RentRecords))
		copy(out.RentRecords, r.RentRecords)
		for i := range out.RentRecords {
			if fees := out.RentRecords[i].BasicFees; fees != nil {
				cp := make([]room.BasicFee, len(fees))
				copy(cp, fees)
				out.RentRecords[i].BasicFees = cp
			}
		}
	}
	if r.TallyItems != nil {
		out.TallyItems = make([]room.TallyItem, len(r.TallyItems))
		copy(out.TallyItems, r.TallyItems)
	}

	return &out
}
