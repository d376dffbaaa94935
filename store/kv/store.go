package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/xraph/roomledger"
	"github.com/xraph/roomledger/id"
	"github.com/xraph/roomledger/room"
)

// registryKey is the KV key holding the whole registry as a JSON array.
const registryKey = "rooms"

// RecoveryHook is called when corrupt persisted data was discarded and
// the registry degraded to an empty state.
type RecoveryHook func(key string, cause error)

// Store persists rooms through a KV collaborator. Every mutation writes
// the whole registry array back; reads decode it in full. That matches
// the scale this store is for: one landlord's rooms, not a fleet.
type Store struct {
	kv     KV
	logger *slog.Logger

	onRecovered RecoveryHook

	mu sync.Mutex
	// new room ID string -> legacy roomId, for purging old detail keys.
	legacyKeys map[string]string
	// Set once corrupt data was replaced, so the next write persists the
	// recovered (empty) registry instead of resurrecting garbage.
	recovered bool
}

// Option configures the Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithRecoveryHook registers a callback fired when corrupt persisted
// data is discarded.
func WithRecoveryHook(hook RecoveryHook) Option {
	return func(s *Store) { s.onRecovered = hook }
}

// SetRecoveryHook replaces the recovery callback. The engine uses this to
// forward recoveries to its plugin registry.
func (s *Store) SetRecoveryHook(hook func(key string, cause error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRecovered = hook
}

// New creates a Store over the given KV collaborator.
func New(kv KV, opts ...Option) *Store {
	s := &Store{
		kv:         kv,
		logger:     slog.Default(),
		legacyKeys: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) CreateRoom(ctx context.Context, r *room.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rooms, err := s.load(ctx)
	if err != nil {
		return err
	}

	for _, existing := range rooms {
		if existing.ID == r.ID {
			return roomledger.ErrRoomExists
		}
	}

	rooms = append(rooms, r)
	return s.save(rooms)
}

func (s *Store) GetRoom(ctx context.Context, roomID id.RoomID) (*room.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rooms, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	for _, r := range rooms {
		if r.ID == roomID {
			return r, nil
		}
	}
	return nil, roomledger.ErrRoomNotFound
}

func (s *Store) ListRooms(ctx context.Context, opts room.ListOpts) ([]*room.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rooms, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	start := opts.Offset
	if start > len(rooms) {
		start = len(rooms)
	}
	end := start + opts.Limit
	if opts.Limit == 0 || end > len(rooms) {
		end = len(rooms)
	}

	return rooms[start:end], nil
}

func (s *Store) UpdateRoom(ctx context.Context, r *room.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rooms, err := s.load(ctx)
	if err != nil {
		return err
	}

	for i, existing := range rooms {
		if existing.ID == r.ID {
			rooms[i] = r
			return s.save(rooms)
		}
	}
	return roomledger.ErrRoomNotFound
}

func (s *Store) DeleteRoom(ctx context.Context, roomID id.RoomID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rooms, err := s.load(ctx)
	if err != nil {
		return err
	}

	for i, existing := range rooms {
		if existing.ID == roomID {
			rooms = append(rooms[:i], rooms[i+1:]...)
			if err := s.save(rooms); err != nil {
				return err
			}
			s.purgeDetail(roomID)
			return nil
		}
	}
	return roomledger.ErrRoomNotFound
}

// Migrate rewrites the registry in the current encoding, upgrading any
// legacy generations in place.
func (s *Store) Migrate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rooms, err := s.load(ctx)
	if err != nil {
		return err
	}
	if len(rooms) == 0 && !s.recovered {
		return nil
	}
	return s.save(rooms)
}

func (s *Store) Ping(_ context.Context) error {
	_, _, err := s.kv.Get(registryKey)
	return err
}

func (s *Store) Close() error {
	return nil
}

// load reads and decodes the registry. Corrupt data logs, fires the
// recovery hook, and degrades to an empty registry; only KV transport
// failures surface as errors.
func (s *Store) load(_ context.Context) ([]*room.Room, error) {
	raw, ok, err := s.kv.Get(registryKey)
	if err != nil {
		return nil, fmt.Errorf("kv: read %q: %w", registryKey, err)
	}
	if !ok {
		return []*room.Room{}, nil
	}

	rooms, legacyKeys, err := decodeRooms(raw)
	if err != nil {
		s.logger.Error("corrupt room registry, starting empty",
			"key", registryKey,
			"error", err,
		)
		s.recovered = true
		if s.onRecovered != nil {
			s.onRecovered(registryKey, err)
		}
		return []*room.Room{}, nil
	}

	for newID, oldKey := range legacyKeys {
		s.legacyKeys[newID] = oldKey
	}
	return rooms, nil
}

func (s *Store) save(rooms []*room.Room) error {
	data, err := json.Marshal(rooms)
	if err != nil {
		return fmt.Errorf("kv: encode registry: %w", err)
	}
	if err := s.kv.Set(registryKey, string(data)); err != nil {
		return fmt.Errorf("kv: write %q: %w", registryKey, err)
	}
	s.recovered = false
	return nil
}

// purgeDetail removes a room's per-key detail left behind by old
// generations. Best effort; the registry write already succeeded.
func (s *Store) purgeDetail(roomID id.RoomID) {
	keys := []string{roomID.String()}
	if legacy, ok := s.legacyKeys[roomID.String()]; ok {
		keys = append(keys, legacy)
		delete(s.legacyKeys, roomID.String())
	}
	for _, key := range keys {
		if err := s.kv.Remove(key); err != nil {
			s.logger.Warn("purging room detail failed",
				"key", key,
				"error", err,
			)
		}
	}
}
