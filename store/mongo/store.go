package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	roomledger "github.com/xraph/roomledger"
	"github.com/xraph/roomledger/id"
	"github.com/xraph/roomledger/room"
	ledgerstore "github.com/xraph/roomledger/store"
)

// Collection name constants.
const (
	colRooms = "roomledger_rooms"
)

// compile-time interface check
var _ ledgerstore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for the room collection.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("roomledger/mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Room Store ====================

func (s *Store) CreateRoom(ctx context.Context, r *room.Room) error {
	m := toRoomModel(r)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return roomledger.ErrRoomExists
		}
		return fmt.Errorf("roomledger/mongo: create room: %w", err)
	}
	return nil
}

func (s *Store) GetRoom(ctx context.Context, roomID id.RoomID) (*room.Room, error) {
	var m roomModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": roomID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, roomledger.ErrRoomNotFound
		}
		return nil, fmt.Errorf("roomledger/mongo: get room: %w", err)
	}
	return fromRoomModel(&m)
}

func (s *Store) ListRooms(ctx context.Context, opts room.ListOpts) ([]*room.Room, error) {
	var models []roomModel

	q := s.mdb.NewFind(&models).
		Filter(bson.M{}).
		Sort(bson.D{{Key: "created_at", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("roomledger/mongo: list rooms: %w", err)
	}

	result := make([]*room.Room, len(models))
	for i := range models {
		r, err := fromRoomModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = r
	}
	return result, nil
}

func (s *Store) UpdateRoom(ctx context.Context, r *room.Room) error {
	m := toRoomModel(r)
	m.UpdatedAt = now()

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("roomledger/mongo: update room: %w", err)
	}
	if res.MatchedCount() == 0 {
		return roomledger.ErrRoomNotFound
	}
	return nil
}

func (s *Store) DeleteRoom(ctx context.Context, roomID id.RoomID) error {
	res, err := s.mdb.NewDelete((*roomModel)(nil)).
		Filter(bson.M{"_id": roomID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("roomledger/mongo: delete room: %w", err)
	}
	if res.DeletedCount() == 0 {
		return roomledger.ErrRoomNotFound
	}
	return nil
}

// ==================== Helpers ====================

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for the room collection.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colRooms: {
			{Keys: bson.D{{Key: "created_at", Value: 1}}},
			{
				Keys:    bson.D{{Key: "name", Value: 1}},
				Options: options.Index().SetSparse(true),
			},
		},
	}
}
