package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/migrate"

	roomledger "github.com/xraph/roomledger"
	"github.com/xraph/roomledger/id"
	"github.com/xraph/roomledger/room"
	ledgerstore "github.com/xraph/roomledger/store"
)

// compile-time interface check
var _ ledgerstore.Store = (*Store)(nil)

// Store implements store.Store using PostgreSQL via Grove ORM.
type Store struct {
	db *grove.DB
	pg *pgdriver.PgDB
}

// New creates a new PostgreSQL store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db: db,
		pg: pgdriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pg)
	if err != nil {
		return fmt.Errorf("roomledger/postgres: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("roomledger/postgres: migration failed: %w", err)
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
	_, err := s.pg.NewInsert(m).Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}

func (s *Store) GetRoom(ctx context.Context, roomID id.RoomID) (*room.Room, error) {
	m := new(roomModel)
	err := s.pg.NewSelect(m).
		Where("id = $1", roomID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, roomledger.ErrRoomNotFound
		}
		return nil, err
	}
	return fromRoomModel(m)
}

func (s *Store) ListRooms(ctx context.Context, opts room.ListOpts) ([]*room.Room, error) {
	var models []roomModel
	q := s.pg.NewSelect(&models)

	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	// Registry order is creation order.
	q = q.OrderExpr("created_at ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
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
	res, err := s.pg.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return roomledger.ErrRoomNotFound
	}
	return nil
}

func (s *Store) DeleteRoom(ctx context.Context, roomID id.RoomID) error {
	res, err := s.pg.NewDelete((*roomModel)(nil)).
		Where("id = $1", roomID.String()).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return roomledger.ErrRoomNotFound
	}
	return nil
}

// ==================== Helpers ====================

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
