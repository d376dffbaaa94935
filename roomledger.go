package roomledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/roomledger/billing"
	"github.com/xraph/roomledger/id"
	"github.com/xraph/roomledger/plugin"
	"github.com/xraph/roomledger/room"
	"github.com/xraph/roomledger/store"
	"github.com/xraph/roomledger/types"
)

// PostCommitPolicy controls what happens to a session's staged readings
// after a successful commit.
type PostCommitPolicy string

const (
	// PostCommitPrefill stages the new baselines as the next inputs,
	// so the next bill only needs the changed digits typed in.
	PostCommitPrefill PostCommitPolicy = "prefill"
	// PostCommitClear resets the staged readings to unset.
	PostCommitClear PostCommitPolicy = "clear"
)

// Ledger is the room billing engine: it owns the room registry, hands
// out billing sessions, and serializes all work on a room.
type Ledger struct {
	store   store.Store
	plugins *plugin.Registry
	logger  *slog.Logger

	clock        func() time.Time
	policy       PostCommitPolicy
	legacyLabels bool

	// Per-room mutexes; roomID string -> *sync.Mutex.
	locks sync.Map

	// Guards registry-level operations (create needs the current count).
	registryMu sync.Mutex
}

// New creates a new Ledger instance.
func New(s store.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:   s,
		plugins: plugin.NewRegistry(),
		logger:  slog.Default(),
		clock:   time.Now,
		policy:  PostCommitPrefill,
	}

	for _, opt := range opts {
		opt(l)
	}

	// Stores with fail-soft decode report recoveries through the plugin
	// registry.
	if rn, ok := s.(recoveryNotifier); ok {
		rn.SetRecoveryHook(func(key string, cause error) {
			l.plugins.EmitRegistryRecovered(context.Background(), key, cause)
		})
	}

	return l
}

type recoveryNotifier interface {
	SetRecoveryHook(func(key string, cause error))
}

// Option configures a Ledger instance.
type Option func(*Ledger)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
		l.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(l *Ledger) {
		_ = l.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithPostCommitPolicy sets what happens to staged readings after a commit.
func WithPostCommitPolicy(policy PostCommitPolicy) Option {
	return func(l *Ledger) {
		l.policy = policy
	}
}

// WithLegacyPeriodLabels switches period labels from "2006-01-02" to the
// legacy "<month>月" form used by old ledgers.
func WithLegacyPeriodLabels() Option {
	return func(l *Ledger) {
		l.legacyLabels = true
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(clock func() time.Time) Option {
	return func(l *Ledger) {
		l.clock = clock
	}
}

// Start migrates the store and initializes plugins.
func (l *Ledger) Start(ctx context.Context) error {
	if err := l.store.Migrate(ctx); err != nil {
		return err
	}

	l.plugins.EmitInit(ctx, l)

	l.logger.Info("roomledger started",
		"post_commit_policy", l.policy,
		"legacy_labels", l.legacyLabels,
	)

	return nil
}

// Stop shuts down the Ledger.
func (l *Ledger) Stop() error {
	ctx := context.Background()
	l.plugins.EmitShutdown(ctx)

	return l.store.Close()
}

// ──────────────────────────────────────────────────
// Room Registry
// ──────────────────────────────────────────────────

// CreateRoom adds a room to the registry. An empty name defaults to the
// room's 1-based registry position. All money fields start at ¥0 so that
// later arithmetic never mixes currencies.
func (l *Ledger) CreateRoom(ctx context.Context, name string) (*room.Room, error) {
	l.registryMu.Lock()
	defer l.registryMu.Unlock()

	if name == "" {
		rooms, err := l.store.ListRooms(ctx, room.ListOpts{})
		if err != nil {
			return nil, err
		}
		name = fmt.Sprintf("%d", len(rooms)+1)
	}

	r := &room.Room{
		Entity:           types.NewEntity(),
		ID:               id.NewRoomID(),
		Name:             name,
		Rent:             types.CNY(0),
		WaterPrice:       types.CNY(0),
		ElectricityPrice: types.CNY(0),
		GasPrice:         types.CNY(0),
		EnableGas:        false,
		Records:          []room.Record{},
	}

	if err := l.store.CreateRoom(ctx, r); err != nil {
		return nil, err
	}

	l.plugins.EmitRoomCreated(ctx, r)
	return r, nil
}

// RemoveRoom removes a room and its persisted history. Removing a room
// that does not exist is not an error.
func (l *Ledger) RemoveRoom(ctx context.Context, roomID id.RoomID) error {
	l.lockRoom(roomID).Lock()
	defer l.lockRoom(roomID).Unlock()

	if err := l.store.DeleteRoom(ctx, roomID); err != nil {
		if IsNotFound(err) {
			return nil
		}
		return err
	}

	l.plugins.EmitRoomRemoved(ctx, roomID.String())
	return nil
}

// RenameRoom changes a room's display name in place. Renaming an absent
// room is a no-op.
func (l *Ledger) RenameRoom(ctx context.Context, roomID id.RoomID, name string) error {
	l.lockRoom(roomID).Lock()
	defer l.lockRoom(roomID).Unlock()

	r, err := l.store.GetRoom(ctx, roomID)
	if err != nil {
		if IsNotFound(err) {
			return nil
		}
		return err
	}

	oldName := r.Name
	r.Name = name
	r.Touch()

	if err := l.store.UpdateRoom(ctx, r); err != nil {
		return err
	}

	l.plugins.EmitRoomRenamed(ctx, roomID.String(), oldName, name)
	return nil
}

// ListRooms returns the registry in its stored order. Store failures log
// and degrade to an empty registry so callers can always render a list.
func (l *Ledger) ListRooms(ctx context.Context) []*room.Room {
	rooms, err := l.store.ListRooms(ctx, room.ListOpts{})
	if err != nil {
		l.logger.Error("list rooms failed", "error", err)
		return []*room.Room{}
	}
	return rooms
}

// GetRoom retrieves a room by ID.
func (l *Ledger) GetRoom(ctx context.Context, roomID id.RoomID) (*room.Room, error) {
	return l.store.GetRoom(ctx, roomID)
}

// SetRentPaid flips the payment flag on the rent record at index
// (0 = newest) and persists the room.
func (l *Ledger) SetRentPaid(ctx context.Context, roomID id.RoomID, index int, paid bool) error {
	l.lockRoom(roomID).Lock()
	defer l.lockRoom(roomID).Unlock()

	r, err := l.store.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}

	if index < 0 || index >= len(r.RentRecords) {
		return ErrRentRecordNotFound
	}

	r.RentRecords[index].IsPaid = paid
	r.Touch()

	if err := l.store.UpdateRoom(ctx, r); err != nil {
		return err
	}

	l.plugins.EmitRentPaid(ctx, roomID.String(), index, paid)
	return nil
}

// ──────────────────────────────────────────────────
// Legacy tally mode
// ──────────────────────────────────────────────────

// CommitTally advances a room's tally items to the next period: each
// item's current value becomes its baseline and resets to zero.
func (l *Ledger) CommitTally(ctx context.Context, roomID id.RoomID) error {
	l.lockRoom(roomID).Lock()
	defer l.lockRoom(roomID).Unlock()

	r, err := l.store.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}

	if len(r.TallyItems) == 0 {
		return ErrNoTallyItems
	}

	billing.CommitTally(r.TallyItems)
	r.Touch()

	return l.store.UpdateRoom(ctx, r)
}

// ──────────────────────────────────────────────────
// Sessions
// ──────────────────────────────────────────────────

// NewSession creates a billing session with its own read-through room
// cache and staged inputs. Sessions are not safe for concurrent use;
// create one per workflow.
func (l *Ledger) NewSession() *Session {
	return &Session{
		ledger:  l,
		details: make(map[string]*room.Room),
	}
}

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

// lockRoom returns the mutex serializing work on a room.
func (l *Ledger) lockRoom(roomID id.RoomID) *sync.Mutex {
	mu, _ := l.locks.LoadOrStore(roomID.String(), &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// periodLabel formats the billing period label for a commit.
func (l *Ledger) periodLabel(t time.Time) string {
	if l.legacyLabels {
		return fmt.Sprintf("%d月", int(t.Month()))
	}
	return t.Format("2006-01-02")
}
