package roomledger

import (
	"context"

	"github.com/xraph/roomledger/billing"
	"github.com/xraph/roomledger/id"
	"github.com/xraph/roomledger/room"
	"github.com/xraph/roomledger/types"
)

// Session is one billing workflow: select a room, stage readings and
// prices, commit. It keeps a read-through cache of room details for its
// lifetime; the cache is overwritten only by Select and Commit.
//
// A Session is not safe for concurrent use. The engine's per-room mutex
// still serializes commits from different sessions on the same room.
type Session struct {
	ledger  *Ledger
	roomID  id.RoomID
	details map[string]*room.Room

	// Staged unit prices for the next commit.
	WaterPrice       types.Money
	ElectricityPrice types.Money
	GasPrice         types.Money

	// Staged current readings; unset until the caller enters them.
	CurrentWater       types.Reading
	CurrentElectricity types.Reading
	CurrentGas         types.Reading

	// Baselines from the last committed period.
	LastWater       int64
	LastElectricity int64
	LastGas         int64
}

// RoomID returns the selected room, or the nil ID when nothing is selected.
func (s *Session) RoomID() id.RoomID {
	return s.roomID
}

// Select makes roomID the session's working room and stages its prices
// and baselines. Selecting an unknown room returns ErrRoomNotFound and
// leaves the current selection unchanged.
//
// The effective baselines (latest record's readings when history exists)
// are written back to the room so the carry-forward survives restarts,
// including the gas baseline while gas billing is disabled.
func (s *Session) Select(ctx context.Context, roomID id.RoomID) error {
	mu := s.ledger.lockRoom(roomID)
	mu.Lock()
	defer mu.Unlock()

	r, err := s.detail(ctx, roomID)
	if err != nil {
		return err
	}

	s.roomID = roomID

	s.WaterPrice = r.WaterPrice
	s.ElectricityPrice = r.ElectricityPrice
	s.GasPrice = r.GasPrice

	baselines := r.Baselines()
	s.LastWater = baselines.Water
	s.LastElectricity = baselines.Electricity
	s.LastGas = baselines.Gas

	s.CurrentWater = types.NoReading
	s.CurrentElectricity = types.NoReading
	s.CurrentGas = types.NoReading

	if r.LastReadings != baselines {
		r.LastReadings = baselines
		r.Touch()
		if err := s.ledger.store.UpdateRoom(ctx, r); err != nil {
			s.ledger.logger.Warn("persisting baselines on select failed",
				"room_id", roomID.String(),
				"error", err,
			)
		}
	}

	s.ledger.plugins.EmitRoomSelected(ctx, r)
	return nil
}

// Detail returns a room through the session cache: the first read per
// room hits the store, later reads are served from memory until a commit
// replaces the entry.
func (s *Session) Detail(ctx context.Context, roomID id.RoomID) (*room.Room, error) {
	return s.detail(ctx, roomID)
}

func (s *Session) detail(ctx context.Context, roomID id.RoomID) (*room.Room, error) {
	key := roomID.String()
	if cached, ok := s.details[key]; ok {
		return cached, nil
	}

	r, err := s.ledger.store.GetRoom(ctx, roomID)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	s.details[key] = r
	return r, nil
}

// Commit validates the staged inputs against the selected room and, on
// success, writes the period's billing record and rent ledger entry.
// Validation failures mutate nothing. Once mutation starts it runs to
// completion: if the store write fails afterwards, the error is returned
// and the session cache keeps the mutated room.
func (s *Session) Commit(ctx context.Context) (*billing.Statement, error) {
	if s.roomID.IsNil() {
		return nil, ErrNoSelection
	}

	mu := s.ledger.lockRoom(s.roomID)
	mu.Lock()
	defer mu.Unlock()

	r, err := s.detail(ctx, s.roomID)
	if err != nil {
		return nil, err
	}

	stmt, err := billing.Compute(billing.Inputs{
		Time:               s.ledger.periodLabel(s.ledger.clock()),
		Rent:               r.Rent,
		WaterPrice:         s.WaterPrice,
		ElectricityPrice:   s.ElectricityPrice,
		GasPrice:           s.GasPrice,
		CurrentWater:       s.CurrentWater,
		CurrentElectricity: s.CurrentElectricity,
		CurrentGas:         s.CurrentGas,
		LastWater:          s.LastWater,
		LastElectricity:    s.LastElectricity,
		LastGas:            s.LastGas,
		EnableGas:          r.EnableGas,
		BasicFees:          r.BasicFees,
	})
	if err != nil {
		return nil, err
	}

	// Mutation starts here.
	r.Records = append([]room.Record{stmt.Record}, r.Records...)
	r.RentRecords = append([]room.RentRecord{stmt.Rent}, r.RentRecords...)

	// Staged prices become the room's prices; the gas price is kept even
	// while gas billing is disabled.
	r.WaterPrice = s.WaterPrice
	r.ElectricityPrice = s.ElectricityPrice
	if s.GasPrice.Currency != "" {
		r.GasPrice = s.GasPrice
	}

	r.LastReadings.Water = s.CurrentWater.Value
	r.LastReadings.Electricity = s.CurrentElectricity.Value
	if r.EnableGas {
		r.LastReadings.Gas = s.CurrentGas.Value
	}
	r.Touch()

	s.details[s.roomID.String()] = r

	if err := s.ledger.store.UpdateRoom(ctx, r); err != nil {
		s.ledger.logger.Error("persisting commit failed",
			"room_id", s.roomID.String(),
			"period", stmt.Record.Time,
			"error", err,
		)
		return nil, err
	}

	s.LastWater = r.LastReadings.Water
	s.LastElectricity = r.LastReadings.Electricity
	s.LastGas = r.LastReadings.Gas

	switch s.ledger.policy {
	case PostCommitClear:
		s.CurrentWater = types.NoReading
		s.CurrentElectricity = types.NoReading
		s.CurrentGas = types.NoReading
	default: // PostCommitPrefill
		s.CurrentWater = types.ReadingOf(s.LastWater)
		s.CurrentElectricity = types.ReadingOf(s.LastElectricity)
		if r.EnableGas {
			s.CurrentGas = types.ReadingOf(s.LastGas)
		} else {
			s.CurrentGas = types.NoReading
		}
	}

	s.ledger.plugins.EmitStatementCommitted(ctx, r, stmt)

	s.ledger.logger.Info("statement committed",
		"room_id", s.roomID.String(),
		"period", stmt.Record.Time,
		"total", stmt.Total.String(),
	)

	return stmt, nil
}

// TallyResult returns the formatted charge for the selected room's tally
// item at index i, "0.00" when out of range.
func (s *Session) TallyResult(ctx context.Context, i int) (string, error) {
	if s.roomID.IsNil() {
		return "", ErrNoSelection
	}
	r, err := s.detail(ctx, s.roomID)
	if err != nil {
		return "", err
	}
	return billing.TallyResult(r.TallyItems, i), nil
}

// TallyTotal returns the formatted sum of the selected room's tally items
// plus its rent.
func (s *Session) TallyTotal(ctx context.Context) (string, error) {
	if s.roomID.IsNil() {
		return "", ErrNoSelection
	}
	r, err := s.detail(ctx, s.roomID)
	if err != nil {
		return "", err
	}
	return billing.TallyTotal(r.TallyItems, r.Rent), nil
}
