package kv

import (
	"encoding/json"
	"errors"
	"math"
	"strings"

	"github.com/xraph/roomledger/id"
	"github.com/xraph/roomledger/room"
	"github.com/xraph/roomledger/types"
)

// Old ledgers went through four persisted shapes: tally-only rooms, then
// named water/electricity readings, then optional gas, then basic fees
// and rent records. All of them stored prices as yuan floats and room ids
// as UUIDs or numbers. decodeRooms accepts any of them and normalizes to
// the current model; the modern shape (Money objects, TypeIDs) is tried
// first.

var errUnrecognized = errors.New("kv: unrecognized registry encoding")

// maxUnwrapDepth bounds double-encoded JSON unwrapping.
const maxUnwrapDepth = 3

// decodeRooms parses a persisted registry value. For legacy rooms it
// mints new TypeIDs and reports the original key in legacyKeys (new ID
// string -> old roomId string) so per-room detail keys can be purged.
func decodeRooms(raw string) (rooms []*room.Room, legacyKeys map[string]string, err error) {
	raw = unwrap(raw)
	if strings.TrimSpace(raw) == "" {
		return []*room.Room{}, nil, nil
	}

	var modern []*room.Room
	if err := json.Unmarshal([]byte(raw), &modern); err == nil {
		out := make([]*room.Room, 0, len(modern))
		for _, r := range modern {
			if r != nil {
				normalizeRoom(r)
				out = append(out, r)
			}
		}
		return out, nil, nil
	}

	var legacy []legacyRoom
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&legacy); err != nil {
		return nil, nil, errUnrecognized
	}

	legacyKeys = make(map[string]string)
	rooms = make([]*room.Room, 0, len(legacy))
	for _, lr := range legacy {
		r := lr.toRoom()
		if key := lr.key(); key != "" {
			legacyKeys[r.ID.String()] = key
		}
		rooms = append(rooms, r)
	}
	return rooms, legacyKeys, nil
}

// unwrap peels double-encoded JSON: a value persisted as a JSON string
// that itself contains JSON.
func unwrap(raw string) string {
	for range maxUnwrapDepth {
		trimmed := strings.TrimSpace(raw)
		if !strings.HasPrefix(trimmed, `"`) {
			return raw
		}
		var inner string
		if err := json.Unmarshal([]byte(trimmed), &inner); err != nil {
			return raw
		}
		raw = inner
	}
	return raw
}

// normalizeRoom repairs zero-valued money currencies so later arithmetic
// never mixes an empty currency into a sum.
func normalizeRoom(r *room.Room) {
	currency := "cny"
	for _, m := range []types.Money{r.Rent, r.WaterPrice, r.ElectricityPrice, r.GasPrice} {
		if m.Currency != "" {
			currency = m.Currency
			break
		}
	}

	fix := func(m *types.Money) {
		if m.Currency == "" {
			m.Currency = currency
		}
	}
	fix(&r.Rent)
	fix(&r.WaterPrice)
	fix(&r.ElectricityPrice)
	fix(&r.GasPrice)
}

// ──────────────────────────────────────────────────
// Legacy shapes
// ──────────────────────────────────────────────────

type legacyRoom struct {
	RoomID           json.RawMessage    `json:"roomId"`
	RoomName         string             `json:"roomName"`
	Rent             json.Number        `json:"rent"`
	WaterPrice       json.Number        `json:"waterPrice"`
	ElectricityPrice json.Number        `json:"electricityPrice"`
	GasPrice         json.Number        `json:"gasPrice"`
	EnableGas        bool               `json:"enableGas"`
	BasicFees        []legacyFee        `json:"basicFees"`
	LastReadings     *legacyReadings    `json:"lastReadings"`
	Record           []legacyRecord     `json:"record"`
	RentRecords      []legacyRentRecord `json:"rentRecords"`
	CalculateItem    []legacyTallyItem  `json:"calculateItem"`
}

type legacyFee struct {
	Name   string      `json:"name"`
	Amount json.Number `json:"amount"`
}

type legacyReadings struct {
	Water       json.Number `json:"water"`
	Electricity json.Number `json:"electricity"`
	Gas         json.Number `json:"gas"`
}

type legacyRecord struct {
	Time               string      `json:"time"`
	Water              json.Number `json:"water"`
	Electricity        json.Number `json:"electricity"`
	TotalPrice         json.Number `json:"totalPrice"`
	WaterPrice         json.Number `json:"waterPrice"`
	ElectricityPrice   json.Number `json:"electricityPrice"`
	WaterReading       json.Number `json:"waterReading"`
	ElectricityReading json.Number `json:"electricityReading"`
	GasPrice           json.Number `json:"gasPrice"`
	GasReading         json.Number `json:"gasReading"`
	GasUsage           json.Number `json:"gasUsage"`
	GasFee             json.Number `json:"gasFee"`
}

type legacyRentRecord struct {
	Date             string      `json:"date"`
	Amount           json.Number `json:"amount"`
	IsPaid           bool        `json:"isPaid"`
	WaterUsage       json.Number `json:"waterUsage"`
	WaterPrice       json.Number `json:"waterPrice"`
	WaterFee         json.Number `json:"waterFee"`
	ElectricityUsage json.Number `json:"electricityUsage"`
	ElectricityPrice json.Number `json:"electricityPrice"`
	ElectricityFee   json.Number `json:"electricityFee"`
	GasUsage         json.Number `json:"gasUsage"`
	GasPrice         json.Number `json:"gasPrice"`
	GasFee           json.Number `json:"gasFee"`
	TotalAmount      json.Number `json:"totalAmount"`
	BasicFees        []legacyFee `json:"basicFees"`
	BasicFeesTotal   json.Number `json:"basicFeesTotal"`
}

type legacyTallyItem struct {
	Type        string      `json:"type"`
	Before      json.Number `json:"before"`
	Now         json.Number `json:"now"`
	SinglePrice json.Number `json:"singlePrice"`
}

// key returns the legacy room identifier as stored (UUID or number).
func (lr legacyRoom) key() string {
	if len(lr.RoomID) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(lr.RoomID, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(lr.RoomID))
}

func (lr legacyRoom) toRoom() *room.Room {
	r := &room.Room{
		Entity:           types.NewEntity(),
		Name:             lr.RoomName,
		Rent:             yuanToMoney(lr.Rent),
		WaterPrice:       yuanToMoney(lr.WaterPrice),
		ElectricityPrice: yuanToMoney(lr.ElectricityPrice),
		GasPrice:         yuanToMoney(lr.GasPrice),
		EnableGas:        lr.EnableGas,
		Records:          []room.Record{},
	}

	// Legacy ids are UUIDs or numbers; a fresh TypeID replaces them and
	// the original key is tracked for detail purging.
	if parsed, err := id.ParseRoomID(lr.key()); err == nil {
		r.ID = parsed
	} else {
		r.ID = id.NewRoomID()
	}

	if lr.LastReadings != nil {
		r.LastReadings = room.Readings{
			Water:       toInt(lr.LastReadings.Water),
			Electricity: toInt(lr.LastReadings.Electricity),
			Gas:         toInt(lr.LastReadings.Gas),
		}
	}

	for _, f := range lr.BasicFees {
		r.BasicFees = append(r.BasicFees, room.BasicFee{
			Name:   f.Name,
			Amount: yuanToMoney(f.Amount),
		})
	}

	for _, rec := range lr.Record {
		r.Records = append(r.Records, rec.toRecord())
	}

	for _, rr := range lr.RentRecords {
		r.RentRecords = append(r.RentRecords, rr.toRentRecord())
	}

	for _, item := range lr.CalculateItem {
		r.TallyItems = append(r.TallyItems, room.TallyItem{
			Label:     item.Type,
			Before:    toInt(item.Before),
			Now:       toInt(item.Now),
			UnitPrice: yuanToMoney(item.SinglePrice),
		})
	}

	// The gas generation stored records without carrying the baseline
	// forward; recompute it from the newest record.
	if r.LastReadings == (room.Readings{}) && len(r.Records) > 0 {
		r.LastReadings = r.Baselines()
	}

	return r
}

func (rec legacyRecord) toRecord() room.Record {
	out := room.Record{
		ID:                 id.NewBillingRecordID(),
		Time:               rec.Time,
		WaterUsage:         toInt(rec.Water),
		ElectricityUsage:   toInt(rec.Electricity),
		TotalPrice:         yuanToMoney(rec.TotalPrice),
		WaterPrice:         yuanToMoney(rec.WaterPrice),
		ElectricityPrice:   yuanToMoney(rec.ElectricityPrice),
		WaterReading:       toInt(rec.WaterReading),
		ElectricityReading: toInt(rec.ElectricityReading),
	}

	// Gas was only written when enabled; a present reading or fee marks
	// a gas-generation record.
	if rec.GasReading != "" || rec.GasFee != "" {
		out.Gas = &room.GasDetail{
			Price:   yuanToMoney(rec.GasPrice),
			Reading: toInt(rec.GasReading),
			Usage:   toInt(rec.GasUsage),
			Fee:     yuanToMoney(rec.GasFee),
		}
	}

	return out
}

func (rr legacyRentRecord) toRentRecord() room.RentRecord {
	out := room.RentRecord{
		ID:             id.NewRentRecordID(),
		Date:           rr.Date,
		Amount:         yuanToMoney(rr.Amount),
		IsPaid:         rr.IsPaid,
		WaterUsage:     toInt(rr.WaterUsage),
		WaterPrice:     yuanToMoney(rr.WaterPrice),
		WaterFee:       yuanToMoney(rr.WaterFee),
		ElecUsage:      toInt(rr.ElectricityUsage),
		ElecPrice:      yuanToMoney(rr.ElectricityPrice),
		ElecFee:        yuanToMoney(rr.ElectricityFee),
		GasUsage:       toInt(rr.GasUsage),
		GasPrice:       yuanToMoney(rr.GasPrice),
		GasFee:         yuanToMoney(rr.GasFee),
		TotalAmount:    yuanToMoney(rr.TotalAmount),
		BasicFeesTotal: yuanToMoney(rr.BasicFeesTotal),
	}

	for _, f := range rr.BasicFees {
		out.BasicFees = append(out.BasicFees, room.BasicFee{
			Name:   f.Name,
			Amount: yuanToMoney(f.Amount),
		})
	}

	return out
}

// yuanToMoney converts a legacy yuan amount (possibly fractional) to
// integer fen. Missing or malformed values become ¥0.
func yuanToMoney(n json.Number) types.Money {
	if n == "" {
		return types.CNY(0)
	}
	f, err := n.Float64()
	if err != nil {
		return types.CNY(0)
	}
	return types.CNY(int64(math.Round(f * 100)))
}

// toInt reads a legacy numeric field as an integer meter value.
func toInt(n json.Number) int64 {
	if n == "" {
		return 0
	}
	if v, err := n.Int64(); err == nil {
		return v
	}
	if f, err := n.Float64(); err == nil {
		return int64(math.Round(f))
	}
	return 0
}
