package room

import (
	"github.com/xraph/roomledger/id"
	"github.com/xraph/roomledger/types"
)

// Room is a rental unit with its pricing configuration and billing history.
// Records and RentRecords are newest-first; index 0 is the latest period.
type Room struct {
	types.Entity
	ID               id.RoomID    `json:"roomId"`
	Name             string       `json:"roomName"`
	Rent             types.Money  `json:"rent"`
	WaterPrice       types.Money  `json:"waterPrice"`
	ElectricityPrice types.Money  `json:"electricityPrice"`
	GasPrice         types.Money  `json:"gasPrice"`
	EnableGas        bool         `json:"enableGas"`
	BasicFees        []BasicFee   `json:"basicFees,omitempty"`
	LastReadings     Readings     `json:"lastReadings"`
	Records          []Record     `json:"record"`
	RentRecords      []RentRecord `json:"rentRecords,omitempty"`
	TallyItems       []TallyItem  `json:"calculateItem,omitempty"`
}

// BasicFee is a recurring flat charge added to every bill (cleaning,
// internet, property management).
type BasicFee struct {
	Name   string      `json:"name"`
	Amount types.Money `json:"amount"`
}

// Readings holds the last committed meter values, the baseline for the
// next billing period. Gas is carried even while gas billing is disabled.
type Readings struct {
	Water       int64 `json:"water"`
	Electricity int64 `json:"electricity"`
	Gas         int64 `json:"gas"`
}

// TallyItem is a generic line for the legacy two-column tally mode:
// an arbitrary label with a before/now pair and a unit price.
type TallyItem struct {
	Label     string      `json:"type"`
	Before    int64       `json:"before"`
	Now       int64       `json:"now"`
	UnitPrice types.Money `json:"singlePrice"`
}

// ListOpts controls registry listing.
type ListOpts struct {
	Limit  int
	Offset int
}

// LatestRecord returns the most recent billing record, or nil when the
// room has no history yet.
func (r *Room) LatestRecord() *Record {
	if len(r.Records) == 0 {
		return nil
	}
	return &r.Records[0]
}

// BasicFeesTotal sums the recurring flat charges.
func (r *Room) BasicFeesTotal() types.Money {
	total := types.CNY(0)
	for _, f := range r.BasicFees {
		if f.Amount.Currency == "" {
			continue
		}
		total = total.Add(f.Amount)
	}
	return total
}

// Baselines returns the effective meter baselines for the next bill:
// the latest record's readings when history exists, otherwise the stored
// LastReadings.
func (r *Room) Baselines() Readings {
	if latest := r.LatestRecord(); latest != nil {
		gas := r.LastReadings.Gas
		if latest.Gas != nil {
			gas = latest.Gas.Reading
		}
		return Readings{
			Water:       latest.WaterReading,
			Electricity: latest.ElectricityReading,
			Gas:         gas,
		}
	}
	return r.LastReadings
}

// CloneBasicFees returns an independent copy of the room's basic fees,
// so that record snapshots don't alias future edits.
func (r *Room) CloneBasicFees() []BasicFee {
	if len(r.BasicFees) == 0 {
		return nil
	}
	fees := make([]BasicFee, len(r.BasicFees))
	copy(fees, r.BasicFees)
	return fees
}
