package sqlite

import (
	"encoding/json"
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/roomledger/id"
	"github.com/xraph/roomledger/room"
	"github.com/xraph/roomledger/types"
)

// ==================== Room models ====================

type roomModel struct {
	grove.BaseModel `grove:"table:roomledger_rooms"`

	ID                       string          `grove:"id,pk"`
	Name                     string          `grove:"name"`
	RentCents                int64           `grove:"rent_cents"`
	RentCurrency             string          `grove:"rent_currency"`
	WaterPriceCents          int64           `grove:"water_price_cents"`
	WaterPriceCurrency       string          `grove:"water_price_currency"`
	ElectricityPriceCents    int64           `grove:"electricity_price_cents"`
	ElectricityPriceCurrency string          `grove:"electricity_price_currency"`
	GasPriceCents            int64           `grove:"gas_price_cents"`
	GasPriceCurrency         string          `grove:"gas_price_currency"`
	EnableGas                bool            `grove:"enable_gas"`
	LastWater                int64           `grove:"last_water"`
	LastElectricity          int64           `grove:"last_electricity"`
	LastGas                  int64           `grove:"last_gas"`
	BasicFees                json.RawMessage `grove:"basic_fees"`
	Records                  json.RawMessage `grove:"records"`
	RentRecords              json.RawMessage `grove:"rent_records"`
	TallyItems               json.RawMessage `grove:"tally_items"`
	CreatedAt                time.Time       `grove:"created_at"`
	UpdatedAt                time.Time       `grove:"updated_at"`
}

func toRoomModel(r *room.Room) *roomModel {
	basicFees, _ := json.Marshal(r.BasicFees)     //nolint:errcheck // best-effort
	records, _ := json.Marshal(r.Records)         //nolint:errcheck // best-effort
	rentRecords, _ := json.Marshal(r.RentRecords) //nolint:errcheck // best-effort
	tallyItems, _ := json.Marshal(r.TallyItems)   //nolint:errcheck // best-effort

	return &roomModel{
		ID:                       r.ID.String(),
		Name:                     r.Name,
		RentCents:                r.Rent.Amount,
		RentCurrency:             r.Rent.Currency,
		WaterPriceCents:          r.WaterPrice.Amount,
		WaterPriceCurrency:       r.WaterPrice.Currency,
		ElectricityPriceCents:    r.ElectricityPrice.Amount,
		ElectricityPriceCurrency: r.ElectricityPrice.Currency,
		GasPriceCents:            r.GasPrice.Amount,
		GasPriceCurrency:         r.GasPrice.Currency,
		EnableGas:                r.EnableGas,
		LastWater:                r.LastReadings.Water,
		LastElectricity:          r.LastReadings.Electricity,
		LastGas:                  r.LastReadings.Gas,
		BasicFees:                basicFees,
		Records:                  records,
		RentRecords:              rentRecords,
		TallyItems:               tallyItems,
		CreatedAt:                r.CreatedAt,
		UpdatedAt:                r.UpdatedAt,
	}
}

func fromRoomModel(m *roomModel) (*room.Room, error) {
	roomID, err := id.ParseRoomID(m.ID)
	if err != nil {
		return nil, err
	}

	var basicFees []room.BasicFee
	if len(m.BasicFees) > 0 {
		_ = json.Unmarshal(m.BasicFees, &basicFees) //nolint:errcheck // best-effort
	}

	records := []room.Record{}
	if len(m.Records) > 0 {
		_ = json.Unmarshal(m.Records, &records) //nolint:errcheck // best-effort
	}

	var rentRecords []room.RentRecord
	if len(m.RentRecords) > 0 {
		_ = json.Unmarshal(m.RentRecords, &rentRecords) //nolint:errcheck // best-effort
	}

	var tallyItems []room.TallyItem
	if len(m.TallyItems) > 0 {
		_ = json.Unmarshal(m.TallyItems, &tallyItems) //nolint:errcheck // best-effort
	}

	return &room.Room{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:               roomID,
		Name:             m.Name,
		Rent:             types.Money{Amount: m.RentCents, Currency: m.RentCurrency},
		WaterPrice:       types.Money{Amount: m.WaterPriceCents, Currency: m.WaterPriceCurrency},
		ElectricityPrice: types.Money{Amount: m.ElectricityPriceCents, Currency: m.ElectricityPriceCurrency},
		GasPrice:         types.Money{Amount: m.GasPriceCents, Currency: m.GasPriceCurrency},
		EnableGas:        m.EnableGas,
		BasicFees:        basicFees,
		LastReadings: room.Readings{
			Water:       m.LastWater,
			Electricity: m.LastElectricity,
			Gas:         m.LastGas,
		},
		Records:     records,
		RentRecords: rentRecords,
		TallyItems:  tallyItems,
	}, nil
}
