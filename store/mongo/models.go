package mongo

import (
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/roomledger/id"
	"github.com/xraph/roomledger/room"
	"github.com/xraph/roomledger/types"
)

// ==================== Room models ====================

type roomModel struct {
	grove.BaseModel `grove:"table:roomledger_rooms"`

	ID                       string            `grove:"id,pk"                      bson:"_id"`
	Name                     string            `grove:"name"                       bson:"name"`
	RentCents                int64             `grove:"rent_cents"                 bson:"rent_cents"`
	RentCurrency             string            `grove:"rent_currency"              bson:"rent_currency"`
	WaterPriceCents          int64             `grove:"water_price_cents"          bson:"water_price_cents"`
	WaterPriceCurrency       string            `grove:"water_price_currency"       bson:"water_price_currency"`
	ElectricityPriceCents    int64             `grove:"electricity_price_cents"    bson:"electricity_price_cents"`
	ElectricityPriceCurrency string            `grove:"electricity_price_currency" bson:"electricity_price_currency"`
	GasPriceCents            int64             `grove:"gas_price_cents"            bson:"gas_price_cents"`
	GasPriceCurrency         string            `grove:"gas_price_currency"         bson:"gas_price_currency"`
	EnableGas                bool              `grove:"enable_gas"                 bson:"enable_gas"`
	LastWater                int64             `grove:"last_water"                 bson:"last_water"`
	LastElectricity          int64             `grove:"last_electricity"           bson:"last_electricity"`
	LastGas                  int64             `grove:"last_gas"                   bson:"last_gas"`
	BasicFees                []basicFeeModel   `grove:"basic_fees"                 bson:"basic_fees,omitempty"`
	Records                  []recordModel     `grove:"records"                    bson:"records"`
	RentRecords              []rentRecordModel `grove:"rent_records"               bson:"rent_records,omitempty"`
	TallyItems               []tallyItemModel  `grove:"tally_items"                bson:"tally_items,omitempty"`
	CreatedAt                time.Time         `grove:"created_at"                 bson:"created_at"`
	UpdatedAt                time.Time         `grove:"updated_at"                 bson:"updated_at"`
}

type basicFeeModel struct {
	Name           string `bson:"name"`
	AmountCents    int64  `bson:"amount_cents"`
	AmountCurrency string `bson:"amount_currency"`
}

type recordModel struct {
	ID                       string          `bson:"id"`
	Time                     string          `bson:"time"`
	WaterUsage               int64           `bson:"water_usage"`
	ElectricityUsage         int64           `bson:"electricity_usage"`
	TotalPriceCents          int64           `bson:"total_price_cents"`
	TotalPriceCurrency       string          `bson:"total_price_currency"`
	WaterPriceCents          int64           `bson:"water_price_cents"`
	WaterPriceCurrency       string          `bson:"water_price_currency"`
	ElectricityPriceCents    int64           `bson:"electricity_price_cents"`
	ElectricityPriceCurrency string          `bson:"electricity_price_currency"`
	WaterReading             int64           `bson:"water_reading"`
	ElectricityReading       int64           `bson:"electricity_reading"`
	Gas                      *gasDetailModel `bson:"gas,omitempty"`
}

type gasDetailModel struct {
	PriceCents    int64  `bson:"price_cents"`
	PriceCurrency string `bson:"price_currency"`
	Reading       int64  `bson:"reading"`
	Usage         int64  `bson:"usage"`
	FeeCents      int64  `bson:"fee_cents"`
	FeeCurrency   string `bson:"fee_currency"`
}

type rentRecordModel struct {
	ID                     string          `bson:"id"`
	Date                   string          `bson:"date"`
	AmountCents            int64           `bson:"amount_cents"`
	AmountCurrency         string          `bson:"amount_currency"`
	IsPaid                 bool            `bson:"is_paid"`
	WaterUsage             int64           `bson:"water_usage"`
	WaterPriceCents        int64           `bson:"water_price_cents"`
	WaterPriceCurrency     string          `bson:"water_price_currency"`
	WaterFeeCents          int64           `bson:"water_fee_cents"`
	WaterFeeCurrency       string          `bson:"water_fee_currency"`
	ElecUsage              int64           `bson:"electricity_usage"`
	ElecPriceCents         int64           `bson:"electricity_price_cents"`
	ElecPriceCurrency      string          `bson:"electricity_price_currency"`
	ElecFeeCents           int64           `bson:"electricity_fee_cents"`
	ElecFeeCurrency        string          `bson:"electricity_fee_currency"`
	GasUsage               int64           `bson:"gas_usage"`
	GasPriceCents          int64           `bson:"gas_price_cents"`
	GasPriceCurrency       string          `bson:"gas_price_currency"`
	GasFeeCents            int64           `bson:"gas_fee_cents"`
	GasFeeCurrency         string          `bson:"gas_fee_currency"`
	TotalAmountCents       int64           `bson:"total_amount_cents"`
	TotalAmountCurrency    string          `bson:"total_amount_currency"`
	BasicFees              []basicFeeModel `bson:"basic_fees,omitempty"`
	BasicFeesTotalCents    int64           `bson:"basic_fees_total_cents"`
	BasicFeesTotalCurrency string          `bson:"basic_fees_total_currency"`
}

type tallyItemModel struct {
	Label             string `bson:"label"`
	Before            int64  `bson:"before"`
	Now               int64  `bson:"now"`
	UnitPriceCents    int64  `bson:"unit_price_cents"`
	UnitPriceCurrency string `bson:"unit_price_currency"`
}

func toRoomModel(r *room.Room) *roomModel {
	records := make([]recordModel, len(r.Records))
	for i, rec := range r.Records {
		records[i] = toRecordModel(rec)
	}

	rentRecords := make([]rentRecordModel, len(r.RentRecords))
	for i, rr := range r.RentRecords {
		rentRecords[i] = toRentRecordModel(rr)
	}

	tallyItems := make([]tallyItemModel, len(r.TallyItems))
	for i, item := range r.TallyItems {
		tallyItems[i] = tallyItemModel{
			Label:             item.Label,
			Before:            item.Before,
			Now:               item.Now,
			UnitPriceCents:    item.UnitPrice.Amount,
			UnitPriceCurrency: item.UnitPrice.Currency,
		}
	}

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
		BasicFees:                toBasicFeeModels(r.BasicFees),
		Records:                  records,
		RentRecords:              rentRecords,
		TallyItems:               tallyItems,
		CreatedAt:                r.CreatedAt,
		UpdatedAt:                r.UpdatedAt,
	}
}

func toBasicFeeModels(fees []room.BasicFee) []basicFeeModel {
	if len(fees) == 0 {
		return nil
	}
	models := make([]basicFeeModel, len(fees))
	for i, f := range fees {
		models[i] = basicFeeModel{
			Name:           f.Name,
			AmountCents:    f.Amount.Amount,
			AmountCurrency: f.Amount.Currency,
		}
	}
	return models
}

func toRecordModel(rec room.Record) recordModel {
	m := recordModel{
		ID:                       rec.ID.String(),
		Time:                     rec.Time,
		WaterUsage:               rec.WaterUsage,
		ElectricityUsage:         rec.ElectricityUsage,
		TotalPriceCents:          rec.TotalPrice.Amount,
		TotalPriceCurrency:       rec.TotalPrice.Currency,
		WaterPriceCents:          rec.WaterPrice.Amount,
		WaterPriceCurrency:       rec.WaterPrice.Currency,
		ElectricityPriceCents:    rec.ElectricityPrice.Amount,
		ElectricityPriceCurrency: rec.ElectricityPrice.Currency,
		WaterReading:             rec.WaterReading,
		ElectricityReading:       rec.ElectricityReading,
	}
	if rec.Gas != nil {
		m.Gas = &gasDetailModel{
			PriceCents:    rec.Gas.Price.Amount,
			PriceCurrency: rec.Gas.Price.Currency,
			Reading:       rec.Gas.Reading,
			Usage:         rec.Gas.Usage,
			FeeCents:      rec.Gas.Fee.Amount,
			FeeCurrency:   rec.Gas.Fee.Currency,
		}
	}
	return m
}

func toRentRecordModel(rr room.RentRecord) rentRecordModel {
	return rentRecordModel{
		ID:                     rr.ID.String(),
		Date:                   rr.Date,
		AmountCents:            rr.Amount.Amount,
		AmountCurrency:         rr.Amount.Currency,
		IsPaid:                 rr.IsPaid,
		WaterUsage:             rr.WaterUsage,
		WaterPriceCents:        rr.WaterPrice.Amount,
		WaterPriceCurrency:     rr.WaterPrice.Currency,
		WaterFeeCents:          rr.WaterFee.Amount,
		WaterFeeCurrency:       rr.WaterFee.Currency,
		ElecUsage:              rr.ElecUsage,
		ElecPriceCents:         rr.ElecPrice.Amount,
		ElecPriceCurrency:      rr.ElecPrice.Currency,
		ElecFeeCents:           rr.ElecFee.Amount,
		ElecFeeCurrency:        rr.ElecFee.Currency,
		GasUsage:               rr.GasUsage,
		GasPriceCents:          rr.GasPrice.Amount,
		GasPriceCurrency:       rr.GasPrice.Currency,
		GasFeeCents:            rr.GasFee.Amount,
		GasFeeCurrency:         rr.GasFee.Currency,
		TotalAmountCents:       rr.TotalAmount.Amount,
		TotalAmountCurrency:    rr.TotalAmount.Currency,
		BasicFees:              toBasicFeeModels(rr.BasicFees),
		BasicFeesTotalCents:    rr.BasicFeesTotal.Amount,
		BasicFeesTotalCurrency: rr.BasicFeesTotal.Currency,
	}
}

func fromRoomModel(m *roomModel) (*room.Room, error) {
	roomID, err := id.ParseRoomID(m.ID)
	if err != nil {
		return nil, err
	}

	records := make([]room.Record, len(m.Records))
	for i := range m.Records {
		rec, err := fromRecordModel(&m.Records[i])
		if err != nil {
			return nil, err
		}
		records[i] = rec
	}

	rentRecords := make([]room.RentRecord, 0, len(m.RentRecords))
	for i := range m.RentRecords {
		rr, err := fromRentRecordModel(&m.RentRecords[i])
		if err != nil {
			return nil, err
		}
		rentRecords = append(rentRecords, rr)
	}
	if len(rentRecords) == 0 {
		rentRecords = nil
	}

	var tallyItems []room.TallyItem
	for _, item := range m.TallyItems {
		tallyItems = append(tallyItems, room.TallyItem{
			Label:     item.Label,
			Before:    item.Before,
			Now:       item.Now,
			UnitPrice: types.Money{Amount: item.UnitPriceCents, Currency: item.UnitPriceCurrency},
		})
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
		BasicFees:        fromBasicFeeModels(m.BasicFees),
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

func fromBasicFeeModels(models []basicFeeModel) []room.BasicFee {
	if len(models) == 0 {
		return nil
	}
	fees := make([]room.BasicFee, len(models))
	for i, m := range models {
		fees[i] = room.BasicFee{
			Name:   m.Name,
			Amount: types.Money{Amount: m.AmountCents, Currency: m.AmountCurrency},
		}
	}
	return fees
}

func fromRecordModel(m *recordModel) (room.Record, error) {
	recID, err := id.ParseBillingRecordID(m.ID)
	if err != nil {
		return room.Record{}, err
	}

	rec := room.Record{
		ID:                 recID,
		Time:               m.Time,
		WaterUsage:         m.WaterUsage,
		ElectricityUsage:   m.ElectricityUsage,
		TotalPrice:         types.Money{Amount: m.TotalPriceCents, Currency: m.TotalPriceCurrency},
		WaterPrice:         types.Money{Amount: m.WaterPriceCents, Currency: m.WaterPriceCurrency},
		ElectricityPrice:   types.Money{Amount: m.ElectricityPriceCents, Currency: m.ElectricityPriceCurrency},
		WaterReading:       m.WaterReading,
		ElectricityReading: m.ElectricityReading,
	}
	if m.Gas != nil {
		rec.Gas = &room.GasDetail{
			Price:   types.Money{Amount: m.Gas.PriceCents, Currency: m.Gas.PriceCurrency},
			Reading: m.Gas.Reading,
			Usage:   m.Gas.Usage,
			Fee:     types.Money{Amount: m.Gas.FeeCents, Currency: m.Gas.FeeCurrency},
		}
	}
	return rec, nil
}

func fromRentRecordModel(m *rentRecordModel) (room.RentRecord, error) {
	rrID, err := id.ParseRentRecordID(m.ID)
	if err != nil {
		return room.RentRecord{}, err
	}

	return room.RentRecord{
		ID:             rrID,
		Date:           m.Date,
		Amount:         types.Money{Amount: m.AmountCents, Currency: m.AmountCurrency},
		IsPaid:         m.IsPaid,
		WaterUsage:     m.WaterUsage,
		WaterPrice:     types.Money{Amount: m.WaterPriceCents, Currency: m.WaterPriceCurrency},
		WaterFee:       types.Money{Amount: m.WaterFeeCents, Currency: m.WaterFeeCurrency},
		ElecUsage:      m.ElecUsage,
		ElecPrice:      types.Money{Amount: m.ElecPriceCents, Currency: m.ElecPriceCurrency},
		ElecFee:        types.Money{Amount: m.ElecFeeCents, Currency: m.ElecFeeCurrency},
		GasUsage:       m.GasUsage,
		GasPrice:       types.Money{Amount: m.GasPriceCents, Currency: m.GasPriceCurrency},
		GasFee:         types.Money{Amount: m.GasFeeCents, Currency: m.GasFeeCurrency},
		TotalAmount:    types.Money{Amount: m.TotalAmountCents, Currency: m.TotalAmountCurrency},
		BasicFees:      fromBasicFeeModels(m.BasicFees),
		BasicFeesTotal: types.Money{Amount: m.BasicFeesTotalCents, Currency: m.BasicFeesTotalCurrency},
	}, nil
}
