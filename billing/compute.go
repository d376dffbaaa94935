// Package billing implements the pure calculation core: given a room's
// staged readings, prices, and baselines it validates the inputs and
// produces the billing record and rent ledger entry for one period. It
// mutates nothing; commit effects belong to the engine.
package billing

import (
	"github.com/xraph/roomledger/id"
	"github.com/xraph/roomledger/room"
	"github.com/xraph/roomledger/types"
)

// Inputs is everything one billing period needs. Current readings are
// explicit set/unset sentinels; baselines are the last committed values.
type Inputs struct {
	Time string

	Rent             types.Money
	WaterPrice       types.Money
	ElectricityPrice types.Money
	GasPrice         types.Money

	CurrentWater       types.Reading
	CurrentElectricity types.Reading
	CurrentGas         types.Reading

	LastWater       int64
	LastElectricity int64
	LastGas         int64

	EnableGas bool
	BasicFees []room.BasicFee
}

// Statement is the outcome of a successful computation: the billing
// record for the period and the matching unpaid rent ledger entry.
type Statement struct {
	Record room.Record
	Rent   room.RentRecord
	Total  types.Money
}

// Compute validates the inputs and calculates the period statement.
// Validation order: required readings, then required prices, then the gas
// pair when gas is enabled, then reading monotonicity. The first failure
// aborts; on failure nothing is computed.
func Compute(in Inputs) (*Statement, error) {
	if !in.CurrentWater.Valid {
		return nil, &MissingReadingError{Meter: MeterWater}
	}
	if !in.CurrentElectricity.Valid {
		return nil, &MissingReadingError{Meter: MeterElectricity}
	}
	if in.WaterPrice.IsZero() {
		return nil, &MissingPriceError{Meter: MeterWater}
	}
	if in.ElectricityPrice.IsZero() {
		return nil, &MissingPriceError{Meter: MeterElectricity}
	}
	if in.EnableGas {
		if !in.CurrentGas.Valid {
			return nil, &MissingReadingError{Meter: MeterGas}
		}
		if in.GasPrice.IsZero() {
			return nil, &MissingPriceError{Meter: MeterGas}
		}
	}
	if in.CurrentWater.Value < in.LastWater {
		return nil, &NonMonotonicReadingError{
			Meter:    MeterWater,
			Current:  in.CurrentWater.Value,
			Baseline: in.LastWater,
		}
	}
	if in.CurrentElectricity.Value < in.LastElectricity {
		return nil, &NonMonotonicReadingError{
			Meter:    MeterElectricity,
			Current:  in.CurrentElectricity.Value,
			Baseline: in.LastElectricity,
		}
	}
	if in.EnableGas && in.CurrentGas.Value < in.LastGas {
		return nil, &NonMonotonicReadingError{
			Meter:    MeterGas,
			Current:  in.CurrentGas.Value,
			Baseline: in.LastGas,
		}
	}

	currency := statementCurrency(in)

	waterUsage := in.CurrentWater.Value - in.LastWater
	elecUsage := in.CurrentElectricity.Value - in.LastElectricity

	waterFee := in.WaterPrice.Multiply(waterUsage)
	elecFee := in.ElectricityPrice.Multiply(elecUsage)

	rent := moneyOr(in.Rent, currency)
	basicFees := cloneFees(in.BasicFees)
	basicFeesTotal := sumFees(basicFees, currency)

	total := rent.Add(waterFee).Add(elecFee).Add(basicFeesTotal)

	record := room.Record{
		ID:                 id.NewBillingRecordID(),
		Time:               in.Time,
		WaterUsage:         waterUsage,
		ElectricityUsage:   elecUsage,
		WaterPrice:         in.WaterPrice,
		ElectricityPrice:   in.ElectricityPrice,
		WaterReading:       in.CurrentWater.Value,
		ElectricityReading: in.CurrentElectricity.Value,
	}

	// Gas is recorded only when enabled; the rent ledger entry always
	// carries the gas fields, zero-filled with the configured price kept.
	var gasUsage int64
	gasFee := types.Money{Amount: 0, Currency: currency}
	if in.EnableGas {
		gasUsage = in.CurrentGas.Value - in.LastGas
		gasFee = in.GasPrice.Multiply(gasUsage)
		total = total.Add(gasFee)
		record.Gas = &room.GasDetail{
			Price:   in.GasPrice,
			Reading: in.CurrentGas.Value,
			Usage:   gasUsage,
			Fee:     gasFee,
		}
	}
	record.TotalPrice = total

	rentRecord := room.RentRecord{
		ID:             id.NewRentRecordID(),
		Date:           in.Time,
		Amount:         rent.Add(basicFeesTotal),
		IsPaid:         false,
		WaterUsage:     waterUsage,
		WaterPrice:     in.WaterPrice,
		WaterFee:       waterFee,
		ElecUsage:      elecUsage,
		ElecPrice:      in.ElectricityPrice,
		ElecFee:        elecFee,
		GasUsage:       gasUsage,
		GasPrice:       moneyOr(in.GasPrice, currency),
		GasFee:         gasFee,
		TotalAmount:    total,
		BasicFees:      basicFees,
		BasicFeesTotal: basicFeesTotal,
	}

	return &Statement{Record: record, Rent: rentRecord, Total: total}, nil
}

// statementCurrency picks the currency for derived amounts: the first
// non-empty currency among the staged prices and rent, defaulting to cny.
func statementCurrency(in Inputs) string {
	for _, m := range []types.Money{in.WaterPrice, in.ElectricityPrice, in.GasPrice, in.Rent} {
		if m.Currency != "" {
			return m.Currency
		}
	}
	return "cny"
}

// moneyOr normalizes a zero-valued Money with no currency to the given
// currency, so that Add never sees a currency mismatch.
func moneyOr(m types.Money, currency string) types.Money {
	if m.Currency == "" {
		return types.Money{Amount: m.Amount, Currency: currency}
	}
	return m
}

func cloneFees(fees []room.BasicFee) []room.BasicFee {
	if len(fees) == 0 {
		return nil
	}
	out := make([]room.BasicFee, len(fees))
	copy(out, fees)
	return out
}

func sumFees(fees []room.BasicFee, currency string) types.Money {
	total := types.Money{Amount: 0, Currency: currency}
	for _, f := range fees {
		total = total.Add(moneyOr(f.Amount, currency))
	}
	return total
}
