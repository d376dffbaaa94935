package room

import (
	"github.com/xraph/roomledger/id"
	"github.com/xraph/roomledger/types"
)

// Record is one committed utility bill. Gas is nil when gas billing was
// disabled at commit time; water and electricity are always present.
type Record struct {
	ID                 id.BillingRecordID `json:"id"`
	Time               string             `json:"time"`
	WaterUsage         int64              `json:"water"`
	ElectricityUsage   int64              `json:"electricity"`
	TotalPrice         types.Money        `json:"totalPrice"`
	WaterPrice         types.Money        `json:"waterPrice"`
	ElectricityPrice   types.Money        `json:"electricityPrice"`
	WaterReading       int64              `json:"waterReading"`
	ElectricityReading int64              `json:"electricityReading"`
	Gas                *GasDetail         `json:"gas,omitempty"`
}

// GasDetail is the gas portion of a billing record, present only when
// gas billing was enabled for the period.
type GasDetail struct {
	Price   types.Money `json:"gasPrice"`
	Reading int64       `json:"gasReading"`
	Usage   int64       `json:"gasUsage"`
	Fee     types.Money `json:"gasFee"`
}

// RentRecord is one entry in the rent payment ledger. Unlike Record, the
// gas fields are always present and zero-filled when gas is disabled, with
// the room's configured gas price retained.
type RentRecord struct {
	ID             id.RentRecordID `json:"id"`
	Date           string          `json:"date"`
	Amount         types.Money     `json:"amount"`
	IsPaid         bool            `json:"isPaid"`
	WaterUsage     int64           `json:"waterUsage"`
	WaterPrice     types.Money     `json:"waterPrice"`
	WaterFee       types.Money     `json:"waterFee"`
	ElecUsage      int64           `json:"electricityUsage"`
	ElecPrice      types.Money     `json:"electricityPrice"`
	ElecFee        types.Money     `json:"electricityFee"`
	GasUsage       int64           `json:"gasUsage"`
	GasPrice       types.Money     `json:"gasPrice"`
	GasFee         types.Money     `json:"gasFee"`
	TotalAmount    types.Money     `json:"totalAmount"`
	BasicFees      []BasicFee      `json:"basicFees,omitempty"`
	BasicFeesTotal types.Money     `json:"basicFeesTotal"`
}
