package billing

import (
	"github.com/xraph/roomledger/room"
	"github.com/xraph/roomledger/types"
)

// Legacy two-column tally mode: generic before/now items with a unit
// price, no named meters and no validation. Amounts are formatted as
// major-unit strings because the tally view renders them directly.

// TallyResult returns the charge for item i as a major-unit string
// ("12.50"). Out-of-range indexes yield "0.00".
func TallyResult(items []room.TallyItem, i int) string {
	if i < 0 || i >= len(items) {
		return "0.00"
	}
	item := items[i]
	return item.UnitPrice.Multiply(item.Now - item.Before).FormatMajor()
}

// TallyTotal returns the sum of all item charges plus rent as a
// major-unit string.
func TallyTotal(items []room.TallyItem, rent types.Money) string {
	currency := rent.Currency
	for _, item := range items {
		if currency != "" {
			break
		}
		currency = item.UnitPrice.Currency
	}
	if currency == "" {
		currency = "cny"
	}

	total := moneyOr(rent, currency)
	for _, item := range items {
		fee := item.UnitPrice.Multiply(item.Now - item.Before)
		total = total.Add(moneyOr(fee, currency))
	}
	return total.FormatMajor()
}

// CommitTally advances each item to the next period: the current value
// becomes the new baseline and the current value resets to zero.
func CommitTally(items []room.TallyItem) {
	for i := range items {
		items[i].Before = items[i].Now
		items[i].Now = 0
	}
}
