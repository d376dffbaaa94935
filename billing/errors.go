package billing

import (
	"errors"
	"fmt"
)

// Meter names one of the utility meters a room can bill.
type Meter string

const (
	MeterWater       Meter = "water"
	MeterElectricity Meter = "electricity"
	MeterGas         Meter = "gas"
)

// MissingReadingError reports that a required meter reading was not entered.
type MissingReadingError struct {
	Meter Meter
}

func (e *MissingReadingError) Error() string {
	return fmt.Sprintf("billing: missing %s reading", e.Meter)
}

// MissingPriceError reports that a required unit price is unset or zero.
type MissingPriceError struct {
	Meter Meter
}

func (e *MissingPriceError) Error() string {
	return fmt.Sprintf("billing: missing %s unit price", e.Meter)
}

// NonMonotonicReadingError reports a current reading below its baseline.
// The message carries both values so callers can surface them directly.
type NonMonotonicReadingError struct {
	Meter    Meter
	Current  int64
	Baseline int64
}

func (e *NonMonotonicReadingError) Error() string {
	return fmt.Sprintf("billing: %s reading %d is below the previous reading %d",
		e.Meter, e.Current, e.Baseline)
}

// IsValidation reports whether err is one of the billing validation
// failures: a missing reading, a missing price, or a non-monotonic reading.
func IsValidation(err error) bool {
	var (
		missingReading *MissingReadingError
		missingPrice   *MissingPriceError
		nonMonotonic   *NonMonotonicReadingError
	)
	return errors.As(err, &missingReading) ||
		errors.As(err, &missingPrice) ||
		errors.As(err, &nonMonotonic)
}
