package types

import (
	"encoding/json"
	"fmt"
)

// Reading is a staged meter reading that distinguishes "entered as zero"
// from "not entered yet". Billing validation rejects unset readings for
// every enabled meter, so the zero value (unset) is the safe default.
type Reading struct {
	Value int64 `json:"value"`
	Valid bool  `json:"valid"`
}

// ReadingOf creates a set Reading with the given meter value.
func ReadingOf(v int64) Reading { return Reading{Value: v, Valid: true} }

// NoReading is the unset sentinel.
var NoReading = Reading{}

// Int64 returns the reading value, or 0 when unset.
func (r Reading) Int64() int64 {
	if !r.Valid {
		return 0
	}
	return r.Value
}

// String returns the reading value, or "unset".
func (r Reading) String() string {
	if !r.Valid {
		return "unset"
	}
	return fmt.Sprintf("%d", r.Value)
}

// MarshalJSON implements json.Marshaler. Unset readings encode as null.
func (r Reading) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON implements json.Unmarshaler. null and "" decode as unset.
func (r *Reading) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		*r = NoReading
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("types: invalid reading %s: %w", s, err)
	}
	*r = ReadingOf(v)
	return nil
}
