package roomledger

import "github.com/xraph/roomledger/types"

// Re-export common types for convenience so users don't have to import types package.

// Money is re-exported from types package.
type Money = types.Money

// Reading is re-exported from types package.
type Reading = types.Reading

// Entity is re-exported from types package.
type Entity = types.Entity

// Re-export Money constructors
var (
	CNY  = types.CNY
	USD  = types.USD
	EUR  = types.EUR
	Zero = types.Zero
	Sum  = types.Sum
)

// Re-export Reading helpers
var (
	ReadingOf = types.ReadingOf
	NoReading = types.NoReading
)

// Re-export Entity constructor
var NewEntity = types.NewEntity
