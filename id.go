package roomledger

import "github.com/xraph/roomledger/id"

// ID is the primary identifier type for all Roomledger entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
