package roomledger

import (
	"errors"

	"github.com/xraph/roomledger/billing"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound      = errors.New("roomledger: not found")
	ErrAlreadyExists = errors.New("roomledger: already exists")
	ErrInvalidInput  = errors.New("roomledger: invalid input")

	// Registry errors
	ErrRoomNotFound = errors.New("roomledger: room not found")
	ErrRoomExists   = errors.New("roomledger: room already exists")

	// Session errors
	ErrNoSelection        = errors.New("roomledger: no room selected")
	ErrRentRecordNotFound = errors.New("roomledger: rent record not found")
	ErrNoTallyItems       = errors.New("roomledger: room has no tally items")

	// Store errors
	ErrStoreNotReady   = errors.New("roomledger: store not ready")
	ErrStoreClosed     = errors.New("roomledger: store is closed")
	ErrMigrationFailed = errors.New("roomledger: migration failed")
)

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrRoomNotFound) ||
		errors.Is(err, ErrRentRecordNotFound)
}

// IsValidation returns true if the error is a billing validation failure
// (missing reading, missing price, or a reading below its baseline).
func IsValidation(err error) bool {
	return billing.IsValidation(err)
}
