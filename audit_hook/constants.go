package audithook

// Action constants for audit events.
const (
	// Room actions
	ActionRoomCreated = "room.created"
	ActionRoomRemoved = "room.removed"
	ActionRoomRenamed = "room.renamed"

	// Billing actions
	ActionStatementCommitted = "statement.committed"
	ActionRentPaid           = "rent.paid"
	ActionRentUnpaid         = "rent.unpaid"

	// Recovery actions
	ActionRegistryRecovered = "registry.recovered"
)

// Resource constants for audit events.
const (
	ResourceRoom      = "room"
	ResourceStatement = "statement"
	ResourceRent      = "rent"
	ResourceRegistry  = "registry"
)

// Category constants for audit events.
const (
	CategoryRegistry = "registry"
	CategoryBilling  = "billing"
	CategoryPayment  = "payment"
	CategoryStorage  = "storage"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
