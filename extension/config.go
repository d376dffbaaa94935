package extension

// Config holds the room ledger extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.roomledger" or "roomledger" keys).
type Config struct {
	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// PostCommitPolicy controls what happens to a session's staged readings
	// after a successful commit: "prefill" carries the new baselines forward,
	// "clear" resets them to unset (default: "prefill").
	PostCommitPolicy string `json:"post_commit_policy" mapstructure:"post_commit_policy" yaml:"post_commit_policy"`

	// LegacyPeriodLabels stamps billing records with month-number labels
	// instead of full dates, matching data written by old ledgers.
	LegacyPeriodLabels bool `json:"legacy_period_labels" mapstructure:"legacy_period_labels" yaml:"legacy_period_labels"`

	// GroveDatabase is the name of a grove.DB registered in the DI container.
	// When set, the caller is expected to inject a matching store via
	// WithStore; the field exists so deployments can keep the database name
	// next to the rest of the ledger configuration.
	GroveDatabase string `json:"grove_database" mapstructure:"grove_database" yaml:"grove_database"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		PostCommitPolicy: "prefill",
	}
}
