package extension

import (
	roomledger "github.com/xraph/roomledger"
	"github.com/xraph/roomledger/plugin"
	"github.com/xraph/roomledger/store"
)

// Option configures the room ledger Forge extension.
type Option func(*Extension)

// WithStore sets the store for the ledger engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithLedgerOption passes a roomledger.Option through to the underlying engine.
func WithLedgerOption(opt roomledger.Option) Option {
	return func(e *Extension) {
		e.ledgerOpts = append(e.ledgerOpts, opt)
	}
}

// WithPlugin registers a ledger plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.ledgerOpts = append(e.ledgerOpts, roomledger.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithPostCommitPolicy sets the post-commit reading policy ("prefill" or "clear").
func WithPostCommitPolicy(policy string) Option {
	return func(e *Extension) { e.config.PostCommitPolicy = policy }
}

// WithLegacyPeriodLabels stamps billing records with month-number labels.
func WithLegacyPeriodLabels() Option {
	return func(e *Extension) { e.config.LegacyPeriodLabels = true }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}

// WithGroveDatabase records the name of the grove.DB backing the injected
// store. Pass an empty string to refer to the default (unnamed) grove.DB.
func WithGroveDatabase(name string) Option {
	return func(e *Extension) {
		e.config.GroveDatabase = name
		e.useGrove = true
	}
}
