// Package extension provides the Forge extension adapter for the room
// ledger.
//
// It implements the forge.Extension interface to integrate the ledger
// into a Forge application with automatic dependency discovery,
// DI registration, and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.roomledger" or
// "roomledger" keys.
package extension

import (
	"context"
	"errors"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	roomledger "github.com/xraph/roomledger"
	"github.com/xraph/roomledger/store"
	"github.com/xraph/roomledger/store/memory"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "roomledger"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Per-room utility billing engine"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts the room ledger as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config     Config
	engine     *roomledger.Ledger
	store      store.Store
	ledgerOpts []roomledger.Option
	useGrove   bool
}

// New creates a new room ledger Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying Ledger instance.
// This is nil until Register is called.
func (e *Extension) Engine() *roomledger.Ledger { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// initializes the ledger engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	// Use memory store if no store was provided programmatically.
	if e.store == nil {
		if e.useGrove {
			e.Logger().Warn("roomledger: grove database configured but no store injected, falling back to memory store",
				forge.F("grove_database", e.config.GroveDatabase),
			)
		}
		e.store = memory.New()
	}

	// Build ledger options from resolved config.
	opts := e.buildLedgerOpts()

	eng := roomledger.New(e.store, opts...)
	e.engine = eng

	return vessel.Provide(fapp.Container(), func() (*roomledger.Ledger, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("roomledger: extension not initialized")
	}

	if !e.config.DisableMigrate {
		if err := e.engine.Start(ctx); err != nil {
			return err
		}
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("roomledger: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildLedgerOpts constructs roomledger.Option values from the resolved config.
func (e *Extension) buildLedgerOpts() []roomledger.Option {
	opts := make([]roomledger.Option, 0, len(e.ledgerOpts)+2)

	if e.config.PostCommitPolicy != "" {
		opts = append(opts, roomledger.WithPostCommitPolicy(
			roomledger.PostCommitPolicy(e.config.PostCommitPolicy),
		))
	}
	if e.config.LegacyPeriodLabels {
		opts = append(opts, roomledger.WithLegacyPeriodLabels())
	}

	// Append any pass-through ledger options.
	opts = append(opts, e.ledgerOpts...)

	return opts
}

// --- Config Loading (mirrors grove/shield extension pattern) ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	// Try loading from config file.
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("roomledger: configuration is required but not found in config files; " +
				"ensure 'extensions.roomledger' or 'roomledger' key exists in your config")
		}

		// Use programmatic config merged with defaults.
		e.config = e.mergeWithDefaults(programmaticConfig)
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = e.mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("roomledger: configuration loaded",
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("post_commit_policy", e.config.PostCommitPolicy),
		forge.F("legacy_period_labels", e.config.LegacyPeriodLabels),
		forge.F("grove_database", e.config.GroveDatabase),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	// Try "extensions.roomledger" first (namespaced pattern).
	if cm.IsSet("extensions.roomledger") {
		if err := cm.Bind("extensions.roomledger", &cfg); err == nil {
			e.Logger().Debug("roomledger: loaded config from file",
				forge.F("key", "extensions.roomledger"),
			)
			return cfg, true
		}
		e.Logger().Warn("roomledger: failed to bind extensions.roomledger config",
			forge.F("error", "bind failed"),
		)
	}

	// Try legacy "roomledger" key.
	if cm.IsSet("roomledger") {
		if err := cm.Bind("roomledger", &cfg); err == nil {
			e.Logger().Debug("roomledger: loaded config from file",
				forge.F("key", "roomledger"),
			)
			return cfg, true
		}
		e.Logger().Warn("roomledger: failed to bind roomledger config",
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func (e *Extension) mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.PostCommitPolicy == "" {
		cfg.PostCommitPolicy = defaults.PostCommitPolicy
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic bool flags fill gaps.
func (e *Extension) mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	// Programmatic bool flags override when true.
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}
	if programmaticConfig.LegacyPeriodLabels {
		yamlConfig.LegacyPeriodLabels = true
	}

	// String fields: YAML takes precedence.
	if yamlConfig.PostCommitPolicy == "" && programmaticConfig.PostCommitPolicy != "" {
		yamlConfig.PostCommitPolicy = programmaticConfig.PostCommitPolicy
	}
	if yamlConfig.GroveDatabase == "" && programmaticConfig.GroveDatabase != "" {
		yamlConfig.GroveDatabase = programmaticConfig.GroveDatabase
	}

	// Fill remaining zeros with defaults.
	return e.mergeWithDefaults(yamlConfig)
}
