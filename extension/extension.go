// Package extension provides the Forge extension adapter for Rentroll.
//
// It implements the forge.Extension interface to integrate Rentroll
// into a Forge application with automatic dependency discovery,
// DI registration, and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.rentroll" or
// "rentroll" keys.
package extension

import (
	"context"
	"errors"
	"fmt"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	"github.com/xraph/rentroll"
	"github.com/xraph/rentroll/store"
	"github.com/xraph/rentroll/store/memory"
	mongostore "github.com/xraph/rentroll/store/mongo"
	sqlitestore "github.com/xraph/rentroll/store/sqlite"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "rentroll"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Recurring-billing engine for rental businesses"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts Rentroll as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config     Config
	engine     *rentroll.Engine
	store      store.Store
	engineOpts []rentroll.Option
}

// New creates a new Rentroll Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying Rentroll instance.
// This is nil until Register is called.
func (e *Extension) Engine() *rentroll.Engine { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// initializes the billing engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	// Build a store from config if none was provided programmatically.
	if e.store == nil {
		s, err := e.buildStore()
		if err != nil {
			return err
		}
		e.store = s
	}

	e.engine = rentroll.New(e.store, e.buildEngineOpts()...)

	return vessel.Provide(fapp.Container(), func() (*rentroll.Engine, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("rentroll: extension not initialized")
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
		return errors.New("rentroll: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildStore constructs the configured store backend.
func (e *Extension) buildStore() (store.Store, error) {
	switch e.config.Backend {
	case "", "memory":
		return memory.New(), nil
	case "sqlite":
		if e.config.SQLitePath == "" {
			return nil, errors.New("rentroll: sqlite backend requires sqlite_path")
		}
		return sqlitestore.Open(e.config.SQLitePath)
	case "mongo":
		if e.config.MongoURI == "" || e.config.MongoDatabase == "" {
			return nil, errors.New("rentroll: mongo backend requires mongo_uri and mongo_database")
		}
		return mongostore.Connect(context.Background(), e.config.MongoURI, e.config.MongoDatabase)
	default:
		return nil, fmt.Errorf("rentroll: unknown store backend %q", e.config.Backend)
	}
}

// buildEngineOpts constructs rentroll.Option values from the resolved config.
func (e *Extension) buildEngineOpts() []rentroll.Option {
	opts := make([]rentroll.Option, 0, len(e.engineOpts)+2)

	if e.config.PollInterval > 0 {
		opts = append(opts, rentroll.WithPollInterval(e.config.PollInterval))
	}
	if e.config.ManualScheduling {
		opts = append(opts, rentroll.WithManualScheduling())
	}

	// Append any pass-through engine options.
	opts = append(opts, e.engineOpts...)

	return opts
}

// --- Config Loading ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	// Try loading from config file.
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("rentroll: configuration is required but not found in config files; " +
				"ensure 'extensions.rentroll' or 'rentroll' key exists in your config")
		}

		// Use programmatic config merged with defaults.
		e.config = e.mergeWithDefaults(programmaticConfig)
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = e.mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("rentroll: configuration loaded",
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("backend", e.config.Backend),
		forge.F("poll_interval", e.config.PollInterval),
		forge.F("manual_scheduling", e.config.ManualScheduling),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	// Try "extensions.rentroll" first (namespaced pattern).
	if cm.IsSet("extensions.rentroll") {
		if err := cm.Bind("extensions.rentroll", &cfg); err == nil {
			e.Logger().Debug("rentroll: loaded config from file",
				forge.F("key", "extensions.rentroll"),
			)
			return cfg, true
		}
		e.Logger().Warn("rentroll: failed to bind extensions.rentroll config",
			forge.F("error", "bind failed"),
		)
	}

	// Try legacy "rentroll" key.
	if cm.IsSet("rentroll") {
		if err := cm.Bind("rentroll", &cfg); err == nil {
			e.Logger().Debug("rentroll: loaded config from file",
				forge.F("key", "rentroll"),
			)
			return cfg, true
		}
		e.Logger().Warn("rentroll: failed to bind rentroll config",
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func (e *Extension) mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.Backend == "" {
		cfg.Backend = defaults.Backend
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = defaults.PollInterval
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic flags fill gaps.
func (e *Extension) mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	// Programmatic bool flags override when true.
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}
	if programmaticConfig.ManualScheduling {
		yamlConfig.ManualScheduling = true
	}

	// String fields: YAML takes precedence.
	if yamlConfig.Backend == "" && programmaticConfig.Backend != "" {
		yamlConfig.Backend = programmaticConfig.Backend
	}
	if yamlConfig.SQLitePath == "" && programmaticConfig.SQLitePath != "" {
		yamlConfig.SQLitePath = programmaticConfig.SQLitePath
	}
	if yamlConfig.MongoURI == "" && programmaticConfig.MongoURI != "" {
		yamlConfig.MongoURI = programmaticConfig.MongoURI
	}
	if yamlConfig.MongoDatabase == "" && programmaticConfig.MongoDatabase != "" {
		yamlConfig.MongoDatabase = programmaticConfig.MongoDatabase
	}

	// Duration fields: YAML takes precedence, programmatic fills gaps.
	if yamlConfig.PollInterval == 0 && programmaticConfig.PollInterval != 0 {
		yamlConfig.PollInterval = programmaticConfig.PollInterval
	}

	// Fill remaining zeros with defaults.
	return e.mergeWithDefaults(yamlConfig)
}
