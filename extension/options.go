package extension

import (
	"time"

	"github.com/xraph/rentroll"
	"github.com/xraph/rentroll/plugin"
	"github.com/xraph/rentroll/store"
)

// Option configures the Rentroll Forge extension.
type Option func(*Extension)

// WithStore sets the store for the billing engine, bypassing the
// backend config.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithEngineOption passes a rentroll.Option through to the underlying engine.
func WithEngineOption(opt rentroll.Option) Option {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, opt)
	}
}

// WithPlugin registers a rentroll plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, rentroll.WithPlugin(p))
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

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}

// WithSQLite selects the sqlite backend with the given database file.
func WithSQLite(path string) Option {
	return func(e *Extension) {
		e.config.Backend = "sqlite"
		e.config.SQLitePath = path
	}
}

// WithMongo selects the mongo backend.
func WithMongo(uri, database string) Option {
	return func(e *Extension) {
		e.config.Backend = "mongo"
		e.config.MongoURI = uri
		e.config.MongoDatabase = database
	}
}

// WithPollInterval sets how often the scheduler checks for due jobs.
func WithPollInterval(d time.Duration) Option {
	return func(e *Extension) { e.config.PollInterval = d }
}

// WithManualScheduling disables the background poller.
func WithManualScheduling() Option {
	return func(e *Extension) { e.config.ManualScheduling = true }
}
