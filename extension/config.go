package extension

import "time"

// Config holds the Rentroll extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.rentroll" or "rentroll" keys).
type Config struct {
	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// Backend selects the store driver: "memory", "sqlite" or "mongo"
	// (default: "memory"). Ignored when a store is provided via WithStore.
	Backend string `json:"backend" mapstructure:"backend" yaml:"backend"`

	// SQLitePath is the database file for the sqlite backend.
	SQLitePath string `json:"sqlite_path" mapstructure:"sqlite_path" yaml:"sqlite_path"`

	// MongoURI and MongoDatabase configure the mongo backend.
	MongoURI      string `json:"mongo_uri" mapstructure:"mongo_uri" yaml:"mongo_uri"`
	MongoDatabase string `json:"mongo_database" mapstructure:"mongo_database" yaml:"mongo_database"`

	// PollInterval is how often the scheduler checks for due jobs
	// (default: 1h).
	PollInterval time.Duration `json:"poll_interval" mapstructure:"poll_interval" yaml:"poll_interval"`

	// ManualScheduling disables the background poller; jobs only run via
	// Engine.RunNow or Engine.Tick.
	ManualScheduling bool `json:"manual_scheduling" mapstructure:"manual_scheduling" yaml:"manual_scheduling"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Backend:      "memory",
		PollInterval: time.Hour,
	}
}
