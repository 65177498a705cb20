// Package config defines logquest configuration and its loading.
//
// Conventions:
// - New returns defaults; Load layers a YAML file and environment on top.
// - Validation failures wrap ErrInvalidConfig; source failures wrap ErrLoadConfig.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Backend selects durable storage: memory, file, sqlite or redis.
	Backend string `koanf:"backend"`

	// FilePath is the JSON document used by the file backend.
	FilePath string `koanf:"file_path"`

	// SQLitePath is the database used by the sqlite backend.
	SQLitePath string `koanf:"sqlite_path"`

	// RedisAddr, RedisDB and RedisPrefix configure the redis backend.
	RedisAddr   string `koanf:"redis_addr"`
	RedisDB     int    `koanf:"redis_db"`
	RedisPrefix string `koanf:"redis_prefix"`

	// StorageLimitBytes caps the serialized size of a persisted value.
	StorageLimitBytes int `koanf:"storage_limit_bytes"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Backend:           "file",
		FilePath:          "logquest.json",
		SQLitePath:        "logquest.db",
		RedisAddr:         "localhost:6379",
		RedisDB:           0,
		RedisPrefix:       "logquest:",
		StorageLimitBytes: 100 * 1024,
	}
}
