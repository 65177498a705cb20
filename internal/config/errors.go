package config

import "errors"

// Config error kinds. Load wraps source and parse failures in ErrLoadConfig
// and Validate wraps rule violations in ErrInvalidConfig.
var (
	ErrInvalidConfig = errors.New("invalid logquest config")
	ErrLoadConfig    = errors.New("cannot load logquest config")
)
