package storage

import (
	"context"
	"fmt"
	"strings"
)

// Options selects and configures a backend for Open.
type Options struct {
	Backend     string
	FilePath    string
	SQLitePath  string
	RedisAddr   string
	RedisDB     int
	RedisPrefix string
}

// Open builds the backend named by opts.Backend, wrapped so every call is
// counted in the storage metrics.
func Open(ctx context.Context, opts Options) (Store, error) {
	backend := strings.ToLower(strings.TrimSpace(opts.Backend))
	var (
		s   Store
		err error
	)
	switch backend {
	case BackendMemory:
		s = NewMemoryStore()
	case BackendFile:
		s, err = OpenFile(opts.FilePath)
	case BackendSQLite:
		s, err = OpenSQLite(opts.SQLitePath)
	case BackendRedis:
		s, err = OpenRedis(ctx, opts.RedisAddr, opts.RedisDB, opts.RedisPrefix)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", backend, err)
	}
	return Instrument(backend, s), nil
}
