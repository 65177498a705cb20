// Package guard checks values before they are written to durable storage.
package guard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/okian/logquest/pkg/logger"
	"github.com/okian/logquest/pkg/metrics"
)

// DefaultLimitBytes is the largest serialized value admitted (100 KiB).
const DefaultLimitBytes = 100 * 1024

// Option applies a configuration option to the Guard.
type Option func(*Guard)

// WithLimit sets the maximum serialized size in bytes.
func WithLimit(limit int) Option {
	return func(g *Guard) {
		if limit > 0 {
			g.limit = limit
		}
	}
}

// WithLogger sets the logger used for refusals.
func WithLogger(l logger.Logger) Option {
	return func(g *Guard) {
		if l != nil {
			g.logger = l
		}
	}
}

// Guard serializes a candidate value and refuses it when serialization fails
// or the result exceeds the size limit. It never mutates the value.
type Guard struct {
	limit  int
	logger logger.Logger
}

// New creates a Guard with the default 100 KiB limit.
func New(opts ...Option) *Guard {
	g := &Guard{limit: DefaultLimitBytes}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = logger.Named("guard")
	}
	return g
}

// Limit returns the configured limit in bytes.
func (g *Guard) Limit() int {
	return g.limit
}

// Admit returns the JSON encoding of value when it may be persisted under key.
// Refusals are logged and returned as ErrSerialize or ErrTooLarge.
func (g *Guard) Admit(ctx context.Context, key string, value any) ([]byte, error) {
	payload, err := encode(value)
	if err != nil {
		g.logger.Error(ctx, "error serializing storage data",
			logger.String("key", key),
			logger.Error(err),
		)
		metrics.RecordGuardRejection(Reason(ErrSerialize))
		return nil, fmt.Errorf("%w: %s: %w", ErrSerialize, key, err)
	}

	metrics.ObserveGuardPayload(len(payload))
	if len(payload) > g.limit {
		g.logger.Warn(ctx, "storage data exceeds size limit",
			logger.String("key", key),
			logger.Int("bytes", len(payload)),
			logger.Int("limit", g.limit),
		)
		metrics.RecordGuardRejection(Reason(ErrTooLarge))
		return nil, &SizeError{Key: key, Bytes: len(payload), Limit: g.limit}
	}
	return payload, nil
}

// encode marshals like a browser JSON.stringify: no HTML escaping and no
// trailing newline, so sizes match the stored text.
func encode(value any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
