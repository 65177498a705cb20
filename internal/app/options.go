package service

import (
	"time"

	"github.com/okian/logquest/internal/domain/guard"
	"github.com/okian/logquest/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithGuard replaces the storage guard, e.g. to change the size limit.
func WithGuard(g *guard.Guard) Option {
	return func(s *Service) {
		if g != nil {
			s.guard = g
		}
	}
}

// WithClock sets the time source used for completedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithDurabilityHook registers fn to receive every DurabilityEvent. fn runs
// after the service lock is released, so it may call back into the service.
func WithDurabilityHook(fn func(DurabilityEvent)) Option {
	return func(s *Service) {
		s.onDurability = fn
	}
}
