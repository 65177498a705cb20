package main

import (
	"context"
	"fmt"
	"io"

	"github.com/okian/logquest/internal/adapters/storage"
	service "github.com/okian/logquest/internal/app"
	"github.com/okian/logquest/internal/config"
	"github.com/okian/logquest/internal/domain/guard"
	"github.com/okian/logquest/pkg/logger"
)

// session is one CLI invocation's view of the profile.
type session struct {
	cfg   *config.Config
	store storage.Store
	svc   *service.Service
	log   logger.Logger
}

// openSession loads configuration, opens the configured backend and loads
// the profile from it. Durability warnings are written to warn.
func openSession(ctx context.Context, warn io.Writer) (*session, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store, err := storage.Open(ctx, storage.Options{
		Backend:     cfg.Backend,
		FilePath:    cfg.FilePath,
		SQLitePath:  cfg.SQLitePath,
		RedisAddr:   cfg.RedisAddr,
		RedisDB:     cfg.RedisDB,
		RedisPrefix: cfg.RedisPrefix,
	})
	if err != nil {
		return nil, err
	}

	svc := service.New(store,
		service.WithLogger(log.Named("profile")),
		service.WithGuard(guard.New(
			guard.WithLimit(cfg.StorageLimitBytes),
			guard.WithLogger(log.Named("guard")),
		)),
		service.WithDurabilityHook(func(ev service.DurabilityEvent) {
			fmt.Fprintf(warn, "warning: %s kept for this session only (%s)\n", ev.Key, ev.Reason)
		}),
	)
	if err := svc.Load(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	log.Debug(ctx, "session opened", logger.String("backend", cfg.Backend))
	return &session{cfg: cfg, store: store, svc: svc, log: log}, nil
}

func (s *session) Close(ctx context.Context) {
	if err := s.store.Close(); err != nil {
		s.log.Error(ctx, "failed to close storage", logger.Error(err))
	}
}
