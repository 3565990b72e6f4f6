package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go"
)

// Config controls how the storage backend is opened.
type Config struct {
	Driver string
	DSN    string
	// Path is the JSON file used by the "file" driver.
	Path string
	// ConnectAttempts and ConnectDelay bound the initial ping of database backends.
	ConnectAttempts uint
	ConnectDelay    time.Duration
}

type migrator interface {
	Migrate(ctx context.Context) error
}

// Open constructs a Storage based on the given configuration.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (Storage, error) {
	if logger == nil {
		logger = slog.Default()
	}
	drv := cfg.Driver
	if drv == "" {
		drv = "file"
	}
	log := logger.With("component", "storage", "driver", drv)

	var (
		st  Storage
		err error
	)
	switch drv {
	case "memory":
		log.Info("storage: using in-memory backend")
		return NewMemory(), nil

	case "file":
		fs := NewFile(cfg.Path, logger)
		log.Info("storage: using json file backend", "path", fs.Path())
		return fs, nil

	case "sqlite", "postgres":
		log.Info("storage: using gorm backend")
		st, err = NewGormStorage(drv, cfg.DSN)

	case "postgrespool":
		log.Info("storage: using pgx pool backend")
		st, err = OpenPostgresPool(ctx, cfg.DSN)

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", drv)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", drv, err)
	}

	if err := waitReady(ctx, st, cfg, log); err != nil {
		st.Close()
		return nil, fmt.Errorf("storage ping: %w", err)
	}

	if m, ok := st.(migrator); ok {
		if err := m.Migrate(ctx); err != nil {
			st.Close()
			return nil, fmt.Errorf("storage migrate: %w", err)
		}
	}
	return st, nil
}

func waitReady(ctx context.Context, st Storage, cfg Config, log *slog.Logger) error {
	attempts := cfg.ConnectAttempts
	if attempts == 0 {
		attempts = 1
	}
	delay := cfg.ConnectDelay
	if delay <= 0 {
		delay = time.Second
	}

	return retry.Do(
		func() error { return st.Ping(ctx) },
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn("storage not ready, retrying", "attempt", n+1, "error", err)
		}),
	)
}
