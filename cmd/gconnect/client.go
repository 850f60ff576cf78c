package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/garrettladley/gconnect/internal/config"
	"github.com/garrettladley/gconnect/internal/credstore"
	"github.com/garrettladley/gconnect/internal/garmin"
	"github.com/garrettladley/gconnect/internal/paths"
	"github.com/garrettladley/gconnect/internal/xslog"
)

// newClient wires a Garmin client from the environment: token store
// backend, account credentials, and an interactive MFA prompt. The returned
// cleanup closes the store's backing connection, if any.
func newClient(ctx context.Context) (*garmin.Client, func(), error) {
	cfg, err := config.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config: %w", err)
	}

	store, cleanup, err := newStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	c := garmin.New(store, cfg.Email, cfg.Password,
		garmin.WithDomain(cfg.Domain),
		garmin.WithTimeout(cfg.HTTPTimeout),
		garmin.WithLogger(xslog.FromContext(ctx)),
		garmin.WithMFAPrompt(promptMFA),
	)
	return c, cleanup, nil
}

// openStore opens the configured token store without building a client,
// for commands that inspect stored credentials directly.
func openStore(ctx context.Context) (config.Config, credstore.Store, func(), error) {
	cfg, err := config.Read()
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("failed to read config: %w", err)
	}

	store, cleanup, err := newStore(ctx, cfg)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	return cfg, store, cleanup, nil
}

// storeDir resolves the token store directory: the configured path with a
// leading ~ expanded, or the ~/.garminconnect default.
func storeDir(cfg config.Config) (string, error) {
	if cfg.TokenStore == "" {
		return paths.TokenStore()
	}
	return paths.Expand(cfg.TokenStore)
}

func newStore(ctx context.Context, cfg config.Config) (credstore.Store, func(), error) {
	noop := func() {}

	switch cfg.TokenStoreBackend {
	case config.BackendFile:
		dir, err := storeDir(cfg)
		if err != nil {
			return nil, nil, err
		}
		store, err := credstore.NewFileStore(dir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open token store: %w", err)
		}
		return store, noop, nil

	case config.BackendSQLite:
		dir, err := storeDir(cfg)
		if err != nil {
			return nil, nil, err
		}
		store, err := credstore.OpenSQLite(ctx, filepath.Join(dir, "tokens.db"))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open token store: %w", err)
		}
		return store, func() { _ = store.Close() }, nil

	case config.BackendRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse GARMIN_REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		return credstore.NewRedisStore(client), func() { _ = client.Close() }, nil

	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		store, err := credstore.NewPostgresStore(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to open token store: %w", err)
		}
		return store, pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown token store backend %q", cfg.TokenStoreBackend)
	}
}

// login establishes a session, restoring stored tokens when possible.
func login(ctx context.Context, c *garmin.Client) error {
	if err := c.Login(ctx); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	return nil
}

func promptMFA(_ context.Context) (string, error) {
	fmt.Print("MFA code: ")
	code, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read MFA code: %w", err)
	}
	return strings.TrimSpace(code), nil
}
