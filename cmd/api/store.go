package main

import (
	"context"
	"fmt"
	"log/slog"

	"surreality-auth/internal/accounts"
	"surreality-auth/internal/config"
	"surreality-auth/pkg/utils"
)

// openStore builds the privileged account store picked by SUPABASE_URL,
// optionally fronted by the Redis cache. The returned func releases every client.
func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (accounts.Store, func(), error) {
	kind, err := cfg.Auth.StoreKind()
	if err != nil {
		return nil, nil, err
	}

	var (
		store   accounts.Store
		closers []func() error
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
	}

	switch kind {
	case config.StorePostgres:
		db, err := utils.OpenPostgres(ctx, cfg.Auth.StoreURL, cfg.Auth.ServiceRoleKey, utils.PostgresPoolConfig{})
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, db.Close)
		store = accounts.NewPostgresStore(db)
	case config.StoreREST:
		rs, err := accounts.NewRESTStore(accounts.RESTConfig{
			BaseURL:        cfg.Auth.StoreURL,
			ServiceRoleKey: cfg.Auth.ServiceRoleKey,
			Timeout:        cfg.Accounts.Timeout,
		})
		if err != nil {
			return nil, nil, err
		}
		store = rs
	default:
		return nil, nil, fmt.Errorf("unsupported store kind %q", kind)
	}

	if cfg.CacheEnabled() {
		rdb, err := utils.OpenRedis(ctx, utils.RedisConfig{Addr: cfg.Redis.Addr})
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, rdb.Close)
		store = accounts.NewCachedStore(store, rdb, cfg.Redis.CacheTTL, log)
	}

	log.Info("account store ready", "kind", string(kind), "cache", cfg.CacheEnabled())
	return store, closeAll, nil
}
