package cli

import (
	"context"
	"fmt"

	"github.com/maxviazov/lexico-users/internal/config"
	"github.com/maxviazov/lexico-users/internal/repository"
	"github.com/maxviazov/lexico-users/internal/repository/memory"
	"github.com/maxviazov/lexico-users/internal/repository/mongodb"
	"github.com/maxviazov/lexico-users/internal/repository/postgres"
	"github.com/maxviazov/lexico-users/internal/repository/rediscache"
	"github.com/rs/zerolog"
)

// backend is an opened record store plus whatever must be released on exit.
type backend struct {
	repo    repository.RecordRepository
	store   repository.Pinger
	cache   repository.Pinger // nil without a page cache
	closers []func()
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// opener opens the configured backend. With prepare set it also applies
// schema (postgres migrations, mongo indexes); readers pass false and write nothing.
type opener func(ctx context.Context, cfg *config.Config, log zerolog.Logger, prepare bool) (*backend, error)

// openBackend connects the configured driver and, when enabled, puts the
// Redis page cache in front of it.
func openBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger, prepare bool) (*backend, error) {
	b := &backend{}

	switch cfg.Store.Driver {
	case "memory":
		store := memory.NewStore()
		b.repo, b.store = store, store

	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.Postgres, &log)
		if err != nil {
			return nil, fmt.Errorf("postgres connection failed: %w", err)
		}
		b.closers = append(b.closers, pool.Close)
		if prepare {
			if err := postgres.Migrate(ctx, pool, log); err != nil {
				b.Close()
				return nil, err
			}
		}
		b.repo, b.store = postgres.NewRecordRepository(pool), postgres.NewPinger(pool)

	default:
		client, err := mongodb.Connect(ctx, cfg.Mongo, log)
		if err != nil {
			return nil, fmt.Errorf("mongo connection failed: %w", err)
		}
		b.closers = append(b.closers, func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect failed")
			}
		})
		coll := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
		if prepare {
			if err := mongodb.EnsureIndexes(ctx, coll); err != nil {
				b.Close()
				return nil, fmt.Errorf("mongo indexes: %w", err)
			}
		}
		b.repo, b.store = mongodb.NewRecordRepository(coll), mongodb.NewPinger(client)
	}

	if cfg.Redis.Enabled {
		// A Redis that is down at startup is not fatal: the cache falls through
		// to the store and readiness reports it as degraded until it is back.
		client := rediscache.Open(cfg.Redis)
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, reads go to the store")
		}
		b.closers = append(b.closers, func() { _ = client.Close() })
		b.repo = rediscache.New(b.repo, client, cfg.Redis.TTL, cfg.Redis.KeyPrefix, log)
		b.cache = rediscache.NewPinger(client)
	}

	log.Info().Str("driver", cfg.Store.Driver).Bool("cache", cfg.Redis.Enabled).Bool("prepared", prepare).Msg("record store ready")
	return b, nil
}
