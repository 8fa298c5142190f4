// Package rediscache puts a Redis read-through cache in front of any
// RecordRepository. Offset pages and single records are cached; a write bumps
// a generation counter that is part of every page key, so stale pages are
// never served and simply expire.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/maxviazov/lexico-users/internal/config"
	"github.com/maxviazov/lexico-users/internal/model"
	"github.com/maxviazov/lexico-users/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"
	"github.com/rs/zerolog"
)

// Open builds a client without contacting Redis; connections are made lazily.
func Open(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		MaintNotificationsConfig: &maintnotifications.Config{
			Mode: maintnotifications.ModeDisabled,
		},
	})
}

// NewClient connects to Redis and verifies it with a ping.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := Open(cfg)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

type cachedPage struct {
	Items []model.Record `json:"items"`
	Total int64          `json:"total"`
}

// Repository decorates a RecordRepository. Redis errors never fail a call:
// they are logged and the wrapped repository answers instead.
type Repository struct {
	next   repository.RecordRepository
	client redis.UniversalClient
	ttl    time.Duration
	prefix string
	log    zerolog.Logger
}

func New(next repository.RecordRepository, client redis.UniversalClient, ttl time.Duration, prefix string, logger zerolog.Logger) *Repository {
	return &Repository{
		next:   next,
		client: client,
		ttl:    ttl,
		prefix: prefix,
		log:    logger.With().Str("component", "rediscache").Logger(),
	}
}

func (r *Repository) genKey() string { return r.prefix + "records:gen" }

func (r *Repository) pageKey(gen int64, p repository.Page) string {
	return fmt.Sprintf("%srecords:page:%d:%d:%d", r.prefix, gen, p.Limit, p.Offset)
}

func (r *Repository) windowKey(gen int64, p repository.Page) string {
	return fmt.Sprintf("%srecords:window:%d:%d:%d", r.prefix, gen, p.Limit, p.Offset)
}

func (r *Repository) recordKey(key int64) string {
	return r.prefix + "records:key:" + strconv.FormatInt(key, 10)
}

func (r *Repository) Create(ctx context.Context, rec model.Record) (model.Record, error) {
	out, err := r.next.Create(ctx, rec)
	if err != nil {
		return out, err
	}
	if err := r.client.Incr(ctx, r.genKey()).Err(); err != nil {
		r.log.Warn().Err(err).Int64("key", rec.Key).Msg("page invalidation failed")
	}
	return out, nil
}

func (r *Repository) GetByKey(ctx context.Context, key int64) (model.Record, error) {
	var rec model.Record
	if r.load(ctx, r.recordKey(key), &rec) {
		return rec, nil
	}
	rec, err := r.next.GetByKey(ctx, key)
	if err != nil {
		return rec, err
	}
	r.store(ctx, r.recordKey(key), rec)
	return rec, nil
}

// generation returns the current write generation; ok is false when Redis cannot be read.
func (r *Repository) generation(ctx context.Context) (int64, bool) {
	gen, err := r.client.Get(ctx, r.genKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		r.log.Warn().Err(err).Msg("read generation failed, bypassing cache")
		return 0, false
	}
	return gen, true
}

func (r *Repository) List(ctx context.Context, p repository.Page) (repository.PageResult[model.Record], error) {
	p = p.Sanitized()
	gen, ok := r.generation(ctx)
	if !ok {
		return r.next.List(ctx, p)
	}

	key := r.pageKey(gen, p)
	var cached cachedPage
	if r.load(ctx, key, &cached) {
		return repository.PageResult[model.Record]{Items: cached.Items, Total: cached.Total}, nil
	}

	res, err := r.next.List(ctx, p)
	if err != nil {
		return res, err
	}
	r.store(ctx, key, cachedPage{Items: res.Items, Total: res.Total})
	return res, nil
}

func (r *Repository) ListWindow(ctx context.Context, p repository.Page) ([]model.Record, error) {
	p = p.Sanitized()
	gen, ok := r.generation(ctx)
	if !ok {
		return r.next.ListWindow(ctx, p)
	}

	key := r.windowKey(gen, p)
	var items []model.Record
	if r.load(ctx, key, &items) && items != nil {
		return items, nil
	}

	items, err := r.next.ListWindow(ctx, p)
	if err != nil {
		return nil, err
	}
	r.store(ctx, key, items)
	return items, nil
}

// ListAfter is served by the wrapped repository; keyset windows are too
// varied to be worth caching.
func (r *Repository) ListAfter(ctx context.Context, afterKey int64, limit int) ([]model.Record, error) {
	return r.next.ListAfter(ctx, afterKey, limit)
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	return r.next.Count(ctx)
}

func (r *Repository) load(ctx context.Context, key string, dst any) bool {
	data, err := r.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		r.log.Debug().Str("key", key).Msg("cache miss")
		return false
	case err != nil:
		r.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("cache entry corrupt")
		return false
	}
	r.log.Debug().Str("key", key).Msg("cache hit")
	return true
}

func (r *Repository) store(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("cache encode failed")
		return
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

type pinger struct{ client redis.UniversalClient }

// NewPinger reports cache health for readiness checks.
func NewPinger(client redis.UniversalClient) repository.Pinger { return pinger{client: client} }

func (p pinger) Ping(ctx context.Context) error { return p.client.Ping(ctx).Err() }

var _ repository.RecordRepository = (*Repository)(nil)
