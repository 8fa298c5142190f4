package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/maxviazov/lexico-users/internal/config"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connect opens a client for cfg.URI and verifies the primary answers a ping.
// Driver commands are traced through logger under component=mongo.
func Connect(ctx context.Context, cfg config.MongoConfig, logger zerolog.Logger) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMonitor(commandMonitor(logger))
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
	}
	if cfg.SocketTimeout > 0 {
		opts.SetSocketTimeout(cfg.SocketTimeout)
	}
	if cfg.ServerSelectionTimeout > 0 {
		opts.SetServerSelectionTimeout(cfg.ServerSelectionTimeout)
	}
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}
	if cfg.MinPoolSize > 0 {
		opts.SetMinPoolSize(cfg.MinPoolSize)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	logger.Info().
		Str("database", cfg.Database).
		Str("collection", cfg.Collection).
		Msg("Successfully connected to MongoDB")
	return client, nil
}

// commandMonitor mirrors the pgx tracelog adapter: command starts at trace,
// completions at debug, failures at warn.
func commandMonitor(logger zerolog.Logger) *event.CommandMonitor {
	l := logger.With().Str("component", "mongo").Logger()
	return &event.CommandMonitor{
		Started: func(_ context.Context, e *event.CommandStartedEvent) {
			l.Trace().
				Str("command", e.CommandName).
				Str("db", e.DatabaseName).
				Int64("request_id", e.RequestID).
				Str("body", e.Command.String()).
				Msg("command started")
		},
		Succeeded: func(_ context.Context, e *event.CommandSucceededEvent) {
			l.Debug().
				Str("command", e.CommandName).
				Int64("request_id", e.RequestID).
				Dur("took", e.Duration).
				Msg("command succeeded")
		},
		Failed: func(_ context.Context, e *event.CommandFailedEvent) {
			l.Warn().
				Str("command", e.CommandName).
				Int64("request_id", e.RequestID).
				Dur("took", e.Duration).
				Str("failure", e.Failure).
				Msg("command failed")
		},
	}
}
