package repository

import (
	"context"

	"github.com/maxviazov/lexico-users/internal/model"
)

// Pinger represents a minimal readiness probe capability.
// I use it to decouple health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RecordRepository declares persistence operations for user records.
// Every listing is ordered by ascending record key; no filter predicate applies.
// I return domain models and surface domain errors from errors.go rather than driver codes.
type RecordRepository interface {
	// Create stores r under its caller-assigned key. A taken key yields ErrAlreadyExists.
	Create(ctx context.Context, r model.Record) (model.Record, error)
	GetByKey(ctx context.Context, key int64) (model.Record, error)
	// List skips p.Offset records and returns at most p.Limit of the rest, plus the total.
	// Items is never nil, so an empty store lists as an empty page.
	List(ctx context.Context, p Page) (PageResult[model.Record], error)
	// ListWindow is List without the total: one query, never nil.
	ListWindow(ctx context.Context, p Page) ([]model.Record, error)
	// ListAfter is keyset pagination: records with key > afterKey, at most limit of them.
	ListAfter(ctx context.Context, afterKey int64, limit int) ([]model.Record, error)
	Count(ctx context.Context) (int64, error)
}
