// Package reader fetches pages of user records sorted by key. Each call is a
// single query against the store; failures are returned as-is, never retried.
package reader

import (
	"context"
	"fmt"
	"time"

	"github.com/maxviazov/lexico-users/internal/model"
	"github.com/maxviazov/lexico-users/internal/repository"
	"github.com/rs/zerolog"
)

// Reader runs paging queries against a RecordRepository.
type Reader struct {
	repo repository.RecordRepository
	log  zerolog.Logger
}

// New builds a Reader that logs under the reader component.
func New(repo repository.RecordRepository, logger zerolog.Logger) *Reader {
	return &Reader{repo: repo, log: logger.With().Str("component", "reader").Logger()}
}

// FetchPage returns the 1-based page of at most pageSize records, ascending by
// key. A page past the end is empty, not an error. It issues exactly one query.
func (r *Reader) FetchPage(ctx context.Context, page, pageSize int) ([]model.Record, error) {
	p, err := repository.PageFor(page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("page=%d size=%d: %w", page, pageSize, err)
	}

	start := time.Now()
	items, err := r.repo.ListWindow(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("list page %d: %w", page, err)
	}
	r.log.Debug().
		Int("page", page).
		Int("page_size", pageSize).
		Int("returned", len(items)).
		Dur("took", time.Since(start)).
		Msg("page fetched")
	return items, nil
}

// FetchPageInfo is FetchPage plus the navigation summary built from the store's total.
func (r *Reader) FetchPageInfo(ctx context.Context, page, pageSize int) ([]model.Record, model.PageInfo, error) {
	p, err := repository.PageFor(page, pageSize)
	if err != nil {
		return nil, model.PageInfo{}, fmt.Errorf("page=%d size=%d: %w", page, pageSize, err)
	}

	start := time.Now()
	res, err := r.repo.List(ctx, p)
	if err != nil {
		return nil, model.PageInfo{}, fmt.Errorf("list page %d: %w", page, err)
	}
	r.log.Debug().
		Int("page", page).
		Int("page_size", pageSize).
		Int("returned", len(res.Items)).
		Int64("total", res.Total).
		Dur("took", time.Since(start)).
		Msg("page fetched with total")
	return res.Items, model.NewPageInfo(res.Total, page, pageSize), nil
}

// FetchAfter returns up to limit records whose key is greater than afterKey.
func (r *Reader) FetchAfter(ctx context.Context, afterKey int64, limit int) ([]model.Record, error) {
	if limit < 1 || afterKey < 0 {
		return nil, fmt.Errorf("after=%d limit=%d: %w", afterKey, limit, repository.ErrInvalidPage)
	}
	items, err := r.repo.ListAfter(ctx, afterKey, limit)
	if err != nil {
		return nil, fmt.Errorf("list after key %d: %w", afterKey, err)
	}
	return items, nil
}
