package reader_test

import (
	"context"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/maxviazov/lexico-users/internal/model"
	"github.com/maxviazov/lexico-users/internal/reader"
	"github.com/maxviazov/lexico-users/internal/repository"
	"github.com/maxviazov/lexico-users/internal/repository/contract"
	"github.com/maxviazov/lexico-users/internal/repository/memory"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(t *testing.T, n int) *reader.Reader {
	t.Helper()
	store := memory.NewStore()
	contract.Seed(t, store, n)
	return reader.New(store, zerolog.New(io.Discard))
}

func keys(items []model.Record) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.Key)
	}
	return out
}

func TestFetchPage_ThirdPageOf250(t *testing.T) {
	r := seeded(t, 250)
	items, err := r.FetchPage(context.Background(), 3, 100)
	require.NoError(t, err)
	require.Len(t, items, 50)
	assert.Equal(t, int64(201), items[0].Key)
	assert.Equal(t, int64(250), items[49].Key)
}

func TestFetchPage_EmptyStore(t *testing.T) {
	r := seeded(t, 0)
	items, err := r.FetchPage(context.Background(), 1, 100)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestFetchPage_LengthFormula(t *testing.T) {
	const total = 37
	r := seeded(t, total)
	cases := []struct{ page, size int }{
		{1, 10}, {4, 10}, {5, 10}, {1, 100}, {2, 37}, {37, 1}, {38, 1},
	}
	for _, tc := range cases {
		items, err := r.FetchPage(context.Background(), tc.page, tc.size)
		require.NoError(t, err)
		want := min(tc.size, max(0, total-(tc.page-1)*tc.size))
		assert.Len(t, items, want, "page=%d size=%d", tc.page, tc.size)
		for i := 1; i < len(items); i++ {
			assert.Less(t, items[i-1].Key, items[i].Key)
		}
	}
}

func TestFetchPage_ConsecutivePagesAreDisjointAndOrdered(t *testing.T) {
	r := seeded(t, 30)
	ctx := context.Background()
	first, err := r.FetchPage(ctx, 1, 12)
	require.NoError(t, err)
	second, err := r.FetchPage(ctx, 2, 12)
	require.NoError(t, err)

	joined := append(keys(first), keys(second)...)
	want := make([]int64, 24)
	for i := range want {
		want[i] = int64(i + 1)
	}
	assert.Equal(t, want, joined)
}

func TestFetchPage_InvalidWindow(t *testing.T) {
	r := seeded(t, 5)
	for _, tc := range []struct{ page, size int }{{0, 10}, {1, 0}, {-1, -1}} {
		_, err := r.FetchPage(context.Background(), tc.page, tc.size)
		assert.ErrorIs(t, err, repository.ErrInvalidPage)
	}
}

type failingRepo struct {
	repository.RecordRepository
	err error
}

func (f failingRepo) List(context.Context, repository.Page) (repository.PageResult[model.Record], error) {
	return repository.PageResult[model.Record]{}, f.err
}

func (f failingRepo) ListWindow(context.Context, repository.Page) ([]model.Record, error) {
	return nil, f.err
}

func TestFetchPage_StoreFailurePropagates(t *testing.T) {
	boom := errors.New("connection refused")
	r := reader.New(failingRepo{err: boom}, zerolog.New(io.Discard))
	items, err := r.FetchPage(context.Background(), 1, 100)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, items)
}

func TestFetchPage_HugePageIsEmptyNotWrapped(t *testing.T) {
	r := seeded(t, 5)
	ctx := context.Background()
	for _, tc := range []struct{ page, size int }{
		{1<<58 + 1, 64},
		{math.MaxInt64/100 + 2, 100},
		{math.MaxInt, 1 << 20},
		{math.MaxInt, 1},
	} {
		items, err := r.FetchPage(ctx, tc.page, tc.size)
		require.NoError(t, err, "page=%d size=%d", tc.page, tc.size)
		assert.Empty(t, keys(items), "page=%d size=%d", tc.page, tc.size)
	}
}

func TestFetchPageInfo_HugePageIsEmpty(t *testing.T) {
	r := seeded(t, 5)
	items, info, err := r.FetchPageInfo(context.Background(), 1<<58+1, 64)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, int64(5), info.TotalRecords)
	assert.False(t, info.HasNextPage)
}

// countingRepo records which store calls a read made.
type countingRepo struct {
	repository.RecordRepository
	calls []string
}

func (c *countingRepo) List(ctx context.Context, p repository.Page) (repository.PageResult[model.Record], error) {
	c.calls = append(c.calls, "List")
	return c.RecordRepository.List(ctx, p)
}

func (c *countingRepo) ListWindow(ctx context.Context, p repository.Page) ([]model.Record, error) {
	c.calls = append(c.calls, "ListWindow")
	return c.RecordRepository.ListWindow(ctx, p)
}

func (c *countingRepo) Count(ctx context.Context) (int64, error) {
	c.calls = append(c.calls, "Count")
	return c.RecordRepository.Count(ctx)
}

func TestFetchPage_IssuesOneQueryWithoutCount(t *testing.T) {
	store := memory.NewStore()
	contract.Seed(t, store, 20)
	repo := &countingRepo{RecordRepository: store}
	r := reader.New(repo, zerolog.New(io.Discard))

	items, err := r.FetchPage(context.Background(), 2, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(11), items[0].Key)
	assert.Equal(t, []string{"ListWindow"}, repo.calls)
}

// countFails serves windows but cannot count.
type countFails struct {
	repository.RecordRepository
}

func (countFails) List(context.Context, repository.Page) (repository.PageResult[model.Record], error) {
	return repository.PageResult[model.Record]{}, errors.New("count failed")
}

func TestFetchPage_DoesNotDependOnCount(t *testing.T) {
	store := memory.NewStore()
	contract.Seed(t, store, 3)
	r := reader.New(countFails{RecordRepository: store}, zerolog.New(io.Discard))

	items, err := r.FetchPage(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, keys(items))
}

func TestFetchPageInfo(t *testing.T) {
	r := seeded(t, 250)
	items, info, err := r.FetchPageInfo(context.Background(), 2, 100)
	require.NoError(t, err)
	assert.Len(t, items, 100)
	assert.Equal(t, model.PageInfo{
		TotalRecords: 250,
		TotalPages:   3,
		CurrentPage:  2,
		PageSize:     100,
		HasNextPage:  true,
		HasPrevPage:  true,
	}, info)
}

func TestFetchAfter(t *testing.T) {
	r := seeded(t, 10)
	items, err := r.FetchAfter(context.Background(), 7, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{8, 9, 10}, keys(items))

	_, err = r.FetchAfter(context.Background(), 0, 0)
	assert.ErrorIs(t, err, repository.ErrInvalidPage)
}
