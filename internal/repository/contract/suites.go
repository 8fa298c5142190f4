// Package contract holds backend-agnostic test suites. Each backend wires its
// own factory into these so every store is held to the same behavior.
package contract

import (
	"context"
	"fmt"
	"testing"

	"github.com/maxviazov/lexico-users/internal/model"
	"github.com/maxviazov/lexico-users/internal/repository"
)

// RecordFactory returns an empty repository and a cleanup func.
type RecordFactory func(t *testing.T) (repository.RecordRepository, func())

type PingerFactory func(t *testing.T) (repository.Pinger, func())

// Seed stores records with keys 1..n.
func Seed(t *testing.T, repo repository.RecordRepository, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 1; i <= n; i++ {
		if _, err := repo.Create(ctx, sampleRecord(int64(i))); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}
}

func sampleRecord(key int64) model.Record {
	return model.Record{
		Key:   key,
		Name:  fmt.Sprintf("User %d", key),
		Phone: fmt.Sprintf("961%07d", key),
		Email: fmt.Sprintf("user%d@example.com", key),
	}
}

func keysOf(items []model.Record) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.Key
	}
	return out
}

func RunRecordRepositoryContract(t *testing.T, makeRepo RecordFactory) {
	t.Helper()

	t.Run("create_and_get", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		want := sampleRecord(7)
		if _, err := repo.Create(ctx, want); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		got, err := repo.GetByKey(ctx, 7)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got != want {
			t.Fatalf("mismatch: got %+v want %+v", got, want)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetByKey(context.Background(), 999999)
		if err != repository.ErrNotFound {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("create_duplicate_key_conflict", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		if _, err := repo.Create(ctx, sampleRecord(1)); err != nil {
			t.Fatalf("seed: %v", err)
		}
		_, err := repo.Create(ctx, sampleRecord(1))
		if err != repository.ErrAlreadyExists {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("list_empty_store", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		res, err := repo.List(context.Background(), repository.Page{Limit: 100, Offset: 0})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if res.Items == nil || len(res.Items) != 0 || res.Total != 0 {
			t.Fatalf("expected empty non-nil page, got items=%v total=%d", res.Items, res.Total)
		}
	})

	t.Run("list_sorted_regardless_of_insert_order", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		for _, k := range []int64{5, 2, 9, 1, 7} {
			if _, err := repo.Create(ctx, sampleRecord(k)); err != nil {
				t.Fatalf("seed %d: %v", k, err)
			}
		}
		res, err := repo.List(ctx, repository.Page{Limit: 10})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if got := fmt.Sprint(keysOf(res.Items)); got != "[1 2 5 7 9]" {
			t.Fatalf("unexpected order: %s", got)
		}
	})

	t.Run("list_last_partial_page", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		Seed(t, repo, 250)
		page, _ := repository.PageFor(3, 100)
		res, err := repo.List(context.Background(), page)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(res.Items) != 50 || res.Total != 250 {
			t.Fatalf("unexpected page: len=%d total=%d", len(res.Items), res.Total)
		}
		for i, it := range res.Items {
			if it.Key != int64(201+i) {
				t.Fatalf("item %d: expected key %d, got %d", i, 201+i, it.Key)
			}
		}
	})

	t.Run("list_offset_past_end", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		Seed(t, repo, 10)
		res, err := repo.List(context.Background(), repository.Page{Limit: 5, Offset: 50})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(res.Items) != 0 || res.Total != 10 {
			t.Fatalf("unexpected page: len=%d total=%d", len(res.Items), res.Total)
		}
	})

	t.Run("consecutive_pages_disjoint", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		Seed(t, repo, 25)
		ctx := context.Background()
		p1, _ := repository.PageFor(1, 10)
		p2, _ := repository.PageFor(2, 10)
		first, err := repo.List(ctx, p1)
		if err != nil {
			t.Fatalf("page 1: %v", err)
		}
		second, err := repo.List(ctx, p2)
		if err != nil {
			t.Fatalf("page 2: %v", err)
		}
		joined := append(keysOf(first.Items), keysOf(second.Items)...)
		if len(joined) != 20 {
			t.Fatalf("expected 20 keys, got %d", len(joined))
		}
		for i, k := range joined {
			if k != int64(i+1) {
				t.Fatalf("position %d: expected key %d, got %d", i, i+1, k)
			}
		}
	})

	t.Run("list_window_matches_list_items", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		Seed(t, repo, 250)
		ctx := context.Background()
		page, _ := repository.PageFor(3, 100)
		items, err := repo.ListWindow(ctx, page)
		if err != nil {
			t.Fatalf("list window: %v", err)
		}
		if len(items) != 50 || items[0].Key != 201 || items[49].Key != 250 {
			t.Fatalf("unexpected window: len=%d keys=%v", len(items), keysOf(items))
		}
		res, err := repo.List(ctx, page)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if fmt.Sprint(keysOf(res.Items)) != fmt.Sprint(keysOf(items)) {
			t.Fatalf("window and list disagree")
		}
	})

	t.Run("list_window_empty_and_past_end", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		items, err := repo.ListWindow(ctx, repository.Page{Limit: 100})
		if err != nil {
			t.Fatalf("list window: %v", err)
		}
		if items == nil || len(items) != 0 {
			t.Fatalf("expected empty non-nil slice, got %v", items)
		}
		Seed(t, repo, 5)
		far, _ := repository.PageFor(1<<58+1, 64)
		items, err = repo.ListWindow(ctx, far)
		if err != nil {
			t.Fatalf("list window past end: %v", err)
		}
		if len(items) != 0 {
			t.Fatalf("expected empty window past end, got %v", keysOf(items))
		}
	})

	t.Run("list_after_key", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		Seed(t, repo, 12)
		ctx := context.Background()
		items, err := repo.ListAfter(ctx, 8, 10)
		if err != nil {
			t.Fatalf("list after: %v", err)
		}
		if got := fmt.Sprint(keysOf(items)); got != "[9 10 11 12]" {
			t.Fatalf("unexpected keys: %s", got)
		}
		none, err := repo.ListAfter(ctx, 12, 10)
		if err != nil {
			t.Fatalf("list after end: %v", err)
		}
		if none == nil || len(none) != 0 {
			t.Fatalf("expected empty non-nil slice, got %v", none)
		}
	})

	t.Run("count", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		Seed(t, repo, 3)
		n, err := repo.Count(context.Background())
		if err != nil {
			t.Fatalf("count: %v", err)
		}
		if n != 3 {
			t.Fatalf("expected 3, got %d", n)
		}
	})
}

func RunPingerContract(t *testing.T, makePinger PingerFactory) {
	t.Helper()
	t.Run("ping_ok", func(t *testing.T) {
		p, cleanup := makePinger(t)
		t.Cleanup(cleanup)
		if err := p.Ping(context.Background()); err != nil {
			t.Fatalf("ping failed: %v", err)
		}
	})
}
