package service_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/lexico-users/internal/model"
	"github.com/maxviazov/lexico-users/internal/repository"
	"github.com/maxviazov/lexico-users/internal/repository/contract"
	"github.com/maxviazov/lexico-users/internal/repository/memory"
	"github.com/maxviazov/lexico-users/internal/service"
)

func validRecord(key int64) model.Record {
	return model.Record{Key: key, Name: "Pedro Gómez", Phone: "9613214782", Email: "pedro@gmail.com"}
}

func newSvc(t *testing.T) (service.RecordService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return service.NewRecordService(store, zerolog.New(io.Discard)), store
}

func hasField(err error, field string) bool {
	for _, f := range service.FieldErrors(err) {
		if f.Field == field {
			return true
		}
	}
	return false
}

func TestRecordService_CreateRecord_Validation(t *testing.T) {
	svc, _ := newSvc(t)

	cases := []struct {
		name      string
		mutate    func(*model.Record)
		wantField string
	}{
		{"zero key", func(r *model.Record) { r.Key = 0 }, "Clave_Cliente"},
		{"negative key", func(r *model.Record) { r.Key = -4 }, "Clave_Cliente"},
		{"empty name", func(r *model.Record) { r.Name = "" }, "Nombre"},
		{"blank name", func(r *model.Record) { r.Name = "   " }, "Nombre"},
		{"one letter name", func(r *model.Record) { r.Name = " A " }, "Nombre"},
		{"name over 100 runes", func(r *model.Record) { r.Name = strings.Repeat("a", 101) }, "Nombre"},
		{"two rune name", func(r *model.Record) { r.Name = "Ñu" }, ""},
		{"100 accented runes", func(r *model.Record) { r.Name = strings.Repeat("é", 100) }, ""},
		{"empty phone", func(r *model.Record) { r.Phone = "" }, "Celular"},
		{"bad email", func(r *model.Record) { r.Email = "not-an-email" }, "Email"},
		{"ok", func(r *model.Record) {}, ""},
	}

	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := validRecord(int64(i + 1))
			tc.mutate(&rec)
			_, err := svc.CreateRecord(context.Background(), rec)
			if tc.wantField == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, service.ErrInvalidInput)
			assert.True(t, hasField(err, tc.wantField), "expected field error for %s, got %+v", tc.wantField, service.FieldErrors(err))
		})
	}
}

func TestRecordService_CreateRecord_TrimsAndStores(t *testing.T) {
	svc, store := newSvc(t)
	rec := validRecord(3)
	rec.Name = "  Ana Ruiz "
	_, err := svc.CreateRecord(context.Background(), rec)
	require.NoError(t, err)

	got, err := store.GetByKey(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Ana Ruiz", got.Name)
}

func TestRecordService_CreateRecord_DuplicatePropagates(t *testing.T) {
	svc, _ := newSvc(t)
	_, err := svc.CreateRecord(context.Background(), validRecord(1))
	require.NoError(t, err)
	_, err = svc.CreateRecord(context.Background(), validRecord(1))
	assert.True(t, errors.Is(err, repository.ErrAlreadyExists), "got %v", err)
}

func TestRecordService_GetRecord(t *testing.T) {
	svc, store := newSvc(t)
	contract.Seed(t, store, 2)

	_, err := svc.GetRecord(context.Background(), 0)
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = svc.GetRecord(context.Background(), 99)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	got, err := svc.GetRecord(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Key)
}

func TestRecordService_ListPage(t *testing.T) {
	svc, store := newSvc(t)
	contract.Seed(t, store, 250)

	items, info, err := svc.ListPage(context.Background(), 3, 100)
	require.NoError(t, err)
	assert.Len(t, items, 50)
	assert.Equal(t, int64(201), items[0].Key)
	assert.Equal(t, int64(3), info.TotalPages)
	assert.False(t, info.HasNextPage)
}

func TestRecordService_ListPage_InvalidWindow(t *testing.T) {
	svc, _ := newSvc(t)
	cases := []struct {
		page, size int
		field      string
	}{
		{0, 100, "page"},
		{service.MaxPage + 1, 100, "page"},
		{1, 0, "limit"},
		{1, service.MaxPageSize + 1, "limit"},
	}
	for _, tc := range cases {
		_, _, err := svc.ListPage(context.Background(), tc.page, tc.size)
		require.ErrorIs(t, err, service.ErrInvalidInput)
		assert.True(t, hasField(err, tc.field))
	}
}

func TestRecordService_ListAfter(t *testing.T) {
	svc, store := newSvc(t)
	contract.Seed(t, store, 5)

	items, err := svc.ListAfter(context.Background(), 3, 10)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = svc.ListAfter(context.Background(), -1, 0)
	require.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Len(t, service.FieldErrors(err), 2)
}
