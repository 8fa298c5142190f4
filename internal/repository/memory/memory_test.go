package memory_test

import (
	"context"
	"testing"

	"github.com/maxviazov/lexico-users/internal/model"
	"github.com/maxviazov/lexico-users/internal/repository"
	"github.com/maxviazov/lexico-users/internal/repository/contract"
	"github.com/maxviazov/lexico-users/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Contract(t *testing.T) {
	contract.RunRecordRepositoryContract(t, func(t *testing.T) (repository.RecordRepository, func()) {
		return memory.NewStore(), func() {}
	})
}

func TestStore_PingerContract(t *testing.T) {
	contract.RunPingerContract(t, func(t *testing.T) (repository.Pinger, func()) {
		return memory.NewStore(), func() {}
	})
}

func TestStore_ListReturnsCopies(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	_, err := s.Create(ctx, model.Record{Key: 1, Name: "Ana"})
	require.NoError(t, err)

	res, err := s.List(ctx, repository.Page{Limit: 10})
	require.NoError(t, err)
	res.Items[0].Name = "mutated"

	got, err := s.GetByKey(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
}

func TestStore_NonPositiveLimitUsesDefault(t *testing.T) {
	s := memory.NewStore()
	contract.Seed(t, s, repository.DefaultPageLimit+5)

	res, err := s.List(context.Background(), repository.Page{Limit: 0, Offset: -3})
	require.NoError(t, err)
	assert.Len(t, res.Items, repository.DefaultPageLimit)
	assert.Equal(t, int64(1), res.Items[0].Key)
}
