package driverstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biraj16/TPBK-V8/internal/models"
	"github.com/biraj16/TPBK-V8/internal/storage"
)

func TestMemoryStore_SeedsDefaults(t *testing.T) {
	s := NewMemoryStore(nil)

	cfg, err := s.GetConfig(context.Background())
	require.NoError(t, err)
	assert.Len(t, cfg, len(models.DriverListNames))

	list, err := s.GetList(context.Background(), models.ListReversalBullish)
	require.NoError(t, err)
	assert.NotEmpty(t, list)
}

func TestMemoryStore_PutAndGet(t *testing.T) {
	s := NewMemoryStore(nil)
	ctx := context.Background()

	updated := []models.Driver{
		{Name: models.DriverPatternAtSupport, Weight: 5, Enabled: true},
	}
	require.NoError(t, s.PutList(ctx, models.ListReversalBullish, updated))

	got, err := s.GetList(ctx, models.ListReversalBullish)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 5, got[0].Weight)
}

func TestMemoryStore_RejectsUnknownList(t *testing.T) {
	s := NewMemoryStore(nil)
	ctx := context.Background()

	_, err := s.GetList(ctx, "no_such_list")
	assert.ErrorIs(t, err, models.ErrInvalidDriverList)

	err = s.PutList(ctx, "no_such_list", nil)
	assert.ErrorIs(t, err, models.ErrInvalidDriverList)
}

func TestMemoryStore_RejectsInvalidDriver(t *testing.T) {
	s := NewMemoryStore(nil)
	err := s.PutList(context.Background(), models.ListTrendBullish, []models.Driver{
		{Name: "", Weight: 1, Enabled: true},
	})
	assert.ErrorIs(t, err, models.ErrInvalidDriverName)
}

func TestMemoryStore_CallersCannotMutateStoredLists(t *testing.T) {
	s := NewMemoryStore(nil)
	ctx := context.Background()

	list, err := s.GetList(ctx, models.ListReversalBullish)
	require.NoError(t, err)
	original := list[0].Weight
	list[0].Weight = 99

	again, err := s.GetList(ctx, models.ListReversalBullish)
	require.NoError(t, err)
	assert.Equal(t, original, again[0].Weight)
}

func TestRedisStore_FallsBackToDefaults(t *testing.T) {
	s, err := NewRedisStore(storage.NewMockRedisClient())
	require.NoError(t, err)

	list, err := s.GetList(context.Background(), models.ListTrendBearish)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultDriverConfig()[models.ListTrendBearish], list)
}

func TestRedisStore_PutOverridesDefaults(t *testing.T) {
	s, err := NewRedisStore(storage.NewMockRedisClient())
	require.NoError(t, err)
	ctx := context.Background()

	updated := []models.Driver{
		{Name: models.DriverPriceBelowVWAP, Weight: -3, Enabled: true},
	}
	require.NoError(t, s.PutList(ctx, models.ListTrendBearish, updated))

	got, err := s.GetList(ctx, models.ListTrendBearish)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	cfg, err := s.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, updated, cfg[models.ListTrendBearish])
	// Untouched lists still come from the defaults
	assert.NotEmpty(t, cfg[models.ListReversalBullish])
}

func TestRedisStore_RequiresClient(t *testing.T) {
	_, err := NewRedisStore(nil)
	assert.Error(t, err)
}
