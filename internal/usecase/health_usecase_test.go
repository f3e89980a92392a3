package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekurt/clouddepo/internal/domain/entities"
	"github.com/ekurt/clouddepo/internal/usecase"
	"github.com/ekurt/clouddepo/pkg/storage"
)

func upCheck(context.Context) entities.CheckResult {
	return entities.CheckResult{Status: entities.HealthStatusUp}
}

func downCheck(context.Context) entities.CheckResult {
	return entities.CheckResult{Status: entities.HealthStatusDown, Message: "broken"}
}

func TestHealthAggregation(t *testing.T) {
	ctx := context.Background()

	t.Run("all components up", func(t *testing.T) {
		h := usecase.NewHealthUsecase("test")
		h.AddCheck("database", upCheck)
		h.AddCheck("storage", upCheck)

		report := h.GetHealth(ctx)
		assert.Equal(t, entities.HealthStatusUp, report.Status)
		assert.Equal(t, "test", report.Version)
		assert.Len(t, report.Checks, 2)
		assert.True(t, h.GetReadiness(ctx))
	})

	t.Run("one down component takes the service down", func(t *testing.T) {
		h := usecase.NewHealthUsecase("test")
		h.AddCheck("database", upCheck)
		h.AddCheck("storage", downCheck)

		report := h.GetHealth(ctx)
		assert.Equal(t, entities.HealthStatusDown, report.Status)
		assert.Equal(t, "broken", report.Checks["storage"].Message)
		assert.False(t, h.GetReadiness(ctx))
	})

	t.Run("no checks means up", func(t *testing.T) {
		h := usecase.NewHealthUsecase("test")
		assert.Equal(t, entities.HealthStatusUp, h.GetHealth(ctx).Status)
	})
}

func TestBlobStoreCheck(t *testing.T) {
	store, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	result := usecase.BlobStoreCheck(store)(context.Background())
	assert.Equal(t, entities.HealthStatusUp, result.Status)
}
