package usecase

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ekurt/clouddepo/internal/domain/entities"
	"github.com/ekurt/clouddepo/pkg/storage"
)

// CheckFunc probes one component.
type CheckFunc func(ctx context.Context) entities.CheckResult

// HealthUsecase aggregates component probes into one health report.
type HealthUsecase struct {
	checks    map[string]CheckFunc
	startTime time.Time
	version   string
}

// NewHealthUsecase creates a health usecase with no checks registered.
func NewHealthUsecase(version string) *HealthUsecase {
	return &HealthUsecase{
		checks:    make(map[string]CheckFunc),
		startTime: time.Now(),
		version:   version,
	}
}

// AddCheck registers a named component probe.
func (h *HealthUsecase) AddCheck(name string, check CheckFunc) {
	h.checks[name] = check
}

// GetHealth runs every registered check. The overall status is down as
// soon as any single component is down.
func (h *HealthUsecase) GetHealth(ctx context.Context) *entities.HealthCheck {
	results := make(map[string]entities.CheckResult, len(h.checks))
	status := entities.HealthStatusUp
	for name, check := range h.checks {
		result := check(ctx)
		results[name] = result
		if result.Status == entities.HealthStatusDown {
			status = entities.HealthStatusDown
		}
	}

	return &entities.HealthCheck{
		Status:    status,
		Version:   h.version,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Checks:    results,
	}
}

// GetReadiness reports whether the service can take traffic, which is
// the same condition as the aggregate health.
func (h *HealthUsecase) GetReadiness(ctx context.Context) bool {
	return h.GetHealth(ctx).Status == entities.HealthStatusUp
}

// DatabaseCheck probes the relational store with a ping.
func DatabaseCheck(db *sql.DB) CheckFunc {
	return func(ctx context.Context) entities.CheckResult {
		if err := db.PingContext(ctx); err != nil {
			return entities.CheckResult{
				Status:  entities.HealthStatusDown,
				Message: fmt.Sprintf("database unreachable: %v", err),
			}
		}
		return entities.CheckResult{Status: entities.HealthStatusUp}
	}
}

// BlobStoreCheck probes the blob store with a tiny write-delete round
// trip, proving the backend is reachable and writable.
func BlobStoreCheck(blobs storage.BlobStore) CheckFunc {
	return func(ctx context.Context) entities.CheckResult {
		handle, _, err := blobs.Put(bytes.NewReader([]byte("ok")), "healthcheck.tmp")
		if err != nil {
			return entities.CheckResult{
				Status:  entities.HealthStatusDown,
				Message: fmt.Sprintf("blob store not writable: %v", err),
			}
		}
		if err := blobs.Delete(handle); err != nil {
			return entities.CheckResult{
				Status:  entities.HealthStatusDown,
				Message: fmt.Sprintf("blob store not cleanable: %v", err),
			}
		}
		return entities.CheckResult{Status: entities.HealthStatusUp}
	}
}
