package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"retailreports/internal/storage"
	"retailreports/pkg/contracts"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	store     storage.Store
	history   HistoryRecorder
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual dependency health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a health service. history may be nil.
func NewHealthService(version string, store storage.Store, history HistoryRecorder, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	return &HealthService{
		version:   version,
		store:     store,
		history:   history,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck reports liveness plus the state of storage and the ledger.
// Status is "ok" only when every dependency is ready.
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime_seconds": time.Since(hs.startTime).Seconds(),
			"go_version":     runtime.Version(),
			"goroutines":     runtime.NumGoroutine(),
			"git_commit":     contracts.GitCommit,
			"build_time":     contracts.BuildTime,
			"api_version":    contracts.APIVersion,
		},
		Services: map[string]ServiceHealth{
			"storage": hs.checkStorage(ctx),
			"history": hs.checkHistory(ctx),
		},
	}

	for name, svc := range status.Services {
		if svc.Status == "error" {
			status.Status = "degraded"
			hs.logger.WarnContext(ctx, "dependency unhealthy",
				slog.String("service", name),
				slog.String("message", svc.Message))
		}
	}

	return status
}

func (hs *HealthService) checkStorage(ctx context.Context) ServiceHealth {
	if hs.store == nil {
		return ServiceHealth{Status: "error", Message: "storage not configured"}
	}
	if _, err := hs.store.List(ctx); err != nil {
		return ServiceHealth{Status: "error", Message: err.Error()}
	}
	return ServiceHealth{Status: "ready"}
}

func (hs *HealthService) checkHistory(ctx context.Context) ServiceHealth {
	if hs.history == nil {
		return ServiceHealth{Status: "disabled"}
	}
	if _, err := hs.history.Recent(ctx, 1); err != nil {
		return ServiceHealth{Status: "error", Message: err.Error()}
	}
	return ServiceHealth{Status: "ready"}
}
