package health

import (
	"context"
	"fmt"
	"time"

	"amc-backend/internal/cache"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// Pinger is satisfied by *pgxpool.Pool and by the in-memory store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthChecker struct {
	db      Pinger
	storage string
	started time.Time
	redis   func() (configured, healthy bool)
}

type HealthStatus struct {
	Status   string         `json:"status"`
	Storage  string         `json:"storage"`
	Database DatabaseHealth `json:"database"`
	Cache    string         `json:"cache"`
}

type DatabaseHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

// DetailedStatus adds host figures for the monitoring dashboard.
type DetailedStatus struct {
	HealthStatus
	Uptime        string  `json:"uptime"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsed    string  `json:"memory_used"`
	MemoryTotal   string  `json:"memory_total"`
	DiskPercent   float64 `json:"disk_percent"`
	DiskUsed      string  `json:"disk_used"`
	DiskTotal     string  `json:"disk_total"`
}

func NewHealthChecker(db Pinger, storage string) *HealthChecker {
	return &HealthChecker{
		db:      db,
		storage: storage,
		started: time.Now(),
		redis: func() (bool, bool) {
			if cache.GetClient() == nil {
				return false, false
			}
			return true, cache.IsHealthy()
		},
	}
}

// CheckBasic is healthy when storage answers a ping. A missing cache is reported but
// not fatal: every cache helper degrades to a no-op.
func (h *HealthChecker) CheckBasic(ctx context.Context) HealthStatus {
	dbHealth := h.checkDatabase(ctx)

	status := "healthy"
	if dbHealth.Status != "healthy" {
		status = "unhealthy"
	}

	cacheStatus := "disabled"
	if configured, ok := h.redis(); configured {
		cacheStatus = "healthy"
		if !ok {
			cacheStatus = "unhealthy"
		}
	}

	return HealthStatus{
		Status:   status,
		Storage:  h.storage,
		Database: dbHealth,
		Cache:    cacheStatus,
	}
}

func (h *HealthChecker) CheckDetailed(ctx context.Context) DetailedStatus {
	d := DetailedStatus{
		HealthStatus: h.CheckBasic(ctx),
		Uptime:       time.Since(h.started).Truncate(time.Second).String(),
	}

	if cpuPercents, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(cpuPercents) > 0 {
		d.CPUPercent = cpuPercents[0]
	}
	if memStats, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		d.MemoryPercent = memStats.UsedPercent
		d.MemoryUsed = formatBytes(memStats.Used)
		d.MemoryTotal = formatBytes(memStats.Total)
	}
	if diskStats, err := disk.UsageWithContext(ctx, "/"); err == nil {
		d.DiskPercent = diskStats.UsedPercent
		d.DiskUsed = formatBytes(diskStats.Used)
		d.DiskTotal = formatBytes(diskStats.Total)
	}
	return d
}

func (h *HealthChecker) checkDatabase(ctx context.Context) DatabaseHealth {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return DatabaseHealth{
			Status:       "unhealthy",
			ResponseTime: responseTime,
		}
	}

	return DatabaseHealth{
		Status:       "healthy",
		ResponseTime: responseTime,
	}
}

func formatBytes(bytes uint64) string {
	gb := float64(bytes) / (1024 * 1024 * 1024)
	if gb < 1 {
		mb := float64(bytes) / (1024 * 1024)
		return fmt.Sprintf("%.1f MB", mb)
	}
	return fmt.Sprintf("%.1f GB", gb)
}
