package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

const gb = 1024 * 1024 * 1024

// healthHandler reports database status alongside host metrics. It always
// answers 200; a down database shows up in the "database" section.
func (s *Server) healthHandler(c echo.Context) error {
	// 1. Database
	dbStats := map[string]string{"status": "not configured"}
	if s.db != nil {
		dbStats = s.db.Health()
	}

	resp := map[string]any{
		"status":   "online",
		"database": dbStats,
		"cache": map[string]string{
			"backend": s.cacheBackend,
			"ttl":     s.cacheTTL.String(),
		},
		"runtime": map[string]any{
			"uptime":     time.Since(s.startTime).Round(time.Second).String(),
			"start_time": s.startTime.Format(time.RFC3339),
		},
	}

	// 2. Host info
	if hInfo, err := host.Info(); err == nil {
		runtime := resp["runtime"].(map[string]any)
		runtime["os"] = hInfo.OS
		runtime["platform"] = hInfo.Platform
		runtime["arch"] = hInfo.KernelArch
		runtime["hostname"] = hInfo.Hostname
	}

	// 3. CPU, sampled since the previous call
	if cpuPercent, err := cpu.Percent(0, false); err == nil && len(cpuPercent) > 0 {
		resp["cpu"] = map[string]any{
			"usage_percent": fmt.Sprintf("%.2f%%", cpuPercent[0]),
		}
	}

	// 4. Memory
	if v, err := mem.VirtualMemory(); err == nil {
		resp["memory"] = map[string]any{
			"total_gb":     fmt.Sprintf("%.2f GB", float64(v.Total)/gb),
			"used_gb":      fmt.Sprintf("%.2f GB", float64(v.Used)/gb),
			"used_percent": fmt.Sprintf("%.2f%%", v.UsedPercent),
		}
	}

	// 5. Disk (root partition)
	if d, err := disk.Usage("/"); err == nil {
		resp["disk"] = map[string]any{
			"total_gb":     fmt.Sprintf("%.2f GB", float64(d.Total)/gb),
			"used_percent": fmt.Sprintf("%.2f%%", d.UsedPercent),
		}
	}

	return c.JSON(http.StatusOK, resp)
}
