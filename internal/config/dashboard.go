package config

import (
	"os"
	"strconv"
	"sync"
	"time"
)

// DashboardConfig points at the companion dashboard runtime. The URL is
// optional; when set, startup probes it for readiness instead of relying on
// a fixed launch delay.
type DashboardConfig struct {
	URL          string
	ProbeTimeout time.Duration
}

var (
	dashboardConfig *DashboardConfig
	dashboardOnce   sync.Once
)

func LoadDashboardConfig() *DashboardConfig {
	dashboardOnce.Do(func() {
		timeout := 30 * time.Second
		if raw := os.Getenv("DASHBOARD_PROBE_TIMEOUT_SECONDS"); raw != "" {
			if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
				timeout = time.Duration(secs) * time.Second
			}
		}
		dashboardConfig = &DashboardConfig{
			URL:          os.Getenv("DASHBOARD_URL"),
			ProbeTimeout: timeout,
		}
	})
	return dashboardConfig
}
