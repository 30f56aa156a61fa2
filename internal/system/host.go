package system

import (
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v4/host"

	"github.com/ngenohkevin/aura-explorer/internal/cache"
)

// hostInfoTTL bounds how often host.Info is queried
const hostInfoTTL = 30 * time.Second

// Collector serves host information through a short-lived cache
type Collector struct {
	cache *cache.Cache[*HostInfo]
}

// NewCollector creates a collector with its own cache
func NewCollector() *Collector {
	return &Collector{cache: cache.New[*HostInfo](hostInfoTTL)}
}

// HostInfo returns cached host information
func (c *Collector) HostInfo() (*HostInfo, error) {
	return c.cache.GetOrSet(cache.KeyHost, GetHostInfo)
}

// Close releases the collector's cache
func (c *Collector) Close() {
	c.cache.Close()
}

// GetHostInfo retrieves system host information
func GetHostInfo() (*HostInfo, error) {
	info, err := host.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to get host info: %w", err)
	}

	return &HostInfo{
		Hostname:        info.Hostname,
		OS:              info.OS,
		Platform:        info.Platform,
		PlatformVersion: info.PlatformVersion,
		KernelVersion:   info.KernelVersion,
		KernelArch:      info.KernelArch,
		Uptime:          info.Uptime,
		UptimeHuman:     formatUptime(info.Uptime),
		BootTime:        info.BootTime,
		Procs:           info.Procs,
	}, nil
}

// formatUptime converts uptime seconds to human readable format
func formatUptime(seconds uint64) string {
	duration := time.Duration(seconds) * time.Second

	days := int(duration.Hours() / 24)
	hours := int(duration.Hours()) % 24
	minutes := int(duration.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
