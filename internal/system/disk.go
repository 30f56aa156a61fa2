package system

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/disk"
)

// DiskCapacity reports the size of the filesystem that holds path
func DiskCapacity(path string) (*Capacity, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get disk usage for %s: %w", path, err)
	}

	return &Capacity{
		Path:        usage.Path,
		Fstype:      usage.Fstype,
		Total:       usage.Total,
		Used:        usage.Used,
		Free:        usage.Free,
		UsedPercent: usage.UsedPercent,
	}, nil
}
