package metrics

import (
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
)

// StorageDevices lists mounted physical filesystems with usage and I/O
// counters, the record set served by /storage/devices. Pseudo
// filesystems are excluded by asking gopsutil for physical partitions
// only.
func (c *Collector) StorageDevices() ([]StorageDevice, error) {
	partitions, err := disk.Partitions(false)
	if err != nil {
		return nil, fmt.Errorf("failed to list partitions: %w", err)
	}

	counters, _ := disk.IOCounters()

	devices := make([]StorageDevice, 0, len(partitions))
	for _, part := range partitions {
		dev := StorageDevice{
			Device:     part.Device,
			Mountpoint: part.Mountpoint,
			FSType:     part.Fstype,
		}

		// Usage can fail per-mount (permissions, stale mounts) without
		// invalidating the listing.
		if usage, err := disk.Usage(part.Mountpoint); err == nil {
			dev.Total = usage.Total
			dev.Used = usage.Used
			dev.Free = usage.Free
			dev.Percent = usage.UsedPercent
		}

		// IOCounters keys by bare device name (mmcblk0p1), partitions by
		// full path (/dev/mmcblk0p1).
		name := part.Device
		if i := strings.LastIndex(name, "/"); i >= 0 {
			name = name[i+1:]
		}
		if io, ok := counters[name]; ok {
			dev.ReadCount = io.ReadCount
			dev.WriteCount = io.WriteCount
			dev.ReadBytes = io.ReadBytes
			dev.WriteBytes = io.WriteBytes
		}

		devices = append(devices, dev)
	}

	return devices, nil
}
