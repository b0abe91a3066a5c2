package metrics

import (
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

// CommandRunner executes a hardware utility and returns its trimmed
// stdout. Injected so parsing can be tested without vcgencmd/iwconfig
// installed.
type CommandRunner func(name string, args ...string) (string, error)

func runCommand(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).Output()
	if err != nil {
		return "", fmt.Errorf("%s failed: %w", name, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Options selects per-request collection behavior.
type Options struct {
	// BlockCPU trades ~1 second of latency for a delta-based CPU usage
	// reading instead of the instant one.
	BlockCPU bool
}

// Collector reads system metrics from the OS and from shell-invoked
// hardware utilities. It owns the state needed for non-blocking
// delta-based CPU readings. Safe for concurrent use.
type Collector struct {
	run CommandRunner
	now func() time.Time

	cpuMu        sync.Mutex
	lastCPUTimes cpu.TimesStat
	lastPerCore  []cpu.TimesStat
	cpuInit      bool
	perCoreInit  bool
}

// NewCollector returns a Collector using the real system and shell.
func NewCollector() *Collector {
	c := &Collector{run: runCommand, now: time.Now}
	c.primeCPUBaseline()
	return c
}

// primeCPUBaseline stores initial CPU times so the first non-blocking
// usage reading has a delta to work from.
func (c *Collector) primeCPUBaseline() {
	if times, err := cpu.Times(false); err == nil && len(times) > 0 {
		c.lastCPUTimes = times[0]
		c.cpuInit = true
	}
	if perCore, err := cpu.Times(true); err == nil {
		c.lastPerCore = perCore
		c.perCoreInit = true
	}
}

// BuildSnapshot runs every category collector and assembles the result.
// A failing collector marks its category as unavailable instead of
// aborting the snapshot; partial results are always returned. The error
// return is reserved for failures outside any collector's guard and is
// nil in practice.
func (c *Collector) BuildSnapshot(opts Options) (*Snapshot, error) {
	s := &Snapshot{Timestamp: float64(c.now().UnixNano()) / 1e9}

	if v, err := c.CPUTemperature(); err != nil {
		s.fail(FieldCPUTemp, err)
	} else {
		s.CPUTemp = &v
	}

	if v, err := c.CPUFrequency(); err != nil {
		s.fail(FieldCPUFreq, err)
	} else {
		s.CPUFreq = &v
	}

	if total, perCore, err := c.CPUUsage(opts.BlockCPU); err != nil {
		s.fail(FieldCPUUsage, err)
		s.fail(FieldPerCPUUsage, err)
	} else {
		s.CPUUsage = &total
		s.PerCPUUsage = perCore
	}

	if v, err := c.Memory(); err != nil {
		s.fail(FieldMemory, err)
	} else {
		s.Memory = v
	}

	if v, err := c.Swap(); err != nil {
		s.fail(FieldSwap, err)
	} else {
		s.Swap = v
	}

	if v, err := c.Disk(); err != nil {
		s.fail(FieldDisk, err)
	} else {
		s.Disk = v
	}

	if v, err := c.DiskIO(); err != nil {
		s.fail(FieldDiskIO, err)
	} else {
		s.DiskIO = v
	}

	if v, err := c.Uptime(); err != nil {
		s.fail(FieldUptime, err)
	} else {
		s.Uptime = &v
	}

	if v, err := c.LoadAvg(); err != nil {
		s.fail(FieldLoadAvg, err)
	} else {
		s.LoadAvg = v
	}

	if v, err := c.GPU(); err != nil {
		s.fail(FieldGPU, err)
	} else {
		s.GPU = v
	}

	if v, err := c.Power(); err != nil {
		s.fail(FieldPower, err)
	} else {
		s.Power = v
	}

	if v, err := c.Clocks(); err != nil {
		s.fail(FieldClocks, err)
	} else {
		s.Clocks = v
	}

	if v, err := c.Network(); err != nil {
		s.fail(FieldNetwork, err)
	} else {
		s.Network = v
	}

	if v, err := c.Hardware(); err != nil {
		s.fail(FieldHardware, err)
	} else {
		s.Hardware = v
	}

	return s, nil
}

// Memory returns virtual memory usage.
func (c *Collector) Memory() (*MemoryInfo, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to get memory usage: %w", err)
	}
	return &MemoryInfo{
		Total:     vm.Total,
		Available: vm.Available,
		Used:      vm.Used,
		Percent:   vm.UsedPercent,
	}, nil
}

// Swap returns swap memory usage.
func (c *Collector) Swap() (*SwapInfo, error) {
	sw, err := mem.SwapMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to get swap usage: %w", err)
	}
	return &SwapInfo{
		Total:   sw.Total,
		Used:    sw.Used,
		Free:    sw.Free,
		Percent: sw.UsedPercent,
	}, nil
}

// Disk returns root filesystem usage.
func (c *Collector) Disk() (*DiskInfo, error) {
	usage, err := disk.Usage("/")
	if err != nil {
		return nil, fmt.Errorf("failed to get disk usage: %w", err)
	}
	return &DiskInfo{
		Total:   usage.Total,
		Used:    usage.Used,
		Free:    usage.Free,
		Percent: usage.UsedPercent,
	}, nil
}

// DiskIO returns I/O counters summed across physical devices.
func (c *Collector) DiskIO() (*DiskIOInfo, error) {
	counters, err := disk.IOCounters()
	if err != nil {
		return nil, fmt.Errorf("failed to get disk IO counters: %w", err)
	}

	var io DiskIOInfo
	for device, stats := range counters {
		// Skip loop devices and device-mapper entries so counters are not
		// doubled against their backing disks.
		if strings.HasPrefix(device, "loop") || strings.HasPrefix(device, "dm-") {
			continue
		}
		io.ReadCount += stats.ReadCount
		io.WriteCount += stats.WriteCount
		io.ReadBytes += stats.ReadBytes
		io.WriteBytes += stats.WriteBytes
		io.ReadTime += stats.ReadTime
		io.WriteTime += stats.WriteTime
	}
	return &io, nil
}

// Uptime returns seconds since boot.
func (c *Collector) Uptime() (float64, error) {
	up, err := host.Uptime()
	if err != nil {
		return 0, fmt.Errorf("failed to get uptime: %w", err)
	}
	return float64(up), nil
}

// LoadAvg returns the 1, 5 and 15 minute load averages.
func (c *Collector) LoadAvg() ([]float64, error) {
	avg, err := load.Avg()
	if err != nil {
		return nil, fmt.Errorf("failed to get load averages: %w", err)
	}
	return []float64{avg.Load1, avg.Load5, avg.Load15}, nil
}
