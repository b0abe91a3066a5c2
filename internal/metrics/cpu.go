package metrics

import (
	"fmt"
	"math"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"

	constants "pistat/config"
)

// CPUTemperature returns the CPU temperature in Celsius. It prefers the
// host sensor list and falls back to reading the thermal zone directly,
// which is how older Pi kernels expose it.
func (c *Collector) CPUTemperature() (float64, error) {
	if temps, err := host.SensorsTemperatures(); err == nil {
		for _, t := range temps {
			key := strings.ToLower(t.SensorKey)
			if strings.Contains(key, "cpu_thermal") || strings.Contains(key, "cpu-thermal") ||
				strings.Contains(key, "coretemp") {
				return t.Temperature, nil
			}
		}
	}

	raw, err := os.ReadFile(constants.THERMAL_ZONE_PATH)
	if err != nil {
		return 0, fmt.Errorf("no CPU temperature sensor available: %w", err)
	}
	milli, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
	if err != nil {
		return 0, fmt.Errorf("unreadable thermal zone value: %w", err)
	}
	return milli / 1000.0, nil
}

// CPUFrequency returns the current CPU frequency in MHz.
func (c *Collector) CPUFrequency() (float64, error) {
	info, err := cpu.Info()
	if err != nil {
		return 0, fmt.Errorf("failed to get CPU info: %w", err)
	}
	if len(info) == 0 {
		return 0, fmt.Errorf("no CPU info available")
	}
	return info[0].Mhz, nil
}

// CPUUsage returns the total busy percentage and per-core percentages.
//
// In blocking mode gopsutil samples over a full second, which gives an
// accurate delta at the cost of suspending the calling request. The
// non-blocking mode computes the delta against the times stored by the
// previous call, so it returns instantly; its first reading after start
// is zero. The blocking sleep happens inside gopsutil, outside cpuMu, so
// concurrent non-blocking readers are never held up by it.
func (c *Collector) CPUUsage(block bool) (float64, []float64, error) {
	if block {
		total, err := cpu.Percent(time.Second, false)
		if err != nil || len(total) == 0 {
			return 0, nil, fmt.Errorf("failed to get CPU usage: %w", err)
		}
		perCore, err := cpu.Percent(0, true)
		if err != nil {
			perCore = nil
		}
		return total[0], perCore, nil
	}

	times, err := cpu.Times(false)
	if err != nil || len(times) == 0 {
		return 0, nil, fmt.Errorf("failed to get CPU times: %w", err)
	}
	perCoreTimes, perCoreErr := cpu.Times(true)

	c.cpuMu.Lock()
	defer c.cpuMu.Unlock()

	var total float64
	if !c.cpuInit {
		c.lastCPUTimes = times[0]
		c.cpuInit = true
	} else {
		total = calculateBusy(c.lastCPUTimes, times[0])
		c.lastCPUTimes = times[0]
	}

	var perCore []float64
	if perCoreErr == nil && len(perCoreTimes) > 0 {
		if !c.perCoreInit {
			c.lastPerCore = perCoreTimes
			c.perCoreInit = true
			perCore = make([]float64, len(perCoreTimes))
		} else {
			length := len(perCoreTimes)
			if len(c.lastPerCore) < length {
				length = len(c.lastPerCore)
			}
			perCore = make([]float64, length)
			for i := 0; i < length; i++ {
				perCore[i] = calculateBusy(c.lastPerCore[i], perCoreTimes[i])
			}
			c.lastPerCore = perCoreTimes
		}
	}

	return total, perCore, nil
}

// calculateBusy calculates the CPU busy percentage between two time
// points, clamped to [0, 100].
func calculateBusy(t1, t2 cpu.TimesStat) float64 {
	t1All, t1Busy := getAllBusy(t1)
	t2All, t2Busy := getAllBusy(t2)

	if t2All <= t1All || t2Busy <= t1Busy {
		return 0
	}

	return clampPercent((t2Busy - t1Busy) / (t2All - t1All) * 100)
}

// getAllBusy calculates total and busy CPU time from a TimesStat. On
// Linux, guest and guest_nice are removed from the total to match htop.
func getAllBusy(t cpu.TimesStat) (float64, float64) {
	tot := t.User + t.System + t.Idle + t.Nice + t.Iowait + t.Irq +
		t.Softirq + t.Steal + t.Guest + t.GuestNice

	if runtime.GOOS == "linux" {
		tot -= t.Guest
		tot -= t.GuestNice
	}

	busy := tot - t.Idle - t.Iowait

	return tot, busy
}

// clampPercent ensures the percentage is between 0 and 100.
func clampPercent(value float64) float64 {
	return math.Min(100, math.Max(0, value))
}
