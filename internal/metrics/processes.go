package metrics

import (
	"fmt"
	"sort"

	"github.com/shirou/gopsutil/v3/process"
)

// ProcessSort names a /processes sort key.
type ProcessSort string

const (
	SortCPU    ProcessSort = "cpu"
	SortMemory ProcessSort = "memory"
	SortName   ProcessSort = "name"
	SortPID    ProcessSort = "pid"
	SortTime   ProcessSort = "time"
)

// ParseProcessSort maps a query parameter to a sort key, defaulting to
// CPU for empty or unknown values.
func ParseProcessSort(raw string) ProcessSort {
	switch ProcessSort(raw) {
	case SortCPU, SortMemory, SortName, SortPID, SortTime:
		return ProcessSort(raw)
	default:
		return SortCPU
	}
}

// sortProcesses orders records descending by the given key.
func sortProcesses(procs []ProcessInfo, key ProcessSort) {
	sort.Slice(procs, func(i, j int) bool {
		switch key {
		case SortMemory:
			return procs[i].MemoryPercent > procs[j].MemoryPercent
		case SortName:
			return procs[i].Name > procs[j].Name
		case SortPID:
			return procs[i].PID > procs[j].PID
		case SortTime:
			return procs[i].RunningTime > procs[j].RunningTime
		default:
			return procs[i].CPUPercent > procs[j].CPUPercent
		}
	})
}

// truncateProcesses applies the limit parameter; limit <= 0 means all.
func truncateProcesses(procs []ProcessInfo, limit int) []ProcessInfo {
	if limit > 0 && len(procs) > limit {
		return procs[:limit]
	}
	return procs
}

// Processes lists running processes sorted descending by the given key
// and truncated to limit. Per-process read errors are skipped silently;
// processes exit mid-scan all the time.
func (c *Collector) Processes(key ProcessSort, limit int) ([]ProcessInfo, error) {
	all, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	now := c.now()
	records := make([]ProcessInfo, 0, len(all))
	for _, proc := range all {
		name, err := proc.Name()
		if err != nil {
			continue
		}

		cpuPercent, _ := proc.CPUPercent()
		memoryPercent, _ := proc.MemoryPercent()

		username, err := proc.Username()
		if err != nil || username == "" {
			username = "unknown"
			if uids, err := proc.Uids(); err == nil && len(uids) > 0 {
				username = fmt.Sprintf("%d", uids[0])
			}
		}

		var runningTime float64
		if createMs, err := proc.CreateTime(); err == nil && createMs > 0 {
			runningTime = float64(now.UnixMilli()-createMs) / 1000.0
			if runningTime < 0 {
				runningTime = 0
			}
		}

		records = append(records, ProcessInfo{
			PID:           proc.Pid,
			Name:          name,
			User:          username,
			CPUPercent:    cpuPercent,
			MemoryPercent: float64(memoryPercent),
			RunningTime:   runningTime,
		})
	}

	sortProcesses(records, key)
	return truncateProcesses(records, limit), nil
}
