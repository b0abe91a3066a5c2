package metrics

import "strings"

// Top-level Snapshot category names, as they appear in /stats responses
// and in the fields query parameter.
const (
	FieldCPUTemp     = "cpu_temp"
	FieldCPUFreq     = "cpu_freq"
	FieldCPUUsage    = "cpu_usage"
	FieldPerCPUUsage = "per_cpu_usage"
	FieldMemory      = "memory"
	FieldSwap        = "swap"
	FieldDisk        = "disk"
	FieldDiskIO      = "disk_io"
	FieldUptime      = "uptime"
	FieldLoadAvg     = "load_avg"
	FieldGPU         = "gpu"
	FieldPower       = "power"
	FieldClocks      = "clocks"
	FieldNetwork     = "network"
	FieldHardware    = "hardware"
)

// categoryNames lists every category in response order.
var categoryNames = []string{
	FieldCPUTemp, FieldCPUFreq, FieldCPUUsage, FieldPerCPUUsage,
	FieldMemory, FieldSwap, FieldDisk, FieldDiskIO,
	FieldUptime, FieldLoadAvg,
	FieldGPU, FieldPower, FieldClocks, FieldNetwork, FieldHardware,
}

// Snapshot is one complete or partial collection of system metrics at a
// point in time. A category whose collector failed is nil (JSON null)
// with the reason recorded in Errors. Snapshots are immutable once they
// enter the cache.
type Snapshot struct {
	CPUTemp     *float64      `json:"cpu_temp"`
	CPUFreq     *float64      `json:"cpu_freq"` // MHz
	CPUUsage    *float64      `json:"cpu_usage"`
	PerCPUUsage []float64     `json:"per_cpu_usage"`
	Memory      *MemoryInfo   `json:"memory"`
	Swap        *SwapInfo     `json:"swap"`
	Disk        *DiskInfo     `json:"disk"`
	DiskIO      *DiskIOInfo   `json:"disk_io"`
	Uptime      *float64      `json:"uptime"` // seconds
	LoadAvg     []float64     `json:"load_avg"`
	GPU         *GPUInfo      `json:"gpu"`
	Power       *PowerInfo    `json:"power"`
	Clocks      *ClockInfo    `json:"clocks"`
	Network     *NetworkInfo  `json:"network"`
	Hardware    *HardwareInfo `json:"hardware"`

	Timestamp float64           `json:"timestamp"` // Unix seconds at collection
	Errors    map[string]string `json:"errors,omitempty"`
}

// fail records a collector failure for one category.
func (s *Snapshot) fail(category string, err error) {
	if s.Errors == nil {
		s.Errors = make(map[string]string)
	}
	s.Errors[category] = err.Error()
}

// category returns the value of one named category and whether it was
// collected. Slices and pointers that are nil count as not collected.
func (s *Snapshot) category(name string) (interface{}, bool) {
	switch name {
	case FieldCPUTemp:
		return s.CPUTemp, s.CPUTemp != nil
	case FieldCPUFreq:
		return s.CPUFreq, s.CPUFreq != nil
	case FieldCPUUsage:
		return s.CPUUsage, s.CPUUsage != nil
	case FieldPerCPUUsage:
		return s.PerCPUUsage, s.PerCPUUsage != nil
	case FieldMemory:
		return s.Memory, s.Memory != nil
	case FieldSwap:
		return s.Swap, s.Swap != nil
	case FieldDisk:
		return s.Disk, s.Disk != nil
	case FieldDiskIO:
		return s.DiskIO, s.DiskIO != nil
	case FieldUptime:
		return s.Uptime, s.Uptime != nil
	case FieldLoadAvg:
		return s.LoadAvg, s.LoadAvg != nil
	case FieldGPU:
		return s.GPU, s.GPU != nil
	case FieldPower:
		return s.Power, s.Power != nil
	case FieldClocks:
		return s.Clocks, s.Clocks != nil
	case FieldNetwork:
		return s.Network, s.Network != nil
	case FieldHardware:
		return s.Hardware, s.Hardware != nil
	}
	return nil, false
}

// Project restricts the snapshot to the requested top-level categories.
// Unknown names are ignored, and categories whose collector failed are
// left out entirely. Projection never re-collects; it is a view over an
// already-built snapshot.
func (s *Snapshot) Project(fields []string) map[string]interface{} {
	requested := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(strings.ToLower(f))
		if f != "" {
			requested[f] = struct{}{}
		}
	}

	out := make(map[string]interface{}, len(requested))
	for _, name := range categoryNames {
		if _, ok := requested[name]; !ok {
			continue
		}
		if v, collected := s.category(name); collected {
			out[name] = v
		}
	}
	return out
}

// ParseFields splits a comma-separated fields parameter. An empty or
// all-whitespace value yields nil, meaning no filtering.
func ParseFields(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	fields := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			fields = append(fields, p)
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
