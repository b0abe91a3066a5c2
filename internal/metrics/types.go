// Package metrics provides system metrics collection for the pistat
// telemetry endpoint.
package metrics

// =============================================================================
// Memory / Disk
// =============================================================================

// MemoryInfo contains virtual memory usage, values in bytes.
type MemoryInfo struct {
	Total     uint64  `json:"total"`
	Available uint64  `json:"available"`
	Used      uint64  `json:"used"`
	Percent   float64 `json:"percent"`
}

// SwapInfo contains swap usage, values in bytes.
type SwapInfo struct {
	Total   uint64  `json:"total"`
	Used    uint64  `json:"used"`
	Free    uint64  `json:"free"`
	Percent float64 `json:"percent"`
}

// DiskInfo contains root filesystem usage, values in bytes.
type DiskInfo struct {
	Total   uint64  `json:"total"`
	Used    uint64  `json:"used"`
	Free    uint64  `json:"free"`
	Percent float64 `json:"percent"`
}

// DiskIOInfo contains disk I/O counters accumulated across all physical
// devices since boot. Times are in milliseconds.
type DiskIOInfo struct {
	ReadCount  uint64 `json:"read_count"`
	WriteCount uint64 `json:"write_count"`
	ReadBytes  uint64 `json:"read_bytes"`
	WriteBytes uint64 `json:"write_bytes"`
	ReadTime   uint64 `json:"read_time"`
	WriteTime  uint64 `json:"write_time"`
}

// =============================================================================
// Firmware-reported metrics (vcgencmd)
// =============================================================================

// GPUInfo contains VideoCore GPU metrics. Fields the firmware did not
// report are omitted rather than zeroed.
type GPUInfo struct {
	Temperature *float64 `json:"temperature,omitempty"` // Celsius
	Memory      *uint64  `json:"memory,omitempty"`      // bytes reserved for the GPU
	V3DClock    *uint64  `json:"v3d_clock,omitempty"`   // Hz
}

// PowerInfo contains supply voltage and throttling state decoded from
// vcgencmd get_throttled.
type PowerInfo struct {
	CoreVoltage  *float64 `json:"core_voltage,omitempty"` // volts
	UnderVoltage *bool    `json:"under_voltage,omitempty"`
	FreqCapped   *bool    `json:"freq_capped,omitempty"`
	Throttled    *bool    `json:"throttled,omitempty"`
}

// ClockInfo contains firmware clock frequencies in Hz.
type ClockInfo struct {
	ARM   *uint64 `json:"arm,omitempty"`
	Core  *uint64 `json:"core,omitempty"`
	SDRAM *uint64 `json:"sdram,omitempty"`
}

// =============================================================================
// Network
// =============================================================================

// InterfaceStats contains per-NIC traffic counters since boot.
type InterfaceStats struct {
	BytesSent      uint64 `json:"bytes_sent"`
	BytesRecv      uint64 `json:"bytes_recv"`
	PacketsSent    uint64 `json:"packets_sent"`
	PacketsRecv    uint64 `json:"packets_recv"`
	ErrIn          uint64 `json:"errin"`
	ErrOut         uint64 `json:"errout"`
	DropIn         uint64 `json:"dropin"`
	DropOut        uint64 `json:"dropout"`
	SignalStrength *int   `json:"signal_strength,omitempty"` // dBm, wireless interfaces only
}

// NetworkInfo is the network category of a Snapshot. The loopback
// interface is excluded.
type NetworkInfo struct {
	Interfaces        map[string]InterfaceStats `json:"interfaces"`
	ActiveConnections int                       `json:"active_connections"`
}

// InterfaceDetail is the richer per-interface record served by
// /network/interfaces.
type InterfaceDetail struct {
	Name           string   `json:"name"`
	IsUp           bool     `json:"is_up"`
	MTU            int      `json:"mtu"`
	MACAddress     string   `json:"mac_address"`
	Addresses      []string `json:"addresses"`
	BytesSent      uint64   `json:"bytes_sent"`
	BytesRecv      uint64   `json:"bytes_recv"`
	PacketsSent    uint64   `json:"packets_sent"`
	PacketsRecv    uint64   `json:"packets_recv"`
	ErrIn          uint64   `json:"errin"`
	ErrOut         uint64   `json:"errout"`
	SignalStrength *int     `json:"signal_strength,omitempty"`
}

// =============================================================================
// Hardware identity
// =============================================================================

// HardwareInfo identifies the board the service runs on.
type HardwareInfo struct {
	Model      string `json:"model,omitempty"`
	Serial     string `json:"serial,omitempty"`
	Firmware   string `json:"firmware,omitempty"`
	USBDevices *int   `json:"usb_devices,omitempty"`
}

// =============================================================================
// Processes / storage endpoints
// =============================================================================

// ProcessInfo is one record of the /processes listing.
type ProcessInfo struct {
	PID           int32   `json:"pid"`
	Name          string  `json:"name"`
	User          string  `json:"user"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	RunningTime   float64 `json:"running_time"` // seconds since process start
}

// StorageDevice is one record of the /storage/devices listing.
type StorageDevice struct {
	Device     string  `json:"device"`
	Mountpoint string  `json:"mountpoint"`
	FSType     string  `json:"fstype"`
	Total      uint64  `json:"total"`
	Used       uint64  `json:"used"`
	Free       uint64  `json:"free"`
	Percent    float64 `json:"percent"`
	ReadCount  uint64  `json:"read_count"`
	WriteCount uint64  `json:"write_count"`
	ReadBytes  uint64  `json:"read_bytes"`
	WriteBytes uint64  `json:"write_bytes"`
}
