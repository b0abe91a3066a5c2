package metrics

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/net"

	constants "pistat/config"
)

// iwconfig reports "Signal level=-58 dBm" for associated interfaces.
var signalLevelRe = regexp.MustCompile(`Signal level=(-?\d+) dBm`)

func parseSignalLevel(out string) (int, bool) {
	m := signalLevelRe.FindStringSubmatch(out)
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(m[1])
	return v, err == nil
}

// isWireless reports whether the interface name looks like a WiFi NIC.
func isWireless(name string) bool {
	return strings.HasPrefix(name, "wlan") || strings.HasPrefix(name, "wlp")
}

// wifiSignal shells out to iwconfig for the signal strength of one
// wireless interface.
func (c *Collector) wifiSignal(iface string) (int, bool) {
	out, err := c.run(constants.IWCONFIG_BIN, iface)
	if err != nil {
		return 0, false
	}
	return parseSignalLevel(out)
}

// Network returns per-interface traffic counters (loopback excluded)
// and the count of active socket connections.
func (c *Collector) Network() (*NetworkInfo, error) {
	counters, err := net.IOCounters(true)
	if err != nil {
		return nil, fmt.Errorf("failed to get network counters: %w", err)
	}

	info := &NetworkInfo{Interfaces: make(map[string]InterfaceStats, len(counters))}
	for _, nic := range counters {
		if nic.Name == "lo" {
			continue
		}

		stats := InterfaceStats{
			BytesSent:   nic.BytesSent,
			BytesRecv:   nic.BytesRecv,
			PacketsSent: nic.PacketsSent,
			PacketsRecv: nic.PacketsRecv,
			ErrIn:       nic.Errin,
			ErrOut:      nic.Errout,
			DropIn:      nic.Dropin,
			DropOut:     nic.Dropout,
		}
		if isWireless(nic.Name) {
			if sig, ok := c.wifiSignal(nic.Name); ok {
				stats.SignalStrength = &sig
			}
		}
		info.Interfaces[nic.Name] = stats
	}

	// Connection counting needs elevated permissions on some systems;
	// treat failure as zero rather than failing the category.
	if conns, err := net.Connections("inet"); err == nil {
		info.ActiveConnections = len(conns)
	}

	return info, nil
}

// NetworkInterfaces returns the per-interface records served by
// /network/interfaces, joining link-level details with traffic counters.
func (c *Collector) NetworkInterfaces() ([]InterfaceDetail, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("failed to get network interfaces: %w", err)
	}

	countersByName := make(map[string]net.IOCountersStat)
	if counters, err := net.IOCounters(true); err == nil {
		for _, nic := range counters {
			countersByName[nic.Name] = nic
		}
	}

	details := make([]InterfaceDetail, 0, len(ifaces))
	for _, iface := range ifaces {
		if iface.Name == "lo" {
			continue
		}

		detail := InterfaceDetail{
			Name:       iface.Name,
			MTU:        iface.MTU,
			MACAddress: iface.HardwareAddr,
		}
		for _, flag := range iface.Flags {
			if flag == "up" {
				detail.IsUp = true
				break
			}
		}
		for _, addr := range iface.Addrs {
			detail.Addresses = append(detail.Addresses, addr.Addr)
		}
		if nic, ok := countersByName[iface.Name]; ok {
			detail.BytesSent = nic.BytesSent
			detail.BytesRecv = nic.BytesRecv
			detail.PacketsSent = nic.PacketsSent
			detail.PacketsRecv = nic.PacketsRecv
			detail.ErrIn = nic.Errin
			detail.ErrOut = nic.Errout
		}
		if isWireless(iface.Name) {
			if sig, ok := c.wifiSignal(iface.Name); ok {
				detail.SignalStrength = &sig
			}
		}

		details = append(details, detail)
	}

	return details, nil
}
