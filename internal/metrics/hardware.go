package metrics

import (
	"fmt"
	"os"
	"strings"

	constants "pistat/config"
)

// parseCPUInfoSerial extracts the board serial from /proc/cpuinfo
// contents ("Serial\t\t: 10000000abcdef").
func parseCPUInfoSerial(cpuinfo string) (string, bool) {
	for _, line := range strings.Split(cpuinfo, "\n") {
		if !strings.HasPrefix(line, "Serial") {
			continue
		}
		if _, value, found := strings.Cut(line, ":"); found {
			if serial := strings.TrimSpace(value); serial != "" {
				return serial, true
			}
		}
	}
	return "", false
}

// Hardware returns the board identity: device-tree model, cpuinfo
// serial, firmware version and the number of attached USB devices.
// Missing pieces are omitted; the category errors only when none of the
// sources is readable.
func (c *Collector) Hardware() (*HardwareInfo, error) {
	info := &HardwareInfo{}
	got := false

	if raw, err := os.ReadFile(constants.DEVICE_TREE_MODEL_PATH); err == nil {
		// The device tree pads the model string with a trailing NUL.
		if model := strings.TrimSpace(strings.TrimRight(string(raw), "\x00")); model != "" {
			info.Model = model
			got = true
		}
	}

	if raw, err := os.ReadFile(constants.CPUINFO_PATH); err == nil {
		if serial, ok := parseCPUInfoSerial(string(raw)); ok {
			info.Serial = serial
			got = true
		}
	}

	if out, err := c.run(constants.VCGENCMD_BIN, "version"); err == nil && out != "" {
		info.Firmware = out
		got = true
	}

	if out, err := c.run(constants.LSUSB_BIN); err == nil && out != "" {
		n := len(strings.Split(out, "\n"))
		info.USBDevices = &n
		got = true
	}

	if !got {
		return nil, fmt.Errorf("no hardware identity source readable")
	}
	return info, nil
}
