package metrics

import (
	"fmt"
	"regexp"
	"strconv"

	constants "pistat/config"
)

// vcgencmd prefixes its outputs differently per subcommand:
//   measure_temp   -> temp=45.8'C
//   get_mem gpu    -> gpu=128M
//   measure_clock  -> frequency(48)=500000000
//   measure_volts  -> volt=1.3500V
//   get_throttled  -> throttled=0x50000
var (
	tempRe      = regexp.MustCompile(`temp=(\d+\.?\d*)`)
	gpuMemRe    = regexp.MustCompile(`(\d+)M`)
	clockRe     = regexp.MustCompile(`=(\d+)`)
	voltsRe     = regexp.MustCompile(`(\d+\.\d+)V`)
	throttledRe = regexp.MustCompile(`0x([0-9a-fA-F]+)`)
)

// get_throttled bit positions for the current state.
const (
	throttleUnderVoltage = 0x1
	throttleFreqCapped   = 0x2
	throttleThrottled    = 0x4
)

func parseTemp(out string) (float64, bool) {
	m := tempRe.FindStringSubmatch(out)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	return v, err == nil
}

func parseGPUMem(out string) (uint64, bool) {
	m := gpuMemRe.FindStringSubmatch(out)
	if m == nil {
		return 0, false
	}
	mb, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return mb * 1024 * 1024, true
}

func parseClock(out string) (uint64, bool) {
	m := clockRe.FindStringSubmatch(out)
	if m == nil {
		return 0, false
	}
	hz, err := strconv.ParseUint(m[1], 10, 64)
	return hz, err == nil
}

func parseVolts(out string) (float64, bool) {
	m := voltsRe.FindStringSubmatch(out)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	return v, err == nil
}

func parseThrottled(out string) (uint64, bool) {
	m := throttledRe.FindStringSubmatch(out)
	if m == nil {
		return 0, false
	}
	bits, err := strconv.ParseUint(m[1], 16, 64)
	return bits, err == nil
}

// GPU returns VideoCore metrics from vcgencmd. Individual readings that
// fail are omitted; the category errors only when nothing is readable,
// which is the usual case off-Pi where vcgencmd does not exist.
func (c *Collector) GPU() (*GPUInfo, error) {
	info := &GPUInfo{}
	got := false

	if out, err := c.run(constants.VCGENCMD_BIN, "measure_temp"); err == nil {
		if v, ok := parseTemp(out); ok {
			info.Temperature = &v
			got = true
		}
	}
	if out, err := c.run(constants.VCGENCMD_BIN, "get_mem", "gpu"); err == nil {
		if v, ok := parseGPUMem(out); ok {
			info.Memory = &v
			got = true
		}
	}
	if out, err := c.run(constants.VCGENCMD_BIN, "measure_clock", "v3d"); err == nil {
		if v, ok := parseClock(out); ok {
			info.V3DClock = &v
			got = true
		}
	}

	if !got {
		return nil, fmt.Errorf("vcgencmd unavailable")
	}
	return info, nil
}

// Power returns core voltage and throttling state from vcgencmd.
func (c *Collector) Power() (*PowerInfo, error) {
	info := &PowerInfo{}
	got := false

	if out, err := c.run(constants.VCGENCMD_BIN, "measure_volts", "core"); err == nil {
		if v, ok := parseVolts(out); ok {
			info.CoreVoltage = &v
			got = true
		}
	}
	if out, err := c.run(constants.VCGENCMD_BIN, "get_throttled"); err == nil {
		if bits, ok := parseThrottled(out); ok {
			under := bits&throttleUnderVoltage != 0
			capped := bits&throttleFreqCapped != 0
			throttled := bits&throttleThrottled != 0
			info.UnderVoltage = &under
			info.FreqCapped = &capped
			info.Throttled = &throttled
			got = true
		}
	}

	if !got {
		return nil, fmt.Errorf("vcgencmd unavailable")
	}
	return info, nil
}

// Clocks returns the ARM, core and SDRAM clock frequencies in Hz.
func (c *Collector) Clocks() (*ClockInfo, error) {
	info := &ClockInfo{}
	got := false

	for _, clock := range []struct {
		name string
		dst  **uint64
	}{
		{"arm", &info.ARM},
		{"core", &info.Core},
		{"sdram", &info.SDRAM},
	} {
		out, err := c.run(constants.VCGENCMD_BIN, "measure_clock", clock.name)
		if err != nil {
			continue
		}
		if v, ok := parseClock(out); ok {
			*clock.dst = &v
			got = true
		}
	}

	if !got {
		return nil, fmt.Errorf("vcgencmd unavailable")
	}
	return info, nil
}
