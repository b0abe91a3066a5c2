// Package ui renders snapshots for the status command.
package ui

import (
	"fmt"
	"sort"
	"strings"

	"pistat/internal/metrics"
	"pistat/pkg/utils"
)

func line(b *strings.Builder, label, value string) {
	b.WriteString(LabelStyle.Render(label))
	b.WriteString(ValueStyle.Render(value))
	b.WriteByte('\n')
}

// RenderSnapshot formats a snapshot for terminal display. Categories
// the endpoint could not collect are listed at the end with their
// reasons.
func RenderSnapshot(s *metrics.Snapshot) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("piStat System Monitor"))
	b.WriteByte('\n')

	b.WriteString(SectionStyle.Render("CPU"))
	b.WriteByte('\n')
	if s.CPUTemp != nil {
		line(&b, "Temperature", fmt.Sprintf("%.1f°C", *s.CPUTemp))
	}
	if s.CPUFreq != nil {
		line(&b, "Frequency", fmt.Sprintf("%.0f MHz", *s.CPUFreq))
	}
	if s.CPUUsage != nil {
		b.WriteString(LabelStyle.Render("Usage"))
		b.WriteString(PercentStyle(*s.CPUUsage).Render(utils.FormatPercentage(*s.CPUUsage)))
		b.WriteByte('\n')
	}
	if len(s.PerCPUUsage) > 0 {
		cores := make([]string, len(s.PerCPUUsage))
		for i, u := range s.PerCPUUsage {
			cores[i] = utils.FormatPercentage(u)
		}
		line(&b, "Per core", strings.Join(cores, "  "))
	}

	if s.Memory != nil {
		b.WriteString(SectionStyle.Render("Memory"))
		b.WriteByte('\n')
		line(&b, "Used", fmt.Sprintf("%s / %s (%s)",
			utils.FormatBytes(s.Memory.Used),
			utils.FormatBytes(s.Memory.Total),
			utils.FormatPercentage(s.Memory.Percent)))
		if s.Swap != nil && s.Swap.Total > 0 {
			line(&b, "Swap", fmt.Sprintf("%s / %s (%s)",
				utils.FormatBytes(s.Swap.Used),
				utils.FormatBytes(s.Swap.Total),
				utils.FormatPercentage(s.Swap.Percent)))
		}
	}

	if s.Disk != nil {
		b.WriteString(SectionStyle.Render("Disk"))
		b.WriteByte('\n')
		line(&b, "Root filesystem", fmt.Sprintf("%s / %s (%s)",
			utils.FormatBytes(s.Disk.Used),
			utils.FormatBytes(s.Disk.Total),
			utils.FormatPercentage(s.Disk.Percent)))
	}

	b.WriteString(SectionStyle.Render("System"))
	b.WriteByte('\n')
	if s.Uptime != nil {
		line(&b, "Uptime", utils.FormatDuration(*s.Uptime))
	}
	if len(s.LoadAvg) == 3 {
		line(&b, "Load average", fmt.Sprintf("%.2f %.2f %.2f",
			s.LoadAvg[0], s.LoadAvg[1], s.LoadAvg[2]))
	}
	if s.Hardware != nil && s.Hardware.Model != "" {
		line(&b, "Model", s.Hardware.Model)
	}

	if s.GPU != nil || s.Power != nil {
		b.WriteString(SectionStyle.Render("Firmware"))
		b.WriteByte('\n')
		if s.GPU != nil && s.GPU.Temperature != nil {
			line(&b, "GPU temperature", fmt.Sprintf("%.1f°C", *s.GPU.Temperature))
		}
		if s.Power != nil && s.Power.CoreVoltage != nil {
			line(&b, "Core voltage", fmt.Sprintf("%.2fV", *s.Power.CoreVoltage))
		}
		if s.Power != nil && s.Power.Throttled != nil && *s.Power.Throttled {
			b.WriteString(WarningStyle.Render("  throttling active"))
			b.WriteByte('\n')
		}
	}

	if s.Network != nil {
		b.WriteString(SectionStyle.Render("Network"))
		b.WriteByte('\n')
		names := make([]string, 0, len(s.Network.Interfaces))
		for name := range s.Network.Interfaces {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			nic := s.Network.Interfaces[name]
			value := fmt.Sprintf("rx %s  tx %s",
				utils.FormatBytes(nic.BytesRecv),
				utils.FormatBytes(nic.BytesSent))
			if nic.SignalStrength != nil {
				value += fmt.Sprintf("  signal %d dBm", *nic.SignalStrength)
			}
			line(&b, name, value)
		}
		line(&b, "Connections", fmt.Sprintf("%d", s.Network.ActiveConnections))
	}

	if len(s.Errors) > 0 {
		b.WriteString(SectionStyle.Render("Unavailable"))
		b.WriteByte('\n')
		names := make([]string, 0, len(s.Errors))
		for name := range s.Errors {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			b.WriteString(MutedStyle.Render(fmt.Sprintf("  %s: %s", name, s.Errors[name])))
			b.WriteByte('\n')
		}
	}

	return b.String()
}
