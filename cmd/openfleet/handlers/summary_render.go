package handlers

import (
	"fmt"
	"strings"

	"github.com/openfleet/openfleet/internal/summary"
)

// renderSummary produces a lipgloss-styled utilization table for the fleet.
func renderSummary(fleet []summary.ClusterStats) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  openfleet summary"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("═", 30)))
	b.WriteString("\n")

	for _, stats := range fleet {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(fmt.Sprintf("  %s", stats.ClusterName)))
		if stats.Release != "" {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  (%s)", stats.Release)))
		}
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("  " + strings.Repeat("─", 44)))
		b.WriteString("\n")

		b.WriteString(fmt.Sprintf("    Hosts:     %d (%d reachable)\n", stats.HostCount, stats.ReachableHosts))
		b.WriteString(fmt.Sprintf("    Instances: %d\n", stats.InstanceCount))
		b.WriteString(fmt.Sprintf("    CPU:       %d / %d vCPUs  %s\n", stats.UsedCPU, stats.TotalCPU, renderPct(stats.CPUPct)))
		b.WriteString(fmt.Sprintf("    Memory:    %d / %d GB  %s\n", stats.UsedMemGB, stats.TotalMemGB, renderPct(stats.MemPct)))
		if stats.ActiveAlerts > 0 {
			b.WriteString(redStyle.Render(fmt.Sprintf("    Alerts:    %d active", stats.ActiveAlerts)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	return b.String()
}

func renderPct(pct float64) string {
	text := fmt.Sprintf("%5.1f%%", pct)
	switch {
	case pct >= 90:
		return redStyle.Render(text)
	case pct >= 70:
		return titleStyle.Render(text)
	default:
		return greenStyle.Render(text)
	}
}
