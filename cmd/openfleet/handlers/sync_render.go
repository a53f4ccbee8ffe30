package handlers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/openfleet/openfleet/internal/orchestration"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorRed   = lipgloss.Color("#ef4444")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorDim   = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	dimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	greenStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	redStyle     = lipgloss.NewStyle().Foreground(colorRed)
)

// renderOutcomes produces a lipgloss-styled per-cluster outcome table.
func renderOutcomes(outcomes []orchestration.Outcome) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  openfleet sync"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("═", 30)))
	b.WriteString("\n\n")

	b.WriteString(dimStyle.Render(fmt.Sprintf("  %-16s %-10s %-18s %6s %6s %8s", "Cluster", "Status", "Release", "Hosts", "Insts", "Time")))
	b.WriteString("\n")

	for _, out := range outcomes {
		release := out.Release
		if release == "" {
			release = "-"
		}
		line := fmt.Sprintf("  %-16s %s %-18s %6d %6d %7.1fs",
			out.ClusterName, renderStatus(out.Status), release, out.Hosts, out.Instances, out.Duration().Seconds())
		b.WriteString(line)
		b.WriteString("\n")
		if out.Err != nil {
			b.WriteString(redStyle.Render(fmt.Sprintf("    %v", out.Err)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(renderOutcomeTotals(outcomes))
	return b.String()
}

func renderStatus(status orchestration.Status) string {
	padded := fmt.Sprintf("%-10s", status)
	switch status {
	case orchestration.StatusSucceeded:
		return greenStyle.Render(padded)
	case orchestration.StatusFailed:
		return redStyle.Render(padded)
	default:
		return dimStyle.Render(padded)
	}
}

func renderOutcomeTotals(outcomes []orchestration.Outcome) string {
	succeeded, failed, skipped, hosts, instances := 0, 0, 0, 0, 0
	for _, out := range outcomes {
		switch out.Status {
		case orchestration.StatusSucceeded:
			succeeded++
			hosts += out.Hosts
			instances += out.Instances
		case orchestration.StatusFailed:
			failed++
		case orchestration.StatusSkipped:
			skipped++
		}
	}

	summary := fmt.Sprintf("  %d succeeded, %d failed, %d skipped  (%d hosts, %d instances)\n",
		succeeded, failed, skipped, hosts, instances)
	if failed > 0 {
		return redStyle.Render(summary)
	}
	return dimStyle.Render(summary)
}
