package cost

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Formatter formats cost reports for display.
type Formatter struct{}

// NewFormatter creates a new formatter.
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Format returns a formatted project cost report for terminal display.
func (f *Formatter) Format(r *ProjectReport) string {
	var sb strings.Builder

	width := 61

	sb.WriteString(boxTop(width))
	sb.WriteString(boxLine("openfleet Monthly Cost by Project", width))
	sb.WriteString(boxSep(width))
	sb.WriteString(boxLine(fmt.Sprintf("%-24s %5s %6s %12s", "Project", "Insts", "vCPUs", "Cost/mo"), width))
	sb.WriteString(boxDash(width))

	for _, p := range r.Projects {
		sb.WriteString(boxLine(fmt.Sprintf("%-24s %5d %6d %8.2f %s",
			truncate(p.ProjectID, 24), p.InstanceCount, p.VCPUs, p.TotalMonthly, r.Currency), width))
	}

	sb.WriteString(boxDash(width))
	sb.WriteString(boxLine(fmt.Sprintf("%-37s %8.2f %s", "Total", r.TotalMonthly, r.Currency), width))
	sb.WriteString(boxLine(fmt.Sprintf("%-37s %8.2f %s", "Projected yearly", r.ProjectedYearly, r.Currency), width))
	sb.WriteString(boxBottom(width))

	return sb.String()
}

// FormatCompact returns a single-line fleet cost summary.
func (f *Formatter) FormatCompact(r *ProjectReport) string {
	return fmt.Sprintf("%d projects: %.2f %s/mo (%.2f %s/yr)",
		len(r.Projects), r.TotalMonthly, r.Currency, r.ProjectedYearly, r.Currency)
}

// FormatJSON returns the report as JSON.
func (f *Formatter) FormatJSON(r *ProjectReport) string {
	data, _ := json.MarshalIndent(r, "", "  ")
	return string(data)
}

// FormatCluster returns a formatted single-cluster cost report.
func (f *Formatter) FormatCluster(r *ClusterReport) string {
	var sb strings.Builder

	width := 45

	sb.WriteString(boxTop(width))
	sb.WriteString(boxLine(fmt.Sprintf("Cluster: %s", r.ClusterName), width))
	sb.WriteString(boxSep(width))
	sb.WriteString(boxLine(fmt.Sprintf("%-22s %6d", "Hosts", r.HostCount), width))
	sb.WriteString(boxLine(fmt.Sprintf("%-22s %6d", "Instances", r.InstanceCount), width))
	sb.WriteString(boxLine(fmt.Sprintf("%-20s %8.2f %s", "Monthly total", r.TotalMonthly, r.Currency), width))
	sb.WriteString(boxLine(fmt.Sprintf("%-20s %8.2f %s", "Avg per instance", r.AvgPerInstance, r.Currency), width))
	sb.WriteString(boxBottom(width))

	return sb.String()
}

// Helper functions for box drawing

func boxTop(width int) string {
	return fmt.Sprintf("┌%s┐\n", strings.Repeat("─", width-2))
}

func boxBottom(width int) string {
	return fmt.Sprintf("└%s┘\n", strings.Repeat("─", width-2))
}

func boxSep(width int) string {
	return fmt.Sprintf("├%s┤\n", strings.Repeat("─", width-2))
}

func boxDash(width int) string {
	return fmt.Sprintf("│ %s │\n", strings.Repeat("─", width-4))
}

func boxLine(text string, width int) string {
	padding := width - 4 - len([]rune(text))
	if padding < 0 {
		padding = 0
	}
	return fmt.Sprintf("│ %s%s │\n", text, strings.Repeat(" ", padding))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
