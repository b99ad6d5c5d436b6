package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/certwise/coiguard/internal/model"
)

// Formatter renders compliance results.
type Formatter struct {
	styles *Styles
}

// NewFormatter creates a formatter with default styles.
func NewFormatter() *Formatter {
	return &Formatter{styles: NewStyles()}
}

// Format renders a compliance result as styled terminal output.
func (f *Formatter) Format(result *model.ComplianceResult) string {
	var b strings.Builder

	b.WriteString(f.styles.Title.Render(fmt.Sprintf("Compliance Report — COI %s", result.COIID)))
	b.WriteString("\n\n")

	b.WriteString(f.verdictLine(result))
	b.WriteString("\n")

	if result.Summary != "" {
		b.WriteString(f.styles.Subtle.Render(result.Summary))
		b.WriteString("\n")
	}

	if len(result.Issues) > 0 {
		b.WriteString("\n")
		b.WriteString(f.styles.Title.Render(fmt.Sprintf("Findings (%d)", len(result.Issues))))
		b.WriteString("\n")
		for _, d := range result.Issues {
			b.WriteString(f.formatDeficiency(d))
		}
	}

	if len(result.ExcludedTrades) > 0 {
		b.WriteString("\n")
		b.WriteString(f.styles.Error.Render(fmt.Sprintf("Excluded trades (%d)", len(result.ExcludedTrades))))
		b.WriteString("\n")
		for _, e := range result.ExcludedTrades {
			b.WriteString(fmt.Sprintf("  • %s (matched %q)\n", e.Trade, e.MatchedPhrase))
		}
	}

	if len(result.Warnings) > 0 {
		b.WriteString("\n")
		b.WriteString(f.styles.Warning.Render(fmt.Sprintf("Warnings (%d)", len(result.Warnings))))
		b.WriteString("\n")
		for _, w := range result.Warnings {
			b.WriteString(fmt.Sprintf("  • %s\n", w))
		}
	}

	return f.styles.Box.Render(b.String())
}

func (f *Formatter) verdictLine(result *model.ComplianceResult) string {
	if result.Compliant {
		return f.styles.Success.Render("✓ COMPLIANT")
	}
	status := string(result.OverallStatus)
	if status == "" {
		status = "non-compliant"
	}
	return f.styles.Error.Render("✗ NOT COMPLIANT") + f.styles.Subtle.Render(" ("+status+")")
}

func (f *Formatter) formatDeficiency(d model.Deficiency) string {
	var severity lipgloss.Style
	switch d.Severity {
	case model.SeverityCritical:
		severity = f.styles.Critical
	case model.SeverityMajor:
		severity = f.styles.Major
	default:
		severity = f.styles.Minor
	}

	line := fmt.Sprintf("  %s %s", severity.Render("["+strings.ToUpper(string(d.Severity))+"]"), d.Description)
	if d.RequiredValue != "" || d.ActualValue != "" {
		line += f.styles.Subtle.Render(fmt.Sprintf(" (required: %s, actual: %s)", d.RequiredValue, d.ActualValue))
	}
	return line + "\n"
}

// FormatHistory renders override ledger events.
func (f *Formatter) FormatHistory(events []model.OverrideRecord) string {
	if len(events) == 0 {
		return f.styles.Subtle.Render("No override events.")
	}

	var b strings.Builder
	for _, ev := range events {
		verb := "override"
		if ev.Kind == model.OverrideRevoked {
			verb = "revoke"
		}
		b.WriteString(fmt.Sprintf("%s  %-8s  %-40s  %s", ev.CreatedAt.Format("2006-01-02 15:04:05"), verb, ev.DeficiencyKey, ev.Actor))
		if ev.Reason != "" {
			b.WriteString(f.styles.Subtle.Render("  — " + ev.Reason))
		}
		b.WriteString("\n")
	}
	return b.String()
}
