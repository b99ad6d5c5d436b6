package model

import "time"

// OverallStatus is the merged compliance verdict tier.
type OverallStatus string

// Overall status constants.
const (
	StatusCompliant      OverallStatus = "compliant"
	StatusMinorIssues    OverallStatus = "minor_issues"
	StatusMajorIssues    OverallStatus = "major_issues"
	StatusCriticalIssues OverallStatus = "critical_issues"
)

// ComplianceResult is the verdict produced for one certificate against one
// project. Issues and ExcludedTrades come from the deterministic engine;
// OverallStatus and Summary are filled in by the analysis merge step.
type ComplianceResult struct {
	ValidatedAt    time.Time       `json:"validated_at"`
	COIID          string          `json:"coi_id"`
	ProjectID      string          `json:"project_id"`
	Summary        string          `json:"summary,omitempty"`
	OverallStatus  OverallStatus   `json:"overall_status,omitempty"`
	Issues         []Deficiency    `json:"issues"`
	ExcludedTrades []ExcludedTrade `json:"excluded_trades"`
	Warnings       []string        `json:"warnings"`
	Compliant      bool            `json:"compliant"`
}

// WorstSeverity returns the most severe finding severity, or "" when there
// are no findings.
func (r *ComplianceResult) WorstSeverity() Severity {
	var worst Severity
	for _, d := range r.Issues {
		if worst == "" || d.Severity.WorseThan(worst) {
			worst = d.Severity
		}
	}
	if len(r.ExcludedTrades) > 0 && worst != SeverityCritical {
		worst = SeverityCritical
	}
	return worst
}

// StatusForSeverity maps a finding severity to an overall status tier.
func StatusForSeverity(s Severity) OverallStatus {
	switch s {
	case SeverityCritical:
		return StatusCriticalIssues
	case SeverityMajor:
		return StatusMajorIssues
	case SeverityMinor:
		return StatusMinorIssues
	default:
		return StatusCompliant
	}
}
