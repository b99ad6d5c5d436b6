package engine

import (
	"time"

	"github.com/certwise/coiguard/internal/model"
)

// Aggregate merges the two validators' outputs into one compliance result.
// Limit findings come first, then exclusion findings, each in the order
// its validator produced them: the combined list must be byte-identical
// across runs over unchanged input, because override matching keys off
// finding identity.
func Aggregate(rec model.CoverageRecord, project model.ProjectContext, limitFindings []model.Deficiency, limitWarnings []string, exclusions ExclusionFindings, at time.Time) model.ComplianceResult {
	issues := make([]model.Deficiency, 0, len(limitFindings)+len(exclusions.Findings))
	issues = append(issues, limitFindings...)
	issues = append(issues, exclusions.Findings...)

	warnings := make([]string, 0, len(limitWarnings)+len(exclusions.Warnings))
	warnings = append(warnings, limitWarnings...)
	warnings = append(warnings, exclusions.Warnings...)

	excluded := exclusions.ExcludedTrades
	if excluded == nil {
		excluded = []model.ExcludedTrade{}
	}

	return model.ComplianceResult{
		COIID:          rec.COIID,
		ProjectID:      project.ProjectID,
		ValidatedAt:    at,
		Compliant:      len(issues) == 0 && len(excluded) == 0,
		Issues:         issues,
		ExcludedTrades: excluded,
		Warnings:       warnings,
	}
}
