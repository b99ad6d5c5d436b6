package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/certwise/coiguard/internal/model"
)

func TestFormatCompliantResult(t *testing.T) {
	f := NewFormatter()

	out := f.Format(&model.ComplianceResult{
		COIID:     "coi-1",
		Compliant: true,
		Summary:   "Certificate meets all program requirements.",
	})

	assert.Contains(t, out, "coi-1")
	assert.Contains(t, out, "COMPLIANT")
	assert.Contains(t, out, "meets all program requirements")
}

func TestFormatNonCompliantResult(t *testing.T) {
	f := NewFormatter()

	out := f.Format(&model.ComplianceResult{
		COIID:         "coi-2",
		Compliant:     false,
		OverallStatus: model.StatusCriticalIssues,
		Issues: []model.Deficiency{{
			Category:      model.CategoryCoverageBelowMinimum,
			CoverageType:  model.CoverageGL,
			Severity:      model.SeverityCritical,
			Description:   "General Liability each occurrence limit is below the required minimum",
			RequiredValue: "$1,000,000",
			ActualValue:   "$500,000",
		}},
		ExcludedTrades: []model.ExcludedTrade{{Trade: "roofing", MatchedPhrase: "no roofing"}},
		Warnings:       []string{"policy expires soon"},
	})

	assert.Contains(t, out, "NOT COMPLIANT")
	assert.Contains(t, out, "CRITICAL")
	assert.Contains(t, out, "$1,000,000")
	assert.Contains(t, out, "$500,000")
	assert.Contains(t, out, "roofing")
	assert.Contains(t, out, "no roofing")
	assert.Contains(t, out, "policy expires soon")
}

func TestFormatHistory(t *testing.T) {
	f := NewFormatter()

	assert.Contains(t, f.FormatHistory(nil), "No override events")

	out := f.FormatHistory([]model.OverrideRecord{
		{
			CreatedAt:     time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC),
			DeficiencyKey: "hammer_clause/general_liability",
			Actor:         "admin@example.com",
			Reason:        "carrier letter on file",
			Kind:          model.OverrideApplied,
		},
		{
			CreatedAt:     time.Date(2026, 8, 16, 9, 0, 0, 0, time.UTC),
			DeficiencyKey: "hammer_clause/general_liability",
			Actor:         "admin@example.com",
			Kind:          model.OverrideRevoked,
		},
	})

	assert.Contains(t, out, "override")
	assert.Contains(t, out, "revoke")
	assert.Contains(t, out, "hammer_clause/general_liability")
	assert.Contains(t, out, "carrier letter on file")
}
