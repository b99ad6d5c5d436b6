package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeficiencyKey(t *testing.T) {
	tests := []struct {
		name       string
		deficiency Deficiency
		want       string
	}{
		{
			name: "category and coverage type",
			deficiency: Deficiency{
				Category:     CategoryCoverageBelowMinimum,
				CoverageType: CoverageGL,
			},
			want: "coverage_below_minimum/general_liability",
		},
		{
			name: "detail disambiguates findings on the same coverage",
			deficiency: Deficiency{
				Category:     CategoryMissingEndorsement,
				CoverageType: CoverageGL,
				Detail:       "waiver_of_subrogation",
			},
			want: "missing_endorsement/general_liability/waiver_of_subrogation",
		},
		{
			name: "category only",
			deficiency: Deficiency{
				Category: CategoryCondoExclusion,
			},
			want: "condo_exclusion",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.deficiency.Key())
		})
	}
}

func TestDeficiencyKeyStableAcrossRuns(t *testing.T) {
	d := Deficiency{
		Category:     CategoryCoverageBelowMinimum,
		CoverageType: CoverageUmbrella,
		Detail:       "aggregate",
		// Presentation fields must not affect identity.
		Description:   "limit is below the required minimum",
		RequiredValue: "$2,000,000",
		ActualValue:   "$1,000,000",
	}

	first := d.Key()
	d.Description = "reworded description"
	d.ActualValue = "$1,500,000"
	assert.Equal(t, first, d.Key())
}

func TestSeverityWorseThan(t *testing.T) {
	assert.True(t, SeverityCritical.WorseThan(SeverityMajor))
	assert.True(t, SeverityMajor.WorseThan(SeverityMinor))
	assert.False(t, SeverityMinor.WorseThan(SeverityMajor))
	assert.False(t, SeverityMajor.WorseThan(SeverityMajor))
}

func TestWorstSeverity(t *testing.T) {
	result := ComplianceResult{
		Issues: []Deficiency{
			{Severity: SeverityMinor},
			{Severity: SeverityCritical},
			{Severity: SeverityMajor},
		},
	}
	assert.Equal(t, SeverityCritical, result.WorstSeverity())

	empty := ComplianceResult{}
	assert.Equal(t, Severity(""), empty.WorstSeverity())

	// Excluded trades escalate to critical even without findings.
	excluded := ComplianceResult{
		ExcludedTrades: []ExcludedTrade{{Trade: "roofing", MatchedPhrase: "no roofing"}},
	}
	assert.Equal(t, SeverityCritical, excluded.WorstSeverity())
}

func TestStatusForSeverity(t *testing.T) {
	assert.Equal(t, StatusCriticalIssues, StatusForSeverity(SeverityCritical))
	assert.Equal(t, StatusMajorIssues, StatusForSeverity(SeverityMajor))
	assert.Equal(t, StatusMinorIssues, StatusForSeverity(SeverityMinor))
	assert.Equal(t, StatusCompliant, StatusForSeverity(""))
}
