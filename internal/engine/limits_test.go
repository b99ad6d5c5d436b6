package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certwise/coiguard/internal/model"
)

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func dec(n int64) *decimal.Decimal {
	d := decimal.NewFromInt(n)
	return &d
}

func glRequirement(occ, agg int64) model.RequirementRecord {
	return model.RequirementRecord{
		ProgramID: "prog",
		Trades:    []string{"roofing"},
		Limits: map[model.CoverageType]model.LimitSet{
			model.CoverageGL: {
				EachOccurrence: decimal.NewFromInt(occ),
				Aggregate:      decimal.NewFromInt(agg),
			},
		},
	}
}

func TestCheckLimitsBoundaryEquality(t *testing.T) {
	rec := model.CoverageRecord{
		Policies: map[model.CoverageType]model.Policy{
			model.CoverageGL: {
				EachOccurrence: dec(1000000),
				Aggregate:      dec(2000000),
			},
		},
	}

	findings, warnings, tierCompliant := CheckLimits(rec, []model.RequirementRecord{glRequirement(1000000, 2000000)}, testNow)

	assert.Empty(t, findings, "actual equal to required must be compliant")
	assert.Empty(t, warnings)
	assert.True(t, tierCompliant)
}

func TestCheckLimitsBelowMinimum(t *testing.T) {
	rec := model.CoverageRecord{
		Policies: map[model.CoverageType]model.Policy{
			model.CoverageGL: {
				EachOccurrence: dec(500000),
				Aggregate:      dec(2000000),
			},
		},
	}

	findings, _, tierCompliant := CheckLimits(rec, []model.RequirementRecord{glRequirement(1000000, 2000000)}, testNow)

	require.Len(t, findings, 1)
	assert.False(t, tierCompliant)

	f := findings[0]
	assert.Equal(t, model.CategoryCoverageBelowMinimum, f.Category)
	assert.Equal(t, model.CoverageGL, f.CoverageType)
	assert.Equal(t, model.SeverityCritical, f.Severity)
	assert.Equal(t, "$1,000,000", f.RequiredValue)
	assert.Equal(t, "$500,000", f.ActualValue)
	assert.NotEmpty(t, f.Remediation)
	assert.True(t, f.Overridable)
}

func TestCheckLimitsOneDirectional(t *testing.T) {
	// Coverage above the requirement never produces a finding.
	rec := model.CoverageRecord{
		Policies: map[model.CoverageType]model.Policy{
			model.CoverageGL: {
				EachOccurrence: dec(5000000),
				Aggregate:      dec(10000000),
			},
		},
	}

	findings, _, _ := CheckLimits(rec, []model.RequirementRecord{glRequirement(1000000, 2000000)}, testNow)
	assert.Empty(t, findings)
}

func TestCheckLimitsCoverageNotProvided(t *testing.T) {
	rec := model.CoverageRecord{}

	findings, _, _ := CheckLimits(rec, []model.RequirementRecord{glRequirement(1000000, 2000000)}, testNow)

	require.Len(t, findings, 1)
	assert.Equal(t, model.SeverityCritical, findings[0].Severity)
	assert.Equal(t, "not provided", findings[0].ActualValue)
	assert.Contains(t, findings[0].RequiredValue, "$1,000,000")
}

func TestCheckLimitsStatedLimitMissing(t *testing.T) {
	// The policy exists but does not state the aggregate.
	rec := model.CoverageRecord{
		Policies: map[model.CoverageType]model.Policy{
			model.CoverageGL: {
				EachOccurrence: dec(1000000),
			},
		},
	}

	findings, _, _ := CheckLimits(rec, []model.RequirementRecord{glRequirement(1000000, 2000000)}, testNow)

	require.Len(t, findings, 1)
	assert.Equal(t, "not provided", findings[0].ActualValue)
	assert.Equal(t, "aggregate", findings[0].Detail)
}

func TestCheckLimitsEffectiveUmbrella(t *testing.T) {
	// GL carries $1.5M against a $1M requirement; the $500k excess rolls
	// into the umbrella layer, so a $1.5M umbrella meets a $2M requirement.
	req := model.RequirementRecord{
		ProgramID: "prog",
		Trades:    []string{"roofing"},
		Limits: map[model.CoverageType]model.LimitSet{
			model.CoverageGL:       {EachOccurrence: decimal.NewFromInt(1000000)},
			model.CoverageUmbrella: {EachOccurrence: decimal.NewFromInt(2000000)},
		},
	}
	rec := model.CoverageRecord{
		Policies: map[model.CoverageType]model.Policy{
			model.CoverageGL:       {EachOccurrence: dec(1500000)},
			model.CoverageUmbrella: {EachOccurrence: dec(1500000)},
		},
	}

	findings, _, tierCompliant := CheckLimits(rec, []model.RequirementRecord{req}, testNow)
	assert.Empty(t, findings)
	assert.True(t, tierCompliant)
}

func TestCheckLimitsEffectiveUmbrellaInsufficient(t *testing.T) {
	req := model.RequirementRecord{
		ProgramID: "prog",
		Trades:    []string{"roofing"},
		Limits: map[model.CoverageType]model.LimitSet{
			model.CoverageGL:       {EachOccurrence: decimal.NewFromInt(1000000)},
			model.CoverageUmbrella: {EachOccurrence: decimal.NewFromInt(5000000)},
		},
	}
	rec := model.CoverageRecord{
		Policies: map[model.CoverageType]model.Policy{
			model.CoverageGL:       {EachOccurrence: dec(1500000)},
			model.CoverageUmbrella: {EachOccurrence: dec(2000000)},
		},
	}

	findings, _, _ := CheckLimits(rec, []model.RequirementRecord{req}, testNow)

	require.Len(t, findings, 1)
	assert.Equal(t, model.CoverageUmbrella, findings[0].CoverageType)
	// Effective umbrella is 2.0M + 0.5M excess = 2.5M, still below 5M.
	assert.Equal(t, "$2,500,000", findings[0].ActualValue)
}

func TestCheckLimitsClaimsMadeBasis(t *testing.T) {
	rec := model.CoverageRecord{
		Policies: map[model.CoverageType]model.Policy{
			model.CoverageGL: {
				EachOccurrence: dec(1000000),
				Aggregate:      dec(2000000),
				Basis:          model.BasisClaimsMade,
			},
		},
	}

	findings, _, _ := CheckLimits(rec, []model.RequirementRecord{glRequirement(1000000, 2000000)}, testNow)

	require.Len(t, findings, 1)
	f := findings[0]
	assert.Equal(t, model.CategoryWrongPolicyBasis, f.Category)
	assert.Equal(t, model.SeverityCritical, f.Severity, "claims-made is critical even when limits are met")
	assert.Equal(t, "occurrence basis", f.RequiredValue)
}

func TestCheckLimitsExpiredPolicy(t *testing.T) {
	expired := testNow.Add(-48 * time.Hour)
	rec := model.CoverageRecord{
		Policies: map[model.CoverageType]model.Policy{
			model.CoverageGL: {
				EachOccurrence: dec(1000000),
				Aggregate:      dec(2000000),
				ExpirationDate: &expired,
			},
		},
	}

	findings, _, _ := CheckLimits(rec, []model.RequirementRecord{glRequirement(1000000, 2000000)}, testNow)

	require.Len(t, findings, 1)
	assert.Equal(t, model.SeverityCritical, findings[0].Severity)
	assert.Equal(t, "expired", findings[0].Detail)
}

func TestCheckLimitsNearExpiryWarning(t *testing.T) {
	soon := testNow.Add(10 * 24 * time.Hour)
	rec := model.CoverageRecord{
		Policies: map[model.CoverageType]model.Policy{
			model.CoverageGL: {
				EachOccurrence: dec(1000000),
				Aggregate:      dec(2000000),
				ExpirationDate: &soon,
			},
		},
	}

	findings, warnings, _ := CheckLimits(rec, []model.RequirementRecord{glRequirement(1000000, 2000000)}, testNow)

	assert.Empty(t, findings, "near-expiry is a warning, not a deficiency")
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "expires on")
}

func TestCheckEndorsementsConditionality(t *testing.T) {
	req := model.RequirementRecord{
		ProgramID: "prog",
		Trades:    []string{"roofing"},
		Limits: map[model.CoverageType]model.LimitSet{
			model.CoverageGL:   {EachOccurrence: decimal.NewFromInt(1000000)},
			model.CoverageAuto: {CombinedSingleLimit: decimal.NewFromInt(1000000)},
		},
		RequiresWaiverOfSubrogation: true,
	}
	rec := model.CoverageRecord{
		Policies: map[model.CoverageType]model.Policy{
			model.CoverageGL:   {EachOccurrence: dec(1000000)},
			model.CoverageAuto: {CombinedSingleLimit: dec(1000000)},
		},
	}

	findings, _, _ := CheckLimits(rec, []model.RequirementRecord{req}, testNow)

	// Waiver of subrogation applies to GL but never to auto.
	require.Len(t, findings, 1)
	assert.Equal(t, model.CategoryMissingEndorsement, findings[0].Category)
	assert.Equal(t, model.CoverageGL, findings[0].CoverageType)
	assert.Equal(t, model.SeverityMajor, findings[0].Severity)
	assert.Equal(t, "waiver_of_subrogation", findings[0].Detail)
}

func TestCheckEndorsementsPresent(t *testing.T) {
	req := glRequirement(1000000, 2000000)
	req.RequiresBlanketAdditionalInsured = true
	req.RequiresWaiverOfSubrogation = true

	rec := model.CoverageRecord{
		Policies: map[model.CoverageType]model.Policy{
			model.CoverageGL: {EachOccurrence: dec(1000000), Aggregate: dec(2000000)},
		},
		Endorsements: model.Endorsements{
			BlanketAdditionalInsured: true,
			WaiverOfSubrogation:      true,
		},
	}

	findings, _, _ := CheckLimits(rec, []model.RequirementRecord{req}, testNow)
	assert.Empty(t, findings)
}

func TestCheckEndorsementsDistinctKeys(t *testing.T) {
	req := glRequirement(1000000, 2000000)
	req.RequiresBlanketAdditionalInsured = true
	req.RequiresWaiverOfSubrogation = true

	rec := model.CoverageRecord{
		Policies: map[model.CoverageType]model.Policy{
			model.CoverageGL: {EachOccurrence: dec(1000000), Aggregate: dec(2000000)},
		},
	}

	findings, _, _ := CheckLimits(rec, []model.RequirementRecord{req}, testNow)

	require.Len(t, findings, 2)
	assert.NotEqual(t, findings[0].Key(), findings[1].Key(),
		"two missing endorsements on the same coverage must have distinct keys")
}

func TestMergeRequirementsElementwiseMax(t *testing.T) {
	reqs := []model.RequirementRecord{
		{
			Limits: map[model.CoverageType]model.LimitSet{
				model.CoverageGL: {
					EachOccurrence: decimal.NewFromInt(1000000),
					Aggregate:      decimal.NewFromInt(4000000),
				},
			},
		},
		{
			Limits: map[model.CoverageType]model.LimitSet{
				model.CoverageGL: {
					EachOccurrence: decimal.NewFromInt(2000000),
					Aggregate:      decimal.NewFromInt(2000000),
				},
			},
		},
	}

	merged := mergeRequirements(reqs)
	gl := merged.limits[model.CoverageGL]
	assert.True(t, gl.EachOccurrence.Equal(decimal.NewFromInt(2000000)))
	assert.True(t, gl.Aggregate.Equal(decimal.NewFromInt(4000000)))
}

func TestMergeRequirementsRelaxations(t *testing.T) {
	// A relaxation only holds when every matching record grants it.
	reqs := []model.RequirementRecord{
		{NoCondoExclusionRequired: true},
		{NoCondoExclusionRequired: false},
	}
	merged := mergeRequirements(reqs)
	assert.False(t, merged.noCondoExclusionRequired)

	reqs[1].NoCondoExclusionRequired = true
	merged = mergeRequirements(reqs)
	assert.True(t, merged.noCondoExclusionRequired)

	// No records grants nothing.
	merged = mergeRequirements(nil)
	assert.False(t, merged.noCondoExclusionRequired)
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "$0"},
		{500, "$500"},
		{1000, "$1,000"},
		{1000000, "$1,000,000"},
		{2500000, "$2,500,000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatMoney(decimal.NewFromInt(tt.amount)))
	}
}

func TestKeyify(t *testing.T) {
	assert.Equal(t, "each_occurrence", keyify("each occurrence"))
	assert.Equal(t, "primary_and_non_contributory", keyify("primary & non-contributory"))
	assert.Equal(t, "per_project_aggregate", keyify("per-project aggregate"))
}
