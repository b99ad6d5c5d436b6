package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	limit := decimal.NewFromInt(1000000)
	original := CoverageRecord{
		COIID: "coi-1",
		Policies: map[CoverageType]Policy{
			CoverageGL: {EachOccurrence: &limit},
		},
		Trades:      []string{" Roofing ", "", "electrical"},
		PolicyNotes: "  some notes  ",
	}

	normalized := original.Normalize()

	assert.Equal(t, []string{"Roofing", "electrical"}, normalized.Trades)
	assert.Equal(t, "some notes", normalized.PolicyNotes)

	// Input untouched.
	assert.Equal(t, []string{" Roofing ", "", "electrical"}, original.Trades)
	assert.Equal(t, "  some notes  ", original.PolicyNotes)

	// Policy map is a copy, not an alias.
	normalized.Policies[CoverageWC] = Policy{}
	_, ok := original.Policies[CoverageWC]
	assert.False(t, ok)
}

func TestNormalizeDropsOrphanLimitationParams(t *testing.T) {
	stories := 5
	units := 20

	rec := CoverageRecord{
		Exclusions: Exclusions{
			HeightLimitationStories: &stories,
			MaxUnits:                &units,
		},
	}

	normalized := rec.Normalize()
	assert.Nil(t, normalized.Exclusions.HeightLimitationStories)
	assert.Nil(t, normalized.Exclusions.MaxUnits)

	rec.Exclusions.HasHeightLimitation = true
	rec.Exclusions.HasUnitLimitation = true
	normalized = rec.Normalize()
	assert.Equal(t, &stories, normalized.Exclusions.HeightLimitationStories)
	assert.Equal(t, &units, normalized.Exclusions.MaxUnits)
}

func TestNormalizeTrade(t *testing.T) {
	assert.Equal(t, "roofing", NormalizeTrade(" Roofing "))
	assert.Equal(t, "steel erection", NormalizeTrade("Steel Erection"))
	assert.Equal(t, "", NormalizeTrade("   "))
}

func TestIsCondo(t *testing.T) {
	tests := []struct {
		projectType string
		want        bool
	}{
		{"condo", true},
		{"Condominium", true},
		{" CONDOS ", true},
		{"condominiums", true},
		{"apartment", false},
		{"", false},
		{"mixed-use", false},
	}

	for _, tt := range tests {
		p := ProjectContext{ProjectType: tt.projectType}
		assert.Equal(t, tt.want, p.IsCondo(), "project type %q", tt.projectType)
	}
}
