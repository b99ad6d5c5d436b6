package model

import "github.com/shopspring/decimal"

// LimitSet holds the minimum limits required for one coverage type. A zero
// value means the limit is not constrained.
type LimitSet struct {
	EachOccurrence      decimal.Decimal
	Aggregate           decimal.Decimal
	DiseasePolicy       decimal.Decimal
	DiseaseEachEmployee decimal.Decimal
	CombinedSingleLimit decimal.Decimal
}

// Zero reports whether the limit set constrains nothing.
func (l LimitSet) Zero() bool {
	return l.EachOccurrence.IsZero() &&
		l.Aggregate.IsZero() &&
		l.DiseasePolicy.IsZero() &&
		l.DiseaseEachEmployee.IsZero() &&
		l.CombinedSingleLimit.IsZero()
}

// RequirementRecord is one row of the requirement catalog: the minimum
// coverage a program demands from a trade at a given tier.
type RequirementRecord struct {
	Limits map[CoverageType]LimitSet

	ProgramID string
	Trades    []string
	Tier      int

	// Endorsement flags, evaluated per the coverage-type conditionality
	// rules in the limit validator.
	RequiresBlanketAdditionalInsured bool
	RequiresWaiverOfSubrogation      bool
	RequiresPrimaryNonContributory   bool
	RequiresPerProjectAggregate      bool

	// Trade-specific relaxations: when set, the corresponding exclusion
	// check is waived for subcontractors matched by this record.
	NoCondoExclusionRequired      bool
	NoHeightRestrictionRequired   bool
	NoSubsidenceExclusionRequired bool
}

// Requires reports whether the record constrains the given coverage type.
func (r *RequirementRecord) Requires(ct CoverageType) bool {
	if r.Limits == nil {
		return false
	}
	ls, ok := r.Limits[ct]
	return ok && !ls.Zero()
}
