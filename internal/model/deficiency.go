package model

// Severity classifies how serious a deficiency is.
type Severity string

// Severity constants, most severe first.
const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
)

// severityRank orders severities for comparison; higher is worse.
var severityRank = map[Severity]int{
	SeverityMinor:    1,
	SeverityMajor:    2,
	SeverityCritical: 3,
}

// WorseThan reports whether s is more severe than other.
func (s Severity) WorseThan(other Severity) bool {
	return severityRank[s] > severityRank[other]
}

// DeficiencyCategory identifies the kind of gap a deficiency describes.
type DeficiencyCategory string

// Deficiency category constants.
const (
	CategoryCoverageBelowMinimum   DeficiencyCategory = "coverage_below_minimum"
	CategoryMissingEndorsement     DeficiencyCategory = "missing_endorsement"
	CategoryWrongPolicyBasis       DeficiencyCategory = "wrong_policy_basis"
	CategoryHeightLimitation       DeficiencyCategory = "height_limitation"
	CategoryUnitLimitation         DeficiencyCategory = "unit_limitation"
	CategorySubsidenceExclusion    DeficiencyCategory = "subsidence_exclusion"
	CategoryCondoExclusion         DeficiencyCategory = "condo_exclusion"
	CategoryHammerClause           DeficiencyCategory = "hammer_clause"
	CategoryActionOverExclusion    DeficiencyCategory = "action_over_exclusion"
	CategoryExteriorWorkExclusion  DeficiencyCategory = "exterior_work_exclusion"
	CategoryClassificationLimit    DeficiencyCategory = "classification_limitation"
	CategoryTradeSpecificExclusion DeficiencyCategory = "trade_specific_exclusion"
	CategoryOther                  DeficiencyCategory = "other"
)

// Deficiency is a single identified gap between required and actual
// coverage or terms. Deficiencies are produced fresh on every validation
// run; only the derived report and the override ledger persist.
type Deficiency struct {
	Category      DeficiencyCategory `json:"category"`
	CoverageType  CoverageType       `json:"coverage_type,omitempty"`
	Severity      Severity           `json:"severity"`
	Description   string             `json:"description"`
	RequiredValue string             `json:"required_value,omitempty"`
	ActualValue   string             `json:"actual_value,omitempty"`
	Remediation   string             `json:"remediation,omitempty"`
	Detail        string             `json:"detail,omitempty"`
	Overridable   bool               `json:"overridable"`
}

// Key returns the stable identifier used to match overrides against
// findings across validation runs. It is derived from the category and
// coverage type so that re-running validation on unchanged input yields
// the same keys.
func (d Deficiency) Key() string {
	key := string(d.Category)
	if d.CoverageType != "" {
		key += "/" + string(d.CoverageType)
	}
	if d.Detail != "" {
		key += "/" + d.Detail
	}
	return key
}

// ExcludedTrade records a trade excluded by policy language, with the
// phrase that matched.
type ExcludedTrade struct {
	Trade         string `json:"trade"`
	MatchedPhrase string `json:"matched_phrase"`
}
