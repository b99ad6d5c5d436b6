// Package model defines the core domain models used throughout the application.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CoverageType identifies a line of insurance coverage on a certificate.
type CoverageType string

// Coverage type constants.
const (
	CoverageGL           CoverageType = "general_liability"
	CoverageUmbrella     CoverageType = "umbrella"
	CoverageWC           CoverageType = "workers_comp"
	CoverageAuto         CoverageType = "auto"
	CoverageProfessional CoverageType = "professional"
	CoveragePollution    CoverageType = "pollution"
)

// PolicyBasis indicates how a liability policy responds to claims.
type PolicyBasis string

// Policy basis constants. An unset basis normalizes to BasisUnknown.
const (
	BasisOccurrence PolicyBasis = "occurrence"
	BasisClaimsMade PolicyBasis = "claims_made"
	BasisUnknown    PolicyBasis = ""
)

// Policy is one coverage line on a certificate of insurance. Limit fields
// are nil when the certificate does not state them.
type Policy struct {
	EffectiveDate       *time.Time       `json:"effective_date,omitempty"`
	ExpirationDate      *time.Time       `json:"expiration_date,omitempty"`
	EachOccurrence      *decimal.Decimal `json:"each_occurrence,omitempty"`
	Aggregate           *decimal.Decimal `json:"aggregate,omitempty"`
	DiseasePolicy       *decimal.Decimal `json:"disease_policy,omitempty"`
	DiseaseEachEmployee *decimal.Decimal `json:"disease_each_employee,omitempty"`
	CombinedSingleLimit *decimal.Decimal `json:"combined_single_limit,omitempty"`
	Carrier             string           `json:"carrier,omitempty"`
	PolicyNumber        string           `json:"policy_number,omitempty"`
	Basis               PolicyBasis      `json:"basis,omitempty"`
}

// Endorsements holds the endorsement flags stated on a certificate.
type Endorsements struct {
	BlanketAdditionalInsured bool `json:"blanket_additional_insured"`
	WaiverOfSubrogation      bool `json:"waiver_of_subrogation"`
	PrimaryNonContributory   bool `json:"primary_non_contributory"`
	PerProjectAggregate      bool `json:"per_project_aggregate"`
}

// Exclusions holds the exclusion flags and parameters stated on a
// certificate or discovered in its policy forms.
type Exclusions struct {
	HeightLimitationStories   *int     `json:"height_limitation_stories,omitempty"`
	MaxUnits                  *int     `json:"max_units,omitempty"`
	ClassificationLimitations []string `json:"classification_limitations,omitempty"`
	TradeSpecific             []string `json:"trade_specific,omitempty"`
	HasHeightLimitation       bool     `json:"has_height_limitation"`
	HasUnitLimitation         bool     `json:"has_unit_limitation"`
	Subsidence                bool     `json:"subsidence_exclusion"`
	Condo                     bool     `json:"condo_exclusion"`
	HammerClause              bool     `json:"hammer_clause"`
	ActionOver                bool     `json:"action_over_exclusion"`
	ExteriorWork              bool     `json:"exterior_work_exclusion"`
}

// CoverageRecord is a structured certificate of insurance as submitted by a
// subcontractor. Validation never mutates it; resubmission supersedes it.
type CoverageRecord struct {
	Policies            map[CoverageType]Policy `json:"policies"`
	COIID               string                  `json:"coi_id"`
	PolicyNotes         string                  `json:"policy_notes,omitempty"`
	ExclusionsText      string                  `json:"exclusions_text,omitempty"`
	PremiumBasisNote    string                  `json:"premium_basis_note,omitempty"`
	Trades              []string                `json:"trades"`
	ClassificationCodes []string                `json:"classification_codes,omitempty"`
	Endorsements        Endorsements            `json:"endorsements"`
	Exclusions          Exclusions              `json:"exclusions"`
}

// Policy returns the policy for the given coverage type and whether the
// certificate carries one.
func (r *CoverageRecord) Policy(ct CoverageType) (Policy, bool) {
	if r.Policies == nil {
		return Policy{}, false
	}
	p, ok := r.Policies[ct]
	return p, ok
}
