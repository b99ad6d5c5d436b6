package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/certwise/coiguard/internal/model"
)

// coverageOrder fixes the order coverage types are checked in, so the
// finding list is stable across runs.
var coverageOrder = []model.CoverageType{
	model.CoverageGL,
	model.CoverageUmbrella,
	model.CoverageWC,
	model.CoverageAuto,
	model.CoverageProfessional,
	model.CoveragePollution,
}

// coverageLabels are the human-readable names used in descriptions.
var coverageLabels = map[model.CoverageType]string{
	model.CoverageGL:           "General Liability",
	model.CoverageUmbrella:     "Umbrella/Excess",
	model.CoverageWC:           "Workers' Compensation",
	model.CoverageAuto:         "Automobile Liability",
	model.CoverageProfessional: "Professional Liability",
	model.CoveragePollution:    "Pollution Liability",
}

// mergedRequirements is the union of all resolved requirement records:
// element-wise maximum limits, OR of endorsement demands, AND of
// trade-specific relaxations (a relaxation only holds if every matching
// record grants it).
type mergedRequirements struct {
	limits map[model.CoverageType]model.LimitSet

	requiresBlanketAdditionalInsured bool
	requiresWaiverOfSubrogation      bool
	requiresPrimaryNonContributory   bool
	requiresPerProjectAggregate      bool

	noCondoExclusionRequired      bool
	noHeightRestrictionRequired   bool
	noSubsidenceExclusionRequired bool
}

func mergeRequirements(reqs []model.RequirementRecord) mergedRequirements {
	m := mergedRequirements{
		limits: make(map[model.CoverageType]model.LimitSet),

		noCondoExclusionRequired:      len(reqs) > 0,
		noHeightRestrictionRequired:   len(reqs) > 0,
		noSubsidenceExclusionRequired: len(reqs) > 0,
	}

	for _, req := range reqs {
		for ct, ls := range req.Limits {
			have := m.limits[ct]
			m.limits[ct] = model.LimitSet{
				EachOccurrence:      decimal.Max(have.EachOccurrence, ls.EachOccurrence),
				Aggregate:           decimal.Max(have.Aggregate, ls.Aggregate),
				DiseasePolicy:       decimal.Max(have.DiseasePolicy, ls.DiseasePolicy),
				DiseaseEachEmployee: decimal.Max(have.DiseaseEachEmployee, ls.DiseaseEachEmployee),
				CombinedSingleLimit: decimal.Max(have.CombinedSingleLimit, ls.CombinedSingleLimit),
			}
		}

		m.requiresBlanketAdditionalInsured = m.requiresBlanketAdditionalInsured || req.RequiresBlanketAdditionalInsured
		m.requiresWaiverOfSubrogation = m.requiresWaiverOfSubrogation || req.RequiresWaiverOfSubrogation
		m.requiresPrimaryNonContributory = m.requiresPrimaryNonContributory || req.RequiresPrimaryNonContributory
		m.requiresPerProjectAggregate = m.requiresPerProjectAggregate || req.RequiresPerProjectAggregate

		m.noCondoExclusionRequired = m.noCondoExclusionRequired && req.NoCondoExclusionRequired
		m.noHeightRestrictionRequired = m.noHeightRestrictionRequired && req.NoHeightRestrictionRequired
		m.noSubsidenceExclusionRequired = m.noSubsidenceExclusionRequired && req.NoSubsidenceExclusionRequired
	}

	return m
}

func (m mergedRequirements) requires(ct model.CoverageType) bool {
	ls, ok := m.limits[ct]
	return ok && !ls.Zero()
}

// CheckLimits compares a certificate's numeric limits, dates, endorsement
// flags and policy basis against the resolved requirements. The comparison
// is one-directional: a deficiency is emitted only when actual < required.
// Returns the ordered finding list, non-blocking warnings, and whether the
// certificate is tier-compliant (zero findings from this validator).
func CheckLimits(rec model.CoverageRecord, reqs []model.RequirementRecord, now time.Time) ([]model.Deficiency, []string, bool) {
	var findings []model.Deficiency
	var warnings []string

	merged := mergeRequirements(reqs)

	for _, ct := range coverageOrder {
		if !merged.requires(ct) {
			continue
		}
		required := merged.limits[ct]

		policy, ok := rec.Policy(ct)
		if !ok {
			findings = append(findings, model.Deficiency{
				Category:      model.CategoryCoverageBelowMinimum,
				CoverageType:  ct,
				Severity:      model.SeverityCritical,
				Description:   fmt.Sprintf("%s coverage is required but not provided", coverageLabels[ct]),
				RequiredValue: describeLimits(required),
				ActualValue:   "not provided",
				Remediation:   fmt.Sprintf("Obtain %s coverage meeting the program minimums", coverageLabels[ct]),
				Overridable:   true,
			})
			continue
		}

		findings = append(findings, checkPolicyLimits(ct, policy, required, rec, merged.limits[model.CoverageGL])...)
		findings = append(findings, checkPolicyDates(ct, policy, now, &warnings)...)
	}

	findings = append(findings, checkPolicyBasis(rec)...)
	findings = append(findings, checkEndorsements(rec, merged)...)

	return findings, warnings, len(findings) == 0
}

// checkPolicyLimits compares each stated limit against the requirement.
// For umbrella coverage the effective limits include any GL capacity above
// the GL requirement, which functions as a de-facto umbrella layer.
func checkPolicyLimits(ct model.CoverageType, policy model.Policy, required model.LimitSet, rec model.CoverageRecord, glRequired model.LimitSet) []model.Deficiency {
	eachOcc := policy.EachOccurrence
	aggregate := policy.Aggregate

	if ct == model.CoverageUmbrella {
		excessOcc, excessAgg := glExcess(rec, glRequired)
		eachOcc = addExcess(eachOcc, excessOcc)
		aggregate = addExcess(aggregate, excessAgg)
	}

	var findings []model.Deficiency
	check := func(limitName string, actual *decimal.Decimal, min decimal.Decimal) {
		if min.IsZero() {
			return
		}
		actualValue := decimal.Zero
		actualText := "not provided"
		if actual != nil {
			actualValue = *actual
			actualText = formatMoney(actualValue)
		}
		if actualValue.GreaterThanOrEqual(min) {
			return
		}
		findings = append(findings, model.Deficiency{
			Category:      model.CategoryCoverageBelowMinimum,
			CoverageType:  ct,
			Severity:      model.SeverityCritical,
			Description:   fmt.Sprintf("%s %s limit is below the required minimum", coverageLabels[ct], limitName),
			RequiredValue: formatMoney(min),
			ActualValue:   actualText,
			Remediation:   fmt.Sprintf("Increase the %s %s limit to at least %s", coverageLabels[ct], limitName, formatMoney(min)),
			Detail:        keyify(limitName),
			Overridable:   true,
		})
	}

	check("each occurrence", eachOcc, required.EachOccurrence)
	check("aggregate", aggregate, required.Aggregate)
	check("disease policy", policy.DiseasePolicy, required.DiseasePolicy)
	check("disease each employee", policy.DiseaseEachEmployee, required.DiseaseEachEmployee)
	check("combined single limit", policy.CombinedSingleLimit, required.CombinedSingleLimit)

	return findings
}

// glExcess returns the GL capacity above the GL requirement, per limit.
// The rollover applies to GL only; excess capacity on other coverage
// types is not counted toward the umbrella layer.
func glExcess(rec model.CoverageRecord, glRequired model.LimitSet) (occ, agg decimal.Decimal) {
	gl, ok := rec.Policy(model.CoverageGL)
	if !ok {
		return decimal.Zero, decimal.Zero
	}

	if gl.EachOccurrence != nil && gl.EachOccurrence.GreaterThan(glRequired.EachOccurrence) {
		occ = gl.EachOccurrence.Sub(glRequired.EachOccurrence)
	}
	if gl.Aggregate != nil && gl.Aggregate.GreaterThan(glRequired.Aggregate) {
		agg = gl.Aggregate.Sub(glRequired.Aggregate)
	}
	return occ, agg
}

func addExcess(actual *decimal.Decimal, excess decimal.Decimal) *decimal.Decimal {
	if excess.IsZero() {
		return actual
	}
	base := decimal.Zero
	if actual != nil {
		base = *actual
	}
	total := base.Add(excess)
	return &total
}

// expiryWarningWindow is how far ahead of expiration a renewal warning is
// raised.
const expiryWarningWindow = 30 * 24 * time.Hour

func checkPolicyDates(ct model.CoverageType, policy model.Policy, now time.Time, warnings *[]string) []model.Deficiency {
	if policy.ExpirationDate == nil {
		return nil
	}

	if policy.ExpirationDate.Before(now) {
		return []model.Deficiency{{
			Category:      model.CategoryOther,
			CoverageType:  ct,
			Severity:      model.SeverityCritical,
			Description:   fmt.Sprintf("%s policy expired on %s", coverageLabels[ct], policy.ExpirationDate.Format("2006-01-02")),
			RequiredValue: "active policy",
			ActualValue:   fmt.Sprintf("expired %s", policy.ExpirationDate.Format("2006-01-02")),
			Remediation:   "Submit a certificate for the renewed policy term",
			Detail:        "expired",
			Overridable:   true,
		}}
	}

	if policy.ExpirationDate.Before(now.Add(expiryWarningWindow)) {
		*warnings = append(*warnings, fmt.Sprintf("%s policy expires on %s; request the renewal certificate",
			coverageLabels[ct], policy.ExpirationDate.Format("2006-01-02")))
	}
	return nil
}

// checkPolicyBasis flags GL and umbrella policies written on a claims-made
// basis. This is always critical, independent of numeric limits.
func checkPolicyBasis(rec model.CoverageRecord) []model.Deficiency {
	var findings []model.Deficiency
	for _, ct := range []model.CoverageType{model.CoverageGL, model.CoverageUmbrella} {
		policy, ok := rec.Policy(ct)
		if !ok || policy.Basis != model.BasisClaimsMade {
			continue
		}
		findings = append(findings, model.Deficiency{
			Category:      model.CategoryWrongPolicyBasis,
			CoverageType:  ct,
			Severity:      model.SeverityCritical,
			Description:   fmt.Sprintf("%s policy is written on a claims-made basis", coverageLabels[ct]),
			RequiredValue: "occurrence basis",
			ActualValue:   "claims-made basis",
			Remediation:   "Replace with an occurrence-form policy",
			Overridable:   true,
		})
	}
	return findings
}

// endorsementApplies encodes which endorsement requirements attach to
// which coverage types. Waiver of subrogation is never required for auto,
// professional or pollution; primary & non-contributory never for WC or
// auto.
var endorsementApplies = map[string][]model.CoverageType{
	"blanket additional insured": {model.CoverageGL, model.CoverageUmbrella},
	"per-project aggregate":      {model.CoverageGL, model.CoverageUmbrella},
	"waiver of subrogation":      {model.CoverageGL, model.CoverageUmbrella, model.CoverageWC},
	"primary & non-contributory": {model.CoverageGL, model.CoverageUmbrella},
}

func checkEndorsements(rec model.CoverageRecord, merged mergedRequirements) []model.Deficiency {
	type endorsement struct {
		name     string
		required bool
		present  bool
	}

	all := []endorsement{
		{"blanket additional insured", merged.requiresBlanketAdditionalInsured, rec.Endorsements.BlanketAdditionalInsured},
		{"waiver of subrogation", merged.requiresWaiverOfSubrogation, rec.Endorsements.WaiverOfSubrogation},
		{"primary & non-contributory", merged.requiresPrimaryNonContributory, rec.Endorsements.PrimaryNonContributory},
		{"per-project aggregate", merged.requiresPerProjectAggregate, rec.Endorsements.PerProjectAggregate},
	}

	var findings []model.Deficiency
	for _, e := range all {
		if !e.required || e.present {
			continue
		}
		for _, ct := range endorsementApplies[e.name] {
			if !merged.requires(ct) {
				continue
			}
			findings = append(findings, model.Deficiency{
				Category:      model.CategoryMissingEndorsement,
				CoverageType:  ct,
				Severity:      model.SeverityMajor,
				Description:   fmt.Sprintf("%s endorsement is missing from the %s policy", e.name, coverageLabels[ct]),
				RequiredValue: e.name,
				ActualValue:   "not included",
				Remediation:   fmt.Sprintf("Add a %s endorsement to the %s policy", e.name, coverageLabels[ct]),
				Detail:        keyify(e.name),
				Overridable:   true,
			})
		}
	}
	return findings
}

// describeLimits renders a limit set for a "not provided" finding.
func describeLimits(ls model.LimitSet) string {
	var parts []string
	add := func(name string, v decimal.Decimal) {
		if !v.IsZero() {
			parts = append(parts, fmt.Sprintf("%s %s", name, formatMoney(v)))
		}
	}
	add("each occurrence", ls.EachOccurrence)
	add("aggregate", ls.Aggregate)
	add("disease policy", ls.DiseasePolicy)
	add("disease each employee", ls.DiseaseEachEmployee)
	add("combined single limit", ls.CombinedSingleLimit)
	return strings.Join(parts, ", ")
}

// formatMoney renders a dollar amount with thousands separators.
func formatMoney(d decimal.Decimal) string {
	whole := d.Truncate(0).String()
	negative := strings.HasPrefix(whole, "-")
	digits := strings.TrimPrefix(whole, "-")

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := "$" + b.String()
	if negative {
		out = "-" + out
	}
	return out
}

// keyify turns a human label into a stable key fragment.
func keyify(label string) string {
	label = strings.ToLower(label)
	label = strings.NewReplacer(" ", "_", "&", "and", "-", "_").Replace(label)
	return strings.Trim(label, "_")
}
