package engine

import (
	"fmt"
	"strings"

	"github.com/certwise/coiguard/internal/catalog"
	"github.com/certwise/coiguard/internal/model"
)

// ExclusionFindings is the output of the trade & exclusion validator.
type ExclusionFindings struct {
	Findings       []model.Deficiency
	ExcludedTrades []model.ExcludedTrade
	Warnings       []string
}

// CheckExclusions scans the certificate's free-text fields and exclusion
// flags against the trade table and the project context. It runs even when
// the requirement catalog has no record for the subcontractor's trades.
func CheckExclusions(rec model.CoverageRecord, project model.ProjectContext, reqs []model.RequirementRecord, table *catalog.TradeTable) ExclusionFindings {
	var out ExclusionFindings

	merged := mergeRequirements(reqs)

	freeText := strings.ToLower(rec.PolicyNotes + "\n" + rec.ExclusionsText)

	knownTrades := make([]string, 0, len(rec.Trades))
	for _, trade := range rec.Trades {
		if _, ok := table.Profile(trade); ok {
			knownTrades = append(knownTrades, trade)
		} else {
			out.Warnings = append(out.Warnings, fmt.Sprintf(
				"trade %q is not in the classification table; trade-category exclusion checks were skipped for it", trade))
		}
	}

	out.ExcludedTrades = matchExcludedTrades(freeText, rec.Trades, table)
	out.Findings = append(out.Findings, checkHeightLimitation(rec, project, knownTrades, table, merged)...)
	out.Findings = append(out.Findings, checkUnitLimitation(rec, project)...)
	out.Findings = append(out.Findings, checkSubsidence(rec, knownTrades, table, merged)...)
	out.Findings = append(out.Findings, checkCondoExclusion(rec, project, merged)...)
	out.Findings = append(out.Findings, checkExteriorWork(rec, knownTrades, table)...)
	out.Findings = append(out.Findings, checkPolicyClauses(rec)...)
	out.Findings = append(out.Findings, checkClassificationLimitations(rec)...)

	out.Warnings = append(out.Warnings, checkClassificationCodes(rec, table)...)
	out.Warnings = append(out.Warnings, checkPremiumBasis(rec, reqs)...)

	return out
}

// matchExcludedTrades tests the concatenated free text against each
// declared trade's exclusion phrase dictionary. Matching is
// case-insensitive substring matching; a hit is an excluded-trade finding,
// distinct from numeric deficiencies.
func matchExcludedTrades(freeText string, trades []string, table *catalog.TradeTable) []model.ExcludedTrade {
	if freeText == "" {
		return nil
	}

	var excluded []model.ExcludedTrade
	for _, trade := range trades {
		profile, ok := table.Profile(trade)
		if !ok {
			continue
		}
		for _, phrase := range profile.ExclusionPhrases {
			if strings.Contains(freeText, strings.ToLower(phrase)) {
				excluded = append(excluded, model.ExcludedTrade{
					Trade:         model.NormalizeTrade(trade),
					MatchedPhrase: phrase,
				})
				break
			}
		}
	}
	return excluded
}

// checkHeightLimitation evaluates a height limitation against the project
// height. For exterior trades a limitation below the project height is
// critical; if the project height is unknown it is downgraded to major
// (risk flagged but violation unproven). For non-exterior trades a
// limitation below project height is major.
func checkHeightLimitation(rec model.CoverageRecord, project model.ProjectContext, trades []string, table *catalog.TradeTable, merged mergedRequirements) []model.Deficiency {
	if !rec.Exclusions.HasHeightLimitation || merged.noHeightRestrictionRequired {
		return nil
	}

	exterior := false
	for _, t := range trades {
		if table.IsExterior(t) {
			exterior = true
			break
		}
	}

	stories := rec.Exclusions.HeightLimitationStories

	switch {
	case project.HeightStories == nil:
		if !exterior {
			return nil
		}
		return []model.Deficiency{heightFinding(model.SeverityMajor, "project height unknown", stories)}
	case stories != nil && *stories < *project.HeightStories:
		severity := model.SeverityMajor
		if exterior {
			severity = model.SeverityCritical
		}
		required := fmt.Sprintf("%d stories or no limitation", *project.HeightStories)
		return []model.Deficiency{heightFinding(severity, required, stories)}
	default:
		return nil
	}
}

func heightFinding(severity model.Severity, required string, stories *int) model.Deficiency {
	actual := "height limitation present, story count not stated"
	if stories != nil {
		actual = fmt.Sprintf("%d stories", *stories)
	}
	return model.Deficiency{
		Category:      model.CategoryHeightLimitation,
		CoverageType:  model.CoverageGL,
		Severity:      severity,
		Description:   "policy carries a height limitation below the project height",
		RequiredValue: required,
		ActualValue:   actual,
		Remediation:   "Obtain an endorsement removing or raising the height limitation",
		Overridable:   true,
	}
}

// checkUnitLimitation flags a covered-unit cap below the project's unit
// count. Critical regardless of trade.
func checkUnitLimitation(rec model.CoverageRecord, project model.ProjectContext) []model.Deficiency {
	if !rec.Exclusions.HasUnitLimitation || rec.Exclusions.MaxUnits == nil || project.UnitCount == nil {
		return nil
	}
	if *rec.Exclusions.MaxUnits >= *project.UnitCount {
		return nil
	}
	return []model.Deficiency{{
		Category:      model.CategoryUnitLimitation,
		CoverageType:  model.CoverageGL,
		Severity:      model.SeverityCritical,
		Description:   "policy covers fewer units than the project contains",
		RequiredValue: fmt.Sprintf("%d units or no limitation", *project.UnitCount),
		ActualValue:   fmt.Sprintf("%d units", *rec.Exclusions.MaxUnits),
		Remediation:   "Obtain an endorsement raising the covered unit count",
		Overridable:   true,
	}}
}

// checkSubsidence evaluates the subsidence exclusion for ground/structural
// trades only; other trades are not exposed to earth-movement claims.
func checkSubsidence(rec model.CoverageRecord, trades []string, table *catalog.TradeTable, merged mergedRequirements) []model.Deficiency {
	if !rec.Exclusions.Subsidence || merged.noSubsidenceExclusionRequired {
		return nil
	}
	for _, t := range trades {
		if table.IsGroundStructural(t) {
			return []model.Deficiency{{
				Category:      model.CategorySubsidenceExclusion,
				CoverageType:  model.CoverageGL,
				Severity:      model.SeverityCritical,
				Description:   fmt.Sprintf("policy excludes subsidence and the subcontractor performs %s work", model.NormalizeTrade(t)),
				RequiredValue: "no subsidence exclusion",
				ActualValue:   "subsidence excluded",
				Remediation:   "Remove the subsidence exclusion or provide a separate earth-movement endorsement",
				Overridable:   true,
			}}
		}
	}
	return nil
}

// checkCondoExclusion is project-conditional: a condo exclusion on a
// condominium project is critical for every trade.
func checkCondoExclusion(rec model.CoverageRecord, project model.ProjectContext, merged mergedRequirements) []model.Deficiency {
	if !rec.Exclusions.Condo || !project.IsCondo() || merged.noCondoExclusionRequired {
		return nil
	}
	return []model.Deficiency{{
		Category:      model.CategoryCondoExclusion,
		CoverageType:  model.CoverageGL,
		Severity:      model.SeverityCritical,
		Description:   "policy excludes condominium work and the project is a condominium",
		RequiredValue: "no condominium exclusion",
		ActualValue:   "condominium work excluded",
		Remediation:   "Remove the condominium exclusion for this project",
		Overridable:   true,
	}}
}

// checkExteriorWork flags an exterior-work exclusion for exterior trades.
func checkExteriorWork(rec model.CoverageRecord, trades []string, table *catalog.TradeTable) []model.Deficiency {
	if !rec.Exclusions.ExteriorWork {
		return nil
	}
	for _, t := range trades {
		if table.IsExterior(t) {
			return []model.Deficiency{{
				Category:      model.CategoryExteriorWorkExclusion,
				CoverageType:  model.CoverageGL,
				Severity:      model.SeverityCritical,
				Description:   fmt.Sprintf("policy excludes exterior work and the subcontractor performs %s work", model.NormalizeTrade(t)),
				RequiredValue: "no exterior work exclusion",
				ActualValue:   "exterior work excluded",
				Remediation:   "Remove the exterior work exclusion",
				Overridable:   true,
			}}
		}
	}
	return nil
}

// checkPolicyClauses flags hammer clauses and action-over exclusions.
// Both are always major when present, independent of trade or project.
func checkPolicyClauses(rec model.CoverageRecord) []model.Deficiency {
	var findings []model.Deficiency
	if rec.Exclusions.HammerClause {
		findings = append(findings, model.Deficiency{
			Category:      model.CategoryHammerClause,
			CoverageType:  model.CoverageGL,
			Severity:      model.SeverityMajor,
			Description:   "policy contains a hammer clause",
			RequiredValue: "no hammer clause",
			ActualValue:   "hammer clause present",
			Remediation:   "Request the carrier remove the hammer clause",
			Overridable:   true,
		})
	}
	if rec.Exclusions.ActionOver {
		findings = append(findings, model.Deficiency{
			Category:      model.CategoryActionOverExclusion,
			CoverageType:  model.CoverageGL,
			Severity:      model.SeverityMajor,
			Description:   "policy contains an action-over exclusion",
			RequiredValue: "no action-over exclusion",
			ActualValue:   "action-over exclusion present",
			Remediation:   "Remove the action-over exclusion by endorsement",
			Overridable:   true,
		})
	}
	return findings
}

// checkClassificationLimitations carries each classification-limitation
// and trade-specific exclusion entry forward as its own major finding, with
// the literal text preserved for human review.
func checkClassificationLimitations(rec model.CoverageRecord) []model.Deficiency {
	var findings []model.Deficiency
	for _, text := range rec.Exclusions.ClassificationLimitations {
		findings = append(findings, model.Deficiency{
			Category:      model.CategoryClassificationLimit,
			CoverageType:  model.CoverageGL,
			Severity:      model.SeverityMajor,
			Description:   fmt.Sprintf("classification limitation: %s", text),
			RequiredValue: "no classification limitation",
			ActualValue:   text,
			Remediation:   "Confirm the limitation does not apply to the contracted work",
			Detail:        keyify(text),
			Overridable:   true,
		})
	}
	for _, text := range rec.Exclusions.TradeSpecific {
		findings = append(findings, model.Deficiency{
			Category:      model.CategoryTradeSpecificExclusion,
			CoverageType:  model.CoverageGL,
			Severity:      model.SeverityMajor,
			Description:   fmt.Sprintf("trade-specific exclusion: %s", text),
			RequiredValue: "no trade-specific exclusion",
			ActualValue:   text,
			Remediation:   "Confirm the exclusion does not apply to the contracted work",
			Detail:        keyify(text),
			Overridable:   true,
		})
	}
	return findings
}

// checkClassificationCodes cross-references any stated classification
// codes against the declared trades. Codes are advisory; a code that maps
// to an unrelated trade set is a warning, not a deficiency.
func checkClassificationCodes(rec model.CoverageRecord, table *catalog.TradeTable) []string {
	declared := make(map[string]struct{}, len(rec.Trades))
	for _, t := range rec.Trades {
		declared[model.NormalizeTrade(t)] = struct{}{}
	}

	var warnings []string
	for _, code := range rec.ClassificationCodes {
		mapped := table.TradesForCode(code)
		if len(mapped) == 0 {
			continue
		}
		related := false
		for _, t := range mapped {
			if _, ok := declared[t]; ok {
				related = true
				break
			}
		}
		if !related {
			warnings = append(warnings, fmt.Sprintf(
				"classification code %s rates %s, which does not match the declared trades; confirm the policy rates the contracted work",
				code, strings.Join(mapped, ", ")))
		}
	}
	return warnings
}

// singleTradeHints are premium-basis phrasings that suggest only one trade
// is rated.
var singleTradeHints = []string{
	"single trade",
	"one trade",
	"sole classification",
	"single classification",
}

// checkPremiumBasis warns when the premium basis suggests single-trade
// coverage but the requirement set spans multiple trades.
func checkPremiumBasis(rec model.CoverageRecord, reqs []model.RequirementRecord) []string {
	if rec.PremiumBasisNote == "" {
		return nil
	}

	distinct := make(map[string]struct{})
	for _, req := range reqs {
		for _, t := range req.Trades {
			distinct[model.NormalizeTrade(t)] = struct{}{}
		}
	}
	if len(distinct) < 2 {
		return nil
	}

	note := strings.ToLower(rec.PremiumBasisNote)
	for _, hint := range singleTradeHints {
		if strings.Contains(note, hint) {
			return []string{"premium basis suggests single-trade coverage while requirements span multiple trades; confirm all trades are rated"}
		}
	}
	return nil
}
