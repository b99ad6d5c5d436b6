package model

import "strings"

// Normalize returns a copy of the record with absent values converted to
// defined defaults, so validators can treat every field as total. The
// input is not modified.
func (r CoverageRecord) Normalize() CoverageRecord {
	out := r

	out.Policies = make(map[CoverageType]Policy, len(r.Policies))
	for ct, p := range r.Policies {
		out.Policies[ct] = p
	}

	out.Trades = normalizeList(r.Trades)
	out.ClassificationCodes = normalizeList(r.ClassificationCodes)
	out.Exclusions.ClassificationLimitations = normalizeList(r.Exclusions.ClassificationLimitations)
	out.Exclusions.TradeSpecific = normalizeList(r.Exclusions.TradeSpecific)

	out.PolicyNotes = strings.TrimSpace(r.PolicyNotes)
	out.ExclusionsText = strings.TrimSpace(r.ExclusionsText)
	out.PremiumBasisNote = strings.TrimSpace(r.PremiumBasisNote)

	// A limitation flag without its parameter is kept; the validators
	// treat the missing parameter as "cannot prove violation".
	if !r.Exclusions.HasHeightLimitation {
		out.Exclusions.HeightLimitationStories = nil
	}
	if !r.Exclusions.HasUnitLimitation {
		out.Exclusions.MaxUnits = nil
	}

	return out
}

// NormalizeTrade canonicalizes a trade name for matching.
func NormalizeTrade(trade string) string {
	return strings.ToLower(strings.TrimSpace(trade))
}

// normalizeList trims entries and drops empty ones, preserving order.
func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
