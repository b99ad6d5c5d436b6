package engine

import (
	"github.com/certwise/coiguard/internal/model"
)

// ResolveRequirements selects the requirement records that apply to a
// subcontractor: every record whose program matches and whose trade list
// intersects the subcontractor's trades. When a subcontractor holds
// multiple trades, all matching records apply simultaneously; the result
// is a union of constraints, not a most-lenient pick. An empty result is
// not an error: it means no numeric requirements to check.
func ResolveRequirements(records []model.RequirementRecord, programID string, trades []string) []model.RequirementRecord {
	want := make(map[string]struct{}, len(trades))
	for _, t := range trades {
		want[model.NormalizeTrade(t)] = struct{}{}
	}

	var matched []model.RequirementRecord
	for _, rec := range records {
		if model.NormalizeTrade(rec.ProgramID) != model.NormalizeTrade(programID) {
			continue
		}
		for _, t := range rec.Trades {
			if _, ok := want[model.NormalizeTrade(t)]; ok {
				matched = append(matched, rec)
				break
			}
		}
	}
	return matched
}
