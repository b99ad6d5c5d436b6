// Package catalog holds the static configuration a validation run reads:
// the requirement catalog (trade/tier minimum coverage) and the trade
// classification table (exclusion phrase dictionaries and industry code
// ranges). Both are read-only at validation time.
package catalog

import (
	"strconv"
	"strings"

	"github.com/certwise/coiguard/internal/model"
)

// TradeCategory classifies a trade for exclusion evaluation.
type TradeCategory string

// Trade category constants.
const (
	CategoryExterior         TradeCategory = "exterior"
	CategoryGroundStructural TradeCategory = "ground_structural"
)

// CodeRange is an inclusive range of numeric classification codes.
type CodeRange struct {
	From int
	To   int
}

// Contains reports whether the range covers the given code.
func (r CodeRange) Contains(code int) bool {
	return code >= r.From && code <= r.To
}

// TradeProfile describes one trade: its categories, the policy phrases
// that exclude it, and the classification code ranges that rate it.
type TradeProfile struct {
	Name             string
	Categories       []TradeCategory
	ExclusionPhrases []string
	CodeRanges       []CodeRange
}

// HasCategory reports whether the profile carries the given category.
func (p TradeProfile) HasCategory(c TradeCategory) bool {
	for _, have := range p.Categories {
		if have == c {
			return true
		}
	}
	return false
}

// TradeTable maps trade names to their profiles.
type TradeTable struct {
	profiles map[string]TradeProfile
}

// NewTradeTable builds a table from profiles, keyed by normalized name.
func NewTradeTable(profiles []TradeProfile) *TradeTable {
	t := &TradeTable{profiles: make(map[string]TradeProfile, len(profiles))}
	for _, p := range profiles {
		t.profiles[model.NormalizeTrade(p.Name)] = p
	}
	return t
}

// Profile looks up a trade by name.
func (t *TradeTable) Profile(trade string) (TradeProfile, bool) {
	p, ok := t.profiles[model.NormalizeTrade(trade)]
	return p, ok
}

// IsExterior reports whether the trade is classified as exterior work.
// Unknown trades are not exterior.
func (t *TradeTable) IsExterior(trade string) bool {
	p, ok := t.Profile(trade)
	return ok && p.HasCategory(CategoryExterior)
}

// IsGroundStructural reports whether the trade is classified as ground or
// structural work (excavation, foundation, grading, shoring and the like).
func (t *TradeTable) IsGroundStructural(trade string) bool {
	p, ok := t.Profile(trade)
	return ok && p.HasCategory(CategoryGroundStructural)
}

// TradesForCode returns the trades whose code ranges cover the given
// classification code. Non-numeric codes match nothing.
func (t *TradeTable) TradesForCode(code string) []string {
	n, err := strconv.Atoi(strings.TrimSpace(code))
	if err != nil {
		return nil
	}

	var trades []string
	for _, p := range t.profiles {
		for _, r := range p.CodeRanges {
			if r.Contains(n) {
				trades = append(trades, model.NormalizeTrade(p.Name))
				break
			}
		}
	}
	return trades
}

// Catalog is the requirement catalog: the full set of requirement records
// across programs.
type Catalog struct {
	records []model.RequirementRecord
}

// New creates a catalog from requirement records.
func New(records []model.RequirementRecord) *Catalog {
	return &Catalog{records: records}
}

// Records returns all requirement records.
func (c *Catalog) Records() []model.RequirementRecord {
	return c.records
}

// ProgramRecords returns the records configured for a program.
func (c *Catalog) ProgramRecords(programID string) []model.RequirementRecord {
	var out []model.RequirementRecord
	for _, r := range c.records {
		if strings.EqualFold(strings.TrimSpace(r.ProgramID), strings.TrimSpace(programID)) {
			out = append(out, r)
		}
	}
	return out
}
