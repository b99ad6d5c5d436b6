package catalog

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/certwise/coiguard/internal/common"
	"github.com/certwise/coiguard/internal/model"
)

// File schema for catalog configuration. Amounts are whole dollars.
type fileCatalog struct {
	Programs []fileProgram `yaml:"programs" validate:"required,min=1,dive"`
	Trades   []fileTrade   `yaml:"trades"   validate:"omitempty,dive"`
}

type fileProgram struct {
	Program      string            `yaml:"program"      validate:"required"`
	Requirements []fileRequirement `yaml:"requirements" validate:"required,min=1,dive"`
}

type fileRequirement struct {
	Limits       map[string]fileLimits `yaml:"limits"`
	Endorsements fileEndorsements      `yaml:"endorsements"`
	Trades       []string              `yaml:"trades" validate:"required,min=1"`
	Tier         int                   `yaml:"tier"   validate:"gte=0,lte=10"`

	NoCondoExclusionRequired      bool `yaml:"no_condo_exclusion_required"`
	NoHeightRestrictionRequired   bool `yaml:"no_height_restriction_required"`
	NoSubsidenceExclusionRequired bool `yaml:"no_subsidence_exclusion_required"`
}

type fileLimits struct {
	EachOccurrence      int64 `yaml:"each_occurrence"       validate:"gte=0"`
	Aggregate           int64 `yaml:"aggregate"             validate:"gte=0"`
	DiseasePolicy       int64 `yaml:"disease_policy"        validate:"gte=0"`
	DiseaseEachEmployee int64 `yaml:"disease_each_employee" validate:"gte=0"`
	CombinedSingleLimit int64 `yaml:"combined_single_limit" validate:"gte=0"`
}

type fileEndorsements struct {
	BlanketAdditionalInsured bool `yaml:"blanket_additional_insured"`
	WaiverOfSubrogation      bool `yaml:"waiver_of_subrogation"`
	PrimaryNonContributory   bool `yaml:"primary_non_contributory"`
	PerProjectAggregate      bool `yaml:"per_project_aggregate"`
}

type fileTrade struct {
	Name             string   `yaml:"name" validate:"required"`
	Categories       []string `yaml:"categories" validate:"omitempty,dive,oneof=exterior ground_structural"`
	ExclusionPhrases []string `yaml:"exclusion_phrases"`
	CodeRanges       [][2]int `yaml:"code_ranges"`
}

// coverageAliases maps catalog file spellings to coverage types.
var coverageAliases = map[string]model.CoverageType{
	"gl":                model.CoverageGL,
	"general_liability": model.CoverageGL,
	"umbrella":          model.CoverageUmbrella,
	"excess":            model.CoverageUmbrella,
	"wc":                model.CoverageWC,
	"workers_comp":      model.CoverageWC,
	"auto":              model.CoverageAuto,
	"automobile":        model.CoverageAuto,
	"professional":      model.CoverageProfessional,
	"pollution":         model.CoveragePollution,
}

// Load reads a catalog file, validates it and returns the requirement
// catalog plus the trade table (built-in defaults extended by any trades
// the file declares).
func Load(path string) (*Catalog, *TradeTable, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path comes from user config
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse builds a catalog from raw YAML.
func Parse(data []byte) (*Catalog, *TradeTable, error) {
	var fc fileCatalog
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, nil, fmt.Errorf("%w: failed to parse catalog yaml: %v", common.ErrInvalidConfig, err)
	}

	if err := validator.New().Struct(&fc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}

	var records []model.RequirementRecord
	for _, prog := range fc.Programs {
		for _, req := range prog.Requirements {
			rec, err := req.toRecord(prog.Program)
			if err != nil {
				return nil, nil, err
			}
			records = append(records, rec)
		}
	}

	profiles := make([]TradeProfile, 0, len(defaultTradeProfiles)+len(fc.Trades))
	profiles = append(profiles, defaultTradeProfiles...)
	for _, ft := range fc.Trades {
		profiles = append(profiles, ft.toProfile())
	}

	return New(records), NewTradeTable(profiles), nil
}

func (r fileRequirement) toRecord(program string) (model.RequirementRecord, error) {
	rec := model.RequirementRecord{
		ProgramID: program,
		Tier:      r.Tier,
		Trades:    r.Trades,
		Limits:    make(map[model.CoverageType]model.LimitSet, len(r.Limits)),

		RequiresBlanketAdditionalInsured: r.Endorsements.BlanketAdditionalInsured,
		RequiresWaiverOfSubrogation:      r.Endorsements.WaiverOfSubrogation,
		RequiresPrimaryNonContributory:   r.Endorsements.PrimaryNonContributory,
		RequiresPerProjectAggregate:      r.Endorsements.PerProjectAggregate,

		NoCondoExclusionRequired:      r.NoCondoExclusionRequired,
		NoHeightRestrictionRequired:   r.NoHeightRestrictionRequired,
		NoSubsidenceExclusionRequired: r.NoSubsidenceExclusionRequired,
	}

	for name, limits := range r.Limits {
		ct, ok := coverageAliases[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return rec, fmt.Errorf("%w: unknown coverage type %q in program %q", common.ErrInvalidConfig, name, program)
		}
		rec.Limits[ct] = model.LimitSet{
			EachOccurrence:      decimal.NewFromInt(limits.EachOccurrence),
			Aggregate:           decimal.NewFromInt(limits.Aggregate),
			DiseasePolicy:       decimal.NewFromInt(limits.DiseasePolicy),
			DiseaseEachEmployee: decimal.NewFromInt(limits.DiseaseEachEmployee),
			CombinedSingleLimit: decimal.NewFromInt(limits.CombinedSingleLimit),
		}
	}

	return rec, nil
}

func (t fileTrade) toProfile() TradeProfile {
	p := TradeProfile{
		Name:             t.Name,
		ExclusionPhrases: t.ExclusionPhrases,
	}
	for _, c := range t.Categories {
		p.Categories = append(p.Categories, TradeCategory(c))
	}
	for _, r := range t.CodeRanges {
		p.CodeRanges = append(p.CodeRanges, CodeRange{From: r[0], To: r[1]})
	}
	return p
}
