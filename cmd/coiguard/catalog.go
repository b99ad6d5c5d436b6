package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/certwise/coiguard/internal/engine"
	"github.com/certwise/coiguard/internal/model"
)

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the requirement catalog and trade table",
	}

	cmd.AddCommand(catalogShowCmd())
	cmd.AddCommand(catalogTradesCmd())

	return cmd
}

func catalogShowCmd() *cobra.Command {
	var (
		programID string
		trades    []string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the requirement records that apply to a program and trade set",
		RunE: func(_ *cobra.Command, _ []string) error {
			cat, _, err := loadCatalog()
			if err != nil {
				return err
			}

			records := cat.Records()
			if programID != "" || len(trades) > 0 {
				records = engine.ResolveRequirements(cat.Records(), programID, trades)
			}

			if len(records) == 0 {
				fmt.Println("No matching requirement records.")
				return nil
			}

			for _, rec := range records {
				printRequirement(rec)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&programID, "program", "", "insurance program to resolve against")
	cmd.Flags().StringSliceVar(&trades, "trades", nil, "subcontractor trades (comma-separated)")

	return cmd
}

func catalogTradesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trades <classification-code>",
		Short: "Look up which trades a workers-comp classification code maps to",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			_, table, err := loadCatalog()
			if err != nil {
				return err
			}

			matches := table.TradesForCode(args[0])
			if len(matches) == 0 {
				fmt.Printf("No trades map to code %s.\n", args[0])
				return nil
			}
			fmt.Printf("Code %s maps to: %s\n", args[0], strings.Join(matches, ", "))
			return nil
		},
	}
}

var catalogCoverageOrder = []model.CoverageType{
	model.CoverageGL,
	model.CoverageUmbrella,
	model.CoverageWC,
	model.CoverageAuto,
	model.CoverageProfessional,
	model.CoveragePollution,
}

func printRequirement(rec model.RequirementRecord) {
	fmt.Printf("program %s, tier %d, trades: %s\n", rec.ProgramID, rec.Tier, strings.Join(rec.Trades, ", "))

	for _, ct := range catalogCoverageOrder {
		ls, ok := rec.Limits[ct]
		if !ok || ls.Zero() {
			continue
		}
		fmt.Printf("  %-20s %s\n", ct, limitString(ls))
	}

	var endorsements []string
	if rec.RequiresBlanketAdditionalInsured {
		endorsements = append(endorsements, "blanket additional insured")
	}
	if rec.RequiresWaiverOfSubrogation {
		endorsements = append(endorsements, "waiver of subrogation")
	}
	if rec.RequiresPrimaryNonContributory {
		endorsements = append(endorsements, "primary & non-contributory")
	}
	if rec.RequiresPerProjectAggregate {
		endorsements = append(endorsements, "per-project aggregate")
	}
	if len(endorsements) > 0 {
		fmt.Printf("  endorsements: %s\n", strings.Join(endorsements, ", "))
	}

	var relaxations []string
	if rec.NoCondoExclusionRequired {
		relaxations = append(relaxations, "condo exclusion waived")
	}
	if rec.NoHeightRestrictionRequired {
		relaxations = append(relaxations, "height restriction waived")
	}
	if rec.NoSubsidenceExclusionRequired {
		relaxations = append(relaxations, "subsidence exclusion waived")
	}
	if len(relaxations) > 0 {
		fmt.Printf("  relaxations: %s\n", strings.Join(relaxations, ", "))
	}
	fmt.Println()
}

func limitString(ls model.LimitSet) string {
	var parts []string
	add := func(label string, d decimal.Decimal) {
		if !d.IsZero() {
			parts = append(parts, fmt.Sprintf("%s $%s", label, d.StringFixed(0)))
		}
	}
	add("each occurrence", ls.EachOccurrence)
	add("aggregate", ls.Aggregate)
	add("disease policy", ls.DiseasePolicy)
	add("disease each employee", ls.DiseaseEachEmployee)
	add("combined single limit", ls.CombinedSingleLimit)
	return strings.Join(parts, ", ")
}
