package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/certwise/coiguard/internal/analysis"
	"github.com/certwise/coiguard/internal/ledger"
	"github.com/certwise/coiguard/internal/model"
	"github.com/certwise/coiguard/internal/report"
)

// coiFile is the on-disk shape of a validation input: the certificate and
// the project it is submitted for.
type coiFile struct {
	Coverage model.CoverageRecord `json:"coverage"`
	Project  model.ProjectContext `json:"project"`
}

func validateCmd() *cobra.Command {
	var (
		persist bool
		useAI   bool
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "validate <coi-file.json>",
		Short: "Validate a COI against project requirements",
		Long: `Validate reads a JSON file containing a structured certificate of
insurance and the project context, runs the compliance engine, and prints
the deficiency report. Overrides already recorded for the COI are applied
to the active finding set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read input file: %w", err)
			}

			var input coiFile
			if err := json.Unmarshal(data, &input); err != nil {
				return fmt.Errorf("failed to parse input file: %w", err)
			}

			eng, err := initEngine()
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			result := eng.Validate(input.Coverage, input.Project)

			if input.Coverage.COIID != "" {
				events, err := store.GetOverrideEvents(ctx, input.Coverage.COIID)
				if err != nil {
					return err
				}
				result.Issues = ledger.ActiveFindings(result.Issues, events)
				result.Compliant = len(result.Issues) == 0 && len(result.ExcludedTrades) == 0
			}

			var analyzer analysis.Analyzer
			if useAI {
				if analyzer, err = initAnalyzer(); err != nil {
					return err
				}
			}
			result = analysis.Merge(ctx, result, analyzer, analysis.Request{
				Coverage: input.Coverage,
				Project:  input.Project,
				Findings: result.Issues,
			}, analysisTimeout())

			if persist {
				if err := store.SaveResult(ctx, &result); err != nil {
					return err
				}
			}

			if jsonOut {
				out, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal result: %w", err)
				}
				fmt.Println(string(out))
				return nil
			}

			fmt.Println(report.NewFormatter().Format(&result))
			return nil
		},
	}

	cmd.Flags().BoolVar(&persist, "save", false, "persist the result snapshot")
	cmd.Flags().BoolVar(&useAI, "analyze", false, "include the external narrative assessment")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the raw result as JSON")

	return cmd
}
