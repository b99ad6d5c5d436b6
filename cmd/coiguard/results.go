package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/certwise/coiguard/internal/common"
	"github.com/certwise/coiguard/internal/report"
)

func resultsCmd() *cobra.Command {
	var history bool

	cmd := &cobra.Command{
		Use:   "results <coi-id>",
		Short: "Show persisted compliance results for a COI",
		Long: `Results shows the most recent persisted compliance snapshot for a COI.
With --history, every snapshot is listed newest first, so you can see
how the compliance picture changed across re-validations.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() {
				if closeErr := store.Close(); closeErr != nil {
					slog.Error("failed to close storage", "error", closeErr)
				}
			}()

			formatter := report.NewFormatter()

			if history {
				results, err := store.GetResultHistory(ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to load result history: %w", err)
				}
				if len(results) == 0 {
					fmt.Println("No persisted results.")
					return nil
				}
				for _, result := range results {
					fmt.Printf("%s  %s  %d finding(s)\n",
						result.ValidatedAt.Format("2006-01-02 15:04:05"),
						result.OverallStatus,
						len(result.Issues))
				}
				return nil
			}

			result, err := store.GetLatestResult(ctx, args[0])
			if err != nil {
				if errors.Is(err, common.ErrNotFound) {
					fmt.Println("No persisted results.")
					return nil
				}
				return fmt.Errorf("failed to load result: %w", err)
			}

			fmt.Println(formatter.Format(result))
			return nil
		},
	}

	cmd.Flags().BoolVar(&history, "history", false, "list every persisted snapshot")

	return cmd
}
