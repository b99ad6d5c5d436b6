package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/certwise/coiguard/internal/common"
	"github.com/certwise/coiguard/internal/ledger"
	"github.com/certwise/coiguard/internal/report"
)

func overridesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overrides",
		Short: "Manage the override ledger for a COI",
		Long: `The override ledger records admin decisions to waive individual
deficiencies. Events are append-only: revoking an override adds a new
event rather than deleting the original, so the full decision history
is always auditable.`,
	}

	cmd.AddCommand(overridesListCmd())
	cmd.AddCommand(overridesAddCmd())
	cmd.AddCommand(overridesRevokeCmd())

	return cmd
}

func overridesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <coi-id>",
		Short: "Show the full override history for a COI",
		Args:  cobra.ExactArgs(1),
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

			events, err := ledger.New(store).History(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to load override history: %w", err)
			}

			fmt.Println(report.NewFormatter().FormatHistory(events))
			return nil
		},
	}
}

func overridesAddCmd() *cobra.Command {
	var (
		actor  string
		reason string
	)

	cmd := &cobra.Command{
		Use:   "add <coi-id> <deficiency-key>",
		Short: "Override a deficiency with a mandatory justification",
		Args:  cobra.ExactArgs(2),
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

			record, err := ledger.New(store).Override(ctx, args[0], args[1], actor, reason)
			if err != nil {
				if errors.Is(err, common.ErrEmptyJustification) {
					return common.NewUserError("a justification is required: pass --reason", err)
				}
				return fmt.Errorf("failed to record override: %w", err)
			}

			fmt.Printf("✓ Override recorded: %s (%s)\n", record.DeficiencyKey, record.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&actor, "actor", "", "admin recording the override")
	cmd.Flags().StringVar(&reason, "reason", "", "justification for the override")
	_ = cmd.MarkFlagRequired("actor")

	return cmd
}

func overridesRevokeCmd() *cobra.Command {
	var actor string

	cmd := &cobra.Command{
		Use:   "revoke <coi-id> <deficiency-key>",
		Short: "Revoke a previous override so the finding counts again",
		Args:  cobra.ExactArgs(2),
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

			record, err := ledger.New(store).Revoke(ctx, args[0], args[1], actor)
			if err != nil {
				return fmt.Errorf("failed to revoke override: %w", err)
			}

			fmt.Printf("✓ Override revoked: %s (%s)\n", record.DeficiencyKey, record.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&actor, "actor", "", "admin revoking the override")
	_ = cmd.MarkFlagRequired("actor")

	return cmd
}
