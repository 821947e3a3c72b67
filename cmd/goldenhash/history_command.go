package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"goldenhash/internal/config"
	"goldenhash/internal/golden"
	"goldenhash/internal/history"
	"goldenhash/internal/logging"
)

var errHistoryDisabled = errors.New("run history is disabled; set history.enabled = true in the config")

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the run ledger",
	}
	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryFixtureCommand(ctx))
	historyCmd.AddCommand(newHistoryPruneCommand(ctx))
	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent scan and verify runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(ctx, func(store *history.Store) error {
				runs, err := store.Recent(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					if runs == nil {
						runs = []history.RunSummary{}
					}
					return writeJSON(cmd, runs)
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						run.ID,
						run.Command,
						run.StartedAt.Local().Format(time.DateTime),
						run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String(),
						yesNo(run.AllowSalvage),
						yesNo(run.WroteManifest),
						strconv.Itoa(run.RecordCount),
						strconv.Itoa(run.FailureCount),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Run", "Command", "Started", "Elapsed", "Salvage", "Wrote", "Records", "Failures"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignRight, alignRight},
				))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newHistoryFixtureCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "fixture <name>",
		Short: "Show the recorded hashes of one fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(ctx, func(store *history.Store) error {
				entries, err := store.FixtureHashes(cmd.Context(), args[0], limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					if entries == nil {
						entries = []history.HashEntry{}
					}
					return writeJSON(cmd, entries)
				}
				if len(entries) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No hashes recorded for %s\n", args[0])
					return nil
				}
				rows := make([][]string, 0, len(entries))
				previous := ""
				for i := len(entries) - 1; i >= 0; i-- {
					entry := entries[i]
					changed := previous != "" && previous != entry.Hash
					previous = entry.Hash
					rows = append(rows, []string{
						entry.RunID,
						entry.StartedAt.Local().Format(time.DateTime),
						string(entry.Kind),
						entry.Hash,
						yesNo(changed),
					})
				}
				for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
					rows[i], rows[j] = rows[j], rows[i]
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Run", "Started", "Kind", "Hash", "Changed"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries to show")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newHistoryPruneCommand(ctx *commandContext) *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest runs from the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if keep < 0 {
				return fmt.Errorf("--keep must be zero or positive, got %d", keep)
			}
			return withHistory(ctx, func(store *history.Store) error {
				removed, err := store.Prune(cmd.Context(), keep)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d run(s); kept the newest %d\n", removed, keep)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&keep, "keep", 50, "Number of recent runs to keep")
	return cmd
}

func withHistory(ctx *commandContext, fn func(*history.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return errHistoryDisabled
	}
	store, err := history.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// recordRun appends a finished pass to the ledger when history is enabled.
// Ledger problems are logged and never fail the command.
func recordRun(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, command string, salvage, wrote bool, result *golden.Result) {
	if !cfg.History.Enabled {
		return
	}
	store, err := history.Open(cfg)
	if err == nil {
		defer store.Close()
		err = store.Record(cmd.Context(), history.Run{
			ID:            result.RunID,
			Command:       command,
			StartedAt:     result.Started,
			FinishedAt:    result.Finished,
			AllowSalvage:  salvage,
			WroteManifest: wrote,
			Records:       result.Records,
			Failures:      result.Failures,
		})
	}
	if err != nil {
		logging.WarnWithContext(logger, "failed to record run history", "history_record_failed",
			logging.RunID(result.RunID),
			logging.Error(err),
			logging.Hint("check paths.history_db permissions"),
			logging.Impact("this run is missing from goldenhash history"))
	}
}
