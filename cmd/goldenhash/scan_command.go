package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"goldenhash/internal/golden"
	"goldenhash/internal/logging"
	"goldenhash/internal/manifest"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var flags passFlags
	var write bool
	var backup bool
	var notes []string

	cmd := &cobra.Command{
		Use:   "scan [fixture...]",
		Short: "Fingerprint fixtures and show the merged manifest",
		Long: "Fingerprint every fixture under the fixtures root (or the files given as\n" +
			"arguments), merge the results into the golden manifest, and print them.\n" +
			"The manifest file is only rewritten with --write.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger(cmd)
			if err != nil {
				return err
			}
			overrides, err := parseNotes(notes)
			if err != nil {
				return err
			}
			req, err := flags.request(cfg, args)
			if err != nil {
				return err
			}
			manifestPath, err := flags.resolveManifest(cfg)
			if err != nil {
				return err
			}

			store := manifest.NewStore(manifestPath, logger)
			store.Backup = backup
			prior, err := store.Load()
			if err != nil {
				return err
			}
			req.Prior = prior
			req.Overrides = overrides
			req.Logger = logger

			result, err := golden.Run(cmd.Context(), req)
			if err != nil {
				return err
			}

			if write {
				if err := store.Save(cmd.Context(), result.Manifest); err != nil {
					return err
				}
			} else {
				logger.Info("dry run; manifest not written",
					logging.Path(manifestPath),
					logging.RunID(result.RunID))
			}
			recordRun(cmd, cfg, logger, "scan", req.AllowSalvage, write, result)

			if flags.jsonOutput {
				data, err := manifest.Encode(result.Manifest)
				if err != nil {
					return err
				}
				if _, err := cmd.OutOrStdout().Write(data); err != nil {
					return err
				}
				return result.Err()
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderScanTable(result))
			for _, failure := range result.Failures {
				fmt.Fprintln(out, renderFailureLine(failure.Name, failureMessage(failure), shouldColorize(out)))
			}
			if write {
				fmt.Fprintf(out, "Wrote %d fixture(s) to %s\n", len(result.Manifest.Fixtures), manifestPath)
			} else {
				fmt.Fprintf(out, "Dry run: %s not modified (use --write to persist)\n", manifestPath)
			}
			return result.Err()
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Persist the merged manifest")
	cmd.Flags().BoolVar(&backup, "backup", false, "Copy the previous manifest to <manifest>.bak before writing")
	cmd.Flags().StringArrayVar(&notes, "note", nil, "Set a fixture's notes as name=text (repeatable)")
	return cmd
}

func renderScanTable(result *golden.Result) string {
	headers := []string{"Fixture", "Kind", "Hash", "Format", "Notes"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft}
	rows := make([][]string, 0, len(result.Records))
	for _, rec := range result.Records {
		notes := ""
		if merged, ok := result.Manifest.Lookup(rec.Name); ok {
			notes = merged.Notes
		}
		rows = append(rows, []string{rec.Name, string(rec.Kind), rec.Hash, describeFormat(rec), notes})
	}
	footer := []string{
		strconv.Itoa(len(result.Records)) + " fingerprinted",
		"",
		strconv.Itoa(len(result.Failures)) + " failed",
		"",
		strconv.Itoa(len(result.Manifest.Fixtures)) + " in manifest",
	}
	return renderTable(headers, rows, aligns, footer...)
}

func describeFormat(rec manifest.Record) string {
	switch {
	case rec.Audio != nil:
		return fmt.Sprintf("%d Hz %s, %d frames", rec.Audio.SampleRateHz, rec.Audio.ChannelLayout, rec.Audio.Frames)
	case rec.Log != nil:
		return fmt.Sprintf("%d bytes, %d lines", rec.Log.Bytes, rec.Log.Lines)
	default:
		return ""
	}
}
