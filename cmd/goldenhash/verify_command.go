package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"goldenhash/internal/golden"
	"goldenhash/internal/manifest"
)

type verifyJSON struct {
	RunID    string         `json:"run_id"`
	Manifest string         `json:"manifest"`
	Clean    bool           `json:"clean"`
	Checks   []checkJSON    `json:"checks"`
	Failures []failureJSON  `json:"failures,omitempty"`
	Counts   map[string]int `json:"counts"`
}

type checkJSON struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Status   string `json:"status"`
	Expected string `json:"expected,omitempty"`
	Got      string `json:"got,omitempty"`
	Path     string `json:"path,omitempty"`
}

type failureJSON struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Kind   string `json:"kind"`
	Reason string `json:"reason,omitempty"`
	Error  string `json:"error"`
}

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	var flags passFlags

	cmd := &cobra.Command{
		Use:   "verify [fixture...]",
		Short: "Compare fresh fingerprints with the golden manifest",
		Long: "Recompute fingerprints and compare them with the persisted manifest.\n" +
			"Exits non-zero when any hash differs or any fixture fails to parse.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger(cmd)
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
			persisted, err := manifest.NewStore(manifestPath, logger).Load()
			if err != nil {
				return err
			}
			req.Prior = persisted
			req.Logger = logger

			result, err := golden.Run(cmd.Context(), req)
			if err != nil {
				return err
			}
			recordRun(cmd, cfg, logger, "verify", req.AllowSalvage, false, result)

			report := manifest.Verify(persisted, result.Records, missingScope(req, result))
			if flags.jsonOutput {
				if err := writeJSON(cmd, buildVerifyJSON(result, report, manifestPath)); err != nil {
					return err
				}
				return verifyError(report, result)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, check := range report.Checks {
				fmt.Fprintln(out, renderCheckLine(check, colorize))
			}
			for _, failure := range result.Failures {
				fmt.Fprintln(out, renderFailureLine(failure.Name, failureMessage(failure), colorize))
			}
			fmt.Fprintf(out, "%d ok, %d delta, %d new, %d missing, %d failed\n",
				report.Count(manifest.StatusOK),
				report.Count(manifest.StatusDelta),
				report.Count(manifest.StatusNew),
				report.Count(manifest.StatusMissing),
				len(result.Failures))
			return verifyError(report, result)
		},
	}

	flags.register(cmd)
	return cmd
}

// missingScope limits [missing] lines to manifest entries the pass could have
// seen: explicit file lists never report missing entries, the filter applies,
// and fixtures that failed to parse are reported as failures instead.
func missingScope(req golden.Request, result *golden.Result) func(manifest.Record) bool {
	if len(req.Files) > 0 {
		return func(manifest.Record) bool { return false }
	}
	failed := make(map[string]struct{}, len(result.Failures))
	for _, failure := range result.Failures {
		failed[failure.Name] = struct{}{}
	}
	filter := req.Selector.Filter
	return func(rec manifest.Record) bool {
		if _, ok := failed[rec.Name]; ok {
			return false
		}
		return filter.Match(string(rec.Kind), rec.Name, rec.Path())
	}
}

func verifyError(report manifest.Report, result *golden.Result) error {
	var errs []error
	if deltas := report.Count(manifest.StatusDelta); deltas > 0 {
		errs = append(errs, fmt.Errorf("%d fixture(s) differ from the manifest", deltas))
	}
	if err := result.Err(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func buildVerifyJSON(result *golden.Result, report manifest.Report, manifestPath string) verifyJSON {
	payload := verifyJSON{
		RunID:    result.RunID,
		Manifest: manifestPath,
		Clean:    report.Clean() && len(result.Failures) == 0,
		Checks:   make([]checkJSON, 0, len(report.Checks)),
		Counts: map[string]int{
			string(manifest.StatusOK):      report.Count(manifest.StatusOK),
			string(manifest.StatusDelta):   report.Count(manifest.StatusDelta),
			string(manifest.StatusNew):     report.Count(manifest.StatusNew),
			string(manifest.StatusMissing): report.Count(manifest.StatusMissing),
			"failed":                       len(result.Failures),
		},
	}
	for _, check := range report.Checks {
		payload.Checks = append(payload.Checks, checkJSON{
			Name:     check.Name,
			Kind:     string(check.Kind),
			Status:   string(check.Status),
			Expected: check.Expected,
			Got:      check.Got,
			Path:     check.Path,
		})
	}
	for _, failure := range result.Failures {
		payload.Failures = append(payload.Failures, failureJSON{
			Name:   failure.Name,
			Path:   failure.Path,
			Kind:   string(failure.Kind),
			Reason: string(failure.Reason),
			Error:  failureMessage(failure),
		})
	}
	return payload
}
