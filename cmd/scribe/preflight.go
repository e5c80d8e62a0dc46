package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"mercator-hq/scribe/pkg/cli"
	"mercator-hq/scribe/pkg/preflight"

	"github.com/spf13/cobra"
)

var errBlocked = errors.New("no provider is ready; generation would use the fallback")

var preflightFlags struct {
	output string
}

var preflightCmd = &cobra.Command{
	Use:   "preflight",
	Short: "Probe every configured provider",
	Long: `Probe every configured provider and report which ones are eligible.

Exits non-zero when no provider is ready, so it can gate deployments.

Examples:
  scribe preflight --config scribe.yaml
  scribe preflight -o json`,
	RunE: runPreflight,
}

func init() {
	rootCmd.AddCommand(preflightCmd)
	preflightCmd.Flags().StringVarP(&preflightFlags.output, "output", "o", string(cli.FormatText), "output: text, json, csv")
}

func runPreflight(cmd *cobra.Command, _ []string) error {
	output, err := cli.ParseOutputFormat(preflightFlags.output)
	if err != nil {
		return cli.NewConfigError("--output", err.Error())
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	_, svc, err := openService(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer svc.Close()

	report := svc.Preflight(ctx)

	out := cmd.OutOrStdout()
	switch output {
	case cli.FormatJSON:
		err = cli.NewFormatter(output).FormatTo(out, report)
	case cli.FormatCSV:
		err = cli.NewFormatter(output).FormatTo(out, probeTable(report.Probes))
	default:
		fmt.Fprintf(out, "State: %s (%s)\n", report.State, report.Duration.Round(time.Millisecond))
		if len(report.EligibleProviders) > 0 {
			fmt.Fprintf(out, "Eligible: %s\n", strings.Join(report.EligibleProviders, ", "))
		}
		fmt.Fprintln(out)
		err = cli.NewFormatter(output).FormatTo(out, probeTable(report.Probes))
	}
	if err != nil {
		return cli.NewCommandError("preflight", err)
	}

	if !report.Ready {
		return cli.NewCommandError("preflight", errBlocked)
	}
	return nil
}

type probeTable []preflight.Probe

func (p probeTable) Header() []string {
	return []string{"PROVIDER", "CONNECTED", "QUOTA", "ELIGIBLE", "LATENCY", "ERROR"}
}

func (p probeTable) Rows() [][]string {
	rows := make([][]string, 0, len(p))
	for _, pr := range p {
		rows = append(rows, []string{
			pr.Provider,
			yesNo(pr.Connected),
			yesNo(pr.HasQuota),
			yesNo(pr.Eligible),
			pr.Latency.Round(time.Millisecond).String(),
			pr.Error,
		})
	}
	return rows
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
