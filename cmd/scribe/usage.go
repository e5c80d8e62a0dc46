package main

import (
	"fmt"
	"sort"
	"strconv"

	"mercator-hq/scribe/pkg/cli"
	"mercator-hq/scribe/pkg/usage"

	"github.com/spf13/cobra"
)

var usageFlags struct {
	output string
}

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show today's provider usage",
	Long: `Show today's token and cost counters per provider, restored from the
configured usage store (usage.backend). With the memory backend the
counters always start at zero.

Examples:
  scribe usage --config scribe.yaml
  scribe usage -o csv > usage.csv`,
	RunE: runUsage,
}

func init() {
	rootCmd.AddCommand(usageCmd)
	usageCmd.Flags().StringVarP(&usageFlags.output, "output", "o", string(cli.FormatText), "output: text, json, csv")
}

func runUsage(cmd *cobra.Command, _ []string) error {
	output, err := cli.ParseOutputFormat(usageFlags.output)
	if err != nil {
		return cli.NewConfigError("--output", err.Error())
	}

	_, svc, err := openService(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer svc.Close()

	records := svc.UsageReport()
	var data any = records
	if output != cli.FormatJSON {
		data = newUsageTable(records)
	}
	if err := cli.NewFormatter(output).FormatTo(cmd.OutOrStdout(), data); err != nil {
		return cli.NewCommandError("usage", err)
	}
	return nil
}

type usageTable []usage.Record

func newUsageTable(records map[string]usage.Record) usageTable {
	t := make(usageTable, 0, len(records))
	for _, r := range records {
		t = append(t, r)
	}
	sort.Slice(t, func(i, j int) bool { return t[i].Provider < t[j].Provider })
	return t
}

func (t usageTable) Header() []string {
	return []string{"PROVIDER", "DAY", "TOKENS", "QUOTA", "COST", "REQUESTS", "FAILED", "ELIGIBLE", "REASON"}
}

func (t usageTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, r := range t {
		quota := "unlimited"
		if r.DailyTokenQuota > 0 {
			quota = strconv.FormatInt(r.DailyTokenQuota, 10)
		}
		rows = append(rows, []string{
			r.Provider,
			r.Day,
			strconv.FormatInt(r.DailyTokens, 10),
			quota,
			fmt.Sprintf("%.4f", r.DailyCost),
			strconv.FormatInt(r.TotalRequests, 10),
			strconv.FormatInt(r.FailedRequests, 10),
			yesNo(r.Eligible),
			r.DisabledReason,
		})
	}
	return rows
}
