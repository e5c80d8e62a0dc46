package main

import (
	"fmt"
	"strconv"

	"mercator-hq/scribe/pkg/cli"
	"mercator-hq/scribe/pkg/providerfactory"
	"mercator-hq/scribe/pkg/providers"
	"mercator-hq/scribe/pkg/telemetry/logging"

	"github.com/spf13/cobra"
)

var validateFlags struct {
	output string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Load the configuration with environment overrides, validate it, and list
the providers it defines. No network requests are made; use preflight to
check connectivity.

A provider without credentials is valid configuration but is never
dispatched to.

Examples:
  scribe validate --config scribe.yaml
  SCRIBE_PROVIDERS_OPENAI_API_KEY=sk-... scribe validate -c scribe.yaml -o json`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVarP(&validateFlags.output, "output", "o", string(cli.FormatText), "output: text, json, csv")
}

// providerSummary is one provider as validate reports it. The API key is
// redacted.
type providerSummary struct {
	Name            string  `json:"name"`
	Type            string  `json:"type"`
	Model           string  `json:"model,omitempty"`
	Configured      bool    `json:"configured"`
	APIKey          string  `json:"api_key,omitempty"`
	Weight          float64 `json:"weight"`
	DailyTokenQuota int64   `json:"daily_token_quota"`
}

type summaryTable []providerSummary

func (s summaryTable) Header() []string {
	return []string{"PROVIDER", "TYPE", "MODEL", "CONFIGURED", "KEY", "WEIGHT", "QUOTA"}
}

func (s summaryTable) Rows() [][]string {
	rows := make([][]string, 0, len(s))
	for _, p := range s {
		rows = append(rows, []string{
			p.Name, p.Type, p.Model, yesNo(p.Configured), p.APIKey,
			strconv.FormatFloat(p.Weight, 'f', -1, 64),
			strconv.FormatInt(p.DailyTokenQuota, 10),
		})
	}
	return rows
}

func runValidate(cmd *cobra.Command, _ []string) error {
	output, err := cli.ParseOutputFormat(validateFlags.output)
	if err != nil {
		return cli.NewConfigError("--output", err.Error())
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := setupLogging(cfg, cmd.ErrOrStderr()); err != nil {
		return err
	}

	registry, err := providerfactory.FromConfig(cfg)
	if err != nil {
		return cli.NewConfigError("providers", err.Error())
	}
	defer providerfactory.Close(registry.All())

	summary := summarize(registry.All())

	out := cmd.OutOrStdout()
	if output == cli.FormatText {
		source := cfgFile
		if source == "" {
			source = "defaults and environment"
		}
		fmt.Fprintf(out, "✓ Configuration valid (%s)\n", source)
		fmt.Fprintf(out, "✓ %d of %d providers configured\n\n", len(registry.Configured()), registry.Len())
	}

	if err := cli.NewFormatter(output).FormatTo(out, summary); err != nil {
		return cli.NewCommandError("validate", err)
	}
	return nil
}

func summarize(adapters []providers.Adapter) summaryTable {
	s := make(summaryTable, 0, len(adapters))
	for _, a := range adapters {
		d := a.Descriptor()
		s = append(s, providerSummary{
			Name:            d.Name,
			Type:            string(d.Type),
			Model:           d.Model,
			Configured:      a.Configured(),
			APIKey:          logging.RedactAPIKey(d.APIKey),
			Weight:          d.Weight,
			DailyTokenQuota: d.DailyTokenQuota,
		})
	}
	return s
}
