package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"mercator-hq/scribe/pkg/cli"
	"mercator-hq/scribe/pkg/content"
	"mercator-hq/scribe/pkg/orchestrator"
	"mercator-hq/scribe/pkg/render"

	"github.com/spf13/cobra"
)

var generateFlags struct {
	keyword  string
	url      string
	anchor   string
	words    int
	tone     string
	seo      string
	industry string
	audience string
	format   string
	output   string
	batch    string
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an article",
	Long: `Generate one article from the flags, or one per line of a JSON Lines
file with --batch.

With --output text the article is written to stdout and a summary to
stderr. With --output json the full result, including per-provider
reports, is written to stdout.

Examples:
  # Markdown article
  scribe generate --keyword "espresso machines" --url https://example.com/buy

  # HTML with a custom anchor and tone
  scribe generate -k "solar panels" -u https://example.com/solar \
    --anchor "home solar panels" --tone friendly --format html

  # Batch: each line is {"keyword": ..., "target_url": ..., ...}
  scribe generate --batch requests.jsonl > results.jsonl`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	f := generateCmd.Flags()
	f.StringVarP(&generateFlags.keyword, "keyword", "k", "", "article topic (required unless --batch)")
	f.StringVarP(&generateFlags.url, "url", "u", "", "target URL the article must link to (required unless --batch)")
	f.StringVar(&generateFlags.anchor, "anchor", "", "link anchor text (defaults to the keyword)")
	f.IntVarP(&generateFlags.words, "words", "w", content.DefaultWordCount, "target word count")
	f.StringVar(&generateFlags.tone, "tone", string(content.ToneProfessional), "tone: professional, casual, technical, friendly")
	f.StringVar(&generateFlags.seo, "seo", string(content.SEOFocusMedium), "SEO focus: low, medium, high")
	f.StringVar(&generateFlags.industry, "industry", "", "industry context hint")
	f.StringVar(&generateFlags.audience, "audience", "", "audience context hint")
	f.StringVarP(&generateFlags.format, "format", "f", string(render.FormatMarkdown), "article format: markdown, html")
	f.StringVarP(&generateFlags.output, "output", "o", string(cli.FormatText), "output: text, json")
	f.StringVar(&generateFlags.batch, "batch", "", "JSON Lines file of requests")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	format, err := render.ParseFormat(generateFlags.format)
	if err != nil {
		return cli.NewConfigError("--format", err.Error())
	}
	output, err := cli.ParseOutputFormat(generateFlags.output)
	if err != nil || output == cli.FormatCSV {
		return cli.NewConfigError("--output", "must be text or json")
	}

	var requests []content.Request
	if generateFlags.batch != "" {
		requests, err = readBatch(generateFlags.batch)
		if err != nil {
			return err
		}
	} else {
		req, err := content.NewRequest(requestFromFlags())
		if err != nil {
			return err
		}
		requests = []content.Request{req}
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	_, svc, err := openService(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer svc.Close()

	if generateFlags.batch != "" {
		return runBatch(ctx, cmd, svc, requests, format)
	}

	res, err := svc.Generate(ctx, requests[0])
	if err != nil {
		return cli.NewCommandError("generate", err)
	}
	if res.Content, err = render.Convert(res.Content, format); err != nil {
		return cli.NewCommandError("generate", err)
	}

	if output == cli.FormatJSON {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(cmd.OutOrStdout(), res)
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, res.Content)
	if !strings.HasSuffix(res.Content, "\n") {
		fmt.Fprintln(out)
	}
	printSummary(cmd.ErrOrStderr(), res)
	return nil
}

func requestFromFlags() content.Request {
	return content.Request{
		Keyword:    generateFlags.keyword,
		TargetURL:  generateFlags.url,
		AnchorText: generateFlags.anchor,
		WordCount:  generateFlags.words,
		Tone:       content.Tone(generateFlags.tone),
		SEOFocus:   content.SEOFocus(generateFlags.seo),
		Industry:   generateFlags.industry,
		Audience:   generateFlags.audience,
	}
}

func printSummary(w io.Writer, res *content.Result) {
	fmt.Fprintf(w, "\n✓ %s (%s) %d words, $%.4f, %s\n",
		res.Provider, res.Source, res.Metadata.WordCount, res.TotalCost,
		res.ProcessingTime.Round(time.Millisecond))
	if res.RequiresReview {
		fmt.Fprintln(w, "! flagged for human review by moderation")
	}
	if verbose {
		fmt.Fprintln(w)
		_ = (&cli.TextFormatter{}).FormatTo(w, reportTable(res.Providers))
	}
}

// reportTable lists provider attempts in ranking order.
type reportTable []content.ProviderReport

func (r reportTable) Header() []string {
	return []string{"RANK", "PROVIDER", "STATUS", "TOKENS", "COST", "LATENCY", "QUALITY", "SCORE"}
}

func (r reportTable) Rows() [][]string {
	rows := make([][]string, 0, len(r))
	for _, p := range r {
		rank, status := "-", "ok"
		if p.Rank > 0 {
			rank = strconv.Itoa(p.Rank)
		}
		switch {
		case p.Winner:
			status = "winner"
		case !p.Success:
			status = p.ErrorClass
		case p.Disqualified:
			status = "disqualified"
		}
		rows = append(rows, []string{
			rank, p.Provider, status,
			strconv.Itoa(p.Tokens),
			fmt.Sprintf("%.4f", p.Cost),
			p.Latency.Round(time.Millisecond).String(),
			fmt.Sprintf("%.1f", p.Quality),
			fmt.Sprintf("%.3f", p.Composite),
		})
	}
	return rows
}

// batchLine is one line of batch output.
type batchLine struct {
	// Line is the request's position in the batch, counting from 1.
	Line   int             `json:"line"`
	Result *content.Result `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// readBatch parses a JSON Lines request file. Blank lines are skipped;
// any invalid line fails the whole batch before generation starts.
func readBatch(path string) ([]content.Request, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, cli.NewConfigError("--batch", err.Error())
	}
	defer f.Close()

	var requests []content.Request
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var r content.Request
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			return nil, cli.NewConfigError("--batch", fmt.Sprintf("line %d: %v", n, err))
		}
		req, err := content.NewRequest(r)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		requests = append(requests, req)
	}
	if err := scanner.Err(); err != nil {
		return nil, cli.NewConfigError("--batch", err.Error())
	}
	if len(requests) == 0 {
		return nil, cli.NewConfigError("--batch", "no requests in file")
	}
	return requests, nil
}

// runBatch generates sequentially so quotas are observed between
// requests. Rejected requests are reported per line and do not stop the
// batch.
func runBatch(ctx context.Context, cmd *cobra.Command, svc *orchestrator.Service, requests []content.Request, format render.Format) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	progress := cli.NewProgressReporter(cmd.ErrOrStderr())
	progress.Start(len(requests))

	failed := 0
	for i, req := range requests {
		if ctx.Err() != nil {
			break
		}
		line := batchLine{Line: i + 1}
		res, err := svc.Generate(ctx, req)
		if err == nil {
			res.Content, err = render.Convert(res.Content, format)
		}
		if err != nil {
			failed++
			line.Error = err.Error()
		} else {
			line.Result = res
		}
		if err := enc.Encode(line); err != nil {
			return cli.NewCommandError("generate", err)
		}
		progress.Advance(err == nil && res.Source == content.SourceFallback, err != nil)
	}
	progress.Finish()

	if failed > 0 {
		return cli.NewCommandError("generate", fmt.Errorf("%d of %d requests failed", failed, len(requests)))
	}
	if err := ctx.Err(); err != nil {
		return cli.NewCommandError("generate", err)
	}
	return nil
}
