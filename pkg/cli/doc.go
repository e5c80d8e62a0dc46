/*
Package cli provides helpers shared by the scribe commands.

Output Formatting:

Results print as text, JSON or CSV. Tabular results implement Table:

	f := cli.NewFormatter(cli.FormatCSV)
	if err := f.FormatTo(os.Stdout, usageRows); err != nil {
		return err
	}

Batch Progress:

	progress := cli.NewProgressReporter(os.Stderr)
	progress.Start(len(requests))
	for _, req := range requests {
		res, err := orch.Generate(ctx, req)
		progress.Advance(err == nil && res.Source == content.SourceFallback, err != nil)
	}
	progress.Finish()

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()

Exit Codes:

ExitCode maps command errors to process status: 1 for failures, 2 for
invalid configuration or requests, 3 for moderation rejections.
*/
package cli
