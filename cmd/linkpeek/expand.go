package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/linkpeek/internal/config"
	"github.com/nao1215/linkpeek/internal/model"
	"github.com/nao1215/linkpeek/internal/pipeline"
	"github.com/nao1215/linkpeek/internal/report"
)

// NewExpandCmd creates the expand command.
func NewExpandCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expand <url>...",
		Short: "Expand URLs and report their risk and preview metadata",
		Long: `Expand follows each URL to its final destination and reports:
- A risk score from 0 to 100 with the rules that lowered it
- The redirect chain and security headers of the destination
- Preview metadata: title, description, preview image and favicon

Examples:
  # Check a single link
  linkpeek expand https://bit.ly/3xyz

  # Check several links, four at a time
  linkpeek expand --batch 4 https://t.co/a https://tinyurl.com/b

  # Write a Markdown report and print a short summary
  linkpeek expand --markdown -o report.md https://bit.ly/3xyz

  # Route requests through Tor
  linkpeek expand --proxy 127.0.0.1:9050 https://bit.ly/3xyz`,
		Args: cobra.MinimumNArgs(1),
		RunE: runExpandCmd,
	}

	addFetchFlags(cmd)

	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of URLs analyzed concurrently")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runExpandCmd executes the expand command.
func runExpandCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.ValidateTargets(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Invalid input fails before any request is made.
	for _, target := range cfg.Targets {
		if _, err := model.ParseTargetURL(target); err != nil {
			return fmt.Errorf("%w: %q", err, target)
		}
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runExpand(ctx, cfg, logger, cmd.OutOrStdout())
}

// runExpand analyzes every target and writes the report.
func runExpand(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer) error {
	analyzer, err := newAnalyzer(cfg, logger)
	if err != nil {
		return err
	}

	bp := pipeline.NewBatchProcessor(analyzer,
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	logger.Info("starting analysis",
		"targets", len(cfg.Targets),
		"batchSize", cfg.BatchSize,
	)

	start := time.Now()
	analyses, err := bp.ProcessBatch(ctx, cfg.Targets)
	if err != nil {
		return fmt.Errorf("analysis interrupted: %w", err)
	}
	logger.Info("analysis finished", "elapsed", time.Since(start).Round(time.Millisecond))

	return outputReport(cfg, analyses, stdout)
}

// outputReport writes the analyses in the configured format. With
// --output the chosen format goes to the file and a one-line-per-URL
// summary still goes to stdout.
func outputReport(cfg *config.Config, analyses []*model.Analysis, stdout io.Writer) error {
	var output io.Writer = stdout
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(output)
	default:
		w = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	if cfg.ReportFile != "" {
		w = report.NewMultiWriter(w, report.NewSimpleWriter(stdout, report.WithSummaryOnly(true)))
	}

	if _, err := w.Write(analyses); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if cfg.ReportFile != "" {
		fmt.Fprintf(stdout, "Report written to %s\n", cfg.ReportFile)
	}
	return nil
}
