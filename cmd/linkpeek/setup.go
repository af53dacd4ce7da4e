package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nao1215/linkpeek/internal/config"
	"github.com/nao1215/linkpeek/internal/fetch"
	applog "github.com/nao1215/linkpeek/internal/log"
	"github.com/nao1215/linkpeek/internal/metadata"
	"github.com/nao1215/linkpeek/internal/pipeline"
	"github.com/nao1215/linkpeek/internal/risk"
)

// addFetchFlags registers the flags shared by expand and serve.
func addFetchFlags(cmd *cobra.Command) {
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each HTTP request")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User-Agent header sent with every request")
	cmd.Flags().StringP("proxy", "x", "",
		"Route requests through a SOCKS5 proxy (host:port)")
	cmd.Flags().Int("max-redirects", config.DefaultMaxRedirects,
		"Maximum number of redirects to follow")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum number of body bytes read per page")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .linkpeek.yaml or $XDG_CONFIG_HOME/linkpeek/config.yaml)")
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig layers defaults, the configuration file and explicitly set
// flags, in that order.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicit --config must exist; the default locations are optional.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.ApplyTo(cfg)
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if err := applyChangedFlags(cmd, cfg); err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.Targets = args

	return cfg, nil
}

// applyChangedFlags copies every flag the user actually set into cfg.
// Flags left at their default never override the configuration file.
func applyChangedFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	var errs []error
	flags.Visit(func(f *pflag.Flag) {
		var err error
		switch f.Name {
		case "timeout":
			cfg.Timeout, err = flags.GetDuration(f.Name)
		case "user-agent":
			cfg.UserAgent, err = flags.GetString(f.Name)
		case "proxy":
			cfg.ProxyAddress, err = flags.GetString(f.Name)
		case "max-redirects":
			cfg.MaxRedirects, err = flags.GetInt(f.Name)
		case "max-body-size":
			cfg.MaxBodySize, err = flags.GetInt64(f.Name)
		case "batch":
			cfg.BatchSize, err = flags.GetInt(f.Name)
		case "json":
			cfg.JSONReport, err = flags.GetBool(f.Name)
		case "markdown":
			cfg.MarkdownReport, err = flags.GetBool(f.Name)
		case "output":
			cfg.ReportFile, err = flags.GetString(f.Name)
		case "listen":
			cfg.ListenAddress, err = flags.GetString(f.Name)
		case "shutdown-timeout":
			cfg.ShutdownTimeout, err = flags.GetDuration(f.Name)
		case "log-format":
			cfg.LogFormat, err = flags.GetString(f.Name)
		}
		if err != nil {
			errs = append(errs, err)
		}
	})

	return errors.Join(errs...)
}

// setupLogger creates the secure structured logger for cfg.
func setupLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	if cfg.LogFormat == "json" {
		return applog.NewSecureJSONLogger(w, cfg.Verbose)
	}
	return applog.NewSecureLogger(w, cfg.Verbose)
}

// newAnalyzer wires fetcher, risk scorer and metadata resolver.
func newAnalyzer(cfg *config.Config, logger *slog.Logger) (*pipeline.Analyzer, error) {
	fetcher, err := fetch.NewHTTPFetcher(
		fetch.WithProxy(cfg.ProxyAddress),
		fetch.WithMaxRedirects(cfg.MaxRedirects),
		fetch.WithMaxBodySize(cfg.EffectiveMaxBodySize()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	client := fetch.NewResilient(fetcher,
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithLogger(logger),
	)

	if cfg.ProxyAddress != "" {
		logger.Info("using SOCKS5 proxy", "address", fetcher.ProxyAddress())
	}

	return pipeline.New(
		risk.NewScorer(client, risk.WithLogger(logger)),
		metadata.NewResolver(client, metadata.WithLogger(logger)),
		pipeline.WithLogger(logger),
	), nil
}
