package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/nao1215/colorcarbon/internal/config"
	"github.com/nao1215/colorcarbon/internal/crawler"
	"github.com/nao1215/colorcarbon/internal/model"
	"github.com/nao1215/colorcarbon/internal/pipeline"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <url>...",
		Short: "Score the CSS colors of one or more websites",
		Long: `Scan fetches each page, collects colors from style attributes and
linked stylesheets, and scores them. <style> elements are only read with
--style-elements.

A page that cannot be reached produces no report; a page that answers with
an error status is still scored. A stylesheet that cannot
be fetched is skipped and counted in the report. URLs without a scheme are
fetched over https.

Examples:
  # Score a single site
  colorcarbon scan example.com

  # Score several sites, four at a time, as JSON
  colorcarbon scan --json -n 4 example.com example.org

  # Also score colors inside <style> elements
  colorcarbon scan --style-elements https://example.com

  # Route requests through a SOCKS5 proxy
  colorcarbon scan --proxy 127.0.0.1:1080 https://example.com

Configuration file (.colorcarbon) example:
  sites:
    example.com:
      cookie: "session_id=abc123"
      headers:
        Authorization: "Bearer token"
      ignorePatterns:
        - "fonts.googleapis.com"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runScanCmd,
	}

	addOutputFlags(cmd)

	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy address for all requests (host:port)")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with requests")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum bytes read from a page or stylesheet")
	cmd.Flags().Bool("style-elements", false,
		"Also collect colors from <style> element contents")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .colorcarbon in current or home directory)")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildScanConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd)

	factory, err := websiteFactory(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(context.Background())
	defer cancel()

	return runAnalyses(ctx, cmd, cfg, model.KindWebsite, factory, logger)
}

// buildScanConfig creates a Config from the scan flags and site file.
func buildScanConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	if err := applyOutputFlags(cmd, cfg); err != nil {
		return nil, err
	}

	var err error
	if cfg.ProxyAddress, err = cmd.Flags().GetString("proxy"); err != nil {
		return nil, err
	}
	if cfg.UserAgent, err = cmd.Flags().GetString("user-agent"); err != nil {
		return nil, err
	}
	if cfg.MaxBodySize, err = cmd.Flags().GetInt64("max-body-size"); err != nil {
		return nil, err
	}
	if cfg.IncludeStyleElements, err = cmd.Flags().GetBool("style-elements"); err != nil {
		return nil, err
	}

	if cfg.ConfigFilePath, err = cmd.Flags().GetString("config"); err != nil {
		return nil, err
	}

	// An explicitly named config file must exist; a missing default one
	// just means no site settings.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	default:
		cfg.SiteConfigs = &config.File{Sites: make(map[string]config.SiteConfig)}
	}

	cfg.Targets = args
	return cfg, nil
}

// websiteFactory builds one fetcher per target up front, so an invalid
// proxy or URL fails before any request is sent, and returns a pipeline
// factory using them.
func websiteFactory(cfg *config.Config, logger *slog.Logger) (func(string) *pipeline.Pipeline, error) {
	fetchers := make(map[string]*crawler.Fetcher, len(cfg.Targets))

	for _, target := range cfg.Targets {
		normalized, err := crawler.NormalizeURL(target)
		if err != nil {
			return nil, fmt.Errorf("invalid target %q: %w", target, err)
		}
		if _, ok := fetchers[target]; ok {
			continue
		}

		u, err := url.Parse(normalized)
		if err != nil {
			return nil, fmt.Errorf("invalid target %q: %w", target, err)
		}
		site := cfg.SiteConfigs.GetSiteConfig(target)
		fetcher, err := newFetcher(cfg, u.Host, site, logger)
		if err != nil {
			return nil, err
		}
		fetchers[target] = fetcher
	}

	return func(target string) *pipeline.Pipeline {
		return pipeline.WebsitePipeline(
			fetchers[target],
			[]pipeline.Option{pipeline.WithLogger(logger)},
			pipeline.WithStyleElements(cfg.IncludeStyleElements),
			pipeline.WithPageLogger(logger),
		)
	}, nil
}

// newFetcher creates the fetcher for one site. Site cookies and headers are
// only sent to siteHost.
func newFetcher(cfg *config.Config, siteHost string, site config.SiteConfig, logger *slog.Logger) (*crawler.Fetcher, error) {
	clientOpts := []crawler.ClientOption{crawler.WithSiteHost(siteHost)}
	if cfg.ProxyAddress != "" {
		clientOpts = append(clientOpts, crawler.WithProxy(cfg.ProxyAddress))
	}
	if site.Cookie != "" {
		clientOpts = append(clientOpts, crawler.WithCookie(site.Cookie))
	}
	if len(site.Headers) > 0 {
		clientOpts = append(clientOpts, crawler.WithHeaders(site.Headers))
	}

	client, err := crawler.NewHTTPClient(cfg.Timeout, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	userAgent := cfg.UserAgent
	if site.UserAgent != "" {
		userAgent = site.UserAgent
	}

	return crawler.NewFetcher(client,
		crawler.WithUserAgent(userAgent),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
		crawler.WithIgnorePatterns(site.IgnorePatterns),
		crawler.WithConcurrency(cfg.Concurrency),
		crawler.WithLogger(logger),
	), nil
}
