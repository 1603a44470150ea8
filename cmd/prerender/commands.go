package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"storesite/internal/app"
	"storesite/internal/config"
	"storesite/internal/logger"
	"storesite/internal/prerender"
)

// flags override the matching environment settings when set.
type flags struct {
	dist     string
	template string
	siteURL  string
	apiURL   string
	company  string
	logLevel string
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:   "prerender",
		Short: "Prerender the store site into static HTML",
		Long: `Fetch the public catalog, render every route of the site into the SPA
shell and write the result, a sitemap and the service worker precache list
into the dist directory.

Configuration comes from the environment (see .env); flags take precedence.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.dist, "dist", "", "dist directory (SITE_DIST_DIR)")
	pf.StringVar(&f.template, "template", "", "SPA shell, default <dist>/index.html (SITE_TEMPLATE)")
	pf.StringVar(&f.siteURL, "site-url", "", "canonical site origin (SITE_URL)")
	pf.StringVar(&f.apiURL, "api-url", "", "catalog API base URL (CATALOG_API_URL)")
	pf.StringVar(&f.company, "company", "", "company profile YAML (SITE_COMPANY_FILE)")
	pf.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error (LOG_LEVEL)")

	root.AddCommand(
		&cobra.Command{
			Use:   "build",
			Short: "Fetch the catalog and write the prerendered site",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runBuild(cmd, f, false)
			},
		},
		&cobra.Command{
			Use:   "publish",
			Short: "Build, then upload the site to object storage and record the build",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runBuild(cmd, f, true)
			},
		},
		&cobra.Command{
			Use:   "routes",
			Short: "Print the route table derived from the current catalog",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runRoutes(cmd, f)
			},
		},
	)
	return root
}

func (f *flags) apply(cfg *config.AppConfig) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Site.DistDir, f.dist)
	set(&cfg.Site.TemplatePath, f.template)
	set(&cfg.Site.URL, f.siteURL)
	set(&cfg.Catalog.BaseURL, f.apiURL)
	set(&cfg.Site.CompanyFile, f.company)
	set(&cfg.LogLevel, f.logLevel)
}

func setup(cmd *cobra.Command, f *flags) (*config.AppConfig, zerolog.Logger, *app.Pipeline, error) {
	cfg := config.Load()
	f.apply(cfg)
	log := logger.New(cfg.LogLevel, cmd.ErrOrStderr(), cfg.Location())
	if err := cfg.Validate(); err != nil {
		return nil, log, nil, err
	}
	// Metrics are process-local for a one-shot run.
	p, err := app.New(cmd.Context(), cfg, log, prometheus.NewRegistry())
	if err != nil {
		return nil, log, nil, err
	}
	return cfg, log, p, nil
}

func runBuild(cmd *cobra.Command, f *flags, publish bool) error {
	cfg, log, p, err := setup(cmd, f)
	if err != nil {
		return err
	}
	defer p.Close()

	ctx := cmd.Context()
	res, err := p.Site.Build(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "rendered %d routes into %s (%d skipped)\n", len(res.Routes), cfg.Site.DistDir, len(res.Skipped))
	for _, s := range res.Skipped {
		fmt.Fprintf(out, "  skipped %s\n", s)
	}
	if !publish {
		return nil
	}

	b, err := p.Publish(ctx, res)
	if err != nil {
		return err
	}
	log.Info().Str("event", "publish_completed").Str("build_id", b.ID).Msg("build published")
	fmt.Fprintf(out, "published build %s to %s (%d files)\n", b.ID, b.StoragePrefix, b.Files)
	return nil
}

func runRoutes(cmd *cobra.Command, f *flags) error {
	_, _, p, err := setup(cmd, f)
	if err != nil {
		return err
	}
	defer p.Close()

	ctx := cmd.Context()
	cat, err := p.Loader.Load(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tPRIORITY\tCHANGEFREQ\tTITLE")
	for _, rt := range prerender.Routes(cat, p.Company) {
		title := rt.Meta.Resolve(p.Company).Title
		fmt.Fprintf(w, "%s\t%.1f\t%s\t%s\n", rt.Path, rt.Priority, rt.ChangeFreq, strings.TrimSpace(title))
	}
	return w.Flush()
}
