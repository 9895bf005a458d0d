package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/goexpediente/internal/app"
	"github.com/hyperifyio/goexpediente/internal/checklist"
)

// errPartial reports a batch in which some inputs produced no report.
var errPartial = errors.New("some documents were not validated")

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:   "goexpediente",
		Short: "Validate technical deliverables against their required checklist",
		Long: `goexpediente reads the text of a technical file (PDF, HTML export or plain
text), checks every component against a declarative checklist of required
sections, annexes and plans, and writes JSON, text and PDF reports.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
	root.AddCommand(newValidateCmd(), newChecklistCmd(), newVersionCmd())
	return root
}

type validateFlags struct {
	config      string
	envFiles    []string
	outputDir   string
	catalog     string
	formats     string
	concurrency int
	cacheDir    string
	cacheMaxAge time.Duration
	cacheClear  bool
	cacheStrict bool
	noCache     bool
	now         string
}

func newValidateCmd() *cobra.Command {
	var f validateFlags
	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Validate one or more documents and write reports",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, f, args)
			if err != nil {
				return err
			}
			if cfg.Verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("init app: %w", err)
			}
			defer a.Close()
			outcomes, err := a.Run(cmd.Context())
			printSummary(cmd.OutOrStdout(), outcomes)
			if err != nil {
				return err
			}
			for _, o := range outcomes {
				if o.Err != nil {
					return errPartial
				}
			}
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.config, "config", "", "Path to a YAML or JSON config file")
	fl.StringSliceVar(&f.envFiles, "env-file", []string{".env"}, "Dotenv files loaded before reading the environment")
	fl.StringVarP(&f.outputDir, "output-dir", "o", "", "Directory for the reports (default \"reportes\")")
	fl.StringVar(&f.catalog, "catalog", "", "Embedded catalog name or path to a catalog YAML (default \""+checklist.DefaultName+"\")")
	fl.StringVar(&f.formats, "format", "", "Report formats: json,txt,pdf (default all)")
	fl.IntVar(&f.concurrency, "concurrency", 0, "Documents validated in parallel (default 4)")
	fl.StringVar(&f.cacheDir, "cache-dir", "", "Extraction cache directory (default \".goexpediente-cache\")")
	fl.DurationVar(&f.cacheMaxAge, "cache-max-age", 0, "Purge cache entries older than this at startup; 0 disables")
	fl.BoolVar(&f.cacheClear, "cache-clear", false, "Clear the cache directory before the run")
	fl.BoolVar(&f.cacheStrict, "cache-strict-perms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
	fl.BoolVar(&f.noCache, "no-cache", false, "Disable the extraction cache")
	fl.StringVar(&f.now, "now", "", "Reference time for calibration windows (RFC3339 or YYYY-MM-DD)")
	return cmd
}

// resolveConfig layers flags over env over the config file. Only flags the
// user set count as explicit.
func resolveConfig(cmd *cobra.Command, f validateFlags, args []string) (app.Config, error) {
	if err := app.LoadEnvFiles(f.envFiles...); err != nil {
		return app.Config{}, err
	}
	var explicit app.Config
	explicit.Inputs = args
	changed := cmd.Flags().Changed
	if changed("output-dir") {
		explicit.OutputDir = f.outputDir
	}
	if changed("catalog") {
		explicit.Catalog = f.catalog
	}
	if changed("format") {
		formats, err := app.ParseFormats(f.formats)
		if err != nil {
			return app.Config{}, err
		}
		explicit.Formats = formats
	}
	if changed("concurrency") {
		if f.concurrency <= 0 {
			return app.Config{}, fmt.Errorf("--concurrency must be positive")
		}
		explicit.Concurrency = f.concurrency
	}
	if changed("cache-dir") {
		explicit.CacheDir = f.cacheDir
	}
	explicit.CacheMaxAge = f.cacheMaxAge
	explicit.CacheClear = f.cacheClear
	explicit.CacheStrictPerms = f.cacheStrict
	explicit.NoCache = f.noCache
	if changed("now") {
		t, err := app.ParseNow(f.now, time.Local)
		if err != nil {
			return app.Config{}, err
		}
		explicit.Now = t
	}
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		explicit.Verbose = true
	}

	var fc *app.FileConfig
	if strings.TrimSpace(f.config) != "" {
		loaded, err := app.LoadConfigFile(f.config)
		if err != nil {
			return app.Config{}, fmt.Errorf("config %s: %w", f.config, err)
		}
		fc = &loaded
	}
	return app.Layer(explicit, fc)
}

func printSummary(w io.Writer, outcomes []app.Outcome) {
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(w, "%s: ERROR %v\n", o.Input, o.Err)
			continue
		}
		md := o.Report.Metadata
		fmt.Fprintf(w, "%s: %s (%d/%d componentes válidos)\n", o.Input, md.Status, md.Valid, md.Total)
		for _, name := range o.Files {
			fmt.Fprintf(w, "  %s\n", name)
		}
	}
}

func newChecklistCmd() *cobra.Command {
	var (
		catalog string
		names   bool
	)
	cmd := &cobra.Command{
		Use:   "checklist",
		Short: "Show the components, required items and thresholds of a catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if names {
				for _, n := range checklist.Names() {
					fmt.Fprintln(w, n)
				}
				return nil
			}
			cat, err := checklist.Load(catalog)
			if err != nil {
				return err
			}
			printCatalog(w, cat)
			return nil
		},
	}
	cmd.Flags().StringVar(&catalog, "catalog", "", "Embedded catalog name or path to a catalog YAML")
	cmd.Flags().BoolVar(&names, "names", false, "List the embedded catalogs")
	return cmd
}

func printCatalog(w io.Writer, cat *checklist.Catalog) {
	fmt.Fprintf(w, "%s (%s)\n", cat.Title, cat.Name)
	for _, c := range cat.Components {
		fmt.Fprintf(w, "\n[%s] %s (regla %s)\n", c.ID, c.Name, c.Rule)
		for _, l := range c.Lists {
			fmt.Fprintf(w, "  %s: mínimo %d de %d\n", l.Title, l.Min, l.LogicalCount())
			for _, it := range l.Items {
				if len(it) > 1 {
					fmt.Fprintf(w, "    - %s (variantes: %s)\n", it.Key(), strings.Join(it[1:], "; "))
					continue
				}
				fmt.Fprintf(w, "    - %s\n", it.Key())
			}
		}
		if cc := c.Checks.Captions; cc != nil && cc.Item != "" {
			fmt.Fprintf(w, "  Leyendas de fotografía cuentan como %q\n", cc.Item)
		}
		for _, cc := range []struct {
			label string
			check *checklist.CountCheck
		}{{"Fotografías", c.Checks.Photos}, {"Puntos de investigación", c.Checks.Points}} {
			if cc.check != nil {
				fmt.Fprintf(w, "  %s: mínimo %d\n", cc.label, cc.check.Min)
			}
		}
		if cal := c.Checks.Calibration; cal != nil {
			fmt.Fprintf(w, "  Certificado de calibración: vigencia %d días\n", cal.WindowDays)
		}
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), app.VersionString())
		},
	}
}
