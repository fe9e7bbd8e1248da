package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/speakeasy-api/animmod"
	"github.com/speakeasy-api/animmod/pkg/report"
	"github.com/speakeasy-api/animmod/pkg/scenefile"
	"github.com/speakeasy-api/animmod/propmod"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// flags shared by analyze and watch.
type config struct {
	format    string
	logLevel  string
	strict    bool
	noColor   bool
	maxValues int
	noMemo    bool
	without   []string
	metrics   bool
}

func newRootCmd() *cobra.Command {
	cfg := &config{}
	root := &cobra.Command{
		Use:   "animmod",
		Short: "Report the properties a scene's animations may modify",
		Long: `animmod reads YAML scene documents and computes, for every property an
animation can touch, whether it is modified always, partially or never and
which values it can take.`,
		SilenceUsage: true,
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&cfg.format, "format", "f", "text", "Output format (text, yaml, json)")
	pf.StringVar(&cfg.logLevel, "log-level", "warn", "Log level (error, warn, info, debug)")
	pf.BoolVar(&cfg.strict, "strict", false, "Fail on the first structural error instead of dropping the behavior")
	pf.BoolVar(&cfg.noColor, "no-color", false, "Disable colored text output")
	pf.IntVar(&cfg.maxValues, "max-values", propmod.DefaultOptions().MaxValueSetSize, "Widen value sets larger than this to variable (0 disables)")
	pf.BoolVar(&cfg.noMemo, "no-memo", false, "Disable leaf and clip caches")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [scene file...]",
		Short: "Analyze one or more scene documents",
		Long:  `Analyzes every file in its own session, in parallel, and prints one report per file in argument order.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, cfg, args)
		},
	}
	analyzeCmd.Flags().StringSliceVar(&cfg.without, "without", nil, "Destroy these behaviors after the run and report the remaining table")
	analyzeCmd.Flags().BoolVar(&cfg.metrics, "metrics", false, "Print analysis counters to stderr")

	watchCmd := &cobra.Command{
		Use:   "watch [scene file]",
		Short: "Re-analyze a scene document whenever it changes",
		Long:  `Watches the file and prints a new report each time the analysis result changes.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, cfg, args[0])
		},
	}
	watchCmd.Flags().Duration("debounce", defaultDebounce, "Wait this long after the last change before re-analyzing")

	root.AddCommand(analyzeCmd, watchCmd)
	return root
}

func (c *config) options(log io.Writer) propmod.Options {
	opts := propmod.DefaultOptions()
	opts.StrictMode = c.strict
	opts.MaxValueSetSize = c.maxValues
	opts.EnableMemo = !c.noMemo
	opts.LogLevel = c.logLevel
	opts.Logger = propmod.NewLogger(propmod.ParseLogLevel(c.logLevel), log)
	return opts
}

func (c *config) reportOptions(out io.Writer) (report.Options, error) {
	format, err := report.ParseFormat(c.format)
	if err != nil {
		return report.Options{}, err
	}
	var tty *os.File
	if f, ok := out.(*os.File); ok && !c.noColor {
		tty = f
	}
	opts := report.DefaultOptions(tty)
	opts.Format = format
	return opts, nil
}

// loadError renders a scene loading failure for the terminal.
func loadError(err error) error {
	return errors.New(strings.TrimRight(scenefile.FormatLoadError(err), "\n"))
}

func runAnalyze(cmd *cobra.Command, cfg *config, paths []string) error {
	ropts, err := cfg.reportOptions(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	opts := cfg.options(cmd.ErrOrStderr())

	reports := make([]*report.Report, len(paths))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			r, err := analyzeFile(ctx, path, opts, cfg.without)
			if err != nil {
				return err
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := report.Write(cmd.OutOrStdout(), ropts, reports...); err != nil {
		return err
	}
	if cfg.metrics {
		return writeMetrics(cmd.ErrOrStderr())
	}
	return nil
}

func analyzeFile(ctx context.Context, path string, opts propmod.Options, without []string) (*report.Report, error) {
	s, err := scenefile.Load(path)
	if err != nil {
		return nil, loadError(err)
	}
	sess, err := propmod.NewSession(s.Sources(), opts)
	if err != nil {
		return nil, err
	}
	res, err := sess.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, id := range without {
		if !s.Destroy(animmod.ObjectID(id)) {
			return nil, fmt.Errorf("%s: unknown behavior %q", path, id)
		}
	}
	return report.New(path, res), nil
}
