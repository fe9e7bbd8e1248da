package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/speakeasy-api/animmod/pkg/report"
	"github.com/speakeasy-api/animmod/pkg/scenefile"
	"github.com/speakeasy-api/animmod/propmod"
	"github.com/spf13/cobra"
)

const defaultDebounce = 200 * time.Millisecond

func runWatch(cmd *cobra.Command, cfg *config, path string) error {
	ropts, err := cfg.reportOptions(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	debounce, _ := cmd.Flags().GetDuration("debounce")
	w := &watcher{
		path:     path,
		opts:     cfg.options(cmd.ErrOrStderr()),
		debounce: debounce,
		out:      cmd.OutOrStdout(),
		errOut:   cmd.ErrOrStderr(),
		ropts:    ropts,
	}
	return w.run(cmd.Context())
}

// watcher re-analyzes one scene document on change and prints a report
// when the table fingerprint differs from the last printed one.
type watcher struct {
	path     string
	opts     propmod.Options
	debounce time.Duration
	out      io.Writer
	errOut   io.Writer
	ropts    report.Options

	last string
}

func (w *watcher) run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	// editors replace files on save, so watch the directory
	target := filepath.Clean(w.path)
	if err := fw.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.path, err)
	}

	w.refresh(ctx)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(w.errOut, "watch error: %v\n", err)
		case <-timer.C:
			w.refresh(ctx)
		}
	}
}

// refresh reports load and analysis failures to errOut and keeps watching.
func (w *watcher) refresh(ctx context.Context) {
	s, err := scenefile.Load(w.path)
	if err != nil {
		fmt.Fprintln(w.errOut, loadError(err))
		return
	}
	res, err := propmod.Analyze(ctx, s.Sources(), w.opts)
	if err != nil {
		if ctx.Err() == nil {
			fmt.Fprintf(w.errOut, "%s: %v\n", w.path, err)
		}
		return
	}
	fp := propmod.Fingerprint(res.Table)
	if fp == w.last {
		return
	}
	w.last = fp
	if err := report.Write(w.out, w.ropts, report.New(w.path, res)); err != nil {
		fmt.Fprintf(w.errOut, "failed to write report: %v\n", err)
	}
}
