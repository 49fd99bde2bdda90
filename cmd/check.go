package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chriserin/gherkinast/internal/config"
	"github.com/chriserin/gherkinast/internal/ctxlog"
	"github.com/chriserin/gherkinast/internal/parser"
	"github.com/chriserin/gherkinast/internal/ui"
	"github.com/chriserin/gherkinast/internal/watch"
)

var errCheckFailed = errors.New("check failed")

var watchFlag bool

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Parse feature files and report classified errors",
	RunE: func(cmd *cobra.Command, args []string) error {
		if watchFlag {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return RunCheckWatch(ctx, cmd.OutOrStdout(), args)
		}
		return RunCheck(cmd.Context(), cmd.OutOrStdout(), args)
	},
}

func init() {
	checkCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Re-check files when they change")
	rootCmd.AddCommand(checkCmd)
}

// RunCheck loads every file under paths, defaulting to the features
// directory, and fails when any of them is rejected.
func RunCheck(ctx context.Context, w io.Writer, paths []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	files, err := expandPaths(cfg, paths)
	if err != nil {
		return err
	}

	failed := checkFiles(ctx, w, newLoader(cfg), cfg.Encoding, files)
	ui.CheckSummary(w, len(files), failed)
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d files", errCheckFailed, failed, len(files))
	}
	return nil
}

// RunCheckWatch checks once, then re-checks changed files until ctx is done.
func RunCheckWatch(ctx context.Context, w io.Writer, paths []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		paths = []string{cfg.FeaturesDir}
	}

	watcher, err := watch.New()
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := watcher.Add(p); err != nil {
			watcher.Close()
			return fmt.Errorf("watching %s: %w", p, err)
		}
	}

	if err := RunCheck(ctx, w, paths); err != nil && !errors.Is(err, errCheckFailed) {
		watcher.Close()
		return err
	}

	loader := newLoader(cfg)
	return watcher.Run(ctx, func(changed []string) {
		var present []string
		for _, p := range changed {
			if _, err := os.Stat(p); err == nil {
				present = append(present, filepath.ToSlash(p))
			}
		}
		if len(present) == 0 {
			return
		}
		failed := checkFiles(ctx, w, loader, cfg.Encoding, present)
		ui.CheckSummary(w, len(present), failed)
	})
}

func checkFiles(ctx context.Context, w io.Writer, loader *parser.Loader, encoding string, files []string) int {
	log := ctxlog.FromContext(ctx)
	failed := 0
	for _, path := range files {
		if _, err := loader.Load(ctx, path, encoding); err != nil {
			log.Debug("check: file rejected", "path", path, "error", err)
			r := resultFor(err)
			ui.ErrorBlock(w, r.category, r.message, path, r.line, r.lineText)
			failed++
			continue
		}
		ui.OkLine(w, path)
	}
	return failed
}

// expandPaths turns files and directories into a sorted, de-duplicated file list.
func expandPaths(cfg *config.Config, paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{cfg.FeaturesDir}
	}
	seen := map[string]bool{}
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		var found []string
		if info.IsDir() {
			if found, err = findFeatures(p); err != nil {
				return nil, fmt.Errorf("scanning %s: %w", p, err)
			}
		} else {
			found = []string{filepath.ToSlash(p)}
		}
		for _, f := range found {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}
