package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/chriserin/gherkinast/internal/config"
	"github.com/chriserin/gherkinast/internal/ctxlog"
	"github.com/chriserin/gherkinast/internal/gherkin"
	"github.com/chriserin/gherkinast/internal/parser"
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:           "gherkinast",
	Short:         "gherkinast: typed Gherkin documents and a feature index",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verboseFlag {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log debug output to stderr")
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, errCheckFailed) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.FileName)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// requireInit loads the configuration and fails unless init has run.
func requireInit() (*config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(cfg.FeaturesDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("run `gherkinast init` first")
	}
	return cfg, nil
}

func newLoader(cfg *config.Config) *parser.Loader {
	opts := []gherkin.Option{gherkin.WithLanguage(cfg.Language)}
	if cfg.IDs == config.IDsUUID {
		opts = append(opts, gherkin.WithUUIDs())
	}
	return parser.NewLoader(gherkin.New(opts...))
}
