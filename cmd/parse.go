package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/chriserin/gherkinast/internal/ui"
)

var formatFlag string

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Print the typed document of a feature file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunParse(cmd.Context(), cmd.OutOrStdout(), args[0], formatFlag)
	},
}

func init() {
	parseCmd.Flags().StringVarP(&formatFlag, "format", "f", "yaml", "Output format: yaml or outline")
	rootCmd.AddCommand(parseCmd)
}

func RunParse(ctx context.Context, w io.Writer, path, format string) error {
	if format != "yaml" && format != "outline" {
		return fmt.Errorf("unknown format %q, want yaml or outline", format)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	doc, err := newLoader(cfg).Load(ctx, path, cfg.Encoding)
	if err != nil {
		return err
	}

	if format == "outline" {
		ui.Outline(w, doc)
		return nil
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return enc.Close()
}
