package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/gherkinast/internal/db"
	"github.com/chriserin/gherkinast/internal/parser"
	"github.com/chriserin/gherkinast/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a scenario by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunShow(cmd.Context(), cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func RunShow(ctx context.Context, w io.Writer, rawID string) error {
	// Strip # prefix if present
	rawID = strings.TrimPrefix(rawID, "#")
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid scenario ID: %s", rawID)
	}

	cfg, err := requireInit()
	if err != nil {
		return err
	}

	sqlDB, err := db.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer sqlDB.Close()

	var line int
	var ruleName, filePath string
	err = sqlDB.QueryRow(`
		SELECT s.line, s.rule_name, f.file_path
		FROM scenarios s
		JOIN files f ON s.file_id = f.id
		WHERE s.id = ?
	`, id).Scan(&line, &ruleName, &filePath)
	if err != nil {
		return fmt.Errorf("scenario %d not found", id)
	}

	// The file may have changed since sync; show what is on disk now.
	doc, err := newLoader(cfg).Load(ctx, filePath, cfg.Encoding)
	if err != nil {
		return err
	}
	text, err := parser.ReadText(filePath, cfg.Encoding)
	if err != nil {
		return err
	}
	pf := parser.Transform(doc, filePath, text)

	var matched *parser.ParsedScenario
	for i := range pf.Scenarios {
		if pf.Scenarios[i].Line == line {
			matched = &pf.Scenarios[i]
			break
		}
	}
	if matched == nil {
		return fmt.Errorf("scenario %d moved in %s, run `gherkinast sync`", id, filePath)
	}

	ui.ShowHeader(w, id, filepath.Base(filePath), ruleName)

	if pf.Background != "" {
		fmt.Fprintln(w)
		ui.ShowGherkin(w, pf.Background)
	}

	fmt.Fprintln(w)
	ui.ShowGherkin(w, matched.Content)

	return nil
}
