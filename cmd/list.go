package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/gherkinast/internal/db"
	"github.com/chriserin/gherkinast/internal/ui"
)

var (
	tagFlag  string
	ruleFlag string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all indexed scenarios",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunList(cmd.OutOrStdout(), tagFlag, ruleFlag)
	},
}

func init() {
	listCmd.Flags().StringVar(&tagFlag, "tag", "", "Only scenarios carrying this tag")
	listCmd.Flags().StringVar(&ruleFlag, "rule", "", "Only scenarios under this rule")
	rootCmd.AddCommand(listCmd)
}

type listRow struct {
	id       int64
	fileName string
	name     string
	rule     string
	tags     []string
}

func RunList(w io.Writer, tag, rule string) error {
	cfg, err := requireInit()
	if err != nil {
		return err
	}

	sqlDB, err := db.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer sqlDB.Close()

	if tag != "" && !strings.HasPrefix(tag, "@") {
		tag = "@" + tag
	}

	rows, err := sqlDB.Query(`
		SELECT s.id, f.file_path, s.name, s.rule_name,
			COALESCE((SELECT GROUP_CONCAT(tag, ' ') FROM scenario_tags WHERE scenario_id = s.id), '')
		FROM scenarios s
		JOIN files f ON s.file_id = f.id
		WHERE (? = '' OR EXISTS (SELECT 1 FROM scenario_tags t WHERE t.scenario_id = s.id AND t.tag = ?))
		  AND (? = '' OR s.rule_name = ?)
		ORDER BY f.file_path, s.line
	`, tag, tag, rule, rule)
	if err != nil {
		return fmt.Errorf("querying scenarios: %w", err)
	}
	defer rows.Close()

	var results []listRow
	for rows.Next() {
		var r listRow
		var filePath, tags string
		if err := rows.Scan(&r.id, &filePath, &r.name, &r.rule, &tags); err != nil {
			return fmt.Errorf("scanning row: %w", err)
		}
		r.fileName = filepath.Base(filePath)
		r.tags = strings.Fields(tags)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating rows: %w", err)
	}

	if len(results) == 0 {
		return nil
	}

	// Compute column widths
	idWidth, fileWidth, nameWidth := 0, 0, 0
	for _, r := range results {
		id := fmt.Sprintf("#%d", r.id)
		if len(id) > idWidth {
			idWidth = len(id)
		}
		if len(r.fileName) > fileWidth {
			fileWidth = len(r.fileName)
		}
		if len(r.name) > nameWidth {
			nameWidth = len(r.name)
		}
	}

	for _, r := range results {
		ui.ListRow(w, r.id, r.fileName, r.name, r.rule, r.tags, idWidth, fileWidth, nameWidth)
	}

	return nil
}
