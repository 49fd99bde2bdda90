package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/gherkinast/internal/db"
	"github.com/chriserin/gherkinast/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show indexed files, scenarios, and parse results",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunStatus(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func RunStatus(w io.Writer) error {
	cfg, err := requireInit()
	if err != nil {
		return err
	}

	sqlDB, err := db.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer sqlDB.Close()

	var files, scenarios int
	if err := sqlDB.QueryRow(`SELECT COUNT(*) FROM files`).Scan(&files); err != nil {
		return fmt.Errorf("counting files: %w", err)
	}
	if err := sqlDB.QueryRow(`SELECT COUNT(*) FROM scenarios`).Scan(&scenarios); err != nil {
		return fmt.Errorf("counting scenarios: %w", err)
	}

	fmt.Fprintf(w, "Files: %d\n", files)
	fmt.Fprintf(w, "Scenarios: %d\n", scenarios)

	if files == 0 {
		return nil
	}

	// Latest result per file, ok first, then by count.
	rows, err := sqlDB.Query(`
		SELECT pr.category, COUNT(*) AS cnt
		FROM parse_results pr
		WHERE pr.id = (SELECT MAX(id) FROM parse_results WHERE file_id = pr.file_id)
		GROUP BY pr.category
		ORDER BY CASE WHEN pr.category = 'ok' THEN 0 ELSE 1 END, cnt DESC, pr.category
	`)
	if err != nil {
		return fmt.Errorf("querying parse results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category string
		var cnt int
		if err := rows.Scan(&category, &cnt); err != nil {
			return fmt.Errorf("scanning result row: %w", err)
		}
		ui.StatusCount(w, category, cnt)
	}

	return rows.Err()
}
