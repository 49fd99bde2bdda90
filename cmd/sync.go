package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/gherkinast/internal/ctxlog"
	"github.com/chriserin/gherkinast/internal/db"
	"github.com/chriserin/gherkinast/internal/parser"
	"github.com/chriserin/gherkinast/internal/ui"
)

const resultOK = "ok"

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Index every .feature file under the features directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunSync(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func RunSync(ctx context.Context, w io.Writer) error {
	cfg, err := requireInit()
	if err != nil {
		return err
	}

	sqlDB, err := db.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer sqlDB.Close()

	matches, err := findFeatures(cfg.FeaturesDir)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", cfg.FeaturesDir, err)
	}

	loader := newLoader(cfg)
	log := ctxlog.FromContext(ctx)

	count := 0
	for _, path := range matches {
		var id int64
		err := sqlDB.QueryRow(`SELECT id FROM files WHERE file_path = ?`, path).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			res, err := sqlDB.Exec(`INSERT INTO files (file_path) VALUES (?)`, path)
			if err != nil {
				return fmt.Errorf("inserting %s: %w", path, err)
			}
			if id, err = res.LastInsertId(); err != nil {
				return fmt.Errorf("inserting %s: %w", path, err)
			}
			ui.NewLine(w, path)
		} else if err != nil {
			return fmt.Errorf("querying %s: %w", path, err)
		} else {
			ui.TrkLine(w, path)
		}

		doc, loadErr := loader.Load(ctx, path, cfg.Encoding)
		if loadErr != nil {
			log.Debug("sync: file rejected", "path", path, "error", loadErr)
			result := resultFor(loadErr)
			if err := recordResult(sqlDB, id, result); err != nil {
				return err
			}
			ui.ErrorBlock(w, result.category, result.message, path, result.line, result.lineText)
		} else {
			text, err := parser.ReadText(path, cfg.Encoding)
			if err != nil {
				return err
			}
			if err := indexFile(sqlDB, id, parser.Transform(doc, path, text)); err != nil {
				return err
			}
		}
		count++
	}

	removed, err := pruneFiles(sqlDB, matches)
	if err != nil {
		return err
	}
	for _, path := range removed {
		ui.DelLine(w, path)
	}

	ui.SummaryLine(w, count)
	return nil
}

// findFeatures returns every .feature file under dir in slash form, sorted.
func findFeatures(dir string) ([]string, error) {
	var matches []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".feature") {
			matches = append(matches, filepath.ToSlash(path))
		}
		return nil
	})
	sort.Strings(matches)
	return matches, err
}

type parseResult struct {
	category string
	message  string
	line     int
	lineText string
}

func resultFor(err error) parseResult {
	var perr *parser.ParseError
	if errors.As(err, &perr) {
		return parseResult{
			category: perr.Category.String(),
			message:  perr.Message,
			line:     perr.Line,
			lineText: perr.LineText,
		}
	}
	return parseResult{category: parser.CategoryNone.String(), message: err.Error()}
}

func recordResult(sqlDB *sql.DB, fileID int64, r parseResult) error {
	_, err := sqlDB.Exec(`INSERT INTO parse_results (file_id, category, message, line, line_text) VALUES (?, ?, ?, ?, ?)`,
		fileID, r.category, r.message, r.line, r.lineText)
	if err != nil {
		return fmt.Errorf("recording parse result: %w", err)
	}
	return nil
}

// indexFile replaces the file's scenarios and tags and records a passing result.
func indexFile(sqlDB *sql.DB, fileID int64, pf *parser.ParsedFile) error {
	tx, err := sqlDB.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE files SET feature_name = ?, updated_at = datetime('now') WHERE id = ?`, pf.Name, fileID); err != nil {
		return fmt.Errorf("updating file: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM scenarios WHERE file_id = ?`, fileID); err != nil {
		return fmt.Errorf("clearing scenarios: %w", err)
	}

	for _, s := range pf.Scenarios {
		res, err := tx.Exec(`INSERT INTO scenarios (file_id, name, keyword, rule_name, line, steps, outline, content) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			fileID, s.Name, s.Keyword, s.Rule, s.Line, s.Steps, s.Outline, s.Content)
		if err != nil {
			return fmt.Errorf("inserting scenario %q: %w", s.Name, err)
		}
		scenarioID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("inserting scenario %q: %w", s.Name, err)
		}
		for _, tag := range s.Tags {
			if _, err := tx.Exec(`INSERT OR IGNORE INTO scenario_tags (scenario_id, tag) VALUES (?, ?)`, scenarioID, tag); err != nil {
				return fmt.Errorf("inserting tag %s: %w", tag, err)
			}
		}
	}

	if _, err := tx.Exec(`INSERT INTO parse_results (file_id, category) VALUES (?, ?)`, fileID, resultOK); err != nil {
		return fmt.Errorf("recording parse result: %w", err)
	}
	return tx.Commit()
}

// pruneFiles drops indexed files that are no longer on disk.
func pruneFiles(sqlDB *sql.DB, present []string) ([]string, error) {
	keep := make(map[string]bool, len(present))
	for _, p := range present {
		keep[p] = true
	}

	rows, err := sqlDB.Query(`SELECT id, file_path FROM files ORDER BY file_path`)
	if err != nil {
		return nil, fmt.Errorf("querying files: %w", err)
	}
	var ids []int64
	var removed []string
	for rows.Next() {
		var id int64
		var path string
		if err := rows.Scan(&id, &path); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning file row: %w", err)
		}
		if !keep[path] {
			ids = append(ids, id)
			removed = append(removed, path)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating files: %w", err)
	}

	for _, id := range ids {
		if _, err := sqlDB.Exec(`DELETE FROM files WHERE id = ?`, id); err != nil {
			return nil, fmt.Errorf("removing file %d: %w", id, err)
		}
	}
	return removed, nil
}
