package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/gherkinast/internal/config"
	"github.com/chriserin/gherkinast/internal/db"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize gherkinast in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunInit(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func RunInit(w io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// configuration file
	if _, err := os.Stat(config.FileName); err == nil {
		fmt.Fprintf(w, "%s already exists\n", config.FileName)
	} else {
		if err := config.Write(config.FileName, cfg); err != nil {
			return fmt.Errorf("writing %s: %w", config.FileName, err)
		}
		fmt.Fprintf(w, "%s created\n", config.FileName)
	}

	// features directory
	dir := filepath.ToSlash(cfg.FeaturesDir)
	_, err = os.Stat(cfg.FeaturesDir)
	dirExists := err == nil
	if err := os.MkdirAll(cfg.FeaturesDir, 0o755); err != nil {
		return fmt.Errorf("creating %s directory: %w", dir, err)
	}
	if dirExists {
		fmt.Fprintf(w, "%s/ already exists\n", dir)
	} else {
		fmt.Fprintf(w, "%s/ created\n", dir)
	}

	// database
	dbName := filepath.ToSlash(cfg.Database)
	_, err = os.Stat(cfg.Database)
	dbExists := err == nil
	if err := os.MkdirAll(filepath.Dir(cfg.Database), 0o755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}
	sqlDB, err := db.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	sqlDB.Close()
	if dbExists {
		fmt.Fprintf(w, "%s already exists\n", dbName)
	} else {
		fmt.Fprintf(w, "%s created\n", dbName)
	}

	// gitignore
	msgs, err := ensureGitignore(dbName)
	if err != nil {
		return fmt.Errorf("updating .gitignore: %w", err)
	}
	for _, msg := range msgs {
		fmt.Fprintln(w, msg)
	}

	return nil
}

func ensureGitignore(entry string) ([]string, error) {
	data, err := os.ReadFile(".gitignore")
	if os.IsNotExist(err) {
		if err := os.WriteFile(".gitignore", []byte(entry+"\n"), 0o644); err != nil {
			return nil, err
		}
		return []string{".gitignore created", entry + " added to .gitignore"}, nil
	}
	if err != nil {
		return nil, err
	}

	lines := strings.Split(string(data), "\n")
	for _, line := range lines {
		if strings.TrimSpace(line) == entry {
			return []string{entry + " already in .gitignore"}, nil
		}
	}

	content := string(data)
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += entry + "\n"

	if err := os.WriteFile(".gitignore", []byte(content), 0o644); err != nil {
		return nil, err
	}
	return []string{entry + " added to .gitignore"}, nil
}
