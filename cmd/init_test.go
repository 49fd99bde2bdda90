package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/gherkinast/internal/config"
	"github.com/chriserin/gherkinast/internal/db"
)

func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(orig) })
	return dir
}

func runInit(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunInit(&buf))
	return buf.String()
}

func TestInit_CreatesFeaturesDirectory(t *testing.T) {
	dir := inTempDir(t)
	out := runInit(t)

	info, err := os.Stat(filepath.Join(dir, "features"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Contains(t, out, "features/ created")
}

func TestInit_FeaturesDirectoryAlreadyExists(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "features"), 0o755))

	out := runInit(t)

	assert.Contains(t, out, "features/ already exists")
}

func TestInit_WritesDefaultConfig(t *testing.T) {
	dir := inTempDir(t)
	out := runInit(t)

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Contains(t, out, ".gherkinast.yaml created")

	out = runInit(t)
	assert.Contains(t, out, ".gherkinast.yaml already exists")
}

func TestInit_HonorsExistingConfig(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(config.FileName, []byte("features_dir: specs\n"), 0o644))

	out := runInit(t)

	_, err := os.Stat(filepath.Join(dir, "specs", "gherkinast.db"))
	require.NoError(t, err)
	assert.Contains(t, out, "specs/ created")
	assert.Contains(t, out, "specs/gherkinast.db added to .gitignore")
}

func TestInit_InitializesSQLiteDatabase(t *testing.T) {
	dir := inTempDir(t)
	out := runInit(t)

	dbPath := filepath.Join(dir, "features", "gherkinast.db")
	_, err := os.Stat(dbPath)
	require.NoError(t, err)

	sqlDB, err := db.Open(dbPath)
	require.NoError(t, err)
	defer sqlDB.Close()

	var mode string
	require.NoError(t, sqlDB.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
	assert.Contains(t, out, "features/gherkinast.db created")
}

func TestInit_DatabaseAlreadyExists(t *testing.T) {
	inTempDir(t)
	runInit(t)

	out := runInit(t)
	assert.Contains(t, out, "features/gherkinast.db already exists")
}

func TestInit_AddsMigrationSystem(t *testing.T) {
	inTempDir(t)
	runInit(t)

	sqlDB, err := db.Open("features/gherkinast.db")
	require.NoError(t, err)
	defer sqlDB.Close()

	var version int
	require.NoError(t, sqlDB.QueryRow("SELECT version FROM schema_version").Scan(&version))
	assert.Equal(t, len(db.All), version)
}

func TestInit_AddsToGitignore(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("node_modules"), 0o644))

	out := runInit(t)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "node_modules\nfeatures/gherkinast.db\n", string(data))
	assert.Contains(t, out, "features/gherkinast.db added to .gitignore")
}

func TestInit_GitignoreAlreadyHasEntry(t *testing.T) {
	dir := inTempDir(t)
	original := "node_modules\nfeatures/gherkinast.db\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(original), 0o644))

	out := runInit(t)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
	assert.Contains(t, out, "features/gherkinast.db already in .gitignore")
}

func TestInit_NoGitignoreExists(t *testing.T) {
	dir := inTempDir(t)
	out := runInit(t)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "features/gherkinast.db\n", string(data))
	assert.Contains(t, out, ".gitignore created")
}
