package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_AppliesAllMigrations(t *testing.T) {
	sqlDB, err := Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	defer sqlDB.Close()

	var version int
	require.NoError(t, sqlDB.QueryRow(`SELECT version FROM schema_version`).Scan(&version))
	assert.Equal(t, len(All), version)

	for _, table := range []string{"files", "scenarios", "scenario_tags", "parse_results"} {
		var name string
		err := sqlDB.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, table)
	}
}

func TestOpen_WALAndForeignKeys(t *testing.T) {
	sqlDB, err := Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	defer sqlDB.Close()

	var mode string
	require.NoError(t, sqlDB.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	var fk int
	require.NoError(t, sqlDB.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestOpen_DeletingFileCascades(t *testing.T) {
	sqlDB, err := Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	defer sqlDB.Close()

	res, err := sqlDB.Exec(`INSERT INTO files (file_path) VALUES ('features/login.feature')`)
	require.NoError(t, err)
	fileID, err := res.LastInsertId()
	require.NoError(t, err)
	res, err = sqlDB.Exec(`INSERT INTO scenarios (file_id, name, keyword, line) VALUES (?, 'User logs in', 'Scenario', 2)`, fileID)
	require.NoError(t, err)
	scenarioID, err := res.LastInsertId()
	require.NoError(t, err)
	_, err = sqlDB.Exec(`INSERT INTO scenario_tags (scenario_id, tag) VALUES (?, '@smoke')`, scenarioID)
	require.NoError(t, err)
	_, err = sqlDB.Exec(`INSERT INTO parse_results (file_id, category) VALUES (?, 'ok')`, fileID)
	require.NoError(t, err)

	_, err = sqlDB.Exec(`DELETE FROM files WHERE id = ?`, fileID)
	require.NoError(t, err)

	for _, table := range []string{"scenarios", "scenario_tags", "parse_results"} {
		var count int
		require.NoError(t, sqlDB.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&count))
		assert.Zero(t, count, table)
	}
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	sqlDB, err := Open(path)
	require.NoError(t, err)
	_, err = sqlDB.Exec(`INSERT INTO files (file_path) VALUES ('a.feature')`)
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	sqlDB, err = Open(path)
	require.NoError(t, err)
	defer sqlDB.Close()

	var count int
	require.NoError(t, sqlDB.QueryRow(`SELECT COUNT(*) FROM files`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestOpen_BadPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "index.db"))
	assert.Error(t, err)
}
