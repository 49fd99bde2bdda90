package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)

	assert.Equal(t, "features", cfg.FeaturesDir)
	assert.Equal(t, filepath.Join("features", "gherkinast.db"), cfg.Database)
	assert.Equal(t, "utf-8", cfg.Encoding)
	assert.Equal(t, "en", cfg.Language)
	assert.Equal(t, IDsIncrementing, cfg.IDs)
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("features_dir: specs\nencoding: latin1\nids: uuid\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "specs", cfg.FeaturesDir)
	assert.Equal(t, filepath.Join("specs", "gherkinast.db"), cfg.Database)
	assert.Equal(t, "latin1", cfg.Encoding)
	assert.Equal(t, IDsUUID, cfg.IDs)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("language: fr\n"), 0o644))
	t.Setenv("GHERKINAST_LANGUAGE", "de")
	t.Setenv("GHERKINAST_DATABASE", "/tmp/index.db")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "de", cfg.Language)
	assert.Equal(t, "/tmp/index.db", cfg.Database)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("features_dir: [unclosed\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse configuration file")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))

	cfg.Encoding = "klingon-8"
	assert.Error(t, Validate(cfg))

	cfg = Default()
	cfg.IDs = "sequential"
	assert.Error(t, Validate(cfg))

	cfg = Default()
	cfg.Language = "fr"
	assert.NoError(t, Validate(cfg))
	cfg.Language = "xx"
	assert.ErrorContains(t, Validate(cfg), `language "xx"`)
}

func TestLoad_RejectsUnknownLanguage(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("language: xx\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")

	t.Setenv("GHERKINAST_LANGUAGE", "zz")
	_, err = Load(filepath.Join(t.TempDir(), FileName))
	assert.ErrorContains(t, err, `language "zz"`)
}

func TestWrite_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	want := Default()
	want.Language = "fr"

	require.NoError(t, Write(path, want))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
