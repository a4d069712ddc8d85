package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "0x0", cfg.Compile.DefaultOrigin)
	assert.True(t, cfg.Compile.EnableTrace, "expected EnableTrace=true")
	assert.Equal(t, 16, cfg.Display.BytesPerLine)
	assert.Equal(t, "hex", cfg.Display.NumberFormat)
	assert.Equal(t, 100000, cfg.Trace.MaxEntries)
	assert.Equal(t, 8420, cfg.Server.Port)
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()
	assert.NotEmpty(t, path)
	assert.Equal(t, "config.toml", filepath.Base(path))

	switch runtime.GOOS {
	case "darwin", "linux":
		dir := filepath.Dir(path)
		assert.True(t, filepath.Base(dir) == "msa" || path == "config.toml",
			"expected path in msa directory or fallback, got %s", path)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config.toml")

	cfg := DefaultConfig()
	cfg.Compile.DefaultOrigin = "0x8000"
	cfg.Compile.LintOnCompile = true
	cfg.Display.ColorOutput = false
	cfg.Server.Port = 9000

	require.NoError(t, cfg.SaveTo(configPath))
	_, err := os.Stat(configPath)
	require.NoError(t, err, "config file was not created")

	loaded, err := LoadFrom(configPath)
	require.NoError(t, err)
	assert.Equal(t, "0x8000", loaded.Compile.DefaultOrigin)
	assert.True(t, loaded.Compile.LintOnCompile)
	assert.False(t, loaded.Display.ColorOutput)
	assert.Equal(t, 9000, loaded.Server.Port)
}

func TestLoadNonExistent(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nonexistent.toml")

	cfg, err := LoadFrom(configPath)
	require.NoError(t, err, "LoadFrom should not error on non-existent file")
	assert.Equal(t, "0x0", cfg.Compile.DefaultOrigin, "expected default config when file doesn't exist")
}

func TestLoadInvalidTOML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid.toml")

	invalidTOML := `
[server]
port = "not a number"
`
	require.NoError(t, os.WriteFile(configPath, []byte(invalidTOML), 0644))

	_, err := LoadFrom(configPath)
	assert.Error(t, err, "expected error when loading invalid TOML")
}

func TestSaveCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "subdir1", "subdir2", "config.toml")

	cfg := DefaultConfig()
	require.NoError(t, cfg.SaveTo(configPath))
	_, err := os.Stat(configPath)
	assert.NoError(t, err, "config file was not created")
}
