package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/rami3l/loxvm/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(content), 0o644))
	return dir
}

func TestFindAndLoadDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := config.FindAndLoad(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestFindAndLoad(t *testing.T) {
	t.Parallel()
	dir := writeConfig(t, heredoc.Doc(`
		verbosity = "DEBUG"
		strict-stack = true
	`))
	cfg, err := config.FindAndLoad(dir)
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", cfg.Verbosity)
	assert.True(t, cfg.StrictStack)
	// Untouched keys keep their defaults.
	assert.Equal(t, ">> ", cfg.Prompt)
}

func TestLoadUnknownKey(t *testing.T) {
	t.Parallel()
	dir := writeConfig(t, `verbosty = "DEBUG"`)
	_, err := config.Load(filepath.Join(dir, config.FileName))
	assert.ErrorContains(t, err, `unknown key "verbosty"`)
}

func TestLoadSyntaxError(t *testing.T) {
	t.Parallel()
	dir := writeConfig(t, `verbosity = `)
	_, err := config.Load(filepath.Join(dir, config.FileName))
	assert.ErrorContains(t, err, "parse error")
}
