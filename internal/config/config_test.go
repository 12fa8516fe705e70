package config

import (
	"path/filepath"
	"testing"

	"github.com/cheerioskun/matchninja/internal/models"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.MaxDepth)
	assert.Equal(t, models.SplitLines, cfg.SplitMode())
	assert.False(t, cfg.Record)
	assert.NotEmpty(t, cfg.HistoryPath)
	assert.NotEmpty(t, cfg.LogFile)
}

func TestInitReadsFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, Write(afero.NewOsFs(), path, &Config{
		Split:    "words",
		MaxDepth: 3,
		Patterns: []string{"abc(d|e).", "x.y"},
	}))
	t.Setenv("MATCHNINJA_MAX_DEPTH", "7")

	v := viper.New()
	require.NoError(t, Init(v, path))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, models.SplitWords, cfg.SplitMode())
	assert.Equal(t, 7, cfg.MaxDepth, "environment overrides the file")
	assert.Equal(t, []string{"abc(d|e).", "x.y"}, cfg.Patterns)
}

func TestInitMissingExplicitFile(t *testing.T) {
	v := viper.New()
	err := Init(v, filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.Error(t, (&Config{Split: "chars"}).Validate())
	assert.Error(t, (&Config{Split: "lines", MaxDepth: -1}).Validate())
	assert.Error(t, (&Config{Split: "lines", Workers: -2}).Validate())
	assert.NoError(t, (&Config{Split: "words"}).Validate())
}
