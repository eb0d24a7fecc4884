package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielgjackson/audioid/internal/config"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := config.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, "", cfg.InputFile)
	assert.Equal(t, 16000, cfg.SampleRate)
	assert.Equal(t, config.VisualizeOff, cfg.Visualize)
}

func TestParsePositionalInputFile(t *testing.T) {
	cfg, err := config.Parse([]string{"sample.wav"})
	require.NoError(t, err)
	assert.Equal(t, "sample.wav", cfg.InputFile)
}

func TestParseVisualizeReducedTakesPrecedence(t *testing.T) {
	cfg, err := config.Parse([]string{"--visualize", "--visualize:reduced"})
	require.NoError(t, err)
	assert.Equal(t, config.VisualizeReduced, cfg.Visualize)
}

func TestParseLearnRequiresLabels(t *testing.T) {
	_, err := config.Parse([]string{"--learn"})
	assert.Error(t, err)

	cfg, err := config.Parse([]string{"--learn", "--labels", "truth.tsv"})
	require.NoError(t, err)
	assert.True(t, cfg.Learn)
}

func TestParseRejectsTooManyPositionalArgs(t *testing.T) {
	_, err := config.Parse([]string{"a.wav", "b.wav"})
	assert.Error(t, err)
}
