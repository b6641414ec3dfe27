package cli

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ericce/interp/internal/config"
)

func TestParseDefaults(t *testing.T) {
	t.Parallel()

	p, err := Parse("interpd", nil, io.Discard)
	require.NoError(t, err)
	require.False(t, p.ShowVersion)
	require.False(t, p.ShowHelp)
	require.Empty(t, p.ConfigPath)

	cfg := config.Default()
	p.Apply(&cfg)
	require.Equal(t, config.Default(), cfg, "no flags set, nothing overridden")
}

func TestParseAppliesOnlySetFlags(t *testing.T) {
	t.Parallel()

	p, err := Parse("interpd", []string{
		"--port", "4444",
		"--lang2-label", "de",
		"--step-hz", "2",
		"--plot-audio",
	}, io.Discard)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Host = "10.0.0.1" // pretend the file set this
	p.Apply(&cfg)

	require.Equal(t, 4444, cfg.Port)
	require.Equal(t, "de", cfg.Langs.Lang2)
	require.Equal(t, 2.0, cfg.Window.StepHz)
	require.True(t, cfg.Plot.Enable)
	// The file value survives because --host was never passed.
	require.Equal(t, "10.0.0.1", cfg.Host)
}

func TestParseVersionAndConfigPath(t *testing.T) {
	t.Parallel()

	p, err := Parse("interpd", []string{"--version", "--config", "/tmp/x.yaml"}, io.Discard)
	require.NoError(t, err)
	require.True(t, p.ShowVersion)
	require.Equal(t, "/tmp/x.yaml", p.ConfigPath)
}

func TestParseRejectsUnknownFlag(t *testing.T) {
	t.Parallel()

	_, err := Parse("interpd", []string{"--frobnicate"}, io.Discard)
	require.Error(t, err)
}

func TestParseRejectsPositionalArgs(t *testing.T) {
	t.Parallel()

	_, err := Parse("interpd", []string{"serve"}, io.Discard)
	require.Error(t, err)
}

func TestUsageListsSpecFlags(t *testing.T) {
	t.Parallel()

	p, err := Parse("interpd", nil, io.Discard)
	require.NoError(t, err)

	var b strings.Builder
	p.Usage(&b)
	for _, flag := range []string{
		"--host", "--port", "--sample-rate", "--channels", "--window-seconds",
		"--step-hz", "--min-window-seconds", "--max-buffer-seconds",
		"--text-max-payload", "--lang1-label", "--lang2-label",
		"--commit-history", "--commit-min-chars", "--log-level",
		"--plot-audio", "--plot-window-seconds", "--plot-hz",
	} {
		require.Contains(t, b.String(), flag)
	}
}
