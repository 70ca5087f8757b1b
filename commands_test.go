package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/AkatukiSora/ace-analytics/internal/config"
	"github.com/AkatukiSora/ace-analytics/internal/parser"
)

func newTestParser(t *testing.T, cli *CLI) *kong.Kong {
	t.Helper()
	k, err := kong.New(cli,
		kong.Name("ace-analytics"),
		kong.Vars{
			"version":          "test",
			"config_path":      config.DefaultPath,
			"refresh_schedule": config.DefaultRefreshSchedule,
		},
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
	)
	require.NoError(t, err)
	return k
}

func TestCLIParsesExportFlags(t *testing.T) {
	var cli CLI
	k := newTestParser(t, &cli)

	ctx, err := k.Parse([]string{"--config", "custom.yaml", "export", "--format", "xlsx", "--out", "hands.xlsx"})
	require.NoError(t, err)
	require.Equal(t, "export", ctx.Command())
	require.Equal(t, "xlsx", cli.Export.Format)
	require.Equal(t, "custom.yaml", filepath.Base(cli.Config))
}

func TestCLIRejectsUnknownExportFormat(t *testing.T) {
	var cli CLI
	k := newTestParser(t, &cli)

	_, err := k.Parse([]string{"export", "--format", "pdf"})
	require.Error(t, err)
}

func TestInitWritesConfig(t *testing.T) {
	handsDir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "config", "config.yaml")

	cmd := InitCmd{User: "hero", Dirs: []string{handsDir}, Schedule: config.DefaultRefreshSchedule}
	require.NoError(t, cmd.Run(&Globals{Config: cfgPath}))

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	require.Equal(t, "hero", cfg.User)
	require.Equal(t, []string{handsDir}, cfg.HandHistoryDirs)

	require.Error(t, cmd.Run(&Globals{Config: cfgPath}), "existing config must not be overwritten")
	cmd.Force = true
	require.NoError(t, cmd.Run(&Globals{Config: cfgPath}))
}

func TestInitRejectsMissingDirectory(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	cmd := InitCmd{User: "hero", Dirs: []string{filepath.Join(t.TempDir(), "gone")}, Schedule: config.DefaultRefreshSchedule}

	require.Error(t, cmd.Run(&Globals{Config: cfgPath}))
	_, err := os.Stat(cfgPath)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestHandRow(t *testing.T) {
	h := parser.Hand{
		HoleCards: "AhKd",
		Community: "bogus",
		Position:  parser.PosButton,
		Profit:    decimal.RequireFromString("1.5"),
	}
	row := handRow(h)
	require.Len(t, row, 6)
	require.Equal(t, "A♥ K♦", row[1])
	require.Equal(t, "bogus", row[2], "malformed cards fall back to the raw text")
	require.Equal(t, "No", row[3])
	require.Equal(t, "$1.5", row[4])
	require.Equal(t, "button", row[5])
}

func TestPercent(t *testing.T) {
	require.Equal(t, "67%", percent(0.67))
	require.Equal(t, "0%", percent(0))
}
