package main

import (
	"github.com/alecthomas/kong"

	"github.com/AkatukiSora/ace-analytics/internal/config"
)

var (
	version   = "dev"
	commit    = "local"
	buildDate = "unknown"
)

// Globals are the flags shared by every command.
type Globals struct {
	Config string `help:"Path to the config file" default:"${config_path}" type:"path"`
	Debug  bool   `help:"Enable debug logging"`
}

type CLI struct {
	Globals

	Version       kong.VersionFlag `short:"v" help:"Show version"`
	Init          InitCmd          `cmd:"" help:"Write the config file"`
	Stats         StatsCmd         `cmd:"" default:"1" help:"Print player statistics"`
	Hands         HandsCmd         `cmd:"" help:"List hands, newest first"`
	Export        ExportCmd        `cmd:"" help:"Export hands to CSV, XLSX or SQLite"`
	Chart         ChartCmd         `cmd:"" help:"Render the cumulative profit chart"`
	CheckPatterns CheckPatternsCmd `cmd:"check-patterns" help:"Validate a pattern catalog"`
	Watch         WatchCmd         `cmd:"" help:"Refresh on a schedule and on file changes"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("ace-analytics"),
		kong.Description("Statistics for your online poker hand histories"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version":          version + " (" + commit + ", " + buildDate + ")",
			"config_path":      config.DefaultPath,
			"refresh_schedule": config.DefaultRefreshSchedule,
		},
		kong.Bind(&cli.Globals),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
