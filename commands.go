package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/pterm/pterm"

	"github.com/AkatukiSora/ace-analytics/internal/application"
	"github.com/AkatukiSora/ace-analytics/internal/applog"
	"github.com/AkatukiSora/ace-analytics/internal/config"
	"github.com/AkatukiSora/ace-analytics/internal/export"
	"github.com/AkatukiSora/ace-analytics/internal/format"
	"github.com/AkatukiSora/ace-analytics/internal/parser"
	"github.com/AkatukiSora/ace-analytics/internal/patterns"
	"github.com/AkatukiSora/ace-analytics/internal/persistence"
	"github.com/AkatukiSora/ace-analytics/internal/stats"
	"github.com/AkatukiSora/ace-analytics/internal/watcher"
)

const refreshTimeout = 2 * time.Minute

// session is a loaded config with everything needed to refresh.
type session struct {
	cfg     *config.Config
	svc     *application.Service
	closeFn func()
}

func (s *session) Close() {
	if s.closeFn != nil {
		s.closeFn()
	}
}

// open loads and validates the config, initialises logging and builds the
// service. The SQLite store is attached when database_path is set.
func (g *Globals) open(opts ...application.Option) (*session, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	applog.Init(g.Debug || cfg.Debug)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w (run `ace-analytics init` to create %s)", err, g.Config)
	}

	catalog, err := loadCatalog(cfg.PatternsFile)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg}
	if cfg.DatabasePath != "" {
		repo, err := persistence.NewSQLiteRepository(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		s.closeFn = func() { _ = repo.Close() }
		opts = append(opts, application.WithStore(repo))
	}
	s.svc = application.NewService(catalog, opts...)
	return s, nil
}

func (s *session) refresh() (*application.Snapshot, error) {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	snap, err := s.svc.Refresh(ctx, s.cfg.User, s.cfg.HandHistoryDirs)
	if err != nil {
		return nil, err
	}
	for _, d := range snap.Diagnostics {
		pterm.Warning.Println(d)
	}
	return snap, nil
}

func loadCatalog(path string) (*patterns.Catalog, error) {
	if path == "" {
		return patterns.Default(), nil
	}
	return patterns.Load(path)
}

// InitCmd writes the config file, replacing the first-run dialog.
type InitCmd struct {
	User     string   `required:"" help:"Your screen name as it appears in the hand histories"`
	Dirs     []string `name:"dir" required:"" type:"existingdir" help:"Hand history directory (repeatable)"`
	Schedule string   `default:"${refresh_schedule}" help:"Refresh schedule for watch mode"`
	Database string   `help:"SQLite file that receives every refreshed hand"`
	Force    bool     `help:"Overwrite an existing config file"`
}

func (cmd InitCmd) Run(g *Globals) error {
	applog.Init(g.Debug)

	if _, err := os.Stat(g.Config); err == nil && !cmd.Force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", g.Config)
	}

	cfg := config.Default()
	cfg.User = cmd.User
	cfg.HandHistoryDirs = cmd.Dirs
	cfg.RefreshSchedule = cmd.Schedule
	cfg.DatabasePath = cmd.Database
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Save(g.Config); err != nil {
		return err
	}
	pterm.Success.Printfln("Wrote %s", g.Config)
	return nil
}

// StatsCmd prints the player statistics table.
type StatsCmd struct {
	SittingOut bool `help:"Count hands you were not dealt into"`
}

func (cmd StatsCmd) Run(g *Globals) error {
	s, err := g.open(application.WithSittingOut(cmd.SittingOut))
	if err != nil {
		return err
	}
	defer s.Close()

	snap, err := s.refresh()
	if err != nil {
		return err
	}
	return renderStats(snap)
}

func renderStats(snap *application.Snapshot) error {
	st := snap.Stats
	earliest := "-"
	if st.HasEarliest() {
		earliest = st.EarliestHand.Format("2006/01/02 15:04")
	}
	pterm.DefaultSection.Printfln("%s (%d hands)", snap.User, st.Hands)
	return pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"Stat", "Value"},
		{"VPIP", percent(st.VPIP)},
		{"PFR", percent(st.PFR)},
		{"AF", st.AF.String()},
		{"Profit", format.Profit(st.CumulativeProfit)},
		{"BB/100", strconv.FormatFloat(st.BBPer100, 'f', 2, 64)},
		{"$/100", format.Profit(st.DollarsPer100)},
		{"Best hand", st.BestHand},
		{"Earliest hand", earliest},
	}).Render()
}

func percent(v float64) string {
	return strconv.FormatFloat(v*100, 'f', 0, 64) + "%"
}

// HandsCmd lists hands newest first.
type HandsCmd struct {
	Limit      int  `default:"20" help:"Number of hands to show (0 = all)"`
	SittingOut bool `help:"Include hands you were not dealt into"`
}

func (cmd HandsCmd) Run(g *Globals) error {
	s, err := g.open(application.WithSittingOut(cmd.SittingOut))
	if err != nil {
		return err
	}
	defer s.Close()

	snap, err := s.refresh()
	if err != nil {
		return err
	}

	hands := snap.HandsNewestFirst()
	if cmd.Limit > 0 && len(hands) > cmd.Limit {
		hands = hands[:cmd.Limit]
	}
	data := pterm.TableData{{"Date", "Hand", "Board", "Win", "Profit", "Position"}}
	for _, h := range hands {
		data = append(data, handRow(h))
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func handRow(h parser.Hand) []string {
	win := "No"
	if h.Won {
		win = pterm.Green("Yes")
	}
	profit := format.Profit(h.Profit)
	if h.Profit.IsNegative() {
		profit = pterm.Red(profit)
	}
	return []string{
		format.Date(h.Date),
		cards(h.HoleCards),
		cards(h.Community),
		win,
		profit,
		string(h.Position),
	}
}

// cards renders compact cards with suit symbols, falling back to the raw
// text when it is not a card string.
func cards(s string) string {
	out, err := format.CardString(s)
	if err != nil {
		slog.Debug("render cards", "input", s, "error", err)
		return s
	}
	return out
}

// ExportCmd writes every hand to a file.
type ExportCmd struct {
	Format     string `enum:"csv,xlsx,sqlite" default:"csv" help:"Output format (csv, xlsx, sqlite)"`
	Out        string `type:"path" help:"Output path (defaults to hands_chronological.<format>)"`
	SittingOut bool   `help:"Include hands you were not dealt into"`
}

func (cmd ExportCmd) Run(g *Globals) error {
	s, err := g.open(application.WithSittingOut(cmd.SittingOut))
	if err != nil {
		return err
	}
	defer s.Close()

	snap, err := s.refresh()
	if err != nil {
		return err
	}

	out := cmd.Out
	if out == "" {
		out = "hands_chronological." + cmd.Format
		if cmd.Format == "csv" {
			out = export.DefaultCSVName
		}
	}

	switch cmd.Format {
	case "csv":
		err = export.SaveCSV(out, snap.Hands)
	case "xlsx":
		err = export.SaveXLSX(out, snap.Hands)
	case "sqlite":
		err = saveSQLite(out, snap.Hands)
	default:
		err = fmt.Errorf("unknown export format %q", cmd.Format)
	}
	if err != nil {
		return err
	}
	pterm.Success.Printfln("Exported %d hands to %s", len(snap.Hands), out)
	return nil
}

func saveSQLite(path string, hands []parser.Hand) error {
	repo, err := persistence.NewSQLiteRepository(path)
	if err != nil {
		return err
	}
	defer repo.Close()

	res, err := repo.UpsertHands(context.Background(), hands)
	if err != nil {
		return err
	}
	slog.Info("sqlite export", "path", path, "inserted", res.Inserted, "updated", res.Updated, "skipped", res.Skipped)
	return nil
}

// ChartCmd renders the cumulative profit chart as a PNG.
type ChartCmd struct {
	Out string `type:"path" default:"cumulative_profit.png" help:"Output PNG path"`
}

func (cmd ChartCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.Close()

	snap, err := s.refresh()
	if err != nil {
		return err
	}

	png, err := export.CumulativeProfitChart(snap.Hands)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(cmd.Out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(cmd.Out, png, 0o644); err != nil {
		return err
	}
	pterm.Success.Printfln("Wrote %s", cmd.Out)
	return nil
}

// CheckPatternsCmd loads a catalog and reports whether it compiles.
type CheckPatternsCmd struct {
	File string `type:"existingfile" help:"Catalog file (defaults to patterns_file from the config, then the built-in catalog)"`
	Dump bool   `help:"Print the built-in catalog and exit"`
}

func (cmd CheckPatternsCmd) Run(g *Globals) error {
	applog.Init(g.Debug)

	if cmd.Dump {
		_, err := os.Stdout.Write(patterns.DefaultYAML())
		return err
	}

	path := cmd.File
	if path == "" {
		cfg, err := config.Load(g.Config)
		if err != nil {
			return err
		}
		path = cfg.PatternsFile
	}

	catalog, err := loadCatalog(path)
	if err != nil {
		var cfgErr *patterns.ConfigError
		if errors.As(err, &cfgErr) {
			pterm.Error.Printfln("field %s: %v", cfgErr.Field, cfgErr.Err)
		}
		return err
	}

	name := path
	if name == "" {
		name = "built-in catalog"
	}
	pterm.Success.Printfln("%s: version %d, %d fields OK", name, catalog.Version(), len(patterns.Fields()))
	if g.Debug {
		data := pterm.TableData{{"Field", "Template"}}
		for _, f := range patterns.Fields() {
			data = append(data, []string{string(f), catalog.Template(f)})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	}
	return nil
}

// WatchCmd keeps the statistics current until interrupted.
type WatchCmd struct {
	Debounce time.Duration `default:"500ms" help:"Quiet period after a file change before refreshing"`
}

func (cmd WatchCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		mu       sync.Mutex
		rendered bool
		last     stats.PlayerStats
	)
	refresher, err := application.NewRefresher(s.svc, application.RefresherConfig{
		User:     s.cfg.User,
		Dirs:     s.cfg.HandHistoryDirs,
		Schedule: s.cfg.RefreshSchedule,
		Timeout:  refreshTimeout,
		OnSnapshot: func(snap *application.Snapshot) {
			mu.Lock()
			defer mu.Unlock()
			if rendered && snap.Stats.Hands == last.Hands && snap.Stats.CumulativeProfit.Equal(last.CumulativeProfit) {
				return
			}
			rendered, last = true, snap.Stats
			if err := renderStats(snap); err != nil {
				slog.Warn("render stats", "error", err)
			}
		},
		OnError: func(err error) {
			pterm.Error.Println(err)
		},
	})
	if err != nil {
		return err
	}

	dw, err := watcher.NewDirWatcher(s.cfg.HandHistoryDirs, watcher.WatcherConfig{
		Debounce: cmd.Debounce,
		OnChange: func(paths []string) {
			slog.Info("session files changed", "files", len(paths))
			refresher.Trigger()
		},
		OnError: func(err error) {
			slog.Warn("watcher error", "error", err)
		},
	})
	if err != nil {
		return err
	}
	defer dw.Stop()
	if err := dw.Start(); err != nil {
		return err
	}

	refresher.Start()
	defer refresher.Stop()
	refresher.Trigger()

	pterm.Info.Printfln("Watching %d directories, press Ctrl+C to stop", len(s.cfg.HandHistoryDirs))
	<-ctx.Done()
	return nil
}
