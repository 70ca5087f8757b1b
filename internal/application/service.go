package application

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/AkatukiSora/ace-analytics/internal/loader"
	"github.com/AkatukiSora/ace-analytics/internal/parser"
	"github.com/AkatukiSora/ace-analytics/internal/patterns"
	"github.com/AkatukiSora/ace-analytics/internal/persistence"
	"github.com/AkatukiSora/ace-analytics/internal/stats"
)

// Snapshot is the immutable result of one refresh. A new refresh replaces
// the whole value; callers never mutate it.
type Snapshot struct {
	// Hands are ordered by date, oldest first.
	Hands             []parser.Hand
	Stats             stats.PlayerStats
	User              string
	SourceDirectories []string
	// Diagnostics lists files that were skipped and hands that were dropped.
	Diagnostics []string
	RefreshedAt time.Time
}

// HandsNewestFirst returns a copy of the hands ordered newest first.
func (s *Snapshot) HandsNewestFirst() []parser.Hand {
	return parser.SortByDate(s.Hands, true)
}

type Option func(*Service)

// WithClock sets the clock used to stamp snapshots.
func WithClock(c quartz.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithStore makes every successful refresh upsert its hands into store.
func WithStore(store persistence.HandStore) Option {
	return func(s *Service) { s.store = store }
}

// WithSittingOut keeps hands the user was not dealt into.
func WithSittingOut(include bool) Option {
	return func(s *Service) { s.includeSittingOut = include }
}

type Service struct {
	catalog           *patterns.Catalog
	clock             quartz.Clock
	store             persistence.HandStore
	includeSittingOut bool

	group   singleflight.Group
	current atomic.Pointer[Snapshot]
}

func NewService(catalog *patterns.Catalog, opts ...Option) *Service {
	if catalog == nil {
		catalog = patterns.Default()
	}
	s := &Service{
		catalog: catalog,
		clock:   quartz.NewReal(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the latest snapshot, or nil before the first successful
// refresh.
func (s *Service) Current() *Snapshot {
	return s.current.Load()
}

// Refresh loads every session in dirs, parses the hands played by user and
// publishes a new snapshot.
//
// Calls that overlap an in-flight refresh wait for it and share its result.
// On error the previous snapshot stays current.
func (s *Service) Refresh(ctx context.Context, user string, dirs []string) (*Snapshot, error) {
	v, err, shared := s.group.Do("refresh", func() (any, error) {
		return s.refresh(ctx, user, dirs)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		slog.Debug("refresh result shared with concurrent caller")
	}
	return v.(*Snapshot), nil
}

// sessionResult holds the outcome of parsing a single session file.
type sessionResult struct {
	hands    []parser.Hand
	problems []error
}

func (s *Service) refresh(ctx context.Context, user string, dirs []string) (*Snapshot, error) {
	started := time.Now()

	matchers, err := s.catalog.ForPlayer(user)
	if err != nil {
		return nil, err
	}

	loaded, err := loader.LoadSessionsContext(ctx, dirs)
	if err != nil {
		return nil, err
	}

	var diagnostics []string
	for _, skipped := range loaded.Skipped {
		diagnostics = append(diagnostics, skipped.Error())
	}

	// Sessions are parsed concurrently; results keep the load order.
	results := make([]sessionResult, len(loaded.Sessions))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, sess := range loaded.Sessions {
		g.Go(func() error {
			hands, problems, err := parser.ParseSessionContext(gctx, sess.Text, matchers, parser.Options{
				IncludeSittingOut: s.includeSittingOut,
				Source:            sess.Path,
			})
			results[i] = sessionResult{hands: hands, problems: problems}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var hands []parser.Hand
	for _, r := range results {
		hands = append(hands, r.hands...)
		for _, p := range r.problems {
			slog.Warn("dropped malformed hand", "error", p)
			diagnostics = append(diagnostics, p.Error())
		}
	}
	hands = parser.SortByDate(hands, false)

	if s.store != nil {
		res, err := s.store.UpsertHands(ctx, hands)
		if err != nil {
			slog.Warn("persist hands failed", "error", err)
			diagnostics = append(diagnostics, fmt.Sprintf("persist hands: %v", err))
		} else {
			slog.Debug("persisted hands", "inserted", res.Inserted, "updated", res.Updated, "skipped", res.Skipped)
		}
	}

	snap := &Snapshot{
		Hands:             hands,
		Stats:             stats.Aggregate(hands),
		User:              user,
		SourceDirectories: append([]string(nil), dirs...),
		Diagnostics:       diagnostics,
		RefreshedAt:       s.clock.Now(),
	}
	s.current.Store(snap)

	slog.Info("refresh complete",
		"sessions", len(loaded.Sessions),
		"hands", len(hands),
		"diagnostics", len(diagnostics),
		"elapsed", time.Since(started),
	)
	return snap, nil
}
