package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	DefaultSchedule       = "@every 1m"
	DefaultRefreshTimeout = 30 * time.Second
)

// RefresherConfig controls a Refresher.
type RefresherConfig struct {
	User string
	Dirs []string
	// Schedule is a standard cron spec or descriptor such as "@every 1m".
	Schedule string
	// Timeout bounds a single refresh.
	Timeout time.Duration
	// OnSnapshot is called after every successful refresh.
	OnSnapshot func(*Snapshot)
	// OnError is called when a refresh fails.
	OnError func(error)
}

// Refresher runs Service.Refresh on a cron schedule and on demand.
type Refresher struct {
	svc  *Service
	cfg  RefresherConfig
	cron *cron.Cron

	ctx     context.Context
	cancel  context.CancelFunc
	trigger chan struct{}
	wg      sync.WaitGroup

	startOnce sync.Once
	stopOnce  sync.Once
}

func NewRefresher(svc *Service, cfg RefresherConfig) (*Refresher, error) {
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultRefreshTimeout
	}

	logger := cron.PrintfLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn))
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	r := &Refresher{
		svc:     svc,
		cfg:     cfg,
		cron:    c,
		ctx:     ctx,
		cancel:  cancel,
		trigger: make(chan struct{}, 1),
	}
	if _, err := c.AddFunc(cfg.Schedule, r.run); err != nil {
		cancel()
		return nil, fmt.Errorf("refresh schedule %q: %w", cfg.Schedule, err)
	}
	return r, nil
}

// Start begins the schedule. Calling Start more than once has no effect.
func (r *Refresher) Start() {
	r.startOnce.Do(func() {
		r.cron.Start()
		r.wg.Add(1)
		go r.loop()
		slog.Info("refresher started", "schedule", r.cfg.Schedule, "dirs", r.cfg.Dirs)
	})
}

// Stop halts the schedule, cancels a running refresh and waits for it to
// return.
// Safe to call more than once.
func (r *Refresher) Stop() {
	r.stopOnce.Do(func() {
		r.cancel()
		<-r.cron.Stop().Done()
		r.wg.Wait()
	})
}

// Trigger requests a refresh outside the schedule. Requests made while one
// is already pending are merged.
func (r *Refresher) Trigger() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

func (r *Refresher) loop() {
	defer r.wg.Done()
	for {
		select {
		case <-r.ctx.Done():
			return
		case <-r.trigger:
			r.run()
		}
	}
}

func (r *Refresher) run() {
	if r.ctx.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(r.ctx, r.cfg.Timeout)
	defer cancel()

	snap, err := r.svc.Refresh(ctx, r.cfg.User, r.cfg.Dirs)
	if err != nil {
		slog.Warn("refresh failed", "error", err)
		if r.cfg.OnError != nil {
			r.cfg.OnError(err)
		}
		return
	}
	if r.cfg.OnSnapshot != nil {
		r.cfg.OnSnapshot(snap)
	}
}
