// Package scheduler runs the daily quote import on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/guttosm/stockperf/internal/ingestion"
	"github.com/guttosm/stockperf/internal/logger"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// ImportFunc imports the quote files of the last days business days found in dir.
type ImportFunc func(ctx context.Context, dir string, repo ingestion.QuoteStore, days, parallel int, force bool) error

// Options configure the quote import job.
type Options struct {
	Spec     string // six fields, seconds first
	Dir      string
	Days     int
	Parallel int
	Timeout  time.Duration // per run; zero means no deadline
}

// Scheduler owns the cron runner and the quote import job.
type Scheduler struct {
	cron   *cron.Cron
	repo   ingestion.QuoteStore
	opts   Options
	run    ImportFunc
	ctx    context.Context
	cancel context.CancelFunc
	log    zerolog.Logger
}

// New validates the schedule and registers the import job. Overlapping runs are skipped.
func New(repo ingestion.QuoteStore, opts Options) (*Scheduler, error) {
	if opts.Days < 1 {
		opts.Days = 1
	}

	log := logger.Component("scheduler")
	cl := cronLogger{log: log}
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:   c,
		repo:   repo,
		opts:   opts,
		run:    ingestion.ImportQuotesDirectory,
		ctx:    ctx,
		cancel: cancel,
		log:    log,
	}

	if _, err := c.AddFunc(opts.Spec, s.importQuotes); err != nil {
		cancel()
		return nil, fmt.Errorf("register quote import %q: %w", opts.Spec, err)
	}
	return s, nil
}

// Start runs the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Str("spec", s.opts.Spec).Str("dir", s.opts.Dir).Msg("scheduler started")
}

// Stop cancels a running import and waits for it to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunNow executes the import job synchronously.
func (s *Scheduler) RunNow() {
	s.importQuotes()
}

// Next reports the next activation time, zero before Start.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *Scheduler) importQuotes() {
	ctx := s.ctx
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	if err := s.run(ctx, s.opts.Dir, s.repo, s.opts.Days, s.opts.Parallel, false); err != nil {
		s.log.Error().Err(err).Str("dir", s.opts.Dir).Msg("quote import failed")
		return
	}
	s.log.Info().Dur("took", time.Since(start)).Msg("quote import finished")
}

// cronLogger routes cron's own messages through zerolog.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
