package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"travelscraper/offerworker/logger"
	"travelscraper/offerworker/services/lock"
)

// Job is a scheduled task
type Job func(ctx context.Context) error

// Options configures the scheduler
type Options struct {
	ScrapeSpec  string
	CleanupSpec string
	Collect     Job
	Cleanup     Job
	Locker      lock.Locker
	Logger      *logger.Logger
}

// Scheduler triggers collection and cleanup on cron schedules. A collection
// is skipped while another one runs, in this process or, with a shared
// locker, anywhere else.
type Scheduler struct {
	cron    *cron.Cron
	locker  lock.Locker
	logger  *logger.Logger
	collect Job
	cleanup Job

	mu  sync.Mutex
	ctx context.Context
}

// NewParser returns the parser for five-field cron specs and descriptors
// such as @daily
func NewParser() cron.Parser {
	return cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
}

// New creates a scheduler with both jobs registered
func New(opts Options) (*Scheduler, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	log = log.ForComponent("scheduler")
	locker := opts.Locker
	if locker == nil {
		locker = lock.NewLocalLocker()
	}

	cronLog := cronLogger{log}
	s := &Scheduler{
		cron: cron.New(
			cron.WithParser(NewParser()),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		locker:  locker,
		logger:  log,
		collect: opts.Collect,
		cleanup: opts.Cleanup,
		ctx:     context.Background(),
	}

	if opts.Collect != nil {
		if _, err := s.cron.AddFunc(opts.ScrapeSpec, func() { s.RunCollect(s.context()) }); err != nil {
			return nil, fmt.Errorf("scrape schedule %q: %w", opts.ScrapeSpec, err)
		}
	}
	if opts.Cleanup != nil {
		if _, err := s.cron.AddFunc(opts.CleanupSpec, func() { s.RunCleanup(s.context()) }); err != nil {
			return nil, fmt.Errorf("cleanup schedule %q: %w", opts.CleanupSpec, err)
		}
	}

	return s, nil
}

func (s *Scheduler) context() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

// Start runs the schedules until ctx is done or Stop is called
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	s.cron.Start()
	for _, e := range s.cron.Entries() {
		s.logger.Info().Time("next", e.Next).Msg("Job scheduled")
	}
}

// Stop stops the schedules and waits for running jobs
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Entries returns the number of registered jobs
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// RunCollect runs the collection job under the run lock. It returns
// lock.ErrHeld when another collection is active.
func (s *Scheduler) RunCollect(ctx context.Context) error {
	release, err := s.locker.Acquire(ctx)
	if err != nil {
		if errors.Is(err, lock.ErrHeld) {
			s.logger.Warn().Msg("Collection already running, skipping")
		} else {
			s.logger.Error().Err(err).Msg("Failed to take run lock")
		}
		return err
	}
	defer release()

	if err := s.collect(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Scheduled collection failed")
		return err
	}
	return nil
}

// RunCleanup runs the cleanup job
func (s *Scheduler) RunCleanup(ctx context.Context) error {
	if err := s.cleanup(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Scheduled cleanup failed")
		return err
	}
	return nil
}

// cronLogger routes cron's own messages through our logger
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
