package sessionstore

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// SweepInterval is the default tick period for the lifecycle sweeper.
const SweepInterval = 60 * time.Second

// DefaultIdleAfter is the default duration of inactivity before a session
// is marked inactive.
const DefaultIdleAfter = 30 * time.Minute

// DefaultRetain is the default age at which conversation turns are deleted.
const DefaultRetain = 7 * 24 * time.Hour

// Sweeper periodically marks idle sessions inactive and deletes expired
// conversation turns. It is a best-effort background task: a missed tick
// is tolerable.
type Sweeper struct {
	store     *Store
	interval  time.Duration
	idleAfter time.Duration
	retain    time.Duration
	now       func() time.Time
	logger    *slog.Logger

	wg   sync.WaitGroup
	stop chan struct{}
}

// SweeperOption configures a Sweeper.
type SweeperOption func(*Sweeper)

// WithInterval overrides the tick period.
func WithInterval(d time.Duration) SweeperOption {
	return func(s *Sweeper) { s.interval = d }
}

// WithIdleAfter overrides the idle threshold.
func WithIdleAfter(d time.Duration) SweeperOption {
	return func(s *Sweeper) { s.idleAfter = d }
}

// WithRetain overrides the retention window.
func WithRetain(d time.Duration) SweeperOption {
	return func(s *Sweeper) { s.retain = d }
}

// WithNow overrides the clock, for deterministic tests.
func WithNow(now func() time.Time) SweeperOption {
	return func(s *Sweeper) { s.now = now }
}

// WithLogger attaches a logger; defaults to slog.Default().
func WithLogger(logger *slog.Logger) SweeperOption {
	return func(s *Sweeper) { s.logger = logger }
}

// NewSweeper constructs a Sweeper over store with the given options.
func NewSweeper(store *Store, opts ...SweeperOption) *Sweeper {
	s := &Sweeper{
		store:     store,
		interval:  SweepInterval,
		idleAfter: DefaultIdleAfter,
		retain:    DefaultRetain,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    slog.Default(),
		stop:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the background sweep loop. Call Stop to end it.
func (s *Sweeper) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			case <-ticker.C:
				s.tick(ctx)
			}
		}
	}()
}

// Stop ends the sweep loop and waits for the in-flight tick to finish.
func (s *Sweeper) Stop() {
	close(s.stop)
	s.wg.Wait()
}

func (s *Sweeper) tick(ctx context.Context) {
	now := s.now()

	idled, err := s.store.SweepIdle(ctx, now, s.idleAfter)
	if err != nil {
		s.logger.Warn("session sweep: idle pass failed", "error", err)
	} else if idled > 0 {
		s.logger.Debug("session sweep: marked sessions inactive", "count", idled)
	}

	deleted, err := s.store.SweepExpired(ctx, now, s.retain)
	if err != nil {
		s.logger.Warn("session sweep: retention pass failed", "error", err)
	} else if deleted > 0 {
		s.logger.Debug("session sweep: deleted expired turns", "count", deleted)
	}
}
