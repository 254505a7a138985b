package syncer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jicmugot16/fieldsync/internal/logging"
	"github.com/jicmugot16/fieldsync/internal/models"
)

const (
	DefaultTickInterval = 30 * time.Second
	DefaultMinInterval  = 60 * time.Second
	DefaultMaxStaleness = 300 * time.Second
)

// PassRunner is the slice of the engine the scheduler drives.
type PassRunner interface {
	RunSyncPass(ctx context.Context) models.SyncResult
}

// Scheduler is the long-lived background task that decides when to
// attempt a sync: never more often than the minimum interval, always
// once staleness exceeds the maximum. At most one pass runs at a time;
// a tick arriving mid-pass is a no-op.
type Scheduler struct {
	engine       PassRunner
	status       *StatusFile
	tickInterval time.Duration
	minInterval  time.Duration
	maxStaleness time.Duration
	log          logging.Logger

	inFlight atomic.Bool
	mu       sync.Mutex
	state    Status
	now      func() time.Time
}

// NewScheduler wires a scheduler around engine and the status file.
// Non-positive intervals fall back to the defaults. Previous state is
// loaded from the status file; corruption reads as "never synced".
func NewScheduler(engine PassRunner, status *StatusFile, tick, minInterval, maxStaleness time.Duration, log logging.Logger) *Scheduler {
	if tick <= 0 {
		tick = DefaultTickInterval
	}
	if minInterval <= 0 {
		minInterval = DefaultMinInterval
	}
	if maxStaleness <= 0 {
		maxStaleness = DefaultMaxStaleness
	}
	return &Scheduler{
		engine:       engine,
		status:       status,
		tickInterval: tick,
		minInterval:  minInterval,
		maxStaleness: maxStaleness,
		log:          log,
		state:        status.Load(),
		now:          time.Now,
	}
}

// Run ticks until ctx is cancelled. An in-flight pass is abandoned on
// shutdown; partially uploaded records stay correctly pending or
// synced, so the next start resumes safely.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info(ctx, "sync scheduler starting",
		"tick", s.tickInterval.String(),
		"min_interval", s.minInterval.String(),
		"max_staleness", s.maxStaleness.String())

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Tick(ctx)
		case <-ctx.Done():
			s.log.Info(ctx, "sync scheduler stopping")
			return
		}
	}
}

// Tick evaluates "should I attempt a sync now" and, if so, runs one
// pass in the background. Returns true when a pass was started.
func (s *Scheduler) Tick(ctx context.Context) bool {
	if !s.ShouldAttempt(s.now()) {
		return false
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		// A pass is still running; this tick is a no-op.
		return false
	}

	s.mu.Lock()
	s.state.LastAttempt = s.now()
	s.mu.Unlock()

	go func() {
		defer s.inFlight.Store(false)
		res := s.engine.RunSyncPass(ctx)

		s.mu.Lock()
		if res.OK {
			s.state.LastSuccessfulSync = s.now()
		}
		snapshot := s.state
		s.mu.Unlock()

		if err := s.status.Save(snapshot); err != nil {
			s.log.Warn(ctx, "could not save sync status", "error", err)
		}
	}()
	return true
}

// ShouldAttempt applies the throttle and staleness rules at time now.
func (s *Scheduler) ShouldAttempt(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.LastAttempt.IsZero() && now.Sub(s.state.LastAttempt) < s.minInterval {
		return false
	}
	if s.state.LastSuccessfulSync.IsZero() {
		return true
	}
	return now.Sub(s.state.LastSuccessfulSync) >= s.maxStaleness
}

// LastStatus exposes the scheduler's view of the status record.
func (s *Scheduler) LastStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
