package syncer

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jicmugot16/fieldsync/internal/logging"
	"github.com/jicmugot16/fieldsync/internal/models"
)

type fakeRunner struct {
	mu      sync.Mutex
	calls   int
	result  models.SyncResult
	release chan struct{} // when non-nil, RunSyncPass blocks until closed
}

func (f *fakeRunner) RunSyncPass(ctx context.Context) models.SyncResult {
	f.mu.Lock()
	f.calls++
	release := f.release
	f.mu.Unlock()
	if release != nil {
		<-release
	}
	return f.result
}

func (f *fakeRunner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestScheduler(t *testing.T, runner PassRunner) *Scheduler {
	t.Helper()
	status := NewStatusFile(filepath.Join(t.TempDir(), "status.json"))
	return NewScheduler(runner, status, time.Second, 60*time.Second, 300*time.Second, logging.Nop())
}

func TestShouldAttempt_NeverSynced(t *testing.T) {
	s := newTestScheduler(t, &fakeRunner{})
	assert.True(t, s.ShouldAttempt(time.Now()), "a device that never synced should attempt immediately")
}

func TestShouldAttempt_ThrottledAfterRecentAttempt(t *testing.T) {
	s := newTestScheduler(t, &fakeRunner{})
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	s.state = Status{LastAttempt: now.Add(-30 * time.Second)}

	assert.False(t, s.ShouldAttempt(now), "attempts within the minimum interval are throttled")
	assert.True(t, s.ShouldAttempt(now.Add(31*time.Second)))
}

func TestShouldAttempt_StalenessForcesAttempt(t *testing.T) {
	s := newTestScheduler(t, &fakeRunner{})
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	s.state = Status{
		LastAttempt:        now.Add(-2 * time.Minute),
		LastSuccessfulSync: now.Add(-2 * time.Minute),
	}
	assert.False(t, s.ShouldAttempt(now), "fresh enough, no attempt needed")

	s.state.LastSuccessfulSync = now.Add(-6 * time.Minute)
	assert.True(t, s.ShouldAttempt(now), "staleness beyond the maximum forces an attempt")
}

func TestTick_RunsPassAndRecordsSuccess(t *testing.T) {
	runner := &fakeRunner{result: models.SyncResult{OK: true, Uploaded: 2}}
	s := newTestScheduler(t, runner)

	started := s.Tick(context.Background())
	require.True(t, started)

	require.Eventually(t, func() bool { return !s.inFlight.Load() }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, runner.callCount())

	st := s.LastStatus()
	assert.False(t, st.LastAttempt.IsZero())
	assert.False(t, st.LastSuccessfulSync.IsZero())

	// The status file mirrors the in-memory state for the next process.
	assert.False(t, s.status.Load().LastAttempt.IsZero())
}

func TestTick_FailedPassDoesNotRecordSuccess(t *testing.T) {
	runner := &fakeRunner{result: models.SyncResult{OK: false, Error: "no connectivity"}}
	s := newTestScheduler(t, runner)

	require.True(t, s.Tick(context.Background()))
	require.Eventually(t, func() bool { return !s.inFlight.Load() }, time.Second, 5*time.Millisecond)

	st := s.LastStatus()
	assert.False(t, st.LastAttempt.IsZero())
	assert.True(t, st.LastSuccessfulSync.IsZero(), "a failed pass is an attempt, not a success")
}

func TestTick_NoOpWhilePassInFlight(t *testing.T) {
	release := make(chan struct{})
	runner := &fakeRunner{result: models.SyncResult{OK: true}, release: release}
	s := newTestScheduler(t, runner)
	// Neutralize the throttle so only the in-flight guard can block the
	// second tick.
	s.minInterval = 0

	require.True(t, s.Tick(context.Background()))
	assert.False(t, s.Tick(context.Background()), "tick during an in-flight pass must be a no-op")

	close(release)
	require.Eventually(t, func() bool { return !s.inFlight.Load() }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, runner.callCount())
}

func TestTick_ThrottleBlocksSecondTick(t *testing.T) {
	runner := &fakeRunner{result: models.SyncResult{OK: true}}
	s := newTestScheduler(t, runner)

	require.True(t, s.Tick(context.Background()))
	require.Eventually(t, func() bool { return !s.inFlight.Load() }, time.Second, 5*time.Millisecond)

	assert.False(t, s.Tick(context.Background()), "second tick inside the minimum interval must not start a pass")
	assert.Equal(t, 1, runner.callCount())
}

func TestNewScheduler_LoadsPersistedState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	persisted := Status{LastSuccessfulSync: time.Now().Add(-time.Minute)}
	require.NoError(t, NewStatusFile(path).Save(persisted))

	s := NewScheduler(&fakeRunner{}, NewStatusFile(path), 0, 0, 0, logging.Nop())

	assert.Equal(t, DefaultTickInterval, s.tickInterval)
	assert.Equal(t, DefaultMinInterval, s.minInterval)
	assert.Equal(t, DefaultMaxStaleness, s.maxStaleness)
	assert.False(t, s.LastStatus().LastSuccessfulSync.IsZero())
}
