package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingPruner struct {
	mu      sync.Mutex
	cutoffs []time.Time
	err     error
}

func (r *recordingPruner) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cutoffs = append(r.cutoffs, cutoff)
	return 1, r.err
}

func (r *recordingPruner) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cutoffs)
}

func TestStorePruner_RunsImmediatelyWithRetentionCutoff(t *testing.T) {
	rec := &recordingPruner{}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	p := NewStorePruner(rec, 30*24*time.Hour, time.Hour)
	p.now = func() time.Time { return now }

	p.Start(context.Background())
	p.Stop()

	require.Equal(t, 1, rec.calls())
	assert.Equal(t, now.Add(-30*24*time.Hour), rec.cutoffs[0])
}

func TestStorePruner_TicksUntilStopped(t *testing.T) {
	rec := &recordingPruner{}

	p := NewStorePruner(rec, time.Hour, 5*time.Millisecond)
	p.Start(context.Background())

	assert.Eventually(t, func() bool { return rec.calls() >= 3 }, time.Second, 5*time.Millisecond)
	p.Stop()
}

func TestStorePruner_ErrorsDoNotStopTheJob(t *testing.T) {
	rec := &recordingPruner{err: errors.New("database is locked")}

	p := NewStorePruner(rec, time.Hour, 5*time.Millisecond)
	p.Start(context.Background())

	assert.Eventually(t, func() bool { return rec.calls() >= 2 }, time.Second, 5*time.Millisecond)
	p.Stop()
}

func TestNewStorePruner_DefaultInterval(t *testing.T) {
	p := NewStorePruner(&recordingPruner{}, time.Hour, 0)
	assert.Equal(t, DefaultPruneInterval, p.interval)
}
