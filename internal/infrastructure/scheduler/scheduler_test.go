package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeJob counts executions and optionally fails.
type fakeJob struct {
	name string
	err  error
	runs atomic.Int64
}

func (j *fakeJob) Name() string        { return j.name }
func (j *fakeJob) Description() string { return "test job" }

func (j *fakeJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	return j.err
}

func testScheduler() *Scheduler {
	return New(Config{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
}

func TestIntervalSchedule_Next(t *testing.T) {
	s := Every(15 * time.Minute)

	now := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(15*time.Minute), s.Next(now))
	assert.Equal(t, "@every 15m0s", s.String())
}

func TestDailySchedule_Next(t *testing.T) {
	s := DailyAt(6, 30)

	// Before the wall-clock time: same day.
	now := time.Date(2026, 3, 16, 5, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 16, 6, 30, 0, 0, time.UTC), s.Next(now))

	// After it: next day.
	now = time.Date(2026, 3, 16, 7, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 17, 6, 30, 0, 0, time.UTC), s.Next(now))

	// Exactly at it: next day, never the current instant.
	now = time.Date(2026, 3, 16, 6, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 17, 6, 30, 0, 0, time.UTC), s.Next(now))

	assert.Equal(t, "@daily 06:30", s.String())
}

func TestScheduler_Register(t *testing.T) {
	s := testScheduler()
	job := &fakeJob{name: "rebuild"}

	require.NoError(t, s.Register(job, Every(time.Hour)))

	// Duplicate names are rejected.
	err := s.Register(&fakeJob{name: "rebuild"}, Every(time.Hour))
	assert.ErrorIs(t, err, ErrJobAlreadyExists)

	assert.ErrorIs(t, s.Register(nil, Every(time.Hour)), ErrNilJob)
	assert.ErrorIs(t, s.Register(&fakeJob{name: "other"}, nil), ErrNilSchedule)

	jobs := s.ListJobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "rebuild", jobs[0].Name)
	assert.True(t, jobs[0].Enabled)
	assert.Equal(t, "@every 1h0m0s", jobs[0].Schedule)
	assert.False(t, jobs[0].NextRun.IsZero())
}

func TestScheduler_RunNow(t *testing.T) {
	s := testScheduler()
	job := &fakeJob{name: "rebuild"}
	require.NoError(t, s.Register(job, Every(time.Hour)))

	result, err := s.RunNow(context.Background(), "rebuild")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "rebuild", result.JobName)
	assert.EqualValues(t, 1, job.runs.Load())

	_, err = s.RunNow(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestScheduler_RunNow_JobFailure(t *testing.T) {
	s := testScheduler()
	wantErr := errors.New("boom")
	require.NoError(t, s.Register(&fakeJob{name: "flaky", err: wantErr}, Every(time.Hour)))

	result, err := s.RunNow(context.Background(), "flaky")
	assert.ErrorIs(t, err, wantErr)
	assert.False(t, result.Success)

	jobs := s.ListJobs()
	require.Len(t, jobs, 1)
	require.NotNil(t, jobs[0].LastResult)
	assert.ErrorIs(t, jobs[0].LastResult.Error, wantErr)
}

func TestScheduler_Lifecycle(t *testing.T) {
	s := testScheduler()
	require.NoError(t, s.Register(&fakeJob{name: "rebuild"}, Every(time.Hour)))

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	assert.ErrorIs(t, s.Start(context.Background()), ErrSchedulerAlreadyRunning)

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.ErrorIs(t, s.Stop(), ErrSchedulerNotRunning)
}
