package jobs

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/classtrack-backend/internal/application/query"
	"github.com/classtrack/classtrack-backend/internal/domain/gradebook"
	"github.com/classtrack/classtrack-backend/internal/domain/roster"
	"github.com/classtrack/classtrack-backend/internal/domain/shared"
	"github.com/classtrack/classtrack-backend/internal/infrastructure/persistence/memory"
	"github.com/classtrack/classtrack-backend/pkg/timeutil"
)

// memCache records Set calls, keyed by cache key.
type memCache struct {
	sets map[string]any
}

func newMemCache() *memCache {
	return &memCache{sets: make(map[string]any)}
}

func (c *memCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	return false, nil
}

func (c *memCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	c.sets[key] = value
	return nil
}

func (c *memCache) Invalidate(ctx context.Context, keys ...string) error { return nil }

// stubPublisher collects published events.
type stubPublisher struct {
	events []shared.Event
}

func (p *stubPublisher) Publish(e shared.Event) {
	p.events = append(p.events, e)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedProvider(t *testing.T) *memory.Provider {
	t.Helper()
	p := memory.NewProvider()

	s, err := roster.NewStudent(roster.NewStudentParams{
		FirstName:  "Aliya",
		LastName:   "Nurlanova",
		Code:       "STU-001",
		GradeLevel: roster.GradeLevel10,
		Class:      "10-A",
	})
	require.NoError(t, err)
	_, err = p.Students().Create(context.Background(), s)
	require.NoError(t, err)
	return p
}

func testLoader(p *memory.Provider) *query.SnapshotLoader {
	return query.NewSnapshotLoader(p.Students(), p.Grades(), p.Attendance())
}

func TestRebuildReportsJob_Run(t *testing.T) {
	p := seedProvider(t)
	cache := newMemCache()
	published := &stubPublisher{}
	job := NewRebuildReportsJob(testLoader(p), cache, time.Minute, published, testLogger())

	require.NoError(t, job.Run(context.Background()))

	// the dashboard view lands in the cache
	cached, ok := cache.sets[query.DashboardCacheKey]
	require.True(t, ok)
	view, ok := cached.(*query.DashboardView)
	require.True(t, ok)
	assert.Equal(t, 1, view.Stats.TotalStudents)

	// a successful rebuild announces itself
	require.Len(t, published.events, 1)
	assert.Equal(t, shared.EventReportsRebuilt, published.events[0].EventType())
}

func TestDetectAtRiskJob_Run(t *testing.T) {
	p := seedProvider(t)
	published := &stubPublisher{}
	job := NewDetectAtRiskJob(testLoader(p), published, testLogger())

	// no grades: nobody is at risk, nothing published
	require.NoError(t, job.Run(context.Background()))
	assert.Empty(t, published.events)

	g, err := memGrade(65)
	require.NoError(t, err)
	_, err = p.Grades().Create(context.Background(), g)
	require.NoError(t, err)

	require.NoError(t, job.Run(context.Background()))
	require.Len(t, published.events, 1)
	assert.Equal(t, shared.EventAtRiskDetected, published.events[0].EventType())
}

func memGrade(score float64) (*gradebook.Grade, error) {
	return gradebook.NewGrade(gradebook.NewGradeParams{
		StudentID: 1,
		Subject:   gradebook.SubjectMathematics,
		Score:     score,
		MaxScore:  100,
		Date:      timeutil.Today(),
	})
}
