package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/classtrack-backend/internal/domain/attendance"
	"github.com/classtrack/classtrack-backend/internal/domain/roster"
	"github.com/classtrack/classtrack-backend/internal/infrastructure/persistence/memory"
)

func TestGetDashboard(t *testing.T) {
	ctx := context.Background()
	p := memory.NewProvider()

	// один активный студент с одной оценкой 65% и без записей
	// посещаемости: зона риска 1, посещаемость 100
	student := seedStudent(t, p, "STU-001", roster.StatusActive)
	seedGrade(t, p, student.ID, 39, 60, "2026-03-10")

	handler := NewGetDashboardHandler(testLoader(p), NopCache{}, time.Minute, testLogger())
	view, err := handler.Handle(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, view.Stats.TotalStudents)
	assert.Equal(t, 1, view.Stats.ActiveStudents)
	assert.Equal(t, 65, view.Stats.AverageGrade)
	assert.Equal(t, 100, view.Stats.AttendanceRate)
	assert.Equal(t, 1, view.Stats.AtRiskCount)

	require.Len(t, view.TopStudents, 1)
	assert.Equal(t, 1, view.TopStudents[0].Rank)
	assert.NotEmpty(t, view.Activity)
	assert.False(t, view.GeneratedAt.IsZero())
}

func TestGetDashboard_WritesCache(t *testing.T) {
	ctx := context.Background()
	p := memory.NewProvider()
	seedStudent(t, p, "STU-001", roster.StatusActive)

	cache := &recordingCache{}
	handler := NewGetDashboardHandler(testLoader(p), cache, time.Minute, testLogger())

	_, err := handler.Handle(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{DashboardCacheKey}, cache.gets)
	assert.Equal(t, []string{DashboardCacheKey}, cache.sets)
}

func TestGetDashboard_ServesFromCache(t *testing.T) {
	ctx := context.Background()
	p := memory.NewProvider()
	seedStudent(t, p, "STU-001", roster.StatusActive)

	cached := DashboardView{GeneratedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	cached.Stats.TotalStudents = 42

	handler := NewGetDashboardHandler(testLoader(p), &hitCache{view: cached}, time.Minute, testLogger())
	view, err := handler.Handle(ctx)
	require.NoError(t, err)

	// попадание в кеш отдаётся как есть, без пересборки
	assert.Equal(t, 42, view.Stats.TotalStudents)
	assert.Equal(t, cached.GeneratedAt, view.GeneratedAt)
}

func TestGetDashboard_AttendanceAffectsRate(t *testing.T) {
	ctx := context.Background()
	p := memory.NewProvider()
	student := seedStudent(t, p, "STU-001", roster.StatusActive)
	seedRecord(t, p, student.ID, "2026-03-16", attendance.StatusPresent)
	seedRecord(t, p, student.ID, "2026-03-17", attendance.StatusAbsent)

	handler := NewGetDashboardHandler(testLoader(p), nil, 0, testLogger())
	view, err := handler.Handle(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, view.Stats.AttendanceRate)
}
