package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/classtrack-backend/internal/domain/attendance"
	"github.com/classtrack/classtrack-backend/internal/domain/roster"
	"github.com/classtrack/classtrack-backend/internal/domain/shared"
	"github.com/classtrack/classtrack-backend/internal/infrastructure/persistence/memory"
	"github.com/classtrack/classtrack-backend/pkg/timeutil"
)

func TestGetWeeklyAttendance(t *testing.T) {
	ctx := context.Background()
	p := memory.NewProvider()
	student := seedStudent(t, p, "STU-001", roster.StatusActive)
	seedStudent(t, p, "STU-002", roster.StatusGraduated)

	seedRecord(t, p, student.ID, "2026-03-16", attendance.StatusPresent)
	seedRecord(t, p, student.ID, "2026-03-17", attendance.StatusExcused)
	seedRecord(t, p, student.ID, "2026-03-18", attendance.StatusAbsent)

	handler := NewGetWeeklyAttendanceHandler(testLoader(p), testLogger())

	// якорь - среда той же недели
	rollup, err := handler.Handle(ctx, GetWeeklyAttendanceQuery{Anchor: "2026-03-18"})
	require.NoError(t, err)

	assert.True(t, rollup.Week[0].Equal(timeutil.MustParseDay("2026-03-16")))
	require.Len(t, rollup.Students, 1, "неактивные студенты не участвуют")
	assert.Equal(t, 2, rollup.Students[0].SatisfiedDays)
	assert.Equal(t, 40, rollup.Students[0].Rate)
	assert.Equal(t, 5, rollup.TotalPossible)
}

func TestGetWeeklyAttendance_InvalidAnchor(t *testing.T) {
	ctx := context.Background()
	handler := NewGetWeeklyAttendanceHandler(testLoader(memory.NewProvider()), testLogger())

	_, err := handler.Handle(ctx, GetWeeklyAttendanceQuery{Anchor: "18.03.2026"})
	assert.ErrorIs(t, err, shared.ErrInvalidFormat)
}

func TestGetDaySummary(t *testing.T) {
	ctx := context.Background()
	p := memory.NewProvider()
	s1 := seedStudent(t, p, "STU-001", roster.StatusActive)
	s2 := seedStudent(t, p, "STU-002", roster.StatusActive)
	seedRecord(t, p, s1.ID, "2026-03-16", attendance.StatusPresent)
	seedRecord(t, p, s2.ID, "2026-03-16", attendance.StatusLate)
	seedRecord(t, p, s1.ID, "2026-03-17", attendance.StatusAbsent)

	handler := NewGetDaySummaryHandler(testLoader(p), testLogger())
	summary, err := handler.Handle(ctx, GetDaySummaryQuery{Date: "2026-03-16"})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Present)
	assert.Equal(t, 1, summary.Late)
	assert.Equal(t, 0, summary.Absent)
	assert.Equal(t, 2, summary.Total)

	_, err = handler.Handle(ctx, GetDaySummaryQuery{Date: "bad"})
	assert.ErrorIs(t, err, shared.ErrInvalidFormat)
}

func TestGetRecentActivity(t *testing.T) {
	ctx := context.Background()
	p := memory.NewProvider()
	student := seedStudent(t, p, "STU-001", roster.StatusActive)
	seedGrade(t, p, student.ID, 45, 50, "2026-03-12")
	seedRecord(t, p, student.ID, "2026-03-11", attendance.StatusPresent)

	handler := NewGetRecentActivityHandler(testLoader(p), testLogger())
	feed, err := handler.Handle(ctx)
	require.NoError(t, err)

	require.Len(t, feed, 2)
	assert.True(t, feed[0].Day.After(feed[1].Day) || feed[0].Day.Equal(feed[1].Day))
}
