package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/classtrack-backend/internal/domain/gradebook"
	"github.com/classtrack/classtrack-backend/internal/domain/roster"
	"github.com/classtrack/classtrack-backend/internal/domain/shared"
	"github.com/classtrack/classtrack-backend/internal/infrastructure/persistence/memory"
	"github.com/classtrack/classtrack-backend/pkg/timeutil"
)

func TestDateRange_Window(t *testing.T) {
	today := timeutil.Today()

	w, err := RangeWeek.Window()
	require.NoError(t, err)
	assert.True(t, w.From.Equal(today.AddDays(-7)))

	w, err = RangeMonth.Window()
	require.NoError(t, err)
	assert.True(t, w.From.Equal(today.AddMonths(-1)))

	// семестр считается как четыре месяца
	w, err = RangeSemester.Window()
	require.NoError(t, err)
	assert.True(t, w.From.Equal(today.AddMonths(-4)))

	_, err = DateRange("year").Window()
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestGetReport(t *testing.T) {
	ctx := context.Background()
	p := memory.NewProvider()
	student := seedStudent(t, p, "STU-001", roster.StatusActive)
	seedGrade(t, p, student.ID, 46, 50, timeutil.Today().String())

	published := &stubPublisher{}
	handler := NewGetReportHandler(testLoader(p), published, testLogger())
	view, err := handler.Handle(ctx, GetReportQuery{Range: RangeWeek})
	require.NoError(t, err)

	assert.NotEmpty(t, view.ExportID)
	assert.Equal(t, RangeWeek, view.Range)
	assert.Equal(t, 1, view.Stats.TotalStudents)
	assert.Equal(t, 92, view.Stats.ClassAverage)
	assert.Equal(t, 1, view.Stats.HighPerformers)
	assert.Len(t, view.Subjects, len(gradebook.TaughtSubjects()))
	require.Len(t, view.TopStudents, 1)
	assert.Equal(t, 92.0, view.TopStudents[0].Average.Value)

	// сборка отчёта публикует событие выгрузки с его идентификатором
	require.Len(t, published.events, 1)
	assert.Equal(t, shared.EventReportExported, published.events[0].EventType())
	assert.Equal(t, view.ExportID, published.events[0].AggregateID())
}

func TestGetReport_DefaultsToMonth(t *testing.T) {
	ctx := context.Background()
	handler := NewGetReportHandler(testLoader(memory.NewProvider()), shared.NopPublisher{}, testLogger())

	view, err := handler.Handle(ctx, GetReportQuery{})
	require.NoError(t, err)
	assert.Equal(t, RangeMonth, view.Range)
}

func TestGetReport_InvalidRange(t *testing.T) {
	ctx := context.Background()
	handler := NewGetReportHandler(testLoader(memory.NewProvider()), shared.NopPublisher{}, testLogger())

	_, err := handler.Handle(ctx, GetReportQuery{Range: "decade"})
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestGetReport_WindowExcludesOldGrades(t *testing.T) {
	ctx := context.Background()
	p := memory.NewProvider()
	student := seedStudent(t, p, "STU-001", roster.StatusActive)
	// оценка за пределами недельного окна
	seedGrade(t, p, student.ID, 46, 50, timeutil.Today().AddDays(-30).String())

	handler := NewGetReportHandler(testLoader(p), shared.NopPublisher{}, testLogger())
	view, err := handler.Handle(ctx, GetReportQuery{Range: RangeWeek})
	require.NoError(t, err)
	assert.Equal(t, 0, view.Stats.ClassAverage)
	assert.Empty(t, view.TopStudents)

	// в семестровом окне она видна
	view, err = handler.Handle(ctx, GetReportQuery{Range: RangeSemester})
	require.NoError(t, err)
	assert.Equal(t, 92, view.Stats.ClassAverage)
}

func TestGetReport_FilterByClass(t *testing.T) {
	ctx := context.Background()
	p := memory.NewProvider()
	inClass := seedStudent(t, p, "STU-001", roster.StatusActive)

	other, err := roster.NewStudent(roster.NewStudentParams{
		FirstName:  "Bolat",
		LastName:   "Serikov",
		Code:       "STU-002",
		GradeLevel: roster.GradeLevel11,
		Class:      "11-B",
	})
	require.NoError(t, err)
	_, err = p.Students().Create(ctx, other)
	require.NoError(t, err)

	seedGrade(t, p, inClass.ID, 46, 50, timeutil.Today().String())

	handler := NewGetReportHandler(testLoader(p), shared.NopPublisher{}, testLogger())
	view, err := handler.Handle(ctx, GetReportQuery{Class: "10-A", Range: RangeWeek})
	require.NoError(t, err)
	assert.Equal(t, 1, view.Stats.TotalStudents)
}
