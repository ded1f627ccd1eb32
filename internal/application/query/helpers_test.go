package query

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/classtrack/classtrack-backend/internal/domain/attendance"
	"github.com/classtrack/classtrack-backend/internal/domain/department"
	"github.com/classtrack/classtrack-backend/internal/domain/gradebook"
	"github.com/classtrack/classtrack-backend/internal/domain/roster"
	"github.com/classtrack/classtrack-backend/internal/domain/shared"
	"github.com/classtrack/classtrack-backend/internal/infrastructure/persistence/memory"
	"github.com/classtrack/classtrack-backend/pkg/timeutil"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubPublisher накапливает опубликованные события.
type stubPublisher struct {
	events []shared.Event
}

func (p *stubPublisher) Publish(e shared.Event) {
	p.events = append(p.events, e)
}

func testLoader(p *memory.Provider) *SnapshotLoader {
	return NewSnapshotLoader(p.Students(), p.Grades(), p.Attendance())
}

func seedStudent(t *testing.T, p *memory.Provider, code roster.Code, status roster.Status) *roster.Student {
	t.Helper()
	s, err := roster.NewStudent(roster.NewStudentParams{
		FirstName:  "Aliya",
		LastName:   "Nurlanova",
		Code:       code,
		GradeLevel: roster.GradeLevel10,
		Class:      "10-A",
		Status:     status,
	})
	require.NoError(t, err)

	created, err := p.Students().Create(context.Background(), s)
	require.NoError(t, err)
	return created
}

func seedGrade(t *testing.T, p *memory.Provider, studentID roster.StudentID, score, maxScore float64, date string) *gradebook.Grade {
	t.Helper()
	g, err := gradebook.NewGrade(gradebook.NewGradeParams{
		StudentID: studentID,
		Subject:   gradebook.SubjectMathematics,
		Score:     score,
		MaxScore:  maxScore,
		Date:      timeutil.MustParseDay(date),
	})
	require.NoError(t, err)

	created, err := p.Grades().Create(context.Background(), g)
	require.NoError(t, err)
	return created
}

func seedRecord(t *testing.T, p *memory.Provider, studentID roster.StudentID, date string, status attendance.Status) *attendance.Record {
	t.Helper()
	created, err := p.Attendance().Upsert(context.Background(), studentID, timeutil.MustParseDay(date), status, "")
	require.NoError(t, err)
	return created
}

func departmentFixture(name string) (*department.Department, error) {
	return department.NewDepartment(department.NewDepartmentParams{Name: name})
}

// recordingCache фиксирует обращения к кешу; чтение всегда промахивается.
type recordingCache struct {
	gets        []string
	sets        []string
	invalidated []string
}

func (c *recordingCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	c.gets = append(c.gets, key)
	return false, nil
}

func (c *recordingCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	c.sets = append(c.sets, key)
	return nil
}

func (c *recordingCache) Invalidate(ctx context.Context, keys ...string) error {
	c.invalidated = append(c.invalidated, keys...)
	return nil
}

// hitCache всегда отдаёт заранее заготовленное представление панели.
type hitCache struct {
	view DashboardView
}

func (c *hitCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if v, ok := dest.(*DashboardView); ok {
		*v = c.view
		return true, nil
	}
	return false, nil
}

func (c *hitCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return nil
}

func (c *hitCache) Invalidate(ctx context.Context, keys ...string) error { return nil }
