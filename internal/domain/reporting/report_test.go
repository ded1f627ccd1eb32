package reporting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/classtrack-backend/internal/domain/attendance"
	"github.com/classtrack/classtrack-backend/internal/domain/gradebook"
	"github.com/classtrack/classtrack-backend/internal/domain/roster"
	"github.com/classtrack/classtrack-backend/pkg/timeutil"
)

func TestRecentActivity(t *testing.T) {
	snap := NewSnapshot(
		[]*roster.Student{testStudent(1, roster.StatusActive)},
		[]*gradebook.Grade{
			testGrade(1, gradebook.SubjectMathematics, 85, "2026-03-10"),
			testGrade(1, gradebook.SubjectEnglish, 55, "2026-03-12"),
		},
		[]*attendance.Record{
			testRecord(1, "2026-03-11", attendance.StatusAbsent),
		},
	)

	feed := snap.RecentActivity()
	require.Len(t, feed, 3)

	// хронологически по убыванию
	assert.Equal(t, ActivityGrade, feed[0].Kind)
	assert.Equal(t, "Grade added for English", feed[0].Description)
	assert.Equal(t, "55%", feed[0].Value)
	assert.Equal(t, SeverityWarning, feed[0].Severity)

	assert.Equal(t, ActivityAttendance, feed[1].Kind)
	assert.Equal(t, "absent", feed[1].Value)
	assert.Equal(t, SeverityError, feed[1].Severity)

	assert.Equal(t, ActivityGrade, feed[2].Kind)
	assert.Equal(t, SeveritySuccess, feed[2].Severity, "85% >= 70 окрашивается как success")
}

func TestRecentActivity_Limits(t *testing.T) {
	grades := make([]*gradebook.Grade, 0, 8)
	for i := 0; i < 8; i++ {
		grades = append(grades, testGrade(1, gradebook.SubjectScience, 90, "2026-03-10"))
	}
	records := make([]*attendance.Record, 0, 5)
	for i := 0; i < 5; i++ {
		records = append(records, testRecord(1, "2026-03-10", attendance.StatusPresent))
	}

	snap := NewSnapshot([]*roster.Student{testStudent(1, roster.StatusActive)}, grades, records)

	// 5 оценок + 3 отметки сливаются и усекаются до шести записей
	feed := snap.RecentActivity()
	assert.Len(t, feed, 6)
}

func TestRecentActivity_SkipsUnresolvedReferences(t *testing.T) {
	snap := NewSnapshot(
		[]*roster.Student{testStudent(1, roster.StatusActive)},
		[]*gradebook.Grade{testGrade(99, gradebook.SubjectScience, 90, "2026-03-10")},
		[]*attendance.Record{testRecord(99, "2026-03-10", attendance.StatusPresent)},
	)

	assert.Empty(t, snap.RecentActivity())
}

func TestRecentActivity_AttendanceSeverity(t *testing.T) {
	snap := NewSnapshot(
		[]*roster.Student{testStudent(1, roster.StatusActive)},
		nil,
		[]*attendance.Record{
			testRecord(1, "2026-03-12", attendance.StatusPresent),
			testRecord(1, "2026-03-11", attendance.StatusLate),
			testRecord(1, "2026-03-10", attendance.StatusExcused),
		},
	)

	feed := snap.RecentActivity()
	require.Len(t, feed, 3)
	assert.Equal(t, SeveritySuccess, feed[0].Severity)
	assert.Equal(t, SeverityWarning, feed[1].Severity, "late окрашивается как warning")
	assert.Equal(t, SeverityWarning, feed[2].Severity, "excused окрашивается как warning")
}

func TestLeaderboard(t *testing.T) {
	s1 := testStudent(1, roster.StatusActive)
	s2 := testStudent(2, roster.StatusActive)
	s3 := testStudent(3, roster.StatusActive) // без оценок
	snap := NewSnapshot(
		[]*roster.Student{s1, s2, s3},
		[]*gradebook.Grade{
			testGrade(1, gradebook.SubjectMathematics, 80, "2026-03-10"),
			testGrade(2, gradebook.SubjectMathematics, 95, "2026-03-10"),
		},
		nil,
	)

	ranked := snap.Leaderboard(roster.Filter{}, timeutil.OpenWindow(), ReportLeaderboardSize)
	require.Len(t, ranked, 2)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, s2, ranked[0].Student)
	assert.Equal(t, 95.0, ranked[0].Average.Value)
	assert.Equal(t, 2, ranked[1].Rank)
	assert.Equal(t, s1, ranked[1].Student)
}

func TestLeaderboard_StableTieBreak(t *testing.T) {
	s1 := testStudent(1, roster.StatusActive)
	s2 := testStudent(2, roster.StatusActive)
	snap := NewSnapshot(
		[]*roster.Student{s1, s2},
		[]*gradebook.Grade{
			testGrade(1, gradebook.SubjectMathematics, 88, "2026-03-10"),
			testGrade(2, gradebook.SubjectMathematics, 88, "2026-03-10"),
		},
		nil,
	)

	ranked := snap.Leaderboard(roster.Filter{}, timeutil.OpenWindow(), 10)
	require.Len(t, ranked, 2)
	assert.Equal(t, s1, ranked[0].Student, "при равных средних сохраняется порядок ростера")
	assert.Equal(t, s2, ranked[1].Student)
}

func TestLeaderboard_TruncatesBeforeRanking(t *testing.T) {
	students := make([]*roster.Student, 0, 7)
	grades := make([]*gradebook.Grade, 0, 7)
	for i := 1; i <= 7; i++ {
		students = append(students, testStudent(i, roster.StatusActive))
		grades = append(grades, testGrade(i, gradebook.SubjectMathematics, float64(60+i*5), "2026-03-10"))
	}
	snap := NewSnapshot(students, grades, nil)

	ranked := snap.Leaderboard(roster.Filter{}, timeutil.OpenWindow(), DashboardLeaderboardSize)
	require.Len(t, ranked, DashboardLeaderboardSize)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 5, ranked[4].Rank)
	assert.Equal(t, 95.0, ranked[0].Average.Value)
}

func TestLeaderboard_ExcludesZeroAverages(t *testing.T) {
	s1 := testStudent(1, roster.StatusActive)
	snap := NewSnapshot(
		[]*roster.Student{s1},
		[]*gradebook.Grade{testGrade(1, gradebook.SubjectMathematics, 0, "2026-03-10")},
		nil,
	)

	assert.Empty(t, snap.Leaderboard(roster.Filter{}, timeutil.OpenWindow(), 10))
}

func TestDashboard(t *testing.T) {
	// один активный студент с одной оценкой 65% и без записей
	// посещаемости: зона риска 1, посещаемость 100
	snap := NewSnapshot(
		[]*roster.Student{testStudent(1, roster.StatusActive), testStudent(2, roster.StatusGraduated)},
		[]*gradebook.Grade{testGrade(1, gradebook.SubjectMathematics, 65, "2026-03-10")},
		nil,
	)

	stats := snap.Dashboard()
	assert.Equal(t, 2, stats.TotalStudents)
	assert.Equal(t, 1, stats.ActiveStudents)
	assert.Equal(t, 65, stats.AverageGrade)
	assert.Equal(t, 100, stats.AttendanceRate)
	assert.Equal(t, 1, stats.AtRiskCount)
}

func TestDashboard_Empty(t *testing.T) {
	stats := NewSnapshot(nil, nil, nil).Dashboard()
	assert.Equal(t, DashboardStats{AttendanceRate: 100}, stats)
}

func TestReport(t *testing.T) {
	s1 := testStudent(1, roster.StatusActive)
	s2 := testStudent(2, roster.StatusActive) // без оценок: вносит ноль в среднее
	snap := NewSnapshot(
		[]*roster.Student{s1, s2},
		[]*gradebook.Grade{testGrade(1, gradebook.SubjectMathematics, 92, "2026-03-10")},
		[]*attendance.Record{
			testRecord(1, "2026-03-16", attendance.StatusPresent),
			testRecord(2, "2026-03-16", attendance.StatusAbsent),
		},
	)

	stats := snap.Report(roster.Filter{}, timeutil.OpenWindow())
	assert.Equal(t, 2, stats.TotalStudents)
	assert.Equal(t, 2, stats.ActiveStudents)
	assert.Equal(t, 46, stats.ClassAverage, "студент без оценок вносит ноль")
	assert.Equal(t, 1, stats.HighPerformers)
	assert.Equal(t, 0, stats.AtRiskCount)
	assert.Equal(t, 50, stats.AttendanceRate)
}

func TestReport_EmptyRoster(t *testing.T) {
	stats := NewSnapshot(nil, nil, nil).Report(roster.Filter{}, timeutil.OpenWindow())
	assert.Equal(t, 0, stats.TotalStudents)
	assert.Equal(t, 0, stats.ClassAverage)
	assert.Equal(t, 100, stats.AttendanceRate)
}
