package reporting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/classtrack-backend/internal/domain/attendance"
	"github.com/classtrack/classtrack-backend/internal/domain/roster"
	"github.com/classtrack/classtrack-backend/pkg/timeutil"
)

func TestAttendanceRate(t *testing.T) {
	snap := NewSnapshot(
		[]*roster.Student{testStudent(1, roster.StatusActive)},
		nil,
		[]*attendance.Record{
			testRecord(1, "2026-03-16", attendance.StatusPresent),
			testRecord(1, "2026-03-17", attendance.StatusExcused),
			testRecord(1, "2026-03-18", attendance.StatusAbsent),
			testRecord(1, "2026-03-19", attendance.StatusLate),
		},
	)

	from := timeutil.MustParseDay("2026-03-16")
	to := timeutil.MustParseDay("2026-03-20")

	// present + excused = 2 из 4 записей
	assert.Equal(t, 50, snap.AttendanceRate(1, from, to))
}

func TestAttendanceRate_NoRecordsIs100(t *testing.T) {
	snap := NewSnapshot([]*roster.Student{testStudent(1, roster.StatusActive)}, nil, nil)

	from := timeutil.MustParseDay("2026-03-16")
	to := timeutil.MustParseDay("2026-03-20")
	assert.Equal(t, 100, snap.AttendanceRate(1, from, to))
}

func TestAttendanceRate_RangeIsInclusive(t *testing.T) {
	snap := NewSnapshot(
		[]*roster.Student{testStudent(1, roster.StatusActive)},
		nil,
		[]*attendance.Record{
			testRecord(1, "2026-03-15", attendance.StatusAbsent), // до диапазона
			testRecord(1, "2026-03-16", attendance.StatusPresent),
			testRecord(1, "2026-03-20", attendance.StatusPresent),
			testRecord(1, "2026-03-21", attendance.StatusAbsent), // после диапазона
		},
	)

	from := timeutil.MustParseDay("2026-03-16")
	to := timeutil.MustParseDay("2026-03-20")
	assert.Equal(t, 100, snap.AttendanceRate(1, from, to))
}

func TestOverallAttendanceRate(t *testing.T) {
	snap := NewSnapshot(
		[]*roster.Student{testStudent(1, roster.StatusActive), testStudent(2, roster.StatusActive)},
		nil,
		[]*attendance.Record{
			testRecord(1, "2026-03-16", attendance.StatusPresent),
			testRecord(2, "2026-03-16", attendance.StatusAbsent),
			testRecord(99, "2026-03-16", attendance.StatusAbsent), // неразрешимая ссылка
		},
	)

	assert.Equal(t, 50, snap.OverallAttendanceRate(timeutil.OpenWindow()))
}

func TestSummarizeDay(t *testing.T) {
	day := timeutil.MustParseDay("2026-03-16")
	snap := NewSnapshot(
		nil,
		nil,
		[]*attendance.Record{
			testRecord(1, "2026-03-16", attendance.StatusPresent),
			testRecord(2, "2026-03-16", attendance.StatusPresent),
			testRecord(3, "2026-03-16", attendance.StatusAbsent),
			testRecord(4, "2026-03-16", attendance.StatusLate),
			testRecord(5, "2026-03-16", attendance.StatusExcused),
			testRecord(6, "2026-03-17", attendance.StatusAbsent), // другой день
		},
	)

	summary := snap.SummarizeDay(day)
	assert.Equal(t, 2, summary.Present)
	assert.Equal(t, 1, summary.Absent)
	assert.Equal(t, 1, summary.Late)
	assert.Equal(t, 1, summary.Excused)
	assert.Equal(t, 5, summary.Total)
}

func TestBreakdownAttendance(t *testing.T) {
	s1 := testStudent(1, roster.StatusActive)
	s2 := testStudent(2, roster.StatusActive)
	s2.Class = "11-B"
	snap := NewSnapshot(
		[]*roster.Student{s1, s2},
		nil,
		[]*attendance.Record{
			testRecord(1, "2026-03-16", attendance.StatusPresent),
			testRecord(1, "2026-03-17", attendance.StatusLate),
			testRecord(2, "2026-03-16", attendance.StatusAbsent), // вне фильтра
		},
	)

	b := snap.BreakdownAttendance(roster.Filter{Class: "10-A"}, timeutil.OpenWindow())
	assert.Equal(t, AttendanceBreakdown{Present: 1, Late: 1}, b)
}

func TestRollupWeek(t *testing.T) {
	active := testStudent(1, roster.StatusActive)
	inactive := testStudent(2, roster.StatusInactive)

	// неделя 2026-03-16 (Пн) .. 2026-03-20 (Пт); у студента есть записи
	// на четыре дня из пяти, пятница без отметки
	snap := NewSnapshot(
		[]*roster.Student{active, inactive},
		nil,
		[]*attendance.Record{
			testRecord(1, "2026-03-16", attendance.StatusPresent),
			testRecord(1, "2026-03-17", attendance.StatusAbsent),
			testRecord(1, "2026-03-18", attendance.StatusLate),
			testRecord(1, "2026-03-19", attendance.StatusExcused),
			testRecord(2, "2026-03-16", attendance.StatusPresent), // неактивный не участвует
		},
	)

	rollup := snap.RollupWeek(timeutil.MustParseDay("2026-03-18"))

	assert.True(t, rollup.Week[0].Equal(timeutil.MustParseDay("2026-03-16")))
	assert.True(t, rollup.Week[4].Equal(timeutil.MustParseDay("2026-03-20")))

	require.Len(t, rollup.Students, 1)
	sw := rollup.Students[0]
	assert.Equal(t, roster.StudentID(1), sw.StudentID)
	assert.Equal(t, attendance.StatusPresent, sw.Days[0])
	assert.Equal(t, attendance.StatusExcused, sw.Days[3])
	assert.Equal(t, attendance.Status(""), sw.Days[4], "день без записи остаётся пустым")

	// present + excused = 2 засчитанных дня; день без записи в знаменателе
	assert.Equal(t, 2, sw.SatisfiedDays)
	assert.Equal(t, 40, sw.Rate)

	assert.Equal(t, 1, rollup.Present)
	assert.Equal(t, 1, rollup.Absent)
	assert.Equal(t, 1, rollup.Late)
	assert.Equal(t, 1, rollup.Excused)
	assert.Equal(t, 5, rollup.TotalPossible)
	assert.Equal(t, 40, rollup.OverallRate)
}

func TestRollupWeek_NoActiveStudents(t *testing.T) {
	snap := NewSnapshot([]*roster.Student{testStudent(1, roster.StatusGraduated)}, nil, nil)

	rollup := snap.RollupWeek(timeutil.MustParseDay("2026-03-18"))
	assert.Empty(t, rollup.Students)
	assert.Equal(t, 0, rollup.TotalPossible)
	assert.Equal(t, 0, rollup.OverallRate)
}
