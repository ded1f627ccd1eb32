package reporting

import (
	"fmt"
	"sort"

	"github.com/classtrack/classtrack-backend/internal/domain/attendance"
	"github.com/classtrack/classtrack-backend/internal/domain/roster"
	"github.com/classtrack/classtrack-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECENT ACTIVITY FEED
// ══════════════════════════════════════════════════════════════════════════════

// ActivityKind определяет источник записи ленты активности.
type ActivityKind string

const (
	// ActivityGrade - запись порождена оценкой.
	ActivityGrade ActivityKind = "grade"
	// ActivityAttendance - запись порождена отметкой посещаемости.
	ActivityAttendance ActivityKind = "attendance"
)

// Severity определяет окраску записи ленты.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Лимиты ленты активности: сколько последних событий каждого вида
// попадает в слияние и сколько записей отображается.
const (
	activityGradeLimit      = 5
	activityAttendanceLimit = 3
	activityDisplayLimit    = 6
)

// ActivityEntry - одна запись ленты недавней активности.
type ActivityEntry struct {
	Kind        ActivityKind `json:"kind"`
	Description string       `json:"description"`
	Value       string       `json:"value"`
	Day         timeutil.Day `json:"day"`
	Severity    Severity     `json:"severity"`
}

// RecentActivity строит ленту недавней активности: последние оценки и
// отметки посещаемости, слитые в одну хронологически убывающую
// последовательность и усечённые до шести записей.
func (s *Snapshot) RecentActivity() []ActivityEntry {
	grades := make([]ActivityEntry, 0, activityGradeLimit)
	for _, g := range sortedGradesByDateDesc(s) {
		if len(grades) == activityGradeLimit {
			break
		}
		severity := SeverityWarning
		if g.Percentage >= atRiskThreshold {
			severity = SeveritySuccess
		}
		grades = append(grades, ActivityEntry{
			Kind:        ActivityGrade,
			Description: fmt.Sprintf("Grade added for %s", g.Subject),
			Value:       fmt.Sprintf("%g%%", g.Percentage),
			Day:         g.Date,
			Severity:    severity,
		})
	}

	records := make([]ActivityEntry, 0, activityAttendanceLimit)
	for _, r := range sortedAttendanceByDateDesc(s) {
		if len(records) == activityAttendanceLimit {
			break
		}
		var severity Severity
		switch r.Status {
		case attendance.StatusPresent:
			severity = SeveritySuccess
		case attendance.StatusAbsent:
			severity = SeverityError
		default:
			severity = SeverityWarning
		}
		records = append(records, ActivityEntry{
			Kind:        ActivityAttendance,
			Description: "Attendance marked",
			Value:       string(r.Status),
			Day:         r.Day,
			Severity:    severity,
		})
	}

	merged := append(grades, records...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Day.After(merged[j].Day)
	})
	if len(merged) > activityDisplayLimit {
		merged = merged[:activityDisplayLimit]
	}
	return merged
}

// sortedGradesByDateDesc возвращает оценки с разрешимой ссылкой на
// студента, отсортированные по дате по убыванию. Снимок не мутируется.
func sortedGradesByDateDesc(s *Snapshot) []*gradeEntry {
	out := make([]*gradeEntry, 0, len(s.Grades))
	for _, g := range s.Grades {
		if !s.resolves(g.StudentID) || !usable(g) {
			continue
		}
		out = append(out, &gradeEntry{Subject: string(g.Subject), Percentage: g.Percentage, Date: g.Date})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

type gradeEntry struct {
	Subject    string
	Percentage float64
	Date       timeutil.Day
}

func sortedAttendanceByDateDesc(s *Snapshot) []*attendance.Record {
	out := make([]*attendance.Record, 0, len(s.Attendance))
	for _, r := range s.Attendance {
		if !s.resolves(r.StudentID) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Day.After(out[j].Day)
	})
	return out
}

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD
// ══════════════════════════════════════════════════════════════════════════════

// Стандартные размеры рейтинга: полный для отчётов, короткий для
// виджетов панели управления.
const (
	ReportLeaderboardSize    = 10
	DashboardLeaderboardSize = 5
)

// RankedStudent - позиция студента в рейтинге успеваемости.
type RankedStudent struct {
	// Rank - позиция, начиная с 1.
	Rank int `json:"rank"`

	// Student - студент.
	Student *roster.Student `json:"student"`

	// Average - средняя оценка, по которой построен рейтинг.
	Average Average `json:"average"`
}

// Leaderboard строит рейтинг студентов отфильтрованного ростера по
// убыванию среднего балла. Участвуют только студенты с положительным
// средним: отсутствие оценок - это "нет данных", а не нулевой балл.
// Равные средние сохраняют исходный порядок ростера (стабильная
// сортировка). Результат усекается до limit записей.
func (s *Snapshot) Leaderboard(f roster.Filter, w timeutil.Window, limit int) []RankedStudent {
	ranked := make([]RankedStudent, 0)
	for _, st := range s.Roster(f) {
		avg := s.StudentAverage(st.ID, w)
		if !avg.HasData() || avg.Value <= 0 {
			continue
		}
		ranked = append(ranked, RankedStudent{Student: st, Average: avg})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Average.Value > ranked[j].Average.Value
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// ══════════════════════════════════════════════════════════════════════════════
// DASHBOARD & REPORT STATISTICS
// ══════════════════════════════════════════════════════════════════════════════

// DashboardStats - сводные показатели панели управления.
// Панель всегда смотрит на все данные без окна и фильтров.
type DashboardStats struct {
	TotalStudents  int `json:"total_students"`
	ActiveStudents int `json:"active_students"`
	AverageGrade   int `json:"average_grade"`
	AttendanceRate int `json:"attendance_rate"`
	AtRiskCount    int `json:"at_risk_count"`
}

// Dashboard вычисляет сводные показатели панели управления.
func (s *Snapshot) Dashboard() DashboardStats {
	active := 0
	for _, st := range s.Students {
		if st.Status.IsActive() {
			active++
		}
	}

	open := timeutil.OpenWindow()
	return DashboardStats{
		TotalStudents:  len(s.Students),
		ActiveStudents: active,
		AverageGrade:   s.OverallAverage(open),
		AttendanceRate: s.OverallAttendanceRate(open),
		AtRiskCount:    len(s.AtRisk(roster.Filter{}, open)),
	}
}

// ReportStats - сводные показатели отчёта об успеваемости для
// отфильтрованного ростера и окна дат.
type ReportStats struct {
	TotalStudents  int `json:"total_students"`
	ActiveStudents int `json:"active_students"`

	// ClassAverage - среднее по средним баллам студентов ростера.
	// Студент без оценок в окне вносит ноль: отчёт отражает
	// активность за период, а не исторические заслуги.
	ClassAverage int `json:"class_average"`

	// AttendanceRate - посещаемость студентов ростера в окне.
	AttendanceRate int `json:"attendance_rate"`

	// HighPerformers - студенты со средним >= 90.
	HighPerformers int `json:"high_performers"`

	// AtRiskCount - студенты зоны риска.
	AtRiskCount int `json:"at_risk_count"`
}

// Report вычисляет сводные показатели отчёта.
func (s *Snapshot) Report(f roster.Filter, w timeutil.Window) ReportStats {
	studentsInReport := s.Roster(f)

	stats := ReportStats{TotalStudents: len(studentsInReport)}

	var sumAverages float64
	for _, st := range studentsInReport {
		if st.Status.IsActive() {
			stats.ActiveStudents++
		}

		avg := s.StudentAverage(st.ID, w)
		sumAverages += avg.Value
		if avg.Value >= 90 {
			stats.HighPerformers++
		}
		if s.IsAtRisk(st, w) {
			stats.AtRiskCount++
		}
	}

	if len(studentsInReport) > 0 {
		stats.ClassAverage = roundInt(sumAverages / float64(len(studentsInReport)))
	}

	b := s.BreakdownAttendance(f, w)
	total := b.Present + b.Absent + b.Late + b.Excused
	if total == 0 {
		stats.AttendanceRate = 100
	} else {
		stats.AttendanceRate = roundInt(float64(b.Present+b.Excused) / float64(total) * 100)
	}

	return stats
}
