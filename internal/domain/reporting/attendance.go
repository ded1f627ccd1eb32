package reporting

import (
	"github.com/classtrack/classtrack-backend/internal/domain/attendance"
	"github.com/classtrack/classtrack-backend/internal/domain/roster"
	"github.com/classtrack/classtrack-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ATTENDANCE RATE (range-based)
// ══════════════════════════════════════════════════════════════════════════════

// AttendanceRate вычисляет посещаемость студента в инклюзивном
// диапазоне [from, to]: доля дней со статусом present или excused
// среди всех записей диапазона, округлённая до целого процента.
//
// Соглашение: при нуле записей в диапазоне возвращается ровно 100,
// а не 0 - отсутствие данных о посещаемости трактуется оптимистично.
// Это сознательная политика; недельная сводка (WeeklyRollup) считает
// иначе, и обе операции намеренно существуют раздельно.
func (s *Snapshot) AttendanceRate(id roster.StudentID, from, to timeutil.Day) int {
	var total, satisfied int
	for _, r := range s.Attendance {
		if r.StudentID != id || r.Day.IsZero() {
			continue
		}
		if r.Day.Before(from) || r.Day.After(to) {
			continue
		}
		total++
		if r.Status.IsSatisfied() {
			satisfied++
		}
	}

	if total == 0 {
		return 100
	}
	return roundInt(float64(satisfied) / float64(total) * 100)
}

// OverallAttendanceRate вычисляет общую посещаемость по всем записям
// снимка в пределах окна. Действует то же оптимистичное соглашение:
// ноль записей - это 100.
func (s *Snapshot) OverallAttendanceRate(w timeutil.Window) int {
	var total, satisfied int
	for _, r := range s.Attendance {
		if !s.resolves(r.StudentID) || !w.Contains(r.Day) {
			continue
		}
		total++
		if r.Status.IsSatisfied() {
			satisfied++
		}
	}

	if total == 0 {
		return 100
	}
	return roundInt(float64(satisfied) / float64(total) * 100)
}

// ══════════════════════════════════════════════════════════════════════════════
// DAY SUMMARY
// ══════════════════════════════════════════════════════════════════════════════

// DaySummary - сводка посещаемости за один календарный день.
type DaySummary struct {
	Day     timeutil.Day `json:"day"`
	Present int          `json:"present"`
	Absent  int          `json:"absent"`
	Late    int          `json:"late"`
	Excused int          `json:"excused"`
	Total   int          `json:"total"`
}

// SummarizeDay подсчитывает отметки каждого статуса за день по всем
// записям снимка, без фильтрации по студентам.
func (s *Snapshot) SummarizeDay(day timeutil.Day) DaySummary {
	summary := DaySummary{Day: day}
	for _, r := range s.Attendance {
		if !r.Day.Equal(day) {
			continue
		}
		switch r.Status {
		case attendance.StatusPresent:
			summary.Present++
		case attendance.StatusAbsent:
			summary.Absent++
		case attendance.StatusLate:
			summary.Late++
		case attendance.StatusExcused:
			summary.Excused++
		}
		summary.Total++
	}
	return summary
}

// AttendanceBreakdown - количество записей каждого статуса в окне
// среди студентов отфильтрованного ростера.
type AttendanceBreakdown struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
	Excused int `json:"excused"`
}

// BreakdownAttendance подсчитывает записи по статусам в пределах окна
// для студентов отфильтрованного ростера.
func (s *Snapshot) BreakdownAttendance(f roster.Filter, w timeutil.Window) AttendanceBreakdown {
	inRoster := make(map[roster.StudentID]bool)
	for _, st := range s.Roster(f) {
		inRoster[st.ID] = true
	}

	var b AttendanceBreakdown
	for _, r := range s.Attendance {
		if !inRoster[r.StudentID] || !w.Contains(r.Day) {
			continue
		}
		switch r.Status {
		case attendance.StatusPresent:
			b.Present++
		case attendance.StatusAbsent:
			b.Absent++
		case attendance.StatusLate:
			b.Late++
		case attendance.StatusExcused:
			b.Excused++
		}
	}
	return b
}

// ══════════════════════════════════════════════════════════════════════════════
// WEEKLY ROLLUP
// В отличие от AttendanceRate, день без записи считается незасчитанным,
// а не исключается из знаменателя. Расхождение унаследовано от
// наблюдаемого поведения и сохранено как два отдельно именованных
// вычисления; см. DESIGN.md.
// ══════════════════════════════════════════════════════════════════════════════

// StudentWeek - посещаемость одного студента за школьную неделю.
type StudentWeek struct {
	// StudentID - студент.
	StudentID roster.StudentID `json:"student_id"`

	// FullName - полное имя для отображения.
	FullName string `json:"full_name"`

	// Days - отметки по дням недели, пустой статус = записи нет.
	Days [timeutil.SchoolWeekDays]attendance.Status `json:"days"`

	// SatisfiedDays - дни со статусом present или excused.
	SatisfiedDays int `json:"satisfied_days"`

	// Rate - недельная посещаемость: SatisfiedDays / 5 * 100,
	// округлённая до целого.
	Rate int `json:"rate"`
}

// WeekRollup - сводка посещаемости за школьную неделю (Пн-Пт).
type WeekRollup struct {
	// Week - пять учебных дней недели, содержащей якорную дату.
	Week [timeutil.SchoolWeekDays]timeutil.Day `json:"week"`

	// Students - построчная сводка по активным студентам.
	Students []StudentWeek `json:"students"`

	// Present, Absent, Late, Excused - количество отметок каждого
	// статуса среди активных студентов за неделю.
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
	Excused int `json:"excused"`

	// TotalPossible - активные студенты x 5 дней.
	TotalPossible int `json:"total_possible"`

	// OverallRate - (present + excused) / TotalPossible * 100,
	// округлённая до целого. День без записи уменьшает показатель.
	OverallRate int `json:"overall_rate"`
}

// RollupWeek строит недельную сводку посещаемости для недели,
// содержащей якорную дату. Участвуют только активные студенты.
func (s *Snapshot) RollupWeek(anchor timeutil.Day) WeekRollup {
	week := timeutil.SchoolWeek(anchor)
	rollup := WeekRollup{Week: week}

	// индекс записей по (студент, день)
	type key struct {
		id  roster.StudentID
		day timeutil.Day
	}
	byKey := make(map[key]*attendance.Record, len(s.Attendance))
	for _, r := range s.Attendance {
		byKey[key{r.StudentID, r.Day}] = r
	}

	for _, st := range s.Students {
		if !st.Status.IsActive() {
			continue
		}

		sw := StudentWeek{StudentID: st.ID, FullName: st.FullName()}
		for i, day := range week {
			r, ok := byKey[key{st.ID, day}]
			if !ok {
				continue // день без записи: не засчитан, но остаётся в знаменателе
			}
			sw.Days[i] = r.Status
			switch r.Status {
			case attendance.StatusPresent:
				rollup.Present++
			case attendance.StatusAbsent:
				rollup.Absent++
			case attendance.StatusLate:
				rollup.Late++
			case attendance.StatusExcused:
				rollup.Excused++
			}
			if r.Status.IsSatisfied() {
				sw.SatisfiedDays++
			}
		}
		sw.Rate = roundInt(float64(sw.SatisfiedDays) / timeutil.SchoolWeekDays * 100)
		rollup.Students = append(rollup.Students, sw)
	}

	rollup.TotalPossible = len(rollup.Students) * timeutil.SchoolWeekDays
	if rollup.TotalPossible > 0 {
		rollup.OverallRate = roundInt(float64(rollup.Present+rollup.Excused) / float64(rollup.TotalPossible) * 100)
	}
	return rollup
}
