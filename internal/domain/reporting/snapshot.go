// Package reporting содержит агрегационное ядро ClassTrack.
// Все функции детерминированы и свободны от побочных эффектов: они
// работают над снимком трёх коллекций (студенты, оценки, посещаемость)
// и никогда не выполняют I/O.
package reporting

import (
	"math"

	"github.com/classtrack/classtrack-backend/internal/domain/attendance"
	"github.com/classtrack/classtrack-backend/internal/domain/gradebook"
	"github.com/classtrack/classtrack-backend/internal/domain/roster"
	"github.com/classtrack/classtrack-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SNAPSHOT
// ══════════════════════════════════════════════════════════════════════════════

// Snapshot - неизменяемый снимок данных на момент одного вычисления.
// Ядро никогда не мутирует коллекции снимка.
type Snapshot struct {
	Students   []*roster.Student
	Grades     []*gradebook.Grade
	Attendance []*attendance.Record

	// byID - индекс студентов для разрешения ссылок.
	byID map[roster.StudentID]*roster.Student
}

// NewSnapshot создаёт снимок и строит индекс студентов.
func NewSnapshot(students []*roster.Student, grades []*gradebook.Grade, records []*attendance.Record) *Snapshot {
	byID := make(map[roster.StudentID]*roster.Student, len(students))
	for _, s := range students {
		byID[s.ID] = s
	}
	return &Snapshot{
		Students:   students,
		Grades:     grades,
		Attendance: records,
		byID:       byID,
	}
}

// resolves проверяет, что ссылка на студента разрешается в снимке.
// Оценки и записи посещаемости с неразрешимой ссылкой (устаревшие или
// мягко удалённые данные) молча пропускаются в агрегатах - окно
// рассинхронизации с хранилищем не должно ронять вычисление.
func (s *Snapshot) resolves(id roster.StudentID) bool {
	_, ok := s.byID[id]
	return ok
}

// usable проверяет, что процент оценки пригоден для агрегации.
func usable(g *gradebook.Grade) bool {
	return gradebook.IsUsablePercentage(g.Percentage)
}

// roundInt округляет до ближайшего целого.
func roundInt(v float64) int {
	return int(math.Round(v))
}

// round2 округляет до двух десятичных знаков.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ══════════════════════════════════════════════════════════════════════════════
// ROSTER FILTERING
// ══════════════════════════════════════════════════════════════════════════════

// Roster возвращает подмножество студентов, проходящих фильтр.
// Порядок исходного ростера сохраняется.
func (s *Snapshot) Roster(f roster.Filter) []*roster.Student {
	if f.IsEmpty() {
		out := make([]*roster.Student, len(s.Students))
		copy(out, s.Students)
		return out
	}

	out := make([]*roster.Student, 0, len(s.Students))
	for _, st := range s.Students {
		if f.Matches(st) {
			out = append(out, st)
		}
	}
	return out
}

// ══════════════════════════════════════════════════════════════════════════════
// GRADE AVERAGES
// ══════════════════════════════════════════════════════════════════════════════

// Average - средняя оценка студента.
//
// Count позволяет различать "нет данных" и "средний балл ноль":
// студент без оценок получает Value 0 и Count 0, при этом он не попадает
// ни в зону риска, ни в рейтинги.
type Average struct {
	// Value - среднее арифметическое процентов, 2 десятичных знака.
	// Взвешивания по максимуму баллов нет.
	Value float64

	// Count - количество оценок, вошедших в среднее.
	Count int
}

// HasData возвращает true, если среднее построено хотя бы по одной оценке.
func (a Average) HasData() bool {
	return a.Count > 0
}

// Display возвращает значение, округлённое до целого процента.
func (a Average) Display() int {
	return roundInt(a.Value)
}

// StudentAverage вычисляет среднюю оценку студента в пределах окна.
// Оценки с непригодным процентом исключаются из среднего.
func (s *Snapshot) StudentAverage(id roster.StudentID, w timeutil.Window) Average {
	var sum float64
	var count int
	for _, g := range s.Grades {
		if g.StudentID != id || !usable(g) || !w.Contains(g.Date) {
			continue
		}
		sum += g.Percentage
		count++
	}
	if count == 0 {
		return Average{}
	}
	return Average{Value: round2(sum / float64(count)), Count: count}
}

// OverallAverage вычисляет общий средний балл по всем оценкам снимка
// с положительным пригодным процентом и разрешимой ссылкой на студента.
// Округляется до целого для панели управления.
func (s *Snapshot) OverallAverage(w timeutil.Window) int {
	var sum float64
	var count int
	for _, g := range s.Grades {
		if !usable(g) || g.Percentage <= 0 || !s.resolves(g.StudentID) || !w.Contains(g.Date) {
			continue
		}
		sum += g.Percentage
		count++
	}
	if count == 0 {
		return 0
	}
	return roundInt(sum / float64(count))
}

// ══════════════════════════════════════════════════════════════════════════════
// AT-RISK CLASSIFICATION
// ══════════════════════════════════════════════════════════════════════════════

// atRiskThreshold - средний балл, ниже которого студент в зоне риска.
const atRiskThreshold = 70

// IsAtRisk проверяет, находится ли студент в зоне риска: активный
// статус и средний балл строго ниже 70 при наличии хотя бы одной
// оценки со средним выше нуля. Отсутствие данных намеренно не
// приравнивается к низкому баллу: студент без оценок не в зоне риска.
func (s *Snapshot) IsAtRisk(st *roster.Student, w timeutil.Window) bool {
	if !st.Status.IsActive() {
		return false
	}
	avg := s.StudentAverage(st.ID, w)
	return avg.Value > 0 && avg.Value < atRiskThreshold
}

// AtRisk возвращает студентов зоны риска из отфильтрованного ростера,
// сохраняя порядок ростера.
func (s *Snapshot) AtRisk(f roster.Filter, w timeutil.Window) []*roster.Student {
	out := make([]*roster.Student, 0)
	for _, st := range s.Roster(f) {
		if s.IsAtRisk(st, w) {
			out = append(out, st)
		}
	}
	return out
}

// ══════════════════════════════════════════════════════════════════════════════
// SUBJECT AVERAGES
// ══════════════════════════════════════════════════════════════════════════════

// SubjectPerformance - средний балл по предмету.
type SubjectPerformance struct {
	// Subject - предмет.
	Subject gradebook.Subject `json:"subject"`

	// Average - средний процент, округлённый до целого.
	// Ноль при отсутствии данных; Count отличает его от честного нуля.
	Average int `json:"average"`

	// Count - количество оценок, вошедших в среднее.
	Count int `json:"count"`
}

// SubjectAverage вычисляет средний балл по предмету среди оценок
// студентов отфильтрованного ростера в пределах окна.
func (s *Snapshot) SubjectAverage(subject gradebook.Subject, f roster.Filter, w timeutil.Window) SubjectPerformance {
	inRoster := make(map[roster.StudentID]bool)
	for _, st := range s.Roster(f) {
		inRoster[st.ID] = true
	}

	var sum float64
	var count int
	for _, g := range s.Grades {
		if g.Subject != subject || !usable(g) || !w.Contains(g.Date) || !inRoster[g.StudentID] {
			continue
		}
		sum += g.Percentage
		count++
	}

	perf := SubjectPerformance{Subject: subject, Count: count}
	if count > 0 {
		perf.Average = roundInt(sum / float64(count))
	}
	return perf
}

// SubjectBreakdown вычисляет успеваемость по всем преподаваемым предметам.
func (s *Snapshot) SubjectBreakdown(f roster.Filter, w timeutil.Window) []SubjectPerformance {
	subjects := gradebook.TaughtSubjects()
	out := make([]SubjectPerformance, 0, len(subjects))
	for _, subject := range subjects {
		out = append(out, s.SubjectAverage(subject, f, w))
	}
	return out
}
