// Package gradebook содержит доменную модель оценки ClassTrack.
// Процент и буквенная оценка - производные значения: они пересчитываются
// из score/maxScore при каждой записи и никогда не принимаются от
// вызывающего кода как источник истины.
package gradebook

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/classtrack/classtrack-backend/internal/domain/roster"
	"github.com/classtrack/classtrack-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// GradeID представляет уникальный идентификатор оценки.
type GradeID int

// IsValid проверяет, что GradeID положительный.
func (id GradeID) IsValid() bool {
	return id > 0
}

// Int возвращает числовое значение идентификатора.
func (id GradeID) Int() int {
	return int(id)
}

// Subject представляет преподаваемый предмет.
type Subject string

const (
	SubjectMathematics Subject = "Mathematics"
	SubjectEnglish     Subject = "English"
	SubjectScience     Subject = "Science"
	SubjectHistory     Subject = "History"
	SubjectPE          Subject = "Physical Education"
)

// TaughtSubjects возвращает фиксированный список преподаваемых предметов.
func TaughtSubjects() []Subject {
	return []Subject{
		SubjectMathematics,
		SubjectEnglish,
		SubjectScience,
		SubjectHistory,
		SubjectPE,
	}
}

// IsValid проверяет, что предмет входит в список преподаваемых.
func (s Subject) IsValid() bool {
	for _, subject := range TaughtSubjects() {
		if s == subject {
			return true
		}
	}
	return false
}

// Letter представляет буквенную оценку от A+ до F.
type Letter string

// letterBreakpoints - фиксированные пороги буквенных оценок.
// Таблица просматривается сверху вниз, нижние границы включительны:
// ровно 97 - это A+, ровно 93 - A и так далее.
var letterBreakpoints = []struct {
	min    float64
	letter Letter
}{
	{97, "A+"},
	{93, "A"},
	{90, "A-"},
	{87, "B+"},
	{83, "B"},
	{80, "B-"},
	{77, "C+"},
	{73, "C"},
	{70, "C-"},
	{67, "D+"},
	{63, "D"},
	{60, "D-"},
}

// LetterFor возвращает буквенную оценку для процента.
// Единственная точка отображения процент -> буква: используется при
// создании и изменении оценок и при построении отчётов.
func LetterFor(percentage float64) Letter {
	for _, bp := range letterBreakpoints {
		if percentage >= bp.min {
			return bp.letter
		}
	}
	return "F"
}

// IsUsablePercentage проверяет, что процент пригоден для агрегации:
// конечное неотрицательное число. NaN и бесконечности, появившиеся из
// испорченных данных, исключаются из средних, а не роняют вычисление.
func IsUsablePercentage(p float64) bool {
	return !math.IsNaN(p) && !math.IsInf(p, 0) && p >= 0
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: GRADE
// ══════════════════════════════════════════════════════════════════════════════

// Grade представляет одну оценку студента.
type Grade struct {
	// ID - идентификатор, назначенный хранилищем.
	ID GradeID

	// StudentID - ссылка на студента.
	StudentID roster.StudentID

	// Subject - предмет.
	Subject Subject

	// Score - набранные баллы.
	Score float64

	// MaxScore - максимальные баллы работы.
	MaxScore float64

	// Percentage - производный процент, round(score/maxScore*100, 2).
	Percentage float64

	// Letter - производная буквенная оценка.
	Letter Letter

	// Semester - метка семестра (например, "Fall 2026").
	Semester string

	// Date - дата выставления оценки.
	Date timeutil.Day

	// CreatedAt - время создания записи.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidGradeID - невалидный идентификатор оценки.
	ErrInvalidGradeID = errors.New("invalid grade id: must be positive")

	// ErrInvalidSubject - предмет не входит в список преподаваемых.
	ErrInvalidSubject = errors.New("invalid subject: not in taught subjects list")

	// ErrInvalidScore - баллы не являются конечным неотрицательным числом.
	ErrInvalidScore = errors.New("invalid score: must be a finite non-negative number")

	// ErrInvalidMaxScore - максимум баллов должен быть конечным положительным числом.
	ErrInvalidMaxScore = errors.New("invalid max score: must be a finite positive number")

	// ErrGradeNotFound - оценка не найдена.
	ErrGradeNotFound = errors.New("grade not found")
)

// ══════════════════════════════════════════════════════════════════════════════
// DERIVATION
// ══════════════════════════════════════════════════════════════════════════════

// Derive вычисляет производные значения из score и maxScore:
// процент с округлением до двух знаков и буквенную оценку.
func Derive(score, maxScore float64) (percentage float64, letter Letter, err error) {
	if math.IsNaN(score) || math.IsInf(score, 0) || score < 0 {
		return 0, "", ErrInvalidScore
	}
	if math.IsNaN(maxScore) || math.IsInf(maxScore, 0) || maxScore <= 0 {
		return 0, "", ErrInvalidMaxScore
	}

	raw := score / maxScore * 100
	percentage = math.Round(raw*100) / 100
	return percentage, LetterFor(percentage), nil
}

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & MUTATION
// ══════════════════════════════════════════════════════════════════════════════

// NewGradeParams содержит параметры для создания оценки.
// Percentage и Letter намеренно отсутствуют: они всегда выводятся.
type NewGradeParams struct {
	StudentID roster.StudentID
	Subject   Subject
	Score     float64
	MaxScore  float64
	Semester  string
	Date      timeutil.Day // нулевое значение = сегодня
}

// NewGrade создаёт новую оценку с валидацией и выводом производных полей.
func NewGrade(params NewGradeParams) (*Grade, error) {
	if !params.StudentID.IsValid() {
		return nil, roster.ErrInvalidStudentID
	}
	if !params.Subject.IsValid() {
		return nil, ErrInvalidSubject
	}

	percentage, letter, err := Derive(params.Score, params.MaxScore)
	if err != nil {
		return nil, err
	}

	date := params.Date
	if date.IsZero() {
		date = timeutil.Today()
	}

	now := time.Now().UTC()

	return &Grade{
		StudentID:  params.StudentID,
		Subject:    params.Subject,
		Score:      params.Score,
		MaxScore:   params.MaxScore,
		Percentage: percentage,
		Letter:     letter,
		Semester:   strings.TrimSpace(params.Semester),
		Date:       date,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Rescore изменяет баллы и пересчитывает производные поля.
// Путь обновления обязан проходить здесь: хранимые процент и буква
// никогда не принимаются от вызывающего кода.
func (g *Grade) Rescore(score, maxScore float64) error {
	percentage, letter, err := Derive(score, maxScore)
	if err != nil {
		return err
	}

	g.Score = score
	g.MaxScore = maxScore
	g.Percentage = percentage
	g.Letter = letter
	g.UpdatedAt = time.Now().UTC()
	return nil
}

// String возвращает строковое представление оценки для логирования.
func (g *Grade) String() string {
	return fmt.Sprintf(
		"Grade{ID: %d, Student: %d, Subject: %s, %.2f/%.2f = %.2f%% (%s)}",
		g.ID, g.StudentID, g.Subject, g.Score, g.MaxScore, g.Percentage, g.Letter,
	)
}

// Clone создаёт копию оценки.
func (g *Grade) Clone() *Grade {
	if g == nil {
		return nil
	}
	clone := *g
	return &clone
}
