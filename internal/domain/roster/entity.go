// Package roster содержит доменную модель студента ClassTrack.
// Это ядро бизнес-логики - здесь нет внешних зависимостей,
// кроме pkg/timeutil для календарных дат.
package roster

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/classtrack/classtrack-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// StudentID представляет уникальный идентификатор студента.
// Идентификаторы назначаются хранилищем и неизменяемы после создания.
type StudentID int

// IsValid проверяет, что StudentID положительный.
func (id StudentID) IsValid() bool {
	return id > 0
}

// Int возвращает числовое значение идентификатора.
func (id StudentID) Int() int {
	return int(id)
}

// String возвращает строковое представление идентификатора.
func (id StudentID) String() string {
	return fmt.Sprintf("%d", id)
}

// Code представляет внешний код студента (например, "STU-2024-017").
// Уникален в пределах активного ростера.
type Code string

// IsValid проверяет корректность кода студента.
func (c Code) IsValid() bool {
	s := string(c)
	return len(s) >= 2 && len(s) <= 30 && !strings.ContainsAny(s, " \t\n\r")
}

// String возвращает строковое представление кода.
func (c Code) String() string {
	return string(c)
}

// Email представляет email студента. Пустое значение допустимо -
// поле опциональное.
type Email string

// IsValid проверяет форму local@domain. Пустой email считается валидным.
func (e Email) IsValid() bool {
	s := string(e)
	if s == "" {
		return true
	}
	at := strings.Index(s, "@")
	// локальная часть и домен непустые, "@" ровно один
	return at > 0 && at < len(s)-1 && strings.Count(s, "@") == 1
}

// String возвращает строковое представление email.
func (e Email) String() string {
	return string(e)
}

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// GradeLevel определяет ступень обучения студента.
type GradeLevel string

const (
	GradeLevel9  GradeLevel = "9th Grade"
	GradeLevel10 GradeLevel = "10th Grade"
	GradeLevel11 GradeLevel = "11th Grade"
	GradeLevel12 GradeLevel = "12th Grade"
)

// GradeLevels возвращает все ступени обучения в порядке возрастания.
func GradeLevels() []GradeLevel {
	return []GradeLevel{GradeLevel9, GradeLevel10, GradeLevel11, GradeLevel12}
}

// IsValid проверяет, что ступень обучения корректна.
func (g GradeLevel) IsValid() bool {
	switch g {
	case GradeLevel9, GradeLevel10, GradeLevel11, GradeLevel12:
		return true
	default:
		return false
	}
}

// Status определяет текущий статус студента.
// Переходы между статусами не ограничены: ростер ведётся оператором
// вручную, и система не навязывает жизненный цикл.
type Status string

const (
	// StatusActive - студент активно учится.
	StatusActive Status = "active"
	// StatusInactive - студент временно неактивен.
	StatusInactive Status = "inactive"
	// StatusGraduated - студент закончил обучение.
	StatusGraduated Status = "graduated"
)

// IsValid проверяет, что статус корректен.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusGraduated:
		return true
	default:
		return false
	}
}

// IsActive возвращает true, если студент активно учится.
// Только активные студенты участвуют в недельной посещаемости
// и классификации "в зоне риска".
func (s Status) IsActive() bool {
	return s == StatusActive
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// Student - центральная сущность системы.
type Student struct {
	// ID - идентификатор, назначенный хранилищем. Неизменяем.
	ID StudentID

	// FirstName - имя.
	FirstName string

	// LastName - фамилия.
	LastName string

	// Code - внешний код студента, уникальный в активном ростере.
	Code Code

	// Email - адрес электронной почты (опционально).
	Email Email

	// Phone - телефон (опционально).
	Phone string

	// GradeLevel - ступень обучения.
	GradeLevel GradeLevel

	// Class - метка класса в свободной форме (например, "10-A").
	Class string

	// Status - текущий статус.
	Status Status

	// EnrolledOn - дата зачисления.
	EnrolledOn timeutil.Day

	// PhotoURL - ссылка на фотографию (опционально).
	PhotoURL string

	// CreatedAt - время создания записи.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidStudentID - невалидный идентификатор студента.
	ErrInvalidStudentID = errors.New("invalid student id: must be positive")

	// ErrInvalidCode - невалидный код студента.
	ErrInvalidCode = errors.New("invalid student code: must be 2-30 chars without whitespace")

	// ErrInvalidName - невалидное имя или фамилия.
	ErrInvalidName = errors.New("invalid name: must be 1-100 chars")

	// ErrInvalidEmail - невалидный email.
	ErrInvalidEmail = errors.New("invalid email: must look like local@domain")

	// ErrInvalidGradeLevel - невалидная ступень обучения.
	ErrInvalidGradeLevel = errors.New("invalid grade level")

	// ErrInvalidStatus - невалидный статус студента.
	ErrInvalidStatus = errors.New("invalid student status")

	// ErrStudentNotFound - студент не найден.
	ErrStudentNotFound = errors.New("student not found")

	// ErrCodeTaken - код студента уже занят в активном ростере.
	ErrCodeTaken = errors.New("student code already taken")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewStudentParams содержит параметры для создания нового студента.
// Все правила дефолтов опциональных полей собраны в NewStudent -
// единственной точке конструирования.
type NewStudentParams struct {
	FirstName  string
	LastName   string
	Code       Code
	Email      Email
	Phone      string
	GradeLevel GradeLevel
	Class      string
	Status     Status       // пустое значение = StatusActive
	EnrolledOn timeutil.Day // нулевое значение = сегодня
	PhotoURL   string
}

// NewStudent создаёт нового студента с валидацией всех полей.
// ID остаётся нулевым: его назначает хранилище при сохранении.
func NewStudent(params NewStudentParams) (*Student, error) {
	firstName := strings.TrimSpace(params.FirstName)
	lastName := strings.TrimSpace(params.LastName)
	if len(firstName) == 0 || len(firstName) > 100 {
		return nil, ErrInvalidName
	}
	if len(lastName) == 0 || len(lastName) > 100 {
		return nil, ErrInvalidName
	}

	if !params.Code.IsValid() {
		return nil, ErrInvalidCode
	}

	if !params.Email.IsValid() {
		return nil, ErrInvalidEmail
	}

	if !params.GradeLevel.IsValid() {
		return nil, ErrInvalidGradeLevel
	}

	status := params.Status
	if status == "" {
		status = StatusActive
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	enrolledOn := params.EnrolledOn
	if enrolledOn.IsZero() {
		enrolledOn = timeutil.Today()
	}

	now := time.Now().UTC()

	return &Student{
		FirstName:  firstName,
		LastName:   lastName,
		Code:       params.Code,
		Email:      params.Email,
		Phone:      strings.TrimSpace(params.Phone),
		GradeLevel: params.GradeLevel,
		Class:      strings.TrimSpace(params.Class),
		Status:     status,
		EnrolledOn: enrolledOn,
		PhotoURL:   params.PhotoURL,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS
// ══════════════════════════════════════════════════════════════════════════════

// FullName возвращает полное имя студента.
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// SetStatus меняет статус студента. Любой переход допустим.
func (s *Student) SetStatus(status Status) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}
	s.Status = status
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// MatchesQuery проверяет, подходит ли студент под поисковый запрос.
// Поиск без учёта регистра по имени, фамилии, коду и email.
func (s *Student) MatchesQuery(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s.FirstName), q) ||
		strings.Contains(strings.ToLower(s.LastName), q) ||
		strings.Contains(strings.ToLower(string(s.Code)), q) ||
		strings.Contains(strings.ToLower(string(s.Email)), q)
}

// String возвращает строковое представление студента для логирования.
func (s *Student) String() string {
	return fmt.Sprintf(
		"Student{ID: %d, Code: %s, Name: %s, Class: %s, Status: %s}",
		s.ID, s.Code, s.FullName(), s.Class, s.Status,
	)
}

// Clone создаёт копию студента.
func (s *Student) Clone() *Student {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}

// ══════════════════════════════════════════════════════════════════════════════
// FILTER
// ══════════════════════════════════════════════════════════════════════════════

// FilterAll - литеральное значение фильтра "показать всё".
// Исторически UI передаёт строку "all" вместо пустого значения.
const FilterAll = "all"

// Filter задаёт фильтры ростера по классу, ступени и статусу.
// Пустое значение или FilterAll означает "не фильтровать".
type Filter struct {
	Class      string
	GradeLevel string
	Status     string
}

// matchAll проверяет, означает ли значение фильтра "показать всё".
func matchAll(v string) bool {
	return v == "" || v == FilterAll
}

// Matches проверяет, проходит ли студент фильтр.
func (f Filter) Matches(s *Student) bool {
	if !matchAll(f.Class) && s.Class != f.Class {
		return false
	}
	if !matchAll(f.GradeLevel) && string(s.GradeLevel) != f.GradeLevel {
		return false
	}
	if !matchAll(f.Status) && string(s.Status) != f.Status {
		return false
	}
	return true
}

// IsEmpty возвращает true, если фильтр ничего не ограничивает.
func (f Filter) IsEmpty() bool {
	return matchAll(f.Class) && matchAll(f.GradeLevel) && matchAll(f.Status)
}
