package query

import (
	"context"

	"github.com/classtrack/classtrack-backend/internal/domain/attendance"
	"github.com/classtrack/classtrack-backend/internal/domain/department"
	"github.com/classtrack/classtrack-backend/internal/domain/gradebook"
	"github.com/classtrack/classtrack-backend/internal/domain/roster"
	"github.com/classtrack/classtrack-backend/internal/domain/shared"
	"github.com/classtrack/classtrack-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST QUERIES
// Плоские списки для табличных экранов. Фильтрация по ростеру
// выполняется в домене, поиск - в репозитории.
// ══════════════════════════════════════════════════════════════════════════════

// ListStudentsQuery - параметры списка студентов.
type ListStudentsQuery struct {
	Class      string
	GradeLevel string
	Status     string

	// Search - подстрока для поиска по имени, коду и email.
	// Непустой поиск игнорирует фильтры.
	Search string
}

// ListStudentsHandler обрабатывает запрос списка студентов.
type ListStudentsHandler struct {
	students roster.Repository
}

// NewListStudentsHandler создаёт новый обработчик списка студентов.
func NewListStudentsHandler(students roster.Repository) *ListStudentsHandler {
	return &ListStudentsHandler{students: students}
}

// Handle возвращает список студентов по фильтру или поисковой строке.
func (h *ListStudentsHandler) Handle(ctx context.Context, q ListStudentsQuery) ([]*roster.Student, error) {
	if q.Search != "" {
		students, err := h.students.Search(ctx, q.Search)
		if err != nil {
			return nil, shared.WrapError("roster", "Search", shared.ErrExternalService, "failed to search students", err)
		}
		return students, nil
	}

	students, err := h.students.List(ctx)
	if err != nil {
		return nil, shared.WrapError("roster", "List", shared.ErrExternalService, "failed to list students", err)
	}

	filter := roster.Filter{Class: q.Class, GradeLevel: q.GradeLevel, Status: q.Status}
	if filter.IsEmpty() {
		return students, nil
	}
	filtered := make([]*roster.Student, 0, len(students))
	for _, st := range students {
		if filter.Matches(st) {
			filtered = append(filtered, st)
		}
	}
	return filtered, nil
}

// ListGradesQuery - параметры списка оценок.
type ListGradesQuery struct {
	// StudentID > 0 ограничивает список одним студентом.
	StudentID int

	// Subject - непустое значение ограничивает список предметом.
	Subject string
}

// ListGradesHandler обрабатывает запрос списка оценок.
type ListGradesHandler struct {
	grades gradebook.Repository
}

// NewListGradesHandler создаёт новый обработчик списка оценок.
func NewListGradesHandler(grades gradebook.Repository) *ListGradesHandler {
	return &ListGradesHandler{grades: grades}
}

// Handle возвращает список оценок, опционально по студенту или предмету.
func (h *ListGradesHandler) Handle(ctx context.Context, q ListGradesQuery) ([]*gradebook.Grade, error) {
	var (
		grades []*gradebook.Grade
		err    error
	)
	switch {
	case q.StudentID > 0:
		grades, err = h.grades.ListByStudent(ctx, roster.StudentID(q.StudentID))
	case q.Subject != "" && q.Subject != roster.FilterAll:
		grades, err = h.grades.ListBySubject(ctx, gradebook.Subject(q.Subject))
	default:
		grades, err = h.grades.List(ctx)
	}
	if err != nil {
		return nil, shared.WrapError("gradebook", "List", shared.ErrExternalService, "failed to list grades", err)
	}
	return grades, nil
}

// ListAttendanceQuery - параметры списка посещаемости.
type ListAttendanceQuery struct {
	// StudentID > 0 ограничивает список одним студентом.
	StudentID int

	// Date - непустая дата ISO ограничивает список одним днём.
	Date string
}

// ListAttendanceHandler обрабатывает запрос списка посещаемости.
type ListAttendanceHandler struct {
	records attendance.Repository
}

// NewListAttendanceHandler создаёт новый обработчик списка посещаемости.
func NewListAttendanceHandler(records attendance.Repository) *ListAttendanceHandler {
	return &ListAttendanceHandler{records: records}
}

// Handle возвращает записи посещаемости, опционально по студенту или дню.
func (h *ListAttendanceHandler) Handle(ctx context.Context, q ListAttendanceQuery) ([]*attendance.Record, error) {
	var (
		records []*attendance.Record
		err     error
	)
	switch {
	case q.StudentID > 0:
		records, err = h.records.ListByStudent(ctx, roster.StudentID(q.StudentID))
	case q.Date != "":
		var day timeutil.Day
		day, err = timeutil.ParseDay(q.Date)
		if err != nil {
			return nil, shared.WrapError("attendance", "List", shared.ErrInvalidFormat, "invalid date", err)
		}
		records, err = h.records.ListByDay(ctx, day)
	default:
		records, err = h.records.List(ctx)
	}
	if err != nil {
		return nil, shared.WrapError("attendance", "List", shared.ErrExternalService, "failed to list records", err)
	}
	return records, nil
}

// ListDepartmentsQuery - параметры списка кафедр.
type ListDepartmentsQuery struct {
	// Search - подстрока для поиска по названию и расположению.
	Search string
}

// ListDepartmentsHandler обрабатывает запрос списка кафедр.
type ListDepartmentsHandler struct {
	departments department.Repository
}

// NewListDepartmentsHandler создаёт новый обработчик списка кафедр.
func NewListDepartmentsHandler(departments department.Repository) *ListDepartmentsHandler {
	return &ListDepartmentsHandler{departments: departments}
}

// Handle возвращает список кафедр, опционально по поисковой строке.
func (h *ListDepartmentsHandler) Handle(ctx context.Context, q ListDepartmentsQuery) ([]*department.Department, error) {
	if q.Search != "" {
		departments, err := h.departments.Search(ctx, q.Search)
		if err != nil {
			return nil, shared.WrapError("department", "Search", shared.ErrExternalService, "failed to search departments", err)
		}
		return departments, nil
	}
	departments, err := h.departments.List(ctx)
	if err != nil {
		return nil, shared.WrapError("department", "List", shared.ErrExternalService, "failed to list departments", err)
	}
	return departments, nil
}
