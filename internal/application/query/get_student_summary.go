package query

import (
	"context"
	"log/slog"

	"github.com/classtrack/classtrack-backend/internal/domain/attendance"
	"github.com/classtrack/classtrack-backend/internal/domain/gradebook"
	"github.com/classtrack/classtrack-backend/internal/domain/reporting"
	"github.com/classtrack/classtrack-backend/internal/domain/roster"
	"github.com/classtrack/classtrack-backend/internal/domain/shared"
	"github.com/classtrack/classtrack-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT SUMMARY QUERY
// Профиль студента: карточка, оценки, записи посещаемости и
// агрегированные показатели за всё время.
// ══════════════════════════════════════════════════════════════════════════════

// GetStudentSummaryQuery - параметры запроса профиля студента.
type GetStudentSummaryQuery struct {
	StudentID int
}

// StudentSummaryView - полное представление профиля студента.
type StudentSummaryView struct {
	Student        *roster.Student      `json:"student"`
	Grades         []*gradebook.Grade   `json:"grades"`
	Attendance     []*attendance.Record `json:"attendance"`
	Average        reporting.Average    `json:"average"`
	AttendanceRate int                  `json:"attendance_rate"`
	AtRisk         bool                 `json:"at_risk"`
}

// GetStudentSummaryHandler обрабатывает запрос профиля студента.
type GetStudentSummaryHandler struct {
	loader *SnapshotLoader
	logger *slog.Logger
}

// NewGetStudentSummaryHandler создаёт новый обработчик профиля.
func NewGetStudentSummaryHandler(loader *SnapshotLoader, logger *slog.Logger) *GetStudentSummaryHandler {
	return &GetStudentSummaryHandler{loader: loader, logger: logger}
}

// Handle собирает профиль студента.
func (h *GetStudentSummaryHandler) Handle(ctx context.Context, q GetStudentSummaryQuery) (*StudentSummaryView, error) {
	id := roster.StudentID(q.StudentID)
	if !id.IsValid() {
		return nil, shared.WrapError("reporting", "StudentSummary", shared.ErrInvalidID, "invalid student id", roster.ErrInvalidStudentID)
	}

	snap, err := h.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	var student *roster.Student
	for _, st := range snap.Students {
		if st.ID == id {
			student = st
			break
		}
	}
	if student == nil {
		return nil, shared.WrapError("reporting", "StudentSummary", shared.ErrNotFound, "student not found", roster.ErrStudentNotFound)
	}

	grades := make([]*gradebook.Grade, 0)
	for _, g := range snap.Grades {
		if g.StudentID == id {
			grades = append(grades, g)
		}
	}
	records := make([]*attendance.Record, 0)
	var earliest timeutil.Day
	for _, r := range snap.Attendance {
		if r.StudentID != id {
			continue
		}
		if len(records) == 0 || r.Day.Before(earliest) {
			earliest = r.Day
		}
		records = append(records, r)
	}

	open := timeutil.OpenWindow()
	view := &StudentSummaryView{
		Student:    student,
		Grades:     grades,
		Attendance: records,
		Average:    snap.StudentAverage(id, open),
		AtRisk:     snap.IsAtRisk(student, open),
	}
	if len(records) == 0 {
		view.AttendanceRate = 100
	} else {
		view.AttendanceRate = snap.AttendanceRate(id, earliest, timeutil.Today())
	}

	return view, nil
}
