// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"log/slog"

	"github.com/classtrack/classtrack-backend/internal/domain/roster"
	"github.com/classtrack/classtrack-backend/internal/domain/shared"
	"github.com/classtrack/classtrack-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENROLL STUDENT COMMAND
// Зачисление нового студента в ростер. Все дефолты опциональных полей
// применяются в единственной точке конструирования - roster.NewStudent.
// ══════════════════════════════════════════════════════════════════════════════

// EnrollStudentCommand содержит данные для зачисления студента.
type EnrollStudentCommand struct {
	FirstName  string
	LastName   string
	Code       string
	Email      string
	Phone      string
	GradeLevel string
	Class      string
	Status     string // пустое значение = active
	EnrolledOn string // ISO-день, пустое значение = сегодня
	PhotoURL   string
}

// EnrollStudentHandler обрабатывает зачисление студентов.
type EnrollStudentHandler struct {
	students  roster.Repository
	publisher shared.EventPublisher
	logger    *slog.Logger
}

// NewEnrollStudentHandler создаёт новый обработчик зачисления.
func NewEnrollStudentHandler(students roster.Repository, publisher shared.EventPublisher, logger *slog.Logger) *EnrollStudentHandler {
	if publisher == nil {
		publisher = shared.NopPublisher{}
	}
	return &EnrollStudentHandler{
		students:  students,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle выполняет зачисление студента.
func (h *EnrollStudentHandler) Handle(ctx context.Context, cmd EnrollStudentCommand) (*roster.Student, error) {
	var enrolledOn timeutil.Day
	if cmd.EnrolledOn != "" {
		parsed, err := timeutil.ParseDay(cmd.EnrolledOn)
		if err != nil {
			return nil, shared.WrapError("roster", "Enroll", shared.ErrInvalidFormat, "invalid enrollment date", err)
		}
		enrolledOn = parsed
	}

	student, err := roster.NewStudent(roster.NewStudentParams{
		FirstName:  cmd.FirstName,
		LastName:   cmd.LastName,
		Code:       roster.Code(cmd.Code),
		Email:      roster.Email(cmd.Email),
		Phone:      cmd.Phone,
		GradeLevel: roster.GradeLevel(cmd.GradeLevel),
		Class:      cmd.Class,
		Status:     roster.Status(cmd.Status),
		EnrolledOn: enrolledOn,
		PhotoURL:   cmd.PhotoURL,
	})
	if err != nil {
		return nil, shared.WrapError("roster", "Enroll", shared.ErrValidation, "invalid student data", err)
	}

	created, err := h.students.Create(ctx, student)
	if err != nil {
		return nil, shared.WrapError("roster", "Enroll", shared.ErrExternalService, "failed to create student", err)
	}

	h.publisher.Publish(roster.NewStudentEnrolledEvent(created))
	h.logger.Info("student enrolled",
		slog.Int("student_id", created.ID.Int()),
		slog.String("code", string(created.Code)),
		slog.String("class", created.Class),
	)

	return created, nil
}
