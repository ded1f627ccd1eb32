package command

import (
	"context"
	"log/slog"
	"strings"

	"github.com/classtrack/classtrack-backend/internal/domain/roster"
	"github.com/classtrack/classtrack-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE STUDENT COMMAND
// Частичное обновление данных студента. Идентификатор неизменяем;
// переходы статуса не ограничены.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateStudentCommand содержит изменяемые поля студента.
// Nil-указатель означает "поле не менять".
type UpdateStudentCommand struct {
	StudentID  int
	FirstName  *string
	LastName   *string
	Code       *string
	Email      *string
	Phone      *string
	GradeLevel *string
	Class      *string
	Status     *string
	PhotoURL   *string
}

// UpdateStudentHandler обрабатывает обновление студентов.
type UpdateStudentHandler struct {
	students  roster.Repository
	publisher shared.EventPublisher
	logger    *slog.Logger
}

// NewUpdateStudentHandler создаёт новый обработчик обновления.
func NewUpdateStudentHandler(students roster.Repository, publisher shared.EventPublisher, logger *slog.Logger) *UpdateStudentHandler {
	if publisher == nil {
		publisher = shared.NopPublisher{}
	}
	return &UpdateStudentHandler{
		students:  students,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle выполняет обновление студента.
func (h *UpdateStudentHandler) Handle(ctx context.Context, cmd UpdateStudentCommand) (*roster.Student, error) {
	id := roster.StudentID(cmd.StudentID)
	if !id.IsValid() {
		return nil, shared.WrapError("roster", "Update", shared.ErrInvalidID, "invalid student id", roster.ErrInvalidStudentID)
	}

	student, err := h.students.GetByID(ctx, id)
	if err != nil {
		return nil, shared.WrapError("roster", "Update", shared.ErrNotFound, "student not found", err)
	}

	if cmd.FirstName != nil {
		name := strings.TrimSpace(*cmd.FirstName)
		if len(name) == 0 || len(name) > 100 {
			return nil, shared.WrapError("roster", "Update", shared.ErrValidation, "invalid first name", roster.ErrInvalidName)
		}
		student.FirstName = name
	}
	if cmd.LastName != nil {
		name := strings.TrimSpace(*cmd.LastName)
		if len(name) == 0 || len(name) > 100 {
			return nil, shared.WrapError("roster", "Update", shared.ErrValidation, "invalid last name", roster.ErrInvalidName)
		}
		student.LastName = name
	}
	if cmd.Code != nil {
		code := roster.Code(*cmd.Code)
		if !code.IsValid() {
			return nil, shared.WrapError("roster", "Update", shared.ErrValidation, "invalid student code", roster.ErrInvalidCode)
		}
		student.Code = code
	}
	if cmd.Email != nil {
		email := roster.Email(*cmd.Email)
		if !email.IsValid() {
			return nil, shared.WrapError("roster", "Update", shared.ErrValidation, "invalid email", roster.ErrInvalidEmail)
		}
		student.Email = email
	}
	if cmd.Phone != nil {
		student.Phone = strings.TrimSpace(*cmd.Phone)
	}
	if cmd.GradeLevel != nil {
		level := roster.GradeLevel(*cmd.GradeLevel)
		if !level.IsValid() {
			return nil, shared.WrapError("roster", "Update", shared.ErrValidation, "invalid grade level", roster.ErrInvalidGradeLevel)
		}
		student.GradeLevel = level
	}
	if cmd.Class != nil {
		student.Class = strings.TrimSpace(*cmd.Class)
	}
	if cmd.Status != nil {
		if err := student.SetStatus(roster.Status(*cmd.Status)); err != nil {
			return nil, shared.WrapError("roster", "Update", shared.ErrValidation, "invalid status", err)
		}
	}
	if cmd.PhotoURL != nil {
		student.PhotoURL = *cmd.PhotoURL
	}

	updated, err := h.students.Update(ctx, student)
	if err != nil {
		return nil, shared.WrapError("roster", "Update", shared.ErrExternalService, "failed to update student", err)
	}

	h.publisher.Publish(roster.NewStudentUpdatedEvent(updated))
	h.logger.Info("student updated", slog.Int("student_id", updated.ID.Int()))

	return updated, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// REMOVE STUDENT COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// RemoveStudentCommand содержит идентификатор удаляемого студента.
type RemoveStudentCommand struct {
	StudentID int
}

// RemoveStudentHandler обрабатывает удаление студентов из ростера.
type RemoveStudentHandler struct {
	students  roster.Repository
	publisher shared.EventPublisher
	logger    *slog.Logger
}

// NewRemoveStudentHandler создаёт новый обработчик удаления.
func NewRemoveStudentHandler(students roster.Repository, publisher shared.EventPublisher, logger *slog.Logger) *RemoveStudentHandler {
	if publisher == nil {
		publisher = shared.NopPublisher{}
	}
	return &RemoveStudentHandler{
		students:  students,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle выполняет удаление студента.
func (h *RemoveStudentHandler) Handle(ctx context.Context, cmd RemoveStudentCommand) error {
	id := roster.StudentID(cmd.StudentID)
	if !id.IsValid() {
		return shared.WrapError("roster", "Remove", shared.ErrInvalidID, "invalid student id", roster.ErrInvalidStudentID)
	}

	if err := h.students.Delete(ctx, id); err != nil {
		return shared.WrapError("roster", "Remove", shared.ErrNotFound, "failed to delete student", err)
	}

	h.publisher.Publish(roster.NewStudentRemovedEvent(id))
	h.logger.Info("student removed", slog.Int("student_id", id.Int()))
	return nil
}
