package command

import (
	"context"
	"log/slog"

	"github.com/classtrack/classtrack-backend/internal/domain/gradebook"
	"github.com/classtrack/classtrack-backend/internal/domain/roster"
	"github.com/classtrack/classtrack-backend/internal/domain/shared"
	"github.com/classtrack/classtrack-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD GRADE COMMAND
// Добавление оценки: производные поля (процент, буквенная оценка)
// вычисляются доменом, клиент их не передаёт.
// ══════════════════════════════════════════════════════════════════════════════

// RecordGradeCommand содержит данные новой оценки.
type RecordGradeCommand struct {
	StudentID int
	Subject   string
	Semester  string
	Score     float64
	MaxScore  float64
	Date      string // ISO YYYY-MM-DD, пустая строка = сегодня
}

// RecordGradeHandler обрабатывает добавление оценок.
type RecordGradeHandler struct {
	grades    gradebook.Repository
	students  roster.Repository
	publisher shared.EventPublisher
	logger    *slog.Logger
}

// NewRecordGradeHandler создаёт новый обработчик добавления оценок.
func NewRecordGradeHandler(grades gradebook.Repository, students roster.Repository, publisher shared.EventPublisher, logger *slog.Logger) *RecordGradeHandler {
	if publisher == nil {
		publisher = shared.NopPublisher{}
	}
	return &RecordGradeHandler{
		grades:    grades,
		students:  students,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle выполняет добавление оценки.
func (h *RecordGradeHandler) Handle(ctx context.Context, cmd RecordGradeCommand) (*gradebook.Grade, error) {
	studentID := roster.StudentID(cmd.StudentID)
	if !studentID.IsValid() {
		return nil, shared.WrapError("gradebook", "Record", shared.ErrInvalidID, "invalid student id", roster.ErrInvalidStudentID)
	}

	// Оценка ссылается на существующего студента.
	if _, err := h.students.GetByID(ctx, studentID); err != nil {
		return nil, shared.WrapError("gradebook", "Record", shared.ErrNotFound, "student not found", err)
	}

	var day timeutil.Day
	if cmd.Date != "" {
		parsed, err := timeutil.ParseDay(cmd.Date)
		if err != nil {
			return nil, shared.WrapError("gradebook", "Record", shared.ErrInvalidFormat, "invalid date", err)
		}
		day = parsed
	}

	grade, err := gradebook.NewGrade(gradebook.NewGradeParams{
		StudentID: studentID,
		Subject:   gradebook.Subject(cmd.Subject),
		Semester:  cmd.Semester,
		Score:     cmd.Score,
		MaxScore:  cmd.MaxScore,
		Date:      day,
	})
	if err != nil {
		return nil, shared.WrapError("gradebook", "Record", shared.ErrValidation, "invalid grade", err)
	}

	created, err := h.grades.Create(ctx, grade)
	if err != nil {
		return nil, shared.WrapError("gradebook", "Record", shared.ErrExternalService, "failed to create grade", err)
	}

	h.publisher.Publish(gradebook.NewGradeRecordedEvent(created))
	h.logger.Info("grade recorded",
		slog.Int("grade_id", created.ID.Int()),
		slog.Int("student_id", created.StudentID.Int()),
		slog.String("subject", string(created.Subject)),
		slog.Float64("percentage", created.Percentage),
		slog.String("letter", string(created.Letter)),
	)

	return created, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// REVISE GRADE COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// ReviseGradeCommand содержит изменяемые поля существующей оценки.
// Nil-указатель означает "поле не менять".
type ReviseGradeCommand struct {
	GradeID  int
	Subject  *string
	Semester *string
	Score    *float64
	MaxScore *float64
	Date     *string
}

// ReviseGradeHandler обрабатывает пересмотр оценок.
type ReviseGradeHandler struct {
	grades    gradebook.Repository
	publisher shared.EventPublisher
	logger    *slog.Logger
}

// NewReviseGradeHandler создаёт новый обработчик пересмотра оценок.
func NewReviseGradeHandler(grades gradebook.Repository, publisher shared.EventPublisher, logger *slog.Logger) *ReviseGradeHandler {
	if publisher == nil {
		publisher = shared.NopPublisher{}
	}
	return &ReviseGradeHandler{
		grades:    grades,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle выполняет пересмотр оценки. При изменении балла или максимума
// процент и буквенная оценка пересчитываются заново.
func (h *ReviseGradeHandler) Handle(ctx context.Context, cmd ReviseGradeCommand) (*gradebook.Grade, error) {
	id := gradebook.GradeID(cmd.GradeID)
	if !id.IsValid() {
		return nil, shared.WrapError("gradebook", "Revise", shared.ErrInvalidID, "invalid grade id", gradebook.ErrInvalidGradeID)
	}

	grade, err := h.grades.GetByID(ctx, id)
	if err != nil {
		return nil, shared.WrapError("gradebook", "Revise", shared.ErrNotFound, "grade not found", err)
	}
	oldPercentage := grade.Percentage

	if cmd.Subject != nil {
		subject := gradebook.Subject(*cmd.Subject)
		if !subject.IsValid() {
			return nil, shared.WrapError("gradebook", "Revise", shared.ErrValidation, "invalid subject", gradebook.ErrInvalidSubject)
		}
		grade.Subject = subject
	}
	if cmd.Semester != nil {
		grade.Semester = *cmd.Semester
	}
	if cmd.Date != nil {
		day, err := timeutil.ParseDay(*cmd.Date)
		if err != nil {
			return nil, shared.WrapError("gradebook", "Revise", shared.ErrInvalidFormat, "invalid date", err)
		}
		grade.Date = day
	}
	if cmd.Score != nil || cmd.MaxScore != nil {
		score := grade.Score
		maxScore := grade.MaxScore
		if cmd.Score != nil {
			score = *cmd.Score
		}
		if cmd.MaxScore != nil {
			maxScore = *cmd.MaxScore
		}
		if err := grade.Rescore(score, maxScore); err != nil {
			return nil, shared.WrapError("gradebook", "Revise", shared.ErrValidation, "invalid score", err)
		}
	}

	updated, err := h.grades.Update(ctx, grade)
	if err != nil {
		return nil, shared.WrapError("gradebook", "Revise", shared.ErrExternalService, "failed to update grade", err)
	}

	h.publisher.Publish(gradebook.NewGradeRevisedEvent(updated, oldPercentage))
	h.logger.Info("grade revised",
		slog.Int("grade_id", updated.ID.Int()),
		slog.Float64("old_percentage", oldPercentage),
		slog.Float64("new_percentage", updated.Percentage),
	)

	return updated, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DELETE GRADE COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// DeleteGradeCommand содержит идентификатор удаляемой оценки.
type DeleteGradeCommand struct {
	GradeID int
}

// DeleteGradeHandler обрабатывает удаление оценок.
type DeleteGradeHandler struct {
	grades    gradebook.Repository
	publisher shared.EventPublisher
	logger    *slog.Logger
}

// NewDeleteGradeHandler создаёт новый обработчик удаления оценок.
func NewDeleteGradeHandler(grades gradebook.Repository, publisher shared.EventPublisher, logger *slog.Logger) *DeleteGradeHandler {
	if publisher == nil {
		publisher = shared.NopPublisher{}
	}
	return &DeleteGradeHandler{
		grades:    grades,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle выполняет удаление оценки.
func (h *DeleteGradeHandler) Handle(ctx context.Context, cmd DeleteGradeCommand) error {
	id := gradebook.GradeID(cmd.GradeID)
	if !id.IsValid() {
		return shared.WrapError("gradebook", "Delete", shared.ErrInvalidID, "invalid grade id", gradebook.ErrInvalidGradeID)
	}

	grade, err := h.grades.GetByID(ctx, id)
	if err != nil {
		return shared.WrapError("gradebook", "Delete", shared.ErrNotFound, "grade not found", err)
	}

	if err := h.grades.Delete(ctx, id); err != nil {
		return shared.WrapError("gradebook", "Delete", shared.ErrExternalService, "failed to delete grade", err)
	}

	h.publisher.Publish(gradebook.NewGradeDeletedEvent(grade.ID, grade.StudentID))
	h.logger.Info("grade deleted", slog.Int("grade_id", id.Int()))
	return nil
}
