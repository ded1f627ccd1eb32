package command

import (
	"context"
	"log/slog"

	"github.com/classtrack/classtrack-backend/internal/domain/attendance"
	"github.com/classtrack/classtrack-backend/internal/domain/roster"
	"github.com/classtrack/classtrack-backend/internal/domain/shared"
	"github.com/classtrack/classtrack-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// MARK ATTENDANCE COMMAND
// Явная установка статуса для ячейки (студент, день), минуя цикл.
// Повторная отметка той же ячейки перезаписывает предыдущую.
// ══════════════════════════════════════════════════════════════════════════════

// MarkAttendanceCommand содержит явную отметку посещаемости.
type MarkAttendanceCommand struct {
	StudentID int
	Date      string // ISO YYYY-MM-DD, пустая строка = сегодня
	Status    string
	Notes     string
}

// MarkAttendanceHandler обрабатывает явные отметки посещаемости.
type MarkAttendanceHandler struct {
	records   attendance.Repository
	students  roster.Repository
	publisher shared.EventPublisher
	logger    *slog.Logger
}

// NewMarkAttendanceHandler создаёт новый обработчик отметок.
func NewMarkAttendanceHandler(records attendance.Repository, students roster.Repository, publisher shared.EventPublisher, logger *slog.Logger) *MarkAttendanceHandler {
	if publisher == nil {
		publisher = shared.NopPublisher{}
	}
	return &MarkAttendanceHandler{
		records:   records,
		students:  students,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle выполняет отметку посещаемости.
func (h *MarkAttendanceHandler) Handle(ctx context.Context, cmd MarkAttendanceCommand) (*attendance.Record, error) {
	studentID := roster.StudentID(cmd.StudentID)
	if !studentID.IsValid() {
		return nil, shared.WrapError("attendance", "Mark", shared.ErrInvalidID, "invalid student id", roster.ErrInvalidStudentID)
	}

	if _, err := h.students.GetByID(ctx, studentID); err != nil {
		return nil, shared.WrapError("attendance", "Mark", shared.ErrNotFound, "student not found", err)
	}

	status := attendance.Status(cmd.Status)
	if !status.IsValid() {
		return nil, shared.WrapError("attendance", "Mark", shared.ErrValidation, "invalid status", attendance.ErrInvalidStatus)
	}

	day := timeutil.Today()
	if cmd.Date != "" {
		parsed, err := timeutil.ParseDay(cmd.Date)
		if err != nil {
			return nil, shared.WrapError("attendance", "Mark", shared.ErrInvalidFormat, "invalid date", err)
		}
		day = parsed
	}

	record, err := h.records.Upsert(ctx, studentID, day, status, cmd.Notes)
	if err != nil {
		return nil, shared.WrapError("attendance", "Mark", shared.ErrExternalService, "failed to save record", err)
	}

	h.publisher.Publish(attendance.NewAttendanceMarkedEvent(record))
	h.logger.Info("attendance marked",
		slog.Int("student_id", studentID.Int()),
		slog.String("day", day.String()),
		slog.String("status", string(status)),
	)

	return record, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// CLEAR ATTENDANCE COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// ClearAttendanceCommand содержит идентификатор удаляемой записи.
type ClearAttendanceCommand struct {
	RecordID int
}

// ClearAttendanceHandler обрабатывает удаление записей посещаемости.
type ClearAttendanceHandler struct {
	records attendance.Repository
	logger  *slog.Logger
}

// NewClearAttendanceHandler создаёт новый обработчик удаления записей.
func NewClearAttendanceHandler(records attendance.Repository, logger *slog.Logger) *ClearAttendanceHandler {
	return &ClearAttendanceHandler{records: records, logger: logger}
}

// Handle удаляет запись посещаемости; ячейка возвращается в состояние
// "нет отметки".
func (h *ClearAttendanceHandler) Handle(ctx context.Context, cmd ClearAttendanceCommand) error {
	id := attendance.RecordID(cmd.RecordID)
	if !id.IsValid() {
		return shared.WrapError("attendance", "Clear", shared.ErrInvalidID, "invalid record id", attendance.ErrInvalidRecordID)
	}

	if err := h.records.Delete(ctx, id); err != nil {
		return shared.WrapError("attendance", "Clear", shared.ErrNotFound, "failed to delete record", err)
	}

	h.logger.Info("attendance cleared", slog.Int("record_id", id.Int()))
	return nil
}
