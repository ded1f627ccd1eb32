package command

import (
	"context"
	"errors"
	"log/slog"

	"github.com/classtrack/classtrack-backend/internal/domain/attendance"
	"github.com/classtrack/classtrack-backend/internal/domain/roster"
	"github.com/classtrack/classtrack-backend/internal/domain/shared"
	"github.com/classtrack/classtrack-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// CYCLE ATTENDANCE COMMAND
// Один клик по ячейке (студент, день) переводит статус по циклу:
// нет отметки → present → absent → late → excused → present → ...
// Запись создаётся при первом клике и далее переиспользуется.
// ══════════════════════════════════════════════════════════════════════════════

// CycleAttendanceCommand определяет ячейку, чей статус нужно продвинуть.
type CycleAttendanceCommand struct {
	StudentID int
	Date      string // ISO YYYY-MM-DD, пустая строка = сегодня
}

// CycleAttendanceHandler обрабатывает циклическое переключение посещаемости.
type CycleAttendanceHandler struct {
	records   attendance.Repository
	students  roster.Repository
	publisher shared.EventPublisher
	logger    *slog.Logger
}

// NewCycleAttendanceHandler создаёт новый обработчик переключения.
func NewCycleAttendanceHandler(records attendance.Repository, students roster.Repository, publisher shared.EventPublisher, logger *slog.Logger) *CycleAttendanceHandler {
	if publisher == nil {
		publisher = shared.NopPublisher{}
	}
	return &CycleAttendanceHandler{
		records:   records,
		students:  students,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle продвигает статус посещаемости на следующий по циклу и
// возвращает запись с новым статусом.
func (h *CycleAttendanceHandler) Handle(ctx context.Context, cmd CycleAttendanceCommand) (*attendance.Record, error) {
	studentID := roster.StudentID(cmd.StudentID)
	if !studentID.IsValid() {
		return nil, shared.WrapError("attendance", "Cycle", shared.ErrInvalidID, "invalid student id", roster.ErrInvalidStudentID)
	}

	if _, err := h.students.GetByID(ctx, studentID); err != nil {
		return nil, shared.WrapError("attendance", "Cycle", shared.ErrNotFound, "student not found", err)
	}

	day := timeutil.Today()
	if cmd.Date != "" {
		parsed, err := timeutil.ParseDay(cmd.Date)
		if err != nil {
			return nil, shared.WrapError("attendance", "Cycle", shared.ErrInvalidFormat, "invalid date", err)
		}
		day = parsed
	}

	// Отсутствие записи — легитимное начальное состояние: пустой
	// текущий статус продвигается в present.
	var current attendance.Status
	existing, err := h.records.FindByStudentAndDay(ctx, studentID, day)
	switch {
	case err == nil:
		current = existing.Status
	case errors.Is(err, attendance.ErrRecordNotFound):
		current = ""
	default:
		return nil, shared.WrapError("attendance", "Cycle", shared.ErrExternalService, "failed to look up record", err)
	}

	next := attendance.NextStatus(current)

	record, err := h.records.Upsert(ctx, studentID, day, next, "")
	if err != nil {
		return nil, shared.WrapError("attendance", "Cycle", shared.ErrExternalService, "failed to save record", err)
	}

	h.publisher.Publish(attendance.NewAttendanceMarkedEvent(record))
	h.logger.Info("attendance cycled",
		slog.Int("student_id", studentID.Int()),
		slog.String("day", day.String()),
		slog.String("from", string(current)),
		slog.String("to", string(next)),
	)

	return record, nil
}
