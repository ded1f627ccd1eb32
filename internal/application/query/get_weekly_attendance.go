package query

import (
	"context"
	"log/slog"

	"github.com/classtrack/classtrack-backend/internal/domain/reporting"
	"github.com/classtrack/classtrack-backend/internal/domain/shared"
	"github.com/classtrack/classtrack-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// WEEKLY ATTENDANCE QUERY
// Недельная таблица посещаемости: пять учебных дней недели якорной
// даты, строка на каждого активного студента.
// ══════════════════════════════════════════════════════════════════════════════

// GetWeeklyAttendanceQuery - параметры недельной сводки.
type GetWeeklyAttendanceQuery struct {
	// Anchor - любая дата внутри интересующей недели в формате
	// ISO YYYY-MM-DD. Пустая строка означает текущую неделю.
	Anchor string
}

// GetWeeklyAttendanceHandler обрабатывает запрос недельной сводки.
type GetWeeklyAttendanceHandler struct {
	loader *SnapshotLoader
	logger *slog.Logger
}

// NewGetWeeklyAttendanceHandler создаёт новый обработчик недельной сводки.
func NewGetWeeklyAttendanceHandler(loader *SnapshotLoader, logger *slog.Logger) *GetWeeklyAttendanceHandler {
	return &GetWeeklyAttendanceHandler{loader: loader, logger: logger}
}

// Handle собирает недельную сводку посещаемости.
func (h *GetWeeklyAttendanceHandler) Handle(ctx context.Context, q GetWeeklyAttendanceQuery) (*reporting.WeekRollup, error) {
	anchor := timeutil.Today()
	if q.Anchor != "" {
		parsed, err := timeutil.ParseDay(q.Anchor)
		if err != nil {
			return nil, shared.WrapError("reporting", "WeeklyAttendance", shared.ErrInvalidFormat, "invalid anchor date", err)
		}
		anchor = parsed
	}

	snap, err := h.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	rollup := snap.RollupWeek(anchor)
	h.logger.Debug("weekly attendance built",
		slog.String("week_start", rollup.Week[0].String()),
		slog.Int("students", len(rollup.Students)),
	)
	return &rollup, nil
}
