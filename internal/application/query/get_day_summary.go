package query

import (
	"context"
	"log/slog"

	"github.com/classtrack/classtrack-backend/internal/domain/reporting"
	"github.com/classtrack/classtrack-backend/internal/domain/shared"
	"github.com/classtrack/classtrack-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// DAY SUMMARY QUERY
// ══════════════════════════════════════════════════════════════════════════════

// GetDaySummaryQuery - параметры дневной сводки посещаемости.
type GetDaySummaryQuery struct {
	// Date - день в формате ISO YYYY-MM-DD, пустая строка = сегодня.
	Date string
}

// GetDaySummaryHandler обрабатывает запрос дневной сводки.
type GetDaySummaryHandler struct {
	loader *SnapshotLoader
	logger *slog.Logger
}

// NewGetDaySummaryHandler создаёт новый обработчик дневной сводки.
func NewGetDaySummaryHandler(loader *SnapshotLoader, logger *slog.Logger) *GetDaySummaryHandler {
	return &GetDaySummaryHandler{loader: loader, logger: logger}
}

// Handle подсчитывает отметки по статусам за указанный день.
func (h *GetDaySummaryHandler) Handle(ctx context.Context, q GetDaySummaryQuery) (*reporting.DaySummary, error) {
	day := timeutil.Today()
	if q.Date != "" {
		parsed, err := timeutil.ParseDay(q.Date)
		if err != nil {
			return nil, shared.WrapError("reporting", "DaySummary", shared.ErrInvalidFormat, "invalid date", err)
		}
		day = parsed
	}

	snap, err := h.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	summary := snap.SummarizeDay(day)
	return &summary, nil
}
