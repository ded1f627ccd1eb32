package query

import (
	"context"
	"log/slog"

	"github.com/classtrack/classtrack-backend/internal/domain/reporting"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECENT ACTIVITY QUERY
// ══════════════════════════════════════════════════════════════════════════════

// GetRecentActivityHandler обрабатывает запрос ленты недавней активности.
type GetRecentActivityHandler struct {
	loader *SnapshotLoader
	logger *slog.Logger
}

// NewGetRecentActivityHandler создаёт новый обработчик ленты активности.
func NewGetRecentActivityHandler(loader *SnapshotLoader, logger *slog.Logger) *GetRecentActivityHandler {
	return &GetRecentActivityHandler{loader: loader, logger: logger}
}

// Handle возвращает ленту недавних оценок и отметок посещаемости.
func (h *GetRecentActivityHandler) Handle(ctx context.Context) ([]reporting.ActivityEntry, error) {
	snap, err := h.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.RecentActivity(), nil
}
