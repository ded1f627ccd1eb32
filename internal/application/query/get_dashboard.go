package query

import (
	"context"
	"log/slog"
	"time"

	"github.com/classtrack/classtrack-backend/internal/domain/reporting"
	"github.com/classtrack/classtrack-backend/internal/domain/roster"
	"github.com/classtrack/classtrack-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// DASHBOARD QUERY
// Панель управления: сводные показатели, топ-5 студентов и лента
// недавней активности. Результат кешируется; кеш сбрасывается
// событиями изменения оценок и посещаемости.
// ══════════════════════════════════════════════════════════════════════════════

// DashboardCacheKey - ключ кеша панели управления.
const DashboardCacheKey = "dashboard"

// ReportCache кеширует собранные отчётные представления.
// Промах кеша не является ошибкой запроса: представление пересобирается.
type ReportCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// NopCache - заглушка кеша для окружений без Redis.
type NopCache struct{}

func (NopCache) Get(ctx context.Context, key string, dest any) (bool, error) { return false, nil }
func (NopCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return nil
}
func (NopCache) Invalidate(ctx context.Context, keys ...string) error { return nil }

// DashboardView - полное представление панели управления.
type DashboardView struct {
	Stats       reporting.DashboardStats  `json:"stats"`
	TopStudents []reporting.RankedStudent `json:"top_students"`
	Activity    []reporting.ActivityEntry `json:"activity"`
	GeneratedAt time.Time                 `json:"generated_at"`
}

// GetDashboardHandler обрабатывает запрос панели управления.
type GetDashboardHandler struct {
	loader *SnapshotLoader
	cache  ReportCache
	ttl    time.Duration
	logger *slog.Logger
}

// NewGetDashboardHandler создаёт новый обработчик панели управления.
func NewGetDashboardHandler(loader *SnapshotLoader, cache ReportCache, ttl time.Duration, logger *slog.Logger) *GetDashboardHandler {
	if cache == nil {
		cache = NopCache{}
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &GetDashboardHandler{loader: loader, cache: cache, ttl: ttl, logger: logger}
}

// Handle возвращает представление панели управления, из кеша или
// собранное заново.
func (h *GetDashboardHandler) Handle(ctx context.Context) (*DashboardView, error) {
	var cached DashboardView
	hit, err := h.cache.Get(ctx, DashboardCacheKey, &cached)
	if err != nil {
		// Деградация кеша не роняет панель.
		h.logger.Warn("dashboard cache read failed", slog.String("error", err.Error()))
	}
	if hit {
		return &cached, nil
	}

	snap, err := h.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	view := &DashboardView{
		Stats:       snap.Dashboard(),
		TopStudents: snap.Leaderboard(roster.Filter{}, timeutil.OpenWindow(), reporting.DashboardLeaderboardSize),
		Activity:    snap.RecentActivity(),
		GeneratedAt: time.Now().UTC(),
	}

	if err := h.cache.Set(ctx, DashboardCacheKey, view, h.ttl); err != nil {
		h.logger.Warn("dashboard cache write failed", slog.String("error", err.Error()))
	}

	return view, nil
}
