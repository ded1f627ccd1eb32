// Package jobs implements the background jobs run by the worker:
// rebuilding cached report views and detecting at-risk students.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/classtrack/classtrack-backend/internal/application/query"
	"github.com/classtrack/classtrack-backend/internal/domain/reporting"
	"github.com/classtrack/classtrack-backend/internal/domain/roster"
	"github.com/classtrack/classtrack-backend/internal/domain/shared"
	"github.com/classtrack/classtrack-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// REBUILD REPORTS JOB
// ══════════════════════════════════════════════════════════════════════════════

// RebuildReportsJob rebuilds the cached dashboard view so the first
// request after an invalidation doesn't pay the full aggregation cost.
type RebuildReportsJob struct {
	loader    *query.SnapshotLoader
	cache     query.ReportCache
	ttl       time.Duration
	publisher shared.EventPublisher
	logger    *slog.Logger
}

// NewRebuildReportsJob creates a new RebuildReportsJob.
func NewRebuildReportsJob(loader *query.SnapshotLoader, cache query.ReportCache, ttl time.Duration, publisher shared.EventPublisher, logger *slog.Logger) *RebuildReportsJob {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if publisher == nil {
		publisher = shared.NopPublisher{}
	}
	return &RebuildReportsJob{
		loader:    loader,
		cache:     cache,
		ttl:       ttl,
		publisher: publisher,
		logger:    logger,
	}
}

// Name returns the job name.
func (j *RebuildReportsJob) Name() string {
	return "rebuild_reports"
}

// Description returns the job description.
func (j *RebuildReportsJob) Description() string {
	return "Rebuilds and caches the dashboard view"
}

// Run rebuilds the dashboard view and writes it to the cache.
func (j *RebuildReportsJob) Run(ctx context.Context) error {
	snap, err := j.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	view := &query.DashboardView{
		Stats:       snap.Dashboard(),
		TopStudents: snap.Leaderboard(roster.Filter{}, timeutil.OpenWindow(), reporting.DashboardLeaderboardSize),
		Activity:    snap.RecentActivity(),
		GeneratedAt: time.Now().UTC(),
	}

	if err := j.cache.Set(ctx, query.DashboardCacheKey, view, j.ttl); err != nil {
		return fmt.Errorf("cache dashboard view: %w", err)
	}

	j.publisher.Publish(reporting.NewReportsRebuiltEvent(view.Stats.TotalStudents, view.Stats.AtRiskCount))

	j.logger.Info("dashboard view rebuilt",
		slog.Int("students", view.Stats.TotalStudents),
		slog.Int("at_risk", view.Stats.AtRiskCount),
	)
	return nil
}
