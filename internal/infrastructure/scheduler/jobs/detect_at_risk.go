// Package jobs implements the background jobs run by the worker.
package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/classtrack/classtrack-backend/internal/application/query"
	"github.com/classtrack/classtrack-backend/internal/domain/reporting"
	"github.com/classtrack/classtrack-backend/internal/domain/roster"
	"github.com/classtrack/classtrack-backend/internal/domain/shared"
	"github.com/classtrack/classtrack-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// DETECT AT-RISK JOB
// ══════════════════════════════════════════════════════════════════════════════

// DetectAtRiskJob scans the roster for active students whose average
// has fallen below the at-risk threshold and publishes an event per
// student. Downstream handlers decide what to do with the signal.
type DetectAtRiskJob struct {
	loader    *query.SnapshotLoader
	publisher shared.EventPublisher
	logger    *slog.Logger
}

// NewDetectAtRiskJob creates a new DetectAtRiskJob.
func NewDetectAtRiskJob(loader *query.SnapshotLoader, publisher shared.EventPublisher, logger *slog.Logger) *DetectAtRiskJob {
	if publisher == nil {
		publisher = shared.NopPublisher{}
	}
	return &DetectAtRiskJob{
		loader:    loader,
		publisher: publisher,
		logger:    logger,
	}
}

// Name returns the job name.
func (j *DetectAtRiskJob) Name() string {
	return "detect_at_risk"
}

// Description returns the job description.
func (j *DetectAtRiskJob) Description() string {
	return "Flags active students whose grade average dropped below the risk threshold"
}

// Run scans for at-risk students.
func (j *DetectAtRiskJob) Run(ctx context.Context) error {
	snap, err := j.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	atRisk := snap.AtRisk(roster.Filter{}, timeutil.OpenWindow())
	for _, st := range atRisk {
		avg := snap.StudentAverage(st.ID, timeutil.OpenWindow())
		j.publisher.Publish(reporting.NewAtRiskDetectedEvent(st, avg.Value))
	}

	j.logger.Info("at-risk scan completed", slog.Int("flagged", len(atRisk)))
	return nil
}
