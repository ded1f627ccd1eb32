// Package messaging implements the in-memory event bus for the school
// dashboard.
package messaging

import (
	"context"
	"log/slog"
	"time"

	"github.com/classtrack/classtrack-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPORT CACHE INVALIDATOR
// ══════════════════════════════════════════════════════════════════════════════

// ViewInvalidator drops cached report views. Satisfied by the Redis
// report cache.
type ViewInvalidator interface {
	Invalidate(ctx context.Context, keys ...string) error
}

// CacheInvalidator subscribes to write events and drops every cached
// report view: any roster, grade or attendance change can shift the
// aggregates, so partial invalidation is not worth the bookkeeping.
type CacheInvalidator struct {
	cache   ViewInvalidator
	logger  *slog.Logger
	timeout time.Duration
}

// NewCacheInvalidator creates a new CacheInvalidator.
func NewCacheInvalidator(cache ViewInvalidator, logger *slog.Logger) *CacheInvalidator {
	return &CacheInvalidator{
		cache:   cache,
		logger:  logger,
		timeout: 3 * time.Second,
	}
}

// InterestedIn returns the write events that can change report output.
func (i *CacheInvalidator) InterestedIn() []shared.EventType {
	return []shared.EventType{
		shared.EventStudentEnrolled,
		shared.EventStudentUpdated,
		shared.EventStudentRemoved,
		shared.EventGradeRecorded,
		shared.EventGradeRevised,
		shared.EventGradeDeleted,
		shared.EventAttendanceMarked,
	}
}

// Handle drops all cached report views.
func (i *CacheInvalidator) Handle(event shared.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), i.timeout)
	defer cancel()

	if err := i.cache.Invalidate(ctx); err != nil {
		return err
	}

	i.logger.Debug("report cache invalidated", "event_type", event.EventType())
	return nil
}
