package gradebook

import (
	"github.com/classtrack/classtrack-backend/internal/domain/roster"
	"github.com/classtrack/classtrack-backend/internal/domain/shared"
)

// GradeRecordedEvent создаётся при выставлении новой оценки.
type GradeRecordedEvent struct {
	shared.BaseEvent
	GradeID    GradeID          `json:"grade_id"`
	StudentID  roster.StudentID `json:"student_id"`
	Subject    Subject          `json:"subject"`
	Percentage float64          `json:"percentage"`
	Letter     Letter           `json:"letter"`
}

// NewGradeRecordedEvent создаёт событие выставления оценки.
func NewGradeRecordedEvent(g *Grade) GradeRecordedEvent {
	return GradeRecordedEvent{
		BaseEvent:  shared.NewBaseEvent(shared.EventGradeRecorded, g.StudentID.String()),
		GradeID:    g.ID,
		StudentID:  g.StudentID,
		Subject:    g.Subject,
		Percentage: g.Percentage,
		Letter:     g.Letter,
	}
}

// GradeRevisedEvent создаётся при изменении существующей оценки.
type GradeRevisedEvent struct {
	shared.BaseEvent
	GradeID       GradeID          `json:"grade_id"`
	StudentID     roster.StudentID `json:"student_id"`
	OldPercentage float64          `json:"old_percentage"`
	NewPercentage float64          `json:"new_percentage"`
	Letter        Letter           `json:"letter"`
}

// NewGradeRevisedEvent создаёт событие изменения оценки.
func NewGradeRevisedEvent(g *Grade, oldPercentage float64) GradeRevisedEvent {
	return GradeRevisedEvent{
		BaseEvent:     shared.NewBaseEvent(shared.EventGradeRevised, g.StudentID.String()),
		GradeID:       g.ID,
		StudentID:     g.StudentID,
		OldPercentage: oldPercentage,
		NewPercentage: g.Percentage,
		Letter:        g.Letter,
	}
}

// GradeDeletedEvent создаётся при удалении оценки.
type GradeDeletedEvent struct {
	shared.BaseEvent
	GradeID GradeID `json:"grade_id"`
}

// NewGradeDeletedEvent создаёт событие удаления оценки.
func NewGradeDeletedEvent(id GradeID, studentID roster.StudentID) GradeDeletedEvent {
	return GradeDeletedEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventGradeDeleted, studentID.String()),
		GradeID:   id,
	}
}
