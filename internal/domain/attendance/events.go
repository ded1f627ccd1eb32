package attendance

import (
	"github.com/classtrack/classtrack-backend/internal/domain/roster"
	"github.com/classtrack/classtrack-backend/internal/domain/shared"
	"github.com/classtrack/classtrack-backend/pkg/timeutil"
)

// AttendanceMarkedEvent создаётся при любой записи отметки посещаемости -
// как явной, так и через циклическое переключение.
type AttendanceMarkedEvent struct {
	shared.BaseEvent
	RecordID  RecordID         `json:"record_id"`
	StudentID roster.StudentID `json:"student_id"`
	Day       timeutil.Day     `json:"day"`
	Status    Status           `json:"status"`
}

// NewAttendanceMarkedEvent создаёт событие отметки посещаемости.
func NewAttendanceMarkedEvent(r *Record) AttendanceMarkedEvent {
	return AttendanceMarkedEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventAttendanceMarked, r.StudentID.String()),
		RecordID:  r.ID,
		StudentID: r.StudentID,
		Day:       r.Day,
		Status:    r.Status,
	}
}
