package roster

import (
	"github.com/classtrack/classtrack-backend/internal/domain/shared"
)

// StudentEnrolledEvent создаётся при зачислении нового студента.
type StudentEnrolledEvent struct {
	shared.BaseEvent
	StudentID  StudentID `json:"student_id"`
	Code       string    `json:"code"`
	FullName   string    `json:"full_name"`
	Class      string    `json:"class"`
	GradeLevel string    `json:"grade_level"`
}

// NewStudentEnrolledEvent создаёт событие зачисления.
func NewStudentEnrolledEvent(s *Student) StudentEnrolledEvent {
	return StudentEnrolledEvent{
		BaseEvent:  shared.NewBaseEvent(shared.EventStudentEnrolled, s.ID.String()),
		StudentID:  s.ID,
		Code:       string(s.Code),
		FullName:   s.FullName(),
		Class:      s.Class,
		GradeLevel: string(s.GradeLevel),
	}
}

// StudentUpdatedEvent создаётся при изменении данных студента.
type StudentUpdatedEvent struct {
	shared.BaseEvent
	StudentID StudentID `json:"student_id"`
	Status    Status    `json:"status"`
}

// NewStudentUpdatedEvent создаёт событие обновления.
func NewStudentUpdatedEvent(s *Student) StudentUpdatedEvent {
	return StudentUpdatedEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventStudentUpdated, s.ID.String()),
		StudentID: s.ID,
		Status:    s.Status,
	}
}

// StudentRemovedEvent создаётся при удалении студента из ростера.
type StudentRemovedEvent struct {
	shared.BaseEvent
	StudentID StudentID `json:"student_id"`
}

// NewStudentRemovedEvent создаёт событие удаления.
func NewStudentRemovedEvent(id StudentID) StudentRemovedEvent {
	return StudentRemovedEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventStudentRemoved, id.String()),
		StudentID: id,
	}
}
