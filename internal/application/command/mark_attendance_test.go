package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/classtrack-backend/internal/domain/attendance"
	"github.com/classtrack/classtrack-backend/internal/domain/shared"
	"github.com/classtrack/classtrack-backend/internal/infrastructure/persistence/memory"
)

func TestMarkAttendance(t *testing.T) {
	ctx := context.Background()
	p := memory.NewProvider()
	student := seedStudent(t, p, "STU-001")
	published := &stubPublisher{}
	handler := NewMarkAttendanceHandler(p.Attendance(), p.Students(), published, testLogger())

	record, err := handler.Handle(ctx, MarkAttendanceCommand{
		StudentID: student.ID.Int(),
		Date:      "2026-03-16",
		Status:    "excused",
		Notes:     "doctor visit",
	})
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusExcused, record.Status)
	assert.Equal(t, "doctor visit", record.Notes)

	require.Len(t, published.events, 1)
	assert.Equal(t, shared.EventAttendanceMarked, published.events[0].EventType())
}

func TestMarkAttendance_OverwritesExisting(t *testing.T) {
	ctx := context.Background()
	p := memory.NewProvider()
	student := seedStudent(t, p, "STU-001")
	handler := NewMarkAttendanceHandler(p.Attendance(), p.Students(), nil, testLogger())

	first, err := handler.Handle(ctx, MarkAttendanceCommand{
		StudentID: student.ID.Int(),
		Date:      "2026-03-16",
		Status:    "present",
	})
	require.NoError(t, err)

	// повторная отметка той же ячейки перезаписывает предыдущую
	second, err := handler.Handle(ctx, MarkAttendanceCommand{
		StudentID: student.ID.Int(),
		Date:      "2026-03-16",
		Status:    "absent",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, attendance.StatusAbsent, second.Status)

	list, err := p.Attendance().List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestMarkAttendance_Validation(t *testing.T) {
	ctx := context.Background()
	p := memory.NewProvider()
	student := seedStudent(t, p, "STU-001")
	handler := NewMarkAttendanceHandler(p.Attendance(), p.Students(), nil, testLogger())

	_, err := handler.Handle(ctx, MarkAttendanceCommand{
		StudentID: student.ID.Int(),
		Status:    "vacation",
	})
	assert.ErrorIs(t, err, attendance.ErrInvalidStatus)

	_, err = handler.Handle(ctx, MarkAttendanceCommand{StudentID: 99, Status: "present"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestClearAttendance(t *testing.T) {
	ctx := context.Background()
	p := memory.NewProvider()
	student := seedStudent(t, p, "STU-001")

	mark := NewMarkAttendanceHandler(p.Attendance(), p.Students(), nil, testLogger())
	record, err := mark.Handle(ctx, MarkAttendanceCommand{
		StudentID: student.ID.Int(),
		Date:      "2026-03-16",
		Status:    "present",
	})
	require.NoError(t, err)

	clear := NewClearAttendanceHandler(p.Attendance(), testLogger())
	require.NoError(t, clear.Handle(ctx, ClearAttendanceCommand{RecordID: record.ID.Int()}))

	// ячейка вернулась в состояние "нет отметки"
	_, err = p.Attendance().FindByStudentAndDay(ctx, student.ID, record.Day)
	assert.ErrorIs(t, err, attendance.ErrRecordNotFound)

	err = clear.Handle(ctx, ClearAttendanceCommand{RecordID: record.ID.Int()})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	err = clear.Handle(ctx, ClearAttendanceCommand{RecordID: 0})
	assert.ErrorIs(t, err, shared.ErrInvalidID)
}
