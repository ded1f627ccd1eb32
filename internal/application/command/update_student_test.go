package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/classtrack-backend/internal/domain/roster"
	"github.com/classtrack/classtrack-backend/internal/domain/shared"
	"github.com/classtrack/classtrack-backend/internal/infrastructure/persistence/memory"
)

func TestUpdateStudent_PartialUpdate(t *testing.T) {
	ctx := context.Background()
	p := memory.NewProvider()
	student := seedStudent(t, p, "STU-001")
	published := &stubPublisher{}
	handler := NewUpdateStudentHandler(p.Students(), published, testLogger())

	updated, err := handler.Handle(ctx, UpdateStudentCommand{
		StudentID: student.ID.Int(),
		Class:     strPtr("11-B"),
		Status:    strPtr("inactive"),
	})
	require.NoError(t, err)

	// нетронутые поля сохраняются
	assert.Equal(t, "11-B", updated.Class)
	assert.Equal(t, roster.StatusInactive, updated.Status)
	assert.Equal(t, student.FirstName, updated.FirstName)
	assert.Equal(t, student.Code, updated.Code)

	require.Len(t, published.events, 1)
	assert.Equal(t, shared.EventStudentUpdated, published.events[0].EventType())
}

func TestUpdateStudent_Validation(t *testing.T) {
	ctx := context.Background()
	p := memory.NewProvider()
	student := seedStudent(t, p, "STU-001")
	handler := NewUpdateStudentHandler(p.Students(), nil, testLogger())

	_, err := handler.Handle(ctx, UpdateStudentCommand{
		StudentID: student.ID.Int(),
		FirstName: strPtr("   "),
	})
	assert.ErrorIs(t, err, roster.ErrInvalidName)

	_, err = handler.Handle(ctx, UpdateStudentCommand{
		StudentID: student.ID.Int(),
		Email:     strPtr("broken@"),
	})
	assert.ErrorIs(t, err, roster.ErrInvalidEmail)

	_, err = handler.Handle(ctx, UpdateStudentCommand{
		StudentID: student.ID.Int(),
		Status:    strPtr("expelled"),
	})
	assert.ErrorIs(t, err, roster.ErrInvalidStatus)
}

func TestUpdateStudent_CodeCollision(t *testing.T) {
	ctx := context.Background()
	p := memory.NewProvider()
	seedStudent(t, p, "STU-001")
	second := seedStudent(t, p, "STU-002")
	handler := NewUpdateStudentHandler(p.Students(), nil, testLogger())

	_, err := handler.Handle(ctx, UpdateStudentCommand{
		StudentID: second.ID.Int(),
		Code:      strPtr("STU-001"),
	})
	assert.ErrorIs(t, err, roster.ErrCodeTaken)
}

func TestUpdateStudent_NotFound(t *testing.T) {
	ctx := context.Background()
	handler := NewUpdateStudentHandler(memory.NewProvider().Students(), nil, testLogger())

	_, err := handler.Handle(ctx, UpdateStudentCommand{StudentID: 99})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRemoveStudent(t *testing.T) {
	ctx := context.Background()
	p := memory.NewProvider()
	student := seedStudent(t, p, "STU-001")
	published := &stubPublisher{}
	handler := NewRemoveStudentHandler(p.Students(), published, testLogger())

	require.NoError(t, handler.Handle(ctx, RemoveStudentCommand{StudentID: student.ID.Int()}))

	_, err := p.Students().GetByID(ctx, student.ID)
	assert.ErrorIs(t, err, roster.ErrStudentNotFound)

	require.Len(t, published.events, 1)
	assert.Equal(t, shared.EventStudentRemoved, published.events[0].EventType())

	err = handler.Handle(ctx, RemoveStudentCommand{StudentID: student.ID.Int()})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
