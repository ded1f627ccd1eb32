package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/classtrack-backend/internal/domain/gradebook"
	"github.com/classtrack/classtrack-backend/internal/domain/shared"
	"github.com/classtrack/classtrack-backend/internal/infrastructure/persistence/memory"
)

func TestRecordGrade(t *testing.T) {
	ctx := context.Background()
	p := memory.NewProvider()
	student := seedStudent(t, p, "STU-001")
	published := &stubPublisher{}
	handler := NewRecordGradeHandler(p.Grades(), p.Students(), published, testLogger())

	grade, err := handler.Handle(ctx, RecordGradeCommand{
		StudentID: student.ID.Int(),
		Subject:   "Mathematics",
		Score:     42,
		MaxScore:  60,
		Date:      "2026-03-10",
	})
	require.NoError(t, err)

	// производные поля вычисляет домен
	assert.Equal(t, 70.0, grade.Percentage)
	assert.Equal(t, gradebook.Letter("C-"), grade.Letter)
	assert.Equal(t, gradebook.GradeID(1), grade.ID)

	require.Len(t, published.events, 1)
	assert.Equal(t, shared.EventGradeRecorded, published.events[0].EventType())
}

func TestRecordGrade_PersistsSemester(t *testing.T) {
	ctx := context.Background()
	p := memory.NewProvider()
	student := seedStudent(t, p, "STU-001")
	recordHandler := NewRecordGradeHandler(p.Grades(), p.Students(), &stubPublisher{}, testLogger())
	reviseHandler := NewReviseGradeHandler(p.Grades(), &stubPublisher{}, testLogger())

	grade, err := recordHandler.Handle(ctx, RecordGradeCommand{
		StudentID: student.ID.Int(),
		Subject:   "Mathematics",
		Semester:  "Fall 2026",
		Score:     42,
		MaxScore:  60,
	})
	require.NoError(t, err)
	assert.Equal(t, "Fall 2026", grade.Semester)

	// метка семестра доходит до хранилища
	stored, err := p.Grades().GetByID(ctx, grade.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fall 2026", stored.Semester)

	revised, err := reviseHandler.Handle(ctx, ReviseGradeCommand{
		GradeID:  grade.ID.Int(),
		Semester: strPtr("Spring 2027"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Spring 2027", revised.Semester)

	stored, err = p.Grades().GetByID(ctx, grade.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spring 2027", stored.Semester)
}

func TestRecordGrade_UnknownStudent(t *testing.T) {
	ctx := context.Background()
	p := memory.NewProvider()
	handler := NewRecordGradeHandler(p.Grades(), p.Students(), nil, testLogger())

	_, err := handler.Handle(ctx, RecordGradeCommand{
		StudentID: 99,
		Subject:   "Mathematics",
		Score:     42,
		MaxScore:  60,
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRecordGrade_Validation(t *testing.T) {
	ctx := context.Background()
	p := memory.NewProvider()
	student := seedStudent(t, p, "STU-001")
	handler := NewRecordGradeHandler(p.Grades(), p.Students(), nil, testLogger())

	_, err := handler.Handle(ctx, RecordGradeCommand{
		StudentID: student.ID.Int(),
		Subject:   "Astronomy",
		Score:     42,
		MaxScore:  60,
	})
	assert.ErrorIs(t, err, gradebook.ErrInvalidSubject)

	_, err = handler.Handle(ctx, RecordGradeCommand{
		StudentID: student.ID.Int(),
		Subject:   "Mathematics",
		Score:     42,
		MaxScore:  0,
	})
	assert.ErrorIs(t, err, gradebook.ErrInvalidMaxScore)
}

func TestReviseGrade(t *testing.T) {
	ctx := context.Background()
	p := memory.NewProvider()
	student := seedStudent(t, p, "STU-001")
	published := &stubPublisher{}

	record := NewRecordGradeHandler(p.Grades(), p.Students(), nil, testLogger())
	grade, err := record.Handle(ctx, RecordGradeCommand{
		StudentID: student.ID.Int(),
		Subject:   "Mathematics",
		Score:     30,
		MaxScore:  60,
	})
	require.NoError(t, err)

	revise := NewReviseGradeHandler(p.Grades(), published, testLogger())
	revised, err := revise.Handle(ctx, ReviseGradeCommand{
		GradeID: grade.ID.Int(),
		Score:   floatPtr(51),
	})
	require.NoError(t, err)

	// при изменении балла процент и буква пересчитываются
	assert.Equal(t, 85.0, revised.Percentage)
	assert.Equal(t, gradebook.Letter("B"), revised.Letter)

	require.Len(t, published.events, 1)
	assert.Equal(t, shared.EventGradeRevised, published.events[0].EventType())
}

func TestReviseGrade_PartialUpdate(t *testing.T) {
	ctx := context.Background()
	p := memory.NewProvider()
	student := seedStudent(t, p, "STU-001")

	record := NewRecordGradeHandler(p.Grades(), p.Students(), nil, testLogger())
	grade, err := record.Handle(ctx, RecordGradeCommand{
		StudentID: student.ID.Int(),
		Subject:   "Mathematics",
		Score:     45,
		MaxScore:  50,
	})
	require.NoError(t, err)

	revise := NewReviseGradeHandler(p.Grades(), nil, testLogger())
	revised, err := revise.Handle(ctx, ReviseGradeCommand{
		GradeID: grade.ID.Int(),
		Subject: strPtr("English"),
	})
	require.NoError(t, err)

	// балл не менялся - процент остаётся прежним
	assert.Equal(t, gradebook.SubjectEnglish, revised.Subject)
	assert.Equal(t, 90.0, revised.Percentage)
}

func TestReviseGrade_NotFound(t *testing.T) {
	ctx := context.Background()
	handler := NewReviseGradeHandler(memory.NewProvider().Grades(), nil, testLogger())

	_, err := handler.Handle(ctx, ReviseGradeCommand{GradeID: 99})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = handler.Handle(ctx, ReviseGradeCommand{GradeID: 0})
	assert.ErrorIs(t, err, shared.ErrInvalidID)
}

func TestDeleteGrade(t *testing.T) {
	ctx := context.Background()
	p := memory.NewProvider()
	student := seedStudent(t, p, "STU-001")
	published := &stubPublisher{}

	record := NewRecordGradeHandler(p.Grades(), p.Students(), nil, testLogger())
	grade, err := record.Handle(ctx, RecordGradeCommand{
		StudentID: student.ID.Int(),
		Subject:   "Mathematics",
		Score:     45,
		MaxScore:  50,
	})
	require.NoError(t, err)

	del := NewDeleteGradeHandler(p.Grades(), published, testLogger())
	require.NoError(t, del.Handle(ctx, DeleteGradeCommand{GradeID: grade.ID.Int()}))

	_, err = p.Grades().GetByID(ctx, grade.ID)
	assert.ErrorIs(t, err, gradebook.ErrGradeNotFound)

	require.Len(t, published.events, 1)
	assert.Equal(t, shared.EventGradeDeleted, published.events[0].EventType())

	err = del.Handle(ctx, DeleteGradeCommand{GradeID: grade.ID.Int()})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
