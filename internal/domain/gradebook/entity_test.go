package gradebook

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/classtrack-backend/internal/domain/roster"
	"github.com/classtrack/classtrack-backend/pkg/timeutil"
)

func TestLetterFor_Breakpoints(t *testing.T) {
	cases := []struct {
		percentage float64
		letter     Letter
	}{
		{100, "A+"},
		{97, "A+"}, // нижняя граница включительна
		{96.99, "A"},
		{93, "A"},
		{90, "A-"},
		{87, "B+"},
		{83, "B"},
		{80, "B-"},
		{77, "C+"},
		{73, "C"},
		{70, "C-"},
		{67, "D+"},
		{63, "D"},
		{60, "D-"},
		{59.99, "F"},
		{0, "F"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.letter, LetterFor(tc.percentage), "percentage %.2f", tc.percentage)
	}
}

func TestDerive(t *testing.T) {
	percentage, letter, err := Derive(42, 60)
	require.NoError(t, err)
	assert.Equal(t, 70.0, percentage)
	assert.Equal(t, Letter("C-"), letter)

	percentage, letter, err = Derive(59, 60)
	require.NoError(t, err)
	assert.Equal(t, 98.33, percentage) // округление до 2 знаков
	assert.Equal(t, Letter("A+"), letter)

	percentage, _, err = Derive(0, 100)
	require.NoError(t, err)
	assert.Equal(t, 0.0, percentage)
}

func TestDerive_Invalid(t *testing.T) {
	_, _, err := Derive(-1, 100)
	assert.ErrorIs(t, err, ErrInvalidScore)

	_, _, err = Derive(math.NaN(), 100)
	assert.ErrorIs(t, err, ErrInvalidScore)

	_, _, err = Derive(50, 0)
	assert.ErrorIs(t, err, ErrInvalidMaxScore)

	_, _, err = Derive(50, -10)
	assert.ErrorIs(t, err, ErrInvalidMaxScore)

	_, _, err = Derive(50, math.Inf(1))
	assert.ErrorIs(t, err, ErrInvalidMaxScore)
}

func TestSubject_IsValid(t *testing.T) {
	assert.True(t, SubjectMathematics.IsValid())
	assert.True(t, SubjectPE.IsValid())
	assert.False(t, Subject("Astronomy").IsValid())
	assert.False(t, Subject("").IsValid())
}

func TestIsUsablePercentage(t *testing.T) {
	assert.True(t, IsUsablePercentage(0))
	assert.True(t, IsUsablePercentage(87.5))
	assert.False(t, IsUsablePercentage(-1))
	assert.False(t, IsUsablePercentage(math.NaN()))
	assert.False(t, IsUsablePercentage(math.Inf(1)))
}

func TestNewGrade(t *testing.T) {
	grade, err := NewGrade(NewGradeParams{
		StudentID: 1,
		Subject:   SubjectScience,
		Score:     45,
		MaxScore:  50,
		Semester:  "Fall 2026",
		Date:      timeutil.MustParseDay("2026-09-10"),
	})
	require.NoError(t, err)

	assert.Equal(t, 90.0, grade.Percentage)
	assert.Equal(t, Letter("A-"), grade.Letter)
	assert.Equal(t, "2026-09-10", grade.Date.String())
	assert.Equal(t, GradeID(0), grade.ID) // ID назначает хранилище
}

func TestNewGrade_DefaultsDateToToday(t *testing.T) {
	grade, err := NewGrade(NewGradeParams{
		StudentID: 1,
		Subject:   SubjectEnglish,
		Score:     10,
		MaxScore:  20,
	})
	require.NoError(t, err)
	assert.True(t, grade.Date.Equal(timeutil.Today()))
}

func TestNewGrade_Validation(t *testing.T) {
	_, err := NewGrade(NewGradeParams{StudentID: 0, Subject: SubjectEnglish, Score: 1, MaxScore: 2})
	assert.ErrorIs(t, err, roster.ErrInvalidStudentID)

	_, err = NewGrade(NewGradeParams{StudentID: 1, Subject: "Alchemy", Score: 1, MaxScore: 2})
	assert.ErrorIs(t, err, ErrInvalidSubject)

	_, err = NewGrade(NewGradeParams{StudentID: 1, Subject: SubjectEnglish, Score: -1, MaxScore: 2})
	assert.ErrorIs(t, err, ErrInvalidScore)
}

func TestGrade_Rescore(t *testing.T) {
	grade, err := NewGrade(NewGradeParams{
		StudentID: 1,
		Subject:   SubjectHistory,
		Score:     50,
		MaxScore:  100,
	})
	require.NoError(t, err)
	assert.Equal(t, Letter("F"), grade.Letter)

	require.NoError(t, grade.Rescore(85, 100))
	assert.Equal(t, 85.0, grade.Percentage)
	assert.Equal(t, Letter("B"), grade.Letter)

	// невалидный пересчёт не трогает запись
	err = grade.Rescore(85, 0)
	assert.ErrorIs(t, err, ErrInvalidMaxScore)
	assert.Equal(t, 85.0, grade.Percentage)
}
