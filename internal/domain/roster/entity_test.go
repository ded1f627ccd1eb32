package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/classtrack-backend/pkg/timeutil"
)

func validParams() NewStudentParams {
	return NewStudentParams{
		FirstName:  "Aliya",
		LastName:   "Nurlanova",
		Code:       "STU-2024-017",
		Email:      "aliya@example.com",
		GradeLevel: GradeLevel10,
		Class:      "10-A",
	}
}

func TestNewStudent(t *testing.T) {
	params := validParams()
	params.FirstName = "  Aliya "
	params.Phone = " +7 700 000 00 00 "
	params.Class = " 10-A "

	student, err := NewStudent(params)
	require.NoError(t, err)

	assert.Equal(t, StudentID(0), student.ID, "идентификатор назначает хранилище")
	assert.Equal(t, "Aliya", student.FirstName)
	assert.Equal(t, "+7 700 000 00 00", student.Phone)
	assert.Equal(t, "10-A", student.Class)
	assert.Equal(t, StatusActive, student.Status)
	assert.True(t, student.EnrolledOn.Equal(timeutil.Today()))
	assert.Equal(t, "Aliya Nurlanova", student.FullName())
}

func TestNewStudent_ExplicitStatusAndDate(t *testing.T) {
	params := validParams()
	params.Status = StatusGraduated
	params.EnrolledOn = timeutil.MustParseDay("2022-09-01")

	student, err := NewStudent(params)
	require.NoError(t, err)
	assert.Equal(t, StatusGraduated, student.Status)
	assert.Equal(t, "2022-09-01", student.EnrolledOn.String())
}

func TestNewStudent_Validation(t *testing.T) {
	params := validParams()
	params.FirstName = "   "
	_, err := NewStudent(params)
	assert.ErrorIs(t, err, ErrInvalidName)

	params = validParams()
	params.Code = "X"
	_, err = NewStudent(params)
	assert.ErrorIs(t, err, ErrInvalidCode)

	params = validParams()
	params.Code = "STU 17"
	_, err = NewStudent(params)
	assert.ErrorIs(t, err, ErrInvalidCode)

	params = validParams()
	params.Email = "not-an-email"
	_, err = NewStudent(params)
	assert.ErrorIs(t, err, ErrInvalidEmail)

	params = validParams()
	params.GradeLevel = "13th Grade"
	_, err = NewStudent(params)
	assert.ErrorIs(t, err, ErrInvalidGradeLevel)

	params = validParams()
	params.Status = "expelled"
	_, err = NewStudent(params)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestCode_IsValid(t *testing.T) {
	assert.True(t, Code("ST").IsValid())
	assert.True(t, Code("STU-2024-017").IsValid())
	assert.False(t, Code("S").IsValid())
	assert.False(t, Code("STU 2024").IsValid())
	assert.False(t, Code("").IsValid())
}

func TestEmail_IsValid(t *testing.T) {
	assert.True(t, Email("").IsValid(), "email опционален")
	assert.True(t, Email("a@b.kz").IsValid())
	assert.False(t, Email("@b.kz").IsValid())
	assert.False(t, Email("a@").IsValid())
	assert.False(t, Email("a@b@c").IsValid())
}

func TestStatus_IsActive(t *testing.T) {
	assert.True(t, StatusActive.IsActive())
	assert.False(t, StatusInactive.IsActive())
	assert.False(t, StatusGraduated.IsActive())
}

func TestStudent_SetStatus(t *testing.T) {
	student, err := NewStudent(validParams())
	require.NoError(t, err)

	require.NoError(t, student.SetStatus(StatusInactive))
	assert.Equal(t, StatusInactive, student.Status)

	// любой переход допустим, включая graduated -> active
	require.NoError(t, student.SetStatus(StatusGraduated))
	require.NoError(t, student.SetStatus(StatusActive))

	err = student.SetStatus("")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestStudent_MatchesQuery(t *testing.T) {
	student, err := NewStudent(validParams())
	require.NoError(t, err)

	assert.True(t, student.MatchesQuery(""))
	assert.True(t, student.MatchesQuery("  ALIYA "))
	assert.True(t, student.MatchesQuery("nurlan"))
	assert.True(t, student.MatchesQuery("stu-2024"))
	assert.True(t, student.MatchesQuery("example.com"))
	assert.False(t, student.MatchesQuery("bolat"))
}

func TestStudent_Clone(t *testing.T) {
	student, err := NewStudent(validParams())
	require.NoError(t, err)

	clone := student.Clone()
	clone.FirstName = "Changed"
	assert.Equal(t, "Aliya", student.FirstName)

	var nilStudent *Student
	assert.Nil(t, nilStudent.Clone())
}

func TestFilter_Matches(t *testing.T) {
	student, err := NewStudent(validParams())
	require.NoError(t, err)

	assert.True(t, Filter{}.Matches(student))
	assert.True(t, Filter{Class: FilterAll, GradeLevel: FilterAll, Status: FilterAll}.Matches(student))
	assert.True(t, Filter{Class: "10-A", GradeLevel: "10th Grade", Status: "active"}.Matches(student))
	assert.False(t, Filter{Class: "11-B"}.Matches(student))
	assert.False(t, Filter{GradeLevel: "9th Grade"}.Matches(student))
	assert.False(t, Filter{Status: "graduated"}.Matches(student))
}

func TestFilter_IsEmpty(t *testing.T) {
	assert.True(t, Filter{}.IsEmpty())
	assert.True(t, Filter{Class: FilterAll, Status: "all"}.IsEmpty())
	assert.False(t, Filter{Class: "10-A"}.IsEmpty())
}
