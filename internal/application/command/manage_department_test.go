package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/classtrack-backend/internal/domain/department"
	"github.com/classtrack/classtrack-backend/internal/domain/shared"
	"github.com/classtrack/classtrack-backend/internal/infrastructure/persistence/memory"
)

func TestDepartmentHandler_Create(t *testing.T) {
	ctx := context.Background()
	handler := NewDepartmentHandler(memory.NewProvider().Departments(), testLogger())

	dep, err := handler.Create(ctx, CreateDepartmentCommand{
		Name:     "Science",
		Location: "Building B",
		Tags:     []string{"stem"},
	})
	require.NoError(t, err)
	assert.Equal(t, department.DepartmentID(1), dep.ID)
	assert.Equal(t, "Science", dep.Name)
	assert.Equal(t, "stem", dep.Tags)

	_, err = handler.Create(ctx, CreateDepartmentCommand{Name: "   "})
	assert.ErrorIs(t, err, department.ErrInvalidDepartmentName)
}

func TestDepartmentHandler_Update(t *testing.T) {
	ctx := context.Background()
	handler := NewDepartmentHandler(memory.NewProvider().Departments(), testLogger())

	dep, err := handler.Create(ctx, CreateDepartmentCommand{Name: "Arts", Phone: "100"})
	require.NoError(t, err)

	updated, err := handler.Update(ctx, UpdateDepartmentCommand{
		DepartmentID: dep.ID.Int(),
		Name:         strPtr("Fine Arts"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Fine Arts", updated.Name)
	assert.Equal(t, "100", updated.Phone, "нетронутые поля сохраняются")

	_, err = handler.Update(ctx, UpdateDepartmentCommand{DepartmentID: 99})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = handler.Update(ctx, UpdateDepartmentCommand{
		DepartmentID: dep.ID.Int(),
		Name:         strPtr(""),
	})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestDepartmentHandler_Delete(t *testing.T) {
	ctx := context.Background()
	p := memory.NewProvider()
	handler := NewDepartmentHandler(p.Departments(), testLogger())

	dep, err := handler.Create(ctx, CreateDepartmentCommand{Name: "History"})
	require.NoError(t, err)

	require.NoError(t, handler.Delete(ctx, DeleteDepartmentCommand{DepartmentID: dep.ID.Int()}))
	_, err = p.Departments().GetByID(ctx, dep.ID)
	assert.ErrorIs(t, err, department.ErrDepartmentNotFound)

	err = handler.Delete(ctx, DeleteDepartmentCommand{DepartmentID: dep.ID.Int()})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
