package command

import (
	"context"
	"log/slog"
	"strings"

	"github.com/classtrack/classtrack-backend/internal/domain/department"
	"github.com/classtrack/classtrack-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// DEPARTMENT COMMANDS
// Справочник кафедр: создание, обновление, удаление.
// ══════════════════════════════════════════════════════════════════════════════

// CreateDepartmentCommand содержит данные новой кафедры.
type CreateDepartmentCommand struct {
	Name        string
	Description string
	Location    string
	Phone       string
	Tags        []string
}

// UpdateDepartmentCommand содержит изменяемые поля кафедры.
// Nil-указатель означает "поле не менять".
type UpdateDepartmentCommand struct {
	DepartmentID int
	Name         *string
	Description  *string
	Location     *string
	Phone        *string
	Tags         *[]string
}

// DeleteDepartmentCommand содержит идентификатор удаляемой кафедры.
type DeleteDepartmentCommand struct {
	DepartmentID int
}

// DepartmentHandler обрабатывает все команды над кафедрами.
type DepartmentHandler struct {
	departments department.Repository
	logger      *slog.Logger
}

// NewDepartmentHandler создаёт новый обработчик команд кафедр.
func NewDepartmentHandler(departments department.Repository, logger *slog.Logger) *DepartmentHandler {
	return &DepartmentHandler{departments: departments, logger: logger}
}

// Create создаёт новую кафедру.
func (h *DepartmentHandler) Create(ctx context.Context, cmd CreateDepartmentCommand) (*department.Department, error) {
	dep, err := department.NewDepartment(department.NewDepartmentParams{
		Name:        cmd.Name,
		Description: cmd.Description,
		Location:    cmd.Location,
		Phone:       cmd.Phone,
		Tags:        strings.Join(cmd.Tags, ", "),
	})
	if err != nil {
		return nil, shared.WrapError("department", "Create", shared.ErrValidation, "invalid department", err)
	}

	created, err := h.departments.Create(ctx, dep)
	if err != nil {
		return nil, shared.WrapError("department", "Create", shared.ErrExternalService, "failed to create department", err)
	}

	h.logger.Info("department created",
		slog.Int("department_id", created.ID.Int()),
		slog.String("name", created.Name),
	)
	return created, nil
}

// Update обновляет существующую кафедру.
func (h *DepartmentHandler) Update(ctx context.Context, cmd UpdateDepartmentCommand) (*department.Department, error) {
	id := department.DepartmentID(cmd.DepartmentID)
	if !id.IsValid() {
		return nil, shared.WrapError("department", "Update", shared.ErrInvalidID, "invalid department id", department.ErrInvalidDepartmentID)
	}

	dep, err := h.departments.GetByID(ctx, id)
	if err != nil {
		return nil, shared.WrapError("department", "Update", shared.ErrNotFound, "department not found", err)
	}

	if cmd.Name != nil {
		name := strings.TrimSpace(*cmd.Name)
		if len(name) == 0 || len(name) > 100 {
			return nil, shared.WrapError("department", "Update", shared.ErrValidation, "invalid name", department.ErrInvalidDepartmentName)
		}
		dep.Name = name
	}
	if cmd.Description != nil {
		dep.Description = *cmd.Description
	}
	if cmd.Location != nil {
		dep.Location = strings.TrimSpace(*cmd.Location)
	}
	if cmd.Phone != nil {
		dep.Phone = strings.TrimSpace(*cmd.Phone)
	}
	if cmd.Tags != nil {
		dep.Tags = strings.Join(*cmd.Tags, ", ")
	}

	updated, err := h.departments.Update(ctx, dep)
	if err != nil {
		return nil, shared.WrapError("department", "Update", shared.ErrExternalService, "failed to update department", err)
	}

	h.logger.Info("department updated", slog.Int("department_id", updated.ID.Int()))
	return updated, nil
}

// Delete удаляет кафедру.
func (h *DepartmentHandler) Delete(ctx context.Context, cmd DeleteDepartmentCommand) error {
	id := department.DepartmentID(cmd.DepartmentID)
	if !id.IsValid() {
		return shared.WrapError("department", "Delete", shared.ErrInvalidID, "invalid department id", department.ErrInvalidDepartmentID)
	}

	if err := h.departments.Delete(ctx, id); err != nil {
		return shared.WrapError("department", "Delete", shared.ErrNotFound, "failed to delete department", err)
	}

	h.logger.Info("department deleted", slog.Int("department_id", id.Int()))
	return nil
}
