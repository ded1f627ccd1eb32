// Package postgres implements the PostgreSQL persistence layer for the
// school dashboard.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/classtrack/classtrack-backend/internal/domain/department"
)

// ══════════════════════════════════════════════════════════════════════════════
// DEPARTMENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const departmentColumns = `id, name, description, location, phone, tags, created_at, updated_at`

// DepartmentRepository implements department.Repository for PostgreSQL.
type DepartmentRepository struct {
	conn *Connection
}

// NewDepartmentRepository creates a new DepartmentRepository.
func NewDepartmentRepository(conn *Connection) *DepartmentRepository {
	return &DepartmentRepository{conn: conn}
}

// List returns all departments sorted by name.
func (r *DepartmentRepository) List(ctx context.Context) ([]*department.Department, error) {
	query := fmt.Sprintf("SELECT %s FROM departments ORDER BY name", departmentColumns)

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	return r.scanDepartments(rows)
}

// GetByID returns a department by ID.
func (r *DepartmentRepository) GetByID(ctx context.Context, id department.DepartmentID) (*department.Department, error) {
	query := fmt.Sprintf("SELECT %s FROM departments WHERE id = $1", departmentColumns)

	row := r.conn.QueryRow(ctx, query, id.Int())
	return r.scanDepartment(row)
}

// Create inserts a new department and returns it with the assigned ID.
func (r *DepartmentRepository) Create(ctx context.Context, d *department.Department) (*department.Department, error) {
	query := `
		INSERT INTO departments (name, description, location, phone, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	now := time.Now().UTC()
	var id int
	err := r.conn.QueryRow(ctx, query,
		d.Name,
		d.Description,
		d.Location,
		d.Phone,
		d.Tags,
		now,
		now,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create department: %w", err)
	}

	created := d.Clone()
	created.ID = department.DepartmentID(id)
	created.CreatedAt = now
	created.UpdatedAt = now
	return created, nil
}

// Update updates a department.
func (r *DepartmentRepository) Update(ctx context.Context, d *department.Department) (*department.Department, error) {
	query := `
		UPDATE departments SET
			name = $1,
			description = $2,
			location = $3,
			phone = $4,
			tags = $5,
			updated_at = $6
		WHERE id = $7
	`

	now := time.Now().UTC()
	result, err := r.conn.Exec(ctx, query,
		d.Name,
		d.Description,
		d.Location,
		d.Phone,
		d.Tags,
		now,
		d.ID.Int(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update department: %w", err)
	}

	if result.RowsAffected() == 0 {
		return nil, department.ErrDepartmentNotFound
	}

	updated := d.Clone()
	updated.UpdatedAt = now
	return updated, nil
}

// Delete removes a department.
func (r *DepartmentRepository) Delete(ctx context.Context, id department.DepartmentID) error {
	result, err := r.conn.Exec(ctx, "DELETE FROM departments WHERE id = $1", id.Int())
	if err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}

	if result.RowsAffected() == 0 {
		return department.ErrDepartmentNotFound
	}

	return nil
}

// Search returns departments whose name or location contains the query.
func (r *DepartmentRepository) Search(ctx context.Context, query string) ([]*department.Department, error) {
	sql := fmt.Sprintf(`
		SELECT %s FROM departments
		WHERE name ILIKE $1 OR location ILIKE $1
		ORDER BY name
	`, departmentColumns)

	rows, err := r.conn.Query(ctx, sql, "%"+query+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search departments: %w", err)
	}
	defer rows.Close()

	return r.scanDepartments(rows)
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan Helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *DepartmentRepository) scanDepartment(row pgx.Row) (*department.Department, error) {
	var (
		d  department.Department
		id int
	)

	err := row.Scan(
		&id,
		&d.Name,
		&d.Description,
		&d.Location,
		&d.Phone,
		&d.Tags,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, department.ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to scan department: %w", err)
	}

	d.ID = department.DepartmentID(id)
	return &d, nil
}

func (r *DepartmentRepository) scanDepartments(rows pgx.Rows) ([]*department.Department, error) {
	departments := make([]*department.Department, 0)
	for rows.Next() {
		d, err := r.scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}
