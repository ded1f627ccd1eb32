// Package postgres implements the PostgreSQL persistence layer for the
// school dashboard.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/classtrack/classtrack-backend/internal/domain/roster"
	"github.com/classtrack/classtrack-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const studentColumns = `id, first_name, last_name, code, email, phone,
	grade_level, class, status, enrolled_on, photo_url, created_at, updated_at`

// StudentRepository implements roster.Repository for PostgreSQL.
type StudentRepository struct {
	conn *Connection
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(conn *Connection) *StudentRepository {
	return &StudentRepository{conn: conn}
}

// List returns all students in insertion order.
func (r *StudentRepository) List(ctx context.Context) ([]*roster.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students ORDER BY id", studentColumns)

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	return r.scanStudents(rows)
}

// GetByID returns a student by ID.
func (r *StudentRepository) GetByID(ctx context.Context, id roster.StudentID) (*roster.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE id = $1", studentColumns)

	row := r.conn.QueryRow(ctx, query, id.Int())
	return r.scanStudent(row)
}

// Create inserts a new student and returns it with the assigned ID.
func (r *StudentRepository) Create(ctx context.Context, s *roster.Student) (*roster.Student, error) {
	query := `
		INSERT INTO students (
			first_name, last_name, code, email, phone, grade_level,
			class, status, enrolled_on, photo_url, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`

	now := time.Now().UTC()
	var id int
	err := r.conn.QueryRow(ctx, query,
		s.FirstName,
		s.LastName,
		string(s.Code),
		string(s.Email),
		s.Phone,
		string(s.GradeLevel),
		s.Class,
		string(s.Status),
		s.EnrolledOn.Time(),
		s.PhotoURL,
		now,
		now,
	).Scan(&id)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, roster.ErrCodeTaken
		}
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	created := s.Clone()
	created.ID = roster.StudentID(id)
	created.CreatedAt = now
	created.UpdatedAt = now
	return created, nil
}

// Update updates a student.
func (r *StudentRepository) Update(ctx context.Context, s *roster.Student) (*roster.Student, error) {
	query := `
		UPDATE students SET
			first_name = $1,
			last_name = $2,
			code = $3,
			email = $4,
			phone = $5,
			grade_level = $6,
			class = $7,
			status = $8,
			enrolled_on = $9,
			photo_url = $10,
			updated_at = $11
		WHERE id = $12
	`

	now := time.Now().UTC()
	result, err := r.conn.Exec(ctx, query,
		s.FirstName,
		s.LastName,
		string(s.Code),
		string(s.Email),
		s.Phone,
		string(s.GradeLevel),
		s.Class,
		string(s.Status),
		s.EnrolledOn.Time(),
		s.PhotoURL,
		now,
		s.ID.Int(),
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, roster.ErrCodeTaken
		}
		return nil, fmt.Errorf("failed to update student: %w", err)
	}

	if result.RowsAffected() == 0 {
		return nil, roster.ErrStudentNotFound
	}

	updated := s.Clone()
	updated.UpdatedAt = now
	return updated, nil
}

// Delete removes a student. Grades and attendance cascade.
func (r *StudentRepository) Delete(ctx context.Context, id roster.StudentID) error {
	result, err := r.conn.Exec(ctx, "DELETE FROM students WHERE id = $1", id.Int())
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}

	if result.RowsAffected() == 0 {
		return roster.ErrStudentNotFound
	}

	return nil
}

// Search returns students whose name, code or email contains the query.
func (r *StudentRepository) Search(ctx context.Context, query string) ([]*roster.Student, error) {
	sql := fmt.Sprintf(`
		SELECT %s FROM students
		WHERE first_name ILIKE $1 OR last_name ILIKE $1 OR code ILIKE $1 OR email ILIKE $1
		ORDER BY id
	`, studentColumns)

	rows, err := r.conn.Query(ctx, sql, "%"+query+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search students: %w", err)
	}
	defer rows.Close()

	return r.scanStudents(rows)
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan Helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *StudentRepository) scanStudent(row pgx.Row) (*roster.Student, error) {
	var (
		s          roster.Student
		id         int
		code       string
		email      string
		gradeLevel string
		status     string
		enrolledOn time.Time
	)

	err := row.Scan(
		&id,
		&s.FirstName,
		&s.LastName,
		&code,
		&email,
		&s.Phone,
		&gradeLevel,
		&s.Class,
		&status,
		&enrolledOn,
		&s.PhotoURL,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, roster.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to scan student: %w", err)
	}

	s.ID = roster.StudentID(id)
	s.Code = roster.Code(code)
	s.Email = roster.Email(email)
	s.GradeLevel = roster.GradeLevel(gradeLevel)
	s.Status = roster.Status(status)
	s.EnrolledOn = timeutil.FromTime(enrolledOn)
	return &s, nil
}

func (r *StudentRepository) scanStudents(rows pgx.Rows) ([]*roster.Student, error) {
	students := make([]*roster.Student, 0)
	for rows.Next() {
		s, err := r.scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}
